package analysis

import (
	"context"
	"strings"
	"time"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/python"

	"github.com/krishnaji/testmozart/internal/logging"
)

// Analyzer parses source code with tree-sitter and extracts its structure.
type Analyzer struct {
	pythonParser *sitter.Parser
	goParser     *sitter.Parser
}

// NewAnalyzer creates an analyzer with parsers for all supported languages.
func NewAnalyzer() *Analyzer {
	pyParser := sitter.NewParser()
	pyParser.SetLanguage(python.GetLanguage())

	goParser := sitter.NewParser()
	goParser.SetLanguage(golang.GetLanguage())

	return &Analyzer{
		pythonParser: pyParser,
		goParser:     goParser,
	}
}

// Close releases resources held by the parsers.
func (a *Analyzer) Close() {
	a.pythonParser.Close()
	a.goParser.Close()
}

// Analyze parses the source and returns its structural report. The language
// string follows the run request ("python", "go"); anything else is
// ErrUnsupportedLanguage.
func (a *Analyzer) Analyze(ctx context.Context, sourceCode, language string) (Report, error) {
	start := time.Now()
	lang := strings.ToLower(strings.TrimSpace(language))

	var (
		report Report
		err    error
	)
	switch lang {
	case "python", "py":
		report, err = a.analyzePython(ctx, []byte(sourceCode))
	case "go", "golang":
		report, err = a.analyzeGo(ctx, []byte(sourceCode))
	default:
		return Report{}, ErrUnsupportedLanguage
	}
	if err != nil {
		return Report{}, err
	}

	logging.Analysis("Analyzed %s source: %d classes, %d functions in %v",
		lang, len(report.Classes), len(report.Functions), time.Since(start))
	return report, nil
}

// =============================================================================
// PYTHON
// =============================================================================

func (a *Analyzer) analyzePython(ctx context.Context, content []byte) (Report, error) {
	tree, err := a.pythonParser.ParseCtx(ctx, nil, content)
	if err != nil {
		return Report{}, err
	}
	defer tree.Close()

	report := Report{Language: "python", Classes: []Class{}, Functions: []Function{}}
	root := tree.RootNode()

	for i := 0; i < int(root.NamedChildCount()); i++ {
		a.collectPythonNode(root.NamedChild(i), content, &report)
	}
	return report, nil
}

func (a *Analyzer) collectPythonNode(node *sitter.Node, content []byte, report *Report) {
	switch node.Type() {
	case "class_definition":
		if cls := parsePythonClass(node, content); cls != nil {
			report.Classes = append(report.Classes, *cls)
		}
	case "function_definition":
		fn := parsePythonFunction(node, content, "function")
		if fn != nil {
			report.Functions = append(report.Functions, *fn)
		}
	case "decorated_definition":
		// Unwrap decorators and handle the inner definition
		for j := 0; j < int(node.NamedChildCount()); j++ {
			inner := node.NamedChild(j)
			if inner.Type() == "class_definition" || inner.Type() == "function_definition" {
				a.collectPythonNode(inner, content, report)
			}
		}
	}
}

func parsePythonClass(node *sitter.Node, content []byte) *Class {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}

	cls := &Class{
		Type:      "class",
		Name:      nodeText(nameNode, content),
		Docstring: pythonDocstring(node.ChildByFieldName("body"), content),
		Methods:   []Function{},
	}

	body := node.ChildByFieldName("body")
	if body != nil {
		for i := 0; i < int(body.NamedChildCount()); i++ {
			child := body.NamedChild(i)
			target := child
			if child.Type() == "decorated_definition" {
				for j := 0; j < int(child.NamedChildCount()); j++ {
					if child.NamedChild(j).Type() == "function_definition" {
						target = child.NamedChild(j)
					}
				}
			}
			if target.Type() == "function_definition" {
				if m := parsePythonFunction(target, content, "method"); m != nil {
					cls.Methods = append(cls.Methods, *m)
				}
			}
		}
	}

	return cls
}

func parsePythonFunction(node *sitter.Node, content []byte, kind string) *Function {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}

	fn := &Function{
		Type:       kind,
		Name:       nodeText(nameNode, content),
		Docstring:  pythonDocstring(node.ChildByFieldName("body"), content),
		Parameters: []Parameter{},
	}

	if ret := node.ChildByFieldName("return_type"); ret != nil {
		fn.ReturnType = nodeText(ret, content)
	}

	params := node.ChildByFieldName("parameters")
	if params != nil {
		for i := 0; i < int(params.NamedChildCount()); i++ {
			p := params.NamedChild(i)
			switch p.Type() {
			case "identifier":
				fn.Parameters = append(fn.Parameters, Parameter{Name: nodeText(p, content)})
			case "typed_parameter":
				param := Parameter{}
				if p.NamedChildCount() > 0 {
					param.Name = nodeText(p.NamedChild(0), content)
				}
				if tn := p.ChildByFieldName("type"); tn != nil {
					param.Annotation = nodeText(tn, content)
				}
				fn.Parameters = append(fn.Parameters, param)
			case "default_parameter", "typed_default_parameter":
				param := Parameter{}
				if n := p.ChildByFieldName("name"); n != nil {
					param.Name = nodeText(n, content)
				}
				if tn := p.ChildByFieldName("type"); tn != nil {
					param.Annotation = nodeText(tn, content)
				}
				fn.Parameters = append(fn.Parameters, param)
			}
		}
	}

	return fn
}

// pythonDocstring extracts a leading string literal from a block, quotes
// stripped.
func pythonDocstring(body *sitter.Node, content []byte) string {
	if body == nil || body.NamedChildCount() == 0 {
		return ""
	}
	first := body.NamedChild(0)
	if first.Type() != "expression_statement" || first.NamedChildCount() == 0 {
		return ""
	}
	str := first.NamedChild(0)
	if str.Type() != "string" {
		return ""
	}
	text := nodeText(str, content)
	for _, q := range []string{`"""`, `'''`, `"`, `'`} {
		if strings.HasPrefix(text, q) && strings.HasSuffix(text, q) && len(text) >= 2*len(q) {
			return strings.TrimSpace(text[len(q) : len(text)-len(q)])
		}
	}
	return strings.TrimSpace(text)
}

// =============================================================================
// GO
// =============================================================================

func (a *Analyzer) analyzeGo(ctx context.Context, content []byte) (Report, error) {
	tree, err := a.goParser.ParseCtx(ctx, nil, content)
	if err != nil {
		return Report{}, err
	}
	defer tree.Close()

	report := Report{Language: "go", Classes: []Class{}, Functions: []Function{}}
	root := tree.RootNode()

	// Struct types become "classes"; methods attach by receiver type.
	classIndex := make(map[string]int)

	for i := 0; i < int(root.NamedChildCount()); i++ {
		node := root.NamedChild(i)
		switch node.Type() {
		case "type_declaration":
			for j := 0; j < int(node.NamedChildCount()); j++ {
				spec := node.NamedChild(j)
				if spec.Type() != "type_spec" {
					continue
				}
				nameNode := spec.ChildByFieldName("name")
				if nameNode == nil {
					continue
				}
				name := nodeText(nameNode, content)
				classIndex[name] = len(report.Classes)
				report.Classes = append(report.Classes, Class{
					Type:    "class",
					Name:    name,
					Methods: []Function{},
				})
			}
		case "function_declaration":
			if fn := parseGoFunction(node, content, "function"); fn != nil {
				report.Functions = append(report.Functions, *fn)
			}
		}
	}

	// Second pass for methods so receivers of later-declared types resolve.
	for i := 0; i < int(root.NamedChildCount()); i++ {
		node := root.NamedChild(i)
		if node.Type() != "method_declaration" {
			continue
		}
		fn := parseGoFunction(node, content, "method")
		if fn == nil {
			continue
		}
		recv := goReceiverType(node, content)
		if idx, ok := classIndex[recv]; ok {
			report.Classes[idx].Methods = append(report.Classes[idx].Methods, *fn)
		} else {
			report.Functions = append(report.Functions, *fn)
		}
	}

	return report, nil
}

func parseGoFunction(node *sitter.Node, content []byte, kind string) *Function {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}

	fn := &Function{
		Type:       kind,
		Name:       nodeText(nameNode, content),
		Parameters: []Parameter{},
	}

	if result := node.ChildByFieldName("result"); result != nil {
		fn.ReturnType = nodeText(result, content)
	}

	params := node.ChildByFieldName("parameters")
	if params != nil {
		for i := 0; i < int(params.NamedChildCount()); i++ {
			decl := params.NamedChild(i)
			if decl.Type() != "parameter_declaration" {
				continue
			}
			typeText := ""
			if tn := decl.ChildByFieldName("type"); tn != nil {
				typeText = nodeText(tn, content)
			}
			named := false
			for j := 0; j < int(decl.NamedChildCount()); j++ {
				c := decl.NamedChild(j)
				if c.Type() == "identifier" {
					named = true
					fn.Parameters = append(fn.Parameters, Parameter{
						Name:       nodeText(c, content),
						Annotation: typeText,
					})
				}
			}
			if !named && typeText != "" {
				fn.Parameters = append(fn.Parameters, Parameter{Annotation: typeText})
			}
		}
	}

	return fn
}

// goReceiverType extracts the bare receiver type name ("*Foo" -> "Foo").
func goReceiverType(node *sitter.Node, content []byte) string {
	recv := node.ChildByFieldName("receiver")
	if recv == nil {
		return ""
	}
	text := nodeText(recv, content)
	text = strings.Trim(text, "()")
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return ""
	}
	typ := fields[len(fields)-1]
	return strings.TrimPrefix(typ, "*")
}

func nodeText(n *sitter.Node, content []byte) string {
	return string(content[n.StartByte():n.EndByte()])
}
