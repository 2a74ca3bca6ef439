package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/krishnaji/testmozart/internal/llm"
	"github.com/krishnaji/testmozart/internal/pipeline"
	"github.com/krishnaji/testmozart/internal/sandbox"
)

var (
	genLanguage      string
	genMaxIterations int
	genOutputDir     string
	genNoWrite       bool
)

// generateCmd runs a full generation session per source file.
var generateCmd = &cobra.Command{
	Use:   "generate [source files...]",
	Short: "Generate and refine a test suite for each source file",
	Long: `Runs the full generation flow for every listed source file:
structural analysis, scenario design, test implementation, sandboxed
execution, and up to the configured number of refinement iterations.

Each file gets its own isolated session; files run concurrently. The final
suite is written next to the source file unless --no-write is given.

Example:
  testmozart generate calculator.py
  testmozart generate -l go mathutil.go`,
	Args: cobra.MinimumNArgs(1),
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVarP(&genLanguage, "language", "l", "", "source language (default inferred from extension)")
	generateCmd.Flags().IntVar(&genMaxIterations, "max-iterations", 0, "refinement iteration cap (default from config)")
	generateCmd.Flags().StringVarP(&genOutputDir, "output-dir", "o", "", "directory for generated suites (default next to source)")
	generateCmd.Flags().BoolVar(&genNoWrite, "no-write", false, "print the suite without writing it to disk")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	client, err := llm.NewGeminiClientWithConfig(llm.GeminiConfig{
		APIKey:  cfg.LLM.APIKey,
		Model:   cfg.LLM.Model,
		Timeout: cfg.GetLLMTimeout(),
	})
	if err != nil {
		return fmt.Errorf("creating LLM client: %w", err)
	}

	g, ctx := errgroup.WithContext(cmd.Context())
	for _, path := range args {
		path := path
		g.Go(func() error {
			return generateForFile(ctx, client, path)
		})
	}
	return g.Wait()
}

// generateForFile runs one isolated session. Sessions share the LLM client
// but never the pipeline state.
func generateForFile(ctx context.Context, client llm.Client, path string) error {
	source, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	language := genLanguage
	if language == "" {
		language = inferLanguage(path, cfg.Pipeline.DefaultLanguage)
	}

	maxIterations := genMaxIterations
	if maxIterations <= 0 {
		maxIterations = cfg.Pipeline.MaxIterations
	}

	request, err := json.Marshal(pipeline.Request{
		SourceCode: string(source),
		Language:   language,
	})
	if err != nil {
		return fmt.Errorf("building request for %s: %w", path, err)
	}

	orch := pipeline.NewOrchestrator(pipeline.Config{
		MaxIterations:   maxIterations,
		DefaultLanguage: cfg.Pipeline.DefaultLanguage,
		Sandbox: sandbox.Config{
			PythonBinary: cfg.Sandbox.PythonBinary,
			TestTimeout:  cfg.GetTestTimeout(),
			SourceModule: cfg.Pipeline.SandboxModule,
			KeepWorkdir:  cfg.Sandbox.KeepWorkdir,
		},
		ShippedModule: cfg.Pipeline.ShippedModule,
	}, client)
	defer orch.Close()

	logger.Info("starting generation session",
		zap.String("file", path),
		zap.String("language", language),
		zap.Int("max_iterations", maxIterations))

	report, err := orch.Run(ctx, string(request))
	if err != nil {
		return fmt.Errorf("session for %s: %w", path, err)
	}

	fmt.Println(renderMarkdown(report.Markdown))

	if !genNoWrite && report.TestCode != "" {
		outPath := suitePath(path)
		if err := os.WriteFile(outPath, []byte(report.TestCode+"\n"), 0644); err != nil {
			return fmt.Errorf("writing suite for %s: %w", path, err)
		}
		fmt.Printf("Wrote %s (status %s)\n", outPath, report.Status)
	}

	logger.Info("session finished",
		zap.String("file", path),
		zap.String("run_id", report.RunID),
		zap.String("status", report.Status),
		zap.String("loop", string(report.LoopStatus)))
	return nil
}

// inferLanguage maps a file extension to a sandbox language.
func inferLanguage(path, fallback string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".py":
		return "python"
	case ".go":
		return "go"
	default:
		return fallback
	}
}

// suitePath places the generated suite next to the source, named so pytest
// and the Go toolchain both pick it up.
func suitePath(sourcePath string) string {
	dir := filepath.Dir(sourcePath)
	if genOutputDir != "" {
		dir = genOutputDir
	}
	base := filepath.Base(sourcePath)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	switch strings.ToLower(ext) {
	case ".go":
		return filepath.Join(dir, stem+"_test.go")
	default:
		return filepath.Join(dir, "test_"+stem+".py")
	}
}

// renderMarkdown pretty-prints the report on a terminal; --plain or any
// renderer failure falls back to the raw markdown.
func renderMarkdown(content string) (result string) {
	defer func() {
		if r := recover(); r != nil {
			result = content
		}
	}()

	if plain {
		return content
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return content
	}
	rendered, err := renderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}
