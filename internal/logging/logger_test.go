package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func resetState() {
	CloseAll()
	loggers = make(map[Category]*Logger)
	logsDir = ""
	workspace = ""
	config = loggingConfig{}
	logLevel = LevelInfo
}

// TestAllCategoriesLog tests that all categories create log files when debug_mode is true
func TestAllCategoriesLog(t *testing.T) {
	tempDir := t.TempDir()

	configDir := filepath.Join(tempDir, ".testmozart")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		t.Fatalf("Failed to create config dir: %v", err)
	}

	configContent := `logging:
  level: debug
  debug_mode: true
  categories:
    boot: true
    session: true
    pipeline: true
    stage: true
    llm: true
    analysis: true
    sandbox: true
    scenario: true
    report: true
`
	configPath := filepath.Join(configDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	resetState()
	defer resetState()

	if err := Initialize(tempDir); err != nil {
		t.Fatalf("Failed to initialize logging: %v", err)
	}

	if !IsDebugMode() {
		t.Error("Expected debug mode to be enabled")
	}

	categories := []Category{
		CategoryBoot, CategorySession, CategoryPipeline, CategoryStage,
		CategoryLLM, CategoryAnalysis, CategorySandbox, CategoryScenario,
		CategoryReport,
	}

	for _, cat := range categories {
		Get(cat).Info("test message for %s", cat)
	}
	CloseAll()

	entries, err := os.ReadDir(filepath.Join(tempDir, ".testmozart", "logs"))
	if err != nil {
		t.Fatalf("Failed to read logs dir: %v", err)
	}

	found := make(map[string]bool)
	for _, e := range entries {
		for _, cat := range categories {
			if strings.HasSuffix(e.Name(), "_"+string(cat)+".log") {
				found[string(cat)] = true
			}
		}
	}
	for _, cat := range categories {
		if !found[string(cat)] {
			t.Errorf("No log file created for category %q", cat)
		}
	}
}

// TestProductionModeSilent tests that no logs are written without a config file
func TestProductionModeSilent(t *testing.T) {
	tempDir := t.TempDir()

	resetState()
	defer resetState()

	if err := Initialize(tempDir); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	if IsDebugMode() {
		t.Error("Expected debug mode to be disabled without config")
	}

	Pipeline("this should go nowhere")
	Stage("and so should this")

	if _, err := os.Stat(filepath.Join(tempDir, ".testmozart", "logs")); !os.IsNotExist(err) {
		t.Error("Logs directory should not exist in production mode")
	}
}

// TestCategoryFiltering tests that disabled categories do not log
func TestCategoryFiltering(t *testing.T) {
	tempDir := t.TempDir()

	configDir := filepath.Join(tempDir, ".testmozart")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		t.Fatalf("Failed to create config dir: %v", err)
	}

	configContent := `logging:
  level: debug
  debug_mode: true
  categories:
    pipeline: true
    llm: false
`
	if err := os.WriteFile(filepath.Join(configDir, "config.yaml"), []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	resetState()
	defer resetState()

	if err := Initialize(tempDir); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	if !IsCategoryEnabled(CategoryPipeline) {
		t.Error("pipeline category should be enabled")
	}
	if IsCategoryEnabled(CategoryLLM) {
		t.Error("llm category should be disabled")
	}
	// Categories missing from the map default to enabled
	if !IsCategoryEnabled(CategorySandbox) {
		t.Error("unlisted category should default to enabled")
	}
}
