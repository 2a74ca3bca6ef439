package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/krishnaji/testmozart/internal/llm"
)

// watchCmd re-runs generation whenever the source file changes.
var watchCmd = &cobra.Command{
	Use:   "watch [source file]",
	Short: "Re-generate the test suite whenever the source file changes",
	Long: `Watches a source file and runs a fresh generation session on every
save. Useful while iterating on the code under test.

Stop with Ctrl+C.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	path := args[0]
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("cannot watch %s: %w", path, err)
	}

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

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory, not the file: editors replace files on save,
	// which drops a file-level watch.
	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}

	target, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	ctx := cmd.Context()
	const debounce = 500 * time.Millisecond
	var lastRun time.Time

	fmt.Printf("Watching %s (Ctrl+C to stop)\n", path)
	if err := generateForFile(ctx, client, path); err != nil {
		logger.Warn("initial generation failed", zap.Error(err))
	}

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			abs, _ := filepath.Abs(event.Name)
			if abs != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if time.Since(lastRun) < debounce {
				continue
			}
			lastRun = time.Now()

			logger.Info("source changed, regenerating", zap.String("file", path))
			if err := generateForFile(ctx, client, path); err != nil {
				logger.Warn("generation failed", zap.Error(err))
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", zap.Error(err))
		case <-sigCh:
			fmt.Println("\nStopped.")
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
