package main

import (
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"insightatlas/internal/logging"
)

var watchCmd = &cobra.Command{
	Use:   "watch [file]",
	Short: "Re-validate a file whenever it changes",
	Long: `Watches a raw text file and re-runs normalize + validate on every
write. Useful while iterating on generation prompts.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

// debounceWindow absorbs editor write bursts (truncate + write + chmod).
const debounceWindow = 200 * time.Millisecond

func runWatch(cmd *cobra.Command, args []string) error {
	path := args[0]
	profile, err := cfg.Profile(profileName)
	if err != nil {
		return err
	}
	log := logging.Get(logging.CategoryCLI)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}

	// Initial run before the first change.
	report, err := validateFile(path, profile)
	if err != nil {
		return err
	}
	printReport(cmd, path, report)

	var timer *time.Timer
	pending := make(chan struct{}, 1)

	for {
		select {
		case <-cmd.Context().Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			log.Debug("file changed", zap.String("path", event.Name))
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounceWindow, func() {
				select {
				case pending <- struct{}{}:
				default:
				}
			})

		case <-pending:
			report, err := validateFile(path, profile)
			if err != nil {
				log.Warn("revalidation failed", zap.Error(err))
				continue
			}
			printReport(cmd, path, report)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("watch error", zap.Error(err))
		}
	}
}
