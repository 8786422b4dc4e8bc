// atlas is the command-line front end for the Insight Atlas editorial core.
// It normalizes raw generated text into typed documents, validates finished
// documents against a pacing profile, and replays text through the streaming
// budget governor.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"insightatlas/internal/budget"
	"insightatlas/internal/config"
	"insightatlas/internal/editorial"
	"insightatlas/internal/logging"
)

var (
	// Global flags
	configPath  string
	profileName string
	verbose     bool

	cfg config.Config

	// exitCode is set by commands that report failure through the process
	// exit status; main applies it after the post-run hooks have flushed.
	exitCode int
)

var rootCmd = &cobra.Command{
	Use:   "atlas",
	Short: "Insight Atlas editorial core",
	Long: `atlas turns free-form, loosely-tagged model output into strongly-typed
editorial documents.

Pipeline: raw chunk -> governor -> accumulated buffer -> normalizer -> typed
document -> contract validator -> report. Each stage is exposed as its own
subcommand so generation tooling can drive them independently.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if verbose {
			cfg.Logging.Debug = true
		}
		return logging.Initialize(cfg.Logging)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Sync()
	},
}

var normalizeCmd = &cobra.Command{
	Use:   "normalize [file]",
	Short: "Normalize raw text into a typed document",
	Long: `Reads raw tagged/markdown-ish text from the file argument (or stdin)
and prints the normalized document as JSON.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runNormalize,
}

var (
	docTitle  string
	docAuthor string
)

func runNormalize(cmd *cobra.Command, args []string) error {
	text, err := readInput(args)
	if err != nil {
		return err
	}
	profile, err := cfg.Profile(profileName)
	if err != nil {
		return err
	}

	norm := editorial.New(profile, logging.Get(logging.CategoryEditorial))
	doc := norm.NormalizeAt(text, docTitle, docAuthor, time.Now().UTC())

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

var governCmd = &cobra.Command{
	Use:   "govern [file]",
	Short: "Replay text through the streaming budget governor",
	Long: `Feeds the input through the governor in small fragments, simulating a
streaming generation pass, and prints the enforcement result.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGovern,
}

var chunkSize int

func runGovern(cmd *cobra.Command, args []string) error {
	text, err := readInput(args)
	if err != nil {
		return err
	}
	if err := cfg.Governor.Validate(); err != nil {
		return fmt.Errorf("governor policy: %w", err)
	}

	gov := budget.New(cfg.Governor, logging.Get(logging.CategoryBudget))
	stream := budget.NewSliceStream(fragmentize(text, chunkSize)...)
	result := budget.Drain(cmd.Context(), gov, stream)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "words:      %d / %d\n", result.WordCount, cfg.Governor.MaxWordCeiling)
	fmt.Fprintf(out, "cut policy: %v (%d suppressions, %d syntheses)\n",
		result.CutActivated, result.CutEventCount, result.SynthesisCount)
	fmt.Fprintf(out, "sections:   %d\n", result.Sections)
	fmt.Fprintf(out, "terminated: %v\n", result.Terminated)
	fmt.Fprintln(out, "---")
	fmt.Fprintln(out, result.Content)
	return nil
}

// fragmentize cuts text into fixed-size fragments with no regard for word or
// sentence boundaries, matching what a network stream delivers.
func fragmentize(text string, size int) []string {
	if size < 1 {
		size = 64
	}
	var fragments []string
	for len(text) > size {
		fragments = append(fragments, text[:size])
		text = text[size:]
	}
	if text != "" {
		fragments = append(fragments, text)
	}
	return fragments
}

// readInput returns the contents of args[0], or stdin when no file is given.
func readInput(args []string) (string, error) {
	if len(args) == 0 {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("read %s: %w", args[0], err)
	}
	return string(data), nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default $ATLAS_CONFIG or built-ins)")
	rootCmd.PersistentFlags().StringVar(&profileName, "profile", "", "pacing profile name")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	normalizeCmd.Flags().StringVar(&docTitle, "title", "", "document title")
	normalizeCmd.Flags().StringVar(&docAuthor, "author", "", "document author")

	governCmd.Flags().IntVar(&chunkSize, "chunk-size", 64, "simulated stream fragment size in bytes")

	rootCmd.AddCommand(normalizeCmd, governCmd, validateCmd, watchCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
	os.Exit(exitCode)
}
