package main

import (
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"insightatlas/internal/config"
	"insightatlas/internal/contract"
	"insightatlas/internal/editorial"
	"insightatlas/internal/logging"
)

var (
	styleError   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	styleWarning = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	styleInfo    = lipgloss.NewStyle().Faint(true)
	styleHeader  = lipgloss.NewStyle().Bold(true).Underline(true)
	stylePass    = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
)

var validateCmd = &cobra.Command{
	Use:   "validate [file...]",
	Short: "Validate normalized output against the contract",
	Long: `Normalizes each input file and checks the result against the output
contract for the selected pacing profile. Files are processed concurrently.
Exits non-zero when any file has error-severity issues.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runValidate,
}

type validation struct {
	path   string
	report contract.Report
}

func runValidate(cmd *cobra.Command, args []string) error {
	profile, err := cfg.Profile(profileName)
	if err != nil {
		return err
	}

	results := make([]validation, len(args))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(4)
	for i, path := range args {
		i, path := i, path
		g.Go(func() error {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			report, err := validateFile(path, profile)
			if err != nil {
				return err
			}
			mu.Lock()
			results[i] = validation{path: path, report: report}
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for _, r := range results {
		printReport(cmd, r.path, r.report)
		if !r.report.Valid {
			// Deferred to main so PersistentPostRun still flushes logs.
			exitCode = 1
		}
	}
	return nil
}

func validateFile(path string, profile config.PacingProfile) (contract.Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return contract.Report{}, fmt.Errorf("read %s: %w", path, err)
	}
	norm := editorial.New(profile, logging.Get(logging.CategoryEditorial))
	doc := norm.NormalizeAt(string(data), "", "", time.Now().UTC())

	log := logging.Get(logging.CategoryContract)
	report := contract.Validate(doc, profile)
	log.Info("validated", logFields(path, doc, report)...)
	return report, nil
}

func logFields(path string, doc editorial.Document, report contract.Report) []zap.Field {
	return []zap.Field{
		zap.String("path", path),
		zap.Bool("valid", report.Valid),
		zap.Int("sections", doc.SectionCount()),
		zap.Int("errors", report.Errors),
		zap.Int("warnings", report.Warnings),
	}
}

func printReport(cmd *cobra.Command, path string, report contract.Report) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, styleHeader.Render(path))

	if len(report.Issues) == 0 {
		fmt.Fprintln(out, "  "+stylePass.Render("PASS")+" no issues")
		fmt.Fprintln(out)
		return
	}

	grouped := report.ByCategory()
	categories := make([]string, 0, len(grouped))
	for c := range grouped {
		categories = append(categories, c)
	}
	sort.Strings(categories)

	for _, cat := range categories {
		fmt.Fprintf(out, "  %s\n", cat)
		for _, issue := range grouped[cat] {
			var line string
			switch issue.Severity {
			case contract.SeverityError:
				line = styleError.Render(issue.String())
			case contract.SeverityWarning:
				line = styleWarning.Render(issue.String())
			default:
				line = styleInfo.Render(issue.String())
			}
			fmt.Fprintf(out, "    %s\n", line)
		}
	}

	verdict := stylePass.Render("VALID")
	if !report.Valid {
		verdict = styleError.Render("INVALID")
	}
	fmt.Fprintf(out, "  %s — %d errors, %d warnings, %d info\n\n",
		verdict, report.Errors, report.Warnings, report.Infos)
}
