package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"phenosift/internal/classify"
	"phenosift/internal/pipeline"
	"phenosift/internal/types"
	"phenosift/internal/ui"

	tea "github.com/charmbracelet/bubbletea"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	input := flag.String("input", "", "input XLSX workbook; when set, run headless instead of the TUI")
	output := flag.String("output", "", "output XLSX path (defaults to <input>_phenosift.xlsx)")
	mapping := flag.String("mapping", "", "CSV file with ordered sample,subtype rows (overrides the built-in table)")
	threshold := flag.Float64("threshold", 100, "distance band magnitude in microns")
	markers := flag.String("markers", "", "comma-separated marker tokens (default cd4,foxp3)")
	labels := flag.String("labels", "", "comma-separated accepted literal phenotype labels")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("phenosift %s\ncommit: %s\nbuilt: %s\n", version, commit, date)
		os.Exit(0)
	}

	cfg := pipeline.DefaultConfig()
	cfg.Threshold = *threshold
	if *markers != "" {
		cfg.MarkerTokens = splitList(*markers)
	}
	if *labels != "" {
		cfg.TargetLabels = splitList(*labels)
	}
	if *mapping != "" {
		entries, err := classify.LoadMappingCSV(*mapping)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		cfg.Mapping = entries
	}

	if *input != "" {
		runHeadless(*input, *output, cfg)
		return
	}

	p := tea.NewProgram(ui.InitialModel(cfg), tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func runHeadless(input, output string, cfg types.Config) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	if output == "" {
		output = ui.OutputPath(input)
	}

	report, err := pipeline.Scan(input, cfg)
	if err != nil {
		logger.Error("scan failed", "input", input, "error", err)
		os.Exit(1)
	}
	logger.Info("scan complete",
		"sheets", len(report.Sheets),
		"rows", report.TotalRows,
		"labels", len(report.Labels),
		"fallback", report.Fallback)
	for _, label := range report.Labels {
		logger.Info("candidate label", "label", label)
	}

	result, err := pipeline.Run(input, output, cfg, report, nil, nil)
	if err != nil {
		logger.Error("run failed", "input", input, "error", err)
		os.Exit(1)
	}
	logger.Info("done",
		"output", result.OutputFile,
		"sheets_written", result.SheetsWritten,
		"rows_written", result.RowsWritten,
		"within", result.WithinRows,
		"outside", result.OutsideRows,
		"subtype", result.SubtypeRows,
		"skipped_sheets", strings.Join(result.SkippedSheets, ","))
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
