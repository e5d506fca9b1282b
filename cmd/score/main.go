// Command score runs the fire-risk model over a climate workbook offline,
// without the HTTP service. It writes the scored monthly table and the
// annual summary as JSON and prints a class distribution for eyeballing
// weight changes.
//
// Usage:
//
//	go run ./cmd/score \
//	  -workbook data/clima_2021_2023.xlsx \
//	  -monthly-out out/monthly.json \
//	  -annual-out out/annual.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/sabia-monitor/fire-risk-etl/internal/domain"
	"github.com/sabia-monitor/fire-risk-etl/internal/ingest"
	"github.com/sabia-monitor/fire-risk-etl/internal/scoring"
	"github.com/sabia-monitor/fire-risk-etl/internal/terrain"
)

func main() {
	workbook := flag.String("workbook", "", "path to the xlsx climate workbook")
	monthlyOut := flag.String("monthly-out", "", "output path for the scored monthly table (optional)")
	annualOut := flag.String("annual-out", "", "output path for the annual summary (optional)")
	flag.Parse()

	if *workbook == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*workbook, *monthlyOut, *annualOut); code != 0 {
		os.Exit(code)
	}
}

func run(workbookPath, monthlyOut, annualOut string) int {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	f, err := os.Open(workbookPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: open workbook: %v\n", err)
		return 1
	}
	defer f.Close()

	records, err := ingest.ReadWorkbook(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: read workbook: %v\n", err)
		return 1
	}

	engine := scoring.NewEngine(terrain.Registry(), terrain.DefaultWeights(), logger)
	rows, stats, err := engine.Score(records)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: score: %v\n", err)
		return 1
	}

	months := domain.ClassifyMonthly(rows)
	annual := domain.Summarize(months)

	if monthlyOut != "" {
		if err := writeJSON(monthlyOut, months); err != nil {
			fmt.Fprintf(os.Stderr, "FATAL: write monthly table: %v\n", err)
			return 1
		}
		fmt.Printf("wrote monthly table: %s\n", monthlyOut)
	}
	if annualOut != "" {
		if err := writeJSON(annualOut, annual); err != nil {
			fmt.Fprintf(os.Stderr, "FATAL: write annual summary: %v\n", err)
			return 1
		}
		fmt.Printf("wrote annual summary: %s\n", annualOut)
	}
	if monthlyOut == "" && annualOut == "" {
		if err := emitJSON(os.Stdout, map[string]any{"months": months, "annual": annual}); err != nil {
			fmt.Fprintf(os.Stderr, "FATAL: write output: %v\n", err)
			return 1
		}
	}

	printStats(records, stats, months, annual)
	return 0
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()
	return emitJSON(f, v)
}

func emitJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printStats(records []domain.ClimateRecord, stats scoring.Stats, months []domain.ScoredMonth, annual []domain.AnnualSummary) {
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "=== Scoring summary ===")
	fmt.Fprintf(os.Stderr, "Records: %d in, %d dropped, %d (plot, month) groups\n",
		len(records), stats.RowsDropped, stats.Groups)

	classCounts := map[string]int{}
	for i := range months {
		classCounts[months[i].Classe]++
	}
	fmt.Fprintf(os.Stderr, "Monthly classes: R1=%d R2=%d R3=%d R4=%d R5=%d\n",
		classCounts["R1"], classCounts["R2"], classCounts["R3"], classCounts["R4"], classCounts["R5"])

	printTopPlots(annual)
}

func printTopPlots(annual []domain.AnnualSummary) {
	if len(annual) == 0 {
		return
	}

	ranked := make([]domain.AnnualSummary, len(annual))
	copy(ranked, annual)
	sort.Slice(ranked, func(i, j int) bool { return ranked[i].ScoreMedio > ranked[j].ScoreMedio })

	n := len(ranked)
	if n > 5 {
		n = 5
	}
	fmt.Fprintln(os.Stderr, "\nHighest-risk plots:")
	for _, s := range ranked[:n] {
		fmt.Fprintf(os.Stderr, "  talhao %-4s score=%6.2f %s (%s)\n", s.Talhao, s.ScoreMedio, s.ClasseMedia, s.RiscoMedio)
	}
}
