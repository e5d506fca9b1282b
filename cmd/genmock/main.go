// Command genmock generates a synthetic climate workbook shaped like the
// real upstream export: four wide sheets keyed by plot, with one column per
// month-year. Values follow a crude seasonal curve (dry and hot from June
// to September) so scored output has visible contrast. The generator is
// deterministic for a given seed, which keeps fixtures reproducible.
//
// Usage:
//
//	go run ./cmd/genmock -out data/mock/clima_mock.xlsx -plots 20
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/sabia-monitor/fire-risk-etl/internal/domain"
)

var years = []int{2021, 2022, 2023}

// monthTokens mirrors the upstream export's inconsistencies: mostly the
// canonical abbreviations, but March spelled out with its accent and
// December in English. The normalizer has to cope with both.
var monthTokens = []string{
	"jan", "fev", "março", "abr", "mai", "jun",
	"jul", "ago", "set", "out", "nov", "dec",
}

// seasonal holds per-month baselines the generator jitters around.
type seasonal struct {
	precip  float64 // mm
	tempMax float64 // °C
	tempAvg float64 // °C
	humid   float64 // %
}

// curve approximates the climate of northeastern São Paulo state, index 0
// is January.
var curve = [12]seasonal{
	{280, 30, 25, 78},
	{220, 31, 25, 76},
	{160, 30, 24, 74},
	{80, 29, 23, 68},
	{50, 27, 21, 64},
	{25, 26, 20, 58},
	{15, 27, 20, 52},
	{12, 30, 22, 45},
	{40, 32, 24, 48},
	{110, 31, 24, 60},
	{170, 30, 24, 70},
	{250, 30, 25, 76},
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "", "output path for the xlsx workbook")
	plots := flag.Int("plots", 20, "number of plots to generate")
	seed := flag.Int64("seed", 42, "random seed")
	flag.Parse()

	if *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}
	if *plots < 1 || *plots > 100 {
		return fmt.Errorf("-plots must be between 1 and 100, got %d", *plots)
	}

	rng := rand.New(rand.NewSource(*seed))

	f := excelize.NewFile()
	defer f.Close()

	sheets := []struct {
		name   string
		prefix string
		coords bool
		value  func(s seasonal, plotBias float64) float64
	}{
		{"Precipitacao_total (2021-2023)", "precipitacao_", true, func(s seasonal, b float64) float64 {
			v := s.precip * (1 + b*0.3)
			if v < 0 {
				v = 0
			}
			return v
		}},
		{"Temp_max", "t_max_", false, func(s seasonal, b float64) float64 {
			return s.tempMax + b*2.5
		}},
		{"Temp_média_final", "temp_", false, func(s seasonal, b float64) float64 {
			return s.tempAvg + b*2.0
		}},
		{"Umidade_Relativa", "umid_", false, func(s seasonal, b float64) float64 {
			v := s.humid * (1 + b*0.15)
			if v > 100 {
				v = 100
			}
			return v
		}},
	}

	// A per-plot bias makes some plots consistently wetter or drier so the
	// scored output spreads across classes.
	bias := make([]float64, *plots)
	for i := range bias {
		bias[i] = rng.Float64()*2 - 1
	}

	for i, sh := range sheets {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), sh.name); err != nil {
				return fmt.Errorf("rename sheet: %w", err)
			}
		} else {
			if _, err := f.NewSheet(sh.name); err != nil {
				return fmt.Errorf("create sheet %q: %w", sh.name, err)
			}
		}

		header := []any{"Pontos"}
		if sh.coords {
			header = append(header, "LAT", "LON")
		}
		for _, year := range years {
			for _, tok := range monthTokens {
				header = append(header, fmt.Sprintf("%s%s_%d", sh.prefix, tok, year))
			}
		}
		if err := setRow(f, sh.name, 1, header); err != nil {
			return err
		}

		for p := 0; p < *plots; p++ {
			row := []any{strconv.Itoa(p + 1)}
			if sh.coords {
				row = append(row,
					-21.15-rng.Float64()*0.1,
					-47.80-rng.Float64()*0.1,
				)
			}
			for range years {
				for m := range monthTokens {
					base := sh.value(curve[m], bias[p])
					jitter := 1 + (rng.Float64()*2-1)*0.1
					row = append(row, round1(base*jitter))
				}
			}
			if err := setRow(f, sh.name, p+2, row); err != nil {
				return err
			}
		}
	}

	if err := os.MkdirAll(filepath.Dir(*out), 0o755); err != nil {
		return err
	}
	if err := f.SaveAs(*out); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}

	log.Printf("wrote %s: %d plots, %d months per sheet", *out, *plots, len(years)*len(monthTokens))
	printVocabulary()
	return nil
}

func setRow(f *excelize.File, sheet string, rowNum int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

func round1(v float64) float64 {
	return float64(int(v*10+0.5)) / 10
}

func printVocabulary() {
	fmt.Println("\n=== Month tokens in the workbook ===")
	for _, tok := range monthTokens {
		canonical := tok
		switch tok {
		case "março":
			canonical = "mar"
		case "dec":
			canonical = "dez"
		}
		fmt.Printf("  %-8s -> %s (%s)\n", tok, canonical, domain.MonthNames[canonical])
	}
}
