// Package ingest reads the consolidated climate workbook and reshapes its
// four wide sheets into the long-form ClimateRecord table. Parsing is
// lenient everywhere except sheet discovery: a missing sheet is fatal, a
// malformed header or cell degrades to a missing value.
package ingest

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/sabia-monitor/fire-risk-etl/internal/domain"
)

// ErrNotSpreadsheet marks uploads that cannot be opened as an xlsx workbook
// at all, as opposed to workbooks that open but lack required sheets.
var ErrNotSpreadsheet = errors.New("not a readable xlsx workbook")

// sheetSpec ties a required sheet to the climate variable it carries.
// Sheets are located by case-insensitive substring match because upstream
// exports decorate the names inconsistently ("Temp_max (2021-2023)" etc.).
type sheetSpec struct {
	match   string // lowercase substring to locate the sheet
	display string // canonical name used in error messages
	assign  func(*domain.ClimateRecord, domain.NullFloat)
}

var requiredSheets = []sheetSpec{
	{
		match:   "precipitacao_total",
		display: "Precipitacao_total",
		assign:  func(r *domain.ClimateRecord, v domain.NullFloat) { r.Precipitacao = v },
	},
	{
		match:   "temp_max",
		display: "Temp_max",
		assign:  func(r *domain.ClimateRecord, v domain.NullFloat) { r.TempMaxima = v },
	},
	{
		match:   "temp_média_final",
		display: "Temp_média_final",
		assign:  func(r *domain.ClimateRecord, v domain.NullFloat) { r.TempMedia = v },
	},
	{
		match:   "umidade_relativa",
		display: "Umidade_Relativa",
		assign:  func(r *domain.ClimateRecord, v domain.NullFloat) { r.Umidade = v },
	},
}

// MissingSheetError reports which of the four required sheets could not be
// located. It is a data problem, not transient: retrying the same workbook
// yields the same failure.
type MissingSheetError struct {
	Missing []string
}

func (e *MissingSheetError) Error() string {
	return fmt.Sprintf("workbook is missing required sheets: %s", strings.Join(e.Missing, ", "))
}

// ReadWorkbook parses an uploaded workbook into the consolidated long-form
// table. The four per-variable long tables are merged with a full outer
// join on (plot, month-year token); plot coordinates, captured from the
// first sheet carrying LAT/LON columns, are attached with a left join.
func ReadWorkbook(r io.Reader) ([]domain.ClimateRecord, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotSpreadsheet, err)
	}
	defer f.Close()

	names := f.GetSheetList()

	var missing []string
	located := make([]wideSheet, 0, len(requiredSheets))
	for _, spec := range requiredSheets {
		name, ok := findSheet(names, spec.match)
		if !ok {
			missing = append(missing, spec.display)
			continue
		}
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("read sheet %q: %w", name, err)
		}
		located = append(located, wideSheet{spec: spec, rows: rows})
	}
	if len(missing) > 0 {
		return nil, &MissingSheetError{Missing: missing}
	}

	return consolidate(located)
}

// findSheet returns the first sheet whose name contains the wanted
// substring, compared case-insensitively.
func findSheet(names []string, match string) (string, bool) {
	for _, name := range names {
		if strings.Contains(strings.ToLower(name), match) {
			return name, true
		}
	}
	return "", false
}

// wideSheet is one located sheet awaiting reshaping.
type wideSheet struct {
	spec sheetSpec
	rows [][]string
}

type recordKey struct {
	talhao string
	mesAno string
}

// consolidate melts each sheet and outer-joins the results. Every
// (plot, token) pair seen in any sheet produces exactly one record; the
// variables absent for that pair stay invalid.
func consolidate(sheets []wideSheet) ([]domain.ClimateRecord, error) {
	records := make(map[recordKey]*domain.ClimateRecord)
	var coords map[string]coordinate

	for _, sh := range sheets {
		table, err := meltSheet(sh.rows, sh.spec.display)
		if err != nil {
			return nil, err
		}
		// Coordinates are captured once, from the first sheet that has them.
		if coords == nil && table.coords != nil {
			coords = table.coords
		}
		for _, obs := range table.observations {
			k := recordKey{talhao: obs.talhao, mesAno: obs.mesAno}
			rec, ok := records[k]
			if !ok {
				rec = &domain.ClimateRecord{Talhao: obs.talhao, MesAno: obs.mesAno}
				records[k] = rec
			}
			sh.spec.assign(rec, obs.value)
		}
	}

	out := make([]domain.ClimateRecord, 0, len(records))
	for _, rec := range records {
		if c, ok := coords[rec.Talhao]; ok {
			rec.Lat = c.lat
			rec.Lon = c.lon
		}
		out = append(out, *rec)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Talhao != out[j].Talhao {
			return out[i].Talhao < out[j].Talhao
		}
		return out[i].MesAno < out[j].MesAno
	})
	return out, nil
}
