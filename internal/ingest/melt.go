package ingest

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/sabia-monitor/fire-risk-etl/internal/domain"
)

// mesAnoRe extracts the month word and four-digit year from a header token
// after prefixes are stripped, e.g. "jan_2022" or "março_2023".
var mesAnoRe = regexp.MustCompile(`([a-zç]+)_(\d{4})`)

// variablePrefixes are the per-sheet decorations seen on period headers,
// e.g. "umid_jan_2022" or "t_max_março_2023".
var variablePrefixes = []string{"tmin_", "t_max_", "umid_", "precipitacao_", "temp_"}

// monthAliases corrects irregular month spellings to the three-letter
// abbreviation. Identity entries keep well-formed tokens untouched; a month
// word absent from the map passes through unchanged and is dealt with by
// the scoring stage's month filter.
var monthAliases = map[string]string{
	"jan": "jan", "fev": "fev", "mar": "mar", "abr": "abr", "mai": "mai",
	"jun": "jun", "jul": "jul", "ago": "ago", "set": "set", "out": "out",
	"nov": "nov", "dez": "dez",
	"abril": "abr", "março": "mar", "dec": "dez",
}

// observation is one melted cell: a plot, a normalized month-year token and
// a leniently parsed value.
type observation struct {
	talhao string
	mesAno string
	value  domain.NullFloat
}

type coordinate struct {
	lat domain.NullFloat
	lon domain.NullFloat
}

// longTable is the result of reshaping one wide sheet.
type longTable struct {
	observations []observation
	// coords is non-nil only when the sheet carried both LAT and LON
	// columns; one entry per plot, first row wins.
	coords map[string]coordinate
}

// meltSheet reshapes a wide sheet (rows of [id, period, period, ...]) into
// long form. The identifier column is "Pontos", with "Name" accepted as an
// alternate header. LAT/LON columns are captured into the coordinate table
// and excluded from the melt; they are not month-year periods.
func meltSheet(rows [][]string, display string) (longTable, error) {
	if len(rows) == 0 {
		return longTable{}, fmt.Errorf("sheet %s: no header row", display)
	}

	header := rows[0]
	idCol, latCol, lonCol := -1, -1, -1
	for i, h := range header {
		switch {
		case headerIs(h, "Pontos"), headerIs(h, "Name"):
			if idCol < 0 {
				idCol = i
			}
		case headerIs(h, "LAT"):
			if latCol < 0 {
				latCol = i
			}
		case headerIs(h, "LON"):
			if lonCol < 0 {
				lonCol = i
			}
		}
	}
	if idCol < 0 {
		return longTable{}, fmt.Errorf("sheet %s: no Pontos identifier column", display)
	}

	// Resolve the period token of every remaining column up front. Headers
	// that fail to normalize become "" and are preserved: their cells melt
	// into a token that no month-based aggregation will pick up.
	type periodCol struct {
		idx    int
		mesAno string
	}
	periods := make([]periodCol, 0, len(header))
	for i, h := range header {
		if i == idCol || i == latCol || i == lonCol {
			continue
		}
		periods = append(periods, periodCol{idx: i, mesAno: normalizeMesAno(h)})
	}

	table := longTable{}
	hasCoords := latCol >= 0 && lonCol >= 0
	if hasCoords {
		table.coords = make(map[string]coordinate)
	}

	for _, row := range rows[1:] {
		talhao := strings.TrimSpace(cell(row, idCol))
		if talhao == "" {
			continue
		}
		if hasCoords {
			if _, seen := table.coords[talhao]; !seen {
				table.coords[talhao] = coordinate{
					lat: domain.ParseFloat(cell(row, latCol)),
					lon: domain.ParseFloat(cell(row, lonCol)),
				}
			}
		}
		for _, p := range periods {
			table.observations = append(table.observations, observation{
				talhao: talhao,
				mesAno: p.mesAno,
				value:  domain.ParseFloat(cell(row, p.idx)),
			})
		}
	}
	return table, nil
}

// normalizeMesAno canonicalizes a period header into "<month>_<year>":
// lowercase, strip known variable prefixes and stray dots ("março._2023"
// appears in real exports), extract the month word and four-digit year, then
// correct irregular month spellings. Returns "" when the header does not
// match the pattern.
func normalizeMesAno(header string) string {
	s := strings.ToLower(strings.TrimSpace(header))
	s = strings.ReplaceAll(s, ".", "")
	for _, p := range variablePrefixes {
		s = strings.ReplaceAll(s, p, "")
	}

	m := mesAnoRe.FindStringSubmatch(s)
	if m == nil {
		return ""
	}
	month := m[1]
	if alias, ok := monthAliases[month]; ok {
		month = alias
	}
	return month + "_" + m[2]
}

func headerIs(h, name string) bool {
	return strings.EqualFold(strings.TrimSpace(h), name)
}

// cell returns the trimmed cell at idx, tolerating the short rows excelize
// produces when trailing cells are empty.
func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
