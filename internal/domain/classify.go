package domain

// RiskBand is one of the five ordered risk classes R1 (lowest) to R5
// (highest). The zero value is not a valid band.
type RiskBand int

const (
	R1 RiskBand = iota + 1
	R2
	R3
	R4
	R5
)

var bandLabels = [...]string{"R1", "R2", "R3", "R4", "R5"}

var bandDescriptions = [...]string{
	"Risco Muito Baixo",
	"Risco Baixo",
	"Risco Moderado",
	"Risco Médio",
	"Risco Alto",
}

// Display palette shared with the dashboard legend.
var bandColors = [...]string{"#2E7D32", "#1E88E5", "#F9A825", "#FB8C00", "#D32F2F"}

// Classify maps a 0–100 score to its risk band. Bins are right-closed with
// the lowest closed on the left: [0,20] → R1, (20,40] → R2, (40,60] → R3,
// (60,80] → R4, (80,100] → R5. Boundary values resolve to the lower band
// (20 → R1, 40 → R2). Values outside [0,100] clamp to the nearest band.
func Classify(score float64) RiskBand {
	switch {
	case score <= 20:
		return R1
	case score <= 40:
		return R2
	case score <= 60:
		return R3
	case score <= 80:
		return R4
	default:
		return R5
	}
}

// Label returns the short band name, "R1" through "R5".
func (b RiskBand) Label() string {
	if b < R1 || b > R5 {
		return ""
	}
	return bandLabels[b-1]
}

// Description returns the human-readable risk description.
func (b RiskBand) Description() string {
	if b < R1 || b > R5 {
		return ""
	}
	return bandDescriptions[b-1]
}

// Color returns the display color hex for the band, or a neutral gray for
// an invalid band.
func (b RiskBand) Color() string {
	if b < R1 || b > R5 {
		return "#787878"
	}
	return bandColors[b-1]
}

// Index returns the numeric class index 1–5 used for averaged-class views.
func (b RiskBand) Index() int { return int(b) }

// ScoredMonth is a MonthlyScore with its derived classification attached.
type ScoredMonth struct {
	MonthlyScore
	Classe    string `json:"classe"`
	ClasseIdx int    `json:"classe_idx"`
	Risco     string `json:"risco"`
	Cor       string `json:"cor"`
}

// ClassifyMonthly attaches a risk band to every score row. Classification
// is stateless and order-independent; input order is preserved.
func ClassifyMonthly(rows []MonthlyScore) []ScoredMonth {
	out := make([]ScoredMonth, len(rows))
	for i, row := range rows {
		band := Classify(row.Score)
		out[i] = ScoredMonth{
			MonthlyScore: row,
			Classe:       band.Label(),
			ClasseIdx:    band.Index(),
			Risco:        band.Description(),
			Cor:          band.Color(),
		}
	}
	return out
}
