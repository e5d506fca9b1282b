package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify_Boundaries(t *testing.T) {
	cases := []struct {
		score float64
		want  RiskBand
	}{
		{0, R1},
		{10, R1},
		{20, R1}, // right-closed: boundary resolves to the lower band
		{20.0001, R2},
		{40, R2},
		{41, R3},
		{60, R3},
		{60.5, R4},
		{80, R4},
		{80.0001, R5},
		{100, R5},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Classify(tc.score), "score %g", tc.score)
	}
}

func TestClassify_TotalAndDisjoint(t *testing.T) {
	// Every score in [0,100] maps to exactly one valid band.
	for s := 0.0; s <= 100.0; s += 0.25 {
		band := Classify(s)
		require.GreaterOrEqual(t, band, R1, "score %g", s)
		require.LessOrEqual(t, band, R5, "score %g", s)
	}
}

func TestClassify_ClampsOutOfRange(t *testing.T) {
	assert.Equal(t, R1, Classify(-3))
	assert.Equal(t, R5, Classify(120))
}

func TestRiskBand_Display(t *testing.T) {
	assert.Equal(t, "R1", R1.Label())
	assert.Equal(t, "Risco Muito Baixo", R1.Description())
	assert.Equal(t, "#2E7D32", R1.Color())

	assert.Equal(t, "R5", R5.Label())
	assert.Equal(t, "Risco Alto", R5.Description())
	assert.Equal(t, "#D32F2F", R5.Color())

	assert.Equal(t, 3, R3.Index())

	var invalid RiskBand
	assert.Empty(t, invalid.Label())
	assert.Empty(t, invalid.Description())
	assert.Equal(t, "#787878", invalid.Color())
}

func TestClassifyMonthly(t *testing.T) {
	rows := []MonthlyScore{
		{Talhao: "1", Mes: "jan", Score: 15},
		{Talhao: "1", Mes: "fev", Score: 85},
	}

	out := ClassifyMonthly(rows)
	require.Len(t, out, 2)

	assert.Equal(t, "R1", out[0].Classe)
	assert.Equal(t, 1, out[0].ClasseIdx)
	assert.Equal(t, "Risco Muito Baixo", out[0].Risco)

	assert.Equal(t, "R5", out[1].Classe)
	assert.Equal(t, 5, out[1].ClasseIdx)
	assert.Equal(t, "Risco Alto", out[1].Risco)
}
