package kafka

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sabia-monitor/fire-risk-etl/internal/domain"
)

func TestSerializeToMessage(t *testing.T) {
	generatedAt := time.Date(2025, 3, 12, 9, 30, 0, 0, time.UTC)
	month := domain.ScoredMonth{
		MonthlyScore: domain.MonthlyScore{
			Talhao: "17",
			Mes:    "set",
			Lat:    domain.Float(-21.17),
			Lon:    domain.Float(-47.82),
			Score:  83.4,
		},
		Classe:    "R5",
		ClasseIdx: 5,
		Risco:     "Risco Alto",
		Cor:       "#D32F2F",
	}

	msg, err := serializeToMessage(month, "run-abc", generatedAt)
	require.NoError(t, err)

	assert.Equal(t, []byte("17"), msg.Key)
	assert.Contains(t, string(msg.Value), `"talhao":"17"`)
	assert.Contains(t, string(msg.Value), `"classe":"R5"`)
	assert.Contains(t, string(msg.Value), `"risco":"Risco Alto"`)

	require.Len(t, msg.Headers, 2)
	assert.Equal(t, "run_id", msg.Headers[0].Key)
	assert.Equal(t, []byte("run-abc"), msg.Headers[0].Value)
	assert.Equal(t, "generated_at", msg.Headers[1].Key)
	assert.Equal(t, []byte(generatedAt.Format(time.RFC3339)), msg.Headers[1].Value)
}

func TestSerializeToMessage_NullCoordinates(t *testing.T) {
	month := domain.ScoredMonth{
		MonthlyScore: domain.MonthlyScore{Talhao: "9", Mes: "jan", Score: 12.5},
		Classe:       "R1",
		ClasseIdx:    1,
		Risco:        "Risco Muito Baixo",
		Cor:          "#2E7D32",
	}

	msg, err := serializeToMessage(month, "run-abc", time.Now())
	require.NoError(t, err)

	assert.Contains(t, string(msg.Value), `"lat":null`)
	assert.Contains(t, string(msg.Value), `"lon":null`)
}
