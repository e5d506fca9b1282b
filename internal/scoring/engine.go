// Package scoring implements the weighted multi-criteria fire-risk model.
// It aggregates the consolidated climate table into historical per-month
// averages for every plot, normalizes each numeric criterion onto [0,1]
// against global bounds, combines climate and terrain criteria as a
// weighted sum, and rescales the result to 0–100.
package scoring

import (
	"log/slog"
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/sabia-monitor/fire-risk-etl/internal/domain"
)

// monthWordRe captures the leading month word of a "<month>_<year>" token.
var monthWordRe = regexp.MustCompile(`^[a-zç]+`)

// fullMonthNames maps full Portuguese month names, which some source
// headers use, to the canonical abbreviations.
var fullMonthNames = map[string]string{
	"janeiro": "jan", "fevereiro": "fev", "março": "mar", "abril": "abr",
	"maio": "mai", "junho": "jun", "julho": "jul", "agosto": "ago",
	"setembro": "set", "outubro": "out", "novembro": "nov", "dezembro": "dez",
}

// Engine scores a consolidated climate table. Attributes and weights are
// injected, never read from globals, so the engine is testable with
// synthetic fixtures.
type Engine struct {
	attrs   domain.AttributeSource
	weights domain.Weights
	logger  *slog.Logger
}

// Stats summarizes one scoring run for logging and metrics.
type Stats struct {
	// RowsIn is the number of consolidated records received.
	RowsIn int
	// RowsDropped counts records whose month token did not resolve to the
	// twelve-month vocabulary and were excluded from aggregation.
	RowsDropped int
	// Groups is the number of (plot, month) pairs scored.
	Groups int
}

// NewEngine creates an Engine. The weight vector must validate; the caller
// checks that at startup via Weights.Validate.
func NewEngine(attrs domain.AttributeSource, weights domain.Weights, logger *slog.Logger) *Engine {
	return &Engine{attrs: attrs, weights: weights, logger: logger}
}

// Weights returns the injected weight vector.
func (e *Engine) Weights() domain.Weights { return e.weights }

// Score runs the full model over the consolidated table and returns one
// row per (plot, month-of-year) pair, sorted by (plot, month) ascending.
// Empty input yields empty output; the engine raises no errors of its own
// beyond weight validation.
func (e *Engine) Score(records []domain.ClimateRecord) ([]domain.MonthlyScore, Stats, error) {
	if err := e.weights.Validate(); err != nil {
		return nil, Stats{}, err
	}

	stats := Stats{RowsIn: len(records)}
	groups := e.aggregate(records, &stats)
	stats.Groups = len(groups)

	if stats.RowsDropped > 0 && e.logger != nil {
		e.logger.Warn("dropped rows with unresolvable month tokens",
			"dropped", stats.RowsDropped, "total", stats.RowsIn)
	}

	bounds := globalBounds(groups)
	total := e.weights.Sum()

	out := make([]domain.MonthlyScore, 0, len(groups))
	for _, g := range groups {
		raw := e.weightedSum(g, bounds)
		out = append(out, domain.MonthlyScore{
			Talhao: g.talhao,
			Mes:    g.mes,
			Lat:    g.lat,
			Lon:    g.lon,
			Score:  rescale(raw, total),
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Talhao != out[j].Talhao {
			return out[i].Talhao < out[j].Talhao
		}
		return out[i].Mes < out[j].Mes
	})
	return out, stats, nil
}

// SimplifyMonth reduces a month-year token to its month abbreviation:
// "jun_2022" → "jun", "janeiro_2021" → "jan". The second return is false
// when the token does not resolve to the month vocabulary; such rows are
// dropped before aggregation rather than forming a garbage group.
func SimplifyMonth(token string) (string, bool) {
	word := monthWordRe.FindString(strings.ToLower(strings.TrimSpace(token)))
	if word == "" {
		return "", false
	}
	if full, ok := fullMonthNames[word]; ok {
		word = full
	}
	if domain.MonthIndex(word) == 0 {
		return "", false
	}
	return word, true
}

// group accumulates the historical means of one (plot, month) pair.
type group struct {
	talhao string
	mes    string

	umidade      meanAcc
	precipitacao meanAcc
	tempMaxima   meanAcc
	tempMedia    meanAcc

	lat domain.NullFloat
	lon domain.NullFloat
}

// meanAcc averages the valid observations of one variable; invalid values
// do not count toward the mean.
type meanAcc struct {
	sum float64
	n   int
}

func (a *meanAcc) add(v domain.NullFloat) {
	if !v.Valid {
		return
	}
	a.sum += v.Value
	a.n++
}

func (a meanAcc) mean() domain.NullFloat {
	if a.n == 0 {
		return domain.NullFloat{}
	}
	return domain.Float(a.sum / a.n64())
}

func (a meanAcc) n64() float64 { return float64(a.n) }

// aggregate collapses records across years into per-(plot, month) groups.
// Coordinates are plot-level constants: the first valid value wins.
func (e *Engine) aggregate(records []domain.ClimateRecord, stats *Stats) []*group {
	byKey := make(map[string]*group)
	var order []*group

	for _, rec := range records {
		mes, ok := SimplifyMonth(rec.MesAno)
		if !ok {
			stats.RowsDropped++
			continue
		}
		key := rec.Talhao + "\x00" + mes
		g, seen := byKey[key]
		if !seen {
			g = &group{talhao: rec.Talhao, mes: mes}
			byKey[key] = g
			order = append(order, g)
		}
		g.umidade.add(rec.Umidade)
		g.precipitacao.add(rec.Precipitacao)
		g.tempMaxima.add(rec.TempMaxima)
		g.tempMedia.add(rec.TempMedia)
		if !g.lat.Valid && rec.Lat.Valid {
			g.lat = rec.Lat
		}
		if !g.lon.Valid && rec.Lon.Valid {
			g.lon = rec.Lon
		}
	}
	return order
}

// criterionBounds holds the global min/max of one numeric criterion across
// the whole aggregated table. ok is false when no group had a valid value.
type criterionBounds struct {
	min, max float64
	ok       bool
}

func (b *criterionBounds) observe(v domain.NullFloat) {
	if !v.Valid {
		return
	}
	if !b.ok || v.Value < b.min {
		b.min = v.Value
	}
	if !b.ok || v.Value > b.max {
		b.max = v.Value
	}
	b.ok = true
}

// normalize min-max scales a value into [0,1], inverting the sense for
// criteria where a higher raw value means lower risk. Missing values and
// zero-variance criteria contribute 0 so a degenerate criterion flattens
// out instead of producing NaN.
func (b criterionBounds) normalize(v domain.NullFloat, invert bool) float64 {
	if !v.Valid || !b.ok || b.max == b.min {
		return 0
	}
	x := (v.Value - b.min) / (b.max - b.min)
	if invert {
		x = 1 - x
	}
	return x
}

// tableBounds collects the bounds of all four numeric criteria.
type tableBounds struct {
	umidade      criterionBounds
	precipitacao criterionBounds
	tempMaxima   criterionBounds
	tempMedia    criterionBounds
}

// globalBounds is the first pass of the normalization barrier: bounds are
// computed over every group before any row is combined.
func globalBounds(groups []*group) tableBounds {
	var b tableBounds
	for _, g := range groups {
		b.umidade.observe(g.umidade.mean())
		b.precipitacao.observe(g.precipitacao.mean())
		b.tempMaxima.observe(g.tempMaxima.mean())
		b.tempMedia.observe(g.tempMedia.mean())
	}
	return b
}

// weightedSum combines the normalized criteria of one group. Each term
// pairs a criterion with its weight by name; there is no positional column
// assembly to mis-align.
func (e *Engine) weightedSum(g *group, b tableBounds) float64 {
	w := e.weights
	attrs := e.attrs.Lookup(g.talhao)

	// Humidity and precipitation invert: wetter means less fire risk.
	sum := w.Umidade * b.umidade.normalize(g.umidade.mean(), true)
	sum += w.Precipitacao * b.precipitacao.normalize(g.precipitacao.mean(), true)
	sum += w.TempMaxima * b.tempMaxima.normalize(g.tempMaxima.mean(), false)
	sum += w.TempMedia * b.tempMedia.normalize(g.tempMedia.mean(), false)

	sum += w.Eucalipto * boolFeature(attrs.Eucalipto)
	sum += w.AreaUmida * boolFeature(attrs.AreaUmida)
	sum += w.RepresasRios * boolFeature(attrs.RepresasRios)
	sum += w.Estrada * boolFeature(attrs.Estrada)
	sum += w.Eletrica * boolFeature(attrs.Eletrica)
	sum += w.Moradores * boolFeature(attrs.Moradores)
	sum += w.Cerrado * boolFeature(attrs.Cerrado)
	return sum
}

func boolFeature(v bool) float64 {
	if v {
		return 1
	}
	return 0
}

// rescale maps a raw weighted sum onto [0,100] against the theoretical
// bounds (zero and the total weight), not the empirical spread, so scores
// stay comparable across uploads. The result is clipped against
// floating-point overshoot.
func rescale(raw, totalWeight float64) float64 {
	if totalWeight <= 0 {
		return 0
	}
	return math.Min(100, math.Max(0, raw/totalWeight*100))
}
