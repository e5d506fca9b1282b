package domain

import (
	"fmt"
	"math"
)

// Weights assigns a non-negative importance to each scoring criterion: the
// four climate variables plus the seven boolean terrain attributes. The
// struct is fixed-field on purpose: criteria are paired with their weights
// by name, never by position in an array, so the pairing cannot silently
// shift if the criterion set changes.
type Weights struct {
	Umidade      float64 `json:"umidade"`
	Precipitacao float64 `json:"precipitacao"`
	TempMaxima   float64 `json:"temp_maxima"`
	TempMedia    float64 `json:"temp_media"`
	Eucalipto    float64 `json:"eucalipto"`
	AreaUmida    float64 `json:"area_umida"`
	RepresasRios float64 `json:"represas_rios"`
	Estrada      float64 `json:"estrada"`
	Eletrica     float64 `json:"eletrica"`
	Moradores    float64 `json:"moradores"`
	Cerrado      float64 `json:"cerrado"`
}

// Sum returns the total weight. It is the theoretical maximum of the raw
// weighted sum (every feature at 1) and the denominator of the 0–100 rescale.
func (w Weights) Sum() float64 {
	return w.Umidade + w.Precipitacao + w.TempMaxima + w.TempMedia +
		w.Eucalipto + w.AreaUmida + w.RepresasRios + w.Estrada +
		w.Eletrica + w.Moradores + w.Cerrado
}

// Validate rejects negative or non-finite weights. An all-zero vector is
// permitted and yields a zero score for every row.
func (w Weights) Validate() error {
	for _, c := range []struct {
		name  string
		value float64
	}{
		{"umidade", w.Umidade},
		{"precipitacao", w.Precipitacao},
		{"temp_maxima", w.TempMaxima},
		{"temp_media", w.TempMedia},
		{"eucalipto", w.Eucalipto},
		{"area_umida", w.AreaUmida},
		{"represas_rios", w.RepresasRios},
		{"estrada", w.Estrada},
		{"eletrica", w.Eletrica},
		{"moradores", w.Moradores},
		{"cerrado", w.Cerrado},
	} {
		if c.value < 0 {
			return fmt.Errorf("weight %s is negative: %g", c.name, c.value)
		}
		if math.IsNaN(c.value) || math.IsInf(c.value, 0) {
			return fmt.Errorf("weight %s is not finite", c.name)
		}
	}
	return nil
}
