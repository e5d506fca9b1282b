// Package terrain holds the static registry of fixed site attributes for the
// monitored plots and the default AHP weight vector. Both are plain data
// handed to the scoring engine as explicit parameters; nothing in this
// package is consulted ambiently.
package terrain

import (
	"strconv"

	"github.com/sabia-monitor/fire-risk-etl/internal/domain"
)

// Attribute membership per plot, as surveyed in the field. Plot ids run
// 1 through 100; a plot absent from a set does not have that attribute.
var (
	proximidadeEletrica = plotSet(
		2, 3, 14, 15, 26, 27, 28, 36, 37, 45, 46, 58, 59, 63, 64, 65, 66,
		68, 69, 70, 73, 74, 75, 76, 77, 80, 81, 89, 90, 91, 92,
	)

	proximidadeMoradores = plotSet(2, 3, 14, 15)

	proximidadeEstrada = plotSet(8, 9, 19, 20, 31, 32, 40, 42, 85, 86, 99, 100)

	// No plot currently has a surveyed natural barrier.
	barreiraNatural = plotSet()

	plantioEucalipto = plotSet(
		1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 18, 19, 20,
		21, 22, 24, 25, 27, 28, 29, 30, 31, 33, 34, 35, 36, 38, 39, 40, 41,
		42, 43, 44, 45, 47, 48, 50, 52, 54, 56, 57, 58, 59, 62, 63, 64, 69,
		72, 73, 75, 76, 77, 78, 79, 80, 81, 82, 83, 84, 85, 88, 91, 92, 93,
		94, 95, 97, 98, 99,
	)

	vegetacaoCerrado = plotSet(
		7, 17, 23, 26, 37, 41, 46, 49, 51, 53, 55, 61, 66, 67, 71, 74, 96,
	)

	vegetacaoAreaUmida = plotSet(32, 34, 60, 61, 65, 68, 70, 87, 89, 90)

	represasRios = plotSet(
		23, 32, 41, 50, 51, 55, 60, 61, 65, 66, 67, 68, 70, 71, 74, 80, 81,
		87, 89, 90,
	)
)

// Registry builds the attribute table for plots "1" through "100". Plot ids
// are strings because the workbook identifier column is free text.
func Registry() domain.AttributeMap {
	m := make(domain.AttributeMap, 100)
	for i := 1; i <= 100; i++ {
		m[strconv.Itoa(i)] = domain.PlotAttributes{
			Eucalipto:       plantioEucalipto[i],
			AreaUmida:       vegetacaoAreaUmida[i],
			RepresasRios:    represasRios[i],
			Estrada:         proximidadeEstrada[i],
			Eletrica:        proximidadeEletrica[i],
			Moradores:       proximidadeMoradores[i],
			Cerrado:         vegetacaoCerrado[i],
			BarreiraNatural: barreiraNatural[i],
		}
	}
	return m
}

// DefaultWeights returns the AHP-derived criterion weights. They sum to 1;
// climate criteria together outweigh the fixed terrain attributes.
func DefaultWeights() domain.Weights {
	return domain.Weights{
		Umidade:      0.18,
		Precipitacao: 0.16,
		TempMaxima:   0.14,
		TempMedia:    0.10,
		Eucalipto:    0.12,
		AreaUmida:    0.06,
		RepresasRios: 0.05,
		Estrada:      0.06,
		Eletrica:     0.05,
		Moradores:    0.04,
		Cerrado:      0.04,
	}
}

func plotSet(ids ...int) map[int]bool {
	s := make(map[int]bool, len(ids))
	for _, id := range ids {
		s[id] = true
	}
	return s
}
