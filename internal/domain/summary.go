package domain

import "sort"

// AnnualSummary is the per-plot aggregate view over all scored months: the
// mean monthly score, the band of that mean, and the mean class index.
type AnnualSummary struct {
	Talhao string    `json:"talhao"`
	Lat    NullFloat `json:"lat"`
	Lon    NullFloat `json:"lon"`
	// ScoreMedio is the mean of the plot's monthly scores.
	ScoreMedio float64 `json:"score_medio"`
	// ClasseMedia is the risk band of ScoreMedio.
	ClasseMedia string `json:"classe_media"`
	RiscoMedio  string `json:"risco_medio"`
	// ClasseMediaIdx is the mean of the monthly class indexes, which can
	// differ from the index of ClasseMedia when months straddle a boundary.
	ClasseMediaIdx float64 `json:"classe_media_idx"`
}

// Summarize collapses classified monthly rows into one AnnualSummary per
// plot, sorted in natural plot order. Coordinates take the first valid
// value seen for the plot.
func Summarize(rows []ScoredMonth) []AnnualSummary {
	type acc struct {
		lat, lon  NullFloat
		scoreSum  float64
		idxSum    int
		numMonths int
	}

	byPlot := make(map[string]*acc)
	var order []string
	for _, row := range rows {
		a, ok := byPlot[row.Talhao]
		if !ok {
			a = &acc{}
			byPlot[row.Talhao] = a
			order = append(order, row.Talhao)
		}
		if !a.lat.Valid && row.Lat.Valid {
			a.lat = row.Lat
		}
		if !a.lon.Valid && row.Lon.Valid {
			a.lon = row.Lon
		}
		a.scoreSum += row.Score
		a.idxSum += row.ClasseIdx
		a.numMonths++
	}

	sort.Slice(order, func(i, j int) bool { return NaturalLess(order[i], order[j]) })

	out := make([]AnnualSummary, 0, len(order))
	for _, talhao := range order {
		a := byPlot[talhao]
		mean := a.scoreSum / float64(a.numMonths)
		band := Classify(mean)
		out = append(out, AnnualSummary{
			Talhao:         talhao,
			Lat:            a.lat,
			Lon:            a.lon,
			ScoreMedio:     mean,
			ClasseMedia:    band.Label(),
			RiscoMedio:     band.Description(),
			ClasseMediaIdx: float64(a.idxSum) / float64(a.numMonths),
		})
	}
	return out
}
