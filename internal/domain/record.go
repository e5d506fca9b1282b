package domain

// ClimateRecord is one row of the consolidated long-form table: a plot, a
// month-year token, and the four climate variables observed in that period.
// It is produced by a full outer join of the four per-variable sheets, so a
// plot/period present in only one sheet still appears, with the remaining
// variables invalid. Coordinates come from a left join and are constant per
// plot; absence leaves them invalid, not an error.
type ClimateRecord struct {
	Talhao string `json:"talhao"`
	// MesAno is the normalized "<abbrev>_<year>" token, or "" when the
	// source header failed to parse.
	MesAno       string    `json:"mes"`
	Precipitacao NullFloat `json:"precipitacao"`
	TempMaxima   NullFloat `json:"temp_maxima"`
	TempMedia    NullFloat `json:"temp_media"`
	Umidade      NullFloat `json:"umidade"`
	Lat          NullFloat `json:"lat"`
	Lon          NullFloat `json:"lon"`
}

// MonthlyScore is the scoring engine's output unit: one row per
// (plot, month-of-year) pair observed in the data. Years are collapsed by
// averaging, so Mes is a bare month abbreviation, not a month-year token.
type MonthlyScore struct {
	Talhao string    `json:"talhao"`
	Mes    string    `json:"mes"`
	Lat    NullFloat `json:"lat"`
	Lon    NullFloat `json:"lon"`
	// Score is the weighted multi-criteria score, rescaled to [0,100].
	Score float64 `json:"score"`
}
