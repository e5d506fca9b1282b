// Package domain models the fire-risk data for monitored plots ("talhões").
//
// # Data Source
//
// Climate measurements arrive as a consolidated workbook with four sheets,
// one per variable: total precipitation, maximum temperature, mean
// temperature and relative humidity. Each sheet is a wide table (one row
// per plot, one column per month-year period) produced by the field
// monitoring team, so headers and cells are messy and parsing is lenient
// throughout (bad cells become missing values, never errors).
//
// # Month tokens
//
// A month-year token has the form "<abbrev>_<year>", e.g. "jun_2022".
// The month vocabulary is the Portuguese three-letter abbreviation set:
//
//	jan fev mar abr mai jun jul ago set out nov dez
//
// Source headers carry variable prefixes ("umid_", "temp_", ...) and
// occasionally full or irregular month spellings ("abril", "março", "dec"),
// all normalized during ingestion. Tokens that fail to normalize become the
// empty string and are preserved in the consolidated table; they are
// filtered out before the historical aggregation.
//
// # Scoring model
//
// The score is a fixed weighted sum (an AHP-derived model) over eleven
// criteria: four climate variables, min-max scaled globally across the
// aggregated table (humidity and precipitation with the sense inverted,
// since more rain means less fire), and seven boolean site attributes used
// as 0/1. The raw sum is rescaled to 0–100 against the theoretical bounds
// (all features 0 vs. all features 1) so scores stay comparable across
// uploads, then classified into five bands R1..R5.
package domain
