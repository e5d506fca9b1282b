package domain

// PlotAttributes holds the fixed terrain attributes of a plot. The criterion
// set is closed and known at design time, so the record is a fixed-field
// struct rather than a string-keyed map: an unknown criterion is a compile
// error, not a silent miss. The zero value (all false) is the attribute
// record of an unregistered plot.
type PlotAttributes struct {
	Eucalipto    bool `json:"eucalipto"`
	AreaUmida    bool `json:"area_umida"`
	RepresasRios bool `json:"represas_rios"`
	Estrada      bool `json:"estrada"`
	Eletrica     bool `json:"eletrica"`
	Moradores    bool `json:"moradores"`
	Cerrado      bool `json:"cerrado"`
	// BarreiraNatural is tracked in the registry but carries no weight in
	// the current model.
	BarreiraNatural bool `json:"barreira_natural"`
}

// AttributeSource resolves a plot id to its terrain attributes. Lookup is a
// total function: an unknown plot yields the zero-value record.
type AttributeSource interface {
	Lookup(plotID string) PlotAttributes
}

// AttributeMap is an in-memory AttributeSource.
type AttributeMap map[string]PlotAttributes

func (m AttributeMap) Lookup(plotID string) PlotAttributes {
	return m[plotID]
}
