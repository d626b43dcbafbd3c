package pagination

// Meta describes the window returned from a list.
type Meta struct {
	Offset     int  `json:"offset"`
	Returned   int  `json:"returned"`
	TotalItems int  `json:"total_items"`
	HasNext    bool `json:"has_next"`
}

// NewMeta builds Meta for a window of returned items out of total.
func NewMeta(p Params, returned, total int) Meta {
	offset := min(p.EffectiveOffset(), total)
	return Meta{
		Offset:     offset,
		Returned:   returned,
		TotalItems: total,
		HasNext:    offset+returned < total,
	}
}
