package domain

// Page is one window of a list query.
type Page[T any] struct {
	Results []T  `json:"results"`
	Total   int  `json:"total"`
	HasMore bool `json:"hasMore"`
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
}

func NewPage[T any](results []T, total, limit, offset int) Page[T] {
	if results == nil {
		results = []T{}
	}
	return Page[T]{
		Results: results,
		Total:   total,
		HasMore: offset+len(results) < total,
		Limit:   limit,
		Offset:  offset,
	}
}
