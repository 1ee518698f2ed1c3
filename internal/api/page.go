package api

// Page is the pagination envelope the backend wraps every list response in.
// current_page never exceeds last_page and data holds at most per_page rows;
// both are backend guarantees, not checked here.
type Page[T any] struct {
	CurrentPage int `json:"current_page"`
	Data        []T `json:"data"`
	LastPage    int `json:"last_page"`
	PerPage     int `json:"per_page"`
	Total       int `json:"total"`
}

func (p Page[T]) HasNext() bool {
	return p.CurrentPage < p.LastPage
}

func (p Page[T]) HasPrev() bool {
	return p.CurrentPage > 1
}
