package models

// Page is the from/size window used by every paged list.
//
// From is converted to a page index by integer division, so a from that is
// not a multiple of size is rounded down to the start of its page.
type Page struct {
	From int
	Size int
}

func (p Page) Offset() int {
	if p.Size <= 0 {
		return 0
	}
	return (p.From / p.Size) * p.Size
}

func (p Page) Limit() int {
	return p.Size
}

// Valid reports whether the window can be used for a query.
func (p Page) Valid() bool {
	return p.From >= 0 && p.Size > 0
}
