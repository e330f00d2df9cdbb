package display

// Page is the half-open item range [Start, End) shown on one frame
type Page struct {
	Start int
	End   int
}

// Len returns the number of items on the page
func (p Page) Len() int { return p.End - p.Start }

// Paginate splits n items into pages of at most size items, in order. The
// last page may be shorter. No items means no pages. A non-positive size
// puts everything on one page.
func Paginate(n, size int) []Page {
	if n <= 0 {
		return nil
	}
	if size <= 0 {
		return []Page{{Start: 0, End: n}}
	}
	pages := make([]Page, 0, (n+size-1)/size)
	for start := 0; start < n; start += size {
		pages = append(pages, Page{Start: start, End: min(start+size, n)})
	}
	return pages
}

// PaginateFirst is Paginate with a different size for the first page, which
// shares the frame with the header. A non-positive first falls back to
// Paginate.
func PaginateFirst(n, first, size int) []Page {
	if n <= 0 {
		return nil
	}
	if first <= 0 || first == size {
		return Paginate(n, size)
	}
	head := Page{Start: 0, End: min(first, n)}
	pages := []Page{head}
	for _, p := range Paginate(n-head.End, size) {
		pages = append(pages, Page{Start: p.Start + head.End, End: p.End + head.End})
	}
	return pages
}
