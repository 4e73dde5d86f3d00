package vikunja

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
)

const (
	// DefaultPageSize is used when a caller does not request a page size.
	DefaultPageSize = 20

	// MaxPageSize caps a single page so one response stays well inside the
	// output character budget.
	MaxPageSize = 50
)

// ErrNoMoreRecords is returned by Cursor.Next once the listing is exhausted.
// Callers get this explicit signal instead of an ambiguous empty page.
var ErrNoMoreRecords = errors.New("no more records")

// Cursor tracks position in a paged listing. The Vikunja API paginates with
// 1-indexed page and per_page parameters; the cursor presents the
// limit/offset view the tool layer speaks and does the translation. Offsets
// align down to a page boundary.
//
// A cursor belongs to one listing sequence and is not safe for concurrent
// use.
type Cursor struct {
	limit int
	page  int

	total      int // -1 until a total-count hint is observed
	totalPages int // -1 until observed
	lastCount  int
	fetched    int
	exhausted  bool
	observed   bool
}

// NewCursor creates a cursor for one listing sequence. A non-positive limit
// falls back to the default; limits above the maximum are clamped. A
// negative offset is treated as zero.
func NewCursor(limit, offset int) *Cursor {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return &Cursor{
		limit:      limit,
		page:       offset/limit + 1,
		total:      -1,
		totalPages: -1,
	}
}

// Limit returns the effective page size.
func (c *Cursor) Limit() int { return c.limit }

// Offset returns the record offset of the current page.
func (c *Cursor) Offset() int { return (c.page - 1) * c.limit }

// Total returns the total record count reported by the service, or -1 if no
// page has carried a total hint yet.
func (c *Cursor) Total() int { return c.total }

// Apply sets the pagination query parameters for the current page.
func (c *Cursor) Apply(q url.Values) {
	q.Set("page", strconv.Itoa(c.page))
	q.Set("per_page", strconv.Itoa(c.limit))
}

// Observe records the outcome of fetching the current page: the response
// headers carrying Vikunja's pagination hints and the number of records the
// page actually held. Exhaustion is detected from whichever signal arrives
// first: a short page, or a total-count hint showing nothing remains.
func (c *Cursor) Observe(hdr http.Header, count int) {
	c.observed = true
	c.lastCount = count
	c.fetched += count

	if v := hdr.Get("x-pagination-total-pages"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.totalPages = n
		}
	}
	if v := hdr.Get("x-pagination-result-count"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.total = n
		}
	}

	if count < c.limit {
		c.exhausted = true
	}
	if c.totalPages >= 0 && c.page >= c.totalPages {
		c.exhausted = true
	}
	if c.total >= 0 && c.Offset()+count >= c.total {
		c.exhausted = true
	}
}

// Exhausted reports whether the sequence has no further pages.
func (c *Cursor) Exhausted() bool { return c.exhausted }

// Next advances the cursor to the following page. It returns
// ErrNoMoreRecords when the current page was the last, and refuses to
// advance before the current page has been observed.
func (c *Cursor) Next() error {
	if !c.observed {
		return errors.New("current page has not been fetched")
	}
	if c.exhausted {
		return ErrNoMoreRecords
	}
	c.page++
	c.observed = false
	return nil
}

// PageMeta is the pagination metadata attached to shaped listing results.
type PageMeta struct {
	Total      int  `json:"total"`
	Count      int  `json:"count"`
	Limit      int  `json:"limit"`
	Offset     int  `json:"offset"`
	HasMore    bool `json:"has_more"`
	NextOffset *int `json:"next_offset"`
}

// Meta builds the metadata for the current page. Total falls back to the
// records seen so far when the service supplied no count hint.
func (c *Cursor) Meta() PageMeta {
	total := c.total
	if total < 0 {
		total = c.fetched
	}
	meta := PageMeta{
		Total:   total,
		Count:   c.lastCount,
		Limit:   c.limit,
		Offset:  c.Offset(),
		HasMore: !c.exhausted,
	}
	if meta.HasMore {
		next := meta.Offset + meta.Count
		meta.NextOffset = &next
	}
	return meta
}
