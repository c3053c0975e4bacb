package campaign

import (
	"math"
	"slices"
	"strings"
	"time"
)

const (
	DefaultLimit = 25
	MaxLimit     = 100
)

// SortField names a date field campaigns can be ordered by.
type SortField string

const (
	SortSendDate     SortField = "sdate"
	SortLastSendDate SortField = "ldate"
)

// Query holds list parameters exactly as they arrive from a request. Invalid
// values never fail a query; they fall back to defaults.
type Query struct {
	Automation    string
	SortField     SortField
	SortDirection string
	Limit         string
	Offset        string
}

// Meta describes the page that was produced.
type Meta struct {
	Total  int // matching campaigns before pagination
	Limit  int
	Offset int
	Sort   string // "field:direction", empty when no sort was applied
}

// Page is one page of query results.
type Page struct {
	Campaigns []Campaign
	Meta      Meta
}

// Filtered reports whether the automation flag restricts the result set.
func (q Query) Filtered() bool {
	switch strings.ToLower(q.Automation) {
	case "true", "1", "false", "0":
		return true
	}
	return false
}

// OrderBy picks the sort field from the two order parameters a list request
// can carry. The send date wins when both are present.
func OrderBy(sendDate, lastSendDate string) (SortField, string) {
	switch {
	case sendDate != "":
		return SortSendDate, sendDate
	case lastSendDate != "":
		return SortLastSendDate, lastSendDate
	default:
		return "", ""
	}
}

// Process filters, sorts and paginates the corpus.
func Process(c *Corpus, q Query) Page {
	results := filterAutomation(c.campaigns, q.Automation)

	var sortLabel string
	if dir := parseDirection(q.SortDirection); dir != 0 && q.SortField.valid() {
		sortByDate(results, q.SortField, dir)
		sortLabel = string(q.SortField) + ":" + directionName(dir)
	}

	limit := parseLimit(q.Limit)
	offset := parseOffset(q.Offset)

	page := []Campaign{}
	if offset < len(results) {
		end := len(results)
		if limit < end-offset {
			end = offset + limit
		}
		page = results[offset:end]
	}

	return Page{
		Campaigns: page,
		Meta: Meta{
			Total:  len(results),
			Limit:  limit,
			Offset: offset,
			Sort:   sortLabel,
		},
	}
}

// filterAutomation always returns a fresh slice so callers can sort it.
func filterAutomation(campaigns []Campaign, flag string) []Campaign {
	var keep func(Campaign) bool
	switch strings.ToLower(flag) {
	case "true", "1":
		keep = Campaign.IsAutomation
	case "false", "0":
		keep = func(c Campaign) bool { return !c.IsAutomation() }
	default:
		return slices.Clone(campaigns)
	}

	out := make([]Campaign, 0, len(campaigns))
	for _, c := range campaigns {
		if keep(c) {
			out = append(out, c)
		}
	}
	return out
}

func (f SortField) valid() bool {
	return f == SortSendDate || f == SortLastSendDate
}

func (f SortField) date(c Campaign) *time.Time {
	if f == SortLastSendDate {
		return c.LastSendDate
	}
	return c.SendDate
}

// sortByDate orders campaigns by the given date field. Campaigns without a
// date go last in either direction, and ties keep their relative order.
func sortByDate(campaigns []Campaign, field SortField, dir int) {
	slices.SortStableFunc(campaigns, func(a, b Campaign) int {
		left, right := field.date(a), field.date(b)
		switch {
		case left == nil && right == nil:
			return 0
		case left == nil:
			return 1
		case right == nil:
			return -1
		}
		return left.Compare(*right) * dir
	})
}

// parseDirection returns 1 for ascending, -1 for descending and 0 otherwise.
func parseDirection(v string) int {
	switch strings.ToLower(v) {
	case "asc", "ascending":
		return 1
	case "desc", "descending":
		return -1
	}
	return 0
}

func directionName(dir int) string {
	if dir < 0 {
		return "desc"
	}
	return "asc"
}

func parseLimit(v string) int {
	n, ok := parseLeadingInt(v)
	if !ok || n <= 0 {
		return DefaultLimit
	}
	return min(n, MaxLimit)
}

func parseOffset(v string) int {
	n, ok := parseLeadingInt(v)
	if !ok || n < 0 {
		return 0
	}
	return n
}

// parseLeadingInt parses the optionally signed decimal prefix of v after
// leading whitespace, so "12abc" is 12. Values beyond the int range saturate.
func parseLeadingInt(v string) (int, bool) {
	v = strings.TrimLeft(v, " \t\n\r\v\f")
	neg := false
	if v != "" && (v[0] == '+' || v[0] == '-') {
		neg = v[0] == '-'
		v = v[1:]
	}

	n, digits := 0, 0
	for ; digits < len(v) && v[digits] >= '0' && v[digits] <= '9'; digits++ {
		d := int(v[digits] - '0')
		if n > (math.MaxInt-d)/10 {
			n = math.MaxInt
			continue
		}
		n = n*10 + d
	}
	if digits == 0 {
		return 0, false
	}
	if neg {
		return -n, true
	}
	return n, true
}
