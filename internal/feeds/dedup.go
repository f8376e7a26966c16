package feeds

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// SimilarPrefixLen is how many leading runes of a title are compared when
// looking for the same headline rendered twice.
const SimilarPrefixLen = 20

// whitespaceRe matches runs of whitespace.
var whitespaceRe = regexp.MustCompile(`\s+`)

// NormalizeTitle collapses whitespace runs to single spaces and trims the ends.
func NormalizeTitle(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

// TitleLen returns the length of a title in runes.
func TitleLen(s string) int {
	return utf8.RuneCountInString(s)
}

// prefix returns the first n runes of s.
func prefix(s string, n int) string {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

// Similar reports whether a and b look like the same entry: identical links,
// or one lowercased title containing the lowercased first SimilarPrefixLen
// runes of the other.
//
// Distinct headlines that share an opening ("NBA Draft 2025: ...") match too.
// That looseness is accepted.
func Similar(a, b Item) bool {
	if a.Link != "" && a.Link == b.Link {
		return true
	}
	at := strings.ToLower(a.Title)
	bt := strings.ToLower(b.Title)
	if at == "" || bt == "" {
		return false
	}
	return strings.Contains(at, prefix(bt, SimilarPrefixLen)) ||
		strings.Contains(bt, prefix(at, SimilarPrefixLen))
}

// Collection accumulates items, rejecting any candidate Similar to one
// already accepted. The zero value is ready to use.
type Collection struct {
	items []Item
	limit int
}

// NewCollection returns a Collection that stops accepting after limit items.
// A limit <= 0 means unbounded.
func NewCollection(limit int) *Collection {
	c := &Collection{limit: limit}
	if limit > 0 {
		c.items = make([]Item, 0, limit)
	}
	return c
}

// Add appends item unless it duplicates an accepted item or the collection is
// full. Reports whether the item was accepted.
func (c *Collection) Add(item Item) bool {
	if c.Full() {
		return false
	}
	for _, existing := range c.items {
		if Similar(existing, item) {
			return false
		}
	}
	c.items = append(c.items, item)
	return true
}

// Full reports whether the collection reached its limit.
func (c *Collection) Full() bool {
	return c.limit > 0 && len(c.items) >= c.limit
}

// Len returns the number of accepted items.
func (c *Collection) Len() int {
	return len(c.items)
}

// Items returns the accepted items in insertion order.
func (c *Collection) Items() []Item {
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

// Dedup returns items with duplicates removed. First occurrence wins, so the
// result is stable and running it twice changes nothing.
func Dedup(items []Item) []Item {
	c := NewCollection(0)
	for _, item := range items {
		c.Add(item)
	}
	return c.Items()
}
