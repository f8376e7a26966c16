package feeds

import (
	"regexp"
	"strings"
)

// Filter determines if an item should be excluded
type Filter struct {
	// URL patterns to block
	BlockURLPatterns []*regexp.Regexp

	// Title patterns to block
	BlockTitlePatterns []*regexp.Regexp

	// Keywords in titles that indicate promos
	BlockKeywords []string

	// Source-specific URL patterns (source name -> patterns)
	SourceBlockPatterns map[string][]*regexp.Regexp
}

// DefaultFilter returns a filter configured to block the promotional tiles
// listing pages mix in with headlines.
func DefaultFilter() *Filter {
	f := &Filter{
		BlockKeywords: []string{
			"sponsored",
			"advertisement",
			"presented by",
			"brought to you by",
			"promo code",
			"bonus bets",
			"sportsbook",
			"[ad]",
			"[sponsored]",
		},
		SourceBlockPatterns: make(map[string][]*regexp.Regexp),
	}

	// Ad URL patterns shared by listing pages
	f.BlockURLPatterns = compilePatterns([]string{
		`/sponsored/`,
		`/partner/`,
		`/advertisement/`,
		`doubleclick\.net`,
		`googlesyndication\.com`,
		`/promo/`,
		`utm_source=paid`,
	})

	// Title patterns that indicate ads/promos
	f.BlockTitlePatterns = compilePatterns([]string{
		`(?i)^sponsored:`,
		`(?i)^ad:`,
		`(?i)^promo:`,
		`(?i)^(watch|stream) live`,
	})

	f.SourceBlockPatterns["NBA Official"] = compilePatterns([]string{
		`/nba-store/`,
		`store\.nba\.com`,
		`/league-pass/`,
	})

	f.SourceBlockPatterns["ESPN NBA"] = compilePatterns([]string{
		`/espnplus/`,
		`/betting/`,
		`/fantasy/`,
	})

	return f
}

func compilePatterns(patterns []string) []*regexp.Regexp {
	result := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		if re, err := regexp.Compile(p); err == nil {
			result = append(result, re)
		}
	}
	return result
}

// ShouldBlock returns true if the item should be filtered out
func (f *Filter) ShouldBlock(item Item) bool {
	// Block empty titles
	title := strings.TrimSpace(item.Title)
	if title == "" {
		return true
	}

	for _, re := range f.BlockURLPatterns {
		if re.MatchString(item.Link) {
			return true
		}
	}

	if patterns, ok := f.SourceBlockPatterns[item.Source]; ok {
		for _, re := range patterns {
			if re.MatchString(item.Link) {
				return true
			}
		}
	}

	for _, re := range f.BlockTitlePatterns {
		if re.MatchString(title) {
			return true
		}
	}

	titleLower := strings.ToLower(title)
	for _, kw := range f.BlockKeywords {
		if strings.Contains(titleLower, kw) {
			return true
		}
	}

	return false
}

// FilterItems returns items with blocked content removed
func (f *Filter) FilterItems(items []Item) []Item {
	result := make([]Item, 0, len(items))
	for _, item := range items {
		if !f.ShouldBlock(item) {
			result = append(result, item)
		}
	}
	return result
}

// BlockedCount returns how many items would be blocked
func (f *Filter) BlockedCount(items []Item) int {
	count := 0
	for _, item := range items {
		if f.ShouldBlock(item) {
			count++
		}
	}
	return count
}
