package client

import "github.com/abelbrown/courtside/internal/feeds"

// Sections holds items grouped for display. Order within each group follows
// the input order.
type Sections struct {
	News     []feeds.Item
	Scores   []feeds.Item
	Schedule []feeds.Item
}

// Len returns the total number of items across all groups.
func (s Sections) Len() int {
	return len(s.News) + len(s.Scores) + len(s.Schedule)
}

// Partition groups items by type. Items without a recognised type are news.
func Partition(items []feeds.Item) Sections {
	var s Sections
	for _, item := range items {
		switch feeds.ParseType(string(item.Type)) {
		case feeds.TypeScore:
			s.Scores = append(s.Scores, item)
		case feeds.TypeSchedule:
			s.Schedule = append(s.Schedule, item)
		default:
			s.News = append(s.News, item)
		}
	}
	return s
}
