package markup

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// HeadingSelector matches heading-like and title-class elements.
const HeadingSelector = "h1, h2, h3, h4, .title, .headline"

// Candidate is one node under consideration, plus the anchor the link
// strategy resolved (nil when the candidate itself carried the href).
type Candidate struct {
	Node   *goquery.Selection
	Anchor *goquery.Selection
}

// LinkStrategy resolves a candidate's raw href. It returns the anchor the href
// came from and ok=false when the candidate has no usable link.
type LinkStrategy func(node *goquery.Selection) (href string, anchor *goquery.Selection, ok bool)

// TitleStrategy derives title text from a candidate. An empty string means
// skip to the next strategy.
type TitleStrategy func(c Candidate) string

// AnchorWithin finds the first descendant matching sel that has an href.
func AnchorWithin(sel string) LinkStrategy {
	return func(node *goquery.Selection) (string, *goquery.Selection, bool) {
		a := node.Find(sel).First()
		href, ok := a.Attr("href")
		href = strings.TrimSpace(href)
		if !ok || href == "" {
			return "", nil, false
		}
		return href, a, true
	}
}

// SelfHref uses the candidate's own href attribute.
func SelfHref() LinkStrategy {
	return func(node *goquery.Selection) (string, *goquery.Selection, bool) {
		href, ok := node.Attr("href")
		href = strings.TrimSpace(href)
		if !ok || href == "" {
			return "", nil, false
		}
		return href, node, true
	}
}

// AnchorText is the text of the resolved anchor.
func AnchorText() TitleStrategy {
	return func(c Candidate) string {
		if c.Anchor == nil {
			return ""
		}
		return strings.TrimSpace(c.Anchor.Text())
	}
}

// HeadingWithin is the first heading inside the candidate.
func HeadingWithin() TitleStrategy {
	return func(c Candidate) string {
		return strings.TrimSpace(c.Node.Find(HeadingSelector).First().Text())
	}
}

// ParentHeading is the first heading inside the candidate's parent.
func ParentHeading() TitleStrategy {
	return func(c Candidate) string {
		return strings.TrimSpace(c.Node.Parent().Find(HeadingSelector).First().Text())
	}
}

// SiblingHeading is the first sibling of the candidate that is a heading.
func SiblingHeading() TitleStrategy {
	return func(c Candidate) string {
		return strings.TrimSpace(c.Node.SiblingsFiltered(HeadingSelector).First().Text())
	}
}

var sentenceRe = regexp.MustCompile(`[.!?。！？]`)

// FirstSentence is the candidate's full text up to the first sentence mark.
func FirstSentence() TitleStrategy {
	return func(c Candidate) string {
		text := strings.TrimSpace(c.Node.Text())
		return strings.TrimSpace(sentenceRe.Split(text, 2)[0])
	}
}
