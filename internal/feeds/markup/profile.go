package markup

// Profile describes how to scrape one listing page.
type Profile struct {
	Name       string // source label on every item
	URL        string // listing page
	Origin     string // base for relative links
	Cap        int    // max items per run
	Candidates []string
	Link       []LinkStrategy
	Titles     []TitleStrategy
	PreferLen  int // a title shorter than this falls through to the next strategy
	MinLen     int // exclusive lower bound on title runes
	MaxLen     int // exclusive upper bound on title runes
}

// Default title band.
const (
	DefaultMinLen = 15
	DefaultMaxLen = 200
)

// NBAOfficial scrapes the nba.com top stories listing.
func NBAOfficial() Profile {
	return Profile{
		Name:       "NBA Official",
		URL:        "https://www.nba.com/news/category/top-stories",
		Origin:     "https://www.nba.com",
		Cap:        8,
		Candidates: []string{"article"},
		Link:       []LinkStrategy{AnchorWithin(`a[href*="/news/"]`)},
		Titles:     []TitleStrategy{AnchorText(), HeadingWithin(), FirstSentence()},
		PreferLen:  20,
		MinLen:     DefaultMinLen,
		MaxLen:     DefaultMaxLen,
	}
}

// ESPN scrapes story links off the espn.com NBA front page.
func ESPN() Profile {
	return Profile{
		Name:       "ESPN NBA",
		URL:        "https://www.espn.com/nba/",
		Origin:     "https://www.espn.com",
		Cap:        6,
		Candidates: []string{`a[href*="/nba/story/"], a[href*="/nba/news/"]`},
		Link:       []LinkStrategy{SelfHref()},
		Titles:     []TitleStrategy{AnchorText(), ParentHeading(), SiblingHeading()},
		PreferLen:  15,
		MinLen:     DefaultMinLen,
		MaxLen:     DefaultMaxLen,
	}
}

// WithURL returns a copy of p reading from url. Origin is left untouched.
func (p Profile) WithURL(url string) Profile {
	if url != "" {
		p.URL = url
	}
	return p
}
