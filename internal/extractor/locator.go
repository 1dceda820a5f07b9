package extractor

import (
	"errors"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	DefaultTitleSelector = "h3.pull-left"
	DefaultKeyAttr       = "id"
	DefaultWellDepth     = 2
	DefaultPointsTag     = "span"
)

var (
	// ErrNoRaceKey is returned when a race title has no usable key attribute
	ErrNoRaceKey = errors.New("race title has no key")
	// ErrNoRaceWell is returned when a race title is not nested deep enough to have a well
	ErrNoRaceWell = errors.New("race title has no enclosing race well")
)

// Locator describes where race sections live in the leaderboard page: the selector of the
// race titles, the attribute carrying the race key and how many levels above the title the
// race well sits.
type Locator struct {
	TitleSelector string
	KeyAttr       string
	WellDepth     int
}

// DefaultLocator returns the locator matching the guessthegrid.com leaderboard layout
func DefaultLocator() Locator {
	return Locator{
		TitleSelector: DefaultTitleSelector,
		KeyAttr:       DefaultKeyAttr,
		WellDepth:     DefaultWellDepth,
	}
}

// Titles returns every race title of the document, in document order
func (l Locator) Titles(doc *goquery.Document) *goquery.Selection {
	return doc.Find(l.TitleSelector)
}

// RaceKey reads the race key of a title
func (l Locator) RaceKey(title *goquery.Selection) (string, error) {
	key, ok := title.Attr(l.KeyAttr)
	key = strings.TrimSpace(key)
	if !ok || key == "" {
		return "", ErrNoRaceKey
	}
	return key, nil
}

// RaceWell climbs from a title to its enclosing race well
func (l Locator) RaceWell(title *goquery.Selection) (*goquery.Selection, error) {
	well := title
	for i := 0; i < l.WellDepth; i++ {
		well = well.Parent()
		if well.Length() == 0 {
			return nil, ErrNoRaceWell
		}
	}
	// The html root and document node the parser adds are not race wells.
	if name := goquery.NodeName(well); name == "html" || name == "#document" {
		return nil, ErrNoRaceWell
	}
	return well, nil
}
