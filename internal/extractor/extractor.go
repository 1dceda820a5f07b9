package extractor

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/gtg-stats/internal/score"
)

// linksPerPlayer is the number of score links a player has in every race well:
// qualifying first, race second
const linksPerPlayer = 2

var (
	// ErrLinkCount is returned when a player does not have exactly two score links in a race
	ErrLinkCount = errors.New("unexpected number of score links")
	// ErrBadPoints is returned when a score link has no points or they are not an integer
	ErrBadPoints = errors.New("invalid points")
	// ErrDuplicateRace is returned when two race titles share a key
	ErrDuplicateRace = errors.New("duplicate race key")
)

// ExtractionError reports a race (and player, when known) whose scores could not be read
type ExtractionError struct {
	RaceKey string
	Handle  string
	Found   int // Score links found for the player, when relevant
	Err     error
}

func (e *ExtractionError) Error() string {
	switch {
	case errors.Is(e.Err, ErrLinkCount):
		return fmt.Sprintf("race %q, player %q: found %d score links, want %d", e.RaceKey, e.Handle, e.Found, linksPerPlayer)
	case e.Handle != "":
		return fmt.Sprintf("race %q, player %q: %v", e.RaceKey, e.Handle, e.Err)
	case e.RaceKey != "":
		return fmt.Sprintf("race %q: %v", e.RaceKey, e.Err)
	default:
		return e.Err.Error()
	}
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// Extractor reads per-race scores of a fixed roster from a leaderboard document
type Extractor struct {
	locator   Locator
	pointsTag string
	roster    score.Roster
}

// New creates an Extractor for the roster using the default page layout
func New(roster score.Roster) *Extractor {
	return &Extractor{
		locator:   DefaultLocator(),
		pointsTag: DefaultPointsTag,
		roster:    roster,
	}
}

// WithLocator replaces the race section locator
func (e *Extractor) WithLocator(l Locator) *Extractor {
	e.locator = l
	return e
}

// Parse parses an HTML leaderboard
func Parse(r io.Reader) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	return doc, nil
}

// ExtractReader parses r and extracts its season
func (e *Extractor) ExtractReader(r io.Reader) (*score.Season, error) {
	doc, err := Parse(r)
	if err != nil {
		return nil, err
	}
	return e.Extract(doc)
}

// Extract returns the scores of every race in the document, in document order.
// A page without race titles yields an empty season.
func (e *Extractor) Extract(doc *goquery.Document) (*score.Season, error) {
	season := &score.Season{Races: make([]score.RaceRecord, 0)}
	seen := make(map[string]bool)

	var extractErr error
	e.locator.Titles(doc).EachWithBreak(func(i int, title *goquery.Selection) bool {
		record, err := e.extractRace(title)
		if err != nil {
			extractErr = err
			return false
		}
		if seen[record.Key] {
			extractErr = &ExtractionError{RaceKey: record.Key, Err: ErrDuplicateRace}
			return false
		}
		seen[record.Key] = true
		season.Races = append(season.Races, record)
		return true
	})
	if extractErr != nil {
		return nil, extractErr
	}

	return season, nil
}

// extractRace reads one race section
func (e *Extractor) extractRace(title *goquery.Selection) (score.RaceRecord, error) {
	key, err := e.locator.RaceKey(title)
	if err != nil {
		return score.RaceRecord{}, &ExtractionError{Err: err}
	}

	well, err := e.locator.RaceWell(title)
	if err != nil {
		return score.RaceRecord{}, &ExtractionError{RaceKey: key, Err: err}
	}

	links := well.Find("a")
	record := score.RaceRecord{
		Key:    key,
		Scores: make(map[string]score.Triple, len(e.roster)),
	}

	for _, p := range e.roster {
		// Whitespace around the link text is ignored, the handle itself must match exactly.
		playerLinks := links.FilterFunction(func(_ int, a *goquery.Selection) bool {
			return strings.TrimSpace(a.Text()) == p.Handle
		})
		if playerLinks.Length() != linksPerPlayer {
			return score.RaceRecord{}, &ExtractionError{RaceKey: key, Handle: p.Handle, Found: playerLinks.Length(), Err: ErrLinkCount}
		}

		qualifying, err := e.points(playerLinks.Eq(0))
		if err != nil {
			return score.RaceRecord{}, &ExtractionError{RaceKey: key, Handle: p.Handle, Err: err}
		}
		race, err := e.points(playerLinks.Eq(1))
		if err != nil {
			return score.RaceRecord{}, &ExtractionError{RaceKey: key, Handle: p.Handle, Err: err}
		}

		record.Scores[p.Handle] = score.Triple{Qualifying: qualifying, Race: race}
	}

	return record, nil
}

// points reads the score shown next to a link
func (e *Extractor) points(link *goquery.Selection) (int, error) {
	tag := link.Parent().Find(e.pointsTag).First()
	if tag.Length() == 0 {
		return 0, fmt.Errorf("%w: no %s next to link", ErrBadPoints, e.pointsTag)
	}

	text := strings.TrimSpace(tag.Text())
	n, err := strconv.Atoi(text)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrBadPoints, text)
	}
	return n, nil
}
