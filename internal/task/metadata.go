package task

import (
	"fmt"
	"strings"
	"time"
)

// EventKind identifies one recognized metadata marker.
type EventKind uint8

// EventKind values, one per marker that carries a payload or meaning.
const (
	EventDue EventKind = iota
	EventScheduled
	EventStart
	EventCreated
	EventDone
	EventCanceled
	EventPriority
	EventProject
)

// Event is one typed metadata token from the metadata run. When Err is
// non-nil the marker's payload was malformed; the stream continues past it,
// so callers filter error events and apply only successes.
type Event struct {
	Kind     EventKind
	Date     time.Time
	Priority Priority
	Project  string
	Err      error
}

// MetadataParser consumes a metadata run as a lazy, finite sequence of
// typed events. Each call to Next scans forward to the next recognized
// glyph and consumes its fixed-shape payload; unrecognized graphemes in
// between are skipped. The parser makes a single pass and never backtracks.
type MetadataParser struct {
	cur *cursor
	loc *time.Location
}

// NewMetadataParser returns a parser over the metadata run. Dates are
// produced at local midnight in loc.
func NewMetadataParser(run string, loc *time.Location) *MetadataParser {
	return &MetadataParser{cur: newCursor(run), loc: loc}
}

// dateWidth is the number of graphemes a date payload occupies: a
// separating space plus YYYY-MM-DD.
const dateWidth = 11

var dateKinds = map[string]EventKind{
	glyphDue:       EventDue,
	glyphScheduled: EventScheduled,
	glyphStart:     EventStart,
	glyphCreated:   EventCreated,
	glyphDone:      EventDone,
	glyphCanceled:  EventCanceled,
}

var priorityGlyphs = map[string]Priority{
	glyphPriHighest: PriorityHighest,
	glyphPriHigh:    PriorityHigh,
	glyphPriMedium:  PriorityMedium,
	glyphPriLow:     PriorityLow,
	glyphPriLowest:  PriorityLowest,
}

// Next returns the next metadata event. The boolean is false once the run
// is exhausted.
func (p *MetadataParser) Next() (Event, bool) {
	for {
		g, ok := p.cur.next()
		if !ok {
			return Event{}, false
		}

		base := baseGlyph(g)

		if kind, ok := dateKinds[base]; ok {
			return p.dateEvent(kind), true
		}

		if pri, ok := priorityGlyphs[base]; ok {
			return Event{Kind: EventPriority, Priority: pri}, true
		}

		if base == glyphProject {
			return p.projectEvent(), true
		}

		// Reserved glyphs and anything else carry no event here.
	}
}

// dateEvent consumes exactly dateWidth graphemes and parses them as a
// calendar date. A malformed payload yields an error event for this marker
// only; the cursor has already advanced, so the stream resumes cleanly.
func (p *MetadataParser) dateEvent(kind EventKind) Event {
	raw := strings.TrimSpace(p.cur.take(dateWidth))

	d, err := time.ParseInLocation("2006-01-02", raw, p.loc)
	if err != nil {
		return Event{Kind: kind, Err: fmt.Errorf("parse date %q: %w", raw, err)}
	}

	return Event{Kind: kind, Date: d}
}

// projectEvent captures all graphemes up to the next significant glyph as
// free text. Unrelated emoji inside the capture belong to the project.
func (p *MetadataParser) projectEvent() Event {
	var project strings.Builder

	for {
		g, ok := p.cur.peek()
		if !ok || isSignificant(g) {
			break
		}

		project.WriteString(g)
		p.cur.next()
	}

	return Event{Kind: EventProject, Project: strings.TrimSpace(project.String())}
}
