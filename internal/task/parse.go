package task

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Metadata glyphs. The set is fixed and closed: these are the only graphemes
// that terminate the description and start the metadata run.
const (
	glyphDue         = "📅"
	glyphScheduled   = "⏳"
	glyphStart       = "🛫"
	glyphCreated     = "➕"
	glyphDone        = "✅"
	glyphCanceled    = "❌"
	glyphPriHighest  = "🔺"
	glyphPriHigh     = "⏫"
	glyphPriMedium   = "🔼"
	glyphPriLow      = "🔽"
	glyphPriLowest   = "⏬"
	glyphRecurrence  = "🔁" // reserved, recognized but unused
	glyphExternalRef = "🆔" // reserved, recognized but unused
	glyphBlocked     = "⛔" // reserved, recognized but unused
	glyphProject     = "🔨"
)

// variationSelector is U+FE0F, the emoji presentation selector. Some input
// sources suffix it to glyphs (⏬️ vs ⏬); both forms are equivalent, so all
// glyph matching strips it first.
const variationSelector = "️"

var significantGlyphs = map[string]struct{}{
	glyphDue:         {},
	glyphScheduled:   {},
	glyphStart:       {},
	glyphCreated:     {},
	glyphDone:        {},
	glyphCanceled:    {},
	glyphPriHighest:  {},
	glyphPriHigh:     {},
	glyphPriMedium:   {},
	glyphPriLow:      {},
	glyphPriLowest:   {},
	glyphRecurrence:  {},
	glyphExternalRef: {},
	glyphBlocked:     {},
	glyphProject:     {},
}

// baseGlyph canonicalizes a grapheme cluster for glyph matching.
func baseGlyph(g string) string {
	return strings.TrimSuffix(g, variationSelector)
}

func isSignificant(g string) bool {
	_, ok := significantGlyphs[baseGlyph(g)]

	return ok
}

var (
	// - [<marker>] with optional leading whitespace. Marker is one of
	// space, x, - for pending, complete, canceled.
	preambleRe = regexp.MustCompile(`^\s*- \[([x\- ])\] (.*)$`)

	// Identifier anchor, e.g. [[id: a80c42ce-dd29-4dc7-8582-34f36fcf8b80|⚔️]].
	// The glyph is accepted with or without the variation selector.
	anchorRe = regexp.MustCompile(`\[\[id: (.*?)\|⚔\x{FE0F}?\]\]`)
)

// ParseLine parses one line of text into a Task. The boolean is false when
// the line is not a task at all: no checkbox preamble, or an empty
// description once the anchor and metadata run are removed. That is not an
// error; callers skip such lines.
//
// A malformed identifier or a malformed date inside an otherwise valid line
// degrades only that field (it parses as absent) while the rest of the
// record is still produced.
//
// Dates are parsed at local midnight in loc.
func ParseLine(line string, loc *time.Location) (*Task, bool) {
	rest, status, ok := parsePreamble(line)
	if !ok {
		return nil, false
	}

	rest, id := extractAnchor(rest)
	desc, meta := splitMetadata(rest)

	if desc == "" {
		return nil, false
	}

	t := &Task{
		ID:          id,
		Status:      status,
		Description: desc,
		Tags:        parseTags(desc),
	}

	parser := NewMetadataParser(meta, loc)
	for {
		ev, ok := parser.Next()
		if !ok {
			break
		}

		// Malformed payloads drop that field only.
		if ev.Err != nil {
			continue
		}

		applyEvent(t, ev)
	}

	return t, true
}

// applyEvent applies one metadata event in source order, so a later
// occurrence of the same marker overwrites an earlier one.
func applyEvent(t *Task, ev Event) {
	switch ev.Kind {
	case EventDue:
		t.Due = ptr(ev.Date)
	case EventScheduled:
		t.Scheduled = ptr(ev.Date)
	case EventStart:
		t.Start = ptr(ev.Date)
	case EventCreated:
		t.Created = ptr(ev.Date)
	case EventDone:
		t.Done = ptr(ev.Date)
	case EventCanceled:
		t.Canceled = ptr(ev.Date)
	case EventPriority:
		t.Priority = ev.Priority
	case EventProject:
		t.Project = ev.Project
	}
}

func ptr(t time.Time) *time.Time {
	return &t
}

// parsePreamble strips the checkbox preamble and returns the remainder and
// the status it encodes.
func parsePreamble(line string) (string, Status, bool) {
	m := preambleRe.FindStringSubmatch(line)
	if m == nil {
		return "", StatusPending, false
	}

	var status Status

	switch m[1] {
	case "x":
		status = StatusComplete
	case "-":
		status = StatusCanceled
	default:
		status = StatusPending
	}

	return m[2], status, true
}

// extractAnchor removes the identifier anchor from the text, if present,
// and parses the embedded identifier. The anchor is removed regardless of
// whether the identifier parses; a malformed identifier yields nil.
func extractAnchor(text string) (string, *uuid.UUID) {
	m := anchorRe.FindStringSubmatch(text)
	if m == nil {
		return text, nil
	}

	remaining := strings.TrimSpace(strings.Replace(text, m[0], "", 1))

	id, err := uuid.Parse(m[1])
	if err != nil {
		return remaining, nil
	}

	return remaining, &id
}

// splitMetadata walks the text grapheme by grapheme: everything before the
// first significant glyph is the description, everything from it onward is
// the metadata run (empty when there is none).
func splitMetadata(text string) (string, string) {
	cur := newCursor(text)

	var desc strings.Builder

	for {
		g, ok := cur.peek()
		if !ok {
			return strings.TrimSpace(desc.String()), ""
		}

		if isSignificant(g) {
			break
		}

		desc.WriteString(g)
		cur.next()
	}

	return strings.TrimSpace(desc.String()), strings.TrimSpace(cur.rest())
}

// parseTags scans the description for #-prefixed runs terminated by
// whitespace. Each /-separated path segment becomes its own tag. Tags are
// reported but not stripped from the description.
func parseTags(desc string) []string {
	var tags []string

	for _, field := range strings.Fields(desc) {
		name, ok := strings.CutPrefix(field, "#")
		if !ok || name == "" {
			continue
		}

		for seg := range strings.SplitSeq(name, "/") {
			tags = append(tags, seg)
		}
	}

	return tags
}
