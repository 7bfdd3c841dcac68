package task

import (
	"strings"
	"time"
)

// anchorGlyph renders with the emoji presentation selector; the parser
// accepts both forms.
const anchorGlyph = "⚔️"

// Render produces the canonical text form of the task: checkbox marker,
// description, then metadata in a fixed order (project, due, scheduled,
// start, created, done, canceled, priority glyph unless normal, identifier
// anchor), each preceded by a single space.
//
// Render is the inverse of ParseLine: parsing a rendered task yields an
// equal record, provided the record did not originate from a lossy parse.
func (t *Task) Render() string {
	var b strings.Builder

	b.WriteString("- [" + t.Status.Marker() + "] ")
	b.WriteString(t.Description)

	if t.Project != "" {
		b.WriteString(" " + glyphProject + " " + t.Project)
	}

	writeDate(&b, glyphDue, t.Due)
	writeDate(&b, glyphScheduled, t.Scheduled)
	writeDate(&b, glyphStart, t.Start)
	writeDate(&b, glyphCreated, t.Created)
	writeDate(&b, glyphDone, t.Done)
	writeDate(&b, glyphCanceled, t.Canceled)

	if g := priorityGlyph(t.Priority); g != "" {
		b.WriteString(" " + g)
	}

	if t.ID != nil {
		b.WriteString(" [[id: " + t.ID.String() + "|" + anchorGlyph + "]]")
	}

	return b.String()
}

func writeDate(b *strings.Builder, glyph string, d *time.Time) {
	if d == nil {
		return
	}

	b.WriteString(" " + glyph + " " + d.Format("2006-01-02"))
}

// priorityGlyph returns the canonical glyph for a priority, or empty for
// normal. Canonical form is the base glyph without the variation selector.
func priorityGlyph(p Priority) string {
	switch p {
	case PriorityHighest:
		return glyphPriHighest
	case PriorityHigh:
		return glyphPriHigh
	case PriorityMedium:
		return glyphPriMedium
	case PriorityLow:
		return glyphPriLow
	case PriorityLowest:
		return glyphPriLowest
	default:
		return ""
	}
}
