// Package task implements the checkbox task line notation: a grammar-driven
// parser that turns one annotated line into a Task record, and a renderer
// that turns a Task record back into canonical text.
//
// The grammar is intentionally small. A task line is:
//
//	- [ ] description with #tags 🔨 project 📅 2025-05-19 ⏫ [[id: <uuid>|⚔️]]
//
// Everything before the first recognized metadata glyph is the description
// (tags stay embedded in it); everything from the first glyph onward is the
// metadata run. Metadata glyphs are multi-codepoint emoji, so all scanning
// operates on grapheme clusters, not code points.
package task

import (
	"time"

	"github.com/google/uuid"
)

// Status is the closed tri-state of a task line, distinct from the richer
// status vocabulary a task store may use.
type Status uint8

// Status values map one-to-one onto the checkbox markers.
const (
	StatusPending  Status = iota // - [ ]
	StatusComplete               // - [x]
	StatusCanceled               // - [-]
)

// Marker returns the checkbox marker character for the status.
func (s Status) Marker() string {
	switch s {
	case StatusComplete:
		return "x"
	case StatusCanceled:
		return "-"
	default:
		return " "
	}
}

func (s Status) String() string {
	switch s {
	case StatusComplete:
		return "complete"
	case StatusCanceled:
		return "canceled"
	default:
		return "pending"
	}
}

// Priority is the six-level priority ladder of the text notation.
// The zero value is PriorityNormal.
type Priority uint8

// Priority values, lowest to highest. PriorityHighest additionally implies
// membership in the reserved "next" tag on the store side.
const (
	PriorityNormal Priority = iota
	PriorityLowest
	PriorityLow
	PriorityMedium
	PriorityHigh
	PriorityHighest
)

// Code returns the single-letter store priority code. Lowest and Low share
// "L", High and Highest share "H", and Normal has no stored value.
func (p Priority) Code() string {
	switch p {
	case PriorityLowest, PriorityLow:
		return "L"
	case PriorityMedium:
		return "M"
	case PriorityHigh, PriorityHighest:
		return "H"
	default:
		return ""
	}
}

func (p Priority) String() string {
	switch p {
	case PriorityLowest:
		return "lowest"
	case PriorityLow:
		return "low"
	case PriorityMedium:
		return "medium"
	case PriorityHigh:
		return "high"
	case PriorityHighest:
		return "highest"
	default:
		return "normal"
	}
}

// Task is the canonical in-memory representation of one task line,
// independent of its textual or store-backed form.
//
// Date fields are calendar dates, not instants: they are represented at
// local midnight in the location the line was parsed with. Comparisons
// against timestamp-based store fields must normalize both sides to the
// same location and truncate to the calendar date.
type Task struct {
	// ID anchors the line to one external record. Nil means the task has
	// never been synchronized. It is set exactly once, at record creation
	// time, and is immutable afterwards.
	ID *uuid.UUID

	Status      Status
	Description string

	// Tags holds the #tag tokens extracted from the description. The
	// tokens remain embedded in Description; order is not significant.
	Tags []string

	Due       *time.Time
	Scheduled *time.Time
	Start     *time.Time
	Created   *time.Time
	Done      *time.Time
	Canceled  *time.Time

	Priority Priority
	Project  string
}

// Date builds the local-midnight representation of a calendar date in loc.
func Date(year int, month time.Month, day int, loc *time.Location) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, loc)
}
