package sync

import (
	"slices"
	"strconv"
	"strings"
	"time"

	"sharptask/internal/store"
	"sharptask/internal/task"
)

// reservedTag is owned by the priority mirroring rule: highest priority
// implies membership, every other level implies absence. It is excluded
// from ordinary tag synchronization on both sides.
const reservedTag = "next"

// FieldDiff names one field whose text-side and store-side values differ,
// with printable forms of both for reporting.
type FieldDiff struct {
	Field string
	Text  string
	Store string
}

// fieldCmp compares one logical field between a text record and a store
// record, and knows how to push the text value into buffered operations.
// A single table of these drives both reconciliation directions instead of
// per-field duplicated logic.
type fieldCmp struct {
	name        string
	equal       func(t *task.Task, r *store.Record, loc *time.Location) bool
	push        func(t *task.Task, r *store.Record, loc *time.Location, ops *store.Operations)
	textString  func(t *task.Task) string
	storeString func(r *store.Record, loc *time.Location) string
}

// comparators is the full field table: status, description, each date, tag
// set, priority, project. The end slot appears once; status selects whether
// the done or the canceled date populates it.
var comparators = []fieldCmp{
	{
		name: "status",
		equal: func(t *task.Task, r *store.Record, _ *time.Location) bool {
			v, _ := r.Field(store.FieldStatus)

			return storeStatus(t.Status) == v
		},
		push: func(t *task.Task, _ *store.Record, _ *time.Location, ops *store.Operations) {
			ops.Set(*t.ID, store.FieldStatus, storeStatus(t.Status))
		},
		textString:  func(t *task.Task) string { return t.Status.String() },
		storeString: func(r *store.Record, _ *time.Location) string { return fieldOrDash(r, store.FieldStatus) },
	},
	{
		name: "description",
		equal: func(t *task.Task, r *store.Record, _ *time.Location) bool {
			v, _ := r.Field(store.FieldDescription)

			return t.Description == v
		},
		push: func(t *task.Task, _ *store.Record, _ *time.Location, ops *store.Operations) {
			ops.Set(*t.ID, store.FieldDescription, t.Description)
		},
		textString:  func(t *task.Task) string { return t.Description },
		storeString: func(r *store.Record, _ *time.Location) string { return fieldOrDash(r, store.FieldDescription) },
	},
	dateCmp("due", store.FieldDue, func(t *task.Task) *time.Time { return t.Due }),
	dateCmp("scheduled", store.FieldScheduled, func(t *task.Task) *time.Time { return t.Scheduled }),
	dateCmp("start", store.FieldWait, func(t *task.Task) *time.Time { return t.Start }),
	dateCmp("created", store.FieldCreated, func(t *task.Task) *time.Time { return t.Created }),
	dateCmp("end", store.FieldEnd, endDate),
	{
		name: "tags",
		equal: func(t *task.Task, r *store.Record, _ *time.Location) bool {
			return tagSetsEqual(textTagSet(t), storeTagSet(r))
		},
		push: func(t *task.Task, r *store.Record, _ *time.Location, ops *store.Operations) {
			want := textTagSet(t)

			if r != nil {
				for tag := range storeTagSet(r) {
					if _, keep := want[tag]; !keep {
						ops.Delete(*t.ID, store.TagField(tag))
					}
				}
			}

			for tag := range want {
				ops.Set(*t.ID, store.TagField(tag), "")
			}
		},
		textString: func(t *task.Task) string { return tagSetString(textTagSet(t)) },
		storeString: func(r *store.Record, _ *time.Location) string {
			return tagSetString(storeTagSet(r))
		},
	},
	{
		name: "priority",
		equal: func(t *task.Task, r *store.Record, _ *time.Location) bool {
			code, _ := r.Field(store.FieldPriority)
			if t.Priority.Code() != code {
				return false
			}

			// Highest is a letter code plus the reserved tag; comparing
			// the tag as well makes demotion away from highest visible.
			return (t.Priority == task.PriorityHighest) == r.HasTag(reservedTag)
		},
		push: func(t *task.Task, _ *store.Record, _ *time.Location, ops *store.Operations) {
			if code := t.Priority.Code(); code == "" {
				ops.Delete(*t.ID, store.FieldPriority)
			} else {
				ops.Set(*t.ID, store.FieldPriority, code)
			}

			if t.Priority == task.PriorityHighest {
				ops.Set(*t.ID, store.TagField(reservedTag), "")
			} else {
				ops.Delete(*t.ID, store.TagField(reservedTag))
			}
		},
		textString: func(t *task.Task) string { return t.Priority.String() },
		storeString: func(r *store.Record, _ *time.Location) string {
			code := fieldOrDash(r, store.FieldPriority)
			if r.HasTag(reservedTag) {
				code += " +" + reservedTag
			}

			return code
		},
	},
	{
		name: "project",
		equal: func(t *task.Task, r *store.Record, _ *time.Location) bool {
			v, _ := r.Field(store.FieldProject)

			return t.Project == v
		},
		push: func(t *task.Task, _ *store.Record, _ *time.Location, ops *store.Operations) {
			if t.Project == "" {
				ops.Delete(*t.ID, store.FieldProject)
			} else {
				ops.Set(*t.ID, store.FieldProject, t.Project)
			}
		},
		textString:  func(t *task.Task) string { return t.Project },
		storeString: func(r *store.Record, _ *time.Location) string { return fieldOrDash(r, store.FieldProject) },
	},
}

// fieldDiffs compares every field in the table and returns the differing
// ones. An empty result is the idempotence guarantee: nothing to update.
func fieldDiffs(t *task.Task, r *store.Record, loc *time.Location) []FieldDiff {
	var diffs []FieldDiff

	for _, c := range comparators {
		if c.equal(t, r, loc) {
			continue
		}

		diffs = append(diffs, FieldDiff{
			Field: c.name,
			Text:  c.textString(t),
			Store: c.storeString(r, loc),
		})
	}

	return diffs
}

// dateCmp builds the comparator for one calendar-date field backed by a
// unix-timestamp store field.
func dateCmp(name, field string, get func(t *task.Task) *time.Time) fieldCmp {
	return fieldCmp{
		name: name,
		equal: func(t *task.Task, r *store.Record, loc *time.Location) bool {
			raw, ok := r.Field(field)

			return dateEqual(get(t), raw, ok, loc)
		},
		push: func(t *task.Task, _ *store.Record, loc *time.Location, ops *store.Operations) {
			if d := get(t); d != nil {
				ops.Set(*t.ID, field, strconv.FormatInt(midnightUnix(*d, loc), 10))
			} else {
				ops.Delete(*t.ID, field)
			}
		},
		textString: func(t *task.Task) string {
			if d := get(t); d != nil {
				return d.Format("2006-01-02")
			}

			return "-"
		},
		storeString: func(r *store.Record, loc *time.Location) string {
			raw, ok := r.Field(field)

			d, ok := storeDate(raw, ok, loc)
			if !ok {
				return "-"
			}

			return d.Format("2006-01-02")
		},
	}
}

// endDate selects which date populates the store's shared end slot: the
// done date for complete tasks, the canceled date for canceled ones, and
// nothing for pending ones.
func endDate(t *task.Task) *time.Time {
	switch t.Status {
	case task.StatusComplete:
		return t.Done
	case task.StatusCanceled:
		return t.Canceled
	default:
		return nil
	}
}

// dateEqual compares a text-side calendar date with a store-side timestamp
// at calendar-date granularity in loc. A nil text date never equals a
// present store value, and vice versa.
func dateEqual(text *time.Time, raw string, ok bool, loc *time.Location) bool {
	sd, sok := storeDate(raw, ok, loc)

	if text == nil {
		return !sok
	}

	if !sok {
		return false
	}

	ty, tm, td := text.In(loc).Date()
	sy, sm, day := sd.Date()

	return ty == sy && tm == sm && td == day
}

// storeDate decodes a store timestamp field into an instant in loc.
func storeDate(raw string, ok bool, loc *time.Location) (time.Time, bool) {
	if !ok {
		return time.Time{}, false
	}

	ts, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Time{}, false
	}

	return time.Unix(ts, 0).In(loc), true
}

// midnightUnix returns the unix timestamp of local midnight in loc on d's
// calendar date.
func midnightUnix(d time.Time, loc *time.Location) int64 {
	y, m, day := d.In(loc).Date()

	return time.Date(y, m, day, 0, 0, 0, 0, loc).Unix()
}

// textTagSet is the task's tag set minus the reserved tag, deduplicated.
func textTagSet(t *task.Task) map[string]struct{} {
	set := make(map[string]struct{}, len(t.Tags))

	for _, tag := range t.Tags {
		if tag == reservedTag {
			continue
		}

		set[tag] = struct{}{}
	}

	return set
}

// storeTagSet is the record's tag set minus the reserved tag.
func storeTagSet(r *store.Record) map[string]struct{} {
	tags := r.Tags()
	set := make(map[string]struct{}, len(tags))

	for _, tag := range tags {
		if tag == reservedTag {
			continue
		}

		set[tag] = struct{}{}
	}

	return set
}

// tagSetsEqual is set equality; a size mismatch short-circuits.
func tagSetsEqual(a, b map[string]struct{}) bool {
	if len(a) != len(b) {
		return false
	}

	for tag := range a {
		if _, ok := b[tag]; !ok {
			return false
		}
	}

	return true
}

func tagSetString(set map[string]struct{}) string {
	if len(set) == 0 {
		return "-"
	}

	tags := make([]string, 0, len(set))
	for tag := range set {
		tags = append(tags, tag)
	}

	slices.Sort(tags)

	return strings.Join(tags, ", ")
}

func fieldOrDash(r *store.Record, name string) string {
	v, ok := r.Field(name)
	if !ok || v == "" {
		return "-"
	}

	return v
}
