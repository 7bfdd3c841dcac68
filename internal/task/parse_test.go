package task_test

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"

	"sharptask/internal/task"
)

var timeComparer = cmp.Comparer(func(a, b time.Time) bool { return a.Equal(b) })

func mustUUID(t *testing.T, s string) uuid.UUID {
	t.Helper()

	id, err := uuid.Parse(s)
	if err != nil {
		t.Fatalf("parse uuid %q: %v", s, err)
	}

	return id
}

// Contract: one line of annotated text parses into a structured record;
// lines outside the checkbox grammar are skipped, not errors.
func Test_ParseLine_ReturnsRecord_When_LineMatchesGrammar(t *testing.T) {
	t.Parallel()

	chicago := time.FixedZone("America/Chicago", -5*60*60)
	date := func(y int, m time.Month, d int) *time.Time {
		v := task.Date(y, m, d, chicago)

		return &v
	}

	id := mustUUID(t, "a80c42ce-dd29-4dc7-8582-34f36fcf8b80")

	cases := []struct {
		name string
		line string
		want *task.Task
	}{
		{
			name: "simple text",
			line: "- [ ] Simple text",
			want: &task.Task{Status: task.StatusPending, Description: "Simple text"},
		},
		{
			name: "due date",
			line: "- [x] Buy milk 📅 2025-05-19",
			want: &task.Task{
				Status:      task.StatusComplete,
				Description: "Buy milk",
				Due:         date(2025, 5, 19),
			},
		},
		{
			name: "due and creation date",
			line: "- [x] Task with two dates 📅 2025-05-27 ➕ 2025-05-19",
			want: &task.Task{
				Status:      task.StatusComplete,
				Description: "Task with two dates",
				Due:         date(2025, 5, 27),
				Created:     date(2025, 5, 19),
			},
		},
		{
			name: "identifier anchor",
			line: "- [-] Old task [[id: a80c42ce-dd29-4dc7-8582-34f36fcf8b80|⚔️]]",
			want: &task.Task{
				ID:          &id,
				Status:      task.StatusCanceled,
				Description: "Old task",
			},
		},
		{
			name: "anchor glyph without variation selector",
			line: "- [ ] Old task [[id: a80c42ce-dd29-4dc7-8582-34f36fcf8b80|⚔]]",
			want: &task.Task{
				ID:          &id,
				Status:      task.StatusPending,
				Description: "Old task",
			},
		},
		{
			name: "malformed identifier drops only that field",
			line: "- [ ] Task with bad id [[id: uh-oh|⚔️]]",
			want: &task.Task{Status: task.StatusPending, Description: "Task with bad id"},
		},
		{
			name: "tags stay embedded",
			line: "- [ ] Task with #some/tags",
			want: &task.Task{
				Status:      task.StatusPending,
				Description: "Task with #some/tags",
				Tags:        []string{"some", "tags"},
			},
		},
		{
			name: "project captures trailing emoji",
			line: " - [-] Task with a project 🔨 Project text 🙂",
			want: &task.Task{
				Status:      task.StatusCanceled,
				Description: "Task with a project",
				Project:     "Project text 🙂",
			},
		},
		{
			name: "malformed date drops only that field",
			line: "- [ ] Groceries #errand ⏳ 2025-06-01 📅25",
			want: &task.Task{
				Status:      task.StatusPending,
				Description: "Groceries #errand",
				Tags:        []string{"errand"},
				Scheduled:   date(2025, 6, 1),
			},
		},
		{
			name: "later marker overwrites earlier",
			line: "- [ ] Rescheduled 📅 2025-05-19 📅 2025-05-26",
			want: &task.Task{
				Status:      task.StatusPending,
				Description: "Rescheduled",
				Due:         date(2025, 5, 26),
			},
		},
		{
			name: "leading whitespace allowed",
			line: "    - [ ] Indented task",
			want: &task.Task{Status: task.StatusPending, Description: "Indented task"},
		},
		{
			name: "description emoji is not metadata",
			line: "- [ ] Make a 🥪 📅 2025-05-19",
			want: &task.Task{
				Status:      task.StatusPending,
				Description: "Make a 🥪",
				Due:         date(2025, 5, 19),
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, ok := task.ParseLine(tc.line, chicago)
			if !ok {
				t.Fatalf("ParseLine(%q) rejected the line", tc.line)
			}

			if diff := cmp.Diff(tc.want, got, timeComparer); diff != "" {
				t.Errorf("ParseLine(%q) mismatch (-want +got):\n%s", tc.line, diff)
			}
		})
	}
}

func Test_ParseLine_RejectsLine_When_NotATask(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		line string
	}{
		{name: "empty line", line: ""},
		{name: "prose", line: "This contains no task"},
		{name: "unknown marker", line: "- [?] Strange marker"},
		{name: "missing space after brackets", line: "- [ ]NoSpace"},
		{name: "metadata without description", line: "- [ ] 📅 2025-05-19"},
		{name: "anchor without description", line: "- [ ] [[id: a80c42ce-dd29-4dc7-8582-34f36fcf8b80|⚔️]]"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, ok := task.ParseLine(tc.line, time.UTC)
			if ok {
				t.Fatalf("ParseLine(%q) = %+v, want rejection", tc.line, got)
			}
		})
	}
}

func Test_ParseLine_ParsesAllStatusMarkers(t *testing.T) {
	t.Parallel()

	cases := []struct {
		line string
		want task.Status
	}{
		{line: "- [ ] Pending task", want: task.StatusPending},
		{line: "- [x] Completed task", want: task.StatusComplete},
		{line: "- [-] Canceled task", want: task.StatusCanceled},
	}

	for _, tc := range cases {
		got, ok := task.ParseLine(tc.line, time.UTC)
		if !ok {
			t.Fatalf("ParseLine(%q) rejected the line", tc.line)
		}

		if got.Status != tc.want {
			t.Errorf("ParseLine(%q) status = %v, want %v", tc.line, got.Status, tc.want)
		}
	}
}

func Test_ParseLine_ExtractsEveryField_When_AllMetadataPresent(t *testing.T) {
	t.Parallel()

	line := "- [x] Test #task stuff #project/tag 📅 2025-05-19 ⏳ 2025-05-20 🛫 2025-05-21 " +
		"➕ 2025-05-18 ✅ 2025-05-22 ❌ 2025-05-23 🔨 This is a project ⏫ " +
		"[[id: 96bb3816-aedd-4033-8ff6-4746a700aac8|⚔️]]"

	got, ok := task.ParseLine(line, time.UTC)
	if !ok {
		t.Fatal("ParseLine rejected the line")
	}

	id := mustUUID(t, "96bb3816-aedd-4033-8ff6-4746a700aac8")
	date := func(d int) *time.Time {
		v := task.Date(2025, time.May, d, time.UTC)

		return &v
	}

	want := &task.Task{
		ID:          &id,
		Status:      task.StatusComplete,
		Description: "Test #task stuff #project/tag",
		Tags:        []string{"task", "project", "tag"},
		Due:         date(19),
		Scheduled:   date(20),
		Start:       date(21),
		Created:     date(18),
		Done:        date(22),
		Canceled:    date(23),
		Priority:    task.PriorityHigh,
		Project:     "This is a project",
	}

	if diff := cmp.Diff(want, got, timeComparer); diff != "" {
		t.Errorf("ParseLine mismatch (-want +got):\n%s", diff)
	}
}
