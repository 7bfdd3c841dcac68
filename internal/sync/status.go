package sync

import (
	"sharptask/internal/store"
	"sharptask/internal/task"
)

// The tri-state of the text notation maps totally and bidirectionally onto
// the store's status vocabulary. Both directions are table-driven so the
// tables can be checked against each other.

var statusToStore = map[task.Status]string{
	task.StatusPending:  store.StatusPending,
	task.StatusComplete: store.StatusCompleted,
	task.StatusCanceled: store.StatusDeleted,
}

var statusFromStore = map[string]task.Status{
	store.StatusPending:   task.StatusPending,
	store.StatusCompleted: task.StatusComplete,
	store.StatusDeleted:   task.StatusCanceled,
}

// storeStatus returns the store form of a text status.
func storeStatus(s task.Status) string {
	return statusToStore[s]
}

// textStatus returns the text form of a store status value. Status values
// outside the known vocabulary (the store may grow richer states) map to
// pending, keeping the mapping total.
func textStatus(v string) task.Status {
	if s, ok := statusFromStore[v]; ok {
		return s
	}

	return task.StatusPending
}
