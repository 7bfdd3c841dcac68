package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"sharptask/internal/patch"
	"sharptask/internal/store"
	"sharptask/internal/sync"
	"sharptask/internal/task"
	"sharptask/internal/vault"
)

// direction selects which side of a reconciliation is authoritative.
type direction uint8

const (
	directionPush direction = iota
	directionPull
)

var errNoTarget = errors.New("nothing to process: pass -f <file> or configure a vault directory")

// cmdSync runs one reconciliation pass over the target files. Lines that
// fail to parse are skipped silently; store failures are reported per line
// and the pass continues with the next line. A file read or patch failure
// aborts that file only.
func cmdSync(o *IO, cfg sync.Config, dir direction, file string) error {
	files, err := targetFiles(cfg, file)
	if err != nil {
		return err
	}

	for _, path := range files {
		err := syncFile(o, cfg, dir, path)
		if err != nil {
			o.Warn(fmt.Sprintf("%s: %v", path, err), "file left unmodified, fix and re-run")
		}
	}

	return nil
}

// targetFiles resolves the single-file or vault-scan target selection.
func targetFiles(cfg sync.Config, file string) ([]string, error) {
	if file != "" {
		return []string{file}, nil
	}

	if cfg.VaultDir == "" {
		return nil, errNoTarget
	}

	files, err := vault.Files(cfg.VaultDir)
	if err != nil {
		return nil, fmt.Errorf("scan vault %s: %w", cfg.VaultDir, err)
	}

	return files, nil
}

// syncFile reconciles every task line of one file and rewrites the file
// once with all accumulated line replacements.
func syncFile(o *IO, cfg sync.Config, dir direction, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")

	var updates []patch.Update

	for i, line := range lines {
		t, ok := task.ParseLine(line, cfg.Location)
		if !ok {
			continue
		}

		res, err := reconcile(cfg, dir, t, path)
		if err != nil {
			o.Warn(fmt.Sprintf("%s:%d: %v", path, i+1, err), "line skipped, re-run after fixing the task database")

			continue
		}

		if res.Missing {
			o.Warn(fmt.Sprintf("%s:%d: task %s not found in the database", path, i+1, t.ID),
				"remove the stale id anchor or restore the record")

			continue
		}

		switch res.Outcome {
		case sync.OutcomeStoreCreated:
			updates = append(updates, patch.Update{Line: i, Text: t.Render()})
			o.Printf("created %s  %s\n", res.ID, t.Description)
		case sync.OutcomeStoreUpdated:
			reportDiffs(o, path, i+1, res, dir)
		case sync.OutcomeTextUpdated:
			updates = append(updates, patch.Update{Line: i, Text: res.Task.Render()})
			reportDiffs(o, path, i+1, res, dir)
		case sync.OutcomeNoChange:
		}
	}

	if len(updates) == 0 {
		return nil
	}

	err = patch.Apply(path, updates)
	if err != nil {
		return fmt.Errorf("patch file: %w", err)
	}

	return nil
}

// reconcile runs one line against the store over a fresh connection. One
// connection per line bounds the blast radius of a failed operation; two
// lines are never part of the same transaction.
func reconcile(cfg sync.Config, dir direction, t *task.Task, path string) (sync.Result, error) {
	ctx := context.Background()

	st, err := store.Open(ctx, cfg.TaskDB)
	if err != nil {
		return sync.Result{}, fmt.Errorf("open task database: %w", err)
	}
	defer func() { _ = st.Close() }()

	syncer := sync.New(st, cfg.Location)

	if dir == directionPull {
		return syncer.Pull(ctx, t)
	}

	return syncer.Push(ctx, t, path, cfg.VaultDir)
}

// reportDiffs prints one line per changed field, oriented by direction:
// push overwrites the store side, pull overwrites the text side.
func reportDiffs(o *IO, path string, lineNo int, res sync.Result, dir direction) {
	verb := "updated store"
	if dir == directionPull {
		verb = "updated text"
	}

	for _, d := range res.Diffs {
		from, to := d.Store, d.Text
		if dir == directionPull {
			from, to = d.Text, d.Store
		}

		o.Printf("%s %s:%d  %s: %s -> %s\n", verb, path, lineNo, d.Field, from, to)
	}
}
