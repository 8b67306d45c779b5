package command_test

import (
	"context"
	"errors"
	"testing"

	"github.com/orderflow/engine/command"
	"github.com/orderflow/engine/store"
)

func TestSave_CreateThenUndoDeletes(t *testing.T) {
	st := store.NewMemoryStore()
	ctx := context.Background()

	cmd := command.NewSave(st, "order_1", store.Record{"status": "CREATED"})
	if err := cmd.Execute(ctx); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	record, err := st.Load(ctx, "order_1")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if record["status"] != "CREATED" {
		t.Errorf("record[status] = %v, want CREATED", record["status"])
	}

	if err := cmd.Undo(ctx); err != nil {
		t.Fatalf("Undo() error = %v", err)
	}
	if _, err := st.Load(ctx, "order_1"); !errors.Is(err, store.ErrKeyNotFound) {
		t.Errorf("Load() after undo error = %v, want ErrKeyNotFound (creation reversed)", err)
	}
}

func TestSave_UpdateThenUndoRestores(t *testing.T) {
	st := store.NewMemoryStore()
	ctx := context.Background()

	if err := st.Save(ctx, "order_1", store.Record{"status": "CREATED", "total": 0}); err != nil {
		t.Fatalf("seed Save() error = %v", err)
	}

	cmd := command.NewSave(st, "order_1", store.Record{"status": "INVENTORY_CHECKED", "total": 110})
	if err := cmd.Execute(ctx); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if err := cmd.Undo(ctx); err != nil {
		t.Fatalf("Undo() error = %v", err)
	}

	record, err := st.Load(ctx, "order_1")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if record["status"] != "CREATED" {
		t.Errorf("record[status] = %v, want CREATED restored", record["status"])
	}
	if record["total"] != 0 {
		t.Errorf("record[total] = %v, want 0 restored", record["total"])
	}
}

func TestSave_SnapshotOnce(t *testing.T) {
	st := store.NewMemoryStore()
	ctx := context.Background()

	if err := st.Save(ctx, "order_1", store.Record{"rev": "v0"}); err != nil {
		t.Fatalf("seed Save() error = %v", err)
	}

	cmd := command.NewSave(st, "order_1", store.Record{"rev": "v1"})
	if err := cmd.Execute(ctx); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	// Interference outside the command's control.
	if err := st.Save(ctx, "order_1", store.Record{"rev": "v2"}); err != nil {
		t.Fatalf("interfering Save() error = %v", err)
	}

	// Redo replays the recorded write without re-capturing.
	if err := cmd.Execute(ctx); err != nil {
		t.Fatalf("re-Execute() error = %v", err)
	}
	record, err := st.Load(ctx, "order_1")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if record["rev"] != "v1" {
		t.Errorf("record[rev] = %v, want v1", record["rev"])
	}

	// Undo restores the snapshot from the first execute, not v2.
	if err := cmd.Undo(ctx); err != nil {
		t.Fatalf("Undo() error = %v", err)
	}
	record, err = st.Load(ctx, "order_1")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if record["rev"] != "v0" {
		t.Errorf("record[rev] = %v, want v0 (captured once on first execute)", record["rev"])
	}
}

func TestSave_RecordDetached(t *testing.T) {
	st := store.NewMemoryStore()
	ctx := context.Background()

	record := store.Record{"status": "CREATED"}
	cmd := command.NewSave(st, "order_1", record)

	record["status"] = "tampered"

	if err := cmd.Execute(ctx); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	stored, err := st.Load(ctx, "order_1")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if stored["status"] != "CREATED" {
		t.Errorf("record[status] = %v, want CREATED (detached from caller)", stored["status"])
	}
}

func TestDelete_ExecuteThenUndoRestores(t *testing.T) {
	st := store.NewMemoryStore()
	ctx := context.Background()

	if err := st.Save(ctx, "order_1", store.Record{"status": "CANCELLED"}); err != nil {
		t.Fatalf("seed Save() error = %v", err)
	}

	cmd := command.NewDelete(st, "order_1")
	if err := cmd.Execute(ctx); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if _, err := st.Load(ctx, "order_1"); !errors.Is(err, store.ErrKeyNotFound) {
		t.Errorf("Load() after delete error = %v, want ErrKeyNotFound", err)
	}

	if err := cmd.Undo(ctx); err != nil {
		t.Fatalf("Undo() error = %v", err)
	}
	record, err := st.Load(ctx, "order_1")
	if err != nil {
		t.Fatalf("Load() after undo error = %v", err)
	}
	if record["status"] != "CANCELLED" {
		t.Errorf("record[status] = %v, want CANCELLED restored", record["status"])
	}
}

func TestDelete_AbsentKey(t *testing.T) {
	st := store.NewMemoryStore()
	ctx := context.Background()

	cmd := command.NewDelete(st, "ghost")
	if err := cmd.Execute(ctx); err != nil {
		t.Fatalf("Execute() on absent key error = %v, want nil", err)
	}
	if err := cmd.Undo(ctx); err != nil {
		t.Fatalf("Undo() error = %v, want nil (nothing to restore)", err)
	}
	if _, err := st.Load(ctx, "ghost"); !errors.Is(err, store.ErrKeyNotFound) {
		t.Errorf("Load() error = %v, want ErrKeyNotFound", err)
	}
}

func TestHistory_LinearWalkOverStore(t *testing.T) {
	st := store.NewMemoryStore()
	h := command.NewHistory(nil)
	ctx := context.Background()

	load := func(t *testing.T) string {
		t.Helper()
		record, err := st.Load(ctx, "order_1")
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		rev, _ := record["rev"].(string)
		return rev
	}

	for _, rev := range []string{"v1", "v2", "v3"} {
		if err := h.Execute(ctx, command.NewSave(st, "order_1", store.Record{"rev": rev})); err != nil {
			t.Fatalf("Execute(%s) error = %v", rev, err)
		}
	}
	if got := load(t); got != "v3" {
		t.Fatalf("rev = %q, want v3", got)
	}

	if err := h.Undo(ctx); err != nil {
		t.Fatalf("Undo() error = %v", err)
	}
	if got := load(t); got != "v2" {
		t.Errorf("rev after undo = %q, want v2", got)
	}

	if err := h.Undo(ctx); err != nil {
		t.Fatalf("Undo() error = %v", err)
	}
	if got := load(t); got != "v1" {
		t.Errorf("rev after second undo = %q, want v1", got)
	}

	if err := h.Redo(ctx); err != nil {
		t.Fatalf("Redo() error = %v", err)
	}
	if got := load(t); got != "v2" {
		t.Errorf("rev after redo = %q, want v2", got)
	}

	// A fresh command discards v3 and captures the current v2.
	if err := h.Execute(ctx, command.NewSave(st, "order_1", store.Record{"rev": "v9"})); err != nil {
		t.Fatalf("Execute(v9) error = %v", err)
	}
	if h.Len() != 3 {
		t.Errorf("Len() = %d, want 3", h.Len())
	}
	if got := load(t); got != "v9" {
		t.Errorf("rev = %q, want v9", got)
	}

	if err := h.Undo(ctx); err != nil {
		t.Fatalf("Undo() error = %v", err)
	}
	if got := load(t); got != "v2" {
		t.Errorf("rev after undoing v9 = %q, want v2", got)
	}

	// Walk back to the creation and past it.
	if err := h.Undo(ctx); err != nil {
		t.Fatalf("Undo() error = %v", err)
	}
	if got := load(t); got != "v1" {
		t.Errorf("rev = %q, want v1", got)
	}
	if err := h.Undo(ctx); err != nil {
		t.Fatalf("Undo() error = %v", err)
	}
	if _, err := st.Load(ctx, "order_1"); !errors.Is(err, store.ErrKeyNotFound) {
		t.Errorf("Load() error = %v, want ErrKeyNotFound (creation undone)", err)
	}
	if err := h.Undo(ctx); !errors.Is(err, command.ErrNothingToUndo) {
		t.Errorf("Undo() error = %v, want ErrNothingToUndo", err)
	}
}
