package preview

import (
	"errors"
	"fmt"
	"testing"

	"github.com/mchawla/murmur/internal/board"
)

type recordingSink struct {
	committed []board.Note
	failOn    string
}

func (s *recordingSink) CommitNote(note board.Note) error {
	if s.failOn != "" && note.ID == s.failOn {
		return errors.New("sink unavailable")
	}
	s.committed = append(s.committed, note)
	return nil
}

func stagedBatch(sink Sink, n int) *Batch {
	notes := make([]board.Note, 0, n)
	for i := 0; i < n; i++ {
		notes = append(notes, board.Note{
			ID:      fmt.Sprintf("note-%d", i+1),
			Content: fmt.Sprintf("content %d", i+1),
		})
	}
	return NewBatch(sink, notes)
}

func TestItemsCopyDoesNotAliasPendingTasks(t *testing.T) {
	t.Parallel()

	sink := &recordingSink{}
	batch := NewBatch(sink, []board.Note{{
		ID:      "note-1",
		Content: "chores",
		Tasks:   []board.Task{{ID: "task-1", Text: "laundry"}},
	}})

	items := batch.Items()
	items[0].Note.Tasks[0].Text = "mutated"
	items[0].Note.Tasks[0].Done = true

	fresh := batch.Items()[0].Note.Tasks[0]
	if fresh.Text != "laundry" || fresh.Done {
		t.Fatalf("mutating a copy reached pending state: %+v", fresh)
	}
}

func TestApproveIndividualRemovesOnlyThatItem(t *testing.T) {
	t.Parallel()

	sink := &recordingSink{}
	batch := stagedBatch(sink, 3)

	if err := batch.ApproveItem("note-2"); err != nil {
		t.Fatalf("ApproveItem() error = %v", err)
	}

	if len(sink.committed) != 1 || sink.committed[0].ID != "note-2" {
		t.Fatalf("expected exactly one commit of note-2, got %+v", sink.committed)
	}
	items := batch.Items()
	if len(items) != 2 || items[0].Note.ID != "note-1" || items[1].Note.ID != "note-3" {
		t.Fatalf("remaining items wrong: %+v", items)
	}
	if batch.State() != StatePending {
		t.Fatalf("batch should stay pending, got %s", batch.State())
	}
}

func TestDiscardDoesNotTouchCommittedItems(t *testing.T) {
	t.Parallel()

	sink := &recordingSink{}
	batch := stagedBatch(sink, 3)

	if err := batch.ApproveItem("note-1"); err != nil {
		t.Fatalf("ApproveItem() error = %v", err)
	}
	batch.Discard()

	if batch.State() != StateDiscarded {
		t.Fatalf("state = %s, want discarded", batch.State())
	}
	if batch.Len() != 0 {
		t.Fatalf("discard should drop remaining items, %d left", batch.Len())
	}
	if len(sink.committed) != 1 || sink.committed[0].ID != "note-1" {
		t.Fatalf("committed items must survive discard: %+v", sink.committed)
	}
}

func TestCommittedItemsNeverReenter(t *testing.T) {
	t.Parallel()

	sink := &recordingSink{}
	batch := stagedBatch(sink, 2)

	if err := batch.ApproveItem("note-1"); err != nil {
		t.Fatalf("ApproveItem() error = %v", err)
	}
	if err := batch.ApproveItem("note-1"); !errors.Is(err, ErrItemNotFound) {
		t.Fatalf("re-approving a committed item should fail with ErrItemNotFound, got %v", err)
	}
	if len(sink.committed) != 1 {
		t.Fatalf("item handed to the sink more than once: %+v", sink.committed)
	}
}

func TestApproveAllEmptiesAndClosesBatch(t *testing.T) {
	t.Parallel()

	sink := &recordingSink{}
	batch := stagedBatch(sink, 4)

	if err := batch.ApproveAll(); err != nil {
		t.Fatalf("ApproveAll() error = %v", err)
	}
	if len(sink.committed) != 4 {
		t.Fatalf("expected four commits, got %d", len(sink.committed))
	}
	if batch.State() != StateCommitted {
		t.Fatalf("state = %s, want committed", batch.State())
	}
	if err := batch.ApproveAll(); !errors.Is(err, ErrBatchClosed) {
		t.Fatalf("closed batch must reject operations, got %v", err)
	}
}

func TestApproveSelectedOnlyCommitsMarkedItems(t *testing.T) {
	t.Parallel()

	sink := &recordingSink{}
	batch := stagedBatch(sink, 3)

	if err := batch.ToggleSelect("note-1"); err != nil {
		t.Fatalf("ToggleSelect() error = %v", err)
	}
	if err := batch.ToggleSelect("note-3"); err != nil {
		t.Fatalf("ToggleSelect() error = %v", err)
	}
	if err := batch.ApproveSelected(); err != nil {
		t.Fatalf("ApproveSelected() error = %v", err)
	}

	if len(sink.committed) != 2 {
		t.Fatalf("expected two commits, got %+v", sink.committed)
	}
	items := batch.Items()
	if len(items) != 1 || items[0].Note.ID != "note-2" {
		t.Fatalf("unselected item should remain: %+v", items)
	}
}

func TestSinkFailureKeepsItemPending(t *testing.T) {
	t.Parallel()

	sink := &recordingSink{failOn: "note-2"}
	batch := stagedBatch(sink, 3)

	err := batch.ApproveAll()
	if err == nil {
		t.Fatal("expected sink failure to surface")
	}
	if len(sink.committed) != 1 {
		t.Fatalf("commits before the failure should stand: %+v", sink.committed)
	}
	items := batch.Items()
	if len(items) != 2 {
		t.Fatalf("failed and untried items should stay pending: %+v", items)
	}
	if batch.State() != StatePending {
		t.Fatalf("state = %s, want pending after partial failure", batch.State())
	}
}

func TestEditValidatesContent(t *testing.T) {
	t.Parallel()

	batch := stagedBatch(&recordingSink{}, 1)

	if err := batch.Edit("note-1", "   "); !errors.Is(err, ErrEmptyContent) {
		t.Fatalf("blank edit should be rejected, got %v", err)
	}
	if err := batch.Edit("note-1", "rewritten"); err != nil {
		t.Fatalf("Edit() error = %v", err)
	}
	if got := batch.Items()[0].Note.Content; got != "rewritten" {
		t.Fatalf("content = %q, want rewritten", got)
	}
}

func TestDeleteIsPermanent(t *testing.T) {
	t.Parallel()

	sink := &recordingSink{}
	batch := stagedBatch(sink, 2)

	if err := batch.Delete("note-1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := batch.ApproveItem("note-1"); !errors.Is(err, ErrItemNotFound) {
		t.Fatalf("deleted item should be gone, got %v", err)
	}
	if err := batch.ApproveAll(); err != nil {
		t.Fatalf("ApproveAll() error = %v", err)
	}
	if len(sink.committed) != 1 || sink.committed[0].ID != "note-2" {
		t.Fatalf("deleted item must never reach the sink: %+v", sink.committed)
	}
}

func TestDeletingEverythingClosesAsDiscarded(t *testing.T) {
	t.Parallel()

	batch := stagedBatch(&recordingSink{}, 1)
	if err := batch.Delete("note-1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if batch.State() != StateDiscarded {
		t.Fatalf("state = %s, want discarded when nothing was committed", batch.State())
	}
}
