// Package preview stages synthesized notes for user review. A batch is owned
// by exactly one dictation or import session; items leave it by being
// committed to the sink or discarded, and never come back.
package preview

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mchawla/murmur/internal/board"
)

// Sink receives approved notes one at a time. There is no batch atomicity:
// a commit that fails mid-way leaves earlier notes committed.
type Sink interface {
	CommitNote(note board.Note) error
}

// State tracks the batch lifecycle.
type State string

const (
	// StatePending allows edits, deletes and approvals.
	StatePending State = "pending"
	// StateCommitted means every item left the batch through the sink.
	StateCommitted State = "committed"
	// StateDiscarded means the remaining items were dropped.
	StateDiscarded State = "discarded"
)

var (
	ErrBatchClosed  = errors.New("preview: batch is no longer pending")
	ErrItemNotFound = errors.New("preview: no such item")
	ErrEmptyContent = errors.New("preview: note content cannot be empty")
)

// Item is one staged note plus its review bookkeeping.
type Item struct {
	Note     board.Note
	Selected bool
}

// Batch holds the pending notes from one session.
type Batch struct {
	ID        string
	CreatedAt time.Time

	sink      Sink
	items     []Item
	state     State
	committed int
}

// NewBatch stages the given notes against a sink.
func NewBatch(sink Sink, notes []board.Note) *Batch {
	items := make([]Item, 0, len(notes))
	for _, note := range notes {
		items = append(items, Item{Note: note})
	}
	return &Batch{
		ID:        uuid.NewString(),
		CreatedAt: time.Now(),
		sink:      sink,
		items:     items,
		state:     StatePending,
	}
}

// State reports the batch lifecycle state.
func (b *Batch) State() State {
	return b.state
}

// Len reports how many items are still pending.
func (b *Batch) Len() int {
	return len(b.items)
}

// CommittedCount reports how many items have crossed into the collection.
func (b *Batch) CommittedCount() int {
	return b.committed
}

// Items returns a copy of the pending items in order. Task slices are cloned
// too, so callers cannot reach back into pending state.
func (b *Batch) Items() []Item {
	items := append([]Item(nil), b.items...)
	for i := range items {
		items[i].Note.Tasks = append([]board.Task(nil), items[i].Note.Tasks...)
	}
	return items
}

// Edit replaces an item's content. The only validation is non-empty text;
// edits are local speculation until the item is approved.
func (b *Batch) Edit(noteID, content string) error {
	if b.state != StatePending {
		return ErrBatchClosed
	}
	if strings.TrimSpace(content) == "" {
		return ErrEmptyContent
	}
	for i := range b.items {
		if b.items[i].Note.ID == noteID {
			b.items[i].Note.Content = content
			b.items[i].Note.UpdatedAt = time.Now()
			return nil
		}
	}
	return ErrItemNotFound
}

// Delete removes an item from the batch entirely. Deleted items cannot be
// re-added.
func (b *Batch) Delete(noteID string) error {
	if b.state != StatePending {
		return ErrBatchClosed
	}
	for i := range b.items {
		if b.items[i].Note.ID == noteID {
			b.items = append(b.items[:i], b.items[i+1:]...)
			b.closeIfExhausted()
			return nil
		}
	}
	return ErrItemNotFound
}

// ToggleSelect flips an item's selection mark. Selection only filters what
// ApproveSelected touches; it does not change the state machine.
func (b *Batch) ToggleSelect(noteID string) error {
	if b.state != StatePending {
		return ErrBatchClosed
	}
	for i := range b.items {
		if b.items[i].Note.ID == noteID {
			b.items[i].Selected = !b.items[i].Selected
			return nil
		}
	}
	return ErrItemNotFound
}

// SelectAll marks every pending item.
func (b *Batch) SelectAll() {
	if b.state != StatePending {
		return
	}
	for i := range b.items {
		b.items[i].Selected = true
	}
}

// ApproveItem commits a single item and removes it from the batch. A sink
// failure keeps the item pending.
func (b *Batch) ApproveItem(noteID string) error {
	if b.state != StatePending {
		return ErrBatchClosed
	}
	for i := range b.items {
		if b.items[i].Note.ID == noteID {
			if err := b.sink.CommitNote(b.items[i].Note); err != nil {
				return fmt.Errorf("commit note: %w", err)
			}
			b.committed++
			b.items = append(b.items[:i], b.items[i+1:]...)
			b.closeIfExhausted()
			return nil
		}
	}
	return ErrItemNotFound
}

// ApproveSelected commits every selected item, one at a time, in order. The
// first sink failure stops the pass; already-committed items stay committed.
func (b *Batch) ApproveSelected() error {
	return b.approveWhere(func(item Item) bool { return item.Selected })
}

// ApproveAll commits every remaining item.
func (b *Batch) ApproveAll() error {
	return b.approveWhere(func(Item) bool { return true })
}

func (b *Batch) approveWhere(match func(Item) bool) error {
	if b.state != StatePending {
		return ErrBatchClosed
	}
	remaining := b.items[:0]
	var failed error
	for _, item := range b.items {
		if failed == nil && match(item) {
			if err := b.sink.CommitNote(item.Note); err != nil {
				failed = fmt.Errorf("commit note: %w", err)
				remaining = append(remaining, item)
				continue
			}
			b.committed++
			continue
		}
		remaining = append(remaining, item)
	}
	b.items = remaining
	b.closeIfExhausted()
	return failed
}

// Discard drops every remaining item and closes the batch. Items already
// committed are unaffected: they left the batch when they were approved.
func (b *Batch) Discard() {
	if b.state != StatePending {
		return
	}
	b.items = nil
	b.state = StateDiscarded
}

func (b *Batch) closeIfExhausted() {
	if len(b.items) != 0 || b.state != StatePending {
		return
	}
	if b.committed > 0 {
		b.state = StateCommitted
	} else {
		b.state = StateDiscarded
	}
}
