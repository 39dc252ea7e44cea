package chat

import (
	"slices"

	"github.com/klemjul/advisor/internal/llm"
)

// Handle identifies one entry appended to a Display.
type Handle uint64

// Display is the surface a Session renders into. Entries are append-only
// except for removal by handle.
type Display interface {
	Append(text string, role llm.MessageRole) Handle
	Remove(h Handle) bool
	ClearInput()
}

type Entry struct {
	Handle Handle
	Role   llm.MessageRole
	Text   string
}

// Transcript is an in-memory Display. It is not safe for concurrent use.
type Transcript struct {
	entries      []Entry
	next         Handle
	inputClears  int
	onInputClear func()
}

func NewTranscript() *Transcript {
	return &Transcript{}
}

// OnInputClear registers fn to run whenever ClearInput is called.
func (t *Transcript) OnInputClear(fn func()) {
	t.onInputClear = fn
}

func (t *Transcript) Append(text string, role llm.MessageRole) Handle {
	t.next++
	t.entries = append(t.entries, Entry{Handle: t.next, Role: role, Text: text})
	return t.next
}

func (t *Transcript) Remove(h Handle) bool {
	i := slices.IndexFunc(t.entries, func(e Entry) bool { return e.Handle == h })
	if i < 0 {
		return false
	}
	t.entries = slices.Delete(t.entries, i, i+1)
	return true
}

// RemoveLast removes the most recently appended entry that is still present.
func (t *Transcript) RemoveLast() bool {
	if len(t.entries) == 0 {
		return false
	}
	t.entries = t.entries[:len(t.entries)-1]
	return true
}

func (t *Transcript) ClearInput() {
	t.inputClears++
	if t.onInputClear != nil {
		t.onInputClear()
	}
}

func (t *Transcript) Entries() []Entry {
	return slices.Clone(t.entries)
}

func (t *Transcript) Len() int {
	return len(t.entries)
}

func (t *Transcript) Last() (Entry, bool) {
	if len(t.entries) == 0 {
		return Entry{}, false
	}
	return t.entries[len(t.entries)-1], true
}

func (t *Transcript) InputClears() int {
	return t.inputClears
}
