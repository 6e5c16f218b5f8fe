package session

import "hubchat/internal/blob"

// Transcript is the append-only conversation log. Entries are mutated by
// replacing them wholesale (Apply), never edited in place by callers, so
// every consumer sees a consistent snapshot.
type Transcript struct {
	entries []Entry
}

// Entries returns a copy of the current entries.
func (t *Transcript) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Len returns the number of entries.
func (t *Transcript) Len() int {
	return len(t.entries)
}

// NextID returns the identifier the next appended entry must use.
// Identifiers are one-based and strictly increasing.
func (t *Transcript) NextID() int {
	return len(t.entries) + 1
}

// Append adds an entry. The entry's ID must be NextID; Append panics
// otherwise because a duplicate or gapped ID means a dispatcher bug.
func (t *Transcript) Append(e Entry) {
	if e.ID != t.NextID() {
		panic("transcript: appended entry with out-of-sequence ID")
	}
	t.entries = append(t.entries, e)
}

// Apply replaces the entry with a matching ID, or appends when the ID is
// the next free one. It returns any blob reference the replacement
// superseded, so the caller can release it.
func (t *Transcript) Apply(e Entry) (superseded blob.Ref) {
	for i, old := range t.entries {
		if old.ID != e.ID {
			continue
		}
		if !old.Image.IsZero() && old.Image != e.Image {
			superseded = old.Image
		}
		if !old.Audio.IsZero() && old.Audio != e.Audio {
			superseded = old.Audio
		}
		updated := make([]Entry, len(t.entries))
		copy(updated, t.entries)
		updated[i] = e
		t.entries = updated
		return superseded
	}
	t.Append(e)
	return blob.Ref{}
}

// Get returns the entry with the given ID.
func (t *Transcript) Get(id int) (Entry, bool) {
	for _, e := range t.entries {
		if e.ID == id {
			return e, true
		}
	}
	return Entry{}, false
}
