package schema

import (
	"sort"
	"sync"

	"github.com/satishbabariya/frm-go/internal/debug"
)

// Registry maps record and table names to schema entries.
// Each name can be registered once; a second registration fails with
// *DuplicateError and leaves the registry unchanged.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*Entry
	order   []*Entry
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string]*Entry),
	}
}

// Register derives an entry from rec and adds it under its table name and
// its record name.
func (r *Registry) Register(rec Record, opts ...Option) (*Entry, error) {
	entry, err := Derive(rec, opts...)
	if err != nil {
		return nil, err
	}
	if err := r.Add(entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// RegisterStruct registers the record described by a tagged Go struct.
func (r *Registry) RegisterStruct(v any, opts ...Option) (*Entry, error) {
	rec, err := RecordOf(v)
	if err != nil {
		return nil, err
	}
	return r.Register(rec, opts...)
}

// Add inserts an already derived entry.
func (r *Registry) Add(entry *Entry) error {
	return r.AddAll(entry)
}

// AddAll inserts entries as one unit. If any name collides with the
// registry or with an earlier entry of the batch, nothing is inserted.
func (r *Registry) AddAll(entries ...*Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	batch := make(map[string]*Entry)
	for _, entry := range entries {
		for _, name := range entry.names() {
			existing, ok := r.entries[name]
			if !ok {
				existing, ok = batch[name]
			}
			if ok {
				return &DuplicateError{Name: name, Existing: existing.table, Entry: entry}
			}
		}
		for _, name := range entry.names() {
			batch[name] = entry
		}
	}

	for _, entry := range entries {
		for _, name := range entry.names() {
			r.entries[name] = entry
		}
		r.order = append(r.order, entry)
		debug.Debug("registered schema", "record", entry.record, "table", entry.table, "columns", len(entry.columns))
	}
	return nil
}

// names lists the keys an entry is registered under.
func (e *Entry) names() []string {
	if e.record == e.table {
		return []string{e.table}
	}
	return []string{e.table, e.record}
}

// Lookup returns the entry registered under name.
func (r *Registry) Lookup(name string) (*Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.entries[name]
	if !ok {
		return nil, &NotFoundError{Name: name}
	}
	return entry, nil
}

// MustLookup is like Lookup but panics if name is not registered.
func (r *Registry) MustLookup(name string) *Entry {
	entry, err := r.Lookup(name)
	if err != nil {
		panic(err)
	}
	return entry
}

// Entries returns every registered entry once, in registration order.
func (r *Registry) Entries() []*Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Entry, len(r.order))
	copy(out, r.order)
	return out
}

// Names returns all registered names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
