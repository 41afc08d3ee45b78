package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nerrad567/hub-renamer/internal/hub"
)

// Commander is the slice of the hub session the registry needs.
type Commander interface {
	SendCommand(ctx context.Context, cmd hub.Command) (*hub.Result, error)
}

// Entry is one entity in the registry snapshot.
type Entry struct {
	// EntityID is the stable id, e.g. "sensor.living_room_temp".
	EntityID string

	// FriendlyName is the display label: the registry name override if
	// set, otherwise the integration-provided original name.
	FriendlyName string

	// Domain is the entity_id prefix before the first dot, e.g. "sensor".
	Domain string
}

// Snapshot is a point-in-time mapping from entity id to Entry.
//
// It is never mutated after Load; within one run all decisions are made
// against the same snapshot.
type Snapshot struct {
	entries map[string]Entry
	order   []string
}

// wireEntry is the subset of the hub's entity registry entry this tool
// reads. Name is the user-set override and may be JSON null.
type wireEntry struct {
	EntityID     string  `json:"entity_id"`
	Name         *string `json:"name"`
	OriginalName *string `json:"original_name"`
}

// Load fetches the entity registry through the given session.
//
// It issues one config/entity_registry/list command and indexes the
// response. Any transport failure, success=false, or malformed entry is
// fatal: the error wraps ErrLoadFailed or ErrMalformedEntry.
func Load(ctx context.Context, c Commander) (*Snapshot, error) {
	res, err := c.SendCommand(ctx, hub.Command{"type": "config/entity_registry/list"})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}
	if !res.Success {
		return nil, fmt.Errorf("%w: hub reported: %s", ErrLoadFailed, res.ErrorMessage())
	}

	var wire []wireEntry
	if err := json.Unmarshal(res.Result, &wire); err != nil {
		return nil, fmt.Errorf("%w: decoding entity list: %v", ErrMalformedEntry, err)
	}

	snap := &Snapshot{
		entries: make(map[string]Entry, len(wire)),
		order:   make([]string, 0, len(wire)),
	}

	for i, w := range wire {
		if w.EntityID == "" {
			return nil, fmt.Errorf("%w: entry %d missing entity_id", ErrMalformedEntry, i)
		}

		entry := Entry{
			EntityID:     w.EntityID,
			FriendlyName: friendlyName(w),
			Domain:       domainOf(w.EntityID),
		}

		if _, seen := snap.entries[w.EntityID]; !seen {
			snap.order = append(snap.order, w.EntityID)
		}
		snap.entries[w.EntityID] = entry
	}

	return snap, nil
}

// NewSnapshot builds a snapshot from already-decoded entries, preserving
// their order. Load is the normal path.
func NewSnapshot(entries []Entry) *Snapshot {
	snap := &Snapshot{
		entries: make(map[string]Entry, len(entries)),
		order:   make([]string, 0, len(entries)),
	}
	for _, e := range entries {
		if _, seen := snap.entries[e.EntityID]; !seen {
			snap.order = append(snap.order, e.EntityID)
		}
		snap.entries[e.EntityID] = e
	}
	return snap
}

// Lookup returns the entry for the given entity id.
func (s *Snapshot) Lookup(entityID string) (Entry, bool) {
	e, ok := s.entries[entityID]
	return e, ok
}

// Contains reports whether the given entity id exists in the snapshot.
func (s *Snapshot) Contains(entityID string) bool {
	_, ok := s.entries[entityID]
	return ok
}

// Entries returns all entries in the order the hub listed them.
func (s *Snapshot) Entries() []Entry {
	out := make([]Entry, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.entries[id])
	}
	return out
}

// Len returns the number of entities in the snapshot.
func (s *Snapshot) Len() int {
	return len(s.entries)
}

// friendlyName picks the display name: user override first, then the
// integration-provided original name.
func friendlyName(w wireEntry) string {
	if w.Name != nil && *w.Name != "" {
		return *w.Name
	}
	if w.OriginalName != nil {
		return *w.OriginalName
	}
	return ""
}

// domainOf extracts the domain prefix from an entity id.
func domainOf(entityID string) string {
	if idx := strings.Index(entityID, "."); idx > 0 {
		return entityID[:idx]
	}
	return ""
}
