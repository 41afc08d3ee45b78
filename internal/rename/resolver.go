package rename

import "github.com/nerrad567/hub-renamer/internal/registry"

// Classification reasons carried into outcomes.
const (
	reasonNotFound       = "entity not found in registry"
	reasonAlreadyMatches = "already matches"
	reasonTargetExists   = "target id already exists"
	reasonDuplicateBatch = "duplicate target in batch"
)

// Resolve classifies every row against the snapshot.
//
// Resolution is pure and deterministic: it depends only on the snapshot
// taken at the start of the run and on the declared targets of the whole
// batch, never on execution results. When two rows declare the same
// new_entity_id, the first row in input order wins as a rename and the
// rest become conflicts.
//
// Parameters:
//   - rows: The full batch, in CSV order
//   - snap: The registry snapshot for this run
//
// Returns:
//   - []ResolvedChange: One entry per row, in input order
func Resolve(rows []Row, snap *registry.Snapshot) []ResolvedChange {
	changes := make([]ResolvedChange, 0, len(rows))

	// Target ids claimed by earlier rows that resolved to a rename.
	claimed := make(map[string]struct{})

	for _, row := range rows {
		changes = append(changes, resolveRow(row, snap, claimed))
	}

	return changes
}

// resolveRow classifies a single row. claimed is updated when the row
// resolves to a rename with an id change.
func resolveRow(row Row, snap *registry.Snapshot, claimed map[string]struct{}) ResolvedChange {
	target, ok := snap.Lookup(row.OldEntityID)
	if !ok {
		return ResolvedChange{Row: row, Kind: KindNotFound, Reason: reasonNotFound}
	}

	// Reduce the declared values to effective changes: a new value equal
	// to the current registry value is the same as unset. This is what
	// makes re-running an already-applied plan idempotent.
	newID := row.NewEntityID
	if newID == target.EntityID {
		newID = ""
	}
	newName := row.NewFriendlyName
	if newName == target.FriendlyName {
		newName = ""
	}

	if newID == "" && newName == "" {
		return ResolvedChange{Row: row, Target: target, Kind: KindNoOp, Reason: reasonAlreadyMatches}
	}

	if newID != "" {
		if snap.Contains(newID) {
			return ResolvedChange{Row: row, Target: target, Kind: KindConflict, Reason: reasonTargetExists}
		}
		if _, dup := claimed[newID]; dup {
			return ResolvedChange{Row: row, Target: target, Kind: KindConflict, Reason: reasonDuplicateBatch}
		}
		claimed[newID] = struct{}{}
	}

	return ResolvedChange{
		Row:             row,
		Target:          target,
		Kind:            KindRename,
		NewEntityID:     newID,
		NewFriendlyName: newName,
	}
}
