package rename

import "github.com/nerrad567/hub-renamer/internal/registry"

// Row is one declared rename intent, as parsed from the CSV plan.
// Empty strings mean "unset". Immutable once parsed.
type Row struct {
	OldEntityID     string
	NewEntityID     string
	OldFriendlyName string
	NewFriendlyName string
}

// Kind classifies what Resolve decided for a row.
type Kind int

const (
	// KindNoOp means the row already matches the registry; nothing to send.
	KindNoOp Kind = iota

	// KindRename means the row carries at least one real change to apply.
	KindRename

	// KindConflict means the declared target id collides with an existing
	// entity or with an earlier row in the batch.
	KindConflict

	// KindNotFound means the old entity id is absent from the snapshot.
	KindNotFound
)

// String returns a human-readable kind name.
func (k Kind) String() string {
	switch k {
	case KindNoOp:
		return "no-op"
	case KindRename:
		return "rename"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not-found"
	default:
		return "unknown"
	}
}

// ResolvedChange is the resolver's verdict for one row. Ephemeral,
// passed by value to the executor.
type ResolvedChange struct {
	Row    Row
	Kind   Kind
	Reason string

	// Target is the snapshot entry the row matched. Zero value for
	// KindNotFound.
	Target registry.Entry

	// NewEntityID and NewFriendlyName are the effective changes to apply:
	// empty means that field is unchanged. Only meaningful for KindRename.
	NewEntityID     string
	NewFriendlyName string
}

// Status is the final disposition of one row.
type Status int

const (
	// StatusSuccess means the hub confirmed the update.
	StatusSuccess Status = iota

	// StatusFailed means the hub rejected the update, the command timed
	// out, or the connection failed.
	StatusFailed

	// StatusSkipped means no command was sent: the row was a no-op,
	// a conflict, or not found.
	StatusSkipped
)

// String returns a human-readable status name.
func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusFailed:
		return "failed"
	case StatusSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// Outcome is the final artifact for one row. The executor produces
// exactly one Outcome per input row, in input order.
type Outcome struct {
	Row    Row
	Status Status
	Detail string
}
