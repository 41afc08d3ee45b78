package rename

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/nerrad567/hub-renamer/internal/hub"
	"github.com/nerrad567/hub-renamer/internal/infrastructure/logging"
)

// Sender is the slice of the hub session the executor needs.
type Sender interface {
	SendCommand(ctx context.Context, cmd hub.Command) (*hub.Result, error)
}

const detailConnectionClosed = "connection closed"

// Execute applies resolved changes in input order, one command at a time.
//
// Only KindRename rows reach the hub; the update command carries just
// the fields that actually changed. No row is retried, and a failed row
// does not block the rows after it. If the connection closes mid-run,
// the current and all remaining unexecuted rows fail with detail
// "connection closed" while already-recorded outcomes are preserved.
//
// Parameters:
//   - ctx: Context passed through to each command
//   - changes: Output of Resolve, in original row order
//   - sender: The hub session (or a stand-in)
//   - logger: Progress logging (nil for default)
//
// Returns:
//   - []Outcome: Exactly one outcome per change, in input order
func Execute(ctx context.Context, changes []ResolvedChange, sender Sender, logger *logging.Logger) []Outcome {
	if logger == nil {
		logger = logging.Default()
	}
	logger = logger.With("component", "executor")

	outcomes := make([]Outcome, 0, len(changes))
	connClosed := false

	for _, ch := range changes {
		if connClosed {
			outcomes = append(outcomes, Outcome{Row: ch.Row, Status: StatusFailed, Detail: detailConnectionClosed})
			continue
		}

		switch ch.Kind {
		case KindRename:
			outcome, closed := executeRename(ctx, ch, sender, logger)
			connClosed = closed
			outcomes = append(outcomes, outcome)
		case KindNoOp, KindConflict, KindNotFound:
			logger.Debug("skipping row", "entity_id", ch.Row.OldEntityID, "kind", ch.Kind.String(), "reason", ch.Reason)
			outcomes = append(outcomes, Outcome{Row: ch.Row, Status: StatusSkipped, Detail: ch.Reason})
		}
	}

	return outcomes
}

// executeRename sends one update command and interprets the response.
// The second return value reports whether the connection is now closed.
func executeRename(ctx context.Context, ch ResolvedChange, sender Sender, logger *logging.Logger) (Outcome, bool) {
	cmd := hub.Command{
		"type":      "config/entity_registry/update",
		"entity_id": ch.Row.OldEntityID,
	}
	if ch.NewEntityID != "" {
		cmd["new_entity_id"] = ch.NewEntityID
	}
	if ch.NewFriendlyName != "" {
		cmd["name"] = ch.NewFriendlyName
	}

	res, err := sender.SendCommand(ctx, cmd)
	switch {
	case errors.Is(err, hub.ErrConnectionClosed):
		logger.Warn("connection closed mid-run", "entity_id", ch.Row.OldEntityID)
		return Outcome{Row: ch.Row, Status: StatusFailed, Detail: detailConnectionClosed}, true
	case errors.Is(err, hub.ErrTimeout):
		logger.Warn("update timed out", "entity_id", ch.Row.OldEntityID)
		return Outcome{Row: ch.Row, Status: StatusFailed, Detail: "timeout"}, false
	case err != nil:
		logger.Warn("update failed", "entity_id", ch.Row.OldEntityID, "error", err)
		return Outcome{Row: ch.Row, Status: StatusFailed, Detail: fmt.Sprintf("transport error: %v", err)}, false
	case res.Success:
		detail := successDetail(ch)
		logger.Info("entity updated", "entity_id", ch.Row.OldEntityID, "detail", detail)
		return Outcome{Row: ch.Row, Status: StatusSuccess, Detail: detail}, false
	default:
		msg := res.ErrorMessage()
		logger.Warn("hub rejected update", "entity_id", ch.Row.OldEntityID, "error", msg)
		return Outcome{Row: ch.Row, Status: StatusFailed, Detail: msg}, false
	}
}

// successDetail describes what was applied, mirroring the fields sent.
func successDetail(ch ResolvedChange) string {
	var parts []string
	if ch.NewEntityID != "" {
		parts = append(parts, "renamed to "+ch.NewEntityID)
	}
	if ch.NewFriendlyName != "" {
		parts = append(parts, "friendly name set to "+ch.NewFriendlyName)
	}
	return strings.Join(parts, "; ")
}
