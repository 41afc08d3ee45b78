// Package rename implements the rename orchestration core: resolving
// CSV-declared rename intents against a registry snapshot, executing the
// resulting update commands sequentially, and aggregating per-row
// outcomes into a report.
//
// # Pipeline
//
//	rows -> Resolve -> []ResolvedChange -> Execute -> []Outcome -> NewReport -> Report
//
// Resolve is pure: it classifies every row as no-op, rename, conflict,
// or not-found using only the snapshot and the declared targets of the
// whole batch. Later rows' conflict classification never depends on
// earlier rows' actual success or failure.
//
// Execute walks the resolved changes in original row order, one command
// at a time, and never retries. A failed row does not block subsequent
// rows; a closed connection fails the remaining rows without losing the
// outcomes already recorded.
//
// Every input row yields exactly one Outcome, in input order.
package rename
