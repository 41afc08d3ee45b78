// Package registry loads a point-in-time snapshot of the hub's entity registry.
//
// The snapshot is fetched once per run with a single
// config/entity_registry/list command and indexed by entity id. It is
// read-only after load: rename decisions for the whole run are made
// against this one snapshot, never against partial execution results,
// so conflict detection stays deterministic.
//
// A malformed or unsuccessful list response is fatal for the run, since
// no further decisions can be trusted without a registry.
package registry
