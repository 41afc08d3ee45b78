// Package hub provides the WebSocket control session to the home-automation hub.
//
// This package manages:
//   - Connection to the hub's WebSocket API
//   - Token-based authentication handshake
//   - Monotonic message-id sequencing
//   - Request/response correlation with per-command timeouts
//
// # Protocol
//
// The hub speaks JSON frames over a persistent WebSocket. On connect the
// hub sends auth_required; the client answers with its access token and
// receives auth_ok or auth_invalid. After that, every command carries a
// fresh monotonically increasing id and the hub answers with a result
// frame tagged with the same id:
//
//	>>> {"id": 1, "type": "config/entity_registry/list"}
//	<<< {"id": 1, "type": "result", "success": true, "result": [...]}
//
// # Sequencing
//
// A Session is owned by a single goroutine. Commands are strictly
// sequential: each command blocks until its matching response arrives or
// the command timeout elapses. The hub multiplexes responses by id, but
// strict sequencing keeps failure attribution per command unambiguous,
// so this client never pipelines.
//
// # Errors
//
// There are no retries at this layer; retry policy belongs to the caller.
// Use errors.Is against the package sentinels (ErrAuthFailed, ErrTimeout,
// ErrConnectionClosed, ErrProtocol) to classify failures.
//
// # Usage
//
//	session, err := hub.Connect(ctx, cfg.Hub, logger)
//	if err != nil {
//	    return err
//	}
//	defer session.Close()
//
//	res, err := session.SendCommand(ctx, hub.Command{"type": "config/entity_registry/list"})
package hub
