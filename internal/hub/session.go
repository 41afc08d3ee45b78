package hub

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/gorilla/websocket"

	"github.com/nerrad567/hub-renamer/internal/infrastructure/config"
	"github.com/nerrad567/hub-renamer/internal/infrastructure/logging"
)

// Session owns the WebSocket connection to the hub, the message-id
// counter, and request/response correlation.
//
// Thread Safety:
//   - A Session is owned by a single goroutine. Methods must not be
//     called concurrently; the strictly sequential execution model means
//     there is no concurrent mutation to guard against.
type Session struct {
	conn   *websocket.Conn
	cfg    config.HubConfig
	logger *logging.Logger

	// nextID is the monotonically increasing message id. The first
	// command after the handshake is tagged with id 1.
	nextID int64

	closed bool
}

// Connect dials the hub and performs the authentication handshake.
//
// The handshake expects auth_required from the hub, answers with the
// configured access token, and requires auth_ok back. auth_invalid, or
// any other frame, fails with ErrAuthFailed.
//
// Parameters:
//   - ctx: Context for the dial
//   - cfg: Hub connection settings from config.yaml
//   - logger: Logger for protocol-level debug output (nil for default)
//
// Returns:
//   - *Session: Authenticated session ready for commands
//   - error: ErrConnectionFailed if the dial fails, ErrAuthFailed if the
//     handshake does
func Connect(ctx context.Context, cfg config.HubConfig, logger *logging.Logger) (*Session, error) {
	if logger == nil {
		logger = logging.Default()
	}
	logger = logger.With("component", "hub")

	dialer := websocket.Dialer{
		HandshakeTimeout: cfg.ConnectTimeout(),
	}

	conn, resp, err := dialer.DialContext(ctx, cfg.URL(), nil)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("%w: dialing %s: %v (HTTP %d)", ErrConnectionFailed, cfg.URL(), err, resp.StatusCode)
		}
		return nil, fmt.Errorf("%w: dialing %s: %v", ErrConnectionFailed, cfg.URL(), err)
	}

	s := &Session{
		conn:   conn,
		cfg:    cfg,
		logger: logger,
		nextID: 1,
	}

	if err := s.authenticate(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return s, nil
}

// authenticate runs the auth handshake on a freshly dialled connection.
func (s *Session) authenticate() error {
	f, err := s.readFrame(s.cfg.ConnectTimeout())
	if err != nil {
		return fmt.Errorf("%w: waiting for auth challenge: %v", ErrAuthFailed, err)
	}
	if f.Type != frameAuthRequired {
		return fmt.Errorf("%w: expected auth_required, got %q", ErrAuthFailed, f.Type)
	}

	if err := s.writeJSON(authMessage{Type: "auth", AccessToken: s.cfg.AccessToken}); err != nil {
		return fmt.Errorf("%w: sending credentials: %v", ErrAuthFailed, err)
	}

	f, err = s.readFrame(s.cfg.ConnectTimeout())
	if err != nil {
		return fmt.Errorf("%w: waiting for auth result: %v", ErrAuthFailed, err)
	}

	switch f.Type {
	case frameAuthOK:
		s.logger.Info("authenticated with hub", "url", s.cfg.URL(), "hub_version", f.Version)
		return nil
	case frameAuthInvalid:
		msg := f.Message
		if msg == "" {
			msg = "access token rejected"
		}
		return fmt.Errorf("%w: %s", ErrAuthFailed, msg)
	default:
		return fmt.Errorf("%w: expected auth_ok, got %q", ErrAuthFailed, f.Type)
	}
}

// SendCommand sends one command and blocks until the matching response
// arrives or the command timeout elapses.
//
// The session tags the command with a fresh message id. Result frames
// with a different id are logged and discarded; the hub multiplexes by
// id but this client only ever has one command in flight.
//
// Parameters:
//   - ctx: Context checked before sending
//   - cmd: Command payload; the "id" field is owned by the session
//
// Returns:
//   - *Result: The correlated response (Success may still be false)
//   - error: ErrTimeout, ErrConnectionClosed, or ErrProtocol
func (s *Session) SendCommand(ctx context.Context, cmd Command) (*Result, error) {
	if s.closed {
		return nil, ErrConnectionClosed
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("sending command: %w", err)
	}

	id := s.nextID
	s.nextID++

	payload := cmd.withID(id)
	if err := s.writeJSON(payload); err != nil {
		return nil, err
	}
	s.logger.Debug("command sent", "id", id, "type", cmd["type"])

	for {
		f, err := s.readFrame(s.cfg.CommandTimeout())
		if err != nil {
			return nil, err
		}
		if f.Type != frameResult {
			return nil, fmt.Errorf("%w: expected result, got %q", ErrProtocol, f.Type)
		}
		if f.ID != id {
			// Stale response from an earlier timed-out command.
			s.logger.Debug("discarding stale result", "got_id", f.ID, "want_id", id)
			continue
		}

		res := &Result{
			ID:      f.ID,
			Success: *f.Success,
			Result:  f.Result,
			Error:   f.Error,
		}
		s.logger.Debug("result received", "id", res.ID, "success", res.Success)
		return res, nil
	}
}

// Close closes the underlying connection. Safe to call more than once.
func (s *Session) Close() error {
	if s.conn == nil || s.closed {
		return nil
	}
	s.closed = true

	// Best-effort close handshake so the hub logs a clean disconnect.
	_ = s.conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second),
	)
	return s.conn.Close()
}

// readFrame reads and validates one frame within the given timeout.
func (s *Session) readFrame(timeout time.Duration) (*frame, error) {
	_ = s.conn.SetReadDeadline(time.Now().Add(timeout))

	_, data, err := s.conn.ReadMessage()
	if err != nil {
		if isTimeout(err) {
			return nil, fmt.Errorf("%w after %v", ErrTimeout, timeout)
		}
		s.closed = true
		return nil, fmt.Errorf("%w: %v", ErrConnectionClosed, err)
	}

	return parseFrame(data)
}

// writeJSON writes one outbound frame within the command timeout.
func (s *Session) writeJSON(v any) error {
	_ = s.conn.SetWriteDeadline(time.Now().Add(s.cfg.CommandTimeout()))

	if err := s.conn.WriteJSON(v); err != nil {
		s.closed = true
		return fmt.Errorf("%w: %v", ErrConnectionClosed, err)
	}
	return nil
}

// isTimeout reports whether err is a network timeout rather than a
// closed or broken connection.
func isTimeout(err error) bool {
	var nerr net.Error
	return errors.As(err, &nerr) && nerr.Timeout()
}
