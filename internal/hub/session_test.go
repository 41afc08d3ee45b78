package hub

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/nerrad567/hub-renamer/internal/infrastructure/config"
)

// fakeHub runs a WebSocket endpoint whose behaviour is scripted by the
// handler. The handler runs in the server goroutine; use t.Errorf (not
// t.Fatalf) inside it.
func fakeHub(t *testing.T, handler func(conn *websocket.Conn)) config.HubConfig {
	t.Helper()

	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade failed: %v", err)
			return
		}
		defer conn.Close()
		handler(conn)
	}))
	t.Cleanup(srv.Close)

	u, err := url.Parse(srv.URL)
	if err != nil {
		t.Fatalf("parsing test server URL: %v", err)
	}

	return config.HubConfig{
		Host:        u.Host,
		Path:        "/",
		AccessToken: "test-token",
		Timeouts:    config.HubTimeoutConfig{Connect: 2, Command: 1},
	}
}

// serveAuth performs the hub side of a successful handshake.
func serveAuth(t *testing.T, conn *websocket.Conn) bool {
	if err := conn.WriteJSON(map[string]any{"type": "auth_required", "ha_version": "2024.1.0"}); err != nil {
		t.Errorf("writing auth_required: %v", err)
		return false
	}

	var auth map[string]any
	if err := conn.ReadJSON(&auth); err != nil {
		t.Errorf("reading auth message: %v", err)
		return false
	}
	if auth["type"] != "auth" || auth["access_token"] != "test-token" {
		t.Errorf("unexpected auth message: %v", auth)
		return false
	}

	if err := conn.WriteJSON(map[string]any{"type": "auth_ok", "ha_version": "2024.1.0"}); err != nil {
		t.Errorf("writing auth_ok: %v", err)
		return false
	}
	return true
}

func TestConnect_Success(t *testing.T) {
	cfg := fakeHub(t, func(conn *websocket.Conn) {
		if !serveAuth(t, conn) {
			return
		}
		// Hold the connection open until the client closes it.
		_, _, _ = conn.ReadMessage()
	})

	s, err := Connect(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer s.Close()
}

func TestConnect_AuthInvalid(t *testing.T) {
	cfg := fakeHub(t, func(conn *websocket.Conn) {
		_ = conn.WriteJSON(map[string]any{"type": "auth_required"})
		var auth map[string]any
		_ = conn.ReadJSON(&auth)
		_ = conn.WriteJSON(map[string]any{"type": "auth_invalid", "message": "Invalid access token"})
	})

	_, err := Connect(context.Background(), cfg, nil)
	if !errors.Is(err, ErrAuthFailed) {
		t.Fatalf("Connect() error = %v, want ErrAuthFailed", err)
	}
	if !strings.Contains(err.Error(), "Invalid access token") {
		t.Errorf("Connect() error = %v, want hub-reported message included", err)
	}
}

func TestConnect_UnexpectedFrame(t *testing.T) {
	cfg := fakeHub(t, func(conn *websocket.Conn) {
		_ = conn.WriteJSON(map[string]any{"type": "auth_required"})
		var auth map[string]any
		_ = conn.ReadJSON(&auth)
		_ = conn.WriteJSON(map[string]any{"type": "auth_required"})
	})

	_, err := Connect(context.Background(), cfg, nil)
	if !errors.Is(err, ErrAuthFailed) {
		t.Fatalf("Connect() error = %v, want ErrAuthFailed", err)
	}
}

func TestConnect_DialFailure(t *testing.T) {
	cfg := config.HubConfig{
		Host:        "127.0.0.1:1",
		Path:        "/",
		AccessToken: "test-token",
		Timeouts:    config.HubTimeoutConfig{Connect: 1, Command: 1},
	}

	_, err := Connect(context.Background(), cfg, nil)
	if !errors.Is(err, ErrConnectionFailed) {
		t.Fatalf("Connect() error = %v, want ErrConnectionFailed", err)
	}
}

func TestSendCommand_Success(t *testing.T) {
	cfg := fakeHub(t, func(conn *websocket.Conn) {
		if !serveAuth(t, conn) {
			return
		}

		var cmd map[string]any
		if err := conn.ReadJSON(&cmd); err != nil {
			t.Errorf("reading command: %v", err)
			return
		}
		if cmd["id"] != float64(1) {
			t.Errorf("first command id = %v, want 1", cmd["id"])
		}
		if cmd["type"] != "config/entity_registry/list" {
			t.Errorf("command type = %v", cmd["type"])
		}

		_ = conn.WriteJSON(map[string]any{
			"id": 1, "type": "result", "success": true,
			"result": []map[string]any{{"entity_id": "sensor.temp"}},
		})
	})

	s, err := Connect(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer s.Close()

	res, err := s.SendCommand(context.Background(), Command{"type": "config/entity_registry/list"})
	if err != nil {
		t.Fatalf("SendCommand() error = %v", err)
	}
	if !res.Success {
		t.Error("Success = false, want true")
	}
	if res.ID != 1 {
		t.Errorf("ID = %d, want 1", res.ID)
	}
}

func TestSendCommand_IDsIncrement(t *testing.T) {
	cfg := fakeHub(t, func(conn *websocket.Conn) {
		if !serveAuth(t, conn) {
			return
		}
		for want := 1; want <= 3; want++ {
			var cmd map[string]any
			if err := conn.ReadJSON(&cmd); err != nil {
				return
			}
			if cmd["id"] != float64(want) {
				t.Errorf("command id = %v, want %d", cmd["id"], want)
			}
			_ = conn.WriteJSON(map[string]any{"id": want, "type": "result", "success": true})
		}
	})

	s, err := Connect(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer s.Close()

	for i := 1; i <= 3; i++ {
		res, err := s.SendCommand(context.Background(), Command{"type": "ping"})
		if err != nil {
			t.Fatalf("SendCommand() #%d error = %v", i, err)
		}
		if res.ID != int64(i) {
			t.Errorf("response #%d ID = %d, want %d", i, res.ID, i)
		}
	}
}

func TestSendCommand_HubError(t *testing.T) {
	cfg := fakeHub(t, func(conn *websocket.Conn) {
		if !serveAuth(t, conn) {
			return
		}
		var cmd map[string]any
		_ = conn.ReadJSON(&cmd)
		_ = conn.WriteJSON(map[string]any{
			"id": 1, "type": "result", "success": false,
			"error": map[string]any{"code": "invalid_entity_id", "message": "id already exists"},
		})
	})

	s, err := Connect(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer s.Close()

	res, err := s.SendCommand(context.Background(), Command{"type": "config/entity_registry/update"})
	if err != nil {
		t.Fatalf("SendCommand() error = %v", err)
	}
	if res.Success {
		t.Error("Success = true, want false")
	}
	if res.ErrorMessage() != "id already exists" {
		t.Errorf("ErrorMessage() = %q, want %q", res.ErrorMessage(), "id already exists")
	}
}

func TestSendCommand_Timeout(t *testing.T) {
	cfg := fakeHub(t, func(conn *websocket.Conn) {
		if !serveAuth(t, conn) {
			return
		}
		var cmd map[string]any
		_ = conn.ReadJSON(&cmd)
		// Never respond; the client's command timeout should fire.
		time.Sleep(2 * time.Second)
	})

	s, err := Connect(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer s.Close()

	_, err = s.SendCommand(context.Background(), Command{"type": "ping"})
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("SendCommand() error = %v, want ErrTimeout", err)
	}
}

func TestSendCommand_ConnectionClosed(t *testing.T) {
	cfg := fakeHub(t, func(conn *websocket.Conn) {
		if !serveAuth(t, conn) {
			return
		}
		var cmd map[string]any
		_ = conn.ReadJSON(&cmd)
		_ = conn.Close()
	})

	s, err := Connect(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer s.Close()

	_, err = s.SendCommand(context.Background(), Command{"type": "ping"})
	if !errors.Is(err, ErrConnectionClosed) {
		t.Fatalf("SendCommand() error = %v, want ErrConnectionClosed", err)
	}

	// Once closed, further commands fail immediately.
	_, err = s.SendCommand(context.Background(), Command{"type": "ping"})
	if !errors.Is(err, ErrConnectionClosed) {
		t.Fatalf("SendCommand() after close error = %v, want ErrConnectionClosed", err)
	}
}

func TestSendCommand_DiscardsStaleResults(t *testing.T) {
	cfg := fakeHub(t, func(conn *websocket.Conn) {
		if !serveAuth(t, conn) {
			return
		}
		var cmd map[string]any
		_ = conn.ReadJSON(&cmd)
		// A stale result from a previously timed-out command arrives
		// first; the matching one follows.
		_ = conn.WriteJSON(map[string]any{"id": 99, "type": "result", "success": false})
		_ = conn.WriteJSON(map[string]any{"id": 1, "type": "result", "success": true})
	})

	s, err := Connect(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer s.Close()

	res, err := s.SendCommand(context.Background(), Command{"type": "ping"})
	if err != nil {
		t.Fatalf("SendCommand() error = %v", err)
	}
	if res.ID != 1 || !res.Success {
		t.Errorf("got ID=%d Success=%v, want matching successful result", res.ID, res.Success)
	}
}

func TestSendCommand_AfterClose(t *testing.T) {
	cfg := fakeHub(t, func(conn *websocket.Conn) {
		if !serveAuth(t, conn) {
			return
		}
		_, _, _ = conn.ReadMessage()
	})

	s, err := Connect(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}

	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	_, err = s.SendCommand(context.Background(), Command{"type": "ping"})
	if !errors.Is(err, ErrConnectionClosed) {
		t.Fatalf("SendCommand() error = %v, want ErrConnectionClosed", err)
	}
}
