package gateway

import (
	"context"
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"rummy-suggest/card"
	"rummy-suggest/internal/game"
	"rummy-suggest/internal/suggest"

	"github.com/gorilla/websocket"
)

type stubAgent struct {
	reply string
}

func (s *stubAgent) Invoke(_ context.Context, _, _ string) (string, error) {
	return s.reply, nil
}

func (s *stubAgent) Enabled() bool { return true }

func dialTestGateway(t *testing.T, reply string) (*websocket.Conn, game.Store) {
	t.Helper()
	store, err := game.NewMemoryStore(0)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	svc := suggest.NewService(store, &stubAgent{reply: reply}, suggest.NewPicker(rand.New(rand.NewSource(1))))
	gw := New(svc)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", gw.HandleWebSocket)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn, store
}

func readReply(t *testing.T, conn *websocket.Conn) map[string]any {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, payload, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read reply: %v", err)
	}
	var reply map[string]any
	if err := json.Unmarshal(payload, &reply); err != nil {
		t.Fatalf("decode reply: %v", err)
	}
	return reply
}

func TestGateway_AdviceFrame(t *testing.T) {
	conn, _ := dialTestGateway(t, "Keep the pure sequence.")

	frame := Frame{Type: "advice", Message: "what now?"}
	if err := conn.WriteJSON(frame); err != nil {
		t.Fatalf("write frame: %v", err)
	}

	reply := readReply(t, conn)
	if reply["type"] != "advice" || reply["success"] != true {
		t.Fatalf("unexpected reply %v", reply)
	}
	if reply["response"] != "Keep the pure sequence." {
		t.Fatalf("unexpected response %v", reply["response"])
	}
}

func TestGateway_SuggestFrame(t *testing.T) {
	conn, store := dialTestGateway(t, "Discard the king.")

	_ = store.Put(context.Background(), game.State{
		GameID:     "ws_game",
		PlayerHand: []card.Card{{Rank: "7", Suit: card.Hearts}},
	})

	if err := conn.WriteJSON(Frame{Type: "suggest", GameID: "ws_game"}); err != nil {
		t.Fatalf("write frame: %v", err)
	}

	reply := readReply(t, conn)
	if reply["type"] != "suggest" || reply["success"] != true {
		t.Fatalf("unexpected reply %v", reply)
	}
	if reply["gameId"] != "ws_game" || reply["suggestion"] == "" {
		t.Fatalf("unexpected reply %v", reply)
	}
}

func TestGateway_UnknownGame(t *testing.T) {
	conn, _ := dialTestGateway(t, "unused")

	if err := conn.WriteJSON(Frame{Type: "suggest", GameID: "missing"}); err != nil {
		t.Fatalf("write frame: %v", err)
	}

	reply := readReply(t, conn)
	if reply["success"] == true {
		t.Fatalf("expected failure for unknown game, got %v", reply)
	}
	if reply["error"] != "Game not found" {
		t.Fatalf("unexpected error %v", reply["error"])
	}
}

func TestGateway_UnknownFrameType(t *testing.T) {
	conn, _ := dialTestGateway(t, "unused")

	if err := conn.WriteJSON(Frame{Type: "bogus"}); err != nil {
		t.Fatalf("write frame: %v", err)
	}

	reply := readReply(t, conn)
	if reply["type"] != "error" {
		t.Fatalf("expected error frame, got %v", reply)
	}
}
