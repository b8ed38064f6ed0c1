package web_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"markestedt/whisperbatch/batch"
	"markestedt/whisperbatch/engine"
	"markestedt/whisperbatch/web"
)

func TestNotifierDoesNotBlockWithoutClients(t *testing.T) {
	srv := web.NewServer(nil, "127.0.0.1:0")

	done := make(chan struct{})
	go func() {
		defer close(done)
		srv.FileStarted("a.wav", 1, 2)
		srv.FileFinished(batch.FileResult{
			Path:   "a.wav",
			Status: batch.StatusSucceeded,
			Segments: []engine.Segment{
				{Start: 0, End: time.Second, Text: "hello"},
			},
		})
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("notifier blocked with no connected clients")
	}
}

func TestWebSocketReceivesFileEvents(t *testing.T) {
	srv := web.NewServer(nil, "127.0.0.1:0")

	ts := httptest.NewServer(http.HandlerFunc(srv.HandleWebSocket))
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("websocket dial failed: %v", err)
	}
	defer conn.Close()

	// Registration races the broadcast; give the hub a moment.
	time.Sleep(50 * time.Millisecond)

	srv.FileStarted("a.wav", 1, 1)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if !strings.Contains(string(data), web.MessageTypeFileStarted) {
		t.Errorf("unexpected message: %s", data)
	}
	if !strings.Contains(string(data), "a.wav") {
		t.Errorf("message missing file path: %s", data)
	}
}
