// Package web serves the optional live transcript view: a websocket feed of
// batch progress plus a small JSON API over the run history.
package web

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"

	"markestedt/whisperbatch/batch"
	"markestedt/whisperbatch/storage"
)

//go:embed static/*
var staticFiles embed.FS

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Local tool, allow all origins
	},
}

// Server is the live-view HTTP server. It implements batch.Notifier so the
// runner can push progress events.
type Server struct {
	db   *storage.DB // may be nil when history is disabled
	addr string
	hub  *Hub
}

// NewServer creates a live-view server listening on addr.
func NewServer(db *storage.DB, addr string) *Server {
	hub := NewHub()
	go hub.Run()

	return &Server{
		db:   db,
		addr: addr,
		hub:  hub,
	}
}

// Start serves until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/runs", s.handleRuns)
	mux.HandleFunc("/ws", s.HandleWebSocket)

	staticFS, err := fs.Sub(staticFiles, "static")
	if err != nil {
		return fmt.Errorf("failed to load static files: %w", err)
	}
	mux.Handle("/", http.FileServer(http.FS(staticFS)))

	srv := &http.Server{Addr: s.addr, Handler: mux}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	slog.Info("Starting live view", "addr", s.addr, "url", fmt.Sprintf("http://%s", s.addr))
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// FileStarted implements batch.Notifier.
func (s *Server) FileStarted(path string, index, total int) {
	s.hub.BroadcastMessage(Message{
		Type: MessageTypeFileStarted,
		Data: map[string]any{
			"path":  path,
			"index": index,
			"total": total,
		},
	})
}

// FileFinished implements batch.Notifier.
func (s *Server) FileFinished(res batch.FileResult) {
	data := map[string]any{
		"path":     res.Path,
		"status":   string(res.Status),
		"segments": len(res.Segments),
		"elapsed":  res.Elapsed.Milliseconds(),
	}
	if res.Err != nil {
		data["error"] = res.Err.Error()
	}
	var texts []map[string]any
	for _, seg := range res.Segments {
		texts = append(texts, map[string]any{
			"start": seg.Start.Milliseconds(),
			"end":   seg.End.Milliseconds(),
			"text":  seg.Text,
		})
	}
	data["transcript"] = texts
	s.hub.BroadcastMessage(Message{Type: MessageTypeFileFinished, Data: data})
}

// handleRuns returns recent run history as JSON.
func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.db == nil {
		http.Error(w, "History disabled", http.StatusNotFound)
		return
	}

	limit := 20
	if l, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && l > 0 {
		limit = l
	}

	runs, err := s.db.GetRuns(limit)
	if err != nil {
		slog.Error("Failed to get runs", "error", err)
		http.Error(w, "Failed to get runs", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"runs": runs})
}

// HandleWebSocket upgrades the connection and registers it with the hub.
func (s *Server) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("Failed to upgrade WebSocket connection", "error", err)
		return
	}

	client := &Client{
		hub:  s.hub,
		conn: conn,
		send: make(chan []byte, 256),
	}
	client.hub.register <- client

	go client.writePump()
	go client.readPump()
}
