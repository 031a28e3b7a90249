// Package server provides the HTTP server for the Steadyhead swing analyzer.
package server

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/ravin/steadyhead/internal/app"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// ProgressHandler forwards per-frame analysis progress via WebSocket.
type ProgressHandler struct {
	app *app.App
}

// NewProgressHandler creates a new ProgressHandler with the given app.
func NewProgressHandler(a *app.App) *ProgressHandler {
	return &ProgressHandler{app: a}
}

// ServeHTTP handles WebSocket upgrade requests and streams progress
// updates until the client disconnects.
func (h *ProgressHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	updates, cancel := h.app.Subscribe()
	defer cancel()

	// Drain client messages so close frames are noticed
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-done:
			return
		case p := <-updates:
			if err := conn.WriteJSON(p); err != nil {
				return
			}
		}
	}
}
