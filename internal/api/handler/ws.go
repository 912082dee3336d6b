package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/maraichr/sqlgrid/internal/bridge"
	"github.com/maraichr/sqlgrid/internal/editor"
)

const (
	wsWriteTimeout = 10 * time.Second
	wsPongTimeout  = 60 * time.Second
	wsPingInterval = 30 * time.Second
)

// WSHandler upgrades a connection to the render protocol and pumps
// messages between the socket and a bridge session. One socket is one
// session over one document.
type WSHandler struct {
	logger   *slog.Logger
	service  *editor.Service
	upgrader websocket.Upgrader
}

func NewWSHandler(logger *slog.Logger, service *editor.Service) *WSHandler {
	return &WSHandler{
		logger:  logger,
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			// Cross-origin policy is handled at the HTTP layer.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Serve handles GET /ws?path=...
func (h *WSHandler) Serve(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if e := validatePath(path); e != nil {
		writeAPIError(w, h.logger, e)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}
	defer conn.Close()

	logger := h.logger.With(slog.String("path", path))
	logger.Info("websocket session opened")

	session := bridge.NewSession(logger, h.service, path)
	go session.Run(r.Context())

	// Writer pump: session outbound plus keepalive pings.
	done := make(chan struct{})
	go func() {
		defer close(done)
		ping := time.NewTicker(wsPingInterval)
		defer ping.Stop()
		for {
			select {
			case msg, ok := <-session.Outbound():
				if !ok {
					conn.WriteControl(websocket.CloseMessage,
						websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
						time.Now().Add(wsWriteTimeout))
					return
				}
				conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
				if err := conn.WriteJSON(msg); err != nil {
					logger.Warn("websocket write failed", slog.String("error", err.Error()))
					return
				}
			case <-ping.C:
				conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
				if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteTimeout)); err != nil {
					return
				}
			}
		}
	}()

	// Reader pump: socket → session, on the request goroutine.
	conn.SetReadDeadline(time.Now().Add(wsPongTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongTimeout))
	})
	for {
		var msg bridge.Inbound
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Warn("websocket read failed", slog.String("error", err.Error()))
			}
			break
		}
		session.Inbound() <- msg
	}

	session.Close()
	<-done
	logger.Info("websocket session closed")
}
