package server

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/trivia-night/internal/game"
	httperrors "github.com/gokatarajesh/trivia-night/pkg/http/errors"
	ws "github.com/gokatarajesh/trivia-night/pkg/http/ws"
)

// WSUpgrader handles WebSocket upgrades. The display stream is read-only and carries no
// secrets, so any origin may watch.
var WSUpgrader = websocket.Upgrader{
	CheckOrigin:     func(r *http.Request) bool { return true },
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
}

// SnapshotPublisher returns a session OnChange hook that pushes snapshots to the hub.
func SnapshotPublisher(hub *ws.Hub, logger zerolog.Logger) func(game.Snapshot) {
	return func(snap game.Snapshot) {
		msg, err := ws.NewMessage(ws.TypeSnapshot, snap)
		if err != nil {
			logger.Error().Err(err).Str("session_id", snap.ID).Msg("encode snapshot")
			return
		}
		_ = hub.BroadcastToSession(snap.ID, msg)
	}
}

// stream upgrades to a WebSocket that receives every snapshot of one session.
func (h *handlers) stream(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	conn, err := WSUpgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	log := h.logger.With().Str("session_id", s.ID()).Logger()
	wsConn := ws.NewConnection(conn, log)
	connID := h.deps.Hub.Subscribe(s.ID(), wsConn)
	go wsConn.WritePump()

	sendSnapshot := func(requestID string) error {
		msg, err := ws.NewMessage(ws.TypeSnapshot, s.Snapshot())
		if err != nil {
			return err
		}
		msg.RequestID = requestID
		return wsConn.Send(msg)
	}
	if err := sendSnapshot(""); err != nil {
		log.Warn().Err(err).Msg("initial snapshot not sent")
	}

	sendError := func(requestID, code, message string) error {
		reply, err := ws.NewMessage(ws.TypeError, ws.ErrorPayload{Code: code, Message: message})
		if err != nil {
			return err
		}
		reply.RequestID = requestID
		return wsConn.Send(reply)
	}

	wsConn.ReadPump(func(msg ws.Message) error {
		switch msg.Type {
		case ws.TypeRequestSnapshot:
			return sendSnapshot(msg.RequestID)
		case ws.TypePing:
			return wsConn.Send(ws.Message{Type: ws.TypePong, RequestID: msg.RequestID})
		default:
			return sendError(msg.RequestID, httperrors.ErrCodeUnknownMessageType, "unknown message type: "+msg.Type)
		}
	}, func(error) error {
		return sendError("", httperrors.ErrCodeInvalidPayload, "frame is not a JSON message")
	})

	h.deps.Hub.Unsubscribe(s.ID(), connID)
}
