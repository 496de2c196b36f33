package realtime

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"

	"quickplan/internal/domain"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Browser clients connect from separate web origins; authorization is
	// enforced per frame by the chat gate, not by origin.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handler upgrades GET /ws requests to websocket connections. A bearer token
// (Authorization header or token query parameter) is optional: guests join
// with only a nickname, creators authenticate to be recognized as such. An
// invalid token is treated as no token; the gate will deny accordingly.
func Handler(manager *RoomManager, verifier domain.TokenVerifier, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := ""
		if token := bearerToken(r); token != "" {
			if id, err := verifier.Verify(token); err == nil {
				userID = id
			} else {
				logger.Debug("websocket token rejected", "err", err)
			}
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Error("websocket upgrade failed", "err", err)
			return
		}

		client := newClient(conn, userID, manager, logger)
		go client.writePump()
		go client.readPump()
	}
}

func bearerToken(r *http.Request) string {
	const prefix = "Bearer "
	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, prefix) {
		return strings.TrimSpace(auth[len(prefix):])
	}
	return r.URL.Query().Get("token")
}
