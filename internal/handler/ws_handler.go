package handler

import (
	"net"
	"net/http"

	"github.com/gorilla/websocket"

	"taskhub/internal/app/chat"
	"taskhub/internal/pkg/errs"
	"taskhub/internal/pkg/limiter"
	"taskhub/internal/pkg/logx"
	"taskhub/internal/pkg/resp"
)

// HandleWebSocket upgrades the connection, registers it with the Hub under the
// default display name, and runs the client's pumps until disconnect. Display
// names arrive later over the socket as join events.
func HandleWebSocket(upgrader websocket.Upgrader, rateLimiter *limiter.IPRateLimiter, deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}

		if !rateLimiter.Allow(ip) {
			logx.Warn("WebSocket connection rejected: rate limit exceeded.", "ip", ip)
			resp.RespondError(w, r, errs.NewError(errs.ErrRateLimitExceeded))
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logx.Error(err, "Failed to upgrade connection to WebSocket")
			return
		}

		client := chat.NewClient(deps.Hub, conn)

		go client.WritePump()

		deps.Hub.Register(client)

		logx.Info("WebSocket connection established", "client_id", client.ID())

		client.ReadPump()
	}
}
