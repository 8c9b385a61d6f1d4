package websocket

import (
	"aquatech-web/internal/pkg/serverutils"
	"aquatech-web/internal/sessiongate"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

const (
	sessionIDLocalKey = "ws_session_id"
	gateLocalKey      = "ws_gate"
	keepAliveLocalKey = "ws_keep_alive"
)

// GateSource hands out the gate of a browser session. *sessiongate.Registry
// implements it.
type GateSource interface {
	Acquire(sessionID string) (*sessiongate.Gate, error)
	Touch(sessionID string)
}

// Upgrade resolves the caller's gate and lets only websocket upgrades through.
func Upgrade(gates GateSource) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(ctx) {
			return fiber.ErrUpgradeRequired
		}

		sessionID := serverutils.SessionID(ctx)
		gate, err := gates.Acquire(sessionID)
		if err != nil {
			return err
		}
		ctx.Locals(sessionIDLocalKey, sessionID)
		ctx.Locals(gateLocalKey, gate)
		ctx.Locals(keepAliveLocalKey, func() { gates.Touch(sessionID) })
		return ctx.Next()
	}
}

// ServeSession streams the session gate of the connection's browser session. An
// open stream keeps its gate from going idle.
func ServeSession(hub *Hub) fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		sessionID, _ := conn.Locals(sessionIDLocalKey).(string)
		gate, _ := conn.Locals(gateLocalKey).(*sessiongate.Gate)
		if gate == nil {
			return
		}

		client := newClient(hub, conn, sessionID)
		if keepAlive, ok := conn.Locals(keepAliveLocalKey).(func()); ok {
			client.keepAlive = keepAlive
		}
		if !hub.register(client) {
			return
		}
		defer hub.unregister(client)

		feed, stop := gate.Watch()
		defer stop()

		go client.readPump()
		client.writePump(feed)
	})
}
