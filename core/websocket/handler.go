package websocket

import (
	nethttp "net/http"

	"github.com/hashicorp/go-uuid"
	"golang.org/x/net/websocket"
)

// netConn adapts an x/net websocket connection to the hub's Conn.
type netConn struct {
	ws *websocket.Conn
}

func (c *netConn) ReadText() (string, error) {
	var text string
	err := websocket.Message.Receive(c.ws, &text)
	return text, err
}

func (c *netConn) WriteText(text string) error {
	return websocket.Message.Send(c.ws, text)
}

func (c *netConn) Close() error {
	return c.ws.Close()
}

// Handler returns an http.Handler that upgrades connections and
// attaches them to the hub. Each connection gets a uuid client id and
// blocks in the hub's read loop for its lifetime.
func Handler(hub *Hub) nethttp.Handler {
	return websocket.Handler(func(ws *websocket.Conn) {
		id, err := uuid.GenerateUUID()
		if err != nil {
			ws.Close()
			return
		}

		client := NewClient(id, &netConn{ws: ws})
		if err := hub.Register(client); err != nil {
			ws.Close()
			return
		}

		hub.ReadLoop(client)
	})
}
