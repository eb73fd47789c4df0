package websocket

import (
	"net"
	"testing"
	"time"

	fws "github.com/fasthttp/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/stretchr/testify/require"
)

func clientCount(h *Hub) int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

// A client whose transport dies must be dropped by the broadcast loop
// itself, and the hub has to keep accepting broadcasts while that
// happens. The handler here deliberately has no read loop, so the write
// path is the only place the dead connection can be noticed.
func TestBroadcastDropsDeadClient(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	hold := make(chan struct{})

	app := fiber.New()
	app.Get("/ws/stats", websocket.New(func(c *websocket.Conn) {
		hub.Register(c)
		<-hold
	}))

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go app.Listener(ln)
	defer app.Shutdown()
	defer close(hold)

	var conn *fws.Conn
	require.Eventually(t, func() bool {
		c, _, err := fws.DefaultDialer.Dial("ws://"+ln.Addr().String()+"/ws/stats", nil)
		if err != nil {
			return false
		}
		conn = c
		return true
	}, 2*time.Second, 50*time.Millisecond)

	require.Eventually(t, func() bool {
		return clientCount(hub) == 1
	}, 2*time.Second, 10*time.Millisecond)

	// Reset the TCP side so the server's next writes fail outright.
	tcp := conn.UnderlyingConn().(*net.TCPConn)
	require.NoError(t, tcp.SetLinger(0))
	require.NoError(t, tcp.Close())

	payload := []byte(`{"at":"0001-01-01T00:00:00Z"}`)
	for i := 0; i < 3; i++ {
		select {
		case hub.broadcast <- payload:
		case <-time.After(2 * time.Second):
			t.Fatalf("hub stopped accepting broadcasts after %d sends", i)
		}
		time.Sleep(20 * time.Millisecond)
	}

	require.Eventually(t, func() bool {
		return clientCount(hub) == 0
	}, 2*time.Second, 10*time.Millisecond)
}
