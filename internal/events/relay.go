package events

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeTimeout = 5 * time.Second
	pingInterval = 30 * time.Second
)

// Relay streams bus events to WebSocket clients as JSON. UI dashboards
// attach here to watch a discovery run live.
type Relay struct {
	mu       sync.RWMutex
	bus      *Bus
	clients  map[*websocket.Conn]struct{}
	upgrader websocket.Upgrader
	done     chan struct{}
	once     sync.Once
}

// NewRelay creates a relay attached to the given bus. Call Run to start
// forwarding and Close to detach.
func NewRelay(bus *Bus) *Relay {
	return &Relay{
		bus:     bus,
		clients: make(map[*websocket.Conn]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// Local tooling endpoint, not an internet-facing server.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		done: make(chan struct{}),
	}
}

// Run forwards bus events to all connected clients until the bus or the
// relay closes. Blocks; run it on its own goroutine.
func (r *Relay) Run() {
	sub := r.bus.Subscribe()
	defer r.bus.Unsubscribe(sub)

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case e, ok := <-sub:
			if !ok {
				return
			}
			r.broadcast(e)
		case <-ticker.C:
			r.ping()
		case <-r.done:
			return
		}
	}
}

// ServeHTTP upgrades the request and registers the client.
func (r *Relay) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	conn, err := r.upgrader.Upgrade(w, req, nil)
	if err != nil {
		return
	}

	r.mu.Lock()
	r.clients[conn] = struct{}{}
	r.mu.Unlock()

	// Drain (and ignore) client messages so pings get processed and we
	// notice disconnects.
	go func() {
		defer r.drop(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (r *Relay) broadcast(e Event) {
	r.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(r.clients))
	for conn := range r.clients {
		conns = append(conns, conn)
	}
	r.mu.RUnlock()

	for _, conn := range conns {
		conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := conn.WriteJSON(e); err != nil {
			r.drop(conn)
		}
	}
}

func (r *Relay) ping() {
	r.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(r.clients))
	for conn := range r.clients {
		conns = append(conns, conn)
	}
	r.mu.RUnlock()

	for _, conn := range conns {
		conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
			r.drop(conn)
		}
	}
}

func (r *Relay) drop(conn *websocket.Conn) {
	r.mu.Lock()
	if _, ok := r.clients[conn]; ok {
		delete(r.clients, conn)
		conn.Close()
	}
	r.mu.Unlock()
}

// Close disconnects every client and stops Run.
func (r *Relay) Close() {
	r.once.Do(func() { close(r.done) })

	r.mu.Lock()
	for conn := range r.clients {
		conn.Close()
	}
	r.clients = make(map[*websocket.Conn]struct{})
	r.mu.Unlock()
}

// ClientCount reports the number of attached clients.
func (r *Relay) ClientCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.clients)
}
