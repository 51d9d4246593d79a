package ws

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/radieske/chess-bet-client/pkg/contracts/events"
)

// ClientMsg representa uma mensagem recebida do cliente WebSocket
// Type: ping. Qualquer outro tipo é ignorado.
type ClientMsg struct {
	Type string `json:"type"`
}

// ServerMsg é o envelope enviado aos clientes.
// Type: state | pong
type ServerMsg struct {
	Type  string                `json:"type"`
	State *events.WagerSnapshot `json:"state,omitempty"`
}

const writeTimeout = 5 * time.Second

// conn serializa escritas; o gorilla não aceita writers concorrentes.
type conn struct {
	ws *websocket.Conn
	mu sync.Mutex
}

func (c *conn) write(b []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.ws.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.ws.WriteMessage(websocket.TextMessage, b)
}

// Hub gerencia conexões WebSocket. Toda conexão recebe todos os estados,
// já que o cliente acompanha uma única aposta.
type Hub struct {
	log      *zap.Logger
	upgrader websocket.Upgrader
	mu       sync.RWMutex
	conns    map[*conn]struct{}
}

// NewHub cria uma instância de Hub com política customizada de origem (CORS)
func NewHub(log *zap.Logger, allowOrigin func(r *http.Request) bool) *Hub {
	return &Hub{
		log:      log,
		upgrader: websocket.Upgrader{CheckOrigin: allowOrigin},
		conns:    make(map[*conn]struct{}),
	}
}

// HandleWS gerencia o ciclo de vida de uma conexão WebSocket.
// initial, se não nil, é enviado logo após o upgrade.
func (h *Hub) HandleWS(initial func() events.WagerSnapshot) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ws, err := h.upgrader.Upgrade(w, r, nil)
		if err != nil {
			h.log.Debug("ws upgrade failed", zap.Error(err))
			return
		}
		c := &conn{ws: ws}
		defer ws.Close()

		if initial != nil {
			snap := initial()
			if err := c.write(mustJSON(ServerMsg{Type: "state", State: &snap})); err != nil {
				return
			}
		}

		h.mu.Lock()
		h.conns[c] = struct{}{}
		h.mu.Unlock()

		for {
			var msg ClientMsg
			if err := ws.ReadJSON(&msg); err != nil {
				break
			}
			if msg.Type == "ping" {
				_ = c.write(mustJSON(ServerMsg{Type: "pong"}))
			}
		}

		// Remove a conexão ao desconectar
		h.mu.Lock()
		delete(h.conns, c)
		h.mu.Unlock()
	}
}

// Clients retorna o número de conexões ativas.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

// Broadcast envia o estado para todos os clientes conectados
func (h *Hub) Broadcast(snap events.WagerSnapshot) {
	h.mu.RLock()
	conns := make([]*conn, 0, len(h.conns))
	for c := range h.conns {
		conns = append(conns, c)
	}
	h.mu.RUnlock()
	if len(conns) == 0 {
		return
	}

	b := mustJSON(ServerMsg{Type: "state", State: &snap})
	for _, c := range conns {
		if err := c.write(b); err != nil {
			h.log.Debug("ws write failed", zap.Error(err))
		}
	}
}

func mustJSON(v any) []byte {
	b, _ := json.Marshal(v)
	return b
}
