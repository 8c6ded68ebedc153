package websocket

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/dom/movie-catalog/internal/domain"
	"github.com/google/uuid"
)

const broadcastBuffer = 64

// Hub fans catalog events out to every connected browser.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	stop       chan struct{}
	done       chan struct{} // closed when Run() exits
	stopped    bool
	logger     *slog.Logger
	mu         sync.RWMutex
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, broadcastBuffer),
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

func (h *Hub) Run() {
	defer close(h.done)

	for {
		select {
		case <-h.stop:
			h.mu.Lock()
			h.stopped = true
			for client := range h.clients {
				client.Close()
			}
			h.clients = make(map[*Client]bool)
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			if h.stopped {
				client.Close()
			} else {
				h.clients[client] = true
			}
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				client.Close()
			}
			h.mu.Unlock()

		case data := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				if !client.trySend(data) {
					// Slow reader; drop it rather than stall everyone else.
					delete(h.clients, client)
					client.Close()
				}
			}
			h.mu.Unlock()
		}
	}
}

// Stop shuts the hub down and closes every client. It blocks until Run has
// returned and is safe to call more than once.
func (h *Hub) Stop() {
	h.mu.Lock()
	if h.stopped {
		h.mu.Unlock()
		return
	}
	h.stopped = true
	h.mu.Unlock()

	close(h.stop)
	<-h.done
}

func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
		client.Close()
	}
}

// Unregister removes a client, handling the case where the hub may be stopped.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast queues msg for every client. It never blocks; when the queue is
// full the message is dropped.
func (h *Hub) Broadcast(msg *Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("failed to marshal broadcast", "type", msg.Type, "error", err)
		return
	}

	select {
	case h.broadcast <- data:
	default:
		h.logger.Warn("broadcast queue full, dropping message", "type", msg.Type)
	}
}

func (h *Hub) MovieCreated(movie *domain.Movie) {
	h.publish(MessageTypeMovieCreated, MoviePayload{
		ID:    movie.ID.String(),
		Name:  movie.Name,
		Owner: movie.OwnerName(),
	})
}

func (h *Hub) MovieUpdated(movie *domain.Movie) {
	h.publish(MessageTypeMovieUpdated, MoviePayload{
		ID:    movie.ID.String(),
		Name:  movie.Name,
		Owner: movie.OwnerName(),
	})
}

func (h *Hub) MovieDeleted(id uuid.UUID) {
	h.publish(MessageTypeMovieDeleted, MoviePayload{ID: id.String()})
}

func (h *Hub) publish(msgType MessageType, payload MoviePayload) {
	msg, err := NewMessage(msgType, payload)
	if err != nil {
		h.logger.Error("failed to build message", "type", msgType, "error", err)
		return
	}
	h.Broadcast(msg)
}
