package websocket

import (
	"context"
	"encoding/json"
	"time"

	"assetflow/pkg/constants"

	"go.uber.org/zap"
)

type broadcastMessage struct {
	payload []byte
	roles   []constants.Role
}

// Hub хранит подключения и рассылает сообщения по ролям.
type Hub struct {
	clients    map[*Client]struct{}
	broadcast  chan broadcastMessage
	register   chan *Client
	unregister chan *Client
	logger     *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]struct{}),
		broadcast:  make(chan broadcastMessage, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		logger:     logger.Named("ws-hub"),
	}
}

func (h *Hub) Register(c *Client)   { h.register <- c }
func (h *Hub) Unregister(c *Client) { h.unregister <- c }

// Run обслуживает хаб до отмены контекста. Все изменения карты клиентов идут через эту горутину.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			for client := range h.clients {
				close(client.Send)
				delete(h.clients, client)
			}
			return
		case client := <-h.register:
			h.clients[client] = struct{}{}
			h.logger.Info("Клиент зарегистрирован", zap.Uint64("userID", client.UserID), zap.String("role", string(client.Role)))
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
				h.logger.Info("Клиент отсоединен", zap.Uint64("userID", client.UserID))
			}
		case msg := <-h.broadcast:
			for client := range h.clients {
				if !roleAllowed(client.Role, msg.roles) {
					continue
				}
				select {
				case client.Send <- msg.payload:
				default:
					h.logger.Warn("Очередь клиента переполнена, отключаем", zap.Uint64("userID", client.UserID))
					close(client.Send)
					delete(h.clients, client)
				}
			}
		}
	}
}

// Broadcast отправляет сообщение всем клиентам с одной из ролей. Пустой список ролей - всем.
// Не блокирует вызывающего: при переполнении очереди сообщение теряется.
func (h *Hub) Broadcast(messageType string, payload interface{}, roles ...constants.Role) error {
	data, err := json.Marshal(Envelope{
		Type:      messageType,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	select {
	case h.broadcast <- broadcastMessage{payload: data, roles: roles}:
	default:
		h.logger.Warn("Очередь рассылки переполнена, сообщение отброшено", zap.String("type", messageType))
	}
	return nil
}

func roleAllowed(role constants.Role, allowed []constants.Role) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}
