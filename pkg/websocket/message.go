package websocket

import "time"

// Envelope - конверт сообщения; по Type фронтенд понимает, что пришло.
type Envelope struct {
	Type      string      `json:"type"`
	Payload   interface{} `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

const MessageTypeMovement = "movement"
