package listeners

import (
	"context"

	"assetflow/internal/dto"
	"assetflow/internal/events"
	"assetflow/pkg/constants"
	"assetflow/pkg/eventbus"
	"assetflow/pkg/websocket"

	"go.uber.org/zap"
)

type movementFinder interface {
	FindByID(ctx context.Context, id uint64) (*dto.MovementDTO, error)
}

type broadcaster interface {
	Broadcast(messageType string, payload interface{}, roles ...constants.Role) error
}

// NotificationListener рассылает новые записи журнала движения по WebSocket
// администраторам и аналитикам.
type NotificationListener struct {
	movements movementFinder
	hub       broadcaster
	logger    *zap.Logger
}

func NewNotificationListener(movements movementFinder, hub broadcaster, logger *zap.Logger) *NotificationListener {
	return &NotificationListener{
		movements: movements,
		hub:       hub,
		logger:    logger,
	}
}

func (l *NotificationListener) Register(bus *eventbus.Bus) {
	bus.Subscribe(events.MovementRecorded, l.handleMovementRecorded)
	l.logger.Info("NotificationListener подписан на событие", zap.String("event", events.MovementRecorded))
}

func (l *NotificationListener) handleMovementRecorded(ctx context.Context, event eventbus.Event) error {
	e, ok := event.(events.MovementRecordedEvent)
	if !ok {
		return nil
	}

	movement, err := l.movements.FindByID(ctx, e.MovementID)
	if err != nil {
		l.logger.Error("Не удалось загрузить запись журнала для рассылки",
			zap.Uint64("movementID", e.MovementID),
			zap.Error(err),
		)
		return err
	}

	return l.hub.Broadcast(websocket.MessageTypeMovement, movement, constants.RoleAdmin, constants.RoleAnalyst)
}
