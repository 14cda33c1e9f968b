package listeners

import (
	"context"

	"assetflow/internal/events"
	"assetflow/pkg/constants"
	"assetflow/pkg/eventbus"

	"go.uber.org/zap"
)

type statsInvalidator interface {
	InvalidateStats(ctx context.Context)
}

// StatsListener сбрасывает кеш сводки по устройствам при смене статуса и при списании.
// Списание не меняет статус, но убирает устройство из сводки.
type StatsListener struct {
	devices statsInvalidator
	logger  *zap.Logger
}

func NewStatsListener(devices statsInvalidator, logger *zap.Logger) *StatsListener {
	return &StatsListener{devices: devices, logger: logger}
}

func (l *StatsListener) Register(bus *eventbus.Bus) {
	bus.Subscribe(events.DeviceStatusChanged, func(ctx context.Context, event eventbus.Event) error {
		if e, ok := event.(events.DeviceStatusChangedEvent); ok {
			l.logger.Debug("Статус устройства изменён",
				zap.Uint64("deviceID", e.DeviceID),
				zap.String("from", string(e.From)),
				zap.String("to", string(e.To)),
			)
			l.devices.InvalidateStats(ctx)
		}
		return nil
	})
	bus.Subscribe(events.MovementRecorded, func(ctx context.Context, event eventbus.Event) error {
		if e, ok := event.(events.MovementRecordedEvent); ok && e.MovementType == constants.MovementWriteOff {
			l.logger.Debug("Устройство списано", zap.Uint64("deviceID", e.DeviceID))
			l.devices.InvalidateStats(ctx)
		}
		return nil
	})
}
