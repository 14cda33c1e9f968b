package listeners

import (
	"context"

	"assetflow/internal/entities"
	"assetflow/internal/events"
	"assetflow/internal/integrations/triage"
	"assetflow/pkg/eventbus"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type requestTriageStore interface {
	FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Request, error)
	UpdateTriage(ctx context.Context, id uint64, t entities.RequestTriage) error
}

type requestAnalyzer interface {
	Analyze(ctx context.Context, in triage.Input) triage.Result
}

// TriageListener оценивает новую заявку и сохраняет результат в ней же.
// Заявка уже закоммичена, поэтому сбой анализа на неё не влияет.
type TriageListener struct {
	requests requestTriageStore
	analyzer requestAnalyzer
	logger   *zap.Logger
}

func NewTriageListener(requests requestTriageStore, analyzer requestAnalyzer, logger *zap.Logger) *TriageListener {
	return &TriageListener{requests: requests, analyzer: analyzer, logger: logger}
}

func (l *TriageListener) Register(bus *eventbus.Bus) {
	bus.Subscribe(events.RequestCreated, l.handleRequestCreated)
	l.logger.Info("TriageListener подписан на событие", zap.String("event", events.RequestCreated))
}

func (l *TriageListener) handleRequestCreated(ctx context.Context, event eventbus.Event) error {
	e, ok := event.(events.RequestCreatedEvent)
	if !ok {
		return nil
	}
	logger := l.logger.With(zap.Uint64("requestID", e.RequestID))

	req, err := l.requests.FindByID(ctx, nil, e.RequestID)
	if err != nil {
		// заявку могли удалить до начала анализа
		logger.Warn("Заявка для анализа не найдена", zap.Error(err))
		return nil
	}

	in := triage.Input{Purpose: req.Purpose}
	if req.Employee != nil {
		in.EmployeePosition = req.Employee.Position
	}
	if req.Device != nil && req.Device.DeviceType != nil {
		in.DeviceType = req.Device.DeviceType.Name
	}

	result := l.analyzer.Analyze(ctx, in)
	err = l.requests.UpdateTriage(ctx, e.RequestID, entities.RequestTriage{
		PriorityScore:      result.PriorityScore,
		Tags:               result.Tags,
		Summary:            result.Summary,
		NeedsClarification: result.NeedsClarification,
	})
	if err != nil {
		logger.Warn("Не удалось сохранить результат анализа", zap.Error(err))
		return nil
	}
	logger.Info("Заявка проанализирована", zap.Float64("priority", result.PriorityScore))
	return nil
}
