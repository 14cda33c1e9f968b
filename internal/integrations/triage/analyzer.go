package triage

import (
	"context"

	"go.uber.org/zap"
)

// Fallback возвращается при любой ошибке анализа.
func Fallback() Result {
	return Result{
		PriorityScore:      5,
		Tags:               []string{"ошибка анализа"},
		Summary:            "Не удалось проанализировать заявку",
		NeedsClarification: true,
	}
}

// Analyzer никогда не возвращает ошибку: сбой внешнего сервиса превращается в Fallback.
type Analyzer struct {
	client Client
	logger *zap.Logger
}

func NewAnalyzer(client Client, logger *zap.Logger) *Analyzer {
	return &Analyzer{client: client, logger: logger.Named("triage")}
}

func (a *Analyzer) Analyze(ctx context.Context, in Input) Result {
	result, err := a.client.Analyze(ctx, in)
	if err != nil {
		a.logger.Warn("Анализ заявки не удался, используется результат по умолчанию",
			zap.String("deviceType", in.DeviceType),
			zap.Error(err),
		)
		return Fallback()
	}
	return result
}
