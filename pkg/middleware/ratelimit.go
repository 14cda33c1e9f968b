package middleware

import (
	"fmt"

	"github.com/labstack/echo/v4"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// RateLimit ограничивает частоту запросов с одного IP. Формат ulule/limiter, например "10-M".
func RateLimit(formatted string) (echo.MiddlewareFunc, error) {
	rate, err := limiter.NewRateFromFormatted(formatted)
	if err != nil {
		return nil, fmt.Errorf("неверный формат лимита %q: %w", formatted, err)
	}

	instance := limiter.New(memory.NewStore(), rate)
	return echo.WrapMiddleware(stdlib.NewMiddleware(instance).Handler), nil
}
