package utils

import (
	"time"

	"github.com/aarondl/null/v8"
)

const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02 15:04:05"
)

// ParseOptionalDate разбирает YYYY-MM-DD; пустая строка даёт невалидный null.Time.
func ParseOptionalDate(value string) (null.Time, error) {
	if value == "" {
		return null.Time{}, nil
	}
	t, err := time.ParseInLocation(DateLayout, value, time.Local)
	if err != nil {
		return null.Time{}, err
	}
	return null.TimeFrom(t), nil
}

func FormatDateTime(t time.Time) string {
	return t.Local().Format(DateTimeLayout)
}
