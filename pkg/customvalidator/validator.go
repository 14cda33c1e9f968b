package customvalidator

import (
	"reflect"
	"regexp"
	"strings"
	"time"

	"assetflow/pkg/constants"

	"github.com/aarondl/null/v8"
	"github.com/go-playground/validator/v10"
)

const DateLayout = "2006-01-02"

var (
	emailRegex           = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	inventoryNumberRegex = regexp.MustCompile(`^[A-Z0-9][A-Z0-9-]*$`)

	now = time.Now
)

// EchoValidator подключает validator к echo.Echo.Validator.
type EchoValidator struct {
	validate *validator.Validate
}

// New создает валидатор со всеми нашими правилами.
func New() (*EchoValidator, error) {
	v := validator.New()
	if err := RegisterCustomValidations(v); err != nil {
		return nil, err
	}
	return &EchoValidator{validate: v}, nil
}

func (ev *EchoValidator) Validate(i interface{}) error {
	return ev.validate.Struct(i)
}

// RegisterCustomValidations регистрирует все наши правила в переданном валидаторе.
func RegisterCustomValidations(v *validator.Validate) error {
	registerNullTypes(v)

	if err := v.RegisterValidation("email", isGoodEmailFormat); err != nil {
		return err
	}
	if err := v.RegisterValidation("inventory_number", isInventoryNumber); err != nil {
		return err
	}
	if err := v.RegisterValidation("role", isKnownRole); err != nil {
		return err
	}
	if err := v.RegisterValidation("future_date", isFutureDate); err != nil {
		return err
	}
	if err := v.RegisterValidation("notblank", isNotBlank); err != nil {
		return err
	}
	return nil
}

func isGoodEmailFormat(fl validator.FieldLevel) bool {
	return emailRegex.MatchString(fl.Field().String())
}

func isInventoryNumber(fl validator.FieldLevel) bool {
	return inventoryNumberRegex.MatchString(fl.Field().String())
}

func isKnownRole(fl validator.FieldLevel) bool {
	return constants.Role(fl.Field().String()).Valid()
}

// isNotBlank: строка не пустая после обрезки пробелов. required пропускает "   ".
func isNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// isFutureDate: дата в формате YYYY-MM-DD строго позже сегодняшней.
func isFutureDate(fl validator.FieldLevel) bool {
	value, err := time.ParseInLocation(DateLayout, fl.Field().String(), time.Local)
	if err != nil {
		return false
	}
	today := now()
	todayStart := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.Local)
	return value.After(todayStart)
}

// registerNullTypes учит валидатор "смотреть внутрь" типов null.String, null.Uint64 и null.Time.
func registerNullTypes(v *validator.Validate) {
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if val, ok := field.Interface().(null.String); ok && val.Valid {
			return val.String
		}
		return nil
	}, null.String{})

	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if val, ok := field.Interface().(null.Uint64); ok && val.Valid {
			return val.Uint64
		}
		return nil
	}, null.Uint64{})

	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if val, ok := field.Interface().(null.Time); ok && val.Valid {
			return val.Time
		}
		return nil
	}, null.Time{})
}
