package repositories

import (
	"errors"

	apperrors "assetflow/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// Сообщения для нарушений ограничений, которые видит пользователь.
var constraintMessages = map[string]string{
	"uq_requests_one_pending_per_device":   "На это оборудование уже есть ожидающая заявка",
	"devices_inventory_number_key":         "Оборудование с таким инвентарным номером уже существует",
	"device_types_name_key":                "Тип оборудования с таким названием уже существует",
	"employees_email_key":                  "Сотрудник с таким email уже существует",
	"employees_user_id_key":                "Этот логин уже привязан к другому сотруднику",
	"users_username_key":                   "Пользователь с таким логином уже существует",
	"devices_device_type_id_fkey":          "Тип оборудования используется, удаление невозможно",
	"requests_device_id_fkey":              "По оборудованию есть заявки, удаление невозможно",
	"equipment_movements_device_id_fkey":   "По оборудованию есть записи журнала перемещений, удаление невозможно",
	"equipment_movements_employee_id_fkey": "По сотруднику есть записи журнала перемещений, удаление невозможно",
	"repairs_device_id_fkey":               "По оборудованию есть история ремонтов, удаление невозможно",
	"repairs_reported_by_id_fkey":          "По сотруднику есть история ремонтов, удаление невозможно",
	"devices_responsible_person_id_fkey":   "Ответственный сотрудник не найден",
}

// mapPgError переводит ошибки PostgreSQL в ошибки приложения.
func mapPgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case pgUniqueViolation:
		if msg, ok := constraintMessages[pgErr.ConstraintName]; ok {
			return apperrors.NewValidationError("%s", msg)
		}
		return apperrors.NewValidationError("Запись с такими данными уже существует")
	case pgForeignKeyViolation:
		if msg, ok := constraintMessages[pgErr.ConstraintName]; ok {
			return apperrors.NewValidationError("%s", msg)
		}
		return apperrors.NewValidationError("Запись связана с другими данными, операция невозможна")
	}
	return err
}
