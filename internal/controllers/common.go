package controllers

import (
	"net/http"

	apperrors "assetflow/pkg/errors"

	"github.com/labstack/echo/v4"
)

// bindAndValidate: ошибка разбора тела - 400, ошибка правил validator - как есть,
// её переводит utils.ErrorResponse.
func bindAndValidate(ctx echo.Context, payload interface{}) error {
	if err := ctx.Bind(payload); err != nil {
		return apperrors.NewHttpError(http.StatusBadRequest, "Неверный формат запроса", err, nil)
	}
	if err := ctx.Validate(payload); err != nil {
		return err
	}
	return nil
}
