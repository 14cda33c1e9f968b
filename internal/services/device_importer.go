package services

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"assetflow/internal/dto"
	"assetflow/internal/entities"
	"assetflow/internal/repositories"
	"assetflow/pkg/constants"
	apperrors "assetflow/pkg/errors"
	"assetflow/pkg/types"

	"github.com/aarondl/null/v8"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

type DeviceImportServiceInterface interface {
	ImportDevices(ctx context.Context, r io.Reader) (*dto.DeviceImportResultDTO, error)
}

// DeviceImportService загружает оборудование из xlsx. Шапка ищется на любом листе:
// нужны колонки "Инвентарный номер", "Модель" и "Тип", колонка "Дата покупки" необязательна.
type DeviceImportService struct {
	*BaseService
	deviceRepo     repositories.DeviceRepositoryInterface
	deviceTypeRepo repositories.DeviceTypeRepositoryInterface
	logger         *zap.Logger
}

func NewDeviceImportService(
	base *BaseService,
	deviceRepo repositories.DeviceRepositoryInterface,
	deviceTypeRepo repositories.DeviceTypeRepositoryInterface,
	logger *zap.Logger,
) DeviceImportServiceInterface {
	return &DeviceImportService{
		BaseService:    base,
		deviceRepo:     deviceRepo,
		deviceTypeRepo: deviceTypeRepo,
		logger:         logger,
	}
}

type importColumns struct {
	inventory, model, deviceType, purchaseDate int
}

var importDateLayouts = []string{"2006-01-02", "02.01.2006", "01-02-06"}

func (s *DeviceImportService) ImportDevices(ctx context.Context, r io.Reader) (*dto.DeviceImportResultDTO, error) {
	if _, err := s.Authorize(ctx, constants.RoleAdmin); err != nil {
		return nil, err
	}

	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, apperrors.NewValidationError("Не удалось прочитать файл xlsx")
	}
	defer f.Close()

	rows, headerRow, cols, ok := findImportHeader(f)
	if !ok {
		return nil, apperrors.NewValidationError("Не найдена шапка таблицы: нужны колонки 'Инвентарный номер', 'Модель' и 'Тип'")
	}

	deviceTypes, _, err := s.deviceTypeRepo.GetAll(ctx, types.Filter{})
	if err != nil {
		return nil, err
	}

	result := &dto.DeviceImportResultDTO{Errors: []dto.DeviceImportRowError{}}
	for i := headerRow + 1; i < len(rows); i++ {
		row := rows[i]
		lineNum := i + 1

		inventory := strings.ToUpper(cellAt(row, cols.inventory))
		if inventory == "" || isSummaryRow(inventory) {
			continue
		}

		typeName := cellAt(row, cols.deviceType)
		typeID := matchDeviceType(typeName, deviceTypes)
		if typeID == 0 {
			result.Errors = append(result.Errors, dto.DeviceImportRowError{Row: lineNum, Message: fmt.Sprintf("Тип оборудования '%s' не найден", typeName)})
			continue
		}

		model := cellAt(row, cols.model)
		if model == "" {
			result.Errors = append(result.Errors, dto.DeviceImportRowError{Row: lineNum, Message: "Не указана модель"})
			continue
		}

		purchaseDate, err := parseImportDate(cellAt(row, cols.purchaseDate))
		if err != nil {
			result.Errors = append(result.Errors, dto.DeviceImportRowError{Row: lineNum, Message: err.Error()})
			continue
		}

		_, err = s.deviceRepo.Create(ctx, nil, entities.Device{
			InventoryNumber: inventory,
			Model:           model,
			DeviceTypeID:    typeID,
			Status:          constants.DeviceStatusAvailable,
			PurchaseDate:    purchaseDate,
		})
		switch {
		case err == nil:
			result.Created++
		case apperrors.IsValidation(err):
			// такой инвентарный номер уже есть
			result.Skipped++
		default:
			s.logger.Error("Ошибка импорта строки", zap.Int("row", lineNum), zap.String("inventory", inventory), zap.Error(err))
			result.Errors = append(result.Errors, dto.DeviceImportRowError{Row: lineNum, Message: "Ошибка сохранения"})
		}
	}

	if result.Created > 0 {
		s.CacheDel(ctx, DeviceStatsCacheKey)
	}
	s.logger.Info("Импорт оборудования завершен",
		zap.Uint64("created", result.Created),
		zap.Uint64("skipped", result.Skipped),
		zap.Int("errors", len(result.Errors)),
	)
	return result, nil
}

func findImportHeader(f *excelize.File) ([][]string, int, importColumns, bool) {
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			continue
		}
		for rIdx, row := range rows {
			cols := importColumns{inventory: -1, model: -1, deviceType: -1, purchaseDate: -1}
			for cIdx, name := range row {
				lower := strings.ToLower(strings.TrimSpace(name))
				switch {
				case strings.Contains(lower, "инв"):
					cols.inventory = cIdx
				case strings.Contains(lower, "модель"):
					cols.model = cIdx
				case strings.Contains(lower, "тип"):
					cols.deviceType = cIdx
				case strings.Contains(lower, "дата"):
					cols.purchaseDate = cIdx
				}
			}
			if cols.inventory != -1 && cols.model != -1 && cols.deviceType != -1 {
				return rows, rIdx, cols, true
			}
		}
	}
	return nil, -1, importColumns{}, false
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func isSummaryRow(v string) bool {
	v = strings.ToLower(v)
	return strings.Contains(v, "итого") || strings.Contains(v, "всего")
}

// matchDeviceType сравнивает названия без регистра, пробелов и дефисов.
func matchDeviceType(name string, deviceTypes []entities.DeviceType) uint64 {
	clean := normalizeTypeName(name)
	if clean == "" {
		return 0
	}
	for _, t := range deviceTypes {
		if normalizeTypeName(t.Name) == clean {
			return t.ID
		}
	}
	return 0
}

func normalizeTypeName(in string) string {
	replacer := strings.NewReplacer(" ", "", "-", "", ".", "", "\"", "", "«", "", "»", "")
	return replacer.Replace(strings.ToLower(strings.TrimSpace(in)))
}

func parseImportDate(value string) (null.Time, error) {
	if value == "" {
		return null.Time{}, nil
	}
	for _, layout := range importDateLayouts {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return null.TimeFrom(t), nil
		}
	}
	return null.Time{}, fmt.Errorf("Неверная дата покупки: %s", value)
}
