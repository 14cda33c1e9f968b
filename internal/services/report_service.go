package services

import (
	"context"
	"fmt"
	"io"

	"assetflow/internal/dto"
	"assetflow/internal/repositories"
	"assetflow/pkg/constants"
	"assetflow/pkg/utils"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

type ReportServiceInterface interface {
	MovementReport(ctx context.Context, limit uint64) (*dto.MovementReportDTO, error)
	DeviceMovements(ctx context.Context, deviceID uint64) ([]dto.MovementDTO, error)
	BreakdownStatistics(ctx context.Context) (*dto.BreakdownStatisticsDTO, error)
	WriteMovementsXLSX(w io.Writer, movements []dto.MovementDTO) error
	WriteBreakdownsXLSX(w io.Writer, stats *dto.BreakdownStatisticsDTO) error
}

type reportService struct {
	*BaseService
	movementRepo repositories.MovementRepositoryInterface
	deviceRepo   repositories.DeviceRepositoryInterface
	repairRepo   repositories.RepairRepositoryInterface
	logger       *zap.Logger
}

func NewReportService(
	base *BaseService,
	movementRepo repositories.MovementRepositoryInterface,
	deviceRepo repositories.DeviceRepositoryInterface,
	repairRepo repositories.RepairRepositoryInterface,
	logger *zap.Logger,
) ReportServiceInterface {
	return &reportService{
		BaseService:  base,
		movementRepo: movementRepo,
		deviceRepo:   deviceRepo,
		repairRepo:   repairRepo,
		logger:       logger,
	}
}

// NormalizeReportLimit: 0 - значение по умолчанию, сверху ограничено.
func NormalizeReportLimit(limit uint64) uint64 {
	switch {
	case limit == 0:
		return constants.DefaultMovementReportLimit
	case limit > constants.MaxMovementReportLimit:
		return constants.MaxMovementReportLimit
	}
	return limit
}

func (s *reportService) MovementReport(ctx context.Context, limit uint64) (*dto.MovementReportDTO, error) {
	if _, err := s.Authorize(ctx, constants.RoleAnalyst, constants.RoleAdmin); err != nil {
		return nil, err
	}
	limit = NormalizeReportLimit(limit)

	movements, err := s.movementRepo.List(ctx, nil, limit)
	if err != nil {
		s.logger.Error("Ошибка получения журнала движения", zap.Error(err))
		return nil, err
	}
	return &dto.MovementReportDTO{Limit: limit, Movements: movements}, nil
}

// DeviceMovements - вся история одного устройства, от новых записей к старым.
func (s *reportService) DeviceMovements(ctx context.Context, deviceID uint64) ([]dto.MovementDTO, error) {
	if _, err := s.Authorize(ctx, constants.RoleAnalyst, constants.RoleAdmin); err != nil {
		return nil, err
	}
	if _, err := s.deviceRepo.FindByID(ctx, nil, deviceID); err != nil {
		return nil, err
	}
	return s.movementRepo.List(ctx, &deviceID, 0)
}

func (s *reportService) BreakdownStatistics(ctx context.Context) (*dto.BreakdownStatisticsDTO, error) {
	if _, err := s.Authorize(ctx, constants.RoleAnalyst, constants.RoleAdmin); err != nil {
		return nil, err
	}

	total, completed, err := s.repairRepo.Counts(ctx)
	if err != nil {
		s.logger.Error("Ошибка подсчёта ремонтов", zap.Error(err))
		return nil, err
	}
	repairs, err := s.repairRepo.List(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &dto.BreakdownStatisticsDTO{
		TotalRepairs:     total,
		CompletedRepairs: completed,
		Repairs:          repairs,
	}, nil
}

var movementHeaders = []string{"№", "Дата и время", "Инв. номер", "Модель", "Сотрудник", "Операция", "Примечание", "Операция (ID)"}

func (s *reportService) WriteMovementsXLSX(w io.Writer, movements []dto.MovementDTO) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Движение оборудования"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}
	if err := writeHeader(f, sheet, movementHeaders); err != nil {
		return err
	}

	for i, m := range movements {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := []interface{}{i + 1, m.Timestamp, m.InventoryNumber, m.DeviceModel, m.EmployeeName, m.MovementLabel, m.Notes, m.TxID}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	f.SetColWidth(sheet, "B", "B", 20)
	f.SetColWidth(sheet, "C", "F", 22)
	f.SetColWidth(sheet, "G", "G", 40)
	f.SetColWidth(sheet, "H", "H", 38)

	return f.Write(w)
}

var breakdownHeaders = []string{"№", "Инв. номер", "Модель", "Сообщил", "Описание", "Статус", "Создан", "Завершён"}

func (s *reportService) WriteBreakdownsXLSX(w io.Writer, stats *dto.BreakdownStatisticsDTO) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Поломки"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}
	if err := writeHeader(f, sheet, breakdownHeaders); err != nil {
		return err
	}

	for i, r := range stats.Repairs {
		var inventory, model, reporter, completed string
		if r.Device != nil {
			inventory, model = r.Device.InventoryNumber, r.Device.Model
		}
		if r.ReportedBy != nil {
			reporter = r.ReportedBy.FullName
		}
		if r.CompletedAt.Valid {
			completed = utils.FormatDateTime(r.CompletedAt.Time)
		}
		status := "В ремонте"
		if r.Status == constants.RepairStatusCompleted {
			status = "Завершён"
		}

		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := []interface{}{i + 1, inventory, model, reporter, r.Description, status, utils.FormatDateTime(r.CreatedAt), completed}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}

	summaryRow := len(stats.Repairs) + 3
	f.SetCellValue(sheet, fmt.Sprintf("A%d", summaryRow), "Всего ремонтов")
	f.SetCellValue(sheet, fmt.Sprintf("C%d", summaryRow), stats.TotalRepairs)
	f.SetCellValue(sheet, fmt.Sprintf("A%d", summaryRow+1), "Завершено")
	f.SetCellValue(sheet, fmt.Sprintf("C%d", summaryRow+1), stats.CompletedRepairs)

	f.SetColWidth(sheet, "B", "D", 22)
	f.SetColWidth(sheet, "E", "E", 40)
	f.SetColWidth(sheet, "G", "H", 20)

	return f.Write(w)
}

func writeHeader(f *excelize.File, sheet string, headers []string) error {
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return err
	}
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	last, _ := excelize.CoordinatesToCellName(len(headers), 1)
	return f.SetCellStyle(sheet, "A1", last, style)
}
