package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"assetflow/internal/dto"
	"assetflow/internal/entities"
	"assetflow/internal/events"
	"assetflow/pkg/constants"
	apperrors "assetflow/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndReturnRoundTrip(t *testing.T) {
	f := newFixture(t)
	emp := f.store.addEmployee("Иванов И.И.")
	dev := f.store.addDevice("NB-001", constants.DeviceStatusAvailable)

	req, err := f.workflow.CreateRequest(asEmployee(emp), dto.CreateRequestDTO{DeviceID: dev, Purpose: "Командировка", PlannedReturnDate: "2026-11-01"})
	require.NoError(t, err)
	assert.Equal(t, constants.RequestStatusPending, req.Status)
	assert.True(t, req.PlannedReturnDate.Valid)
	assert.Equal(t, constants.DeviceStatusAvailable, f.store.device(dev).Status)

	req, err = f.workflow.DecideRequest(asRole(constants.RoleAdmin), req.ID, dto.DecideRequestDTO{Status: "approved"})
	require.NoError(t, err)
	assert.Equal(t, constants.RequestStatusApproved, req.Status)
	assert.Equal(t, constants.DeviceStatusInUse, f.store.device(dev).Status)

	req, err = f.workflow.ReturnDevice(asRole(constants.RoleAdmin), req.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.RequestStatusCompleted, req.Status)
	assert.Equal(t, constants.DeviceStatusAvailable, f.store.device(dev).Status)

	moves := f.store.movementsOf(dev)
	require.Len(t, moves, 2)
	assert.Equal(t, constants.MovementIssue, moves[0].MovementType)
	assert.Equal(t, constants.MovementReturn, moves[1].MovementType)
	assert.Equal(t, emp, moves[0].EmployeeID)
	assert.NotEqual(t, moves[0].TxID, moves[1].TxID)

	assert.Equal(t, []string{
		events.RequestCreated,
		events.DeviceStatusChanged, events.MovementRecorded,
		events.DeviceStatusChanged, events.MovementRecorded,
	}, f.publisher.names())
}

func TestCreateRequestRejectsBusyDevice(t *testing.T) {
	f := newFixture(t)
	emp := f.store.addEmployee("Петров П.П.")
	broken := f.store.addDevice("NB-002", constants.DeviceStatusBroken)

	_, err := f.workflow.CreateRequest(asEmployee(emp), dto.CreateRequestDTO{DeviceID: broken, Purpose: "Работа"})
	assert.True(t, apperrors.IsValidation(err))

	free := f.store.addDevice("NB-003", constants.DeviceStatusAvailable)
	_, err = f.workflow.CreateRequest(asEmployee(emp), dto.CreateRequestDTO{DeviceID: free, Purpose: "Работа"})
	require.NoError(t, err)

	other := f.store.addEmployee("Сидоров С.С.")
	_, err = f.workflow.CreateRequest(asEmployee(other), dto.CreateRequestDTO{DeviceID: free, Purpose: "Тоже работа"})
	assert.True(t, apperrors.IsValidation(err), "вторая pending-заявка на то же устройство")
}

func TestCreateRequestNeedsEmployeeProfile(t *testing.T) {
	f := newFixture(t)
	dev := f.store.addDevice("NB-004", constants.DeviceStatusAvailable)

	_, err := f.workflow.CreateRequest(asRole(constants.RoleEmployee), dto.CreateRequestDTO{DeviceID: dev, Purpose: "Работа"})
	assert.ErrorIs(t, err, apperrors.ErrEmployeeProfileNotFound)

	_, err = f.workflow.CreateRequest(asRole(constants.RoleAnalyst), dto.CreateRequestDTO{DeviceID: dev, Purpose: "Работа"})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestConcurrentCreateRequestSingleWinner(t *testing.T) {
	f := newFixture(t)
	first := f.store.addEmployee("Первый")
	second := f.store.addEmployee("Второй")
	dev := f.store.addDevice("NB-005", constants.DeviceStatusAvailable)

	var wg sync.WaitGroup
	results := make([]error, 2)
	for i, emp := range []uint64{first, second} {
		wg.Add(1)
		go func(i int, emp uint64) {
			defer wg.Done()
			_, results[i] = f.workflow.CreateRequest(asEmployee(emp), dto.CreateRequestDTO{DeviceID: dev, Purpose: "Гонка"})
		}(i, emp)
	}
	wg.Wait()

	var ok, rejected int
	for _, err := range results {
		switch {
		case err == nil:
			ok++
		case apperrors.IsValidation(err):
			rejected++
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, rejected)
}

func TestDecideRequestTransitions(t *testing.T) {
	f := newFixture(t)
	emp := f.store.addEmployee("Иванов И.И.")
	dev := f.store.addDevice("NB-006", constants.DeviceStatusAvailable)
	admin := asRole(constants.RoleAdmin)

	req, err := f.workflow.CreateRequest(asEmployee(emp), dto.CreateRequestDTO{DeviceID: dev, Purpose: "Работа"})
	require.NoError(t, err)

	_, err = f.workflow.DecideRequest(admin, req.ID, dto.DecideRequestDTO{Status: "completed"})
	assert.True(t, apperrors.IsValidation(err))

	_, err = f.workflow.DecideRequest(asEmployee(emp), req.ID, dto.DecideRequestDTO{Status: "approved"})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	_, err = f.workflow.DecideRequest(admin, req.ID, dto.DecideRequestDTO{Status: "approved"})
	require.NoError(t, err)

	// повторное одобрение недопустимо
	_, err = f.workflow.DecideRequest(admin, req.ID, dto.DecideRequestDTO{Status: "approved"})
	assert.True(t, apperrors.IsValidation(err))

	// отклонение выданной заявки освобождает устройство
	req, err = f.workflow.DecideRequest(admin, req.ID, dto.DecideRequestDTO{Status: "rejected"})
	require.NoError(t, err)
	assert.Equal(t, constants.RequestStatusRejected, req.Status)
	assert.Equal(t, constants.DeviceStatusAvailable, f.store.device(dev).Status)
	assert.Len(t, f.store.movementsOf(dev), 1)

	_, err = f.workflow.DecideRequest(admin, req.ID, dto.DecideRequestDTO{Status: "approved"})
	assert.True(t, apperrors.IsValidation(err))

	_, err = f.workflow.DecideRequest(admin, 9999, dto.DecideRequestDTO{Status: "approved"})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestRejectPendingLeavesDeviceUntouched(t *testing.T) {
	f := newFixture(t)
	emp := f.store.addEmployee("Иванов И.И.")
	dev := f.store.addDevice("NB-007", constants.DeviceStatusAvailable)

	req, err := f.workflow.CreateRequest(asEmployee(emp), dto.CreateRequestDTO{DeviceID: dev, Purpose: "Работа"})
	require.NoError(t, err)

	_, err = f.workflow.DecideRequest(asRole(constants.RoleAdmin), req.ID, dto.DecideRequestDTO{Status: "rejected"})
	require.NoError(t, err)
	assert.Equal(t, constants.DeviceStatusAvailable, f.store.device(dev).Status)
	assert.Equal(t, 0, f.store.movementsCount())
}

func TestReturnRequiresApprovedRequest(t *testing.T) {
	f := newFixture(t)
	emp := f.store.addEmployee("Иванов И.И.")
	dev := f.store.addDevice("NB-008", constants.DeviceStatusAvailable)

	req, err := f.workflow.CreateRequest(asEmployee(emp), dto.CreateRequestDTO{DeviceID: dev, Purpose: "Работа"})
	require.NoError(t, err)

	_, err = f.workflow.ReturnDevice(asRole(constants.RoleAdmin), req.ID)
	assert.True(t, apperrors.IsValidation(err))
	assert.Equal(t, constants.RequestStatusPending, f.store.request(req.ID).Status)
}

// issue выдаёт устройство сотруднику и возвращает id заявки.
func issue(t *testing.T, f *fixture, emp, dev uint64) uint64 {
	t.Helper()
	req, err := f.workflow.CreateRequest(asEmployee(emp), dto.CreateRequestDTO{DeviceID: dev, Purpose: "Работа"})
	require.NoError(t, err)
	_, err = f.workflow.DecideRequest(asRole(constants.RoleAdmin), req.ID, dto.DecideRequestDTO{Status: "approved"})
	require.NoError(t, err)
	return req.ID
}

func TestBreakdownAndRepairScenario(t *testing.T) {
	f := newFixture(t)
	emp := f.store.addEmployee("Иванов И.И.")
	dev := f.store.addDevice("NB-009", constants.DeviceStatusAvailable)
	reqID := issue(t, f, emp, dev)

	repair, err := f.workflow.ReportBreakdown(asEmployee(emp), dev, dto.ReportBreakdownDTO{Description: "Не включается"})
	require.NoError(t, err)
	assert.Equal(t, constants.RepairStatusRepairing, repair.Status)
	assert.Equal(t, constants.DeviceStatusBroken, f.store.device(dev).Status)

	// заявка остаётся выданной, пока оборудование не вернули
	assert.Equal(t, constants.RequestStatusApproved, f.store.request(reqID).Status)

	// возврат сломанного устройства оставляет его в ремонте
	_, err = f.workflow.ReturnDevice(asRole(constants.RoleAdmin), reqID)
	require.NoError(t, err)
	assert.Equal(t, constants.DeviceStatusBroken, f.store.device(dev).Status)

	done, err := f.workflow.CompleteRepair(asRole(constants.RoleTech), repair.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.RepairStatusCompleted, done.Status)
	assert.True(t, done.CompletedAt.Valid)
	assert.Equal(t, constants.DeviceStatusAvailable, f.store.device(dev).Status)

	_, err = f.workflow.CompleteRepair(asRole(constants.RoleTech), repair.ID)
	assert.True(t, apperrors.IsValidation(err))

	kinds := []constants.MovementType{}
	for _, m := range f.store.movementsOf(dev) {
		kinds = append(kinds, m.MovementType)
	}
	assert.Equal(t, []constants.MovementType{constants.MovementIssue, constants.MovementRepair, constants.MovementReturn}, kinds)
}

func TestBreakdownOfForeignDeviceIsForbidden(t *testing.T) {
	f := newFixture(t)
	holder := f.store.addEmployee("Держатель")
	stranger := f.store.addEmployee("Посторонний")
	dev := f.store.addDevice("NB-010", constants.DeviceStatusAvailable)

	_, err := f.workflow.ReportBreakdown(asEmployee(stranger), dev, dto.ReportBreakdownDTO{Description: "Сломан"})
	assert.ErrorIs(t, err, apperrors.ErrForbidden, "устройство никому не выдано")

	issue(t, f, holder, dev)

	_, err = f.workflow.ReportBreakdown(asEmployee(stranger), dev, dto.ReportBreakdownDTO{Description: "Сломан"})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	assert.Equal(t, constants.DeviceStatusInUse, f.store.device(dev).Status)
	assert.Len(t, f.store.movementsOf(dev), 1)
}

func TestBreakdownByEarlierHolderAfterReissue(t *testing.T) {
	f := newFixture(t)
	first := f.store.addEmployee("Первый")
	second := f.store.addEmployee("Второй")
	dev := f.store.addDevice("NB-015", constants.DeviceStatusAvailable)

	firstReq := issue(t, f, first, dev)
	repair, err := f.workflow.ReportBreakdown(asEmployee(first), dev, dto.ReportBreakdownDTO{Description: "Не заряжается"})
	require.NoError(t, err)
	_, err = f.workflow.CompleteRepair(asRole(constants.RoleTech), repair.ID)
	require.NoError(t, err)

	// после ремонта устройство выдано второму, заявка первого так и не закрыта
	issue(t, f, second, dev)
	require.Equal(t, constants.RequestStatusApproved, f.store.request(firstReq).Status)

	_, err = f.workflow.ReportBreakdown(asEmployee(first), dev, dto.ReportBreakdownDTO{Description: "Снова не заряжается"})
	require.NoError(t, err)
	assert.Equal(t, constants.DeviceStatusBroken, f.store.device(dev).Status)
}

func TestCompleteRepairDoesNotTouchOtherDevices(t *testing.T) {
	f := newFixture(t)
	emp := f.store.addEmployee("Иванов И.И.")
	first := f.store.addDevice("NB-011", constants.DeviceStatusAvailable)
	second := f.store.addDevice("NB-012", constants.DeviceStatusAvailable)
	issue(t, f, emp, first)
	issue(t, f, emp, second)

	r1, err := f.workflow.ReportBreakdown(asEmployee(emp), first, dto.ReportBreakdownDTO{Description: "Экран"})
	require.NoError(t, err)
	_, err = f.workflow.ReportBreakdown(asEmployee(emp), second, dto.ReportBreakdownDTO{Description: "Клавиатура"})
	require.NoError(t, err)

	_, err = f.workflow.CompleteRepair(asRole(constants.RoleTech), r1.ID)
	require.NoError(t, err)

	assert.Equal(t, constants.DeviceStatusAvailable, f.store.device(first).Status)
	assert.Equal(t, constants.DeviceStatusBroken, f.store.device(second).Status)
}

func TestCompleteRepairKeepsDeviceBrokenWhileAnotherRepairOpen(t *testing.T) {
	f := newFixture(t)
	emp := f.store.addEmployee("Иванов И.И.")
	dev := f.store.addDevice("NB-013", constants.DeviceStatusAvailable)
	reqID := issue(t, f, emp, dev)

	r1, err := f.workflow.ReportBreakdown(asEmployee(emp), dev, dto.ReportBreakdownDTO{Description: "Экран"})
	require.NoError(t, err)
	_, err = f.workflow.ReturnDevice(asRole(constants.RoleAdmin), reqID)
	require.NoError(t, err)

	// второй открытый ремонт на том же устройстве
	_, err = f.repairs.Create(context.Background(), nil, entities.Repair{DeviceID: dev, ReportedByID: emp, Description: "Батарея"})
	require.NoError(t, err)

	_, err = f.workflow.CompleteRepair(asRole(constants.RoleTech), r1.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.DeviceStatusBroken, f.store.device(dev).Status)
}

func TestExtensionLifecycle(t *testing.T) {
	f := newFixture(t)
	emp := f.store.addEmployee("Иванов И.И.")
	other := f.store.addEmployee("Петров П.П.")
	dev := f.store.addDevice("NB-014", constants.DeviceStatusAvailable)
	reqID := issue(t, f, emp, dev)

	_, err := f.workflow.RequestExtension(asEmployee(other), reqID, dto.CreateExtensionDTO{NewReturnDate: "2026-12-01", Reason: "Не моя"})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	ext, err := f.workflow.RequestExtension(asEmployee(emp), reqID, dto.CreateExtensionDTO{NewReturnDate: "2026-12-01", Reason: "Проект продлили"})
	require.NoError(t, err)
	assert.Equal(t, constants.RequestStatusPending, ext.Status)

	ext, err = f.workflow.ReviewExtension(asRole(constants.RoleAdmin), ext.ID, dto.ReviewExtensionDTO{Status: "approved"})
	require.NoError(t, err)
	assert.Equal(t, constants.RequestStatusApproved, ext.Status)
	assert.True(t, ext.DecidedBy.Valid)

	planned := f.store.request(reqID).PlannedReturnDate
	require.True(t, planned.Valid)
	assert.Equal(t, "2026-12-01", planned.Time.Format("2006-01-02"))

	_, err = f.workflow.ReviewExtension(asRole(constants.RoleAdmin), ext.ID, dto.ReviewExtensionDTO{Status: "rejected"})
	assert.True(t, apperrors.IsValidation(err))
}

func TestExtensionOfClosedRequestCannotBeApproved(t *testing.T) {
	f := newFixture(t)
	emp := f.store.addEmployee("Иванов И.И.")
	dev := f.store.addDevice("NB-015", constants.DeviceStatusAvailable)
	reqID := issue(t, f, emp, dev)

	ext, err := f.workflow.RequestExtension(asEmployee(emp), reqID, dto.CreateExtensionDTO{NewReturnDate: "2026-12-01", Reason: "Нужно ещё"})
	require.NoError(t, err)

	_, err = f.workflow.ReturnDevice(asRole(constants.RoleAdmin), reqID)
	require.NoError(t, err)

	_, err = f.workflow.ReviewExtension(asRole(constants.RoleAdmin), ext.ID, dto.ReviewExtensionDTO{Status: "approved"})
	assert.True(t, apperrors.IsValidation(err))

	// после отката транзакции продление всё ещё ждёт решения
	stored, err := f.extensions.FindByID(asRole(constants.RoleAdmin), nil, ext.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.RequestStatusPending, stored.Status)

	_, err = f.workflow.ReviewExtension(asRole(constants.RoleAdmin), ext.ID, dto.ReviewExtensionDTO{Status: "rejected"})
	require.NoError(t, err)
}

func TestDeleteApprovedRequestFreesDevice(t *testing.T) {
	f := newFixture(t)
	emp := f.store.addEmployee("Иванов И.И.")
	dev := f.store.addDevice("NB-016", constants.DeviceStatusAvailable)
	reqID := issue(t, f, emp, dev)

	require.NoError(t, f.workflow.DeleteRequest(asRole(constants.RoleAdmin), reqID))
	assert.Equal(t, constants.DeviceStatusAvailable, f.store.device(dev).Status)

	err := f.workflow.DeleteRequest(asRole(constants.RoleAdmin), reqID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestWriteOffRules(t *testing.T) {
	f := newFixture(t)
	emp := f.store.addEmployee("Иванов И.И.")
	admin := asAdminEmployee(emp)

	inUse := f.store.addDevice("NB-017", constants.DeviceStatusAvailable)
	issue(t, f, emp, inUse)
	_, err := f.workflow.WriteOffDevice(admin, inUse, dto.WriteOffDeviceDTO{Reason: "Старый"})
	assert.True(t, apperrors.IsValidation(err))

	reserved := f.store.addDevice("NB-018", constants.DeviceStatusAvailable)
	_, err = f.workflow.CreateRequest(asEmployee(emp), dto.CreateRequestDTO{DeviceID: reserved, Purpose: "Работа"})
	require.NoError(t, err)
	_, err = f.workflow.WriteOffDevice(admin, reserved, dto.WriteOffDeviceDTO{Reason: "Старый"})
	assert.True(t, apperrors.IsValidation(err))

	free := f.store.addDevice("NB-019", constants.DeviceStatusAvailable)
	device, err := f.workflow.WriteOffDevice(admin, free, dto.WriteOffDeviceDTO{Reason: "Истёк срок службы"})
	require.NoError(t, err)
	assert.True(t, device.IsWrittenOff)
	assert.Equal(t, "Истёк срок службы", device.WriteOffReason.String)

	moves := f.store.movementsOf(free)
	require.Len(t, moves, 1)
	assert.Equal(t, constants.MovementWriteOff, moves[0].MovementType)
	assert.Equal(t, emp, moves[0].EmployeeID)

	_, err = f.workflow.WriteOffDevice(admin, free, dto.WriteOffDeviceDTO{Reason: "Ещё раз"})
	assert.True(t, apperrors.IsValidation(err))

	_, err = f.workflow.CreateRequest(asEmployee(emp), dto.CreateRequestDTO{DeviceID: free, Purpose: "Работа"})
	assert.True(t, apperrors.IsValidation(err))
}

func TestWriteOffWithoutResponsiblePerson(t *testing.T) {
	f := newFixture(t)
	dev := f.store.addDevice("NB-020", constants.DeviceStatusAvailable)

	_, err := f.workflow.WriteOffDevice(asRole(constants.RoleAdmin), dev, dto.WriteOffDeviceDTO{Reason: "Старый"})
	assert.True(t, apperrors.IsValidation(err))
	assert.False(t, f.store.device(dev).IsWrittenOff, "транзакция откатилась")
}

func TestFailedOperationPublishesNothing(t *testing.T) {
	f := newFixture(t)
	emp := f.store.addEmployee("Иванов И.И.")
	dev := f.store.addDevice("NB-021", constants.DeviceStatusBroken)

	_, err := f.workflow.CreateRequest(asEmployee(emp), dto.CreateRequestDTO{DeviceID: dev, Purpose: "Работа"})
	require.Error(t, err)
	assert.False(t, errors.Is(err, apperrors.ErrNotFound))
	assert.Empty(t, f.publisher.names())
}
