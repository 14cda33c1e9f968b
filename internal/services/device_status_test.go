package services

import (
	"testing"

	"assetflow/internal/entities"
	"assetflow/pkg/constants"
	apperrors "assetflow/pkg/errors"

	"github.com/stretchr/testify/assert"
)

func statusPtr(s constants.RequestStatus) *constants.RequestStatus { return &s }

func TestDeviceStatusOnRequestChange(t *testing.T) {
	cases := []struct {
		name       string
		prev       *constants.RequestStatus
		next       constants.RequestStatus
		openRepair bool
		want       constants.DeviceStatus
		changed    bool
	}{
		{"новая ожидающая", nil, constants.RequestStatusPending, false, "", false},
		{"новая отклонённая", nil, constants.RequestStatusRejected, false, "", false},
		{"ожидающая отклонена", statusPtr(constants.RequestStatusPending), constants.RequestStatusRejected, true, "", false},
		{"одобрение", statusPtr(constants.RequestStatusPending), constants.RequestStatusApproved, false, constants.DeviceStatusInUse, true},
		{"повторное одобрение", statusPtr(constants.RequestStatusApproved), constants.RequestStatusApproved, false, "", false},
		{"возврат без ремонта", statusPtr(constants.RequestStatusApproved), constants.RequestStatusCompleted, false, constants.DeviceStatusAvailable, true},
		{"возврат при открытом ремонте", statusPtr(constants.RequestStatusApproved), constants.RequestStatusCompleted, true, constants.DeviceStatusBroken, true},
		{"отклонение одобренной", statusPtr(constants.RequestStatusApproved), constants.RequestStatusRejected, false, constants.DeviceStatusAvailable, true},
		{"отклонение одобренной при ремонте", statusPtr(constants.RequestStatusApproved), constants.RequestStatusRejected, true, constants.DeviceStatusBroken, true},
		{"одобренная вернулась в ожидание", statusPtr(constants.RequestStatusApproved), constants.RequestStatusPending, false, constants.DeviceStatusAvailable, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, changed := DeviceStatusOnRequestChange(tc.prev, tc.next, tc.openRepair)
			assert.Equal(t, tc.changed, changed)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestDeviceStatusOnRequestDelete(t *testing.T) {
	status, changed := DeviceStatusOnRequestDelete(constants.RequestStatusApproved, false)
	assert.True(t, changed)
	assert.Equal(t, constants.DeviceStatusAvailable, status)

	status, changed = DeviceStatusOnRequestDelete(constants.RequestStatusApproved, true)
	assert.True(t, changed)
	assert.Equal(t, constants.DeviceStatusBroken, status)

	_, changed = DeviceStatusOnRequestDelete(constants.RequestStatusPending, false)
	assert.False(t, changed)
}

func TestValidateRequestPlacement(t *testing.T) {
	available := &entities.Device{InventoryNumber: "NB001", Status: constants.DeviceStatusAvailable}
	inUse := &entities.Device{InventoryNumber: "NB002", Status: constants.DeviceStatusInUse}
	writtenOff := &entities.Device{InventoryNumber: "NB009", Status: constants.DeviceStatusAvailable, IsWrittenOff: true}

	assert.NoError(t, ValidateRequestPlacement(available, constants.RequestStatusPending, false))
	assert.True(t, apperrors.IsValidation(ValidateRequestPlacement(inUse, constants.RequestStatusPending, false)))
	assert.True(t, apperrors.IsValidation(ValidateRequestPlacement(available, constants.RequestStatusPending, true)))
	assert.True(t, apperrors.IsValidation(ValidateRequestPlacement(writtenOff, constants.RequestStatusPending, false)))

	// не ожидающая заявка устройство не резервирует
	assert.NoError(t, ValidateRequestPlacement(inUse, constants.RequestStatusApproved, true))
}
