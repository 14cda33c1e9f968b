package services

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"testing"
	"time"

	"assetflow/internal/dto"
	"assetflow/internal/entities"
	"assetflow/internal/repositories"
	"assetflow/pkg/constants"
	apperrors "assetflow/pkg/errors"
	"assetflow/pkg/eventbus"
	"assetflow/pkg/types"
	"assetflow/pkg/utils"

	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// memStore - хранилище в памяти для тестов сервисов.
// Все обращения к данным идут под mu, транзакции сериализуются fakeTxManager.
type memStore struct {
	mu         sync.Mutex
	nextID     uint64
	devices    map[uint64]entities.Device
	types      map[uint64]entities.DeviceType
	employees  map[uint64]entities.Employee
	requests   map[uint64]entities.Request
	repairs    map[uint64]entities.Repair
	extensions map[uint64]entities.Extension
	movements  []entities.EquipmentMovement
	users      map[uint64]entities.User
	profiles   map[uint64]entities.UserProfile
	clock      time.Time
}

func newMemStore() *memStore {
	return &memStore{
		devices:    map[uint64]entities.Device{},
		types:      map[uint64]entities.DeviceType{},
		employees:  map[uint64]entities.Employee{},
		requests:   map[uint64]entities.Request{},
		repairs:    map[uint64]entities.Repair{},
		extensions: map[uint64]entities.Extension{},
		users:      map[uint64]entities.User{},
		profiles:   map[uint64]entities.UserProfile{},
		clock:      time.Date(2026, 10, 17, 9, 0, 0, 0, time.Local),
	}
}

func (s *memStore) id() uint64 {
	s.nextID++
	return s.nextID
}

// tick - монотонное время для записей журнала.
func (s *memStore) tick() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

func copyMap[K comparable, V any](src map[K]V) map[K]V {
	dst := make(map[K]V, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func (s *memStore) snapshot() *memStore {
	s.mu.Lock()
	defer s.mu.Unlock()
	return &memStore{
		nextID:     s.nextID,
		devices:    copyMap(s.devices),
		types:      copyMap(s.types),
		employees:  copyMap(s.employees),
		requests:   copyMap(s.requests),
		repairs:    copyMap(s.repairs),
		extensions: copyMap(s.extensions),
		movements:  append([]entities.EquipmentMovement(nil), s.movements...),
		users:      copyMap(s.users),
		profiles:   copyMap(s.profiles),
		clock:      s.clock,
	}
}

func (s *memStore) restore(snap *memStore) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID = snap.nextID
	s.devices = snap.devices
	s.types = snap.types
	s.employees = snap.employees
	s.requests = snap.requests
	s.repairs = snap.repairs
	s.extensions = snap.extensions
	s.movements = snap.movements
	s.users = snap.users
	s.profiles = snap.profiles
	s.clock = snap.clock
}

// ---------- seed helpers ----------

func (s *memStore) addDeviceType(name string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.id()
	s.types[id] = entities.DeviceType{ID: id, Name: name}
	return id
}

func (s *memStore) addEmployee(name string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.id()
	s.employees[id] = entities.Employee{ID: id, FullName: name, Position: "Инженер", Email: "e" + strconv.FormatUint(id, 10) + "@company.ru"}
	return id
}

func (s *memStore) addDevice(inventory string, status constants.DeviceStatus) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.id()
	s.devices[id] = entities.Device{ID: id, InventoryNumber: inventory, Model: "Model " + inventory, Status: status}
	return id
}

func (s *memStore) device(id uint64) entities.Device {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.devices[id]
}

func (s *memStore) request(id uint64) entities.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests[id]
}

func (s *memStore) movementsCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.movements)
}

func (s *memStore) movementsOf(deviceID uint64) []entities.EquipmentMovement {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []entities.EquipmentMovement
	for _, m := range s.movements {
		if m.DeviceID == deviceID {
			out = append(out, m)
		}
	}
	return out
}

// ---------- tx manager ----------

type fakeTxManager struct {
	store *memStore
	txMu  sync.Mutex
}

func (m *fakeTxManager) RunInTransaction(ctx context.Context, fn func(tx pgx.Tx) error) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()

	snap := m.store.snapshot()
	if err := fn(nil); err != nil {
		m.store.restore(snap)
		return err
	}
	return nil
}

// ---------- devices ----------

type fakeDeviceRepo struct{ s *memStore }

var _ repositories.DeviceRepositoryInterface = (*fakeDeviceRepo)(nil)

func (r *fakeDeviceRepo) GetAll(ctx context.Context, filter types.Filter) ([]entities.Device, uint64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]entities.Device, 0, len(r.s.devices))
	for _, d := range r.s.devices {
		if status, ok := filter.Filter["status"]; ok && string(d.Status) != status {
			continue
		}
		if writtenOff, ok := filter.Filter["is_written_off"]; ok && writtenOff != d.IsWrittenOff {
			continue
		}
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, uint64(len(out)), nil
}

func (r *fakeDeviceRepo) FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Device, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	d, ok := r.s.devices[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &d, nil
}

func (r *fakeDeviceRepo) FindForUpdate(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Device, error) {
	return r.FindByID(ctx, tx, id)
}

func (r *fakeDeviceRepo) Create(ctx context.Context, tx pgx.Tx, d entities.Device) (uint64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.devices {
		if existing.InventoryNumber == d.InventoryNumber {
			return 0, apperrors.NewValidationError("Оборудование с таким инвентарным номером уже существует")
		}
	}
	d.ID = r.s.id()
	if d.Status == "" {
		d.Status = constants.DeviceStatusAvailable
	}
	r.s.devices[d.ID] = d
	return d.ID, nil
}

func (r *fakeDeviceRepo) Update(ctx context.Context, d entities.Device) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	current, ok := r.s.devices[d.ID]
	if !ok {
		return apperrors.ErrNotFound
	}
	d.Status = current.Status
	d.IsWrittenOff = current.IsWrittenOff
	r.s.devices[d.ID] = d
	return nil
}

func (r *fakeDeviceRepo) UpdateStatus(ctx context.Context, tx pgx.Tx, id uint64, status constants.DeviceStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	d, ok := r.s.devices[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	d.Status = status
	r.s.devices[id] = d
	return nil
}

func (r *fakeDeviceRepo) WriteOff(ctx context.Context, tx pgx.Tx, id uint64, reason string, date time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	d, ok := r.s.devices[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	d.IsWrittenOff = true
	d.WriteOffReason = null.StringFrom(reason)
	d.WriteOffDate = null.TimeFrom(date)
	r.s.devices[id] = d
	return nil
}

func (r *fakeDeviceRepo) Delete(ctx context.Context, id uint64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.devices[id]; !ok {
		return apperrors.ErrNotFound
	}
	for _, req := range r.s.requests {
		if req.DeviceID == id {
			return apperrors.NewValidationError("Нельзя удалить оборудование, по которому есть заявки")
		}
	}
	delete(r.s.devices, id)
	return nil
}

func (r *fakeDeviceRepo) Stats(ctx context.Context) (dto.DeviceStatsDTO, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var stats dto.DeviceStatsDTO
	for _, d := range r.s.devices {
		if d.IsWrittenOff {
			continue
		}
		stats.Total++
		switch d.Status {
		case constants.DeviceStatusAvailable:
			stats.Available++
		case constants.DeviceStatusInUse:
			stats.InUse++
		case constants.DeviceStatusBroken:
			stats.Broken++
		}
	}
	return stats, nil
}

// ---------- device types ----------

type fakeDeviceTypeRepo struct{ s *memStore }

var _ repositories.DeviceTypeRepositoryInterface = (*fakeDeviceTypeRepo)(nil)

func (r *fakeDeviceTypeRepo) GetAll(ctx context.Context, filter types.Filter) ([]entities.DeviceType, uint64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]entities.DeviceType, 0, len(r.s.types))
	for _, t := range r.s.types {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, uint64(len(out)), nil
}

func (r *fakeDeviceTypeRepo) FindByID(ctx context.Context, id uint64) (*entities.DeviceType, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.types[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &t, nil
}

func (r *fakeDeviceTypeRepo) Create(ctx context.Context, dt entities.DeviceType) (uint64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, t := range r.s.types {
		if t.Name == dt.Name {
			return 0, apperrors.NewValidationError("Тип оборудования с таким названием уже существует")
		}
	}
	dt.ID = r.s.id()
	r.s.types[dt.ID] = dt
	return dt.ID, nil
}

func (r *fakeDeviceTypeRepo) Update(ctx context.Context, dt entities.DeviceType) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.types[dt.ID]; !ok {
		return apperrors.ErrNotFound
	}
	r.s.types[dt.ID] = dt
	return nil
}

func (r *fakeDeviceTypeRepo) Delete(ctx context.Context, id uint64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.types[id]; !ok {
		return apperrors.ErrNotFound
	}
	for _, d := range r.s.devices {
		if d.DeviceTypeID == id {
			return apperrors.NewValidationError("Тип оборудования используется и не может быть удалён")
		}
	}
	delete(r.s.types, id)
	return nil
}

// ---------- employees ----------

type fakeEmployeeRepo struct{ s *memStore }

var _ repositories.EmployeeRepositoryInterface = (*fakeEmployeeRepo)(nil)

func (r *fakeEmployeeRepo) GetAll(ctx context.Context, filter types.Filter) ([]entities.Employee, uint64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]entities.Employee, 0, len(r.s.employees))
	for _, e := range r.s.employees {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FullName < out[j].FullName })
	return out, uint64(len(out)), nil
}

func (r *fakeEmployeeRepo) FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Employee, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.employees[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &e, nil
}

func (r *fakeEmployeeRepo) FindByUserID(ctx context.Context, userID uint64) (*entities.Employee, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, e := range r.s.employees {
		if e.UserID.Valid && e.UserID.Uint64 == userID {
			return &e, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *fakeEmployeeRepo) Create(ctx context.Context, tx pgx.Tx, e entities.Employee) (uint64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.employees {
		if existing.Email == e.Email {
			return 0, apperrors.NewValidationError("Сотрудник с таким email уже существует")
		}
	}
	e.ID = r.s.id()
	r.s.employees[e.ID] = e
	return e.ID, nil
}

func (r *fakeEmployeeRepo) Update(ctx context.Context, e entities.Employee) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.employees[e.ID]; !ok {
		return apperrors.ErrNotFound
	}
	if e.UserID.Valid {
		for _, other := range r.s.employees {
			if other.ID != e.ID && other.UserID.Valid && other.UserID.Uint64 == e.UserID.Uint64 {
				return apperrors.NewValidationError("Этот логин уже привязан к другому сотруднику")
			}
		}
	}
	r.s.employees[e.ID] = e
	return nil
}

func (r *fakeEmployeeRepo) LinkUser(ctx context.Context, tx pgx.Tx, employeeID, userID uint64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.employees[employeeID]
	if !ok {
		return apperrors.ErrNotFound
	}
	if e.UserID.Valid && e.UserID.Uint64 != userID {
		return apperrors.NewValidationError("Сотрудник уже привязан к другому логину")
	}
	for _, other := range r.s.employees {
		if other.ID != employeeID && other.UserID.Valid && other.UserID.Uint64 == userID {
			return apperrors.NewValidationError("Этот логин уже привязан к другому сотруднику")
		}
	}
	e.UserID = null.Uint64From(userID)
	r.s.employees[employeeID] = e
	return nil
}

// ---------- requests ----------

type fakeRequestRepo struct{ s *memStore }

var _ repositories.RequestRepositoryInterface = (*fakeRequestRepo)(nil)

func (r *fakeRequestRepo) GetAll(ctx context.Context, filter types.Filter) ([]entities.Request, uint64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]entities.Request, 0, len(r.s.requests))
	for _, req := range r.s.requests {
		if status, ok := filter.Filter["status"]; ok && string(req.Status) != status {
			continue
		}
		if employee, ok := filter.Filter["employee_id"]; ok && strconv.FormatUint(req.EmployeeID, 10) != employee {
			continue
		}
		out = append(out, req)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, uint64(len(out)), nil
}

func (r *fakeRequestRepo) FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Request, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	req, ok := r.s.requests[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &req, nil
}

// Create повторяет частичный уникальный индекс: одна pending-заявка на устройство.
func (r *fakeRequestRepo) Create(ctx context.Context, tx pgx.Tx, req entities.Request) (uint64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if req.Status == constants.RequestStatusPending {
		for _, other := range r.s.requests {
			if other.DeviceID == req.DeviceID && other.Status == constants.RequestStatusPending {
				return 0, apperrors.NewValidationError("На это оборудование уже есть ожидающая заявка")
			}
		}
	}
	req.ID = r.s.id()
	req.CreatedAt = r.s.tick()
	req.UpdatedAt = req.CreatedAt
	r.s.requests[req.ID] = req
	return req.ID, nil
}

func (r *fakeRequestRepo) UpdateStatus(ctx context.Context, tx pgx.Tx, id uint64, status constants.RequestStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	req, ok := r.s.requests[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	req.Status = status
	r.s.requests[id] = req
	return nil
}

func (r *fakeRequestRepo) UpdatePlannedReturnDate(ctx context.Context, tx pgx.Tx, id uint64, date time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	req, ok := r.s.requests[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	req.PlannedReturnDate = null.TimeFrom(date)
	r.s.requests[id] = req
	return nil
}

func (r *fakeRequestRepo) Delete(ctx context.Context, tx pgx.Tx, id uint64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.requests[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(r.s.requests, id)
	for extID, ext := range r.s.extensions {
		if ext.RequestID == id {
			delete(r.s.extensions, extID)
		}
	}
	return nil
}

func (r *fakeRequestRepo) HasOtherPending(ctx context.Context, tx pgx.Tx, deviceID, excludeID uint64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, req := range r.s.requests {
		if req.DeviceID == deviceID && req.ID != excludeID && req.Status == constants.RequestStatusPending {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeRequestRepo) HoldsDevice(ctx context.Context, tx pgx.Tx, deviceID, employeeID uint64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, req := range r.s.requests {
		if req.DeviceID == deviceID && req.EmployeeID == employeeID && req.Status == constants.RequestStatusApproved {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeRequestRepo) HeldDeviceIDs(ctx context.Context, employeeID uint64) ([]uint64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var ids []uint64
	for _, req := range r.s.requests {
		if req.EmployeeID == employeeID && req.Status == constants.RequestStatusApproved {
			ids = append(ids, req.DeviceID)
		}
	}
	return ids, nil
}

func (r *fakeRequestRepo) UpdateTriage(ctx context.Context, id uint64, triage entities.RequestTriage) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	req, ok := r.s.requests[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	req.AIPriorityScore = null.Float64From(triage.PriorityScore)
	req.AITags = triage.Tags
	req.AISummary = triage.Summary
	req.AINeedsClarification = triage.NeedsClarification
	r.s.requests[id] = req
	return nil
}

// ---------- repairs ----------

type fakeRepairRepo struct{ s *memStore }

var _ repositories.RepairRepositoryInterface = (*fakeRepairRepo)(nil)

func (r *fakeRepairRepo) FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Repair, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rep, ok := r.s.repairs[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &rep, nil
}

func (r *fakeRepairRepo) Create(ctx context.Context, tx pgx.Tx, repair entities.Repair) (uint64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	repair.ID = r.s.id()
	repair.Status = constants.RepairStatusRepairing
	repair.CreatedAt = r.s.tick()
	r.s.repairs[repair.ID] = repair
	return repair.ID, nil
}

func (r *fakeRepairRepo) Complete(ctx context.Context, tx pgx.Tx, id uint64, techUserID uint64, completedAt time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rep, ok := r.s.repairs[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	rep.Status = constants.RepairStatusCompleted
	rep.AssignedTechID = null.Uint64From(techUserID)
	rep.CompletedAt = null.TimeFrom(completedAt)
	r.s.repairs[id] = rep
	return nil
}

func (r *fakeRepairRepo) HasOpenRepair(ctx context.Context, tx pgx.Tx, deviceID, excludeID uint64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, rep := range r.s.repairs {
		if rep.DeviceID == deviceID && rep.ID != excludeID && rep.Status == constants.RepairStatusRepairing {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeRepairRepo) FindOpenByDevices(ctx context.Context, deviceIDs []uint64) (map[uint64]entities.Repair, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	wanted := make(map[uint64]bool, len(deviceIDs))
	for _, id := range deviceIDs {
		wanted[id] = true
	}
	out := map[uint64]entities.Repair{}
	for _, rep := range r.s.repairs {
		if wanted[rep.DeviceID] && rep.Status == constants.RepairStatusRepairing {
			if existing, ok := out[rep.DeviceID]; !ok || rep.ID > existing.ID {
				out[rep.DeviceID] = rep
			}
		}
	}
	return out, nil
}

func (r *fakeRepairRepo) List(ctx context.Context, status *constants.RepairStatus) ([]entities.Repair, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]entities.Repair, 0)
	for _, rep := range r.s.repairs {
		if status != nil && rep.Status != *status {
			continue
		}
		out = append(out, rep)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *fakeRepairRepo) Counts(ctx context.Context) (uint64, uint64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var total, completed uint64
	for _, rep := range r.s.repairs {
		total++
		if rep.Status == constants.RepairStatusCompleted {
			completed++
		}
	}
	return total, completed, nil
}

// ---------- extensions ----------

type fakeExtensionRepo struct{ s *memStore }

var _ repositories.ExtensionRepositoryInterface = (*fakeExtensionRepo)(nil)

func (r *fakeExtensionRepo) FindByID(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Extension, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ext, ok := r.s.extensions[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &ext, nil
}

func (r *fakeExtensionRepo) Create(ctx context.Context, tx pgx.Tx, ext entities.Extension) (uint64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ext.ID = r.s.id()
	ext.Status = constants.RequestStatusPending
	ext.CreatedAt = r.s.tick()
	r.s.extensions[ext.ID] = ext
	return ext.ID, nil
}

func (r *fakeExtensionRepo) UpdateStatus(ctx context.Context, tx pgx.Tx, id uint64, status constants.RequestStatus, decidedBy uint64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ext, ok := r.s.extensions[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	ext.Status = status
	ext.DecidedBy = null.Uint64From(decidedBy)
	r.s.extensions[id] = ext
	return nil
}

func (r *fakeExtensionRepo) List(ctx context.Context, status *constants.RequestStatus) ([]entities.Extension, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]entities.Extension, 0)
	for _, ext := range r.s.extensions {
		if status != nil && ext.Status != *status {
			continue
		}
		out = append(out, ext)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

// ---------- movements ----------

type fakeMovementRepo struct{ s *memStore }

var _ repositories.MovementRepositoryInterface = (*fakeMovementRepo)(nil)

func (r *fakeMovementRepo) Append(ctx context.Context, tx pgx.Tx, m entities.EquipmentMovement) (uint64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m.ID = r.s.id()
	m.Timestamp = r.s.tick()
	r.s.movements = append(r.s.movements, m)
	return m.ID, nil
}

func (r *fakeMovementRepo) toDTO(m entities.EquipmentMovement) dto.MovementDTO {
	d := r.s.devices[m.DeviceID]
	return dto.MovementDTO{
		ID:              m.ID,
		DeviceID:        m.DeviceID,
		InventoryNumber: d.InventoryNumber,
		DeviceModel:     d.Model,
		EmployeeID:      m.EmployeeID,
		EmployeeName:    r.s.employees[m.EmployeeID].FullName,
		MovementType:    string(m.MovementType),
		MovementLabel:   constants.MovementTypeLabels[m.MovementType],
		Notes:           m.Notes,
		TxID:            m.TxID.String(),
		Timestamp:       utils.FormatDateTime(m.Timestamp),
	}
}

func (r *fakeMovementRepo) FindByID(ctx context.Context, id uint64) (*dto.MovementDTO, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, m := range r.s.movements {
		if m.ID == id {
			out := r.toDTO(m)
			return &out, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *fakeMovementRepo) List(ctx context.Context, deviceID *uint64, limit uint64) ([]dto.MovementDTO, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]dto.MovementDTO, 0)
	for i := len(r.s.movements) - 1; i >= 0; i-- {
		m := r.s.movements[i]
		if deviceID != nil && m.DeviceID != *deviceID {
			continue
		}
		out = append(out, r.toDTO(m))
		if limit > 0 && uint64(len(out)) == limit {
			break
		}
	}
	return out, nil
}

// ---------- users ----------

type fakeUserRepo struct{ s *memStore }

var _ repositories.UserRepositoryInterface = (*fakeUserRepo)(nil)

func (r *fakeUserRepo) FindByID(ctx context.Context, id uint64) (*entities.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &u, nil
}

func (r *fakeUserRepo) FindByUsername(ctx context.Context, username string) (*entities.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *fakeUserRepo) Create(ctx context.Context, tx pgx.Tx, user entities.User) (uint64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Username == user.Username {
			return 0, apperrors.NewValidationError("Пользователь с таким логином уже существует")
		}
	}
	user.ID = r.s.id()
	user.CreatedAt = r.s.tick()
	r.s.users[user.ID] = user
	return user.ID, nil
}

func (r *fakeUserRepo) List(ctx context.Context) ([]dto.UserDTO, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]dto.UserDTO, 0, len(r.s.users))
	for _, u := range r.s.users {
		role := constants.DefaultRole
		if p, ok := r.s.profiles[u.ID]; ok {
			role = p.Role
		}
		item := dto.UserDTO{ID: u.ID, Username: u.Username, Role: string(role), CreatedAt: utils.FormatDateTime(u.CreatedAt)}
		for _, e := range r.s.employees {
			if e.UserID.Valid && e.UserID.Uint64 == u.ID {
				id := e.ID
				item.EmployeeID = &id
			}
		}
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

type fakeProfileRepo struct{ s *memStore }

var _ repositories.ProfileRepositoryInterface = (*fakeProfileRepo)(nil)

func (r *fakeProfileRepo) FindByUserID(ctx context.Context, userID uint64) (*entities.UserProfile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.profiles[userID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &p, nil
}

func (r *fakeProfileRepo) CreateIfMissing(ctx context.Context, userID uint64, role constants.Role) (*entities.UserProfile, bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p, ok := r.s.profiles[userID]; ok {
		return &p, false, nil
	}
	p := entities.UserProfile{UserID: userID, Role: role}
	r.s.profiles[userID] = p
	return &p, true, nil
}

func (r *fakeProfileRepo) SetRole(ctx context.Context, tx pgx.Tx, userID uint64, role constants.Role) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.profiles[userID] = entities.UserProfile{UserID: userID, Role: role}
	return nil
}

// ---------- cache ----------

type fakeCache struct {
	mu   sync.Mutex
	data map[string]string
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: map[string]string{}}
}

func (c *fakeCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch v := value.(type) {
	case []byte:
		c.data[key] = string(v)
	case string:
		c.data[key] = v
	default:
		return apperrors.ErrBadRequest
	}
	return nil
}

func (c *fakeCache) Get(ctx context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	if !ok {
		return "", repositories.ErrCacheMiss
	}
	return v, nil
}

func (c *fakeCache) Del(ctx context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}

func (c *fakeCache) Incr(ctx context.Context, key string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	n, _ := strconv.ParseInt(c.data[key], 10, 64)
	n++
	c.data[key] = strconv.FormatInt(n, 10)
	return n, nil
}

func (c *fakeCache) Expire(ctx context.Context, key string, expiration time.Duration) (bool, error) {
	return true, nil
}

func (c *fakeCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.data[key]
	return ok
}

// ---------- events ----------

type recordingPublisher struct {
	mu     sync.Mutex
	events []eventbus.Event
}

func (p *recordingPublisher) Publish(ctx context.Context, event eventbus.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *recordingPublisher) names() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Name())
	}
	return out
}

// ---------- fixture ----------

type fixture struct {
	store      *memStore
	cache      *fakeCache
	publisher  *recordingPublisher
	base       *BaseService
	tx         *fakeTxManager
	devices    *fakeDeviceRepo
	types      *fakeDeviceTypeRepo
	employees  *fakeEmployeeRepo
	requests   *fakeRequestRepo
	repairs    *fakeRepairRepo
	extensions *fakeExtensionRepo
	movements  *fakeMovementRepo
	users      *fakeUserRepo
	profiles   *fakeProfileRepo
	workflow   *WorkflowService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := newMemStore()
	f := &fixture{
		store:      store,
		cache:      newFakeCache(),
		publisher:  &recordingPublisher{},
		tx:         &fakeTxManager{store: store},
		devices:    &fakeDeviceRepo{s: store},
		types:      &fakeDeviceTypeRepo{s: store},
		employees:  &fakeEmployeeRepo{s: store},
		requests:   &fakeRequestRepo{s: store},
		repairs:    &fakeRepairRepo{s: store},
		extensions: &fakeExtensionRepo{s: store},
		movements:  &fakeMovementRepo{s: store},
		users:      &fakeUserRepo{s: store},
		profiles:   &fakeProfileRepo{s: store},
	}
	f.base = NewBaseService(f.cache, zap.NewNop())
	f.workflow = NewWorkflowService(f.base, f.tx, f.devices, f.requests, f.repairs, f.extensions, f.movements, f.publisher, zap.NewNop())
	f.workflow.now = func() time.Time { return time.Date(2026, 10, 17, 12, 0, 0, 0, time.Local) }
	return f
}

func asEmployee(employeeID uint64) context.Context {
	id := employeeID
	return utils.WithIdentity(context.Background(), dto.Identity{UserID: 1000 + employeeID, Role: constants.RoleEmployee, EmployeeID: &id})
}

func asRole(role constants.Role) context.Context {
	return utils.WithIdentity(context.Background(), dto.Identity{UserID: 1, Role: role})
}

// asAdminEmployee - администратор, у которого есть карточка сотрудника.
func asAdminEmployee(employeeID uint64) context.Context {
	id := employeeID
	return utils.WithIdentity(context.Background(), dto.Identity{UserID: 1, Role: constants.RoleAdmin, EmployeeID: &id})
}
