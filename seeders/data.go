package seeders

import "assetflow/pkg/constants"

type deviceTypeSeed struct {
	Name        string
	Description string
}

var deviceTypesData = []deviceTypeSeed{
	{Name: "Ноутбук", Description: "Мобильные компьютеры"},
	{Name: "Монитор", Description: "Дисплеи для рабочих станций"},
	{Name: "Мышь", Description: "Компьютерные мыши"},
	{Name: "Клавиатура", Description: "Проводные и беспроводные клавиатуры"},
	{Name: "Док-станция", Description: "Станции для подключения ноутбуков"},
}

type employeeSeed struct {
	FullName   string
	Position   string
	Department string
	Email      string
}

var employeesData = []employeeSeed{
	{FullName: "Иванов Иван Иванович", Position: "Разработчик Python", Department: "Backend", Email: "i.ivanov@company.ru"},
	{FullName: "Петрова Анна Сергеевна", Position: "Тестировщик", Department: "QA", Email: "a.petrova@company.ru"},
	{FullName: "Сидоров Сергей Михайлович", Position: "Data Engineer", Department: "Analytics", Email: "s.sidorov@company.ru"},
	{FullName: "Козлова Мария Дмитриевна", Position: "Frontend разработчик", Department: "Frontend", Email: "m.kozlova@company.ru"},
	{FullName: "Николаев Алексей Петрович", Position: "DevOps инженер", Department: "Infrastructure", Email: "a.nikolaev@company.ru"},
}

type deviceSeed struct {
	InventoryNumber string
	Model           string
	TypeName        string
	Status          constants.DeviceStatus
}

var devicesData = []deviceSeed{
	{InventoryNumber: "NB001", Model: "Dell Latitude 5520", TypeName: "Ноутбук", Status: constants.DeviceStatusAvailable},
	{InventoryNumber: "NB002", Model: "Lenovo ThinkPad T14", TypeName: "Ноутбук", Status: constants.DeviceStatusInUse},
	{InventoryNumber: "NB003", Model: "MacBook Pro 16", TypeName: "Ноутбук", Status: constants.DeviceStatusBroken},
	{InventoryNumber: "MON001", Model: "Samsung S24R350", TypeName: "Монитор", Status: constants.DeviceStatusAvailable},
	{InventoryNumber: "MON002", Model: "Dell U2720Q", TypeName: "Монитор", Status: constants.DeviceStatusInUse},
	{InventoryNumber: "MSE001", Model: "Logitech MX Master 3", TypeName: "Мышь", Status: constants.DeviceStatusAvailable},
	{InventoryNumber: "KBD001", Model: "Keychron K2", TypeName: "Клавиатура", Status: constants.DeviceStatusAvailable},
	{InventoryNumber: "DOC001", Model: "Dell WD19", TypeName: "Док-станция", Status: constants.DeviceStatusInUse},
}

type requestSeed struct {
	EmployeeEmail   string
	InventoryNumber string
	Status          constants.RequestStatus
	Purpose         string
}

var requestsData = []requestSeed{
	{EmployeeEmail: "i.ivanov@company.ru", InventoryNumber: "NB002", Status: constants.RequestStatusApproved, Purpose: "Для разработки нового API"},
	{EmployeeEmail: "a.petrova@company.ru", InventoryNumber: "MON002", Status: constants.RequestStatusApproved, Purpose: "Для тестирования интерфейса"},
	{EmployeeEmail: "s.sidorov@company.ru", InventoryNumber: "DOC001", Status: constants.RequestStatusApproved, Purpose: "Для работы с базами данных"},
	{EmployeeEmail: "m.kozlova@company.ru", InventoryNumber: "NB001", Status: constants.RequestStatusPending, Purpose: "Для разработки React компонентов"},
}

type repairSeed struct {
	InventoryNumber string
	ReporterEmail   string
	Description     string
}

var repairsData = []repairSeed{
	{InventoryNumber: "NB003", ReporterEmail: "i.ivanov@company.ru", Description: "Не включается, не реагирует на кнопку питания"},
}

type userSeed struct {
	Username      string
	Password      string
	Role          constants.Role
	EmployeeEmail string
}

// Пароль демо-пользователей одинаковый.
const demoPassword = "1111"

var usersData = []userSeed{
	{Username: "admin", Password: demoPassword, Role: constants.RoleAdmin},
	{Username: "tech", Password: demoPassword, Role: constants.RoleTech},
	{Username: "analyst", Password: demoPassword, Role: constants.RoleAnalyst},
	{Username: "ivanov", Password: demoPassword, Role: constants.RoleEmployee, EmployeeEmail: "i.ivanov@company.ru"},
	{Username: "petrova", Password: demoPassword, Role: constants.RoleEmployee, EmployeeEmail: "a.petrova@company.ru"},
	{Username: "sidorov", Password: demoPassword, Role: constants.RoleEmployee, EmployeeEmail: "s.sidorov@company.ru"},
	{Username: "kozlova", Password: demoPassword, Role: constants.RoleEmployee, EmployeeEmail: "m.kozlova@company.ru"},
	{Username: "nikolaev", Password: demoPassword, Role: constants.RoleEmployee, EmployeeEmail: "a.nikolaev@company.ru"},
}
