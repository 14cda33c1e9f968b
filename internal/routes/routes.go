package routes

import (
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"assetflow/internal/controllers"
	"assetflow/internal/integrations/triage"
	"assetflow/internal/listeners"
	"assetflow/internal/repositories"
	"assetflow/internal/services"
	"assetflow/pkg/config"
	"assetflow/pkg/eventbus"
	"assetflow/pkg/middleware"
	"assetflow/pkg/service"
	"assetflow/pkg/websocket"
)

type Loggers struct {
	Main     *zap.Logger
	Auth     *zap.Logger
	Workflow *zap.Logger
	Report   *zap.Logger
}

func InitRouter(
	e *echo.Echo,
	dbConn *pgxpool.Pool,
	redisClient *redis.Client,
	jwtSvc service.JWTService,
	hub *websocket.Hub,
	bus *eventbus.Bus,
	loggers *Loggers,
	cfg *config.Config,
) error {
	loggers.Main.Info("InitRouter: Начало создания маршрутов")

	// --- 0. ОБЩИЕ КОМПОНЕНТЫ ---
	api := e.Group("/api")
	authMW := middleware.NewAuthMiddleware(jwtSvc, loggers.Auth)
	txManager := repositories.NewTxManager(dbConn)
	cacheRepo := repositories.NewRedisCacheRepository(redisClient)

	// --- 1. РЕПОЗИТОРИИ ---
	userRepo := repositories.NewUserRepository(dbConn, loggers.Auth)
	profileRepo := repositories.NewProfileRepository(dbConn)
	employeeRepo := repositories.NewEmployeeRepository(dbConn)
	deviceTypeRepo := repositories.NewDeviceTypeRepository(dbConn, loggers.Main)
	deviceRepo := repositories.NewDeviceRepository(dbConn, loggers.Main)
	requestRepo := repositories.NewRequestRepository(dbConn, loggers.Workflow)
	repairRepo := repositories.NewRepairRepository(dbConn)
	extensionRepo := repositories.NewExtensionRepository(dbConn)
	movementRepo := repositories.NewMovementRepository(dbConn)

	// --- 2. СЕРВИСЫ ---
	base := services.NewBaseService(cacheRepo, loggers.Main)
	profileService := services.NewProfileService(profileRepo, employeeRepo, loggers.Auth)
	authService := services.NewAuthService(userRepo, cacheRepo, profileService, jwtSvc, loggers.Auth, &cfg.Auth)
	userService := services.NewUserService(base, txManager, userRepo, profileRepo, employeeRepo, loggers.Auth)
	deviceTypeService := services.NewDeviceTypeService(base, deviceTypeRepo, loggers.Main)
	deviceService := services.NewDeviceService(base, deviceRepo, requestRepo, loggers.Main)
	deviceImportService := services.NewDeviceImportService(base, deviceRepo, deviceTypeRepo, loggers.Main)
	employeeService := services.NewEmployeeService(base, employeeRepo, loggers.Main)
	requestService := services.NewRequestQueryService(base, requestRepo, repairRepo, extensionRepo, loggers.Workflow)
	reportService := services.NewReportService(base, movementRepo, deviceRepo, repairRepo, loggers.Report)
	workflowService := services.NewWorkflowService(
		base, txManager, deviceRepo, requestRepo, repairRepo, extensionRepo, movementRepo, bus, loggers.Workflow,
	)

	// --- 3. СЛУШАТЕЛИ СОБЫТИЙ ---
	listeners.NewNotificationListener(movementRepo, hub, loggers.Main).Register(bus)
	listeners.NewStatsListener(deviceService, loggers.Main).Register(bus)
	if cfg.Triage.Enabled {
		client := triage.NewHTTPClient(cfg.Triage.BaseURL, cfg.Triage.APIKey, cfg.Triage.Model, cfg.Triage.Timeout)
		analyzer := triage.NewAnalyzer(client, loggers.Workflow)
		listeners.NewTriageListener(requestRepo, analyzer, loggers.Workflow).Register(bus)
	} else {
		loggers.Main.Warn("Анализ заявок отключен: TRIAGE_API_KEY не задан")
	}

	// --- 4. КОНТРОЛЛЕРЫ ---
	authCtrl := controllers.NewAuthController(authService, loggers.Auth)
	userCtrl := controllers.NewUserController(userService, loggers.Auth)
	deviceTypeCtrl := controllers.NewDeviceTypeController(deviceTypeService, loggers.Main)
	deviceCtrl := controllers.NewDeviceController(deviceService, workflowService, reportService, deviceImportService, loggers.Main)
	employeeCtrl := controllers.NewEmployeeController(employeeService, requestService, loggers.Main)
	requestCtrl := controllers.NewRequestController(workflowService, requestService, loggers.Workflow)
	repairCtrl := controllers.NewRepairController(workflowService, requestService, loggers.Workflow)
	extensionCtrl := controllers.NewExtensionController(workflowService, requestService, loggers.Workflow)
	reportCtrl := controllers.NewReportController(reportService, loggers.Report)
	wsCtrl := controllers.NewWebSocketController(hub, cfg.Server.AllowedOrigins, loggers.Main)

	// --- 5. РОУТЕРЫ ---
	if err := runAuthRouter(api, authCtrl, authMW, cfg.Auth.LoginRateLimit); err != nil {
		return err
	}
	runWebSocketRouter(api, wsCtrl, authMW)

	secureGroup := api.Group("", authMW.Auth)
	runUserRouter(secureGroup, userCtrl, authMW)
	runDeviceTypeRouter(secureGroup, deviceTypeCtrl, authMW)
	runDeviceRouter(secureGroup, deviceCtrl, authMW)
	runEmployeeRouter(secureGroup, employeeCtrl, authMW)
	runRequestRouter(secureGroup, requestCtrl, authMW)
	runRepairRouter(secureGroup, repairCtrl, authMW)
	runExtensionRouter(secureGroup, extensionCtrl, authMW)
	runReportRouter(secureGroup, reportCtrl, authMW)

	loggers.Main.Info("INIT_ROUTER: Создание маршрутов завершено")
	return nil
}
