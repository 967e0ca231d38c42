package di

import (
	"fmt"
	"time"

	attemptUseCase "go-mailing-api/src/application/usecases/attempt"
	authUseCase "go-mailing-api/src/application/usecases/auth"
	mailingUseCase "go-mailing-api/src/application/usecases/mailing"
	messageUseCase "go-mailing-api/src/application/usecases/message"
	permissionUseCase "go-mailing-api/src/application/usecases/permission"
	recipientUseCase "go-mailing-api/src/application/usecases/recipient"
	userUseCase "go-mailing-api/src/application/usecases/user"
	"go-mailing-api/src/domain/common"
	domainPermission "go-mailing-api/src/domain/permission"
	"go-mailing-api/src/infrastructure/helper"
	logger "go-mailing-api/src/infrastructure/logger"
	"go-mailing-api/src/infrastructure/mailer"
	"go-mailing-api/src/infrastructure/repository/database"
	attemptRepo "go-mailing-api/src/infrastructure/repository/database/attempt"
	mailingRepo "go-mailing-api/src/infrastructure/repository/database/mailing"
	messageRepo "go-mailing-api/src/infrastructure/repository/database/message"
	permissionRepo "go-mailing-api/src/infrastructure/repository/database/permission"
	recipientRepo "go-mailing-api/src/infrastructure/repository/database/recipient"
	"go-mailing-api/src/infrastructure/repository/database/user"
	attemptController "go-mailing-api/src/infrastructure/rest/controllers/attempt"
	authController "go-mailing-api/src/infrastructure/rest/controllers/auth"
	mailingController "go-mailing-api/src/infrastructure/rest/controllers/mailing"
	messageController "go-mailing-api/src/infrastructure/rest/controllers/message"
	recipientController "go-mailing-api/src/infrastructure/rest/controllers/recipient"
	userController "go-mailing-api/src/infrastructure/rest/controllers/user"
	"go-mailing-api/src/infrastructure/rest/middlewares"
	"go-mailing-api/src/infrastructure/security"
	"go-mailing-api/src/infrastructure/storage"
	"go-mailing-api/src/infrastructure/utils"

	"github.com/jellydator/ttlcache/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Config holds the settings of the application context that do not belong to a single package
type Config struct {
	MediaRoot          string
	CacheTTL           time.Duration
	PermissionCacheTTL time.Duration
	MaxAvatarSize      int64
	ResetTokenTTL      time.Duration
	MailFrom           string
}

// LoadConfig reads MEDIA_ROOT, CACHE_TTL, PERMISSION_CACHE_TTL, MAX_AVATAR_BYTES and RESET_TOKEN_TTL
func LoadConfig() Config {
	return Config{
		MediaRoot:          utils.GetEnv("MEDIA_ROOT", "./media"),
		CacheTTL:           utils.GetEnvAsDuration("CACHE_TTL", 5*time.Minute),
		PermissionCacheTTL: utils.GetEnvAsDuration("PERMISSION_CACHE_TTL", time.Minute),
		MaxAvatarSize:      int64(utils.GetEnvAsInt("MAX_AVATAR_BYTES", storage.DefaultMaxAvatarSize)),
		ResetTokenTTL:      utils.GetEnvAsDuration("RESET_TOKEN_TTL", userUseCase.DefaultResetTokenTTL),
	}
}

// newTTLCache returns a cache whose entries expire ttl after they are stored, or nil
// when ttl disables caching
func newTTLCache[V any](ttl time.Duration) *ttlcache.Cache[string, V] {
	if ttl <= 0 {
		return nil
	}
	return ttlcache.New[string, V](
		ttlcache.WithTTL[string, V](ttl),
		ttlcache.WithDisableTouchOnHit[string, V](),
	)
}

// ApplicationContext holds all application dependencies and services
type ApplicationContext struct {
	DB                  *gorm.DB
	Logger              *logger.Logger
	Config              Config
	MediaRoot           string
	AuthController      authController.IAuthController
	UserController      userController.IUserController
	RecipientController recipientController.IRecipientController
	MessageController   messageController.IMessageController
	MailingController   mailingController.IMailingController
	AttemptController   attemptController.IAttemptController
	JWTService          security.IJWTService
	CommonService       common.CommonService
	Transport           mailer.Transport
	ResponseCache       *ttlcache.Cache[string, middlewares.CachedResponse]
	RoleCache           *ttlcache.Cache[string, domainPermission.Set]
	UserRepository      user.UserRepositoryInterface
	AuthUseCase         authUseCase.IAuthUseCase
	UserUseCase         userUseCase.IUserUseCase
	PermissionUseCase   permissionUseCase.IPermissionUseCase
	RecipientUseCase    recipientUseCase.IRecipientUseCase
	MessageUseCase      messageUseCase.IMessageUseCase
	MailingUseCase      mailingUseCase.IMailingUseCase
	AttemptUseCase      attemptUseCase.IAttemptUseCase
}

// SetupDependencies opens the database, builds the mail transport from the environment
// and wires everything else on top of them
func SetupDependencies(loggerInstance *logger.Logger) (*ApplicationContext, error) {
	db, err := database.InitDB(loggerInstance)
	if err != nil {
		return nil, err
	}

	mailConfig, err := mailer.LoadConfig()
	if err != nil {
		loggerInstance.Error("Error loading mail configuration", zap.Error(err))
		return nil, fmt.Errorf("failed to load mail configuration: %w", err)
	}
	transport, err := mailer.NewTransport(mailConfig, loggerInstance)
	if err != nil {
		return nil, err
	}
	loggerInstance.Info("Mail transport ready", zap.String("backend", mailConfig.Backend), zap.String("host", mailConfig.Host))

	config := LoadConfig()
	config.MailFrom = mailConfig.From
	return NewApplicationContext(db, transport, security.NewJWTService(), config, loggerInstance), nil
}

// NewApplicationContext wires repositories, use cases and controllers on an open database
func NewApplicationContext(
	db *gorm.DB,
	transport mailer.Transport,
	jwtService security.IJWTService,
	config Config,
	loggerInstance *logger.Logger,
) *ApplicationContext {
	validator := helper.NewValidator(loggerInstance)
	commonService := common.NewCommonService(validator)

	// Repositories
	userRepository := user.NewUserRepository(db, loggerInstance)
	permissionRepository := permissionRepo.NewPermissionRepository(db, loggerInstance)
	recipientRepository := recipientRepo.NewRecipientRepository(db, loggerInstance)
	messageRepository := messageRepo.NewMessageRepository(db, loggerInstance)
	mailingRepository := mailingRepo.NewMailingRepository(db, loggerInstance)
	attemptRepository := attemptRepo.NewAttemptRepository(db, loggerInstance)

	roleCache := newTTLCache[domainPermission.Set](config.PermissionCacheTTL)
	responseCache := newTTLCache[middlewares.CachedResponse](config.CacheTTL)
	avatars := storage.NewAvatarStorage(config.MediaRoot, config.MaxAvatarSize, loggerInstance)

	// Use cases
	authUC := authUseCase.NewAuthUseCase(userRepository, jwtService, loggerInstance)
	userUC := userUseCase.NewUserUseCase(userRepository, transport, config.MailFrom, avatars, config.ResetTokenTTL, loggerInstance)
	permissionUC := permissionUseCase.NewPermissionUseCase(permissionRepository, userRepository, roleCache, loggerInstance)
	recipientUC := recipientUseCase.NewRecipientUseCase(recipientRepository, loggerInstance)
	messageUC := messageUseCase.NewMessageUseCase(messageRepository, loggerInstance)
	orchestrator := mailingUseCase.NewOrchestrator(mailingRepository, attemptRepository, transport, config.MailFrom, loggerInstance)
	mailingUC := mailingUseCase.NewMailingUseCase(mailingRepository, messageRepository, recipientRepository, orchestrator, loggerInstance)
	attemptUC := attemptUseCase.NewAttemptUseCase(attemptRepository, loggerInstance)

	return &ApplicationContext{
		DB:                  db,
		Logger:              loggerInstance,
		Config:              config,
		MediaRoot:           config.MediaRoot,
		AuthController:      authController.NewAuthController(authUC, loggerInstance),
		UserController:      userController.NewUserController(userUC, commonService, loggerInstance),
		RecipientController: recipientController.NewRecipientController(recipientUC, commonService, loggerInstance),
		MessageController:   messageController.NewMessageController(messageUC, commonService, loggerInstance),
		MailingController:   mailingController.NewMailingController(mailingUC, commonService, loggerInstance),
		AttemptController:   attemptController.NewAttemptController(attemptUC, loggerInstance),
		JWTService:          jwtService,
		CommonService:       commonService,
		Transport:           transport,
		ResponseCache:       responseCache,
		RoleCache:           roleCache,
		UserRepository:      userRepository,
		AuthUseCase:         authUC,
		UserUseCase:         userUC,
		PermissionUseCase:   permissionUC,
		RecipientUseCase:    recipientUC,
		MessageUseCase:      messageUC,
		MailingUseCase:      mailingUC,
		AttemptUseCase:      attemptUC,
	}
}

// NewTestApplicationContext creates an application context for testing with mocked dependencies
func NewTestApplicationContext(
	mockUserRepo user.UserRepositoryInterface,
	mockJWTService security.IJWTService,
	loggerInstance *logger.Logger,
) *ApplicationContext {
	authUC := authUseCase.NewAuthUseCase(mockUserRepo, mockJWTService, loggerInstance)
	commonService := common.NewCommonService(helper.NewValidator(loggerInstance))
	userUC := userUseCase.NewUserUseCase(mockUserRepo, mailer.NewConsoleTransport(loggerInstance), "noreply@localhost", nil, userUseCase.DefaultResetTokenTTL, loggerInstance)

	return &ApplicationContext{
		Logger:         loggerInstance,
		AuthController: authController.NewAuthController(authUC, loggerInstance),
		UserController: userController.NewUserController(userUC, commonService, loggerInstance),
		JWTService:     mockJWTService,
		CommonService:  commonService,
		UserRepository: mockUserRepo,
		AuthUseCase:    authUC,
		UserUseCase:    userUC,
	}
}
