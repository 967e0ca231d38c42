package database

import (
	"fmt"
	"os"
	"strings"

	domainPermission "go-mailing-api/src/domain/permission"
	logger "go-mailing-api/src/infrastructure/logger"
	"go-mailing-api/src/infrastructure/repository/database/attempt"
	"go-mailing-api/src/infrastructure/repository/database/mailing"
	"go-mailing-api/src/infrastructure/repository/database/message"
	"go-mailing-api/src/infrastructure/repository/database/permission"
	"go-mailing-api/src/infrastructure/repository/database/recipient"
	"go-mailing-api/src/infrastructure/repository/database/user"
	"go-mailing-api/src/infrastructure/utils"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	Driver   string
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
	Path     string
}

// LoadDatabaseConfig reads the connection settings for DB_DRIVER.
// Every missing variable is reported in one error.
func LoadDatabaseConfig() (DatabaseConfig, error) {
	cfg := DatabaseConfig{
		Driver:   strings.ToLower(utils.GetEnv("DB_DRIVER", DriverMySQL)),
		Host:     os.Getenv("DB_HOST"),
		Port:     os.Getenv("DB_PORT"),
		User:     os.Getenv("DB_USER"),
		Password: os.Getenv("DB_PASSWORD"),
		DBName:   os.Getenv("DB_NAME"),
		SSLMode:  utils.GetEnv("DB_SSLMODE", "disable"),
		Path:     utils.GetEnv("DB_PATH", "mailing.db"),
	}

	switch cfg.Driver {
	case DriverSQLite:
		return cfg, nil
	case DriverMySQL, DriverPostgres:
	default:
		return DatabaseConfig{}, fmt.Errorf("unsupported DB_DRIVER %q", cfg.Driver)
	}

	var missingVars []string
	if cfg.Host == "" {
		missingVars = append(missingVars, "DB_HOST")
	}
	if cfg.Port == "" {
		missingVars = append(missingVars, "DB_PORT")
	}
	if cfg.User == "" {
		missingVars = append(missingVars, "DB_USER")
	}
	if cfg.Password == "" {
		missingVars = append(missingVars, "DB_PASSWORD")
	}
	if cfg.DBName == "" {
		missingVars = append(missingVars, "DB_NAME")
	}
	if len(missingVars) > 0 {
		return DatabaseConfig{}, fmt.Errorf("missing required database environment variables: %s", strings.Join(missingVars, ", "))
	}
	return cfg, nil
}

func (c DatabaseConfig) GetDSN() string {
	switch c.Driver {
	case DriverPostgres:
		return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
	case DriverSQLite:
		return c.Path
	default:
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			c.User, c.Password, c.Host, c.Port, c.DBName)
	}
}

func (c DatabaseConfig) Dialector() gorm.Dialector {
	switch c.Driver {
	case DriverPostgres:
		return postgres.Open(c.GetDSN())
	case DriverSQLite:
		return sqlite.Open(c.GetDSN())
	default:
		return mysql.Open(c.GetDSN())
	}
}

// Models lists every persisted entity in migration order
func Models() []interface{} {
	return []interface{}{
		&user.User{},
		&permission.RolePermission{},
		&recipient.Recipient{},
		&message.Message{},
		&mailing.Mailing{},
		&attempt.Attempt{},
	}
}

func MigrateEntitiesGORM(db *gorm.DB, loggerInstance *logger.Logger) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		loggerInstance.Error("Error migrating database entities", zap.Error(err))
		return err
	}
	loggerInstance.Info("Database entities migration completed successfully")
	return nil
}

// SeedInitialUser creates the START_USER_EMAIL admin when both seed variables are set
func SeedInitialUser(db *gorm.DB, loggerInstance *logger.Logger) error {
	email := os.Getenv("START_USER_EMAIL")
	pw := os.Getenv("START_USER_PW")
	if email == "" || pw == "" {
		loggerInstance.Info("Initial user seed skipped: START_USER_EMAIL or START_USER_PW not set")
		return nil
	}

	var existing int64
	if err := db.Model(&user.User{}).Where("email = ?", email).Count(&existing).Error; err != nil {
		loggerInstance.Error("Error checking initial user", zap.Error(err))
		return err
	}
	if existing > 0 {
		loggerInstance.Info("Initial user already exists, skipping seed", zap.String("email", email))
		return nil
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	if err != nil {
		loggerInstance.Error("Error hashing password for initial user", zap.Error(err))
		return err
	}

	newUser := user.User{
		Email:        email,
		FirstName:    "admin",
		HashPassword: string(hashedPassword),
		Role:         domainPermission.RoleAdmin,
		IsActive:     true,
		IsStaff:      true,
	}
	if err := db.Create(&newUser).Error; err != nil {
		loggerInstance.Error("Error creating initial user", zap.Error(err))
		return err
	}

	loggerInstance.Info("Initial user created successfully", zap.String("email", email))
	return nil
}

// Open connects with the given config using the zap-backed gorm logger
func Open(cfg DatabaseConfig, loggerInstance *logger.Logger) (*gorm.DB, error) {
	gormZap := logger.NewGormLogger(loggerInstance.Log).
		LogMode(gormlogger.Warn)

	db, err := gorm.Open(cfg.Dialector(), &gorm.Config{
		Logger:         gormZap,
		TranslateError: true,
	})
	if err != nil {
		loggerInstance.Error("Error connecting to the database", zap.Error(err), zap.String("driver", cfg.Driver))
		return nil, err
	}
	return db, nil
}

// InitDB connects, migrates and seeds the database described by the environment
func InitDB(loggerInstance *logger.Logger) (*gorm.DB, error) {
	cfg, err := LoadDatabaseConfig()
	if err != nil {
		loggerInstance.Error("Failed to load database configuration", zap.Error(err))
		return nil, fmt.Errorf("failed to load database configuration: %w", err)
	}

	db, err := Open(cfg, loggerInstance)
	if err != nil {
		return nil, err
	}
	if err := MigrateEntitiesGORM(db, loggerInstance); err != nil {
		return nil, err
	}
	if err := SeedInitialUser(db, loggerInstance); err != nil {
		loggerInstance.Error("Error seeding initial user", zap.Error(err))
		return nil, err
	}

	loggerInstance.Info("Database connection and migrations successful", zap.String("driver", cfg.Driver))
	return db, nil
}
