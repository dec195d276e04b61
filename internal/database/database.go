package database

import (
	"log"
	"mingle/backend/internal/models"
	"os"
	"time"

	zlog "github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Connect initializes the database connection and runs migrations.
func Connect(dsn string) {
	var err error

	// Configure GORM logger
	customLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags), // io writer
		logger.Config{
			SlowThreshold:             200 * time.Millisecond, // Slow SQL threshold
			LogLevel:                  logger.Warn,            // Log level
			IgnoreRecordNotFoundError: true,                   // Ignore ErrRecordNotFound error for logger
			Colorful:                  true,                   // Enable color
		},
	)

	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: customLogger,
	})
	if err != nil {
		zlog.Fatal().Err(err).Msg("Failed to connect to database")
	}

	zlog.Info().Msg("Database connection established")

	Migrate(DB)
}

// Migrate runs the schema migrations on the given connection. Split out of
// Connect so the test suite can run it against its own database.
func Migrate(db *gorm.DB) {
	err := db.AutoMigrate(
		&models.User{},
		&models.FriendRequest{},
		&models.Friendship{},
		&models.Block{},
		&models.Like{},
		&models.Activity{},
		&models.ActivityAttendee{},
		&models.ActivityRequest{},
		&models.Notification{},
	)
	if err != nil {
		zlog.Fatal().Err(err).Msg("Failed to migrate database")
	}

	zlog.Info().Msg("Database migrated successfully")
}
