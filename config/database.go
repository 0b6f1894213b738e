package config

import (
	"fmt"
	"log"
	"os"

	"github.com/ak00-rgb/popfeed-app/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// InitDB connects to Postgres and migrates the schema. DATABASE_URL
// wins when set; otherwise the DSN is assembled from the DB_* vars.
func InitDB() *gorm.DB {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			os.Getenv("DB_HOST"), os.Getenv("DB_USER"), os.Getenv("DB_PASSWORD"),
			os.Getenv("DB_NAME"), os.Getenv("DB_PORT"))
	}

	// TranslateError turns the driver's unique-violation into
	// gorm.ErrDuplicatedKey, which the like toggle relies on.
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	if err := MigrateModels(db); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	return db
}

// MigrateModels creates the schema, including the composite unique
// indexes on post_likes and comment_likes.
func MigrateModels(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Profile{},
		&models.RefreshToken{},
		&models.LoginCode{},
		&models.Feed{},
		&models.Post{},
		&models.Comment{},
		&models.PostLike{},
		&models.CommentLike{},
	)
}
