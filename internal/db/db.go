package db

import (
	"log"
	"os"

	"bylines/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		// Fallback for local dev if not set
		dsn = "host=localhost user=postgres password=postgres dbname=bylines port=5432 sslmode=disable"
	}

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	log.Println("Database connection established")

	if err := Migrate(DB); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed")

	seedDefaultRole(DB)
}

// Migrate creates or updates the schema for every model this service owns.
func Migrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(
		&models.User{},
		&models.Guest{},
		&models.Role{},
		&models.RetiredID{},
		&models.Setting{},
		&models.Media{},
		&models.Post{},
		&models.PostMeta{},
	)
}

// seedDefaultRole makes sure role id 1 exists. That row is the fixed
// fallback role and must never be missing or deletable.
func seedDefaultRole(gdb *gorm.DB) {
	var count int64
	gdb.Model(&models.Role{}).Count(&count)
	if count > 0 {
		return
	}

	role := models.Role{
		ID:               models.DefaultRoleID,
		Name:             "Author",
		Nicename:         "author",
		Prefix:           "Written by",
		AvatarVisibility: true,
	}
	if err := gdb.Create(&role).Error; err != nil {
		log.Printf("Failed to create default role: %v", err)
		return
	}

	// Point the default-role setting at it so new posts can be seeded
	// before an admin picks another role.
	setting := models.Setting{Key: "default_role", Value: "1"}
	if err := gdb.Create(&setting).Error; err != nil {
		log.Printf("Failed to seed default role setting: %v", err)
	}
	log.Println("Default role created successfully")
}
