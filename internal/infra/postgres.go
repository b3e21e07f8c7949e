package infra

import (
	"log"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"uplevel/internal/models/db_models"
)

func InitPostgresql() *gorm.DB {

	dsn := os.Getenv("POSTGRES_URL")

	connectionPool, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})

	if err != nil {
		log.Printf("Error connecting to database: %v", err)
		log.Fatal("Error connecting to database")
	}

	if os.Getenv("DB_AUTOMIGRATE") == "true" {
		if err := AutoMigrate(connectionPool); err != nil {
			log.Fatalf("Error migrating database schema: %v", err)
		}
	}

	return connectionPool
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&db_models.Distributor{},
		&db_models.MatrixPosition{},
		&db_models.Order{},
		&db_models.OrderItem{},
		&db_models.Commission{},
		&db_models.Payment{},
		&db_models.RankDefinition{},
		&db_models.Autoship{},
		&db_models.AuditEvent{},
	)
}

func ClosePostgresql(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Printf("Error getting database instance: %v", err)
		return
	}

	if err := sqlDB.Close(); err != nil {
		log.Printf("Error closing database connection: %v", err)
	} else {
		log.Println("PostgreSQL database connection closed successfully")
	}
}
