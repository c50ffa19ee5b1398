package db

import (
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/petcarelabs/vetclinic-api/internal/config"
	"github.com/petcarelabs/vetclinic-api/internal/models"
)

func NewDB(cfg *config.Config) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt:    true,
		TranslateError: true,
	})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("failed to get sql.DB: %v", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := db.AutoMigrate(
		&models.User{},
		&models.Pet{},
		&models.AppointmentType{},
		&models.Appointment{},
		&models.MedicalRecord{},
		&models.Invoice{},
		&models.InvoiceLine{},
		&models.Supply{},
		&models.Treatment{},
		&models.AuditLog{},
	); err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}

	// One non-cancelled appointment per veterinarian per instant. This
	// index is the real double-booking guarantee; the pre-check and the
	// Redis lock only make conflicts cheaper to report.
	db.Exec(`
        CREATE UNIQUE INDEX IF NOT EXISTS uq_appointments_vet_slot
        ON appointments (veterinarian_id, scheduled_at)
        WHERE status NOT IN ('CanceladaCliente', 'CanceladaStaff')
    `)

	return db
}
