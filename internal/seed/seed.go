package seed

import (
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/petcarelabs/vetclinic-api/internal/config"
	"github.com/petcarelabs/vetclinic-api/internal/models"
)

// Run inserts the baseline data a fresh install needs: one admin
// account and the default appointment types. It is best effort; a
// failed seed logs and the server still starts.
func Run(db *gorm.DB, cfg *config.Config, logger *zap.Logger) {
	seedAdmin(db, cfg, logger)
	seedAppointmentTypes(db, logger)
}

func seedAdmin(db *gorm.DB, cfg *config.Config, logger *zap.Logger) {
	var count int64
	if err := db.Model(&models.User{}).Where("role = ?", "admin").Count(&count).Error; err != nil {
		logger.Warn("admin seed check failed", zap.Error(err))
		return
	}
	if count > 0 {
		return
	}

	password := cfg.AdminPassword
	if password == "" {
		logger.Warn("no admin account exists and ADMIN_PASSWORD is unset, skipping admin seed")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		logger.Warn("admin seed failed", zap.Error(err))
		return
	}

	admin := models.User{
		Name:         "Administrador",
		Email:        cfg.AdminEmail,
		PasswordHash: string(hashed),
		Role:         "admin",
	}

	if err := db.Create(&admin).Error; err != nil {
		logger.Warn("admin seed failed", zap.Error(err))
		return
	}

	logger.Info("seeded default admin account", zap.String("email", admin.Email))
}

func seedAppointmentTypes(db *gorm.DB, logger *zap.Logger) {
	var count int64
	if err := db.Model(&models.AppointmentType{}).Count(&count).Error; err != nil {
		logger.Warn("appointment type seed check failed", zap.Error(err))
		return
	}
	if count > 0 {
		return
	}

	types := []models.AppointmentType{
		{Name: "Consulta general", DurationMin: 30},
		{Name: "Vacunación", DurationMin: 15},
		{Name: "Cirugía menor", DurationMin: 120},
		{Name: "Control postoperatorio", DurationMin: 30},
		{Name: "Limpieza dental", DurationMin: 60},
	}

	if err := db.Create(&types).Error; err != nil {
		logger.Warn("appointment type seed failed", zap.Error(err))
		return
	}

	logger.Info("seeded default appointment types", zap.Int("count", len(types)))
}
