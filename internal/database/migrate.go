package database

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/serenispa/serenity-api/internal/models"
)

// Migrate creates or updates the schema for all persisted models
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.Client{},
		&models.Appointment{},
		&models.SOAPNote{},
		&models.Invoice{},
		&models.InvoiceLineItem{},
		&models.Payment{},
		&models.ReceiptSequence{},
		&models.Transaction{},
		&models.Notification{},
		&models.AuditLog{},
	)
	if err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	return nil
}
