// Package seed populates a development database with demo data:
// a small staff roster, a handful of clients, recent appointments,
// and enough billing history to exercise the reports.
package seed

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/serenispa/serenity-api/internal/models"
	"github.com/serenispa/serenity-api/internal/services"
)

// Run seeds demo data. It is a no-op when users already exist, so it is
// safe to call on every boot of a development environment.
func Run(ctx context.Context, db *gorm.DB) error {
	var count int64
	if err := db.WithContext(ctx).Model(&models.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users, err := seedUsers(tx)
		if err != nil {
			return err
		}
		clients, err := seedClients(tx)
		if err != nil {
			return err
		}
		appointments, err := seedAppointments(tx, users, clients)
		if err != nil {
			return err
		}
		if err := seedBilling(tx, users, clients, appointments); err != nil {
			return err
		}
		return seedExpenses(tx)
	})
}

func seedUsers(tx *gorm.DB) ([]models.User, error) {
	password, err := services.HashPassword("password123")
	if err != nil {
		return nil, err
	}

	maya := "Deep Tissue"
	liam := "Prenatal"
	mayaLic := "MT-20314"
	liamLic := "MT-20987"

	users := []models.User{
		{Email: "admin@serenityspa.app", FullName: "Dana Whitfield", Role: models.RoleAdmin, Phone: "555-0100"},
		{Email: "frontdesk@serenityspa.app", FullName: "Ruth Calderon", Role: models.RoleReceptionist, Phone: "555-0101"},
		{Email: "maya@serenityspa.app", FullName: "Maya Torres", Role: models.RoleTherapist, Phone: "555-0102", Specialty: &maya, LicenseNumber: &mayaLic},
		{Email: "liam@serenityspa.app", FullName: "Liam Okafor", Role: models.RoleTherapist, Phone: "555-0103", Specialty: &liam, LicenseNumber: &liamLic},
	}
	for i := range users {
		users[i].EncryptedPassword = password
		users[i].Status = models.StatusActive
		if err := tx.Create(&users[i]).Error; err != nil {
			return nil, fmt.Errorf("seed user %s: %w", users[i].Email, err)
		}
	}
	return users, nil
}

func seedClients(tx *gorm.DB) ([]models.Client, error) {
	notes := "Chronic lower back tension; avoid direct pressure on L4-L5"
	allergy := "Lavender oil"
	pressure := "firm"
	referral := "google"

	clients := []models.Client{
		{FullName: "Ana Park", Email: "ana.park@example.com", Phone: "555-0201", MedicalNotes: &notes, PreferredPressure: &pressure},
		{FullName: "Jon Reyes", Email: "jon.reyes@example.com", Phone: "555-0202", Allergies: &allergy},
		{FullName: "Priya Nair", Email: "priya.nair@example.com", Phone: "555-0203", ReferralSource: &referral},
	}
	for i := range clients {
		if err := tx.Create(&clients[i]).Error; err != nil {
			return nil, fmt.Errorf("seed client %s: %w", clients[i].Email, err)
		}
	}
	return clients, nil
}

func seedAppointments(tx *gorm.DB, users []models.User, clients []models.Client) ([]models.Appointment, error) {
	maya := users[2]
	liam := users[3]
	now := time.Now()

	appointments := []models.Appointment{
		// Completed and billed below
		{
			ClientID:    clients[0].ID,
			TherapistID: maya.ID,
			ServiceType: models.ServiceSwedish,
			ScheduledAt: now.AddDate(0, 0, -7).Truncate(time.Hour),
			Status:      models.AppointmentStatusCompleted,
		},
		// Completed, not yet invoiced
		{
			ClientID:    clients[1].ID,
			TherapistID: liam.ID,
			ServiceType: models.ServiceDeepTissue,
			ScheduledAt: now.AddDate(0, 0, -2).Truncate(time.Hour),
			Status:      models.AppointmentStatusCompleted,
		},
		// Upcoming
		{
			ClientID:    clients[2].ID,
			TherapistID: maya.ID,
			ServiceType: models.ServiceHotStone,
			ScheduledAt: now.AddDate(0, 0, 3).Truncate(time.Hour),
			Status:      models.AppointmentStatusScheduled,
		},
	}
	for i := range appointments {
		svc, _ := models.LookupService(appointments[i].ServiceType)
		appointments[i].Price = svc.Price
		appointments[i].DurationMinutes = svc.DurationMinutes
		if err := tx.Create(&appointments[i]).Error; err != nil {
			return nil, fmt.Errorf("seed appointment: %w", err)
		}
	}
	return appointments, nil
}

func seedBilling(tx *gorm.DB, users []models.User, clients []models.Client, appointments []models.Appointment) error {
	admin := users[0]
	billed := appointments[0]

	svc, _ := models.LookupService(billed.ServiceType)
	invoice := models.Invoice{
		ClientID: clients[0].ID,
		TaxRate:  0.08,
		Status:   models.InvoiceStatusUnpaid,
		IssuedAt: billed.ScheduledAt.Add(time.Hour),
		LineItems: []models.InvoiceLineItem{
			{AppointmentID: &billed.ID, Description: svc.Name, Quantity: 1, UnitPrice: svc.Price},
			{Description: "Muscle Relief Balm", Quantity: 1, UnitPrice: 18.00},
		},
	}
	invoice.RecalculateTotals()
	if err := tx.Create(&invoice).Error; err != nil {
		return fmt.Errorf("seed invoice: %w", err)
	}
	if err := tx.Model(&models.Appointment{}).Where("id = ?", billed.ID).Update("invoiced", true).Error; err != nil {
		return err
	}

	// Pay the invoice in full with cash
	payment := models.Payment{
		InvoiceID:    invoice.ID,
		ClientID:     clients[0].ID,
		Amount:       invoice.Total,
		Method:       models.PaymentMethodCash,
		Status:       models.PaymentStatusCompleted,
		PaidAt:       invoice.IssuedAt.Add(10 * time.Minute),
		RecordedByID: &admin.ID,
	}
	if err := tx.Create(&payment).Error; err != nil {
		return fmt.Errorf("seed payment: %w", err)
	}

	invoice.PaidAmount = invoice.Total
	invoice.Status = invoice.StatusForPaidAmount()
	if err := tx.Save(&invoice).Error; err != nil {
		return err
	}

	source := fmt.Sprintf("Invoice #%d", invoice.ID)
	income := models.Transaction{
		Type:          models.TransactionTypeIncome,
		Date:          payment.PaidAt,
		Amount:        payment.Amount,
		Category:      models.IncomeCategoryServices,
		Description:   fmt.Sprintf("Payment for invoice #%d", invoice.ID),
		Source:        &source,
		PaymentMethod: payment.Method,
		Taxable:       true,
		Auto:          true,
		PaymentID:     &payment.ID,
	}
	if err := tx.Create(&income).Error; err != nil {
		return fmt.Errorf("seed income entry: %w", err)
	}
	return nil
}

func seedExpenses(tx *gorm.DB) error {
	now := time.Now()
	expenses := []models.Transaction{
		{
			Type:        models.TransactionTypeExpense,
			Date:        now.AddDate(0, 0, -14),
			Amount:      1800.00,
			Category:    models.ExpenseCategoryRent,
			Description: "Studio rent",
			Deductible:  true,
		},
		{
			Type:        models.TransactionTypeExpense,
			Date:        now.AddDate(0, 0, -5),
			Amount:      240.50,
			Category:    models.ExpenseCategorySupplies,
			Description: "Massage oil and linens restock",
			Deductible:  true,
		},
	}
	for i := range expenses {
		if err := tx.Create(&expenses[i]).Error; err != nil {
			return fmt.Errorf("seed expense: %w", err)
		}
	}
	return nil
}
