package main

import (
	"log"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"bizledger/internal/config"
	"bizledger/internal/db"
	"bizledger/internal/model"
)

func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Client{},
		&model.Service{},
		&model.Project{},
		&model.Task{},
		&model.Payment{},
		&model.Attachment{},
	); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	if err := seedMaster(gormDB); err != nil {
		log.Fatalf("Failed to seed master user: %v", err)
	}
	if err := seedDemoData(gormDB); err != nil {
		log.Fatalf("Failed to seed demo data: %v", err)
	}
	log.Println("Seed completed")
}

// seedMaster ensures the fixed master account exists. Idempotent.
func seedMaster(gormDB *gorm.DB) error {
	var count int64
	if err := gormDB.Model(&model.User{}).Where("role = ?", model.RoleMaster).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Println("Master user already present, skipping")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("changeme"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	master := model.User{
		Name:             "Master",
		Email:            "master@bizledger.local",
		PasswordHash:     string(hash),
		Role:             model.RoleMaster,
		InvitationStatus: model.InvitationAccepted,
		Active:           true,
	}
	if err := gormDB.Create(&master).Error; err != nil {
		return err
	}
	log.Printf("Created master user %s (default password: changeme)", master.Email)
	return nil
}

// seedDemoData inserts a small set of clients, services and payments for
// local development. Skipped if any client already exists.
func seedDemoData(gormDB *gorm.DB) error {
	var count int64
	if err := gormDB.Model(&model.Client{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Println("Demo data already present, skipping")
		return nil
	}

	clients := []model.Client{
		{Name: "Acme Trading", City: "Riyadh", Phone: "+966 11 555 0101", Email: "contact@acme.example"},
		{Name: "Blue Harbor Media", City: "Jeddah", Phone: "+966 12 555 0202", Email: "hello@blueharbor.example"},
		{Name: "Nimbus Retail", City: "Dammam", Phone: "+966 13 555 0303"},
	}
	if err := gormDB.Create(&clients).Error; err != nil {
		return err
	}

	services := []model.Service{
		{ClientID: clients[0].ID, ServiceType: "Website hosting", Price: decimal.NewFromInt(350), Status: model.ServiceStatusActive},
		{ClientID: clients[0].ID, ServiceType: "SEO retainer", Price: decimal.NewFromInt(1200), Status: model.ServiceStatusActive},
		{ClientID: clients[1].ID, ServiceType: "Social media management", Price: decimal.NewFromInt(800), Status: model.ServiceStatusActive},
		{ClientID: clients[2].ID, ServiceType: "POS support contract", Price: decimal.NewFromInt(500), Status: model.ServiceStatusPending},
	}
	if err := gormDB.Create(&services).Error; err != nil {
		return err
	}

	now := time.Now()
	paidAt := now.AddDate(0, 0, -20)
	payments := []model.Payment{
		{
			ClientID:    clients[0].ID,
			ServiceID:   services[0].ID,
			Amount:      decimal.NewFromInt(350),
			DueDate:     now.AddDate(0, 0, -25),
			PaymentDate: &paidAt,
			Status:      model.PaymentStatusPaid,
		},
		{
			ClientID:  clients[0].ID,
			ServiceID: services[1].ID,
			Amount:    decimal.NewFromInt(1200),
			DueDate:   now.AddDate(0, 0, -5),
			Status:    model.PaymentStatusPending,
		},
		{
			ClientID:  clients[1].ID,
			ServiceID: services[2].ID,
			Amount:    decimal.NewFromInt(800),
			DueDate:   now.AddDate(0, 0, 10),
			Status:    model.PaymentStatusPending,
		},
		{
			ClientID:  clients[2].ID,
			ServiceID: services[3].ID,
			Amount:    decimal.NewFromInt(500),
			DueDate:   now.AddDate(0, 0, 45),
			Status:    model.PaymentStatusPending,
		},
	}
	if err := gormDB.Create(&payments).Error; err != nil {
		return err
	}

	project := model.Project{
		ClientID:    clients[1].ID,
		Name:        "Autumn campaign",
		Description: "Q4 social campaign across all channels",
		Status:      model.ProjectStatusInProgress,
		StartDate:   now.AddDate(0, 0, -14),
	}
	if err := gormDB.Create(&project).Error; err != nil {
		return err
	}

	taskDue := now.AddDate(0, 0, 7)
	tasks := []model.Task{
		{ProjectID: project.ID, Name: "Draft creatives", Status: model.TaskStatusCompleted, Priority: model.TaskPriorityHigh},
		{ProjectID: project.ID, Name: "Schedule posts", Status: model.TaskStatusInProgress, Priority: model.TaskPriorityMedium, DueDate: &taskDue},
	}
	if err := gormDB.Create(&tasks).Error; err != nil {
		return err
	}

	log.Printf("Seeded %d clients, %d services, %d payments", len(clients), len(services), len(payments))
	return nil
}
