package main

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/gp3-app/calgo/internal/config"
	"github.com/gp3-app/calgo/internal/database"
	"github.com/gp3-app/calgo/internal/models"
	"github.com/gp3-app/calgo/internal/registry"
	"github.com/gp3-app/calgo/internal/utils"
)

func main() {
	fmt.Println("🌱 CalGo Demo Data Seeder")
	fmt.Println(strings.Repeat("=", 60))

	// Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}

	// Connect to database
	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer db.Close()

	fmt.Println("✅ Connected to database")
	fmt.Println()

	// Run migrations first
	fmt.Println("🔨 Running database migrations...")
	err = db.AutoMigrate(
		&models.Company{},
		&models.User{},
		&models.Equipment{},
		&models.CalibrationEvent{},
		&models.Certificate{},
		&models.OnboardingSession{},
		&models.EmailLog{},
	)
	if err != nil {
		log.Fatalf("❌ Migration failed: %v", err)
	}
	fmt.Println("✅ Migrations complete")
	fmt.Println()

	// Check if data already exists
	var companyCount int64
	db.Model(&models.Company{}).Count(&companyCount)
	if companyCount > 0 {
		fmt.Printf("⚠️  Database already has %d companies. Clear it first? (y/N): ", companyCount)
		var answer string
		fmt.Scanln(&answer)
		if answer != "y" && answer != "Y" {
			fmt.Println("❌ Aborted. Database not modified.")
			return
		}

		// Clear existing data
		fmt.Println("🗑️  Clearing existing data...")
		db.Exec("TRUNCATE TABLE email_log CASCADE")
		db.Exec("TRUNCATE TABLE calibration_events CASCADE")
		db.Exec("TRUNCATE TABLE certificates CASCADE")
		db.Exec("TRUNCATE TABLE onboarding_sessions CASCADE")
		db.Exec("TRUNCATE TABLE equipment CASCADE")
		db.Exec("TRUNCATE TABLE users CASCADE")
		db.Exec("TRUNCATE TABLE companies CASCADE")
		fmt.Println("✅ Data cleared")
	}

	fmt.Println()
	fmt.Println("📦 Creating demo data...")
	fmt.Println()

	// 1. Create demo company
	fmt.Println("🏢 Creating demo company...")
	company := models.Company{
		Name:     "Acme Metrology Labs",
		Slug:     "acme-demo",
		MaxUsers: 10,
		MaxTools: 500,
		IsActive: true,
	}
	if err := db.Create(&company).Error; err != nil {
		log.Fatalf("❌ Failed to create company: %v", err)
	}
	fmt.Printf("   registration code: %s\n", company.Slug)

	// 2. Create demo operator
	fmt.Println("👤 Creating demo operator...")
	hash, err := utils.HashPassword("demo1234")
	if err != nil {
		log.Fatalf("❌ Failed to hash password: %v", err)
	}
	user := models.User{
		Email:     "operator@acme.example",
		Password:  hash,
		FirstName: "Dana",
		LastName:  "Reyes",
		Role:      "operator",
		CompanyID: company.ID,
		IsActive:  true,
	}
	if err := db.Create(&user).Error; err != nil {
		log.Fatalf("❌ Failed to create user: %v", err)
	}
	fmt.Println("   login: operator@acme.example / demo1234")

	// 3. Create equipment in each compliance state
	fmt.Println("🔧 Creating equipment...")
	reg := registry.NewService(db)
	now := time.Now().UTC()

	tools := []struct {
		in      registry.CreateInput
		lastCal *time.Time // nil leaves the tool with no calibration data
	}{
		{registry.CreateInput{AssetTag: "TQ-001", Type: "torque wrench", Manufacturer: "Norbar", Location: "Bay 1", LabName: "Acme Cal Lab", Critical: true, Frequency: "annual"}, timePtr(now.AddDate(0, -2, 0))},
		{registry.CreateInput{AssetTag: "TQ-002", Type: "torque wrench", Manufacturer: "Norbar", Location: "Bay 2", LabName: "Acme Cal Lab", Frequency: "semiannual"}, timePtr(now.AddDate(0, -5, -15))},
		{registry.CreateInput{AssetTag: "MM-100", Type: "multimeter", Manufacturer: "Fluke", Model: "87V", Location: "Electronics", LabName: "Acme Cal Lab", Critical: true, Frequency: "annual"}, timePtr(now.AddDate(-1, -3, 0))},
		{registry.CreateInput{AssetTag: "CAL-7", Type: "caliper", Manufacturer: "Mitutoyo", Location: "QC Room", FrequencyMonths: 12}, timePtr(now.AddDate(0, -11, 0))},
		{registry.CreateInput{AssetTag: "SCALE-3", Type: "bench scale", Manufacturer: "Ohaus", Location: "Shipping"}, nil},
	}
	for _, tool := range tools {
		eq, err := reg.Create(company.ID, tool.in)
		if err != nil {
			log.Fatalf("❌ Failed to create equipment %s: %v", tool.in.AssetTag, err)
		}
		if tool.lastCal != nil {
			_, err = reg.RecordCalibration(company.ID, eq.ID, registry.EventInput{
				Date:       *tool.lastCal,
				Result:     "pass",
				Technician: "M. Osei",
			})
			if err != nil {
				log.Fatalf("❌ Failed to record calibration for %s: %v", tool.in.AssetTag, err)
			}
		}
		fmt.Printf("   %s (%s)\n", eq.AssetTag, eq.Type)
	}

	fmt.Println()
	fmt.Println("✅ Demo data ready")
}

func timePtr(t time.Time) *time.Time {
	return &t
}
