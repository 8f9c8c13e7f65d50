package database

import (
	"context"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"hopefoundation_backend/internals/configs"
	allocModel "hopefoundation_backend/internals/features/finance/allocations/model"
	ledgerModel "hopefoundation_backend/internals/features/finance/ledger/model"
	paymentModel "hopefoundation_backend/internals/features/finance/payments/model"
	staffModel "hopefoundation_backend/internals/features/users/staff/model"
)

var DB *gorm.DB

func ConnectDB() {
	log.Println("🔌 Koneksi ke PostgreSQL...")

	// Kalau pakai PgBouncer, biarkan PreferSimpleProtocol=true
	dsn := configs.PostgresDSN() + "&application_name=hopefoundation&options=-c%20statement_timeout=5000"

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger:  configs.NewGormLogger(),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		log.Fatalf("❌ Gagal konek DB: %v", err)
	}
	DB = db
	configs.DB = db
	log.Println("✅ DB connected.")
}

// Models yang dimigrasi saat start dan oleh seeder.
func Models() []any {
	return []any{
		&staffModel.Staff{},
		&ledgerModel.Donation{},
		&ledgerModel.Disbursement{},
		&ledgerModel.LedgerBalance{},
		&allocModel.Institution{},
		&allocModel.UtilizationRatio{},
		&paymentModel.PaymentIntent{},
	}
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}

func TunePool() {
	sqlDB, err := DB.DB()
	if err != nil {
		log.Printf("pool tune err: %v", err)
		return
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxIdleTime(60 * time.Second)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)
}

func Ping(ctx context.Context) error {
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
