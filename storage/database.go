package storage

import (
	"log"

	"property-reviews-server/config"
	"property-reviews-server/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func connectToDB() *gorm.DB {
	dsn := config.AppConfig.DBConnectionString
	if dsn == "" {
		log.Panic("DB_CONNECTION_STRING environment variable is required")
	}

	db, dbError := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if dbError != nil {
		log.Panic("error connecting to db: " + dbError.Error())
	}

	DB = db
	return db
}

func performMigrations(db *gorm.DB) {
	db.AutoMigrate(
		&models.User{},
		&models.EmailVerification{},
		&models.Property{},
		&models.PropertyImage{},
		&models.Review{},
		&models.Reply{},
		&models.ReviewReport{},
		&models.ReviewVote{},
		&models.OwnerResponse{},
		&models.Notification{},
		&models.AuditLog{},
	)

	CreateUniqueIndexes(db)
}

// CreateUniqueIndexes enforces the unique-pair invariants at the storage
// layer. Application-level checks alone leave a race between two concurrent
// submissions; these indexes close it deterministically. Partial indexes skip
// soft-deleted rows so a deleted review can be re-created.
func CreateUniqueIndexes(db *gorm.DB) {
	stmts := []string{
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_reviews_property_author
			ON reviews(property_id, user_id) WHERE deleted_at IS NULL AND user_id IS NOT NULL`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_review_votes_review_user
			ON review_votes(review_id, user_id) WHERE deleted_at IS NULL`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_review_reports_review_reporter
			ON review_reports(review_id, reported_by_id) WHERE deleted_at IS NULL AND reported_by_id IS NOT NULL`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_owner_responses_review
			ON owner_responses(review_id) WHERE deleted_at IS NULL`,
	}
	for _, stmt := range stmts {
		if err := db.Exec(stmt).Error; err != nil {
			log.Println("Warning: failed to create unique index:", err)
		}
	}
}

func InitializeDB() *gorm.DB {
	db := connectToDB()
	performMigrations(db)
	return db
}
