package services

import (
	"strings"
	"testing"

	"property-reviews-server/config"
	"property-reviews-server/models"
	"property-reviews-server/storage"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens an isolated in-memory database with the full schema.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	if config.AppConfig == nil {
		config.LoadConfig()
	}

	dsn := "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
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
	require.NoError(t, err)

	storage.CreateUniqueIndexes(db)
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	user := models.User{
		FirstName: "Test",
		LastName:  "User",
		Email:     email,
		Password:  "hashed",
		Role:      models.RoleUser,
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func createTestProperty(t *testing.T, db *gorm.DB, ownerID *uint) *models.Property {
	t.Helper()
	property := models.Property{
		Address:      "123 Main St",
		City:         "Springfield",
		State:        "IL",
		Zip:          "62701",
		PropertyType: "apartment",
		CreatedByID:  ownerID,
	}
	require.NoError(t, db.Create(&property).Error)
	return &property
}

func createTestReview(t *testing.T, db *gorm.DB, propertyID uint, userID *uint, rating int) *models.Review {
	t.Helper()
	review := models.Review{
		PropertyID:  propertyID,
		UserID:      userID,
		Rating:      rating,
		Title:       "A review",
		Content:     "The walls are thin and the radiator clanks all night but the location is unbeatable.",
		IsAnonymous: true,
		IsApproved:  true,
	}
	require.NoError(t, db.Create(&review).Error)
	return &review
}
