package routes

import (
	"strings"
	"testing"
	"time"

	"property-reviews-server/config"
	"property-reviews-server/models"
	"property-reviews-server/storage"
	"property-reviews-server/utils"

	"github.com/go-playground/validator/v10"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// buildTestApp wires an app against an isolated in-memory database with the
// routes the tests exercise.
func buildTestApp(t *testing.T) *iris.Application {
	t.Helper()

	config.LoadConfig()

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
	storage.DB = db

	app := iris.New()
	// Serve trailing-slash paths directly instead of 301-redirecting;
	// httptest recorders do not follow redirects.
	app.Configure(iris.WithoutPathCorrectionRedirection)
	app.Validator = validator.New()

	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(config.AppConfig.AccessTokenSecret))
	accessTokenVerifier.WithDefaultBlocklist()
	accessTokenVerifierMiddleware := accessTokenVerifier.Verify(func() interface{} {
		return new(utils.AccessToken)
	})
	optionalAuthMiddleware := utils.OptionalUserMiddleware(accessTokenVerifier)

	user := app.Party("/api/user")
	{
		user.Post("/verify-email", VerifyEmail)
	}

	property := app.Party("/api/properties")
	{
		property.Get("/", optionalAuthMiddleware, GetProperties)
		property.Get("/{id:uint}", optionalAuthMiddleware, GetPropertyByID)
		property.Post("/", accessTokenVerifierMiddleware, CreateProperty)
		property.Post("/{id:uint}/reviews", accessTokenVerifierMiddleware, CreateReview)
		property.Delete("/{id:uint}", accessTokenVerifierMiddleware, DeleteProperty)
	}

	review := app.Party("/api/reviews")
	{
		review.Post("/{id:uint}/vote", accessTokenVerifierMiddleware, VoteOnReview)
		review.Post("/{id:uint}/replies", accessTokenVerifierMiddleware, CreateReply)
		review.Post("/{id:uint}/report", optionalAuthMiddleware, ReportReview)
	}

	staff := app.Party("/api/staff", accessTokenVerifierMiddleware, utils.StaffOnlyMiddleware)
	{
		staff.Get("/dashboard", GetStaffDashboard)
		staff.Post("/reports/{id:uint}/resolve", ResolveReportRoute)
		staff.Post("/reports/{id:uint}/reopen", ReopenReportRoute)
		staff.Post("/reviews/{id:uint}/moderate", ModerateReview)
		staff.Post("/users/{id:uint}/suspend", ToggleUserSuspension)
	}

	require.NoError(t, app.Build())
	return app
}

func signTestToken(t *testing.T, id uint, role string) string {
	t.Helper()
	signer := jwt.NewSigner(jwt.HS256, config.AppConfig.AccessTokenSecret, time.Hour)
	token, err := signer.Sign(utils.AccessToken{ID: id, Role: role})
	require.NoError(t, err)
	return string(token)
}

func createRouteTestUser(t *testing.T, email, role string) *models.User {
	t.Helper()
	user := models.User{FirstName: "Route", LastName: "Tester", Email: email, Password: "hashed", Role: role}
	require.NoError(t, storage.DB.Create(&user).Error)
	return &user
}

func createRouteTestProperty(t *testing.T, ownerID *uint) *models.Property {
	t.Helper()
	property := models.Property{Address: "55 Elm St", City: "Dayton", State: "OH", Zip: "45402", PropertyType: "house", CreatedByID: ownerID}
	require.NoError(t, storage.DB.Create(&property).Error)
	return &property
}

func createRouteTestReview(t *testing.T, propertyID uint, userID *uint) *models.Review {
	t.Helper()
	review := models.Review{
		PropertyID:  propertyID,
		UserID:      userID,
		Rating:      4,
		Title:       "Solid place",
		Content:     "Responsive management, fair rent increases and the maintenance crew actually shows up when called.",
		IsAnonymous: true,
		IsApproved:  true,
	}
	require.NoError(t, storage.DB.Create(&review).Error)
	return &review
}
