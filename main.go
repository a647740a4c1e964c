package main

import (
	"property-reviews-server/config"
	"property-reviews-server/routes"
	"property-reviews-server/storage"
	"property-reviews-server/utils"

	"github.com/go-playground/validator/v10"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

func main() {
	config.LoadConfig()
	storage.InitializeDB()
	storage.InitializeRedis()

	app := iris.New()
	app.Validator = validator.New()

	app.AllowMethods(iris.MethodOptions)
	app.UseRouter(func(ctx iris.Context) {
		ctx.Header("Access-Control-Allow-Origin", ctx.GetHeader("Origin"))
		ctx.Header("Vary", "Origin")
		ctx.Header("Access-Control-Allow-Credentials", "true")
		ctx.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Requested-With")
		ctx.Header("Access-Control-Allow-Methods", "GET,POST,PATCH,PUT,DELETE,OPTIONS")
		if ctx.Method() == iris.MethodOptions {
			ctx.StatusCode(iris.StatusNoContent)
			return
		}
		ctx.Next()
	})

	app.Use(iris.Compression)

	resetTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(config.AppConfig.EmailTokenSecret))
	resetTokenVerifier.WithDefaultBlocklist()
	resetTokenVerifierMiddleware := resetTokenVerifier.Verify(func() interface{} {
		return new(utils.ForgotPasswordToken)
	})

	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(config.AppConfig.AccessTokenSecret))
	accessTokenVerifier.WithDefaultBlocklist()
	accessTokenVerifierMiddleware := accessTokenVerifier.Verify(func() interface{} {
		return new(utils.AccessToken)
	})
	optionalAuthMiddleware := utils.OptionalUserMiddleware(accessTokenVerifier)

	refreshTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(config.AppConfig.RefreshTokenSecret))
	refreshTokenVerifier.WithDefaultBlocklist()
	refreshTokenVerifierMiddleware := refreshTokenVerifier.Verify(func() interface{} {
		return new(jwt.Claims)
	})

	refreshTokenVerifier.Extractors = append(refreshTokenVerifier.Extractors, func(ctx iris.Context) string {
		var tokenInput utils.RefreshTokenInput
		err := ctx.ReadJSON(&tokenInput)
		if err != nil {
			return ""
		}

		return tokenInput.RefreshToken
	})

	user := app.Party("/api/user")
	{
		user.Post("/register", routes.Register)
		user.Post("/login", routes.Login)
		user.Post("/verify-email", routes.VerifyEmail)
		user.Post("/resend-code", routes.ResendVerificationCode)
		user.Post("/forgotpassword", routes.ForgotPassword)
		user.Post("/resetpassword", resetTokenVerifierMiddleware, routes.ResetPassword)
		user.Post("/refresh", refreshTokenVerifierMiddleware, utils.RefreshToken)
		user.Get("/profile", accessTokenVerifierMiddleware, routes.GetProfile)
		user.Patch("/profile", accessTokenVerifierMiddleware, routes.UpdateProfile)
		user.Post("/change-password", accessTokenVerifierMiddleware, routes.ChangePassword)
	}

	property := app.Party("/api/properties")
	{
		property.Get("/", optionalAuthMiddleware, routes.GetProperties)
		property.Get("/{id:uint}", optionalAuthMiddleware, routes.GetPropertyByID)
		property.Post("/", accessTokenVerifierMiddleware, routes.CreateProperty)
		property.Delete("/{id:uint}", accessTokenVerifierMiddleware, routes.DeleteProperty)
		property.Post("/{id:uint}/reviews", accessTokenVerifierMiddleware, routes.CreateReview)
	}

	review := app.Party("/api/reviews")
	{
		review.Patch("/{id:uint}", accessTokenVerifierMiddleware, routes.UpdateReview)
		review.Delete("/{id:uint}", accessTokenVerifierMiddleware, routes.DeleteReview)
		review.Post("/{id:uint}/vote", accessTokenVerifierMiddleware, routes.VoteOnReview)
		review.Post("/{id:uint}/replies", accessTokenVerifierMiddleware, routes.CreateReply)
		review.Post("/{id:uint}/report", optionalAuthMiddleware, routes.ReportReview)
		review.Post("/{id:uint}/response", accessTokenVerifierMiddleware, routes.CreateOwnerResponse)
	}

	reply := app.Party("/api/replies")
	{
		reply.Patch("/{id:uint}", accessTokenVerifierMiddleware, routes.UpdateReply)
		reply.Delete("/{id:uint}", accessTokenVerifierMiddleware, routes.DeleteReply)
	}

	response := app.Party("/api/responses")
	{
		response.Patch("/{id:uint}", accessTokenVerifierMiddleware, routes.UpdateOwnerResponse)
	}

	report := app.Party("/api/reports")
	{
		report.Get("/reasons", routes.GetReportReasons)
	}

	notification := app.Party("/api/notifications", accessTokenVerifierMiddleware)
	{
		notification.Get("/", routes.GetNotifications)
		notification.Get("/unread-count", routes.GetUnreadCount)
		notification.Patch("/{id:uint}/read", routes.MarkNotificationRead)
		notification.Post("/read-all", routes.MarkAllNotificationsRead)
	}

	upload := app.Party("/api/upload")
	{
		upload.Get("/signature", accessTokenVerifierMiddleware, routes.GetUploadSignature)
	}

	staff := app.Party("/api/staff", accessTokenVerifierMiddleware, utils.StaffOnlyMiddleware)
	{
		staff.Get("/dashboard", routes.GetStaffDashboard)
		staff.Get("/reports", routes.GetReports)
		staff.Get("/reports/{id:uint}", routes.GetReportByID)
		staff.Post("/reports/{id:uint}/resolve", routes.ResolveReportRoute)
		staff.Post("/reports/{id:uint}/reopen", routes.ReopenReportRoute)
		staff.Get("/reviews/flagged", routes.GetFlaggedReviews)
		staff.Post("/reviews/{id:uint}/moderate", routes.ModerateReview)
		staff.Get("/users", routes.GetUsers)
		staff.Get("/users/{id:uint}", routes.GetUserByID)
		staff.Post("/users/{id:uint}/suspend", routes.ToggleUserSuspension)
		staff.Delete("/users/{id:uint}", routes.DeleteUser)
		staff.Patch("/users/{id:uint}/role", routes.ChangeUserType)
		staff.Post("/users/{id:uint}/reset-password", routes.ResetUserPassword)
		staff.Get("/properties", routes.GetStaffProperties)
		staff.Delete("/properties/{id:uint}", routes.DeleteStaffProperty)
		staff.Get("/audit-log", routes.GetAuditLog)
	}

	app.Listen(":" + config.AppConfig.Port)
}
