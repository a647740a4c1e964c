package routes

import (
	"strings"

	"property-reviews-server/models"
	"property-reviews-server/services"
	"property-reviews-server/storage"
	"property-reviews-server/utils"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

// GetStaffDashboard summarizes moderation workload.
func GetStaffDashboard(ctx iris.Context) {
	var stats struct {
		OpenReports    int64 `json:"openReports"`
		FlaggedReviews int64 `json:"flaggedReviews"`
		SuspendedUsers int64 `json:"suspendedUsers"`
		TotalUsers     int64 `json:"totalUsers"`
		TotalReviews   int64 `json:"totalReviews"`
		TotalProperty  int64 `json:"totalProperties"`
	}

	storage.DB.Model(&models.ReviewReport{}).Where("is_resolved = ?", false).Count(&stats.OpenReports)
	storage.DB.Model(&models.Review{}).Where("is_flagged = ?", true).Count(&stats.FlaggedReviews)
	storage.DB.Model(&models.User{}).Where("is_suspended = ?", true).Count(&stats.SuspendedUsers)
	storage.DB.Model(&models.User{}).Count(&stats.TotalUsers)
	storage.DB.Model(&models.Review{}).Count(&stats.TotalReviews)
	storage.DB.Model(&models.Property{}).Count(&stats.TotalProperty)

	ctx.JSON(stats)
}

// GetReports lists reports, open ones first. ?resolved=true shows the
// closed queue instead.
func GetReports(ctx iris.Context) {
	page := ctx.URLParamIntDefault("page", 1)
	if page < 1 {
		page = 1
	}
	perPage := ctx.URLParamIntDefault("per_page", 20)
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	query := storage.DB.Model(&models.ReviewReport{}).
		Where("is_resolved = ?", ctx.URLParamBoolDefault("resolved", false))

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	var reports []models.ReviewReport
	res := query.Preload("Review").Preload("ReportedBy").Preload("ResolvedBy").
		Order("created_at DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&reports)
	if res.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONPage(ctx, reports, page, perPage, total)
}

func GetReportByID(ctx iris.Context) {
	id := ctx.Params().Get("id")

	var report models.ReviewReport
	res := storage.DB.Preload("Review").Preload("Review.User").
		Preload("ReportedBy").Preload("ResolvedBy").
		First(&report, id)
	if res.Error != nil {
		utils.CreateNotFound(ctx)
		return
	}

	ctx.JSON(report)
}

// ResolveReport closes a report and notifies the reporter.
func ResolveReportRoute(ctx iris.Context) {
	id := ctx.Params().Get("id")
	claims := jwt.Get(ctx).(*utils.AccessToken)

	var report models.ReviewReport
	if err := storage.DB.First(&report, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	if report.IsResolved {
		ctx.JSON(report)
		return
	}

	before := report
	if err := services.ResolveReport(storage.DB, &report, claims.ID); err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	services.NotifyReportResolved(storage.DB, &report)
	utils.Audit(ctx, "report.resolve", "review_report", report.ID, before, report)

	ctx.JSON(report)
}

// ReopenReportRoute reverses a resolution.
func ReopenReportRoute(ctx iris.Context) {
	id := ctx.Params().Get("id")

	var report models.ReviewReport
	if err := storage.DB.First(&report, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	if !report.IsResolved {
		ctx.JSON(report)
		return
	}

	before := report
	if err := services.ReopenReport(storage.DB, &report); err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.Audit(ctx, "report.reopen", "review_report", report.ID, before, report)

	ctx.JSON(report)
}

// GetFlaggedReviews lists reviews awaiting a moderation decision.
func GetFlaggedReviews(ctx iris.Context) {
	page := ctx.URLParamIntDefault("page", 1)
	if page < 1 {
		page = 1
	}
	perPage := ctx.URLParamIntDefault("per_page", 20)
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	query := storage.DB.Model(&models.Review{}).Where("is_flagged = ?", true)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	var reviews []models.Review
	res := query.Preload("User").Preload("Property").
		Order("created_at DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&reviews)
	if res.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONPage(ctx, reviews, page, perPage, total)
}

// ModerateReview applies a staff decision to a review: approve, reject,
// unflag or delete.
func ModerateReview(ctx iris.Context) {
	id := ctx.Params().Get("id")

	var input ModerateReviewInput
	err := ctx.ReadJSON(&input)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var review models.Review
	if err := storage.DB.First(&review, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}
	before := review

	switch input.Action {
	case "approve":
		if err := services.SetReviewApproval(storage.DB, review.ID, true); err != nil {
			utils.CreateInternalServerError(ctx)
			return
		}
		if err := services.UnflagReview(storage.DB, review.ID); err != nil {
			utils.CreateInternalServerError(ctx)
			return
		}
	case "reject":
		if err := services.SetReviewApproval(storage.DB, review.ID, false); err != nil {
			utils.CreateInternalServerError(ctx)
			return
		}
	case "unflag":
		if err := services.UnflagReview(storage.DB, review.ID); err != nil {
			utils.CreateInternalServerError(ctx)
			return
		}
	case "delete":
		if err := services.DeleteReviewCascade(storage.DB, review.ID); err != nil {
			utils.CreateInternalServerError(ctx)
			return
		}
		utils.Audit(ctx, "review.delete", "review", review.ID, before, nil)
		ctx.JSON(iris.Map{"deleted": true})
		return
	default:
		utils.CreateError(iris.StatusBadRequest, "Invalid Action",
			"Action must be approve, reject, unflag or delete.", ctx)
		return
	}

	storage.DB.First(&review, review.ID)
	utils.Audit(ctx, "review."+input.Action, "review", review.ID, before, review)

	ctx.JSON(review)
}

// GetUsers lists accounts for the staff console. ?q searches name and
// email, ?suspended=true narrows to suspended accounts.
func GetUsers(ctx iris.Context) {
	page := ctx.URLParamIntDefault("page", 1)
	if page < 1 {
		page = 1
	}
	perPage := ctx.URLParamIntDefault("per_page", 20)
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	query := storage.DB.Model(&models.User{})
	if q := ctx.URLParam("q"); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		query = query.Where(
			"LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(email) LIKE ?",
			like, like, like)
	}
	if ctx.URLParamBoolDefault("suspended", false) {
		query = query.Where("is_suspended = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	var users []models.User
	res := query.Order("created_at DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&users)
	if res.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONPage(ctx, users, page, perPage, total)
}

func GetUserByID(ctx iris.Context) {
	id := ctx.Params().Get("id")

	var user models.User
	res := storage.DB.Preload("Reviews").Preload("Properties").First(&user, id)
	if res.Error != nil {
		utils.CreateNotFound(ctx)
		return
	}

	ctx.JSON(user)
}

// ToggleUserSuspension suspends an active account or lifts an existing
// suspension. Staff cannot suspend themselves or other staff.
func ToggleUserSuspension(ctx iris.Context) {
	id := ctx.Params().Get("id")
	claims := jwt.Get(ctx).(*utils.AccessToken)

	var user models.User
	if err := storage.DB.First(&user, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	if user.ID == claims.ID {
		utils.CreateForbidden(ctx, "You cannot suspend your own account.")
		return
	}
	if user.IsStaff() {
		utils.CreateForbidden(ctx, "Staff accounts cannot be suspended.")
		return
	}

	before := user
	if err := services.SuspendUser(storage.DB, &user); err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	action := "user.suspend"
	if !user.IsSuspended {
		action = "user.unsuspend"
	}
	utils.Audit(ctx, action, "user", user.ID, before, user)

	ctx.JSON(user)
}

// DeleteUser removes the account. Authored reviews and replies survive with
// a null author so property history stays intact.
func DeleteUser(ctx iris.Context) {
	id := ctx.Params().Get("id")
	claims := jwt.Get(ctx).(*utils.AccessToken)

	var user models.User
	if err := storage.DB.First(&user, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	if user.ID == claims.ID {
		utils.CreateForbidden(ctx, "You cannot delete your own account.")
		return
	}
	if user.IsStaff() {
		utils.CreateForbidden(ctx, "Staff accounts cannot be deleted here.")
		return
	}

	before := user

	storage.DB.Model(&models.Review{}).Where("user_id = ?", user.ID).Update("user_id", nil)
	storage.DB.Model(&models.Reply{}).Where("user_id = ?", user.ID).Update("user_id", nil)
	storage.DB.Model(&models.ReviewReport{}).Where("reported_by_id = ?", user.ID).Update("reported_by_id", nil)
	storage.DB.Where("user_id = ?", user.ID).Delete(&models.ReviewVote{})
	storage.DB.Where("recipient_id = ?", user.ID).Delete(&models.Notification{})

	if err := storage.DB.Delete(&user).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.Audit(ctx, "user.delete", "user", user.ID, before, nil)

	ctx.JSON(iris.Map{"deleted": true})
}

// ChangeUserType promotes a user to staff or demotes a staff account.
func ChangeUserType(ctx iris.Context) {
	id := ctx.Params().Get("id")
	claims := jwt.Get(ctx).(*utils.AccessToken)

	var input ChangeUserTypeInput
	err := ctx.ReadJSON(&input)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	if input.Role != models.RoleUser && input.Role != models.RoleStaff {
		utils.CreateError(iris.StatusBadRequest, "Invalid Role",
			"Role must be user or staff.", ctx)
		return
	}

	var user models.User
	if err := storage.DB.First(&user, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	if user.ID == claims.ID && input.Role != models.RoleStaff {
		utils.CreateForbidden(ctx, "You cannot demote your own account.")
		return
	}

	before := user
	if err := storage.DB.Model(&user).Update("role", input.Role).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.Audit(ctx, "user.change_type", "user", user.ID, before, user)

	ctx.JSON(user)
}

// ResetUserPassword generates a temporary 9-digit password and emails it.
func ResetUserPassword(ctx iris.Context) {
	id := ctx.Params().Get("id")

	var user models.User
	if err := storage.DB.First(&user, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	newPassword := utils.GenerateNumericCode(9)
	hashedPassword, hashErr := hashAndSaltPassword(newPassword)
	if hashErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	if err := storage.DB.Model(&user).Update("password", hashedPassword).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.SendPasswordResetNotice(user.Email, newPassword)
	utils.Audit(ctx, "user.reset_password", "user", user.ID, nil, nil)

	ctx.JSON(iris.Map{"reset": true})
}

// GetStaffProperties lists properties for the staff console.
func GetStaffProperties(ctx iris.Context) {
	page := ctx.URLParamIntDefault("page", 1)
	if page < 1 {
		page = 1
	}
	perPage := ctx.URLParamIntDefault("per_page", 20)
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	query := storage.DB.Model(&models.Property{})
	if q := ctx.URLParam("q"); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		query = query.Where("LOWER(address) LIKE ? OR LOWER(city) LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	var properties []models.Property
	res := query.Preload("Images").Preload("CreatedBy").
		Order("created_at DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&properties)
	if res.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONPage(ctx, properties, page, perPage, total)
}

// DeleteStaffProperty removes a property with its review tree and purges
// its images from the blob store.
func DeleteStaffProperty(ctx iris.Context) {
	id := ctx.Params().Get("id")

	var property models.Property
	if err := storage.DB.First(&property, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	before := property
	images, err := services.DeletePropertyCascade(storage.DB, property.ID)
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	for _, img := range images {
		publicID := img.PublicID
		if publicID == "" {
			publicID = storage.PublicIDFromURL(img.URL)
		}
		if publicID != "" {
			storage.DeleteImage(publicID)
		}
	}

	utils.Audit(ctx, "property.delete", "property", property.ID, before, nil)

	ctx.JSON(iris.Map{"deleted": true})
}

// GetAuditLog pages through recorded staff actions.
func GetAuditLog(ctx iris.Context) {
	page := ctx.URLParamIntDefault("page", 1)
	if page < 1 {
		page = 1
	}
	perPage := ctx.URLParamIntDefault("per_page", 50)
	if perPage < 1 || perPage > 200 {
		perPage = 50
	}

	query := storage.DB.Model(&models.AuditLog{})
	if action := ctx.URLParam("action"); action != "" {
		query = query.Where("action = ?", action)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	var entries []models.AuditLog
	res := query.Order("created_at DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&entries)
	if res.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONPage(ctx, entries, page, perPage, total)
}

type ModerateReviewInput struct {
	Action string `json:"action" validate:"required"`
}

type ChangeUserTypeInput struct {
	Role string `json:"role" validate:"required"`
}
