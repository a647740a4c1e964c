package routes

import (
	"property-reviews-server/models"
	"property-reviews-server/services"
	"property-reviews-server/storage"
	"property-reviews-server/utils"

	"github.com/kataras/iris/v12"
	"gorm.io/gorm"
)

// ReportReview files a report against a review and flags it for staff.
// Works for anonymous visitors too; signed-in reporters are limited to one
// report per review by the unique pair index.
func ReportReview(ctx iris.Context) {
	reviewID := ctx.Params().GetUintDefault("id", 0)

	var input ReportReviewInput
	err := ctx.ReadJSON(&input)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	if !models.ValidReportReason(input.Reason) {
		utils.CreateError(iris.StatusBadRequest, "Invalid Reason",
			"Report reason is not recognized.", ctx)
		return
	}

	var review models.Review
	if err := storage.DB.First(&review, reviewID).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	var reportedByID *uint
	if id, ok := ctx.Values().Get("userID").(uint); ok && id != 0 {
		reportedByID = &id
	}

	report := models.ReviewReport{
		ReviewID:     review.ID,
		ReportedByID: reportedByID,
		Reason:       input.Reason,
		Description:  input.Description,
	}

	txErr := storage.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&report).Error; err != nil {
			return err
		}
		return services.FlagOnReport(tx, review.ID, input.Reason)
	})
	if txErr != nil {
		if isUniqueViolation(txErr) {
			utils.CreateError(iris.StatusConflict, "Already Reported",
				"You have already reported this review.", ctx)
			return
		}
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{"reported": true})
}

// GetReportReasons exposes the reason catalog for report forms.
func GetReportReasons(ctx iris.Context) {
	ctx.JSON(models.ReportReasons)
}

type ReportReviewInput struct {
	Reason      string `json:"reason" validate:"required"`
	Description string `json:"description" validate:"required,min=10,max=500"`
}
