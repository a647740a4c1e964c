package routes

import (
	"strings"

	"property-reviews-server/config"
	"property-reviews-server/models"
	"property-reviews-server/services"
	"property-reviews-server/storage"
	"property-reviews-server/utils"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

// CreateOwnerResponse posts the property owner's single response to a
// review. Only the property creator may respond, once per review.
func CreateOwnerResponse(ctx iris.Context) {
	reviewID := ctx.Params().GetUintDefault("id", 0)
	claims := jwt.Get(ctx).(*utils.AccessToken)

	var input OwnerResponseInput
	err := ctx.ReadJSON(&input)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	content := strings.TrimSpace(input.Content)
	if len(content) < config.AppConfig.MinResponseContentLen {
		utils.CreateError(iris.StatusBadRequest, "Content Too Short",
			"An owner response must be at least 20 characters.", ctx)
		return
	}

	var review models.Review
	if err := storage.DB.First(&review, reviewID).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	var property models.Property
	if err := storage.DB.First(&property, review.PropertyID).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	if property.CreatedByID == nil || *property.CreatedByID != claims.ID {
		utils.CreateForbidden(ctx, "Only the property owner can respond to reviews.")
		return
	}

	var owner models.User
	ownerName := "Property Owner"
	if err := storage.DB.First(&owner, claims.ID).Error; err == nil && owner.FullName() != owner.Email {
		ownerName = owner.FullName()
	}

	userID := claims.ID
	response := models.OwnerResponse{
		ReviewID:    review.ID,
		CreatedByID: &userID,
		Content:     content,
		OwnerName:   ownerName,
		IsApproved:  true,
	}

	if err := storage.DB.Create(&response).Error; err != nil {
		if isUniqueViolation(err) {
			utils.CreateError(iris.StatusConflict, "Already Responded",
				"This review already has an owner response.", ctx)
			return
		}
		utils.CreateInternalServerError(ctx)
		return
	}

	services.NotifyOwnerResponse(storage.DB, &response, &review)

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(response)
}

// UpdateOwnerResponse edits the owner's existing response.
func UpdateOwnerResponse(ctx iris.Context) {
	id := ctx.Params().Get("id")
	claims := jwt.Get(ctx).(*utils.AccessToken)

	var response models.OwnerResponse
	if err := storage.DB.First(&response, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	if response.CreatedByID == nil || *response.CreatedByID != claims.ID {
		utils.CreateForbidden(ctx, "Only the response author can edit it.")
		return
	}

	var input OwnerResponseInput
	err := ctx.ReadJSON(&input)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	content := strings.TrimSpace(input.Content)
	if len(content) < config.AppConfig.MinResponseContentLen {
		utils.CreateError(iris.StatusBadRequest, "Content Too Short",
			"An owner response must be at least 20 characters.", ctx)
		return
	}

	if err := storage.DB.Model(&response).Update("content", content).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(response)
}

type OwnerResponseInput struct {
	Content string `json:"content" validate:"required,max=2000"`
}
