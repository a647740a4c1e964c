package routes

import (
	"path/filepath"
	"strings"

	"property-reviews-server/config"
	"property-reviews-server/models"
	"property-reviews-server/services"
	"property-reviews-server/storage"
	"property-reviews-server/utils"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

// GetProperties lists properties with their visible-scope rating summary.
// Supports city/state/type filters, a minimum average rating, and recency,
// rating or review-count sorting. Rating aggregates join into the query so
// filtering and ordering happen before pagination, not on the fetched page.
func GetProperties(ctx iris.Context) {
	viewer := viewerFromContext(ctx)

	page := ctx.URLParamIntDefault("page", 1)
	if page < 1 {
		page = 1
	}
	perPage := ctx.URLParamIntDefault("per_page", 20)
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	ratings := services.VisibleReviews(storage.DB, viewer).
		Select("property_id, AVG(rating) AS avg_rating, COUNT(*) AS review_count").
		Group("property_id")

	query := services.VisibleProperties(storage.DB, viewer).
		Joins("LEFT JOIN (?) ratings ON ratings.property_id = properties.id", ratings)
	if city := ctx.URLParam("city"); city != "" {
		query = query.Where("LOWER(properties.city) = LOWER(?)", city)
	}
	if state := ctx.URLParam("state"); state != "" {
		query = query.Where("LOWER(properties.state) = LOWER(?)", state)
	}
	if propertyType := ctx.URLParam("type"); propertyType != "" {
		query = query.Where("properties.property_type = ?", propertyType)
	}
	if search := ctx.URLParam("q"); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(properties.address) LIKE ? OR LOWER(properties.city) LIKE ?", like, like)
	}
	if minRating := ctx.URLParamFloat64Default("min_rating", 0); minRating > 0 {
		query = query.Where("COALESCE(ratings.avg_rating, 0) >= ?", minRating)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	var order string
	switch ctx.URLParam("sort") {
	case "oldest":
		order = "properties.created_at ASC"
	case "rating":
		order = "COALESCE(ratings.avg_rating, 0) DESC, properties.created_at DESC"
	case "reviews":
		order = "COALESCE(ratings.review_count, 0) DESC, properties.created_at DESC"
	default:
		order = "properties.created_at DESC"
	}

	var properties []models.Property
	res := query.Select("properties.*").
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		Order(order).
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&properties)
	if res.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	type propertyWithSummary struct {
		models.Property
		Summary services.RatingSummary `json:"ratingSummary"`
	}

	out := make([]propertyWithSummary, 0, len(properties))
	for i := range properties {
		summary, err := services.PropertyRatingSummary(storage.DB, properties[i].ID, viewer)
		if err != nil {
			utils.CreateInternalServerError(ctx)
			return
		}
		out = append(out, propertyWithSummary{Property: properties[i], Summary: summary})
	}

	utils.JSONPage(ctx, out, page, perPage, total)
}

// GetPropertyByID returns the property detail: images, visible reviews with
// their replies, votes, owner responses and the recomputed rating summary.
func GetPropertyByID(ctx iris.Context) {
	id := ctx.Params().Get("id")
	viewer := viewerFromContext(ctx)

	var property models.Property
	res := storage.DB.Preload("Images", func(db *gorm.DB) *gorm.DB {
		return db.Order("sort_order ASC")
	}).First(&property, id)
	if res.Error != nil {
		utils.CreateNotFound(ctx)
		return
	}

	if !services.PropertyVisibleTo(storage.DB, &property, viewer) {
		utils.CreateNotFound(ctx)
		return
	}

	var reviews []models.Review
	err := services.VisibleReviews(storage.DB, viewer).
		Where("property_id = ?", property.ID).
		Order("created_at DESC").
		Find(&reviews).Error
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	type reviewDetail struct {
		models.Review
		Votes         services.VoteCounts   `json:"votes"`
		ViewerVote    string                `json:"viewerVote,omitempty"`
		OwnerResponse *models.OwnerResponse `json:"ownerResponse,omitempty"`
	}

	details := make([]reviewDetail, 0, len(reviews))
	for i := range reviews {
		review := reviews[i]

		var replies []models.Reply
		if err := services.VisibleReplies(storage.DB, viewer).
			Where("review_id = ?", review.ID).
			Order("created_at ASC").
			Find(&replies).Error; err != nil {
			utils.CreateInternalServerError(ctx)
			return
		}
		review.Replies = replies

		votes, err := services.ReviewVoteCounts(storage.DB, review.ID)
		if err != nil {
			utils.CreateInternalServerError(ctx)
			return
		}

		detail := reviewDetail{Review: review, Votes: votes}

		if viewer.Authenticated {
			var viewerVote models.ReviewVote
			if err := storage.DB.Where("review_id = ? AND user_id = ?", review.ID, viewer.ID).
				First(&viewerVote).Error; err == nil {
				detail.ViewerVote = viewerVote.VoteType
			}
		}

		var response models.OwnerResponse
		if err := storage.DB.Where("review_id = ?", review.ID).First(&response).Error; err == nil {
			detail.OwnerResponse = &response
		}

		details = append(details, detail)
	}

	summary, err := services.PropertyRatingSummary(storage.DB, property.ID, viewer)
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{
		"property":      property,
		"reviews":       details,
		"ratingSummary": summary,
	})
}

// CreateProperty registers a property, optionally with up to six images and
// an initial review in the same transaction.
func CreateProperty(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)

	var input CreatePropertyInput
	err := ctx.ReadJSON(&input)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	if input.PropertyType != "" && !slices.Contains(models.PropertyTypes, input.PropertyType) {
		utils.CreateError(iris.StatusBadRequest, "Invalid Property Type",
			"Property type must be one of: "+strings.Join(models.PropertyTypes, ", "), ctx)
		return
	}

	if len(input.Images) > models.MaxImagesPerProperty {
		utils.CreateError(iris.StatusBadRequest, "Too Many Images",
			"A property can carry at most 6 images.", ctx)
		return
	}
	for _, img := range input.Images {
		ext := strings.ToLower(filepath.Ext(img.URL))
		if ext != "" && !slices.Contains(config.AppConfig.Image.AllowedExtensions, ext) {
			utils.CreateError(iris.StatusBadRequest, "Invalid Image",
				"Unsupported image extension "+ext, ctx)
			return
		}
	}

	userID := claims.ID
	property := models.Property{
		Address:      input.Address,
		City:         input.City,
		State:        input.State,
		Zip:          input.Zip,
		PropertyType: input.PropertyType,
		Description:  input.Description,
		CreatedByID:  &userID,
	}
	if property.PropertyType == "" {
		property.PropertyType = "apartment"
	}

	txErr := storage.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&property).Error; err != nil {
			return err
		}
		for i, img := range input.Images {
			image := models.PropertyImage{
				PropertyID: property.ID,
				PublicID:   img.PublicID,
				URL:        img.URL,
				SortOrder:  i,
			}
			if err := tx.Create(&image).Error; err != nil {
				return err
			}
		}
		if input.InitialReview != nil {
			review, err := buildReview(tx, userID, property.ID, *input.InitialReview)
			if err != nil {
				return err
			}
			if err := tx.Create(review).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		handleReviewCreationError(txErr, ctx)
		return
	}

	storage.DB.Preload("Images").Preload("Reviews").First(&property, property.ID)
	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(property)
}

// DeleteProperty removes the property and its review tree. Only the creator
// or staff may delete. Blob store images are purged best effort.
func DeleteProperty(ctx iris.Context) {
	id := ctx.Params().Get("id")
	claims := jwt.Get(ctx).(*utils.AccessToken)

	var property models.Property
	if err := storage.DB.First(&property, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	isOwner := property.CreatedByID != nil && *property.CreatedByID == claims.ID
	if !isOwner && claims.Role != models.RoleStaff {
		utils.CreateForbidden(ctx, "Only the property creator or staff can delete a property.")
		return
	}

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

	ctx.JSON(iris.Map{"deleted": true})
}

type PropertyImageInput struct {
	PublicID string `json:"publicID" validate:"required"`
	URL      string `json:"url"`
}

type CreatePropertyInput struct {
	Address       string               `json:"address" validate:"required,max=255"`
	City          string               `json:"city" validate:"required,max=100"`
	State         string               `json:"state" validate:"required,max=50"`
	Zip           string               `json:"zip" validate:"required,max=20"`
	PropertyType  string               `json:"propertyType"`
	Description   string               `json:"description" validate:"omitempty,max=2000"`
	Images        []PropertyImageInput `json:"images" validate:"omitempty,dive"`
	InitialReview *CreateReviewInput   `json:"initialReview"`
}
