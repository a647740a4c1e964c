package routes

import (
	"errors"
	"strings"

	"property-reviews-server/config"
	"property-reviews-server/models"
	"property-reviews-server/services"
	"property-reviews-server/storage"
	"property-reviews-server/utils"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
	"gorm.io/gorm"
)

// CreateReview posts a review on a property. The spam guard and the insert
// share one transaction so rate windows cannot be raced.
func CreateReview(ctx iris.Context) {
	propertyID := ctx.Params().GetUintDefault("id", 0)
	claims := jwt.Get(ctx).(*utils.AccessToken)

	var input CreateReviewInput
	err := ctx.ReadJSON(&input)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var property models.Property
	if err := storage.DB.First(&property, propertyID).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	var review *models.Review
	txErr := storage.DB.Transaction(func(tx *gorm.DB) error {
		var buildErr error
		review, buildErr = buildReview(tx, claims.ID, property.ID, input)
		if buildErr != nil {
			return buildErr
		}
		return tx.Create(review).Error
	})
	if txErr != nil {
		handleReviewCreationError(txErr, ctx)
		return
	}

	services.NotifyReviewPosted(storage.DB, review, &property)

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(review)
}

// UpdateReview lets the author edit rating and text. Editing re-runs the
// content checks but not the rate limit.
func UpdateReview(ctx iris.Context) {
	id := ctx.Params().Get("id")
	claims := jwt.Get(ctx).(*utils.AccessToken)

	var review models.Review
	if err := storage.DB.First(&review, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	if review.UserID == nil || *review.UserID != claims.ID {
		utils.CreateForbidden(ctx, "Only the review author can edit a review.")
		return
	}

	var input UpdateReviewInput
	err := ctx.ReadJSON(&input)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	if input.Content != "" && len(strings.TrimSpace(input.Content)) < config.AppConfig.MinReviewContentLen {
		utils.CreateError(iris.StatusBadRequest, "Content Too Short",
			"Review content must be at least 50 characters.", ctx)
		return
	}
	if input.Content != "" && services.LooksLikePersonalAttack(input.Content) {
		utils.CreateError(iris.StatusBadRequest, "Content Rejected",
			"Review content appears to target a person rather than describe the property. Please revise it.", ctx)
		return
	}

	updates := map[string]interface{}{}
	if input.Rating != 0 {
		updates["rating"] = input.Rating
	}
	if input.Title != "" {
		updates["title"] = input.Title
	}
	if input.Content != "" {
		updates["content"] = input.Content
		if input.Title == "" && review.Title == "" {
			updates["title"] = services.AutoTitle(input.Content)
		}
	}
	if input.ProsCons != "" {
		updates["pros_cons"] = input.ProsCons
	}
	if len(updates) > 0 {
		if err := storage.DB.Model(&review).Updates(updates).Error; err != nil {
			utils.CreateInternalServerError(ctx)
			return
		}
	}

	ctx.JSON(review)
}

// DeleteReview removes the author's own review with its replies, votes and
// reports.
func DeleteReview(ctx iris.Context) {
	id := ctx.Params().Get("id")
	claims := jwt.Get(ctx).(*utils.AccessToken)

	var review models.Review
	if err := storage.DB.First(&review, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	if review.UserID == nil || *review.UserID != claims.ID {
		utils.CreateForbidden(ctx, "Only the review author can delete a review.")
		return
	}

	if err := services.DeleteReviewCascade(storage.DB, review.ID); err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"deleted": true})
}

// VoteOnReview toggles a helpful/not-helpful vote. Repeating the same vote
// removes it, voting the other way replaces it.
func VoteOnReview(ctx iris.Context) {
	id := ctx.Params().GetUintDefault("id", 0)
	claims := jwt.Get(ctx).(*utils.AccessToken)

	var input VoteInput
	err := ctx.ReadJSON(&input)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	if !models.ValidVoteType(input.VoteType) {
		utils.CreateError(iris.StatusBadRequest, "Invalid Vote",
			"Vote type must be helpful or not_helpful.", ctx)
		return
	}

	var review models.Review
	if err := storage.DB.First(&review, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	vote, voteErr := services.ToggleVote(storage.DB, review.ID, claims.ID, input.VoteType)
	if voteErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	counts, countErr := services.ReviewVoteCounts(storage.DB, review.ID)
	if countErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	viewerVote := ""
	if vote != nil {
		viewerVote = vote.VoteType
	}
	ctx.JSON(iris.Map{
		"votes":      counts,
		"viewerVote": viewerVote,
	})
}

// buildReview validates content rules and the spam guard, then assembles
// the row. Callers insert it inside the same transaction.
func buildReview(tx *gorm.DB, userID uint, propertyID uint, input CreateReviewInput) (*models.Review, error) {
	content := strings.TrimSpace(input.Content)
	if content != "" && len(content) < config.AppConfig.MinReviewContentLen {
		return nil, errReviewContentTooShort
	}
	if content != "" && services.LooksLikePersonalAttack(content) {
		return nil, services.ErrPersonalAttack
	}

	if err := services.CheckReviewAllowed(tx, userID, propertyID, content); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		title = services.AutoTitle(content)
	}

	authorName := ""
	isAnonymous := true
	if input.ShowName {
		var author models.User
		if err := tx.First(&author, userID).Error; err == nil {
			authorName = author.FullName()
			isAnonymous = false
		}
	}

	uid := userID
	return &models.Review{
		PropertyID:    propertyID,
		UserID:        &uid,
		Rating:        input.Rating,
		Title:         title,
		Content:       content,
		ProsCons:      input.ProsCons,
		DateLivedFrom: input.DateLivedFrom,
		DateLivedTo:   input.DateLivedTo,
		AuthorName:    authorName,
		IsAnonymous:   isAnonymous,
		IsApproved:    true,
	}, nil
}

var errReviewContentTooShort = errors.New("review content too short")

func handleReviewCreationError(err error, ctx iris.Context) {
	switch {
	case errors.Is(err, services.ErrRateLimited):
		utils.CreateError(iris.StatusTooManyRequests, "Too Many Submissions",
			"You are posting too quickly. Please wait before submitting again.", ctx)
	case errors.Is(err, services.ErrDuplicateContent):
		utils.CreateError(iris.StatusBadRequest, "Duplicate Content",
			"This looks like a copy of a review you recently posted elsewhere.", ctx)
	case errors.Is(err, errReviewContentTooShort):
		utils.CreateError(iris.StatusBadRequest, "Content Too Short",
			"Review content must be at least 50 characters.", ctx)
	case errors.Is(err, services.ErrPersonalAttack):
		utils.CreateError(iris.StatusBadRequest, "Content Rejected",
			"Review content appears to target a person rather than describe the property. Please revise it.", ctx)
	case errors.Is(err, services.ErrAlreadyReviewed):
		utils.CreateError(iris.StatusConflict, "Already Reviewed",
			"You have already reviewed this property.", ctx)
	case errors.Is(err, gorm.ErrDuplicatedKey) || isUniqueViolation(err):
		utils.CreateError(iris.StatusConflict, "Already Reviewed",
			"You have already reviewed this property.", ctx)
	default:
		utils.CreateInternalServerError(ctx)
	}
}

// isUniqueViolation matches driver-level unique index errors that gorm does
// not translate.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "unique index") ||
		strings.Contains(msg, "duplicate key")
}

type CreateReviewInput struct {
	Rating        int    `json:"rating" validate:"required,gte=1,lte=5"`
	Title         string `json:"title" validate:"omitempty,max=200"`
	Content       string `json:"content" validate:"omitempty,max=5000"`
	ProsCons      string `json:"prosCons" validate:"omitempty,max=500"`
	DateLivedFrom string `json:"dateLivedFrom" validate:"omitempty,len=7"`
	DateLivedTo   string `json:"dateLivedTo" validate:"omitempty,len=7"`
	ShowName      bool   `json:"showName"`
}

type UpdateReviewInput struct {
	Rating   int    `json:"rating" validate:"omitempty,gte=1,lte=5"`
	Title    string `json:"title" validate:"omitempty,max=200"`
	Content  string `json:"content" validate:"omitempty,max=5000"`
	ProsCons string `json:"prosCons" validate:"omitempty,max=500"`
}

type VoteInput struct {
	VoteType string `json:"voteType" validate:"required"`
}
