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

// CreateReply posts a reply on a review, optionally nested under another
// reply. The rate limit shares a transaction with the insert.
func CreateReply(ctx iris.Context) {
	reviewID := ctx.Params().GetUintDefault("id", 0)
	claims := jwt.Get(ctx).(*utils.AccessToken)

	var input CreateReplyInput
	err := ctx.ReadJSON(&input)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	content := strings.TrimSpace(input.Content)
	if len(content) < config.AppConfig.MinReplyContentLen {
		utils.CreateError(iris.StatusBadRequest, "Content Too Short",
			"Reply content must be at least 10 characters.", ctx)
		return
	}
	if services.LooksLikePersonalAttack(content) {
		utils.CreateError(iris.StatusBadRequest, "Content Rejected",
			"Reply content appears to target a person. Please revise it.", ctx)
		return
	}

	var review models.Review
	if err := storage.DB.First(&review, reviewID).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	if input.ParentReplyID != nil {
		var parent models.Reply
		if err := storage.DB.First(&parent, *input.ParentReplyID).Error; err != nil {
			utils.CreateNotFound(ctx)
			return
		}
		if parent.ReviewID != review.ID {
			utils.CreateError(iris.StatusBadRequest, "Invalid Parent",
				"The parent reply belongs to a different review.", ctx)
			return
		}
	}

	authorName := ""
	isAnonymous := true
	if input.ShowName {
		var author models.User
		if err := storage.DB.First(&author, claims.ID).Error; err == nil {
			authorName = author.FullName()
			isAnonymous = false
		}
	}

	userID := claims.ID
	reply := models.Reply{
		ReviewID:      review.ID,
		ParentReplyID: input.ParentReplyID,
		UserID:        &userID,
		Content:       content,
		AuthorName:    authorName,
		IsAnonymous:   isAnonymous,
		IsApproved:    true,
	}

	txErr := storage.DB.Transaction(func(tx *gorm.DB) error {
		if err := services.CheckReplyAllowed(tx, claims.ID); err != nil {
			return err
		}
		return tx.Create(&reply).Error
	})
	if txErr != nil {
		if errors.Is(txErr, services.ErrRateLimited) {
			utils.CreateError(iris.StatusTooManyRequests, "Too Many Submissions",
				"You are posting too quickly. Please wait before submitting again.", ctx)
			return
		}
		utils.CreateInternalServerError(ctx)
		return
	}

	services.NotifyReplyPosted(storage.DB, &reply, &review)

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(reply)
}

// UpdateReply lets the author edit their reply content.
func UpdateReply(ctx iris.Context) {
	id := ctx.Params().Get("id")
	claims := jwt.Get(ctx).(*utils.AccessToken)

	var reply models.Reply
	if err := storage.DB.First(&reply, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	if reply.UserID == nil || *reply.UserID != claims.ID {
		utils.CreateForbidden(ctx, "Only the reply author can edit a reply.")
		return
	}

	var input UpdateReplyInput
	err := ctx.ReadJSON(&input)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	content := strings.TrimSpace(input.Content)
	if len(content) < config.AppConfig.MinReplyContentLen {
		utils.CreateError(iris.StatusBadRequest, "Content Too Short",
			"Reply content must be at least 10 characters.", ctx)
		return
	}
	if services.LooksLikePersonalAttack(content) {
		utils.CreateError(iris.StatusBadRequest, "Content Rejected",
			"Reply content appears to target a person. Please revise it.", ctx)
		return
	}

	if err := storage.DB.Model(&reply).Update("content", content).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(reply)
}

// DeleteReply removes the author's own reply. Nested children survive as
// orphans of a deleted parent and are filtered client side.
func DeleteReply(ctx iris.Context) {
	id := ctx.Params().Get("id")
	claims := jwt.Get(ctx).(*utils.AccessToken)

	var reply models.Reply
	if err := storage.DB.First(&reply, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	if reply.UserID == nil || *reply.UserID != claims.ID {
		utils.CreateForbidden(ctx, "Only the reply author can delete a reply.")
		return
	}

	if err := storage.DB.Delete(&reply).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"deleted": true})
}

type CreateReplyInput struct {
	Content       string `json:"content" validate:"required,max=2000"`
	ParentReplyID *uint  `json:"parentReplyID"`
	ShowName      bool   `json:"showName"`
}

type UpdateReplyInput struct {
	Content string `json:"content" validate:"required,max=2000"`
}
