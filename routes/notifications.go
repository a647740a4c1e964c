package routes

import (
	"property-reviews-server/models"
	"property-reviews-server/services"
	"property-reviews-server/storage"
	"property-reviews-server/utils"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

// GetNotifications lists the requester's notifications, newest first.
// ?unread=true narrows to unread ones.
func GetNotifications(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)

	page := ctx.URLParamIntDefault("page", 1)
	if page < 1 {
		page = 1
	}
	perPage := ctx.URLParamIntDefault("per_page", 20)
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	query := storage.DB.Model(&models.Notification{}).Where("recipient_id = ?", claims.ID)
	if ctx.URLParamBoolDefault("unread", false) {
		query = query.Where("is_read = ?", false)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	var notifications []models.Notification
	res := query.Order("created_at DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&notifications)
	if res.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONPage(ctx, notifications, page, perPage, total)
}

// GetUnreadCount returns the badge number.
func GetUnreadCount(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)

	count, err := services.UnreadCount(storage.DB, claims.ID)
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"unread": count})
}

// MarkNotificationRead marks one of the requester's notifications as read.
func MarkNotificationRead(ctx iris.Context) {
	id := ctx.Params().Get("id")
	claims := jwt.Get(ctx).(*utils.AccessToken)

	var notification models.Notification
	res := storage.DB.Where("id = ? AND recipient_id = ?", id, claims.ID).First(&notification)
	if res.Error != nil {
		utils.CreateNotFound(ctx)
		return
	}

	if err := storage.DB.Model(&notification).Update("is_read", true).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(notification)
}

// MarkAllNotificationsRead clears the requester's unread set.
func MarkAllNotificationsRead(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)

	res := storage.DB.Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = ?", claims.ID, false).
		Update("is_read", true)
	if res.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"updated": res.RowsAffected})
}
