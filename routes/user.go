package routes

import (
	"strings"
	"time"

	"property-reviews-server/config"
	"property-reviews-server/models"
	"property-reviews-server/storage"
	"property-reviews-server/utils"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func Register(ctx iris.Context) {
	var userInput RegisterUserInput
	err := ctx.ReadJSON(&userInput)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var newUser models.User
	userExists, userExistsErr := getAndHandleUserExists(&newUser, userInput.Email)
	if userExistsErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	if userExists {
		utils.CreateEmailAlreadyRegistered(ctx)
		return
	}

	hashedPassword, hashErr := hashAndSaltPassword(userInput.Password)
	if hashErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	newUser = models.User{
		FirstName: userInput.FirstName,
		LastName:  userInput.LastName,
		Email:     strings.ToLower(userInput.Email),
		Password:  hashedPassword,
		Role:      models.RoleUser,
	}

	if err := storage.DB.Create(&newUser).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	issueVerificationCode(&newUser)

	returnUser(newUser, ctx)
}

func Login(ctx iris.Context) {
	var userInput LoginUserInput
	err := ctx.ReadJSON(&userInput)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var existingUser models.User
	errorMsg := "Invalid email or password."
	userExists, userExistsErr := getAndHandleUserExists(&existingUser, userInput.Email)
	if userExistsErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	if !userExists {
		utils.CreateError(iris.StatusUnauthorized, "Credentials Error", errorMsg, ctx)
		return
	}

	passwordErr := bcrypt.CompareHashAndPassword([]byte(existingUser.Password), []byte(userInput.Password))
	if passwordErr != nil {
		utils.CreateError(iris.StatusUnauthorized, "Credentials Error", errorMsg, ctx)
		return
	}

	if existingUser.IsSuspended {
		utils.CreateError(iris.StatusForbidden, "Account Suspended",
			"Your account has been suspended. Contact support for details.", ctx)
		return
	}

	returnUser(existingUser, ctx)
}

// VerifyEmail consumes a 6-digit code. Codes are single use and expire 30
// minutes after issue.
func VerifyEmail(ctx iris.Context) {
	var input VerifyEmailInput
	err := ctx.ReadJSON(&input)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var user models.User
	userExists, userExistsErr := getAndHandleUserExists(&user, input.Email)
	if userExistsErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if !userExists {
		utils.CreateNotFound(ctx)
		return
	}

	if user.EmailVerified {
		ctx.JSON(iris.Map{"verified": true})
		return
	}

	var verification models.EmailVerification
	res := storage.DB.
		Where("user_id = ? AND code = ?", user.ID, input.Code).
		Order("created_at DESC").
		First(&verification)
	if res.Error != nil {
		utils.CreateError(iris.StatusBadRequest, "Invalid Code", "The verification code is incorrect.", ctx)
		return
	}

	if !verification.IsValid() {
		utils.CreateError(iris.StatusBadRequest, "Invalid Code", "The verification code has expired or was already used.", ctx)
		return
	}

	updateErr := storage.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&verification).Update("is_used", true).Error; err != nil {
			return err
		}
		return tx.Model(&user).Update("email_verified", true).Error
	})
	if updateErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"verified": true})
}

// ResendVerificationCode issues a fresh code, invalidating prior ones.
func ResendVerificationCode(ctx iris.Context) {
	var input ResendCodeInput
	err := ctx.ReadJSON(&input)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var user models.User
	userExists, userExistsErr := getAndHandleUserExists(&user, input.Email)
	if userExistsErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if !userExists {
		utils.CreateNotFound(ctx)
		return
	}
	if user.EmailVerified {
		ctx.JSON(iris.Map{"verified": true})
		return
	}

	issueVerificationCode(&user)
	ctx.JSON(iris.Map{"sent": true})
}

func GetProfile(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)

	var user models.User
	if err := storage.DB.First(&user, claims.ID).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	ctx.JSON(user)
}

func UpdateProfile(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)

	var input UpdateProfileInput
	err := ctx.ReadJSON(&input)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var user models.User
	if err := storage.DB.First(&user, claims.ID).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	updates := map[string]interface{}{}
	if input.FirstName != "" {
		updates["first_name"] = input.FirstName
	}
	if input.LastName != "" {
		updates["last_name"] = input.LastName
	}
	if input.AllowsNotifications != nil {
		updates["allows_notifications"] = *input.AllowsNotifications
	}
	if len(updates) > 0 {
		if err := storage.DB.Model(&user).Updates(updates).Error; err != nil {
			utils.CreateInternalServerError(ctx)
			return
		}
	}

	ctx.JSON(user)
}

func ChangePassword(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)

	var input ChangePasswordInput
	err := ctx.ReadJSON(&input)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var user models.User
	if err := storage.DB.First(&user, claims.ID).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	passwordErr := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.CurrentPassword))
	if passwordErr != nil {
		utils.CreateError(iris.StatusUnauthorized, "Credentials Error", "Current password is incorrect.", ctx)
		return
	}

	hashedPassword, hashErr := hashAndSaltPassword(input.NewPassword)
	if hashErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	if err := storage.DB.Model(&user).Update("password", hashedPassword).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"updated": true})
}

func ForgotPassword(ctx iris.Context) {
	var input ForgotPasswordInput
	err := ctx.ReadJSON(&input)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var user models.User
	userExists, userExistsErr := getAndHandleUserExists(&user, input.Email)
	if userExistsErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	// The response does not reveal whether the account exists.
	if userExists {
		token, tokenErr := utils.CreateForgotPasswordToken(user.ID, user.Email)
		if tokenErr == nil {
			utils.SendMail(
				user.Email,
				"Reset your password",
				"Use this link to reset your password: https://propertyreviews.local/reset-password?token="+token,
				"<p>Use <a href=\"https://propertyreviews.local/reset-password?token="+token+"\">this link</a> to reset your password. It expires in 10 minutes.</p>",
			)
		}
	}

	ctx.JSON(iris.Map{"sent": true})
}

func ResetPassword(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.ForgotPasswordToken)

	var input ResetPasswordInput
	err := ctx.ReadJSON(&input)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var user models.User
	if err := storage.DB.First(&user, claims.ID).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	hashedPassword, hashErr := hashAndSaltPassword(input.Password)
	if hashErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	if err := storage.DB.Model(&user).Update("password", hashedPassword).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"updated": true})
}

func getAndHandleUserExists(user *models.User, email string) (exists bool, err error) {
	userExistsQuery := storage.DB.Where("email = ?", strings.ToLower(email)).Limit(1).Find(&user)

	if userExistsQuery.Error != nil {
		return false, userExistsQuery.Error
	}

	userExists := userExistsQuery.RowsAffected > 0

	if userExists {
		return true, nil
	}

	return false, nil
}

func hashAndSaltPassword(password string) (hashedPassword string, err error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	return string(bytes), nil
}

// issueVerificationCode invalidates prior codes, stores a new one and mails
// it. Mail failures are not surfaced; the code can be resent.
func issueVerificationCode(user *models.User) {
	storage.DB.Model(&models.EmailVerification{}).
		Where("user_id = ? AND is_used = ?", user.ID, false).
		Update("is_used", true)

	code := utils.GenerateNumericCode(6)
	verification := models.EmailVerification{
		UserID:    user.ID,
		Code:      code,
		ExpiresAt: time.Now().Add(config.AppConfig.VerificationCodeTTL),
	}
	storage.DB.Create(&verification)

	utils.SendVerificationCode(user.Email, code)
}

func returnUser(user models.User, ctx iris.Context) {
	tokenPair, tokenErr := utils.CreateTokenPair(user.ID)
	if tokenErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{
		"ID":            user.ID,
		"firstName":     user.FirstName,
		"lastName":      user.LastName,
		"email":         user.Email,
		"role":          user.Role,
		"emailVerified": user.EmailVerified,
		"accessToken":   string(tokenPair.AccessToken),
		"refreshToken":  string(tokenPair.RefreshToken),
	})
}

type RegisterUserInput struct {
	FirstName string `json:"firstName" validate:"required,max=256"`
	LastName  string `json:"lastName" validate:"required,max=256"`
	Email     string `json:"email" validate:"required,max=256,email"`
	Password  string `json:"password" validate:"required,min=8,max=256"`
}

type LoginUserInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type VerifyEmailInput struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required,len=6"`
}

type ResendCodeInput struct {
	Email string `json:"email" validate:"required,email"`
}

type UpdateProfileInput struct {
	FirstName           string `json:"firstName" validate:"omitempty,max=256"`
	LastName            string `json:"lastName" validate:"omitempty,max=256"`
	AllowsNotifications *bool  `json:"allowsNotifications"`
}

type ChangePasswordInput struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8,max=256"`
}

type ForgotPasswordInput struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordInput struct {
	Password string `json:"password" validate:"required,min=8,max=256"`
}
