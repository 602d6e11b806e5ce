package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/coffee-shop-app/models"
	"github.com/yeremiapane/coffee-shop-app/services"
	"github.com/yeremiapane/coffee-shop-app/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserController struct {
	DB       *gorm.DB
	Notifier *services.NotificationService
}

func NewUserController(db *gorm.DB, notifier *services.NotificationService) *UserController {
	return &UserController{DB: db, Notifier: notifier}
}

// Register creates an UNVERIFIED account and mails the verification
// link.
func (uc *UserController) Register(c *gin.Context) {
	type request struct {
		Name            string  `json:"name" binding:"required"`
		Email           string  `json:"email" binding:"required,email"`
		Password        string  `json:"password" binding:"required,min=8"`
		ConfirmPassword string  `json:"confirm_password" binding:"required"`
		Phone           *string `json:"phone"`
	}
	var req request
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if req.Password != req.ConfirmPassword {
		utils.RespondError(c, http.StatusBadRequest,
			utils.ValidationError("passwords do not match"))
		return
	}

	var existing int64
	uc.DB.Model(&models.User{}).Where("email = ?", strings.ToLower(req.Email)).Count(&existing)
	if existing > 0 {
		utils.RespondError(c, http.StatusConflict,
			utils.ConflictError("an account with this email already exists"))
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	role, err := uc.userRole()
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	token := utils.GenerateOpaqueToken()
	expiry := time.Now().Add(24 * time.Hour)
	user := models.User{
		Name:               req.Name,
		Email:              strings.ToLower(req.Email),
		Phone:              req.Phone,
		Password:           string(hashed),
		RoleID:             role.ID,
		IsActive:           true,
		VerificationToken:  &token,
		VerificationExpiry: &expiry,
	}

	if err := uc.DB.Create(&user).Error; err != nil {
		utils.RespondError(c, http.StatusConflict,
			utils.ConflictError("an account with this email already exists"))
		return
	}

	uc.Notifier.SendVerificationEmail(&user, token)
	utils.InfoLogger.Printf("New user registered: %s", user.Email)

	utils.RespondJSON(c, http.StatusCreated, "Registered, please check your inbox", gin.H{
		"user_id": user.ID,
	})
}

// Login verifies the password and issues the bearer token pair.
func (uc *UserController) Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var user models.User
	if err := uc.DB.Preload("Role").
		Where("email = ?", strings.ToLower(input.Email)).First(&user).Error; err != nil {
		utils.RespondError(c, http.StatusUnauthorized,
			utils.AuthError(utils.CodeAuthInvalid, "invalid credentials"))
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		utils.RespondError(c, http.StatusUnauthorized,
			utils.AuthError(utils.CodeAuthInvalid, "invalid credentials"))
		return
	}
	if !user.IsActive {
		utils.RespondError(c, http.StatusBadRequest,
			utils.NewAppError(http.StatusBadRequest, utils.CodeAuthInactive, "account is disabled"))
		return
	}

	accessToken, err := utils.GenerateToken(user.ID, user.Role.Role)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	refreshToken, err := utils.GenerateRefreshToken(user.ID, user.Role.Role)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	now := time.Now()
	uc.DB.Model(&user).Update("last_login_at", now)

	utils.RespondJSON(c, http.StatusOK, "Login successful", gin.H{
		"access_token":  accessToken,
		"refresh_token": refreshToken,
		"token_type":    "bearer",
	})
}

// VerifyEmail consumes the verification token.
func (uc *UserController) VerifyEmail(c *gin.Context) {
	var input struct {
		Token string `json:"token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var user models.User
	if err := uc.DB.Where("verification_token = ?", input.Token).First(&user).Error; err != nil {
		utils.RespondError(c, http.StatusBadRequest,
			utils.NewAppError(http.StatusBadRequest, utils.CodeValidation, "invalid or expired verification token"))
		return
	}
	if !utils.TokenValid(user.VerificationToken, user.VerificationExpiry, input.Token) {
		utils.RespondError(c, http.StatusBadRequest,
			utils.NewAppError(http.StatusBadRequest, utils.CodeValidation, "invalid or expired verification token"))
		return
	}

	err := uc.DB.Model(&user).Updates(map[string]interface{}{
		"is_verified":         true,
		"verification_token":  nil,
		"verification_expiry": nil,
	}).Error
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Email verified", nil)
}

// ResendVerification issues a fresh token. The response never reveals
// whether the address exists.
func (uc *UserController) ResendVerification(c *gin.Context) {
	var input struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var user models.User
	err := uc.DB.Where("email = ? AND is_verified = ?", strings.ToLower(input.Email), false).
		First(&user).Error
	if err == nil {
		token := utils.GenerateOpaqueToken()
		expiry := time.Now().Add(24 * time.Hour)
		uc.DB.Model(&user).Updates(map[string]interface{}{
			"verification_token":  token,
			"verification_expiry": expiry,
		})
		uc.Notifier.SendVerificationEmail(&user, token)
	}

	utils.RespondJSON(c, http.StatusOK, "If the address exists, a mail is on its way", nil)
}

// ForgotPassword mails a reset link valid for one hour. Like resend,
// it never reveals account existence.
func (uc *UserController) ForgotPassword(c *gin.Context) {
	var input struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var user models.User
	if err := uc.DB.Where("email = ?", strings.ToLower(input.Email)).First(&user).Error; err == nil {
		token := utils.GenerateOpaqueToken()
		expiry := time.Now().Add(time.Hour)
		uc.DB.Model(&user).Updates(map[string]interface{}{
			"reset_token":  token,
			"reset_expiry": expiry,
		})
		uc.Notifier.SendPasswordResetEmail(&user, token)
	}

	utils.RespondJSON(c, http.StatusOK, "If the address exists, a mail is on its way", nil)
}

// ResetPassword consumes the reset token and stores the new hash.
func (uc *UserController) ResetPassword(c *gin.Context) {
	var input struct {
		Token           string `json:"token" binding:"required"`
		NewPassword     string `json:"new_password" binding:"required,min=8"`
		ConfirmPassword string `json:"confirm_password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if input.NewPassword != input.ConfirmPassword {
		utils.RespondError(c, http.StatusBadRequest,
			utils.ValidationError("passwords do not match"))
		return
	}

	var user models.User
	if err := uc.DB.Where("reset_token = ?", input.Token).First(&user).Error; err != nil ||
		!utils.TokenValid(user.ResetToken, user.ResetExpiry, input.Token) {
		utils.RespondError(c, http.StatusBadRequest,
			utils.NewAppError(http.StatusBadRequest, utils.CodeValidation, "invalid or expired reset token"))
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	err = uc.DB.Model(&user).Updates(map[string]interface{}{
		"password":     string(hashed),
		"reset_token":  nil,
		"reset_expiry": nil,
	}).Error
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Password updated", nil)
}

// GetProfile returns the caller's own account.
func (uc *UserController) GetProfile(c *gin.Context) {
	var user models.User
	if err := uc.DB.Preload("Role").First(&user, currentUserID(c)).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, utils.NotFoundError("user not found"))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Profile", user)
}

// UpdateProfile lets a user change their own name and phone.
func (uc *UserController) UpdateProfile(c *gin.Context) {
	var input struct {
		Name  *string `json:"name"`
		Phone *string `json:"phone"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	updates := map[string]interface{}{}
	if input.Name != nil {
		updates["name"] = *input.Name
	}
	if input.Phone != nil {
		updates["phone"] = *input.Phone
	}
	if len(updates) == 0 {
		utils.RespondError(c, http.StatusBadRequest,
			utils.ValidationError("nothing to update"))
		return
	}

	if err := uc.DB.Model(&models.User{}).Where("id = ?", currentUserID(c)).
		Updates(updates).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Profile updated", nil)
}

// GetAllUsers lists accounts with their role for the admin console.
func (uc *UserController) GetAllUsers(c *gin.Context) {
	var users []models.User
	if err := uc.DB.Preload("Role").Order("created_at DESC").Find(&users).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "All users", users)
}

// UpdateUser changes another user's role or active flag (admin only;
// the route is behind AdminOnly).
func (uc *UserController) UpdateUser(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("user_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, utils.ValidationError("invalid user id"))
		return
	}

	var input struct {
		Role     *string `json:"role"`
		IsActive *bool   `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var user models.User
	if err := uc.DB.First(&user, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, utils.NotFoundError("user not found"))
		return
	}

	updates := map[string]interface{}{}
	if input.Role != nil {
		var role models.Role
		if err := uc.DB.Where("role = ?", *input.Role).First(&role).Error; err != nil {
			utils.RespondError(c, http.StatusBadRequest,
				utils.ValidationError("unknown role "+*input.Role))
			return
		}
		updates["role_id"] = role.ID
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}
	if len(updates) == 0 {
		utils.RespondError(c, http.StatusBadRequest, utils.ValidationError("nothing to update"))
		return
	}

	if err := uc.DB.Model(&user).Updates(updates).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "User updated", nil)
}

// userRole fetches (or seeds) the USER role row.
func (uc *UserController) userRole() (*models.Role, error) {
	var role models.Role
	err := uc.DB.Where("role = ?", models.RoleUser).First(&role).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		role = models.Role{Role: models.RoleUser}
		err = uc.DB.Create(&role).Error
	}
	if err != nil {
		return nil, err
	}
	return &role, nil
}
