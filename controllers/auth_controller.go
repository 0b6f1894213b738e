package controllers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/ak00-rgb/popfeed-app/config"
	"github.com/ak00-rgb/popfeed-app/models"
	"github.com/ak00-rgb/popfeed-app/utils"
	"github.com/dgrijalva/jwt-go"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const loginCodeTTL = 10 * time.Minute

// CodeSender delivers one-time sign-in codes. Delivery is an external
// concern; the default sender just logs the code for local development.
type CodeSender interface {
	SendLoginCode(email, code string) error
}

type LogCodeSender struct{}

func (LogCodeSender) SendLoginCode(email, code string) error {
	log.Printf("login code for %s: %s", email, code)
	return nil
}

type AuthController struct {
	DB           *gorm.DB
	GoogleConfig *config.GoogleConfig
	Sender       CodeSender
}

func NewAuthController(db *gorm.DB, sender CodeSender) *AuthController {
	if sender == nil {
		sender = LogCodeSender{}
	}
	return &AuthController{
		DB:           db,
		GoogleConfig: config.NewGoogleConfig(),
		Sender:       sender,
	}
}

// validateUsernamePattern validates username format and constraints
func validateUsernamePattern(username string) error {
	trimmedUsername := strings.TrimSpace(username)

	if len(trimmedUsername) < 3 {
		return fmt.Errorf("username must be at least 3 characters long")
	}

	if len(trimmedUsername) > 20 {
		return fmt.Errorf("username must be no more than 20 characters long")
	}

	startsWithLetter, _ := regexp.MatchString(`^[a-zA-Z]`, trimmedUsername)
	if !startsWithLetter {
		return fmt.Errorf("username must start with a letter")
	}

	validPattern, _ := regexp.MatchString(`^[a-zA-Z][a-zA-Z0-9_]*$`, trimmedUsername)
	if !validPattern {
		return fmt.Errorf("username can only contain letters, numbers, and underscores")
	}

	// user_ is the prefix of auto-generated placeholder names.
	if strings.HasPrefix(strings.ToLower(trimmedUsername), "user_") {
		return fmt.Errorf("this username prefix is reserved")
	}

	reserved := []string{"admin", "root", "api", "www", "mail", "test", "demo", "user", "guest", "anonymous", "null", "undefined"}
	for _, reservedWord := range reserved {
		if strings.ToLower(trimmedUsername) == reservedWord {
			return fmt.Errorf("this username is reserved and cannot be used")
		}
	}

	return nil
}

// SendOTP godoc
// @Summary Request an email sign-in code
// @Description Stores a hashed one-time code and hands it to the delivery collaborator
// @Tags auth
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /auth/send-otp [post]
func (ac *AuthController) SendOTP(c *gin.Context) {
	var input struct {
		Email string `json:"email" binding:"required,email"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Valid email is required", "code": CodeInvalidInput})
		return
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))

	code, err := utils.GenerateOTPCode()
	if err != nil {
		log.Printf("otp generation failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to send code"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("otp hashing failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to send code"})
		return
	}

	// One active code per email: a new request replaces any pending one.
	if err := ac.DB.Where("email = ?", email).Delete(&models.LoginCode{}).Error; err != nil {
		log.Printf("login code cleanup failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to send code"})
		return
	}

	loginCode := models.LoginCode{
		Email:     email,
		CodeHash:  string(hash),
		ExpiresAt: time.Now().Add(loginCodeTTL),
	}

	if err := ac.DB.Create(&loginCode).Error; err != nil {
		log.Printf("login code insert failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to send code"})
		return
	}

	if err := ac.Sender.SendLoginCode(email, code); err != nil {
		log.Printf("login code delivery failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to send code"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// VerifyOTP godoc
// @Summary Exchange an email code for a session
// @Description Verifies the code, bootstraps a profile for new users and issues tokens
// @Tags auth
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /auth/verify-otp [post]
func (ac *AuthController) VerifyOTP(c *gin.Context) {
	var input struct {
		Email string `json:"email" binding:"required,email"`
		Code  string `json:"code" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Email and code are required", "code": CodeInvalidInput})
		return
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))

	var loginCode models.LoginCode
	if err := ac.DB.Where("email = ?", email).First(&loginCode).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid or expired code"})
		return
	}

	if time.Now().After(loginCode.ExpiresAt) {
		ac.DB.Delete(&loginCode)
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid or expired code"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(loginCode.CodeHash), []byte(input.Code)); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid or expired code"})
		return
	}

	// Codes are single use.
	ac.DB.Delete(&loginCode)

	profile, err := ac.findOrCreateProfile(email, "email", nil)
	if err != nil {
		log.Printf("profile bootstrap failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to sign in"})
		return
	}

	ac.respondWithSession(c, profile)
}

// GoogleSignIn godoc
// @Summary Sign in with a Google ID token
// @Tags auth
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /auth/google [post]
func (ac *AuthController) GoogleSignIn(c *gin.Context) {
	if ac.GoogleConfig == nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Google sign-in is not configured"})
		return
	}

	var input struct {
		IDToken string `json:"idToken"`
		Code    string `json:"code"`
	}

	if err := c.ShouldBindJSON(&input); err != nil || (input.IDToken == "" && input.Code == "") {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "An ID token or authorization code is required", "code": CodeInvalidInput})
		return
	}

	var userInfo *config.GoogleUserInfo
	var err error
	if input.Code != "" {
		// Redirect-flow clients send the authorization code; exchange
		// it for tokens and fetch the account behind them.
		token, exchErr := ac.GoogleConfig.ExchangeCode(c.Request.Context(), input.Code)
		if exchErr != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Invalid authorization code", "code": CodeAuthRequired})
			return
		}
		userInfo, err = ac.GoogleConfig.GetUserInfo(token.AccessToken)
	} else {
		userInfo, err = ac.GoogleConfig.VerifyIDToken(input.IDToken)
	}
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Invalid Google token", "code": CodeAuthRequired})
		return
	}

	profile, err := ac.findOrCreateProfile(strings.ToLower(userInfo.Email), "google", &userInfo.ID)
	if err != nil {
		log.Printf("profile bootstrap failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to sign in"})
		return
	}

	ac.respondWithSession(c, profile)
}

// RefreshToken godoc
// @Summary Exchange a refresh token for a new access token
// @Tags auth
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /auth/refresh-token [post]
func (ac *AuthController) RefreshToken(c *gin.Context) {
	var input struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Refresh token is required", "code": CodeInvalidInput})
		return
	}

	var stored models.RefreshToken
	if err := ac.DB.Where("token = ?", input.RefreshToken).First(&stored).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Invalid refresh token", "code": CodeAuthRequired})
		return
	}

	if time.Now().After(stored.ExpirationDate) {
		ac.DB.Delete(&stored)
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Refresh token expired", "code": CodeAuthRequired})
		return
	}

	var profile models.Profile
	if err := ac.DB.Where("id = ?", stored.UserID).First(&profile).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Invalid refresh token", "code": CodeAuthRequired})
		return
	}

	accessToken, err := ac.signAccessToken(profile)
	if err != nil {
		log.Printf("access token signing failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Could not generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"token_type":   "Bearer",
		"access_token": accessToken,
	})
}

// Logout godoc
// @Summary Revoke the viewer's refresh tokens
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /auth/logout [post]
func (ac *AuthController) Logout(c *gin.Context) {
	user := utils.GetUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Authentication required", "code": CodeAuthRequired})
		return
	}

	if err := ac.DB.Where("user_id = ?", user.UserID).Delete(&models.RefreshToken{}).Error; err != nil {
		log.Printf("refresh token revocation failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to log out"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Logged out"})
}

// GetProfile godoc
// @Summary Get the viewer's profile
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /profile [get]
func (ac *AuthController) GetProfile(c *gin.Context) {
	user := utils.GetUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Authentication required", "code": CodeAuthRequired})
		return
	}

	var profile models.Profile
	if err := ac.DB.Where("id = ?", user.UserID).First(&profile).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Profile not found", "code": CodeNotFound})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "profile": profile})
}

// UpdateUsername godoc
// @Summary Choose the viewer's display name
// @Description Finalizes the alias; required before posting or commenting
// @Tags auth
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /profile/username [put]
func (ac *AuthController) UpdateUsername(c *gin.Context) {
	user := utils.GetUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Authentication required", "code": CodeAuthRequired})
		return
	}

	var input struct {
		Username string `json:"username" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Username is required", "code": CodeInvalidInput})
		return
	}

	if err := validateUsernamePattern(input.Username); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error(), "code": CodeInvalidInput})
		return
	}

	var profile models.Profile
	if err := ac.DB.Where("id = ?", user.UserID).First(&profile).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Profile not found", "code": CodeNotFound})
		return
	}

	profile.Username = strings.ToLower(strings.TrimSpace(input.Username))
	profile.AliasFinalized = true

	if err := ac.DB.Save(&profile).Error; err != nil {
		if isDuplicateKeyErr(err) {
			c.JSON(http.StatusConflict, gin.H{"success": false, "error": "Username already taken"})
			return
		}
		log.Printf("username update failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to update username"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "profile": profile})
}

// CheckUsername godoc
// @Summary Check username availability
// @Tags auth
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /auth/username-check [post]
func (ac *AuthController) CheckUsername(c *gin.Context) {
	var input struct {
		Username string `json:"username" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Username is required", "code": CodeInvalidInput})
		return
	}

	if err := validateUsernamePattern(input.Username); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error(), "available": false, "code": CodeInvalidInput})
		return
	}

	var profile models.Profile
	err := ac.DB.Where("username = ?", strings.ToLower(strings.TrimSpace(input.Username))).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusOK, gin.H{"success": true, "available": true})
		return
	}
	if err != nil {
		log.Printf("username lookup failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to check username"})
		return
	}

	c.JSON(http.StatusConflict, gin.H{"success": false, "error": "Username already taken", "available": false})
}

// findOrCreateProfile looks up a profile by email and bootstraps one
// with a placeholder user_<id> alias for first-time sign-ins. The alias
// stays unfinalized until the user picks a real name.
func (ac *AuthController) findOrCreateProfile(email, provider string, googleID *string) (models.Profile, error) {
	var profile models.Profile
	err := ac.DB.Where("email = ?", email).First(&profile).Error
	if err == nil {
		if googleID != nil && profile.GoogleID == nil {
			profile.GoogleID = googleID
			if err := ac.DB.Save(&profile).Error; err != nil {
				return models.Profile{}, err
			}
		}
		return profile, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Profile{}, err
	}

	profile = models.Profile{
		Email:          email,
		Provider:       provider,
		GoogleID:       googleID,
		AliasFinalized: false,
	}
	// The placeholder name embeds the profile id, so the id is fixed
	// before insert instead of left to the BeforeCreate hook.
	profile.ID = uuid.New().String()
	profile.Username = "user_" + profile.ID[:8]

	if err := ac.DB.Create(&profile).Error; err != nil {
		return models.Profile{}, err
	}
	return profile, nil
}

func (ac *AuthController) signAccessToken(profile models.Profile) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": profile.ID,
		"email":   profile.Email,
		"exp":     time.Now().Add(time.Hour * 24 * 7).Unix(),
	})
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}

func (ac *AuthController) respondWithSession(c *gin.Context, profile models.Profile) {
	accessToken, err := ac.signAccessToken(profile)
	if err != nil {
		log.Printf("access token signing failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Could not generate token"})
		return
	}

	refreshBase := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": profile.ID,
		"exp":     time.Now().Add(time.Hour * 24 * 30).Unix(),
	})
	refreshToken, err := refreshBase.SignedString([]byte(os.Getenv("JWT_SECRET")))
	if err != nil {
		log.Printf("refresh token signing failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Could not generate token"})
		return
	}

	// The refresh token is only useful if it survives to the refresh
	// endpoint, so a failed insert fails the whole sign-in.
	err = ac.DB.Create(&models.RefreshToken{
		UserID:         profile.ID,
		Token:          refreshToken,
		ExpirationDate: time.Now().Add(time.Hour * 24 * 30),
	}).Error
	if err != nil {
		log.Printf("refresh token persist failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Could not create session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"token_type":    "Bearer",
		"access_token":  accessToken,
		"refresh_token": refreshToken,
		"user": gin.H{
			"id":              profile.ID,
			"email":           profile.Email,
			"username":        profile.Username,
			"alias_finalized": profile.AliasFinalized,
		},
	})
}
