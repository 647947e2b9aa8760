package auth

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"CampusPlacement-backend/internal/database"
	"CampusPlacement-backend/internal/model"
	"CampusPlacement-backend/internal/utilities"
)

// LocalAuthHandler holds DB reference for handler methods.
type LocalAuthHandler struct {
	DB *database.DBinstanceStruct
}

// NewLocalAuthHandler creates a new instance of LocalAuthHandler with the provided database connection.
func NewLocalAuthHandler(db *database.DBinstanceStruct) *LocalAuthHandler {
	return &LocalAuthHandler{
		DB: db,
	}
}

type registerInfo struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Email    string `json:"email" binding:"required,email"`

	model.EditableStudentInfo
}

type loginInfo struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type tokenResponse struct {
	User        model.User `json:"user"`
	AccessToken string     `json:"access_token"`
}

// RegisterHandler handles student registration by receiving username,
// password, email and profile fields. Admin accounts are seeded, never
// registered.
// @Summary Register a student account with its placement profile
// @Description Username must not already exist and password must be at least 8 characters long
// @Tags Auth
// @Accept json
// @Produce json
// @Param Info body registerInfo true "Account and profile information"
// @Success 201 {object} utilities.APIResponse "Created account, profile and access token"
// @Failure 400 {object} utilities.APIResponse "Info provided not met the condition"
// @Failure 500 {object} utilities.APIResponse "Database or password hashing error"
// @Router /auth/register [post]
func (lh *LocalAuthHandler) RegisterHandler(c *gin.Context) {
	var info registerInfo

	if err := c.ShouldBindJSON(&info); err != nil {
		utilities.Fail(c, http.StatusBadRequest, "Username, password, and a valid email must be provided")
		return
	}

	var user model.User
	err := lh.DB.Where("username = ?", info.Username).First(&user).Error

	switch {
	case err == nil:
		utilities.Fail(c, http.StatusBadRequest, "Username already exist")
		return

	case errors.Is(err, gorm.ErrRecordNotFound):
		// Do nothing

	default:
		utilities.Fail(c, http.StatusInternalServerError, fmt.Sprintf("Database error: %s", err.Error()))
		return
	}

	if len(info.Password) < 8 {
		utilities.Fail(c, http.StatusBadRequest, "Password should longer or equal to 8 characters")
		return
	}

	hashedPassword, err := utilities.HashPassword(info.Password)
	if err != nil {
		utilities.Fail(c, http.StatusInternalServerError, fmt.Sprintf("Failed hash password: %s", err.Error()))
		return
	}

	profile := model.StudentProfile{
		User: model.User{
			Username: info.Username,
			Email:    &info.Email,
			Password: hashedPassword,
			Role:     model.RoleStudent,
		},
		EditableStudentInfo: info.EditableStudentInfo,
	}
	if err := lh.DB.Create(&profile).Error; err != nil {
		utilities.Fail(c, http.StatusInternalServerError, fmt.Sprintf("Failed to create user: %s", err.Error()))
		return
	}

	accessToken, err := generateToken(profile.UserID)
	if err != nil {
		utilities.Fail(c, http.StatusInternalServerError, fmt.Sprintf("Failed to generate access token: %s", err.Error()))
		return
	}

	utilities.Respond(c, http.StatusCreated, tokenResponse{
		User:        profile.User,
		AccessToken: accessToken,
	})
}

// LoginHandler handles local login by receiving username and password.
// @Summary Exchange username and password for an access token
// @Tags Auth
// @Accept json
// @Produce json
// @Param Info body loginInfo true "Credentials"
// @Success 200 {object} utilities.APIResponse "User and access token"
// @Failure 400 {object} utilities.APIResponse "Missing credentials"
// @Failure 401 {object} utilities.APIResponse "Wrong username or password"
// @Router /auth/login [post]
func (lh *LocalAuthHandler) LoginHandler(c *gin.Context) {
	var info loginInfo

	if err := c.ShouldBindJSON(&info); err != nil {
		utilities.Fail(c, http.StatusBadRequest, "Username or password is not provided")
		return
	}

	var user model.User
	err := lh.DB.Where("username = ?", info.Username).First(&user).Error

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		utilities.Fail(c, http.StatusUnauthorized, "Username or password is incorrect")
		return

	case err == nil:
		// Do nothing

	default:
		utilities.Fail(c, http.StatusInternalServerError, fmt.Sprintf("Database error: %s", err.Error()))
		return
	}

	if user.Password == "" || !utilities.VerifyPassword(info.Password, user.Password) {
		utilities.Fail(c, http.StatusUnauthorized, "Username or password is incorrect")
		return
	}

	accessToken, err := generateToken(user.ID)
	if err != nil {
		utilities.Fail(c, http.StatusInternalServerError, fmt.Sprintf("Failed to generate access token: %s", err.Error()))
		return
	}

	utilities.Respond(c, http.StatusOK, tokenResponse{
		User:        user,
		AccessToken: accessToken,
	})
}
