package handler

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"thyroscan/internal/auth"
	apperrors "thyroscan/internal/errors"
	"thyroscan/internal/model"
	"thyroscan/internal/service"
)

// AuthHandler handles the account lifecycle endpoints.
type AuthHandler struct {
	userService service.UserService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(userService service.UserService) *AuthHandler {
	return &AuthHandler{userService: userService}
}

// signupJSONRequest is the JSON shape of a signup request.
type signupJSONRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Gender    string `json:"gender"`
	Phone     string `json:"phone"`
}

// LoginRequest represents a login request.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UserSummary is the client-facing view of a user. The password hash never
// appears here.
type UserSummary struct {
	FirstName    string  `json:"firstName"`
	LastName     string  `json:"lastName"`
	Email        string  `json:"email"`
	Gender       string  `json:"gender,omitempty"`
	Phone        string  `json:"phone,omitempty"`
	ProfileImage *string `json:"profileImage"`
}

// AuthResponse carries a user summary and bearer token.
type AuthResponse struct {
	User  UserSummary `json:"user"`
	Token string      `json:"token"`
}

func newUserSummary(user *model.User) UserSummary {
	summary := UserSummary{
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
		Gender:    user.Gender,
		Phone:     user.Phone,
	}
	if user.ProfileImage != "" {
		url := uploadURL(user.ProfileImage)
		summary.ProfileImage = &url
	}
	return summary
}

func uploadURL(relPath string) string {
	return "/uploads/" + relPath
}

// parseSignupRequest resolves the two accepted signup shapes, multipart form
// data or JSON, into one input struct at the boundary.
func parseSignupRequest(c echo.Context) (service.SignupInput, error) {
	contentType := c.Request().Header.Get(echo.HeaderContentType)
	if strings.HasPrefix(contentType, echo.MIMEMultipartForm) {
		in := service.SignupInput{
			FirstName: c.FormValue("firstName"),
			LastName:  c.FormValue("lastName"),
			Email:     c.FormValue("email"),
			Password:  c.FormValue("password"),
			Gender:    c.FormValue("gender"),
			Phone:     c.FormValue("phone"),
		}
		if file, err := c.FormFile("profileImage"); err == nil {
			in.ProfileImage = file
		}
		return in, nil
	}

	var req signupJSONRequest
	if err := c.Bind(&req); err != nil {
		return service.SignupInput{}, echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	return service.SignupInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
		Gender:    req.Gender,
		Phone:     req.Phone,
	}, nil
}

// claimEmail extracts the verified identity from the request's bearer token.
func claimEmail(c echo.Context) (string, error) {
	token, ok := c.Get("user").(*jwt.Token)
	if !ok {
		return "", apperrors.ErrUnauthorized
	}
	claims, ok := token.Claims.(*auth.Claims)
	if !ok || claims.Email == "" {
		return "", apperrors.ErrUnauthorized
	}
	return claims.Email, nil
}

func httpError(err error) *echo.HTTPError {
	he := apperrors.MapErrorToHTTP(err)
	return echo.NewHTTPError(he.StatusCode, he.ToErrorResponse())
}

// Signup godoc
// @Summary Register a new user
// @Tags auth
// @Accept json
// @Accept mpfd
// @Produce json
// @Param request body signupJSONRequest true "Signup data"
// @Success 201 {object} AuthResponse
// @Failure 400 {object} errors.ErrorResponse
// @Router /signup [post]
func (h *AuthHandler) Signup(c echo.Context) error {
	in, err := parseSignupRequest(c)
	if err != nil {
		return err
	}

	user, token, err := h.userService.Signup(c.Request().Context(), in)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, AuthResponse{
		User:  newUserSummary(user),
		Token: token,
	})
}

// Login godoc
// @Summary Login with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} AuthResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, token, err := h.userService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, AuthResponse{
		User:  newUserSummary(user),
		Token: token,
	})
}

// UpdateProfile godoc
// @Summary Update the authenticated user's profile
// @Tags auth
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Success 200 {object} AuthResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /update-profile [post]
func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	email, err := claimEmail(c)
	if err != nil {
		return httpError(err)
	}

	in := service.ProfileUpdate{
		FirstName: c.FormValue("firstName"),
		LastName:  c.FormValue("lastName"),
		Gender:    c.FormValue("gender"),
		Phone:     c.FormValue("phone"),
	}
	if file, err := c.FormFile("profileImage"); err == nil {
		in.ProfileImage = file
	}

	user, err := h.userService.UpdateProfile(c.Request().Context(), email, in)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "profile updated successfully",
		"user":    newUserSummary(user),
	})
}

// DeleteAccount godoc
// @Summary Delete the authenticated user's account
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]string
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /delete-account [delete]
func (h *AuthHandler) DeleteAccount(c echo.Context) error {
	email, err := claimEmail(c)
	if err != nil {
		return httpError(err)
	}

	if err := h.userService.DeleteAccount(c.Request().Context(), email); err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "account deleted successfully",
	})
}
