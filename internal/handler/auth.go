package handler

import (
	"context"  // provides context with cancellation for DB calls
	"errors"   // sentinel comparisons with errors.Is
	"net/http" // HTTP status codes and primitives
	"strings"  // string manipulation utilities
	"time"     // timeouts for DB calls

	"github.com/labstack/echo/v4" // Echo framework for HTTP routing
	"github.com/rs/zerolog"       // structured logging

	"github.com/starshade/online-store/internal/config"     // app configuration
	"github.com/starshade/online-store/internal/repository" // DB repositories
	"github.com/starshade/online-store/internal/utils"      // helper functions (hashing, token issuing)
)

// AuthHandler bundles dependencies for registration and login endpoints.
type AuthHandler struct {
	Cfg   config.Config
	Users *repository.UserRepo
	Log   zerolog.Logger
}

func NewAuthHandler(cfg config.Config, users *repository.UserRepo, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: users, Log: log}
}

// ----- DTOs -----

type credentialsReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// validateCredentials applies the registration field rules and returns one
// message per failing field, in the order the fields are declared.
func validateCredentials(username, password string) []string {
	var errs []string
	if len(username) < 3 {
		errs = append(errs, "username must be at least 3 characters")
	}
	if len(password) < 6 {
		errs = append(errs, "password must be at least 6 characters")
	}
	return errs
}

// Register handles POST /api/users/register.  Field validation failures
// come back as a 400 with an errors list; a taken username is a 409.
func (h *AuthHandler) Register(c echo.Context) error {
	var req credentialsReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid request body"})
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Password = strings.TrimSpace(req.Password)
	if errs := validateCredentials(req.Username, req.Password); len(errs) > 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"errors": errs})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Users.Create(ctx, req.Username, req.Password, h.Cfg.BcryptCost); err != nil {
		if errors.Is(err, repository.ErrUsernameExists) {
			return c.JSON(http.StatusConflict, echo.Map{"message": "Username is already taken"})
		}
		h.Log.Error().Err(err).Str("username", req.Username).Msg("register failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error registering user"})
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "User registered successfully"})
}

// Login handles POST /api/users/login.  An unknown username and a wrong
// password produce the same 401 body so callers cannot probe which
// usernames exist.
func (h *AuthHandler) Login(c echo.Context) error {
	var req credentialsReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid request body"})
	}
	req.Username = strings.TrimSpace(req.Username)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Invalid username or password"})
		}
		h.Log.Error().Err(err).Msg("login query failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error logging in"})
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Invalid username or password"})
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, h.Cfg.AccessTTLMin)
	if err != nil {
		h.Log.Error().Err(err).Msg("issue access token failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error logging in"})
	}

	return c.JSON(http.StatusOK, echo.Map{"token": access.Token})
}
