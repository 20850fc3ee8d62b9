package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
	"net/http" // HTTP status codes for responses
	"strings"  // string utilities for prefix checking and trimming

	"github.com/labstack/echo/v4" // Echo framework used for defining middleware and handlers

	"github.com/starshade/online-store/internal/utils"
)

// JWTAuth returns an Echo middleware that validates a Bearer access token
// and injects the token's subject into the request context.  The provided
// secret must match the one used when issuing tokens.  This middleware
// wraps every protected route, so a request with a missing or bad token is
// rejected before any store is touched.  Handlers read the authenticated
// user via `c.Get("user_id")`.
//
// A missing header yields 401; a present but invalid or expired token
// yields 403.  The split mirrors the API's long-standing contract.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Unauthorized"})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			uid, err := utils.UserIDFromToken(secret, raw)
			if err != nil {
				return c.JSON(http.StatusForbidden, echo.Map{"message": "Invalid token"})
			}

			c.Set("user_id", uid)
			return next(c)
		}
	}
}
