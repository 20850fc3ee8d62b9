package handler // handler defines http handlers

import (
	"errors"  // errors provides sentinel values used in getUserID
	"strconv" // strconv converts strings to numeric types

	"github.com/labstack/echo/v4" // echo defines request context types
)

// getUserID extracts the user_id from echo.Context and converts it to uint64
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// parsePagination reads ?page= and ?limit= query parameters.  Absent or
// non-numeric values fall back to page 1 and limit 10; values below 1 are
// clamped the same way.
func parsePagination(c echo.Context) (page, limit int) {
	page, limit = 1, 10
	if n, err := strconv.Atoi(c.QueryParam("page")); err == nil && n >= 1 {
		page = n
	}
	if n, err := strconv.Atoi(c.QueryParam("limit")); err == nil && n >= 1 {
		limit = n
	}
	return page, limit
}
