package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/luffy229/blog-omnify/internal/middleware"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// actorID returns the authenticated user's ObjectID from the JWT claims.
func actorID(c echo.Context) (primitive.ObjectID, error) {
	id := middleware.UserIDFromContext(c)
	if id == "" {
		return primitive.NilObjectID, echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, echo.NewHTTPError(http.StatusUnauthorized, "Invalid user identity")
	}
	return objID, nil
}

// paginationParams reads page/limit query params with the original defaults.
func paginationParams(c echo.Context) (page, pageSize int64) {
	page, _ = strconv.ParseInt(c.QueryParam("page"), 10, 64)
	if page < 1 {
		page = 1
	}
	pageSize, _ = strconv.ParseInt(c.QueryParam("limit"), 10, 64)
	if pageSize < 1 {
		pageSize = 10
	}
	return page, pageSize
}
