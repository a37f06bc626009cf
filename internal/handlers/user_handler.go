package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/luffy229/blog-omnify/internal/models"
	"github.com/luffy229/blog-omnify/internal/repositories"
	"golang.org/x/crypto/bcrypt"
)

// UserHandler handles profile reads/edits and the account deletion cascade
type UserHandler struct {
	userRepository         repositories.UserRepository
	blogRepository         repositories.BlogRepository
	notificationRepository repositories.NotificationRepository
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userRepo repositories.UserRepository, blogRepo repositories.BlogRepository, notifRepo repositories.NotificationRepository) *UserHandler {
	return &UserHandler{
		userRepository:         userRepo,
		blogRepository:         blogRepo,
		notificationRepository: notifRepo,
	}
}

// RegisterPublicRoutes registers the public user routes
func (h *UserHandler) RegisterPublicRoutes(g *echo.Group) {
	g.GET("/users/:id", h.GetUser)
}

// RegisterProfileRoutes registers the profile routes behind JWT auth
func (h *UserHandler) RegisterProfileRoutes(g *echo.Group) {
	g.GET("/users/profile", h.GetProfile)
	g.PUT("/users/profile", h.UpdateProfile)
	g.DELETE("/users/profile", h.DeleteProfile)
}

// GetUser returns the public subset of another user's profile
func (h *UserHandler) GetUser(c echo.Context) error {
	user, err := h.userRepository.GetUserByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		if err == repositories.ErrNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, user.ToPublicProfile())
}

// GetProfile returns the authenticated user's own profile
func (h *UserHandler) GetProfile(c echo.Context) error {
	user, err := h.currentUser(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user.ToAuthResponse(""))
}

// UpdateProfile updates the authenticated user's profile. A password change
// requires the current password to be supplied and correct.
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	user, err := h.currentUser(c)
	if err != nil {
		return err
	}

	var req models.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if req.Password != "" {
		if req.CurrentPassword == "" {
			return echo.NewHTTPError(http.StatusBadRequest, "Current password is required to set a new password")
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)); err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "Current password is incorrect")
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to hash password")
		}
		user.Password = string(hashed)
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Email != "" {
		user.Email = req.Email
	}
	if req.Avatar != "" {
		user.Avatar = req.Avatar
	}
	if req.Bio != "" {
		user.Bio = req.Bio
	}
	if req.Location != "" {
		user.Location = req.Location
	}

	if err := h.userRepository.UpdateUser(c.Request().Context(), user); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	token, err := GenerateJWT(user)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate token")
	}

	return c.JSON(http.StatusOK, user.ToAuthResponse(token))
}

// DeleteProfile deletes the account and cascades over the user's footprint:
// authored blogs, notifications in either direction, and the user's comments,
// replies and likes on everyone else's blogs. The steps run without a
// transaction; a failure partway leaves the earlier deletions in place.
func (h *UserHandler) DeleteProfile(c echo.Context) error {
	user, err := h.currentUser(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	if err := h.blogRepository.DeleteBlogsByAuthor(ctx, user.ID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := h.notificationRepository.DeleteByUser(ctx, user.ID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	blogs, err := h.blogRepository.GetBlogsWithUserActivity(ctx, user.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	for i := range blogs {
		blogs[i].StripUserContent(user.ID)
		if err := h.blogRepository.SaveBlog(ctx, &blogs[i]); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	if err := h.userRepository.DeleteUser(ctx, user.ID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "User account and all associated data deleted successfully"})
}

func (h *UserHandler) currentUser(c echo.Context) (*models.User, error) {
	userID, err := actorID(c)
	if err != nil {
		return nil, err
	}
	user, err := h.userRepository.GetUserByID(c.Request().Context(), userID.Hex())
	if err != nil {
		if err == repositories.ErrNotFound {
			return nil, echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return nil, echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return user, nil
}
