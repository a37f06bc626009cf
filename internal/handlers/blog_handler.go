package handlers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/luffy229/blog-omnify/internal/models"
	"github.com/luffy229/blog-omnify/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BlogHandler handles HTTP requests for the blog aggregate: CRUD, likes,
// comments and replies. Every nested mutation loads the blog document,
// changes it in memory and writes it back.
type BlogHandler struct {
	blogRepository         repositories.BlogRepository
	userRepository         repositories.UserRepository
	notificationRepository repositories.NotificationRepository
}

// NewBlogHandler creates a new BlogHandler
func NewBlogHandler(blogRepo repositories.BlogRepository, userRepo repositories.UserRepository, notifRepo repositories.NotificationRepository) *BlogHandler {
	return &BlogHandler{
		blogRepository:         blogRepo,
		userRepository:         userRepo,
		notificationRepository: notifRepo,
	}
}

// RegisterPublicRoutes registers the blog routes that require no token
func (h *BlogHandler) RegisterPublicRoutes(g *echo.Group) {
	g.GET("/blogs", h.GetBlogs)
	g.GET("/blogs/:id", h.GetBlog)
	g.GET("/blogs/user/:id", h.GetBlogsByUser)
}

// RegisterProtectedRoutes registers the blog routes behind JWT auth
func (h *BlogHandler) RegisterProtectedRoutes(g *echo.Group) {
	g.POST("/blogs", h.CreateBlog)
	g.PUT("/blogs/:id", h.UpdateBlog)
	g.DELETE("/blogs/:id", h.DeleteBlog)
	g.GET("/blogs/user", h.GetMyBlogs)
	g.POST("/blogs/:id/like", h.ToggleLike)
	g.GET("/blogs/:id/like/check", h.CheckLikeStatus)
	g.POST("/blogs/:id/comments", h.AddComment)
	g.DELETE("/blogs/:id/comments/:commentId", h.DeleteComment)
	g.POST("/blogs/:id/comments/:commentId/replies", h.AddReply)
	g.DELETE("/blogs/:id/comments/:commentId/replies/:replyId", h.DeleteReply)
}

// CreateBlog creates a new blog post
func (h *BlogHandler) CreateBlog(c echo.Context) error {
	userID, err := actorID(c)
	if err != nil {
		return err
	}

	var req models.CreateBlogRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	blog := &models.Blog{
		Title:    req.Title,
		Content:  req.Content,
		Author:   userID,
		Likes:    []primitive.ObjectID{},
		Comments: []models.Comment{},
		ReadTime: models.EstimateReadTime(req.Content),
	}

	if err := h.blogRepository.CreateBlog(c.Request().Context(), blog); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, blog)
}

// GetBlogs returns all blogs newest-first with pagination info
func (h *BlogHandler) GetBlogs(c echo.Context) error {
	page, pageSize := paginationParams(c)

	count, err := h.blogRepository.CountBlogs(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	blogs, err := h.blogRepository.GetAllBlogs(c.Request().Context(), pageSize*(page-1), pageSize)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, paginatedBlogs(blogs, page, pageSize, count))
}

// GetBlog returns a single blog. Every read increments the view counter,
// repeated reads by the same viewer included.
func (h *BlogHandler) GetBlog(c echo.Context) error {
	blog, err := h.blogRepository.GetBlogByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		if err == repositories.ErrNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Blog not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	blog.ViewCount++
	if err := h.blogRepository.SaveBlog(c.Request().Context(), blog); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, blog)
}

// UpdateBlog updates a blog's title and content. Author only.
func (h *BlogHandler) UpdateBlog(c echo.Context) error {
	userID, err := actorID(c)
	if err != nil {
		return err
	}

	var req models.UpdateBlogRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	blog, err := h.blogRepository.GetBlogByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		if err == repositories.ErrNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Blog not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if blog.Author != userID {
		return echo.NewHTTPError(http.StatusForbidden, "User not authorized to update this blog")
	}

	if req.Title != "" {
		blog.Title = req.Title
	}
	if req.Content != "" {
		blog.Content = req.Content
		blog.ReadTime = models.EstimateReadTime(req.Content)
	}

	if err := h.blogRepository.SaveBlog(c.Request().Context(), blog); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, blog)
}

// DeleteBlog deletes a blog. Author only.
func (h *BlogHandler) DeleteBlog(c echo.Context) error {
	userID, err := actorID(c)
	if err != nil {
		return err
	}

	blog, err := h.blogRepository.GetBlogByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		if err == repositories.ErrNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Blog not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if blog.Author != userID {
		return echo.NewHTTPError(http.StatusForbidden, "User not authorized to delete this blog")
	}

	if err := h.blogRepository.DeleteBlog(c.Request().Context(), blog.ID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Blog removed"})
}

// GetMyBlogs returns the authenticated user's blogs with pagination
func (h *BlogHandler) GetMyBlogs(c echo.Context) error {
	userID, err := actorID(c)
	if err != nil {
		return err
	}
	return h.listByAuthor(c, userID)
}

// GetBlogsByUser returns another user's blogs with pagination
func (h *BlogHandler) GetBlogsByUser(c echo.Context) error {
	authorID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}
	return h.listByAuthor(c, authorID)
}

func (h *BlogHandler) listByAuthor(c echo.Context, authorID primitive.ObjectID) error {
	page, pageSize := paginationParams(c)

	count, err := h.blogRepository.CountBlogsByAuthor(c.Request().Context(), authorID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	blogs, err := h.blogRepository.GetBlogsByAuthor(c.Request().Context(), authorID, pageSize*(page-1), pageSize)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, paginatedBlogs(blogs, page, pageSize, count))
}

func paginatedBlogs(blogs []models.Blog, page, pageSize, count int64) echo.Map {
	pages := count / pageSize
	if count%pageSize != 0 {
		pages++
	}
	return echo.Map{
		"blogs":      blogs,
		"page":       page,
		"pages":      pages,
		"totalBlogs": count,
		"hasMore":    pageSize*page < count,
	}
}

// ToggleLike flips the caller's like on a blog. A like notification goes to
// the author only on the add transition, and never for self-likes.
func (h *BlogHandler) ToggleLike(c echo.Context) error {
	user, err := h.currentUser(c)
	if err != nil {
		return err
	}

	blog, err := h.blogRepository.GetBlogByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		if err == repositories.ErrNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Blog not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	isLiked := blog.ToggleLike(user.ID)

	if err := h.blogRepository.SaveBlog(c.Request().Context(), blog); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if isLiked {
		h.notify(c.Request().Context(), blog.Author, user.ID, blog.ID, models.NotificationTypeLike,
			fmt.Sprintf("%s liked your blog %q", user.Name, blog.Title))
	}

	return c.JSON(http.StatusOK, echo.Map{
		"likes":      blog.Likes,
		"likesCount": len(blog.Likes),
		"isLiked":    isLiked,
	})
}

// CheckLikeStatus reports whether the caller has liked the blog
func (h *BlogHandler) CheckLikeStatus(c echo.Context) error {
	userID, err := actorID(c)
	if err != nil {
		return err
	}

	blog, err := h.blogRepository.GetBlogByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		if err == repositories.ErrNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Blog not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"isLiked":    blog.HasLiked(userID),
		"likesCount": len(blog.Likes),
	})
}

// AddComment prepends a comment to a blog and notifies the author
func (h *BlogHandler) AddComment(c echo.Context) error {
	user, err := h.currentUser(c)
	if err != nil {
		return err
	}

	var req models.CommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if strings.TrimSpace(req.Text) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Comment text is required")
	}

	blog, err := h.blogRepository.GetBlogByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		if err == repositories.ErrNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Blog not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	blog.AddComment(user.ID, user.Name, req.Text)

	if err := h.blogRepository.SaveBlog(c.Request().Context(), blog); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.notify(c.Request().Context(), blog.Author, user.ID, blog.ID, models.NotificationTypeComment,
		fmt.Sprintf("%s commented on your blog %q", user.Name, blog.Title))

	return c.JSON(http.StatusCreated, blog.Comments)
}

// DeleteComment removes a comment and all of its replies. Allowed for the
// comment author and the blog author.
func (h *BlogHandler) DeleteComment(c echo.Context) error {
	userID, err := actorID(c)
	if err != nil {
		return err
	}

	blog, err := h.blogRepository.GetBlogByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		if err == repositories.ErrNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Blog not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	commentID, err := primitive.ObjectIDFromHex(c.Param("commentId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Comment not found")
	}

	comment := blog.FindComment(commentID)
	if comment == nil {
		return echo.NewHTTPError(http.StatusNotFound, "Comment not found")
	}

	if comment.User != userID && blog.Author != userID {
		return echo.NewHTTPError(http.StatusForbidden, "Not authorized to delete this comment")
	}

	blog.RemoveComment(commentID)

	if err := h.blogRepository.SaveBlog(c.Request().Context(), blog); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, blog.Comments)
}

// AddReply appends a reply to a comment. Notifies the blog author and the
// comment author, skipping the replier themselves and duplicates.
func (h *BlogHandler) AddReply(c echo.Context) error {
	user, err := h.currentUser(c)
	if err != nil {
		return err
	}

	var req models.CommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if strings.TrimSpace(req.Text) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Reply text is required")
	}

	blog, err := h.blogRepository.GetBlogByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		if err == repositories.ErrNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Blog not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	commentID, err := primitive.ObjectIDFromHex(c.Param("commentId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Comment not found")
	}

	comment := blog.FindComment(commentID)
	if comment == nil {
		return echo.NewHTTPError(http.StatusNotFound, "Comment not found")
	}

	comment.AddReply(user.ID, user.Name, req.Text)

	if err := h.blogRepository.SaveBlog(c.Request().Context(), blog); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.notify(c.Request().Context(), blog.Author, user.ID, blog.ID, models.NotificationTypeReply,
		fmt.Sprintf("%s replied to a comment on your blog %q", user.Name, blog.Title))

	// The comment author gets their own notification unless they are the blog
	// author, who was just notified above.
	if comment.User != blog.Author {
		h.notify(c.Request().Context(), comment.User, user.ID, blog.ID, models.NotificationTypeReply,
			fmt.Sprintf("%s replied to your comment on %q", user.Name, blog.Title))
	}

	return c.JSON(http.StatusCreated, comment)
}

// DeleteReply removes a single reply, leaving its siblings intact. Allowed
// for the reply author, the comment author and the blog author.
func (h *BlogHandler) DeleteReply(c echo.Context) error {
	userID, err := actorID(c)
	if err != nil {
		return err
	}

	blog, err := h.blogRepository.GetBlogByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		if err == repositories.ErrNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Blog not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	commentID, err := primitive.ObjectIDFromHex(c.Param("commentId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Comment not found")
	}

	comment := blog.FindComment(commentID)
	if comment == nil {
		return echo.NewHTTPError(http.StatusNotFound, "Comment not found")
	}

	replyID, err := primitive.ObjectIDFromHex(c.Param("replyId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Reply not found")
	}

	reply := comment.FindReply(replyID)
	if reply == nil {
		return echo.NewHTTPError(http.StatusNotFound, "Reply not found")
	}

	if reply.User != userID && comment.User != userID && blog.Author != userID {
		return echo.NewHTTPError(http.StatusForbidden, "Not authorized to delete this reply")
	}

	comment.RemoveReply(replyID)

	if err := h.blogRepository.SaveBlog(c.Request().Context(), blog); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, comment)
}

// currentUser loads the full user document for the authenticated caller.
// Needed wherever the denormalized author name is written.
func (h *BlogHandler) currentUser(c echo.Context) (*models.User, error) {
	userID, err := actorID(c)
	if err != nil {
		return nil, err
	}
	user, err := h.userRepository.GetUserByID(c.Request().Context(), userID.Hex())
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "Authenticated user not found")
	}
	return user, nil
}

// notify persists a notification unless the actor is the recipient.
// Notification failures never fail the interaction itself.
func (h *BlogHandler) notify(ctx context.Context, recipient, sender, blogID primitive.ObjectID, notifType, text string) {
	if recipient == sender {
		return
	}
	notification := &models.Notification{
		Recipient: recipient,
		Sender:    sender,
		Blog:      blogID,
		Type:      notifType,
		Text:      text,
	}
	if err := h.notificationRepository.CreateNotification(ctx, notification); err != nil {
		log.Printf("Error creating notification: %v", err)
	}
}
