package handlers

import (
	"context"
	"sort"
	"time"

	"github.com/luffy229/blog-omnify/internal/models"
	"github.com/luffy229/blog-omnify/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory repository fakes used by the handler tests. They reproduce the
// Mongo repositories' read-modify-write contract: reads hand out copies and
// SaveBlog replaces the stored document wholesale.

type fakeUserRepo struct {
	users map[primitive.ObjectID]models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[primitive.ObjectID]models.User)}
}

func (r *fakeUserRepo) CreateUser(_ context.Context, user *models.User) error {
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()
	r.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) GetUserByID(_ context.Context, id string) (*models.User, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repositories.ErrNotFound
	}
	user, ok := r.users[objID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &user, nil
}

func (r *fakeUserRepo) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeUserRepo) UpdateUser(_ context.Context, user *models.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return repositories.ErrNotFound
	}
	r.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) DeleteUser(_ context.Context, id primitive.ObjectID) error {
	if _, ok := r.users[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.users, id)
	return nil
}

type fakeBlogRepo struct {
	blogs map[primitive.ObjectID]models.Blog
}

func newFakeBlogRepo() *fakeBlogRepo {
	return &fakeBlogRepo{blogs: make(map[primitive.ObjectID]models.Blog)}
}

func (r *fakeBlogRepo) CreateBlog(_ context.Context, blog *models.Blog) error {
	blog.ID = primitive.NewObjectID()
	blog.CreatedAt = time.Now()
	blog.UpdatedAt = time.Now()
	r.blogs[blog.ID] = *blog
	return nil
}

func (r *fakeBlogRepo) GetBlogByID(_ context.Context, id string) (*models.Blog, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repositories.ErrNotFound
	}
	blog, ok := r.blogs[objID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &blog, nil
}

func (r *fakeBlogRepo) sorted(filter func(models.Blog) bool) []models.Blog {
	blogs := []models.Blog{}
	for _, blog := range r.blogs {
		if filter(blog) {
			blogs = append(blogs, blog)
		}
	}
	sort.Slice(blogs, func(i, j int) bool {
		return blogs[i].CreatedAt.After(blogs[j].CreatedAt)
	})
	return blogs
}

func paginate(blogs []models.Blog, skip, limit int64) []models.Blog {
	if skip >= int64(len(blogs)) {
		return []models.Blog{}
	}
	blogs = blogs[skip:]
	if limit < int64(len(blogs)) {
		blogs = blogs[:limit]
	}
	return blogs
}

func (r *fakeBlogRepo) GetAllBlogs(_ context.Context, skip, limit int64) ([]models.Blog, error) {
	return paginate(r.sorted(func(models.Blog) bool { return true }), skip, limit), nil
}

func (r *fakeBlogRepo) GetBlogsByAuthor(_ context.Context, authorID primitive.ObjectID, skip, limit int64) ([]models.Blog, error) {
	return paginate(r.sorted(func(b models.Blog) bool { return b.Author == authorID }), skip, limit), nil
}

func (r *fakeBlogRepo) CountBlogs(_ context.Context) (int64, error) {
	return int64(len(r.blogs)), nil
}

func (r *fakeBlogRepo) CountBlogsByAuthor(_ context.Context, authorID primitive.ObjectID) (int64, error) {
	var count int64
	for _, blog := range r.blogs {
		if blog.Author == authorID {
			count++
		}
	}
	return count, nil
}

func (r *fakeBlogRepo) SaveBlog(_ context.Context, blog *models.Blog) error {
	if _, ok := r.blogs[blog.ID]; !ok {
		return repositories.ErrNotFound
	}
	blog.UpdatedAt = time.Now()
	r.blogs[blog.ID] = *blog
	return nil
}

func (r *fakeBlogRepo) DeleteBlog(_ context.Context, id primitive.ObjectID) error {
	if _, ok := r.blogs[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.blogs, id)
	return nil
}

func (r *fakeBlogRepo) DeleteBlogsByAuthor(_ context.Context, authorID primitive.ObjectID) error {
	for id, blog := range r.blogs {
		if blog.Author == authorID {
			delete(r.blogs, id)
		}
	}
	return nil
}

func (r *fakeBlogRepo) GetBlogsWithUserActivity(_ context.Context, userID primitive.ObjectID) ([]models.Blog, error) {
	return r.sorted(func(b models.Blog) bool {
		if b.HasLiked(userID) {
			return true
		}
		for _, comment := range b.Comments {
			if comment.User == userID {
				return true
			}
			for _, reply := range comment.Replies {
				if reply.User == userID {
					return true
				}
			}
		}
		return false
	}), nil
}

type fakeNotificationRepo struct {
	notifications []models.Notification
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{}
}

func (r *fakeNotificationRepo) CreateNotification(_ context.Context, notification *models.Notification) error {
	notification.ID = primitive.NewObjectID()
	notification.CreatedAt = time.Now()
	r.notifications = append(r.notifications, *notification)
	return nil
}

func (r *fakeNotificationRepo) GetNotificationByID(_ context.Context, id string) (*models.Notification, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repositories.ErrNotFound
	}
	for _, n := range r.notifications {
		if n.ID == objID {
			notification := n
			return &notification, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeNotificationRepo) GetByRecipient(_ context.Context, recipientID primitive.ObjectID) ([]models.Notification, error) {
	result := []models.Notification{}
	for _, n := range r.notifications {
		if n.Recipient == recipientID {
			result = append(result, n)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (r *fakeNotificationRepo) GetUnreadCount(_ context.Context, recipientID primitive.ObjectID) (int64, error) {
	var count int64
	for _, n := range r.notifications {
		if n.Recipient == recipientID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (r *fakeNotificationRepo) MarkAsRead(_ context.Context, id primitive.ObjectID) error {
	for i := range r.notifications {
		if r.notifications[i].ID == id {
			r.notifications[i].IsRead = true
		}
	}
	return nil
}

func (r *fakeNotificationRepo) MarkAllAsRead(_ context.Context, recipientID primitive.ObjectID) error {
	for i := range r.notifications {
		if r.notifications[i].Recipient == recipientID {
			r.notifications[i].IsRead = true
		}
	}
	return nil
}

func (r *fakeNotificationRepo) DeleteNotification(_ context.Context, id primitive.ObjectID) error {
	for i := range r.notifications {
		if r.notifications[i].ID == id {
			r.notifications = append(r.notifications[:i], r.notifications[i+1:]...)
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (r *fakeNotificationRepo) DeleteByUser(_ context.Context, userID primitive.ObjectID) error {
	kept := r.notifications[:0]
	for _, n := range r.notifications {
		if n.Recipient != userID && n.Sender != userID {
			kept = append(kept, n)
		}
	}
	r.notifications = kept
	return nil
}
