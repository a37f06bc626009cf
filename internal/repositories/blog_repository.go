package repositories

import (
	"context"
	"time"

	"github.com/luffy229/blog-omnify/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// BlogRepository defines the interface for blog data operations
type BlogRepository interface {
	CreateBlog(ctx context.Context, blog *models.Blog) error
	GetBlogByID(ctx context.Context, id string) (*models.Blog, error)
	GetAllBlogs(ctx context.Context, skip, limit int64) ([]models.Blog, error)
	GetBlogsByAuthor(ctx context.Context, authorID primitive.ObjectID, skip, limit int64) ([]models.Blog, error)
	CountBlogs(ctx context.Context) (int64, error)
	CountBlogsByAuthor(ctx context.Context, authorID primitive.ObjectID) (int64, error)
	SaveBlog(ctx context.Context, blog *models.Blog) error
	DeleteBlog(ctx context.Context, id primitive.ObjectID) error
	DeleteBlogsByAuthor(ctx context.Context, authorID primitive.ObjectID) error
	GetBlogsWithUserActivity(ctx context.Context, userID primitive.ObjectID) ([]models.Blog, error)
}

// MongoBlogRepository implements BlogRepository for MongoDB
type MongoBlogRepository struct {
	collection *mongo.Collection
}

// NewMongoBlogRepository creates a new MongoBlogRepository
func NewMongoBlogRepository(db *mongo.Database) *MongoBlogRepository {
	return &MongoBlogRepository{collection: db.Collection("blogs")}
}

// CreateBlog inserts a new blog document
func (r *MongoBlogRepository) CreateBlog(ctx context.Context, blog *models.Blog) error {
	blog.ID = primitive.NewObjectID()
	blog.CreatedAt = time.Now()
	blog.UpdatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, blog)
	return err
}

// GetBlogByID retrieves a blog by its hex id. A malformed id is reported as
// ErrNotFound, matching the external contract for bad identifiers.
func (r *MongoBlogRepository) GetBlogByID(ctx context.Context, id string) (*models.Blog, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	var blog models.Blog
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&blog)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &blog, nil
}

// GetAllBlogs retrieves blogs newest-first with skip/limit pagination
func (r *MongoBlogRepository) GetAllBlogs(ctx context.Context, skip, limit int64) ([]models.Blog, error) {
	return r.findBlogs(ctx, bson.M{}, skip, limit)
}

// GetBlogsByAuthor retrieves one author's blogs newest-first with pagination
func (r *MongoBlogRepository) GetBlogsByAuthor(ctx context.Context, authorID primitive.ObjectID, skip, limit int64) ([]models.Blog, error) {
	return r.findBlogs(ctx, bson.M{"author": authorID}, skip, limit)
}

func (r *MongoBlogRepository) findBlogs(ctx context.Context, filter bson.M, skip, limit int64) ([]models.Blog, error) {
	blogs := []models.Blog{}
	findOptions := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &blogs); err != nil {
		return nil, err
	}
	return blogs, nil
}

// CountBlogs returns the total number of blogs
func (r *MongoBlogRepository) CountBlogs(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}

// CountBlogsByAuthor returns the number of blogs authored by one user
func (r *MongoBlogRepository) CountBlogsByAuthor(ctx context.Context, authorID primitive.ObjectID) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"author": authorID})
}

// SaveBlog writes the full blog document back unconditionally. Last writer
// wins under concurrent edits; there is no version check.
func (r *MongoBlogRepository) SaveBlog(ctx context.Context, blog *models.Blog) error {
	blog.UpdatedAt = time.Now()
	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": blog.ID}, blog)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteBlog deletes a blog by id
func (r *MongoBlogRepository) DeleteBlog(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteBlogsByAuthor deletes every blog authored by the given user
func (r *MongoBlogRepository) DeleteBlogsByAuthor(ctx context.Context, authorID primitive.ObjectID) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"author": authorID})
	return err
}

// GetBlogsWithUserActivity finds blogs where the user appears as a commenter,
// a replier, or in the likes set. Used by the account deletion cascade.
func (r *MongoBlogRepository) GetBlogsWithUserActivity(ctx context.Context, userID primitive.ObjectID) ([]models.Blog, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"comments.user": userID},
		bson.M{"comments.replies.user": userID},
		bson.M{"likes": userID},
	}}

	blogs := []models.Blog{}
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &blogs); err != nil {
		return nil, err
	}
	return blogs, nil
}
