package models

import (
	"math"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// wordsPerMinute is the average reading speed used for read-time estimation.
const wordsPerMinute = 200

// Reply is a reply to a comment, embedded inside the comment document.
// The author name is a snapshot taken at creation time and is not kept
// in sync with later profile edits.
type Reply struct {
	ID        primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	User      primitive.ObjectID `json:"user" bson:"user"`
	Name      string             `json:"name" bson:"name"`
	Text      string             `json:"text" bson:"text"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// Comment is a comment on a blog, embedded inside the blog document.
type Comment struct {
	ID        primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	User      primitive.ObjectID `json:"user" bson:"user"`
	Name      string             `json:"name" bson:"name"`
	Text      string             `json:"text" bson:"text"`
	Replies   []Reply            `json:"replies" bson:"replies"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// Blog is the aggregate root stored in MongoDB. Comments and replies live
// inside the blog document, so every nested mutation is a read-modify-write
// of the whole document.
type Blog struct {
	ID        primitive.ObjectID   `json:"_id,omitempty" bson:"_id,omitempty"`
	Title     string               `json:"title" bson:"title"`
	Content   string               `json:"content" bson:"content"`
	Author    primitive.ObjectID   `json:"author" bson:"author"`
	Likes     []primitive.ObjectID `json:"likes" bson:"likes"`
	Comments  []Comment            `json:"comments" bson:"comments"`
	ViewCount int                  `json:"viewCount" bson:"viewCount"`
	ReadTime  int                  `json:"readTime" bson:"readTime"`
	CreatedAt time.Time            `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time            `json:"updatedAt" bson:"updatedAt"`
}

// CreateBlogRequest defines the request body for creating a blog
type CreateBlogRequest struct {
	Title   string `json:"title" validate:"required"`
	Content string `json:"content" validate:"required"`
}

// UpdateBlogRequest defines the request body for updating a blog
type UpdateBlogRequest struct {
	Title   string `json:"title,omitempty"`
	Content string `json:"content,omitempty"`
}

// CommentRequest defines the request body for comments and replies
type CommentRequest struct {
	Text string `json:"text"`
}

// EstimateReadTime returns the estimated reading time in minutes for the
// given content, never less than one minute.
func EstimateReadTime(content string) int {
	wordCount := len(strings.Fields(content))
	readTime := int(math.Ceil(float64(wordCount) / float64(wordsPerMinute)))
	if readTime < 1 {
		return 1
	}
	return readTime
}

// HasLiked reports whether the given user is in the likes set.
func (b *Blog) HasLiked(userID primitive.ObjectID) bool {
	for _, id := range b.Likes {
		if id == userID {
			return true
		}
	}
	return false
}

// ToggleLike flips the user's membership in the likes set and reports the
// resulting state. Each user appears in the set at most once.
func (b *Blog) ToggleLike(userID primitive.ObjectID) (isLiked bool) {
	if b.HasLiked(userID) {
		filtered := b.Likes[:0]
		for _, id := range b.Likes {
			if id != userID {
				filtered = append(filtered, id)
			}
		}
		b.Likes = filtered
		return false
	}
	b.Likes = append(b.Likes, userID)
	return true
}

// AddComment prepends a new comment so the newest comment comes first.
func (b *Blog) AddComment(userID primitive.ObjectID, name, text string) Comment {
	now := time.Now()
	comment := Comment{
		ID:        primitive.NewObjectID(),
		User:      userID,
		Name:      name,
		Text:      text,
		Replies:   []Reply{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	b.Comments = append([]Comment{comment}, b.Comments...)
	return comment
}

// FindComment returns a pointer to the comment with the given id, or nil.
func (b *Blog) FindComment(commentID primitive.ObjectID) *Comment {
	for i := range b.Comments {
		if b.Comments[i].ID == commentID {
			return &b.Comments[i]
		}
	}
	return nil
}

// RemoveComment deletes the comment with the given id along with all of its
// replies. It reports whether the comment existed.
func (b *Blog) RemoveComment(commentID primitive.ObjectID) bool {
	for i := range b.Comments {
		if b.Comments[i].ID == commentID {
			b.Comments = append(b.Comments[:i], b.Comments[i+1:]...)
			return true
		}
	}
	return false
}

// AddReply appends a reply to the comment, oldest first.
func (c *Comment) AddReply(userID primitive.ObjectID, name, text string) Reply {
	now := time.Now()
	reply := Reply{
		ID:        primitive.NewObjectID(),
		User:      userID,
		Name:      name,
		Text:      text,
		CreatedAt: now,
		UpdatedAt: now,
	}
	c.Replies = append(c.Replies, reply)
	return reply
}

// FindReply returns a pointer to the reply with the given id, or nil.
func (c *Comment) FindReply(replyID primitive.ObjectID) *Reply {
	for i := range c.Replies {
		if c.Replies[i].ID == replyID {
			return &c.Replies[i]
		}
	}
	return nil
}

// RemoveReply deletes a single reply from the comment, leaving its siblings
// intact. It reports whether the reply existed.
func (c *Comment) RemoveReply(replyID primitive.ObjectID) bool {
	for i := range c.Replies {
		if c.Replies[i].ID == replyID {
			c.Replies = append(c.Replies[:i], c.Replies[i+1:]...)
			return true
		}
	}
	return false
}

// StripUserContent removes every trace of the given user from the blog:
// their comments (replies to those comments are lost with them), their
// replies under surviving comments, and their membership in the likes set.
// Used by the account deletion cascade.
func (b *Blog) StripUserContent(userID primitive.ObjectID) {
	comments := b.Comments[:0]
	for _, comment := range b.Comments {
		if comment.User == userID {
			continue
		}
		replies := comment.Replies[:0]
		for _, reply := range comment.Replies {
			if reply.User != userID {
				replies = append(replies, reply)
			}
		}
		comment.Replies = replies
		comments = append(comments, comment)
	}
	b.Comments = comments

	likes := b.Likes[:0]
	for _, id := range b.Likes {
		if id != userID {
			likes = append(likes, id)
		}
	}
	b.Likes = likes
}
