package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification types
const (
	NotificationTypeLike    = "like"
	NotificationTypeComment = "comment"
	NotificationTypeReply   = "reply"
)

// Notification represents a user notification stored in MongoDB. It is
// created as a side effect of like/comment/reply actions, never when the
// actor is the recipient.
type Notification struct {
	ID        primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	Recipient primitive.ObjectID `json:"recipient" bson:"recipient"`
	Sender    primitive.ObjectID `json:"sender" bson:"sender"`
	Blog      primitive.ObjectID `json:"blog" bson:"blog"`
	Type      string             `json:"type" bson:"type"` // like, comment, reply
	Text      string             `json:"text" bson:"text"`
	IsRead    bool               `json:"isRead" bson:"isRead"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}
