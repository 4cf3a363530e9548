package models

import "time"

// NotificationType is one of LIKE, COMMENT or FOLLOW.
type NotificationType string

const (
	NotificationLike    NotificationType = "LIKE"
	NotificationComment NotificationType = "COMMENT"
	NotificationFollow  NotificationType = "FOLLOW"
)

// Valid reports whether t is a known notification type.
func (t NotificationType) Valid() bool {
	switch t {
	case NotificationLike, NotificationComment, NotificationFollow:
		return true
	}
	return false
}

// Notification is the notifications table. UserID is the recipient, CreatorID the actor.
type Notification struct {
	ID        string           `json:"id" gorm:"type:varchar(36);primaryKey"`
	UserID    string           `json:"user_id" gorm:"type:varchar(36);not null;index"`
	User      *User            `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	CreatorID string           `json:"creator_id" gorm:"type:varchar(36);not null"`
	Creator   *User            `json:"-" gorm:"foreignKey:CreatorID;constraint:OnDelete:CASCADE"`
	Type      NotificationType `json:"type" gorm:"size:20;not null"`
	Read      bool             `json:"read" gorm:"column:read_status;not null;index"`
	PostID    *string          `json:"post_id" gorm:"type:varchar(36)"`
	Post      *Post            `json:"-" gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`
	CommentID *string          `json:"comment_id" gorm:"type:varchar(36)"`
	Comment   *Comment         `json:"-" gorm:"foreignKey:CommentID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time        `json:"createdAt" gorm:"autoCreateTime;index"`
}

// NewNotification is the input of a notification insert.
type NewNotification struct {
	Type        NotificationType
	RecipientID string
	ActorID     string
	PostID      *string
	CommentID   *string
}

// NotificationPost is the referenced post of a notification.
type NotificationPost struct {
	ID      string  `json:"id"`
	Content string  `json:"content"`
	Image   *string `json:"image"`
}

// NotificationCommentRef is the referenced comment of a notification.
type NotificationCommentRef struct {
	ID      string `json:"id"`
	Content string `json:"content"`
}

// NotificationView is one entry of GET /notifications/.
type NotificationView struct {
	ID        string                  `json:"id"`
	Type      NotificationType        `json:"type"`
	Read      bool                    `json:"read"`
	CreatedAt time.Time               `json:"createdAt"`
	Creator   UserCompact             `json:"creator"`
	Post      *NotificationPost       `json:"post"`
	Comment   *NotificationCommentRef `json:"comment"`
}

// MarkReadRequest is the body of POST /notifications/mark-read.
type MarkReadRequest struct {
	IDs []string `json:"ids" validate:"required,dive,required"`
}
