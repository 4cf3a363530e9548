package models

import "time"

// Comment belongs to exactly one post.
type Comment struct {
	ID        string    `json:"id" gorm:"type:varchar(36);primaryKey"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	AuthorID  string    `json:"author_id" gorm:"type:varchar(36);not null;index"`
	Author    *User     `json:"-" gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	PostID    string    `json:"post_id" gorm:"type:varchar(36);not null;index"`
	Post      *Post     `json:"-" gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
}

// CreateCommentRequest is the body of POST /posts/:id/comments.
type CreateCommentRequest struct {
	Content string `json:"content" validate:"required,min=1"`
}
