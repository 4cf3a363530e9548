package models

import "time"

// Like is a user's like on a post. At most one per (user, post).
type Like struct {
	ID        string    `json:"id" gorm:"type:varchar(36);primaryKey"`
	PostID    string    `json:"post_id" gorm:"type:varchar(36);not null;index;uniqueIndex:uq_like_user_post"`
	Post      *Post     `json:"-" gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`
	UserID    string    `json:"user_id" gorm:"type:varchar(36);not null;index;uniqueIndex:uq_like_user_post"`
	User      *User     `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}
