package models

import "time"

// Post is the posts table. Content is unbounded text.
type Post struct {
	ID        string    `json:"id" gorm:"type:varchar(36);primaryKey"`
	AuthorID  string    `json:"author_id" gorm:"type:varchar(36);not null;index"`
	Author    *User     `json:"-" gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	Content   string    `json:"content" gorm:"type:text"`
	Image     *string   `json:"image" gorm:"size:1000"`
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime;index"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
}

// PostRef is the minimal lookup used before mutating a post.
type PostRef struct {
	ID       string `json:"id"`
	AuthorID string `json:"author_id"`
}

// PostCounts holds the aggregate counts of a post summary.
type PostCounts struct {
	Likes    int64 `json:"likes"`
	Comments int64 `json:"comments"`
}

// LikeRef marks that the viewer liked the post.
type LikeRef struct {
	UserID string `json:"userId"`
}

// CommentView is a comment embedded in a post summary.
type CommentView struct {
	ID        string      `json:"id"`
	Content   string      `json:"content"`
	CreatedAt time.Time   `json:"createdAt"`
	Author    UserCompact `json:"author"`
}

// PostSummary is one entry of a feed or profile tab.
type PostSummary struct {
	ID        string        `json:"id"`
	Content   string        `json:"content"`
	Image     *string       `json:"image"`
	CreatedAt time.Time     `json:"createdAt"`
	Author    UserCompact   `json:"author"`
	Count     PostCounts    `json:"_count"`
	Likes     []LikeRef     `json:"likes"`
	Comments  []CommentView `json:"comments"`
}

// CreatePostRequest is the body of POST /posts/.
type CreatePostRequest struct {
	Content string  `json:"content" validate:"required,min=1"`
	Image   *string `json:"image" validate:"omitempty,max=1000"`
}
