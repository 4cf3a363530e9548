package repositories

import (
	"database/sql"
	"fmt"
	"io"
	"time"

	"github.com/anonto42/socially/backend/internal/models"
)

// text materializes a large-text column. Drivers may deliver a string, a byte
// slice or a streaming reader; Scan always leaves a plain string behind.
type text string

// Scan implements sql.Scanner.
func (t *text) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*t = ""
	case string:
		*t = text(v)
	case []byte:
		*t = text(v)
	case io.Reader:
		b, err := io.ReadAll(v)
		if err != nil {
			return fmt.Errorf("read text column: %w", err)
		}
		if c, ok := v.(io.Closer); ok {
			c.Close()
		}
		*t = text(b)
	default:
		return fmt.Errorf("unsupported text column type %T", src)
	}
	return nil
}

// postRow is one row of the post summary join.
type postRow struct {
	ID           string
	Content      text
	Image        *string
	CreatedAt    time.Time
	AuthorID     string
	AuthorName   *string
	AuthorHandle string
	AuthorImage  *string
	LikeCount    int64
	CommentCount int64
	ViewerLiked  bool
}

func (r *postRow) scan(rows *sql.Rows) error {
	return rows.Scan(&r.ID, &r.Content, &r.Image, &r.CreatedAt,
		&r.AuthorID, &r.AuthorName, &r.AuthorHandle, &r.AuthorImage,
		&r.LikeCount, &r.CommentCount, &r.ViewerLiked)
}

// summary converts the row into its response shape for viewerID.
func (r postRow) summary(viewerID string) models.PostSummary {
	s := models.PostSummary{
		ID:        r.ID,
		Content:   string(r.Content),
		Image:     r.Image,
		CreatedAt: r.CreatedAt,
		Author: models.UserCompact{
			ID:       r.AuthorID,
			Name:     r.AuthorName,
			Username: r.AuthorHandle,
			Image:    r.AuthorImage,
		},
		Count:    models.PostCounts{Likes: r.LikeCount, Comments: r.CommentCount},
		Likes:    []models.LikeRef{},
		Comments: []models.CommentView{},
	}
	if r.ViewerLiked && viewerID != "" {
		s.Likes = append(s.Likes, models.LikeRef{UserID: viewerID})
	}
	return s
}

// commentRow is one row of the comment + author join.
type commentRow struct {
	ID           string
	PostID       string
	Content      text
	CreatedAt    time.Time
	AuthorID     string
	AuthorName   *string
	AuthorHandle string
	AuthorImage  *string
}

func (r *commentRow) scan(rows *sql.Rows) error {
	return rows.Scan(&r.ID, &r.PostID, &r.Content, &r.CreatedAt,
		&r.AuthorID, &r.AuthorName, &r.AuthorHandle, &r.AuthorImage)
}

func (r commentRow) view() models.CommentView {
	return models.CommentView{
		ID:        r.ID,
		Content:   string(r.Content),
		CreatedAt: r.CreatedAt,
		Author: models.UserCompact{
			ID:       r.AuthorID,
			Name:     r.AuthorName,
			Username: r.AuthorHandle,
			Image:    r.AuthorImage,
		},
	}
}

// attachComments distributes comments, already ordered oldest first, onto
// their posts. Comments for posts not in the list are dropped.
func attachComments(posts []models.PostSummary, comments []commentRow) {
	index := make(map[string]int, len(posts))
	for i, p := range posts {
		index[p.ID] = i
	}
	for _, c := range comments {
		i, ok := index[c.PostID]
		if !ok {
			continue
		}
		posts[i].Comments = append(posts[i].Comments, c.view())
	}
}

// notificationRow is one row of the notification join. Post and comment
// columns are all NULL when the notification does not reference them.
type notificationRow struct {
	ID             string
	Type           string
	Read           bool
	CreatedAt      time.Time
	CreatorID      string
	CreatorName    *string
	CreatorHandle  string
	CreatorImage   *string
	PostID         *string
	PostContent    text
	PostImage      *string
	CommentID      *string
	CommentContent text
}

func (r *notificationRow) scan(rows *sql.Rows) error {
	return rows.Scan(&r.ID, &r.Type, &r.Read, &r.CreatedAt,
		&r.CreatorID, &r.CreatorName, &r.CreatorHandle, &r.CreatorImage,
		&r.PostID, &r.PostContent, &r.PostImage,
		&r.CommentID, &r.CommentContent)
}

func (r notificationRow) view() models.NotificationView {
	v := models.NotificationView{
		ID:        r.ID,
		Type:      models.NotificationType(r.Type),
		Read:      r.Read,
		CreatedAt: r.CreatedAt,
		Creator: models.UserCompact{
			ID:       r.CreatorID,
			Name:     r.CreatorName,
			Username: r.CreatorHandle,
			Image:    r.CreatorImage,
		},
	}
	if r.PostID != nil {
		v.Post = &models.NotificationPost{ID: *r.PostID, Content: string(r.PostContent), Image: r.PostImage}
	}
	if r.CommentID != nil {
		v.Comment = &models.NotificationCommentRef{ID: *r.CommentID, Content: string(r.CommentContent)}
	}
	return v
}
