package repositories

import (
	"database/sql"
	"fmt"

	"github.com/anonto42/socially/backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultFeedSize is the number of posts returned by GetFeed when no limit is given.
const DefaultFeedSize = 20

// PostRepository defines the interface for post, comment and like operations
type PostRepository interface {
	CreatePost(authorID, content string, image *string) (string, error)
	GetFeed(viewerID string, limit int) ([]models.PostSummary, error)
	GetPostsByAuthor(authorID, viewerID string) ([]models.PostSummary, error)
	GetPostsLikedByUser(userID, viewerID string) ([]models.PostSummary, error)
	GetPost(id string) (*models.PostRef, error)
	CreateComment(authorID, postID, content string) (string, error)
	DeletePost(postID, requesterID string) (bool, error)
	ToggleLike(userID, postID string) (bool, error)
}

// GormPostRepository implements PostRepository on GORM (PostgreSQL or SQLite)
type GormPostRepository struct {
	db *gorm.DB
}

// NewGormPostRepository creates a new GormPostRepository
func NewGormPostRepository(db *gorm.DB) *GormPostRepository {
	return &GormPostRepository{db: db}
}

// CreatePost inserts a post and returns its id.
func (r *GormPostRepository) CreatePost(authorID, content string, image *string) (string, error) {
	post := &models.Post{
		ID:       uuid.NewString(),
		AuthorID: authorID,
		Content:  content,
		Image:    image,
	}
	if err := r.db.Create(post).Error; err != nil {
		return "", fmt.Errorf("create post: %w", err)
	}
	return post.ID, nil
}

const postSummarySelect = `
SELECT p.id, p.content, p.image, p.created_at,
       u.id, u.name, u.username, u.image,
       (SELECT COUNT(*) FROM likes l WHERE l.post_id = p.id) AS like_count,
       (SELECT COUNT(*) FROM comments c WHERE c.post_id = p.id) AS comment_count,
       EXISTS (SELECT 1 FROM likes vl WHERE vl.post_id = p.id AND vl.user_id = ?) AS viewer_liked
FROM posts p
JOIN users u ON u.id = p.author_id`

const (
	feedSQL = postSummarySelect + `
ORDER BY p.created_at DESC
LIMIT ?`

	authorPostsSQL = postSummarySelect + `
WHERE p.author_id = ?
ORDER BY p.created_at DESC`

	likedPostsSQL = postSummarySelect + `
JOIN likes lk ON lk.post_id = p.id
WHERE lk.user_id = ?
ORDER BY lk.created_at DESC`

	postCommentsSQL = `
SELECT c.id, c.post_id, c.content, c.created_at,
       u.id, u.name, u.username, u.image
FROM comments c
JOIN users u ON u.id = c.author_id
WHERE c.post_id IN ?
ORDER BY c.created_at ASC`
)

// GetFeed returns the newest posts, newest first.
func (r *GormPostRepository) GetFeed(viewerID string, limit int) ([]models.PostSummary, error) {
	if limit <= 0 {
		limit = DefaultFeedSize
	}
	return r.summaries(viewerID, feedSQL, viewerID, limit)
}

// GetPostsByAuthor returns authorID's posts, newest first.
func (r *GormPostRepository) GetPostsByAuthor(authorID, viewerID string) ([]models.PostSummary, error) {
	return r.summaries(viewerID, authorPostsSQL, viewerID, authorID)
}

// GetPostsLikedByUser returns the posts userID liked, most recent like first.
func (r *GormPostRepository) GetPostsLikedByUser(userID, viewerID string) ([]models.PostSummary, error) {
	return r.summaries(viewerID, likedPostsSQL, viewerID, userID)
}

func (r *GormPostRepository) summaries(viewerID, query string, args ...interface{}) ([]models.PostSummary, error) {
	rows, err := r.db.Raw(query, args...).Rows()
	if err != nil {
		return nil, fmt.Errorf("query posts: %w", err)
	}
	posts, ids, err := scanPostRows(rows, viewerID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return posts, nil
	}

	comments, err := r.commentsFor(ids)
	if err != nil {
		return nil, err
	}
	attachComments(posts, comments)
	return posts, nil
}

func scanPostRows(rows *sql.Rows, viewerID string) ([]models.PostSummary, []string, error) {
	defer rows.Close()

	posts := []models.PostSummary{}
	var ids []string
	for rows.Next() {
		var row postRow
		if err := row.scan(rows); err != nil {
			return nil, nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, row.summary(viewerID))
		ids = append(ids, row.ID)
	}
	return posts, ids, rows.Err()
}

func (r *GormPostRepository) commentsFor(postIDs []string) ([]commentRow, error) {
	rows, err := r.db.Raw(postCommentsSQL, postIDs).Rows()
	if err != nil {
		return nil, fmt.Errorf("query comments: %w", err)
	}
	defer rows.Close()

	var comments []commentRow
	for rows.Next() {
		var c commentRow
		if err := c.scan(rows); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

// GetPost returns the id and author of a post.
func (r *GormPostRepository) GetPost(id string) (*models.PostRef, error) {
	var ref models.PostRef
	err := r.db.Model(&models.Post{}).
		Select("id", "author_id").
		Where("id = ?", id).
		Take(&ref).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &ref, nil
}

// CreateComment inserts a comment on postID and returns its id.
func (r *GormPostRepository) CreateComment(authorID, postID, content string) (string, error) {
	comment := &models.Comment{
		ID:       uuid.NewString(),
		AuthorID: authorID,
		PostID:   postID,
		Content:  content,
	}
	if err := r.db.Create(comment).Error; err != nil {
		return "", fmt.Errorf("create comment: %w", err)
	}
	return comment.ID, nil
}

// DeletePost removes postID only when requesterID is its author. Comments,
// likes and notifications go with it through the foreign keys.
func (r *GormPostRepository) DeletePost(postID, requesterID string) (bool, error) {
	res := r.db.Where("id = ? AND author_id = ?", postID, requesterID).Delete(&models.Post{})
	if res.Error != nil {
		return false, fmt.Errorf("delete post: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// ToggleLike removes an existing like or creates a missing one and reports
// whether userID now likes postID.
func (r *GormPostRepository) ToggleLike(userID, postID string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Like{}).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	if count > 0 {
		if err := r.db.Where("user_id = ? AND post_id = ?", userID, postID).Delete(&models.Like{}).Error; err != nil {
			return false, fmt.Errorf("unlike: %w", err)
		}
		return false, nil
	}
	like := &models.Like{ID: uuid.NewString(), UserID: userID, PostID: postID}
	if err := r.db.Create(like).Error; err != nil {
		return false, fmt.Errorf("like: %w", err)
	}
	return true, nil
}
