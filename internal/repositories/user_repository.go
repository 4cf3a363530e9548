package repositories

import (
	"fmt"
	"net/url"

	"github.com/anonto42/socially/backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultSuggestionCount is the sample size of GetSuggestions when none is given.
const DefaultSuggestionCount = 3

// UserRepository defines the interface for user data operations
type UserRepository interface {
	FindByIdentifier(identifier string) (*models.Credentials, error)
	FindByEmail(email string) (*models.Credentials, error)
	Create(user models.NewUser) (string, error)
	Exists(id string) (bool, error)
	GetProfile(id string) (*models.UserProfile, error)
	UpdateProfile(id string, update models.ProfileUpdate) error
	GetPublicProfile(username string) (*models.PublicProfile, error)
	GetSuggestions(excludeID string, limit int) ([]models.SuggestedUser, error)
	ToggleFollow(followerID, targetID string) (bool, error)
	IsFollowing(followerID, targetID string) (bool, error)
}

// AvatarURL is the generated avatar used when a user registers without an image.
func AvatarURL(username string) string {
	return "https://api.dicebear.com/9.x/initials/svg?seed=" + url.QueryEscape(username)
}

// GormUserRepository implements UserRepository on GORM
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GormUserRepository
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// FindByIdentifier matches identifier against email or username in one lookup.
func (r *GormUserRepository) FindByIdentifier(identifier string) (*models.Credentials, error) {
	var creds models.Credentials
	err := r.db.Model(&models.User{}).
		Select("id", "password_hash").
		Where("email = ? OR username = ?", identifier, identifier).
		Take(&creds).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &creds, nil
}

// FindByEmail looks a user up by email only.
func (r *GormUserRepository) FindByEmail(email string) (*models.Credentials, error) {
	var creds models.Credentials
	err := r.db.Model(&models.User{}).
		Select("id", "password_hash").
		Where("email = ?", email).
		Take(&creds).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &creds, nil
}

// Create inserts a user with a fresh id and returns it.
func (r *GormUserRepository) Create(user models.NewUser) (string, error) {
	image := user.Image
	if image == nil || *image == "" {
		avatar := AvatarURL(user.Username)
		image = &avatar
	}
	var name *string
	if user.Name != "" {
		name = &user.Name
	}
	row := &models.User{
		ID:           uuid.NewString(),
		Email:        user.Email,
		Username:     user.Username,
		PasswordHash: user.PasswordHash,
		Name:         name,
		Image:        image,
	}
	if err := r.db.Create(row).Error; err != nil {
		return "", fmt.Errorf("create user: %w", err)
	}
	return row.ID, nil
}

// Exists reports whether a user with id exists.
func (r *GormUserRepository) Exists(id string) (bool, error) {
	var count int64
	if err := r.db.Model(&models.User{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetProfile returns the private profile of id.
func (r *GormUserRepository) GetProfile(id string) (*models.UserProfile, error) {
	var profile models.UserProfile
	err := r.db.Model(&models.User{}).
		Select("id", "name", "username", "email", "image", "bio", "location", "website").
		Where("id = ?", id).
		Take(&profile).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &profile, nil
}

// UpdateProfile writes only the fields present in update.
func (r *GormUserRepository) UpdateProfile(id string, update models.ProfileUpdate) error {
	cols := update.Columns()
	if len(cols) == 0 {
		return nil
	}
	if err := r.db.Model(&models.User{}).Where("id = ?", id).Updates(cols).Error; err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	return nil
}

const publicProfileSQL = `
SELECT u.id, u.name, u.username, u.image, u.bio, u.location, u.website, u.created_at,
       (SELECT COUNT(*) FROM follows f WHERE f.following_id = u.id) AS followers,
       (SELECT COUNT(*) FROM follows f WHERE f.follower_id = u.id) AS following,
       (SELECT COUNT(*) FROM posts p WHERE p.author_id = u.id) AS posts
FROM users u
WHERE u.username = ?`

// GetPublicProfile returns a profile with follower, following and post counts.
func (r *GormUserRepository) GetPublicProfile(username string) (*models.PublicProfile, error) {
	rows, err := r.db.Raw(publicProfileSQL, username).Rows()
	if err != nil {
		return nil, fmt.Errorf("query public profile: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, ErrNotFound
	}
	var p models.PublicProfile
	if err := rows.Scan(&p.ID, &p.Name, &p.Username, &p.Image, &p.Bio, &p.Location, &p.Website, &p.CreatedAt,
		&p.Count.Followers, &p.Count.Following, &p.Count.Posts); err != nil {
		return nil, err
	}
	return &p, nil
}

const suggestionsSQL = `
SELECT u.id, u.name, u.username, u.image,
       (SELECT COUNT(*) FROM follows f WHERE f.following_id = u.id) AS followers
FROM users u
WHERE u.id <> ?
ORDER BY RANDOM()
LIMIT ?`

// GetSuggestions samples up to limit users other than excludeID.
func (r *GormUserRepository) GetSuggestions(excludeID string, limit int) ([]models.SuggestedUser, error) {
	if limit <= 0 {
		limit = DefaultSuggestionCount
	}
	rows, err := r.db.Raw(suggestionsSQL, excludeID, limit).Rows()
	if err != nil {
		return nil, fmt.Errorf("query suggestions: %w", err)
	}
	defer rows.Close()

	users := []models.SuggestedUser{}
	for rows.Next() {
		var u models.SuggestedUser
		if err := rows.Scan(&u.ID, &u.Name, &u.Username, &u.Image, &u.Count.Followers); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// ToggleFollow removes an existing follow or creates a missing one and
// reports whether followerID now follows targetID.
func (r *GormUserRepository) ToggleFollow(followerID, targetID string) (bool, error) {
	following, err := r.IsFollowing(followerID, targetID)
	if err != nil {
		return false, err
	}
	if following {
		err := r.db.Where("follower_id = ? AND following_id = ?", followerID, targetID).
			Delete(&models.Follow{}).Error
		if err != nil {
			return false, fmt.Errorf("unfollow: %w", err)
		}
		return false, nil
	}
	if err := r.db.Create(&models.Follow{FollowerID: followerID, FollowingID: targetID}).Error; err != nil {
		return false, fmt.Errorf("follow: %w", err)
	}
	return true, nil
}

// IsFollowing reports whether followerID follows targetID.
func (r *GormUserRepository) IsFollowing(followerID, targetID string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Follow{}).
		Where("follower_id = ? AND following_id = ?", followerID, targetID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
