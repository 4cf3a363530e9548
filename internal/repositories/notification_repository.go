package repositories

import (
	"fmt"

	"github.com/anonto42/socially/backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NotificationRepository defines the interface for notification operations
type NotificationRepository interface {
	Create(n models.NewNotification) error
	List(recipientID string) ([]models.NotificationView, error)
	MarkRead(recipientID string, ids []string) error
	MarkAllRead(recipientID string) error
	UnreadCount(recipientID string) (int64, error)
}

func errUnknownType(t models.NotificationType) error {
	return fmt.Errorf("unknown notification type %q", string(t))
}

type gormNotificationRepository struct {
	db *gorm.DB
}

func NewGormNotificationRepository(db *gorm.DB) NotificationRepository {
	return &gormNotificationRepository{db: db}
}

// Create stores an unread notification. Actions on one's own content are
// never notified.
func (r *gormNotificationRepository) Create(n models.NewNotification) error {
	if n.RecipientID == n.ActorID {
		return nil
	}
	if !n.Type.Valid() {
		return errUnknownType(n.Type)
	}
	row := &models.Notification{
		ID:        uuid.NewString(),
		UserID:    n.RecipientID,
		CreatorID: n.ActorID,
		Type:      n.Type,
		Read:      false,
		PostID:    n.PostID,
		CommentID: n.CommentID,
	}
	if err := r.db.Create(row).Error; err != nil {
		return fmt.Errorf("create notification: %w", err)
	}
	return nil
}

const notificationsSQL = `
SELECT n.id, n.type, n.read_status, n.created_at,
       c.id, c.name, c.username, c.image,
       p.id, p.content, p.image,
       cm.id, cm.content
FROM notifications n
JOIN users c ON c.id = n.creator_id
LEFT JOIN posts p ON p.id = n.post_id
LEFT JOIN comments cm ON cm.id = n.comment_id
WHERE n.user_id = ?
ORDER BY n.created_at DESC`

func (r *gormNotificationRepository) List(recipientID string) ([]models.NotificationView, error) {
	rows, err := r.db.Raw(notificationsSQL, recipientID).Rows()
	if err != nil {
		return nil, fmt.Errorf("query notifications: %w", err)
	}
	defer rows.Close()

	views := []models.NotificationView{}
	for rows.Next() {
		var row notificationRow
		if err := row.scan(rows); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		views = append(views, row.view())
	}
	return views, rows.Err()
}

// MarkRead flags the given notifications of recipientID as read. Ids that
// are unknown or belong to someone else are ignored.
func (r *gormNotificationRepository) MarkRead(recipientID string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.Model(&models.Notification{}).
		Where("user_id = ? AND id IN ?", recipientID, ids).
		Update("read_status", true).Error
}

func (r *gormNotificationRepository) MarkAllRead(recipientID string) error {
	return r.db.Model(&models.Notification{}).
		Where("user_id = ? AND read_status = ?", recipientID, false).
		Update("read_status", true).Error
}

func (r *gormNotificationRepository) UnreadCount(recipientID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Notification{}).
		Where("user_id = ? AND read_status = ?", recipientID, false).
		Count(&count).Error
	return count, err
}
