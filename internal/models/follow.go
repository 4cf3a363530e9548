package models

import "time"

// Follow is keyed by the (follower, following) pair and carries nothing else.
type Follow struct {
	FollowerID  string    `json:"follower_id" gorm:"type:varchar(36);primaryKey"`
	Follower    *User     `json:"-" gorm:"foreignKey:FollowerID;constraint:OnDelete:CASCADE"`
	FollowingID string    `json:"following_id" gorm:"type:varchar(36);primaryKey;index"`
	Following   *User     `json:"-" gorm:"foreignKey:FollowingID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
}
