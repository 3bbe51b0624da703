package model

import "time"

// Follow is a directed edge: FollowerId follows FollowingId. Self-follows
// and duplicate edges are rejected by pre-checks in the handler.
type Follow struct {
	FollowerId  uint      `gorm:"primaryKey" json:"follower_id"`
	FollowingId uint      `gorm:"primaryKey" json:"following_id"`
	CreatedAt   time.Time `json:"created_at"`

	Follower  *User `gorm:"foreignKey:FollowerId;constraint:OnDelete:CASCADE;" json:"-"`
	Following *User `gorm:"foreignKey:FollowingId;constraint:OnDelete:CASCADE;" json:"-"`
}
