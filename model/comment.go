package model

import "time"

// Comment is a comment or a single-level reply on a post. ParentId is nil
// for a top-level comment. Depth is 0 or 1; the write path computes a
// reply's depth from its parent and rejects replies to replies, the schema
// itself does not enforce the limit.
type Comment struct {
	Id        uint      `gorm:"primaryKey" json:"id"`
	PostId    uint      `gorm:"index" json:"post_id"`
	UserId    uint      `json:"user_id"`
	ParentId  *uint     `json:"parent_id"`
	Content   string    `json:"content"`
	Depth     int       `gorm:"default:0" json:"depth"`
	CreatedAt time.Time `json:"created_at"`

	Post    *Post      `gorm:"foreignKey:PostId;constraint:OnDelete:CASCADE;" json:"-"`
	User    *User      `gorm:"foreignKey:UserId;constraint:OnDelete:CASCADE;" json:"-"`
	Parent  *Comment   `gorm:"foreignKey:ParentId;constraint:OnDelete:CASCADE;" json:"-"`
	Replies []*Comment `gorm:"foreignKey:ParentId" json:"replies,omitempty"`
}
