package model

import "time"

// Like marks that a user liked a post. The row's existence is the source of
// truth; posts.like_count is a denormalized mirror updated in the same
// transaction that inserts or deletes the row.
type Like struct {
	UserId    uint      `gorm:"primaryKey" json:"user_id"`
	PostId    uint      `gorm:"primaryKey" json:"post_id"`
	CreatedAt time.Time `json:"created_at"`

	User *User `gorm:"foreignKey:UserId;constraint:OnDelete:CASCADE;" json:"-"`
	Post *Post `gorm:"foreignKey:PostId;constraint:OnDelete:CASCADE;" json:"-"`
}
