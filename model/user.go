package model

import "time"

// DefaultBio is stored whenever a user signs up or clears their bio without
// providing one.
const DefaultBio = "This user has not written a bio yet."

/*
User is a registered member of the reading log.

Id: primary key
Username: unique display name
Email: unique login identifier
PasswordHash: bcrypt hash, never exposed through the API
Bio: free-form introduction, defaults to DefaultBio
TotalViews: derived aggregate, sum of views over the user's posts. Recomputed
wholesale by the scheduler's recompute module, never maintained inline.

All owned rows (posts, comments, likes, follows, tag preferences) are
cascade-deleted with the user.
*/
type User struct {
	Id           uint   `gorm:"primaryKey" json:"id"`
	Username     string `gorm:"size:50;uniqueIndex" json:"username"`
	Email        string `gorm:"size:100;uniqueIndex" json:"email"`
	PasswordHash string `gorm:"size:255" json:"-"`
	Bio          string `json:"bio"`
	TotalViews   int64  `gorm:"default:0" json:"total_views"`
	CreatedAt    time.Time `json:"created_at"`

	Posts          []*Post              `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
	Comments       []*Comment           `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
	Likes          []*Like              `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
	TagPreferences []*UserTagPreference `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
}
