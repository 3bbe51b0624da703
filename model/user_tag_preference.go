package model

/*
UserTagPreference records how often a user has authored posts carrying a tag.

Frequency only ever goes up: each post the user writes bumps the counter for
every tag the oracle attached, one per tag per post. The recommendation
engine treats the counter as an affinity weight. Upserted by the post
creation pipeline: first occurrence inserts with frequency 1, later
occurrences increment in place.
*/
type UserTagPreference struct {
	UserId    uint  `gorm:"primaryKey" json:"user_id"`
	TagId     uint  `gorm:"primaryKey" json:"tag_id"`
	Frequency int64 `gorm:"default:0" json:"frequency"`

	User *User `gorm:"foreignKey:UserId;constraint:OnDelete:CASCADE;" json:"-"`
	Tag  *Tag  `gorm:"foreignKey:TagId;constraint:OnDelete:CASCADE;" json:"-"`
}
