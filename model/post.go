package model

import "time"

/*
Post is a user's write-up about a book.

Id: primary key, generated on insert. The creation pipeline needs the id
before it can attach tag links, so the post row is flushed first.
UserId: author, "belongs-to" relation, cascade on author deletion
Isbn: natural-key reference into books, "belongs-to" relation
Views: durable view counter. Only ever updated relatively
(views = views + drained) by the view flush module; page views themselves are
buffered in redis and never written here directly.
LikeCount: denormalized count of the likes association, maintained in the
same transaction as the Like row itself.
*/
type Post struct {
	Id        uint      `gorm:"primaryKey" json:"id"`
	UserId    uint      `gorm:"index" json:"user_id"`
	User      *User     `gorm:"foreignKey:UserId;constraint:OnDelete:CASCADE;" json:"-"`
	Title     string    `gorm:"size:200" json:"title"`
	Content   string    `json:"content"`
	Isbn      string    `gorm:"size:13;index" json:"isbn"`
	Book      *Book     `gorm:"foreignKey:Isbn;references:Isbn" json:"-"`
	Views     int64     `gorm:"default:0" json:"views"`
	LikeCount int64     `gorm:"default:0" json:"like_count"`
	CreatedAt time.Time `json:"created_at"`

	PostTags []*PostTag `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
	Tags     []*Tag     `gorm:"many2many:post_tags;" json:"tags,omitempty"`
	Comments []*Comment `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
	Likes    []*Like    `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
}
