package model

// Tag is an immutable vocabulary entry. The tag oracle may only pick from
// this table; it never mints new tags.
type Tag struct {
	Id   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:50;uniqueIndex" json:"name"`
}

// PostTag links a post to a tag. Rows are created exclusively by the post
// creation pipeline from validated oracle output.
type PostTag struct {
	PostId uint `gorm:"primaryKey" json:"post_id"`
	TagId  uint `gorm:"primaryKey" json:"tag_id"`

	Post *Post `gorm:"foreignKey:PostId;constraint:OnDelete:CASCADE;" json:"-"`
	Tag  *Tag  `gorm:"foreignKey:TagId;constraint:OnDelete:CASCADE;" json:"-"`
}

// TableName keeps the join table name in sync with Post's many2many tag.
func (PostTag) TableName() string {
	return "post_tags"
}
