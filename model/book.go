package model

import "time"

// Book is the shared catalog entry posts point at. Isbn is the natural key:
// two posts about the same ISBN reference one row, regardless of how the
// title or author were spelled on submission.
type Book struct {
	Id        uint      `gorm:"primaryKey" json:"id"`
	Isbn      string    `gorm:"size:13;uniqueIndex" json:"isbn"`
	Title     string    `gorm:"size:200" json:"title"`
	Author    string    `gorm:"size:100" json:"author"`
	CreatedAt time.Time `json:"created_at"`

	Posts []*Post `gorm:"foreignKey:Isbn;references:Isbn" json:"-"`
}
