package server

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/Park-yeongseo/Blog-Project/model"
	"github.com/Park-yeongseo/Blog-Project/utils"
)

// Request/response shapes. Handlers bind JSON into these, then call the
// shape's Validate method; normalization (trimming, whitespace collapsing)
// happens there too so the rest of the code only ever sees clean values.

var (
	usernamePattern  = regexp.MustCompile(`^[A-Za-z가-힣]+$`)
	multiSpace       = regexp.MustCompile(`\s+`)
	passwordSpecials = "!@#$%^&*"
)

// normalizeSpaces trims and collapses runs of whitespace to single spaces.
func normalizeSpaces(s string) string {
	return multiSpace.ReplaceAllString(strings.TrimSpace(s), " ")
}

func validUsername(name string) bool {
	length := len([]rune(name))
	return length >= 2 && length <= 20 && usernamePattern.MatchString(name)
}

// validatePassword enforces the signup password policy.
func validatePassword(password string) error {
	if strings.Contains(password, " ") {
		return errors.New("password must not contain spaces")
	}
	if len(password) < 8 {
		return errors.New("password must be at least 8 characters")
	}
	var hasLetter, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
			hasLetter = true
		case r >= '0' && r <= '9':
			hasDigit = true
		case strings.ContainsRune(passwordSpecials, r):
			hasSpecial = true
		}
	}
	if !hasLetter {
		return errors.New("password must contain a letter")
	}
	if !hasDigit {
		return errors.New("password must contain a digit")
	}
	if !hasSpecial {
		return errors.New("password must contain one of " + passwordSpecials)
	}
	return nil
}

type SignupRequest struct {
	Username string  `json:"username" binding:"required"`
	Email    string  `json:"email" binding:"required,email"`
	Password string  `json:"password" binding:"required"`
	Bio      *string `json:"bio"`
}

func (r *SignupRequest) Validate() error {
	r.Username = strings.TrimSpace(r.Username)
	if !validUsername(r.Username) {
		return errors.New("username must be 2-20 letters")
	}
	if r.Bio != nil && len([]rune(*r.Bio)) > 500 {
		return errors.New("bio must be at most 500 characters")
	}
	return validatePassword(r.Password)
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UserInfoUpdateRequest struct {
	Username *string `json:"username"`
	Bio      *string `json:"bio"`
}

func (r *UserInfoUpdateRequest) Validate() error {
	if r.Username != nil {
		trimmed := strings.TrimSpace(*r.Username)
		r.Username = &trimmed
		if !validUsername(trimmed) {
			return errors.New("username must be 2-20 letters")
		}
	}
	if r.Bio != nil && len([]rune(*r.Bio)) > 500 {
		return errors.New("bio must be at most 500 characters")
	}
	return nil
}

type PasswordUpdateRequest struct {
	Password         string `json:"password" binding:"required"`
	NewPassword      string `json:"new_password" binding:"required"`
	NewPasswordCheck string `json:"new_password_check" binding:"required"`
}

type PostCreateRequest struct {
	Title      string `json:"title" binding:"required"`
	Content    string `json:"content" binding:"required"`
	Isbn       string `json:"isbn" binding:"required"`
	BookTitle  string `json:"book_title" binding:"required"`
	BookAuthor string `json:"book_author" binding:"required"`
}

func (r *PostCreateRequest) Validate() error {
	r.Title = strings.TrimSpace(r.Title)
	r.Isbn = strings.TrimSpace(r.Isbn)
	r.BookTitle = normalizeSpaces(r.BookTitle)
	r.BookAuthor = normalizeSpaces(r.BookAuthor)
	if r.Title == "" {
		return errors.New("title must not be blank")
	}
	if !utils.IsValidIsbn(r.Isbn) {
		return errors.New("isbn must be exactly 10 or 13 digits, no hyphens")
	}
	if r.BookTitle == "" || r.BookAuthor == "" {
		return errors.New("book title and author must not be blank")
	}
	return nil
}

type PostUpdateRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

type CommentCreateRequest struct {
	Content  string `json:"content" binding:"required"`
	ParentId *uint  `json:"parent_id"`
}

func (r *CommentCreateRequest) Validate() error {
	r.Content = strings.TrimSpace(r.Content)
	if r.Content == "" {
		return errors.New("comment must not be blank")
	}
	if len([]rune(r.Content)) > 1000 {
		return errors.New("comment must be at most 1000 characters")
	}
	return nil
}

type CommentUpdateRequest struct {
	Content string `json:"content" binding:"required"`
}

// UserResponse hides the email unless the profile owner is the viewer.
type UserResponse struct {
	Id         uint      `json:"id"`
	Username   string    `json:"username"`
	Email      *string   `json:"email"`
	Bio        string    `json:"bio"`
	TotalViews int64     `json:"total_views"`
	CreatedAt  time.Time `json:"created_at"`
}

type PostResponse struct {
	Id        uint         `json:"id"`
	UserId    uint         `json:"user_id"`
	Title     string       `json:"title"`
	Content   string       `json:"content"`
	Isbn      string       `json:"isbn"`
	Views     int64        `json:"views"`
	LikeCount int64        `json:"like_count"`
	CreatedAt time.Time    `json:"created_at"`
	Tags      []*model.Tag `json:"tags"`
}

type SearchResult struct {
	PostId    uint      `json:"post_id"`
	Title     string    `json:"title"`
	BookTitle string    `json:"book_title"`
	Tags      []string  `json:"tags"`
	Isbn      string    `json:"isbn"`
	CreatedAt time.Time `json:"created_at"`
}
