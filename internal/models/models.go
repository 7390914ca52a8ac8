package models

import (
	"strings"
)

// DateLayout is the ISO calendar date format of Post.Date.
const DateLayout = "2006-01-02"

type Post struct {
	ID        string  `json:"id" db:"post_id"`
	Title     string  `json:"title" db:"title"`
	Location  string  `json:"location" db:"location"`
	Content   string  `json:"content" db:"content"`
	Date      string  `json:"date" db:"date"`
	ImageURL  *string `json:"imageUrl" db:"image_url"`
	CreatedAt int64   `json:"createdAt" db:"created_at"`
}

// PostInput holds the mutable fields of a Post.
type PostInput struct {
	Title    string  `json:"title" validate:"notblank"`
	Location string  `json:"location" validate:"notblank"`
	Content  string  `json:"content" validate:"notblank"`
	Date     string  `json:"date" validate:"omitempty,datetime=2006-01-02"`
	ImageURL *string `json:"imageUrl" validate:"omitempty,imagedataurl"`
}

// Apply replaces every mutable field of p with the values from in.
func (p *Post) Apply(in PostInput) {
	p.Title = in.Title
	p.Location = in.Location
	p.Content = in.Content
	p.Date = in.Date
	p.ImageURL = in.ImageURL
}

func (p Post) HasImage() bool {
	return p.ImageURL != nil && *p.ImageURL != ""
}

// Paragraphs splits Content on line breaks, one entry per line.
func (p Post) Paragraphs() []string {
	return strings.Split(p.Content, "\n")
}
