package entity

import "time"

// Article is a published news item. ImagePath, when non-empty, is a
// reference into the file store (never a raw filesystem path).
type Article struct {
	ID        string
	Title     string
	Summary   string
	Body      string
	Category  string
	ImagePath string
	CreatedAt time.Time
	UpdatedAt time.Time
}
