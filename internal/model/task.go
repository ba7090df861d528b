package model

import "time"

// Category splits tasks into the two daily columns.
type Category string

const (
	CategoryRequired  Category = "required"
	CategorySuggested Category = "suggested"
)

// Valid reports whether c is one of the two known categories.
func (c Category) Valid() bool {
	return c == CategoryRequired || c == CategorySuggested
}

// Task represents a single item on the daily list.
type Task struct {
	ID            string   `gorm:"primaryKey"`
	Title         string
	Position      int      `gorm:"index"`
	Category      Category `gorm:"index;default:required"`
	ScheduledTime *string  // "HH:MM" local time of day; nil means no per-task time
	IsCompleted   bool     `gorm:"default:false"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
