package model

import "time"

// ResetState records when completion flags were last cleared, so a
// missed rollover can be detected after a restart. Single row, ID 1.
type ResetState struct {
	ID          uint `gorm:"primaryKey"`
	LastResetAt time.Time
	UpdatedAt   time.Time
}
