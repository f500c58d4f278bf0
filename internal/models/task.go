package models

import "time"

const (
	MinProgress = 0
	MaxProgress = 100
)

type Task struct {
	ID         int64
	Name       string
	AssignedTo string
	Deadline   *time.Time
	Priority   string
	Progress   int
	CreatedAt  *time.Time
	UpdatedAt  *time.Time
}

// ValidProgress reports whether progress lies within [MinProgress, MaxProgress].
func ValidProgress(progress int) bool {
	return progress >= MinProgress && progress <= MaxProgress
}
