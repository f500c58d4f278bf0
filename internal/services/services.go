package services

import (
	"context"
	"errors"
	"time"

	"github.com/adanyl0v/construct-tasks/internal/models"
)

var (
	ErrTaskNotFound     = errors.New("task not found")
	ErrInvalidProgress  = errors.New("progress must be between 0 and 100")
	ErrNoFieldsToUpdate = errors.New("no fields to update")
	ErrInvalidTask      = errors.New("invalid task")
)

type TaskService interface {
	// ListTasks returns every task ordered by id, newest first.
	// It returns an empty slice when there are no tasks.
	ListTasks(ctx context.Context) ([]*models.Task, error)

	// GetTask returns the task with the given ID or ErrTaskNotFound.
	GetTask(ctx context.Context, id int64) (*models.Task, error)

	// CreateTask inserts a task and returns the persisted row,
	// including the generated ID and timestamps.
	//
	// It returns ErrInvalidProgress if the progress is out of range
	// or ErrInvalidTask if the database rejects the values.
	CreateTask(ctx context.Context, params CreateTaskParams) (*models.Task, error)

	// UpdateTaskProgress sets the progress of a single task.
	//
	// It returns ErrInvalidProgress without touching the database
	// if the progress is out of range and ErrTaskNotFound if the
	// task doesn't exist.
	UpdateTaskProgress(ctx context.Context, id int64, progress int) (*models.Task, error)

	// UpdateTask writes only the fields set in the patch.
	//
	// It returns ErrNoFieldsToUpdate for an empty patch,
	// ErrInvalidTask if the patch blanks out name, assigned_to or priority,
	// ErrInvalidProgress if the patched progress is out of range
	// and ErrTaskNotFound if the task doesn't exist.
	UpdateTask(ctx context.Context, id int64, patch TaskPatch) (*models.Task, error)

	// DeleteTask removes the task or returns ErrTaskNotFound.
	DeleteTask(ctx context.Context, id int64) error
}

type CreateTaskParams struct {
	Name       string
	AssignedTo string
	Deadline   *time.Time
	Priority   string
	Progress   int
}

// TaskPatch is a sparse set of task fields. Nil fields are left untouched.
type TaskPatch struct {
	Name       *string
	AssignedTo *string
	Deadline   *time.Time
	Priority   *string
	Progress   *int
}

// updatableColumns is the fixed order in which patched columns
// appear in the generated SET clause.
var updatableColumns = []string{
	"name",
	"assigned_to",
	"deadline",
	"priority",
	"progress",
}

// Columns maps every set field to its column. Only columns
// from updatableColumns can ever appear in the result.
func (p TaskPatch) Columns() map[string]any {
	columns := make(map[string]any, len(updatableColumns))
	if p.Name != nil {
		columns["name"] = *p.Name
	}
	if p.AssignedTo != nil {
		columns["assigned_to"] = *p.AssignedTo
	}
	if p.Deadline != nil {
		columns["deadline"] = *p.Deadline
	}
	if p.Priority != nil {
		columns["priority"] = *p.Priority
	}
	if p.Progress != nil {
		columns["progress"] = *p.Progress
	}
	return columns
}

func (p TaskPatch) IsEmpty() bool {
	return len(p.Columns()) == 0
}

// BlankField returns the first text column the patch would set to "".
func (p TaskPatch) BlankField() (string, bool) {
	switch {
	case p.Name != nil && *p.Name == "":
		return "name", true
	case p.AssignedTo != nil && *p.AssignedTo == "":
		return "assigned_to", true
	case p.Priority != nil && *p.Priority == "":
		return "priority", true
	}
	return "", false
}
