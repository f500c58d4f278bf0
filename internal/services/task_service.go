package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/construct-tasks/internal/models"
)

const taskColumns = `id,
       name,
       assigned_to,
       deadline,
       priority,
       progress,
       created_at,
       updated_at`

type taskServiceImpl struct {
	logger zerolog.Logger
	pgPool *pgxpool.Pool
}

func NewTaskService(
	logger zerolog.Logger,
	pgPool *pgxpool.Pool,
) TaskService {
	return &taskServiceImpl{
		logger: logger,
		pgPool: pgPool,
	}
}

func (s *taskServiceImpl) ListTasks(ctx context.Context) ([]*models.Task, error) {
	const selectTasksQuery = `
SELECT ` + taskColumns + `
FROM tasks
ORDER BY id DESC
`
	rows, err := s.pgPool.Query(ctx, selectTasksQuery)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to select tasks")
		return nil, err
	}

	tasks, err := pgx.CollectRows(rows, scanCollectableTask)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to scan tasks")
		return nil, err
	}
	s.logger.Debug().
		Int("count", len(tasks)).
		Msg("selected tasks")
	return tasks, nil
}

func (s *taskServiceImpl) GetTask(ctx context.Context, id int64) (*models.Task, error) {
	const selectTaskByIDQuery = `
SELECT ` + taskColumns + `
FROM tasks
WHERE id = $1::bigint
`
	task, err := scanTask(s.pgPool.QueryRow(ctx, selectTaskByIDQuery, id))
	if err != nil {
		return nil, s.wrapQueryError(err, id, "failed to select task by id")
	}
	s.logger.Debug().
		Int64("task_id", task.ID).
		Msg("selected task by id")
	return task, nil
}

func (s *taskServiceImpl) CreateTask(ctx context.Context, params CreateTaskParams) (*models.Task, error) {
	if !models.ValidProgress(params.Progress) {
		s.logger.Error().
			Int("progress", params.Progress).
			Msg("invalid progress")
		return nil, ErrInvalidProgress
	}

	now := time.Now()

	const insertTaskQuery = `
INSERT INTO tasks (name,
                   assigned_to,
                   deadline,
                   priority,
                   progress,
                   created_at,
                   updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING ` + taskColumns
	task, err := scanTask(s.pgPool.QueryRow(
		ctx,
		insertTaskQuery,
		params.Name,
		params.AssignedTo,
		params.Deadline,
		params.Priority,
		params.Progress,
		now,
		now,
	))
	if err != nil {
		if isInvalidValueError(err) {
			s.logger.Error().
				Err(err).
				Msg("database rejected task values")
			return nil, fmt.Errorf("%w: %s", ErrInvalidTask, pgErrorMessage(err))
		}

		s.logger.Error().
			Err(err).
			Msg("failed to insert task")
		return nil, err
	}
	s.logger.Debug().
		Int64("task_id", task.ID).
		Msg("inserted task")

	s.logger.Info().
		Int64("task_id", task.ID).
		Msg("created task")
	return task, nil
}

func (s *taskServiceImpl) UpdateTaskProgress(ctx context.Context, id int64, progress int) (*models.Task, error) {
	if !models.ValidProgress(progress) {
		s.logger.Error().
			Int64("task_id", id).
			Int("progress", progress).
			Msg("invalid progress")
		return nil, ErrInvalidProgress
	}

	const updateTaskProgressQuery = `
UPDATE tasks
SET progress = $1,
    updated_at = $2
WHERE id = $3::bigint
RETURNING ` + taskColumns
	task, err := scanTask(s.pgPool.QueryRow(
		ctx,
		updateTaskProgressQuery,
		progress,
		time.Now(),
		id,
	))
	if err != nil {
		return nil, s.wrapQueryError(err, id, "failed to update task progress")
	}

	s.logger.Info().
		Int64("task_id", task.ID).
		Int("progress", task.Progress).
		Msg("updated task progress")
	return task, nil
}

func (s *taskServiceImpl) UpdateTask(ctx context.Context, id int64, patch TaskPatch) (*models.Task, error) {
	columns := patch.Columns()
	if len(columns) == 0 {
		s.logger.Error().
			Int64("task_id", id).
			Msg("no fields to update")
		return nil, ErrNoFieldsToUpdate
	}
	if column, ok := patch.BlankField(); ok {
		s.logger.Error().
			Int64("task_id", id).
			Str("column", column).
			Msg("empty task field")
		return nil, fmt.Errorf("%w: %s must not be empty", ErrInvalidTask, column)
	}
	if patch.Progress != nil && !models.ValidProgress(*patch.Progress) {
		s.logger.Error().
			Int64("task_id", id).
			Int("progress", *patch.Progress).
			Msg("invalid progress")
		return nil, ErrInvalidProgress
	}

	query, args := buildUpdateTaskQuery(id, columns, time.Now())
	task, err := scanTask(s.pgPool.QueryRow(ctx, query, args))
	if err != nil {
		return nil, s.wrapQueryError(err, id, "failed to update task")
	}

	s.logger.Info().
		Int64("task_id", task.ID).
		Int("fields", len(columns)).
		Msg("updated task")
	return task, nil
}

func (s *taskServiceImpl) DeleteTask(ctx context.Context, id int64) error {
	const deleteTaskQuery = `
DELETE FROM tasks
WHERE id = $1::bigint
`
	tag, err := s.pgPool.Exec(ctx, deleteTaskQuery, id)
	if err != nil {
		s.logger.Error().
			Err(err).
			Int64("task_id", id).
			Msg("failed to delete task")
		return err
	}
	if tag.RowsAffected() == 0 {
		s.logger.Error().
			Int64("task_id", id).
			Msg("task not found")
		return ErrTaskNotFound
	}

	s.logger.Info().
		Int64("task_id", id).
		Msg("deleted task")
	return nil
}

// buildUpdateTaskQuery renders an UPDATE touching only the given columns.
// Column names come from updatableColumns, values travel as named args.
func buildUpdateTaskQuery(id int64, columns map[string]any, updatedAt time.Time) (string, pgx.NamedArgs) {
	args := pgx.NamedArgs{
		"id":         id,
		"updated_at": updatedAt,
	}

	set := make([]string, 0, len(columns)+1)
	for _, column := range updatableColumns {
		value, ok := columns[column]
		if !ok {
			continue
		}
		set = append(set, column+" = @"+column)
		args[column] = value
	}
	set = append(set, "updated_at = @updated_at")

	query := `
UPDATE tasks
SET ` + strings.Join(set, ",\n    ") + `
WHERE id = @id::bigint
RETURNING ` + taskColumns
	return query, args
}

func (s *taskServiceImpl) wrapQueryError(err error, id int64, msg string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		s.logger.Error().
			Int64("task_id", id).
			Msg("task not found")
		return ErrTaskNotFound
	}
	if isInvalidValueError(err) {
		s.logger.Error().
			Err(err).
			Int64("task_id", id).
			Msg("database rejected task values")
		return fmt.Errorf("%w: %s", ErrInvalidTask, pgErrorMessage(err))
	}

	s.logger.Error().
		Err(err).
		Int64("task_id", id).
		Msg(msg)
	return err
}

func scanTask(row pgx.Row) (*models.Task, error) {
	task := new(models.Task)
	err := row.Scan(
		&task.ID,
		&task.Name,
		&task.AssignedTo,
		&task.Deadline,
		&task.Priority,
		&task.Progress,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return task, nil
}

func scanCollectableTask(row pgx.CollectableRow) (*models.Task, error) {
	return scanTask(row)
}

// isInvalidValueError reports whether postgres refused the statement
// because of the supplied values rather than a server-side failure.
func isInvalidValueError(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}

	switch pgErr.Code {
	case pgerrcode.NotNullViolation,
		pgerrcode.CheckViolation,
		pgerrcode.StringDataRightTruncationDataException,
		pgerrcode.NumericValueOutOfRange,
		pgerrcode.DatetimeFieldOverflow,
		pgerrcode.InvalidDatetimeFormat:
		return true
	}
	return false
}

func pgErrorMessage(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Message
	}
	return err.Error()
}
