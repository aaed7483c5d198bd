package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/adanyl0v/go-task-manager/internal/models"
	"github.com/adanyl0v/go-task-manager/internal/repository"
)

func (s *Store) CreateTask(ctx context.Context, task *models.Task) error {
	const insertTaskQuery = `
INSERT INTO tasks (user_id,
                   title,
                   description,
                   priority,
                   status,
                   due_date,
                   created_at,
                   updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
RETURNING id
`
	err := s.db.QueryRowContext(
		ctx,
		insertTaskQuery,
		task.UserID,
		task.Title,
		task.Description,
		task.Priority,
		task.Status,
		formatDate(task.DueDate),
		formatTimestamp(task.CreatedAt),
		formatTimestamp(task.UpdatedAt),
	).Scan(&task.ID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to insert task")
		return err
	}

	s.logger.Debug().
		Int64("task_id", task.ID).
		Msg("inserted task")
	return nil
}

const selectTaskColumns = `
SELECT id,
       user_id,
       title,
       description,
       priority,
       status,
       due_date,
       created_at,
       updated_at
FROM tasks
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*models.Task, error) {
	var (
		task      models.Task
		dueDate   sql.NullString
		createdAt string
		updatedAt string
	)
	err := row.Scan(
		&task.ID,
		&task.UserID,
		&task.Title,
		&task.Description,
		&task.Priority,
		&task.Status,
		&dueDate,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if task.DueDate, err = parseDate(dueDate); err != nil {
		return nil, err
	}
	if task.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return nil, err
	}
	if task.UpdatedAt, err = parseTimestamp(updatedAt); err != nil {
		return nil, err
	}
	return &task, nil
}

func (s *Store) GetTaskByID(ctx context.Context, id int64) (*models.Task, error) {
	task, err := scanTask(s.db.QueryRowContext(ctx, selectTaskColumns+"WHERE id = ?", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}

		s.logger.Error().
			Err(err).
			Int64("task_id", id).
			Msg("failed to select task")
		return nil, err
	}
	return task, nil
}

func (s *Store) ListTasksByUserID(ctx context.Context, userID int64) ([]*models.Task, error) {
	const orderBy = `
WHERE user_id = ?
ORDER BY due_date DESC NULLS LAST, id DESC
`
	rows, err := s.db.QueryContext(ctx, selectTaskColumns+orderBy, userID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to select tasks by user id")
		return nil, err
	}
	defer rows.Close()

	tasks := make([]*models.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			s.logger.Error().
				Err(err).
				Msg("failed to scan task")
			return nil, err
		}
		tasks = append(tasks, task)
	}

	err = rows.Err()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to iterate over rows")
		return nil, err
	}

	s.logger.Debug().
		Int("count", len(tasks)).
		Int64("user_id", userID).
		Msg("selected tasks by user id")
	return tasks, nil
}

func (s *Store) UpdateTask(ctx context.Context, task *models.Task) error {
	const updateTaskQuery = `
UPDATE tasks
SET title = ?,
    description = ?,
    priority = ?,
    status = ?,
    due_date = ?,
    updated_at = ?
WHERE id = ? AND user_id = ?
`
	res, err := s.db.ExecContext(
		ctx,
		updateTaskQuery,
		task.Title,
		task.Description,
		task.Priority,
		task.Status,
		formatDate(task.DueDate),
		formatTimestamp(task.UpdatedAt),
		task.ID,
		task.UserID,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Int64("task_id", task.ID).
			Msg("failed to update task")
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return repository.ErrNotFound
	}

	s.logger.Debug().
		Int64("task_id", task.ID).
		Msg("updated task")
	return nil
}

func (s *Store) DeleteTask(ctx context.Context, id, userID int64) error {
	const deleteTaskQuery = `
DELETE FROM tasks
WHERE id = ? AND user_id = ?
`
	res, err := s.db.ExecContext(ctx, deleteTaskQuery, id, userID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Int64("task_id", id).
			Msg("failed to delete task")
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return repository.ErrNotFound
	}

	s.logger.Debug().
		Int64("task_id", id).
		Msg("deleted task")
	return nil
}
