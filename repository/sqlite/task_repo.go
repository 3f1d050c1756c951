package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fastygo/todo/domain"
	"github.com/fastygo/todo/repository"
)

type taskRepository struct {
	db *sql.DB
}

// NewTaskRepository returns a SQLite-backed implementation of TaskRepository.
func NewTaskRepository(db *sql.DB) repository.TaskRepository {
	return &taskRepository{db: db}
}

func (r *taskRepository) Create(ctx context.Context, task *domain.Task) (int64, error) {
	if task == nil {
		return 0, domain.ErrInvalidPayload
	}

	const nextID = `
	INSERT INTO task_sequences (user_id, last_id)
	VALUES (?, 1)
	ON CONFLICT (user_id) DO UPDATE
	SET last_id = task_sequences.last_id + 1
	RETURNING last_id
	`
	const insert = `
	INSERT INTO tasks (id, user_id, title, description)
	VALUES (?, ?, ?, ?)
	`

	var id int64
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		if err := tx.QueryRowContext(ctx, nextID, task.UserID).Scan(&id); err != nil {
			return fmt.Errorf("next task id: %w", err)
		}
		if _, err := tx.ExecContext(ctx, insert, id, task.UserID, task.Title, task.Description); err != nil {
			return fmt.Errorf("insert task: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	task.ID = id
	return id, nil
}

func (r *taskRepository) Get(ctx context.Context, taskID, userID int64) (*domain.Task, error) {
	const query = `
	SELECT id, user_id, title, description
	FROM tasks
	WHERE id = ? AND user_id = ?
	`
	return scanTask(r.db.QueryRowContext(ctx, query, taskID, userID))
}

func (r *taskRepository) Exists(ctx context.Context, taskID, userID int64) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM tasks WHERE id = ? AND user_id = ?)`
	var ok bool
	if err := r.db.QueryRowContext(ctx, query, taskID, userID).Scan(&ok); err != nil {
		return false, err
	}
	return ok, nil
}

func (r *taskRepository) List(ctx context.Context, userID int64) ([]domain.Task, error) {
	const query = `
	SELECT id, user_id, title, description
	FROM tasks
	WHERE user_id = ?
	ORDER BY id
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := []domain.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	return tasks, rows.Err()
}

func (r *taskRepository) Update(ctx context.Context, task *domain.Task) error {
	if task == nil {
		return domain.ErrInvalidPayload
	}

	const query = `
	UPDATE tasks
	SET title = ?,
		description = ?
	WHERE id = ? AND user_id = ?
	`
	res, err := r.db.ExecContext(ctx, query, task.Title, task.Description, task.ID, task.UserID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func (r *taskRepository) Delete(ctx context.Context, taskID, userID int64) (*domain.Task, error) {
	const query = `
	DELETE FROM tasks
	WHERE id = ? AND user_id = ?
	RETURNING id, user_id, title, description
	`
	return scanTask(r.db.QueryRowContext(ctx, query, taskID, userID))
}

func (r *taskRepository) Count(ctx context.Context, userID int64) (int64, error) {
	const query = `SELECT COUNT(*) FROM tasks WHERE user_id = ?`
	var n int64
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func scanTask(row scanner) (*domain.Task, error) {
	var task domain.Task
	if err := row.Scan(&task.ID, &task.UserID, &task.Title, &task.Description); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, err
	}
	return &task, nil
}
