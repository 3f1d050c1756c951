package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/fastygo/todo/domain"
	"github.com/fastygo/todo/repository"
)

type taskRepository struct {
	db DB
}

// NewTaskRepository returns a Postgres-backed implementation of TaskRepository.
func NewTaskRepository(db DB) repository.TaskRepository {
	return &taskRepository{db: db}
}

func (r *taskRepository) Create(ctx context.Context, task *domain.Task) (int64, error) {
	if task == nil {
		return 0, domain.ErrInvalidPayload
	}

	// The upsert locks the owner's counter row until commit, so concurrent
	// creations for one owner are serialized and ids survive deletions.
	const nextID = `
	INSERT INTO task_sequences (user_id, last_id)
	VALUES ($1, 1)
	ON CONFLICT (user_id) DO UPDATE
	SET last_id = task_sequences.last_id + 1
	RETURNING last_id
	`
	const insert = `
	INSERT INTO tasks (id, user_id, title, description)
	VALUES ($1, $2, $3, $4)
	`

	var id int64
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, nextID, task.UserID).Scan(&id); err != nil {
			return fmt.Errorf("next task id: %w", err)
		}
		if _, err := tx.Exec(ctx, insert, id, task.UserID, task.Title, task.Description); err != nil {
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
	WHERE id = $1 AND user_id = $2
	`
	return scanTask(r.db.QueryRow(ctx, query, taskID, userID))
}

func (r *taskRepository) Exists(ctx context.Context, taskID, userID int64) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM tasks WHERE id = $1 AND user_id = $2)`
	var ok bool
	if err := r.db.QueryRow(ctx, query, taskID, userID).Scan(&ok); err != nil {
		return false, err
	}
	return ok, nil
}

func (r *taskRepository) List(ctx context.Context, userID int64) ([]domain.Task, error) {
	const query = `
	SELECT id, user_id, title, description
	FROM tasks
	WHERE user_id = $1
	ORDER BY id
	`
	rows, err := r.db.Query(ctx, query, userID)
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
	SET title = $3,
		description = $4
	WHERE id = $1 AND user_id = $2
	`
	tag, err := r.db.Exec(ctx, query, task.ID, task.UserID, task.Title, task.Description)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func (r *taskRepository) Delete(ctx context.Context, taskID, userID int64) (*domain.Task, error) {
	const query = `
	DELETE FROM tasks
	WHERE id = $1 AND user_id = $2
	RETURNING id, user_id, title, description
	`
	return scanTask(r.db.QueryRow(ctx, query, taskID, userID))
}

func (r *taskRepository) Count(ctx context.Context, userID int64) (int64, error) {
	const query = `SELECT COUNT(*) FROM tasks WHERE user_id = $1`
	var n int64
	if err := r.db.QueryRow(ctx, query, userID).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func scanTask(row scanner) (*domain.Task, error) {
	var task domain.Task
	if err := row.Scan(&task.ID, &task.UserID, &task.Title, &task.Description); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, err
	}
	return &task, nil
}
