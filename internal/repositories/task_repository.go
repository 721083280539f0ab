package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"taskpilot/internal/models"
)

var ErrTaskNotFound = errors.New("task not found")

// TaskRepository is owner-scoped: every method filters by userID.
type TaskRepository interface {
	List(ctx context.Context, userID string) ([]models.Task, error)
	// CreateBatch inserts all tasks in one transaction; IDs and timestamps must already be set.
	CreateBatch(ctx context.Context, tasks []models.Task) error
	Update(ctx context.Context, userID, id string, patch models.TaskPatch, now time.Time) (*models.Task, error)
	Delete(ctx context.Context, userID, id string) error
	CategoryCounts(ctx context.Context, userID string) ([]models.CategoryCount, error)
	Ping(ctx context.Context) error
}

type taskRepository struct {
	db *sql.DB
}

func NewTaskRepository(db *sql.DB) TaskRepository {
	return &taskRepository{db: db}
}

const taskColumns = `id, user_id, title, description, category, completed, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(s rowScanner) (models.Task, error) {
	var t models.Task
	err := s.Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &t.Category, &t.Completed, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

func (r *taskRepository) List(ctx context.Context, userID string) ([]models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE user_id = $1 ORDER BY created_at ASC, seq ASC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (r *taskRepository) CreateBatch(ctx context.Context, tasks []models.Task) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO tasks (`+taskColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i := range tasks {
		t := &tasks[i]
		if _, err := stmt.ExecContext(ctx,
			t.ID, t.UserID, t.Title, t.Description, t.Category, t.Completed, t.CreatedAt, t.UpdatedAt,
		); err != nil {
			return fmt.Errorf("insert task %d: %w", i, err)
		}
	}
	return tx.Commit()
}

// Update applies the present patch fields in a single statement. updated_at is bumped to
// max(now, previous + 1µs) so it always moves forward.
func (r *taskRepository) Update(ctx context.Context, userID, id string, patch models.TaskPatch, now time.Time) (*models.Task, error) {
	sets := []string{}
	args := []any{}
	argID := 1

	add := func(column string, value any) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, argID))
		args = append(args, value)
		argID++
	}
	if patch.Title != nil {
		add("title", *patch.Title)
	}
	if patch.Description != nil {
		add("description", *patch.Description)
	}
	if patch.Category != nil {
		add("category", *patch.Category)
	}
	if patch.Completed != nil {
		add("completed", *patch.Completed)
	}
	sets = append(sets, fmt.Sprintf("updated_at = GREATEST($%d::timestamptz, updated_at + INTERVAL '1 microsecond')", argID))
	args = append(args, now)
	argID++

	query := fmt.Sprintf(`UPDATE tasks SET %s WHERE id = $%d AND user_id = $%d RETURNING %s`,
		strings.Join(sets, ", "), argID, argID+1, taskColumns)
	args = append(args, id, userID)

	t, err := scanTask(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *taskRepository) Delete(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrTaskNotFound
	}
	return nil
}

func (r *taskRepository) CategoryCounts(ctx context.Context, userID string) ([]models.CategoryCount, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT category, COUNT(*), COUNT(*) FILTER (WHERE completed)
		FROM tasks
		WHERE user_id = $1
		GROUP BY category
		ORDER BY category`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.CategoryCount
	for rows.Next() {
		var c models.CategoryCount
		if err := rows.Scan(&c.Category, &c.Total, &c.Completed); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *taskRepository) Ping(ctx context.Context) error {
	var one int
	return r.db.QueryRowContext(ctx, `SELECT 1`).Scan(&one)
}
