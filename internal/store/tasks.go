package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
)

// TaskPatch is a partial task update. Nil fields are left unchanged.
type TaskPatch struct {
	Title        *string
	Description  *string
	Completed    *bool
	Deadline     *time.Time
	CollectionID *int64
}

// TaskFilter narrows and pages a task listing. Deadline keeps only tasks
// due at or before the given moment. Limit defaults to 100 and is capped
// at 100.
type TaskFilter struct {
	Offset    int
	Limit     int
	Deadline  *time.Time
	Completed bool
}

const taskColumns = `
	t.id, t.title, t.description, t.completed, t.created_at,
	t.deadline, t.collection_id, t.user_id, c.id, c.name`

// scanTask reads one joined task row, attaching the collection when the
// LEFT JOIN matched.
func scanTask(row pgx.Row) (*Task, error) {
	var task Task
	var collectionID *int64
	var collectionName *string
	err := row.Scan(
		&task.ID, &task.Title, &task.Description, &task.Completed, &task.CreatedAt,
		&task.Deadline, &task.CollectionID, &task.UserID, &collectionID, &collectionName,
	)
	if err != nil {
		return nil, err
	}
	if collectionID != nil {
		task.Collection = &Collection{ID: *collectionID, Name: *collectionName, UserID: task.UserID}
	}
	return &task, nil
}

// CreateTask inserts a task and returns it with its collection loaded.
func (s *Store) CreateTask(ctx context.Context, userID int64, title, description string, deadline *time.Time, collectionID *int64) (*Task, error) {
	const query = `
		INSERT INTO tasks (title, description, deadline, collection_id, user_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	var taskID int64
	err := s.db.QueryRow(ctx, query, title, description, deadline, collectionID, userID).Scan(&taskID)
	if err != nil {
		return nil, fmt.Errorf("store: create task: %w", err)
	}
	return s.GetTaskByID(ctx, userID, taskID)
}

// GetTaskByID retrieves one of the user's tasks with its collection.
func (s *Store) GetTaskByID(ctx context.Context, userID, taskID int64) (*Task, error) {
	const query = `
		SELECT` + taskColumns + `
		FROM tasks t
		LEFT JOIN collections c ON c.id = t.collection_id
		WHERE t.id = $1 AND t.user_id = $2`

	task, err := scanTask(s.db.QueryRow(ctx, query, taskID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("store: task %d: %w", taskID, ErrNotFound)
		}
		return nil, fmt.Errorf("store: get task: %w", err)
	}
	return task, nil
}

// ListTasks returns the user's tasks matching the filter, oldest first.
func (s *Store) ListTasks(ctx context.Context, userID int64, filter TaskFilter) ([]Task, error) {
	query := `
		SELECT` + taskColumns + `
		FROM tasks t
		LEFT JOIN collections c ON c.id = t.collection_id
		WHERE t.user_id = $1 AND t.completed = $2`
	args := []any{userID, filter.Completed}

	if filter.Deadline != nil {
		args = append(args, *filter.Deadline)
		query += fmt.Sprintf(" AND t.deadline <= $%d", len(args))
	}
	args = append(args, filter.Offset, clampLimit(filter.Limit))
	query += fmt.Sprintf(" ORDER BY t.id OFFSET $%d LIMIT $%d", len(args)-1, len(args))

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("store: list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("store: list tasks scan: %w", err)
		}
		tasks = append(tasks, *task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: list tasks: %w", err)
	}
	return tasks, nil
}

// buildTaskUpdate turns the non-nil patch fields into a SET clause with
// placeholders starting after the id and user id arguments. An empty
// clause means there is nothing to update.
func buildTaskUpdate(patch TaskPatch) (string, []any) {
	var assignments []string
	var args []any
	add := func(column string, value any) {
		args = append(args, value)
		assignments = append(assignments, fmt.Sprintf("%s = $%d", column, len(args)+2))
	}

	if patch.Title != nil {
		add("title", *patch.Title)
	}
	if patch.Description != nil {
		add("description", *patch.Description)
	}
	if patch.Completed != nil {
		add("completed", *patch.Completed)
	}
	if patch.Deadline != nil {
		add("deadline", *patch.Deadline)
	}
	if patch.CollectionID != nil {
		add("collection_id", *patch.CollectionID)
	}
	return strings.Join(assignments, ", "), args
}

// UpdateTask applies a partial update and returns the refreshed task. An
// empty patch is a no-op read.
func (s *Store) UpdateTask(ctx context.Context, userID, taskID int64, patch TaskPatch) (*Task, error) {
	setClause, args := buildTaskUpdate(patch)
	if setClause == "" {
		return s.GetTaskByID(ctx, userID, taskID)
	}

	query := fmt.Sprintf("UPDATE tasks SET %s WHERE id = $1 AND user_id = $2", setClause)
	tag, err := s.db.Exec(ctx, query, append([]any{taskID, userID}, args...)...)
	if err != nil {
		return nil, fmt.Errorf("store: update task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, fmt.Errorf("store: task %d: %w", taskID, ErrNotFound)
	}
	return s.GetTaskByID(ctx, userID, taskID)
}

// VerifyTasksExist filters the given ids down to the ones that exist and
// belong to the user.
func (s *Store) VerifyTasksExist(ctx context.Context, userID int64, taskIDs []int64) ([]int64, error) {
	const query = `SELECT id FROM tasks WHERE user_id = $1 AND id = ANY($2)`

	rows, err := s.db.Query(ctx, query, userID, taskIDs)
	if err != nil {
		return nil, fmt.Errorf("store: verify tasks: %w", err)
	}
	defer rows.Close()

	var existing []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("store: verify tasks scan: %w", err)
		}
		existing = append(existing, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: verify tasks: %w", err)
	}
	return existing, nil
}

// BulkAssignCollection moves the given tasks into a collection in one
// statement.
func (s *Store) BulkAssignCollection(ctx context.Context, userID int64, taskIDs []int64, collectionID int64) error {
	const query = `UPDATE tasks SET collection_id = $3 WHERE user_id = $1 AND id = ANY($2)`

	if _, err := s.db.Exec(ctx, query, userID, taskIDs, collectionID); err != nil {
		return fmt.Errorf("store: assign collection: %w", err)
	}
	return nil
}

// DeleteTask removes one of the user's tasks.
func (s *Store) DeleteTask(ctx context.Context, userID, taskID int64) error {
	const query = `DELETE FROM tasks WHERE id = $1 AND user_id = $2`

	tag, err := s.db.Exec(ctx, query, taskID, userID)
	if err != nil {
		return fmt.Errorf("store: delete task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("store: task %d: %w", taskID, ErrNotFound)
	}
	return nil
}
