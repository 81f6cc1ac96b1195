package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// CreateCollection inserts a collection. Collection names are unique; a
// taken name comes back as [ErrDuplicate].
func (s *Store) CreateCollection(ctx context.Context, userID int64, name string) (*Collection, error) {
	const query = `
		INSERT INTO collections (name, user_id)
		VALUES ($1, $2)
		RETURNING id`

	collection := &Collection{Name: name, UserID: userID}
	err := s.db.QueryRow(ctx, query, name, userID).Scan(&collection.ID)
	if err != nil {
		if isDuplicateKeyError(err) {
			return nil, fmt.Errorf("store: collection %q: %w", name, ErrDuplicate)
		}
		return nil, fmt.Errorf("store: create collection: %w", err)
	}
	return collection, nil
}

// GetCollectionByID retrieves one of the user's collections with its tasks.
func (s *Store) GetCollectionByID(ctx context.Context, userID, collectionID int64) (*Collection, error) {
	const query = `SELECT id, name, user_id FROM collections WHERE id = $1 AND user_id = $2`

	var collection Collection
	err := s.db.QueryRow(ctx, query, collectionID, userID).Scan(
		&collection.ID, &collection.Name, &collection.UserID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("store: collection %d: %w", collectionID, ErrNotFound)
		}
		return nil, fmt.Errorf("store: get collection: %w", err)
	}

	const tasksQuery = `
		SELECT id, title, description, completed, created_at, deadline, collection_id, user_id
		FROM tasks
		WHERE collection_id = $1 AND user_id = $2
		ORDER BY id`

	rows, err := s.db.Query(ctx, tasksQuery, collectionID, userID)
	if err != nil {
		return nil, fmt.Errorf("store: collection tasks: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var task Task
		if err := rows.Scan(
			&task.ID, &task.Title, &task.Description, &task.Completed,
			&task.CreatedAt, &task.Deadline, &task.CollectionID, &task.UserID,
		); err != nil {
			return nil, fmt.Errorf("store: collection tasks scan: %w", err)
		}
		collection.Tasks = append(collection.Tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: collection tasks: %w", err)
	}
	return &collection, nil
}

// ListCollections returns a page of the user's collections, oldest first.
func (s *Store) ListCollections(ctx context.Context, userID int64, offset, limit int) ([]Collection, error) {
	const query = `
		SELECT id, name, user_id
		FROM collections
		WHERE user_id = $1
		ORDER BY id
		OFFSET $2 LIMIT $3`

	rows, err := s.db.Query(ctx, query, userID, offset, clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("store: list collections: %w", err)
	}
	defer rows.Close()

	var collections []Collection
	for rows.Next() {
		var collection Collection
		if err := rows.Scan(&collection.ID, &collection.Name, &collection.UserID); err != nil {
			return nil, fmt.Errorf("store: list collections scan: %w", err)
		}
		collections = append(collections, collection)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: list collections: %w", err)
	}
	return collections, nil
}

// UpdateCollection renames a collection.
func (s *Store) UpdateCollection(ctx context.Context, userID, collectionID int64, name string) (*Collection, error) {
	const query = `UPDATE collections SET name = $3 WHERE id = $1 AND user_id = $2`

	tag, err := s.db.Exec(ctx, query, collectionID, userID, name)
	if err != nil {
		if isDuplicateKeyError(err) {
			return nil, fmt.Errorf("store: collection %q: %w", name, ErrDuplicate)
		}
		return nil, fmt.Errorf("store: update collection: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, fmt.Errorf("store: collection %d: %w", collectionID, ErrNotFound)
	}
	return &Collection{ID: collectionID, Name: name, UserID: userID}, nil
}

// DeleteCollection removes a collection. Its tasks go with it through the
// foreign key cascade.
func (s *Store) DeleteCollection(ctx context.Context, userID, collectionID int64) error {
	const query = `DELETE FROM collections WHERE id = $1 AND user_id = $2`

	tag, err := s.db.Exec(ctx, query, collectionID, userID)
	if err != nil {
		return fmt.Errorf("store: delete collection: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("store: collection %d: %w", collectionID, ErrNotFound)
	}
	return nil
}
