package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"simple-crud/models"
)

const createItemsTable = `CREATE TABLE IF NOT EXISTS items (
	id   INTEGER PRIMARY KEY,
	name TEXT NOT NULL
)`

// SQLiteStore persists items in a single table. Ids come from the shared
// Sequence, so ordering by id matches insertion order.
type SQLiteStore struct {
	db  *sql.DB
	seq *Sequence
}

// NewSQLiteStore creates the schema if needed, primes the id sequence from the
// existing rows and, when the table is empty, inserts seed.
func NewSQLiteStore(ctx context.Context, db *sql.DB, seed ...models.Item) (*SQLiteStore, error) {
	if _, err := db.ExecContext(ctx, createItemsTable); err != nil {
		return nil, fmt.Errorf("creating items table: %w", err)
	}

	s := &SQLiteStore{db: db, seq: NewSequence()}

	var maxID sql.NullInt64
	if err := db.QueryRowContext(ctx, `SELECT MAX(id) FROM items`).Scan(&maxID); err != nil {
		return nil, fmt.Errorf("reading max item id: %w", err)
	}
	if maxID.Valid {
		s.seq.Observe(maxID.Int64)
		return s, nil
	}

	for _, it := range seed {
		if _, err := db.ExecContext(ctx, `INSERT INTO items (id, name) VALUES (?, ?)`, it.ID, it.Name); err != nil {
			return nil, fmt.Errorf("seeding item %d: %w", it.ID, err)
		}
		s.seq.Observe(it.ID)
	}
	return s, nil
}

func (s *SQLiteStore) List(ctx context.Context) ([]models.Item, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name FROM items ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	items := []models.Item{}
	for rows.Next() {
		var it models.Item
		if err := rows.Scan(&it.ID, &it.Name); err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating items: %w", err)
	}
	return items, nil
}

func (s *SQLiteStore) Get(ctx context.Context, id int64) (models.Item, error) {
	var it models.Item
	err := s.db.QueryRowContext(ctx, `SELECT id, name FROM items WHERE id = ?`, id).Scan(&it.ID, &it.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Item{}, ErrNotFound
	}
	if err != nil {
		return models.Item{}, fmt.Errorf("getting item %d: %w", id, err)
	}
	return it, nil
}

func (s *SQLiteStore) Create(ctx context.Context, name string) (models.Item, error) {
	item := models.Item{ID: s.seq.Next(), Name: name}
	if _, err := s.db.ExecContext(ctx, `INSERT INTO items (id, name) VALUES (?, ?)`, item.ID, item.Name); err != nil {
		return models.Item{}, fmt.Errorf("inserting item: %w", err)
	}
	return item, nil
}

func (s *SQLiteStore) Update(ctx context.Context, id int64, name string) (models.Item, error) {
	res, err := s.db.ExecContext(ctx, `UPDATE items SET name = ? WHERE id = ?`, name, id)
	if err != nil {
		return models.Item{}, fmt.Errorf("updating item %d: %w", id, err)
	}
	if err := requireAffected(res); err != nil {
		return models.Item{}, err
	}
	return models.Item{ID: id, Name: name}, nil
}

func (s *SQLiteStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting item %d: %w", id, err)
	}
	return requireAffected(res)
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
