package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	catalogerrors "github.com/abgdnv/catalog/internal/errors"
	"github.com/abgdnv/catalog/internal/product"
	"github.com/abgdnv/catalog/internal/repository"
	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS products (
	id    INTEGER PRIMARY KEY AUTOINCREMENT,
	name  TEXT    NOT NULL,
	price REAL    NOT NULL DEFAULT 0,
	stock INTEGER NOT NULL DEFAULT 0,
	color TEXT    NOT NULL DEFAULT ''
);`

var _ repository.Repository[product.Product] = (*SQLiteStore)(nil)

// SQLiteStore implements the product repository on a single SQLite file.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens the database at path and creates the schema if needed.
func NewSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// one connection serializes writers and keeps ":memory:" databases shared
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout = 5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to configure sqlite: %w", err)
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create sqlite schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) GetByID(ctx context.Context, id int64) (product.Product, bool, error) {
	var p product.Product
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, price, stock, color FROM products WHERE id = ?`, id,
	).Scan(&p.ID, &p.Name, &p.Price, &p.Stock, &p.Color)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return product.Product{}, false, nil
		}
		return product.Product{}, false, catalogerrors.NewStoreError("get", id, err)
	}
	return p, true, nil
}

func (s *SQLiteStore) GetAll(ctx context.Context) ([]product.Product, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, price, stock, color FROM products ORDER BY id`)
	if err != nil {
		return nil, catalogerrors.NewStoreError("get all", 0, err)
	}
	defer rows.Close()

	list := []product.Product{}
	for rows.Next() {
		var p product.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.Stock, &p.Color); err != nil {
			return nil, catalogerrors.NewStoreError("get all", 0, err)
		}
		list = append(list, p)
	}
	if err := rows.Err(); err != nil {
		return nil, catalogerrors.NewStoreError("get all", 0, err)
	}
	return list, nil
}

func (s *SQLiteStore) Create(ctx context.Context, entity *product.Product) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return catalogerrors.NewStoreError("create", entity.ID, err)
	}
	defer func() { _ = tx.Rollback() }()

	if entity.ID != 0 {
		var exists int
		err := tx.QueryRowContext(ctx, `SELECT COUNT(1) FROM products WHERE id = ?`, entity.ID).Scan(&exists)
		if err != nil {
			return catalogerrors.NewStoreError("create", entity.ID, err)
		}
		if exists > 0 {
			return catalogerrors.NewStoreError("create", entity.ID, catalogerrors.ErrDuplicateID)
		}
	}

	var id any
	if entity.ID != 0 {
		id = entity.ID
	}
	res, err := tx.ExecContext(ctx,
		`INSERT INTO products (id, name, price, stock, color) VALUES (?, ?, ?, ?, ?)`,
		id, entity.Name, entity.Price, entity.Stock, entity.Color,
	)
	if err != nil {
		return catalogerrors.NewStoreError("create", entity.ID, err)
	}
	newID, err := res.LastInsertId()
	if err != nil {
		return catalogerrors.NewStoreError("create", entity.ID, err)
	}
	if err := tx.Commit(); err != nil {
		return catalogerrors.NewStoreError("create", entity.ID, err)
	}
	entity.ID = newID
	return nil
}

func (s *SQLiteStore) Update(ctx context.Context, entity product.Product) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE products SET name = ?, price = ?, stock = ?, color = ? WHERE id = ?`,
		entity.Name, entity.Price, entity.Stock, entity.Color, entity.ID,
	)
	return checkAffected("update", entity.ID, res, err)
}

func (s *SQLiteStore) Delete(ctx context.Context, entity product.Product) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, entity.ID)
	return checkAffected("delete", entity.ID, res, err)
}

// Ping checks that the database file is usable.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func checkAffected(op string, id int64, res sql.Result, err error) error {
	if err != nil {
		return catalogerrors.NewStoreError(op, id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return catalogerrors.NewStoreError(op, id, err)
	}
	if n == 0 {
		return catalogerrors.NewStoreError(op, id, catalogerrors.ErrNotFound)
	}
	return nil
}
