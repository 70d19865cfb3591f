// Package store provides the SQL-backed product stores and the decorators wrapped around any product store.
package store

import (
	"context"
	"errors"
	"fmt"

	catalogerrors "github.com/abgdnv/catalog/internal/errors"
	"github.com/abgdnv/catalog/internal/product"
	"github.com/abgdnv/catalog/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const pgUniqueViolation = "23505"

var _ repository.Repository[product.Product] = (*PgStore)(nil)

// PgStore implements the product repository using PostgreSQL as the data store.
type PgStore struct {
	db *pgxpool.Pool
}

// NewPgStore creates a new product store using a PostgreSQL connection pool.
func NewPgStore(db *pgxpool.Pool) *PgStore {
	return &PgStore{db: db}
}

// GetByID retrieves a product by its identifier. A missing row is reported through found.
func (p *PgStore) GetByID(ctx context.Context, id int64) (product.Product, bool, error) {
	row := p.db.QueryRow(ctx, `SELECT id, name, price, stock, color FROM products WHERE id = $1`, id)
	found, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return product.Product{}, false, nil
		}
		return product.Product{}, false, catalogerrors.NewStoreError("get", id, err)
	}
	return found, true, nil
}

// GetAll retrieves every product ordered by id.
func (p *PgStore) GetAll(ctx context.Context) ([]product.Product, error) {
	rows, err := p.db.Query(ctx, `SELECT id, name, price, stock, color FROM products ORDER BY id`)
	if err != nil {
		return nil, catalogerrors.NewStoreError("get all", 0, err)
	}
	list, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (product.Product, error) {
		return scanProduct(row)
	})
	if err != nil {
		return nil, catalogerrors.NewStoreError("get all", 0, err)
	}
	if list == nil {
		list = []product.Product{}
	}
	return list, nil
}

// Create inserts a product. A zero id is assigned by the identity column; an explicit id
// moves the identity sequence past it in the same transaction.
func (p *PgStore) Create(ctx context.Context, entity *product.Product) error {
	if entity.ID == 0 {
		err := p.db.QueryRow(ctx,
			`INSERT INTO products (name, price, stock, color) VALUES ($1, $2, $3, $4) RETURNING id`,
			entity.Name, entity.Price, entity.Stock, entity.Color,
		).Scan(&entity.ID)
		if err != nil {
			return catalogerrors.NewStoreError("create", 0, err)
		}
		return nil
	}

	err := p.withTransaction(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx,
			`INSERT INTO products (id, name, price, stock, color) VALUES ($1, $2, $3, $4, $5)`,
			entity.ID, entity.Name, entity.Price, entity.Stock, entity.Color,
		)
		if err != nil {
			return err
		}
		_, err = tx.Exec(ctx,
			`SELECT setval(pg_get_serial_sequence('products', 'id'), (SELECT MAX(id) FROM products))`,
		)
		return err
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return catalogerrors.NewStoreError("create", entity.ID, catalogerrors.ErrDuplicateID)
		}
		return catalogerrors.NewStoreError("create", entity.ID, err)
	}
	return nil
}

// Update replaces all fields of the product sharing the given id.
func (p *PgStore) Update(ctx context.Context, entity product.Product) error {
	tag, err := p.db.Exec(ctx,
		`UPDATE products SET name = $2, price = $3, stock = $4, color = $5 WHERE id = $1`,
		entity.ID, entity.Name, entity.Price, entity.Stock, entity.Color,
	)
	if err != nil {
		return catalogerrors.NewStoreError("update", entity.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return catalogerrors.NewStoreError("update", entity.ID, catalogerrors.ErrNotFound)
	}
	return nil
}

// Delete removes the product sharing the given id.
func (p *PgStore) Delete(ctx context.Context, entity product.Product) error {
	tag, err := p.db.Exec(ctx, `DELETE FROM products WHERE id = $1`, entity.ID)
	if err != nil {
		return catalogerrors.NewStoreError("delete", entity.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return catalogerrors.NewStoreError("delete", entity.ID, catalogerrors.ErrNotFound)
	}
	return nil
}

// Ping checks that the database is reachable.
func (p *PgStore) Ping(ctx context.Context) error {
	return p.db.Ping(ctx)
}

func (p *PgStore) withTransaction(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := p.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			return fmt.Errorf("failed to rollback transaction: %w", rbErr)
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func scanProduct(row pgx.Row) (product.Product, error) {
	var p product.Product
	err := row.Scan(&p.ID, &p.Name, &p.Price, &p.Stock, &p.Color)
	return p, err
}
