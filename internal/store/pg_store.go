package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	perrors "github.com/grocerydesk/catalog/internal/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const productColumns = "id, name, description, value::text, quantity"

const insertProduct = `INSERT INTO products (name, description, value, quantity)
VALUES ($1, $2, $3, $4)
RETURNING ` + productColumns

const updateProduct = `UPDATE products
SET name = $2, description = $3, value = $4, quantity = $5, updated_at = now()
WHERE id = $1
RETURNING ` + productColumns

const findProductByID = `SELECT ` + productColumns + ` FROM products WHERE id = $1`

const deleteProduct = `DELETE FROM products WHERE id = $1`

// PgStore implements ProductStore using PostgreSQL as the data store.
type PgStore struct {
	db   *pgxpool.Pool
	psql squirrel.StatementBuilderType
}

// NewPgStore creates a new instance of ProductStore using a PostgreSQL connection pool.
func NewPgStore(dbp *pgxpool.Pool) *PgStore {
	return &PgStore{
		db:   dbp,
		psql: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Save inserts the product when it has no ID yet, otherwise replaces the row with the same ID.
// Returns ErrProductNotFound if the ID to replace does not exist.
func (p *PgStore) Save(ctx context.Context, product Product) (*Product, error) {
	if product.IsNew() {
		row := p.db.QueryRow(ctx, insertProduct,
			product.Name, product.Description, product.Value, product.Quantity)
		saved, err := scanProduct(row)
		if err != nil {
			return nil, fmt.Errorf("failed to create product: %w", err)
		}
		return saved, nil
	}

	row := p.db.QueryRow(ctx, updateProduct,
		product.ID, product.Name, product.Description, product.Value, product.Quantity)
	saved, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, perrors.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	return saved, nil
}

// FindByID retrieves a product by its unique identifier.
// Returns ErrProductNotFound if no product exists with the given ID.
func (p *PgStore) FindByID(ctx context.Context, id uuid.UUID) (*Product, error) {
	product, err := scanProduct(p.db.QueryRow(ctx, findProductByID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, perrors.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}
	return product, nil
}

// Delete removes a product by its unique identifier.
// Returns ErrProductNotFound if no product exists with the given ID.
func (p *PgStore) Delete(ctx context.Context, product Product) error {
	tag, err := p.db.Exec(ctx, deleteProduct, product.ID)
	if err != nil {
		return fmt.Errorf("failed to delete product by ID: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return perrors.ErrProductNotFound
	}
	return nil
}

// FindByNameContaining retrieves one page of products whose name contains name, ignoring case.
func (p *PgStore) FindByNameContaining(ctx context.Context, name string, pageRequest PageRequest) (*Page, error) {
	filter := squirrel.ILike{"name": "%" + escapeLike(name) + "%"}

	countSQL, countArgs, err := p.psql.Select("count(*)").From("products").Where(filter).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build count query: %w", err)
	}
	var total int64
	if err := p.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	listSQL, listArgs, err := p.psql.Select(productColumns).
		From("products").
		Where(filter).
		OrderBy("seq").
		Limit(uint64(pageRequest.Size)).
		Offset(uint64(pageRequest.Offset())).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list query: %w", err)
	}
	rows, err := p.db.Query(ctx, listSQL, listArgs...)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	content, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Product, error) {
		product, err := scanProduct(row)
		if err != nil {
			return Product{}, err
		}
		return *product, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read products: %w", err)
	}

	return &Page{
		Content:       content,
		TotalElements: total,
		PageRequest:   pageRequest,
	}, nil
}

// scanProduct reads a row selected with productColumns.
func scanProduct(row pgx.Row) (*Product, error) {
	var product Product
	var value string
	if err := row.Scan(&product.ID, &product.Name, &product.Description, &value, &product.Quantity); err != nil {
		return nil, err
	}
	parsed, err := decimal.NewFromString(value)
	if err != nil {
		return nil, fmt.Errorf("invalid stored value %q: %w", value, err)
	}
	product.Value = parsed
	return &product, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes LIKE wildcards in user input match literally.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
