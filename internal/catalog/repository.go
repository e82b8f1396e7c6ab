package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "modernc.org/sqlite"
)

// Repository reads catalog rows from SQLite.
type Repository struct {
	db *sql.DB
}

func NewRepository(dbPath string) (*Repository, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) RunMigrations(migrationsPath string) error {
	driver, err := sqlite.WithInstance(r.db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		fmt.Sprintf("file://%s", migrationsPath),
		"sqlite",
		driver,
	)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	return nil
}

func (r *Repository) Product(ctx context.Context, id int64) (*Product, error) {
	query := `
		SELECT id, title, image_url
		FROM products
		WHERE id = ?
	`

	p := &Product{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.Title, &p.ImageURL)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query product: %w", err)
	}

	return p, nil
}

// Variant fetches the variant and its type name in one round trip.
func (r *Repository) Variant(ctx context.Context, productID, variantTypeID int64) (*Variant, error) {
	query := `
		SELECT v.product_id, v.variant_type_id, t.name, v.price
		FROM product_variants v
		JOIN product_variant_types t ON t.id = v.variant_type_id
		WHERE v.product_id = ? AND v.variant_type_id = ?
	`

	v := &Variant{}
	err := r.db.QueryRowContext(ctx, query, productID, variantTypeID).
		Scan(&v.ProductID, &v.VariantTypeID, &v.TypeName, &v.Price)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrVariantNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query product variant: %w", err)
	}

	return v, nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}
