// internal/adapters/repository/postgres.go
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/mahabubulhasibshawon/drone-dispatch.git/internal/domain"
	"github.com/mahabubulhasibshawon/drone-dispatch.git/internal/ports"
)

const uniqueViolation = "23505"

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) ports.RepositoryPort {
	return &PostgresRepository{db: db}
}

// InitSchema creates the tables if they do not exist yet.
func InitSchema(ctx context.Context, db *sql.DB) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id SERIAL PRIMARY KEY,
			username VARCHAR(255) UNIQUE NOT NULL,
			password VARCHAR(255) NOT NULL,
			role VARCHAR(16) NOT NULL DEFAULT 'user',
			created_at TIMESTAMP NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS blood_inventory (
			id SERIAL PRIMARY KEY,
			blood_type VARCHAR(3) NOT NULL,
			quantity_units INT NOT NULL CHECK (quantity_units >= 0),
			location VARCHAR(255) NOT NULL,
			updated_at TIMESTAMP NOT NULL DEFAULT NOW(),
			UNIQUE (blood_type, location)
		)`,
		`CREATE TABLE IF NOT EXISTS delivery_requests (
			id VARCHAR(64) PRIMARY KEY,
			patient_name VARCHAR(255) NOT NULL,
			blood_type VARCHAR(3) NOT NULL,
			units_requested INT NOT NULL CHECK (units_requested > 0),
			delivery_address TEXT NOT NULL,
			requested_by VARCHAR(255) NOT NULL,
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS delivery_requests_requested_by_idx ON delivery_requests (requested_by, created_at DESC)`,
	}
	for _, q := range queries {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	return nil
}

func (r *PostgresRepository) CreateUser(ctx context.Context, username, passwordHash string, role domain.Role) (*domain.User, error) {
	user := &domain.User{Username: username, PasswordHash: passwordHash, Role: role}
	err := r.db.QueryRowContext(ctx,
		"INSERT INTO users (username, password, role) VALUES ($1, $2, $3) RETURNING id, created_at",
		username, passwordHash, string(role),
	).Scan(&user.ID, &user.CreatedAt)
	if isUniqueViolation(err) {
		return nil, domain.ErrUsernameTaken
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *PostgresRepository) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	user := &domain.User{}
	var role string
	err := r.db.QueryRowContext(ctx,
		"SELECT id, username, password, role, created_at FROM users WHERE username = $1", username,
	).Scan(&user.ID, &user.Username, &user.PasswordHash, &role, &user.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	user.Role = domain.Role(role)
	return user, nil
}

func (r *PostgresRepository) AddInventory(ctx context.Context, rec *domain.InventoryRecord) error {
	err := r.db.QueryRowContext(ctx,
		"INSERT INTO blood_inventory (blood_type, quantity_units, location) VALUES ($1, $2, $3) RETURNING id, updated_at",
		rec.BloodType, rec.QuantityUnits, rec.Location,
	).Scan(&rec.ID, &rec.UpdatedAt)
	if isUniqueViolation(err) {
		return domain.ErrInventoryExists
	}
	return err
}

func (r *PostgresRepository) AdjustQuantity(ctx context.Context, key domain.InventoryKey, delta int) (*domain.InventoryRecord, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	rec := &domain.InventoryRecord{}
	err = tx.QueryRowContext(ctx,
		`SELECT id, blood_type, quantity_units, location, updated_at FROM blood_inventory
		 WHERE blood_type = $1 AND location = $2 FOR UPDATE`,
		key.BloodType, key.Location,
	).Scan(&rec.ID, &rec.BloodType, &rec.QuantityUnits, &rec.Location, &rec.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, domain.ErrInventoryNotFound
	}
	if err != nil {
		return nil, err
	}
	if _, err := domain.AdjustedQuantity(rec.QuantityUnits, delta); err != nil {
		return nil, err
	}
	err = tx.QueryRowContext(ctx,
		"UPDATE blood_inventory SET quantity_units = quantity_units + $1, updated_at = NOW() WHERE id = $2 RETURNING quantity_units, updated_at",
		delta, rec.ID,
	).Scan(&rec.QuantityUnits, &rec.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return rec, nil
}

func (r *PostgresRepository) FindByBloodType(ctx context.Context, bloodType string) ([]*domain.InventoryRecord, error) {
	return r.queryInventory(ctx, r.db,
		"SELECT id, blood_type, quantity_units, location, updated_at FROM blood_inventory WHERE blood_type = $1 ORDER BY location",
		bloodType)
}

func (r *PostgresRepository) ListInventory(ctx context.Context) ([]*domain.InventoryRecord, error) {
	return r.queryInventory(ctx, r.db,
		"SELECT id, blood_type, quantity_units, location, updated_at FROM blood_inventory ORDER BY blood_type, location")
}

func (r *PostgresRepository) PlaceOrder(ctx context.Context, req *domain.DeliveryRequest) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	records, err := r.queryInventory(ctx, tx,
		`SELECT id, blood_type, quantity_units, location, updated_at FROM blood_inventory
		 WHERE blood_type = $1 ORDER BY location FOR UPDATE`,
		req.BloodType)
	if err != nil {
		return err
	}
	available := 0
	for _, rec := range records {
		available += rec.QuantityUnits
	}
	if available < req.UnitsRequested {
		return &domain.InsufficientStockError{
			BloodType: req.BloodType,
			Requested: req.UnitsRequested,
			Available: available,
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO delivery_requests (id, patient_name, blood_type, units_requested, delivery_address, requested_by, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		req.ID, req.PatientName, req.BloodType, req.UnitsRequested, req.DeliveryAddress, req.RequestedBy, req.CreatedAt)
	if err != nil {
		return err
	}

	remaining := req.UnitsRequested
	for _, rec := range records {
		if remaining == 0 {
			break
		}
		take := min(remaining, rec.QuantityUnits)
		if take == 0 {
			continue
		}
		if _, err := tx.ExecContext(ctx,
			"UPDATE blood_inventory SET quantity_units = quantity_units - $1, updated_at = NOW() WHERE id = $2",
			take, rec.ID); err != nil {
			return err
		}
		remaining -= take
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (r *PostgresRepository) FindOrder(ctx context.Context, id string) (*domain.DeliveryRequest, error) {
	o := &domain.DeliveryRequest{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, patient_name, blood_type, units_requested, delivery_address, requested_by, created_at
		 FROM delivery_requests WHERE id = $1`, id,
	).Scan(&o.ID, &o.PatientName, &o.BloodType, &o.UnitsRequested, &o.DeliveryAddress, &o.RequestedBy, &o.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return o, nil
}

func (r *PostgresRepository) ListOrders(ctx context.Context, username string, limit, page int64) ([]*domain.DeliveryRequest, int64, error) {
	if limit < 1 {
		limit = 10
	}
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * limit

	var total int64
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM delivery_requests WHERE requested_by = $1", username).Scan(&total)
	if err != nil {
		return nil, 0, err
	}
	query := `
		SELECT id, patient_name, blood_type, units_requested, delivery_address, requested_by, created_at
		FROM delivery_requests WHERE requested_by = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3
	`
	rows, err := r.db.QueryContext(ctx, query, username, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var orders []*domain.DeliveryRequest
	for rows.Next() {
		o := &domain.DeliveryRequest{}
		if err := rows.Scan(&o.ID, &o.PatientName, &o.BloodType, &o.UnitsRequested, &o.DeliveryAddress, &o.RequestedBy, &o.CreatedAt); err != nil {
			return nil, 0, err
		}
		orders = append(orders, o)
	}
	return orders, total, rows.Err()
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
}

func (r *PostgresRepository) queryInventory(ctx context.Context, q querier, query string, args ...interface{}) ([]*domain.InventoryRecord, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*domain.InventoryRecord
	for rows.Next() {
		rec := &domain.InventoryRecord{}
		if err := rows.Scan(&rec.ID, &rec.BloodType, &rec.QuantityUnits, &rec.Location, &rec.UpdatedAt); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
