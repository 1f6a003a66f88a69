package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pairing_service/internal/config"
	"pairing_service/internal/models"
	"pairing_service/internal/storage"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepo struct {
	pool *pgxpool.Pool
}

func New(ctx context.Context, cfg *config.Config) (*PostgresRepo, error) {
	const op = "storage.postgres.New"

	poolConfig, err := pgxpool.ParseConfig(dsn(cfg))
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse config: %w", op, err)
	}

	poolConfig.MaxConns = 10
	poolConfig.MinConns = 2
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = time.Minute * 30

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create pool: %w", op, err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%s: failed to ping database: %w", op, err)
	}

	return &PostgresRepo{pool: pool}, nil
}

func (r *PostgresRepo) SaveAccount(ctx context.Context, email string, passHash []byte) (models.Account, error) {
	const op = "storage.postgres.SaveAccount"

	query := `
		INSERT INTO accounts (id, email, password_hash)
		VALUES ($1, $2, $3);
	`

	id := uuid.NewString()

	_, err := r.pool.Exec(ctx, query, id, email, string(passHash))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return models.Account{}, storage.ErrAccountExists
		}

		return models.Account{}, fmt.Errorf("%s: failed to save account: %w", op, err)
	}

	return models.Account{ID: id, Email: email, PassHash: passHash}, nil
}

func (r *PostgresRepo) Account(ctx context.Context, email string) (models.Account, error) {
	query := `
		SELECT id, email, password_hash, COALESCE(bound_device_id, '')
		FROM accounts
		WHERE email = $1;
	`

	return r.scanAccount(r.pool.QueryRow(ctx, query, email))
}

func (r *PostgresRepo) AccountByID(ctx context.Context, id string) (models.Account, error) {
	query := `
		SELECT id, email, password_hash, COALESCE(bound_device_id, '')
		FROM accounts
		WHERE id = $1;
	`

	return r.scanAccount(r.pool.QueryRow(ctx, query, id))
}

func (r *PostgresRepo) BindDevice(ctx context.Context, accountID, deviceID string) error {
	const op = "storage.postgres.BindDevice"

	query := `UPDATE accounts SET bound_device_id = $1 WHERE id = $2`

	tag, err := r.pool.Exec(ctx, query, deviceID, accountID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if tag.RowsAffected() == 0 {
		return storage.ErrAccountNotFound
	}

	return nil
}

func (r *PostgresRepo) Close() error {
	r.pool.Close()
	return nil
}

func (r *PostgresRepo) scanAccount(row pgx.Row) (models.Account, error) {
	var (
		a    models.Account
		hash string
	)

	err := row.Scan(&a.ID, &a.Email, &hash, &a.DeviceID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Account{}, storage.ErrAccountNotFound
		}

		return models.Account{}, err
	}

	a.PassHash = []byte(hash)

	return a, nil
}

func dsn(cfg *config.Config) string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s database=%s sslmode=%s",
		cfg.Postgres.Host,
		cfg.Postgres.Port,
		cfg.Postgres.User,
		cfg.Postgres.Password,
		cfg.Postgres.DBName,
		cfg.Postgres.SSLMode,
	)
}
