package storage

import (
	"context"
	"database/sql"
	"fmt"

	"foodhub/food-svc/internal/service"
)

type txKey struct{}

// querier is the subset of *sql.DB and *sql.Tx the repositories use.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// conn returns the transaction stored in ctx, or db when there is none.
func conn(ctx context.Context, db *sql.DB) querier {
	if tx, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return tx
	}
	return db
}

type TxManager struct {
	DB *sql.DB
}

func NewTxManager(db *sql.DB) *TxManager {
	return &TxManager{DB: db}
}

// WithTransaction joins an outer transaction when ctx already carries one.
func (m *TxManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return fn(ctx)
	}

	tx, err := m.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

var (
	_ service.TxManager         = (*TxManager)(nil)
	_ service.CatalogRepository = (*CatalogRepository)(nil)
	_ service.OrderRepository   = (*OrderRepository)(nil)
	_ service.OfferRepository   = (*OfferRepository)(nil)
	_ service.AddressRepository = (*AddressRepository)(nil)
	_ service.UserRepository    = (*UserRepository)(nil)
	_ service.OTPStore          = (*OTPStore)(nil)
	_ service.RatingMarker      = (*RatingMarker)(nil)
	_ service.SalesReader       = (*SalesReader)(nil)
	_ service.EventPublisher    = (*KafkaPublisher)(nil)
	_ service.EventPublisher    = NopPublisher{}
	_ service.ImageStore        = (*LocalImageStore)(nil)
	_ service.ImageStore        = (*S3ImageStore)(nil)
)
