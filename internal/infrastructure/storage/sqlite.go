package storage

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/vitos/hyper_position_bot/internal/domain"
)

// SQLiteAddressStore is the database-backed address list. Save replaces
// the whole table inside one transaction, keeping the full-rewrite
// contract of the file store.
type SQLiteAddressStore struct {
	db *sql.DB
}

func NewSQLiteAddressStore(dbPath string) (*SQLiteAddressStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	store := &SQLiteAddressStore{db: db}
	if err := store.initSchema(); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *SQLiteAddressStore) initSchema() error {
	query := `CREATE TABLE IF NOT EXISTS monitored_addresses (
		seq INTEGER NOT NULL,
		address TEXT NOT NULL UNIQUE
	);`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("failed to exec query %s: %w", query, err)
	}
	return nil
}

func (s *SQLiteAddressStore) Load(ctx context.Context) ([]domain.Address, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT address FROM monitored_addresses ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var addresses []domain.Address
	for rows.Next() {
		var a string
		if err := rows.Scan(&a); err != nil {
			return nil, err
		}
		addresses = append(addresses, domain.Address(a))
	}
	return addresses, rows.Err()
}

func (s *SQLiteAddressStore) Save(ctx context.Context, addresses []domain.Address) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM monitored_addresses`); err != nil {
		return err
	}
	for i, a := range addresses {
		if _, err := tx.ExecContext(ctx, `INSERT INTO monitored_addresses (seq, address) VALUES (?, ?)`, i, a.String()); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *SQLiteAddressStore) Close() error { return s.db.Close() }
