package counter

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	c "github.com/d0ngw/counterd/common"
)

// DefaultTable is the table of MySQLStorage
const DefaultTable = "counter_value"

const createTableSQL = "CREATE TABLE IF NOT EXISTS %s (" +
	"id CHAR(64) NOT NULL," +
	"k VARCHAR(64) NOT NULL," +
	"val BIGINT NOT NULL DEFAULT 0," +
	"ut BIGINT NOT NULL DEFAULT 0," +
	"PRIMARY KEY (id, k)" +
	") ENGINE=InnoDB DEFAULT CHARSET=utf8mb4"

// MySQLStorage store every key of an entity in a row of table
type MySQLStorage struct {
	db        *sql.DB
	table     string
	loadSQL   string
	upsertSQL string
}

var _ Storage = (*MySQLStorage)(nil)

// NewMySQLStorage create MySQLStorage
func NewMySQLStorage(db *sql.DB, table string) (*MySQLStorage, error) {
	if db == nil {
		return nil, errors.New("db must not be nil")
	}
	if table == "" {
		table = DefaultTable
	}
	return &MySQLStorage{
		db:        db,
		table:     table,
		loadSQL:   fmt.Sprintf("SELECT val FROM %s WHERE id = ? AND k = ?", table),
		upsertSQL: fmt.Sprintf("INSERT INTO %s (id, k, val, ut) VALUES (?, ?, ?, ?) ON DUPLICATE KEY UPDATE val = VALUES(val), ut = VALUES(ut)", table),
	}, nil
}

// CreateTable create the table if not exists
func (p *MySQLStorage) CreateTable(ctx context.Context) error {
	_, err := p.db.ExecContext(ctx, fmt.Sprintf(createTableSQL, p.table))
	return err
}

// Load implements Storage.Load
func (p *MySQLStorage) Load(ctx context.Context, id ID, key string) (value int64, ok bool, err error) {
	err = p.db.QueryRowContext(ctx, p.loadSQL, string(id), key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return value, true, nil
}

// Store implements Storage.Store
func (p *MySQLStorage) Store(ctx context.Context, id ID, key string, value int64) error {
	_, err := p.db.ExecContext(ctx, p.upsertSQL, string(id), key, value, c.UnixMills(time.Now()))
	return err
}

// Close implements Storage.Close
func (p *MySQLStorage) Close() error {
	return p.db.Close()
}
