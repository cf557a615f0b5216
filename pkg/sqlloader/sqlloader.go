// Package sqlloader stores flattened remittance rows in a relational
// table through squealx.
package sqlloader

import (
	"context"
	"fmt"
	"strings"

	"github.com/oarkflow/log"
	"github.com/oarkflow/squealx"
	"github.com/oarkflow/squealx/connection"

	"github.com/oarkflow/edi835/pkg/config"
	"github.com/oarkflow/edi835/pkg/remit"
)

// Loader inserts flattened service rows into one destination table.
// Every column is stored as text; the flattened projection already
// keeps amounts and dates in their source form.
type Loader struct {
	Db         *squealx.DB
	Table      string
	Driver     string
	AutoCreate bool
	created    bool
}

// Connect opens the destination database described by cfg.
func Connect(cfg *config.DatabaseConfig) (*Loader, error) {
	db, _, err := connection.FromConfig(squealx.Config{
		Driver:      cfg.Driver,
		Host:        cfg.Host,
		Port:        cfg.Port,
		Username:    cfg.Username,
		Password:    cfg.Password,
		Database:    cfg.Database,
		MaxIdleCons: cfg.MaxIdleConns,
		MaxOpenCons: cfg.MaxOpenConns,
	})
	if err != nil {
		return nil, err
	}
	return New(db, cfg.Driver, cfg.Table, cfg.AutoCreate), nil
}

// New wraps an existing connection.
func New(db *squealx.DB, driver, table string, autoCreate bool) *Loader {
	return &Loader{Db: db, Driver: driver, Table: table, AutoCreate: autoCreate}
}

// StoreTable batch-inserts every row of the flattened table. Rows are
// padded to the table's full column set so one named statement covers
// the whole batch.
func (l *Loader) StoreTable(ctx context.Context, table *remit.FlatTable) error {
	if len(table.Rows) == 0 {
		return nil
	}
	if l.AutoCreate && !l.created {
		if err := l.createTable(ctx, table.Columns); err != nil {
			return err
		}
		l.created = true
	}

	batch := make([]map[string]any, 0, len(table.Rows))
	for _, row := range table.Rows {
		rec := make(map[string]any, len(table.Columns))
		for _, column := range table.Columns {
			rec[column] = row[column]
		}
		batch = append(batch, rec)
	}

	placeholders := make([]string, len(table.Columns))
	for i, column := range table.Columns {
		placeholders[i] = fmt.Sprintf(":%s", column)
	}
	q := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		l.Table,
		strings.Join(table.Columns, ", "),
		strings.Join(placeholders, ", "))
	if _, err := l.Db.NamedExec(q, batch); err != nil {
		return fmt.Errorf("insert into %s: %w", l.Table, err)
	}
	log.Printf("[SQLLoader] Stored %d rows into %s", len(batch), l.Table)
	return nil
}

func (l *Loader) createTable(ctx context.Context, columns []string) error {
	defs := make([]string, len(columns))
	for i, column := range columns {
		defs[i] = fmt.Sprintf("%s TEXT", column)
	}
	q := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", l.Table, strings.Join(defs, ", "))
	if _, err := l.Db.ExecContext(ctx, q); err != nil {
		return fmt.Errorf("create table %s: %w", l.Table, err)
	}
	return nil
}

// Close releases the underlying connection.
func (l *Loader) Close() error {
	return l.Db.Close()
}
