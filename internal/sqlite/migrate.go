package sqlite

import (
	"context"
	"crypto/rand"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/myrjola/fightcamp/internal/errors"
)

// migrateTo brings the live schema in line with schemaDefinition declaratively. A scratch database is
// created from the definition and attached as "target"; tables, triggers and indexes are then diffed
// against it by name. Changed tables go through the rebuild procedure described in
// https://www.sqlite.org/lang_altertable.html#otheralter, which keeps the columns both versions share.
func (db *Database) migrateTo(ctx context.Context, schemaDefinition string) (err error) {
	start := time.Now()
	detach, err := db.attachTarget(ctx, schemaDefinition)
	if err != nil {
		return errors.Wrap(err, "attach target schema")
	}
	defer detach()

	if _, err = db.ReadWrite.ExecContext(ctx, "PRAGMA foreign_keys = OFF"); err != nil {
		return errors.Wrap(err, "disable foreign keys")
	}
	defer func() {
		if _, fkErr := db.ReadWrite.ExecContext(ctx, "PRAGMA foreign_keys = ON"); fkErr != nil {
			err = errors.Join(err, errors.Wrap(fkErr, "enable foreign keys"))
		}
	}()

	tx, err := db.ReadWrite.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin")
	}
	defer db.rollback(ctx, tx)

	m := migration{db: db, tx: tx}
	if err = m.tables(ctx); err != nil {
		return errors.Wrap(err, "migrate tables")
	}
	for _, kind := range []string{"trigger", "index"} {
		if err = m.objects(ctx, kind); err != nil {
			return errors.Wrap(err, "migrate "+kind+"es")
		}
	}
	if _, err = tx.ExecContext(ctx, "PRAGMA foreign_key_check"); err != nil {
		return errors.Wrap(err, "foreign key check")
	}
	if err = tx.Commit(); err != nil {
		return errors.Wrap(err, "commit")
	}
	db.logger.LogAttrs(ctx, slog.LevelInfo, "migrated database", slog.Duration("duration", time.Since(start)))
	return nil
}

// attachTarget materialises schemaDefinition in a scratch in-memory database and attaches it to the writer.
func (db *Database) attachTarget(ctx context.Context, schemaDefinition string) (func(), error) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", rand.Text())
	scratch, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "open scratch database")
	}
	// The shared cache keeps the scratch database alive while the writer has it attached.
	defer func() {
		if closeErr := scratch.Close(); closeErr != nil {
			db.logger.LogAttrs(ctx, slog.LevelError, "close scratch database",
				errors.SlogError(errors.Wrap(closeErr, "close")))
		}
	}()
	if _, err = scratch.ExecContext(ctx, schemaDefinition); err != nil {
		return nil, errors.Wrap(err, "apply schema definition")
	}
	if _, err = db.ReadWrite.ExecContext(ctx, "ATTACH DATABASE ? AS target", dsn); err != nil {
		return nil, errors.Wrap(err, "attach")
	}
	return func() {
		if _, detachErr := db.ReadWrite.ExecContext(ctx, "DETACH DATABASE target"); detachErr != nil {
			db.logger.LogAttrs(ctx, slog.LevelError, "detach target schema",
				errors.SlogError(errors.Wrap(detachErr, "detach")))
		}
	}, nil
}

func (db *Database) rollback(ctx context.Context, tx *sql.Tx) {
	if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		db.logger.LogAttrs(ctx, slog.LevelError, "rollback", errors.SlogError(errors.Wrap(err, "rollback")))
	}
}

type migration struct {
	db *Database
	tx *sql.Tx
}

// Schema objects are matched by name and type. Internal sqlite_ objects are never touched.
const (
	removedObjects = `SELECT live.name FROM sqlite_schema AS live
LEFT JOIN target.sqlite_schema AS want ON live.name = want.name AND live.type = want.type
WHERE live.type = ? AND want.type IS NULL AND live.name NOT LIKE 'sqlite_%'`
	addedObjects = `SELECT want.sql FROM target.sqlite_schema AS want
LEFT JOIN sqlite_schema AS live ON live.name = want.name AND live.type = want.type
WHERE want.type = ? AND live.type IS NULL AND want.name NOT LIKE 'sqlite_%'`
	// A rename quotes the table name in sqlite_schema, so quotes are ignored when comparing.
	changedObjects = `SELECT live.name, want.sql FROM sqlite_schema AS live
JOIN target.sqlite_schema AS want ON live.name = want.name AND live.type = want.type
WHERE live.type = ? AND live.name NOT LIKE 'sqlite_%'
  AND REPLACE(live.sql, '"', '') <> REPLACE(want.sql, '"', '')`
	sharedColumns = `SELECT '"' || want.name || '"' FROM PRAGMA_TABLE_INFO(?) AS live
JOIN PRAGMA_TABLE_INFO(?, 'target') AS want ON want.name = live.name`
)

func (m migration) tables(ctx context.Context) error {
	removed, err := m.strings(ctx, removedObjects, "table")
	if err != nil {
		return errors.Wrap(err, "query removed tables")
	}
	for _, name := range removed {
		if err = m.exec(ctx, "DROP TABLE "+name); err != nil {
			return err
		}
	}
	added, err := m.strings(ctx, addedObjects, "table")
	if err != nil {
		return errors.Wrap(err, "query added tables")
	}
	for _, stmt := range added {
		if err = m.exec(ctx, stmt); err != nil {
			return err
		}
	}
	changed, err := m.pairs(ctx, changedObjects, "table")
	if err != nil {
		return errors.Wrap(err, "query changed tables")
	}
	for _, c := range changed {
		if err = m.rebuild(ctx, c.name, c.sql); err != nil {
			return errors.Wrap(err, "rebuild table", slog.String("table", c.name))
		}
	}
	return nil
}

// rebuild creates the new table definition under a temporary name, copies over the shared columns and
// swaps it in place of the old table.
func (m migration) rebuild(ctx context.Context, name, newSQL string) error {
	temp := name + "_migration_temp"
	if err := m.exec(ctx, strings.Replace(newSQL, name, temp, 1)); err != nil {
		return err
	}
	columns, err := m.strings(ctx, sharedColumns, name, name)
	if err != nil {
		return errors.Wrap(err, "query shared columns")
	}
	list := strings.Join(columns, ", ")
	for _, stmt := range []string{
		fmt.Sprintf("INSERT INTO %s (%s) SELECT %s FROM %s", temp, list, list, name),
		"DROP TABLE " + name,
		fmt.Sprintf("ALTER TABLE %s RENAME TO %s", temp, name),
	} {
		if err = m.exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// objects synchronises triggers or indexes. Changed objects are dropped and recreated.
func (m migration) objects(ctx context.Context, kind string) error {
	drop := "DROP " + strings.ToUpper(kind) + " "
	removed, err := m.strings(ctx, removedObjects, kind)
	if err != nil {
		return errors.Wrap(err, "query removed")
	}
	for _, name := range removed {
		if err = m.exec(ctx, drop+name); err != nil {
			return err
		}
	}
	changed, err := m.pairs(ctx, changedObjects, kind)
	if err != nil {
		return errors.Wrap(err, "query changed")
	}
	for _, c := range changed {
		if err = m.exec(ctx, drop+c.name); err != nil {
			return err
		}
		if err = m.exec(ctx, c.sql); err != nil {
			return err
		}
	}
	added, err := m.strings(ctx, addedObjects, kind)
	if err != nil {
		return errors.Wrap(err, "query added")
	}
	for _, stmt := range added {
		if err = m.exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func (m migration) exec(ctx context.Context, stmt string) error {
	m.db.logger.LogAttrs(ctx, slog.LevelInfo, "migration step", slog.String("query", stmt))
	if _, err := m.tx.ExecContext(ctx, stmt); err != nil {
		return errors.Wrap(err, "exec migration step", slog.String("query", stmt))
	}
	return nil
}

func (m migration) strings(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := m.tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "query")
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var s string
		if err = rows.Scan(&s); err != nil {
			return nil, errors.Wrap(err, "scan")
		}
		out = append(out, s)
	}
	return out, errors.Wrap(rows.Err(), "rows")
}

type schemaObject struct {
	name string
	sql  string
}

func (m migration) pairs(ctx context.Context, query string, args ...any) ([]schemaObject, error) {
	rows, err := m.tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "query")
	}
	defer rows.Close()
	var out []schemaObject
	for rows.Next() {
		var o schemaObject
		if err = rows.Scan(&o.name, &o.sql); err != nil {
			return nil, errors.Wrap(err, "scan")
		}
		out = append(out, o)
	}
	return out, errors.Wrap(rows.Err(), "rows")
}
