// Package query runs parameterized SQL against the relational store.
//
// Templates use gorm named placeholders (@name) and every value is sent as a
// bound parameter. A placeholder name ends at whitespace, a comma, a closing
// parenthesis or a semicolon, so write CAST(@x AS INTEGER) rather than @x::int.
package query

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	pkgError "github.com/movi-app/movi/pkg/error"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// DefaultTimeout bounds a single statement when the executor is built without one.
const DefaultTimeout = 5 * time.Second

// Query is a named SQL template plus the values bound to its placeholders.
type Query struct {
	Name   string
	SQL    string
	Params map[string]any
}

var placeholder = regexp.MustCompile(`@([A-Za-z_][A-Za-z0-9_]*)`)

// Validate reports placeholders in SQL that have no bound value.
func (q Query) Validate() error {
	for _, m := range placeholder.FindAllStringSubmatch(q.SQL, -1) {
		if _, ok := q.Params[m[1]]; !ok {
			return fmt.Errorf("query %s: no value bound for @%s", q.Name, m[1])
		}
	}
	return nil
}

// Row is one record of a result set keyed by column name.
type Row map[string]any

// RowSet is an ordered, immutable sequence of rows.
type RowSet []Row

// String returns the column as text, tolerating drivers that hand back []byte.
func (r Row) String(column string) string {
	switch v := r[column].(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return fmt.Sprint(v)
	}
}

// Executor issues queries with a per-statement timeout.
type Executor struct {
	db      *gorm.DB
	timeout time.Duration
}

func NewExecutor(db *gorm.DB, timeout time.Duration) *Executor {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Executor{db: db, timeout: timeout}
}

func (e *Executor) raw(ctx context.Context, q Query) (*gorm.DB, context.CancelFunc, error) {
	if err := q.Validate(); err != nil {
		return nil, nil, e.fail(q, err)
	}
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	tx := e.db.WithContext(ctx)
	if len(q.Params) == 0 {
		return tx.Raw(q.SQL), cancel, nil
	}
	return tx.Raw(q.SQL, map[string]any(q.Params)), cancel, nil
}

// Rows runs q and returns its rows in order. An empty result is a NotFoundError.
func (e *Executor) Rows(ctx context.Context, q Query) (RowSet, error) {
	tx, cancel, err := e.raw(ctx, q)
	if err != nil {
		return nil, err
	}
	defer cancel()

	var rows []map[string]any
	if err := tx.Scan(&rows).Error; err != nil {
		return nil, e.fail(q, err)
	}
	if len(rows) == 0 {
		return nil, notFound(q)
	}

	out := make(RowSet, len(rows))
	for i, r := range rows {
		out[i] = Row(r)
	}
	return out, nil
}

// Scan runs q into dest (a pointer to a struct or slice). Zero scanned rows is a NotFoundError.
func (e *Executor) Scan(ctx context.Context, dest any, q Query) error {
	tx, cancel, err := e.raw(ctx, q)
	if err != nil {
		return err
	}
	defer cancel()

	res := tx.Scan(dest)
	if res.Error != nil {
		return e.fail(q, res.Error)
	}
	if res.RowsAffected == 0 {
		return notFound(q)
	}
	return nil
}

// Exec runs a statement that returns no rows and reports how many rows it touched.
func (e *Executor) Exec(ctx context.Context, q Query) (int64, error) {
	if err := q.Validate(); err != nil {
		return 0, e.fail(q, err)
	}
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	tx := e.db.WithContext(ctx)
	if len(q.Params) == 0 {
		tx = tx.Exec(q.SQL)
	} else {
		tx = tx.Exec(q.SQL, map[string]any(q.Params))
	}
	if tx.Error != nil {
		return 0, e.fail(q, tx.Error)
	}
	return tx.RowsAffected, nil
}

// Transaction runs fn with an executor bound to a single database transaction.
// fn's error rolls the transaction back and is returned unchanged.
func (e *Executor) Transaction(ctx context.Context, fn func(tx *Executor) error) error {
	return e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Executor{db: tx, timeout: e.timeout})
	})
}

func (e *Executor) fail(q Query, err error) error {
	qe := pkgError.NewQueryError(q.Name, err)
	entry := logrus.WithError(err).WithField("query", q.Name)
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		entry.Errorf("[DB] query exceeded %s timeout", e.timeout)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		entry.Warn("[DB] unique constraint rejected the statement")
	default:
		entry.Error("[DB] query failed")
	}
	return qe
}

func notFound(q Query) error {
	return pkgError.NotFoundError(fmt.Sprintf("no results for %s", q.Name))
}

// IsNotFound reports whether err is an empty-result outcome.
func IsNotFound(err error) bool {
	var nf pkgError.NotFoundError
	return errors.As(err, &nf)
}
