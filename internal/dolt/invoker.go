// Package dolt is a thin client for the version-control surface of a
// Dolt SQL server. Version-control semantics (diffing, merging,
// branching, conflict resolution) live entirely inside the engine;
// this package only marshals CALL DOLT_* procedure invocations and
// system-table queries into typed records.
package dolt

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// Procedure names accepted by the invoker. Dolt exposes more, but the
// facade only ever issues these.
const (
	ProcAdd    = "DOLT_ADD"
	ProcCommit = "DOLT_COMMIT"
	ProcPush   = "DOLT_PUSH"
	ProcPull   = "DOLT_PULL"
	ProcFetch  = "DOLT_FETCH"
	ProcRemote = "DOLT_REMOTE"
)

var knownProcedures = map[string]bool{
	ProcAdd:    true,
	ProcCommit: true,
	ProcPush:   true,
	ProcPull:   true,
	ProcFetch:  true,
	ProcRemote: true,
}

// Row is one raw result row keyed by column name. Rows exist only at
// the invoker/mapper boundary; everything above it works on typed
// records from the models package.
type Row map[string]any

// Invoker executes Dolt SQL procedures and system-table queries
// against a live connection and returns raw rows.
type Invoker interface {
	// Call executes CALL PROCEDURE(args...) and returns the result rows.
	Call(ctx context.Context, procedure string, args ...any) ([]Row, error)
	// Query runs a read against a Dolt system table or function.
	Query(ctx context.Context, query string, args ...any) ([]Row, error)
}

// SQLInvoker is the database/sql-backed Invoker. It performs no
// caching and no retries; failures from the engine are surfaced
// synchronously to the caller.
type SQLInvoker struct {
	db *sql.DB
}

// NewSQLInvoker creates an Invoker over an open database handle.
func NewSQLInvoker(db *sql.DB) *SQLInvoker {
	return &SQLInvoker{db: db}
}

// Call executes CALL PROCEDURE(?, ?, ...) with the given arguments.
func (inv *SQLInvoker) Call(ctx context.Context, procedure string, args ...any) ([]Row, error) {
	if !knownProcedures[procedure] {
		return nil, fmt.Errorf("unknown procedure %q", procedure)
	}

	placeholders := make([]string, len(args))
	for i := range args {
		placeholders[i] = "?"
	}
	query := fmt.Sprintf("CALL %s(%s)", procedure, strings.Join(placeholders, ", "))

	rows, err := inv.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", procedure, err)
	}
	defer rows.Close()

	return scanRows(rows)
}

// Query runs a read-only statement and returns the raw rows.
func (inv *SQLInvoker) Query(ctx context.Context, query string, args ...any) ([]Row, error) {
	rows, err := inv.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	return scanRows(rows)
}

// scanRows reads all rows into column-keyed maps. The cursor is always
// drained and closed by the caller's defer, success or failure.
func scanRows(rows *sql.Rows) ([]Row, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read columns: %w", err)
	}

	var out []Row
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}

		row := make(Row, len(cols))
		for i, col := range cols {
			// The MySQL driver returns text columns as []byte.
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
			} else {
				row[col] = values[i]
			}
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// MySQL error numbers that indicate the target database is not
// Dolt-backed (or the Dolt feature set is not enabled).
const (
	mysqlErrUnknownProcedure = 1305 // PROCEDURE does not exist
	mysqlErrUnknownTable     = 1146 // table doesn't exist
)

// isProcedureMissing reports whether the engine rejected the call
// because the Dolt procedure or system table does not exist.
func isProcedureMissing(err error) bool {
	var merr *mysql.MySQLError
	if errors.As(err, &merr) {
		return merr.Number == mysqlErrUnknownProcedure || merr.Number == mysqlErrUnknownTable
	}
	return false
}

// isConnectionFailure reports whether the error means the database
// could not be reached at all.
func isConnectionFailure(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, mysql.ErrInvalidConn) {
		return true
	}
	var nerr net.Error
	if errors.As(err, &nerr) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "broken pipe") ||
		strings.Contains(msg, "connection reset")
}
