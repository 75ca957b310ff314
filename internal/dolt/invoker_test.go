package dolt

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
)

func TestSQLInvoker_RejectsUnknownProcedure(t *testing.T) {
	inv := NewSQLInvoker(nil)
	_, err := inv.Call(context.Background(), "DROP_TABLES", "x")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown procedure")
}

func TestIsProcedureMissing(t *testing.T) {
	assert.True(t, isProcedureMissing(&mysql.MySQLError{Number: 1305}))
	assert.True(t, isProcedureMissing(&mysql.MySQLError{Number: 1146}))
	assert.False(t, isProcedureMissing(&mysql.MySQLError{Number: 1064}))
	assert.False(t, isProcedureMissing(errors.New("boom")))
	assert.False(t, isProcedureMissing(nil))
}

func TestIsConnectionFailure(t *testing.T) {
	assert.True(t, isConnectionFailure(mysql.ErrInvalidConn))
	assert.True(t, isConnectionFailure(errors.New("dial tcp: connection refused")))
	assert.False(t, isConnectionFailure(errors.New("Error 1105: nothing to commit")))
	assert.False(t, isConnectionFailure(io.EOF))
	assert.False(t, isConnectionFailure(nil))
}

func TestOpen_RequiresDatabase(t *testing.T) {
	_, err := Open(ConnParams{})
	assert.Error(t, err)
}

func TestOpen_Defaults(t *testing.T) {
	db, err := Open(ConnParams{Database: "app"})
	assert.NoError(t, err)
	assert.NotNil(t, db)
	db.Close()
}
