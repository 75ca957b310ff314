package dolt

import (
	"database/sql"
	"fmt"

	"github.com/go-sql-driver/mysql"
)

// ConnParams describes how to reach the Dolt SQL server. Dolt speaks
// the MySQL wire protocol, so the standard MySQL driver applies.
type ConnParams struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
}

// Open creates a database handle for the given server. No connection
// is established until first use; pool defaults are left alone because
// each facade call issues exactly one statement.
func Open(p ConnParams) (*sql.DB, error) {
	if p.Database == "" {
		return nil, fmt.Errorf("database name is required")
	}
	if p.Host == "" {
		p.Host = "127.0.0.1"
	}
	if p.Port == 0 {
		p.Port = 3306
	}
	if p.User == "" {
		p.User = "root"
	}

	cfg := mysql.NewConfig()
	cfg.User = p.User
	cfg.Passwd = p.Password
	cfg.Net = "tcp"
	cfg.Addr = fmt.Sprintf("%s:%d", p.Host, p.Port)
	cfg.DBName = p.Database
	cfg.ParseTime = true

	connector, err := mysql.NewConnector(cfg)
	if err != nil {
		return nil, fmt.Errorf("build connector: %w", err)
	}
	return sql.OpenDB(connector), nil
}
