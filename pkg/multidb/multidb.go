package multidb

import (
	"io"

	"github.com/jmoiron/sqlx"
)

// MultiDB holds every configured database connection keyed by label.
type MultiDB interface {
	GetSqlx(driver Driver, key string) (*sqlx.DB, error)
	io.Closer
}
