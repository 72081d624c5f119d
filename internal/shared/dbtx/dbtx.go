// Package dbtx lets gorm repositories join a transaction that a service
// opened on the underlying *sql.DB.
package dbtx

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

// Bind returns a gorm handle whose statements run on tx. A nil tx yields
// db scoped to ctx.
func Bind(ctx context.Context, db *gorm.DB, tx *sql.Tx) *gorm.DB {
	if tx == nil {
		return db.WithContext(ctx)
	}
	bound := db.Session(&gorm.Session{Context: ctx, NewDB: true})
	bound.Statement.ConnPool = tx
	return bound
}

// SupportsRowLocks reports whether SELECT ... FOR UPDATE is available.
// sqlite serializes writers instead.
func SupportsRowLocks(db *gorm.DB) bool {
	return db.Dialector.Name() == "postgres"
}
