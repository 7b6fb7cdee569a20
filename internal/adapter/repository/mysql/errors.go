package mysql

import (
	"errors"

	mysqldrv "github.com/go-sql-driver/mysql"
	"github.com/mattn/go-sqlite3"
)

const (
	mysqlLockWaitTimeout = 1205
	mysqlDeadlock        = 1213
)

// transient reports lock contention that a fresh transaction can get past.
func transient(err error) bool {
	var se sqlite3.Error
	if errors.As(err, &se) {
		return se.Code == sqlite3.ErrBusy || se.Code == sqlite3.ErrLocked
	}
	var me *mysqldrv.MySQLError
	if errors.As(err, &me) {
		return me.Number == mysqlDeadlock || me.Number == mysqlLockWaitTimeout
	}
	return false
}
