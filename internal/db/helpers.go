package db

import "drivingschool-backend/utils"

type QueryRower = utils.QueryRower

// NullIfEmpty helps store optional strings without wiping existing data.
func NullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// NullIfZero is the int64 counterpart, for optional FK columns (vehicle, series).
func NullIfZero(n int64) any {
	if n == 0 {
		return nil
	}
	return n
}

func HasTable(q QueryRower, table string) bool {
	return utils.HasTable(q, table)
}

func HasColumn(q QueryRower, table, column string) bool {
	return utils.HasColumn(q, table, column)
}
