package database

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/catalogapi/pkg/metrics"
)

const startKey = "metrics:start"

// instrument registers gorm callbacks that observe every statement in
// metrics.DBQueryDuration, labelled by operation.
func instrument(db *gorm.DB) error {
	cb := db.Callback()
	return errors.Join(
		cb.Create().Before("gorm:create").Register("metrics:before_create", startTimer),
		cb.Create().After("gorm:create").Register("metrics:after_create", observe("create")),
		cb.Query().Before("gorm:query").Register("metrics:before_query", startTimer),
		cb.Query().After("gorm:query").Register("metrics:after_query", observe("query")),
		cb.Update().Before("gorm:update").Register("metrics:before_update", startTimer),
		cb.Update().After("gorm:update").Register("metrics:after_update", observe("update")),
		cb.Delete().Before("gorm:delete").Register("metrics:before_delete", startTimer),
		cb.Delete().After("gorm:delete").Register("metrics:after_delete", observe("delete")),
		cb.Raw().Before("gorm:raw").Register("metrics:before_raw", startTimer),
		cb.Raw().After("gorm:raw").Register("metrics:after_raw", observe("raw")),
	)
}

func startTimer(db *gorm.DB) {
	db.InstanceSet(startKey, time.Now())
}

func observe(op string) func(*gorm.DB) {
	return func(db *gorm.DB) {
		v, ok := db.InstanceGet(startKey)
		if !ok {
			return
		}
		if start, ok := v.(time.Time); ok {
			metrics.ObserveDBQuery(op, start)
		}
	}
}
