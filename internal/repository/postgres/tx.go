package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"github.com/healthdesk/clinic-api/pkg/apperror"
	"github.com/healthdesk/clinic-api/pkg/metrics"
)

const (
	txMaxAttempts = 3
	txTimeout     = 5 * time.Second
	txRetryDelay  = 25 * time.Millisecond
)

// isSerializationFailure reports whether err is a transient transaction
// conflict worth retrying (serialization failure or deadlock)
func isSerializationFailure(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	return pqErr.Code == "40001" || pqErr.Code == "40P01"
}

// runTx executes fn inside a serializable transaction with a bounded
// timeout, retrying transient conflicts up to txMaxAttempts before
// surfacing a terminal failure. Application errors from fn abort the
// transaction and pass through unchanged.
func runTx(ctx context.Context, db *sqlx.DB, m *metrics.Metrics, fn func(*sqlx.Tx) error) error {
	ctx, cancel := context.WithTimeout(ctx, txTimeout)
	defer cancel()

	var lastErr error
	for attempt := 1; attempt <= txMaxAttempts; attempt++ {
		err := execTx(ctx, db, fn)
		if err == nil {
			return nil
		}
		if !isSerializationFailure(err) {
			return err
		}

		lastErr = apperror.TransientStore(err)
		if m != nil {
			m.CascadeRetries.Inc()
		}
		log.Warn().Err(err).Int("attempt", attempt).Msg("transaction conflict, retrying")

		select {
		case <-ctx.Done():
			return apperror.CascadeFailure("transaction timed out", ctx.Err())
		case <-time.After(txRetryDelay * time.Duration(attempt)):
		}
	}

	return apperror.CascadeFailure("transaction retries exhausted", lastErr)
}

func execTx(ctx context.Context, db *sqlx.DB, fn func(*sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}
