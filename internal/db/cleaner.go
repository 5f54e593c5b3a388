package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"
)

const (
	staleDevicesPostgres = `DELETE FROM slots WHERE device IN (
		SELECT device FROM slots GROUP BY device HAVING MAX(updated_at) < $1
	)`
	staleDevicesSQLite = `DELETE FROM slots WHERE device IN (
		SELECT device FROM slots GROUP BY device HAVING MAX(updated_at) < ?
	)`
)

// CleanStaleDevices removes every slot of the devices whose newest write
// happened before cutoff. It returns the number of removed rows.
func CleanStaleDevices(ctx context.Context, db *sql.DB, dialect Dialect, cutoff time.Time) (int64, error) {
	query := staleDevicesPostgres
	if dialect == SQLite {
		query = staleDevicesSQLite
	}
	res, err := db.ExecContext(ctx, query, cutoff.Unix())
	if err != nil {
		return 0, fmt.Errorf("clean stale devices: %w", err)
	}
	rows, _ := res.RowsAffected()
	return rows, nil
}

// StartStaleDeviceCleaner deletes abandoned devices every interval until ctx is done.
// A device is abandoned when none of its slots changed during retention.
func StartStaleDeviceCleaner(
	ctx context.Context,
	db *sql.DB,
	dialect Dialect,
	interval time.Duration,
	retention time.Duration,
	log *zap.Logger,
) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				rows, err := CleanStaleDevices(ctx, db, dialect, time.Now().Add(-retention))
				if err != nil {
					log.Error("failed to clean stale devices", zap.Error(err))
					continue
				}
				if rows > 0 {
					log.Info("cleaned stale devices", zap.Int64("removed", rows))
				}
			}
		}
	}()
}
