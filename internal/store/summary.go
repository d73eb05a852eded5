package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/woundlab/segreport/internal/dataset"
)

const (
	metaSourcePoolSize = "source_pool_size"
	metaImportedAtNs   = "imported_at_ns"
)

const upsertMetaSQL = `
	INSERT INTO summary_meta (key, value) VALUES (?, ?)
	ON CONFLICT(key) DO UPDATE SET value = excluded.value
`

// ReplaceSummary atomically replaces the stored summary: every record row, the
// target distribution, and the source pool size. The summary is validated
// before any row is touched, so a failed import leaves the previous summary
// intact.
func (db *DB) ReplaceSummary(s *dataset.Summary) error {
	if err := s.Validate(); err != nil {
		return err
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if _, err := tx.Exec("DELETE FROM records"); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to clear records: %w", err)
	}

	stmt, err := tx.Prepare(insertRecordSQL)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to prepare record insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range s.Records {
		if _, err := stmt.Exec(recordArgs(r)...); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to insert record %d: %w", i, err)
		}
	}

	if err := replaceTargetTx(tx, s.Target); err != nil {
		tx.Rollback()
		return err
	}

	if _, err := tx.Exec(upsertMetaSQL, metaSourcePoolSize, strconv.Itoa(s.SourcePoolSize)); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to set source pool size: %w", err)
	}
	if _, err := tx.Exec(upsertMetaSQL, metaImportedAtNs, strconv.FormatInt(time.Now().UnixNano(), 10)); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to set import timestamp: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit summary: %w", err)
	}
	return nil
}

// LoadSummary reads the stored summary back out. The result passes the same
// validation as a JSON load, so a summary that went in through ReplaceSummary
// comes back out identical.
func (db *DB) LoadSummary() (*dataset.Summary, error) {
	records, err := db.Records()
	if err != nil {
		return nil, err
	}
	target, err := db.TargetDistribution()
	if err != nil {
		return nil, err
	}
	poolSize, err := db.SourcePoolSize()
	if err != nil {
		return nil, err
	}

	s := &dataset.Summary{
		Records:        records,
		Target:         target,
		SourcePoolSize: poolSize,
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("stored summary failed validation: %w", err)
	}
	return s, nil
}

// ReplaceTargetDistribution overwrites the stored target distribution without
// touching the record rows.
func (db *DB) ReplaceTargetDistribution(target dataset.TargetDistribution) error {
	if err := target.Validate(dataset.DefaultClassOrder); err != nil {
		return err
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := replaceTargetTx(tx, target); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit target distribution: %w", err)
	}
	return nil
}

func replaceTargetTx(tx *sql.Tx, target dataset.TargetDistribution) error {
	if _, err := tx.Exec("DELETE FROM target_distribution"); err != nil {
		return fmt.Errorf("failed to clear target distribution: %w", err)
	}

	// Insert in class order so the table reads naturally in debug dumps.
	for _, c := range dataset.DefaultClassOrder {
		if _, err := tx.Exec(
			"INSERT INTO target_distribution (class, share) VALUES (?, ?)",
			string(c), target[c],
		); err != nil {
			return fmt.Errorf("failed to insert target share for %s: %w", c, err)
		}
	}
	return nil
}

// TargetDistribution returns the stored target distribution. ErrNoSummary
// when nothing has been imported yet.
func (db *DB) TargetDistribution() (dataset.TargetDistribution, error) {
	rows, err := db.Query("SELECT class, share FROM target_distribution")
	if err != nil {
		return nil, fmt.Errorf("failed to query target distribution: %w", err)
	}
	defer rows.Close()

	target := dataset.TargetDistribution{}
	for rows.Next() {
		var class string
		var share float64
		if err := rows.Scan(&class, &share); err != nil {
			return nil, fmt.Errorf("failed to scan target share: %w", err)
		}
		target[dataset.Class(class)] = share
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating target distribution: %w", err)
	}

	if len(target) == 0 {
		return nil, ErrNoSummary
	}
	return target, nil
}

// SetSourcePoolSize records how many source images the usage histogram spans.
func (db *DB) SetSourcePoolSize(n int) error {
	if n < 1 {
		return fmt.Errorf("%w: source pool size %d must be >= 1", dataset.ErrInvalidRecord, n)
	}

	if _, err := db.Exec(upsertMetaSQL, metaSourcePoolSize, strconv.Itoa(n)); err != nil {
		return fmt.Errorf("failed to set source pool size: %w", err)
	}
	return nil
}

// SourcePoolSize returns the stored source pool size. ErrNoSummary when no
// summary has been imported yet.
func (db *DB) SourcePoolSize() (int, error) {
	value, err := db.getMeta(metaSourcePoolSize)
	if err != nil {
		return 0, err
	}

	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("corrupt source pool size %q: %w", value, err)
	}
	return n, nil
}

// ImportedAt returns when the stored summary was last replaced. ErrNoSummary
// when no summary has been imported yet.
func (db *DB) ImportedAt() (time.Time, error) {
	value, err := db.getMeta(metaImportedAtNs)
	if err != nil {
		return time.Time{}, err
	}

	ns, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("corrupt import timestamp %q: %w", value, err)
	}
	return time.Unix(0, ns), nil
}

func (db *DB) getMeta(key string) (string, error) {
	var value string
	err := db.QueryRow("SELECT value FROM summary_meta WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNoSummary
	}
	if err != nil {
		return "", fmt.Errorf("failed to get meta %s: %w", key, err)
	}
	return value, nil
}
