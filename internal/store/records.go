package store

import (
	"fmt"

	"github.com/woundlab/segreport/internal/dataset"
)

const insertRecordSQL = `
	INSERT INTO records (
		source_index, target_class,
		scar_pct, redness_pct, hematoma_pct, necrosis_pct, background_pct,
		bbox_x, bbox_y, bbox_width, bbox_height,
		channel_mean_r, channel_mean_g, channel_mean_b
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

// recordArgs flattens a record into the column order of insertRecordSQL.
// Absent tensors become NULL columns.
func recordArgs(r dataset.MetadataRecord) []interface{} {
	var bboxX, bboxY, bboxW, bboxH interface{}
	if r.BBox != nil {
		bboxX, bboxY = r.BBox.X, r.BBox.Y
		bboxW, bboxH = r.BBox.Width, r.BBox.Height
	}
	var chR, chG, chB interface{}
	if r.ChannelMeans != nil {
		chR, chG, chB = r.ChannelMeans.R, r.ChannelMeans.G, r.ChannelMeans.B
	}
	return []interface{}{
		r.SourceIndex, string(r.TargetClass),
		r.ScarPct, r.RednessPct, r.HematomaPct, r.NecrosisPct, r.BackgroundPct,
		bboxX, bboxY, bboxW, bboxH,
		chR, chG, chB,
	}
}

// InsertRecord appends a single record. The record is validated first so the
// table only ever holds rows a summary load would accept.
func (db *DB) InsertRecord(r dataset.MetadataRecord) error {
	if err := r.Validate(); err != nil {
		return err
	}

	if _, err := db.Exec(insertRecordSQL, recordArgs(r)...); err != nil {
		return fmt.Errorf("failed to insert record: %w", err)
	}
	return nil
}

// InsertRecords appends records in one transaction, preserving slice order.
// Validation failures abort before any row is written.
func (db *DB) InsertRecords(records []dataset.MetadataRecord) error {
	for i, r := range records {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	stmt, err := tx.Prepare(insertRecordSQL)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to prepare record insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range records {
		if _, err := stmt.Exec(recordArgs(r)...); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to insert record %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit records: %w", err)
	}
	return nil
}

// CountRecords returns the number of stored records.
func (db *DB) CountRecords() (int, error) {
	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM records").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count records: %w", err)
	}
	return n, nil
}

// Records returns all stored records in insertion order.
func (db *DB) Records() ([]dataset.MetadataRecord, error) {
	rows, err := db.Query(`
		SELECT
			source_index, target_class,
			scar_pct, redness_pct, hematoma_pct, necrosis_pct, background_pct,
			bbox_x, bbox_y, bbox_width, bbox_height,
			channel_mean_r, channel_mean_g, channel_mean_b
		FROM records
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	var records []dataset.MetadataRecord
	for rows.Next() {
		var (
			r             dataset.MetadataRecord
			class         string
			bboxX, bboxY  *int
			bboxW, bboxH  *int
			chR, chG, chB *float64
		)

		if err := rows.Scan(
			&r.SourceIndex, &class,
			&r.ScarPct, &r.RednessPct, &r.HematomaPct, &r.NecrosisPct, &r.BackgroundPct,
			&bboxX, &bboxY, &bboxW, &bboxH,
			&chR, &chG, &chB,
		); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}

		r.TargetClass = dataset.Class(class)
		if bboxX != nil && bboxY != nil && bboxW != nil && bboxH != nil {
			r.BBox = &dataset.BBox{X: *bboxX, Y: *bboxY, Width: *bboxW, Height: *bboxH}
		}
		if chR != nil && chG != nil && chB != nil {
			r.ChannelMeans = &dataset.ChannelMeans{R: *chR, G: *chG, B: *chB}
		}

		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating records: %w", err)
	}

	return records, nil
}
