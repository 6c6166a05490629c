package repositories

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Sequence scopes for generated record numbers.
const (
	SequenceScopePatient    = "MRN"
	SequenceScopeAssessment = "ASM"
)

// NextSequenceNumber reserves the next value of the per-year counter for the
// given scope and returns it formatted (e.g. MRN-2026-00001). The upsert
// increments atomically on the database side, so concurrent callers can never
// observe or reuse the same value. That guarantee belongs to Postgres's ON
// CONFLICT handling and is only exercised against a real database, not by the
// unit tests. Must run inside the caller's transaction so a failed create
// rolls the reservation back with everything else.
func NextSequenceNumber(tx *gorm.DB, scope string) (string, error) {
	year := time.Now().Year()

	var value int64
	err := tx.Raw(
		`INSERT INTO id_sequence (scope, year, value) VALUES (?, ?, 1)
		 ON CONFLICT (scope, year) DO UPDATE SET value = id_sequence.value + 1
		 RETURNING value`,
		scope, year,
	).Scan(&value).Error
	if err != nil {
		return "", fmt.Errorf("failed to obtain next %s sequence value: %w", scope, err)
	}

	return FormatSequenceNumber(scope, year, value), nil
}

// FormatSequenceNumber renders a record number as <scope>-<year>-<5-digit-seq>.
func FormatSequenceNumber(scope string, year int, value int64) string {
	return fmt.Sprintf("%s-%d-%05d", scope, year, value)
}
