package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatSequenceNumber(t *testing.T) {
	assert.Equal(t, "MRN-2026-00001", FormatSequenceNumber(SequenceScopePatient, 2026, 1))
	assert.Equal(t, "ASM-2026-00042", FormatSequenceNumber(SequenceScopeAssessment, 2026, 42))
	assert.Equal(t, "MRN-2026-123456", FormatSequenceNumber(SequenceScopePatient, 2026, 123456))
}
