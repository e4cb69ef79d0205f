package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusForScore(t *testing.T) {
	tests := []struct {
		score float64
		want  QCStatus
	}{
		{1.0, StatusPass},
		{0.85, StatusPass},
		{0.8499, StatusReview},
		{0.65, StatusReview},
		{0.6499, StatusFail},
		{0.0, StatusFail},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, StatusForScore(tc.score), "score %v", tc.score)
	}
}

func TestQCStatusValid(t *testing.T) {
	assert.True(t, StatusPass.Valid())
	assert.True(t, StatusReview.Valid())
	assert.True(t, StatusFail.Valid())
	assert.False(t, QCStatus("maybe").Valid())
	assert.False(t, QCStatus("").Valid())
}
