package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestYearExprUsesUTC(t *testing.T) {
	assert.Contains(t, yearExpr("postgres"), "AT TIME ZONE 'UTC'")
	assert.Contains(t, yearExpr("sqlite"), "strftime('%Y', created_at)")
}

func TestYearRange(t *testing.T) {
	assert.Nil(t, Year(0))

	yr := Year(2020)
	require.NotNil(t, yr)
	assert.Equal(t, time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC), yr.From)
	assert.Equal(t, time.Date(2021, time.January, 1, 0, 0, 0, 0, time.UTC), yr.To)
}
