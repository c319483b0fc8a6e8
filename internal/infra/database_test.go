package infra

import (
	"testing"

	"voice-order-service/internal/config"
	"voice-order-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenDatabase_SQLite(t *testing.T) {
	db, err := OpenDatabase(config.Database{Driver: "sqlite", SQLitePath: ":memory:"})
	require.NoError(t, err)

	assert.True(t, db.Migrator().HasTable(&domain.Order{}))
	assert.True(t, db.Migrator().HasTable(&domain.OrderItem{}))
}

func TestOpenDatabase_UnknownDriver(t *testing.T) {
	_, err := OpenDatabase(config.Database{Driver: "oracle"})
	assert.ErrorContains(t, err, "unsupported")
}
