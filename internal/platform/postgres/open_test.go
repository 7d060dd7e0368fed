package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/config"
)

func TestOpen_FailsWhenDatabaseUnreachable(t *testing.T) {
	db, err := Open(context.Background(), config.DatabaseConfig{
		URL:          "postgres://streetcode@127.0.0.1:1/streetcode?connect_timeout=1&sslmode=disable",
		MaxOpenConns: 1,
	}, discardLogger())
	assert.Nil(t, db)
	assert.ErrorContains(t, err, "failed to ping database")
}
