package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aoideee/hospital-records/internal/data"
)

func TestOpenStoreEmbeddedDrivers(t *testing.T) {
	for _, driver := range []string{"memory", "sqlite", "bolt"} {
		t.Run(driver, func(t *testing.T) {
			var cfg serverConfig
			cfg.db.driver = driver
			cfg.db.dsn = filepath.Join(t.TempDir(), "records")
			cfg.db.maxOpenConns = 5

			models, closeStore, err := openStore(cfg)
			require.NoError(t, err)
			defer closeStore()

			ctx := context.Background()
			doctor := &data.Doctor{Name: "Alice"}
			require.NoError(t, models.Doctors.Insert(ctx, doctor))

			got, err := models.Doctors.Get(ctx, doctor.ID)
			require.NoError(t, err)
			assert.Equal(t, "Alice", got.Name)
		})
	}
}

func TestOpenStoreRejectsBadMySQLDSN(t *testing.T) {
	var cfg serverConfig
	cfg.db.driver = "mysql"
	cfg.db.dsn = "not a dsn"

	_, _, err := openStore(cfg)
	assert.ErrorContains(t, err, "parse mysql dsn")
}
