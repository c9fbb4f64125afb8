package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8081", cfg.Server.Addr)
	assert.Equal(t, 6.0, cfg.Shop.MaxDeliveryKm)
	assert.Equal(t, 0.0, cfg.Orders.TaxRate)
	assert.True(t, cfg.Orders.StrictStock)
	assert.True(t, cfg.Orders.EnforceTransitions)
	assert.False(t, cfg.Orders.RejectTotalMismatch)
	assert.Equal(t, 10*time.Minute, cfg.Auth.OTPTTL)
	assert.Equal(t, "local", cfg.Images.Driver)
}

func TestLoad_FileAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
database:
  host: db.internal
  port: 6543
orders:
  tax_rate: 0.1
auth:
  otp_ttl: 5m
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("FOODHUB_DATABASE_HOST", "db.from.env")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "db.from.env", cfg.Database.Host)
	assert.Equal(t, 6543, cfg.Database.Port)
	assert.Equal(t, 0.1, cfg.Orders.TaxRate)
	assert.Equal(t, 5*time.Minute, cfg.Auth.OTPTTL)
	assert.Contains(t, cfg.Database.DSN(), "host=db.from.env port=6543")
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "negative tax", env: map[string]string{"FOODHUB_ORDERS_TAX_RATE": "-0.5"}},
		{name: "zero radius", env: map[string]string{"FOODHUB_SHOP_MAX_DELIVERY_KM": "0"}},
		{name: "unknown image driver", env: map[string]string{"FOODHUB_IMAGES_DRIVER": "ftp"}},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			for k, v := range testCase.env {
				t.Setenv(k, v)
			}
			_, err := Load("")
			assert.Error(t, err)
		})
	}
}
