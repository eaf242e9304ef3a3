package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJson_OverlaysValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"endpoint_addr": ":8088",
		"store_path": "/var/lib/voxdrop/accounts.json",
		"secret_key": "prod-secret",
		"token_validity_duration": "24h",
		"store_timeout": "2s",
		"auto_provision": false,
		"min_username_length": 5
	}`), 0o600))

	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()
	os.Args = []string{"server", "-c", path}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)

	assert.Equal(t, ":8088", cfg.EndpointAddr)
	assert.Equal(t, "/var/lib/voxdrop/accounts.json", cfg.StorePath)
	assert.Equal(t, "prod-secret", cfg.SecretKey)
	assert.Equal(t, 24*time.Hour, cfg.TokenValidityDuration)
	assert.Equal(t, 2*time.Second, cfg.StoreTimeout)
	assert.Equal(t, false, cfg.AutoProvision)
	assert.Equal(t, 5, cfg.MinUsernameLength)

	// fields absent from the file keep their defaults
	assert.Equal(t, "public/videos", cfg.UploadDir)
}

func TestParseJson_NoFlagMeansNoFile(t *testing.T) {
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()
	os.Args = []string{"server"}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)

	assert.Equal(t, ":3000", cfg.EndpointAddr)
}

func TestParseJson_InvalidFilePanics(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf.json")
	require.NoError(t, os.WriteFile(path, []byte(`{broken`), 0o600))

	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()
	os.Args = []string{"server", "-c", path}

	cfg := &Config{}
	cfg.LoadDefaults()
	assert.Panics(t, func() { parseJson(cfg) })
}
