// Package config handles configuration for the server, including defaults,
// JSON overlay, and command-line flags.
package config

import "time"

// Config holds runtime settings for the VoxDrop server.
//
// Fields:
//   - EndpointAddr: bind address for the HTTP endpoint.
//   - StorePath: path of the durable account snapshot file.
//   - UploadDir: directory where received attachments are written.
//   - SecretKey: HMAC secret for signing session tokens (HS256). The
//     server refuses to start when it is empty.
//   - TokenValidityDuration: session token lifetime.
//   - StoreTimeout: bound on store lock acquisition and durable writes.
//   - AutoProvision: whether delivery to an unknown username creates a
//     locked account (true) or fails with not-found (false).
//   - MinUsernameLength: shortest canonical username accepted.
type Config struct {
	EndpointAddr          string
	StorePath             string
	UploadDir             string
	SecretKey             string
	TokenValidityDuration time.Duration
	StoreTimeout          time.Duration
	AutoProvision         bool
	MinUsernameLength     int
}

// LoadDefaults populates Config with development defaults.
// NOTE: the secret key default is insecure and must be overridden in prod.
func (c *Config) LoadDefaults() {
	c.EndpointAddr = ":3000"
	c.StorePath = "data/accounts.json"
	c.UploadDir = "public/videos"
	c.SecretKey = "secretKey"
	c.TokenValidityDuration = 7 * 24 * time.Hour
	c.StoreTimeout = 5 * time.Second
	c.AutoProvision = true
	c.MinUsernameLength = 3
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
