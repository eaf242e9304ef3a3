package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/voxdrop/voxdrop/internal/flagx"
	"github.com/voxdrop/voxdrop/internal/timex"
)

// JsonConfig is the DTO used only for reading JSON configuration files.
// Duration fields accept both string values such as "168h" and integer
// nanoseconds; after unmarshalling the values are copied into the runtime
// Config.
type JsonConfig struct {
	EndpointAddr          string         `json:"endpoint_addr"`
	StorePath             string         `json:"store_path"`
	UploadDir             string         `json:"upload_dir"`
	SecretKey             string         `json:"secret_key"`
	TokenValidityDuration timex.Duration `json:"token_validity_duration"`
	StoreTimeout          timex.Duration `json:"store_timeout"`
	AutoProvision         *bool          `json:"auto_provision"`
	MinUsernameLength     int            `json:"min_username_length"`
}

// parseJson loads configuration values from the JSON file named by the
// -c/-config flags into the provided Config. When neither flag is set, no
// file is loaded. An unreadable or invalid file panics: a server started
// with a broken config file must not come up on silent defaults.
func parseJson(config *Config) {

	jsonConfigFile := flagx.JsonConfigFlags()

	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.EndpointAddr != "" {
		config.EndpointAddr = c.EndpointAddr
	}
	if c.StorePath != "" {
		config.StorePath = c.StorePath
	}
	if c.UploadDir != "" {
		config.UploadDir = c.UploadDir
	}
	if c.SecretKey != "" {
		config.SecretKey = c.SecretKey
	}
	if c.TokenValidityDuration.Duration != 0 {
		config.TokenValidityDuration = time.Duration(c.TokenValidityDuration.Duration)
	}
	if c.StoreTimeout.Duration != 0 {
		config.StoreTimeout = time.Duration(c.StoreTimeout.Duration)
	}
	if c.AutoProvision != nil {
		config.AutoProvision = *c.AutoProvision
	}
	if c.MinUsernameLength != 0 {
		config.MinUsernameLength = c.MinUsernameLength
	}
}
