package config

import (
	"flag"
	"os"
	"time"

	"github.com/voxdrop/voxdrop/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":3000")
//	-f string   durable snapshot file path
//	-u string   upload directory
//	-s string   token HMAC secret key
//	-t int      token validity, hours
//	-w int      store operation timeout, seconds
//	-p bool     auto-provision accounts on delivery to unknown users
//	-m int      minimum username length
//
// The args are first filtered to the flags handled here with
// flagx.FilterArgs, so the set can coexist with -c/-config.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-f", "-u", "-s", "-t", "-w", "-p", "-m"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddr, "a", config.EndpointAddr, "address and port to run server")
	fs.StringVar(&config.StorePath, "f", config.StorePath, "account snapshot file")
	fs.StringVar(&config.UploadDir, "u", config.UploadDir, "attachment upload directory")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	tokenValidity := fs.Int("t", int(config.TokenValidityDuration.Hours()), "token validity (in hours)")
	storeTimeout := fs.Int("w", int(config.StoreTimeout.Seconds()), "store timeout (in seconds)")

	fs.BoolVar(&config.AutoProvision, "p", config.AutoProvision, "auto-provision accounts on delivery")
	fs.IntVar(&config.MinUsernameLength, "m", config.MinUsernameLength, "minimum username length")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.TokenValidityDuration = time.Duration(*tokenValidity) * time.Hour
	config.StoreTimeout = time.Duration(*storeTimeout) * time.Second
}
