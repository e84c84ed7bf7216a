// Package startup loads the upkeep configuration and exposes build
// information injected at link time.
//
// Configuration is read with cleanenv: an optional YAML file (the -config
// flag or UPKEEP_CONFIG) followed by environment variables, which override
// the file. Every field has a default so the commands work from a checkout
// of the media library with no configuration at all. A leading ~ in any
// path is expanded to the user's home directory.
//
// Build variables are set with:
//
//	go build -ldflags "-X media-upkeep/internal/startup.Version=1.2.0" ./cmd/upkeep
package startup
