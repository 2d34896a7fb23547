// Package config loads the application configuration and the services
// configuration.
//
// Application settings come from the environment, optionally seeded from .env
// files:
//
//	cfg := config.Load()            // reads .env if present
//	cfg.Services.File               // SERVICES_FILE
//	cfg.Services.Prefix             // SERVICES_PREFIX, default "service"
//
// The services configuration is an ordered set of key/value pairs; each value
// names a catalog type. It can be written as a properties/.env file, YAML or
// JSON with comments:
//
//	# services.properties
//	service.random=random.Random
//
//	# services.yaml
//	service:
//	  random: random.Random
//
//	props, err := config.LoadProperties(afero.NewOsFs(), cfg.Services.File)
package config
