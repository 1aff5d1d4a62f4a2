package config

import "go.uber.org/fx"

// Module provides the Config parsed from the command line, the environment
// and an optional .env file.
var Module = fx.Provide(Load)
