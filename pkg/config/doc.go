// Package config loads and validates the owl configuration.
//
// Configuration is layered with koanf: embedded defaults, then the user's
// owl.toml, then an optional per-host overlay (host.<name>.toml). The
// loaded configuration is reduced to an effective configuration for the
// current host before any planning happens, so downstream components never
// see host conditionals.
package config
