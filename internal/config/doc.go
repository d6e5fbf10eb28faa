// Package config provides configuration structures and utilities for the
// privacy scoring service. It defines the options shared by the serve,
// scan, and cleanup commands, validation with sentinel errors, and the
// optional .prvcsh.yml configuration file loader.
package config
