// Package config defines the top-level CLI structure parsed by Kong.
package config

import (
	"github.com/openrazer/razerctl/internal/cmd"
)

// Log holds the shared logging flags.
type Log struct {
	Level   string `help:"Log level: trace, debug, info, warn, error" default:"info" env:"RAZERCTL_LOG_LEVEL"`
	File    string `help:"Write logs to this file instead of the console" env:"RAZERCTL_LOG_FILE"`
	RawFile string `help:"Write raw report frames (hex) to this file" env:"RAZERCTL_LOG_RAW_FILE"`
}

// CLI is the root command tree.
type CLI struct {
	Log    Log    `embed:"" prefix:"log."`
	Config string `help:"Path to a configuration file" env:"RAZERCTL_CONFIG"`

	Send      cmd.Send            `cmd:"" help:"Build a vendor report and exchange it with a device"`
	Bindings  cmd.BindingsCommand `cmd:"" help:"Read or write a device's key translation bindings"`
	ConfigCmd cmd.ConfigCommand   `cmd:"" name:"config" help:"Configuration helpers"`
}
