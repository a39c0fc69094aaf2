package config

import (
	"github.com/urfave/cli/v2"
)

// CLIOptions represents command-line configuration options that override
// the config file.
type CLIOptions struct {
	Address       string
	Driver        string
	StorePath     string
	NotifyCmd    string
	Sound         string
	DisableNotify bool
	Debug         bool
}

// WithCLIConfig returns an Option that loads configuration from CLI flags.
func WithCLIConfig(ctx *cli.Context) Option {
	return func(c *Config) error {
		opts := CLIOptions{
			Address:       ctx.String("address"),
			Driver:        ctx.String("store"),
			StorePath:     ctx.String("store-path"),
			NotifyCmd:    ctx.String("cmd"),
			Sound:         ctx.String("sound"),
			DisableNotify: ctx.Bool("disable-notification"),
			Debug:         ctx.Bool("debug"),
		}

		applyCLIOptions(c, opts)

		return nil
	}
}

// applyCLIOptions applies CLI options to the config.
func applyCLIOptions(c *Config, opts CLIOptions) {
	if opts.Address != "" {
		c.Server.Address = opts.Address
	}

	if opts.Driver != "" {
		c.Store.Driver = opts.Driver
	}

	if opts.StorePath != "" {
		c.Store.Path = opts.StorePath
	}

	if opts.NotifyCmd != "" {
		c.Notifications.Cmd = opts.NotifyCmd
	}

	if opts.Sound != "" {
		if opts.Sound == "off" {
			c.Notifications.Sound = ""
		} else {
			c.Notifications.Sound = opts.Sound
		}
	}

	if opts.DisableNotify {
		c.Notifications.Desktop = false
	}

	if opts.Debug {
		c.Log.Debug = true
		c.Log.Level = "debug"
	}
}
