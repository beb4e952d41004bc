package main

import (
	"context"
	"errors"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/tubelist/internal/shared"
)

// Setup creates the config file when missing and runs cache migrations.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	path := r.configPath
	if path == "" {
		path = shared.ResolveConfigPath("")
	}

	switch err := shared.CreateConfigFile(path); {
	case err == nil:
		r.logger.Info("config file created", "path", path)
		config, err := shared.LoadConfig(path)
		if err != nil {
			return err
		}
		r.setConfig(config)
	case errors.Is(err, shared.ErrAlreadyExists):
		r.logger.Info("config file already exists", "path", path)
	default:
		return err
	}

	r.logger.Info("initializing cache", "path", r.config.DatabasePath())
	if err := r.open(); err != nil {
		return err
	}

	r.writePlain("✓ Setup complete\n")
	r.writePlain("Config: %s\n", path)
	r.writePlain("Cache:  %s\n", r.config.DatabasePath())
	r.writePlainln("Next steps:")
	r.writePlain("1. Set youtube.api_key in the config file to enable search\n")
	r.writePlain("2. Start the server with 'tubelist serve' or point client.server_url at one\n")
	return r.writePlain("3. Run 'tubelist auth register <username>'\n")
}
