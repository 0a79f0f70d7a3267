package main

import (
	"context"
	"fmt"
	"io"
	"io/fs"

	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/schemats/schemats/config"
	"github.com/schemats/schemats/logger"
	"github.com/schemats/schemats/plugins"
	"github.com/schemats/schemats/writer"
)

type options struct {
	configFile string
	check      bool
	out        io.Writer
}

var errOutOfDate = errors.New("generated declarations are out of date, run schemats to update them")

func run(ctx context.Context, opts options) error {
	// variables in .env are available to ${VAR} expansion in the config
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return errors.Wrap(err, "failed to load .env")
	}

	cfgFile := opts.configFile
	if cfgFile == "" {
		var err error
		cfgFile, err = config.FindConfigFile(".", config.ConfigFilenames)
		if err != nil {
			return errors.Wrap(err, "failed to find config file")
		}
	}

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return errors.Wrap(err, "failed to load config file")
	}

	log := logger.New(cfg.Settings.Debug)
	defer func() { _ = log.Sync() }()

	units, err := cfg.LoadUnits(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to load schema")
	}
	log.Debug("loaded units", zap.Int("units", len(units)))

	outputs, err := plugins.GenerateCode(ctx, cfg, units, log)
	if err != nil {
		return errors.Wrap(err, "failed to generate code")
	}

	if !opts.check {
		if err := writer.Write(outputs); err != nil {
			return errors.Wrap(err, "failed to write files")
		}
		return nil
	}

	diffs, err := writer.Check(outputs)
	if err != nil {
		return errors.Wrap(err, "failed to check files")
	}
	if len(diffs) == 0 {
		return nil
	}
	if opts.out != nil {
		for _, d := range diffs {
			fmt.Fprintf(opts.out, "%s: %s\n", d.Status, d.Path)
		}
	}
	return errOutOfDate
}
