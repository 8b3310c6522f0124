package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/zombar/wordwise/internal/readability"
)

// Output formats
const (
	outputText = "text"
	outputJSON = "json"
	outputYAML = "yaml"
)

// options are the persistent flags shared by every subcommand.
type options struct {
	level      string
	output     string
	configPath string
	verbose    bool

	logger *zap.Logger
}

// fileConfig is the optional YAML config selected with --config.
type fileConfig struct {
	TargetLevel string `yaml:"target_level"`
	Output      string `yaml:"output"`
}

func loadFileConfig(path string) (fileConfig, error) {
	var cfg fileConfig

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "wordwise",
		Short: "Readability metrics and writing feedback",
		Long: `wordwise scores a document with five classic readability formulas,
calibrates a recommended grade level and explains how the writing fits
a high-school or college audience.

Documents are read from a file or stdin. Markdown and HTML are reduced to
plain text before scoring.`,
		SilenceUsage:      true,
		PersistentPreRunE: opts.init,
		PersistentPostRun: func(*cobra.Command, []string) {
			if opts.logger != nil {
				_ = opts.logger.Sync()
			}
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.level, "level", "l", string(readability.HighSchool), "Target audience: high-school or college")
	pf.StringVarP(&opts.output, "output", "o", outputText, "Output format: text, json or yaml")
	pf.StringVarP(&opts.configPath, "config", "c", "", "YAML file providing target_level and output defaults")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")

	cmd.AddCommand(newMetricsCmd(opts), newAssessCmd(opts), newInterpretCmd(opts))
	return cmd
}

// init builds the logger and resolves flag values against the config file.
// Flags given on the command line win over the file.
func (o *options) init(cmd *cobra.Command, _ []string) error {
	zcfg := zap.NewProductionConfig()
	if o.verbose {
		zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := zcfg.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	o.logger = logger

	if o.configPath != "" {
		fc, err := loadFileConfig(o.configPath)
		if err != nil {
			return err
		}
		flags := cmd.Flags()
		if fc.TargetLevel != "" && !flags.Changed("level") {
			o.level = fc.TargetLevel
		}
		if fc.Output != "" && !flags.Changed("output") {
			o.output = fc.Output
		}
		logger.Debug("config loaded",
			zap.String("path", o.configPath),
			zap.String("level", o.level),
			zap.String("output", o.output))
	}

	if _, err := readability.ParseTargetLevel(o.level); err != nil {
		return err
	}
	switch o.output {
	case outputText, outputJSON, outputYAML:
	default:
		return fmt.Errorf("unknown output format %q", o.output)
	}
	return nil
}

// targetLevel returns the validated --level value.
func (o *options) targetLevel() readability.TargetLevel {
	level, _ := readability.ParseTargetLevel(o.level)
	return level
}
