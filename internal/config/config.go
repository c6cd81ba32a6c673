// Package config loads CLI configuration.
//
// Sources, highest priority first: command-line flags (applied by the
// caller), SOCIALGRAPH_* environment variables, a CUE file, and the
// env-default tags below.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/ilyakaznacheev/cleanenv"
)

// EnvConfigPath names the environment variable holding the config file path.
const EnvConfigPath = "SOCIALGRAPH_CONFIG"

// DefaultPath is read when no path is given and the file exists.
const DefaultPath = "socialgraph.cue"

//go:embed schema.cue
var schemaSource string

// Config is the root configuration.
type Config struct {
	Database DatabaseConfig `json:"database"`
	Log      LogConfig      `json:"log"`
	Metrics  MetricsConfig  `json:"metrics"`
}

// DatabaseConfig locates the SQLite store.
type DatabaseConfig struct {
	Path string `json:"path" env:"SOCIALGRAPH_DB" env-default:"socialgraph.db"`
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string `json:"level"  env:"SOCIALGRAPH_LOG_LEVEL"  env-default:"info"`
	Format string `json:"format" env:"SOCIALGRAPH_LOG_FORMAT" env-default:"text"`
}

// MetricsConfig controls the metrics textfile.
type MetricsConfig struct {
	Textfile string `json:"textfile" env:"SOCIALGRAPH_METRICS_TEXTFILE"`
}

// Load reads the CUE file at path, overlays the environment and fills
// defaults. An empty path falls back to $SOCIALGRAPH_CONFIG, then to
// DefaultPath if it exists. A path given explicitly must exist.
func Load(path string) (*Config, error) {
	var cfg Config

	explicit := path != ""
	if !explicit {
		path = os.Getenv(EnvConfigPath)
		explicit = path != ""
	}
	if !explicit {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := decodeFile(path, data, &cfg); err != nil {
			return nil, err
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
		// No file: environment and defaults only.
	default:
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config: read env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}
	return &cfg, nil
}

// Default returns the configuration built from env-default tags alone.
func Default() *Config {
	var cfg Config
	_ = cleanenv.ReadEnv(&cfg)
	return &cfg
}

// decodeFile unifies a CUE file with the schema and decodes it into cfg.
func decodeFile(path string, data []byte, cfg *Config) error {
	ctx := cuecontext.New()
	schema, err := compileSchema(ctx)
	if err != nil {
		return err
	}

	file := ctx.CompileBytes(data, cue.Filename(path))
	if err := file.Err(); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}

	v := schema.Unify(file)
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("config: %s: %w", path, err)
	}
	if err := v.Decode(cfg); err != nil {
		return fmt.Errorf("config: decode %s: %w", path, err)
	}
	return nil
}

// Validate checks the final values against the same schema the file is
// unified with, so environment values are held to the same rules.
func (c *Config) Validate() error {
	ctx := cuecontext.New()
	schema, err := compileSchema(ctx)
	if err != nil {
		return err
	}
	v := schema.Unify(ctx.Encode(c))
	return v.Validate(cue.Concrete(true))
}

func compileSchema(ctx *cue.Context) (cue.Value, error) {
	v := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := v.Err(); err != nil {
		return cue.Value{}, fmt.Errorf("config: schema: %w", err)
	}
	return v.LookupPath(cue.ParsePath("#Config")), nil
}

// SlogLevel returns the slog level named by Level.
func (l LogConfig) SlogLevel() slog.Level {
	switch l.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger builds a logger writing to w in the configured format.
func (l LogConfig) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: l.SlogLevel()}
	if l.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
