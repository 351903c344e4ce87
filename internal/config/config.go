// Package config loads settings from, in increasing priority: built-in
// defaults, a YAML file, EDUSPRINT_ environment variables and command-line
// flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/robfig/cron/v3"
	"github.com/spf13/pflag"

	"github.com/conorfennell/edusprint/internal/storage"
	"github.com/conorfennell/edusprint/internal/timer"
)

// EnvPrefix is the prefix of environment overrides. Nested keys use a
// double underscore: EDUSPRINT_TIMER__FOCUS_MINUTES=50.
const EnvPrefix = "EDUSPRINT_"

// DefaultFile is read when no --config flag is given and it exists.
const DefaultFile = "edusprint.yaml"

type Config struct {
	DB         string       `koanf:"db" validate:"required"`
	StorageKey string       `koanf:"storage_key" validate:"required"`
	ReposDir   string       `koanf:"repos_dir" validate:"required"`
	Log        LogConfig    `koanf:"log"`
	Timer      timer.Config `koanf:"timer"`
	Quiz       QuizConfig   `koanf:"quiz"`
	Web        WebConfig    `koanf:"web"`
	Sync       SyncConfig   `koanf:"sync"`
}

type LogConfig struct {
	Level  string `koanf:"level" validate:"oneof=debug info warn error"`
	Format string `koanf:"format" validate:"oneof=text json"`
}

type QuizConfig struct {
	Count int `koanf:"count" validate:"min=1,max=50"`
}

type WebConfig struct {
	Addr string `koanf:"addr" validate:"required"`
}

// SyncConfig controls background source syncing. An empty Schedule disables
// the cron job while serving.
type SyncConfig struct {
	Schedule string        `koanf:"schedule" validate:"omitempty,cronspec"`
	Debounce time.Duration `koanf:"debounce" validate:"gte=0"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		DB:         "edusprint.db",
		StorageKey: storage.DefaultKey,
		ReposDir:   "repos",
		Log:        LogConfig{Level: "info", Format: "text"},
		Timer:      timer.DefaultConfig(),
		Quiz:       QuizConfig{Count: 5},
		Web:        WebConfig{Addr: "127.0.0.1:8080"},
		Sync:       SyncConfig{Debounce: 500 * time.Millisecond},
	}
}

// flagKeys maps command-line flag names onto config keys. Flags not listed
// are left to the commands that declare them.
var flagKeys = map[string]string{
	"db":          "db",
	"storage-key": "storage_key",
	"repos-dir":   "repos_dir",
	"log-level":   "log.level",
	"log-format":  "log.format",
	"focus":       "timer.focus_minutes",
	"break":       "timer.break_minutes",
	"count":       "quiz.count",
	"addr":        "web.addr",
	"schedule":    "sync.schedule",
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterValidation("cronspec", func(fl validator.FieldLevel) bool {
		_, err := cron.ParseStandard(fl.Field().String())
		return err == nil
	})
	return v
}

// Load builds the configuration. path names the YAML file; when empty,
// DefaultFile is used if present. flags may be nil.
func Load(path string, flags *pflag.FlagSet) (Config, error) {
	k := koanf.New(".")

	if path == "" {
		if _, err := os.Stat(DefaultFile); err == nil {
			path = DefaultFile
		}
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		return strings.ReplaceAll(s, "__", ".")
	}), nil)
	if err != nil {
		return Config{}, fmt.Errorf("failed to load environment: %w", err)
	}

	if flags != nil {
		err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			key, ok := flagKeys[f.Name]
			if !ok {
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		}), nil)
		if err != nil {
			return Config{}, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	cfg := Default()
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every out-of-range setting.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q (got %v)", fe.Namespace(), fe.Tag(), fe.Value()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
