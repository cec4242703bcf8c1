// Package config loads java2objc settings from flags, the environment and
// an optional TOML file.
package config

import (
	"os"
	"runtime"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/dhamidi/java2objc/translate"
)

// FileName is the project configuration looked up in the working directory.
const FileName = ".java2objc.toml"

const envPrefix = "JAVA2OBJC"

// Config is the resolved configuration of one invocation.
type Config struct {
	OutputDir string `mapstructure:"outputdir"`
	Jobs      int    `mapstructure:"jobs"`
	Verbose   int    `mapstructure:"verbose"`

	// TypeMap is decoded from the typemap list of "Java=ObjC" entries.
	// Viper folds map keys to lower case.
	TypeMap map[string]string `mapstructure:"-"`
}

// Options converts c into translator options.
func (c *Config) Options() translate.Options {
	return translate.Options{
		OutputDir: c.OutputDir,
		Jobs:      c.Jobs,
		TypeMap:   c.TypeMap,
	}
}

// SetDefaults registers the built-in values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("outputdir", ".")
	v.SetDefault("jobs", runtime.GOMAXPROCS(0))
	v.SetDefault("typemap", []string{})
	v.SetDefault("verbose", 0)
}

// New returns a viper instance with defaults and environment binding.
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)
	return v
}

// BindFlags binds each named flag present in flags to the key of the same
// name, so a flag set on the command line overrides file and environment.
func BindFlags(v *viper.Viper, flags *pflag.FlagSet, names ...string) error {
	for _, name := range names {
		flag := flags.Lookup(name)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(name, flag); err != nil {
			return errors.Wrapf(err, "bind flag --%s", name)
		}
	}
	return nil
}

// Load reads path, or FileName from the working directory when path is
// empty, into v and decodes the result. A missing FileName is not an error;
// a missing explicit path is.
func Load(v *viper.Viper, path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = FileName
	}
	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "read config %s", path)
		}
	} else if explicit {
		return nil, errors.Wrapf(translate.ErrPrecondition, "config %s: %s", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}
	typeMap, err := ParseTypeMap(v.GetStringSlice("typemap"))
	if err != nil {
		return nil, err
	}
	cfg.TypeMap = typeMap
	if cfg.Jobs <= 0 {
		cfg.Jobs = runtime.GOMAXPROCS(0)
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "."
	}
	return &cfg, nil
}

// ParseTypeMap decodes "Java=ObjC" entries such as "Date=NSDate *".
func ParseTypeMap(entries []string) (map[string]string, error) {
	m := make(map[string]string, len(entries))
	for _, entry := range entries {
		from, to, ok := strings.Cut(entry, "=")
		from, to = strings.TrimSpace(from), strings.TrimSpace(to)
		if !ok || from == "" || to == "" {
			return nil, errors.WithHint(
				errors.Wrapf(translate.ErrPrecondition, "typemap entry %q", entry),
				`entries have the form "JavaType=ObjCType"`,
			)
		}
		m[from] = to
	}
	return m, nil
}
