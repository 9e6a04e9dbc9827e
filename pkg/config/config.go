package config

import (
	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigtoml"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

// Config describes all configuration options
type Config struct {
	Database string `default:"simulacao.db" usage:"Path to the SQLite file used for conversion history"`
	Log      struct {
		Level string `default:"info"`
		File  string
		JSON  bool `default:"false" usage:"Output JSONND instead of pretty console messages"`
	}
	HTTP struct {
		Address     string `default:"0.0.0.0:8000" usage:"Address to listen on"`
		MaxUploadMB int64  `default:"64" usage:"Maximum accepted request body size in MiB"`
	}
	History struct {
		Enabled bool `default:"true" usage:"Record conversions in the history database"`
		Limit   int  `default:"50" usage:"Maximum number of records returned by the history API"`
	}
}

var logLevels = map[string]zerolog.Level{
	"debug":   zerolog.DebugLevel,
	"info":    zerolog.InfoLevel,
	"warn":    zerolog.WarnLevel,
	"warning": zerolog.WarnLevel,
	"error":   zerolog.ErrorLevel,
	"fatal":   zerolog.FatalLevel,
}

// Loader initializes an empty config object and returns a new Loader for this object
func Loader() (*Config, *aconfig.Loader) {
	cfg := Config{}
	return &cfg, aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix:  "SIMSHP",
		FlagPrefix: "cfg",
		Files:      []string{"config.toml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".toml": aconfigtoml.New(),
		},
	})
}

// Validate verifies that all config fields have valid values
func (cfg *Config) Validate() error {
	_, ok := logLevels[cfg.Log.Level]
	if !ok {
		return eris.Errorf(`Invalid value for log.level: %s`, cfg.Log.Level)
	}

	if cfg.HTTP.MaxUploadMB < 1 {
		return eris.Errorf(`Invalid value for http.maxuploadmb: %d (must be at least 1)`, cfg.HTTP.MaxUploadMB)
	}

	if cfg.History.Enabled && cfg.Database == "" {
		return eris.New(`Invalid value for database: must not be empty while history is enabled`)
	}

	if cfg.History.Limit < 1 {
		return eris.Errorf(`Invalid value for history.limit: %d (must be at least 1)`, cfg.History.Limit)
	}

	return nil
}

// LogLevel converts the .Log.Level field to a zerolog.Level
func (cfg *Config) LogLevel() zerolog.Level {
	return logLevels[cfg.Log.Level]
}
