package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/kaioribeiro97/simulacao-shp/pkg/config"
	"github.com/kaioribeiro97/simulacao-shp/pkg/server"
)

func getConsoleWriter(out io.Writer) zerolog.ConsoleWriter {
	writer := zerolog.ConsoleWriter{Out: out}
	writer.TimeFormat = "02.01.2006 15:04:05 MST"
	writer.PartsOrder = []string{
		zerolog.TimestampFieldName,
		"req",
		zerolog.LevelFieldName,
		zerolog.CallerFieldName,
		zerolog.MessageFieldName,
	}

	writer.FormatFieldValue = func(value interface{}) string {
		if value == nil {
			return "                "
		}

		if str, ok := value.(string); ok {
			if len(str) == 16 {
				// the callback never learns the field name, but sno request IDs are
				// the only 16 char values we log; render them in cyan
				return fmt.Sprintf("\x1b[%dm%s\x1b[0m", 36, str)
			}
			if strings.Contains(str, "\\n") && strings.Contains(str, "\\t") {
				// quoted values full of line breaks and tabs are stack traces;
				// unquote them so they stay readable
				if unquoted, err := strconv.Unquote(str); err == nil {
					return unquoted
				}
			}
			return str
		}

		return fmt.Sprintf("%s", value)
	}
	return writer
}

func main() {
	cfg, loader := config.Loader()

	if err := loader.Load(); err != nil {
		if strings.Contains(err.Error(), "help requested") {
			os.Exit(3)
		}

		panic(err)
	}

	if cfg.Log.JSON {
		zerolog.ErrorStackMarshaler = func(err error) interface{} {
			return eris.ToJSON(err, true)
		}
	} else {
		log.Logger = log.Output(getConsoleWriter(os.Stderr))
		zerolog.ErrorStackMarshaler = func(err error) interface{} {
			return eris.ToString(err, true)
		}
	}

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Failed to parse config")
	}

	zerolog.SetGlobalLevel(cfg.LogLevel())
	if cfg.Log.File != "" {
		var logFile io.Writer
		logFile, err := os.Create(cfg.Log.File)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to open log file")
		}

		if !cfg.Log.JSON {
			writer := getConsoleWriter(logFile)
			writer.NoColor = true
			logFile = writer
		}

		log.Logger = log.Output(logFile)
	}

	log.Logger = log.Logger.With().Caller().Stack().Logger()
	log.Info().Msg("Finished parsing configuration; starting server")

	err := server.StartServer(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to start server")
	}
}
