package server

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/kaioribeiro97/simulacao-shp/pkg/config"
	"github.com/kaioribeiro97/simulacao-shp/pkg/storage"
	"github.com/kaioribeiro97/simulacao-shp/pkg/weblog"
)

// StartServer starts the integrated HTTP server
func StartServer(cfg *config.Config) error {
	var store *storage.Store
	if cfg.History.Enabled {
		var err error
		store, err = storage.Open(context.Background(), cfg.Database, weblog.BunHook{})
		if err != nil {
			return err
		}
		defer store.Close()
	} else {
		log.Info().Msg("Conversion history is disabled")
	}

	log.Info().Msgf("Listening on %s", cfg.HTTP.Address)
	return startMux(store, cfg)
}
