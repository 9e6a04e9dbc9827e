package server

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/unrolled/secure"

	"github.com/kaioribeiro97/simulacao-shp/pkg/config"
	"github.com/kaioribeiro97/simulacao-shp/pkg/storage"
	"github.com/kaioribeiro97/simulacao-shp/pkg/weblog"
)

func startMux(store *storage.Store, cfg *config.Config) error {
	h := newHandler(store, cfg)

	r := mux.NewRouter()
	r.HandleFunc("/", h.index).Methods(http.MethodGet)
	r.HandleFunc("/", h.convert).Methods(http.MethodPost)
	r.HandleFunc("/healthz", h.healthz).Methods(http.MethodGet)
	r.HandleFunc("/api/conversions", h.history).Methods(http.MethodGet)

	sm := secure.New(secure.Options{
		// TODO: Figure out how to only enable in production
		// SSLRedirect: true,
		IsDevelopment:      true,
		BrowserXssFilter:   true,
		ContentTypeNosniff: true,
		FrameDeny:          true,
	})

	muxServer := http.Server{
		Handler: sm.Handler(weblog.MakeLogMiddleware(r)),
		Addr:    cfg.HTTP.Address,
		// uploads of large networks can take a while on slow links
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	return muxServer.ListenAndServe()
}
