package weblog

import (
	"context"
	"net/http"
	"time"

	"github.com/muyo/sno"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/uptrace/bun"
)

type logPtr struct{}

func MakeLogMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		reqID := sno.New(0)
		logger := log.With().Str("req", reqID.String()).Logger()

		ctx := r.Context()
		ctx = context.WithValue(ctx, logPtr{}, &logger)
		r = r.WithContext(ctx)
		next.ServeHTTP(rw, r)
	})
}

// Log returns a zerolog Logger with additional context information (i.e. request ID)
func Log(ctx context.Context) *zerolog.Logger {
	logger := ctx.Value(logPtr{})
	if logger == nil {
		return &log.Logger
	}

	return logger.(*zerolog.Logger)
}

// BunHook routes bun's query log through the request logger
type BunHook struct{}

var _ bun.QueryHook = BunHook{}

func (BunHook) BeforeQuery(ctx context.Context, event *bun.QueryEvent) context.Context {
	return ctx
}

func (BunHook) AfterQuery(ctx context.Context, event *bun.QueryEvent) {
	level := zerolog.DebugLevel
	if event.Err != nil {
		level = zerolog.ErrorLevel
	}

	Log(ctx).WithLevel(level).
		Str("module", "bun").
		Dur("took", time.Since(event.StartTime)).
		Err(event.Err).
		Msg(event.Query)
}
