package logger

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	appCtx "github.com/baechuer/nutrition-service/internal/pkg/context"
)

const serviceName = "nutrition-service"

// Logger is the process-wide logger. Init also installs it as zerolog's global.
var Logger zerolog.Logger

// Options controls how the logger renders. Zero value: info, console.
type Options struct {
	Level zerolog.Level
	JSON  bool
}

// OptionsFromEnv reads LOG_LEVEL and LOG_FORMAT ("json" or "console").
// Unknown levels fall back to info.
func OptionsFromEnv() Options {
	opts := Options{Level: zerolog.InfoLevel}
	if v := strings.TrimSpace(os.Getenv("LOG_LEVEL")); v != "" {
		if lvl, err := zerolog.ParseLevel(strings.ToLower(v)); err == nil && lvl != zerolog.NoLevel {
			opts.Level = lvl
		}
	}
	opts.JSON = strings.EqualFold(strings.TrimSpace(os.Getenv("LOG_FORMAT")), "json")
	return opts
}

func Init() {
	InitWithWriter(os.Stdout)
}

func InitWithWriter(w io.Writer) {
	Logger = New(w, OptionsFromEnv())
	zlog.Logger = Logger
}

// New builds a logger without touching the globals.
func New(w io.Writer, opts Options) zerolog.Logger {
	if opts.JSON {
		return zerolog.New(w).Level(opts.Level).With().
			Timestamp().
			Str("service", serviceName).
			Logger()
	}
	cw := zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	return zerolog.New(cw).Level(opts.Level).With().Timestamp().Logger()
}

// WithCtx returns Logger with the request id and client ip carried by ctx.
func WithCtx(ctx context.Context) *zerolog.Logger {
	lc := Logger.With()
	if rid := appCtx.GetRequestID(ctx); rid != "" {
		lc = lc.Str("request_id", rid)
	}
	if ip := appCtx.GetClientIP(ctx); ip != "" {
		lc = lc.Str("client_ip", ip)
	}
	l := lc.Logger()
	return &l
}
