package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup はグローバルロガーを設定する。dev は読みやすいコンソール出力
func Setup(dev bool) zerolog.Logger {
	var w io.Writer = os.Stdout
	level := zerolog.InfoLevel
	if dev {
		w = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
		level = zerolog.DebugLevel
	}

	logger := zerolog.New(w).With().Timestamp().Logger()
	zerolog.SetGlobalLevel(level)
	log.Logger = logger
	zerolog.DefaultContextLogger = &log.Logger
	return logger
}
