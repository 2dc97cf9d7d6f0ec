// Package logging configures the global zerolog logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Setup sets the global level and writers. When file is non-empty, JSON
// lines are also written to a rotating log file. The returned func closes it.
func Setup(level, file string) (func() error, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	if lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)

	w, closer := writers(os.Stderr, file)
	log.Logger = zerolog.New(w).With().Timestamp().Logger()

	return closer, nil
}

func writers(console io.Writer, file string) (io.Writer, func() error) {
	cw := zerolog.ConsoleWriter{Out: console, TimeFormat: time.DateTime}
	if file == "" {
		return cw, func() error { return nil }
	}

	rotating := &lumberjack.Logger{
		Filename:   file,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}
	return zerolog.MultiLevelWriter(cw, rotating), rotating.Close
}
