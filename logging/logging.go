// Package logging builds the process logger from configuration.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/nathoo/olympos/config"
)

// LevelEnv overrides the configured level when set.
const LevelEnv = "OLYMPOS_LOG_LEVEL"

// New returns a logger configured from cfg. When cfg.File is set the log
// goes there and the returned closer closes it; otherwise it goes to
// fallback. Callers running a full-screen terminal UI must either set a
// file or pass io.Discard.
func New(cfg config.Log, fallback io.Writer) (*logrus.Logger, io.Closer, error) {
	log := logrus.New()

	// 1. Level: environment first, then config, then info.
	name := cfg.Level
	if env, ok := os.LookupEnv(LevelEnv); ok {
		name = env
	}
	if name == "" {
		name = "info"
	}
	level, err := logrus.ParseLevel(name)
	if err != nil {
		return nil, nil, fmt.Errorf("log level: %w", err)
	}
	log.SetLevel(level)

	// 2. Formatter.
	if strings.ToLower(cfg.Format) == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	// 3. Output.
	var closer io.Closer = nopCloser{}
	switch {
	case cfg.File != "":
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("opening log file: %w", err)
		}
		log.SetOutput(f)
		closer = f
	case fallback != nil:
		log.SetOutput(fallback)
	default:
		log.SetOutput(os.Stderr)
	}
	return log, closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
