// Copyright (c) 2026 Third Spaces Gallery.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package logging installs a zap-backed slog default logger.
package logging

import (
	"fmt"
	"log/slog"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/exp/zapslog"
	"go.uber.org/zap/zapcore"
)

// LevelOff discards every record
const LevelOff = "off"

// Setup builds a zap logger for the given level and installs it as the slog
// default. The returned function flushes buffered entries.
func Setup(level string, json bool) (func(), error) {
	if strings.EqualFold(level, LevelOff) {
		Nop()
		return func() {}, nil
	}
	lvl, err := zapcore.ParseLevel(strings.ToLower(level))
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	var zcfg zap.Config
	if json {
		zcfg = zap.NewProductionConfig()
	} else {
		zcfg = zap.NewDevelopmentConfig()
		zcfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	zcfg.DisableStacktrace = true

	logger, err := zcfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	slog.SetDefault(slog.New(zapslog.NewHandler(logger.Core())))

	return func() { _ = logger.Sync() }, nil
}

// Nop silences the slog default, mostly for tests and CLI output.
func Nop() {
	slog.SetDefault(slog.New(zapslog.NewHandler(zapcore.NewNopCore())))
}
