// Package log provides structured logging for trec.
//
// Package: log
// Title: trec Structured Logging
// Description: Levelled, structured logger with JSON and text formatters,
//              named loggers, context fields and caller information. Errors
//              from the foundation error package are logged with their code
//              and severity.
// Version: v0.2.0
// Created: 2026-10-15
//
// Usage:
//
//	import treclog "github.com/triagesys/trec/foundation/core/log"
//
//	logger := treclog.NewWithConfig(treclog.Config{
//		Level:  treclog.LevelInfo,
//		Format: treclog.FormatText,
//		Name:   "recorder",
//	})
//	logger.Info("capture started", treclog.Fields{"format": "audio/ogg"})
package log
