// Package log is the logging abstraction used by chainreport's library code.
//
// Components accept a [Logger] and log with structured [Field] values:
//
//	logger.Info("post published", log.String("id", id), log.Int("index", i))
//
// [ZerologAdapter] backs the interface with zerolog; [NoopLogger] discards
// everything and is the default when no logger is supplied.
package log
