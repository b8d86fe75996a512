// Package logging provides structured logging for procdash.
//
// Logs are JSON lines written through log/slog to {dir}/procdash.log, where
// dir is the procdash state directory. They are never written to the
// terminal while the dashboard owns it.
//
// # Context Propagation
//
// Child loggers carry persistent attributes:
//
//	log := logger.WithComponent("filter").WithField("plan-year")
//	log.Debug("commit armed", "generation", 3)
//
// Output:
//
//	{"time":"...","level":"DEBUG","msg":"commit armed","component":"filter","field":"plan-year","generation":3}
//
// # Log Rotation
//
// [NewLoggerWithRotation] rotates the file once it exceeds
// [RotationConfig.MaxSizeMB]. Rotated files are named procdash.log.1 (newest)
// through procdash.log.N and are gzipped when Compress is set.
//
// # Reading Logs Back
//
// [AggregateLogs], [FilterLogs] and [ExportLogEntries] back the
// "procdash logs" command:
//
//	entries, err := logging.AggregateLogs(dir)
//	warn := logging.FilterLogs(entries, logging.LogFilter{Level: "WARN", Component: "count"})
//	_ = logging.ExportLogEntries(warn, "count.csv", "csv")
//
// Use [NopLogger] in tests.
package logging
