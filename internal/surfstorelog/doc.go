// Package surfstorelog wraps zerolog with the handful of conventions every
// SurfStore binary follows: a process-wide Logger set up once in main via
// Init, and component/request-scoped child loggers derived from it with
// WithComponent and WithRequestID.
//
//	surfstorelog.Init(surfstorelog.Config{Level: "info", JSON: true})
//	log := surfstorelog.WithComponent("blockstore")
//	log.Info().Str("hash", h).Msg("block stored")
//
// JSON output is for production (log aggregation); console output is the
// default, meant for a developer watching a terminal.
package surfstorelog
