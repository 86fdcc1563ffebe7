// Package logx configures hwbot's structured logging.
//
// This repo uses a small wrapper (logx.Logger) on top of zerolog to keep:
//   - Console output readable (short timestamp + short caller)
//   - File output JSON-structured
//
// Sinks and levels can be swapped at runtime via Service.Apply, which is
// how the config hot-reload path adjusts logging without a restart.
package logx
