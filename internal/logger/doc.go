// Package logger provides a small wrapper around zap to offer:
//   - a global sugared logger printing progress to the console,
//   - context helpers (ToContext/FromContext/WithName/WithKV),
//   - level configuration and parsing utilities,
//   - convenience functions (Infof, ErrorKV, etc.).
//
// The packing services accept a context and extract the logger from it, so
// every line printed while packing a library carries the library name.
package logger
