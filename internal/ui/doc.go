// Package ui provides helpers for interacting with CLI operators.
//
// It houses the interactive prompters that collect confirmations and
// free-form input, and the console event logger that translates command
// execution events into concise human-readable messages while detailed
// telemetry continues to flow through structured loggers.
package ui
