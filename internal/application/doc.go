// Package application provides application initialization and dependency wiring.
// It builds the settings loader against the configured environment and
// definitions file and implements the show, check and exec commands, keeping
// the main package focused on CLI parsing and signal handling.
package application
