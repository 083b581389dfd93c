// Package environ abstracts environment variable access so that configuration
// loading can read from, and write to, either the real process environment or
// an in-memory substitute.
package environ
