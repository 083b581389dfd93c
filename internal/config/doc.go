// Package config resolves the MLFS pipeline settings from explicit overrides,
// environment variables, an optional definitions file (.env or YAML) and
// compiled-in defaults, with precedence in that order. Every field is coerced
// to its declared type; a value that does not coerce fails the whole load.
//
// After a successful load the Hopsworks credentials are mirrored into the
// environment, once, for libraries that only read them from there.
package config
