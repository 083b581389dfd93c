package config

import (
	"fmt"
	"sync"

	"github.com/eugenenazirov/mlfs/internal/environ"
)

// mirrorMu makes the check-then-set in MirrorEnvironment atomic within the process.
var mirrorMu sync.Mutex

// MirroredFields lists, in write order, the settings copied into the environment
// for libraries that only read credentials from there.
var MirroredFields = []string{"HOPSWORKS_API_KEY", "HOPSWORKS_PROJECT", "HOPSWORKS_HOST"}

// MirrorEnvironment writes each mirrored setting into env when the variable is
// unset there and the setting is present. Variables already set, even to the
// empty string, are never overwritten. It returns the names it wrote; on error
// the writes that preceded the failure remain.
func MirrorEnvironment(env environ.Environment, s Settings) ([]string, error) {
	mirrorMu.Lock()
	defer mirrorMu.Unlock()

	var written []string
	for _, name := range MirroredFields {
		if _, ok := env.Lookup(name); ok {
			continue
		}
		secret, _ := fieldIndex[name].get(s).(Secret)
		if !secret.IsSet() {
			continue
		}
		if err := env.Set(name, secret.Value()); err != nil {
			return written, fmt.Errorf("mirror %s: %w", name, err)
		}
		written = append(written, name)
	}
	return written, nil
}
