package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultDefinitionsFile is the definitions file consulted when none is configured.
const DefaultDefinitionsFile = ".env"

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// readDefinitions loads the definitions file at path. A missing file yields
// found=false and no error. Parse failures never quote file content, which may hold secrets.
func readDefinitions(path string) (defs map[string]string, found bool, err error) {
	if path == "" {
		return nil, false, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("read definitions file: %w", err)
	}

	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		return nil, false, fmt.Errorf("%w: %s is not UTF-8 encoded", ErrUnknownFormat, path)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		defs, err = parseYAMLDefinitions(data)
	default:
		defs, err = parseDotenvDefinitions(data)
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: %s: %v", ErrUnknownFormat, path, err)
	}
	return defs, true, nil
}

func parseDotenvDefinitions(data []byte) (map[string]string, error) {
	defs, err := godotenv.Unmarshal(string(data))
	if err != nil {
		return nil, errors.New("not a KEY=value file")
	}
	return defs, nil
}

func parseYAMLDefinitions(data []byte) (map[string]string, error) {
	var doc map[string]yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.New("not a flat YAML mapping")
	}

	defs := make(map[string]string, len(doc))
	for name, node := range doc {
		if node.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("value of %s is not a scalar", name)
		}
		if node.Tag == "!!null" {
			continue
		}
		defs[name] = node.Value
	}
	return defs, nil
}
