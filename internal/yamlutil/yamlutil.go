// Package yamlutil loads harvest configuration YAML documents. A
// configuration file must hold exactly one document; scalar values may
// reference environment variables as ${VAR}, which are substituted after
// decoding so absolute paths can be derived from the install environment.
package yamlutil

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"

	"gopkg.in/yaml.v3"
)

// ErrBadDocument reports a configuration file that is not a single,
// well-formed YAML document.
var ErrBadDocument = errors.New("bad yaml document")

// envVarRef matches ${VAR} references inside scalar values.
var envVarRef = regexp.MustCompile(`\$\{([^{}]+)\}`)

// LoadConfigFile reads a single-document YAML file into a configuration
// mapping, substituting ${VAR} environment references in every string scalar.
func LoadConfigFile(path string) (map[string]any, error) {
	switch ext := filepath.Ext(path); ext {
	case ".yml", ".yaml":
	default:
		return nil, fmt.Errorf("%w: %q is not a recognized yaml extension", ErrBadDocument, ext)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot open %q: %v", ErrBadDocument, path, err)
	}
	defer f.Close()

	var docs []map[string]any
	dec := yaml.NewDecoder(f)
	for {
		var doc map[string]any
		if err := dec.Decode(&doc); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("%w: cannot parse %q: %v", ErrBadDocument, path, err)
		}
		docs = append(docs, doc)
	}

	if len(docs) == 0 {
		return nil, fmt.Errorf("%w: %q contains no documents", ErrBadDocument, path)
	}
	if len(docs) > 1 {
		return nil, fmt.Errorf("%w: %q contains %d documents, expected exactly one",
			ErrBadDocument, path, len(docs))
	}

	expanded, _ := expandEnv(docs[0]).(map[string]any)
	return expanded, nil
}

// expandEnv walks a decoded YAML tree and substitutes ${VAR} references in
// string scalars. Unset variables expand to the empty string.
func expandEnv(v any) any {
	switch val := v.(type) {
	case map[string]any:
		for k, item := range val {
			val[k] = expandEnv(item)
		}
		return val
	case []any:
		for i, item := range val {
			val[i] = expandEnv(item)
		}
		return val
	case string:
		return envVarRef.ReplaceAllStringFunc(val, func(ref string) string {
			return os.Getenv(envVarRef.FindStringSubmatch(ref)[1])
		})
	default:
		return v
	}
}
