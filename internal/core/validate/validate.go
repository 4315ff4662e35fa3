// Package validate provides shared validation functions.
package validate

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/hay-kot/criterio"
)

// DatasetKey validates the owning key of a dataset. Keys are stored after the
// table name and a slash, so they may not contain one, nor whitespace.
func DatasetKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("key is required")
	}
	if strings.ContainsFunc(key, func(r rune) bool { return r == '/' || unicode.IsSpace(r) }) {
		return fmt.Errorf("key %q must not contain '/' or whitespace", key)
	}
	return nil
}

// DatasetKeyField returns a criterio validator for dataset keys.
func DatasetKeyField(field, key string) error {
	return criterio.Run(field, key, DatasetKey)
}

// FieldName validates a record field name given on the command line.
func FieldName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("field name is required")
	}
	if name != strings.TrimSpace(name) {
		return fmt.Errorf("field name %q has surrounding whitespace", name)
	}
	return nil
}
