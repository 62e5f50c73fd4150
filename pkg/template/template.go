// Package template resolves {{dotted.path}} placeholders against the trigger
// context so action configs and condition values can reference event data.
package template

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"
)

var (
	placeholderPattern      = regexp.MustCompile(`\{\{\s*([A-Za-z0-9_\-]+(?:\.[A-Za-z0-9_\-]+)*)\s*\}\}`)
	wholePlaceholderPattern = regexp.MustCompile(`^\{\{\s*([A-Za-z0-9_\-]+(?:\.[A-Za-z0-9_\-]+)*)\s*\}\}$`)
)

// Resolver substitutes placeholders with values from a nested context map.
// Resolution is fail-open: a missing path yields nil (whole-string
// placeholder) or an empty string (inline placeholder), logged as a miss but
// never surfaced as an error, so automation proceeds in degraded form.
type Resolver struct {
	logger *slog.Logger
}

func NewResolver(logger *slog.Logger) *Resolver {
	return &Resolver{logger: logger.With("module", "template")}
}

// Resolve walks value recursively. Strings pass through placeholder
// substitution; maps and slices are rebuilt with every leaf resolved; every
// other type is returned unchanged.
func (r *Resolver) Resolve(value any, data map[string]any) any {
	switch typed := value.(type) {
	case string:
		return r.resolveString(typed, data)
	case map[string]any:
		resolved := make(map[string]any, len(typed))
		for key, item := range typed {
			resolved[key] = r.Resolve(item, data)
		}

		return resolved
	case []any:
		resolved := make([]any, len(typed))
		for i, item := range typed {
			resolved[i] = r.Resolve(item, data)
		}

		return resolved
	default:
		return value
	}
}

// resolveString handles the two placeholder forms. A placeholder spanning the
// whole string returns the looked-up value with its original type preserved;
// placeholders embedded in literal text are stringified in place.
func (r *Resolver) resolveString(input string, data map[string]any) any {
	if match := wholePlaceholderPattern.FindStringSubmatch(input); match != nil {
		value, found := Lookup(match[1], data)
		if !found {
			r.logger.Warn("template path not found in context", "path", match[1])

			return nil
		}

		return value
	}

	return placeholderPattern.ReplaceAllStringFunc(input, func(placeholder string) string {
		path := placeholderPattern.FindStringSubmatch(placeholder)[1]

		value, found := Lookup(path, data)
		if !found {
			r.logger.Warn("template path not found in context", "path", path)

			return ""
		}

		return stringify(value)
	})
}

// Lookup walks a dot-separated path through nested maps. Array indices are
// not supported.
func Lookup(path string, data map[string]any) (any, bool) {
	segments := strings.Split(path, ".")

	var current any = data

	for _, segment := range segments {
		container, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}

		value, exists := container[segment]
		if !exists {
			return nil, false
		}

		current = value
	}

	return current, true
}

func stringify(value any) string {
	if value == nil {
		return ""
	}

	return fmt.Sprintf("%v", value)
}
