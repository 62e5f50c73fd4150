package template

import (
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestResolver() *Resolver {
	return NewResolver(slog.New(slog.NewTextHandler(os.Stderr, nil)))
}

func TestResolve_WholePlaceholderPreservesType(t *testing.T) {
	resolver := newTestResolver()
	data := map[string]any{
		"a": map[string]any{"b": 5},
		"enabled": true,
		"item": map[string]any{
			"id":  "I1",
			"qty": 42.5,
		},
	}

	assert.Equal(t, 5, resolver.Resolve("{{a.b}}", data))
	assert.Equal(t, true, resolver.Resolve("{{enabled}}", data))
	assert.Equal(t, 42.5, resolver.Resolve("{{item.qty}}", data))
	assert.Equal(t, map[string]any{"id": "I1", "qty": 42.5}, resolver.Resolve("{{item}}", data))
}

func TestResolve_InlinePlaceholderStringifies(t *testing.T) {
	resolver := newTestResolver()
	data := map[string]any{
		"item":  map[string]any{"name": "Widget"},
		"stock": 5,
	}

	result := resolver.Resolve("Low stock for {{item.name}}: {{stock}} left", data)
	assert.Equal(t, "Low stock for Widget: 5 left", result)
}

func TestResolve_NoPlaceholdersReturnsInputUnchanged(t *testing.T) {
	resolver := newTestResolver()

	assert.Equal(t, "plain text", resolver.Resolve("plain text", map[string]any{}))
	assert.Equal(t, 7, resolver.Resolve(7, map[string]any{}))
	assert.Nil(t, resolver.Resolve(nil, map[string]any{}))
}

func TestResolve_MissingPathFailsOpen(t *testing.T) {
	resolver := newTestResolver()
	data := map[string]any{"a": 1}

	assert.Nil(t, resolver.Resolve("{{missing.path}}", data))
	assert.Equal(t, "value: ", resolver.Resolve("value: {{missing.path}}", data))
}

func TestResolve_PathThroughNonObjectFailsOpen(t *testing.T) {
	resolver := newTestResolver()
	data := map[string]any{"a": "not an object"}

	assert.Nil(t, resolver.Resolve("{{a.b}}", data))
}

func TestResolve_RecursesIntoMapsAndSlices(t *testing.T) {
	resolver := newTestResolver()
	data := map[string]any{
		"item": map[string]any{
			"id":         "I1",
			"supplier":   "S1",
			"reorderQty": 50,
		},
	}

	config := map[string]any{
		"supplierId": "{{item.supplier}}",
		"items": []any{
			map[string]any{
				"itemId":   "{{item.id}}",
				"quantity": "{{item.reorderQty}}",
			},
		},
	}

	resolved, ok := resolver.Resolve(config, data).(map[string]any)
	assert.True(t, ok)
	assert.Equal(t, "S1", resolved["supplierId"])

	items, ok := resolved["items"].([]any)
	assert.True(t, ok)
	assert.Equal(t, map[string]any{"itemId": "I1", "quantity": 50}, items[0])
}

func TestLookup(t *testing.T) {
	data := map[string]any{
		"a": map[string]any{"b": map[string]any{"c": "deep"}},
	}

	value, found := Lookup("a.b.c", data)
	assert.True(t, found)
	assert.Equal(t, "deep", value)

	_, found = Lookup("a.b.missing", data)
	assert.False(t, found)

	_, found = Lookup("a.b.c.d", data)
	assert.False(t, found)
}
