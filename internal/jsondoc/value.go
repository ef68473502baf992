// Package jsondoc implements path-addressed edits on decoded JSON values.
// It is pure and storage-agnostic: values are the encoding/json decoded
// forms (nil, bool, float64, string, []any, map[string]any) and every edit
// produces a new root, leaving the caller's value untouched.
package jsondoc

import (
	"encoding/json"

	"github.com/tidwall/pretty"
)

// Kind classifies how a value renders: as an indexed window over an array,
// as keyed object rows, or as an editable primitive leaf.
type Kind int

const (
	KindPrimitive Kind = iota
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "primitive"
	}
}

// Classify returns the rendering shape of a value. Classification is
// structural: array-ness and object-ness are checked before the primitive
// fallback, so null classifies as primitive.
func Classify(v any) Kind {
	switch v.(type) {
	case []any:
		return KindArray
	case map[string]any:
		return KindObject
	default:
		return KindPrimitive
	}
}

// Clone deep-copies a decoded JSON value. Containers are copied
// recursively; primitives are immutable and shared.
func Clone(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, child := range val {
			out[k] = Clone(child)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, child := range val {
			out[i] = Clone(child)
		}
		return out
	default:
		return v
	}
}

// Marshal serializes a value with the canonical two-space indentation used
// for stored document text.
func Marshal(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	b = pretty.PrettyOptions(b, &pretty.Options{Indent: "  "})
	// pretty terminates with a newline; stored text does not carry one
	if n := len(b); n > 0 && b[n-1] == '\n' {
		b = b[:n-1]
	}
	return string(b), nil
}
