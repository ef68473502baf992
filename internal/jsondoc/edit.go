package jsondoc

import (
	"math"
	"strconv"
	"strings"

	"jsonboard/internal/domain"
)

// Coerce turns raw input text into a leaf value. Order matters: text that
// parses as a finite number becomes a number, else a case-insensitive
// true/false becomes a boolean, else the literal string is kept. Numeric
// parsing is tried on the trimmed text and trimmed-empty input is
// excluded, so whitespace-only input survives as a string, and a value
// like "3.14.15" that fails the numeric parse stays text.
func Coerce(raw string) any {
	trimmed := strings.TrimSpace(raw)
	if trimmed != "" {
		if n, err := strconv.ParseFloat(trimmed, 64); err == nil && !math.IsInf(n, 0) && !math.IsNaN(n) {
			return n
		}
	}
	switch strings.ToLower(raw) {
	case "true":
		return true
	case "false":
		return false
	}
	return raw
}

// ApplyEdit returns a new root in which the leaf at path is replaced by
// the coerced rawInput. The given root is deep-copied first and never
// mutated. A step that does not resolve through the document's actual
// structure yields a PathResolutionError and no part of the edit is
// applied; intermediate containers are never created. An empty path
// replaces the whole document.
func ApplyEdit(root any, path Path, rawInput string) (any, error) {
	leaf := Coerce(rawInput)
	if len(path) == 0 {
		return leaf, nil
	}

	clone := Clone(root)

	parent := clone
	for i, step := range path[:len(path)-1] {
		child, err := resolve(parent, step, path, i)
		if err != nil {
			return nil, err
		}
		parent = child
	}

	last := path[len(path)-1]
	switch container := parent.(type) {
	case map[string]any:
		if last.IsIndex {
			return nil, &domain.PathResolutionError{Path: path.Key(), Step: len(path) - 1}
		}
		container[last.Key] = leaf
	case []any:
		if !last.IsIndex || last.Index < 0 || last.Index >= len(container) {
			return nil, &domain.PathResolutionError{Path: path.Key(), Step: len(path) - 1}
		}
		container[last.Index] = leaf
	default:
		return nil, &domain.PathResolutionError{Path: path.Key(), Step: len(path) - 1}
	}

	return clone, nil
}

// ValueAt reads the value at path without copying. Used by receivers to
// inspect a document; fails like ApplyEdit when the path does not resolve.
func ValueAt(root any, path Path) (any, error) {
	current := root
	for i, step := range path {
		child, err := resolve(current, step, path, i)
		if err != nil {
			return nil, err
		}
		current = child
	}
	return current, nil
}

func resolve(container any, step Step, path Path, at int) (any, error) {
	switch c := container.(type) {
	case map[string]any:
		if step.IsIndex {
			return nil, &domain.PathResolutionError{Path: path.Key(), Step: at}
		}
		child, ok := c[step.Key]
		if !ok {
			return nil, &domain.PathResolutionError{Path: path.Key(), Step: at}
		}
		return child, nil
	case []any:
		if !step.IsIndex || step.Index < 0 || step.Index >= len(c) {
			return nil, &domain.PathResolutionError{Path: path.Key(), Step: at}
		}
		return c[step.Index], nil
	default:
		return nil, &domain.PathResolutionError{Path: path.Key(), Step: at}
	}
}
