package jsondoc

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Step is one hop from a container to a child: an object key or an array
// index. It JSON-encodes as a bare string or number, so a Path marshals to
// the heterogeneous array form carried on the wire.
type Step struct {
	Key     string
	Index   int
	IsIndex bool
}

// KeyStep builds an object-key step
func KeyStep(key string) Step {
	return Step{Key: key}
}

// IndexStep builds an array-index step
func IndexStep(index int) Step {
	return Step{Index: index, IsIndex: true}
}

func (s Step) String() string {
	if s.IsIndex {
		return strconv.Itoa(s.Index)
	}
	return s.Key
}

// MarshalJSON encodes the step as a number or string
func (s Step) MarshalJSON() ([]byte, error) {
	if s.IsIndex {
		return json.Marshal(s.Index)
	}
	return json.Marshal(s.Key)
}

// UnmarshalJSON decodes a number or string step
func (s *Step) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case string:
		*s = KeyStep(v)
		return nil
	case float64:
		if v != float64(int(v)) {
			return fmt.Errorf("path step %v is not an integer index", v)
		}
		*s = IndexStep(int(v))
		return nil
	default:
		return fmt.Errorf("path step must be a string or integer, got %T", raw)
	}
}

// Path locates a node inside a decoded JSON value, root first.
type Path []Step

// Key flattens the path into the dot-joined form used by the per-path
// conflict map.
func (p Path) Key() string {
	parts := make([]string, len(p))
	for i, s := range p {
		parts[i] = s.String()
	}
	return strings.Join(parts, ".")
}

func (p Path) String() string { return p.Key() }
