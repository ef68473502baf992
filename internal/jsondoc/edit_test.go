package jsondoc

import (
	"errors"
	"reflect"
	"testing"

	"jsonboard/internal/domain"

	"github.com/tidwall/gjson"
)

func sampleDoc() map[string]any {
	return map[string]any{
		"name": "Aria",
		"tags": []any{"alpha", "beta", "gamma"},
		"stats": map[string]any{
			"hp":    float64(10),
			"alive": true,
		},
	}
}

func TestCoerce_Order(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  any
	}{
		{"integer", "42", float64(42)},
		{"negative float", "-7.5", float64(-7.5)},
		{"exponent", "1e3", float64(1000)},
		{"padded number", " 42 ", float64(42)},
		{"bool true", "true", true},
		{"bool false", "false", false},
		{"bool case insensitive", "TRUE", true},
		{"padded bool stays string", " true ", " true "},
		{"whitespace stays string", "  ", "  "},
		{"double dot stays string", "3.14.15", "3.14.15"},
		{"empty stays string", "", ""},
		{"infinity stays string", "Infinity", "Infinity"},
		{"phone-ish stays string", "555-0199", "555-0199"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Coerce(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Coerce(%q) = %#v, want %#v", tt.input, got, tt.want)
			}
		})
	}
}

func TestApplyEdit_ReplacesLeafAndNothingElse(t *testing.T) {
	doc := sampleDoc()
	original := Clone(doc)

	newRoot, err := ApplyEdit(doc, Path{KeyStep("stats"), KeyStep("hp")}, "42")
	if err != nil {
		t.Fatalf("ApplyEdit failed: %v", err)
	}

	// Input document is untouched
	if !reflect.DeepEqual(doc, original) {
		t.Fatal("ApplyEdit mutated the input document")
	}

	raw, err := Marshal(newRoot)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if got := gjson.Get(raw, "stats.hp").Num; got != 42 {
		t.Errorf("expected stats.hp = 42, got %v", got)
	}

	// The rest of the document is deep-equal to the original
	edited := newRoot.(map[string]any)
	edited["stats"].(map[string]any)["hp"] = float64(10)
	if !reflect.DeepEqual(edited, original) {
		t.Error("edit touched branches other than the target leaf")
	}
}

func TestApplyEdit_ArrayIndex(t *testing.T) {
	doc := sampleDoc()

	newRoot, err := ApplyEdit(doc, Path{KeyStep("tags"), IndexStep(1)}, "beta-2")
	if err != nil {
		t.Fatalf("ApplyEdit failed: %v", err)
	}

	got, err := ValueAt(newRoot, Path{KeyStep("tags"), IndexStep(1)})
	if err != nil {
		t.Fatalf("ValueAt failed: %v", err)
	}
	if got != "beta-2" {
		t.Errorf("expected tags[1] = beta-2, got %v", got)
	}
	if doc["tags"].([]any)[1] != "beta" {
		t.Error("edit mutated the input array")
	}
}

func TestApplyEdit_EmptyPathReplacesRoot(t *testing.T) {
	newRoot, err := ApplyEdit(sampleDoc(), nil, "true")
	if err != nil {
		t.Fatalf("ApplyEdit failed: %v", err)
	}
	if newRoot != true {
		t.Errorf("expected root replaced with true, got %#v", newRoot)
	}
}

func TestApplyEdit_UnresolvablePaths(t *testing.T) {
	tests := []struct {
		name string
		path Path
	}{
		{"missing key", Path{KeyStep("missing"), KeyStep("x")}},
		{"index into object", Path{IndexStep(0), KeyStep("x")}},
		{"key into array", Path{KeyStep("tags"), KeyStep("x")}},
		{"index out of range", Path{KeyStep("tags"), IndexStep(99)}},
		{"negative index", Path{KeyStep("tags"), IndexStep(-1)}},
		{"through a primitive", Path{KeyStep("name"), KeyStep("x")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := sampleDoc()
			original := Clone(doc)

			_, err := ApplyEdit(doc, tt.path, "1")
			if err == nil {
				t.Fatal("expected an error")
			}
			var pathErr *domain.PathResolutionError
			if !errors.As(err, &pathErr) {
				t.Fatalf("expected PathResolutionError, got %T", err)
			}
			if !errors.Is(err, domain.ErrBadPath) {
				t.Error("expected errors.Is(err, ErrBadPath)")
			}
			// Never partially applied
			if !reflect.DeepEqual(doc, original) {
				t.Error("failed edit mutated the input document")
			}
		})
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  Kind
	}{
		{"array", []any{1.0}, KindArray},
		{"empty array", []any{}, KindArray},
		{"object", map[string]any{}, KindObject},
		{"string", "x", KindPrimitive},
		{"number", 1.5, KindPrimitive},
		{"bool", false, KindPrimitive},
		{"null", nil, KindPrimitive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.value); got != tt.want {
				t.Errorf("Classify(%#v) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestClone_Independence(t *testing.T) {
	doc := sampleDoc()
	cloned := Clone(doc).(map[string]any)

	cloned["stats"].(map[string]any)["hp"] = float64(99)
	cloned["tags"].([]any)[0] = "mutated"

	if doc["stats"].(map[string]any)["hp"] != float64(10) {
		t.Error("clone shares nested map with original")
	}
	if doc["tags"].([]any)[0] != "alpha" {
		t.Error("clone shares nested slice with original")
	}
}
