package jsondoc

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestPath_Key(t *testing.T) {
	p := Path{KeyStep("items"), IndexStep(3), KeyStep("name")}
	if got := p.Key(); got != "items.3.name" {
		t.Errorf("Key() = %q, want %q", got, "items.3.name")
	}
	if got := (Path{}).Key(); got != "" {
		t.Errorf("empty path Key() = %q, want empty", got)
	}
}

func TestPath_JSONRoundTrip(t *testing.T) {
	p := Path{KeyStep("a"), IndexStep(0), KeyStep("b")}

	data, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(data) != `["a",0,"b"]` {
		t.Errorf("marshaled path = %s, want [\"a\",0,\"b\"]", data)
	}

	var back Path
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if !reflect.DeepEqual(back, p) {
		t.Errorf("round trip = %#v, want %#v", back, p)
	}
}

func TestPath_UnmarshalRejectsBadSteps(t *testing.T) {
	var p Path
	if err := json.Unmarshal([]byte(`[1.5]`), &p); err == nil {
		t.Error("expected error for fractional index")
	}
	if err := json.Unmarshal([]byte(`[true]`), &p); err == nil {
		t.Error("expected error for boolean step")
	}
}
