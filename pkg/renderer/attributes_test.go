package renderer_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestAttribute_MissingAndFalseReadTheSame(t *testing.T) {
	r := mustNew(t, t.TempDir(), map[string]any{"nothing": nil}, "")
	r.AddAttribute("flag", false)

	missing := r.Attribute("missing")
	flag := r.Attribute("flag")
	nothing := r.Attribute("nothing")
	if missing != false || flag != false || nothing != false {
		t.Fatalf("expected false for missing, false and nil attributes, got %v, %v, %v", missing, flag, nothing)
	}
	if missing != flag {
		t.Fatalf("missing and false attributes should be indistinguishable")
	}

	if _, ok := r.LookupAttribute("missing"); ok {
		t.Fatalf("LookupAttribute reported a missing key as present")
	}
	if value, ok := r.LookupAttribute("flag"); !ok || value != false {
		t.Fatalf("LookupAttribute(flag) = %v, %v", value, ok)
	}
}

func TestAttributes_SetAndAdd(t *testing.T) {
	r := mustNew(t, t.TempDir(), map[string]any{"site": "Docs"}, "")

	r.AddAttribute("year", 2024)
	if diff := cmp.Diff(map[string]any{"site": "Docs", "year": 2024}, r.Attributes()); diff != "" {
		t.Fatalf("attributes mismatch (-want +got):\n%s", diff)
	}

	r.SetAttributes(map[string]any{"lang": "en"})
	if diff := cmp.Diff(map[string]any{"lang": "en"}, r.Attributes()); diff != "" {
		t.Fatalf("attributes mismatch after set (-want +got):\n%s", diff)
	}

	r.SetAttributes(nil)
	r.AddAttribute("after", true)
	if got := r.Attribute("after"); got != true {
		t.Fatalf("AddAttribute after SetAttributes(nil): got %v", got)
	}
}

func TestAttributes_ReturnsCopy(t *testing.T) {
	seed := map[string]any{"site": "Docs"}
	r := mustNew(t, t.TempDir(), seed, "")

	seed["site"] = "changed"
	attrs := r.Attributes()
	attrs["site"] = "mutated"

	if got := r.Attribute("site"); got != "Docs" {
		t.Fatalf("renderer attributes leaked through shared map: %v", got)
	}
}
