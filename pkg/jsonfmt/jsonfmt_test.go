package jsonfmt

import "testing"

func TestFormat_SortsKeysAndKeepsNumbers(t *testing.T) {
	got, ok := Format(`{"b":1.50,"a":{"d":[1,2],"c":"<x>"}}`)
	if !ok {
		t.Fatalf("expected valid JSON")
	}
	want := "{\n  \"a\": {\n    \"c\": \"<x>\",\n    \"d\": [\n      1,\n      2\n    ]\n  },\n  \"b\": 1.50\n}"
	if got != want {
		t.Fatalf("format mismatch:\nwant %q\ngot  %q", want, got)
	}
}

func TestFormat_InvalidPassesThrough(t *testing.T) {
	got, ok := Format("{broken")
	if ok || got != "{broken" {
		t.Fatalf("expected raw passthrough, got %q (ok=%v)", got, ok)
	}
	if got, ok := Format("  "); !ok || got != "{}" {
		t.Fatalf("blank input should format as empty object, got %q", got)
	}
	if _, ok := Format(`{} {}`); ok {
		t.Fatalf("trailing data should not format")
	}
}

func TestValidate(t *testing.T) {
	schema := `{"type":"object","required":["url"],"properties":{"url":{"type":"string"}}}`

	if msgs := Validate(`{"url":"https://mcp.example.com"}`, schema); len(msgs) != 0 {
		t.Fatalf("expected valid document, got %v", msgs)
	}
	if msgs := Validate(`{"url":5}`, schema); len(msgs) != 1 {
		t.Fatalf("expected one violation, got %v", msgs)
	}
	if msgs := Validate(`nope`, schema); len(msgs) != 1 || msgs[0] != "invalid JSON" {
		t.Fatalf("expected parse failure, got %v", msgs)
	}
	if msgs := Validate(`[1]`, ""); msgs != nil {
		t.Fatalf("schema-less validation should only parse, got %v", msgs)
	}
}

func TestCompactAndValid(t *testing.T) {
	if got, ok := Compact("{ \"a\" : 1 }"); !ok || got != `{"a":1}` {
		t.Fatalf("compact = %q (ok=%v)", got, ok)
	}
	if !Valid("") || Valid("{") {
		t.Fatalf("Valid misreports")
	}
}
