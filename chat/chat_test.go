package chat

import (
	"encoding/json"
	"testing"
)

func TestNamedColorFromString(t *testing.T) {
	c, ok := NamedColorFromString("dark_purple")
	if !ok || c != DarkPurple {
		t.Fatalf("NamedColorFromString(dark_purple) = %v, %v", c, ok)
	}
	if _, ok := NamedColorFromString("not_a_color"); ok {
		t.Fatalf("NamedColorFromString accepted an unknown name")
	}
}

func TestRGBString(t *testing.T) {
	c := RGB{R: 0x1A, G: 0x2B, B: 0x3C}
	if c.String() != "#1A2B3C" {
		t.Fatalf("RGB.String() = %q", c.String())
	}
}

func TestTristateRoundTrip(t *testing.T) {
	if Unset.IsPresent() {
		t.Fatalf("Unset should not be present")
	}
	on := On()
	if !on.IsPresent() || !on.Value() {
		t.Fatalf("On() = %+v", on)
	}
	off := Off()
	if !off.IsPresent() || off.Value() {
		t.Fatalf("Off() = %+v", off)
	}
}

// TestChatJSONRoundTrip exercises the exact decode scenario:
// {"text":"A","bold":true,"color":"red","extra":[{"text":"B","italic":false}]}
func TestChatJSONRoundTrip(t *testing.T) {
	input := []byte(`{"text":"A","bold":true,"color":"red","extra":[{"text":"B","italic":false}]}`)

	c, err := Decode(input)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	text, ok := c.(*Text)
	if !ok || text.Value != "A" {
		t.Fatalf("root = %#v, want Text(A)", c)
	}
	style := text.Style()
	if !style.Bold.IsPresent() || !style.Bold.Value() {
		t.Fatalf("bold = %+v, want present-true", style.Bold)
	}
	if !style.Color.IsPresent() || style.Color.IsRGB() || style.Color.Named() != Red {
		t.Fatalf("color = %+v, want named red", style.Color)
	}

	children := text.Children()
	if len(children) != 1 {
		t.Fatalf("children = %d, want 1", len(children))
	}
	child, ok := children[0].(*Text)
	if !ok || child.Value != "B" {
		t.Fatalf("child = %#v, want Text(B)", children[0])
	}
	childStyle := child.Style()
	if !childStyle.Italic.IsPresent() || childStyle.Italic.Value() {
		t.Fatalf("child italic = %+v, want present-false", childStyle.Italic)
	}

	encoded, err := Encode(c)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	var gotObj, wantObj map[string]any
	if err := json.Unmarshal(encoded, &gotObj); err != nil {
		t.Fatalf("unmarshal re-encoded: %v", err)
	}
	if err := json.Unmarshal(input, &wantObj); err != nil {
		t.Fatalf("unmarshal input: %v", err)
	}
	if !jsonEqual(gotObj, wantObj) {
		t.Fatalf("re-encoded object differs: got %v, want %v", gotObj, wantObj)
	}
}

func TestTranslationWithReplacements(t *testing.T) {
	tr := NewTranslation("chat.type.text")
	tr.AppendReplacement(NewText("alice"))
	tr.AppendReplacement(NewText("hello"))

	data, err := Encode(tr)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	decoded, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	got, ok := decoded.(*Translation)
	if !ok || got.Key != "chat.type.text" {
		t.Fatalf("decoded = %#v", decoded)
	}
	if len(got.With) != 2 {
		t.Fatalf("With = %d entries, want 2", len(got.With))
	}
}

func TestDecodeRejectsObjectWithNeitherTextNorTranslate(t *testing.T) {
	if _, err := Decode([]byte(`{"bold":true}`)); err == nil {
		t.Fatalf("Decode accepted an object with no text/translate key")
	}
}

func jsonEqual(a, b map[string]any) bool {
	aj, _ := json.Marshal(a)
	bj, _ := json.Marshal(b)
	var na, nb any
	json.Unmarshal(aj, &na)
	json.Unmarshal(bj, &nb)
	return deepEqual(na, nb)
}

func deepEqual(a, b any) bool {
	aj, _ := json.Marshal(a)
	bj, _ := json.Marshal(b)
	return string(aj) == string(bj)
}
