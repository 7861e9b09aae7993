package ctxparse

import "testing"

func TestJSONKeys_Nested(t *testing.T) {
	doc := `{
  "id": 7,
  "contact": {
    "email": "test@example.com",
    "phones": ["010-1234-5678"]
  },
  "note": "x"
}`
	got := JSONKeys([]byte(doc))
	want := map[int]string{2: "id", 4: "contact.email", 5: "contact.phones", 7: "note"}
	for line, key := range want {
		if got[line] != key {
			t.Fatalf("line %d: expected %q, got %q (all: %#v)", line, key, got[line], got)
		}
	}
	if _, ok := got[3]; ok {
		t.Fatalf("object-valued key should not map a scalar line: %#v", got)
	}
	if g := JSONKeys([]byte(`{"a":`)); g != nil {
		t.Fatalf("expected nil for invalid json, got: %#v", g)
	}
}

func TestYAMLKeys_ScalarsAndLists(t *testing.T) {
	y := "" +
		"user:\n" +
		"  name: kim\n" +
		"  contact:\n" +
		"    email: test@example.com\n" +
		"ips:\n" +
		"  - 10.0.0.1\n"
	got := YAMLKeys([]byte(y))
	want := map[int]string{2: "user.name", 4: "user.contact.email", 6: "ips"}
	for line, key := range want {
		if got[line] != key {
			t.Fatalf("line %d: expected %q, got %q (all: %#v)", line, key, got[line], got)
		}
	}
}

func TestKeyLines_ByExtension(t *testing.T) {
	if KeyLines("a.txt", []byte(`{"a":"b"}`)) != nil {
		t.Fatal("plain text files have no keys")
	}
	if got := KeyLines("conf/app.YML", []byte("db:\n  host: x\n")); got[2] != "db.host" {
		t.Fatalf("unexpected keys: %#v", got)
	}
	if got := KeyLines("a.json", []byte(`{"a":"b"}`)); got[1] != "a" {
		t.Fatalf("unexpected keys: %#v", got)
	}
}
