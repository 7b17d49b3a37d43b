package model

import "testing"

func TestPersistable_DropsDerivedKeysAndSetsClass(t *testing.T) {
	rec := Record{
		"handle":    "H1",
		"_class":    "Whatever",
		"extended":  map[string]any{"events": []any{}},
		"profile":   map[string]any{"name_given": "Ann"},
		"backlinks": map[string]any{},
		"gender":    float64(1),
	}

	out := Persistable(rec, TypePerson)
	for _, k := range DerivedKeys {
		if _, ok := out[k]; ok {
			t.Fatalf("expected %q to be dropped; got %v", k, out)
		}
	}
	if got := out.Class(); got != "Person" {
		t.Fatalf("expected _class Person; got %q", got)
	}
	if out.Handle() != "H1" || out["gender"] != float64(1) {
		t.Fatalf("expected other fields kept; got %v", out)
	}

	// Source record is untouched.
	if _, ok := rec["extended"]; !ok || rec.Class() != "Whatever" {
		t.Fatalf("expected source record unchanged; got %v", rec)
	}
}

func TestObjectTypeTables(t *testing.T) {
	cases := []struct {
		typ      ObjectType
		endpoint string
		title    string
		class    string
	}{
		{TypePerson, "people", "Edit Person", "Person"},
		{TypeFamily, "families", "Edit Family", "Family"},
		{TypeRepository, "repositories", "Edit Repository", "Repository"},
		{TypeMedia, "media", "Edit Media Object", "Media"},
		{TypeNote, "notes", "Edit Note", "Note"},
	}
	for _, tc := range cases {
		if got := tc.typ.Endpoint(); got != tc.endpoint {
			t.Fatalf("%s endpoint: got %q want %q", tc.typ, got, tc.endpoint)
		}
		if got := tc.typ.EditTitle(); got != tc.title {
			t.Fatalf("%s title: got %q want %q", tc.typ, got, tc.title)
		}
		if got := tc.typ.ClassName(); got != tc.class {
			t.Fatalf("%s class: got %q want %q", tc.typ, got, tc.class)
		}
	}

	unknown := ObjectType("tag")
	if unknown.Endpoint() != "" {
		t.Fatalf("expected unknown type to have no endpoint")
	}
	if unknown.EditTitle() != GenericEditTitle {
		t.Fatalf("expected generic edit title; got %q", unknown.EditTitle())
	}
}

func TestParseObjectType(t *testing.T) {
	for in, want := range map[string]ObjectType{
		"person":  TypePerson,
		"People":  TypePerson,
		" notes ": TypeNote,
		"media":   TypeMedia,
	} {
		got, ok := ParseObjectType(in)
		if !ok || got != want {
			t.Fatalf("ParseObjectType(%q) = %q,%v; want %q", in, got, ok, want)
		}
	}
	if _, ok := ParseObjectType("tag"); ok {
		t.Fatalf("expected tag to be rejected")
	}
}

func TestObjectTypeForGrampsID(t *testing.T) {
	if got, ok := ObjectTypeForGrampsID("I0044"); !ok || got != TypePerson {
		t.Fatalf("expected person; got %q,%v", got, ok)
	}
	if got, ok := ObjectTypeForGrampsID("O0001"); !ok || got != TypeMedia {
		t.Fatalf("expected media; got %q,%v", got, ok)
	}
	for _, bad := range []string{"", "I", "Ixyz", "Z0001", "item-abc"} {
		if _, ok := ObjectTypeForGrampsID(bad); ok {
			t.Fatalf("expected %q to be rejected", bad)
		}
	}
}

func TestFetchAndWritePaths(t *testing.T) {
	got := FetchPath(TypePerson, "I0044")
	want := "/api/people/?backlinks=true&extend=all&gramps_id=I0044&profile=all"
	if got != want {
		t.Fatalf("FetchPath: got %q want %q", got, want)
	}
	if FetchPath(TypePerson, "  ") != "" {
		t.Fatalf("expected empty path for empty id")
	}
	if FetchPath(ObjectType(""), "I0044") != "" {
		t.Fatalf("expected empty path for unknown type")
	}
	if got := WritePath(TypeFamily, "abc123"); got != "/api/families/abc123" {
		t.Fatalf("WritePath: got %q", got)
	}
}

func TestIndexOf(t *testing.T) {
	refs := []any{
		map[string]any{"ref": "E1"},
		map[string]any{"ref": "E2"},
	}
	if got := IndexOf(refs, "E2", RefOf); got != 1 {
		t.Fatalf("expected 1; got %d", got)
	}
	if got := IndexOf(refs, "E9", RefOf); got != -1 {
		t.Fatalf("expected -1; got %d", got)
	}
	handles := []any{"C1", "C2"}
	if got := IndexOf(handles, "C1", HandleOf); got != 0 {
		t.Fatalf("expected 0; got %d", got)
	}
}

func TestRecordTitle(t *testing.T) {
	p := Record{"gramps_id": "I1", "profile": map[string]any{"name_given": "Ann", "name_surname": "Lee"}}
	if got := p.Title(TypePerson); got != "Ann Lee" {
		t.Fatalf("got %q", got)
	}
	f := Record{"gramps_id": "F1", "profile": map[string]any{
		"father": map[string]any{"name_given": "Bo", "name_surname": "Lee"},
	}}
	if got := f.Title(TypeFamily); got != "Bo Lee" {
		t.Fatalf("got %q", got)
	}
	n := Record{"gramps_id": "N7"}
	if got := n.Title(TypeNote); got != "N7" {
		t.Fatalf("got %q", got)
	}
}
