package perm

import "testing"

func TestCanEdit_ByRole(t *testing.T) {
	t.Setenv("GRAMPS_CAN_EDIT", "")

	for role, want := range map[string]bool{
		"":            false,
		"guest":       false,
		"member":      false,
		"contributor": false,
		"editor":      true,
		"Owner":       true,
		" admin ":     true,
		"superuser":   false,
	} {
		if got := CanEdit(role); got != want {
			t.Fatalf("CanEdit(%q) = %v; want %v", role, got, want)
		}
	}
}

func TestCanEdit_EnvOverride(t *testing.T) {
	t.Setenv("GRAMPS_CAN_EDIT", "1")
	if !CanEdit("guest") {
		t.Fatalf("expected override to grant edit")
	}
}

func TestParseRole(t *testing.T) {
	r, ok := ParseRole("Editor")
	if !ok || r != RoleEditor || r.String() != "editor" {
		t.Fatalf("unexpected role: %v %v %q", r, ok, r.String())
	}
	if _, ok := ParseRole("nope"); ok {
		t.Fatalf("expected unknown role")
	}
}
