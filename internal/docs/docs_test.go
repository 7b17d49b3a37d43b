package docs

import (
	"reflect"
	"strings"
	"testing"
)

func TestTopics(t *testing.T) {
	want := []string{"actions", "config", "roles", "tui"}
	if got := Topics(); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestGet(t *testing.T) {
	body, ok := Get(" Actions ")
	if !ok || !strings.Contains(body, "upEvent") {
		t.Fatalf("expected actions topic; ok=%v", ok)
	}
	for _, bad := range []string{"", "missing", "../docs"} {
		if _, ok := Get(bad); ok {
			t.Fatalf("expected %q to be rejected", bad)
		}
	}
}
