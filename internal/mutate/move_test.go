package mutate

import (
	"reflect"
	"testing"
)

func TestMoveUp(t *testing.T) {
	a := []string{"a", "b", "c", "d"}

	for _, i := range []int{-1, 0, 4} {
		if got := MoveUp(a, i); !reflect.DeepEqual(got, a) {
			t.Fatalf("MoveUp(a, %d): expected unchanged; got %v", i, got)
		}
	}
	for i := 1; i < len(a); i++ {
		got := MoveUp(a, i)
		want := append([]string{}, a...)
		want[i-1], want[i] = want[i], want[i-1]
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("MoveUp(a, %d): got %v want %v", i, got, want)
		}
	}
	if !reflect.DeepEqual(a, []string{"a", "b", "c", "d"}) {
		t.Fatalf("input modified: %v", a)
	}
}

func TestMoveDown(t *testing.T) {
	a := []int{1, 2, 3, 4}

	for _, i := range []int{-1, len(a) - 1, len(a)} {
		if got := MoveDown(a, i); !reflect.DeepEqual(got, a) {
			t.Fatalf("MoveDown(a, %d): expected unchanged; got %v", i, got)
		}
	}
	for i := 0; i < len(a)-1; i++ {
		got := MoveDown(a, i)
		want := append([]int{}, a...)
		want[i], want[i+1] = want[i+1], want[i]
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("MoveDown(a, %d): got %v want %v", i, got, want)
		}
	}
	if !reflect.DeepEqual(a, []int{1, 2, 3, 4}) {
		t.Fatalf("input modified: %v", a)
	}
}

func TestMove_EmptyAndSingle(t *testing.T) {
	if got := MoveUp([]string{}, 0); len(got) != 0 {
		t.Fatalf("expected empty; got %v", got)
	}
	if got := MoveDown([]string{"x"}, 0); !reflect.DeepEqual(got, []string{"x"}) {
		t.Fatalf("expected [x]; got %v", got)
	}
}
