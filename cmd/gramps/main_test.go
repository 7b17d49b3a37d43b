package main

import (
	"reflect"
	"testing"
)

func TestRewriteDirectLookupArgs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{
			name: "no args",
			in:   []string{"gramps"},
			want: []string{"gramps"},
		},
		{
			name: "gramps id first token",
			in:   []string{"gramps", "I0044"},
			want: []string{"gramps", "show", "I0044"},
		},
		{
			name: "gramps id after value flag",
			in:   []string{"gramps", "--server", "https://g.example", "F0001"},
			want: []string{"gramps", "--server", "https://g.example", "show", "F0001"},
		},
		{
			name: "gramps id after equals flag",
			in:   []string{"gramps", "--server=https://g.example", "E0012"},
			want: []string{"gramps", "--server=https://g.example", "show", "E0012"},
		},
		{
			name: "gramps id after bool flag",
			in:   []string{"gramps", "--pretty", "I0044"},
			want: []string{"gramps", "--pretty", "show", "I0044"},
		},
		{
			name: "gramps id after double dash",
			in:   []string{"gramps", "--", "N0003"},
			want: []string{"gramps", "--", "show", "N0003"},
		},
		{
			name: "normal subcommand not rewritten",
			in:   []string{"gramps", "show", "person", "I0044"},
			want: []string{"gramps", "show", "person", "I0044"},
		},
		{
			name: "value flag argument is not mistaken for an id",
			in:   []string{"gramps", "--format", "edn", "types"},
			want: []string{"gramps", "--format", "edn", "types"},
		},
		{
			name: "unknown command not rewritten",
			in:   []string{"gramps", "wat"},
			want: []string{"gramps", "wat"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := rewriteDirectLookupArgs(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("got %v want %v", got, tt.want)
			}
		})
	}
}
