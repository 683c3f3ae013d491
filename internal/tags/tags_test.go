package tags

import (
	"reflect"
	"testing"
)

func TestCanonify(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{
			name: "sorted case-insensitively",
			in:   []string{"zebra", "Apple", "mango"},
			want: []string{"Apple", "mango", "zebra"},
		},
		{
			name: "case-insensitive dedupe keeps first spelling",
			in:   []string{"Verb", "verb", "VERB"},
			want: []string{"Verb"},
		},
		{
			name: "whitespace trimmed and empties dropped",
			in:   []string{" spaced ", "", "  "},
			want: []string{"spaced"},
		},
		{
			name: "nil input",
			in:   nil,
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Canonify(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSplitJoin(t *testing.T) {
	split := Split("  alpha beta  gamma ")
	want := []string{"alpha", "beta", "gamma"}
	if !reflect.DeepEqual(split, want) {
		t.Errorf("Split: got %v, want %v", split, want)
	}

	if joined := Join(want); joined != "alpha beta gamma" {
		t.Errorf("Join: got %q", joined)
	}
}
