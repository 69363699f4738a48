package wordset

import (
	"strings"
	"testing"
)

func TestSum(t *testing.T) {
	tests := []struct {
		name string
		word string
		want uint64
	}{
		{"empty", "", 5381},
		{"single", "a", 5381*33 + 'a'},
		{"folded", "A", 5381*33 + 'a'},
		{"two", "ab", (5381*33+'a')*33 + 'b'},
		{"apostrophe", "'", 5381*33 + '\''},
		{"wraps", "pneumonoultramicroscopicsilicovolcanoconiosis", 10683586081689060789},
		{"wraps folded", "PNEUMONOultramicroscopicsilicovolcanoconiosis", 10683586081689060789},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Sum(tt.word); got != tt.want {
				t.Errorf("Sum(%q) = %d, want %d", tt.word, got, tt.want)
			}
		})
	}
}

func TestHashRangeAndCase(t *testing.T) {
	for _, buckets := range []int{1, 2, 97, DefaultBuckets} {
		ws, err := New(Config{Buckets: buckets})
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}
		if got := ws.Hash(""); got != 5381%buckets {
			t.Errorf("Hash(\"\") = %d, want %d", got, 5381%buckets)
		}
		for _, w := range []string{"pneumonoultramicroscopicsilicovolcanoconiosis", "Hello", "x", "it's", strings.Repeat("Zz", 500)} {
			h := ws.Hash(w)
			if h < 0 || h >= buckets {
				t.Errorf("Hash(%q) = %d, out of [0, %d)", w, h, buckets)
			}
			if up, low := ws.Hash(strings.ToUpper(w)), ws.Hash(strings.ToLower(w)); up != h || low != h {
				t.Errorf("Hash(%q) not case invariant: %d, %d, %d", w, h, up, low)
			}
		}
	}
}

func TestEqualFold(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"", "", true},
		{"abc", "ABC", true},
		{"abc", "abd", false},
		{"abc", "abcd", false},
		{"[", "{", false},
		{"é", "É", false},
	}

	for _, tt := range tests {
		if got := equalFold(tt.a, tt.b); got != tt.want {
			t.Errorf("equalFold(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}
