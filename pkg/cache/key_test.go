package cache

import (
	"net/url"
	"testing"
)

func TestKey_String(t *testing.T) {
	tests := []struct {
		name string
		key  Key
		want string
	}{
		{
			name: "no params",
			key:  Key{Endpoint: "browse"},
			want: "neo:browse",
		},
		{
			name: "params sorted",
			key: Key{
				Endpoint: "browse",
				Params:   url.Values{"size": {"20"}, "page": {"3"}},
			},
			want: "neo:browse:page=3:size=20",
		},
		{
			name: "feed",
			key: Key{
				Endpoint: "feed",
				Params:   url.Values{"start_date": {"2020-12-01"}},
			},
			want: "neo:feed:start_date=2020-12-01",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.key.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestKey_String_Deterministic(t *testing.T) {
	key := Key{
		Endpoint: "browse",
		Params:   url.Values{"a": {"1"}, "b": {"2"}, "c": {"3"}, "d": {"4"}},
	}

	first := key.String()
	for i := 0; i < 50; i++ {
		if got := key.String(); got != first {
			t.Fatalf("String() not deterministic: %q vs %q", got, first)
		}
	}
}
