package app

import "testing"

func TestCleanPath(t *testing.T) {
	tests := []struct{ in, want string }{
		{"", "/"},
		{"users", "/users"},
		{"/api//v1/", "/api/v1"},
		{"/", "/"},
	}
	for _, tt := range tests {
		if got := cleanPath(tt.in); got != tt.want {
			t.Errorf("cleanPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestJoinPath(t *testing.T) {
	tests := []struct{ prefix, p, want string }{
		{"/api", "/v1", "/api/v1"},
		{"/api/", "v1", "/api/v1"},
		{"/", "users", "/users"},
		{"/admin", "/", "/admin"},
		{"", "/users", "/users"},
	}
	for _, tt := range tests {
		if got := joinPath(tt.prefix, tt.p); got != tt.want {
			t.Errorf("joinPath(%q, %q) = %q, want %q", tt.prefix, tt.p, got, tt.want)
		}
	}
}
