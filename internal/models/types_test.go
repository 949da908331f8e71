package models

import "testing"

func TestDedupKey(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		same bool
	}{
		{"trailing slash", "http://a.com/x", "http://a.com/x/", true},
		{"host casing", "http://A.com/x", "http://a.com/x", true},
		{"path casing", "http://a.com/X", "http://a.com/x", true},
		{"different path", "http://a.com/x", "http://a.com/y", false},
		{"different host", "http://a.com/x", "http://b.com/x", false},
		{"query ignored in path identity", "http://a.com/x?page=2", "http://a.com/x", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			keyA := SearchResult{URL: tt.a}.DedupKey()
			keyB := SearchResult{URL: tt.b}.DedupKey()
			if (keyA == keyB) != tt.same {
				t.Errorf("DedupKey(%q)=%q vs DedupKey(%q)=%q, same=%v want %v",
					tt.a, keyA, tt.b, keyB, keyA == keyB, tt.same)
			}
		})
	}
}

func TestDomainOf(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://www.example.com/page", "example.com"},
		{"http://Example.COM/x", "example.com"},
		{"https://sub.example.com/", "sub.example.com"},
		{"not a url", ""},
	}

	for _, tt := range tests {
		if got := DomainOf(tt.url); got != tt.want {
			t.Errorf("DomainOf(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}
