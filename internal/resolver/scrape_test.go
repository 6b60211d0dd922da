package resolver

import (
	"strings"
	"testing"
)

func TestFindOGImage(t *testing.T) {
	tests := []struct {
		name  string
		html  string
		want  string
		found bool
	}{
		{
			name:  "present",
			html:  `<html><head><meta property="og:image" content="https://img.example.com/a.png"></head></html>`,
			want:  "https://img.example.com/a.png",
			found: true,
		},
		{
			name:  "among other metas",
			html:  `<html><head><meta property="og:title" content="repo"><meta property="og:image" content="/b.png"></head></html>`,
			want:  "/b.png",
			found: true,
		},
		{
			name:  "first wins",
			html:  `<meta property="og:image" content="/first.png"><meta property="og:image" content="/second.png">`,
			want:  "/first.png",
			found: true,
		},
		{
			name:  "absent",
			html:  `<html><head><title>repo</title></head><body><img src="/c.png"></body></html>`,
			found: false,
		},
		{
			name:  "empty content",
			html:  `<meta property="og:image" content="">`,
			found: false,
		},
		{
			name:  "not html at all",
			html:  `just some text`,
			found: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := findOGImage(strings.NewReader(tt.html))
			if found != tt.found {
				t.Fatalf("found = %v, want %v", found, tt.found)
			}
			if got != tt.want {
				t.Errorf("url = %q, want %q", got, tt.want)
			}
		})
	}
}
