package tasks

import (
	"path/filepath"
	"testing"
)

func TestQueueDBPath(t *testing.T) {
	tests := []struct {
		catalogPath string
		expected    string
	}{
		{"./biblioteca.db", "biblioteca-tasks.db"},
		{"/var/lib/biblioteca/catalog.db", "/var/lib/biblioteca/catalog-tasks.db"},
		{"catalog.sqlite", "catalog-tasks.sqlite"},
	}

	for _, tt := range tests {
		t.Run(tt.catalogPath, func(t *testing.T) {
			got := queueDBPath(tt.catalogPath)
			if filepath.Clean(got) != filepath.Clean(tt.expected) {
				t.Errorf("queueDBPath(%q) = %q, expected %q", tt.catalogPath, got, tt.expected)
			}
		})
	}
}
