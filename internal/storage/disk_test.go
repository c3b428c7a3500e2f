package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestDatabaseSize(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "studentgear.db")

	tests := []struct {
		name  string
		files map[string]string
		want  int64
	}{
		{name: "missing database", want: 0},
		{name: "main file only", files: map[string]string{"": "hello"}, want: 5},
		{name: "with wal and shm", files: map[string]string{"": "hello", "-wal": "ab", "-shm": "c"}, want: 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, suffix := range sidecarSuffixes {
				_ = os.Remove(db + suffix)
			}
			for suffix, content := range tt.files {
				if err := os.WriteFile(db+suffix, []byte(content), 0644); err != nil {
					t.Fatal(err)
				}
			}
			got, err := DatabaseSize(db)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("DatabaseSize() = %d, want %d", got, tt.want)
			}
		})
	}

	if got, err := DatabaseSize(""); err != nil || got != 0 {
		t.Errorf("empty path: got %d, %v", got, err)
	}
}

func TestDatabaseSize_LiveSQLite(t *testing.T) {
	db := filepath.Join(t.TempDir(), "data", "studentgear.db")
	s, err := NewSQLiteStorage(db)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	if err := s.CreateCart(context.Background(), "demo-token-61"); err != nil {
		t.Fatal(err)
	}
	got, err := DatabaseSize(db)
	if err != nil {
		t.Fatal(err)
	}
	if got == 0 {
		t.Error("expected a non-zero footprint for an open database")
	}
}
