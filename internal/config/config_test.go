package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/florianpollitt/radical/internal/sat"
)

func TestLoad_Defaults(t *testing.T) {
	v := New()
	opts, err := Load(v)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if opts != sat.DefaultOptions {
		t.Errorf("Load() = %+v, want %+v", opts, sat.DefaultOptions)
	}
}

func TestLoad_RejectsInvalidCombination(t *testing.T) {
	v := New()
	v.Set("multitrail", true)
	v.Set("chrono", int(sat.ChronoOff))

	if _, err := Load(v); err == nil {
		t.Errorf("Load accepted multitrail without chrono, want an error")
	}
}

func TestReadFile_MergesYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "radical.yaml")
	content := "chrono: 1\nmultitrail: true\nlrat: true\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	v := New()
	if err := ReadFile(v, path); err != nil {
		t.Fatalf("ReadFile: %v", err)
	}

	opts, err := Load(v)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if opts.Chrono != sat.Chrono1 {
		t.Errorf("Chrono = %v, want Chrono1", opts.Chrono)
	}
	if !opts.Multitrail || !opts.LRAT {
		t.Errorf("opts = %+v, want Multitrail and LRAT set", opts)
	}
}

func TestReadFile_MissingFileIsNotAnError(t *testing.T) {
	v := New()
	if err := ReadFile(v, filepath.Join(t.TempDir(), "missing.yaml")); err != nil {
		t.Errorf("ReadFile on a missing file returned %v, want nil", err)
	}
}
