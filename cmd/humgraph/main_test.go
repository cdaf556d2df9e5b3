package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

const sampleScore = `!!!OTL: Sample
**kern	**kern
=1	=1
4c	4e
4d	4f
2e	2g
==	==
*-	*-
`

func writeSample(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestValidateCommand(t *testing.T) {
	path := writeSample(t, "sample.krn", sampleScore)
	out, err := runCommand(t, "validate", path)
	if err != nil {
		t.Fatalf("validate: %v\n%s", err, out)
	}
	if !strings.Contains(out, "ok") {
		t.Errorf("output = %q, want ok", out)
	}
}

func TestValidateCommand_ReportsDiagnostics(t *testing.T) {
	path := writeSample(t, "broken.krn", "**kern\n4c\t4d\n*-\n")
	out, err := runCommand(t, "validate", path)
	if err == nil {
		t.Fatal("validate succeeded on a broken file")
	}
	if !strings.Contains(out, "field-count") {
		t.Errorf("output = %q, want a field-count diagnostic", out)
	}
}

func TestAnalyzeCommand(t *testing.T) {
	path := writeSample(t, "sample.krn", sampleScore)
	out, err := runCommand(t, "analyze", path)
	if err != nil {
		t.Fatalf("analyze: %v\n%s", err, out)
	}
	for _, want := range []string{"2 spine(s)", "title: Sample", "**kern", "Notes"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestJSONCommand(t *testing.T) {
	path := writeSample(t, "sample.krn", sampleScore)
	out, err := runCommand(t, "json", path)
	if err != nil {
		t.Fatalf("json: %v\n%s", err, out)
	}
	if !strings.Contains(out, `"spineCount": 2`) {
		t.Errorf("output missing spine count:\n%s", out)
	}
}

func TestRoundtripCommand(t *testing.T) {
	path := writeSample(t, "sample.krn", sampleScore)
	out, err := runCommand(t, "roundtrip", path)
	if err != nil {
		t.Fatalf("roundtrip: %v\n%s", err, out)
	}
	if !strings.Contains(out, "ok") {
		t.Errorf("output = %q, want ok", out)
	}
}

func TestOpenInput_Gzip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sample.krn.gz")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	gw := gzip.NewWriter(f)
	if _, err := gw.Write([]byte(sampleScore)); err != nil {
		t.Fatalf("write: %v", err)
	}
	gw.Close()
	f.Close()

	data, err := readInput(path)
	if err != nil {
		t.Fatalf("readInput: %v", err)
	}
	if string(data) != sampleScore {
		t.Errorf("decompressed content mismatch")
	}
}

func TestOpenInput_Zstd(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sample.krn.zst")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	zw, err := zstd.NewWriter(f)
	if err != nil {
		t.Fatalf("zstd.NewWriter: %v", err)
	}
	if _, err := zw.Write([]byte(sampleScore)); err != nil {
		t.Fatalf("write: %v", err)
	}
	zw.Close()
	f.Close()

	data, err := readInput(path)
	if err != nil {
		t.Fatalf("readInput: %v", err)
	}
	if string(data) != sampleScore {
		t.Errorf("decompressed content mismatch")
	}
}

func TestLoadConfig(t *testing.T) {
	path := writeSample(t, "config.toml", "[output]\ntable_style = \"ascii\"\ncolor = \"never\"\n")
	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Output.TableStyle != "ascii" || cfg.Output.Color != "never" {
		t.Errorf("config = %+v", cfg.Output)
	}
}

func TestLoadConfig_Missing(t *testing.T) {
	if _, err := loadConfig(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Error("loadConfig succeeded on a missing file")
	}
}

func TestNormalizeInput(t *testing.T) {
	if got := normalizeInput("**kern\r\n4c\r\n*-"); got != "**kern\n4c\n*-\n" {
		t.Errorf("normalizeInput = %q", got)
	}
	if got := normalizeInput(""); got != "" {
		t.Errorf("normalizeInput(empty) = %q", got)
	}
}
