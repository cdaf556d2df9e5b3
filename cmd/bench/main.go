// bench - Humdrum corpus benchmark runner
//
// Parses every Humdrum file under a corpus directory and compares
// storage costs:
//   - Source bytes vs gzip vs zstandard
//   - Analyzed-document JSON export size
//
// Output: CSV and markdown summary
package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	"github.com/gregchapman-dev/humgraph/humdrum"
)

type CaseResult struct {
	Name        string
	SourceBytes int
	GzipBytes   int
	ZstdBytes   int
	JSONBytes   int
	Lines       int
	Tokens      int
	Spines      int
	Duration    string
	Valid       bool
}

func main() {
	corpusDir := findCorpus()
	if corpusDir == "" {
		fmt.Fprintln(os.Stderr, "Cannot find a corpus directory (testdata/corpus or a path argument)")
		os.Exit(1)
	}

	var files []string
	err := filepath.WalkDir(corpusDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && isHumdrumFile(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cannot walk %s: %v\n", corpusDir, err)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stderr, "Humdrum Benchmark Runner\n")
	fmt.Fprintf(os.Stderr, "========================\n")
	fmt.Fprintf(os.Stderr, "Corpus: %s (%d files)\n\n", corpusDir, len(files))

	var results []CaseResult
	var totalSource, totalGzip, totalZstd, totalJSON int

	for _, path := range files {
		source, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Skip %s: %v\n", path, err)
			continue
		}

		doc, err := humdrum.ParseReader(bytes.NewReader(source))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Skip %s: parse error: %v\n", path, err)
			continue
		}

		jsonData, err := doc.ExportJSON()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Skip %s: export error: %v\n", path, err)
			continue
		}

		spines, _ := doc.SpineCount()
		duration, _ := doc.TotalDuration()

		r := CaseResult{
			Name:        strings.TrimPrefix(path, corpusDir+string(os.PathSeparator)),
			SourceBytes: len(source),
			GzipBytes:   gzipSize(source),
			ZstdBytes:   zstdSize(source),
			JSONBytes:   len(jsonData),
			Lines:       doc.LineCount(),
			Tokens:      doc.TokenCount(),
			Spines:      spines,
			Duration:    duration.String(),
			Valid:       doc.IsValid(),
		}
		results = append(results, r)

		totalSource += r.SourceBytes
		totalGzip += r.GzipBytes
		totalZstd += r.ZstdBytes
		totalJSON += r.JSONBytes
	}

	csvPath := "bench_results.csv"
	csvFile, err := os.Create(csvPath)
	if err == nil {
		writeCSV(csvFile, results)
		csvFile.Close()
		fmt.Fprintf(os.Stderr, "CSV written to: %s\n", csvPath)
	}

	mdPath := "BENCH.md"
	mdFile, err := os.Create(mdPath)
	if err == nil {
		writeMarkdown(mdFile, results, totalSource, totalGzip, totalZstd, totalJSON, corpusDir)
		mdFile.Close()
		fmt.Fprintf(os.Stderr, "Markdown written to: %s\n", mdPath)
	}

	fmt.Printf("\n=== SUMMARY ===\n")
	fmt.Printf("Files:         %d\n", len(results))
	fmt.Printf("Source total:  %d bytes\n", totalSource)
	fmt.Printf("Gzip total:    %d bytes (%.1f%%)\n", totalGzip, pct(totalGzip, totalSource))
	fmt.Printf("Zstd total:    %d bytes (%.1f%%)\n", totalZstd, pct(totalZstd, totalSource))
	fmt.Printf("JSON total:    %d bytes (%.1fx source)\n", totalJSON, ratio(totalJSON, totalSource))
}

func pct(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}

func ratio(a, b int) float64 {
	if b == 0 {
		return 0
	}
	return float64(a) / float64(b)
}

func gzipSize(data []byte) int {
	var buf bytes.Buffer
	w, _ := gzip.NewWriterLevel(&buf, gzip.BestCompression)
	w.Write(data)
	w.Close()
	return buf.Len()
}

func zstdSize(data []byte) int {
	var buf bytes.Buffer
	w, _ := zstd.NewWriter(&buf, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	w.Write(data)
	w.Close()
	return buf.Len()
}

func isHumdrumFile(path string) bool {
	switch filepath.Ext(path) {
	case ".krn", ".hum", ".rec", ".mens":
		return true
	}
	return false
}

func findCorpus() string {
	if len(os.Args) > 1 {
		if _, err := os.Stat(os.Args[1]); err == nil {
			return os.Args[1]
		}
		return ""
	}
	paths := []string{
		"testdata/corpus",
		"../testdata/corpus",
		"../../testdata/corpus",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

func writeCSV(w io.Writer, results []CaseResult) {
	fmt.Fprintln(w, "name,source_bytes,gzip_bytes,zstd_bytes,json_bytes,lines,tokens,spines,duration,valid")
	for _, r := range results {
		fmt.Fprintf(w, "%s,%d,%d,%d,%d,%d,%d,%d,%s,%v\n",
			r.Name, r.SourceBytes, r.GzipBytes, r.ZstdBytes, r.JSONBytes,
			r.Lines, r.Tokens, r.Spines, r.Duration, r.Valid)
	}
}

func writeMarkdown(w io.Writer, results []CaseResult, totalSource, totalGzip, totalZstd, totalJSON int, corpus string) {
	fmt.Fprintf(w, "# Humdrum Corpus Benchmark\n\n")
	fmt.Fprintf(w, "**Corpus:** %s (%d files)  \n\n", corpus, len(results))

	fmt.Fprintf(w, "## Summary\n\n")
	fmt.Fprintf(w, "| Metric | Bytes | vs Source |\n")
	fmt.Fprintf(w, "|--------|-------|-----------|\n")
	fmt.Fprintf(w, "| **Source** | %d | 100%% |\n", totalSource)
	fmt.Fprintf(w, "| **Gzip** | %d | %.1f%% |\n", totalGzip, pct(totalGzip, totalSource))
	fmt.Fprintf(w, "| **Zstd** | %d | %.1f%% |\n", totalZstd, pct(totalZstd, totalSource))
	fmt.Fprintf(w, "| **JSON export** | %d | %.1fx |\n\n", totalJSON, ratio(totalJSON, totalSource))

	// Largest files compress best; surface the extremes.
	sorted := make([]CaseResult, len(results))
	copy(sorted, results)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].SourceBytes > sorted[j].SourceBytes
	})

	fmt.Fprintf(w, "## Largest Files\n\n")
	fmt.Fprintf(w, "| File | Source | Gzip | Zstd | Spines | Duration |\n")
	fmt.Fprintf(w, "|------|--------|------|------|--------|----------|\n")
	for i := 0; i < len(sorted) && i < 5; i++ {
		r := sorted[i]
		fmt.Fprintf(w, "| %s | %d | %d | %d | %d | %s |\n",
			truncateName(r.Name, 25), r.SourceBytes, r.GzipBytes, r.ZstdBytes, r.Spines, r.Duration)
	}

	var invalid []CaseResult
	for _, r := range results {
		if !r.Valid {
			invalid = append(invalid, r)
		}
	}
	fmt.Fprintf(w, "\n### Files With Diagnostics\n\n")
	if len(invalid) == 0 {
		fmt.Fprintf(w, "_None - every file parsed clean._\n\n")
	} else {
		for _, r := range invalid {
			fmt.Fprintf(w, "- %s\n", r.Name)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "## Detailed Results\n\n")
	fmt.Fprintf(w, "| File | Source | Gzip | Zstd | JSON | Lines | Tokens |\n")
	fmt.Fprintf(w, "|------|--------|------|------|------|-------|--------|\n")
	for _, r := range results {
		fmt.Fprintf(w, "| %s | %d | %d | %d | %d | %d | %d |\n",
			truncateName(r.Name, 25), r.SourceBytes, r.GzipBytes, r.ZstdBytes,
			r.JSONBytes, r.Lines, r.Tokens)
	}
}

func truncateName(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
