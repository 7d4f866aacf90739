package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"euringserver/recognition"
	"euringserver/scheme"
)

// lineResult итог распознавания одной строки файла для отчета
type lineResult struct {
	Line            int     `json:"line"`
	Input           string  `json:"input"`
	DetectedVersion string  `json:"detected_version,omitempty"`
	Confidence      float64 `json:"confidence"`
	Uncertainty     string  `json:"uncertainty,omitempty"`
	Error           string  `json:"error,omitempty"`
}

func main() {
	var (
		inputPath  = flag.String("input", "", "файл со строками EURING, по одной на строку")
		schemesDir = flag.String("schemes", "", "каталог дескрипторов версий; пусто = встроенные версии")
		sameHint   = flag.String("same-version", "auto", "подсказка однородности батча: auto, yes, no")
		jsonOut    = flag.Bool("json", false, "вывод отчета в JSON")
		timeout    = flag.Duration("timeout", 5*time.Minute, "таймаут обработки файла")
	)
	flag.Parse()

	if *inputPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	engine := recognition.NewEngine(versionSource(*schemesDir))

	records, err := readLines(*inputPath)
	if err != nil {
		log.Fatalf("Ошибка чтения файла: %v", err)
	}
	if len(records) == 0 {
		log.Fatalf("Файл %s не содержит строк", *inputPath)
	}

	var hint *bool
	switch *sameHint {
	case "yes":
		v := true
		hint = &v
	case "no":
		v := false
		hint = &v
	case "auto":
	default:
		log.Fatalf("Недопустимое значение -same-version: %s", *sameHint)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	start := time.Now()
	batch, err := engine.RecognizeBatch(ctx, records, hint)
	if err != nil {
		log.Fatalf("Ошибка распознавания: %v", err)
	}

	results := make([]lineResult, len(batch.Results))
	for i, r := range batch.Results {
		line := lineResult{Line: i + 1, Input: records[i]}
		if r == nil || !r.Processed {
			line.Error = "not processed"
		} else {
			line.DetectedVersion = r.DetectedVersion.ID
			line.Confidence = r.Confidence
			if r.Breakdown != nil && r.Breakdown.Uncertainty != nil {
				line.Uncertainty = string(r.Breakdown.Uncertainty.Level)
			}
		}
		results[i] = line
	}

	if *jsonOut {
		report := map[string]interface{}{
			"file":               *inputPath,
			"total":              len(records),
			"strategy":           batch.Summary.Strategy,
			"same_version":       batch.SameVersionDetected,
			"processing_time_ms": float64(time.Since(start).Microseconds()) / 1000.0,
			"results":            results,
		}
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(report); err != nil {
			log.Fatalf("Ошибка вывода JSON: %v", err)
		}
		return
	}

	fmt.Printf("Файл: %s, строк: %d, стратегия: %s\n", *inputPath, len(records), batch.Summary.Strategy)
	for _, r := range results {
		if r.Error != "" {
			fmt.Printf("%4d  ОШИБКА: %s\n", r.Line, r.Error)
			continue
		}
		fmt.Printf("%4d  %-12s  %.3f  %s\n", r.Line, r.DetectedVersion, r.Confidence, r.Uncertainty)
	}
	fmt.Printf("Итого: %v, однородный батч: %v\n", time.Since(start), batch.SameVersionDetected)
}

// versionSource источник версий: каталог дескрипторов или встроенный набор
func versionSource(schemesDir string) recognition.VersionSource {
	if schemesDir == "" {
		return recognition.VersionSourceFunc(func() ([]*scheme.Version, error) {
			return scheme.BuiltinVersions(), nil
		})
	}
	return recognition.VersionSourceFunc(func() ([]*scheme.Version, error) {
		repo, err := scheme.NewRepository(schemesDir)
		if err != nil {
			return nil, err
		}
		versions, _, err := scheme.NewLoader(repo).LoadValidated()
		return versions, err
	})
}

// readLines читает непустые строки файла
func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines, scanner.Err()
}
