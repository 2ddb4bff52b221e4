// cmd/tools/worker-generator/main.go
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"go/format"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/template"
	"time"

	"roadmap-workers/internal/common/validation"
	"roadmap-workers/pkg/registry"
)

// WorkerData holds data for templates
type WorkerData struct {
	Name            string
	PackageName     string
	TaskType        string
	Description     string
	TimeoutExpr     string
	UsesCatalog     bool
	InputFields     string
	OutputFields    string
	InputSchemaJSON string
}

func main() {
	activity := flag.String("activity", "", "Activity ID or task type from the registry (e.g. guidance.careers.rank)")
	outputDir := flag.String("output", "./internal/workers/", "Root directory for generated workers")
	registryPath := flag.String("registry", "configs/activity-registry.json", "Path to the activity registry JSON file")
	usesCatalog := flag.Bool("catalog", true, "Wire a catalog.Loader into the handler")
	force := flag.Bool("force", false, "Overwrite existing files")
	flag.Parse()

	if *activity == "" {
		fmt.Println("Usage: worker-generator -activity <id|task-type> [-output <dir>] [-registry <path>] [-catalog=false] [-force]")
		fmt.Println("\nExample:")
		fmt.Println("  go run ./cmd/tools/worker-generator -activity guidance.careers.rank")
		os.Exit(1)
	}

	reg, err := registry.LoadRegistry(*registryPath)
	if err != nil {
		fmt.Printf("Error loading registry from %s: %v\n", *registryPath, err)
		os.Exit(1)
	}

	act, ok := reg.FindByID(*activity)
	if !ok {
		act, ok = reg.FindByTaskType(*activity)
	}
	if !ok {
		fmt.Printf("Activity '%s' not found in registry %s\n", *activity, *registryPath)
		os.Exit(1)
	}

	data, err := newWorkerData(act, *usesCatalog)
	if err != nil {
		fmt.Printf("Error preparing %s: %v\n", act.ID, err)
		os.Exit(1)
	}

	workerDir := filepath.Join(*outputDir, act.Category, act.TaskType)
	files, err := generate(workerDir, data, *force)
	for _, f := range files {
		fmt.Printf("✓ Generated %s\n", f)
	}
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("\n✅ Worker scaffold generated at: %s\n", workerDir)
	fmt.Printf("\nNext steps:\n")
	fmt.Printf("  1. Implement Execute in handler.go\n")
	fmt.Printf("  2. Add cases to handler_test.go\n")
	fmt.Printf("  3. Register the handler in cmd/worker-manager/workers.go\n")
	fmt.Printf("  4. Add a workers.%s section to configs/config.yaml\n", act.TaskType)
}

func newWorkerData(act *registry.Activity, usesCatalog bool) (*WorkerData, error) {
	if _, err := validation.Compile(act.InputSchema); err != nil {
		return nil, fmt.Errorf("input schema: %w", err)
	}
	schemaJSON, err := json.MarshalIndent(act.InputSchema, "", "  ")
	if err != nil {
		return nil, err
	}
	if bytes.ContainsRune(schemaJSON, '`') {
		return nil, fmt.Errorf("input schema contains a backtick")
	}

	return &WorkerData{
		Name:            act.DisplayName,
		PackageName:     packageName(act.TaskType),
		TaskType:        act.TaskType,
		Description:     act.Description,
		TimeoutExpr:     timeoutExpr(act.Timeout),
		UsesCatalog:     usesCatalog,
		InputFields:     generateStructFields(act.InputSchema),
		OutputFields:    generateStructFields(act.OutputSchema),
		InputSchemaJSON: string(schemaJSON),
	}, nil
}

// generate renders every template into dir and gofmts the result.
// Existing files are left alone unless force is set.
func generate(dir string, data *WorkerData, force bool) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create %s: %w", dir, err)
	}

	templates := map[string]string{
		"config.go":       configTemplate,
		"models.go":       modelsTemplate,
		"handler.go":      handlerTemplate,
		"handler_test.go": testTemplate,
	}
	names := make([]string, 0, len(templates))
	for name := range templates {
		names = append(names, name)
	}
	sort.Strings(names)

	var written []string
	for _, name := range names {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil && !force {
			return written, fmt.Errorf("%s exists, use -force to overwrite", path)
		}

		src, err := render(name, templates[name], data)
		if err != nil {
			return written, err
		}
		if err := os.WriteFile(path, src, 0o644); err != nil {
			return written, fmt.Errorf("write %s: %w", path, err)
		}
		written = append(written, path)
	}
	return written, nil
}

func render(name, tmplStr string, data *WorkerData) ([]byte, error) {
	tmpl, err := template.New(name).Parse(tmplStr)
	if err != nil {
		return nil, fmt.Errorf("parse template %s: %w", name, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("execute template %s: %w", name, err)
	}
	src, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("format %s: %w", name, err)
	}
	return src, nil
}

// packageName follows the worker directory convention: task type without dashes.
func packageName(taskType string) string {
	return strings.ReplaceAll(taskType, "-", "")
}

// timeoutExpr turns a registry timeout such as "30s" into Go source.
func timeoutExpr(timeout string) string {
	d, err := time.ParseDuration(timeout)
	if err != nil || d <= 0 {
		return "30 * time.Second"
	}
	if d%time.Second == 0 {
		return fmt.Sprintf("%d * time.Second", d/time.Second)
	}
	return fmt.Sprintf("%d * time.Millisecond", d/time.Millisecond)
}
