// cmd/tools/registry-updater/main.go
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"roadmap-workers/internal/common/validation"
	"roadmap-workers/pkg/registry"
)

const defaultRegistryPath = "configs/activity-registry.json"

var registryPath = defaultRegistryPath

func main() {
	addCmd := flag.NewFlagSet("add", flag.ExitOnError)
	updateCmd := flag.NewFlagSet("update", flag.ExitOnError)
	schemaCmd := flag.NewFlagSet("schema", flag.ExitOnError)
	listCmd := flag.NewFlagSet("list", flag.ExitOnError)
	validateCmd := flag.NewFlagSet("validate", flag.ExitOnError)

	idAdd := addCmd.String("id", "", "Activity ID (e.g., guidance.careers.rank)")
	displayName := addCmd.String("displayName", "", "Display Name (e.g., Rank Careers)")
	description := addCmd.String("description", "", "Description")
	category := addCmd.String("category", "guidance", "Category, also the worker directory under internal/workers")
	taskType := addCmd.String("taskType", "", "Zeebe task type (e.g., rank-careers)")
	version := addCmd.String("version", "1.0.0", "Version")
	implStatus := addCmd.String("status", "planned", "Implementation Status (planned, in-progress, completed, verified)")
	timeout := addCmd.String("timeout", "30s", "Job timeout")
	workflow := addCmd.String("workflow", "career-roadmap", "BPMN processes that use the activity, comma separated")
	tags := addCmd.String("tags", "", "Comma separated tags")

	idUpdate := updateCmd.String("id", "", "Activity ID or task type to update")
	field := updateCmd.String("field", "", "Field to update (status, version, timeout, retries, workflows, tags, errorCodes, ...)")
	value := updateCmd.String("value", "", "New value; list fields take a comma separated value")

	idSchema := schemaCmd.String("id", "", "Activity ID or task type")
	inputFile := schemaCmd.String("input", "", "JSON file with the input schema")
	outputFile := schemaCmd.String("output", "", "JSON file with the output schema")

	listWorkflow := listCmd.String("workflow", "", "Only activities used by this BPMN process")
	listTag := listCmd.String("tag", "", "Only activities carrying this tag")

	for _, fs := range []*flag.FlagSet{addCmd, updateCmd, schemaCmd, listCmd, validateCmd} {
		fs.StringVar(&registryPath, "path", defaultRegistryPath, "Path to registry file")
	}

	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "add":
		addCmd.Parse(os.Args[2:])
		if *idAdd == "" || *displayName == "" || *description == "" || *taskType == "" {
			fmt.Println("Error: id, displayName, description and taskType are required for add.")
			addCmd.Usage()
			os.Exit(1)
		}
		if err = validation.ValidateActivityNaming(*idAdd); err == nil {
			err = addActivity(&registry.Activity{
				ID:                   *idAdd,
				DisplayName:          *displayName,
				Description:          *description,
				Category:             *category,
				Version:              *version,
				TaskType:             *taskType,
				ImplementationStatus: *implStatus,
				InputSchema:          map[string]interface{}{"type": "object"},
				OutputSchema:         map[string]interface{}{"type": "object"},
				ErrorCodes:           []string{"INVALID_INPUT"},
				Timeout:              *timeout,
				Retries:              3,
				Workflows:            splitList(*workflow),
				Tags:                 splitList(*tags),
			})
		}
		if err == nil {
			fmt.Printf("Added activity: %s\n", *idAdd)
		}

	case "update":
		updateCmd.Parse(os.Args[2:])
		if *idUpdate == "" || *field == "" {
			fmt.Println("Error: id and field are required for update.")
			updateCmd.Usage()
			os.Exit(1)
		}
		err = modify(*idUpdate, func(a *registry.Activity) error { return setField(a, *field, *value) })
		if err == nil {
			fmt.Printf("Updated activity %s, field %s to %s\n", *idUpdate, *field, *value)
		}

	case "schema":
		schemaCmd.Parse(os.Args[2:])
		if *idSchema == "" || (*inputFile == "" && *outputFile == "") {
			fmt.Println("Error: id and at least one of input/output are required for schema.")
			schemaCmd.Usage()
			os.Exit(1)
		}
		err = modify(*idSchema, func(a *registry.Activity) error { return setSchemas(a, *inputFile, *outputFile) })
		if err == nil {
			fmt.Printf("Updated schemas of %s\n", *idSchema)
		}

	case "list":
		listCmd.Parse(os.Args[2:])
		err = listActivities(os.Stdout, *listWorkflow, *listTag)

	case "validate":
		validateCmd.Parse(os.Args[2:])
		err = validateRegistry()

	case "help":
		fallthrough
	default:
		help()
	}

	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func addActivity(activity *registry.Activity) error {
	reg, err := registry.LoadRegistry(registryPath)
	if err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to load registry: %w", err)
		}
		reg = &registry.ActivityRegistry{Version: "1.0.0"}
	}

	if _, exists := reg.FindByID(activity.ID); exists {
		return fmt.Errorf("activity with ID %s already exists", activity.ID)
	}
	if _, exists := reg.FindByTaskType(activity.TaskType); exists {
		return fmt.Errorf("task type %s is already registered", activity.TaskType)
	}

	reg.Activities = append(reg.Activities, *activity)
	return saveRegistry(reg, registryPath)
}

// modify loads the registry, applies fn to one activity and saves the result
// only if it still passes checkRegistry.
func modify(idOrTaskType string, fn func(*registry.Activity) error) error {
	reg, err := registry.LoadRegistry(registryPath)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}

	act, ok := reg.FindByID(idOrTaskType)
	if !ok {
		act, ok = reg.FindByTaskType(idOrTaskType)
	}
	if !ok {
		return fmt.Errorf("activity %s not found", idOrTaskType)
	}

	if err := fn(act); err != nil {
		return err
	}
	if err := checkRegistry(reg); err != nil {
		return fmt.Errorf("registry would become invalid: %w", err)
	}
	return saveRegistry(reg, registryPath)
}

func setField(a *registry.Activity, field, value string) error {
	switch field {
	case "status":
		a.ImplementationStatus = value
	case "version":
		a.Version = value
	case "displayName":
		a.DisplayName = value
	case "description":
		a.Description = value
	case "category":
		a.Category = value
	case "taskType":
		a.TaskType = value
	case "timeout":
		a.Timeout = value
	case "retries":
		retries, err := strconv.Atoi(value)
		if err != nil || retries < 0 {
			return fmt.Errorf("invalid retries value %q", value)
		}
		a.Retries = retries
	case "workflows":
		a.Workflows = splitList(value)
	case "tags":
		a.Tags = splitList(value)
	case "errorCodes":
		a.ErrorCodes = splitList(value)
	default:
		return fmt.Errorf("unknown field: %s", field)
	}
	return nil
}

func setSchemas(a *registry.Activity, inputFile, outputFile string) error {
	if inputFile != "" {
		schema, err := readSchema(inputFile)
		if err != nil {
			return err
		}
		a.InputSchema = schema
	}
	if outputFile != "" {
		schema, err := readSchema(outputFile)
		if err != nil {
			return err
		}
		a.OutputSchema = schema
	}
	return nil
}

func readSchema(path string) (map[string]interface{}, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var schema map[string]interface{}
	if err := json.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if _, err := validation.Compile(schema); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return schema, nil
}

func splitList(value string) []string {
	out := []string{}
	for _, v := range strings.Split(value, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func listActivities(w io.Writer, workflow, tag string) error {
	reg, err := registry.LoadRegistry(registryPath)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}
	for _, taskType := range reg.TaskTypes() {
		a, _ := reg.FindByTaskType(taskType)
		if !a.Matches(workflow, tag) {
			continue
		}
		fmt.Fprintf(w, "%-26s %-24s %-12s %-6s %s\n",
			a.ID, a.TaskType, a.ImplementationStatus, a.Timeout, strings.Join(a.Workflows, ","))
	}
	return nil
}

func validateRegistry() error {
	reg, err := registry.LoadRegistry(registryPath)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}
	if err := checkRegistry(reg); err != nil {
		return fmt.Errorf("registry validation failed: %w", err)
	}

	fmt.Printf("Registry validation passed. Found %d activities.\n", len(reg.Activities))
	return nil
}

// checkRegistry requires unique ids and task types, dotted ids, parseable
// timeouts and schemas that compile.
func checkRegistry(reg *registry.ActivityRegistry) error {
	if len(reg.Activities) == 0 {
		return fmt.Errorf("registry contains no activities")
	}

	ids := make(map[string]bool)
	taskTypes := make(map[string]bool)
	for _, activity := range reg.Activities {
		if activity.ID == "" {
			return fmt.Errorf("activity missing required field: ID")
		}
		if ids[activity.ID] {
			return fmt.Errorf("duplicate activity ID: %s", activity.ID)
		}
		ids[activity.ID] = true

		if err := validation.ValidateActivityNaming(activity.ID); err != nil {
			return err
		}
		if activity.DisplayName == "" {
			return fmt.Errorf("activity %s missing required field: DisplayName", activity.ID)
		}
		if activity.TaskType == "" {
			return fmt.Errorf("activity %s missing required field: TaskType", activity.ID)
		}
		if taskTypes[activity.TaskType] {
			return fmt.Errorf("duplicate task type: %s", activity.TaskType)
		}
		taskTypes[activity.TaskType] = true
		if activity.Category == "" {
			return fmt.Errorf("activity %s missing required field: Category", activity.ID)
		}
		if activity.Timeout != "" {
			if _, err := time.ParseDuration(activity.Timeout); err != nil {
				return fmt.Errorf("activity %s has invalid timeout %q", activity.ID, activity.Timeout)
			}
		}
		if _, err := validation.Compile(activity.InputSchema); err != nil {
			return fmt.Errorf("activity %s input schema: %w", activity.ID, err)
		}
		if _, err := validation.Compile(activity.OutputSchema); err != nil {
			return fmt.Errorf("activity %s output schema: %w", activity.ID, err)
		}
	}
	return nil
}

// saveRegistry stamps LastUpdated and writes the registry as indented JSON.
func saveRegistry(reg *registry.ActivityRegistry, path string) error {
	reg.LastUpdated = time.Now().UTC().Format(time.RFC3339)
	data, err := json.MarshalIndent(reg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal registry: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write registry file: %w", err)
	}
	return nil
}

func help() {
	fmt.Print(`
Usage: registry-updater <command> [flags]

Commands:
  add      Add a new activity to the registry
  update   Update one field of an activity
  schema   Replace an activity's input/output schema from JSON files
  list     List activities, optionally by workflow or tag
  validate Validate the registry file
  help     Show this help message

Examples:
  registry-updater add -id guidance.careers.rank -displayName "Rank Careers" -description "Ranks careers by value distance" -category guidance -taskType rank-careers
  registry-updater update -id guidance.careers.rank -field status -value completed
  registry-updater schema -id rank-careers -input rank-input.json
  registry-updater list -workflow career-roadmap -tag survey
  registry-updater validate -path configs/activity-registry.json

Use 'registry-updater <command> -h' for more information about a command.
`, "\n")
}
