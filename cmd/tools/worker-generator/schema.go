package main

import (
	"fmt"
	"sort"
	"strings"
)

// schemaProperties extracts "properties" from a JSON schema object.
func schemaProperties(schema map[string]interface{}) map[string]interface{} {
	if props, ok := schema["properties"].(map[string]interface{}); ok {
		return props
	}
	return map[string]interface{}{}
}

func requiredSet(schema map[string]interface{}) map[string]bool {
	out := map[string]bool{}
	if list, ok := schema["required"].([]interface{}); ok {
		for _, v := range list {
			if s, ok := v.(string); ok {
				out[s] = true
			}
		}
	}
	return out
}

// goType maps a JSON schema property to a Go type.
func goType(prop map[string]interface{}) string {
	switch prop["type"] {
	case "string":
		return "string"
	case "integer":
		return "int"
	case "number":
		return "float64"
	case "boolean":
		return "bool"
	case "array":
		if items, ok := prop["items"].(map[string]interface{}); ok && items["type"] != nil {
			return "[]" + goType(items)
		}
		return "[]interface{}"
	case "object":
		if extra, ok := prop["additionalProperties"].(map[string]interface{}); ok && extra["type"] != nil {
			return "map[string]" + goType(extra)
		}
		return "map[string]interface{}"
	default:
		return "interface{}"
	}
}

// generateStructFields renders struct fields in property name order.
// Optional properties get omitempty.
func generateStructFields(schema map[string]interface{}) string {
	props := schemaProperties(schema)
	required := requiredSet(schema)

	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names)

	var fields []string
	for _, name := range names {
		details, ok := props[name].(map[string]interface{})
		if !ok {
			continue
		}
		tag := name
		if !required[name] {
			tag += ",omitempty"
		}
		fields = append(fields, fmt.Sprintf("\t%s %s `json:\"%s\"`", fieldName(name), goType(details), tag))
	}
	return strings.Join(fields, "\n")
}

// fieldName exports a camelCase or dashed property name.
func fieldName(prop string) string {
	parts := strings.FieldsFunc(prop, func(r rune) bool { return r == '-' || r == '_' })
	var b strings.Builder
	for _, p := range parts {
		b.WriteString(strings.ToUpper(p[:1]) + p[1:])
	}
	return b.String()
}
