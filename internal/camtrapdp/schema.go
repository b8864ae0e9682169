package camtrapdp

import (
	"embed"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

//go:embed schemas/*.json
var schemaFS embed.FS

// SchemaField is one field descriptor of a Frictionless Table Schema.
type SchemaField struct {
	Name   string `json:"name"`
	Type   string `json:"type"`
	Format string `json:"format,omitempty"`
}

// ResourceSchema is the embedded Camtrap-DP table schema for one resource.
type ResourceSchema struct {
	Name       string        `json:"name"`
	PrimaryKey string        `json:"primaryKey,omitempty"`
	Fields     []SchemaField `json:"fields"`
}

// LoadSchema reads the embedded schema for a resource name
// (deployments, media or observations).
func LoadSchema(resource string) (*ResourceSchema, error) {
	raw, err := schemaFS.ReadFile("schemas/" + resource + ".json")
	if err != nil {
		return nil, fmt.Errorf("no embedded schema for resource %q: %w", resource, err)
	}
	var s ResourceSchema
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("embedded schema %s: %w", resource, err)
	}
	return &s, nil
}

// Align reindexes a built table to the schema's exact field list: schema
// fields the table never produced come back as all-null columns, columns
// are reordered to schema order, and columns the schema does not declare
// are dropped. The input table is not modified.
func (s *ResourceSchema) Align(t *Table) *Table {
	out := NewTable(t.Name)
	for _, f := range s.Fields {
		if col := t.Column(f.Name); col != nil {
			out.AddColumn(col.Name, FieldType(f.Type), col.Values)
			continue
		}
		out.AddColumn(f.Name, FieldType(f.Type), make([]string, t.Len()))
	}
	return out
}

// FieldsFor returns the schema field descriptors matching an aligned
// table, in column order.
func (s *ResourceSchema) FieldsFor(t *Table) []SchemaField {
	byName := make(map[string]SchemaField, len(s.Fields))
	for _, f := range s.Fields {
		byName[f.Name] = f
	}
	fields := make([]SchemaField, 0, len(t.Columns))
	for _, col := range t.Columns {
		if f, ok := byName[col.Name]; ok {
			fields = append(fields, f)
			continue
		}
		f := SchemaField{Name: col.Name, Type: string(InferType(col.Values))}
		if f.Type == string(TypeDatetime) {
			f.Format = "%Y-%m-%dT%H:%M:%S%z"
		}
		fields = append(fields, f)
	}
	return fields
}

// InferSchema builds a minimal schema from a table's own columns, for
// resources that have no embedded schema to align against.
func InferSchema(t *Table) *ResourceSchema {
	s := &ResourceSchema{Name: t.Name}
	for _, col := range t.Columns {
		s.Fields = append(s.Fields, SchemaField{Name: col.Name, Type: string(InferType(col.Values))})
	}
	return s
}

// InferType guesses a Table Schema type from string values. Empty cells
// are nulls and do not vote; an all-empty column stays string.
func InferType(values []string) FieldType {
	sawAny := false
	isInt, isNum, isBool, isDate := true, true, true, true
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		sawAny = true
		if _, err := strconv.ParseInt(v, 10, 64); err != nil {
			isInt = false
		}
		if _, err := strconv.ParseFloat(v, 64); err != nil {
			isNum = false
		}
		if v != "true" && v != "false" {
			isBool = false
		}
		if len(v) != 20 || v[4] != '-' || v[10] != 'T' || v[19] != 'Z' {
			isDate = false
		}
	}
	if !sawAny {
		return TypeString
	}
	switch {
	case isBool:
		return TypeBoolean
	case isInt:
		return TypeInteger
	case isNum:
		return TypeNumber
	case isDate:
		return TypeDatetime
	default:
		return TypeString
	}
}
