// Package schema models the semantic-layer schema: a declarative
// description of one logical table or view (columns, grouping, ordering,
// limit, relations, source) decoded from a YAML document.
package schema

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Column is one projected column of a logical table or view. For views the
// name is a dotted "table.column" reference.
type Column struct {
	Name       string `yaml:"name" json:"name"`
	Expression string `yaml:"expression,omitempty" json:"expression,omitempty"`
	Alias      string `yaml:"alias,omitempty" json:"alias,omitempty"`
}

// Relation is one join edge of a view. From and To are dotted
// "table.column" references authored by the schema developer.
type Relation struct {
	From string `yaml:"from" json:"from"`
	To   string `yaml:"to" json:"to"`
}

// Schema is one semantic-layer schema document. Limit of zero means no
// limit.
type Schema struct {
	Name      string     `yaml:"name" json:"name"`
	View      bool       `yaml:"view,omitempty" json:"view,omitempty"`
	Source    *Source    `yaml:"source,omitempty" json:"source,omitempty"`
	Columns   []Column   `yaml:"columns,omitempty" json:"columns,omitempty"`
	Relations []Relation `yaml:"relations,omitempty" json:"relations,omitempty"`
	GroupBy   []string   `yaml:"group_by,omitempty" json:"group_by,omitempty"`
	OrderBy   []string   `yaml:"order_by,omitempty" json:"order_by,omitempty"`
	Limit     int        `yaml:"limit,omitempty" json:"limit,omitempty"`
}

// Parse decodes one YAML schema document and validates it.
func Parse(data []byte) (*Schema, error) {
	if err := validateDocument(data); err != nil {
		return nil, err
	}
	var s Schema
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode schema: %w", err)
	}
	if err := s.Check(); err != nil {
		return nil, err
	}
	return &s, nil
}

// LoadFile reads and parses one schema file.
func LoadFile(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Check verifies the semantic constraints the CUE definition cannot
// express: views join via dotted column references; plain tables carry no
// relations.
func (s *Schema) Check() error {
	if s.Name == "" {
		return fmt.Errorf("schema has no name")
	}
	if !s.View {
		if len(s.Relations) > 0 {
			return fmt.Errorf("schema %q: relations are only valid on views", s.Name)
		}
		return nil
	}
	for _, col := range s.Columns {
		if col.Expression == "" && !strings.Contains(col.Name, ".") {
			return fmt.Errorf("view %q: column %q must reference table.column", s.Name, col.Name)
		}
	}
	for _, rel := range s.Relations {
		if !strings.Contains(rel.From, ".") || !strings.Contains(rel.To, ".") {
			return fmt.Errorf("view %q: relation %q -> %q must use table.column references", s.Name, rel.From, rel.To)
		}
	}
	return nil
}

// Tables returns the distinct table names a view's columns and relations
// reference, in first-occurrence order. Empty for non-view schemas.
func (s *Schema) Tables() []string {
	if !s.View {
		return nil
	}
	var tables []string
	seen := map[string]bool{}
	add := func(ref string) {
		name, _, ok := strings.Cut(ref, ".")
		if !ok || seen[name] {
			return
		}
		seen[name] = true
		tables = append(tables, name)
	}
	for _, rel := range s.Relations {
		add(rel.From)
		add(rel.To)
	}
	for _, col := range s.Columns {
		add(col.Name)
	}
	return tables
}
