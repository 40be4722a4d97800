package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/datatap/semquery/builder"
	"github.com/datatap/semquery/schema"
)

// Error code constants - unified across all CLI commands.
const (
	ErrCodeGeneric      = "E001" // Generic/unknown error
	ErrCodeScanError    = "E002" // Directory scan error
	ErrCodeNoFiles      = "E003" // No schema files found
	ErrCodeParseFailed  = "E004" // Schema parse/validation failed
	ErrCodeNotFound     = "E005" // Path not found
	ErrCodeDuplicate    = "E006" // Duplicate dataset name
	ErrCodeUnknown      = "E007" // Unknown dataset
	ErrCodeBuildFailed  = "E008" // Query builder construction failed
	ErrCodeIncompatible = "E009" // Incompatible sources in a view
)

// LoadError represents an error that occurred during dataset loading.
type LoadError struct {
	Code    string
	Message string
	Path    string // schema file path if available
}

func (e *LoadError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s: %s", e.Path, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// DatasetLoader binds one loaded schema to its query builder. It implements
// builder.Loader, so view builders can recurse through it.
type DatasetLoader struct {
	schema *schema.Schema
	qb     builder.QueryBuilder
}

// Schema implements builder.Loader.
func (l *DatasetLoader) Schema() *schema.Schema { return l.schema }

// QueryBuilder implements builder.Loader.
func (l *DatasetLoader) QueryBuilder() builder.QueryBuilder { return l.qb }

// Registry holds every dataset loaded from a schema directory, keyed by
// dataset name.
type Registry struct {
	loaders map[string]*DatasetLoader
	names   []string // sorted
}

// Get returns the loader for a dataset name.
func (r *Registry) Get(name string) (*DatasetLoader, bool) {
	l, ok := r.loaders[name]
	return l, ok
}

// Names returns all dataset names in sorted order.
func (r *Registry) Names() []string { return r.names }

// LoadDatasets loads every schema file in dir and constructs a query builder
// per dataset: tables first, then views in dependency order. View builders
// reference the loaders of the tables they join, so a view may depend on
// another view as long as the graph stays acyclic.
func LoadDatasets(dir string) (*Registry, error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("schemas directory not found: %s", dir)}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing schemas directory: %v", err)}
	}
	if !info.IsDir() {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("not a directory: %s", dir)}
	}

	files, err := FindSchemaFiles(dir)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("error scanning directory: %v", err)}
	}
	if len(files) == 0 {
		return nil, &LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no schema files found in %s", dir)}
	}

	schemas := map[string]*schema.Schema{}
	for _, path := range files {
		s, err := schema.LoadFile(path)
		if err != nil {
			return nil, &LoadError{Code: ErrCodeParseFailed, Message: err.Error(), Path: path}
		}
		if _, ok := schemas[s.Name]; ok {
			return nil, &LoadError{Code: ErrCodeDuplicate, Message: fmt.Sprintf("duplicate dataset name %q", s.Name), Path: path}
		}
		schemas[s.Name] = s
	}

	reg := &Registry{loaders: map[string]*DatasetLoader{}}

	// Tables are leaves; their builders have no dependencies.
	var views []*schema.Schema
	for _, s := range schemas {
		if s.View {
			views = append(views, s)
			continue
		}
		reg.loaders[s.Name] = &DatasetLoader{schema: s, qb: builder.NewSQLQueryBuilder(s)}
	}

	// Resolve views in passes: a view is buildable once every dataset it
	// references has a loader. No progress with views remaining means a
	// missing dependency or a cross-view cycle.
	sort.Slice(views, func(i, j int) bool { return views[i].Name < views[j].Name })
	for len(views) > 0 {
		progressed := false
		var pending []*schema.Schema
		for _, s := range views {
			deps, ok := resolveDeps(s, reg)
			if !ok {
				pending = append(pending, s)
				continue
			}
			if err := checkViewSources(s, deps); err != nil {
				return nil, err
			}
			vb, err := builder.NewViewQueryBuilder(s, deps)
			if err != nil {
				return nil, &LoadError{Code: ErrCodeBuildFailed, Message: fmt.Sprintf("view %q: %v", s.Name, err)}
			}
			reg.loaders[s.Name] = &DatasetLoader{schema: s, qb: vb}
			progressed = true
		}
		if !progressed {
			return nil, unresolvableViewsError(pending, schemas)
		}
		views = pending
	}

	reg.names = make([]string, 0, len(reg.loaders))
	for name := range reg.loaders {
		reg.names = append(reg.names, name)
	}
	sort.Strings(reg.names)
	return reg, nil
}

// resolveDeps collects the loaders for every dataset a view references.
// ok is false while any referenced dataset has no loader yet.
func resolveDeps(s *schema.Schema, reg *Registry) (map[string]builder.Loader, bool) {
	deps := map[string]builder.Loader{}
	for _, table := range s.Tables() {
		l, ok := reg.loaders[table]
		if !ok {
			return nil, false
		}
		deps[table] = l
	}
	return deps, true
}

// checkViewSources rejects views whose dependencies span incompatible
// sources: mixing a remote database with a different one, or remote with
// another host entirely.
func checkViewSources(s *schema.Schema, deps map[string]builder.Loader) error {
	var sources []*schema.Source
	for _, l := range deps {
		if src := l.Schema().Source; src != nil {
			sources = append(sources, src)
		}
	}
	if !builder.CheckCompatibleSources(sources) {
		return &LoadError{Code: ErrCodeIncompatible, Message: fmt.Sprintf("view %q references datasets with incompatible sources", s.Name)}
	}
	return nil
}

// unresolvableViewsError distinguishes a missing dependency from a
// cross-view cycle once resolution stalls.
func unresolvableViewsError(pending []*schema.Schema, schemas map[string]*schema.Schema) error {
	for _, s := range pending {
		for _, table := range s.Tables() {
			if _, ok := schemas[table]; !ok {
				return &LoadError{Code: ErrCodeBuildFailed, Message: fmt.Sprintf("view %q references unknown dataset %q", s.Name, table)}
			}
		}
	}
	names := make([]string, len(pending))
	for i, s := range pending {
		names[i] = s.Name
	}
	return &LoadError{Code: ErrCodeBuildFailed, Message: fmt.Sprintf("cyclic view dependencies among %v", names)}
}

// FindSchemaFiles walks the directory and returns all .yaml/.yml file paths
// in sorted order.
func FindSchemaFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		switch filepath.Ext(path) {
		case ".yaml", ".yml":
			files = append(files, path)
		}
		return nil
	})
	sort.Strings(files)
	return files, err
}
