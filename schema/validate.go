package schema

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"
)

// definition is the CUE shape every schema document must satisfy before it
// is decoded into Go types. Semantic rules that depend on the view flag
// live in Schema.Check.
const definition = `
#Connection: {
	host?:     string
	port?:     int & >0 & <65536
	database?: string
	user?:     string
	password?: string
	path?:     string
	...
}

#Source: {
	type:        string & !=""
	connection?: #Connection
	table?:      string
	view?:       string
}

#Schema: {
	name: string & !=""
	view?: bool
	source?: #Source
	columns?: [...{
		name:        string & !=""
		expression?: string
		alias?:      string
	}]
	relations?: [...{
		from: string & !=""
		to:   string & !=""
	}]
	group_by?: [...string]
	order_by?: [...string]
	limit?: int & >=0
}
`

// validateDocument checks one YAML schema document against the embedded CUE
// definition.
func validateDocument(data []byte) error {
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("decode schema: %w", err)
	}
	if doc == nil {
		return fmt.Errorf("empty schema document")
	}

	ctx := cuecontext.New()
	def := ctx.CompileString(definition).LookupPath(cue.ParsePath("#Schema"))
	if err := def.Err(); err != nil {
		return fmt.Errorf("compile schema definition: %w", err)
	}

	unified := def.Unify(ctx.Encode(doc))
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("invalid schema: %w", err)
	}
	return nil
}
