// Package tooldispatch implements the Tool Dispatcher (spec.md §4.8): a
// flat registry of named tools, each validating its own argument shape and
// invoking the Query Surface or Section Editor, mirroring the teacher's
// "single source of truth" registry in internal/mcp/tools.go
// (GenerateToolSchemas/BuildCLIArgs driven off one table) but adapted so
// one table drives tools/list schema generation, JSON-RPC tools/call
// dispatch, and argument validation directly against the Query
// Surface/Editor instead of shelling out to a CLI subprocess.
package tooldispatch

import (
	"fmt"

	"github.com/aidanlsb/docsectiond/internal/apperr"
	"github.com/aidanlsb/docsectiond/internal/project"
	"github.com/aidanlsb/docsectiond/internal/query"
	"github.com/aidanlsb/docsectiond/internal/sectionedit"
)

// Tool is one entry of the registry: a name, a JSON-schema-shaped argument
// description for tools/list, and the handler that validates arguments and
// invokes the underlying operation.
type Tool struct {
	Name        string
	Description string
	InputSchema InputSchema
	Handle      func(args map[string]any) (any, error)
}

// InputSchema is the subset of JSON Schema the tool protocol needs to
// describe a tool's arguments object.
type InputSchema struct {
	Type       string                 `json:"type"`
	Properties map[string]Property    `json:"properties,omitempty"`
	Required   []string               `json:"required,omitempty"`
}

// Property describes one argument.
type Property struct {
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
}

// Dispatcher holds the tool registry and routes tools/call invocations.
type Dispatcher struct {
	tools []Tool
	byName map[string]*Tool
}

// New builds the Dispatcher's registry over surface (Query Surface) and
// editor (Section Editor). index is needed directly for refresh_index.
func New(index *project.Index, surface *query.Surface, editor *sectionedit.Editor) *Dispatcher {
	d := &Dispatcher{byName: map[string]*Tool{}}
	d.register(buildTools(index, surface, editor))
	return d
}

func (d *Dispatcher) register(tools []Tool) {
	for i := range tools {
		t := tools[i]
		d.tools = append(d.tools, t)
		d.byName[t.Name] = &d.tools[len(d.tools)-1]
	}
}

// List returns every registered tool, in registration order, for
// tools/list.
func (d *Dispatcher) List() []Tool {
	return d.tools
}

// Call invokes the named tool with args, returning an invalid_argument
// apperr if name is unknown.
func (d *Dispatcher) Call(name string, args map[string]any) (any, error) {
	t, ok := d.byName[name]
	if !ok {
		return nil, apperr.New(apperr.InvalidArgument, fmt.Sprintf("unknown tool %q", name))
	}
	if args == nil {
		args = map[string]any{}
	}
	return t.Handle(args)
}

func stringArg(args map[string]any, key string) (string, error) {
	v, ok := args[key]
	if !ok {
		return "", apperr.New(apperr.InvalidArgument, fmt.Sprintf("missing required argument %q", key))
	}
	s, ok := v.(string)
	if !ok {
		return "", apperr.New(apperr.InvalidArgument, fmt.Sprintf("argument %q must be a string", key))
	}
	return s, nil
}

func optionalStringArg(args map[string]any, key, def string) string {
	v, ok := args[key]
	if !ok {
		return def
	}
	if s, ok := v.(string); ok {
		return s
	}
	return def
}

func intArg(args map[string]any, key string, def int) (int, error) {
	v, ok := args[key]
	if !ok {
		return def, nil
	}
	switch n := v.(type) {
	case float64:
		return int(n), nil
	case int:
		return n, nil
	default:
		return 0, apperr.New(apperr.InvalidArgument, fmt.Sprintf("argument %q must be a number", key))
	}
}
