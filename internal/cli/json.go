// Package cli implements the docsectiond command-line interface.
package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// jsonOutput is set by the --json persistent flag; outputFormat additionally
// allows "yaml" for the commands that support it.
var (
	jsonOutput   bool
	outputFormat string
)

// Response is the standard JSON envelope for all CLI output.
type Response struct {
	OK    bool        `json:"ok" yaml:"ok"`
	Data  interface{} `json:"data,omitempty" yaml:"data,omitempty"`
	Error *ErrorInfo  `json:"error,omitempty" yaml:"error,omitempty"`
}

// ErrorInfo contains structured error information.
type ErrorInfo struct {
	Code       string      `json:"code" yaml:"code"`
	Message    string      `json:"message" yaml:"message"`
	Details    interface{} `json:"details,omitempty" yaml:"details,omitempty"`
	Suggestion string      `json:"suggestion,omitempty" yaml:"suggestion,omitempty"`
}

// isJSONOutput reports whether output should be the structured JSON
// envelope: either requested explicitly, or implied by stdout not being a
// terminal (the same heuristic the teacher's pipe.go uses for agent/script
// invocations that never set --json).
func isJSONOutput() bool {
	if jsonOutput || outputFormat == "json" {
		return true
	}
	return outputFormat == "" && !isTTY()
}

func isYAMLOutput() bool {
	return outputFormat == "yaml"
}

// outputSuccess writes a successful Response to stdout in the requested
// format (JSON or YAML); callers that need a bespoke text rendering check
// isJSONOutput/isYAMLOutput themselves before calling this.
func outputSuccess(data interface{}) {
	resp := Response{OK: true, Data: data}
	if isYAMLOutput() {
		enc := yaml.NewEncoder(os.Stdout)
		defer enc.Close()
		_ = enc.Encode(resp)
		return
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(resp)
}

func outputError(code, message string, suggestion string) {
	resp := Response{Error: &ErrorInfo{Code: code, Message: message, Suggestion: suggestion}}
	if isYAMLOutput() {
		enc := yaml.NewEncoder(os.Stdout)
		defer enc.Close()
		_ = enc.Encode(resp)
		return
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(resp)
}

// handleError prints a structured error in JSON/YAML mode, or returns the
// error for Cobra's own error path in text mode.
func handleError(code string, err error, suggestion string) error {
	if isJSONOutput() || isYAMLOutput() {
		outputError(code, err.Error(), suggestion)
		return nil
	}
	if suggestion != "" {
		return fmt.Errorf("%w\n\n%s", err, suggestion)
	}
	return err
}
