package rpcserver_test

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aidanlsb/docsectiond/internal/markup"
	"github.com/aidanlsb/docsectiond/internal/project"
	"github.com/aidanlsb/docsectiond/internal/query"
	"github.com/aidanlsb/docsectiond/internal/rpcserver"
	"github.com/aidanlsb/docsectiond/internal/sectionedit"
	"github.com/aidanlsb/docsectiond/internal/tooldispatch"
)

func newServer(t *testing.T, input string) (*bytes.Buffer, func() error) {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "doc.adoc"), []byte("= Title\n\nintro\n\n== Overview\n\nBody.\n"), 0o644))
	ix, err := project.New(root, markup.Options{MaxIncludeDepth: 10})
	require.NoError(t, err)
	t.Cleanup(func() { _ = ix.Close() })
	require.NoError(t, ix.Refresh())

	d := tooldispatch.New(ix, query.New(ix), sectionedit.New(ix, sectionedit.NewSuppressionMap()))
	out := &bytes.Buffer{}
	srv := rpcserver.New(strings.NewReader(input), out, d, nil)
	return out, srv.Run
}

func readResponses(t *testing.T, out *bytes.Buffer) []map[string]any {
	t.Helper()
	var responses []map[string]any
	scanner := bufio.NewScanner(out)
	for scanner.Scan() {
		var m map[string]any
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &m))
		responses = append(responses, m)
	}
	return responses
}

func TestInitializeThenToolsCall(t *testing.T) {
	input := `{"jsonrpc":"2.0","id":1,"method":"initialize"}
{"jsonrpc":"2.0","id":2,"method":"tools/list"}
{"jsonrpc":"2.0","id":3,"method":"tools/call","params":{"name":"get_structure","arguments":{}}}
{"jsonrpc":"2.0","id":4,"method":"shutdown"}
`
	out, run := newServer(t, input)
	require.NoError(t, run())

	responses := readResponses(t, out)
	require.Len(t, responses, 4)
	require.Nil(t, responses[0]["error"])
	require.Nil(t, responses[1]["error"])
	require.Nil(t, responses[2]["error"])

	tools, ok := responses[1]["result"].(map[string]any)["tools"].([]any)
	require.True(t, ok)
	require.Len(t, tools, 13)
}

func TestToolsCallBeforeInitializeFails(t *testing.T) {
	input := `{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"get_structure","arguments":{}}}
`
	out, run := newServer(t, input)
	require.NoError(t, run())

	responses := readResponses(t, out)
	require.Len(t, responses, 1)
	require.NotNil(t, responses[0]["error"])
}

func TestUnknownMethod(t *testing.T) {
	input := `{"jsonrpc":"2.0","id":1,"method":"bogus"}
`
	out, run := newServer(t, input)
	require.NoError(t, run())

	responses := readResponses(t, out)
	require.Len(t, responses, 1)
	errObj := responses[0]["error"].(map[string]any)
	require.Equal(t, float64(-32601), errObj["code"])
}

func TestParseError(t *testing.T) {
	input := "not json\n"
	out, run := newServer(t, input)
	require.NoError(t, run())

	responses := readResponses(t, out)
	require.Len(t, responses, 1)
	require.NotNil(t, responses[0]["error"])
}
