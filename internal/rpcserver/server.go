// Package rpcserver implements the line-delimited JSON-RPC 2.0 stdio
// transport spec.md §6 describes, grounded directly on the teacher's
// internal/mcp/server.go: a bufio.Scanner over stdin with a 1MB line
// buffer, the same Request/Response/RPCError shapes, and a handleRequest
// switch over initialize/tools/list/tools/call/shutdown/ping. Unlike the
// teacher, tools/call is dispatched in-process against
// internal/tooldispatch instead of re-executing a CLI subprocess.
package rpcserver

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/aidanlsb/docsectiond/internal/apperr"
	"github.com/aidanlsb/docsectiond/internal/obslog"
	"github.com/aidanlsb/docsectiond/internal/tooldispatch"
)

// Request is one JSON-RPC 2.0 request frame.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      any             `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// Response is one JSON-RPC 2.0 response frame.
type Response struct {
	JSONRPC string    `json:"jsonrpc"`
	ID      any       `json:"id,omitempty"`
	Result  any       `json:"result,omitempty"`
	Error   *RPCError `json:"error,omitempty"`
}

// RPCError is a JSON-RPC 2.0 error object.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

const (
	codeParseError     = -32700
	codeInvalidRequest = -32600
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
	codeInternalError  = -32603
)

// Server serves the tool protocol over a single stdio-like connection.
type Server struct {
	in         io.Reader
	out        io.Writer
	dispatcher *tooldispatch.Dispatcher
	log        *obslog.Logger

	initialized bool
}

// New creates a Server reading requests from in and writing responses to
// out, dispatching tools/call through dispatcher.
func New(in io.Reader, out io.Writer, dispatcher *tooldispatch.Dispatcher, log *obslog.Logger) *Server {
	return &Server{in: in, out: out, dispatcher: dispatcher, log: log}
}

// Run reads line-delimited requests until in is exhausted or a shutdown
// request is received.
func (s *Server) Run() error {
	scanner := bufio.NewScanner(s.in)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req Request
		if err := json.Unmarshal(line, &req); err != nil {
			s.sendError(nil, codeParseError, "parse error", err.Error())
			continue
		}

		if s.handleRequest(&req) {
			return nil
		}
	}
	return scanner.Err()
}

// handleRequest processes one request and reports whether the server
// should stop (a shutdown request was received).
func (s *Server) handleRequest(req *Request) (stop bool) {
	start := time.Now()
	requestID := obslog.NewRequestID()
	isNotification := req.ID == nil

	switch req.Method {
	case "initialize":
		s.initialized = true
		s.sendResult(req.ID, map[string]any{
			"protocolVersion": "2024-11-05",
			"capabilities":    map[string]any{"tools": map[string]any{}},
			"serverInfo":      map[string]any{"name": "docsectiond", "version": "0.1.0"},
		})
	case "initialized", "notifications/initialized", "notifications/cancelled":
		return false
	case "ping":
		s.sendResult(req.ID, map[string]any{})
	case "tools/list":
		s.sendResult(req.ID, map[string]any{"tools": toolSchemas(s.dispatcher.List())})
	case "tools/call":
		s.handleToolsCall(req, requestID, start)
	case "shutdown":
		s.sendResult(req.ID, map[string]any{})
		return true
	default:
		if !isNotification {
			s.sendError(req.ID, codeMethodNotFound, "method not found", req.Method)
		}
	}
	return false
}

func (s *Server) handleToolsCall(req *Request, requestID string, start time.Time) {
	if !s.initialized {
		s.sendError(req.ID, codeInvalidRequest, "initialize must be called before tools/call", nil)
		return
	}

	var params struct {
		Name      string         `json:"name"`
		Arguments map[string]any `json:"arguments"`
	}
	if len(req.Params) > 0 {
		if err := json.Unmarshal(req.Params, &params); err != nil {
			s.sendError(req.ID, codeInvalidParams, "invalid params", err.Error())
			return
		}
	}

	result, err := s.dispatcher.Call(params.Name, params.Arguments)
	kind := ""
	if err != nil {
		kind = string(apperr.KindOf(err))
	}
	if s.log != nil {
		s.log.Request(requestID, params.Name, kind, time.Since(start), err)
	}

	if err != nil {
		s.sendError(req.ID, codeInternalError, err.Error(), kind)
		return
	}
	s.sendResult(req.ID, result)
}

func toolSchemas(tools []tooldispatch.Tool) []map[string]any {
	out := make([]map[string]any, 0, len(tools))
	for _, t := range tools {
		out = append(out, map[string]any{
			"name":        t.Name,
			"description": t.Description,
			"inputSchema": t.InputSchema,
		})
	}
	return out
}

func (s *Server) sendResult(id any, result any) {
	s.send(Response{JSONRPC: "2.0", ID: id, Result: result})
}

func (s *Server) sendError(id any, code int, message string, data any) {
	s.send(Response{JSONRPC: "2.0", ID: id, Error: &RPCError{Code: code, Message: message, Data: data}})
}

func (s *Server) send(v Response) {
	data, err := json.Marshal(v)
	if err != nil {
		fmt.Fprintf(s.out, `{"jsonrpc":"2.0","error":{"code":%d,"message":"internal marshal error"}}`+"\n", codeInternalError)
		return
	}
	fmt.Fprintln(s.out, string(data))
}
