// Package httpapi implements the optional HTTP API (spec.md §6, enabled by
// ENABLE_WEBSERVER=true). The teacher has no HTTP server of its own; this
// is built directly on net/http.ServeMux's Go 1.22+ method+pattern routes,
// since nothing in the example corpus imports a third-party router for an
// API this small.
package httpapi

import (
	"encoding/json"
	"net/http"
	"os"
	"strconv"

	"github.com/aidanlsb/docsectiond/internal/apperr"
	"github.com/aidanlsb/docsectiond/internal/project"
	"github.com/aidanlsb/docsectiond/internal/query"
)

// DefaultPortBase is used when WEBSERVER_PORT_BASE is unset.
const DefaultPortBase = 8420

// PortRetryCount is how many successive ports are tried starting at the
// configured base before giving up.
const PortRetryCount = 10

// Enabled reports whether ENABLE_WEBSERVER=true, per spec.md §6.
func Enabled() bool {
	return os.Getenv("ENABLE_WEBSERVER") == "true"
}

// PortBase reads WEBSERVER_PORT_BASE, falling back to DefaultPortBase on an
// unset or unparseable value.
func PortBase() int {
	raw := os.Getenv("WEBSERVER_PORT_BASE")
	if raw == "" {
		return DefaultPortBase
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return DefaultPortBase
	}
	return n
}

// Server serves the read-only HTTP API described in spec.md §6.
type Server struct {
	index   *project.Index
	surface *query.Surface
}

// New creates a Server over index.
func New(index *project.Index, surface *query.Surface) *Server {
	return &Server{index: index, surface: surface}
}

// Handler builds the routed mux.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/structure", s.handleStructure)
	mux.HandleFunc("GET /api/section/{id}", s.handleSection)
	mux.HandleFunc("GET /api/metadata", s.handleMetadata)
	mux.HandleFunc("GET /api/dependencies", s.handleDependencies)
	mux.HandleFunc("GET /api/validate", s.handleValidate)
	return mux
}

func (s *Server) handleStructure(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.surface.GetRootFilesStructure())
}

func (s *Server) handleSection(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	sec, err := s.surface.GetSection(id)
	if err != nil {
		writeError(w, err)
		return
	}

	context := r.URL.Query().Get("context")
	if context != "full" {
		writeJSON(w, http.StatusOK, sec)
		return
	}

	full, err := os.ReadFile(s.index.AbsPath(sec.SourceFile))
	if err != nil {
		writeError(w, apperr.Wrap(apperr.IOError, "read source file", err))
		return
	}

	type fullSection struct {
		query.SectionView
		FullContent     string `json:"full_content"`
		SectionPosition struct {
			LineStart int `json:"line_start"`
			LineEnd   int `json:"line_end"`
		} `json:"section_position"`
	}
	resp := fullSection{SectionView: sec, FullContent: string(full)}
	resp.SectionPosition.LineStart = sec.LineStart
	resp.SectionPosition.LineEnd = sec.LineEnd
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleMetadata(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.surface.GetProjectMetadata())
}

func (s *Server) handleDependencies(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.surface.GetDependencies())
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.surface.ValidateStructure())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if apperr.KindOf(err) == apperr.NotFound {
		status = http.StatusNotFound
	}
	writeJSON(w, status, map[string]string{"error": err.Error(), "kind": string(apperr.KindOf(err))})
}
