package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/arbor-viz/arbor/pkg/errors"
	"github.com/arbor-viz/arbor/pkg/layout"
	"github.com/arbor-viz/arbor/pkg/observability"
	"github.com/arbor-viz/arbor/pkg/pipeline"
	"github.com/arbor-viz/arbor/pkg/state"
	"github.com/arbor-viz/arbor/pkg/store"
	"github.com/arbor-viz/arbor/pkg/tree"
)

// =============================================================================
// Health
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// Trees
// =============================================================================

type createTreeRequest struct {
	Name string    `json:"name"`
	Root tree.Node `json:"root"`
}

func (s *Server) handleCreateTree(w http.ResponseWriter, r *http.Request) {
	var req createTreeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body"))
		return
	}

	if req.Root.Text == "" && len(req.Root.Children) == 0 {
		req.Root = tree.Placeholder()
	}

	doc := store.NewTreeDoc(req.Name, req.Root)
	if err := s.trees.Put(r.Context(), doc); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "store tree"))
		return
	}

	s.logger.Info("tree created", "tree_id", doc.ID, "nodes", tree.Count(doc.Root))
	writeJSON(w, http.StatusCreated, doc)
}

func (s *Server) handleListTrees(w http.ResponseWriter, r *http.Request) {
	docs, err := s.trees.List(r.Context())
	if err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "list trees"))
		return
	}
	writeJSON(w, http.StatusOK, docs)
}

func (s *Server) handleGetTree(w http.ResponseWriter, r *http.Request) {
	doc, err := s.lookupTree(r, chi.URLParam(r, "treeID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) handleDeleteTree(w http.ResponseWriter, r *http.Request) {
	treeID := chi.URLParam(r, "treeID")
	if err := s.trees.Delete(r.Context(), treeID); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "delete tree"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// Sessions
// =============================================================================

type createSessionRequest struct {
	TreeID string `json:"tree_id"`
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body"))
		return
	}
	if _, err := s.lookupTree(r, req.TreeID); err != nil {
		writeError(w, err)
		return
	}

	sess := state.New(req.TreeID, s.sessionTTL)
	if err := s.sessions.Set(r.Context(), sess); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "store session"))
		return
	}
	writeJSON(w, http.StatusCreated, sess)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.lookupSession(r, chi.URLParam(r, "sessionID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

// layoutResponse pairs a session snapshot with its computed layout.
type layoutResponse struct {
	Session *state.Session `json:"session"`
	Layout  layout.Result  `json:"layout"`
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	sess, err := s.lookupSession(r, chi.URLParam(r, "sessionID"))
	if err != nil {
		writeError(w, err)
		return
	}
	doc, err := s.lookupTree(r, sess.TreeID)
	if err != nil {
		writeError(w, err)
		return
	}

	l, err := s.runner.GenerateLayout(r.Context(), doc.Root, s.sessionOptions(sess))
	if err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidSpacing, err, "compute layout"))
		return
	}
	writeJSON(w, http.StatusOK, layoutResponse{Session: sess, Layout: l})
}

func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	nodeID := chi.URLParam(r, "nodeID")

	sess, err := s.lookupSession(r, chi.URLParam(r, "sessionID"))
	if err != nil {
		writeError(w, err)
		return
	}
	doc, err := s.lookupTree(r, sess.TreeID)
	if err != nil {
		writeError(w, err)
		return
	}
	if !nodeExists(doc.Root, nodeID) {
		writeError(w, errors.New(errors.ErrCodeNodeNotFound, "node %q not in tree", nodeID))
		return
	}

	next := state.Toggle(sess, nodeID)
	if err := s.sessions.Set(r.Context(), next); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "store session"))
		return
	}
	observability.Pipeline().OnToggle(r.Context(), nodeID, next.Set().Has(nodeID))

	l, err := s.runner.GenerateLayout(r.Context(), doc.Root, s.sessionOptions(next))
	if err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidSpacing, err, "compute layout"))
		return
	}
	writeJSON(w, http.StatusOK, layoutResponse{Session: next, Layout: l})
}

// =============================================================================
// Export
// =============================================================================

var exportContentTypes = map[string]string{
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatPDF:  "application/pdf",
	pipeline.FormatDOT:  "text/vnd.graphviz",
	pipeline.FormatJSON: "application/json",
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = pipeline.FormatSVG
		if len(s.defaults.Formats) > 0 {
			format = s.defaults.Formats[0]
		}
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidFormat, err, "unsupported export format"))
		return
	}

	sess, err := s.lookupSession(r, chi.URLParam(r, "sessionID"))
	if err != nil {
		writeError(w, err)
		return
	}
	doc, err := s.lookupTree(r, sess.TreeID)
	if err != nil {
		writeError(w, err)
		return
	}

	opts := s.sessionOptions(sess)
	opts.Formats = []string{format}
	if style := r.URL.Query().Get("style"); style != "" {
		opts.Style = style
	}

	result, err := s.runner.Execute(r.Context(), doc.Root, opts)
	if err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "render export"))
		return
	}

	w.Header().Set("Content-Type", exportContentTypes[format])
	w.WriteHeader(http.StatusOK)
	w.Write(result.Artifacts[format])
}

// =============================================================================
// Helpers
// =============================================================================

func (s *Server) lookupTree(r *http.Request, treeID string) (*store.TreeDoc, error) {
	doc, err := s.trees.Get(r.Context(), treeID)
	if err != nil {
		if err == store.ErrNotFound {
			return nil, errors.New(errors.ErrCodeTreeNotFound, "tree %q not found", treeID)
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "load tree")
	}
	return doc, nil
}

func (s *Server) lookupSession(r *http.Request, sessionID string) (*state.Session, error) {
	sess, err := s.sessions.Get(r.Context(), sessionID)
	if err != nil {
		switch err {
		case state.ErrNotFound, state.ErrExpired:
			return nil, errors.New(errors.ErrCodeSessionNotFound, "session %q not found", sessionID)
		default:
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "load session")
		}
	}
	return sess, nil
}

// sessionOptions builds pipeline options for a session on top of the
// server-wide defaults.
func (s *Server) sessionOptions(sess *state.Session) pipeline.Options {
	opts := s.defaults
	opts.Collapsed = sess.Collapsed
	opts.Logger = s.logger
	return opts
}

func nodeExists(root tree.Node, nodeID string) bool {
	found := false
	tree.Walk(root, func(id string, level int, n tree.Node) bool {
		if id == nodeID {
			found = true
			return false
		}
		return true
	})
	return found
}
