package server

import (
	"context"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/vibegraph/pkg/catalog"
	verrors "github.com/matzehuels/vibegraph/pkg/errors"
	"github.com/matzehuels/vibegraph/pkg/graph"
	"github.com/matzehuels/vibegraph/pkg/httputil"
	"github.com/matzehuels/vibegraph/pkg/pipeline"
	"github.com/matzehuels/vibegraph/pkg/session"
	"github.com/matzehuels/vibegraph/pkg/view"
)

// =============================================================================
// Request and response bodies
// =============================================================================

type createSessionRequest struct {
	Mode string `json:"mode" validate:"omitempty,oneof=vibe artist"`
}

type modeRequest struct {
	Mode string `json:"mode" validate:"required,oneof=vibe artist"`
}

type nodeRequest struct {
	NodeID string  `json:"nodeId" validate:"required"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

type selectRequest struct {
	Kind string `json:"kind" validate:"required,oneof=song artist vibe"`
	ID   string `json:"id" validate:"required"`
}

type sessionResponse struct {
	Session   *session.Session  `json:"session"`
	Graph     pipeline.Document `json:"graph"`
	Positions graph.Positions   `json:"positions"`
}

type selectResponse struct {
	Item   catalog.Item `json:"item"`
	Record any          `json:"record"`
}

// =============================================================================
// Helpers
// =============================================================================

// sessionLocks holds one mutex per session id while requests use it.
type sessionLocks struct {
	mu sync.Mutex
	m  map[string]*sessionLock
}

type sessionLock struct {
	sync.Mutex
	refs int
}

// lock blocks until no other request holds id and returns the unlock func.
// Entries are dropped once the last holder or waiter is done.
func (l *sessionLocks) lock(id string) func() {
	l.mu.Lock()
	if l.m == nil {
		l.m = make(map[string]*sessionLock)
	}
	sl, ok := l.m[id]
	if !ok {
		sl = &sessionLock{}
		l.m[id] = sl
	}
	sl.refs++
	l.mu.Unlock()

	sl.Lock()
	return func() {
		sl.Unlock()
		l.mu.Lock()
		sl.refs--
		if sl.refs == 0 {
			delete(l.m, id)
		}
		l.mu.Unlock()
	}
}

// held reports how many session ids have a holder or waiter.
func (l *sessionLocks) held() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.m)
}

func (s *Server) loadSession(ctx context.Context, id string) (*session.Session, error) {
	sess, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, verrors.New(verrors.ErrCodeSessionNotFound, "session %q not found or expired", id)
	}
	return sess, nil
}

// controller restores the view of sess.
func (s *Server) controller(ctx context.Context, sess *session.Session) (*view.Controller, error) {
	return view.New(s.snap,
		view.WithContext(ctx),
		view.WithMode(sess.Mode),
		view.WithPins(sess.Pins),
		view.WithSizing(s.cfg.Sizing),
		view.WithDangling(s.cfg.Dangling),
	)
}

// withView loads the session named in the URL and its controller.
func (s *Server) withView(w http.ResponseWriter, r *http.Request) (*session.Session, *view.Controller, bool) {
	sess, err := s.loadSession(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return nil, nil, false
	}
	ctrl, err := s.controller(r.Context(), sess)
	if err != nil {
		s.fail(w, r, err)
		return nil, nil, false
	}
	return sess, ctrl, true
}

// save copies the controller state into sess and stores it.
func (s *Server) save(ctx context.Context, sess *session.Session, ctrl *view.Controller) error {
	sess.Mode = ctrl.Mode()
	sess.Pins = ctrl.Pins()
	sess.Touch(s.cfg.SessionTTL)
	return s.sessions.Set(ctx, sess)
}

func (s *Server) respondSession(w http.ResponseWriter, status int, sess *session.Session, ctrl *view.Controller) {
	httputil.WriteJSON(w, status, sessionResponse{
		Session:   sess,
		Graph:     pipeline.NewDocument(ctrl.Result(), s.cfg.Sizing),
		Positions: ctrl.Layout().Positions,
	})
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := httputil.Decode(w, r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	mode, _ := graph.ParseViewMode(req.Mode)
	sess := session.New(mode, s.cfg.SessionTTL)

	ctrl, err := s.controller(r.Context(), sess)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.sessions.Set(r.Context(), sess); err != nil {
		s.fail(w, r, err)
		return
	}
	s.logger.Debug("session created", "id", sess.ID, "mode", sess.Mode)
	s.respondSession(w, http.StatusCreated, sess, ctrl)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, ctrl, ok := s.withView(w, r)
	if !ok {
		return
	}
	s.respondSession(w, http.StatusOK, sess, ctrl)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSetMode(w http.ResponseWriter, r *http.Request) {
	var req modeRequest
	if err := httputil.Decode(w, r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	defer s.locks.lock(chi.URLParam(r, "id"))()
	sess, ctrl, ok := s.withView(w, r)
	if !ok {
		return
	}
	if err := ctrl.SetMode(graph.ViewMode(req.Mode)); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.save(r.Context(), sess, ctrl); err != nil {
		s.fail(w, r, err)
		return
	}
	s.respondSession(w, http.StatusOK, sess, ctrl)
}

func (s *Server) handlePin(w http.ResponseWriter, r *http.Request) {
	var req nodeRequest
	if err := httputil.Decode(w, r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	defer s.locks.lock(chi.URLParam(r, "id"))()
	sess, ctrl, ok := s.withView(w, r)
	if !ok {
		return
	}
	if err := ctrl.DragEnd(req.NodeID, graph.Position{X: req.X, Y: req.Y}); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.save(r.Context(), sess, ctrl); err != nil {
		s.fail(w, r, err)
		return
	}
	s.respondSession(w, http.StatusOK, sess, ctrl)
}

func (s *Server) handleUnpin(w http.ResponseWriter, r *http.Request) {
	defer s.locks.lock(chi.URLParam(r, "id"))()
	sess, ctrl, ok := s.withView(w, r)
	if !ok {
		return
	}
	nodeID := chi.URLParam(r, "nodeId")
	if !ctrl.Unpin(nodeID) {
		httputil.WriteError(w, verrors.New(verrors.ErrCodeNotFound, "node %q is not pinned", nodeID))
		return
	}
	if err := s.save(r.Context(), sess, ctrl); err != nil {
		s.fail(w, r, err)
		return
	}
	s.respondSession(w, http.StatusOK, sess, ctrl)
}

func (s *Server) handleClick(w http.ResponseWriter, r *http.Request) {
	var req nodeRequest
	if err := httputil.Decode(w, r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	_, ctrl, ok := s.withView(w, r)
	if !ok {
		return
	}
	node, err := ctrl.Click(req.NodeID, graph.Position{X: req.X, Y: req.Y})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, node)
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	var req selectRequest
	if err := httputil.Decode(w, r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	_, ctrl, ok := s.withView(w, r)
	if !ok {
		return
	}
	it := catalog.Item{Kind: catalog.Kind(req.Kind), ID: req.ID}
	if err := ctrl.SelectItem(it); err != nil {
		s.fail(w, r, err)
		return
	}
	record, _ := s.snap.Lookup(it)
	httputil.WriteJSON(w, http.StatusOK, selectResponse{Item: itemFor(record, it), Record: record})
}

// itemFor returns the full list row of a looked-up record.
func itemFor(record any, fallback catalog.Item) catalog.Item {
	switch rec := record.(type) {
	case catalog.Song:
		return catalog.SongItem(rec)
	case catalog.Artist:
		return catalog.ArtistItem(rec)
	case catalog.Vibe:
		return catalog.VibeItem(rec)
	}
	return fallback
}
