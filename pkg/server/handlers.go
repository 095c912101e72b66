package server

import (
	"net/http"
	"strconv"

	"github.com/matzehuels/vibegraph/pkg/buildinfo"
	"github.com/matzehuels/vibegraph/pkg/catalog"
	verrors "github.com/matzehuels/vibegraph/pkg/errors"
	"github.com/matzehuels/vibegraph/pkg/graph"
	"github.com/matzehuels/vibegraph/pkg/httputil"
	"github.com/matzehuels/vibegraph/pkg/pipeline"
)

type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Songs   int    `json:"songs"`
	Artists int    `json:"artists"`
	Vibes   int    `json:"vibes"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	songs, artists, vibes := s.snap.Counts()
	httputil.WriteJSON(w, http.StatusOK, healthResponse{
		Status:  "ok",
		Version: buildinfo.Version,
		Songs:   songs,
		Artists: artists,
		Vibes:   vibes,
	})
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, s.snap)
}

type searchResponse struct {
	Query string         `json:"query"`
	Items []catalog.Item `json:"items"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	items := catalog.Search(s.snap, q)
	if items == nil {
		items = []catalog.Item{}
	}
	httputil.WriteJSON(w, http.StatusOK, searchResponse{Query: q, Items: items})
}

// handleArtifact renders the graph in one format. The mode and pins of a
// session are used when ?session= is given; ?mode= overrides the mode.
func (s *Server) handleArtifact(format string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		opts, err := s.artifactOptions(r, format)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		res, err := s.runner.Execute(r.Context(), s.snap, opts)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		w.Header().Set("X-Graph-Hash", res.GraphHash)
		httputil.WriteBytes(w, http.StatusOK, pipeline.ContentType(format), res.Artifacts[format])
	}
}

func (s *Server) artifactOptions(r *http.Request, format string) (pipeline.Options, error) {
	q := r.URL.Query()
	opts := pipeline.Options{
		Formats:  []string{format},
		Dangling: s.cfg.Dangling,
		Sizing:   s.cfg.Sizing,
		Detailed: q.Get("detailed") == "true",
		Legend:   q.Get("legend") == "true",
		Logger:   s.logger,
	}
	if id := q.Get("session"); id != "" {
		sess, err := s.loadSession(r.Context(), id)
		if err != nil {
			return opts, err
		}
		opts.Mode = sess.Mode
		opts.Pins = sess.Pins
	}
	if m := q.Get("mode"); m != "" {
		mode, err := graph.ParseViewMode(m)
		if err != nil {
			return opts, err
		}
		opts.Mode = mode
	}
	if d := q.Get("dangling"); d != "" {
		p, err := graph.ParseDanglingPolicy(d)
		if err != nil {
			return opts, err
		}
		opts.Dangling = p
	}
	for name, dst := range map[string]*float64{"zoom": &opts.Zoom, "width": &opts.Width, "height": &opts.Height} {
		v := q.Get(name)
		if v == "" {
			continue
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return opts, verrors.New(verrors.ErrCodeInvalidInput, "%s must be a number, got %q", name, v)
		}
		*dst = f
	}
	return opts, opts.ValidateAndSetDefaults()
}

// fail writes err and logs it when it is a server-side failure.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	if verrors.HTTPStatus(verrors.GetCode(err)) >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "error", err)
	}
	httputil.WriteError(w, err)
}
