package server

import (
	"fmt"
	"net/http"

	"github.com/matzehuels/vibegraph/pkg/graph"
	"github.com/matzehuels/vibegraph/pkg/httputil"
	"github.com/matzehuels/vibegraph/pkg/render/canvas"
)

type drawRequest struct {
	Zoom      float64         `json:"zoom" validate:"gte=0"`
	Positions graph.Positions `json:"positions"`
}

// drawnNode holds the canvas ops of one node. A client replays Ops on its
// visible canvas and PointerOps on its hit-test canvas, where the node is
// identified by PointerColor.
type drawnNode struct {
	ID           string      `json:"id"`
	PointerColor string      `json:"pointerColor"`
	Ops          []canvas.Op `json:"ops"`
	PointerOps   []canvas.Op `json:"pointerOps"`
}

type drawResponse struct {
	Zoom  float64     `json:"zoom"`
	Nodes []drawnNode `json:"nodes"`
}

// handleDraw records the draw calls for every node of the session's graph.
// Positions sent by the client (its current force layout) override the
// server-side placement.
func (s *Server) handleDraw(w http.ResponseWriter, r *http.Request) {
	var req drawRequest
	if err := httputil.Decode(w, r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	_, ctrl, ok := s.withView(w, r)
	if !ok {
		return
	}
	zoom := req.Zoom
	if zoom == 0 {
		zoom = 1
	}

	painter := canvas.NewPainter(ctrl.Sizer())
	placed := ctrl.Positioned()
	resp := drawResponse{Zoom: zoom, Nodes: make([]drawnNode, len(placed))}
	for i, n := range placed {
		if p, ok := req.Positions[n.ID]; ok {
			n.Position = p
		}
		var rec canvas.Recorder
		painter.DrawNode(&rec, n, zoom)
		drawn := drawnNode{ID: n.ID, PointerColor: pointerColor(i), Ops: rec.Ops}

		rec = canvas.Recorder{}
		painter.PaintPointerArea(&rec, n, drawn.PointerColor)
		drawn.PointerOps = rec.Ops

		resp.Nodes[i] = drawn
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

// pointerColor encodes a node index as a unique hit-test color.
func pointerColor(i int) string {
	return fmt.Sprintf("#%06x", i+1)
}
