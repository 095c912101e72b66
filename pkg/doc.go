// Package pkg provides the core libraries for vibegraph music graph exploration.
//
// # Overview
//
// Vibegraph turns a music catalogue (songs, artists and vibes) into a
// node-link graph. Songs link to the vibes they carry, or to their artist,
// depending on the view mode; hub nodes grow with the number of songs linked
// to them. The pkg directory is organized into four main areas:
//
//  1. Domain: [catalog], [graph], [sizing], [view]
//  2. Rendering: [render/canvas], [render/nodelink]
//  3. Orchestration: [pipeline], [server]
//  4. Infrastructure: [cache], [session], [catalog/source], [observability]
//
// # Architecture
//
// The typical data flow through vibegraph:
//
//	JSON file / SQLite / MongoDB
//	         ↓
//	    [catalog/source] package (load + denormalize a snapshot)
//	         ↓
//	    [graph] package (build nodes and links for a view mode)
//	         ↓
//	    [sizing] package (node sizes from connection counts)
//	         ↓
//	    [render/canvas] or [render/nodelink]
//	         ↓
//	    JSON/DOT/SVG/PNG/PDF output, or the HTTP API
//
// # Quick Start
//
//	import (
//	    "github.com/matzehuels/vibegraph/pkg/catalog"
//	    "github.com/matzehuels/vibegraph/pkg/graph"
//	    "github.com/matzehuels/vibegraph/pkg/render/canvas"
//	    "github.com/matzehuels/vibegraph/pkg/sizing"
//	)
//
//	// 1. Load a catalogue
//	snap := catalog.Sample()
//
//	// 2. Build the vibe view
//	res, _ := graph.Build(snap, graph.ModeVibe)
//
//	// 3. Size the nodes
//	size := sizing.Default().Sizer(res.Counts)
//
//	// 4. Draw a frame
//	l := graph.Place(res.Graph, 800, 600, nil)
//	svg := canvas.RenderFrame(canvas.NewPainter(size), res.Graph, l, 1)
//
// # Main Packages
//
// ## Domain
//
// [catalog] - Songs, artists and vibes with their cross references, the
// built-in sample catalogue and the list/search view.
//
// [graph] - The graph builder. One strategy per view mode decides which hub
// nodes exist and which links a song emits; missing references follow a
// dangling policy (drop, placeholder or strict).
//
// [sizing] - Song nodes have a fixed size; hubs grow linearly with their
// connection count.
//
// [view] - The view controller: mode switching, rebuilds, click and select
// callbacks, and drag-end pins that survive rebuilds.
//
// ## Rendering
//
// [render/canvas] - The per-node drawing contract (circle, label, pointer
// area) against a 2D surface, and still SVG frames drawn through it.
//
// [render/nodelink] - Graphviz node-link diagrams laid out by neato.
//
// ## Orchestration
//
// [pipeline] - Load → build → render with caching, shared by CLI and API.
//
// [server] - The HTTP API: catalogue, search, graph artifacts and per-viewer
// sessions.
//
// ## Infrastructure
//
// [cache] - File, Redis and null caches with content-addressed keys.
//
// [session] - Per-viewer mode and pins, stored in memory, files or Redis.
//
// [catalog/source] - Catalogue backends: JSON file, SQLite and MongoDB.
//
// [observability] - Hooks for pipeline, cache, interaction and HTTP events.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...          # All tests
//	go test ./pkg/graph/...    # Specific package
//	go test -run Example       # Examples only
//
// [catalog]: https://pkg.go.dev/github.com/matzehuels/vibegraph/pkg/catalog
// [catalog/source]: https://pkg.go.dev/github.com/matzehuels/vibegraph/pkg/catalog/source
// [graph]: https://pkg.go.dev/github.com/matzehuels/vibegraph/pkg/graph
// [sizing]: https://pkg.go.dev/github.com/matzehuels/vibegraph/pkg/sizing
// [view]: https://pkg.go.dev/github.com/matzehuels/vibegraph/pkg/view
// [render/canvas]: https://pkg.go.dev/github.com/matzehuels/vibegraph/pkg/render/canvas
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/vibegraph/pkg/render/nodelink
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/vibegraph/pkg/pipeline
// [server]: https://pkg.go.dev/github.com/matzehuels/vibegraph/pkg/server
// [cache]: https://pkg.go.dev/github.com/matzehuels/vibegraph/pkg/cache
// [session]: https://pkg.go.dev/github.com/matzehuels/vibegraph/pkg/session
// [observability]: https://pkg.go.dev/github.com/matzehuels/vibegraph/pkg/observability
package pkg
