// Package graph derives the typed node-link graph shown by the vibe view.
//
// # Overview
//
// [Build] maps a [catalog.Snapshot] and a [ViewMode] to a [Result]: the
// [GraphData] handed to a force-directed layout engine and the
// [ConnectionCounts] that drive node sizing.
//
//	res, err := graph.Build(snap, graph.ModeVibe)
//	for _, n := range res.Graph.Nodes {
//	    fmt.Println(n.ID, res.Counts[n.ID])
//	}
//
// # View Modes
//
// Songs are always present. The mode decides the secondary node type:
//
//	graph.ModeVibe    // song -> vibe, one link per vibe membership
//	graph.ModeArtist  // song -> artist, exactly one link per song
//
// Each mode is a small strategy value implementing the same pair of
// operations (collect the secondary nodes, link one song), so a third mode
// is one more strategy.
//
// # Node IDs
//
// Node ids are namespaced by type ("song-", "artist-", "vibe-") so records
// of different kinds may share an id. Use [SongID], [ArtistID], [VibeID] and
// [SplitNodeID] rather than building ids by hand.
//
// # Dangling References
//
// A song may reference an artist or vibe that is not in the snapshot.
// [DanglingPolicy] makes the outcome explicit:
//
//	graph.DanglingDrop         // default: skip the link, report it
//	graph.DanglingKeep         // emit the link to a node that does not exist
//	graph.DanglingPlaceholder  // synthesize the missing node
//	graph.DanglingStrict       // fail with DANGLING_REFERENCE
//
// Every non-strict policy lists each unresolved link attempt in
// [Result.Dangling].
//
// # Positions
//
// Builds never mutate earlier results and nodes carry no coordinates.
// [Positions] keyed by node id survive rebuilds; [Place] produces a
// deterministic static [Layout] for snapshot rendering.
//
// # Concurrency
//
// All functions are pure and safe for concurrent use.
package graph
