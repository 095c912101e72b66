// Package view holds the per-viewer state of the vibe graph.
//
// A [Controller] owns the view mode (vibe or artist, starting in vibe) and
// rebuilds the graph from scratch whenever the mode or the catalogue snapshot
// changes. Nothing is diffed against the previous graph.
//
// # Interaction
//
// Hosts register callbacks with [Controller.OnNodeClick] and
// [Controller.OnItemSelect]. Clicks on ids that are not part of the current
// graph fail with NODE_NOT_FOUND instead of reaching the callback.
//
// # Pins
//
// [Controller.DragEnd] fixes a node at the drop position. Pins are stored in a
// [Pins] set keyed by node id because every rebuild discards the previous node
// values. A pin for a song survives a mode switch; a pin for a vibe hub is kept
// while the artist view is shown and applies again when the viewer switches
// back.
package view
