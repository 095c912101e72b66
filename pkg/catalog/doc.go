// Package catalog defines the domain records the graph view is built from.
//
// # Records
//
// A [Snapshot] holds the three collections fetched from a catalogue source:
//
//   - [Song]: a track with exactly one artist and any number of vibes
//   - [Artist]: a performer
//   - [Vibe]: a mood tag, many-to-many with songs
//
// Songs, artists and vibes carry denormalized references to each other
// ([VibeRef], [ArtistRef], [SongRef]) the way the original REST endpoints
// returned them. [Snapshot.Denormalize] rebuilds those references from the
// top-level collections when a source only stores the ids.
//
// # Validation
//
// [Snapshot.Validate] checks ids, colors and durations. It does not check
// that every song's artist or vibes exist; that is a graph-building concern.
//
// # Search
//
// [Search] implements the list view's filter and returns [Item] rows that can
// be handed to an item-select callback.
//
// # Sample data
//
// [Sample] returns a deterministic demo catalogue used by the seed command
// and tests.
package catalog
