package catalog

import (
	"fmt"

	verrors "github.com/matzehuels/vibegraph/pkg/errors"
)

// =============================================================================
// Records
// =============================================================================

// VibeRef is the denormalized view of a vibe embedded in a song.
type VibeRef struct {
	ID    string `json:"id" bson:"id"`
	Name  string `json:"name" bson:"name"`
	Color string `json:"color,omitempty" bson:"color,omitempty"`
}

// ArtistRef is the denormalized view of an artist embedded in a song.
type ArtistRef struct {
	ID   string `json:"id" bson:"id"`
	Name string `json:"name" bson:"name"`
}

// SongRef is the denormalized view of a song embedded in an artist or vibe.
type SongRef struct {
	ID    string `json:"id" bson:"id"`
	Title string `json:"title" bson:"title"`
}

// Song is a catalogue track. Every song belongs to exactly one artist and may
// carry any number of vibes; Vibes keeps the order the source returned.
type Song struct {
	ID       string     `json:"id" bson:"_id"`
	Title    string     `json:"title" bson:"title"`
	Duration int        `json:"duration" bson:"duration"` // seconds
	ArtistID string     `json:"artistId" bson:"artist_id"`
	Artist   *ArtistRef `json:"artist,omitempty" bson:"artist,omitempty"`
	Vibes    []VibeRef  `json:"vibes" bson:"vibes"`
}

// ArtistName returns the embedded artist name, or "" when the source did not
// denormalize it.
func (s *Song) ArtistName() string {
	if s.Artist == nil {
		return ""
	}
	return s.Artist.Name
}

// Artist is a performer.
type Artist struct {
	ID       string    `json:"id" bson:"_id"`
	Name     string    `json:"name" bson:"name"`
	ImageURL string    `json:"imageUrl,omitempty" bson:"image_url,omitempty"`
	Songs    []SongRef `json:"songs" bson:"songs"`
}

// Vibe is a mood tag, many-to-many with songs.
type Vibe struct {
	ID          string    `json:"id" bson:"_id"`
	Name        string    `json:"name" bson:"name"`
	Description string    `json:"description,omitempty" bson:"description,omitempty"`
	Color       string    `json:"color,omitempty" bson:"color,omitempty"`
	Songs       []SongRef `json:"songs" bson:"songs"`
}

// =============================================================================
// Snapshot
// =============================================================================

// Snapshot is the full catalogue as fetched once from a source. Consumers
// treat it as immutable for the duration of a graph build.
type Snapshot struct {
	Songs   []Song   `json:"songs"`
	Artists []Artist `json:"artists"`
	Vibes   []Vibe   `json:"vibes"`
}

// IsEmpty reports whether the snapshot holds no records at all.
func (s Snapshot) IsEmpty() bool {
	return len(s.Songs) == 0 && len(s.Artists) == 0 && len(s.Vibes) == 0
}

// Counts returns the number of songs, artists and vibes.
func (s Snapshot) Counts() (songs, artists, vibes int) {
	return len(s.Songs), len(s.Artists), len(s.Vibes)
}

// Validate checks structural well-formedness: non-empty unique ids, valid
// colors and positive durations.
//
// Referential integrity (a song pointing at a missing artist or vibe) is NOT
// checked here; the graph builder's dangling policy owns that decision.
func (s Snapshot) Validate() error {
	seen := make(map[string]struct{}, len(s.Songs))
	for i, song := range s.Songs {
		if err := verrors.ValidateID("song", song.ID); err != nil {
			return fmt.Errorf("songs[%d]: %w", i, err)
		}
		if _, dup := seen[song.ID]; dup {
			return verrors.New(verrors.ErrCodeInvalidCatalog, "duplicate song id %q", song.ID)
		}
		seen[song.ID] = struct{}{}
		if song.Duration <= 0 {
			return verrors.New(verrors.ErrCodeInvalidCatalog, "song %q: duration must be positive, got %d", song.ID, song.Duration)
		}
		if err := verrors.ValidateID("artist", song.ArtistID); err != nil {
			return fmt.Errorf("song %q: %w", song.ID, err)
		}
		for _, v := range song.Vibes {
			if err := verrors.ValidateID("vibe", v.ID); err != nil {
				return fmt.Errorf("song %q: %w", song.ID, err)
			}
		}
	}

	seen = make(map[string]struct{}, len(s.Artists))
	for i, a := range s.Artists {
		if err := verrors.ValidateID("artist", a.ID); err != nil {
			return fmt.Errorf("artists[%d]: %w", i, err)
		}
		if _, dup := seen[a.ID]; dup {
			return verrors.New(verrors.ErrCodeInvalidCatalog, "duplicate artist id %q", a.ID)
		}
		seen[a.ID] = struct{}{}
	}

	seen = make(map[string]struct{}, len(s.Vibes))
	for i, v := range s.Vibes {
		if err := verrors.ValidateID("vibe", v.ID); err != nil {
			return fmt.Errorf("vibes[%d]: %w", i, err)
		}
		if _, dup := seen[v.ID]; dup {
			return verrors.New(verrors.ErrCodeInvalidCatalog, "duplicate vibe id %q", v.ID)
		}
		seen[v.ID] = struct{}{}
		if err := verrors.ValidateColor(v.Color); err != nil {
			return fmt.Errorf("vibe %q: %w", v.ID, err)
		}
	}
	return nil
}

// Denormalize fills the embedded refs (Song.Artist, Song.Vibes names/colors,
// Artist.Songs, Vibe.Songs) from the top-level collections, the way an ORM
// include would. Song.Vibes membership and order are kept; only names and
// colors of known vibes are refreshed. The receiver is not modified.
func (s Snapshot) Denormalize() Snapshot {
	artists := make(map[string]int, len(s.Artists))
	vibes := make(map[string]int, len(s.Vibes))

	out := Snapshot{
		Songs:   make([]Song, len(s.Songs)),
		Artists: make([]Artist, len(s.Artists)),
		Vibes:   make([]Vibe, len(s.Vibes)),
	}
	for i, a := range s.Artists {
		a.Songs = nil
		out.Artists[i] = a
		artists[a.ID] = i
	}
	for i, v := range s.Vibes {
		v.Songs = nil
		out.Vibes[i] = v
		vibes[v.ID] = i
	}

	for i, song := range s.Songs {
		ref := SongRef{ID: song.ID, Title: song.Title}
		if ai, ok := artists[song.ArtistID]; ok {
			a := &out.Artists[ai]
			song.Artist = &ArtistRef{ID: a.ID, Name: a.Name}
			a.Songs = append(a.Songs, ref)
		}
		refs := make([]VibeRef, len(song.Vibes))
		for j, v := range song.Vibes {
			if vi, ok := vibes[v.ID]; ok {
				full := &out.Vibes[vi]
				v = VibeRef{ID: full.ID, Name: full.Name, Color: full.Color}
				full.Songs = append(full.Songs, ref)
			}
			refs[j] = v
		}
		song.Vibes = refs
		out.Songs[i] = song
	}
	return out
}
