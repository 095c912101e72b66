package catalog

import (
	"fmt"
	"strings"
)

// Entity colors shared by the graph view and the list view.
const (
	ColorSong        = "#9333ea" // purple-600
	ColorArtist      = "#4f46e5" // indigo-600
	ColorVibeDefault = "#22c55e" // green-500
)

// VibeColor returns c, or the default vibe color when c is empty.
func VibeColor(c string) string {
	if c == "" {
		return ColorVibeDefault
	}
	return c
}

// Kind tags the record type an Item was derived from.
type Kind string

const (
	KindSong   Kind = "song"
	KindArtist Kind = "artist"
	KindVibe   Kind = "vibe"
)

// Item is one row of the list/search view. It is the payload handed to the
// host's item-select callback.
type Item struct {
	Kind    Kind   `json:"kind"`
	ID      string `json:"id"`
	Name    string `json:"name"`
	Subtext string `json:"subtext,omitempty"`
	Color   string `json:"color"`
}

// SongItem builds the list row for a song.
func SongItem(s Song) Item {
	return Item{Kind: KindSong, ID: s.ID, Name: s.Title, Subtext: s.ArtistName(), Color: ColorSong}
}

// ArtistItem builds the list row for an artist.
func ArtistItem(a Artist) Item {
	return Item{Kind: KindArtist, ID: a.ID, Name: a.Name, Subtext: songCount(len(a.Songs)), Color: ColorArtist}
}

// VibeItem builds the list row for a vibe.
func VibeItem(v Vibe) Item {
	return Item{Kind: KindVibe, ID: v.ID, Name: v.Name, Subtext: songCount(len(v.Songs)), Color: VibeColor(v.Color)}
}

func songCount(n int) string {
	return fmt.Sprintf("%d songs", n)
}

// Search filters the snapshot the way the list view does. An empty (or
// whitespace-only) query lists every song. Otherwise matching is a
// case-insensitive substring test; songs match on title or artist name and
// come first, then artists by name, then vibes by name.
func Search(s Snapshot, query string) []Item {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		items := make([]Item, len(s.Songs))
		for i, song := range s.Songs {
			items[i] = SongItem(song)
		}
		return items
	}

	var items []Item
	for _, song := range s.Songs {
		if contains(song.Title, q) || contains(song.ArtistName(), q) {
			items = append(items, SongItem(song))
		}
	}
	for _, a := range s.Artists {
		if contains(a.Name, q) {
			items = append(items, ArtistItem(a))
		}
	}
	for _, v := range s.Vibes {
		if contains(v.Name, q) {
			items = append(items, VibeItem(v))
		}
	}
	return items
}

func contains(s, lowerQuery string) bool {
	return s != "" && strings.Contains(strings.ToLower(s), lowerQuery)
}

// Lookup resolves an Item back to its record. ok is false when the id is no
// longer part of the snapshot.
func (s Snapshot) Lookup(it Item) (record any, ok bool) {
	switch it.Kind {
	case KindSong:
		for i := range s.Songs {
			if s.Songs[i].ID == it.ID {
				return s.Songs[i], true
			}
		}
	case KindArtist:
		for i := range s.Artists {
			if s.Artists[i].ID == it.ID {
				return s.Artists[i], true
			}
		}
	case KindVibe:
		for i := range s.Vibes {
			if s.Vibes[i].ID == it.ID {
				return s.Vibes[i], true
			}
		}
	}
	return nil, false
}
