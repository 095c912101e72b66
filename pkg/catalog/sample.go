package catalog

import (
	"strings"
	"unicode"
)

type sampleVibe struct {
	name, description, color string
}

type sampleSong struct {
	title    string
	duration int
	vibes    []string
}

type sampleArtist struct {
	name  string
	songs []sampleSong
}

var sampleVibes = []sampleVibe{
	{"Chill", "Relaxing and mellow music", "#4A90E2"},
	{"Energetic", "High-energy music to get you pumped", "#E25B4A"},
	{"Focused", "Music for concentration and productivity", "#50E3C2"},
	{"Melancholy", "Thoughtful and emotional music", "#9B59B6"},
	{"Uplifting", "Music that elevates your mood", "#F39C12"},
	{"Dreamy", "Ethereal and atmospheric sounds", "#8E44AD"},
	{"Intense", "Powerful and dramatic compositions", "#C0392B"},
	{"Jazzy", "Smooth and sophisticated jazz vibes", "#7D3C98"},
	{"Nostalgic", "Music that brings back memories", "#2980B9"},
	{"Experimental", "Avant-garde and boundary-pushing music", "#1ABC9C"},
}

var sampleArtists = []sampleArtist{
	{"Electric Dreams", []sampleSong{
		{"Neon Nights", 244, []string{"Chill", "Focused"}},
		{"Digital Dawn", 198, []string{"Energetic"}},
		{"Cybernetic Sunset", 275, []string{"Dreamy", "Chill"}},
		{"Virtual Reality", 222, []string{"Experimental", "Intense"}},
		{"Binary Bliss", 234, []string{"Uplifting", "Energetic"}},
		{"Circuit Breaker", 198, []string{"Intense", "Energetic"}},
		{"Synth Symphony", 315, []string{"Focused", "Dreamy"}},
		{"Pixel Paradise", 241, []string{"Uplifting", "Chill"}},
		{"Digital Daydream", 263, []string{"Dreamy", "Experimental"}},
		{"Electron Echo", 218, []string{"Focused", "Experimental"}},
	}},
	{"Ocean Waves", []sampleSong{
		{"Moonlit Shore", 312, []string{"Melancholy", "Chill"}},
		{"Coastal Breeze", 256, []string{"Chill"}},
		{"Tidal Dreams", 287, []string{"Dreamy", "Chill"}},
		{"Sea Whispers", 298, []string{"Melancholy", "Dreamy"}},
		{"Deep Blue", 325, []string{"Intense", "Melancholy"}},
		{"Coral Reef", 268, []string{"Uplifting", "Chill"}},
		{"Island Morning", 243, []string{"Uplifting", "Nostalgic"}},
		{"Stormy Waters", 276, []string{"Intense", "Experimental"}},
	}},
	{"Quantum Beat", []sampleSong{
		{"Particle Flow", 224, []string{"Focused", "Energetic"}},
		{"Wave Function", 272, []string{"Focused"}},
		{"String Theory", 246, []string{"Experimental", "Intense"}},
		{"Quantum Leap", 208, []string{"Energetic", "Uplifting"}},
		{"Subatomic Dance", 234, []string{"Energetic", "Experimental"}},
		{"Dark Matter", 285, []string{"Intense", "Melancholy"}},
		{"Higgs Boson", 223, []string{"Focused", "Experimental"}},
		{"Quantum Entanglement", 267, []string{"Dreamy", "Experimental"}},
		{"Parallel Universe", 312, []string{"Dreamy", "Intense"}},
	}},
	{"Midnight Voyage", []sampleSong{
		{"Starlight Cruise", 286, []string{"Dreamy", "Chill"}},
		{"Cosmic Journey", 327, []string{"Experimental", "Dreamy"}},
		{"Astral Projection", 293, []string{"Experimental", "Intense"}},
		{"Nebula Drift", 305, []string{"Chill", "Dreamy"}},
		{"Celestial Bodies", 268, []string{"Uplifting", "Dreamy"}},
		{"Interstellar Overdrive", 352, []string{"Intense", "Experimental"}},
		{"Lunar Phases", 274, []string{"Melancholy", "Dreamy"}},
		{"Solar Winds", 248, []string{"Chill", "Uplifting"}},
	}},
	{"Urban Echoes", []sampleSong{
		{"City Lights", 235, []string{"Energetic", "Nostalgic"}},
		{"Concrete Jungle", 267, []string{"Intense", "Energetic"}},
		{"Neon District", 248, []string{"Nostalgic", "Chill"}},
		{"Subway Dreams", 219, []string{"Melancholy", "Nostalgic"}},
		{"Rooftop Views", 258, []string{"Chill", "Uplifting"}},
		{"Urban Decay", 273, []string{"Intense", "Experimental"}},
		{"Street Pulse", 226, []string{"Energetic", "Focused"}},
		{"Skyscraper Shadows", 288, []string{"Melancholy", "Intense"}},
		{"Downtown Dusk", 245, []string{"Nostalgic", "Chill"}},
	}},
	{"Velvet Harmony", []sampleSong{
		{"Smooth Sensation", 265, []string{"Jazzy", "Chill"}},
		{"Midnight Serenade", 296, []string{"Jazzy", "Melancholy"}},
		{"Silken Notes", 253, []string{"Jazzy", "Uplifting"}},
		{"Velvet Dreams", 278, []string{"Dreamy", "Jazzy"}},
		{"Brass & Soul", 243, []string{"Jazzy", "Energetic"}},
		{"Piano Whispers", 284, []string{"Melancholy", "Jazzy"}},
		{"Saxophone Stories", 308, []string{"Jazzy", "Nostalgic"}},
		{"Rhythm & Blues", 237, []string{"Jazzy", "Intense"}},
	}},
	{"Forest Reverie", []sampleSong{
		{"Woodland Whispers", 318, []string{"Chill", "Dreamy"}},
		{"Ancient Pines", 342, []string{"Nostalgic", "Melancholy"}},
		{"Rustling Leaves", 276, []string{"Chill", "Focused"}},
		{"Misty Glade", 295, []string{"Dreamy", "Melancholy"}},
		{"Forest Canopy", 328, []string{"Uplifting", "Dreamy"}},
		{"Wild Streams", 257, []string{"Energetic", "Uplifting"}},
		{"Fallen Log", 289, []string{"Melancholy", "Experimental"}},
		{"Pinecone Path", 264, []string{"Nostalgic", "Chill"}},
	}},
	{"Digital Horizon", []sampleSong{
		{"Algorithm Groove", 238, []string{"Focused", "Energetic"}},
		{"Data Stream", 256, []string{"Experimental", "Focused"}},
		{"Neural Network", 274, []string{"Energetic", "Experimental"}},
		{"Infinite Loop", 312, []string{"Dreamy", "Experimental"}},
		{"Encryption Key", 228, []string{"Intense", "Focused"}},
		{"Digital Detox", 295, []string{"Chill", "Melancholy"}},
		{"Code Poetry", 245, []string{"Focused", "Uplifting"}},
		{"Byte-sized Dreams", 268, []string{"Dreamy", "Nostalgic"}},
	}},
	{"Vintage Vinyl", []sampleSong{
		{"Analog Hearts", 263, []string{"Nostalgic", "Jazzy"}},
		{"Record Crackle", 289, []string{"Nostalgic", "Chill"}},
		{"Phonograph Blues", 315, []string{"Melancholy", "Jazzy"}},
		{"Cassette Memories", 247, []string{"Nostalgic", "Dreamy"}},
		{"Turntable Dreams", 274, []string{"Jazzy", "Uplifting"}},
		{"B-Side Stories", 253, []string{"Nostalgic", "Melancholy"}},
		{"Vinyl Revival", 238, []string{"Energetic", "Nostalgic"}},
		{"Radio Waves", 281, []string{"Nostalgic", "Uplifting"}},
	}},
	{"Aurora Borealis", []sampleSong{
		{"Northern Lights", 347, []string{"Dreamy", "Intense"}},
		{"Polar Skies", 328, []string{"Chill", "Dreamy"}},
		{"Frozen Echoes", 296, []string{"Melancholy", "Experimental"}},
		{"Arctic Winds", 318, []string{"Intense", "Dreamy"}},
		{"Ice Crystal", 275, []string{"Chill", "Focused"}},
		{"Glacial Movement", 356, []string{"Experimental", "Melancholy"}},
		{"Winter Solstice", 308, []string{"Melancholy", "Dreamy"}},
		{"Midnight Sun", 284, []string{"Uplifting", "Dreamy"}},
	}},
}

// Sample returns the demo catalogue: 10 vibes, 10 artists and 84 songs.
// Ids are slugs of the names so the output is stable across runs.
func Sample() Snapshot {
	var snap Snapshot
	vibeIDs := make(map[string]string, len(sampleVibes))
	for _, v := range sampleVibes {
		id := Slug(v.name)
		vibeIDs[v.name] = id
		snap.Vibes = append(snap.Vibes, Vibe{ID: id, Name: v.name, Description: v.description, Color: v.color})
	}
	for _, a := range sampleArtists {
		artistID := Slug(a.name)
		snap.Artists = append(snap.Artists, Artist{
			ID:       artistID,
			Name:     a.name,
			ImageURL: "https://example.com/artists/" + artistID + ".jpg",
		})
		for _, s := range a.songs {
			song := Song{ID: Slug(s.title), Title: s.title, Duration: s.duration, ArtistID: artistID}
			for _, name := range s.vibes {
				song.Vibes = append(song.Vibes, VibeRef{ID: vibeIDs[name]})
			}
			snap.Songs = append(snap.Songs, song)
		}
	}
	return snap.Denormalize()
}

// Slug lowercases s and collapses every run of non-alphanumerics into a
// single dash.
func Slug(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
