package graph_test

import (
	"fmt"
	"os"

	"github.com/matzehuels/vibegraph/pkg/catalog"
	"github.com/matzehuels/vibegraph/pkg/graph"
)

func ExampleBuild() {
	snap := catalog.Snapshot{
		Songs: []catalog.Song{
			{ID: "s1", Title: "Neon Nights", Duration: 244, ArtistID: "a1",
				Vibes: []catalog.VibeRef{{ID: "v1"}, {ID: "v2"}}},
			{ID: "s2", Title: "Digital Dawn", Duration: 198, ArtistID: "a1",
				Vibes: []catalog.VibeRef{{ID: "v1"}}},
		},
		Artists: []catalog.Artist{{ID: "a1", Name: "Electric Dreams"}},
		Vibes: []catalog.Vibe{
			{ID: "v1", Name: "Chill", Color: "#4A90E2"},
			{ID: "v2", Name: "Focused"},
		},
	}

	for _, mode := range []graph.ViewMode{graph.ModeVibe, graph.ModeArtist} {
		res, err := graph.Build(snap, mode)
		if err != nil {
			fmt.Println("Error:", err)
			return
		}
		fmt.Printf("%s mode: %d nodes, %d links\n", mode, len(res.Graph.Nodes), len(res.Graph.Links))
		for _, n := range res.Graph.Nodes {
			if n.IsSecondary() {
				fmt.Printf("  %s %s %d\n", n.ID, n.Color, res.Counts[n.ID])
			}
		}
	}
	// Output:
	// vibe mode: 4 nodes, 3 links
	//   vibe-v1 #4A90E2 2
	//   vibe-v2 #22c55e 1
	// artist mode: 3 nodes, 2 links
	//   artist-a1 #4f46e5 2
}

func ExampleBuild_dangling() {
	snap := catalog.Snapshot{
		Songs: []catalog.Song{{ID: "s1", Title: "Lost", Duration: 100, ArtistID: "gone"}},
	}

	res, _ := graph.Build(snap, graph.ModeArtist)
	fmt.Println("links:", len(res.Graph.Links))
	fmt.Println("dangling:", res.Dangling[0].Target)

	res, _ = graph.Build(snap, graph.ModeArtist, graph.WithDangling(graph.DanglingPlaceholder))
	n, _ := res.Graph.Node("artist-gone")
	fmt.Println("placeholder:", n.Label)

	_, err := graph.Build(snap, graph.ModeArtist, graph.WithDangling(graph.DanglingStrict))
	fmt.Println("strict:", err != nil)
	// Output:
	// links: 0
	// dangling: artist-gone
	// placeholder: <unknown>
	// strict: true
}

func ExampleWriteGraph() {
	snap := catalog.Snapshot{
		Songs: []catalog.Song{{ID: "s1", Title: "X", Duration: 200, ArtistID: "a1",
			Vibes: []catalog.VibeRef{{ID: "v1"}}}},
		Vibes: []catalog.Vibe{{ID: "v1", Name: "Chill", Color: "#4A90E2"}},
	}
	res, _ := graph.Build(snap, graph.ModeVibe)

	if err := graph.WriteGraph(res.Graph, os.Stdout); err != nil {
		fmt.Println("Error:", err)
	}
	// Output:
	// {
	//   "nodes": [
	//     {
	//       "id": "song-s1",
	//       "label": "X",
	//       "color": "#9333ea",
	//       "type": "song",
	//       "cluster": "vibe-v1"
	//     },
	//     {
	//       "id": "vibe-v1",
	//       "label": "Chill",
	//       "color": "#4A90E2",
	//       "type": "vibe"
	//     }
	//   ],
	//   "links": [
	//     {
	//       "source": "song-s1",
	//       "target": "vibe-v1",
	//       "color": "#4A90E2"
	//     }
	//   ]
	// }
}
