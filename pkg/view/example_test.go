package view_test

import (
	"fmt"

	"github.com/matzehuels/vibegraph/pkg/catalog"
	"github.com/matzehuels/vibegraph/pkg/graph"
	"github.com/matzehuels/vibegraph/pkg/view"
)

func ExampleController() {
	c, err := view.New(catalog.Sample())
	if err != nil {
		panic(err)
	}
	c.OnNodeClick(func(n graph.PlacedNode) {
		fmt.Printf("clicked %s (%s)\n", n.Label, n.Type)
	})

	fmt.Println(c)
	_, _ = c.Click("vibe-dreamy", graph.Position{X: 10, Y: 10})

	_ = c.DragEnd("song-neon-nights", graph.Position{X: 40, Y: 40})
	_ = c.Toggle()
	fmt.Println(c)
	// Output:
	// view(vibe, 94 nodes, 165 links, 0 pins)
	// clicked Dreamy (vibe)
	// view(artist, 94 nodes, 84 links, 1 pins)
}

func ExamplePins() {
	p := view.NewPins(nil)
	p.Set("song-a", graph.Position{X: 1, Y: 2})
	p.Set("vibe-chill", graph.Position{X: 3, Y: 4})
	p.Delete("song-a")
	fmt.Println(p.IDs())
	// Output: [vibe-chill]
}
