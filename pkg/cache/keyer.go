package cache

// Keyer generates cache keys. Swapping the Keyer (see [NewScopedKeyer]) gives
// callers separate namespaces in a shared backend.
type Keyer interface {
	// CatalogKey names a snapshot loaded from a source.
	CatalogKey(source string) string

	// GraphKey names a build result of a snapshot.
	GraphKey(snapshotHash string, opts GraphKeyOpts) string

	// ArtifactKey names one rendered artifact of a graph.
	ArtifactKey(graphHash string, opts ArtifactKeyOpts) string
}

// GraphKeyOpts holds the build options that change a graph.
type GraphKeyOpts struct {
	Mode     string `json:"mode"`
	Dangling string `json:"dangling"`
}

// ArtifactKeyOpts holds the render options that change an artifact.
type ArtifactKeyOpts struct {
	Format   string  `json:"format"`
	Width    float64 `json:"width,omitempty"`
	Height   float64 `json:"height,omitempty"`
	Zoom     float64 `json:"zoom,omitempty"`
	Sizing   string  `json:"sizing,omitempty"`
	Pins     string  `json:"pins,omitempty"`
	Detailed bool    `json:"detailed,omitempty"`
	Legend   bool    `json:"legend,omitempty"`
	Mode     string  `json:"mode,omitempty"`     // view mode, for artifacts that embed it
	Dangling string  `json:"dangling,omitempty"` // hash of the reported dangling references
}

// DefaultKeyer hashes key options into fixed-length keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// CatalogKey returns "catalog:<source>".
func (DefaultKeyer) CatalogKey(source string) string {
	return KindCatalog + ":" + source
}

// GraphKey returns "graph:<hash>".
func (DefaultKeyer) GraphKey(snapshotHash string, opts GraphKeyOpts) string {
	return hashKey(KindGraph, snapshotHash, opts)
}

// ArtifactKey returns "artifact:<hash>".
func (DefaultKeyer) ArtifactKey(graphHash string, opts ArtifactKeyOpts) string {
	return hashKey(KindArtifact, graphHash, opts)
}

var _ Keyer = DefaultKeyer{}
