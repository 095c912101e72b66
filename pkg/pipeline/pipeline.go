// Package pipeline provides the build → render pipeline for vibegraph.
//
// The CLI and the HTTP API share this package so that a graph built from a
// catalogue looks the same wherever it is requested, and so that both reuse
// the same cache entries.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: Read a catalogue snapshot from a [source.Source]
//  2. Build: Derive the graph for one view mode
//  3. Render: Generate output in various formats (JSON, DOT, SVG, PNG, PDF, frame)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	snap, _, err := runner.Load(ctx, src, false)
//	if err != nil {
//	    return err
//	}
//	result, err := runner.Execute(ctx, snap, pipeline.Options{
//	    Mode:    graph.ModeArtist,
//	    Formats: []string{"svg"},
//	})
//	if err != nil {
//	    return err
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/vibegraph/pkg/cache"
	verrors "github.com/matzehuels/vibegraph/pkg/errors"
	"github.com/matzehuels/vibegraph/pkg/graph"
	"github.com/matzehuels/vibegraph/pkg/sizing"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultWidth is the default frame width in pixels.
	DefaultWidth = 800.0

	// DefaultHeight is the default frame height in pixels.
	DefaultHeight = 600.0

	// DefaultZoom is the camera zoom of rendered frames.
	DefaultZoom = 1.0
)

// DefaultMode is the view mode used when none is requested.
const DefaultMode = graph.ModeVibe

// DefaultDangling is the dangling reference policy used when none is requested.
const DefaultDangling = graph.DanglingDrop

// Format constants for output formats.
const (
	FormatJSON  = "json"
	FormatDOT   = "dot"
	FormatSVG   = "svg"
	FormatPNG   = "png"
	FormatPDF   = "pdf"
	FormatFrame = "frame"
)

// DefaultFormats is used when Options.Formats is empty.
var DefaultFormats = []string{FormatSVG}

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatJSON:  true,
	FormatDOT:   true,
	FormatSVG:   true,
	FormatPNG:   true,
	FormatPDF:   true,
	FormatFrame: true,
}

// ContentType returns the MIME type of a rendered format.
func ContentType(format string) string {
	switch format {
	case FormatJSON:
		return "application/json"
	case FormatDOT:
		return "text/vnd.graphviz"
	case FormatSVG, FormatFrame:
		return "image/svg+xml"
	case FormatPNG:
		return "image/png"
	case FormatPDF:
		return "application/pdf"
	}
	return "application/octet-stream"
}

// Extension returns the file extension for a rendered format.
func Extension(format string) string {
	if format == FormatFrame {
		return "frame.svg"
	}
	return format
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Build options
	Mode     graph.ViewMode       `json:"mode,omitempty"`
	Dangling graph.DanglingPolicy `json:"dangling,omitempty"`
	Refresh  bool                 `json:"refresh,omitempty"`

	// Render options
	Formats  []string        `json:"formats,omitempty"`
	Width    float64         `json:"width,omitempty"`
	Height   float64         `json:"height,omitempty"`
	Zoom     float64         `json:"zoom,omitempty"`
	Sizing   sizing.Policy   `json:"sizing"`
	Pins     graph.Positions `json:"pins,omitempty"`
	Detailed bool            `json:"detailed,omitempty"` // id and connection count in DOT labels
	Legend   bool            `json:"legend,omitempty"`   // node type legend on frames

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Build is the graph with its counts and dangling references.
	Build graph.Result

	// SnapshotHash is the content hash of the input catalogue.
	SnapshotHash string

	// GraphHash is the content hash of the built graph.
	GraphHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	SongCount     int
	NodeCount     int
	LinkCount     int
	DanglingCount int
	BuildTime     time.Duration
	RenderTime    time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	BuildHit  bool
	RenderHit bool
}

// =============================================================================
// Validation
// =============================================================================

// ValidateAndSetDefaults validates options and fills in defaults.
// Calling it more than once is a no-op.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForBuild(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForBuild validates and defaults the build options only.
func (o *Options) ValidateForBuild() error {
	mode, err := graph.ParseViewMode(string(o.Mode))
	if err != nil {
		return err
	}
	o.Mode = mode

	dangling, err := graph.ParseDanglingPolicy(string(o.Dangling))
	if err != nil {
		return err
	}
	o.Dangling = dangling

	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
	return nil
}

// ValidateForRender validates and defaults the render options only.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Width < 0 || o.Height < 0 {
		return verrors.New(verrors.ErrCodeInvalidInput,
			"frame size must not be negative, got %gx%g", o.Width, o.Height)
	}
	return o.Sizing.Validate()
}

// SetRenderDefaults fills in unset render options.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = append([]string(nil), DefaultFormats...)
	}
	for i, f := range o.Formats {
		o.Formats[i] = strings.ToLower(strings.TrimSpace(f))
	}
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Zoom <= 0 {
		o.Zoom = DefaultZoom
	}
	o.Sizing = o.Sizing.WithDefaults()
}

// ValidateFormat checks that format is supported. Format names are
// case-sensitive; [Options.SetRenderDefaults] lowercases user input first.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return verrors.New(verrors.ErrCodeInvalidFormat,
			"unknown format %q (want json, dot, svg, png, pdf or frame)", format)
	}
	return nil
}

// ValidateFormats checks every format. An empty list is valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// HasFormat reports whether format was requested.
func (o Options) HasFormat(format string) bool {
	for _, f := range o.Formats {
		if f == format {
			return true
		}
	}
	return false
}

// =============================================================================
// Cache Keys
// =============================================================================

// GraphKeyOpts returns the options that change a build result.
func (o Options) GraphKeyOpts() cache.GraphKeyOpts {
	return cache.GraphKeyOpts{
		Mode:     string(o.Mode),
		Dangling: string(o.Dangling),
	}
}

// ArtifactKeyOpts returns the options that change the artifact of format.
// Options a format ignores are left out so that, say, a zoom change does
// not invalidate cached DOT output.
func (o Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{
		Format: format,
		Sizing: fmt.Sprintf("%g/%g/%g", o.Sizing.SongSize, o.Sizing.BaseSize, o.Sizing.ScaleFactor),
	}
	switch format {
	case FormatJSON:
	case FormatFrame:
		k.Width, k.Height, k.Zoom = o.Width, o.Height, o.Zoom
		k.Pins = pinsHash(o.Pins)
		k.Legend = o.Legend
	default:
		k.Pins = pinsHash(o.Pins)
		k.Detailed = o.Detailed
	}
	return k
}

// ResultKeyOpts extends ArtifactKeyOpts with the parts of res that an
// artifact carries beyond its graph. The JSON document embeds the view mode
// and the dangling references, and two builds can share a graph hash while
// differing in both.
func (o Options) ResultKeyOpts(res graph.Result, format string) cache.ArtifactKeyOpts {
	k := o.ArtifactKeyOpts(format)
	if format == FormatJSON {
		k.Mode = string(res.Mode)
		k.Dangling = danglingHash(res.Dangling)
	}
	return k
}

func danglingHash(refs []graph.DanglingRef) string {
	h, _ := cache.HashJSON(refs)
	return h
}

func pinsHash(pins graph.Positions) string {
	h, _ := cache.HashJSON(pins)
	return h
}
