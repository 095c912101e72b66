package graph

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// =============================================================================
// Graph Serialization API
// =============================================================================

// MarshalGraph converts a graph to indented JSON bytes.
func MarshalGraph(g GraphData) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeGraphTo(g, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalGraph decodes JSON bytes into a validated graph.
func UnmarshalGraph(data []byte) (GraphData, error) {
	return readGraphFrom(bytes.NewReader(data))
}

// WriteGraph writes a graph as JSON to an io.Writer.
func WriteGraph(g GraphData, w io.Writer) error {
	return writeGraphTo(g, w)
}

// WriteGraphFile writes a graph to a JSON file.
func WriteGraphFile(g GraphData, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return writeGraphTo(g, f)
}

// ReadGraph decodes a JSON graph from an io.Reader.
// Duplicate node ids or unknown node types are rejected.
func ReadGraph(r io.Reader) (GraphData, error) {
	return readGraphFrom(r)
}

// ReadGraphFile reads a JSON graph file.
func ReadGraphFile(path string) (GraphData, error) {
	f, err := os.Open(path)
	if err != nil {
		return GraphData{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return readGraphFrom(f)
}

// Hash returns a hex SHA-256 of the graph's compact JSON encoding. Equal
// graphs with equal ordering hash equally.
func Hash(g GraphData) (string, error) {
	data, err := json.Marshal(g)
	if err != nil {
		return "", fmt.Errorf("encode: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// =============================================================================
// Internal Implementation
// =============================================================================

func writeGraphTo(g GraphData, w io.Writer) error {
	if g.Nodes == nil {
		g.Nodes = []Node{}
	}
	if g.Links == nil {
		g.Links = []Link{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(g); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func readGraphFrom(r io.Reader) (GraphData, error) {
	var g GraphData
	if err := json.NewDecoder(r).Decode(&g); err != nil {
		return GraphData{}, fmt.Errorf("decode: %w", err)
	}
	if err := g.Validate(); err != nil {
		return GraphData{}, err
	}
	return g, nil
}
