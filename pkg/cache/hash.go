package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
)

// Key namespaces. Every key starts with one of these, optionally behind a
// [ScopedKeyer] prefix.
const (
	KindCatalog  = "catalog"
	KindGraph    = "graph"
	KindArtifact = "artifact"
)

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// HashJSON hashes the JSON encoding of v. Map keys are sorted by
// encoding/json, so equal maps hash alike. Empty values (nil, empty slices
// and maps) hash to "" so they can be left out of key options.
func HashJSON(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	switch string(data) {
	case "null", "[]", "{}":
		return "", nil
	}
	return Hash(data), nil
}

// hashKey builds "<kind>:<sha256 of parts>".
func hashKey(kind string, parts ...any) string {
	data, _ := json.Marshal(parts)
	return kind + ":" + Hash(data)
}

// KeyKind returns the namespace of key with any scope prefix skipped, or ""
// when key is in none of them.
func KeyKind(key string) string {
	for _, kind := range []string{KindCatalog, KindGraph, KindArtifact} {
		if strings.HasPrefix(key, kind+":") || strings.Contains(key, ":"+kind+":") {
			return kind
		}
	}
	return ""
}
