package postprocessors

import (
	"github.com/aswinpillai2222/Ai-Capstone/internal/core/ports/driven"
	"github.com/aswinpillai2222/Ai-Capstone/internal/postprocessors/chunker"
	"github.com/aswinpillai2222/Ai-Capstone/internal/postprocessors/references"
)

// RegisterDefaults registers all built-in processors with the registry.
func RegisterDefaults(r *Registry) {
	r.Register("chunker", buildChunker)
	r.Register("references", buildReferences)
}

// buildChunker creates a chunker processor from generic config.
// Supported config keys:
//   - chunk_size (int): Characters per chunk (default: 1024)
//   - overlap (int): Overlapping characters between chunks (default: 200)
//
// Invalid combinations fail with domain.ErrInvalidChunkConfig.
func buildChunker(cfg map[string]any) (driven.PostProcessor, error) {
	var opts []chunker.Option

	if size, ok := getIntFromConfig(cfg, "chunk_size"); ok {
		opts = append(opts, chunker.WithChunkSize(size))
	}
	if overlap, ok := getIntFromConfig(cfg, "overlap"); ok {
		opts = append(opts, chunker.WithOverlap(overlap))
	}

	return chunker.New(opts...)
}

// buildReferences creates the bibliography trimmer.
// Supported config keys:
//   - min_position (float): fraction of the text before which a heading is ignored
func buildReferences(cfg map[string]any) (driven.PostProcessor, error) {
	var opts []references.Option
	if v, ok := cfg["min_position"].(float64); ok {
		opts = append(opts, references.WithMinPosition(v))
	}
	return references.New(opts...), nil
}

// getIntFromConfig extracts an int from a generic config map.
// Handles int, int64, and float64 types that may come from TOML/JSON parsing.
func getIntFromConfig(cfg map[string]any, key string) (int, bool) {
	val, ok := cfg[key]
	if !ok {
		return 0, false
	}

	switch v := val.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}
