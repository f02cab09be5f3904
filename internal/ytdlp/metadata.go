package ytdlp

import (
	"context"
	"encoding/json"

	"github.com/tunegrab/tunegrab/internal/logger"
)

// UnknownArtist is the sentinel used when the source has neither an artist
// nor an uploader.
const UnknownArtist = "Unknown Artist"

// Metadata describes a single media item as reported by the extraction
// tool's JSON dump. Artist is already normalized: uploader, then the
// dump's artist, then UnknownArtist, so downstream consumers need no
// fallback logic.
type Metadata struct {
	Title     string `json:"title"`
	Thumbnail string `json:"thumbnail"`
	Uploader  string `json:"uploader"`
	Artist    string `json:"artist"`
}

// ResolveMetadata dumps metadata for url and validates that the fields the
// pipeline depends on are present.
func ResolveMetadata(ctx context.Context, runner Runner, url string) (*Metadata, error) {
	out, err := runner.Run(ctx, "--dump-json", url)
	if err != nil {
		return nil, err
	}

	var meta Metadata
	if err := json.Unmarshal(out, &meta); err != nil {
		return nil, &MetadataError{Reason: "could not parse metadata dump: " + err.Error()}
	}

	if meta.Title == "" {
		return nil, &MetadataError{Reason: "metadata is missing a title"}
	}
	if meta.Thumbnail == "" {
		return nil, &MetadataError{Reason: "metadata is missing a thumbnail url"}
	}

	if meta.Uploader != "" {
		meta.Artist = meta.Uploader
	}
	if meta.Artist == "" {
		meta.Artist = UnknownArtist
	}

	logger.Debug(ctx, "resolved media metadata", logger.Fields{
		"title":    meta.Title,
		"uploader": meta.Uploader,
		"artist":   meta.Artist,
	})

	return &meta, nil
}
