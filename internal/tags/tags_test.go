package tags

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	id3v2 "github.com/bogem/id3v2/v2"
)

func TestEmbedWritesTags(t *testing.T) {
	dir := t.TempDir()
	audio := filepath.Join(dir, "song.mp3")
	if err := os.WriteFile(audio, []byte("fake mp3 payload"), 0o644); err != nil {
		t.Fatalf("write audio: %v", err)
	}
	cover := filepath.Join(dir, "cover.jpg")
	if err := os.WriteFile(cover, []byte("fake jpeg payload"), 0o644); err != nil {
		t.Fatalf("write cover: %v", err)
	}

	ok := Embed(context.Background(), audio, TagSet{
		Title:     "Song",
		Artist:    "Artist",
		CoverPath: cover,
		Duration:  3 * time.Second,
	})
	if !ok {
		t.Fatal("Embed reported failure")
	}

	tag, err := id3v2.Open(audio, id3v2.Options{Parse: true})
	if err != nil {
		t.Fatalf("reopen tagged file: %v", err)
	}
	defer tag.Close()

	if tag.Title() != "Song" {
		t.Errorf("title=%q want Song", tag.Title())
	}
	if tag.Artist() != "Artist" {
		t.Errorf("artist=%q want Artist", tag.Artist())
	}
	if pics := tag.GetFrames(tag.CommonID("Attached picture")); len(pics) == 0 {
		t.Error("expected an attached picture frame")
	}
	if frames := tag.GetFrames("TLEN"); len(frames) == 0 {
		t.Error("expected a TLEN frame")
	}
}

func TestEmbedMissingFileIsNonFatal(t *testing.T) {
	ok := Embed(context.Background(), filepath.Join(t.TempDir(), "missing.mp3"), TagSet{
		Title:  "Song",
		Artist: "Artist",
	})
	if ok {
		t.Fatal("Embed on a missing file should report failure")
	}
}

func TestEmbedMissingCoverStillTags(t *testing.T) {
	audio := filepath.Join(t.TempDir(), "song.mp3")
	if err := os.WriteFile(audio, []byte("fake mp3 payload"), 0o644); err != nil {
		t.Fatalf("write audio: %v", err)
	}

	ok := Embed(context.Background(), audio, TagSet{
		Title:     "Song",
		Artist:    "Artist",
		CoverPath: filepath.Join(t.TempDir(), "missing.jpg"),
	})
	if !ok {
		t.Fatal("missing cover art should not fail the embed")
	}

	tag, err := id3v2.Open(audio, id3v2.Options{Parse: true})
	if err != nil {
		t.Fatalf("reopen tagged file: %v", err)
	}
	defer tag.Close()
	if tag.Title() != "Song" {
		t.Errorf("title=%q want Song", tag.Title())
	}
	if pics := tag.GetFrames(tag.CommonID("Attached picture")); len(pics) != 0 {
		t.Error("no picture frame expected when the cover file is missing")
	}
}
