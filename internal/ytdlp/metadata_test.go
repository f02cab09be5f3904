package ytdlp

import (
	"context"
	"errors"
	"testing"
)

// fakeRunner returns canned output or a canned error for every invocation.
type fakeRunner struct {
	out  []byte
	err  error
	args []string
}

func (f *fakeRunner) Run(_ context.Context, args ...string) ([]byte, error) {
	f.args = args
	return f.out, f.err
}

func TestResolveMetadata(t *testing.T) {
	tests := []struct {
		name       string
		out        string
		wantArtist string
	}{
		{
			name:       "uploader preferred over artist",
			out:        `{"title":"Song","thumbnail":"http://img/t.jpg","uploader":"Uploader","artist":"Artist"}`,
			wantArtist: "Uploader",
		},
		{
			name:       "uploader alone",
			out:        `{"title":"Song","thumbnail":"http://img/t.jpg","uploader":"Uploader"}`,
			wantArtist: "Uploader",
		},
		{
			name:       "artist fallback when no uploader",
			out:        `{"title":"Song","thumbnail":"http://img/t.jpg","artist":"Artist"}`,
			wantArtist: "Artist",
		},
		{
			name:       "unknown artist sentinel",
			out:        `{"title":"Song","thumbnail":"http://img/t.jpg"}`,
			wantArtist: UnknownArtist,
		},
	}
	for _, tt := range tests {
		runner := &fakeRunner{out: []byte(tt.out)}
		meta, err := ResolveMetadata(context.Background(), runner, "http://example.com/v")
		if err != nil {
			t.Fatalf("%s: ResolveMetadata: %v", tt.name, err)
		}
		if meta.Title != "Song" {
			t.Errorf("%s: title=%q want Song", tt.name, meta.Title)
		}
		if meta.Artist != tt.wantArtist {
			t.Errorf("%s: artist=%q want %q", tt.name, meta.Artist, tt.wantArtist)
		}
		if len(runner.args) != 2 || runner.args[0] != "--dump-json" {
			t.Errorf("%s: unexpected tool args %v", tt.name, runner.args)
		}
	}
}

func TestResolveMetadataIncompleteData(t *testing.T) {
	tests := []struct {
		name string
		out  string
	}{
		{name: "missing title", out: `{"thumbnail":"http://img/t.jpg"}`},
		{name: "missing thumbnail", out: `{"title":"Song"}`},
		{name: "unparseable", out: `not json`},
	}
	for _, tt := range tests {
		runner := &fakeRunner{out: []byte(tt.out)}
		_, err := ResolveMetadata(context.Background(), runner, "http://example.com/v")
		var metaErr *MetadataError
		if !errors.As(err, &metaErr) {
			t.Errorf("%s: want *MetadataError, got %v", tt.name, err)
		}
	}
}

func TestResolveMetadataToolFailure(t *testing.T) {
	runner := &fakeRunner{err: &ToolError{Message: "ERROR: unsupported url"}}
	_, err := ResolveMetadata(context.Background(), runner, "http://example.com/v")

	// Tool failures must stay distinguishable from incomplete data.
	var toolErr *ToolError
	if !errors.As(err, &toolErr) {
		t.Fatalf("want *ToolError, got %v", err)
	}
	var metaErr *MetadataError
	if errors.As(err, &metaErr) {
		t.Fatal("tool failure must not be reported as a metadata error")
	}
}

func TestArgVectors(t *testing.T) {
	audio := AudioArgs("http://u", "/tmp/a.mp3")
	want := []string{"-x", "--audio-format", "mp3", "-o", "/tmp/a.mp3", "http://u"}
	if len(audio) != len(want) {
		t.Fatalf("AudioArgs length %d want %d", len(audio), len(want))
	}
	for i := range want {
		if audio[i] != want[i] {
			t.Errorf("AudioArgs[%d]=%q want %q", i, audio[i], want[i])
		}
	}

	video := VideoArgs("http://u", "/tmp/v.mp4")
	if video[0] != "-f" || video[1] != "best" || video[3] != "/tmp/v.mp4" || video[4] != "http://u" {
		t.Errorf("unexpected VideoArgs %v", video)
	}
}
