package pipeline

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"

	"github.com/tunegrab/tunegrab/internal/fetch"
	"github.com/tunegrab/tunegrab/internal/logger"
	"github.com/tunegrab/tunegrab/internal/probe"
	"github.com/tunegrab/tunegrab/internal/tags"
	"github.com/tunegrab/tunegrab/internal/tempfiles"
	"github.com/tunegrab/tunegrab/internal/ytdlp"
)

// FormatAudio is the request format value selecting the MP3 audio branch;
// anything else takes the video branch.
const FormatAudio = "mp3"

// DownloadRequest is one client's download order. Artist, when present,
// overrides every artist value the metadata dump reported.
type DownloadRequest struct {
	URL    string
	Format string
	Artist string
}

func (r DownloadRequest) isAudio() bool {
	return r.Format == FormatAudio
}

// Orchestrator runs the download pipeline for one request at a time:
// resolve metadata, extract the asset, tag it (audio only), stream it back
// and clean up every temp asset no matter how the request ends.
type Orchestrator struct {
	runner  ytdlp.Runner
	fetcher *fetch.Fetcher
	temps   *tempfiles.Manager
}

func NewOrchestrator(runner ytdlp.Runner, fetcher *fetch.Fetcher, temps *tempfiles.Manager) *Orchestrator {
	return &Orchestrator{
		runner:  runner,
		fetcher: fetcher,
		temps:   temps,
	}
}

// Run owns the response lifecycle for one download request. The caller
// must have validated req already; from here on every exit path, including
// panics in stage code bubbling up as errors, ends in exactly one cleanup
// pass over the temp assets allocated so far.
func (o *Orchestrator) Run(w http.ResponseWriter, r *http.Request, req DownloadRequest) {
	ctx := r.Context()
	resp := newResponder(w)

	var assets []string
	defer func() {
		// Exactly one cleanup per request. Paths whose files were
		// never written are tolerated by the manager.
		o.temps.Cleanup(ctx, assets...)
	}()

	meta, err := ytdlp.ResolveMetadata(ctx, o.runner, req.URL)
	if err != nil {
		logger.Error(ctx, "metadata resolution failed", err, logger.Fields{
			"url": req.URL,
		})
		resp.fail(http.StatusInternalServerError, "could not fetch info: "+err.Error())
		return
	}

	ext := ".mp4"
	args := ytdlp.VideoArgs
	if req.isAudio() {
		ext = ".mp3"
		args = ytdlp.AudioArgs
	}

	mediaPath := o.temps.Allocate(meta.Title, ext)
	assets = append(assets, mediaPath)

	if _, err := o.runner.Run(ctx, args(req.URL, mediaPath)...); err != nil {
		logger.Error(ctx, "asset extraction failed", err, logger.Fields{
			"url":    req.URL,
			"format": req.Format,
		})
		resp.fail(http.StatusInternalServerError, err.Error())
		return
	}
	if _, err := os.Stat(mediaPath); err != nil {
		logger.Error(ctx, "extraction reported success but produced no file", err, logger.Fields{
			"path": mediaPath,
		})
		resp.fail(http.StatusInternalServerError, "extraction produced no output file")
		return
	}

	if req.isAudio() {
		thumbPath := o.temps.Allocate(meta.Title, ".jpg")
		assets = append(assets, thumbPath)

		if err := o.fetcher.Download(ctx, meta.Thumbnail, thumbPath); err != nil {
			logger.Error(ctx, "thumbnail fetch failed", err, logger.Fields{
				"thumbnail": meta.Thumbnail,
			})
			resp.fail(http.StatusInternalServerError, "could not fetch cover art")
			return
		}

		o.embedTags(ctx, mediaPath, thumbPath, meta, req)
	}

	o.stream(ctx, resp, req, meta, mediaPath)
}

// embedTags builds the tag set and writes it into the extracted audio
// file. Failure is a degraded outcome, not a pipeline error: the untagged
// file is still deliverable.
func (o *Orchestrator) embedTags(ctx context.Context, mediaPath, thumbPath string, meta *ytdlp.Metadata, req DownloadRequest) {
	artist := meta.Artist
	if req.Artist != "" {
		artist = req.Artist
	}

	duration, err := probe.MP3Duration(mediaPath)
	if err != nil {
		logger.Warn(ctx, "could not probe audio duration", logger.Fields{
			"path":  mediaPath,
			"error": err.Error(),
		})
		duration = 0
	} else {
		logger.Info(ctx, "extracted audio asset", logger.Fields{
			"title":    meta.Title,
			"duration": duration.String(),
		})
	}

	set := tags.TagSet{
		Title:     meta.Title,
		Artist:    artist,
		CoverPath: thumbPath,
		Duration:  duration,
	}
	if !tags.Embed(ctx, mediaPath, set) {
		logger.Warn(ctx, "delivering untagged audio file", logger.Fields{
			"path": mediaPath,
		})
	}
}

// stream pipes the finished asset to the client. Once headers go out no
// error response is possible anymore, so stream failures and disconnects
// only log and fall through to the deferred cleanup.
func (o *Orchestrator) stream(ctx context.Context, resp *responder, req DownloadRequest, meta *ytdlp.Metadata, mediaPath string) {
	f, err := os.Open(mediaPath)
	if err != nil {
		logger.Error(ctx, "failed to open asset for streaming", err, logger.Fields{
			"path": mediaPath,
		})
		resp.fail(http.StatusInternalServerError, streamFailureMessage(req))
		return
	}
	defer f.Close()

	if !resp.markSent() {
		return
	}

	filename := tempfiles.Sanitize(meta.Title)
	contentType := "video/mp4"
	ext := ".mp4"
	if req.isAudio() {
		contentType = "audio/mpeg"
		ext = ".mp3"
	}
	resp.w.Header().Set("Content-Type", contentType)
	resp.w.Header().Set("Content-Disposition", `attachment; filename="`+filename+ext+`"`)

	if _, err := io.Copy(resp.w, f); err != nil {
		if ctx.Err() != nil || errors.Is(err, context.Canceled) {
			// The client went away; nobody is listening for an error.
			logger.Info(ctx, "client disconnected mid-stream", logger.Fields{
				"path": mediaPath,
			})
			return
		}
		logger.Error(ctx, "stream to client failed", err, logger.Fields{
			"path": mediaPath,
		})
		return
	}

	logger.Info(ctx, "download completed", logger.Fields{
		"title":  meta.Title,
		"format": req.Format,
	})
}

func streamFailureMessage(req DownloadRequest) string {
	if req.isAudio() {
		return "could not deliver audio file"
	}
	return "could not deliver video file"
}
