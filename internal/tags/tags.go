package tags

import (
	"context"
	"net/http"
	"os"
	"strconv"
	"time"

	id3v2 "github.com/bogem/id3v2/v2"

	"github.com/tunegrab/tunegrab/internal/logger"
)

// TagSet is the full set of descriptive tags written into one audio file.
// CoverPath points at an already-downloaded image; an empty CoverPath or a
// missing file simply skips the cover frame. Duration of zero skips TLEN.
type TagSet struct {
	Title     string
	Artist    string
	CoverPath string
	Duration  time.Duration
}

// Embed writes set into the MP3 at filePath in place. Tagging is best
// effort: any failure is logged as a warning and reported as false, and
// the caller is expected to deliver the untagged file anyway.
func Embed(ctx context.Context, filePath string, set TagSet) bool {
	tag, err := id3v2.Open(filePath, id3v2.Options{Parse: true})
	if err != nil {
		logger.Warn(ctx, "failed to open audio file for tagging", logger.Fields{
			"path":  filePath,
			"error": err.Error(),
		})
		return false
	}
	defer tag.Close()

	tag.SetTitle(set.Title)
	tag.SetArtist(set.Artist)

	if set.Duration > 0 {
		tag.AddTextFrame("TLEN", id3v2.EncodingUTF8, strconv.FormatInt(set.Duration.Milliseconds(), 10))
	}

	if set.CoverPath != "" {
		if artwork, err := os.ReadFile(set.CoverPath); err == nil {
			pic := id3v2.PictureFrame{
				Encoding:    id3v2.EncodingUTF8,
				MimeType:    http.DetectContentType(artwork),
				PictureType: id3v2.PTFrontCover,
				Description: "Cover",
				Picture:     artwork,
			}
			tag.AddAttachedPicture(pic)
		} else {
			logger.Warn(ctx, "failed to read cover art file", logger.Fields{
				"path":  set.CoverPath,
				"error": err.Error(),
			})
		}
	}

	if err := tag.Save(); err != nil {
		logger.Warn(ctx, "failed to save audio tags", logger.Fields{
			"path":  filePath,
			"error": err.Error(),
		})
		return false
	}

	return true
}
