package ytdlp

import (
	"bytes"
	"context"
	"os/exec"

	"github.com/tunegrab/tunegrab/internal/logger"
)

// Runner executes the extraction tool with an argument vector and returns
// its stdout. Implementations must never pass arguments through a shell.
type Runner interface {
	Run(ctx context.Context, args ...string) ([]byte, error)
}

// Tool runs the yt-dlp binary found at Path.
type Tool struct {
	Path string
}

func NewTool(path string) *Tool {
	return &Tool{Path: path}
}

// Run spawns the tool and waits for it to exit. The context is used for
// request-scoped logging only: a client that goes away mid-download does
// not kill the child process, it runs to completion and its output is
// discarded by the caller.
func (t *Tool) Run(ctx context.Context, args ...string) ([]byte, error) {
	logger.Debug(ctx, "running extraction tool", logger.Fields{
		"tool": t.Path,
		"args": args,
	})

	cmd := exec.Command(t.Path, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		message := stderr.String()
		if message == "" {
			message = "extraction tool failed: " + err.Error()
		}
		return nil, &ToolError{Message: message}
	}

	return stdout.Bytes(), nil
}
