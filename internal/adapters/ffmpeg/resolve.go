// Package ffmpeg acquires and decodes media by shelling out to ffmpeg,
// with yt-dlp resolving remote locators to direct stream URLs.
package ffmpeg

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/relvid/sqlstream/internal/ports"
)

// ytdlpFormat caps resolved streams at 360p; text output gains nothing
// from higher source resolution and decode cost scales with it.
const ytdlpFormat = "best[height<=360]"

// Resolve turns a source locator into something ffmpeg can open. Local
// paths pass through; http(s) URLs are resolved to a direct stream URL
// via yt-dlp.
func Resolve(ctx context.Context, source string, logger ports.Logger) (string, error) {
	if !strings.HasPrefix(source, "http://") && !strings.HasPrefix(source, "https://") {
		return source, nil
	}

	cmd := exec.CommandContext(ctx, "yt-dlp", "-f", ytdlpFormat, "-g", source)
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("resolve %s via yt-dlp: %w", source, err)
	}
	url := strings.TrimSpace(strings.SplitN(string(out), "\n", 2)[0])
	if url == "" {
		return "", fmt.Errorf("resolve %s: yt-dlp returned no stream URL", source)
	}
	if logger != nil {
		logger.Debug("resolved stream URL", ports.String("source", source))
	}
	return url, nil
}
