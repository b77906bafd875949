package markup

import (
	"fmt"
	"regexp"
	"strconv"
)

var youtubeRegex = regexp.MustCompile(`^.*(youtu.be\/|youtube(-nocookie)?.com\/(v\/|.*u\/\w\/|embed\/|.*v=))([\w-]{11}).*`)

// YouTubeID extracts the video id from a YouTube URL.
func YouTubeID(url string) (string, bool) {
	matches := youtubeRegex.FindStringSubmatch(url)
	if matches == nil {
		return "", false
	}
	return matches[4], true
}

// minVideoWidth bounds maxWidth for narrow content widths.
const minVideoWidth = 160

// videoSize computes the dimensions of an embedded video (16:9) bounded by maxWidth.
// Zero values are computed from the other dimension.
func videoSize(width, height, maxWidth float64) (float64, float64) {
	if maxWidth < minVideoWidth {
		maxWidth = minVideoWidth
	}
	switch {
	case width <= 0 && height <= 0:
		width = maxWidth
		height = width * 9 / 16
	case width <= 0:
		width = height * 16 / 9
	case height <= 0:
		height = width * 9 / 16
	}
	if width > maxWidth {
		height = height * maxWidth / width
		width = maxWidth
	}
	return width, height
}

func formatSize(value float64) string {
	return fmt.Sprintf("%.6g", value)
}

func parseSize(value string) float64 {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0
	}
	return f
}
