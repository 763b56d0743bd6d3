package project

import (
	"os"
	"path"
	"path/filepath"
	"strings"
)

// ResolveMedia fills HasMedia and MediaURL on rec.
//
// An absolute http(s) URL is treated as externally hosted. Anything else is
// reduced to its base filename, which must exist as a regular file directly
// under mediaDir; the public URL is then urlPrefix + "/" + filename.
func ResolveMedia(rec *Record, mediaDir, urlPrefix string) {
	rec.HasMedia = false
	rec.MediaURL = nil
	if rec.Media == nil {
		return
	}

	media := strings.TrimSpace(*rec.Media)
	if media == "" {
		return
	}

	if isRemoteURL(media) {
		rec.HasMedia = true
		rec.MediaURL = &media
		return
	}

	name := path.Base(filepath.ToSlash(media))
	if name == "." || name == "/" || name == ".." {
		return
	}

	info, err := os.Stat(filepath.Join(mediaDir, name))
	if err != nil || !info.Mode().IsRegular() {
		return
	}

	url := strings.TrimRight(urlPrefix, "/") + "/" + name
	rec.HasMedia = true
	rec.MediaURL = &url
}

func isRemoteURL(s string) bool {
	lower := strings.ToLower(s)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
