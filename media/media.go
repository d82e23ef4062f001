// Package media inspects image files referenced by content entries.
package media

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"mime"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/webp"
)

// ErrRemote is returned by Locate for images that are not served from the
// local public directory.
var ErrRemote = errors.New("media: remote image")

// Info describes an image file.
type Info struct {
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
	MIME   string `json:"type"`
	Length int64  `json:"length"`
}

// Inspect reads the header of the image at path. Formats the decoders do
// not understand (SVG, AVIF) still report their MIME type by extension and
// their byte length, with zero dimensions.
func Inspect(path string) (Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return Info{}, fmt.Errorf("open image: %w", err)
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return Info{}, fmt.Errorf("stat image: %w", err)
	}
	info := Info{Length: st.Size(), MIME: TypeByExtension(path)}

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		if info.MIME == "" {
			return Info{}, fmt.Errorf("decode image config: %w", err)
		}
		return info, nil
	}
	info.Width, info.Height = cfg.Width, cfg.Height
	info.MIME = "image/" + format
	return info, nil
}

// TypeByExtension returns the MIME type for the extension of name, or "".
func TypeByExtension(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	switch ext {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".webp":
		return "image/webp"
	case ".avif":
		return "image/avif"
	case ".svg":
		return "image/svg+xml"
	}
	t := mime.TypeByExtension(ext)
	if i := strings.IndexByte(t, ';'); i >= 0 {
		t = t[:i]
	}
	return t
}

// Locate maps a site-relative image URL such as "/images/a.webp" to a file
// under publicDir. Absolute http(s) URLs return ErrRemote.
func Locate(publicDir, src string) (string, error) {
	if src == "" {
		return "", fmt.Errorf("empty image src: %w", os.ErrNotExist)
	}
	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") || strings.HasPrefix(src, "//") {
		return "", ErrRemote
	}
	if i := strings.IndexAny(src, "?#"); i >= 0 {
		src = src[:i]
	}
	clean := filepath.Clean("/" + filepath.FromSlash(src))
	return filepath.Join(publicDir, clean), nil
}

// InspectSrc locates src under publicDir and inspects it.
func InspectSrc(publicDir, src string) (Info, error) {
	path, err := Locate(publicDir, src)
	if err != nil {
		return Info{}, err
	}
	return Inspect(path)
}
