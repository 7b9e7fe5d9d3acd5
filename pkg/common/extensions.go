package common

import (
	"net/url"
	"path"
	"strings"
)

var imageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}

// IsImageURL tells by the path's extension whether the URL most likely points directly at an image. Query strings
// and fragments are ignored.
func IsImageURL(rawURL string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return IsStringInSlice(strings.ToLower(path.Ext(parsed.Path)), imageExtensions)
}
