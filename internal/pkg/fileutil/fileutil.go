package fileutil

import (
	"errors"
	"path/filepath"
	"strings"
)

var ErrUnsafeName = errors.New("unsafe file name")

// SanitizeName reduces a client-supplied file name to a bare base name so it
// can never escape the uploads directory.
func SanitizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrUnsafeName
	}

	base := filepath.Base(filepath.Clean(name))
	if base == "." || base == ".." || base == string(filepath.Separator) {
		return "", ErrUnsafeName
	}
	if strings.ContainsAny(base, "/\\") || strings.Contains(base, "..") {
		return "", ErrUnsafeName
	}
	return base, nil
}
