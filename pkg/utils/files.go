// Package utils contains file path helpers shared by the loaders and hosts.
package utils

import (
	"path/filepath"
	"strings"
)

// GetPathInfo resolves relPath to a cleaned absolute path and returns it
// together with the file name without its extension.
func GetPathInfo(relPath string) (fullPath string, name string, err error) {
	fullPath, err = filepath.Abs(relPath)
	if err != nil {
		return "", "", err
	}

	name = strings.TrimSuffix(filepath.Base(fullPath), filepath.Ext(fullPath))
	return fullPath, name, nil
}

// ReplaceExt returns path with its extension replaced by ext. A path without
// an extension gets ext appended.
func ReplaceExt(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}
