package domain

import (
	"fmt"
	"path"
	"strings"
)

// FileRecord is a raw file held in the backend upload area.
// The client only ever holds a read-only snapshot, replaced on each fetch.
type FileRecord struct {
	// Name is the file name shown to the operator.
	Name string `json:"name" yaml:"name"`

	// Path is the backend path. It is unique and stable across refreshes.
	Path string `json:"path" yaml:"path"`

	// Size is the file size in bytes.
	Size int64 `json:"size" yaml:"size"`

	// Modified is the last modification time reported by the backend.
	Modified Timestamp `json:"modified" yaml:"modified"`
}

// BaseName returns the last path segment of the file's path.
// The delete endpoint addresses files by this name.
func (f FileRecord) BaseName() string {
	return BaseName(f.Path)
}

// BaseName returns the last slash-separated segment of p.
// Backslashes are treated as separators so Windows-style paths work too.
func BaseName(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	p = strings.TrimRight(p, "/")
	if p == "" {
		return ""
	}
	return path.Base(p)
}

// FormatSize renders a byte count in B, KB, MB or GB.
func FormatSize(bytes int64) string {
	if bytes <= 0 {
		return "0 B"
	}
	const unit = 1024
	units := []string{"B", "KB", "MB", "GB"}
	size := float64(bytes)
	i := 0
	for size >= unit && i < len(units)-1 {
		size /= unit
		i++
	}
	if i == 0 {
		return fmt.Sprintf("%d B", bytes)
	}
	return fmt.Sprintf("%.2f %s", size, units[i])
}

// FilePaths returns the Path of every record, preserving order.
func FilePaths(files []FileRecord) []string {
	ids := make([]string, len(files))
	for i, f := range files {
		ids[i] = f.Path
	}
	return ids
}
