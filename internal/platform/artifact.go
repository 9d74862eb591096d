package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

// File permissions
const (
	DefaultDirPermissions = 0755
)

// MaxBaseNameLength caps the sanitized title portion of an artifact name so
// the full path stays well under filesystem limits.
const MaxBaseNameLength = 95

// SanitizeTitle converts a media title into a filesystem-safe base name:
// path-hostile and non-printable characters are stripped and the result is
// capped at MaxBaseNameLength.
func SanitizeTitle(title string) string {
	base := slug.Make(title)
	if base == "" {
		base = "download"
	}
	if len(base) > MaxBaseNameLength {
		base = strings.Trim(base[:MaxBaseNameLength], "-")
	}
	return base
}

// ArtifactPath returns a unique destination path inside dir for the given
// title and extension. The random suffix keeps concurrent jobs with similar
// titles from ever colliding on a filename.
func ArtifactPath(dir, title, ext string) string {
	name := fmt.Sprintf("%s-%s.%s", SanitizeTitle(title), uuid.NewString()[:8], strings.TrimPrefix(ext, "."))
	return filepath.Join(dir, name)
}

// CreateDirectoryIfNotExists creates directory if it doesn't exist.
func CreateDirectoryIfNotExists(dirPath string) error {
	if _, err := os.Stat(dirPath); os.IsNotExist(err) {
		return os.MkdirAll(dirPath, DefaultDirPermissions)
	}
	return nil
}

// FormatSize renders a byte count as a human readable string.
func FormatSize(bytes int64) string {
	if bytes <= 0 {
		return "0B"
	}
	units := []string{"B", "KB", "MB", "GB"}
	size := float64(bytes)
	i := 0
	for size >= 1024 && i < len(units)-1 {
		size /= 1024
		i++
	}
	if i == 0 {
		return fmt.Sprintf("%d%s", bytes, units[i])
	}
	return fmt.Sprintf("%.1f%s", size, units[i])
}
