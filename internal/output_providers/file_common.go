package outputproviders

import (
	"crypto/rand"
	"encoding/hex"
	"os"
	"path/filepath"
)

// GetFullPath constructs the full file path from filename and output path
func GetFullPath(filename string, outputPath string) string {
	return outputPath + string(os.PathSeparator) + filename
}

// GenerateShortUUID generates a random 10-character UUID
func GenerateShortUUID() string {
	b := make([]byte, 5) // 5 bytes = 10 hex characters
	if _, err := rand.Read(b); err != nil {
		return "" // In case of error, return empty string
	}
	return hex.EncodeToString(b)
}

// DefaultFileName builds "<prefix>-<short uuid>.<ext>" for results that did
// not carry an explicit filename.
func DefaultFileName(prefix string, ext string) string {
	return prefix + "-" + GenerateShortUUID() + "." + ext
}

// ForceExtension swaps whatever extension filename carries for ext. File
// providers all resolve the same --filename flag and run concurrently, so
// each one stamps its own format onto the stem instead of letting two
// formats race for the identical path.
func ForceExtension(filename string, ext string) string {
	return filename[:len(filename)-len(filepath.Ext(filename))] + "." + ext
}

// EnsureDir creates the directory holding fullpath when missing.
func EnsureDir(fullpath string) error {
	dir := filepath.Dir(fullpath)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return os.MkdirAll(dir, os.ModePerm)
	}
	return nil
}
