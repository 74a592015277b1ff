package ports

// FileSystem is the file access used for note files, source images, the
// encoded video, summaries and debug frames.
type FileSystem interface {
	// ReadFile returns the whole file at path.
	ReadFile(path string) ([]byte, error)

	// WriteFile replaces the file at path with data. Parent directories are
	// created as needed.
	WriteFile(path string, data []byte) error

	// MkdirAll creates path and any missing parents.
	MkdirAll(path string) error
}
