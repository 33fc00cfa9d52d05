package storage

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MaxFileSize caps attachment uploads.
const MaxFileSize = 25 * 1024 * 1024 // 25 MB

var (
	// ErrEmptyFile is returned for zero-byte uploads.
	ErrEmptyFile = errors.New("file is empty")
	// ErrFileTooLarge is returned when the upload exceeds MaxFileSize.
	ErrFileTooLarge = errors.New("file exceeds maximum size")
)

// SavedFile describes a file written by the store.
type SavedFile struct {
	Path        string // relative path under the base directory
	ContentType string
	Size        int64
}

// LocalStore writes uploads to local disk under date-partitioned directories
// and serves them back through a static URL prefix.
type LocalStore struct {
	baseDir    string
	staticBase string
}

// NewLocalStore creates a local file store rooted at baseDir.
func NewLocalStore(baseDir, staticBase string) *LocalStore {
	return &LocalStore{baseDir: baseDir, staticBase: staticBase}
}

// BaseDir returns the directory files are stored under.
func (s *LocalStore) BaseDir() string {
	return s.baseDir
}

// Save writes the uploaded file under uploads/YYYY/MM/DD/<uuid>_<name>.
func (s *LocalStore) Save(fileHeader *multipart.FileHeader) (*SavedFile, error) {
	if fileHeader.Size == 0 {
		return nil, ErrEmptyFile
	}
	if fileHeader.Size > MaxFileSize {
		return nil, ErrFileTooLarge
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer file.Close()

	// Detect content type from the first 512 bytes.
	buf := make([]byte, 512)
	n, _ := file.Read(buf)
	contentType := strings.Split(http.DetectContentType(buf[:n]), ";")[0]
	if seeker, ok := file.(io.Seeker); ok {
		_, _ = seeker.Seek(0, io.SeekStart)
	}

	now := time.Now()
	relDir := fmt.Sprintf("%d/%02d/%02d", now.Year(), now.Month(), now.Day())
	absDir := filepath.Join(s.baseDir, relDir)
	if err := os.MkdirAll(absDir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload directory: %w", err)
	}

	filename := fmt.Sprintf("%s_%s", uuid.New().String(), sanitizeName(fileHeader.Filename))
	absPath := filepath.Join(absDir, filename)

	dst, err := os.Create(absPath)
	if err != nil {
		return nil, fmt.Errorf("create file: %w", err)
	}
	defer dst.Close()

	written, err := io.Copy(dst, file)
	if err != nil {
		_ = os.Remove(absPath)
		return nil, fmt.Errorf("write file: %w", err)
	}

	return &SavedFile{
		Path:        filepath.ToSlash(filepath.Join(relDir, filename)),
		ContentType: contentType,
		Size:        written,
	}, nil
}

// Remove deletes a previously saved file.
func (s *LocalStore) Remove(relPath string) error {
	return os.Remove(filepath.Join(s.baseDir, filepath.FromSlash(relPath)))
}

// PublicURL returns the URL a saved file is served under.
func (s *LocalStore) PublicURL(relPath string) string {
	return s.staticBase + "/" + relPath
}

// sanitizeName strips path separators and whitespace from an original file
// name so it is safe to embed in a stored filename.
func sanitizeName(name string) string {
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, " ", "_")
	name = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '-'
		}
		return r
	}, name)
	if name == "" || name == "." {
		name = "file"
	}
	return name
}
