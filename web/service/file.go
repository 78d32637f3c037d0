package service

import (
	"encoding/base64"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/amoskalev/notepanel/util/common"
	"github.com/amoskalev/notepanel/util/sandbox"

	"github.com/google/uuid"
	"github.com/shirou/gopsutil/v4/disk"
)

// FileService is the admin file manager. Every caller path goes through the
// sandbox before any filesystem call. Concurrent writes to the same path are
// last-writer-wins.
type FileService struct {
	box *sandbox.Sandbox
}

func NewFileService(box *sandbox.Sandbox) *FileService {
	return &FileService{box: box}
}

type FileEntry struct {
	Name     string `json:"name"`
	IsDir    bool   `json:"is_dir"`
	Size     int64  `json:"size"`
	Modified int64  `json:"modified"`
}

type FileListing struct {
	Path    string      `json:"path"`
	Entries []FileEntry `json:"entries"`
}

type DiskUsage struct {
	Total       uint64  `json:"total"`
	Used        uint64  `json:"used"`
	Free        uint64  `json:"free"`
	UsedPercent float64 `json:"used_percent"`
	TotalHuman  string  `json:"total_human"`
	FreeHuman   string  `json:"free_human"`
}

func (s *FileService) resolve(rel string) (string, error) {
	p, err := s.box.Resolve(rel)
	if errors.Is(err, sandbox.ErrInvalidPath) {
		return "", ErrInvalidPath
	}
	return p, err
}

// List returns the entries of a directory. A directory that does not exist
// yet lists as empty.
func (s *FileService) List(rel string) (*FileListing, error) {
	target, err := s.resolve(rel)
	if err != nil {
		return nil, err
	}
	listing := &FileListing{Path: rel, Entries: make([]FileEntry, 0)}

	dirEntries, err := os.ReadDir(target)
	if errors.Is(err, fs.ErrNotExist) {
		return listing, nil
	} else if err != nil {
		if info, statErr := os.Stat(target); statErr == nil && !info.IsDir() {
			return nil, ErrNotADirectory
		}
		return nil, err
	}

	for _, de := range dirEntries {
		info, err := de.Info()
		if err != nil {
			// removed between ReadDir and Info
			continue
		}
		listing.Entries = append(listing.Entries, FileEntry{
			Name:     de.Name(),
			IsDir:    de.IsDir(),
			Size:     info.Size(),
			Modified: info.ModTime().Unix(),
		})
	}
	return listing, nil
}

// Upload writes base64 content to rel/name, creating rel when missing.
func (s *FileService) Upload(rel, name, contentBase64 string) error {
	if name == "" || contentBase64 == "" {
		return ErrNameAndContentRequired
	}
	if _, err := s.resolve(rel); err != nil {
		return err
	}
	dest, err := s.resolve(filepath.Join(rel, name))
	if err != nil {
		return err
	}
	if s.box.IsRoot(dest) {
		return ErrPathIsDirectory
	}
	content, err := base64.StdEncoding.DecodeString(contentBase64)
	if err != nil {
		return ErrInvalidContent
	}

	if info, err := os.Stat(dest); err == nil && info.IsDir() {
		return ErrPathIsDirectory
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return withCause(ErrWriteFailed, err)
	}

	tmp := filepath.Join(filepath.Dir(dest), "."+uuid.NewString()+".upload")
	if err := os.WriteFile(tmp, content, 0o644); err != nil {
		_ = os.Remove(tmp)
		return withCause(ErrWriteFailed, err)
	}
	if err := os.Rename(tmp, dest); err != nil {
		_ = os.Remove(tmp)
		return withCause(ErrWriteFailed, err)
	}
	return nil
}

func (s *FileService) CreateFolder(rel, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrNameRequired
	}
	target, err := s.resolve(filepath.Join(rel, name))
	if err != nil {
		return err
	}
	if s.box.IsRoot(target) {
		return ErrInvalidPath
	}
	if err := os.MkdirAll(target, 0o755); err != nil {
		return withCause(ErrMkdirFailed, err)
	}
	return nil
}

// Delete removes a file or an empty directory. The root itself is never removed.
func (s *FileService) Delete(rel string) error {
	target, err := s.resolve(rel)
	if err != nil {
		return err
	}
	if s.box.IsRoot(target) {
		return ErrInvalidPath
	}

	info, err := os.Lstat(target)
	if errors.Is(err, fs.ErrNotExist) {
		return ErrNotFound
	} else if err != nil {
		return withCause(ErrDeleteFailed, err)
	}

	if info.IsDir() {
		entries, err := os.ReadDir(target)
		if err != nil {
			return withCause(ErrDeleteFailed, err)
		}
		if len(entries) > 0 {
			return ErrDirNotEmpty
		}
	}
	if err := os.Remove(target); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrNotFound
		}
		return withCause(ErrDeleteFailed, err)
	}
	return nil
}

// Usage reports the filesystem holding the sandbox root.
func (s *FileService) Usage() (*DiskUsage, error) {
	if err := s.box.EnsureRoot(); err != nil {
		return nil, err
	}
	stat, err := disk.Usage(s.box.Root())
	if err != nil {
		return nil, err
	}
	return &DiskUsage{
		Total:       stat.Total,
		Used:        stat.Used,
		Free:        stat.Free,
		UsedPercent: stat.UsedPercent,
		TotalHuman:  common.FormatBytes(stat.Total),
		FreeHuman:   common.FormatBytes(stat.Free),
	}, nil
}
