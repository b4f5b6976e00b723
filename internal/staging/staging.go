// Package staging holds uploaded dashboard files on local disk between the
// multipart request and the upstream upload call. Every staged batch is
// owned by a Batch guard; Close releases the files on every exit path, so a
// failed create flow never leaks temp files.
package staging

import (
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

type Area struct {
	dir string
}

func NewArea(dir string) (*Area, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create staging dir: %w", err)
	}
	return &Area{dir: dir}, nil
}

// File is one staged upload, addressable by path for the upstream client.
type File struct {
	Path     string
	Name     string // original client filename
	Size     int64
	Primary  bool
	Position int
}

// Batch owns a set of staged files. Callers must defer Close.
type Batch struct {
	id    string
	dir   string
	files []File
}

// Stage writes the incoming multipart files into a fresh batch directory,
// preserving the submitted order (index 0 = primary display image).
func (a *Area) Stage(files []*multipart.FileHeader) (*Batch, error) {
	b := &Batch{id: uuid.NewString()}
	b.dir = filepath.Join(a.dir, b.id)
	if err := os.MkdirAll(b.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create batch dir: %w", err)
	}

	for i, fh := range files {
		dst := filepath.Join(b.dir, fmt.Sprintf("%03d_%s", i, filepath.Base(fh.Filename)))
		if err := saveMultipart(fh, dst); err != nil {
			b.Close()
			return nil, fmt.Errorf("stage %s: %w", fh.Filename, err)
		}
		b.files = append(b.files, File{
			Path:     dst,
			Name:     filepath.Base(fh.Filename),
			Size:     fh.Size,
			Primary:  i == 0,
			Position: i,
		})
	}
	return b, nil
}

func (b *Batch) Files() []File { return b.files }

func (b *Batch) Empty() bool { return len(b.files) == 0 }

// Move reorders a staged file from one index to another, shifting the rest.
// Primary and position markers are recomputed so index 0 stays primary.
func (b *Batch) Move(from, to int) error {
	n := len(b.files)
	if from < 0 || from >= n || to < 0 || to >= n {
		return fmt.Errorf("move %d -> %d out of range (%d files)", from, to, n)
	}
	f := b.files[from]
	b.files = append(b.files[:from], b.files[from+1:]...)
	rest := append([]File{}, b.files[to:]...)
	b.files = append(append(b.files[:to:to], f), rest...)
	for i := range b.files {
		b.files[i].Position = i
		b.files[i].Primary = i == 0
	}
	return nil
}

// Close removes the batch directory and all staged files. Safe to call more
// than once.
func (b *Batch) Close() error {
	if b.dir == "" {
		return nil
	}
	err := os.RemoveAll(b.dir)
	b.dir = ""
	b.files = nil
	return err
}

func saveMultipart(fh *multipart.FileHeader, dst string) error {
	src, err := fh.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := out.ReadFrom(src); err != nil {
		return err
	}
	return nil
}
