// Package repository persists entity documents as one JSON file per entity,
// bucketed into era folders by discovery year. Large documents are gzipped.
package repository

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/okian/novacat/internal/domain/entity"
	"github.com/okian/novacat/pkg/logger"
)

// Store is the persistence boundary used by the directory and the journal.
type Store interface {
	Save(ctx context.Context, e *entity.Entity) error
	Load(ctx context.Context, name string) (*entity.Entity, error)
	Delete(ctx context.Context, name string) error
	LoadStubs(ctx context.Context) ([]*entity.Entity, error)
}

// yearRun finds the first four-digit year in an entity name.
var yearRun = regexp.MustCompile(`[12][0-9]{3}`)

// DiskStore writes documents under root/<repo folder>/<name>.json. It is
// safe for use from a single writer; concurrent writers must serialize.
type DiskStore struct {
	root          string
	repos         []string
	bounds        []int
	compressAbove int64
	log           logger.Logger
}

// NewDiskStore creates the store and its folder tree.
func NewDiskStore(root string, opts ...Option) (*DiskStore, error) {
	s := &DiskStore{
		root:          root,
		repos:         []string{"sne-pre-1990", "sne-1990-1999", "sne-2000-2009", "sne-2010-2019", "sne-2020-2029"},
		compressAbove: 90_000_000,
		log:           logger.Named("repository"),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.bounds = make([]int, len(s.repos))
	for i, r := range s.repos {
		tail := r[len(r)-4:]
		bound, err := strconv.Atoi(tail)
		if err != nil {
			return nil, fmt.Errorf("repository: folder %q has no trailing year: %w", r, err)
		}
		s.bounds[i] = bound
	}
	// The first folder is the pre-era bucket: its bound year belongs to the
	// next folder.
	s.bounds[0]--

	for _, r := range s.repos {
		if err := os.MkdirAll(filepath.Join(root, r), 0o755); err != nil {
			return nil, fmt.Errorf("repository: create folder: %w", err)
		}
	}
	return s, nil
}

// Save finalizes nothing; it writes the document exactly as the entity
// stands. The previous file for the name is replaced, switching between
// plain and gzipped forms as the size dictates.
func (s *DiskStore) Save(ctx context.Context, e *entity.Entity) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := MarshalDocument(e)
	if err != nil {
		return err
	}

	folder := s.folderFor(e)
	plain := filepath.Join(s.root, folder, FileName(e.Name()))
	gzipped := plain + ".gz"

	if int64(len(data)) > s.compressAbove {
		f, err := os.Create(gzipped)
		if err != nil {
			return fmt.Errorf("repository: save: %w", err)
		}
		zw := gzip.NewWriter(f)
		if _, err := zw.Write(data); err != nil {
			f.Close()
			return fmt.Errorf("repository: save: %w", err)
		}
		if err := zw.Close(); err != nil {
			f.Close()
			return fmt.Errorf("repository: save: %w", err)
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("repository: save: %w", err)
		}
		_ = os.Remove(plain)
		return nil
	}

	if err := os.WriteFile(plain, data, 0o644); err != nil {
		return fmt.Errorf("repository: save: %w", err)
	}
	_ = os.Remove(gzipped)
	return nil
}

// Load reads and decodes the document for the given canonical name.
func (s *DiskStore) Load(ctx context.Context, name string) (*entity.Entity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, compressed, ok := s.find(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	data, err := readMaybeGzip(path, compressed)
	if err != nil {
		return nil, fmt.Errorf("repository: load %s: %w", name, err)
	}
	return UnmarshalDocument(data)
}

// Delete removes the document for the given name. Deleting a name that has
// no document is not an error.
func (s *DiskStore) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, _, ok := s.find(name)
	if !ok {
		return nil
	}
	return os.Remove(path)
}

// LoadStubs scans every folder and returns each stored entity as a stub
// carrying only its name and aliases. Used to seed the directory at start.
func (s *DiskStore) LoadStubs(ctx context.Context) ([]*entity.Entity, error) {
	var stubs []*entity.Entity
	for _, repo := range s.repos {
		entries, err := os.ReadDir(filepath.Join(s.root, repo))
		if err != nil {
			return nil, fmt.Errorf("repository: scan %s: %w", repo, err)
		}
		for _, de := range entries {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			name := de.Name()
			if de.IsDir() || !strings.Contains(name, ".json") {
				continue
			}
			path := filepath.Join(s.root, repo, name)
			data, err := readMaybeGzip(path, strings.HasSuffix(name, ".gz"))
			if err != nil {
				return nil, fmt.Errorf("repository: scan %s: %w", name, err)
			}
			e, err := UnmarshalDocument(data)
			if err != nil {
				s.log.Warn(ctx, "skipping undecodable document",
					logger.String("file", path), logger.Error(err))
				continue
			}
			stubs = append(stubs, entity.NewStub(e.Name(), e.Aliases()))
		}
	}
	return stubs, nil
}

// find locates the document file for a name across folders and forms.
func (s *DiskStore) find(name string) (path string, compressed, ok bool) {
	base := FileName(name)
	for _, repo := range s.repos {
		plain := filepath.Join(s.root, repo, base)
		if _, err := os.Stat(plain); err == nil {
			return plain, false, true
		}
		if _, err := os.Stat(plain + ".gz"); err == nil {
			return plain + ".gz", true, true
		}
	}
	return "", false, false
}

// folderFor buckets an entity into the first folder whose year bound covers
// its discovery year. Entities with no discernible year land in the last
// folder.
func (s *DiskStore) folderFor(e *entity.Entity) string {
	year, ok := entityYear(e)
	if ok {
		for i, bound := range s.bounds {
			if year <= bound {
				return s.repos[i]
			}
		}
	}
	return s.repos[len(s.repos)-1]
}

// entityYear extracts the discovery year from metadata, falling back to the
// first year-like digit run in the name.
func entityYear(e *entity.Entity) (int, bool) {
	if y, err := strconv.Atoi(strings.TrimSpace(e.Meta.DiscoverYear)); err == nil {
		return y, true
	}
	if m := yearRun.FindString(e.Name()); m != "" {
		y, _ := strconv.Atoi(m)
		return y, true
	}
	return 0, false
}

// FileName maps a canonical name to its document file name. Slashes in
// survey names would otherwise split the path.
func FileName(name string) string {
	return strings.ReplaceAll(name, "/", "_") + ".json"
}

// readMaybeGzip reads a file, transparently decompressing .gz documents.
func readMaybeGzip(path string, compressed bool) ([]byte, error) {
	if !compressed {
		return os.ReadFile(path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	zr, err := gzip.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	return io.ReadAll(zr)
}
