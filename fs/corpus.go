package fs

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/fwojciec/docqa"
	"github.com/fwojciec/docqa/sqlite"
	"github.com/fwojciec/docqa/vector"
	"github.com/google/uuid"
)

// Ensure CorpusService implements docqa.CorpusService at compile time.
var _ docqa.CorpusService = (*CorpusService)(nil)

const (
	pointerFile   = "CURRENT"
	vectorsFile   = "vectors.gob"
	chunksFile    = "chunks.db"
	versionPrefix = "corpus-"
)

// CorpusService stores the corpus as versioned directories under a base
// directory. Each version holds the vector index and the chunk database.
// The CURRENT file names the live version and is swapped atomically, so a
// reader sees either the old pair or the new pair, never a mix.
type CorpusService struct {
	dir string

	mu      sync.RWMutex
	current *openCorpus
}

type openCorpus struct {
	version string
	db      *sqlite.DB
	corpus  *docqa.Corpus
}

func (c *openCorpus) close() {
	if c != nil && c.db != nil {
		_ = c.db.Close()
	}
}

// NewCorpusService creates a CorpusService rooted at dir.
func NewCorpusService(dir string) *CorpusService {
	return &CorpusService{dir: dir}
}

// Close releases the loaded corpus.
func (s *CorpusService) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current != nil && s.current.db != nil {
		err := s.current.db.Close()
		s.current = nil
		return err
	}
	s.current = nil
	return nil
}

// Version returns the name of the live version, or ENOTFOUND if nothing
// has been ingested.
func (s *CorpusService) Version() (string, error) {
	return s.readPointer()
}

// Replace writes a new version and makes it live. Chunk ids must run from
// 0 in order, one vector per chunk. The previous version is removed after
// the swap. If anything fails the new version is discarded and the
// previous one stays live.
func (s *CorpusService) Replace(ctx context.Context, chunks []*docqa.Chunk, vectors [][]float32) (err error) {
	if len(chunks) != len(vectors) {
		return docqa.Errorf(docqa.EINVALID, "%d chunks for %d vectors", len(chunks), len(vectors))
	}
	ids := make([]int, len(chunks))
	for i, c := range chunks {
		if c.ID != i {
			return docqa.Errorf(docqa.EINVALID, "chunk at position %d has id %d", i, c.ID)
		}
		ids[i] = c.ID
	}

	idx, err := vector.Build(ids, vectors)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return err
	}

	version := versionPrefix + uuid.NewString()
	versionDir := filepath.Join(s.dir, version)
	if err := os.Mkdir(versionDir, 0755); err != nil {
		return err
	}

	next := &openCorpus{version: version}
	defer func() {
		if err != nil {
			next.close()
			_ = os.RemoveAll(versionDir)
		}
	}()

	if err := writeIndex(filepath.Join(versionDir, vectorsFile), idx); err != nil {
		return err
	}

	next.db = sqlite.NewDB(filepath.Join(versionDir, chunksFile))
	if err := next.db.Open(); err != nil {
		return err
	}
	chunkService := sqlite.NewChunkService(next.db)
	if err := chunkService.CreateChunks(ctx, chunks); err != nil {
		return fmt.Errorf("store chunks: %w", err)
	}
	if err := verifyPair(ctx, version, idx, chunkService); err != nil {
		return err
	}
	next.corpus = &docqa.Corpus{Index: idx, Chunks: chunkService}

	s.mu.Lock()
	defer s.mu.Unlock()

	previous, perr := s.readPointer()
	if perr != nil && docqa.ErrorCode(perr) != docqa.ENOTFOUND {
		return perr
	}

	if err := s.writePointer(version); err != nil {
		return err
	}

	old := s.current
	s.current = next
	if old != nil {
		old.close()
		_ = os.RemoveAll(filepath.Join(s.dir, old.version))
	}
	if previous != "" {
		_ = os.RemoveAll(filepath.Join(s.dir, previous))
	}
	return nil
}

// View calls fn with the live corpus, loading it from disk if the live
// version changed since the last call. The corpus cannot be replaced
// while fn runs.
func (s *CorpusService) View(ctx context.Context, fn func(*docqa.Corpus) error) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		s.mu.RLock()
		version, err := s.readPointer()
		if err != nil {
			s.mu.RUnlock()
			return err
		}
		if s.current != nil && s.current.version == version {
			defer s.mu.RUnlock()
			return fn(s.current.corpus)
		}
		s.mu.RUnlock()

		if err := s.load(ctx); err != nil {
			return err
		}
	}
}

// load opens the version named by the pointer unless it is already loaded.
func (s *CorpusService) load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	version, err := s.readPointer()
	if err != nil {
		return err
	}
	if s.current != nil && s.current.version == version {
		return nil
	}

	c, err := s.open(ctx, version)
	if err != nil {
		return err
	}
	s.current.close()
	s.current = c
	return nil
}

func (s *CorpusService) open(ctx context.Context, version string) (*openCorpus, error) {
	versionDir := filepath.Join(s.dir, version)
	vectorsPath := filepath.Join(versionDir, vectorsFile)
	chunksPath := filepath.Join(versionDir, chunksFile)

	for _, p := range []string{vectorsPath, chunksPath} {
		if _, err := os.Stat(p); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil, docqa.Errorf(docqa.EINTERNAL, "corpus %s is incomplete: %s missing", version, filepath.Base(p))
			}
			return nil, err
		}
	}

	idx, err := readIndex(vectorsPath)
	if err != nil {
		return nil, err
	}

	db := sqlite.NewDB(chunksPath)
	if err := db.Open(); err != nil {
		return nil, err
	}
	chunkService := sqlite.NewChunkService(db)
	if err := verifyPair(ctx, version, idx, chunkService); err != nil {
		db.Close()
		return nil, err
	}

	return &openCorpus{
		version: version,
		db:      db,
		corpus:  &docqa.Corpus{Index: idx, Chunks: chunkService},
	}, nil
}

// verifyPair checks that the index and the chunk store hold the same ids.
func verifyPair(ctx context.Context, version string, idx *vector.FlatIndex, chunks *sqlite.ChunkService) error {
	chunkIDs, err := chunks.ChunkIDs(ctx)
	if err != nil {
		return err
	}
	indexIDs := idx.IDs()
	slices.Sort(indexIDs)
	if !slices.Equal(chunkIDs, indexIDs) {
		return docqa.Errorf(docqa.EINTERNAL, "corpus %s is inconsistent: %d chunks for %d vectors", version, len(chunkIDs), len(indexIDs))
	}
	return nil
}

func (s *CorpusService) readPointer() (string, error) {
	b, err := os.ReadFile(filepath.Join(s.dir, pointerFile))
	if errors.Is(err, os.ErrNotExist) {
		return "", docqa.Errorf(docqa.ENOTFOUND, "no corpus found: must ingest first")
	}
	if err != nil {
		return "", err
	}

	version := strings.TrimSpace(string(b))
	if !strings.HasPrefix(version, versionPrefix) || filepath.Base(version) != version {
		return "", docqa.Errorf(docqa.EINTERNAL, "invalid corpus pointer %q", version)
	}
	return version, nil
}

// writePointer replaces the pointer file through a rename so readers never
// see a partial write.
func (s *CorpusService) writePointer(version string) error {
	tmp := filepath.Join(s.dir, pointerFile+"."+uuid.NewString()+".tmp")
	if err := os.WriteFile(tmp, []byte(version+"\n"), 0644); err != nil {
		return err
	}
	if err := os.Rename(tmp, filepath.Join(s.dir, pointerFile)); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}

func writeIndex(path string, idx *vector.FlatIndex) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	w := bufio.NewWriter(f)
	if err := idx.Encode(w); err != nil {
		f.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func readIndex(path string) (*vector.FlatIndex, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	idx, err := vector.Decode(bufio.NewReader(f))
	if err != nil {
		return nil, docqa.Errorf(docqa.EINTERNAL, "corpus index unreadable: %v", err)
	}
	return idx, nil
}
