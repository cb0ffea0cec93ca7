// Package fallback keeps registrations on local disk when the primary store
// is unavailable, one JSON document per line.
package fallback

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"training-registration/internal/domain"
	"training-registration/internal/domain/model"
	"training-registration/internal/domain/ports/repository"
)

var _ repository.FallbackStore = (*FileStore)(nil)

// Sealer encrypts individual lines at rest.
type Sealer interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
}

type FileStore struct {
	mu     sync.Mutex
	path   string
	sealer Sealer
}

// NewFileStore appends to path. sealer may be nil for plaintext lines.
func NewFileStore(path string, sealer Sealer) *FileStore {
	return &FileStore{path: path, sealer: sealer}
}

func (s *FileStore) Append(ctx context.Context, rec model.FallbackRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal fallback record: %w", err)
	}
	line := string(b)
	if s.sealer != nil {
		if line, err = s.sealer.Encrypt(line); err != nil {
			return fmt.Errorf("seal fallback record: %w", err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrFallbackUnavailable, err)
		}
	}
	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrFallbackUnavailable, err)
	}
	if _, err := f.WriteString(line + "\n"); err != nil {
		_ = f.Close()
		return fmt.Errorf("%w: %v", domain.ErrFallbackUnavailable, err)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return fmt.Errorf("%w: %v", domain.ErrFallbackUnavailable, err)
	}
	return f.Close()
}

// List returns every stored record in append order. A missing file is empty.
func (s *FileStore) List(ctx context.Context) ([]model.FallbackRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []model.FallbackRecord{}, nil
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrFallbackUnavailable, err)
	}
	defer f.Close()

	out := make([]model.FallbackRecord, 0)
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	n := 0
	for sc.Scan() {
		n++
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		// Lines written before a key was configured stay plaintext JSON.
		if s.sealer != nil && !strings.HasPrefix(line, "{") {
			if line, err = s.sealer.Decrypt(line); err != nil {
				return nil, fmt.Errorf("line %d: open fallback record: %w", n, err)
			}
		}
		var rec model.FallbackRecord
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			return nil, fmt.Errorf("line %d: %w", n, err)
		}
		out = append(out, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
