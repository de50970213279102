package cache

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileStore guarda cada resposta como um arquivo JSON no diretório de cache,
// igual ao serviço original. Entradas nunca expiram.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("erro ao criar diretório de cache %s: %w", dir, err)
	}
	return &FileStore{dir: dir}, nil
}

func (f *FileStore) path(key string) string {
	return filepath.Join(f.dir, key+".json")
}

func (f *FileStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(f.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrMiss
		}
		return nil, fmt.Errorf("erro ao ler cache %s: %w", key, err)
	}
	return data, nil
}

func (f *FileStore) Set(ctx context.Context, key string, value []byte) error {
	if err := os.WriteFile(f.path(key), value, 0o644); err != nil {
		return fmt.Errorf("erro ao gravar cache %s: %w", key, err)
	}
	return nil
}

func (f *FileStore) Purge(ctx context.Context) error {
	entries, err := os.ReadDir(f.dir)
	if err != nil {
		return fmt.Errorf("erro ao listar diretório de cache: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		if err := os.Remove(filepath.Join(f.dir, entry.Name())); err != nil {
			return fmt.Errorf("erro ao remover entrada %s: %w", entry.Name(), err)
		}
	}
	return nil
}
