package artifacts

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore grava os artefatos em um diretório local (downloads/), como o
// serviço original.
type LocalStore struct {
	dir string
}

func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("erro ao criar diretório de downloads %s: %w", dir, err)
	}
	return &LocalStore{dir: dir}, nil
}

// safePath impede path traversal via nome de arquivo vindo da URL.
func (l *LocalStore) safePath(name string) (string, error) {
	clean := filepath.Base(filepath.Clean(name))
	if clean == "." || clean == ".." || strings.ContainsAny(clean, `/\`) {
		return "", fmt.Errorf("nome de arquivo inválido: %q", name)
	}
	return filepath.Join(l.dir, clean), nil
}

func (l *LocalStore) Save(ctx context.Context, name string, data []byte) error {
	path, err := l.safePath(name)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("erro ao gravar artefato %s: %w", name, err)
	}
	return nil
}

func (l *LocalStore) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	path, err := l.safePath(name)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("erro ao abrir artefato %s: %w", name, err)
	}
	return f, nil
}
