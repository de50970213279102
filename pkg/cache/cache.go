package cache

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
)

// ErrMiss é retornado quando a chave não está no cache.
var ErrMiss = errors.New("cache: chave não encontrada")

// Store abstrai o backend de cache de respostas. Somente envelopes de
// sucesso são gravados; a decisão é do gateway, não do backend.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Purge(ctx context.Context) error
}

// Key deriva a chave de cache de um comando e seu parâmetro, no mesmo
// formato do serviço original: md5("comando:parametro") em hex.
func Key(command, param string) string {
	sum := md5.Sum([]byte(fmt.Sprintf("%s:%s", command, param)))
	return hex.EncodeToString(sum[:])
}
