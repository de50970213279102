package artifacts

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"
)

// ErrNotFound é retornado quando o artefato não existe no backend.
var ErrNotFound = errors.New("artifacts: arquivo não encontrado")

// Store guarda os documentos baixados dos bots (PDFs, fotos) e os devolve
// para a rota /files.
type Store interface {
	Save(ctx context.Context, name string, data []byte) error
	Open(ctx context.Context, name string) (io.ReadCloser, error)
}

// FileName gera o nome do arquivo salvo, no formato do serviço original:
// "<unix>_<id mensagem><ext>".
func FileName(msgID int64, ext string) string {
	return fmt.Sprintf("%d_%d%s", time.Now().Unix(), msgID, ext)
}
