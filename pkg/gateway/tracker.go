package gateway

import (
	"sync"
	"time"
)

// FailureTracker registra o último fracasso de cada bot e calcula a janela
// de bloqueio. Um bot que não respondeu fica fora de rotação até a janela
// expirar (3h por padrão), quando a entrada é removida.
type FailureTracker struct {
	mu     sync.Mutex
	window time.Duration
	fails  map[string]time.Time

	now func() time.Time
}

func NewFailureTracker(window time.Duration) *FailureTracker {
	return &FailureTracker{
		window: window,
		fails:  make(map[string]time.Time),
		now:    time.Now,
	}
}

// RecordFailure marca o bot como falho a partir de agora.
func (t *FailureTracker) RecordFailure(bot string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.fails[bot] = t.now()
}

// Blocked informa se o bot está dentro da janela de bloqueio. Entradas
// vencidas são removidas na consulta.
func (t *FailureTracker) Blocked(bot string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	last, ok := t.fails[bot]
	if !ok {
		return false
	}
	if t.now().Sub(last) < t.window {
		return true
	}
	delete(t.fails, bot)
	return false
}

// BlockedUntil devolve o instante em que o bloqueio expira, se houver.
func (t *FailureTracker) BlockedUntil(bot string) (time.Time, bool) {
	if !t.Blocked(bot) {
		return time.Time{}, false
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	last, ok := t.fails[bot]
	if !ok {
		return time.Time{}, false
	}
	return last.Add(t.window), true
}

// Unblock remove o bloqueio manualmente (ação operacional via fila de ops).
func (t *FailureTracker) Unblock(bot string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.fails, bot)
}
