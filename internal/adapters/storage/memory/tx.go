package memory

import (
	"context"
	"sync"
)

type txKey struct{}

// TxManager serializa unidades de trabajo con un mutex global. No hay rollback:
// lo que fn escribió antes de fallar queda escrito.
type TxManager struct {
	mu sync.Mutex
}

func NewTxManager() *TxManager {
	return &TxManager{}
}

func (m *TxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(context.WithValue(ctx, txKey{}, true))
}

func (m *TxManager) Savepoint(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
