package storage

import (
	"context"
	"fmt"
)

// PendingFlags marca, por edital, que a criação do projeto foi aceita pelo
// backend mas ainda não foi confirmada pelo caminho de leitura. O marcador
// sobrevive a um reinício para que a interface não volte ao formulário vazio.
type PendingFlags struct {
	store KeyValueStore
}

func NewPendingFlags(store KeyValueStore) *PendingFlags {
	return &PendingFlags{store: store}
}

func pendingKey(editalID string) string {
	return fmt.Sprintf("submissionSent:%s", editalID)
}

func (p *PendingFlags) Set(ctx context.Context, editalID string) error {
	return p.store.Set(ctx, pendingKey(editalID), "true")
}

func (p *PendingFlags) Clear(ctx context.Context, editalID string) error {
	return p.store.Delete(ctx, pendingKey(editalID))
}

func (p *PendingFlags) IsSet(ctx context.Context, editalID string) (bool, error) {
	_, ok, err := p.store.Get(ctx, pendingKey(editalID))
	return ok, err
}
