package form

import (
	"sync"
)

// Registry mantém um rascunho por edital para o usuário da sessão local.
type Registry struct {
	mu       sync.Mutex
	drafts   map[string]*Draft
	previews *PreviewStore
}

func NewRegistry(previews *PreviewStore) *Registry {
	return &Registry{
		drafts:   make(map[string]*Draft),
		previews: previews,
	}
}

// Draft devolve o rascunho do edital, criando-o na primeira chamada.
func (r *Registry) Draft(editalID string) *Draft {
	r.mu.Lock()
	defer r.mu.Unlock()

	draft, ok := r.drafts[editalID]
	if !ok {
		draft = NewDraft(editalID, r.previews)
		r.drafts[editalID] = draft
	}
	return draft
}

// Discard descarta o rascunho do edital e libera os previews associados.
func (r *Registry) Discard(editalID string) {
	r.mu.Lock()
	draft, ok := r.drafts[editalID]
	delete(r.drafts, editalID)
	r.mu.Unlock()

	if ok {
		draft.Discard()
	}
}

func (r *Registry) Previews() *PreviewStore {
	return r.previews
}
