package form

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/trampolim2024/trampolim-portal/internal/models"
)

// PreviewStore materializa as fotos do formulário como arquivos temporários
// servidos pela interface, no papel dos object URLs do navegador. Cada preview
// tem um token opaco e é liberado quando o integrante sai do formulário ou a
// foto é trocada, para não acumular arquivos órfãos.
type PreviewStore struct {
	dir    string
	logger zerolog.Logger

	mu    sync.Mutex
	files map[string]string // token -> caminho absoluto
}

func NewPreviewStore(dir string, logger zerolog.Logger) (*PreviewStore, error) {
	if dir == "" {
		tmp, err := os.MkdirTemp("", "trampolim-previews-")
		if err != nil {
			return nil, fmt.Errorf("failed to create previews directory: %w", err)
		}
		dir = tmp
	} else if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create previews directory: %w", err)
	}

	return &PreviewStore{
		dir:    dir,
		logger: logger,
		files:  make(map[string]string),
	}, nil
}

// Create grava o anexo e devolve o token do preview.
func (p *PreviewStore) Create(att *models.Attachment) (string, error) {
	token := uuid.New().String()
	path := filepath.Join(p.dir, token+filepath.Ext(att.FileName))

	if err := os.WriteFile(path, att.Data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write preview: %w", err)
	}

	p.mu.Lock()
	p.files[token] = path
	p.mu.Unlock()

	return token, nil
}

// Path resolve um token emitido por Create; tokens desconhecidos não viram
// caminho nenhum, então não há como escapar do diretório de previews.
func (p *PreviewStore) Path(token string) (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	path, ok := p.files[token]
	return path, ok
}

// Release apaga o arquivo e esquece o token. Liberar um token já liberado ou
// desconhecido é inofensivo.
func (p *PreviewStore) Release(token string) {
	if token == "" {
		return
	}

	p.mu.Lock()
	path, ok := p.files[token]
	delete(p.files, token)
	p.mu.Unlock()

	if !ok {
		return
	}

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		p.logger.Warn().Err(err).Str("token", token).Msg("Failed to remove preview file")
	}
}

// Close libera todos os previews restantes.
func (p *PreviewStore) Close() {
	p.mu.Lock()
	paths := make([]string, 0, len(p.files))
	for _, path := range p.files {
		paths = append(paths, path)
	}
	p.files = make(map[string]string)
	p.mu.Unlock()

	for _, path := range paths {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			p.logger.Warn().Err(err).Msg("Failed to remove preview file")
		}
	}
}
