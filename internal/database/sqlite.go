package database

import (
	"fmt"
	"os"
	"path/filepath"

	"database/sql"

	_ "github.com/mattn/go-sqlite3"

	"github.com/trampolim2024/trampolim-portal/internal/config"
)

// NewSQLite abre (ou cria) o banco local de estado do cliente.
func NewSQLite(cfg config.StorageConfig) (*sql.DB, error) {
	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create state directory: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", cfg.Path)

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open state database: %w", err)
	}

	// SQLite local: uma conexão evita SQLITE_BUSY entre goroutines.
	db.SetMaxOpenConns(1)

	return db, nil
}
