package currency

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// PreferenceStore persiste la moneda elegida por el usuario del cliente.
type PreferenceStore interface {
	Load() (string, error)
	Save(code string) error
}

// FilePreferences guarda {"currency":"EUR"} en un archivo JSON.
type FilePreferences struct {
	mu   sync.Mutex
	path string
}

func NewFilePreferences(path string) *FilePreferences {
	return &FilePreferences{path: path}
}

type prefsFile struct {
	Currency string `json:"currency"`
}

// Load devuelve "" si el archivo todavía no existe.
func (p *FilePreferences) Load() (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	raw, err := os.ReadFile(p.path)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	var f prefsFile
	if err := json.Unmarshal(raw, &f); err != nil {
		return "", fmt.Errorf("invalid preferences file: %w", err)
	}
	return f.Currency, nil
}

func (p *FilePreferences) Save(code string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	raw, err := json.Marshal(prefsFile{Currency: code})
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p.path), 0o755); err != nil {
		return err
	}
	tmp := p.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, p.path)
}
