package theme

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/viper"
)

// FileStore persiste preferências em um arquivo YAML gerenciado pelo viper
type FileStore struct {
	mu   sync.Mutex
	path string
	v    *viper.Viper
}

// NewFileStore abre o arquivo de preferências. O arquivo é criado na primeira gravação.
func NewFileStore(path string) (*FileStore, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if _, err := os.Stat(path); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("erro ao ler arquivo de preferências: %w", err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("erro ao acessar arquivo de preferências: %w", err)
	}

	return &FileStore{path: path, v: v}, nil
}

func (s *FileStore) Get(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.v.IsSet(key) {
		return "", false, nil
	}
	return s.v.GetString(key), true, nil
}

func (s *FileStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("erro ao criar diretório de preferências: %w", err)
	}

	s.v.Set(key, value)
	if err := s.v.WriteConfigAs(s.path); err != nil {
		return fmt.Errorf("erro ao gravar arquivo de preferências: %w", err)
	}

	return nil
}
