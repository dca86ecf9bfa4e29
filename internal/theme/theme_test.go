package theme

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryStore struct {
	values map[string]string
	err    error
}

func (m *memoryStore) Get(key string) (string, bool, error) {
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *memoryStore) Set(key, value string) error {
	if m.err != nil {
		return m.err
	}
	m.values[key] = value
	return nil
}

func TestService_Init(t *testing.T) {
	tests := []struct {
		name   string
		stored map[string]string
		want   Theme
	}{
		{name: "Sem preferência - light", stored: map[string]string{}, want: Light},
		{name: "Preferência dark", stored: map[string]string{Key: "dark"}, want: Dark},
		{name: "Preferência light", stored: map[string]string{Key: "light"}, want: Light},
		{name: "Valor desconhecido - light", stored: map[string]string{Key: "sepia"}, want: Light},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &memoryStore{values: tt.stored}
			svc := NewService(store)

			got, err := svc.Init()

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want, svc.Get())
			assert.Equal(t, string(tt.want), store.values[Key])
		})
	}
}

func TestService_Toggle(t *testing.T) {
	store := &memoryStore{values: map[string]string{}}
	svc := NewService(store)
	_, err := svc.Init()
	require.NoError(t, err)

	got, err := svc.Toggle()
	require.NoError(t, err)
	assert.Equal(t, Dark, got)
	assert.Equal(t, "dark", store.values[Key])

	got, err = svc.Toggle()
	require.NoError(t, err)
	assert.Equal(t, Light, got)
}

func TestService_Set(t *testing.T) {
	store := &memoryStore{values: map[string]string{}}
	svc := NewService(store)

	assert.ErrorIs(t, svc.Set("sepia"), ErrInvalidTheme)
	assert.Equal(t, Light, svc.Get())

	require.NoError(t, svc.Set(Dark))
	assert.Equal(t, Dark, svc.Get())

	store.err = errors.New("disco cheio")
	assert.Error(t, svc.Set(Light))
	assert.Equal(t, Dark, svc.Get())
}

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "preferencias.yaml")

	store, err := NewFileStore(path)
	require.NoError(t, err)

	_, found, err := store.Get(Key)
	require.NoError(t, err)
	assert.False(t, found)

	svc := NewService(store)
	_, err = svc.Init()
	require.NoError(t, err)
	_, err = svc.Toggle()
	require.NoError(t, err)

	_, err = os.Stat(path)
	require.NoError(t, err)

	reopened, err := NewFileStore(path)
	require.NoError(t, err)
	value, found, err := reopened.Get(Key)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "dark", value)
}

func TestService_ToggleConcorrente(t *testing.T) {
	store := &memoryStore{values: map[string]string{}}
	svc := NewService(store)
	_, err := svc.Init()
	require.NoError(t, err)

	const toggles = 50
	results := make(chan Theme, toggles)

	var wg sync.WaitGroup
	for i := 0; i < toggles; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := svc.Toggle()
			assert.NoError(t, err)
			results <- got
		}()
	}
	wg.Wait()
	close(results)

	darks := 0
	for got := range results {
		if got == Dark {
			darks++
		}
	}

	// cada alternância vê o resultado da anterior: metade escuro, metade claro
	assert.Equal(t, toggles/2, darks)
	assert.Equal(t, Light, svc.Get())
	assert.Equal(t, string(Light), store.values[Key])
}
