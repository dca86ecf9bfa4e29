package loading

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/painel-operadoras/internal/usecases/loading/mocks"
	"go.uber.org/mock/gomock"
)

type recorder struct {
	mu       sync.Mutex
	statuses []Status
}

func (r *recorder) observe(s State) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statuses = append(r.statuses, s.Status)
}

func (r *recorder) snapshot() []Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Status(nil), r.statuses...)
}

func waitSettled(t *testing.T, l *Loader) State {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	state := l.Wait(ctx)
	require.True(t, state.Status.IsSettled(), "lote não terminou: %s", state.Status)
	return state
}

func TestLoader_Load(t *testing.T) {
	type pair struct {
		A int `json:"a"`
	}

	tests := []struct {
		name     string
		setup    func(f *mocks.MockFetcher)
		requests []Request
		validate func(t *testing.T, state State)
	}{
		{
			name: "Todas as requisições resolvem - payload na ordem do lote",
			setup: func(f *mocks.MockFetcher) {
				f.EXPECT().Get(gomock.Any(), "/api/a").DoAndReturn(func(ctx context.Context, path string) ([]byte, error) {
					time.Sleep(20 * time.Millisecond)
					return []byte(`{"a":1}`), nil
				})
				f.EXPECT().Get(gomock.Any(), "/api/b").Return([]byte(`[1,2,3]`), nil)
			},
			requests: []Request{Get[pair]("/api/a"), Get[[]int]("/api/b")},
			validate: func(t *testing.T, state State) {
				assert.Equal(t, StatusSuccess, state.Status)
				assert.Empty(t, state.Message)

				first, ok := Value[pair](state, 0)
				assert.True(t, ok)
				assert.Equal(t, pair{A: 1}, first)

				second, ok := Value[[]int](state, 1)
				assert.True(t, ok)
				assert.Equal(t, []int{1, 2, 3}, second)
			},
		},
		{
			name: "Primeira rejeição - erro com a mensagem da requisição e sem payload",
			setup: func(f *mocks.MockFetcher) {
				f.EXPECT().Get(gomock.Any(), "/api/a").Return(nil, errors.New("Falha total"))
				f.EXPECT().Get(gomock.Any(), "/api/b").DoAndReturn(func(ctx context.Context, path string) ([]byte, error) {
					<-ctx.Done()
					return nil, ctx.Err()
				}).AnyTimes()
			},
			requests: []Request{Get[pair]("/api/a"), Get[[]int]("/api/b")},
			validate: func(t *testing.T, state State) {
				assert.Equal(t, StatusError, state.Status)
				assert.Equal(t, "Falha total", state.Message)
				assert.Nil(t, state.Payload)
			},
		},
		{
			name: "JSON inválido - tratado como rejeição",
			setup: func(f *mocks.MockFetcher) {
				f.EXPECT().Get(gomock.Any(), "/api/a").Return([]byte(`{"a":`), nil)
			},
			requests: []Request{Get[pair]("/api/a")},
			validate: func(t *testing.T, state State) {
				assert.Equal(t, StatusError, state.Status)
				assert.NotEmpty(t, state.Message)
			},
		},
		{
			name: "Requisição sem decoder - payload com o corpo bruto",
			setup: func(f *mocks.MockFetcher) {
				f.EXPECT().Get(gomock.Any(), "/api/raw").Return([]byte(`"x"`), nil)
			},
			requests: []Request{{Path: "/api/raw"}},
			validate: func(t *testing.T, state State) {
				body, ok := Value[[]byte](state, 0)
				assert.True(t, ok)
				assert.Equal(t, []byte(`"x"`), body)
			},
		},
		{
			name:     "Lote vazio - sucesso imediato",
			setup:    func(f *mocks.MockFetcher) {},
			requests: nil,
			validate: func(t *testing.T, state State) {
				assert.Equal(t, StatusSuccess, state.Status)
				assert.Empty(t, state.Payload)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			fetcher := mocks.NewMockFetcher(ctrl)
			tt.setup(fetcher)

			loader := NewLoader(fetcher)
			rec := &recorder{}
			loader.Subscribe(rec.observe)

			loader.Load(tt.requests...)
			state := waitSettled(t, loader)

			tt.validate(t, state)

			statuses := rec.snapshot()
			require.Len(t, statuses, 3)
			assert.Equal(t, []Status{StatusIdle, StatusLoading, state.Status}, statuses)
		})
	}
}

func TestLoader_DeactivateDiscardsLateResult(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := mocks.NewMockFetcher(ctrl)

	release := make(chan struct{})
	returned := make(chan struct{})
	fetcher.EXPECT().Get(gomock.Any(), "/api/a").DoAndReturn(func(ctx context.Context, path string) ([]byte, error) {
		defer close(returned)
		<-release
		return []byte(`1`), nil
	})

	loader := NewLoader(fetcher)
	loader.Load(Get[int]("/api/a"))
	assert.Equal(t, StatusLoading, loader.State().Status)

	loader.Deactivate()
	close(release)
	<-returned

	assert.Never(t, func() bool {
		return loader.State().Status != StatusLoading
	}, 100*time.Millisecond, 10*time.Millisecond)
}

func TestLoader_ReloadDiscardsPreviousBatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := mocks.NewMockFetcher(ctrl)

	started := make(chan struct{})
	release := make(chan struct{})
	returned := make(chan struct{})
	gomock.InOrder(
		fetcher.EXPECT().Get(gomock.Any(), "/api/a").DoAndReturn(func(ctx context.Context, path string) ([]byte, error) {
			defer close(returned)
			close(started)
			<-release
			return []byte(`1`), nil
		}),
		fetcher.EXPECT().Get(gomock.Any(), "/api/a").Return([]byte(`2`), nil),
	)

	loader := NewLoader(fetcher)
	loader.Load(Get[int]("/api/a"))
	<-started
	loader.Load(Get[int]("/api/a"))

	state := waitSettled(t, loader)
	value, _ := Value[int](state, 0)
	assert.Equal(t, 2, value)

	close(release)
	<-returned

	assert.Never(t, func() bool {
		v, _ := Value[int](loader.State(), 0)
		return v != 2
	}, 100*time.Millisecond, 10*time.Millisecond)
}

func TestLoader_WaitRespectsContext(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := mocks.NewMockFetcher(ctrl)

	release := make(chan struct{})
	returned := make(chan struct{})
	fetcher.EXPECT().Get(gomock.Any(), "/api/a").DoAndReturn(func(ctx context.Context, path string) ([]byte, error) {
		defer close(returned)
		<-release
		return []byte(`1`), nil
	})

	loader := NewLoader(fetcher)
	loader.Load(Get[int]("/api/a"))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	state := loader.Wait(ctx)
	assert.Equal(t, StatusLoading, state.Status)

	close(release)
	<-returned
	assert.Equal(t, StatusSuccess, waitSettled(t, loader).Status)
}

func TestLoader_TimeoutBecomesError(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := mocks.NewMockFetcher(ctrl)

	fetcher.EXPECT().Get(gomock.Any(), "/api/a").DoAndReturn(func(ctx context.Context, path string) ([]byte, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})

	loader := NewLoader(fetcher, WithTimeout(10*time.Millisecond))
	loader.Load(Get[int]("/api/a"))

	state := waitSettled(t, loader)
	assert.Equal(t, StatusError, state.Status)
	assert.Equal(t, context.DeadlineExceeded.Error(), state.Message)
}

func TestValue(t *testing.T) {
	state := succeeded([]any{"a", 2})

	s, ok := Value[string](state, 0)
	assert.True(t, ok)
	assert.Equal(t, "a", s)

	_, ok = Value[string](state, 1)
	assert.False(t, ok)

	_, ok = Value[string](state, 5)
	assert.False(t, ok)

	_, ok = Value[string](failed("x"), 0)
	assert.False(t, ok)
}
