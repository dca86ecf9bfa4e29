package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/painel-operadoras/internal/usecases/loading"
	"github.com/vfg2006/painel-operadoras/internal/views"
)

type fakeView struct {
	key         string
	status      loading.Status
	activated   int
	deactivated int
}

func (f *fakeView) Key() string { return f.key }

func (f *fakeView) Activate() {
	f.activated++
	f.status = loading.StatusLoading
}

func (f *fakeView) Deactivate() { f.deactivated++ }

func (f *fakeView) Status() loading.Status { return f.status }

func (f *fakeView) Wait(context.Context) loading.Status { return f.status }

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newManager(t *testing.T, ttl time.Duration) (*Manager, *clock) {
	t.Helper()

	codec, err := NewCodec("segredo-de-teste-com-tamanho", time.Hour)
	require.NoError(t, err)

	c := &clock{now: time.Now()}
	return NewManager(codec, ttl, WithClock(c.Now)), c
}

func TestSession_Navigate(t *testing.T) {
	s := &Session{ID: "abc"}

	dashboard := &fakeView{key: views.NameDashboard}
	got := s.Navigate(views.NameDashboard, func() views.View { return dashboard })
	assert.Same(t, dashboard, got)
	assert.Equal(t, 1, dashboard.activated)

	// Mesma tela carregando ou carregada: reaproveita sem nova busca
	other := &fakeView{key: views.NameDashboard}
	got = s.Navigate(views.NameDashboard, func() views.View { return other })
	assert.Same(t, dashboard, got)
	assert.Equal(t, 1, dashboard.activated)

	dashboard.status = loading.StatusSuccess
	s.Navigate(views.NameDashboard, func() views.View { return other })
	assert.Equal(t, 1, dashboard.activated)

	// Mesma tela em erro: ativa de novo
	dashboard.status = loading.StatusError
	got = s.Navigate(views.NameDashboard, func() views.View { return other })
	assert.Same(t, dashboard, got)
	assert.Equal(t, 2, dashboard.activated)

	// Tela diferente: desativa a anterior e ativa a nova
	detail := &fakeView{key: "operadora/11"}
	got = s.Navigate(detail.key, func() views.View { return detail })
	assert.Same(t, detail, got)
	assert.Equal(t, 1, dashboard.deactivated)
	assert.Equal(t, 1, detail.activated)

	// Outra operadora é outra tela
	detail2 := &fakeView{key: "operadora/22"}
	s.Navigate(detail2.key, func() views.View { return detail2 })
	assert.Equal(t, 1, detail.deactivated)
	assert.Same(t, detail2, s.Current())
}

func TestManager_Resolve(t *testing.T) {
	m, _ := newManager(t, time.Minute)

	s, token, err := m.Resolve("")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.Len(t, s.ID, idSize)
	assert.Equal(t, 1, m.Len())

	again, refreshed, err := m.Resolve(token)
	require.NoError(t, err)
	assert.Same(t, s, again)
	assert.NotEmpty(t, refreshed)
	assert.Equal(t, 1, m.Len())

	fresh, _, err := m.Resolve("token-adulterado")
	require.NoError(t, err)
	assert.NotEqual(t, s.ID, fresh.ID)
	assert.Equal(t, 2, m.Len())
}

func TestManager_Sweep(t *testing.T) {
	m, c := newManager(t, time.Minute)

	old, _, err := m.Resolve("")
	require.NoError(t, err)
	view := &fakeView{key: views.NameDashboard}
	old.Navigate(view.key, func() views.View { return view })

	c.Advance(45 * time.Second)
	recent, recentToken, err := m.Resolve("")
	require.NoError(t, err)

	c.Advance(30 * time.Second)
	removed := m.Sweep()

	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, m.Len())
	assert.Equal(t, 1, view.deactivated)
	assert.Nil(t, old.Current())

	still, _, err := m.Resolve(recentToken)
	require.NoError(t, err)
	assert.Same(t, recent, still)
}

func TestManager_MaxSessions(t *testing.T) {
	codec, err := NewCodec("segredo-de-teste-com-tamanho", time.Hour)
	require.NoError(t, err)

	c := &clock{now: time.Now()}
	m := NewManager(codec, time.Hour, WithClock(c.Now), WithMaxSessions(2))

	oldest, oldestToken, err := m.Resolve("")
	require.NoError(t, err)
	view := &fakeView{key: views.NameDashboard}
	oldest.Navigate(view.key, func() views.View { return view })

	c.Advance(time.Second)
	second, secondToken, err := m.Resolve("")
	require.NoError(t, err)

	c.Advance(time.Second)
	_, _, err = m.Resolve("")
	require.NoError(t, err)

	assert.Equal(t, 2, m.Len())
	assert.Equal(t, 1, view.deactivated)
	assert.Nil(t, oldest.Current())

	still, _, err := m.Resolve(secondToken)
	require.NoError(t, err)
	assert.Same(t, second, still)

	// A sessão removida não volta: o cookie antigo ganha uma sessão nova
	replaced, _, err := m.Resolve(oldestToken)
	require.NoError(t, err)
	assert.NotEqual(t, oldest.ID, replaced.ID)
	assert.Equal(t, 2, m.Len())
}

func TestCodec(t *testing.T) {
	codec, err := NewCodec("segredo-de-teste-com-tamanho", time.Hour)
	require.NoError(t, err)

	now := time.Now()
	token, err := codec.Encode("sessao1", now)
	require.NoError(t, err)

	id, err := codec.Decode(token)
	require.NoError(t, err)
	assert.Equal(t, "sessao1", id)

	other, err := NewCodec("outro-segredo-qualquer-grande", time.Hour)
	require.NoError(t, err)
	_, err = other.Decode(token)
	assert.ErrorIs(t, err, ErrInvalidCookie)

	expired, err := codec.Encode("sessao1", now.Add(-2*time.Hour))
	require.NoError(t, err)
	_, err = codec.Decode(expired)
	assert.ErrorIs(t, err, ErrInvalidCookie)
}

func TestContext(t *testing.T) {
	_, ok := FromContext(context.Background())
	assert.False(t, ok)

	s := &Session{ID: "abc"}
	got, ok := FromContext(WithSession(context.Background(), s))
	assert.True(t, ok)
	assert.Same(t, s, got)
}
