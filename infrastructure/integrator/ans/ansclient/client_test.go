package ansclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/painel-operadoras/internal/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(config.Backend{
		URL:       server.URL + "/",
		Timeout:   2 * time.Second,
		RateLimit: 100,
		RateBurst: 10,
	})
}

func TestClient_Get(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		handler  http.HandlerFunc
		wantBody string
		wantErr  string
	}{
		{
			name: "Sucesso - corpo repassado",
			path: "/api/estatisticas",
			handler: func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/api/estatisticas", r.URL.Path)
				assert.Equal(t, "application/json", r.Header.Get("Accept"))
				w.Write([]byte(`{"total_despesas":10}`))
			},
			wantBody: `{"total_despesas":10}`,
		},
		{
			name: "Sucesso - parâmetros de consulta preservados",
			path: "/api/operadoras?limit=20&page=2&search=alfa",
			handler: func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "2", r.URL.Query().Get("page"))
				assert.Equal(t, "alfa", r.URL.Query().Get("search"))
				w.Write([]byte(`{"data":[],"page":2,"limit":20,"total":0}`))
			},
			wantBody: `{"data":[],"page":2,"limit":20,"total":0}`,
		},
		{
			name: "Erro com detail - mensagem do backend",
			path: "/api/operadoras/123",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
				w.Write([]byte(`{"detail":"Operadora não encontrada"}`))
			},
			wantErr: "Operadora não encontrada",
		},
		{
			name: "Erro sem detail - status",
			path: "/api/estatisticas",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte(`Internal Server Error`))
			},
			wantErr: "requisição falhou com status: 500 Internal Server Error",
		},
		{
			name: "Erro de validação - detail em lista vira status",
			path: "/api/operadoras?page=0",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnprocessableEntity)
				w.Write([]byte(`{"detail":[{"loc":["query","page"],"msg":"invalid"}]}`))
			},
			wantErr: "requisição falhou com status: 422 Unprocessable Entity",
		},
		{
			name: "Corpo inválido - erro de decodificação",
			path: "/api/estatisticas/uf",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`<html>`))
			},
			wantErr: "erro ao decodificar a resposta: JSON inválido",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, tt.handler)

			body, err := client.Get(context.Background(), tt.path)

			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantErr, err.Error())
				assert.Nil(t, body)
				return
			}

			require.NoError(t, err)
			assert.JSONEq(t, tt.wantBody, string(body))
		})
	}
}

func TestClient_GetCancelled(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.Get(ctx, "/api/estatisticas")
	assert.Error(t, err)
}

func TestClient_Health(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			w.Write([]byte(`{"status":"ok"}`))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	})

	assert.NoError(t, client.Health(context.Background()))
}
