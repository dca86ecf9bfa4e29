// Package ansclient busca os dados do painel no backend HTTP de operadoras da ANS.
package ansclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/vfg2006/painel-operadoras/internal/config"
	"github.com/vfg2006/painel-operadoras/pkg/log"
	"github.com/vfg2006/painel-operadoras/pkg/metrics"
	"golang.org/x/time/rate"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	healthPath   = "/health"
	maxBodyBytes = 10 << 20
)

type Client struct {
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
}

// NewClient cria o cliente a partir da configuração do backend
func NewClient(cfg config.Backend) *Client {
	var limiter *rate.Limiter
	if cfg.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst)
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: strings.TrimRight(cfg.URL, "/"),
		limiter: limiter,
	}
}

// Get busca path no backend e devolve o corpo JSON da resposta.
// A mensagem de erro é a que o painel exibe: o campo detail do backend quando existir.
func (c *Client) Get(ctx context.Context, path string) ([]byte, error) {
	started := time.Now()
	body, err := c.get(ctx, path)
	metrics.BackendRequest(err, started)

	if err != nil {
		log.ForContext(ctx).WithFields(log.Fields{
			"path":  path,
			"error": err.Error(),
		}).Warn("Falha ao buscar dados no backend")
	}

	return body, err
}

// Health verifica se o backend responde
func (c *Client) Health(ctx context.Context) error {
	_, err := c.get(ctx, healthPath)
	return err
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, errors.Wrap(err, "erro ao aguardar limite de requisições")
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao criar a requisição")
	}
	req.Header.Set("Accept", "application/json")

	if correlationID := log.GetCorrelationID(ctx); correlationID != "" {
		req.Header.Set("X-Correlation-ID", correlationID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao executar a requisição")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, errors.Wrap(err, "erro ao ler a resposta")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if detail := errorDetail(body); detail != "" {
			return nil, errors.New(detail)
		}
		return nil, fmt.Errorf("requisição falhou com status: %s", resp.Status)
	}

	if !json.Valid(body) {
		return nil, errors.New("erro ao decodificar a resposta: JSON inválido")
	}

	return body, nil
}

// errorDetail extrai o campo detail de uma resposta de erro do backend
func errorDetail(body []byte) string {
	var payload struct {
		Detail any `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}

	if detail, ok := payload.Detail.(string); ok {
		return strings.TrimSpace(detail)
	}

	return ""
}
