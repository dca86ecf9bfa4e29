package loading

import (
	"context"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

//go:generate mockgen -source=request.go -destination=mocks/mock_fetcher.go -package=mocks

// Fetcher é a capacidade de buscar um recurso da origem dos dados.
// Um erro carrega uma mensagem legível que é exibida sem alteração.
type Fetcher interface {
	Get(ctx context.Context, path string) ([]byte, error)
}

// Decoder transforma o corpo de uma resposta no valor guardado no payload
type Decoder func(body []byte) (any, error)

// Request é um recurso de um lote de carregamento
type Request struct {
	Path   string
	Decode Decoder
}

// JSON decodifica o corpo como T
func JSON[T any]() Decoder {
	return func(body []byte) (any, error) {
		var v T
		if err := json.Unmarshal(body, &v); err != nil {
			return nil, err
		}
		return v, nil
	}
}

// Get monta uma requisição decodificada como T
func Get[T any](path string) Request {
	return Request{Path: path, Decode: JSON[T]()}
}
