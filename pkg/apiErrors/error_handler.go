package apiErrors

import (
	"net/http"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Códigos de erro das respostas JSON
const (
	// Erros de validação
	ErrInvalidRequest = "VAL_001" // Requisição inválida
	ErrInvalidCNPJ    = "VAL_002" // CNPJ malformado
	ErrInvalidFilter  = "VAL_003" // Filtro de ano ou trimestre inválido

	// Erros de autenticação
	ErrUnauthorized = "AUTH_001" // Token de administração ausente ou inválido

	// Erros do servidor
	ErrInternalServer  = "SRV_001" // Erro interno do servidor
	ErrExternalService = "SRV_003" // A origem dos dados rejeitou a busca
	ErrLoadTimeout     = "SRV_005" // O carregamento não terminou a tempo
)

var httpStatusMap = map[string]int{
	ErrInvalidRequest:  http.StatusBadRequest,
	ErrInvalidCNPJ:     http.StatusBadRequest,
	ErrInvalidFilter:   http.StatusBadRequest,
	ErrUnauthorized:    http.StatusUnauthorized,
	ErrInternalServer:  http.StatusInternalServerError,
	ErrExternalService: http.StatusBadGateway,
	ErrLoadTimeout:     http.StatusGatewayTimeout,
}

// APIError representa um erro de API padronizado
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message,omitempty"`
	Details any    `json:"details,omitempty"`
}

// StatusFor devolve o status HTTP de um código de erro
func StatusFor(code string) int {
	if status, exists := httpStatusMap[code]; exists {
		return status
	}
	return http.StatusInternalServerError
}

// WriteError escreve o erro padronizado para a resposta HTTP
func WriteError(w http.ResponseWriter, code string, message string, details any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(StatusFor(code))
	json.NewEncoder(w).Encode(APIError{
		Code:    code,
		Message: message,
		Details: details,
	})
}
