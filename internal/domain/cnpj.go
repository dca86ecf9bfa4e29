package domain

import (
	"errors"
	"strings"
)

// CNPJLength é a quantidade de dígitos de um CNPJ completo
const CNPJLength = 14

var (
	ErrCNPJEmpty   = errors.New("cnpj vazio")
	ErrCNPJTooLong = errors.New("cnpj com mais de 14 dígitos")
	ErrCNPJInvalid = errors.New("cnpj com caracteres inválidos")
)

// CNPJ é o identificador de uma operadora já normalizado (apenas dígitos)
type CNPJ string

// ParseCNPJ decodifica o parâmetro de rota de uma operadora.
// Pontuação (. / -) é descartada; o resultado precisa ter entre 1 e 14 dígitos.
func ParseCNPJ(raw string) (CNPJ, error) {
	var b strings.Builder
	for _, r := range strings.TrimSpace(raw) {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '/' || r == '-':
		default:
			return "", ErrCNPJInvalid
		}
	}

	digits := b.String()
	if digits == "" {
		return "", ErrCNPJEmpty
	}
	if len(digits) > CNPJLength {
		return "", ErrCNPJTooLong
	}

	return CNPJ(digits), nil
}

func (c CNPJ) String() string {
	return string(c)
}

// Formatted retorna o CNPJ no formato 00.000.000/0000-00 quando tem 14 dígitos
func (c CNPJ) Formatted() string {
	s := string(c)
	if len(s) != CNPJLength {
		return s
	}

	return s[0:2] + "." + s[2:5] + "." + s[5:8] + "/" + s[8:12] + "-" + s[12:14]
}
