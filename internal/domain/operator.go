// Package domain contém as estruturas de dados do domínio da aplicação
package domain

// Operator representa uma operadora de plano de saúde registrada na ANS.
// Não é alterada depois de carregada.
type Operator struct {
	CNPJ        string `json:"cnpj"`
	RazaoSocial string `json:"razao_social"`
	UF          string `json:"uf"`
	Modalidade  string `json:"modalidade"`
}

// OperatorPage é uma página da listagem de operadoras
type OperatorPage struct {
	Data  []Operator `json:"data"`
	Page  int        `json:"page"`
	Limit int        `json:"limit"`
	Total int        `json:"total"`
}

// TotalPages retorna a quantidade de páginas da listagem
func (p OperatorPage) TotalPages() int {
	if p.Limit <= 0 || p.Total <= 0 {
		return 1
	}

	return (p.Total + p.Limit - 1) / p.Limit
}

func (p OperatorPage) HasPrevious() bool {
	return p.Page > 1
}

func (p OperatorPage) HasNext() bool {
	return p.Page < p.TotalPages()
}
