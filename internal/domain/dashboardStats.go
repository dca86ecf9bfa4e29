package domain

import (
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// MaxTopOperators é o tamanho máximo do ranking de operadoras
const MaxTopOperators = 5

// TopOperator é uma operadora no ranking, com o total de despesas calculado pela origem dos dados
type TopOperator struct {
	Operator
	TotalDespesas float64 `json:"total_despesas"`
}

// DashboardStats são os números agregados exibidos no dashboard.
// Os valores são calculados pela origem dos dados e não são recalculados aqui.
type DashboardStats struct {
	TotalDespesas  float64       `json:"total_despesas"`
	MediaDespesas  float64       `json:"media_despesas"`
	Top5Operadoras []TopOperator `json:"top5_operadoras"`
}

// UFAggregate é o total de despesas de uma UF
type UFAggregate struct {
	UF    string  `json:"uf"`
	Total float64 `json:"total"`
}

// UnmarshalJSON aceita tanto "total" quanto "total_uf", que é a chave usada pelo backend
func (u *UFAggregate) UnmarshalJSON(data []byte) error {
	var raw struct {
		UF      string   `json:"uf"`
		Total   *float64 `json:"total"`
		TotalUF *float64 `json:"total_uf"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	u.UF = raw.UF
	u.Total = 0
	switch {
	case raw.Total != nil:
		u.Total = *raw.Total
	case raw.TotalUF != nil:
		u.Total = *raw.TotalUF
	}

	return nil
}
