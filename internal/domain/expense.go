package domain

// Quarters são os trimestres válidos de um registro de despesa
var Quarters = []int{1, 2, 3, 4}

// ExpenseRecord é o total de despesas de uma operadora em um trimestre.
// A ordem da coleção é a ordem devolvida pelo servidor.
type ExpenseRecord struct {
	Ano           int     `json:"ano"`
	Trimestre     int     `json:"trimestre"`
	ValorDespesas float64 `json:"valor_despesas"`
}

// IsValidQuarter indica se o trimestre pertence ao intervalo 1-4
func IsValidQuarter(q int) bool {
	return q >= 1 && q <= 4
}
