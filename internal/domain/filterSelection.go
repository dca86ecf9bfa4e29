package domain

// AllValues é o sentinela que significa "sem restrição" em uma dimensão do filtro
const AllValues = 0

// FilterSelection é a seleção de ano e trimestre da tela de detalhes.
// Zero em qualquer campo significa "todos".
type FilterSelection struct {
	Year    int `json:"year"`
	Quarter int `json:"quarter"`
}

// DefaultSelection é a seleção aplicada sempre que a tela é carregada
func DefaultSelection() FilterSelection {
	return FilterSelection{Year: AllValues, Quarter: AllValues}
}

// IsDefault indica se a seleção não restringe nenhuma dimensão
func (s FilterSelection) IsDefault() bool {
	return s.Year == AllValues && s.Quarter == AllValues
}
