package filtering

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vfg2006/painel-operadoras/internal/domain"
)

var history = []domain.ExpenseRecord{
	{Ano: 2024, Trimestre: 4, ValorDespesas: 40},
	{Ano: 2023, Trimestre: 1, ValorDespesas: 10},
}

func TestFilter(t *testing.T) {
	tests := []struct {
		name      string
		records   []domain.ExpenseRecord
		selection domain.FilterSelection
		want      []domain.ExpenseRecord
	}{
		{
			name:      "Seleção padrão - devolve a coleção inteira",
			records:   history,
			selection: domain.DefaultSelection(),
			want:      history,
		},
		{
			name:      "Somente trimestre com todos os anos",
			records:   history,
			selection: domain.FilterSelection{Year: 0, Quarter: 4},
			want:      []domain.ExpenseRecord{{Ano: 2024, Trimestre: 4, ValorDespesas: 40}},
		},
		{
			name:      "Somente ano com todos os trimestres",
			records:   history,
			selection: domain.FilterSelection{Year: 2024, Quarter: 0},
			want:      []domain.ExpenseRecord{{Ano: 2024, Trimestre: 4, ValorDespesas: 40}},
		},
		{
			name:      "Ano e trimestre sem correspondência",
			records:   history,
			selection: domain.FilterSelection{Year: 2023, Quarter: 4},
			want:      []domain.ExpenseRecord{},
		},
		{
			name:      "Trimestre fora do domínio - nenhum registro",
			records:   history,
			selection: domain.FilterSelection{Quarter: 7},
			want:      []domain.ExpenseRecord{},
		},
		{
			name:      "Ano negativo - nenhum registro",
			records:   history,
			selection: domain.FilterSelection{Year: -1},
			want:      []domain.ExpenseRecord{},
		},
		{
			name: "Preserva a ordem de entrada",
			records: []domain.ExpenseRecord{
				{Ano: 2023, Trimestre: 3, ValorDespesas: 3},
				{Ano: 2024, Trimestre: 1, ValorDespesas: 1},
				{Ano: 2023, Trimestre: 1, ValorDespesas: 2},
			},
			selection: domain.FilterSelection{Year: 2023},
			want: []domain.ExpenseRecord{
				{Ano: 2023, Trimestre: 3, ValorDespesas: 3},
				{Ano: 2023, Trimestre: 1, ValorDespesas: 2},
			},
		},
		{
			name:      "Coleção ausente - nada para filtrar",
			records:   nil,
			selection: domain.FilterSelection{Year: 2024},
			want:      nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Filter(tt.records, tt.selection))
		})
	}
}

func TestFilter_IdempotentAndPure(t *testing.T) {
	original := append([]domain.ExpenseRecord(nil), history...)
	selection := domain.FilterSelection{Year: 2024}

	first := Filter(history, selection)
	second := Filter(history, selection)

	assert.Equal(t, first, second)
	assert.Equal(t, original, history)
}

func TestFilter_ResetRestoresFullCollection(t *testing.T) {
	selections := []domain.FilterSelection{
		{Year: 2024},
		{Quarter: 1},
		{Year: 2023, Quarter: 1},
		{Year: 1999, Quarter: 9},
	}

	for _, selection := range selections {
		_ = Filter(history, selection)
		assert.Equal(t, history, Filter(history, domain.DefaultSelection()))
	}
}

func TestAvailableYears(t *testing.T) {
	records := []domain.ExpenseRecord{
		{Ano: 2023, Trimestre: 1},
		{Ano: 2024, Trimestre: 1},
		{Ano: 2023, Trimestre: 2},
		{Ano: 2022, Trimestre: 4},
	}

	assert.Equal(t, []int{2024, 2023, 2022}, AvailableYears(records))
	assert.Empty(t, AvailableYears(nil))
}

func TestTotal(t *testing.T) {
	assert.Equal(t, 50.0, Total(history))
	assert.Equal(t, 0.0, Total(nil))
}

func TestQuarters(t *testing.T) {
	quarters := Quarters()
	assert.Equal(t, []int{1, 2, 3, 4}, quarters)

	quarters[0] = 9
	assert.Equal(t, []int{1, 2, 3, 4}, Quarters())
}
