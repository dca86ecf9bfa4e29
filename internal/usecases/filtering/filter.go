// Package filtering reduz o histórico de despesas de uma operadora à seleção de ano e trimestre.
package filtering

import (
	"sort"

	"github.com/vfg2006/painel-operadoras/internal/domain"
)

// Filter retorna os registros que atendem à seleção, na mesma ordem da entrada.
// Zero em uma dimensão não restringe nada; valores fora do domínio apenas não casam
// com nenhum registro. A entrada nunca é alterada.
func Filter(records []domain.ExpenseRecord, selection domain.FilterSelection) []domain.ExpenseRecord {
	if records == nil {
		return nil
	}

	visible := make([]domain.ExpenseRecord, 0, len(records))
	for _, record := range records {
		if matches(record, selection) {
			visible = append(visible, record)
		}
	}

	return visible
}

func matches(record domain.ExpenseRecord, selection domain.FilterSelection) bool {
	if selection.Year != domain.AllValues && record.Ano != selection.Year {
		return false
	}

	if selection.Quarter != domain.AllValues && record.Trimestre != selection.Quarter {
		return false
	}

	return true
}

// AvailableYears lista os anos presentes nos registros, do mais recente para o mais antigo
func AvailableYears(records []domain.ExpenseRecord) []int {
	seen := make(map[int]bool, len(records))
	years := make([]int, 0)

	for _, record := range records {
		if seen[record.Ano] {
			continue
		}
		seen[record.Ano] = true
		years = append(years, record.Ano)
	}

	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	return years
}

// Total soma o valor de despesas dos registros
func Total(records []domain.ExpenseRecord) float64 {
	var total float64
	for _, record := range records {
		total += record.ValorDespesas
	}
	return total
}

// Quarters devolve as opções de trimestre exibidas no seletor
func Quarters() []int {
	return append([]int(nil), domain.Quarters...)
}
