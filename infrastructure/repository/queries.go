package repository

import (
	"github.com/Masterminds/squirrel"
)

const (
	operatorTable   = "dim_operadora"
	expenseTable    = "fato_despesas_consolidadas"
	aggregatedTable = "despesas_agregadas"

	topOperatorsLimit = 5
)

var operatorColumns = []string{"cnpj", "razao_social", "uf", "modalidade"}

func searchFilter(search string) squirrel.Sqlizer {
	if search == "" {
		return squirrel.Expr("1=1")
	}

	pattern := "%" + search + "%"
	return squirrel.Or{
		squirrel.ILike{"cnpj": pattern},
		squirrel.ILike{"razao_social": pattern},
	}
}

func countOperatorsQuery(search string) squirrel.SelectBuilder {
	return squirrel.
		Select("COUNT(*)").
		From(operatorTable).
		Where(searchFilter(search)).
		PlaceholderFormat(squirrel.Dollar)
}

func listOperatorsQuery(search string, page, limit int) squirrel.SelectBuilder {
	offset := (page - 1) * limit

	return squirrel.
		Select(operatorColumns...).
		From(operatorTable).
		Where(searchFilter(search)).
		OrderBy("razao_social").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		PlaceholderFormat(squirrel.Dollar)
}

func operatorQuery(cnpj string) squirrel.SelectBuilder {
	return squirrel.
		Select(operatorColumns...).
		From(operatorTable).
		Where(squirrel.Eq{"cnpj": cnpj}).
		PlaceholderFormat(squirrel.Dollar)
}

// expensesQuery soma as despesas por trimestre, do mais antigo para o mais recente
func expensesQuery(cnpj string) squirrel.SelectBuilder {
	return squirrel.
		Select("ano", "trimestre", "SUM(valor_despesas) AS valor_despesas").
		From(expenseTable).
		Where(squirrel.Eq{"cnpj": cnpj}).
		GroupBy("ano", "trimestre").
		OrderBy("ano", "trimestre").
		PlaceholderFormat(squirrel.Dollar)
}

// statsTotalsQuery usa a tabela agregada por razão social e UF para total e média
func statsTotalsQuery() squirrel.SelectBuilder {
	return squirrel.
		Select(
			"COALESCE(SUM(total_despesas), 0) AS total_despesas",
			"COALESCE(AVG(total_despesas), 0) AS media_despesas",
		).
		From(aggregatedTable).
		PlaceholderFormat(squirrel.Dollar)
}

func topOperatorsQuery() squirrel.SelectBuilder {
	totals := squirrel.
		Select("cnpj", "SUM(valor_despesas) AS total_despesas").
		From(expenseTable).
		GroupBy("cnpj").
		OrderBy("total_despesas DESC").
		Limit(topOperatorsLimit)

	return squirrel.
		Select("d.cnpj", "d.razao_social", "d.uf", "d.modalidade", "t.total_despesas").
		From(operatorTable + " d").
		JoinClause(totals.Prefix("JOIN (").Suffix(") t ON t.cnpj = d.cnpj")).
		OrderBy("t.total_despesas DESC").
		PlaceholderFormat(squirrel.Dollar)
}

func ufTotalsQuery() squirrel.SelectBuilder {
	return squirrel.
		Select("d.uf", "SUM(f.valor_despesas) AS total_uf").
		From(expenseTable + " f").
		Join(operatorTable + " d ON d.cnpj = f.cnpj").
		Where("d.uf IS NOT NULL AND d.uf <> ''").
		GroupBy("d.uf").
		OrderBy("total_uf DESC").
		PlaceholderFormat(squirrel.Dollar)
}
