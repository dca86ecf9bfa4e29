// Package summarizing prepara os números do dashboard para exibição.
// Os valores vêm prontos da origem dos dados; nada aqui recalcula totais, médias ou o ranking.
package summarizing

import (
	"fmt"
	"sort"

	"github.com/vfg2006/painel-operadoras/internal/domain"
	"github.com/vfg2006/painel-operadoras/pkg/log"
)

// RankingPolicy define quem é responsável pela ordem do ranking de operadoras.
// A origem dos dados devolve o top 5 ordenado pelo total; a política deixa explícito
// se essa ordem é aceita como veio ou se é reordenada aqui.
type RankingPolicy string

const (
	// RankingPolicyTrustSource usa a ordem devolvida pela origem dos dados
	RankingPolicyTrustSource RankingPolicy = "source"
	// RankingPolicySortByTotal reordena pelo total de despesas, do maior para o menor.
	// Empates mantêm a ordem da origem.
	RankingPolicySortByTotal RankingPolicy = "sorted"
)

// ParseRankingPolicy converte o valor de configuração em RankingPolicy
func ParseRankingPolicy(value string) (RankingPolicy, error) {
	switch RankingPolicy(value) {
	case RankingPolicyTrustSource, RankingPolicySortByTotal:
		return RankingPolicy(value), nil
	case "":
		return RankingPolicyTrustSource, nil
	default:
		return "", fmt.Errorf("política de ranking inválida: %q", value)
	}
}

// RankingRow é uma linha do ranking de operadoras
type RankingRow struct {
	Position int                `json:"position"`
	Operator domain.TopOperator `json:"operator"`
}

// Summary é o resumo exibido no dashboard
type Summary struct {
	Empty         bool         `json:"empty"`
	TotalDespesas float64      `json:"total_despesas"`
	MediaDespesas float64      `json:"media_despesas"`
	Ranking       []RankingRow `json:"ranking"`
}

// Summarize monta o resumo do dashboard. Sem despesas e sem ranking, o resumo é
// marcado como vazio e não tem linhas.
func Summarize(stats domain.DashboardStats, policy RankingPolicy) Summary {
	if stats.TotalDespesas == 0 && len(stats.Top5Operadoras) == 0 {
		return Summary{Empty: true, Ranking: []RankingRow{}}
	}

	top := stats.Top5Operadoras
	if len(top) > domain.MaxTopOperators {
		log.L.WithFields(log.Fields{
			"received": len(top),
		}).Warn("summarizing: ranking maior que o esperado, mantendo apenas as 5 primeiras")
		top = top[:domain.MaxTopOperators]
	}

	ordered := make([]domain.TopOperator, len(top))
	copy(ordered, top)

	if policy == RankingPolicySortByTotal {
		sort.SliceStable(ordered, func(i, j int) bool {
			return ordered[i].TotalDespesas > ordered[j].TotalDespesas
		})
	}

	rows := make([]RankingRow, len(ordered))
	for i, operator := range ordered {
		rows[i] = RankingRow{Position: i + 1, Operator: operator}
	}

	return Summary{
		TotalDespesas: stats.TotalDespesas,
		MediaDespesas: stats.MediaDespesas,
		Ranking:       rows,
	}
}

// UFChart são os dados repassados ao gráfico de despesas por UF
type UFChart struct {
	Empty bool                 `json:"empty"`
	Items []domain.UFAggregate `json:"items"`
}

// ChartUFs repassa a lista de UFs sem alteração, ou marca o gráfico como vazio
func ChartUFs(ufs []domain.UFAggregate) UFChart {
	if len(ufs) == 0 {
		return UFChart{Empty: true, Items: []domain.UFAggregate{}}
	}

	return UFChart{Items: ufs}
}
