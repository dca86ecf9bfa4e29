// Package repository responde aos recursos do painel direto do banco da ANS,
// com as mesmas consultas e o mesmo formato do backend HTTP.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	jsoniter "github.com/json-iterator/go"
	"github.com/vfg2006/painel-operadoras/infrastructure/database/postgres"
	"github.com/vfg2006/painel-operadoras/internal/domain"
	"github.com/vfg2006/painel-operadoras/pkg/metrics"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

var (
	ErrOperatorNotFound = errors.New("Operadora não encontrada")
	ErrInvalidPaging    = errors.New("parâmetros de paginação inválidos")
	ErrUnknownResource  = errors.New("recurso não encontrado")
)

// DirectSource implementa a busca de recursos consultando o Postgres
type DirectSource struct {
	db postgres.Queryer
}

func NewDirectSource(db postgres.Queryer) *DirectSource {
	return &DirectSource{db: db}
}

// Get responde ao caminho da API com o corpo JSON equivalente ao do backend
func (s *DirectSource) Get(ctx context.Context, path string) ([]byte, error) {
	started := time.Now()
	body, err := s.get(ctx, path)
	metrics.BackendRequest(err, started)

	return body, err
}

// Health verifica a conexão com o banco
func (s *DirectSource) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *DirectSource) get(ctx context.Context, path string) ([]byte, error) {
	res, err := parseResource(path)
	if err != nil {
		return nil, err
	}

	var value any
	switch res.kind {
	case resourceStats:
		value, err = s.stats(ctx)
	case resourceStatsUF:
		value, err = s.ufTotals(ctx)
	case resourceOperatorList:
		value, err = s.listOperators(ctx, res.search, res.page, res.limit)
	case resourceOperator:
		value, err = s.operator(ctx, res.cnpj)
	case resourceExpenses:
		value, err = s.expenses(ctx, res.cnpj)
	}
	if err != nil {
		return nil, err
	}

	return json.Marshal(value)
}

type resourceKind int

const (
	resourceStats resourceKind = iota
	resourceStatsUF
	resourceOperatorList
	resourceOperator
	resourceExpenses
)

type resource struct {
	kind   resourceKind
	cnpj   string
	search string
	page   int
	limit  int
}

func parseResource(path string) (resource, error) {
	u, err := url.Parse(path)
	if err != nil {
		return resource{}, fmt.Errorf("%w: %s", ErrUnknownResource, path)
	}

	switch p := strings.TrimSuffix(u.Path, "/"); {
	case p == "/api/estatisticas":
		return resource{kind: resourceStats}, nil
	case p == "/api/estatisticas/uf":
		return resource{kind: resourceStatsUF}, nil
	case p == "/api/operadoras":
		return parseListQuery(u.Query())
	case strings.HasPrefix(p, "/api/operadoras/"):
		rest := strings.TrimPrefix(p, "/api/operadoras/")
		kind := resourceOperator
		if strings.HasSuffix(rest, "/despesas") {
			kind = resourceExpenses
			rest = strings.TrimSuffix(rest, "/despesas")
		}
		if rest == "" || strings.Contains(rest, "/") {
			return resource{}, fmt.Errorf("%w: %s", ErrUnknownResource, path)
		}

		cnpj, err := domain.ParseCNPJ(rest)
		if err != nil {
			return resource{}, err
		}
		return resource{kind: kind, cnpj: cnpj.String()}, nil
	}

	return resource{}, fmt.Errorf("%w: %s", ErrUnknownResource, path)
}

func parseListQuery(values url.Values) (resource, error) {
	res := resource{kind: resourceOperatorList, page: 1, limit: defaultPageLimit}

	if raw := values.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return resource{}, ErrInvalidPaging
		}
		res.page = page
	}

	if raw := values.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > maxPageLimit {
			return resource{}, ErrInvalidPaging
		}
		res.limit = limit
	}

	res.search = strings.TrimSpace(values.Get("search"))

	return res, nil
}

func (s *DirectSource) listOperators(ctx context.Context, search string, page, limit int) (*domain.OperatorPage, error) {
	countSQL, countArgs, err := countOperatorsQuery(search).ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	var total int
	if err := s.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("erro ao contar operadoras: %w", err)
	}

	operators, err := s.queryOperators(ctx, listOperatorsQuery(search, page, limit))
	if err != nil {
		return nil, err
	}

	return &domain.OperatorPage{
		Data:  operators,
		Page:  page,
		Limit: limit,
		Total: total,
	}, nil
}

func (s *DirectSource) queryOperators(ctx context.Context, query squirrel.SelectBuilder) ([]domain.Operator, error) {
	sqlQuery, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao executar a query: %w", err)
	}
	defer rows.Close()

	operators := make([]domain.Operator, 0)
	for rows.Next() {
		operator, err := scanOperator(rows)
		if err != nil {
			return nil, err
		}
		operators = append(operators, operator)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("erro ao ler operadoras: %w", err)
	}

	return operators, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanOperator(row scanner) (domain.Operator, error) {
	var (
		operator   domain.Operator
		razao      sql.NullString
		uf         sql.NullString
		modalidade sql.NullString
	)

	if err := row.Scan(&operator.CNPJ, &razao, &uf, &modalidade); err != nil {
		return operator, err
	}

	operator.RazaoSocial = razao.String
	operator.UF = uf.String
	operator.Modalidade = modalidade.String

	return operator, nil
}

func (s *DirectSource) operator(ctx context.Context, cnpj string) (*domain.Operator, error) {
	sqlQuery, args, err := operatorQuery(cnpj).ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	operator, err := scanOperator(s.db.QueryRowContext(ctx, sqlQuery, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOperatorNotFound
		}
		return nil, fmt.Errorf("erro ao buscar operadora: %w", err)
	}

	return &operator, nil
}

func (s *DirectSource) expenses(ctx context.Context, cnpj string) ([]domain.ExpenseRecord, error) {
	sqlQuery, args, err := expensesQuery(cnpj).ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao executar a query: %w", err)
	}
	defer rows.Close()

	records := make([]domain.ExpenseRecord, 0)
	for rows.Next() {
		var record domain.ExpenseRecord
		if err := rows.Scan(&record.Ano, &record.Trimestre, &record.ValorDespesas); err != nil {
			return nil, fmt.Errorf("erro ao ler despesas: %w", err)
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("erro ao ler despesas: %w", err)
	}

	return records, nil
}

func (s *DirectSource) stats(ctx context.Context) (*domain.DashboardStats, error) {
	stats := &domain.DashboardStats{Top5Operadoras: make([]domain.TopOperator, 0, topOperatorsLimit)}

	totalsSQL, totalsArgs, err := statsTotalsQuery().ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	if err := s.db.QueryRowContext(ctx, totalsSQL, totalsArgs...).Scan(&stats.TotalDespesas, &stats.MediaDespesas); err != nil {
		return nil, fmt.Errorf("erro ao calcular estatísticas: %w", err)
	}

	topSQL, topArgs, err := topOperatorsQuery().ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, topSQL, topArgs...)
	if err != nil {
		return nil, fmt.Errorf("erro ao executar a query: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			top        domain.TopOperator
			razao      sql.NullString
			uf         sql.NullString
			modalidade sql.NullString
		)
		if err := rows.Scan(&top.CNPJ, &razao, &uf, &modalidade, &top.TotalDespesas); err != nil {
			return nil, fmt.Errorf("erro ao ler ranking: %w", err)
		}
		top.RazaoSocial = razao.String
		top.UF = uf.String
		top.Modalidade = modalidade.String
		stats.Top5Operadoras = append(stats.Top5Operadoras, top)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("erro ao ler ranking: %w", err)
	}

	return stats, nil
}

// ufTotal é o formato do backend para o total por UF
type ufTotal struct {
	UF      string  `json:"uf"`
	TotalUF float64 `json:"total_uf"`
}

func (s *DirectSource) ufTotals(ctx context.Context) ([]ufTotal, error) {
	sqlQuery, args, err := ufTotalsQuery().ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao executar a query: %w", err)
	}
	defer rows.Close()

	totals := make([]ufTotal, 0)
	for rows.Next() {
		var total ufTotal
		if err := rows.Scan(&total.UF, &total.TotalUF); err != nil {
			return nil, fmt.Errorf("erro ao ler totais por UF: %w", err)
		}
		totals = append(totals, total)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("erro ao ler totais por UF: %w", err)
	}

	return totals, nil
}
