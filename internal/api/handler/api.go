package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	jsoniter "github.com/json-iterator/go"
	"github.com/julienschmidt/httprouter"
	"github.com/vfg2006/painel-operadoras/internal/domain"
	"github.com/vfg2006/painel-operadoras/internal/usecases/loading"
	"github.com/vfg2006/painel-operadoras/internal/views"
	"github.com/vfg2006/painel-operadoras/pkg/apiErrors"
	"github.com/vfg2006/painel-operadoras/pkg/log"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const maxAPIPageLimit = 100

var errOutOfRange = errors.New("valor fora do intervalo")

func writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.ForContext(r.Context()).WithError(err).Warn("Erro ao escrever resposta JSON")
	}
}

// settle ativa uma tela avulsa e espera o fim do lote. Se a requisição acabar antes,
// a tela é desativada e o resultado tardio é descartado.
func settle(ctx context.Context, v views.View) loading.Status {
	v.Activate()

	status := v.Wait(ctx)
	if status == loading.StatusLoading {
		v.Deactivate()
	}

	return status
}

// respond traduz o estado da tela para a resposta JSON
func respond(w http.ResponseWriter, r *http.Request, status loading.Status, errText string, snapshot any) {
	switch status {
	case loading.StatusSuccess:
		writeJSON(w, r, http.StatusOK, snapshot)
	case loading.StatusError:
		apiErrors.WriteError(w, apiErrors.ErrExternalService, errText, nil)
	default:
		apiErrors.WriteError(w, apiErrors.ErrLoadTimeout, "O carregamento não terminou a tempo", nil)
	}
}

func DashboardJSON(factory *views.Factory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view := factory.Dashboard()
		status := settle(r.Context(), view)

		model := view.Snapshot()
		respond(w, r, status, model.Error, model)
	}
}

func OperatorsJSON(factory *views.Factory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		values := r.URL.Query()

		page, err := optionalInt(values, "page")
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Parâmetro page inválido", nil)
			return
		}
		limit, err := optionalInt(values, "limit")
		if err != nil || limit > maxAPIPageLimit {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Parâmetro limit inválido", nil)
			return
		}

		view := factory.OperatorList(views.ListQuery{Page: page, Limit: limit, Search: values.Get("search")})
		status := settle(r.Context(), view)

		model := view.Snapshot()
		respond(w, r, status, model.Error, model)
	}
}

// OperatorJSON devolve os detalhes de uma operadora com o filtro de ano e trimestre aplicado
func OperatorJSON(factory *views.Factory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cnpj, err := domain.ParseCNPJ(httprouter.ParamsFromContext(r.Context()).ByName("cnpj"))
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidCNPJ, "CNPJ inválido", nil)
			return
		}

		selection, err := strictSelection(r.URL.Query())
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFilter, "Filtro inválido: "+err.Error(), nil)
			return
		}

		view := factory.OperatorDetail(cnpj)
		status := settle(r.Context(), view)
		if status == loading.StatusSuccess {
			if err := view.Select(selection); err != nil {
				apiErrors.WriteError(w, apiErrors.ErrInternalServer, err.Error(), nil)
				return
			}
		}

		model := view.Snapshot()
		respond(w, r, status, model.Error, model)
	}
}

func optionalInt(values url.Values, key string) (int, error) {
	raw := values.Get(key)
	if raw == "" {
		return 0, nil
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, errOutOfRange
	}

	return n, nil
}

// strictSelection valida ano e trimestre; ausentes significam "todos"
func strictSelection(values url.Values) (domain.FilterSelection, error) {
	year, err := optionalInt(values, "ano")
	if err != nil {
		return domain.FilterSelection{}, fmt.Errorf("ano: %w", err)
	}

	quarter, err := optionalInt(values, "trimestre")
	if err != nil {
		return domain.FilterSelection{}, fmt.Errorf("trimestre: %w", err)
	}
	if quarter != domain.AllValues && !domain.IsValidQuarter(quarter) {
		return domain.FilterSelection{}, fmt.Errorf("trimestre: %w", errOutOfRange)
	}

	return domain.FilterSelection{Year: year, Quarter: quarter}, nil
}
