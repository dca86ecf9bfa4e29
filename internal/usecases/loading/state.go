package loading

// Status é a etapa do ciclo de carregamento de uma tela
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// IsSettled indica se o ciclo terminou (sucesso ou erro)
func (s Status) IsSettled() bool {
	return s == StatusSuccess || s == StatusError
}

// State é o estado observável de um carregamento.
// Payload só existe em StatusSuccess e Message só existe em StatusError.
type State struct {
	Status  Status
	Payload []any
	Message string
}

func idle() State {
	return State{Status: StatusIdle}
}

func loadingState() State {
	return State{Status: StatusLoading}
}

func succeeded(payload []any) State {
	return State{Status: StatusSuccess, Payload: payload}
}

func failed(message string) State {
	return State{Status: StatusError, Message: message}
}

// Value retorna o i-ésimo item do payload de um estado de sucesso
func Value[T any](s State, i int) (T, bool) {
	var zero T
	if s.Status != StatusSuccess || i < 0 || i >= len(s.Payload) {
		return zero, false
	}

	v, ok := s.Payload[i].(T)
	return v, ok
}

// MarshalText expõe o status pelo nome nas respostas JSON
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
