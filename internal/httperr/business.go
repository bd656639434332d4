package httperr

import "errors"

// ===============================
// Business error taxonomy
// ===============================

type Kind string

const (
	KindValidation       Kind = "validation"        // entrada inválida, nunca re-tentar
	KindConflict         Kind = "conflict"          // perdeu a corrida pelo horário, re-buscar e tentar 1x
	KindSaturation       Kind = "saturation"        // sem slot e sem fila, trocar barbeiro/data
	KindStoreUnavailable Kind = "store_unavailable" // store fora do ar, retry com backoff
	KindBusiness         Kind = "business"          // regra de negócio genérica
)

type BusinessError struct {
	Kind      Kind
	Code      string
	Retryable bool
}

func (e BusinessError) Error() string {
	return e.Code
}

func ErrBusiness(code string) error {
	return BusinessError{Kind: KindBusiness, Code: code}
}

func ErrValidation(code string) error {
	return BusinessError{Kind: KindValidation, Code: code}
}

func ErrConflict(code string) error {
	return BusinessError{Kind: KindConflict, Code: code, Retryable: true}
}

func ErrSaturation(code string) error {
	return BusinessError{Kind: KindSaturation, Code: code}
}

func ErrStoreUnavailable(code string) error {
	return BusinessError{Kind: KindStoreUnavailable, Code: code, Retryable: true}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

func IsKind(err error, kind Kind) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Kind == kind
	}
	return false
}

func KindOf(err error) Kind {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Kind
	}
	return ""
}
