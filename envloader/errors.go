package envloader

import (
	"fmt"
	"reflect"
)

// InvalidConfigError é retornado quando Load recebe um argumento que não é
// um ponteiro para struct.
type InvalidConfigError struct {
	Value reflect.Type
}

func (e *InvalidConfigError) Error() string {
	if e.Value.Kind() != reflect.Ptr {
		return fmt.Sprintf("envloader: config deve ser ponteiro para struct, recebido %s", e.Value.Kind())
	}
	return fmt.Sprintf("envloader: config deve ser ponteiro para struct, recebido ponteiro para %s", e.Value.Elem().Kind())
}

// FieldError é retornado quando a conversão de uma variável de ambiente para
// o tipo do campo falha. Encapsula o erro original (strconv, ParseDuration
// ou UnsupportedTypeError).
type FieldError struct {
	FieldName string
	EnvVar    string
	Value     string
	Err       error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("envloader: erro ao definir campo %s a partir de %s=%s: %v",
		e.FieldName, e.EnvVar, e.Value, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// UnsupportedTypeError é retornado quando o tipo do campo (map, slice,
// interface...) não possui conversão suportada.
type UnsupportedTypeError struct {
	Type reflect.Type
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("envloader: tipo não suportado %s", e.Type)
}
