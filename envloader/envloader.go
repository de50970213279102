package envloader

import (
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"
)

var durationType = reflect.TypeOf(time.Duration(0))

// Load preenche uma struct com valores de variáveis de ambiente usando as
// tags "env" e "envDefault". Structs aninhadas (valor ou ponteiro) são
// percorridas recursivamente; campos sem tag "env" ficam intocados.
func Load(config interface{}) error {
	val := reflect.ValueOf(config)
	if val.Kind() != reflect.Ptr || val.Elem().Kind() != reflect.Struct {
		return &InvalidConfigError{Value: val.Type()}
	}
	return walk(val.Elem())
}

// MustLoad é igual ao Load, mas entra em panic em caso de erro.
func MustLoad(config interface{}) {
	if err := Load(config); err != nil {
		panic(err)
	}
}

func walk(val reflect.Value) error {
	typ := val.Type()

	for i := 0; i < val.NumField(); i++ {
		field := val.Field(i)
		fieldType := typ.Field(i)

		if !field.CanSet() {
			continue
		}

		// time.Duration é um int64 nomeado; precisa ser resolvido antes da
		// recursão de structs e do switch por Kind.
		if field.Type() == durationType {
			if raw := lookup(fieldType); raw != "" {
				d, err := time.ParseDuration(raw)
				if err != nil {
					return &FieldError{FieldName: fieldType.Name, EnvVar: fieldType.Tag.Get("env"), Value: raw, Err: err}
				}
				field.SetInt(int64(d))
			}
			continue
		}

		if field.Kind() == reflect.Struct {
			if err := walk(field); err != nil {
				return err
			}
			continue
		}

		if field.Kind() == reflect.Ptr && field.Type().Elem().Kind() == reflect.Struct {
			if field.IsNil() {
				field.Set(reflect.New(field.Type().Elem()))
			}
			if err := walk(field.Elem()); err != nil {
				return err
			}
			continue
		}

		raw := lookup(fieldType)
		if raw == "" {
			continue
		}

		if err := assign(field, raw); err != nil {
			return &FieldError{
				FieldName: fieldType.Name,
				EnvVar:    fieldType.Tag.Get("env"),
				Value:     raw,
				Err:       err,
			}
		}
	}

	return nil
}

// lookup resolve o valor de um campo: variável de ambiente primeiro,
// senão o envDefault. Retorna "" quando não há nada a aplicar.
func lookup(fieldType reflect.StructField) string {
	name := fieldType.Tag.Get("env")
	if name == "" {
		return ""
	}
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fieldType.Tag.Get("envDefault")
}

func assign(field reflect.Value, value string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return err
		}
		field.SetInt(n)

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return err
		}
		field.SetUint(n)

	case reflect.Bool:
		b, err := strconv.ParseBool(strings.ToLower(value))
		if err != nil {
			return err
		}
		field.SetBool(b)

	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		field.SetFloat(f)

	default:
		return &UnsupportedTypeError{Type: field.Type()}
	}

	return nil
}
