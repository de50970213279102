package parser

import (
	"regexp"
	"strings"
)

// Record é um registro estruturado extraído do texto do bot. Valores
// repetidos dentro do mesmo registro viram []interface{}.
type Record map[string]interface{}

var wsRe = regexp.MustCompile(`\s+`)

// Chaves que costumam marcar o início de um novo registro. Quando uma delas
// se repete no fluxo de pares, um novo registro começa (ex: RQH com dois
// resultados).
var pivotKeys = map[string]struct{}{
	"DNI":                 {},
	"RUC":                 {},
	"CE":                  {},
	"CI":                  {},
	"PASAPORTE":           {},
	"NRO":                 {},
	"N°":                  {},
	"CLAVE":               {},
	"FECHA REGISTRO":      {},
	"FECHA HORA REGISTRO": {},
}

func isPivot(key string) bool {
	_, ok := pivotKeys[strings.ToUpper(key)]
	return ok
}

// Parse aplica a regra "si o si": todo ':' vira chave/valor. Retorna nil
// quando o texto não tem estrutura reconhecível; um elemento para registro
// único; vários elementos quando uma chave pivô se repete.
func Parse(raw string) []Record {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	text := strings.TrimSpace(normalizeNewlines(raw))
	pairs := extractPairs(text)
	if len(pairs) == 0 {
		return nil
	}

	var records []Record
	current := Record{}
	pivotSeen := false

	for _, p := range pairs {
		key := strings.TrimSpace(wsRe.ReplaceAllString(p.key, " "))

		if isPivot(key) {
			// Pivô repetido com dados acumulados → novo registro
			if pivotSeen && len(current) > 0 {
				records = append(records, current)
				current = Record{}
			}
			pivotSeen = true
		}

		if existing, ok := current[key]; ok {
			if list, ok := existing.([]interface{}); ok {
				current[key] = append(list, p.value)
			} else {
				current[key] = []interface{}{existing, p.value}
			}
		} else {
			current[key] = p.value
		}
	}

	if len(current) > 0 {
		records = append(records, current)
	}

	return records
}
