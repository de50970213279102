package parser

import "strings"

type pair struct {
	key   string
	value string
}

// extractPairs extrai pares (chave, valor) mesmo quando vários ocupam a
// mesma linha: "... DNI : 100 FECHA : 01-01 ...". A regra global é a do
// pipeline original: cada ':' indica chave/valor; a chave nunca contém ':'
// nem quebra de linha; o valor termina no espaço que antecede a próxima
// chave válida (ou no fim do texto).
func extractPairs(text string) []pair {
	if text == "" {
		return nil
	}

	t := normalizeNewlines(text)
	n := len(t)

	var pairs []pair
	pos := 0

	for pos < n {
		c, k := nextKey(t, pos)
		if c == -1 {
			break
		}
		key := strings.TrimSpace(t[k:c])

		// Pula o espaçamento após o ':'
		v := c + 1
		for v < n && isSpace(t[v]) {
			v++
		}

		end := valueEnd(t, v)
		value := strings.TrimSpace(spaceRe.ReplaceAllString(t[v:end], " "))

		// Chave vazia não vira par, mas o trecho já foi consumido
		if key != "" {
			pairs = append(pairs, pair{key: key, value: value})
		}
		pos = end
	}

	return pairs
}

// nextKey localiza o próximo ':' utilizável a partir de pos e o início da
// chave correspondente (após a última quebra de linha ou ':' rejeitado).
// Retorna (-1, -1) quando não há mais pares.
func nextKey(t string, pos int) (colon, keyStart int) {
	s := pos
	for {
		i := strings.IndexByte(t[s:], ':')
		if i == -1 {
			return -1, -1
		}
		i += s

		start := s
		if nl := strings.LastIndexByte(t[s:i], '\n'); nl != -1 {
			start = s + nl + 1
		}
		if start < i {
			return i, start
		}
		// ':' sem chave antes dele; segue adiante
		s = i + 1
	}
}

// valueEnd acha o fim do valor iniciado em v: a primeira posição de
// whitespace a partir da qual existe uma chave válida (sem '\n' nem ':')
// antes do próximo ':'. Sem chave seguinte, o valor vai até o fim do texto.
// Isso reproduz o lookahead do parser original, que o RE2 não expressa.
func valueEnd(t string, v int) int {
	n := len(t)
	for p := v; p < n; p++ {
		if !isSpace(t[p]) {
			continue
		}

		w := p
		for w < n && isSpace(t[w]) {
			w++
		}

		c2 := strings.IndexByte(t[w:], ':')
		if c2 == -1 {
			return n
		}
		c2 += w

		if w < c2 && !strings.Contains(t[w:c2], "\n") {
			return p
		}
	}
	return n
}

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return false
}
