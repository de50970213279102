package parser

import (
	"regexp"
	"strings"
)

// Fields são os metadados auxiliares extraídos durante a limpeza.
type Fields struct {
	PhotoType string
	NotFound  bool
}

// Cleaned é o resultado da limpeza de uma mensagem bruta do bot.
type Cleaned struct {
	Text   string
	Fields Fields
}

var (
	brandRe  = regexp.MustCompile(`(?i)\[#?LEDER_BOT\]`)
	brand2Re = regexp.MustCompile(`(?i)\[CONSULTA PE\]`)
	headerRe = regexp.MustCompile(`(?is)^\[.*?\]\s*→\s*.*?\[.*?\](\r?\n){1,2}`)
	footerRe = regexp.MustCompile(`(?is)((\r?\n){1,2}\[|Página\s*\d+/\d+.*|(\r?\n){1,2}Por favor, usa el formato correcto.*|↞ Anterior|Siguiente ↠.*|Credits\s*:.+|Wanted for\s*:.+|\s*@lederdata.*|(\r?\n){1,2}\s*Marca\s*@lederdata.*|(\r?\n){1,2}\s*Créditos\s*:\s*\d+)`)
	dashRe   = regexp.MustCompile(`-{3,}`)
	spaceRe  = regexp.MustCompile(`[ \t]+`)
	blankRe  = regexp.MustCompile(`\n{3,}`)

	photoRe    = regexp.MustCompile(`(?i)Foto\s*:\s*(rostro|huella|firma|adverso|reverso).*`)
	notFoundRe = regexp.MustCompile(`(?is)\[⚠️\]\s*(no se encontro información|no se han encontrado resultados|no se encontró una|no hay resultados|no tenemos datos|no se encontraron registros)`)
)

// Clean remove branding, cabeçalhos e rodapés das mensagens do bot sem
// destruir quebras de linha. As quebras são necessárias para o parser
// detectar a estrutura dos registros.
func Clean(raw string) Cleaned {
	if raw == "" {
		return Cleaned{}
	}

	text := raw
	text = brandRe.ReplaceAllString(text, "")
	text = brand2Re.ReplaceAllString(text, "")
	text = headerRe.ReplaceAllString(text, "")
	text = footerRe.ReplaceAllString(text, "")
	text = dashRe.ReplaceAllString(text, "")

	// Só compacta espaços e tabs; \n é preservado.
	text = normalizeNewlines(text)
	text = spaceRe.ReplaceAllString(text, " ")
	text = blankRe.ReplaceAllString(text, "\n\n")
	text = strings.TrimSpace(text)

	fields := Fields{}
	if m := photoRe.FindStringSubmatch(text); m != nil {
		fields.PhotoType = strings.ToLower(m[1])
	}
	if notFoundRe.MatchString(text) {
		fields.NotFound = true
	}

	return Cleaned{Text: text, Fields: fields}
}

func normalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}
