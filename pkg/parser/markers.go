package parser

import (
	"regexp"
	"strings"
)

var immediateNotFoundRe = regexp.MustCompile(`(?i)\[⚠️\]\s*no se encontro información`)

// IsAntiSpam detecta a rejeição anti-spam do bot principal. Quando aparece,
// a conversa é abortada e a consulta repetida no bot de respaldo.
func IsAntiSpam(raw string) bool {
	return strings.Contains(raw, "[⛔] ANTI-SPAM") && strings.Contains(raw, "INTENTA DESPUES")
}

// IsImmediateNotFound detecta a resposta de "sin resultados" que encerra a
// coleta de mensagens na hora.
func IsImmediateNotFound(raw string) bool {
	return immediateNotFoundRe.MatchString(raw)
}

// IsWrongFormat detecta a reclamação de formato do bot.
func IsWrongFormat(text string) bool {
	return strings.Contains(strings.ToLower(text), "formato correcto")
}
