package relay

import "context"

// Media descreve um anexo (documento PDF ou imagem) de uma mensagem.
type Media struct {
	ID   string `json:"id"`
	Kind string `json:"kind"` // "pdf", "photo", ...
}

// Message é uma mensagem recebida de um bot de consulta.
type Message struct {
	ID    int64  `json:"id"`
	Bot   string `json:"bot"`
	Text  string `json:"text"`
	Media *Media `json:"media,omitempty"`
}

// Session é a sessão de conversa com os bots de consulta. A implementação
// de produção fala com uma ponte HTTP; os testes usam uma sessão fake.
type Session interface {
	// Send envia um comando (ex: "/rqh 12345678") para o bot.
	Send(ctx context.Context, bot, text string) error

	// Listen assina as mensagens vindas do bot. A função retornada encerra
	// a assinatura; depois dela o canal é fechado.
	Listen(bot string) (<-chan Message, func())

	// Download baixa o anexo da mensagem e informa a extensão do arquivo.
	Download(ctx context.Context, msg Message) ([]byte, string, error)
}
