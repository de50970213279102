// Package consultagateway expõe por HTTP as consultas de registros públicos
// respondidas pelos bots de mensageria, com cache de respostas e failover
// automático entre bot principal e de respaldo.
//
// Visão Geral:
// O serviço recebe requisições REST (ex: GET /rqh?dni=...), valida o
// parâmetro, repassa o comando ao bot via a ponte de mensagens e devolve um
// envelope JSON estruturado a partir do texto livre da resposta.
//
// Sub-Pacotes Principais:
//
// 1. envloader:
//   - Carregamento de configurações via tags "env" e "envDefault".
//   - Suporte a tipos nativos, time.Duration e structs aninhadas.
//
// 2. pkg/gateway:
//   - Orquestração da consulta: cache, escolha do bot, coleta das respostas
//     e montagem do envelope final.
//
// 3. pkg/parser:
//   - Limpeza das mensagens (branding, cabeçalhos, rodapés) e extração de
//     pares chave/valor em registros estruturados.
//
// 4. pkg/relay:
//   - Sessão com a ponte HTTP de mensagens: envio de comandos, escuta de
//     respostas e download de anexos.
//
// 5. pkg/transport:
//   - Rotas HTTP, middlewares (observabilidade, concorrência, timeout),
//     adaptador Lambda e fila SQS de operações.
package consultagateway
