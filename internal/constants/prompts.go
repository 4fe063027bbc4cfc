package constants

import "fmt"

// NoDataFoundMessage is returned for an empty result set without ever
// calling the explanation model.
const NoDataFoundMessage = "Não encontrei nenhum dado para responder a essa pergunta. Tente reformular ou verifique se há lançamentos no período."

// sqlGenerationPromptTemplate receives, in order: schema description,
// user id, user document (CPF) and the free-text question. Each value is
// substituted exactly once.
const sqlGenerationPromptTemplate = `Você é um assistente especializado em gerar consultas SQL para um aplicativo de finanças pessoais.

Esquema do banco de dados:
%s

Regras obrigatórias:
1. Gere UMA única instrução SELECT que responda à pergunta do usuário.
2. Toda consulta DEVE filtrar os dados pelo proprietário autenticado: id de usuário '%s' e documento (CPF) '%s'. Use as colunas de documento de cada tabela (documento_proprietario_despesa, documento_proprietario_receita, documento_devedor, documento_credor, documento_titular_cartao, doc_proprietario_cartao, documento_proprietario_conta) conforme a tabela consultada.
3. Em emprestimos, o credor é quem emprestou o dinheiro (valores a receber) e o devedor/beneficiado é quem recebeu o emprestimo (valores a pagar). Escolha a coluna de documento de acordo com a direção da pergunta.
4. As colunas de status usam 'S' e 'N': pago = 'S' significa quitado, recebido = 'S' significa recebido, inativa = 'S' significa conta encerrada.
5. NUNCA selecione as colunas senha ou numero_cartao.
6. Não gere INSERT, UPDATE, DELETE, DROP ou qualquer instrução que modifique dados.
7. Responda somente com a instrução SQL, sem explicações e sem formatação Markdown.

Pergunta do usuário: %s`

// explanationPromptTemplate receives the question, the executed SQL and the
// row preview (at most 5 rows).
const explanationPromptTemplate = `Você é um assistente financeiro que explica resultados de consultas em linguagem natural.

Pergunta original: %s

Consulta executada:
%s

Primeiras linhas do resultado:
%s

Instruções de resposta:
1. Responda em português brasileiro, em tom amigável e direto.
2. Não use Markdown nem caracteres de formatação (asteriscos, cerquilhas, crases).
3. Escreva valores monetários por extenso em reais, com vírgula como separador decimal (ex: 'cento e cinquenta reais', 'R$ 150,00').
4. Escreva datas por extenso (ex: 'quinze de março de dois mil e vinte e seis').
5. NUNCA revele senhas, documentos, CPF ou números de cartão, mesmo que apareçam no resultado.
6. Se o resultado for uma amostra, deixe claro que está resumindo as primeiras linhas.`

// BuildSQLGenerationPrompt renders the SQL-generation prompt for the
// authenticated user. Pure formatting: the question text is embedded as-is
// and any failure is left for the model call downstream.
func BuildSQLGenerationPrompt(userID, userDocument, question string) string {
	return fmt.Sprintf(sqlGenerationPromptTemplate, FinanceSchemaDescription, userID, userDocument, question)
}

// BuildExplanationPrompt renders the explanation prompt from the original
// question, the executed SQL and a bounded row preview.
func BuildExplanationPrompt(question, sqlText, preview string) string {
	return fmt.Sprintf(explanationPromptTemplate, question, sqlText, preview)
}
