package constants

// FinanceSchemaDescription is the textual description of the ExpenseLit
// relational schema injected into the SQL-generation prompt. The schema is
// an external collaborator: the chatbot queries it, it never owns it.
const FinanceSchemaDescription = `Banco de dados: financas (MySQL)

Tabela usuarios:
  - id INT PRIMARY KEY AUTO_INCREMENT
  - nome VARCHAR(100): nome completo do usuario
  - login VARCHAR(25): login de acesso
  - senha VARCHAR(100): senha criptografada (NUNCA selecionar)
  - documento_usuario VARCHAR(25): CPF do usuario
  - sexo VARCHAR(1): 'M' ou 'F'

Tabela contas:
  - id INT PRIMARY KEY AUTO_INCREMENT
  - nome_conta VARCHAR(100): nome da instituicao (ex: 'Nubank', 'Sicoob')
  - tipo_conta VARCHAR(50): 'Conta Corrente', 'Conta Salario', 'Fundo de Garantia', 'Vale Alimentacao'
  - proprietario_conta VARCHAR(100): nome do proprietario
  - documento_proprietario_conta VARCHAR(25): CPF do proprietario
  - inativa VARCHAR(1): 'S' se a conta foi encerrada, 'N' caso contrario

Tabela despesas:
  - id INT PRIMARY KEY AUTO_INCREMENT
  - descricao VARCHAR(100)
  - valor DECIMAL(10,2): valor em reais
  - data DATE
  - horario TIME
  - categoria VARCHAR(100): 'Casa', 'Comida', 'Eletroeletronicos', 'Lazer', 'Presente', 'Restaurante', 'Saude', 'Servicos', 'Transporte', 'Vestuario'
  - conta VARCHAR(100): nome da conta pagadora (referencia contas.nome_conta)
  - proprietario_despesa VARCHAR(100): nome do proprietario
  - documento_proprietario_despesa VARCHAR(25): CPF do proprietario
  - pago VARCHAR(1): 'S' se a despesa foi paga, 'N' caso contrario

Tabela receitas:
  - id INT PRIMARY KEY AUTO_INCREMENT
  - descricao VARCHAR(100)
  - valor DECIMAL(10,2): valor em reais
  - data DATE
  - horario TIME
  - categoria VARCHAR(100): 'Ajuste', 'Deposito', 'Premio', 'Salario', 'Vale', 'Rendimentos'
  - conta VARCHAR(100): nome da conta recebedora (referencia contas.nome_conta)
  - proprietario_receita VARCHAR(100): nome do proprietario
  - documento_proprietario_receita VARCHAR(25): CPF do proprietario
  - recebido VARCHAR(1): 'S' se a receita foi recebida, 'N' caso contrario

Tabela emprestimos:
  - id INT PRIMARY KEY AUTO_INCREMENT
  - descricao VARCHAR(100)
  - valor DECIMAL(10,2): valor total emprestado
  - valor_pago DECIMAL(10,2): valor ja devolvido
  - data DATE
  - horario TIME
  - categoria VARCHAR(100)
  - conta VARCHAR(100): conta de origem do dinheiro
  - devedor VARCHAR(100): nome de quem recebeu o emprestimo (beneficiado)
  - documento_devedor VARCHAR(25): CPF do beneficiado
  - credor VARCHAR(100): nome de quem emprestou o dinheiro
  - documento_credor VARCHAR(25): CPF do credor
  - pago VARCHAR(1): 'S' se o emprestimo foi quitado, 'N' caso contrario

Tabela cartao_credito:
  - id INT PRIMARY KEY AUTO_INCREMENT
  - nome_cartao VARCHAR(100)
  - numero_cartao VARCHAR(100): numero do cartao (NUNCA selecionar)
  - proprietario_cartao VARCHAR(100): nome do titular
  - documento_titular_cartao VARCHAR(25): CPF do titular
  - conta_associada VARCHAR(100): referencia contas.nome_conta
  - validade DATE
  - limite_credito DECIMAL(10,2)
  - limite_maximo DECIMAL(10,2)

Tabela despesas_cartao_credito:
  - id INT PRIMARY KEY AUTO_INCREMENT
  - descricao VARCHAR(100)
  - valor DECIMAL(10,2)
  - data DATE
  - horario TIME
  - categoria VARCHAR(100)
  - cartao VARCHAR(100): referencia cartao_credito.nome_cartao
  - parcela INT: numero da parcela
  - proprietario_despesa_cartao VARCHAR(100): nome do titular
  - doc_proprietario_cartao VARCHAR(25): CPF do titular
  - pago VARCHAR(1): 'S' se a fatura da parcela foi paga, 'N' caso contrario`
