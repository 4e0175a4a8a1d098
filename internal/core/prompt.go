package core

import (
	"fmt"
	"strings"
)

// DefaultSystemInstruction describes the assistant's role and the JSON shape it must answer with
const DefaultSystemInstruction = "Você é um classificador de e-mails de suporte automatizado e um assistente de resposta. " +
	"Sua tarefa é analisar o conteúdo do email fornecido, classificá-lo e gerar uma resposta. " +
	"Sua saída DEVE ser um objeto JSON válido com as chaves 'classificacao' e 'resposta_sugerida'."

// DefaultUserTemplate embeds the normalized email text through its single %s verb
const DefaultUserTemplate = `Analise o seguinte conteúdo de e-mail e retorne um JSON com a classificação e uma sugestão de resposta.

Classifique o e-mail em exatamente uma de duas categorias: 'Produtivo' ou 'Improdutivo'.
- Produtivo: e-mails que requerem uma ação ou resposta específica (solicitações de suporte, dúvidas sobre pedidos, atualizações de casos em aberto).
- Improdutivo: e-mails que não necessitam de uma ação imediata (felicitações, agradecimentos, mensagens sem pedido concreto).
A resposta sugerida deve ser profissional e ter entre 2 e 3 frases.

Conteúdo do E-mail:
---
%s
---`

// PromptBuilder assembles the fixed instruction and the templated user prompt
type PromptBuilder struct {
	system   string
	template string
}

// NewPromptBuilder validates the templates, empty values select the defaults
func NewPromptBuilder(system, template string) (*PromptBuilder, error) {
	if strings.TrimSpace(system) == "" {
		system = DefaultSystemInstruction
	}
	if strings.TrimSpace(template) == "" {
		template = DefaultUserTemplate
	}

	// exactly one %s and no other verbs
	if strings.Count(template, "%s") != 1 || strings.Count(strings.ReplaceAll(template, "%%", ""), "%") != 1 {
		return nil, fmt.Errorf("prompt template must contain exactly one %%s and no other verbs")
	}

	return &PromptBuilder{system: system, template: template}, nil
}

// Build embeds the normalized text into the user prompt
func (b *PromptBuilder) Build(content string) Prompt {
	return Prompt{
		System: b.system,
		User:   fmt.Sprintf(b.template, content),
	}
}
