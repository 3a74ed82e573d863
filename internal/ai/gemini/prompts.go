package gemini

import (
	"encoding/json"
	"fmt"
	"strings"
)

const CultivationAnalysisPromptTemplate = `Você é um especialista em agronomia e cultivo de cannabis com mais de 15 anos de experiência.
Analise os dados de cultivo abaixo e produza um relatório técnico objetivo.

## REGRAS
1. Responda SOMENTE com JSON válido, sem markdown e sem texto fora do objeto
2. Escreva em português do Brasil
3. Baseie-se apenas nos dados fornecidos; quando um dado faltar, diga que falta
4. A resposta deve começar com { e terminar com }

## DADOS DO CULTIVO
%s

## PERGUNTA DO CULTIVADOR
%s

## FORMATO DE SAÍDA
{
  "analysis": "diagnóstico geral em um ou dois parágrafos",
  "recommendations": ["ação concreta", "..."],
  "anomalies": ["desvio encontrado nos dados", "..."]
}`

const VisionAnalysisPromptTemplate = `Você é um especialista em fitossanidade de cannabis.
Examine a foto da planta e descreva seu estado.

## REGRAS
1. Responda SOMENTE com JSON válido, sem markdown
2. Escreva em português do Brasil
3. health_status deve ser um de: "saudavel", "atencao", "critico"
4. estimated_phase deve ser um de: germination, seedling, vegetative, flowering, drying, curing, ou vazio se não for possível estimar

## CONTEXTO
%s

## PEDIDO DO CULTIVADOR
%s

## FORMATO DE SAÍDA
{
  "description": "o que se vê na imagem",
  "health_status": "saudavel",
  "issues": ["problema visível", "..."],
  "recommendations": ["ação concreta", "..."],
  "estimated_phase": "vegetative"
}`

const defaultQuestion = "Faça uma análise geral do cultivo e aponte riscos."

// BuildCultivationAnalysisPrompt renders the analysis prompt with the
// cultivation data serialized as indented JSON.
func BuildCultivationAnalysisPrompt(data map[string]any, question string) (string, error) {
	payload, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode cultivation data: %w", err)
	}
	question = strings.TrimSpace(question)
	if question == "" {
		question = defaultQuestion
	}
	return fmt.Sprintf(CultivationAnalysisPromptTemplate, payload, question), nil
}

func BuildVisionPrompt(contextLines []string, request string) string {
	ctx := "Sem informações adicionais."
	if len(contextLines) > 0 {
		ctx = "- " + strings.Join(contextLines, "\n- ")
	}
	request = strings.TrimSpace(request)
	if request == "" {
		request = "Avalie a saúde geral da planta."
	}
	return fmt.Sprintf(VisionAnalysisPromptTemplate, ctx, request)
}
