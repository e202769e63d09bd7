package summarizer

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestParseResponseWithSections(t *testing.T) {
	response := `RESUMO:
A mitologia grega explica a origem do mundo através das gerações divinas.

PONTOS-CHAVE:
- Caos precede todas as divindades
- Os titãs antecedem os deuses olímpicos
* Zeus lidera o panteão após a Titanomaquia`

	summary, keyPoints := parseResponse(response)

	assert.Equal(t, "A mitologia grega explica a origem do mundo através das gerações divinas.", summary)
	assert.Equal(t, []string{
		"Caos precede todas as divindades",
		"Os titãs antecedem os deuses olímpicos",
		"Zeus lidera o panteão após a Titanomaquia",
	}, keyPoints)
}

func TestParseResponseWithoutMarkers(t *testing.T) {
	summary, keyPoints := parseResponse("  Uma resposta sem formato estruturado.  ")

	assert.Equal(t, "Uma resposta sem formato estruturado.", summary)
	assert.Empty(t, keyPoints)
}

func TestBuildPromptTruncatesLongContent(t *testing.T) {
	content := strings.Repeat("a", maxPromptContentLength+5000)

	prompt := buildPrompt(content, 500)

	assert.Less(t, len(prompt), maxPromptContentLength+1000)
	assert.Contains(t, prompt, "RESUMO:")
	assert.Contains(t, prompt, "PONTOS-CHAVE:")
}

func TestExtractiveSummaryStaysWithinLimit(t *testing.T) {
	content := "Primeiro parágrafo sobre o assunto principal tratado no texto original completo.\n\n" +
		"Segundo parágrafo com informações complementares sobre o mesmo tema em discussão.\n\n" +
		"Terceiro parágrafo que provavelmente não cabe dentro do limite configurado aqui."

	summary := extractiveSummary(content, 200)

	assert.NotEmpty(t, summary)
	assert.LessOrEqual(t, len(summary), 200)
	assert.Contains(t, summary, "Primeiro parágrafo")
}

func TestExtractiveSummaryTruncatesWhenNothingFits(t *testing.T) {
	content := strings.Repeat("palavra ", 100)

	summary := extractiveSummary(content, 50)

	assert.LessOrEqual(t, len(summary), 50)
	assert.True(t, strings.HasSuffix(summary, "..."))
}

func TestExtractiveSummaryTruncatesOnRuneBoundary(t *testing.T) {
	content := strings.Repeat("ação", 50)

	summary := extractiveSummary(content, 40)

	assert.True(t, utf8.ValidString(summary))
	assert.LessOrEqual(t, len(summary), 40)
	assert.True(t, strings.HasSuffix(summary, "..."))
}

func TestExtractiveKeyPointsLimit(t *testing.T) {
	var parts []string
	for i := 0; i < 8; i++ {
		parts = append(parts, "Uma frase inicial razoável para o parágrafo. Resto do parágrafo ignorado.")
	}

	keyPoints := extractiveKeyPoints(strings.Join(parts, "\n\n"))

	assert.Len(t, keyPoints, 5)
	assert.Equal(t, "Uma frase inicial razoável para o parágrafo", keyPoints[0])
}

func TestExtractiveKeyPointsFiltersShortSentences(t *testing.T) {
	keyPoints := extractiveKeyPoints("Curta.\n\nEsta frase tem o tamanho adequado para virar um ponto-chave.")

	assert.Equal(t, []string{"Esta frase tem o tamanho adequado para virar um ponto-chave"}, keyPoints)
}
