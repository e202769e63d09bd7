package summarizer

import (
	"fmt"
	"regexp"
	"strings"
)

// The LLM strategies share one instruction and one response format so their
// outputs parse identically.

const SYSTEM_INSTRUCTION = `Você é um especialista em análise e resumo de conteúdo cultural, histórico, religioso e filosófico.`

// Roughly 3000 tokens worth of input.
const maxPromptContentLength = 12000

var (
	summarySectionPattern   = regexp.MustCompile(`(?is)RESUMO:\s*(.*?)(?:PONTOS-CHAVE:|$)`)
	keyPointsSectionPattern = regexp.MustCompile(`(?is)PONTOS-CHAVE:\s*(.*)`)
	bulletPrefixPattern     = regexp.MustCompile(`^[-*]\s*`)
)

func buildPrompt(content string, maxLength int) string {
	if len(content) > maxPromptContentLength {
		content = content[:maxPromptContentLength]
	}

	return fmt.Sprintf(`Analise o seguinte conteúdo e forneça:
1. Um resumo conciso (máximo %d caracteres)
2. Lista de 3-5 pontos-chave principais

Conteúdo:
%s

Formato da resposta:
RESUMO:
[seu resumo aqui]

PONTOS-CHAVE:
- [ponto 1]
- [ponto 2]
- [ponto 3]`, maxLength, content)
}

// parseResponse locates the RESUMO and PONTOS-CHAVE sections. A response
// without section markers is treated as a bare summary with no key points.
func parseResponse(response string) (string, []string) {
	summary := strings.TrimSpace(response)
	if m := summarySectionPattern.FindStringSubmatch(response); m != nil {
		summary = strings.TrimSpace(m[1])
	}

	var keyPoints []string
	if m := keyPointsSectionPattern.FindStringSubmatch(response); m != nil {
		for _, line := range strings.Split(m[1], "\n") {
			point := strings.TrimSpace(bulletPrefixPattern.ReplaceAllString(strings.TrimSpace(line), ""))
			if point != "" {
				keyPoints = append(keyPoints, point)
			}
		}
	}

	return summary, keyPoints
}
