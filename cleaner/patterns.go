package cleaner

import "regexp"

// Heuristic boilerplate patterns, Portuguese and English. Kept as data so new
// phrases can be added without touching the cleaning flow.

var adsPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(advertisement|sponsored|promoted content|click here|buy now|subscribe now)\b`),
	regexp.MustCompile(`(?i)\b(publicidade|patrocinado|anúncio|clique aqui|compre agora|assine já)\b`),
	regexp.MustCompile(`(?i)\[\s*(ad|ads|advertisement|publicidade)\s*\]`),
}

// Navigation/UI phrases are only dropped when they sit on a short line; the
// same words inside running prose stay untouched.
var navPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(home|about|contact|menu|search|login|register|sign in|sign up)\b`),
	regexp.MustCompile(`(?i)\b(início|sobre|contato|busca|entrar|cadastrar|menu)\b`),
	regexp.MustCompile(`(?i)\b(cookie policy|privacy policy|terms of service|política de privacidade|termos de uso)\b`),
	regexp.MustCompile(`(?i)\b(share on|follow us|subscribe|compartilhar|siga-nos|inscreva-se)\b`),
}

var (
	htmlTagPattern = regexp.MustCompile(`<[^>]*>`)
	urlPattern     = regexp.MustCompile(`https?://\S+`)
	emailPattern   = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)

	// Keep letters, digits, basic punctuation and the accented Latin
	// letters used in Portuguese; everything else goes.
	specialCharPattern = regexp.MustCompile(`[^\w\s.,!?;:\-'"áàâãéèêíïóôõöúçñÁÀÂÃÉÈÊÍÏÓÔÕÖÚÇÑ]`)

	// A paragraph needs at least one 3+ letter word run to count as prose.
	wordRunPattern = regexp.MustCompile(`[a-zA-Z]{3,}`)

	spaceRunPattern     = regexp.MustCompile(`[ \t]+`)
	newlinePadPattern   = regexp.MustCompile(`[ \t]*\n[ \t]*`)
	blankLineRunPattern = regexp.MustCompile(`\n{3,}`)
)
