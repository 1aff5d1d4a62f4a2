package catalog

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/polkiloo/orderdesk/internal/pkg/textnorm"
)

// ArticleCode is a decoded SAGE X3 paper article code, e.g. KB100L28MON.
type ArticleCode struct {
	PaperType string
	Grammage  int
	Laize     int
	Supplier  string
}

const defaultGrammage = 80

type keyword struct {
	key  string
	code string
}

// Longest keys first so "kraft blanchi" wins over "kraft".
var paperTypes = []keyword{
	{"kraft blanchi", "KB"},
	{"kraft ecru", "KE"},
	{"kraft naturel", "KE"},
	{"kraft", "KE"},
	{"blanchi", "KB"},
	{"ecru", "KE"},
}

var suppliers = []keyword{
	{"mondi", "MON"},
	{"nordic", "NOR"},
	{"billerud", "BIL"},
	{"smurfit", "SMU"},
}

var paperNames = map[string]string{
	"KB": "Kraft Blanchi",
	"KE": "Kraft Écru",
}

var (
	grammagePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(\d+)\s*g(?:/m2|ram|r)?`),
		regexp.MustCompile(`grammage\s*[:=]?\s*(\d+)`),
	}
	laizePatterns = []*regexp.Regexp{
		regexp.MustCompile(`laize?\s*[:=]?\s*(\d+)`),
		regexp.MustCompile(`largeur\s*[:=]?\s*(\d+)`),
		regexp.MustCompile(`\bl(\d+)`),
	}
	codePattern = regexp.MustCompile(`^(KB|KE)(\d+)(?:L(\d+))?([A-Z]*)$`)
)

// SuggestArticleCode derives an article code from a product description.
// It returns "" when the description names no paper type.
func SuggestArticleCode(description string) string {
	lower := textnorm.Fold(description)
	typeCode := ""
	for _, p := range paperTypes {
		if strings.Contains(lower, p.key) {
			typeCode = p.code
			break
		}
	}
	if typeCode == "" {
		return ""
	}

	grammage := firstNumber(lower, grammagePatterns)
	if grammage == 0 {
		grammage = defaultGrammage
	}

	var b strings.Builder
	b.WriteString(typeCode)
	b.WriteString(strconv.Itoa(grammage))
	if laize := firstNumber(lower, laizePatterns); laize > 0 {
		b.WriteString("L")
		b.WriteString(strconv.Itoa(laize))
	}
	for _, s := range suppliers {
		if strings.Contains(lower, s.key) {
			b.WriteString(s.code)
			break
		}
	}
	return b.String()
}

// ParseArticleCode decodes a code produced by SuggestArticleCode.
func ParseArticleCode(code string) (ArticleCode, error) {
	m := codePattern.FindStringSubmatch(strings.ToUpper(strings.TrimSpace(code)))
	if m == nil {
		return ArticleCode{}, fmt.Errorf("invalid article code %q", code)
	}
	out := ArticleCode{PaperType: paperNames[m[1]]}
	out.Grammage, _ = strconv.Atoi(m[2])
	if m[3] != "" {
		out.Laize, _ = strconv.Atoi(m[3])
	}
	if m[4] != "" {
		out.Supplier = m[4]
		for _, s := range suppliers {
			if s.code == m[4] {
				out.Supplier = strings.ToUpper(s.key[:1]) + s.key[1:]
				break
			}
		}
	}
	return out, nil
}

func firstNumber(text string, patterns []*regexp.Regexp) int {
	for _, re := range patterns {
		if m := re.FindStringSubmatch(text); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil {
				return n
			}
		}
	}
	return 0
}
