package gemini

import (
	"strings"
	"unicode/utf8"
)

const maxUserInstructionRunes = 600

// PromptOverrides lets operators steer the review prompt without editing the
// template. Every value is sanitized before it reaches the model.
type PromptOverrides struct {
	ExtraCriteria    string `mapstructure:"extra-criteria"`
	DealBreakers     string `mapstructure:"deal-breakers"`
	UserInstructions string `mapstructure:"user-instructions"`
}

var bracketReplacer = strings.NewReplacer("[", "(", "]", ")", "{{", "(", "}}", ")")

// singleLine collapses all whitespace and neutralizes template markers.
func singleLine(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	return bracketReplacer.Replace(s)
}

func singleLineOr(s, fallback string) string {
	if v := singleLine(s); v != "" {
		return v
	}
	return fallback
}

// instructionBlock renders free-form operator notes as an indented list, one
// item per non-empty line.
func instructionBlock(s string) string {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) > maxUserInstructionRunes {
		s = string([]rune(s)[:maxUserInstructionRunes])
	}

	var lines []string
	for _, line := range strings.Split(s, "\n") {
		line = singleLine(line)
		if line == "" {
			continue
		}
		lines = append(lines, "  - "+line)
	}
	if len(lines) == 0 {
		return "  - none"
	}
	return strings.Join(lines, "\n")
}

func render(template string, values map[string]string) string {
	pairs := make([]string, 0, len(values)*2)
	for k, v := range values {
		pairs = append(pairs, "{{"+k+"}}", v)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}
