package ingestion

import (
	"regexp"
	"strings"
)

var (
	innerSpaces     = regexp.MustCompile(`[ \t\f\v\x{00a0}]+`)
	excessiveBlanks = regexp.MustCompile(`\n\n\n+`)
	unicodeBullet   = regexp.MustCompile(`^[•·▪●◦‣∙]\s*`)
)

// CleanText normalizes extracted text while preserving its structure:
// line endings become LF, headings and bullets keep their markers, runs of
// spaces collapse, and at most one blank line separates blocks.
func CleanText(content string) string {
	if content == "" {
		return ""
	}

	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")
	content = strings.ReplaceAll(content, "\x00", "")

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = cleanLine(line)
	}

	result := strings.Join(lines, "\n")
	result = excessiveBlanks.ReplaceAllString(result, "\n\n")
	return strings.TrimSpace(result)
}

// cleanLine cleans a single line, keeping indentation in front of bullets.
func cleanLine(line string) string {
	line = strings.TrimRight(line, " \t")
	trimmed := strings.TrimLeft(line, " \t")
	if trimmed == "" {
		return ""
	}

	if strings.HasPrefix(trimmed, "#") {
		return innerSpaces.ReplaceAllString(trimmed, " ")
	}

	indent := line[:len(line)-len(trimmed)]
	if unicodeBullet.MatchString(trimmed) {
		trimmed = unicodeBullet.ReplaceAllString(trimmed, "- ")
	}
	if isBulletLine(trimmed) {
		return indent + trimmed[:2] + innerSpaces.ReplaceAllString(strings.TrimSpace(trimmed[2:]), " ")
	}

	return innerSpaces.ReplaceAllString(trimmed, " ")
}

func isBulletLine(trimmed string) bool {
	return strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "* ")
}
