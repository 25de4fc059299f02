package rendering

import (
	"strings"
	"time"
)

// enhancedMarker matches the header GenerateFinalCV places before rewritten sections.
const enhancedMarker = "### Enhanced Sections ###"

// Meta carries details that are not part of the CV text.
type Meta struct {
	Name            string
	Email           string
	Phone           string
	MissingKeywords []string
	Coverage        float64
}

// Document is the template data for a rendered CV.
type Document struct {
	Name            string
	Email           string
	Phone           string
	Sections        []Section
	MissingKeywords []string
	Coverage        float64
	GeneratedAt     time.Time
}

// Section is a titled part of the CV. Enhanced marks sections produced by the
// language model.
type Section struct {
	Title    string
	Blocks   []Block
	Enhanced bool
}

// Block is either a paragraph (Text) or a bullet list (Bullets).
type Block struct {
	Text    string
	Bullets []string
}

// IsList reports whether the block is a bullet list.
func (b Block) IsList() bool {
	return len(b.Bullets) > 0
}

// HasEnhanced reports whether any section came from enhancement.
func (d Document) HasEnhanced() bool {
	for _, s := range d.Sections {
		if s.Enhanced {
			return true
		}
	}
	return false
}

// BuildDocument splits CV text into sections. Markdown headings start a new
// section, "- " and "* " lines form bullet lists, and other consecutive lines
// are joined into paragraphs. Everything after the enhanced-sections marker
// is flagged as Enhanced.
func BuildDocument(text string, meta Meta) Document {
	doc := Document{
		Name:            meta.Name,
		Email:           meta.Email,
		Phone:           meta.Phone,
		MissingKeywords: meta.MissingKeywords,
		Coverage:        meta.Coverage,
		GeneratedAt:     time.Now().UTC(),
	}

	var (
		current   *Section
		paragraph []string
		enhanced  bool
	)

	flushParagraph := func() {
		if len(paragraph) == 0 {
			return
		}
		current.Blocks = append(current.Blocks, Block{Text: strings.Join(paragraph, " ")})
		paragraph = nil
	}
	startSection := func(title string) {
		if current != nil {
			flushParagraph()
			if current.Title != "" || len(current.Blocks) > 0 {
				doc.Sections = append(doc.Sections, *current)
			}
		}
		current = &Section{Title: title, Enhanced: enhanced}
	}

	startSection("")
	for _, raw := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		line := strings.TrimSpace(raw)
		switch {
		case line == enhancedMarker:
			enhanced = true
			startSection("")
		case line == "":
			flushParagraph()
		case strings.HasPrefix(line, "#"):
			startSection(strings.TrimSpace(strings.TrimLeft(line, "#")))
		case strings.HasPrefix(line, "- ") || strings.HasPrefix(line, "* "):
			flushParagraph()
			item := strings.TrimSpace(line[2:])
			if n := len(current.Blocks); n > 0 && current.Blocks[n-1].IsList() {
				current.Blocks[n-1].Bullets = append(current.Blocks[n-1].Bullets, item)
			} else {
				current.Blocks = append(current.Blocks, Block{Bullets: []string{item}})
			}
		default:
			paragraph = append(paragraph, line)
		}
	}
	startSection("")

	return doc
}
