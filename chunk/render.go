package chunk

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/docquill/quill/model"
)

// block is one renderable body part with its flattened text.
type block struct {
	text string
	kind model.BodyPartKind
	// atomic blocks never split, regardless of size.
	atomic bool
}

// renderBlocks flattens body parts to text blocks. Empty parts are
// skipped.
func renderBlocks(parts []model.BodyPart, tablesAtomic bool) []block {
	var blocks []block
	for _, part := range parts {
		text := renderPart(part)
		if strings.TrimSpace(text) == "" {
			continue
		}
		blocks = append(blocks, block{
			text:   text,
			kind:   part.Kind(),
			atomic: tablesAtomic && part.Kind() == model.KindTable,
		})
	}
	return blocks
}

func renderPart(part model.BodyPart) string {
	switch p := part.(type) {
	case *model.ListItem:
		return listIndent(p.Ilvl) + listMarker(p.LevelDef) + " " + p.Text()
	case *model.Table:
		return strings.TrimRight(p.Text(), "\n")
	default:
		return part.Text()
	}
}

// listIndent indents nested list items two spaces per level.
func listIndent(ilvl string) string {
	n, err := strconv.Atoi(ilvl)
	if err != nil || n <= 0 {
		return ""
	}
	return strings.Repeat("  ", n)
}

// listMarker picks a plain text marker for a list item. Bullet levels
// render a bullet; everything else, numbered levels included, renders a
// dash since the item's ordinal is not tracked.
func listMarker(lvl *model.Level) string {
	if lvl != nil && lvl.Format == "bullet" {
		return "•"
	}
	return "-"
}

// splitBySize splits text into pieces no longer than limit, preferring
// sentence boundaries and falling back to word boundaries.
func splitBySize(text string, limit int) []string {
	if len(text) <= limit {
		return []string{text}
	}
	var pieces []string
	var cur strings.Builder
	for _, sentence := range splitSentences(text) {
		if cur.Len() > 0 && (len(sentence) > limit || cur.Len()+len(sentence)+1 > limit) {
			pieces = append(pieces, strings.TrimSpace(cur.String()))
			cur.Reset()
		}
		if len(sentence) > limit {
			pieces = append(pieces, splitWords(sentence, limit)...)
			continue
		}
		if cur.Len() > 0 {
			cur.WriteString(" ")
		}
		cur.WriteString(sentence)
	}
	if cur.Len() > 0 {
		pieces = append(pieces, strings.TrimSpace(cur.String()))
	}
	return pieces
}

// splitSentences splits on sentence terminators followed by whitespace.
func splitSentences(text string) []string {
	var sentences []string
	start := 0
	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		if runes[i] != '.' && runes[i] != '!' && runes[i] != '?' {
			continue
		}
		if i+1 < len(runes) && !unicode.IsSpace(runes[i+1]) {
			continue
		}
		sentence := strings.TrimSpace(string(runes[start : i+1]))
		if sentence != "" {
			sentences = append(sentences, sentence)
		}
		start = i + 1
	}
	if rest := strings.TrimSpace(string(runes[start:])); rest != "" {
		sentences = append(sentences, rest)
	}
	return sentences
}

// splitWords hard-splits text on word boundaries when no sentence
// boundary fits inside the limit.
func splitWords(text string, limit int) []string {
	var pieces []string
	var cur strings.Builder
	for _, word := range strings.Fields(text) {
		if cur.Len() > 0 && cur.Len()+len(word)+1 > limit {
			pieces = append(pieces, cur.String())
			cur.Reset()
		}
		if cur.Len() > 0 {
			cur.WriteString(" ")
		}
		cur.WriteString(word)
	}
	if cur.Len() > 0 {
		pieces = append(pieces, cur.String())
	}
	return pieces
}

// tailWords returns the last words of text totalling at most limit
// characters, for overlap context.
func tailWords(text string, limit int) string {
	if limit <= 0 || text == "" {
		return ""
	}
	if len(text) <= limit {
		return text
	}
	words := strings.Fields(text)
	total := 0
	i := len(words)
	for i > 0 && total+len(words[i-1])+1 <= limit {
		i--
		total += len(words[i]) + 1
	}
	if i == len(words) {
		return ""
	}
	return strings.Join(words[i:], " ")
}
