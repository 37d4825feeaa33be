package docx

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/docquill/quill/model"
)

// Field instructions are small command lines embedded in the document,
// such as `HYPERLINK "https://example.com" \o "tip"`. The grammar is a
// keyword followed by any mix of switches, quoted strings, and bare
// words.

var fieldLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "String", Pattern: `"(\\.|[^"\\])*"`},
	{Name: "Switch", Pattern: `\\[^\s"\\]+`},
	{Name: "Word", Pattern: `[^\s"\\]+`},
	{Name: "Whitespace", Pattern: `\s+`},
})

type fieldToken struct {
	Switch string `parser:"  @Switch"`
	Quoted string `parser:"| @String"`
	Word   string `parser:"| @Word"`
}

type fieldInstruction struct {
	Name   string        `parser:"@Word"`
	Tokens []*fieldToken `parser:"@@*"`
}

var fieldParser = participle.MustBuild[fieldInstruction](
	participle.Lexer(fieldLexer),
	participle.Elide("Whitespace"),
)

// parseFieldInfo parses a raw field instruction into a classified
// FieldInfo. A lexically broken instruction is an error; an instruction
// with an unrecognized keyword parses fine as FieldUnknown.
func parseFieldInfo(instr string) (model.FieldInfo, error) {
	trimmed := strings.TrimSpace(instr)
	if trimmed == "" {
		return model.FieldInfo{}, errors.New("empty field instruction")
	}
	ast, err := fieldParser.ParseString("", trimmed)
	if err != nil {
		return model.FieldInfo{}, err
	}

	info := model.FieldInfo{
		Instruction: trimmed,
		Name:        ast.Name,
	}
	for _, tok := range ast.Tokens {
		switch {
		case tok.Switch != "":
			info.Switches = append(info.Switches, tok.Switch)
		case tok.Quoted != "":
			info.Args = append(info.Args, unquoteFieldArg(tok.Quoted))
		default:
			info.Args = append(info.Args, tok.Word)
		}
	}

	switch ast.Name {
	case "HYPERLINK":
		info.Kind = model.FieldHyperlink
		info.Anchor = hasSwitch(info.Switches, `\l`)
		info.Target = hyperlinkTarget(ast.Tokens)
	case "PAGEREF":
		info.Kind = model.FieldPageRef
		info.Anchor = true
		if len(info.Args) > 0 {
			info.Target = info.Args[0]
		}
	}
	return info, nil
}

// hyperlinkTarget reassembles the link target. A plain instruction
// yields its first argument; a bookmark-relative form appends the
// argument following the \l switch as a fragment.
func hyperlinkTarget(toks []*fieldToken) string {
	var url, anchor string
	for i, tok := range toks {
		if tok.Switch == `\l` {
			if anchor == "" && i+1 < len(toks) {
				anchor = argValue(toks[i+1])
			}
			continue
		}
		if tok.Switch == "" && url == "" && (i == 0 || toks[i-1].Switch != `\l`) {
			url = argValue(tok)
		}
	}
	switch {
	case url != "" && anchor != "":
		return url + "#" + anchor
	case anchor != "":
		return anchor
	default:
		return url
	}
}

func argValue(tok *fieldToken) string {
	if tok.Quoted != "" {
		return unquoteFieldArg(tok.Quoted)
	}
	return tok.Word
}

func hasSwitch(switches []string, want string) bool {
	for _, s := range switches {
		if s == want {
			return true
		}
	}
	return false
}

func unquoteFieldArg(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	return strings.ReplaceAll(s, `\"`, `"`)
}

// The field-character state machine. Complex fields arrive as marker
// runs (begin, separate, end) interleaved with instruction text and
// ordinary content, and fields may nest. Each open field is a frame on
// the parse state's stack.

type frameKind int

const (
	// frameOpen: begin seen, no instruction yet.
	frameOpen frameKind = iota
	// frameInfo: instruction captured, content not started.
	frameInfo
	// frameContent: separator seen, collecting the field result.
	frameContent
)

type fieldFrame struct {
	kind     frameKind
	info     model.FieldInfo
	children []model.ParPart
}

// applyFieldMarker advances the stack for one begin/separate/end
// marker. Completing the outermost field returns it; completing a
// nested field folds it into the enclosing frame. Mismatched end
// markers are errors the caller turns into a dropped element, leaving
// the stack as it was.
func (st *parseState) applyFieldMarker(typ string) ([]model.ParPart, error) {
	switch typ {
	case "begin":
		st.fields = append(st.fields, fieldFrame{kind: frameOpen})
		return nil, nil

	case "separate":
		// A stray separator is tolerated as a no-op.
		if n := len(st.fields); n > 0 && st.fields[n-1].kind == frameInfo {
			st.fields[n-1].kind = frameContent
		}
		return nil, nil

	case "end":
		n := len(st.fields)
		if n == 0 {
			return nil, errors.New("field end marker with no open field")
		}
		switch top := &st.fields[n-1]; top.kind {
		case frameInfo:
			// The field ended before any content run.
			st.fields = st.fields[:n-1]
			return nil, nil
		case frameContent:
			completed := &model.Field{Info: top.info, Children: top.children}
			if n == 1 {
				st.fields = st.fields[:0]
				return []model.ParPart{completed}, nil
			}
			if parent := &st.fields[n-2]; parent.kind == frameContent {
				st.fields = st.fields[:n-1]
				parent.children = append(parent.children, completed)
				return nil, nil
			}
			return nil, errors.New("field end marker inside an unseparated field")
		default:
			return nil, errors.New("field end marker before any instruction")
		}
	}
	return nil, fmt.Errorf("unknown field marker type %q", typ)
}

// applyInstrText captures instruction text for a freshly opened field.
// Anywhere else the text is ignored.
func (st *parseState) applyInstrText(instr string) error {
	n := len(st.fields)
	if n == 0 || st.fields[n-1].kind != frameOpen {
		return nil
	}
	info, err := parseFieldInfo(instr)
	if err != nil {
		return err
	}
	st.fields[n-1].kind = frameInfo
	st.fields[n-1].info = info
	return nil
}

// capturing reports whether parsed content currently belongs to an open
// field rather than to the surrounding paragraph.
func (st *parseState) capturing() bool {
	n := len(st.fields)
	return n > 0 && st.fields[n-1].kind == frameContent
}

func (st *parseState) capture(parts []model.ParPart) {
	n := len(st.fields)
	st.fields[n-1].children = append(st.fields[n-1].children, parts...)
}

// flushOpenFields converts content accumulated by fields still open at
// the end of a paragraph into partial Field nodes, nested innermost
// last. The frames stay on the stack, emptied, so a field spanning
// paragraphs keeps collecting in the next one.
func (st *parseState) flushOpenFields() []model.ParPart {
	var inner []model.ParPart
	for i := len(st.fields) - 1; i >= 0; i-- {
		fr := &st.fields[i]
		if fr.kind != frameContent {
			continue
		}
		children := append(fr.children, inner...)
		inner = []model.ParPart{&model.Field{Info: fr.info, Children: children}}
		fr.children = nil
	}
	return inner
}
