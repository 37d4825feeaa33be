package docx

import (
	"testing"

	"github.com/docquill/quill/model"
)

func textPart(s string) model.ParPart {
	return &model.PlainRun{Run: &model.TextRun{Elems: []model.RunElem{&model.TextElem{Value: s}}}}
}

func TestParseFieldInfo(t *testing.T) {
	tests := []struct {
		name       string
		instr      string
		wantKind   model.FieldKind
		wantName   string
		wantTarget string
		wantAnchor bool
	}{
		{
			name:       "plain hyperlink",
			instr:      `HYPERLINK "https://example.com"`,
			wantKind:   model.FieldHyperlink,
			wantName:   "HYPERLINK",
			wantTarget: "https://example.com",
		},
		{
			name:       "bookmark hyperlink",
			instr:      `HYPERLINK \l "section2"`,
			wantKind:   model.FieldHyperlink,
			wantName:   "HYPERLINK",
			wantTarget: "section2",
			wantAnchor: true,
		},
		{
			name:       "hyperlink with fragment",
			instr:      `HYPERLINK "https://example.com" \l "frag"`,
			wantKind:   model.FieldHyperlink,
			wantName:   "HYPERLINK",
			wantTarget: "https://example.com#frag",
			wantAnchor: true,
		},
		{
			name:       "page reference",
			instr:      `PAGEREF _Ref12345 \h`,
			wantKind:   model.FieldPageRef,
			wantName:   "PAGEREF",
			wantTarget: "_Ref12345",
			wantAnchor: true,
		},
		{
			name:     "unrecognized keyword",
			instr:    `SEQ Table \* ARABIC`,
			wantKind: model.FieldUnknown,
			wantName: "SEQ",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := parseFieldInfo(tt.instr)
			if err != nil {
				t.Fatalf("parseFieldInfo(%q) failed: %v", tt.instr, err)
			}
			if info.Kind != tt.wantKind {
				t.Errorf("kind = %v, want %v", info.Kind, tt.wantKind)
			}
			if info.Name != tt.wantName {
				t.Errorf("name = %q, want %q", info.Name, tt.wantName)
			}
			if info.Target != tt.wantTarget {
				t.Errorf("target = %q, want %q", info.Target, tt.wantTarget)
			}
			if info.Anchor != tt.wantAnchor {
				t.Errorf("anchor = %v, want %v", info.Anchor, tt.wantAnchor)
			}
		})
	}
}

func TestParseFieldInfoErrors(t *testing.T) {
	for _, instr := range []string{"", "   ", `HYPERLINK "unterminated`} {
		if _, err := parseFieldInfo(instr); err == nil {
			t.Errorf("parseFieldInfo(%q) succeeded, want error", instr)
		}
	}
}

func TestParseFieldInfoKeepsSwitchesAndArgs(t *testing.T) {
	info, err := parseFieldInfo(`SEQ Table \* ARABIC`)
	if err != nil {
		t.Fatalf("parseFieldInfo failed: %v", err)
	}
	if len(info.Switches) != 1 || info.Switches[0] != `\*` {
		t.Errorf("switches = %v, want [\\*]", info.Switches)
	}
	if len(info.Args) != 2 || info.Args[0] != "Table" || info.Args[1] != "ARABIC" {
		t.Errorf("args = %v, want [Table ARABIC]", info.Args)
	}
}

func TestFieldMarkerBalanced(t *testing.T) {
	st := &parseState{}

	if _, err := st.applyFieldMarker("begin"); err != nil {
		t.Fatalf("begin failed: %v", err)
	}
	if err := st.applyInstrText(`PAGEREF b1 \h`); err != nil {
		t.Fatalf("instruction failed: %v", err)
	}
	if _, err := st.applyFieldMarker("separate"); err != nil {
		t.Fatalf("separate failed: %v", err)
	}
	if !st.capturing() {
		t.Fatal("expected content capture after separator")
	}
	st.capture([]model.ParPart{textPart("page 3")})

	out, err := st.applyFieldMarker("end")
	if err != nil {
		t.Fatalf("end failed: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("expected 1 part, got %d", len(out))
	}
	field, ok := out[0].(*model.Field)
	if !ok {
		t.Fatalf("expected *model.Field, got %T", out[0])
	}
	if field.Info.Kind != model.FieldPageRef || field.Info.Target != "b1" {
		t.Errorf("unexpected field info: %+v", field.Info)
	}
	if len(field.Children) != 1 || field.Children[0].Text() != "page 3" {
		t.Errorf("unexpected field children: %v", field.Children)
	}
	if len(st.fields) != 0 {
		t.Errorf("expected empty stack, got %d frames", len(st.fields))
	}
}

func TestFieldMarkerNested(t *testing.T) {
	st := &parseState{}

	st.applyFieldMarker("begin")
	st.applyInstrText(`HYPERLINK "https://outer.example"`)
	st.applyFieldMarker("separate")
	st.capture([]model.ParPart{textPart("before")})

	st.applyFieldMarker("begin")
	st.applyInstrText(`PAGEREF inner`)
	st.applyFieldMarker("separate")
	st.capture([]model.ParPart{textPart("inner text")})

	out, err := st.applyFieldMarker("end")
	if err != nil {
		t.Fatalf("inner end failed: %v", err)
	}
	if out != nil {
		t.Fatalf("inner end should fold into parent, got %v", out)
	}

	st.capture([]model.ParPart{textPart("after")})
	out, err = st.applyFieldMarker("end")
	if err != nil {
		t.Fatalf("outer end failed: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("expected 1 part, got %d", len(out))
	}
	outer := out[0].(*model.Field)
	if len(outer.Children) != 3 {
		t.Fatalf("expected 3 children, got %d", len(outer.Children))
	}
	if outer.Children[0].Text() != "before" {
		t.Errorf("first child = %q, want before", outer.Children[0].Text())
	}
	inner, ok := outer.Children[1].(*model.Field)
	if !ok {
		t.Fatalf("middle child is %T, want nested field", outer.Children[1])
	}
	if inner.Info.Target != "inner" || inner.Text() != "inner text" {
		t.Errorf("unexpected nested field: %+v", inner)
	}
	if outer.Children[2].Text() != "after" {
		t.Errorf("last child = %q, want after", outer.Children[2].Text())
	}
	if len(st.fields) != 0 {
		t.Errorf("expected empty stack, got %d frames", len(st.fields))
	}
}

func TestFieldMarkerMismatches(t *testing.T) {
	t.Run("stray separate", func(t *testing.T) {
		st := &parseState{}
		if _, err := st.applyFieldMarker("separate"); err != nil {
			t.Errorf("stray separator should be a no-op, got %v", err)
		}
		if len(st.fields) != 0 {
			t.Errorf("stack grew to %d", len(st.fields))
		}
	})

	t.Run("end with empty stack", func(t *testing.T) {
		st := &parseState{}
		if _, err := st.applyFieldMarker("end"); err == nil {
			t.Error("expected error for end with no open field")
		}
	})

	t.Run("end before instruction", func(t *testing.T) {
		st := &parseState{}
		st.applyFieldMarker("begin")
		if _, err := st.applyFieldMarker("end"); err == nil {
			t.Error("expected error for end before any instruction")
		}
		if len(st.fields) != 1 {
			t.Errorf("stack should be unchanged, got %d frames", len(st.fields))
		}
	})

	t.Run("end without separator", func(t *testing.T) {
		st := &parseState{}
		st.applyFieldMarker("begin")
		st.applyInstrText("PAGEREF b1")
		out, err := st.applyFieldMarker("end")
		if err != nil {
			t.Fatalf("end after instruction failed: %v", err)
		}
		if out != nil {
			t.Errorf("field without content should emit nothing, got %v", out)
		}
		if len(st.fields) != 0 {
			t.Errorf("expected empty stack, got %d frames", len(st.fields))
		}
	})

	t.Run("unknown marker type", func(t *testing.T) {
		st := &parseState{}
		if _, err := st.applyFieldMarker("bogus"); err == nil {
			t.Error("expected error for unknown marker type")
		}
	})
}

func TestFlushOpenFields(t *testing.T) {
	st := &parseState{}

	st.applyFieldMarker("begin")
	st.applyInstrText(`HYPERLINK "https://outer.example"`)
	st.applyFieldMarker("separate")
	st.capture([]model.ParPart{textPart("outer")})

	st.applyFieldMarker("begin")
	st.applyInstrText(`PAGEREF inner`)
	st.applyFieldMarker("separate")
	st.capture([]model.ParPart{textPart("inner")})

	out := st.flushOpenFields()
	if len(out) != 1 {
		t.Fatalf("expected 1 flushed part, got %d", len(out))
	}
	outer, ok := out[0].(*model.Field)
	if !ok {
		t.Fatalf("expected *model.Field, got %T", out[0])
	}
	if outer.Info.Kind != model.FieldHyperlink {
		t.Errorf("outer kind = %v, want hyperlink", outer.Info.Kind)
	}
	if len(outer.Children) != 2 {
		t.Fatalf("expected 2 outer children, got %d", len(outer.Children))
	}
	inner, ok := outer.Children[1].(*model.Field)
	if !ok {
		t.Fatalf("expected nested field, got %T", outer.Children[1])
	}
	if inner.Text() != "inner" {
		t.Errorf("inner text = %q", inner.Text())
	}

	// The frames survive the flush with their content cleared, so a
	// field spanning paragraphs keeps collecting in the next one.
	if len(st.fields) != 2 {
		t.Fatalf("expected 2 frames to remain, got %d", len(st.fields))
	}
	for i, fr := range st.fields {
		if fr.children != nil {
			t.Errorf("frame %d still holds %d children", i, len(fr.children))
		}
	}
}
