package docx

import (
	"strconv"

	"github.com/antchfx/xmlquery"

	"github.com/docquill/quill/model"
	"github.com/docquill/quill/opc"
	"github.com/docquill/quill/xmldom"
)

// Numbering is the document's numbering repository.
type Numbering struct {
	instances map[string]model.NumberingInstance
	abstracts map[string]model.AbstractNumbering
}

// ResolveLevel resolves a numbering instance and indent level into the
// effective level definition. An override carrying a replacement level
// wins outright; a bare start override is merged into the abstract
// level; otherwise the abstract level is returned unmodified. Nil means
// the instance, its abstract definition, or the level is missing.
func (n *Numbering) ResolveLevel(numID, ilvl string) *model.Level {
	if n == nil {
		return nil
	}
	inst, ok := n.instances[numID]
	if !ok {
		return nil
	}
	abstract, ok := n.abstracts[inst.AbstractID]
	if !ok {
		return nil
	}
	var override *model.LevelOverride
	for i := range inst.Overrides {
		if inst.Overrides[i].Ilvl == ilvl {
			override = &inst.Overrides[i]
			break
		}
	}
	if override != nil && override.Level != nil {
		return override.Level
	}
	lvl, ok := abstract.Level(ilvl)
	if !ok {
		return nil
	}
	if override != nil && override.StartOverride != nil {
		lvl.Start = override.StartOverride
	}
	return &lvl
}

// loadNumbering reads the numbering part next to the document part. A
// missing part yields an empty repository.
func loadNumbering(ar opc.Archive, docPath string, st *parseState) *Numbering {
	num := &Numbering{
		instances: make(map[string]model.NumberingInstance),
		abstracts: make(map[string]model.AbstractNumbering),
	}
	root, ns := loadPart(ar, st, siblingPart(docPath, "numbering.xml"))
	if root == nil {
		return num
	}

	for _, el := range ns.ChildList(root, nsW, "abstractNum") {
		id, ok := ns.Attr(el, nsW, "abstractNumId")
		if !ok {
			continue
		}
		abstract := model.AbstractNumbering{ID: id}
		for _, lvlEl := range ns.ChildList(el, nsW, "lvl") {
			if lvl, ok := levelOf(ns, lvlEl); ok {
				abstract.Levels = append(abstract.Levels, lvl)
			}
		}
		num.abstracts[id] = abstract
	}

	for _, el := range ns.ChildList(root, nsW, "num") {
		id, ok := ns.Attr(el, nsW, "numId")
		if !ok {
			continue
		}
		abstractID, ok := ns.Attr(ns.Child(el, nsW, "abstractNumId"), nsW, "val")
		if !ok {
			continue
		}
		inst := model.NumberingInstance{ID: id, AbstractID: abstractID}
		for _, ovEl := range ns.ChildList(el, nsW, "lvlOverride") {
			if ov, ok := levelOverrideOf(ns, ovEl); ok {
				inst.Overrides = append(inst.Overrides, ov)
			}
		}
		num.instances[id] = inst
	}
	return num
}

// levelOf parses one w:lvl. The level index, number format and text
// template are all required; a level missing any of them is dropped.
func levelOf(ns xmldom.Namespaces, el *xmlquery.Node) (model.Level, bool) {
	ilvl, ok := ns.Attr(el, nsW, "ilvl")
	if !ok {
		return model.Level{}, false
	}
	format, ok := ns.Attr(ns.Child(el, nsW, "numFmt"), nsW, "val")
	if !ok {
		return model.Level{}, false
	}
	template, ok := ns.Attr(ns.Child(el, nsW, "lvlText"), nsW, "val")
	if !ok {
		return model.Level{}, false
	}
	lvl := model.Level{Ilvl: ilvl, Format: format, Template: template}
	if val, ok := ns.Attr(ns.Child(el, nsW, "start"), nsW, "val"); ok {
		if n, err := strconv.Atoi(val); err == nil {
			lvl.Start = &n
		}
	}
	return lvl, true
}

func levelOverrideOf(ns xmldom.Namespaces, el *xmlquery.Node) (model.LevelOverride, bool) {
	ilvl, ok := ns.Attr(el, nsW, "ilvl")
	if !ok {
		return model.LevelOverride{}, false
	}
	ov := model.LevelOverride{Ilvl: ilvl}
	if val, ok := ns.Attr(ns.Child(el, nsW, "startOverride"), nsW, "val"); ok {
		if n, err := strconv.Atoi(val); err == nil {
			ov.StartOverride = &n
		}
	}
	if lvlEl := ns.Child(el, nsW, "lvl"); lvlEl != nil {
		if lvl, ok := levelOf(ns, lvlEl); ok {
			ov.Level = &lvl
		}
	}
	return ov, true
}
