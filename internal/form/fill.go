package form

import (
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// applyFill runs the fill traversal over a freshly parsed context: the Adobe
// compatibility step first, then the same page/annotation walk as discovery,
// flattening every resolved widget annotation and filling the ones with a
// staged value.
func (p *PDF) applyFill(ctx *model.Context, data map[string]any, flatten bool) error {
	if p.adobeMode {
		if err := applyAdobeMode(ctx); err != nil {
			return err
		}
	}
	if err := ctx.EnsurePageCount(); err != nil {
		return fmt.Errorf("page count: %w", err)
	}
	for pageNr := 1; pageNr <= ctx.PageCount; pageNr++ {
		pageDict, _, _, err := ctx.PageDict(pageNr, false)
		if err != nil {
			return fmt.Errorf("page %d: %w", pageNr, err)
		}
		if pageDict == nil {
			continue
		}
		annots, ok := newNode(ctx, pageDict).array("Annots")
		if !ok {
			continue
		}
		for _, ref := range annots {
			d, err := ctx.DereferenceDict(ref)
			if err != nil || d == nil {
				continue
			}
			p.fillAnnotation(newNode(ctx, d), data, flatten)
		}
	}
	return nil
}

// applyAdobeMode deletes a stale XFA template from the interactive form
// dictionary and asks viewers to regenerate field appearances. Without this,
// Adobe's viewer prefers the XFA values over the updated AcroForm ones and
// filled text does not render.
func applyAdobeMode(ctx *model.Context) error {
	root, err := ctx.Catalog()
	if err != nil {
		return fmt.Errorf("catalog: %w", err)
	}
	acroObj, ok := root.Find("AcroForm")
	if !ok {
		return nil
	}
	acro, err := ctx.DereferenceDict(acroObj)
	if err != nil || acro == nil {
		return nil
	}
	if _, ok := acro.Find("XFA"); ok {
		acro.Delete("XFA")
	}
	acro.Update("NeedAppearances", types.Boolean(true))
	return nil
}

// fillAnnotation flattens one visited widget annotation and, when the caller
// supplied a value for its field, dispatches to the kind-specific filler.
func (p *PDF) fillAnnotation(annot *node, data map[string]any, flatten bool) {
	if st, ok := annot.name("Subtype"); !ok || st != "Widget" {
		return
	}

	field := annot
	if !field.has("T") {
		parent, ok := field.child("Parent")
		if !ok {
			return
		}
		field = parent
	}
	name, ok := resolveName(field)
	if !ok {
		return
	}
	w, ok := p.widgets.get(name)
	if !ok {
		return
	}
	kind := classify(field)
	if kind == KindUnknown {
		return
	}

	// Flattening applies to every visited field annotation, filled or not.
	if kind == KindRadio {
		flattenRadio(annot, flatten)
	} else {
		flattenGeneric(annot, flatten)
	}

	if _, ok := data[name]; !ok {
		return
	}
	if w.Value == nil {
		return
	}

	p.logger.Printf("filling %s with %v", w.Name, w.Value)
	switch kind {
	case KindText:
		fillText(annot, w)
	case KindCheckBox:
		fillCheckBox(annot, w)
	case KindRadio:
		fillRadio(annot, w)
	}
}

// fillText writes the literal string value into the annotation's value and
// simplified appearance entries. No appearance stream is regenerated; the
// consuming viewer rebuilds it, which is why adobe mode sets NeedAppearances.
func fillText(annot *node, w *Widget) {
	lit := stringLiteral(w.valueString())
	annot.dict.Update("V", lit)
	annot.dict.Update("AP", lit)
}

// fillCheckBox selects the checkbox state matching the staged value. Explicit
// exported names are written as-is; booleans pick the first appearance key
// that is not "Off" (true) or the "Off" key (false). When no key matches, the
// value and current-state entries are removed and the field reverts to
// indeterminate.
func fillCheckBox(annot *node, w *Widget) {
	value := w.Value
	if value == nil {
		value = false
	}

	on, isBool := value.(bool)
	if !isBool {
		state := types.Name(fmt.Sprint(value))
		annot.dict.Update("AS", state)
		annot.dict.Update("V", state)
		return
	}

	if ap, ok := annot.child("AP"); ok {
		if normal, ok := ap.child("N"); ok {
			for _, key := range normal.sortedKeys() {
				if (on && key != "Off") || (!on && key == "Off") {
					annot.dict.Update("AS", types.Name(key))
					annot.dict.Update("V", types.Name(key))
					return
				}
			}
		}
	}

	annot.dict.Delete("V")
	annot.dict.Delete("AS")
}

// fillRadio walks the group's kid annotations, selecting the kid whose export
// value matches the staged value and turning every other kid off. The group
// dictionary carries the selected value; exactly one kid (or none, when
// nothing matches) ends up selected.
func fillRadio(annot *node, w *Widget) {
	group := annot
	if !annot.has("T") {
		parent, ok := annot.child("Parent")
		if !ok {
			return
		}
		group = parent
	}
	kids, ok := group.array("Kids")
	if !ok {
		return
	}

	target := w.valueString()
	for _, ref := range kids {
		kd, err := annot.ctx.DereferenceDict(ref)
		if err != nil || kd == nil {
			continue
		}
		kid := newNode(annot.ctx, kd)
		export, ok := kidExportValue(kid)
		if !ok {
			continue
		}
		if export == target {
			kid.dict.Update("AS", types.Name(export))
			group.dict.Update("V", types.Name(export))
		} else {
			kid.dict.Update("AS", types.Name("Off"))
		}
	}
}

// kidExportValue is the non-"Off" key of the kid's normal appearance set.
func kidExportValue(kid *node) (string, bool) {
	ap, ok := kid.child("AP")
	if !ok {
		return "", false
	}
	normal, ok := ap.child("N")
	if !ok {
		return "", false
	}
	for _, key := range normal.sortedKeys() {
		if key != "Off" {
			return key, true
		}
	}
	return "", false
}

// flattenGeneric toggles the read-only bit, preferring the parent dictionary
// when the annotation has no flags of its own and a parent exists.
func flattenGeneric(annot *node, on bool) {
	if parent, ok := annot.child("Parent"); ok && !annot.has("Ff") {
		setReadOnly(parent, on)
		return
	}
	setReadOnly(annot, on)
}

// flattenRadio toggles the read-only bit on the group dictionary whenever the
// kid has a parent, else on the annotation itself.
func flattenRadio(annot *node, on bool) {
	if parent, ok := annot.child("Parent"); ok {
		setReadOnly(parent, on)
		return
	}
	setReadOnly(annot, on)
}

// setReadOnly ORs the read-only bit into the field flags, or ANDs its
// complement out, starting from zero when no flags are present.
func setReadOnly(n *node, on bool) {
	flags, _ := n.integer("Ff")
	if on {
		flags |= flagReadOnly
	} else {
		flags &^= flagReadOnly
	}
	n.dict.Update("Ff", types.Integer(flags))
}

// stringLiteral escapes s for serialization as a PDF string object.
func stringLiteral(s string) types.StringLiteral {
	if esc, err := types.Escape(s); err == nil && esc != nil {
		return types.StringLiteral(*esc)
	}
	return types.StringLiteral(s)
}
