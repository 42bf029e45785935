package form

import (
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// discover walks every page's annotation list and builds the ordered
// name→Widget map. Annotations that are not widgets, carry no resolvable name
// or have an unrecognized field type are skipped without error.
func discover(ctx *model.Context) (*widgetMap, error) {
	if err := ctx.EnsurePageCount(); err != nil {
		return nil, fmt.Errorf("page count: %w", err)
	}

	wm := newWidgetMap()
	for pageNr := 1; pageNr <= ctx.PageCount; pageNr++ {
		pageDict, _, _, err := ctx.PageDict(pageNr, false)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", pageNr, err)
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
			discoverAnnotation(newNode(ctx, d), pageNr-1, wm)
		}
	}
	return wm, nil
}

// discoverAnnotation classifies a single widget annotation and records it in
// the widget map. Repeated occurrences of the same field name (radio kids)
// merge their choice sets into the existing widget; the first occurrence's
// value wins.
func discoverAnnotation(annot *node, pageIndex int, wm *widgetMap) {
	if st, ok := annot.name("Subtype"); !ok || st != "Widget" {
		return
	}

	// Kids of a field group carry no name of their own; the field
	// dictionary is their parent.
	field := annot
	if !field.has("T") {
		parent, ok := field.child("Parent")
		if !ok {
			return
		}
		field = parent
	}

	name, ok := resolveName(field)
	if !ok || name == "" {
		return
	}
	kind := classify(field)
	if kind == KindUnknown {
		return
	}

	var choices []string
	switch kind {
	case KindRadio:
		choices = radioChoices(field)
	case KindCheckBox:
		choices = checkBoxChoices(field)
	case KindList, KindCombo:
		// Recognized for type detection only; choice fields never
		// materialize as widgets.
		return
	}

	if w, ok := wm.get(name); ok {
		w.mergeChoices(choices)
		return
	}

	w := &Widget{Kind: kind, Name: name, PageNumber: pageIndex}
	if v, ok := field.rawValue(); ok {
		w.Value = v
	}
	switch kind {
	case KindText:
		if ml, ok := field.integer("MaxLen"); ok && ml > 0 {
			w.MaxLength = ml
		}
	case KindCheckBox, KindRadio:
		w.Choices = choices
	}
	wm.put(w)
}

// radioChoices collects the exported option names of a radio group by reading
// each kid's normal appearance state keys, deduplicated in first-seen order.
func radioChoices(field *node) []string {
	choices := []string{}
	kids, ok := field.array("Kids")
	if !ok {
		return choices
	}
	for _, ref := range kids {
		kd, err := field.ctx.DereferenceDict(ref)
		if err != nil || kd == nil {
			continue
		}
		ap, ok := newNode(field.ctx, kd).child("AP")
		if !ok {
			continue
		}
		normal, ok := ap.child("N")
		if !ok {
			continue
		}
		for _, key := range normal.sortedKeys() {
			if !containsString(choices, key) {
				choices = append(choices, key)
			}
		}
	}
	return choices
}

// checkBoxChoices reads a checkbox's choice set from its normal appearance
// state keys. The checkbox must expose normal and down appearance
// dictionaries and a current state; "Off" is forced to the front when the
// appearance set does not list it.
func checkBoxChoices(field *node) []string {
	if !field.has("AS") {
		return nil
	}
	ap, ok := field.child("AP")
	if !ok || !ap.has("D") {
		return nil
	}
	normal, ok := ap.child("N")
	if !ok {
		return nil
	}
	choices := normal.sortedKeys()
	if !containsString(choices, "Off") {
		choices = append([]string{"Off"}, choices...)
	}
	return choices
}
