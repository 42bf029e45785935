package form

// Field flag bits (PDF 32000-1, table 226/227/228).
const (
	flagReadOnly = 1 << 0  // common to all field types
	flagRadio    = 1 << 15 // button fields: radio group
	flagCombo    = 1 << 17 // choice fields: combo box
)

// classify maps a field dictionary's FT entry plus Ff flags to a field kind.
// The order of the rules matters: FT decides the family, Ff refines it.
// Dictionaries without a recognized FT yield KindUnknown and are silently
// excluded from discovery and fill.
func classify(n *node) FieldKind {
	ft, ok := n.name("FT")
	if !ok {
		return KindUnknown
	}
	ff, _ := n.integer("Ff")

	switch ft {
	case "Tx":
		return KindText
	case "Ch":
		if ff&flagCombo != 0 {
			return KindCombo
		}
		return KindList
	case "Btn":
		if ff&flagRadio != 0 {
			return KindRadio
		}
		return KindCheckBox
	}
	return KindUnknown
}
