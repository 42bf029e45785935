package form

// resolveName reconstructs the fully qualified dotted field name by walking
// the Parent chain. A parent segment is prefixed only while its own name
// differs from the child's; single-kid groups share their kid's name and must
// not produce a duplicated segment. Dictionaries without a T entry are
// unresolvable and reported as !ok.
//
// Recursion depth is bounded by the form's nesting, realistically below ten.
func resolveName(n *node) (string, bool) {
	local, ok := n.str("T")
	if !ok {
		return "", false
	}
	if parent, ok := n.child("Parent"); ok {
		if pt, ok := parent.str("T"); ok && pt != local {
			if full, ok := resolveName(parent); ok {
				return full + "." + local, true
			}
		}
	}
	return local, true
}
