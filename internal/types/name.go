package types

import "strings"

// Name renders id the way diagnostics print it: "const B&", "List<int>*".
func (in *Interner) Name(id TypeID) string {
	var sb strings.Builder
	in.writeName(&sb, id)
	return sb.String()
}

func (in *Interner) writeName(sb *strings.Builder, id TypeID) {
	root, d := in.Split(id)
	t, ok := in.Lookup(root)
	if !ok {
		sb.WriteString("<invalid>")
		return
	}
	if d.Const {
		sb.WriteString("const ")
	}
	switch t.Kind {
	case KindClass:
		info := &in.classes[t.Payload]
		sb.WriteString(info.Name)
		if info.IsSpecialization() && !strings.Contains(info.Name, "<") {
			sb.WriteByte('<')
			for i, a := range info.Args {
				if i > 0 {
					sb.WriteString(", ")
				}
				in.writeName(sb, a)
			}
			sb.WriteByte('>')
		}
	case KindEnum:
		sb.WriteString(in.enums[t.Payload].Name)
	default:
		sb.WriteString(t.Kind.String())
	}
	for range d.Pointers {
		sb.WriteByte('*')
	}
	switch d.Ref {
	case RefLvalue:
		sb.WriteByte('&')
	case RefRvalue:
		sb.WriteString("&&")
	}
}

// Names renders a parenthesized, comma separated list.
func (in *Interner) Names(ids []TypeID) string {
	var sb strings.Builder
	sb.WriteByte('(')
	for i, id := range ids {
		if i > 0 {
			sb.WriteString(", ")
		}
		in.writeName(&sb, id)
	}
	sb.WriteByte(')')
	return sb.String()
}
