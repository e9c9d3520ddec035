package query

// ArgVisitor is called for every argument, parents before children. A non-nil
// replacement takes the argument's place. When stop is set the visit does not
// descend into the (possibly replaced) argument's value.
type ArgVisitor func(arg *Arg) (replacement *Arg, stop bool)

// Visit returns a copy of doc with visit applied to every argument. doc
// itself is left untouched.
func Visit(doc *Document, visit ArgVisitor) *Document {
	children := make([]*Field, len(doc.Children))
	for i, f := range doc.Children {
		children[i] = visitField(f, visit)
	}
	return &Document{Type: doc.Type, Children: children}
}

func visitField(f *Field, visit ArgVisitor) *Field {
	out := *f
	if f.Args != nil {
		out.Args = visitArgs(f.Args, visit)
	}
	if f.Children != nil {
		out.Children = make([]*Field, len(f.Children))
		for i, c := range f.Children {
			out.Children[i] = visitField(c, visit)
		}
	}
	return NewField(out)
}

func visitArgs(a *Args, visit ArgVisitor) *Args {
	args := make([]*Arg, len(a.Args))
	for i, arg := range a.Args {
		args[i] = visitArg(arg, visit)
	}
	return NewArgs(args)
}

func visitArg(arg *Arg, visit ArgVisitor) *Arg {
	replacement, stop := visit(arg)
	if replacement != nil {
		arg = replacement
	}
	if stop {
		return arg
	}

	out := *arg
	switch v := arg.Value.(type) {
	case *Args:
		out.Value = visitArgs(v, visit)
	case []any:
		items := make([]any, len(v))
		for i, item := range v {
			switch elem := item.(type) {
			case *Args:
				items[i] = visitArgs(elem, visit)
			case *Arg:
				items[i] = visitArg(elem, visit)
			default:
				items[i] = item
			}
		}
		out.Value = items
	}
	return NewArg(out)
}
