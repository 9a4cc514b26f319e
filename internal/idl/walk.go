package idl

// WalkTypes visits every type expression in the module in declaration order,
// parents before children.
func WalkTypes(module *Module, f func(Type)) {
	for _, decl := range module.TypeDecls {
		walkTopType(decl.Body, f)
	}
}

func walkTopType(body TopType, f func(Type)) {
	switch b := body.(type) {
	case TypeAlias:
		walkType(b.Type, f)
	case Record:
		for _, prop := range b.Props {
			walkType(prop.Type, f)
		}
	case Wrap:
		walkType(b.Type, f)
	case Sum:
		// variants are bare names, nothing to visit
	}
}

func walkType(t Type, f func(Type)) {
	f(t)
	switch inner := t.(type) {
	case Array:
		walkType(inner.Elem, f)
	case Option:
		walkType(inner.Elem, f)
	}
}
