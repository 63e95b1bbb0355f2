package runtime

// Resolution is the dual result of a variable-or-attribute read: the
// addressable slot (nil for literals, which cannot be assignment targets)
// and the binding currently stored there (nil when the slot is unbound).
type Resolution struct {
	Ref *RefPath
	Val Value
}

// binding returns the representation an assignment stores for this read: a
// reference to the slot when the read is addressable, the plain value
// otherwise. Storing the reference instead of the materialized value is
// what makes variable-to-variable assignment alias.
func (r Resolution) binding() Value {
	if r.Ref != nil {
		return &RefVal{Path: *r.Ref}
	}
	return r.Val
}

// Resolve fully materializes v against env: every reference is replaced by
// its concrete referent, recursively. Object attributes are resolved in
// place (the same object is returned); lists are copied, so the original
// list is never mutated by resolution. A reference to an unbound slot is a
// hard error here rather than a silent absent value.
func Resolve(env *Env, v Value) (Value, error) {
	return env.Ctx.resolve(v)
}

// Deref chases v through reference chains to the stored value without
// copying. Mutating consumers (list operations, attribute writes) use this
// to reach the shared storage that all aliases see.
func Deref(env *Env, v Value) (Value, error) {
	return env.Ctx.deref(v)
}

func (c *Context) resolve(v Value) (Value, error) {
	switch val := v.(type) {
	case *RefVal:
		cur, err := c.lookupPath(val.Path)
		if err != nil {
			return nil, err
		}
		return c.resolve(cur)
	case *ObjectVal:
		for name, attr := range val.Attrs {
			resolved, err := c.resolve(attr)
			if err != nil {
				return nil, err
			}
			val.Attrs[name] = resolved
		}
		return val, nil
	case *ListVal:
		out := &ListVal{Type: val.Type, Elements: make([]Value, 0, len(val.Elements))}
		for _, item := range val.Elements {
			resolved, err := c.resolve(item)
			if err != nil {
				return nil, err
			}
			out.Elements = append(out.Elements, resolved)
		}
		return out, nil
	default:
		return v, nil
	}
}

// deref chases reference chains only. A script that ties two slots to each
// other (x = y after y = x) builds a cyclic chain, and reading either slot
// loops here. Detecting that costs a visited set on every read; evaluation
// accepts the loop instead.
func (c *Context) deref(v Value) (Value, error) {
	for {
		ref, ok := v.(*RefVal)
		if !ok {
			return v, nil
		}
		cur, err := c.lookupPath(ref.Path)
		if err != nil {
			return nil, err
		}
		v = cur
	}
}

// lookupPath reads the slot a RefPath addresses. For attribute paths the
// base binding is chased shallowly first, so a path written against one
// alias of an object keeps working when read through another.
func (c *Context) lookupPath(path RefPath) (Value, error) {
	base, ok := c.Get(path.Name)
	if !ok {
		return nil, unboundErr(path)
	}
	if !path.HasAttr() {
		return base, nil
	}

	base, err := c.deref(base)
	if err != nil {
		return nil, err
	}
	obj, ok := base.(*ObjectVal)
	if !ok {
		return nil, runtimeErrNoSpan(ErrBadOperand,
			"cannot read attribute '%s' on value of type '%s'", path.Attr, base.TypeName())
	}
	attr, ok := obj.Attrs[path.Attr]
	if !ok {
		return nil, unboundErr(path)
	}
	return attr, nil
}

func unboundErr(path RefPath) error {
	return runtimeErrNoSpan(ErrUnboundVar, "undefined variable '%s'", path)
}
