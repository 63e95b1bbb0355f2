package runtime

import (
	"fmt"
	"io"
)

// RegisterBuiltins adds the built-in functions to the given context. Each
// builtin receives its argument as stored (possibly still a reference)
// and resolves or derefs it as its semantics require.
func RegisterBuiltins(ctx *Context, w io.Writer) {
	ctx.Set("print", &BuiltinVal{
		Name: "print",
		Fn: func(env *Env, arg Value) (Value, error) {
			v, err := Resolve(env, arg)
			if err != nil {
				return nil, err
			}
			fmt.Fprintln(w, v.String())
			return NullVal{}, nil
		},
	})

	ctx.Set("typeOf", &BuiltinVal{
		Name: "typeOf",
		Fn: func(env *Env, arg Value) (Value, error) {
			v, err := Deref(env, arg)
			if err != nil {
				return nil, err
			}
			return StringVal(v.TypeName()), nil
		},
	})

	ctx.Set("len", &BuiltinVal{
		Name: "len",
		Fn: func(env *Env, arg Value) (Value, error) {
			v, err := Deref(env, arg)
			if err != nil {
				return nil, err
			}
			switch val := v.(type) {
			case StringVal:
				return IntVal(len(string(val))), nil
			case *ListVal:
				return IntVal(len(val.Items())), nil
			case *ObjectVal:
				return IntVal(len(val.Attrs)), nil
			default:
				return nil, fmt.Errorf("len not supported for type '%s'", v.TypeName())
			}
		},
	})

	ctx.Set("str", &BuiltinVal{
		Name: "str",
		Fn: func(env *Env, arg Value) (Value, error) {
			v, err := Resolve(env, arg)
			if err != nil {
				return nil, err
			}
			return StringVal(v.String()), nil
		},
	})

	// items takes a resolution snapshot of a list: the returned list has
	// fresh storage, detached from every alias of the argument.
	ctx.Set("items", &BuiltinVal{
		Name: "items",
		Fn: func(env *Env, arg Value) (Value, error) {
			v, err := Resolve(env, arg)
			if err != nil {
				return nil, err
			}
			list, ok := v.(*ListVal)
			if !ok {
				return nil, fmt.Errorf("items expects a list, got '%s'", v.TypeName())
			}
			return list, nil
		},
	})
}

// RegisterTypes populates the type registry. "generic" is the mandatory
// fallback used for unregistered type names.
func RegisterTypes(ctx *Context) {
	ctx.RegisterType("generic", func() Value {
		return &ObjectVal{Attrs: make(map[string]Value)}
	})
	ctx.RegisterType("list", func() Value {
		return &ListVal{}
	})
}
