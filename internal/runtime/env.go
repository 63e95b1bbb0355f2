package runtime

import "io"

// Constructor builds a fresh value for a registered type.
type Constructor func() Value

// Context is the mutable variable store for one run: a flat name→binding
// map plus the type registry. There is no scope chain: a reference written
// anywhere must name the same slot wherever it is later resolved.
//
// A Context is owned by exactly one evaluation at a time; concurrent script
// execution needs a Context per evaluation.
type Context struct {
	vars  map[string]Value
	types map[string]Constructor
}

// NewContext creates an empty context with no bindings or types registered.
func NewContext() *Context {
	return &Context{
		vars:  make(map[string]Value),
		types: make(map[string]Constructor),
	}
}

// Get looks up a binding by name.
func (c *Context) Get(name string) (Value, bool) {
	v, ok := c.vars[name]
	return v, ok
}

// Set stores a binding, overwriting whatever the slot held.
func (c *Context) Set(name string, value Value) {
	c.vars[name] = value
}

// RegisterType adds a named zero-argument constructor to the type registry.
func (c *Context) RegisterType(name string, ctor Constructor) {
	c.types[name] = ctor
}

// TypeConstructor returns the constructor for name, falling back to the
// registered "generic" constructor when the name is unregistered. A missing
// "generic" entry falls back to a bare attribute map so instantiation can
// never fail.
func (c *Context) TypeConstructor(name string) Constructor {
	if ctor, ok := c.types[name]; ok {
		return ctor
	}
	if ctor, ok := c.types["generic"]; ok {
		return ctor
	}
	return func() Value { return &ObjectVal{Attrs: make(map[string]Value)} }
}

// Env threads the variable store and the per-statement result slot through
// execution. Ret holds the most recent invocation's return value for the
// current statement only; the sequencer clears it before each statement.
type Env struct {
	Ctx *Context
	Ret Value
}

// NewEnv builds the initial environment: a fresh context populated with the
// built-in functions (writing to out) and the built-in type registry.
func NewEnv(out io.Writer) *Env {
	ctx := NewContext()
	RegisterBuiltins(ctx, out)
	RegisterTypes(ctx)
	return &Env{Ctx: ctx}
}
