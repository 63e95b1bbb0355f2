package runtime

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextGetSet(t *testing.T) {
	ctx := NewContext()

	_, ok := ctx.Get("x")
	assert.False(t, ok)

	ctx.Set("x", IntVal(1))
	v, ok := ctx.Get("x")
	require.True(t, ok)
	assert.Equal(t, IntVal(1), v)

	// Assignment overwrites the whole slot.
	ctx.Set("x", StringVal("two"))
	v, _ = ctx.Get("x")
	assert.Equal(t, StringVal("two"), v)
}

func TestTypeConstructorRegistered(t *testing.T) {
	ctx := NewContext()
	ctx.RegisterType("point", func() Value {
		return &ObjectVal{Attrs: map[string]Value{"x": IntVal(0)}}
	})

	v := ctx.TypeConstructor("point")()
	obj, ok := v.(*ObjectVal)
	require.True(t, ok)
	assert.Equal(t, IntVal(0), obj.Attrs["x"])
}

func TestTypeConstructorGenericFallback(t *testing.T) {
	ctx := NewContext()
	RegisterTypes(ctx)

	v := ctx.TypeConstructor("nothing_like_this")()
	_, ok := v.(*ObjectVal)
	assert.True(t, ok)
}

func TestTypeConstructorBareFallback(t *testing.T) {
	// Even an empty registry yields a usable constructor.
	ctx := NewContext()
	v := ctx.TypeConstructor("whatever")()
	obj, ok := v.(*ObjectVal)
	require.True(t, ok)
	assert.NotNil(t, obj.Attrs)
}

func TestConstructorsReturnFreshValues(t *testing.T) {
	ctx := NewContext()
	RegisterTypes(ctx)

	a := ctx.TypeConstructor("generic")()
	b := ctx.TypeConstructor("generic")()
	require.NotSame(t, a, b)

	a.(*ObjectVal).Attrs["x"] = IntVal(1)
	assert.Empty(t, b.(*ObjectVal).Attrs)
}

func TestNewEnvHasBuiltins(t *testing.T) {
	env := NewEnv(io.Discard)

	for _, name := range []string{"print", "typeOf", "len", "str", "items"} {
		v, ok := env.Ctx.Get(name)
		require.True(t, ok, "builtin %q missing", name)
		_, isBuiltin := v.(*BuiltinVal)
		assert.True(t, isBuiltin, "builtin %q is not callable", name)
	}
	assert.Nil(t, env.Ret)
}
