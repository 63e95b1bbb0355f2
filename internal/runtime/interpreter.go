package runtime

import (
	"errors"
	"fmt"
	"io"

	"mint-lang/internal/ast"
	"mint-lang/internal/span"
)

// ============================================================
// Runtime error
// ============================================================

// ErrorKind classifies a runtime error.
type ErrorKind int

const (
	// ErrUnknownNode marks an evaluator/grammar mismatch: a node type with
	// no evaluation rule. Always an internal fault, never a user error.
	ErrUnknownNode ErrorKind = iota
	// ErrUnboundVar marks a dereference of a never-bound name or attribute.
	ErrUnboundVar
	// ErrUnboundList marks a list operation on a slot with no list in it.
	ErrUnboundList
	// ErrUnboundAttrBase marks an attribute write whose base is unbound or
	// not an object.
	ErrUnboundAttrBase
	// ErrBadOperand marks an operation applied to a value of the wrong type.
	ErrBadOperand
	// ErrBadCall marks an invocation of something that is not callable, or
	// a failure inside the callee.
	ErrBadCall
)

func (k ErrorKind) String() string {
	switch k {
	case ErrUnknownNode:
		return "unknown-node"
	case ErrUnboundVar:
		return "unbound-variable"
	case ErrUnboundList:
		return "unbound-list"
	case ErrUnboundAttrBase:
		return "unbound-attribute-base"
	case ErrBadOperand:
		return "bad-operand"
	case ErrBadCall:
		return "bad-call"
	default:
		return "unknown"
	}
}

// RuntimeError represents an error during evaluation. It propagates up the
// single synchronous call stack to the caller of Run; the evaluator never
// recovers internally.
type RuntimeError struct {
	Kind    ErrorKind
	Message string
	Span    span.Span
}

func (e *RuntimeError) Error() string {
	if e.Span == (span.Span{}) {
		return "runtime error: " + e.Message
	}
	return fmt.Sprintf("runtime error at %d:%d: %s", e.Span.Start.Line, e.Span.Start.Column, e.Message)
}

func runtimeErr(kind ErrorKind, s span.Span, format string, args ...interface{}) *RuntimeError {
	return &RuntimeError{Kind: kind, Message: fmt.Sprintf(format, args...), Span: s}
}

// runtimeErrNoSpan builds an error from code with no node at hand (the
// resolution layer); withSpan attaches a location once one is known.
func runtimeErrNoSpan(kind ErrorKind, format string, args ...interface{}) *RuntimeError {
	return &RuntimeError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// withSpan stamps s onto a RuntimeError that has no location yet.
func withSpan(err error, s span.Span) error {
	var re *RuntimeError
	if errors.As(err, &re) && re.Span == (span.Span{}) {
		re.Span = s
	}
	return err
}

// ============================================================
// Interpreter
// ============================================================

// Interpreter walks the AST and executes it.
type Interpreter struct {
	output io.Writer
}

// NewInterpreter creates a new interpreter whose builtins write to output.
func NewInterpreter(output io.Writer) *Interpreter {
	return &Interpreter{output: output}
}

// Run executes a whole program. A nil env asks for a fresh initial
// environment; passing an env back in continues an earlier run (the REPL
// does this). The returned env is the one execution mutated, with Ret
// holding the last statement's invocation result, if any.
func (i *Interpreter) Run(program *ast.Program, env *Env) (*Env, error) {
	if env == nil {
		env = NewEnv(i.output)
	}
	if err := i.runSequence(program.Body, env); err != nil {
		return env, err
	}
	return env, nil
}

// ============================================================
// Sequencer
// ============================================================

// runSequence folds a statement list through the evaluator left to right.
// Ret is cleared before every statement, so no invocation result leaks
// across a statement boundary; context mutations are visible to every
// later statement.
func (i *Interpreter) runSequence(stmts []ast.Stmt, env *Env) error {
	for _, stmt := range stmts {
		env.Ret = nil
		if err := i.execStmt(stmt, env); err != nil {
			return err
		}
	}
	return nil
}

// ============================================================
// Statement dispatch
// ============================================================

func (i *Interpreter) execStmt(stmt ast.Stmt, env *Env) error {
	switch s := stmt.(type) {
	case *ast.Block:
		return i.runSequence(s.Stmts, env)

	case *ast.ExprStmt:
		ret, err := i.evalInvocation(s.Expr, env)
		if err != nil {
			return err
		}
		env.Ret = ret
		return nil

	case *ast.AssignStmt:
		return i.execAssign(s, env)

	case *ast.NewStmt:
		return i.execNew(s, env)

	case *ast.ListOpStmt:
		return i.execListOp(s, env)

	default:
		return runtimeErr(ErrUnknownNode, stmt.GetSpan(), "unhandled statement type: %T", stmt)
	}
}

func (i *Interpreter) execAssign(s *ast.AssignStmt, env *Env) error {
	res, err := i.evaluateValue(s.Value, env)
	if err != nil {
		return err
	}
	// Store the reference when the right-hand side is addressable, never
	// the materialized value.
	return assign(env.Ctx, s.Target, res.binding())
}

func (i *Interpreter) execNew(s *ast.NewStmt, env *Env) error {
	ctor := env.Ctx.TypeConstructor(s.TypeName)
	return assign(env.Ctx, s.Target, instantiate(ctor, s.TypeName))
}

func (i *Interpreter) execListOp(s *ast.ListOpStmt, env *Env) error {
	res, err := i.evaluateValue(s.Target, env)
	if err != nil {
		return err
	}
	if res.Val == nil {
		return runtimeErr(ErrUnboundList, s.GetSpan(), "no such list '%s'", res.Ref)
	}
	cur, err := env.Ctx.deref(res.Val)
	if err != nil {
		return withSpan(err, s.GetSpan())
	}
	list, ok := cur.(*ListVal)
	if !ok {
		return runtimeErr(ErrBadOperand, s.GetSpan(),
			"cannot apply '%s' to value of type '%s'", s.Op, cur.TypeName())
	}

	operand, err := i.evaluateValue(s.Operand, env)
	if err != nil {
		return err
	}
	if err := list.Apply(env, s.Op, operand.binding()); err != nil {
		var re *RuntimeError
		if errors.As(err, &re) {
			return withSpan(err, s.GetSpan())
		}
		return runtimeErr(ErrBadOperand, s.GetSpan(), "%s", err)
	}

	// Re-store the mutated list at the assignee slot.
	return assign(env.Ctx, s.Target, list)
}

// ============================================================
// Invocation
// ============================================================

func (i *Interpreter) evalInvocation(e *ast.Invocation, env *Env) (Value, error) {
	// The callee is looked up like any other aliased binding, so
	// `f = print` followed by `f(x)` calls print.
	callee, err := env.Ctx.resolve(&RefVal{Path: RefPath{Name: e.Callee}})
	if err != nil {
		return nil, withSpan(err, e.GetSpan())
	}
	fn, ok := callee.(*BuiltinVal)
	if !ok {
		return nil, runtimeErr(ErrBadCall, e.GetSpan(),
			"cannot call value of type '%s'", callee.TypeName())
	}

	res, err := i.evaluateValue(e.Arg, env)
	if err != nil {
		return nil, err
	}
	// The argument is handed over as stored, not force-resolved; the
	// callee resolves it if it needs a materialized value.
	ret, err := fn.Fn(env, res.binding())
	if err != nil {
		var re *RuntimeError
		if errors.As(err, &re) {
			return nil, withSpan(err, e.GetSpan())
		}
		return nil, runtimeErr(ErrBadCall, e.GetSpan(), "%s(): %s", e.Callee, err)
	}
	return ret, nil
}

// ============================================================
// Value resolution
// ============================================================

// evaluateValue computes the dual (reference, current value) representation
// of a read. The value may be nil (unbound), a reference, or concrete; only
// consumers decide whether that is an error.
func (i *Interpreter) evaluateValue(expr ast.Expr, env *Env) (Resolution, error) {
	switch e := expr.(type) {
	case *ast.IntLiteral:
		return Resolution{Val: IntVal(e.Value)}, nil

	case *ast.StringLiteral:
		return Resolution{Val: StringVal(e.Value)}, nil

	case *ast.ScalarRef:
		ref := RefPath{Name: e.Name}
		v, _ := env.Ctx.Get(e.Name)
		return Resolution{Ref: &ref, Val: v}, nil

	case *ast.AttrRef:
		ref := RefPath{Name: e.Object, Attr: e.Attr}
		var v Value
		if base, ok := env.Ctx.Get(e.Object); ok {
			// Chase an aliased base so the attribute reads the shared object.
			base, err := env.Ctx.deref(base)
			if err != nil {
				return Resolution{}, withSpan(err, e.GetSpan())
			}
			if obj, ok := base.(*ObjectVal); ok {
				v = obj.Attrs[e.Attr]
			}
		}
		return Resolution{Ref: &ref, Val: v}, nil

	default:
		return Resolution{}, runtimeErr(ErrUnknownNode, expr.GetSpan(),
			"unhandled value type: %T", expr)
	}
}

// ============================================================
// Assignment engine
// ============================================================

// assign writes value into the slot target addresses, mutating ctx.
func assign(ctx *Context, target ast.Target, value Value) error {
	switch t := target.(type) {
	case *ast.ScalarRef:
		ctx.Set(t.Name, value)
		return nil

	case *ast.AttrRef:
		base, ok := ctx.Get(t.Object)
		if !ok {
			return runtimeErr(ErrUnboundAttrBase, t.GetSpan(),
				"cannot assign attribute '%s': undefined variable '%s'", t.Attr, t.Object)
		}
		// Writing through an alias mutates the shared object.
		base, err := ctx.deref(base)
		if err != nil {
			return withSpan(err, t.GetSpan())
		}
		obj, ok := base.(*ObjectVal)
		if !ok {
			return runtimeErr(ErrUnboundAttrBase, t.GetSpan(),
				"cannot assign attribute '%s' on value of type '%s'", t.Attr, base.TypeName())
		}
		obj.Attrs[t.Attr] = value
		return nil

	default:
		return runtimeErr(ErrUnknownNode, target.GetSpan(),
			"unhandled assignment target: %T", target)
	}
}

// ============================================================
// Type instantiation
// ============================================================

// instantiate invokes the constructor and tags the fresh value with the
// requested type name, also when the constructor came from the generic
// fallback, so an unregistered type still reads back under its own name.
func instantiate(ctor Constructor, typeName string) Value {
	v := ctor()
	switch tv := v.(type) {
	case *ObjectVal:
		tv.Type = typeName
	case *ListVal:
		tv.Type = typeName
	}
	return v
}
