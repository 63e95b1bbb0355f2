package runtime

import (
	"bytes"
	"strings"
	"testing"

	"mint-lang/internal/lexer"
	"mint-lang/internal/parser"
)

// runSource parses and executes source code, returning captured stdout and any error.
func runSource(source string) (string, error) {
	var buf bytes.Buffer
	_, err := runSourceEnv(source, &buf)
	return buf.String(), err
}

// runSourceEnv parses and executes source code, returning the final environment.
func runSourceEnv(source string, buf *bytes.Buffer) (*Env, error) {
	l := lexer.New(source, "test.mint")
	tokens, _ := l.Tokenize()
	p := parser.New(tokens)
	program, _ := p.ParseProgram()

	interp := NewInterpreter(buf)
	return interp.Run(program, nil)
}

func expectOutput(t *testing.T, source, expected string) {
	t.Helper()
	out, err := runSource(source)
	if err != nil {
		t.Fatalf("runtime error: %v", err)
	}
	if strings.TrimRight(out, "\n") != strings.TrimRight(expected, "\n") {
		t.Errorf("output mismatch:\nexpected: %q\ngot:      %q", expected, out)
	}
}

func expectError(t *testing.T, source, contains string) {
	t.Helper()
	_, err := runSource(source)
	if err == nil {
		t.Fatalf("expected error containing %q, got nil", contains)
	}
	if !strings.Contains(err.Error(), contains) {
		t.Errorf("expected error containing %q, got: %v", contains, err)
	}
}

// ---- Scalars ----

func TestPrintLiteral(t *testing.T) {
	expectOutput(t, `print(42)`, "42\n")
	expectOutput(t, `print("hello")`, "hello\n")
}

func TestScalarAssignment(t *testing.T) {
	expectOutput(t, "x = 5\nprint(x)", "5\n")
}

func TestScalarOverwrite(t *testing.T) {
	expectOutput(t, "x = 1\nx = \"two\"\nprint(x)", "two\n")
}

func TestScalarCopyThroughAlias(t *testing.T) {
	expectOutput(t, "x = 5\ny = x\nprint(x)\nprint(y)", "5\n5\n")
}

func TestAliasChain(t *testing.T) {
	expectOutput(t, "x = 5\ny = x\nz = y\nprint(z)", "5\n")
}

func TestUndefinedVariable(t *testing.T) {
	expectError(t, `print(y)`, "undefined variable 'y'")
}

func TestReferenceToUnboundName(t *testing.T) {
	// Writing a reference to an unbound name succeeds; the error surfaces
	// at the point of use.
	expectError(t, "x = y\nprint(x)", "undefined variable 'y'")
}

// ---- Objects ----

func TestObjectAttributes(t *testing.T) {
	expectOutput(t, "p = new point\np.x = 10\np.y = 20\nprint(p)", "<point x: 10, y: 20>\n")
}

func TestAttributeRead(t *testing.T) {
	expectOutput(t, "p = new point\np.x = 10\nv = p.x\nprint(v)", "10\n")
}

func TestAttributeWriteThroughAlias(t *testing.T) {
	expectOutput(t, "p = new point\nq = p\nq.size = 3\nv = p.size\nprint(v)", "3\n")
}

func TestAttributeWriteUnboundBase(t *testing.T) {
	expectError(t, `p.x = 1`, "undefined variable 'p'")
}

func TestAttributeWriteNonObjectBase(t *testing.T) {
	expectError(t, "p = 5\np.x = 1", "cannot assign attribute 'x' on value of type 'int'")
}

func TestGenericFallback(t *testing.T) {
	var buf bytes.Buffer
	env, err := runSourceEnv("w = new Widget\ntypeOf(w)", &buf)
	if err != nil {
		t.Fatalf("runtime error: %v", err)
	}
	if !valuesEqual(env.Ret, StringVal("Widget")) {
		t.Errorf("expected type tag 'Widget', got %v", env.Ret)
	}
}

func TestRegisteredListType(t *testing.T) {
	var buf bytes.Buffer
	env, err := runSourceEnv("xs = new list\ntypeOf(xs)", &buf)
	if err != nil {
		t.Fatalf("runtime error: %v", err)
	}
	if !valuesEqual(env.Ret, StringVal("list")) {
		t.Errorf("expected type tag 'list', got %v", env.Ret)
	}
}

// ---- Lists ----

func TestListAddRemove(t *testing.T) {
	expectOutput(t, "xs = new list\nxs add 1\nxs add 2\nxs add 3\nxs remove 2\nprint(xs)", "[1, 3]\n")
}

func TestListRemoveAbsentIsNoop(t *testing.T) {
	expectOutput(t, "xs = new list\nxs add 1\nxs remove 9\nprint(xs)", "[1]\n")
}

func TestListAliasing(t *testing.T) {
	source := `
xs = new list
xs add 1
xs add 2
ys = xs
ys add 3
print(xs)
print(ys)
`
	expectOutput(t, source, "[1, 2, 3]\n[1, 2, 3]\n")
}

func TestListLengthThroughAlias(t *testing.T) {
	var buf bytes.Buffer
	env, err := runSourceEnv("xs = new list\nxs add 1\nys = xs\nys add 2\nlen(xs)", &buf)
	if err != nil {
		t.Fatalf("runtime error: %v", err)
	}
	if !valuesEqual(env.Ret, IntVal(2)) {
		t.Errorf("expected len 2, got %v", env.Ret)
	}
}

func TestListHoldsAliases(t *testing.T) {
	// Adding a variable stores a reference; printing resolves it.
	expectOutput(t, "v = 7\nxs = new list\nxs add v\nprint(xs)", "[7]\n")
}

func TestListOnObjectAttribute(t *testing.T) {
	source := `
p = new point
p.tags = new list
p.tags add "hot"
print(p.tags)
`
	expectOutput(t, source, `["hot"]`+"\n")
}

func TestNoSuchList(t *testing.T) {
	expectError(t, `foo add 1`, "no such list 'foo'")
}

func TestNoSuchListAttrPath(t *testing.T) {
	expectError(t, "p = new point\np.items add 1", "no such list 'p items'")
}

func TestListOpOnNonList(t *testing.T) {
	expectError(t, "x = 5\nx add 1", "cannot apply 'add' to value of type 'int'")
}

// ---- Invocation ----

func TestInvocationResult(t *testing.T) {
	var buf bytes.Buffer
	env, err := runSourceEnv("x = 5\ntypeOf(x)", &buf)
	if err != nil {
		t.Fatalf("runtime error: %v", err)
	}
	ret, ok := env.Ret.(StringVal)
	if !ok {
		t.Fatalf("expected StringVal result, got %T", env.Ret)
	}
	if string(ret) != "int" {
		t.Errorf("expected 'int', got %q", ret)
	}
}

func TestResultClearedBetweenStatements(t *testing.T) {
	var buf bytes.Buffer
	env, err := runSourceEnv("typeOf(1)\nx = 2", &buf)
	if err != nil {
		t.Fatalf("runtime error: %v", err)
	}
	if env.Ret != nil {
		t.Errorf("expected nil result after non-invocation statement, got %v", env.Ret)
	}
}

func TestCallUndefined(t *testing.T) {
	expectError(t, `frobnicate(1)`, "undefined variable 'frobnicate'")
}

func TestCallNonCallable(t *testing.T) {
	expectError(t, "x = 5\nx(1)", "cannot call value of type 'int'")
}

func TestCalleeThroughAlias(t *testing.T) {
	expectOutput(t, "f = print\nf(42)", "42\n")
}

func TestBuiltinLen(t *testing.T) {
	var buf bytes.Buffer
	env, err := runSourceEnv("s = \"hello\"\nlen(s)", &buf)
	if err != nil {
		t.Fatalf("runtime error: %v", err)
	}
	if !valuesEqual(env.Ret, IntVal(5)) {
		t.Errorf("expected 5, got %v", env.Ret)
	}
	expectError(t, `len(7)`, "len not supported for type 'int'")
}

func TestBuiltinStr(t *testing.T) {
	var buf bytes.Buffer
	env, err := runSourceEnv("xs = new list\nxs add 1\nstr(xs)", &buf)
	if err != nil {
		t.Fatalf("runtime error: %v", err)
	}
	if !valuesEqual(env.Ret, StringVal("[1]")) {
		t.Errorf("expected \"[1]\", got %v", env.Ret)
	}
}

// ---- Blocks and sequencing ----

func TestBlockGroupsStatements(t *testing.T) {
	expectOutput(t, "{\n  a = 1\n  b = a\n}\nprint(b)", "1\n")
}

func TestEmptyBlockLeavesEnvUntouched(t *testing.T) {
	var buf bytes.Buffer
	env, err := runSourceEnv("x = 1\n{}", &buf)
	if err != nil {
		t.Fatalf("runtime error: %v", err)
	}
	if env.Ret != nil {
		t.Errorf("expected nil result, got %v", env.Ret)
	}
	v, ok := env.Ctx.Get("x")
	if !ok || !valuesEqual(v, IntVal(1)) {
		t.Errorf("expected x to survive empty block, got %v", v)
	}
}

func TestErrorAbortsSequence(t *testing.T) {
	out, err := runSource("print(1)\nfoo add 1\nprint(2)")
	if err == nil {
		t.Fatal("expected error")
	}
	if strings.Contains(out, "2") {
		t.Errorf("statements after the failing one must not run, got %q", out)
	}
}

// ---- Continuing with a supplied environment ----

func TestRunContinuesSuppliedEnv(t *testing.T) {
	var buf bytes.Buffer
	interp := NewInterpreter(&buf)

	run := func(source string, env *Env) *Env {
		t.Helper()
		l := lexer.New(source, "test.mint")
		tokens, _ := l.Tokenize()
		p := parser.New(tokens)
		program, _ := p.ParseProgram()
		env, err := interp.Run(program, env)
		if err != nil {
			t.Fatalf("runtime error: %v", err)
		}
		return env
	}

	env := run("x = 40", nil)
	run("print(x)", env)
	if buf.String() != "40\n" {
		t.Errorf("expected binding to survive across runs, got %q", buf.String())
	}
}
