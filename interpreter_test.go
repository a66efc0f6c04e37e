package lox

import (
	"bytes"
	"strings"
	"testing"
)

// runScript executes src on a fresh interpreter and returns everything it
// printed.
func runScript(t *testing.T, src string) string {
	t.Helper()
	ip := NewInterpreter()
	var out bytes.Buffer
	ip.Stdout = &out
	prog := parseOk(t, src)
	locals, err := ResolveProgram(prog)
	if err != nil {
		t.Fatalf("resolve error: %v", err)
	}
	if err := ip.Interpret(prog, locals); err != nil {
		t.Fatalf("runtime error: %v\nsource:\n%s", err, src)
	}
	return out.String()
}

// wantLines runs src and compares the printed lines.
func wantLines(t *testing.T, src string, lines ...string) {
	t.Helper()
	want := strings.Join(lines, "\n") + "\n"
	if len(lines) == 0 {
		want = ""
	}
	got := runScript(t, src)
	if got != want {
		t.Fatalf("output mismatch:\nwant %q\ngot  %q\nsource:\n%s", want, got, src)
	}
}

// wantRuntimeError runs src expecting a runtime failure of the given kind.
func wantRuntimeError(t *testing.T, src string, kind ErrKind) *RuntimeError {
	t.Helper()
	ip := NewInterpreter()
	ip.Stdout = &bytes.Buffer{}
	prog := parseOk(t, src)
	locals, err := ResolveProgram(prog)
	if err != nil {
		t.Fatalf("resolve error: %v", err)
	}
	err = ip.Interpret(prog, locals)
	if err == nil {
		t.Fatalf("want runtime error for:\n%s", src)
	}
	rte, ok := err.(*RuntimeError)
	if !ok {
		t.Fatalf("want *RuntimeError, got %T: %v", err, err)
	}
	if rte.Kind != kind {
		t.Fatalf("want kind %v, got %v: %v", kind, rte.Kind, rte)
	}
	return rte
}

// ----- variables and scoping -----

func Test_Interpreter_Shadowing(t *testing.T) {
	wantLines(t, `
		var a = 1;
		{
			var a = 2;
			print a;
		}
		print a;
	`, "2", "1")
}

func Test_Interpreter_Assignment_Reaches_Enclosing_Scope(t *testing.T) {
	wantLines(t, `
		var a = 1;
		{
			a = 2;
		}
		print a;
	`, "2")
}

func Test_Interpreter_Undefined_Variable(t *testing.T) {
	rte := wantRuntimeError(t, "print nope;", ErrUndefinedVariable)
	if !strings.Contains(rte.Msg, "'nope'") {
		t.Fatalf("message should name the variable: %v", rte)
	}
	wantRuntimeError(t, "nope = 1;", ErrUndefinedVariable)
}

func Test_Interpreter_Uninitialized_Var_Is_Nil(t *testing.T) {
	wantLines(t, "var a; print a;", "nil")
}

// ----- operators -----

func Test_Interpreter_Arithmetic_And_Comparison(t *testing.T) {
	wantLines(t, "print 1 + 2 * 3;", "7")
	wantLines(t, "print 7 / 2;", "3.5")
	wantLines(t, "print 1 < 2;", "true")
	wantLines(t, "print 2 <= 1;", "false")
	wantLines(t, "print -3;", "-3")
	wantLines(t, "print !nil;", "true")
	wantLines(t, "print !0;", "false") // zero is truthy
}

func Test_Interpreter_Numeric_Display(t *testing.T) {
	wantLines(t, "print 3;", "3")
	wantLines(t, "print 3.0;", "3")
	wantLines(t, "print 3.5;", "3.5")
	wantLines(t, "print 1 / 4;", "0.25")
}

func Test_Interpreter_String_Concatenation(t *testing.T) {
	// No implicit separator.
	wantLines(t, `print "foo" + "bar";`, "foobar")
}

func Test_Interpreter_Plus_Type_Mismatch(t *testing.T) {
	rte := wantRuntimeError(t, `print 1 + "a";`, ErrTypeMismatch)
	if !strings.Contains(rte.Msg, "number and string") {
		t.Fatalf("message should name both operand types: %v", rte)
	}
	wantRuntimeError(t, `print "a" * 2;`, ErrTypeMismatch)
	wantRuntimeError(t, "print -nil;", ErrTypeMismatch)
}

func Test_Interpreter_Equality(t *testing.T) {
	wantLines(t, "print 1 == 1;", "true")
	wantLines(t, "print 1 == 2;", "false")
	wantLines(t, `print "a" == "a";`, "true")
	wantLines(t, "print nil == nil;", "true")
	wantLines(t, `print 1 == "1";`, "false") // no coercion across kinds
	wantLines(t, "print 1 != 2;", "true")
}

func Test_Interpreter_Logical_Short_Circuit(t *testing.T) {
	wantLines(t, `
		var called = false;
		fun mark() { called = true; return true; }
		false and mark();
		print called;
		true or mark();
		print called;
	`, "false", "false")
	// Logical operators return the deciding operand, not a boolean.
	wantLines(t, `print "hi" or 2;`, "hi")
	wantLines(t, `print nil or "fallback";`, "fallback")
	wantLines(t, "print nil and 2;", "nil")
}

// ----- control flow -----

func Test_Interpreter_If_Else(t *testing.T) {
	wantLines(t, `if (1 < 2) print "then"; else print "else";`, "then")
	wantLines(t, `if (nil) print "then"; else print "else";`, "else")
}

func Test_Interpreter_While_Loop(t *testing.T) {
	wantLines(t, `
		var i = 0;
		while (i < 3) {
			print i;
			i = i + 1;
		}
	`, "0", "1", "2")
}

func Test_Interpreter_For_Loop(t *testing.T) {
	wantLines(t, "for (var i = 0; i < 3; i = i + 1) print i;", "0", "1", "2")
	// The loop variable is scoped to the loop.
	wantRuntimeError(t, "for (var i = 0; i < 3; i = i + 1) {} print i;", ErrUndefinedVariable)
}

// ----- functions and closures -----

func Test_Interpreter_Function_Call_And_Return(t *testing.T) {
	wantLines(t, `
		fun add(a, b) { return a + b; }
		print add(1, 2);
	`, "3")
	// Fall-off-the-end yields nil.
	wantLines(t, `
		fun noop() {}
		print noop();
	`, "nil")
}

func Test_Interpreter_Recursion(t *testing.T) {
	wantLines(t, `
		fun fib(n) {
			if (n < 2) return n;
			return fib(n - 2) + fib(n - 1);
		}
		print fib(10);
	`, "55")
}

func Test_Interpreter_Closures_Are_Independent(t *testing.T) {
	wantLines(t, `
		fun makeCounter() {
			var n = 0;
			fun inc() {
				n = n + 1;
				return n;
			}
			return inc;
		}
		var a = makeCounter();
		var b = makeCounter();
		print a();
		print a();
		print b();
	`, "1", "2", "1")
}

func Test_Interpreter_Closure_Captures_Definition_Scope(t *testing.T) {
	// The closure keeps seeing its definition-time binding even after the
	// enclosing scope declares another variable of the same name later.
	wantLines(t, `
		var a = "global";
		{
			fun show() { print a; }
			show();
			var a = "block";
			show();
		}
	`, "global", "global")
}

func Test_Interpreter_Anonymous_Functions(t *testing.T) {
	wantLines(t, `
		var twice = fun (f, x) { return f(f(x)); };
		print twice(fun (n) { return n + 1; }, 5);
	`, "7")
}

func Test_Interpreter_Arity_Mismatch(t *testing.T) {
	rte := wantRuntimeError(t, "fun f(a, b) {} f(1);", ErrArityMismatch)
	if !strings.Contains(rte.Msg, "expected 2 arguments but got 1") {
		t.Fatalf("unexpected message: %v", rte)
	}
	rte = wantRuntimeError(t, "fun f(a, b) {} f(1, 2, 3);", ErrArityMismatch)
	if !strings.Contains(rte.Msg, "expected 2 arguments but got 3") {
		t.Fatalf("unexpected message: %v", rte)
	}
}

func Test_Interpreter_Not_Callable(t *testing.T) {
	wantRuntimeError(t, `"str"();`, ErrNotCallable)
	wantRuntimeError(t, "nil();", ErrNotCallable)
}

func Test_Interpreter_Stack_Overflow(t *testing.T) {
	wantRuntimeError(t, "fun f() { f(); } f();", ErrStackOverflow)
}

// ----- classes and instances -----

func Test_Interpreter_Class_Construction_And_Fields(t *testing.T) {
	wantLines(t, `
		class Point {
			init(x, y) {
				this.x = x;
				this.y = y;
			}
		}
		var p = Point(1, 2);
		print p.x + p.y;
		p.x = 10;
		print p.x;
		print p;
	`, "3", "10", "Point instance")
}

func Test_Interpreter_Field_Access_Aliases(t *testing.T) {
	// Instances are handles. Reading a field hands out the same object every
	// holder shares, so a write through one path is visible through another.
	wantLines(t, `
		class Box { init() { this.value = 0; } }
		class Outer { init(b) { this.inner = b; } }
		var b = Box();
		var a = Outer(b);
		a.inner.value = 1;
		print b.value;
	`, "1")
}

func Test_Interpreter_Methods_And_This(t *testing.T) {
	wantLines(t, `
		class Counter {
			init() { this.n = 0; }
			bump() {
				this.n = this.n + 1;
				return this.n;
			}
		}
		var c = Counter();
		c.bump();
		print c.bump();
	`, "2")
}

func Test_Interpreter_Bound_Method_Keeps_Receiver(t *testing.T) {
	wantLines(t, `
		class Greeter {
			init(name) { this.name = name; }
			greet() { return this.name; }
		}
		var m = Greeter("ada").greet;
		print m();
	`, "ada")
	// Binding preserves identity: calling through the extracted method
	// returns the very same instance.
	wantLines(t, `
		class C { m() { return this; } }
		var c = C();
		var m = c.m;
		print m() == c;
	`, "true")
}

func Test_Interpreter_Init_Returns_The_Instance(t *testing.T) {
	wantLines(t, `
		class C { init() { this.x = 1; } }
		var c = C();
		print c.init() == c;
	`, "true")
	// Early return in init still yields the instance.
	wantLines(t, `
		class D {
			init(flag) {
				if (flag) return;
				this.x = 1;
			}
		}
		print D(true);
	`, "D instance")
}

func Test_Interpreter_Fields_Shadow_Methods(t *testing.T) {
	wantLines(t, `
		class C { m() { return "method"; } }
		var c = C();
		c.m = "field";
		print c.m;
	`, "field")
}

func Test_Interpreter_Undefined_Property(t *testing.T) {
	wantRuntimeError(t, "class C {} var c = C(); print c.missing;", ErrUndefinedProperty)
	// Writes create fields, they never fail.
	wantLines(t, "class C {} var c = C(); c.fresh = 1; print c.fresh;", "1")
}

func Test_Interpreter_Property_Access_On_Non_Instance(t *testing.T) {
	wantRuntimeError(t, "print (1).x;", ErrPropertyAccessOnNonInstance)
	wantRuntimeError(t, `"s".x = 1;`, ErrPropertyAccessOnNonInstance)
	wantRuntimeError(t, "class C {} C.x = 1;", ErrPropertyAccessOnNonInstance)
}

// ----- inheritance -----

func Test_Interpreter_Inheritance_And_Override(t *testing.T) {
	wantLines(t, `
		class Animal {
			speak() { return "..."; }
			describe() { return this.speak(); }
		}
		class Dog < Animal {
			speak() { return "woof"; }
		}
		print Animal().describe();
		print Dog().describe();
	`, "...", "woof")
}

func Test_Interpreter_Super_Dispatch(t *testing.T) {
	wantLines(t, `
		class A {
			f() { return "A"; }
		}
		class B < A {
			f() { return super.f() + "B"; }
		}
		class C < B {
			f() { return super.f() + "C"; }
		}
		print C().f();
	`, "ABC")
}

func Test_Interpreter_Super_Starts_Above_Declaring_Class(t *testing.T) {
	// super in B.test must find A.f even when called on a C instance whose
	// own class overrides f again.
	wantLines(t, `
		class A { f() { return "A"; } }
		class B < A {
			f() { return "B"; }
			test() { return super.f(); }
		}
		class C < B {
			f() { return "C"; }
		}
		print C().test();
	`, "A")
}

func Test_Interpreter_Inherited_Init(t *testing.T) {
	wantLines(t, `
		class A { init(x) { this.x = x; } }
		class B < A {}
		print B(7).x;
	`, "7")
}

func Test_Interpreter_Superclass_Must_Be_Class(t *testing.T) {
	wantRuntimeError(t, "var NotAClass = 1; class C < NotAClass {}", ErrSuperclassMustBeClass)
}

// ----- equality dispatch -----

func Test_Interpreter_Equals_Method_Dispatch(t *testing.T) {
	wantLines(t, `
		class Point {
			init(x) { this.x = x; }
			equals(other) { return this.x == other.x; }
		}
		print Point(1) == Point(1);
		print Point(1) == Point(2);
		print Point(1) != Point(1);
	`, "true", "false", "false")
	// Without an equals method, instances compare by identity.
	wantLines(t, `
		class C {}
		var a = C();
		print a == a;
		print a == C();
	`, "true", "false")
	// An equals with the wrong arity is ignored, falling back to identity.
	wantLines(t, `
		class C { equals(a, b) { return true; } }
		print C() == C();
	`, "false")
}

func Test_Interpreter_Recursive_Equals_Overflows(t *testing.T) {
	// An equals that recurses through '==' must hit the depth guard and come
	// back as a runtime error, not take down the process.
	wantRuntimeError(t, `
		class C { equals(o) { return this == o; } }
		print C() == C();
	`, ErrStackOverflow)
}

// ----- natives and host API -----

func Test_Interpreter_Clock_Native(t *testing.T) {
	wantLines(t, "print clock() > 0;", "true")
	wantRuntimeError(t, "clock(1);", ErrArityMismatch)
}

func Test_Interpreter_RegisterNative(t *testing.T) {
	ip := NewInterpreter()
	var out bytes.Buffer
	ip.Stdout = &out
	ip.RegisterNative("double", 1, func(_ *Interpreter, args []Value) Value {
		return NumVal(args[0].Data.(float64) * 2)
	})
	if _, err := ip.EvalSource("<test>", "print double(21);"); err != nil {
		t.Fatalf("eval: %v", err)
	}
	if got := out.String(); got != "42\n" {
		t.Fatalf("want %q, got %q", "42\n", got)
	}
	// User globals shadow natives without clobbering Core.
	if _, err := ip.EvalSource("<test>", "var double = 0;"); err != nil {
		t.Fatalf("eval: %v", err)
	}
	if _, ok := ip.Core.Get("double"); !ok {
		t.Fatal("Core native should survive a global shadow")
	}
}

// ----- session API -----

func Test_Interpreter_State_Persists_Across_EvalSource(t *testing.T) {
	ip := NewInterpreter()
	ip.Stdout = &bytes.Buffer{}
	if _, err := ip.EvalSource("<repl>", "var x = 1; fun bump() { x = x + 1; return x; }"); err != nil {
		t.Fatalf("eval: %v", err)
	}
	v, err := ip.EvalSource("<repl>", "bump() + bump();")
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	if v.Tag != VTNum || v.Data.(float64) != 5 {
		t.Fatalf("want 5, got %v", v)
	}
}

func Test_Interpreter_EvalProgram_Echo(t *testing.T) {
	ip := NewInterpreter()
	ip.Stdout = &bytes.Buffer{}

	prog := parseOk(t, "1 + 2;")
	locals, _ := ResolveProgram(prog)
	v, echo, err := ip.EvalProgram(prog, locals)
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	if !echo || v.Data.(float64) != 3 {
		t.Fatalf("want echoed 3, got %v (echo=%v)", v, echo)
	}

	// Declarations do not echo.
	prog = parseOk(t, "var a = 1;")
	locals, _ = ResolveProgram(prog)
	_, echo, err = ip.EvalProgram(prog, locals)
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	if echo {
		t.Fatal("declaration should not echo")
	}
}

func Test_Interpreter_Error_Aborts_Execution(t *testing.T) {
	ip := NewInterpreter()
	var out bytes.Buffer
	ip.Stdout = &out
	prog := parseOk(t, `print "before"; print nope; print "after";`)
	locals, _ := ResolveProgram(prog)
	if err := ip.Interpret(prog, locals); err == nil {
		t.Fatal("want runtime error")
	}
	if got := out.String(); got != "before\n" {
		t.Fatalf("statements after the failure must not run: %q", got)
	}
}

func Test_Interpreter_Error_Location(t *testing.T) {
	rte := wantRuntimeError(t, "var a = 1;\nprint a + nil;", ErrTypeMismatch)
	if rte.Line != 2 {
		t.Fatalf("want line 2, got %d", rte.Line)
	}
}
