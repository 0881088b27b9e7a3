package lang

import (
	"errors"
	"slices"
	"testing"
)

func TestEnvScopes(t *testing.T) {
	t.Parallel()

	root := NewEnv()
	root.Set("x", NewInt(1))
	root.Set("y", NewInt(2))

	child := root.NewChild()
	child.Set("x", NewInt(10))

	if v, _ := child.Get("x"); !Equal(v, NewInt(10)) {
		t.Errorf("child x = %s, want 10", v)
	}

	if v, _ := child.Get("y"); !Equal(v, NewInt(2)) {
		t.Errorf("child y = %s, want 2 from the parent", v)
	}

	if v, _ := root.Get("x"); !Equal(v, NewInt(1)) {
		t.Errorf("root x = %s, want 1; setting in a child must not leak", v)
	}

	if child.Parent() != root || root.Parent() != nil {
		t.Error("Parent does not reflect the scope chain")
	}

	_, err := child.Get("missing")
	if !errors.Is(err, ErrNameNotFound) {
		t.Errorf("expected NameNotFound, got %v", err)
	}
}

func TestEnvResolve(t *testing.T) {
	t.Parallel()

	root := NewEnv()
	fn := &Function{Name: "f"}
	root.DefineFunction(fn)
	root.Set("n", NewInt(3))

	alias := &Function{Name: "g"}
	child := root.NewChild()
	child.Set("h", NewFunction(alias))

	if got, err := child.Resolve("f"); err != nil || got != fn {
		t.Errorf("Resolve(f) = %v, %v", got, err)
	}

	if got, err := child.Resolve("h"); err != nil || got != alias {
		t.Errorf("Resolve(h) = %v, %v", got, err)
	}

	if _, err := child.Resolve("n"); !errors.Is(err, ErrType) {
		t.Errorf("Resolve(n): expected TypeError, got %v", err)
	}

	if _, err := child.Resolve("nope"); !errors.Is(err, ErrNameNotFound) {
		t.Errorf("Resolve(nope): expected NameNotFound, got %v", err)
	}
}

func TestEnvResolve_InnermostFirst(t *testing.T) {
	t.Parallel()

	outer := &Function{Name: "g"}
	param := &Function{Name: "h"}

	root := NewEnv()
	root.DefineFunction(outer)

	call := root.NewChild()
	call.Set("g", NewFunction(param))

	if got, err := call.Resolve("g"); err != nil || got != param {
		t.Errorf("Resolve(g) = %v, %v, want the local binding", got, err)
	}

	shadow := root.NewChild()
	shadow.Set("g", NewInt(1))

	if _, err := shadow.Resolve("g"); !errors.Is(err, ErrType) {
		t.Errorf("Resolve(g) over a local Int: expected TypeError, got %v", err)
	}

	if got, err := root.Resolve("g"); err != nil || got != outer {
		t.Errorf("root Resolve(g) = %v, %v", got, err)
	}
}

func TestEnvValue(t *testing.T) {
	t.Parallel()

	inner := &Function{Name: "f"}

	root := NewEnv()
	root.Set("f", NewInt(1))
	root.Set("x", NewInt(2))

	child := root.NewChild()
	child.DefineFunction(inner)

	if v, ok := child.Value("f"); !ok || v.AsFunction() != inner {
		t.Errorf("Value(f) = %s, %t, want the inner function", v, ok)
	}

	if v, ok := root.Value("f"); !ok || v.AsInt() != 1 {
		t.Errorf("root Value(f) = %s, %t", v, ok)
	}

	child.Set("f", NewString("var"))

	if v, _ := child.Value("f"); v.AsString() != "var" {
		t.Errorf("Value(f) = %s, want the variable in the same scope", v)
	}

	if _, ok := child.Value("missing"); ok {
		t.Error("Value(missing) found a binding")
	}
}

func TestEnvBindings(t *testing.T) {
	t.Parallel()

	root := NewEnv()
	root.Set("b", NewInt(1))
	root.Set("a", NewInt(2))
	root.DefineFunction(&Function{Name: "f"})

	child := root.NewChild()
	child.Set("a", NewString("shadow"))
	child.Set("c", NewBool(true))

	want := []string{"a", "b", "c", "f"}
	if got := child.Names(); !slices.Equal(got, want) {
		t.Fatalf("Names() = %v, want %v", got, want)
	}

	for name, v := range child.Bindings() {
		switch name {
		case "a":
			if v.AsString() != "shadow" {
				t.Errorf("a = %s, want the innermost binding", v)
			}
		case "f":
			if v.Kind() != KindFunction {
				t.Errorf("f = %s, want a Function", v.Kind())
			}
		}
	}

	if names := NewEnv().Names(); len(names) != 0 {
		t.Errorf("empty scope has names %v", names)
	}
}
