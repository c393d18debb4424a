package machine_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/mna/izi/lang/machine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, src string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	th := machine.NewThread()
	th.Stdout = &out
	th.Stderr = &errOut
	err = machine.Interpret(context.Background(), th, src)
	return out.String(), errOut.String(), err
}

func TestArithmeticPrecedence(t *testing.T) {
	out, _, err := run(t, `print 1 + 2 * 3 - 4 / 2;`)
	require.NoError(t, err)
	assert.Equal(t, "5\n", out)
}

func TestModuloOperator(t *testing.T) {
	out, _, err := run(t, `print 7 % 2;`)
	require.NoError(t, err)
	assert.Equal(t, "1\n", out)
}

func TestStringConcatenation(t *testing.T) {
	out, _, err := run(t, `print "foo" + "bar";`)
	require.NoError(t, err)
	assert.Equal(t, "foobar\n", out)
}

func TestComparisonRequiresNumbers(t *testing.T) {
	_, stderr, err := run(t, `print "abc" < "abd";`)
	require.Error(t, err)
	var rerr *machine.RuntimeError
	require.ErrorAs(t, err, &rerr)
	assert.Contains(t, rerr.Msg, "Operands must be numbers.")
	assert.Contains(t, stderr, "[line 1]")
}

func TestForLoop(t *testing.T) {
	out, _, err := run(t, `
var total = 0;
for (var i = 0; i < 5; i = i + 1) {
	total = total + i;
}
print total;
`)
	require.NoError(t, err)
	assert.Equal(t, "10\n", out)
}

func TestClosuresCaptureUpvalue(t *testing.T) {
	out, _, err := run(t, `
fun make() {
	var count = 0;
	fun inc() {
		count = count + 1;
		return count;
	}
	return inc;
}
var c1 = make();
print c1();
print c1();
var c2 = make();
print c2();
print c1();
`)
	require.NoError(t, err)
	assert.Equal(t, "1\n2\n1\n3\n", out)
}

func TestClassInheritanceAndSuper(t *testing.T) {
	out, _, err := run(t, `
class Animal {
	new(name) {
		this.name = name;
	}
	speak() {
		print this.name + " makes a sound.";
	}
}
class Dog < Animal {
	speak() {
		super.speak();
		print this.name + " barks.";
	}
}
var d = Dog("Rex");
d.speak();
`)
	require.NoError(t, err)
	assert.Equal(t, "Rex makes a sound.\nRex barks.\n", out)
}

func TestRuntimeErrorTypeMismatch(t *testing.T) {
	_, stderr, err := run(t, `print "foo" + 1;`)
	require.Error(t, err)
	var rerr *machine.RuntimeError
	require.ErrorAs(t, err, &rerr)
	assert.Contains(t, rerr.Msg, "Operands must be two numbers or two strings.")
	assert.Contains(t, stderr, "[line 1]")
}

func TestRuntimeErrorUndefinedGlobal(t *testing.T) {
	_, _, err := run(t, `x = 1;`)
	require.Error(t, err)
	var rerr *machine.RuntimeError
	require.ErrorAs(t, err, &rerr)
	assert.Contains(t, rerr.Msg, "Undefined variable 'x'.")
}

func TestRuntimeErrorIncludesCallStack(t *testing.T) {
	_, stderr, err := run(t, `
fun a() { b(); }
fun b() { c(); }
fun c() { return 1 + "x"; }
a();
`)
	require.Error(t, err)
	// deepest frame first, per the stack-trace contract
	idxC := strings.Index(stderr, "in c")
	idxB := strings.Index(stderr, "in b")
	idxA := strings.Index(stderr, "in a")
	require.True(t, idxC >= 0 && idxB >= 0 && idxA >= 0, stderr)
	assert.Less(t, idxC, idxB)
	assert.Less(t, idxB, idxA)
}

func TestClockNativeIsDefined(t *testing.T) {
	out, _, err := run(t, `print clock() >= 0;`)
	require.NoError(t, err)
	assert.Equal(t, "true\n", out)
}

func TestCallArityMismatch(t *testing.T) {
	_, _, err := run(t, `
fun f(a, b) { return a + b; }
f(1);
`)
	require.Error(t, err)
	var rerr *machine.RuntimeError
	require.ErrorAs(t, err, &rerr)
	assert.Contains(t, rerr.Msg, "Expected 2 arguments but got 1.")
}

func TestClassWithoutNewInstantiatesWithNoArgs(t *testing.T) {
	out, _, err := run(t, `
class Empty {}
var e = Empty();
print e;
`)
	require.NoError(t, err)
	assert.Contains(t, out, "Empty instance")
}
