/*

Package propscript implements PropScript, a small embeddable language for
procedural and numerical content generation. A host program lexes and
parses source text into an Ast, registers whatever native functions and
constants it wants the script to see, and executes the Ast against an
Interpreter.

Basic Syntax

Comments start with `#` and run to the end of the line.

	# this whole line is a comment
	x = 1 # so is this part of the line

Numbers are int32 or float32 literals.

	0
	150
	-13
	14.72
	-2.8

The basic arithmetic and comparative operators work as expected, and are
overloaded across PropScript's numeric shapes: int, float, vec2, vec3,
vec4, and quaternion.

	1 + 3            # 4
	3 / 2            # 1 (int division)
	vec2(1, 2) * 2   # vec2(2, 4)
	5 >= 4           # 1
	5 == 4 + 2       # 0

Supported operators are `+`, `-`, `*`, `/`, `%`, `==`, `!=`, `<`, `>`,
`<=`, `>=`, `and`, `or`, plus the compound assignments `+=`, `-=`, `*=`,
`/=`, `%=`.

Names follow the usual convention: letters or `_` to begin, letters,
digits or `_` after that. A bare name reads a variable or constant; the
same name followed by `(...)` calls a function.

	a
	a()
	a[0]            # component access on a vector variable

Variables And Assignment

Assigning to a name that doesn't yet exist in the current scope creates
it; its type is fixed at creation except that an int can always widen
into a variable that already holds a float.

	x = 1.5
	x = 2           # fine: x holds a float, so 2 is stored as 2.0
	x = vec2(1, 2)  # runtime error: x holds a float, not a vec2

Vector (vec2/vec3/vec4) components can be read and written by index;
indexing a quaternion is a runtime error.

	v = vec2(1, 2)
	v[0] = 3    # v is now (3, 2)

Control Flow

	if <expr> {
		...
	} else {
		...
	}

	for i in range(0, 9) {
		...
	}

`for` always iterates an inclusive integer range produced by range() (or
any vec2-valued expression); the loop variable must not already exist.
`break` and `continue` are only valid inside a `for` body.

Functions

	func add(a, b) {
		ret a + b
	}

Functions are not values; they're called by name, and are looked up
first in the native library, then in the set of script-defined
functions. Parameters are always fresh locals for the duration of the
call.

Host Embedding

A host calls Lex then Parse to build an Ast, builds an Interpreter with
NewInterpreter (optionally passing WithLibFunctions/WithConstants to
extend the native library beyond its defaults of range/print/rand/int/
vec2/vec3/vec4/quaternion/sqrt/pow/sin/cos/tan/asin/acos/atan), and calls
Execute. An Ast can be cached to disk between runs with Save and Load.

*/
package propscript
