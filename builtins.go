package propscript

import (
	"fmt"
	"io"
	"math"
	"math/rand"

	"github.com/frozein/PropScript/vecmath"
)

// defaultFunctions returns the native function library every Interpreter
// starts with, grounded on the source's PS_DEFAULT_LIB_FUNCTIONS table.
// print is the one entry that needs interpreter-owned state (where to
// write), so the whole table is built per-Interpreter rather than held as
// a package-level slice.
func defaultFunctions(out io.Writer) []FunctionSignature {
	return []FunctionSignature{
		{"range", fnRange},
		{"print", fnPrint(out)},
		{"rand", fnRand},
		{"int", fnInt},
		{"vec2", fnVec2},
		{"vec3", fnVec3},
		{"vec4", fnVec4},
		{"quaternion", fnQuaternion},
		{"sqrt", fnUnaryMath(math.Sqrt)},
		{"pow", fnPow},
		{"sin", fnUnaryMath(math.Sin)},
		{"cos", fnUnaryMath(math.Cos)},
		{"tan", fnUnaryMath(math.Tan)},
		{"asin", fnUnaryMath(math.Asin)},
		{"acos", fnUnaryMath(math.Acos)},
		{"atan", fnUnaryMath(math.Atan)},
	}
}

// defaultConstants returns the constant table every Interpreter starts
// with, grounded on the source's PS_DEFAULT_CONSTANTS table.
func defaultConstants() []Constant {
	return []Constant{
		{"M_PI", floatValue(float32(math.Pi))},
		{"M_TAU", floatValue(float32(2 * math.Pi))},
		{"M_E", floatValue(float32(math.E))},
	}
}

func fnRange(params []Value, node Node, _ any) (Value, error) {
	if len(params) != 2 || params[0].Kind != ValueInt || params[1].Kind != ValueInt {
		return Value{}, InvalidParamsError(node)
	}
	return vec2Value(vecmath.Vec2{float32(params[0].Int), float32(params[1].Int)}), nil
}

func fnPrint(out io.Writer) NativeFunc {
	return func(params []Value, node Node, _ any) (Value, error) {
		for idx, p := range params {
			switch p.Kind {
			case ValueInt:
				fmt.Fprint(out, p.Int)
			case ValueFloat:
				fmt.Fprint(out, p.Float)
			case ValueVec2:
				fmt.Fprintf(out, "(%v, %v)", p.Vec2[0], p.Vec2[1])
			case ValueVec3:
				fmt.Fprintf(out, "(%v, %v, %v)", p.Vec3[0], p.Vec3[1], p.Vec3[2])
			case ValueVec4:
				fmt.Fprintf(out, "(%v, %v, %v, %v)", p.Vec4[0], p.Vec4[1], p.Vec4[2], p.Vec4[3])
			default:
				return Value{}, InvalidParamsError(node)
			}

			if idx < len(params)-1 {
				fmt.Fprint(out, ", ")
			}
		}
		fmt.Fprintln(out)

		return Value{}, nil
	}
}

// scalarRand draws uniformly from the closed range [min,max]: the unit
// sample is Uint32/MaxUint32, which reaches both 0 and 1.
func scalarRand(min, max float32) float32 {
	unit := float32(float64(rand.Uint32()) / math.MaxUint32)
	return unit*(max-min) + min
}

// fnRand mirrors _ps_rand's int/float asymmetry: ints draw from [min,max),
// floats and vectors from [min,max] inclusive. The int path additionally
// guards max<=min with InvalidParams instead of letting Int31n panic, which
// the source's equivalent %-based form doesn't bother to do.
func fnRand(params []Value, node Node, _ any) (Value, error) {
	if len(params) != 2 {
		return Value{}, InvalidParamsError(node)
	}

	switch {
	case params[0].Kind == ValueVec2 && params[1].Kind == ValueVec2:
		min, max := params[0].Vec2, params[1].Vec2
		return vec2Value(vecmath.Vec2{
			scalarRand(min[0], max[0]),
			scalarRand(min[1], max[1]),
		}), nil

	case params[0].Kind == ValueVec3 && params[1].Kind == ValueVec3:
		min, max := params[0].Vec3, params[1].Vec3
		return vec3Value(vecmath.Vec3{
			scalarRand(min[0], max[0]),
			scalarRand(min[1], max[1]),
			scalarRand(min[2], max[2]),
		}), nil

	case params[0].Kind == ValueVec4 && params[1].Kind == ValueVec4:
		min, max := params[0].Vec4, params[1].Vec4
		return vec4Value(vecmath.Vec4{
			scalarRand(min[0], max[0]),
			scalarRand(min[1], max[1]),
			scalarRand(min[2], max[2]),
			scalarRand(min[3], max[3]),
		}), nil

	case params[0].Kind == ValueInt && params[1].Kind == ValueInt:
		min, max := params[0].Int, params[1].Int
		if max <= min {
			return Value{}, InvalidParamsError(node)
		}
		return intValue(rand.Int31n(max-min) + min), nil

	default:
		min := asScalar(params[0], node.Line, InvalidParams)
		max := asScalar(params[1], node.Line, InvalidParams)
		return floatValue(scalarRand(min, max)), nil
	}
}

func fnInt(params []Value, node Node, _ any) (Value, error) {
	if len(params) != 1 {
		return Value{}, InvalidParamsError(node)
	}
	return intValue(int32(asScalar(params[0], node.Line, InvalidParams))), nil
}

func fnVec2(params []Value, node Node, _ any) (Value, error) {
	switch len(params) {
	case 0:
		return vec2Value(vecmath.Vec2{0, 0}), nil
	case 1:
		v := asScalar(params[0], node.Line, InvalidParams)
		return vec2Value(vecmath.Vec2{v, v}), nil
	case 2:
		x := asScalar(params[0], node.Line, InvalidParams)
		y := asScalar(params[1], node.Line, InvalidParams)
		return vec2Value(vecmath.Vec2{x, y}), nil
	default:
		return Value{}, InvalidParamsError(node)
	}
}

func fnVec3(params []Value, node Node, _ any) (Value, error) {
	switch len(params) {
	case 0:
		return vec3Value(vecmath.Vec3{0, 0, 0}), nil
	case 1:
		v := asScalar(params[0], node.Line, InvalidParams)
		return vec3Value(vecmath.Vec3{v, v, v}), nil
	case 2:
		if params[0].Kind != ValueVec2 {
			return Value{}, InvalidParamsError(node)
		}
		xy := params[0].Vec2
		z := asScalar(params[1], node.Line, InvalidParams)
		return vec3Value(vecmath.Vec3{xy[0], xy[1], z}), nil
	case 3:
		x := asScalar(params[0], node.Line, InvalidParams)
		y := asScalar(params[1], node.Line, InvalidParams)
		z := asScalar(params[2], node.Line, InvalidParams)
		return vec3Value(vecmath.Vec3{x, y, z}), nil
	default:
		return Value{}, InvalidParamsError(node)
	}
}

// fnVec4 accepts zero arguments, one scalar (splat), a vec3 plus a scalar
// w, or four scalars; a 3-argument call is rejected, matching the source
// exactly (it only special-cases 0/1/2/4 arguments).
func fnVec4(params []Value, node Node, _ any) (Value, error) {
	switch len(params) {
	case 0:
		return vec4Value(vecmath.Vec4{0, 0, 0, 0}), nil
	case 1:
		v := asScalar(params[0], node.Line, InvalidParams)
		return vec4Value(vecmath.Vec4{v, v, v, v}), nil
	case 2:
		if params[0].Kind != ValueVec3 {
			return Value{}, InvalidParamsError(node)
		}
		xyz := params[0].Vec3
		w := asScalar(params[1], node.Line, InvalidParams)
		return vec4Value(vecmath.Vec4{xyz[0], xyz[1], xyz[2], w}), nil
	case 4:
		x := asScalar(params[0], node.Line, InvalidParams)
		y := asScalar(params[1], node.Line, InvalidParams)
		z := asScalar(params[2], node.Line, InvalidParams)
		w := asScalar(params[3], node.Line, InvalidParams)
		return vec4Value(vecmath.Vec4{x, y, z, w}), nil
	default:
		return Value{}, InvalidParamsError(node)
	}
}

// fnQuaternion builds a rotation: no-argument identity, one vec3 of Euler
// angles (radians), or an axis vec3 plus an angle (radians).
func fnQuaternion(params []Value, node Node, _ any) (Value, error) {
	if len(params) > 0 && params[0].Kind != ValueVec3 {
		return Value{}, InvalidParamsError(node)
	}

	switch len(params) {
	case 0:
		return quatValue(vecmath.QuatIdentity()), nil
	case 1:
		anglesDeg := vecmath.Vec3{
			float32(radToDeg(float64(params[0].Vec3[0]))),
			float32(radToDeg(float64(params[0].Vec3[1]))),
			float32(radToDeg(float64(params[0].Vec3[2]))),
		}
		return quatValue(vecmath.QuatFromEuler(anglesDeg)), nil
	case 2:
		axis := params[0].Vec3
		angle := asScalar(params[1], node.Line, InvalidParams)
		return quatValue(vecmath.QuatFromAxisAngle(axis, float32(radToDeg(float64(angle))))), nil
	default:
		return Value{}, InvalidParamsError(node)
	}
}

func radToDeg(rad float64) float64 { return rad * 180 / math.Pi }

func fnPow(params []Value, node Node, _ any) (Value, error) {
	if len(params) != 2 {
		return Value{}, InvalidParamsError(node)
	}
	base := asScalar(params[0], node.Line, InvalidParams)
	exp := asScalar(params[1], node.Line, InvalidParams)
	return floatValue(float32(math.Pow(float64(base), float64(exp)))), nil
}

// fnUnaryMath adapts a math.* float64 function into a one-argument
// PropScript native function.
func fnUnaryMath(f func(float64) float64) NativeFunc {
	return func(params []Value, node Node, _ any) (Value, error) {
		if len(params) != 1 {
			return Value{}, InvalidParamsError(node)
		}
		input := asScalar(params[0], node.Line, InvalidParams)
		return floatValue(float32(f(float64(input)))), nil
	}
}
