/*
 * classvm - a JVM-class-file-compatible bytecode runtime
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package gfunction

import (
	"math"

	"classvm/object"
)

// loadLangFloatDouble registers the bit-reinterpretation intrinsics
// spec.md §6 requires verbatim: Float.floatToRawIntBits,
// Double.doubleToRawLongBits, Double.longBitsToDouble. These do not round
// NaN bit patterns the way the non-raw variants do, matching Go's
// math.Float32bits/Float64bits, which likewise preserve the exact bits.
func loadLangFloatDouble() {
	MethodSignatures["java/lang/Float.floatToRawIntBits(F)I"] = GMeth{1, floatToRawIntBits}
	MethodSignatures["java/lang/Double.doubleToRawLongBits(D)J"] = GMeth{1, doubleToRawLongBits}
	MethodSignatures["java/lang/Double.longBitsToDouble(J)D"] = GMeth{1, longBitsToDouble}
}

func floatToRawIntBits(env *Env, params []object.Value) (object.Value, error) {
	return object.IntValue(int32(math.Float32bits(params[0].Float()))), nil
}

func doubleToRawLongBits(env *Env, params []object.Value) (object.Value, error) {
	return object.LongValue(int64(math.Float64bits(params[0].Double()))), nil
}

func longBitsToDouble(env *Env, params []object.Value) (object.Value, error) {
	return object.DoubleValue(math.Float64frombits(uint64(params[0].Long()))), nil
}
