/*
 * classvm - a JVM-class-file-compatible bytecode runtime
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package object

import (
	"classvm/addr"
	"classvm/types"
)

// Value is the tagged value variant the operand stack and local-variable
// array hold: every primitive basic type plus Object/Array references,
// per spec.md §4.8. Category-2 values (long, double) count as ONE stack
// entry here, a deliberate deviation from the JVMS that spec.md §9 directs
// this implementation to keep.
type Value struct {
	Type types.BasicType
	I    int64       // Boolean/Char/Byte/Short/Int/Long stored widened here
	F    float64     // Float/Double stored widened here
	Ref  addr.Address // Object/Array
}

func IntValue(v int32) Value    { return Value{Type: types.Int, I: int64(v)} }
func LongValue(v int64) Value   { return Value{Type: types.Long, I: v} }
func FloatValue(v float32) Value { return Value{Type: types.Float, F: float64(v)} }
func DoubleValue(v float64) Value { return Value{Type: types.Double, F: v} }
func ByteValue(v int8) Value    { return Value{Type: types.Byte, I: int64(v)} }
func ShortValue(v int16) Value  { return Value{Type: types.Short, I: int64(v)} }
func CharValue(v uint16) Value  { return Value{Type: types.Char, I: int64(v)} }
func BoolValue(v bool) Value {
	i := int64(0)
	if v {
		i = 1
	}
	return Value{Type: types.Boolean, I: i}
}
func RefValue(r addr.Address) Value { return Value{Type: types.Object, Ref: r} }

var Null = RefValue(addr.Null)

func (v Value) Int() int32     { return int32(v.I) }
func (v Value) Long() int64    { return v.I }
func (v Value) Float() float32 { return float32(v.F) }
func (v Value) Double() float64 { return v.F }
func (v Value) Bool() bool     { return v.I != 0 }
func (v Value) IsNull() bool   { return v.Type == types.Object && v.Ref.IsNull() }

// IsCategory2 reports whether v occupies two local-variable slots
// (spec.md §4.8); note this is independent of the operand-stack
// single-slot convention above.
func (v Value) IsCategory2() bool { return v.Type.IsCategory2() }

// LocalSlotSentinel is written to the upper of a category-2 local pair
// (spec.md §3: "the second holding a sentinel").
var LocalSlotSentinel = Value{Type: types.Long, I: 0}
