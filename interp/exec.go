/*
 * classvm - a JVM-class-file-compatible bytecode runtime
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package interp

import (
	"encoding/binary"
	"math"

	"classvm/classfile"
	"classvm/excNames"
	"classvm/frame"
	"classvm/gfunction"
	"classvm/object"
	"classvm/types"
)

// u1/u2/s1/s2/s4 read operand bytes from a method's code array, which is
// always big-endian regardless of host order (spec.md §6: "the class file
// format itself is always big-endian").
func u1(code []byte, pc int) int { return int(code[pc]) }
func s1(code []byte, pc int) int { return int(int8(code[pc])) }
func u2(code []byte, pc int) int { return int(binary.BigEndian.Uint16(code[pc : pc+2])) }
func s2(code []byte, pc int) int { return int(int16(binary.BigEndian.Uint16(code[pc : pc+2]))) }

// Execute runs f's bytecode from its current PC until it returns or an
// unhandled exception escapes, per spec.md §4.8/§4.9. On a normal return it
// yields the method's return value (zero Value for void); on an unhandled
// throw it yields a *Signal carrying the live exception object.
func (t *Thread) Execute(f *frame.Frame) (object.Value, *Signal) {
	code := f.Method.Code
	for {
		v, sig, done := t.step(f, code)
		if sig != nil {
			if handlerPC, ok := t.findHandler(f, sig); ok {
				f.Stack = f.Stack[:0]
				f.Push(object.RefValue(sig.Ref))
				f.PC = handlerPC
				continue
			}
			return object.Value{}, sig
		}
		if done {
			return v, nil
		}
	}
}

// step executes exactly one instruction (or one invoke, which may itself
// run an entire callee to completion), advancing f.PC. done is true only
// on a return opcode.
func (t *Thread) step(f *frame.Frame, code []byte) (ret object.Value, sig *Signal, done bool) {
	op := Opcode(code[f.PC])
	pc := f.PC

	switch op {
	case OpNop:
		f.PC++

	case OpAconstNull:
		f.Push(object.Null)
		f.PC++
	case OpIconstM1, OpIconst0, OpIconst1, OpIconst2, OpIconst3, OpIconst4, OpIconst5:
		f.Push(object.IntValue(int32(op) - int32(OpIconst0)))
		f.PC++
	case OpLconst0, OpLconst1:
		f.Push(object.LongValue(int64(op) - int64(OpLconst0)))
		f.PC++
	case OpFconst0, OpFconst1, OpFconst2:
		f.Push(object.FloatValue(float32(op) - float32(OpFconst0)))
		f.PC++
	case OpDconst0, OpDconst1:
		f.Push(object.DoubleValue(float64(op) - float64(OpDconst0)))
		f.PC++

	case OpBipush:
		f.Push(object.IntValue(int32(s1(code, pc+1))))
		f.PC += 2
	case OpSipush:
		f.Push(object.IntValue(int32(s2(code, pc+1))))
		f.PC += 2

	case OpLdc:
		f.Push(t.loadConstant(f, uint16(u1(code, pc+1))))
		f.PC += 2
	case OpLdcW, OpLdc2W:
		f.Push(t.loadConstant(f, uint16(u2(code, pc+1))))
		f.PC += 3

	case OpIload, OpLload, OpFload, OpDload, OpAload:
		f.Push(f.GetLocal(u1(code, pc+1)))
		f.PC += 2
	case OpIload0, OpIload1, OpIload2, OpIload3:
		f.Push(f.GetLocal(int(op - OpIload0)))
		f.PC++
	case OpLload0, OpLload1, OpLload2, OpLload3:
		f.Push(f.GetLocal(int(op - OpLload0)))
		f.PC++
	case OpFload0, OpFload1, OpFload2, OpFload3:
		f.Push(f.GetLocal(int(op - OpFload0)))
		f.PC++
	case OpDload0, OpDload1, OpDload2, OpDload3:
		f.Push(f.GetLocal(int(op - OpDload0)))
		f.PC++
	case OpAload0, OpAload1, OpAload2, OpAload3:
		f.Push(f.GetLocal(int(op - OpAload0)))
		f.PC++

	case OpIstore, OpLstore, OpFstore, OpDstore, OpAstore:
		f.SetLocal(u1(code, pc+1), f.Pop())
		f.PC += 2
	case OpIstore0, OpIstore1, OpIstore2, OpIstore3:
		f.SetLocal(int(op-OpIstore0), f.Pop())
		f.PC++
	case OpLstore0, OpLstore1, OpLstore2, OpLstore3:
		f.SetLocal(int(op-OpLstore0), f.Pop())
		f.PC++
	case OpFstore0, OpFstore1, OpFstore2, OpFstore3:
		f.SetLocal(int(op-OpFstore0), f.Pop())
		f.PC++
	case OpDstore0, OpDstore1, OpDstore2, OpDstore3:
		f.SetLocal(int(op-OpDstore0), f.Pop())
		f.PC++
	case OpAstore0, OpAstore1, OpAstore2, OpAstore3:
		f.SetLocal(int(op-OpAstore0), f.Pop())
		f.PC++

	case OpIaload, OpLaload, OpFaload, OpDaload, OpAaload, OpBaload, OpCaload, OpSaload:
		v, s := t.arrayLoad(f, op)
		if s != nil {
			return object.Value{}, s, false
		}
		f.Push(v)
		f.PC++
	case OpIastore, OpLastore, OpFastore, OpDastore, OpAastore, OpBastore, OpCastore, OpSastore:
		if s := t.arrayStore(f, op); s != nil {
			return object.Value{}, s, false
		}
		f.PC++

	case OpPop:
		f.Pop()
		f.PC++
	case OpPop2:
		f.Pop()
		f.Pop()
		f.PC++
	case OpDup:
		v := f.Peek()
		f.Push(v)
		f.PC++
	case OpDupX1:
		a := f.Pop()
		b := f.Pop()
		f.Push(a)
		f.Push(b)
		f.Push(a)
		f.PC++
	case OpDupX2:
		a := f.Pop()
		b := f.Pop()
		c := f.Pop()
		f.Push(a)
		f.Push(c)
		f.Push(b)
		f.Push(a)
		f.PC++
	case OpDup2:
		a := f.Pop()
		b := f.Pop()
		f.Push(b)
		f.Push(a)
		f.Push(b)
		f.Push(a)
		f.PC++
	case OpDup2X1:
		a := f.Pop()
		b := f.Pop()
		c := f.Pop()
		f.Push(b)
		f.Push(a)
		f.Push(c)
		f.Push(b)
		f.Push(a)
		f.PC++
	case OpDup2X2:
		a := f.Pop()
		b := f.Pop()
		c := f.Pop()
		d := f.Pop()
		f.Push(b)
		f.Push(a)
		f.Push(d)
		f.Push(c)
		f.Push(b)
		f.Push(a)
		f.PC++
	case OpSwap:
		a := f.Pop()
		b := f.Pop()
		f.Push(a)
		f.Push(b)
		f.PC++

	case OpIadd:
		b, a := f.Pop().Int(), f.Pop().Int()
		f.Push(object.IntValue(a + b))
		f.PC++
	case OpLadd:
		b, a := f.Pop().Long(), f.Pop().Long()
		f.Push(object.LongValue(a + b))
		f.PC++
	case OpFadd:
		b, a := f.Pop().Float(), f.Pop().Float()
		f.Push(object.FloatValue(a + b))
		f.PC++
	case OpDadd:
		b, a := f.Pop().Double(), f.Pop().Double()
		f.Push(object.DoubleValue(a + b))
		f.PC++
	case OpIsub:
		b, a := f.Pop().Int(), f.Pop().Int()
		f.Push(object.IntValue(a - b))
		f.PC++
	case OpLsub:
		b, a := f.Pop().Long(), f.Pop().Long()
		f.Push(object.LongValue(a - b))
		f.PC++
	case OpFsub:
		b, a := f.Pop().Float(), f.Pop().Float()
		f.Push(object.FloatValue(a - b))
		f.PC++
	case OpDsub:
		b, a := f.Pop().Double(), f.Pop().Double()
		f.Push(object.DoubleValue(a - b))
		f.PC++
	case OpImul:
		b, a := f.Pop().Int(), f.Pop().Int()
		f.Push(object.IntValue(a * b))
		f.PC++
	case OpLmul:
		b, a := f.Pop().Long(), f.Pop().Long()
		f.Push(object.LongValue(a * b))
		f.PC++
	case OpFmul:
		b, a := f.Pop().Float(), f.Pop().Float()
		f.Push(object.FloatValue(a * b))
		f.PC++
	case OpDmul:
		b, a := f.Pop().Double(), f.Pop().Double()
		f.Push(object.DoubleValue(a * b))
		f.PC++

	case OpIdiv:
		b, a := f.Pop().Int(), f.Pop().Int()
		if b == 0 {
			return object.Value{}, t.raise(excNames.ArithmeticException, "/ by zero"), false
		}
		if a == math.MinInt32 && b == -1 {
			f.Push(object.IntValue(math.MinInt32))
		} else {
			f.Push(object.IntValue(a / b))
		}
		f.PC++
	case OpLdiv:
		b, a := f.Pop().Long(), f.Pop().Long()
		if b == 0 {
			return object.Value{}, t.raise(excNames.ArithmeticException, "/ by zero"), false
		}
		if a == math.MinInt64 && b == -1 {
			f.Push(object.LongValue(math.MinInt64))
		} else {
			f.Push(object.LongValue(a / b))
		}
		f.PC++
	case OpFdiv:
		b, a := f.Pop().Float(), f.Pop().Float()
		f.Push(object.FloatValue(a / b))
		f.PC++
	case OpDdiv:
		b, a := f.Pop().Double(), f.Pop().Double()
		f.Push(object.DoubleValue(a / b))
		f.PC++

	case OpIrem:
		b, a := f.Pop().Int(), f.Pop().Int()
		if b == 0 {
			return object.Value{}, t.raise(excNames.ArithmeticException, "/ by zero"), false
		}
		if a == math.MinInt32 && b == -1 {
			f.Push(object.IntValue(0))
		} else {
			f.Push(object.IntValue(a % b))
		}
		f.PC++
	case OpLrem:
		b, a := f.Pop().Long(), f.Pop().Long()
		if b == 0 {
			return object.Value{}, t.raise(excNames.ArithmeticException, "/ by zero"), false
		}
		if a == math.MinInt64 && b == -1 {
			f.Push(object.LongValue(0))
		} else {
			f.Push(object.LongValue(a % b))
		}
		f.PC++
	case OpFrem:
		b, a := f.Pop().Float(), f.Pop().Float()
		f.Push(object.FloatValue(float32(math.Mod(float64(a), float64(b)))))
		f.PC++
	case OpDrem:
		b, a := f.Pop().Double(), f.Pop().Double()
		f.Push(object.DoubleValue(math.Mod(a, b)))
		f.PC++

	case OpIneg:
		f.Push(object.IntValue(-f.Pop().Int()))
		f.PC++
	case OpLneg:
		f.Push(object.LongValue(-f.Pop().Long()))
		f.PC++
	case OpFneg:
		f.Push(object.FloatValue(-f.Pop().Float()))
		f.PC++
	case OpDneg:
		f.Push(object.DoubleValue(-f.Pop().Double()))
		f.PC++

	case OpIshl:
		b, a := f.Pop().Int(), f.Pop().Int()
		f.Push(object.IntValue(a << (uint32(b) & 0x1F)))
		f.PC++
	case OpLshl:
		b, a := f.Pop().Int(), f.Pop().Long()
		f.Push(object.LongValue(a << (uint32(b) & 0x3F)))
		f.PC++
	case OpIshr:
		b, a := f.Pop().Int(), f.Pop().Int()
		f.Push(object.IntValue(a >> (uint32(b) & 0x1F)))
		f.PC++
	case OpLshr:
		b, a := f.Pop().Int(), f.Pop().Long()
		f.Push(object.LongValue(a >> (uint32(b) & 0x3F)))
		f.PC++
	case OpIushr:
		b, a := f.Pop().Int(), f.Pop().Int()
		f.Push(object.IntValue(int32(uint32(a) >> (uint32(b) & 0x1F))))
		f.PC++
	case OpLushr:
		b, a := f.Pop().Int(), f.Pop().Long()
		f.Push(object.LongValue(int64(uint64(a) >> (uint32(b) & 0x3F))))
		f.PC++
	case OpIand:
		b, a := f.Pop().Int(), f.Pop().Int()
		f.Push(object.IntValue(a & b))
		f.PC++
	case OpLand:
		b, a := f.Pop().Long(), f.Pop().Long()
		f.Push(object.LongValue(a & b))
		f.PC++
	case OpIor:
		b, a := f.Pop().Int(), f.Pop().Int()
		f.Push(object.IntValue(a | b))
		f.PC++
	case OpLor:
		b, a := f.Pop().Long(), f.Pop().Long()
		f.Push(object.LongValue(a | b))
		f.PC++
	case OpIxor:
		b, a := f.Pop().Int(), f.Pop().Int()
		f.Push(object.IntValue(a ^ b))
		f.PC++
	case OpLxor:
		b, a := f.Pop().Long(), f.Pop().Long()
		f.Push(object.LongValue(a ^ b))
		f.PC++

	case OpIinc:
		idx := u1(code, pc+1)
		delta := s1(code, pc+2)
		v := f.GetLocal(idx)
		f.SetLocal(idx, object.IntValue(v.Int()+int32(delta)))
		f.PC += 3

	case OpI2l:
		f.Push(object.LongValue(int64(f.Pop().Int())))
		f.PC++
	case OpI2f:
		f.Push(object.FloatValue(float32(f.Pop().Int())))
		f.PC++
	case OpI2d:
		f.Push(object.DoubleValue(float64(f.Pop().Int())))
		f.PC++
	case OpL2i:
		f.Push(object.IntValue(int32(f.Pop().Long())))
		f.PC++
	case OpL2f:
		f.Push(object.FloatValue(float32(f.Pop().Long())))
		f.PC++
	case OpL2d:
		f.Push(object.DoubleValue(float64(f.Pop().Long())))
		f.PC++
	case OpF2i:
		f.Push(object.IntValue(floatToInt(f.Pop().Float())))
		f.PC++
	case OpF2l:
		f.Push(object.LongValue(floatToLong(f.Pop().Float())))
		f.PC++
	case OpF2d:
		f.Push(object.DoubleValue(float64(f.Pop().Float())))
		f.PC++
	case OpD2i:
		f.Push(object.IntValue(doubleToInt(f.Pop().Double())))
		f.PC++
	case OpD2l:
		f.Push(object.LongValue(doubleToLong(f.Pop().Double())))
		f.PC++
	case OpD2f:
		f.Push(object.FloatValue(float32(f.Pop().Double())))
		f.PC++
	case OpI2b:
		f.Push(object.IntValue(int32(int8(f.Pop().Int()))))
		f.PC++
	case OpI2c:
		f.Push(object.IntValue(int32(uint16(f.Pop().Int()))))
		f.PC++
	case OpI2s:
		f.Push(object.IntValue(int32(int16(f.Pop().Int()))))
		f.PC++

	case OpLcmp:
		b, a := f.Pop().Long(), f.Pop().Long()
		f.Push(object.IntValue(cmp64(a, b)))
		f.PC++
	case OpFcmpl:
		b, a := f.Pop().Float(), f.Pop().Float()
		f.Push(object.IntValue(fcmp(float64(a), float64(b), -1)))
		f.PC++
	case OpFcmpg:
		b, a := f.Pop().Float(), f.Pop().Float()
		f.Push(object.IntValue(fcmp(float64(a), float64(b), 1)))
		f.PC++
	case OpDcmpl:
		b, a := f.Pop().Double(), f.Pop().Double()
		f.Push(object.IntValue(fcmp(a, b, -1)))
		f.PC++
	case OpDcmpg:
		b, a := f.Pop().Double(), f.Pop().Double()
		f.Push(object.IntValue(fcmp(a, b, 1)))
		f.PC++

	case OpIfeq, OpIfne, OpIflt, OpIfge, OpIfgt, OpIfle:
		v := f.Pop().Int()
		if branchTaken1(op, v) {
			f.PC = pc + s2(code, pc+1)
		} else {
			f.PC += 3
		}
	case OpIfIcmpeq, OpIfIcmpne, OpIfIcmplt, OpIfIcmpge, OpIfIcmpgt, OpIfIcmple:
		b, a := f.Pop().Int(), f.Pop().Int()
		if branchTaken2(op, a, b) {
			f.PC = pc + s2(code, pc+1)
		} else {
			f.PC += 3
		}
	case OpIfAcmpeq, OpIfAcmpne:
		b, a := f.Pop(), f.Pop()
		eq := a.Ref == b.Ref
		if (op == OpIfAcmpeq) == eq {
			f.PC = pc + s2(code, pc+1)
		} else {
			f.PC += 3
		}
	case OpIfnull, OpIfnonnull:
		v := f.Pop()
		if v.IsNull() == (op == OpIfnull) {
			f.PC = pc + s2(code, pc+1)
		} else {
			f.PC += 3
		}
	case OpGoto:
		f.PC = pc + s2(code, pc+1)

	case OpIreturn, OpLreturn, OpFreturn, OpDreturn, OpAreturn:
		return f.Pop(), nil, true
	case OpReturn:
		return object.Value{}, nil, true

	case OpGetstatic:
		v, s := t.getStatic(f, uint16(u2(code, pc+1)), pc)
		if s != nil {
			return object.Value{}, s, false
		}
		f.Push(v)
		f.PC += 3
	case OpPutstatic:
		if s := t.putStatic(f, uint16(u2(code, pc+1)), pc); s != nil {
			return object.Value{}, s, false
		}
		f.PC += 3
	case OpGetfield:
		v, s := t.getField(f, uint16(u2(code, pc+1)), pc)
		if s != nil {
			return object.Value{}, s, false
		}
		f.Push(v)
		f.PC += 3
	case OpPutfield:
		if s := t.putField(f, uint16(u2(code, pc+1)), pc); s != nil {
			return object.Value{}, s, false
		}
		f.PC += 3

	case OpInvokevirtual, OpInvokespecial, OpInvokestatic, OpInvokeinterface:
		v, s, width := t.invoke(f, op, uint16(u2(code, pc+1)), pc)
		if s != nil {
			return object.Value{}, s, false
		}
		if width > 0 {
			f.Push(v)
		}
		if op == OpInvokeinterface {
			f.PC += 5 // count + trailing zero byte
		} else {
			f.PC += 3
		}

	case OpNew:
		v, s := t.newInstance(f, uint16(u2(code, pc+1)))
		if s != nil {
			return object.Value{}, s, false
		}
		f.Push(v)
		f.PC += 3
	case OpNewarray:
		v, s := t.newArray(f, u1(code, pc+1))
		if s != nil {
			return object.Value{}, s, false
		}
		f.Push(v)
		f.PC += 2
	case OpAnewarray:
		v, s := t.newObjectArray(f, uint16(u2(code, pc+1)))
		if s != nil {
			return object.Value{}, s, false
		}
		f.Push(v)
		f.PC += 3
	case OpArraylength:
		a := f.Pop()
		if a.IsNull() {
			return object.Value{}, t.raise(excNames.NullPointerException, "array is null"), false
		}
		f.Push(object.IntValue(int32(t.VM.ObjHeap.ReadLength(a.Ref))))
		f.PC++

	case OpAthrow:
		a := f.Pop()
		if a.IsNull() {
			return object.Value{}, t.raise(excNames.NullPointerException, "thrown object is null"), false
		}
		id := t.VM.ObjHeap.ReadHeader(a.Ref).Class
		class := t.VM.Registry.GetByID(id)
		return object.Value{}, &Signal{Ref: a.Ref, Class: class}, false

	case OpCheckcast:
		v, s := t.checkCast(f, uint16(u2(code, pc+1)))
		if s != nil {
			return object.Value{}, s, false
		}
		f.Push(v)
		f.PC += 3
	case OpInstanceof:
		v, s := t.instanceOf(f, uint16(u2(code, pc+1)))
		if s != nil {
			return object.Value{}, s, false
		}
		f.Push(v)
		f.PC += 3

	case OpMonitorenter, OpMonitorexit:
		f.Pop()
		f.PC++

	default:
		return object.Value{}, t.raise(excNames.InternalError, "unsupported opcode 0x%02X at pc %d", byte(op), pc), false
	}
	return object.Value{}, nil, false
}

func branchTaken1(op Opcode, v int32) bool {
	switch op {
	case OpIfeq:
		return v == 0
	case OpIfne:
		return v != 0
	case OpIflt:
		return v < 0
	case OpIfge:
		return v >= 0
	case OpIfgt:
		return v > 0
	case OpIfle:
		return v <= 0
	}
	return false
}

func branchTaken2(op Opcode, a, b int32) bool {
	switch op {
	case OpIfIcmpeq:
		return a == b
	case OpIfIcmpne:
		return a != b
	case OpIfIcmplt:
		return a < b
	case OpIfIcmpge:
		return a >= b
	case OpIfIcmpgt:
		return a > b
	case OpIfIcmple:
		return a <= b
	}
	return false
}

func cmp64(a, b int64) int32 {
	switch {
	case a > b:
		return 1
	case a < b:
		return -1
	default:
		return 0
	}
}

// fcmp implements fcmpl/fcmpg and dcmpl/dcmpg: NaN makes either operand
// "unordered", yielding nanResult (-1 for the 'l' forms, 1 for the 'g'
// forms), per spec.md §4.9's "NaN sign conventions".
func fcmp(a, b float64, nanResult int32) int32 {
	if math.IsNaN(a) || math.IsNaN(b) {
		return nanResult
	}
	switch {
	case a > b:
		return 1
	case a < b:
		return -1
	default:
		return 0
	}
}

func floatToInt(f float32) int32 {
	if math.IsNaN(float64(f)) {
		return 0
	}
	if f >= math.MaxInt32 {
		return math.MaxInt32
	}
	if f <= math.MinInt32 {
		return math.MinInt32
	}
	return int32(f)
}

func floatToLong(f float32) int64 {
	if math.IsNaN(float64(f)) {
		return 0
	}
	if f >= math.MaxInt64 {
		return math.MaxInt64
	}
	if f <= math.MinInt64 {
		return math.MinInt64
	}
	return int64(f)
}

func doubleToInt(d float64) int32 {
	if math.IsNaN(d) {
		return 0
	}
	if d >= math.MaxInt32 {
		return math.MaxInt32
	}
	if d <= math.MinInt32 {
		return math.MinInt32
	}
	return int32(d)
}

func doubleToLong(d float64) int64 {
	if math.IsNaN(d) {
		return 0
	}
	if d >= math.MaxInt64 {
		return math.MaxInt64
	}
	if d <= math.MinInt64 {
		return math.MinInt64
	}
	return int64(d)
}

// loadConstant implements ldc/ldc_w/ldc2_w: resolve a constant pool entry
// to an operand-stack Value. A String constant becomes a new, non-interned
// java/lang/String instance each time the instruction executes.
func (t *Thread) loadConstant(f *frame.Frame, idx uint16) object.Value {
	e, ok := f.Class.CP.EntryAt(idx)
	if !ok {
		return object.Value{}
	}
	switch e.Tag {
	case classfile.TagInteger:
		return object.IntValue(e.IntVal)
	case classfile.TagFloat:
		return object.FloatValue(e.FloatVal)
	case classfile.TagLong:
		return object.LongValue(e.LongVal)
	case classfile.TagDouble:
		return object.DoubleValue(e.DoubleVal)
	case classfile.TagString:
		s := f.Class.CP.Utf8At(e.Index)
		ref, err := gfunction.NewJavaString(t.env(), s)
		if err != nil {
			return object.Null
		}
		return object.RefValue(ref)
	case classfile.TagClass:
		name := f.Class.CP.Utf8At(e.Index)
		class, err := t.VM.Loader.LoadClass(name)
		if err != nil || class.Mirror.IsNull() {
			return object.Null
		}
		return object.RefValue(class.Mirror)
	default:
		return object.Value{}
	}
}

func (t *Thread) arrayLoad(f *frame.Frame, op Opcode) (object.Value, *Signal) {
	idx := f.Pop().Int()
	a := f.Pop()
	if a.IsNull() {
		return object.Value{}, t.raise(excNames.NullPointerException, "array is null")
	}
	length := t.VM.ObjHeap.ReadLength(a.Ref)
	if !object.CheckBounds(int(idx), length) {
		return object.Value{}, t.raise(excNames.ArrayIndexOutOfBoundsException, "index %d out of bounds for length %d", idx, length)
	}
	switch op {
	case OpIaload:
		return object.IntValue(t.VM.ObjHeap.ReadInt(a.Ref, object.ElementOffset(types.Int, int(idx)))), nil
	case OpLaload:
		return object.LongValue(t.VM.ObjHeap.ReadLong(a.Ref, object.ElementOffset(types.Long, int(idx)))), nil
	case OpFaload:
		return object.FloatValue(t.VM.ObjHeap.ReadFloat(a.Ref, object.ElementOffset(types.Float, int(idx)))), nil
	case OpDaload:
		return object.DoubleValue(t.VM.ObjHeap.ReadDouble(a.Ref, object.ElementOffset(types.Double, int(idx)))), nil
	case OpAaload:
		return object.RefValue(t.VM.ObjHeap.ReadRef(a.Ref, object.ElementOffset(types.Object, int(idx)))), nil
	case OpBaload:
		return object.IntValue(int32(t.VM.ObjHeap.ReadByte(a.Ref, object.ElementOffset(types.Byte, int(idx))))), nil
	case OpCaload:
		return object.IntValue(int32(t.VM.ObjHeap.ReadChar(a.Ref, object.ElementOffset(types.Char, int(idx))))), nil
	case OpSaload:
		return object.IntValue(int32(t.VM.ObjHeap.ReadShort(a.Ref, object.ElementOffset(types.Short, int(idx))))), nil
	}
	return object.Value{}, nil
}

func (t *Thread) arrayStore(f *frame.Frame, op Opcode) *Signal {
	v := f.Pop()
	idx := f.Pop().Int()
	a := f.Pop()
	if a.IsNull() {
		return t.raise(excNames.NullPointerException, "array is null")
	}
	length := t.VM.ObjHeap.ReadLength(a.Ref)
	if !object.CheckBounds(int(idx), length) {
		return t.raise(excNames.ArrayIndexOutOfBoundsException, "index %d out of bounds for length %d", idx, length)
	}
	switch op {
	case OpIastore:
		t.VM.ObjHeap.WriteInt(a.Ref, object.ElementOffset(types.Int, int(idx)), v.Int())
	case OpLastore:
		t.VM.ObjHeap.WriteLong(a.Ref, object.ElementOffset(types.Long, int(idx)), v.Long())
	case OpFastore:
		t.VM.ObjHeap.WriteFloat(a.Ref, object.ElementOffset(types.Float, int(idx)), v.Float())
	case OpDastore:
		t.VM.ObjHeap.WriteDouble(a.Ref, object.ElementOffset(types.Double, int(idx)), v.Double())
	case OpAastore:
		t.VM.ObjHeap.WriteRef(a.Ref, object.ElementOffset(types.Object, int(idx)), v.Ref)
	case OpBastore:
		t.VM.ObjHeap.WriteByte(a.Ref, object.ElementOffset(types.Byte, int(idx)), int8(v.Int()))
	case OpCastore:
		t.VM.ObjHeap.WriteChar(a.Ref, object.ElementOffset(types.Char, int(idx)), uint16(v.Int()))
	case OpSastore:
		t.VM.ObjHeap.WriteShort(a.Ref, object.ElementOffset(types.Short, int(idx)), int16(v.Int()))
	}
	return nil
}
