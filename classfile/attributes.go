/*
 * classvm - a JVM-class-file-compatible bytecode runtime
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package classfile

import "classvm/vmerr"

func parseField(r *reader, cp *ConstantPool) (FieldInfo, error) {
	af, err := r.u2()
	if err != nil {
		return FieldInfo{}, err
	}
	nameIdx, err := r.u2()
	if err != nil {
		return FieldInfo{}, err
	}
	descIdx, err := r.u2()
	if err != nil {
		return FieldInfo{}, err
	}
	f := FieldInfo{
		AccessFlags: af,
		NameIndex:   nameIdx,
		DescIndex:   descIdx,
		Name:        cp.Utf8At(nameIdx),
		Desc:        cp.Utf8At(descIdx),
	}

	attrCount, err := r.u2()
	if err != nil {
		return FieldInfo{}, err
	}
	for i := 0; i < int(attrCount); i++ {
		name, data, err := readAttributeHeader(r, cp)
		if err != nil {
			return FieldInfo{}, err
		}
		switch name {
		case "ConstantValue":
			if len(data) != 2 {
				return FieldInfo{}, vmerr.ClassFormatError("malformed ConstantValue attribute on field %s", f.Name)
			}
			idx := uint16(data[0])<<8 | uint16(data[1])
			f.ConstantValue = constantValueOf(cp, idx)
		case "Deprecated":
			f.Deprecated = true
		case "Signature":
			if len(data) == 2 {
				idx := uint16(data[0])<<8 | uint16(data[1])
				f.Signature = cp.Utf8At(idx)
			}
		default:
			f.Attributes = append(f.Attributes, RawAttribute{Name: name, Data: data})
		}
	}
	return f, nil
}

func constantValueOf(cp *ConstantPool, idx uint16) interface{} {
	e, ok := cp.at(idx)
	if !ok {
		return nil
	}
	switch e.Tag {
	case TagInteger:
		return e.IntVal
	case TagFloat:
		return e.FloatVal
	case TagLong:
		return e.LongVal
	case TagDouble:
		return e.DoubleVal
	case TagString:
		return cp.Utf8At(e.Index)
	default:
		return nil
	}
}

func parseMethod(r *reader, cp *ConstantPool) (MethodInfo, error) {
	af, err := r.u2()
	if err != nil {
		return MethodInfo{}, err
	}
	nameIdx, err := r.u2()
	if err != nil {
		return MethodInfo{}, err
	}
	descIdx, err := r.u2()
	if err != nil {
		return MethodInfo{}, err
	}
	m := MethodInfo{
		AccessFlags: af,
		NameIndex:   nameIdx,
		DescIndex:   descIdx,
		Name:        cp.Utf8At(nameIdx),
		Desc:        cp.Utf8At(descIdx),
	}

	attrCount, err := r.u2()
	if err != nil {
		return MethodInfo{}, err
	}
	for i := 0; i < int(attrCount); i++ {
		name, data, err := readAttributeHeader(r, cp)
		if err != nil {
			return MethodInfo{}, err
		}
		switch name {
		case "Code":
			code, err := parseCodeAttribute(data, cp)
			if err != nil {
				return MethodInfo{}, err
			}
			m.Code = code
		case "Exceptions":
			m.Exceptions, err = parseExceptionsAttribute(data, cp)
			if err != nil {
				return MethodInfo{}, err
			}
		case "MethodParameters":
			m.Parameters = parseMethodParameters(data, cp)
		case "Deprecated":
			m.Deprecated = true
		case "Signature":
			if len(data) == 2 {
				idx := uint16(data[0])<<8 | uint16(data[1])
				m.Signature = cp.Utf8At(idx)
			}
		default:
			m.Attributes = append(m.Attributes, RawAttribute{Name: name, Data: data})
		}
	}
	return m, nil
}

// readAttributeHeader reads one attribute_info (name index, length, raw
// data) and resolves the name string, leaving interpretation to the
// caller.
func readAttributeHeader(r *reader, cp *ConstantPool) (name string, data []byte, err error) {
	nameIdx, err := r.u2()
	if err != nil {
		return "", nil, err
	}
	length, err := r.u4()
	if err != nil {
		return "", nil, err
	}
	data, err = r.bytes(int(length))
	if err != nil {
		return "", nil, err
	}
	return cp.Utf8At(nameIdx), data, nil
}

func parseCodeAttribute(data []byte, cp *ConstantPool) (*CodeAttribute, error) {
	r := newReader(data)
	maxStack, err := r.u2()
	if err != nil {
		return nil, err
	}
	maxLocals, err := r.u2()
	if err != nil {
		return nil, err
	}
	codeLen, err := r.u4()
	if err != nil {
		return nil, err
	}
	code, err := r.bytes(int(codeLen))
	if err != nil {
		return nil, err
	}

	excCount, err := r.u2()
	if err != nil {
		return nil, err
	}
	exceptions := make([]ExceptionTableEntry, 0, excCount)
	for i := 0; i < int(excCount); i++ {
		startPC, err := r.u2()
		if err != nil {
			return nil, err
		}
		endPC, err := r.u2()
		if err != nil {
			return nil, err
		}
		handlerPC, err := r.u2()
		if err != nil {
			return nil, err
		}
		catchType, err := r.u2()
		if err != nil {
			return nil, err
		}
		exceptions = append(exceptions, ExceptionTableEntry{
			StartPC: int(startPC), EndPC: int(endPC), HandlerPC: int(handlerPC), CatchType: catchType,
		})
	}

	code_ := &CodeAttribute{
		MaxStack:   int(maxStack),
		MaxLocals:  int(maxLocals),
		Code:       code,
		Exceptions: exceptions,
	}

	attrCount, err := r.u2()
	if err != nil {
		return nil, err
	}
	for i := 0; i < int(attrCount); i++ {
		name, adata, err := readAttributeHeader(r, cp)
		if err != nil {
			return nil, err
		}
		switch name {
		case "LineNumberTable":
			code_.LineNumbers, err = parseLineNumberTable(adata)
			if err != nil {
				return nil, err
			}
		case "LocalVariableTable":
			code_.LocalVars, err = parseLocalVariableTable(adata, cp)
			if err != nil {
				return nil, err
			}
		case "StackMapTable":
			code_.StackMap = []StackMapFrame{{RawBytes: adata}}
		default:
			code_.Attributes = append(code_.Attributes, RawAttribute{Name: name, Data: adata})
		}
	}
	return code_, nil
}

func parseLineNumberTable(data []byte) ([]LineNumberEntry, error) {
	r := newReader(data)
	count, err := r.u2()
	if err != nil {
		return nil, err
	}
	out := make([]LineNumberEntry, 0, count)
	for i := 0; i < int(count); i++ {
		startPC, err := r.u2()
		if err != nil {
			return nil, err
		}
		line, err := r.u2()
		if err != nil {
			return nil, err
		}
		out = append(out, LineNumberEntry{StartPC: int(startPC), Line: int(line)})
	}
	return out, nil
}

func parseLocalVariableTable(data []byte, cp *ConstantPool) ([]LocalVariableEntry, error) {
	r := newReader(data)
	count, err := r.u2()
	if err != nil {
		return nil, err
	}
	out := make([]LocalVariableEntry, 0, count)
	for i := 0; i < int(count); i++ {
		startPC, err := r.u2()
		if err != nil {
			return nil, err
		}
		length, err := r.u2()
		if err != nil {
			return nil, err
		}
		nameIdx, err := r.u2()
		if err != nil {
			return nil, err
		}
		descIdx, err := r.u2()
		if err != nil {
			return nil, err
		}
		index, err := r.u2()
		if err != nil {
			return nil, err
		}
		out = append(out, LocalVariableEntry{
			StartPC: int(startPC), Length: int(length),
			Name: cp.Utf8At(nameIdx), Desc: cp.Utf8At(descIdx), Index: int(index),
		})
	}
	return out, nil
}

func parseExceptionsAttribute(data []byte, cp *ConstantPool) ([]string, error) {
	r := newReader(data)
	count, err := r.u2()
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, count)
	for i := 0; i < int(count); i++ {
		idx, err := r.u2()
		if err != nil {
			return nil, err
		}
		out = append(out, cp.ClassNameAt(idx))
	}
	return out, nil
}

func parseMethodParameters(data []byte, cp *ConstantPool) []ParamInfo {
	r := newReader(data)
	count, err := r.u1()
	if err != nil {
		return nil
	}
	out := make([]ParamInfo, 0, count)
	for i := 0; i < int(count); i++ {
		nameIdx, err := r.u2()
		if err != nil {
			return out
		}
		flags, err := r.u2()
		if err != nil {
			return out
		}
		out = append(out, ParamInfo{Name: cp.Utf8At(nameIdx), AccessFlags: flags})
	}
	return out
}

func parseClassAttribute(r *reader, cp *ConstantPool, pc *ParsedClass) error {
	name, data, err := readAttributeHeader(r, cp)
	if err != nil {
		return err
	}
	switch name {
	case "SourceFile":
		if len(data) == 2 {
			idx := uint16(data[0])<<8 | uint16(data[1])
			pc.SourceFile = cp.Utf8At(idx)
		}
	case "Deprecated":
		pc.Deprecated = true
	case "Signature":
		if len(data) == 2 {
			idx := uint16(data[0])<<8 | uint16(data[1])
			pc.Signature = cp.Utf8At(idx)
		}
	case "EnclosingMethod":
		if len(data) == 4 {
			classIdx := uint16(data[0])<<8 | uint16(data[1])
			methodIdx := uint16(data[2])<<8 | uint16(data[3])
			pc.EnclosingClass = cp.ClassNameAt(classIdx)
			if methodIdx != 0 {
				n, d := cp.NameAndTypeAt(methodIdx)
				pc.EnclosingMethod = n + d
			}
		}
	case "InnerClasses":
		pc.InnerClasses, err = parseInnerClasses(data, cp)
		if err != nil {
			return err
		}
	case "BootstrapMethods":
		pc.Bootstraps, err = parseBootstrapMethods(data)
		if err != nil {
			return err
		}
	default:
		pc.Attributes = append(pc.Attributes, RawAttribute{Name: name, Data: data})
	}
	return nil
}

func parseInnerClasses(data []byte, cp *ConstantPool) ([]InnerClassEntry, error) {
	r := newReader(data)
	count, err := r.u2()
	if err != nil {
		return nil, err
	}
	out := make([]InnerClassEntry, 0, count)
	for i := 0; i < int(count); i++ {
		innerIdx, err := r.u2()
		if err != nil {
			return nil, err
		}
		outerIdx, err := r.u2()
		if err != nil {
			return nil, err
		}
		nameIdx, err := r.u2()
		if err != nil {
			return nil, err
		}
		flags, err := r.u2()
		if err != nil {
			return nil, err
		}
		entry := InnerClassEntry{AccessFlags: flags}
		if innerIdx != 0 {
			entry.InnerClass = cp.ClassNameAt(innerIdx)
		}
		if outerIdx != 0 {
			entry.OuterClass = cp.ClassNameAt(outerIdx)
		}
		if nameIdx != 0 {
			entry.InnerName = cp.Utf8At(nameIdx)
		}
		out = append(out, entry)
	}
	return out, nil
}

func parseBootstrapMethods(data []byte) ([]BootstrapMethod, error) {
	r := newReader(data)
	count, err := r.u2()
	if err != nil {
		return nil, err
	}
	out := make([]BootstrapMethod, 0, count)
	for i := 0; i < int(count); i++ {
		methodRef, err := r.u2()
		if err != nil {
			return nil, err
		}
		argCount, err := r.u2()
		if err != nil {
			return nil, err
		}
		args := make([]uint16, 0, argCount)
		for j := 0; j < int(argCount); j++ {
			a, err := r.u2()
			if err != nil {
				return nil, err
			}
			args = append(args, a)
		}
		out = append(out, BootstrapMethod{MethodRefIndex: methodRef, Arguments: args})
	}
	return out, nil
}
