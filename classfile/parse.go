/*
 * classvm - a JVM-class-file-compatible bytecode runtime
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package classfile

import (
	"math"

	"classvm/vmerr"
)

// ClassMagic is the four-byte magic number every class file starts with
// (spec.md §3: "Accepts a byte buffer starting with the constant value
// 0xCAFEBABE").
const ClassMagic uint32 = 0xCAFEBABE

// SupportedMajorVersion is the class file format version this parser
// targets (spec.md §1: "version 52").
const SupportedMajorVersion = 52

// Parse decodes a class file byte buffer into an immutable ParsedClass. It
// is purely functional: data is read once here and never retained by the
// returned value (spec.md §4.1).
func Parse(data []byte) (*ParsedClass, error) {
	r := newReader(data)

	magic, err := r.u4()
	if err != nil {
		return nil, err
	}
	if magic != ClassMagic {
		return nil, vmerr.ClassFormatError("bad magic number: 0x%08X", magic)
	}

	minor, err := r.u2()
	if err != nil {
		return nil, err
	}
	major, err := r.u2()
	if err != nil {
		return nil, err
	}
	if major > SupportedMajorVersion {
		return nil, vmerr.ClassFormatError("unsupported class file major version %d (supports up to %d)", major, SupportedMajorVersion)
	}

	cp, err := parseConstantPool(r)
	if err != nil {
		return nil, err
	}

	accessFlags, err := r.u2()
	if err != nil {
		return nil, err
	}

	thisClassIdx, err := r.u2()
	if err != nil {
		return nil, err
	}
	thisEntry, ok := cp.at(thisClassIdx)
	if !ok || thisEntry.Tag != TagClass {
		return nil, vmerr.ClassFormatError("this_class (index %d) is not a Class constant", thisClassIdx)
	}
	thisClass := cp.ClassNameAt(thisClassIdx)

	superClassIdx, err := r.u2()
	if err != nil {
		return nil, err
	}
	var superClass string
	if superClassIdx != 0 {
		e, ok := cp.at(superClassIdx)
		if !ok || e.Tag != TagClass {
			return nil, vmerr.ClassFormatError("super_class (index %d) is not a Class constant", superClassIdx)
		}
		superClass = cp.ClassNameAt(superClassIdx)
	}

	ifaceCount, err := r.u2()
	if err != nil {
		return nil, err
	}
	interfaces := make([]string, 0, ifaceCount)
	for i := 0; i < int(ifaceCount); i++ {
		idx, err := r.u2()
		if err != nil {
			return nil, err
		}
		e, ok := cp.at(idx)
		if !ok || e.Tag != TagClass {
			return nil, vmerr.ClassFormatError("interface index %d is not a Class constant", idx)
		}
		interfaces = append(interfaces, cp.ClassNameAt(idx))
	}

	fieldCount, err := r.u2()
	if err != nil {
		return nil, err
	}
	fields := make([]FieldInfo, 0, fieldCount)
	for i := 0; i < int(fieldCount); i++ {
		f, err := parseField(r, cp)
		if err != nil {
			return nil, err
		}
		fields = append(fields, f)
	}

	methodCount, err := r.u2()
	if err != nil {
		return nil, err
	}
	methods := make([]MethodInfo, 0, methodCount)
	for i := 0; i < int(methodCount); i++ {
		m, err := parseMethod(r, cp)
		if err != nil {
			return nil, err
		}
		methods = append(methods, m)
	}

	pc := &ParsedClass{
		MinorVersion: minor,
		MajorVersion: major,
		CP:           cp,
		AccessFlags:  accessFlags,
		ThisClass:    thisClass,
		SuperClass:   superClass,
		Interfaces:   interfaces,
		Fields:       fields,
		Methods:      methods,
	}

	attrCount, err := r.u2()
	if err != nil {
		return nil, err
	}
	for i := 0; i < int(attrCount); i++ {
		if err := parseClassAttribute(r, cp, pc); err != nil {
			return nil, err
		}
	}

	if err := validateAccessFlags(pc); err != nil {
		return nil, err
	}

	return pc, nil
}

// validateAccessFlags implements spec.md §4.1 validation (c): access flag
// coherence rules.
func validateAccessFlags(pc *ParsedClass) error {
	af := pc.AccessFlags
	if af&AccInterface != 0 {
		if af&AccAbstract == 0 {
			return vmerr.ClassFormatError("interface %s must have ACC_ABSTRACT set", pc.ThisClass)
		}
		if af&(AccFinal|AccSuper|AccEnum) != 0 {
			return vmerr.ClassFormatError("interface %s must not have ACC_FINAL, ACC_SUPER, or ACC_ENUM set", pc.ThisClass)
		}
	} else {
		if af&AccFinal != 0 && af&AccAbstract != 0 {
			return vmerr.ClassFormatError("class %s must not have both ACC_FINAL and ACC_ABSTRACT set", pc.ThisClass)
		}
	}
	return nil
}

func parseConstantPool(r *reader) (*ConstantPool, error) {
	count, err := r.u2()
	if err != nil {
		return nil, err
	}
	cp := &ConstantPool{Entries: make([]CPEntry, count)}

	for i := 1; i < int(count); i++ {
		tag, err := r.u1()
		if err != nil {
			return nil, err
		}
		entry := CPEntry{Tag: CPTag(tag)}
		switch CPTag(tag) {
		case TagUtf8:
			length, err := r.u2()
			if err != nil {
				return nil, err
			}
			raw, err := r.bytes(int(length))
			if err != nil {
				return nil, err
			}
			s, err := decodeModifiedUTF8(raw)
			if err != nil {
				return nil, err
			}
			entry.Utf8 = s
		case TagInteger:
			v, err := r.u4()
			if err != nil {
				return nil, err
			}
			entry.IntVal = int32(v)
		case TagFloat:
			v, err := r.u4()
			if err != nil {
				return nil, err
			}
			entry.FloatVal = math.Float32frombits(v)
		case TagLong:
			v, err := r.u8()
			if err != nil {
				return nil, err
			}
			entry.LongVal = int64(v)
			cp.Entries[i] = entry
			i++ // Long occupies two logical slots (spec.md §3, §8 invariant)
			continue
		case TagDouble:
			v, err := r.u8()
			if err != nil {
				return nil, err
			}
			entry.DoubleVal = math.Float64frombits(v)
			cp.Entries[i] = entry
			i++ // Double occupies two logical slots
			continue
		case TagClass, TagString, TagMethodType:
			idx, err := r.u2()
			if err != nil {
				return nil, err
			}
			entry.Index = idx
		case TagFieldRef, TagMethodRef, TagInterfaceMethodRef:
			ci, err := r.u2()
			if err != nil {
				return nil, err
			}
			nt, err := r.u2()
			if err != nil {
				return nil, err
			}
			entry.ClassIndex = ci
			entry.NameAndTypeIndex = nt
		case TagNameAndType:
			ni, err := r.u2()
			if err != nil {
				return nil, err
			}
			di, err := r.u2()
			if err != nil {
				return nil, err
			}
			entry.NameIndex = ni
			entry.DescIndex = di
		case TagMethodHandle:
			kind, err := r.u1()
			if err != nil {
				return nil, err
			}
			idx, err := r.u2()
			if err != nil {
				return nil, err
			}
			entry.RefKind = kind
			entry.RefIndex = idx
		case TagDynamic, TagInvokeDynamic:
			bsm, err := r.u2()
			if err != nil {
				return nil, err
			}
			nt, err := r.u2()
			if err != nil {
				return nil, err
			}
			entry.BootstrapMethodAttrIndex = bsm
			entry.NameAndTypeIndex = nt
		case TagModule, TagPackage:
			idx, err := r.u2()
			if err != nil {
				return nil, err
			}
			entry.Index = idx
		default:
			return nil, vmerr.ClassFormatError("unknown constant pool tag %d at index %d", tag, i)
		}
		cp.Entries[i] = entry
	}
	return cp, nil
}
