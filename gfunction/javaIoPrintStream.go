/*
 * classvm - a JVM-class-file-compatible bytecode runtime
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package gfunction

import (
	"fmt"
	"strconv"

	"classvm/object"
)

// loadIoPrintStream registers java/io/PrintStream's println/print family
// against os.Stdout, the one piece of java.io this VM impersonates, since
// "print a result" is the only externally observable side effect spec.md
// §8's end-to-end scenarios need. Grounded on jacobin/gfunction's
// javaIoInputStreamReader.go for the registration pattern of a java/io
// class, mirrored to the output direction.
func loadIoPrintStream() {
	MethodSignatures["java/io/PrintStream.println(Ljava/lang/String;)V"] = GMeth{1, printStreamPrintlnString}
	MethodSignatures["java/io/PrintStream.println(I)V"] = GMeth{1, printStreamPrintlnInt}
	MethodSignatures["java/io/PrintStream.println()V"] = GMeth{0, printStreamPrintlnVoid}
	MethodSignatures["java/io/PrintStream.print(Ljava/lang/String;)V"] = GMeth{1, printStreamPrintString}
}

func printStreamPrintlnString(env *Env, params []object.Value) (object.Value, error) {
	arg := params[1]
	if arg.IsNull() {
		fmt.Println("null")
		return object.Value{}, nil
	}
	fmt.Println(goStringFromJavaString(env, arg.Ref))
	return object.Value{}, nil
}

func printStreamPrintlnInt(env *Env, params []object.Value) (object.Value, error) {
	fmt.Println(strconv.Itoa(int(params[1].Int())))
	return object.Value{}, nil
}

func printStreamPrintlnVoid(env *Env, params []object.Value) (object.Value, error) {
	fmt.Println()
	return object.Value{}, nil
}

func printStreamPrintString(env *Env, params []object.Value) (object.Value, error) {
	arg := params[1]
	if arg.IsNull() {
		fmt.Print("null")
		return object.Value{}, nil
	}
	fmt.Print(goStringFromJavaString(env, arg.Ref))
	return object.Value{}, nil
}
