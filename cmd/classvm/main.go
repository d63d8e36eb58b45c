/*
 * classvm - a JVM-class-file-compatible bytecode runtime
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

// Command classvm is the VM launcher (spec.md §6's "single invocation
// mode: run a fully-qualified main class ... with no arguments"), grounded
// on jdiag's cmd/root.go cobra-command shape: a root command plus one "run"
// subcommand, registered in init(), with Execute() as the package's single
// exported entry point.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"classvm/classloader"
	"classvm/globals"
	"classvm/heap"
	"classvm/heapdump"
	"classvm/interp"
	"classvm/object"
	"classvm/trace"
	"classvm/types"
	"classvm/vmthread"
)

var (
	classPathFlag string
	maxHeapFlag   int
	dumpHeapFlag  string
	verboseFlag   bool
)

var rootCmd = &cobra.Command{
	Use:   "classvm",
	Short: "A JVM-class-file-compatible bytecode runtime",
}

var runCmd = &cobra.Command{
	Use:   "run <main-class>",
	Short: "Load and run a fully-qualified main class",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMain(args[0])
	},
}

func init() {
	runCmd.Flags().StringVar(&classPathFlag, "classpath", "", "user class path (':'-separated directories, jars, or dir/* wildcards)")
	runCmd.Flags().IntVar(&maxHeapFlag, "max-heap", heap.DefaultInitialSize/(1024*1024), "initial heap reservation, in MiB")
	runCmd.Flags().StringVar(&dumpHeapFlag, "dump-heap-on-exit", "", "write a raw heap-block dump to this path on exit, for cmd/heapview")
	runCmd.Flags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable TRACE-level logging")

	rootCmd.AddCommand(runCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// runMain resolves the class path and JAVA_HOME (spec.md §6's "Input"), wires
// a Machine and its goroutine-per-thread Pool, loads and initializes
// mainClass, and invokes its `main([Ljava/lang/String;)V`. Returns an error
// that carries a non-zero process exit; a successful run returns nil.
func runMain(mainClass string) error {
	g := globals.InitGlobals()
	g.MaxHeapMiB = maxHeapFlag
	g.DumpHeapOnExit = dumpHeapFlag
	if verboseFlag {
		trace.SetLevel(trace.TRACE)
	}

	path := classloader.NewClassPath()
	path.Boot = append(path.Boot, classloader.ParseEntry(g.JavaHome))
	for _, entry := range splitClassPath(classPathFlag) {
		path.User = append(path.User, classloader.ParseEntry(entry))
	}
	defer path.Close()

	space, err := heap.Get(g.MaxHeapMiB * 1024 * 1024)
	if err != nil {
		return err
	}
	defer space.Close()

	vm := interp.NewMachine(path, space)
	defer dumpHeapOnExit(vm, space, g.DumpHeapOnExit)
	pool := vmthread.NewPool(vm)

	main := interp.NewThread(0, vm)
	class, err := vm.Loader.LoadClass(mainClass)
	if err != nil {
		return err
	}
	if err := class.Initialize(main.ID, main.RunClinit); err != nil {
		return err
	}

	method := class.FindMethod("main", "([Ljava/lang/String;)V")
	if method == nil {
		return fmt.Errorf("no main([Ljava/lang/String;)V method declared on %s", mainClass)
	}

	argsArray, err := main.AllocArray(types.Object, 0)
	if err != nil {
		return err
	}
	if _, sig := main.Invoke(method, class, []object.Value{object.RefValue(argsArray)}); sig != nil {
		trace.Error("uncaught exception: " + sig.Error())
		return fmt.Errorf("uncaught exception: %s", sig.Error())
	}

	return pool.Wait()
}

// dumpHeapOnExit writes a heapdump.Dump (class table + every used heap
// block's raw bytes) to path, for cmd/heapview to open independently of this
// process (spec.md §4.7: "heap walks are possible one block at a time using
// header sizes and class metadata"). A no-op if path is empty.
func dumpHeapOnExit(vm *interp.Machine, space *heap.Space, path string) {
	if path == "" {
		return
	}
	f, err := os.Create(path)
	if err != nil {
		trace.Warning("failed to create heap dump " + path + ": " + err.Error())
		return
	}
	defer f.Close()

	classes := make([]heapdump.ClassMeta, 0, vm.Registry.Count())
	for id := uint32(1); id <= uint32(vm.Registry.Count()); id++ {
		c := vm.Registry.GetByID(id)
		if c == nil {
			continue
		}
		classes = append(classes, heapdump.ClassMeta{
			ID:           c.ID,
			Name:         c.Name,
			IsArray:      c.Kind == classloader.KindObjArray || c.Kind == classloader.KindTypeArray,
			ElementType:  c.ElementType,
			InstanceSize: c.InstanceSize,
		})
	}

	view := space.View()
	blocks := make([]heapdump.Block, 0, len(space.UsedBlocks()))
	for _, b := range space.UsedBlocks() {
		start, end := view.Offset(b.Start), view.Offset(b.End)
		blocks = append(blocks, heapdump.Block{Start: b.Start, Bytes: view.Bytes[start:end]})
	}

	if err := heapdump.Write(f, classes, blocks); err != nil {
		trace.Warning("failed to write heap dump " + path + ": " + err.Error())
	}
}

func splitClassPath(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, string(os.PathListSeparator))
}
