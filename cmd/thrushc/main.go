// Command thrushc is the Thrush compiler driver. It parses the flag
// surface spec.md §6 defines, builds an internal/options.Options record
// from (optional thrush.yaml manifest, then) flags, and runs
// internal/driver.CompileFile over every positional .thrush/.🐦 argument,
// finishing with an external clang/gcc link step when every unit
// compiled cleanly. The flat-flags-then-dispatch shape and colored
// banners are kept from the teacher's cmd/ailang/main.go.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"

	"github.com/thrushlang/thrushc/internal/diagnostics"
	"github.com/thrushlang/thrushc/internal/driver"
	"github.com/thrushlang/thrushc/internal/options"
)

var (
	// Version info, set by ldflags during release builds.
	Version = "dev"
	Commit  = "unknown"

	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run implements the CLI described in spec.md §6: positional .thrush
// files, "-"-prefixed compiler flags, "--"-prefixed driver/link flags,
// and a -start/-end bracket whose contents pass straight through to the
// external linker untouched (hence the hand-rolled parse below instead
// of the standard flag package, which can't tolerate unknown
// passthrough tokens).
func run(args []string) int {
	opts := options.Default()
	var files []string
	var showVersion, showHelp bool
	inPassthrough := false

	i := 0
	for i < len(args) {
		a := args[i]
		switch {
		case inPassthrough:
			if a == "-end" {
				inPassthrough = false
			} else {
				opts.PassthroughArgs = append(opts.PassthroughArgs, a)
			}
			i++
			continue
		case a == "-start":
			inPassthrough = true
			i++
			continue
		case a == "-h" || a == "--help":
			showHelp = true
			i++
		case a == "-v" || a == "--version":
			showVersion = true
			i++
		case a == "-build-dir":
			opts.BuildDir, i = stringArg(args, i+1)
		case a == "-opt":
			var v string
			v, i = stringArg(args, i+1)
			lvl, err := options.ParseOptLevel(v)
			if err != nil {
				return fail(err)
			}
			opts.Opt = lvl
		case a == "-emit":
			var v string
			v, i = stringArg(args, i+1)
			em, err := options.ParseEmit(v)
			if err != nil {
				return fail(err)
			}
			opts.Emit = em
		case a == "-print":
			var v string
			v, i = stringArg(args, i+1)
			opts.Print = append(opts.Print, v)
		case a == "-target":
			opts.Target, i = stringArg(args, i+1)
		case a == "-target-triple":
			var v string
			v, i = stringArg(args, i+1)
			opts.Triple = v
		case a == "-cpu":
			var v string
			v, i = stringArg(args, i+1)
			opts.CPU = v
		case a == "-cpu-features":
			var v string
			v, i = stringArg(args, i+1)
			opts.CPUFeat = v
		case a == "--reloc-model":
			var v string
			v, i = stringArg(args, i+1)
			rm, err := options.ParseRelocModel(v)
			if err != nil {
				return fail(err)
			}
			opts.RelocModel = rm
		case a == "--code-model":
			var v string
			v, i = stringArg(args, i+1)
			cm, err := options.ParseCodeModel(v)
			if err != nil {
				return fail(err)
			}
			opts.CodeModel = cm
		case a == "--sanitizer":
			var v string
			v, i = stringArg(args, i+1)
			san, err := options.ParseSanitizer(v)
			if err != nil {
				return fail(err)
			}
			opts.Sanitizer = san
		case a == "--opt-passes":
			opts.CustomPasses, i = stringArg(args, i+1)
		case a == "--modificator-opt-passes":
			var v string
			v, i = stringArg(args, i+1)
			opts.ModificatorPasses = strings.Split(v, ",")
		case a == "-jit":
			opts.JIT.Enabled = true
			i++
		case a == "-jit-libc":
			opts.JIT.LibC = true
			i++
		case a == "-jit-link":
			var v string
			v, i = stringArg(args, i+1)
			opts.JIT.Link = append(opts.JIT.Link, v)
		case a == "-jit-entry":
			opts.JIT.Entry, i = stringArg(args, i+1)
		case a == "-clang-link":
			opts.ClangPath, i = stringArg(args, i+1)
		case a == "-gcc-link":
			opts.GCCPath, i = stringArg(args, i+1)
		case a == "--debug-clang-commands":
			opts.DebugClangCommands = true
			i++
		case a == "--debug-gcc-commands":
			opts.DebugGCCCommands = true
			i++
		case a == "--omit-frame-pointer":
			opts.OmitFramePointer = true
			i++
		case a == "--omit-uwtable":
			opts.OmitUWTable = true
			i++
		case a == "--omit-direct-access-external-data":
			opts.OmitDirectAccess = true
			i++
		case a == "--omit-rtlib-got":
			opts.OmitRtLibGOT = true
			i++
		case a == "--omit-default-opt":
			opts.DisableDefaultOpt = true
			i++
		case a == "--clean-build":
			opts.CleanBuild = true
			i++
		case a == "--clean-tokens":
			opts.CleanTokens = true
			i++
		case a == "--clean-assembler":
			opts.CleanAssembler = true
			i++
		case a == "--clean-llvm-ir":
			opts.CleanLLVMIR = true
			i++
		case a == "--clean-llvm-bitcode":
			opts.CleanLLVMBC = true
			i++
		case a == "--clean-objects":
			opts.CleanObjects = true
			i++
		case strings.HasPrefix(a, "-"):
			fmt.Fprintf(os.Stderr, "%s: unrecognized flag %q\n", red("error"), a)
			i++
		default:
			files = append(files, a)
			i++
		}
	}

	if showVersion {
		printVersion()
		return 0
	}
	if showHelp || len(files) == 0 {
		printHelp()
		return 0
	}

	// thrush.yaml, if present next to the first file, is loaded into a
	// fresh Default() record; mergeManifestDefaults then copies its
	// values only into the opts fields that the flags above left at
	// their defaults, so explicit flags keep priority.
	manifestPath := filepath.Join(filepath.Dir(files[0]), "thrush.yaml")
	seeded := options.Default()
	if err := options.LoadManifest(manifestPath, seeded); err == nil {
		mergeManifestDefaults(opts, seeded)
	}

	log := diagnostics.NewLogger(os.Stderr, false)

	var objects []string
	var units []*driver.Unit
	ok := true
	for _, f := range files {
		if !strings.HasSuffix(f, ".thrush") && !strings.HasSuffix(f, ".🐦") {
			fmt.Fprintf(os.Stderr, "%s: %s does not have a .thrush or .🐦 extension\n", yellow("warning"), f)
		}
		unit, success := driver.CompileFile(f, opts, log, os.Stderr)
		if !success {
			ok = false
			continue
		}
		units = append(units, unit)
		if unit.ObjectOut != "" {
			objects = append(objects, unit.ObjectOut)
		}
	}

	if !ok {
		return 1
	}

	if opts.JIT.Enabled && hasPrint(opts.Print, "jit-trace") {
		runJITTrace(units, os.Stdout)
	}

	if opts.Emit == options.EmitObject && len(objects) > 0 && !opts.JIT.Enabled {
		exe := filepath.Join(opts.BuildDir, "a.out")
		if err := driver.LinkObjects(objects, exe, opts); err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", red("link error"), err)
			return 1
		}
		fmt.Fprintf(os.Stderr, "%s %s\n", green("==>"), exe)
	}

	return 0
}

// mergeManifestDefaults copies any field the manifest set away from its
// Default() zero value into opts, but only where the flag parse above
// left opts at its own Default() value (i.e. no flag overrode it) —
// this keeps "flags always override manifest" true per spec.md's
// AMBIENT STACK note without re-parsing argv.
func mergeManifestDefaults(opts, seeded *options.Options) {
	def := options.Default()
	if opts.BuildDir == def.BuildDir {
		opts.BuildDir = seeded.BuildDir
	}
	if opts.Opt == def.Opt {
		opts.Opt = seeded.Opt
	}
	if opts.Target == def.Target {
		opts.Target = seeded.Target
	}
	if opts.Sanitizer == def.Sanitizer {
		opts.Sanitizer = seeded.Sanitizer
	}
	if len(opts.JIT.Link) == 0 {
		opts.JIT.Link = seeded.JIT.Link
	}
}

func stringArg(args []string, i int) (string, int) {
	if i >= len(args) {
		return "", i + 1
	}
	return args[i], i + 1
}

func fail(err error) int {
	fmt.Fprintf(os.Stderr, "%s: %v\n", red("error"), err)
	return 1
}

func printVersion() {
	fmt.Printf("%s %s\n", bold("thrushc"), Version)
	if Commit != "unknown" {
		fmt.Printf("commit: %s\n", Commit)
	}
}

func printHelp() {
	fmt.Println(bold("thrushc - the Thrush compiler"))
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  thrushc [flags] <file.thrush>...")
	fmt.Println()
	fmt.Println("Flags:")
	fmt.Println("  -build-dir <path>            build artifact directory")
	fmt.Println("  -opt {O0|O1|O2|O3|Os|Oz}      optimization level")
	fmt.Println("  -emit <what>                  obj|asm|llvm-ir|llvm-bc|tokens|ast|diagnostics-json")
	fmt.Println("  -print <what>                 print a debug dump during compilation")
	fmt.Println("  -target <arch>                target architecture")
	fmt.Println("  -target-triple <triple>       target triple")
	fmt.Println("  -cpu <name>                   target CPU")
	fmt.Println("  -cpu-features <csv>           target CPU feature list")
	fmt.Println("  --reloc-model {static|pic|dynamic-no-pic}")
	fmt.Println("  --code-model {small|medium|large|kernel}")
	fmt.Println("  --sanitizer {address|hwaddress|memory|thread|memtag}")
	fmt.Println("  --opt-passes <string>         custom LLVM pass pipeline")
	fmt.Println("  --modificator-opt-passes <csv>")
	fmt.Println("  -jit [-jit-libc] [-jit-link <path>] [-jit-entry <name>]")
	fmt.Println("  -clang-link <path> | -gcc-link <path>")
	fmt.Println("  --debug-clang-commands | --debug-gcc-commands")
	fmt.Println("  --clean-build | --clean-tokens | --clean-assembler")
	fmt.Println("  --clean-llvm-ir | --clean-llvm-bitcode | --clean-objects")
	fmt.Println("  -start ... -end               passthrough args for the external linker")
	fmt.Println("  -v, --version                 print version")
	fmt.Println("  -h, --help                    show this help")
}
