// Package options models the shared, immutable-once-built configuration
// record threaded by pointer through every phase of the pipeline
// (spec.md §2: "a shared diagnostician and options record threaded
// through every stage"). It is assembled from an optional thrush.yaml
// manifest (original_source/src/core/console/cli.rs's notion of a
// project settings file, not described by spec.md itself) and then from
// CLI flags, with flags always winning over the manifest.
package options

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// OptLevel is the optimization level selected with -opt, grounded on
// original_source/thrushc_llvm_codegen/src/optimizer.rs's
// ThrushOptimization enum (None/Low/Mid/High/Size/Zize).
type OptLevel int

const (
	O0 OptLevel = iota
	O1
	O2
	O3
	Os
	Oz
)

func ParseOptLevel(s string) (OptLevel, error) {
	switch s {
	case "O0":
		return O0, nil
	case "O1":
		return O1, nil
	case "O2":
		return O2, nil
	case "O3":
		return O3, nil
	case "Os":
		return Os, nil
	case "Oz":
		return Oz, nil
	default:
		return O0, fmt.Errorf("unknown -opt level %q (want O0|O1|O2|O3|Os|Oz)", s)
	}
}

func (o OptLevel) IsHigh() bool { return o == O3 }

// Pipeline returns the canned LLVM pass-pipeline name this level selects,
// per original_source/.../optimizer.rs's run_passes("default<...>") calls.
func (o OptLevel) Pipeline() string {
	switch o {
	case O1:
		return "default<O1>"
	case O2:
		return "default<O2>"
	case O3:
		return "default<O3>"
	case Os:
		return "default<Os>"
	case Oz:
		return "default<Oz>"
	default:
		return ""
	}
}

// Sanitizer enumerates the --sanitizer choices (spec.md §6).
type Sanitizer int

const (
	NoSanitizer Sanitizer = iota
	SanitizeAddress
	SanitizeHWAddress
	SanitizeMemory
	SanitizeThread
	SanitizeMemtag
)

func ParseSanitizer(s string) (Sanitizer, error) {
	switch s {
	case "", "none":
		return NoSanitizer, nil
	case "address":
		return SanitizeAddress, nil
	case "hwaddress":
		return SanitizeHWAddress, nil
	case "memory":
		return SanitizeMemory, nil
	case "thread":
		return SanitizeThread, nil
	case "memtag":
		return SanitizeMemtag, nil
	default:
		return NoSanitizer, fmt.Errorf("unknown --sanitizer %q", s)
	}
}

// RelocModel mirrors inkwell::targets::RelocMode, consulted by
// internal/metadata when computing PIC/PIE Level and RtLibUseGOT.
type RelocModel int

const (
	RelocStatic RelocModel = iota
	RelocPIC
	RelocDynamicNoPic
)

func ParseRelocModel(s string) (RelocModel, error) {
	switch s {
	case "", "static":
		return RelocStatic, nil
	case "pic":
		return RelocPIC, nil
	case "dynamic-no-pic":
		return RelocDynamicNoPic, nil
	default:
		return RelocStatic, fmt.Errorf("unknown --reloc-model %q", s)
	}
}

// CodeModel mirrors inkwell::targets::CodeModel, used for the "Code
// Model" module flag.
type CodeModel int

const (
	CodeModelDefault CodeModel = iota
	CodeModelSmall
	CodeModelKernel
	CodeModelMedium
	CodeModelLarge
)

func ParseCodeModel(s string) (CodeModel, error) {
	switch s {
	case "", "default", "small":
		return CodeModelSmall, nil
	case "kernel":
		return CodeModelKernel, nil
	case "medium":
		return CodeModelMedium, nil
	case "large":
		return CodeModelLarge, nil
	default:
		return CodeModelDefault, fmt.Errorf("unknown --code-model %q", s)
	}
}

// Emit enumerates the -emit targets (spec.md §6's on-disk artifacts).
type Emit int

const (
	EmitObject Emit = iota
	EmitAssembly
	EmitLLVMIR
	EmitLLVMBitcode
	EmitTokens
	EmitAST
	EmitDiagnosticsJSON
)

func ParseEmit(s string) (Emit, error) {
	switch s {
	case "", "obj", "object":
		return EmitObject, nil
	case "asm", "assembly":
		return EmitAssembly, nil
	case "llvm-ir", "ll":
		return EmitLLVMIR, nil
	case "llvm-bc", "bc":
		return EmitLLVMBitcode, nil
	case "tokens":
		return EmitTokens, nil
	case "ast":
		return EmitAST, nil
	case "diagnostics-json":
		return EmitDiagnosticsJSON, nil
	default:
		return EmitObject, fmt.Errorf("unknown -emit target %q", s)
	}
}

// JIT holds the -jit sub-flags (spec.md §6).
type JIT struct {
	Enabled bool
	LibC    bool
	Link    []string
	Entry   string
}

// Options is the flat configuration record assembled once per invocation
// and threaded by pointer through lexing, parsing, semantic analysis,
// codegen, optimization, and emission. No env-var or file-based layer
// beyond the optional manifest exists, matching
// original_source/src/core/console/cli.rs: everything is either a flag
// default or an explicit flag.
type Options struct {
	BuildDir string
	Opt      OptLevel
	Emit     Emit
	Print    []string
	Target   string
	Triple   string
	CPU      string
	CPUFeat  string

	RelocModel RelocModel
	CodeModel  CodeModel
	Sanitizer  Sanitizer

	CustomPasses       string
	ModificatorPasses  []string
	DisableDefaultOpt  bool
	OmitFramePointer   bool
	OmitUWTable        bool
	OmitDirectAccess   bool
	OmitRtLibGOT       bool
	OmitTrappingMath   bool

	JIT JIT

	ClangPath string
	GCCPath   string

	DebugClangCommands bool
	DebugGCCCommands   bool

	CleanTokens     bool
	CleanAssembler  bool
	CleanLLVMIR     bool
	CleanLLVMBC     bool
	CleanObjects    bool
	CleanBuild      bool

	PassthroughArgs []string // everything between -start and -end
}

// Default returns an Options populated with the teacher-style flag
// defaults: O0, object emission, static relocation, no sanitizer.
func Default() *Options {
	return &Options{
		BuildDir: "build",
		Opt:      O0,
		Emit:     EmitObject,
	}
}

// manifest mirrors the subset of thrush.yaml fields a project may set;
// unset fields leave the corresponding Options field at its flag
// default, and any value present here is overridden by an explicit CLI
// flag of the same name (cmd/thrushc loads the manifest after parsing
// flags and copies its values only into fields the flags left at their
// defaults).
type manifest struct {
	Opt        string   `yaml:"opt"`
	Target     string   `yaml:"target"`
	Sanitizer  string   `yaml:"sanitizer"`
	LinkLibs   []string `yaml:"link_libraries"`
	BuildDir   string   `yaml:"build_dir"`
}

// LoadManifest reads an optional thrush.yaml next to the input files and
// seeds opts with its values. A missing file is not an error: the
// manifest is a convenience, not a requirement (original_source's CLI
// treats flags as authoritative either way).
func LoadManifest(path string, opts *Options) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	var m manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	if m.BuildDir != "" {
		opts.BuildDir = m.BuildDir
	}
	if m.Target != "" {
		opts.Target = m.Target
	}
	if m.Opt != "" {
		if lvl, err := ParseOptLevel(m.Opt); err == nil {
			opts.Opt = lvl
		}
	}
	if m.Sanitizer != "" {
		if san, err := ParseSanitizer(m.Sanitizer); err == nil {
			opts.Sanitizer = san
		}
	}
	if len(m.LinkLibs) > 0 {
		opts.JIT.Link = append(opts.JIT.Link, m.LinkLibs...)
	}
	return nil
}
