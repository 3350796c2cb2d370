package driver

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/thrushlang/thrushc/internal/optimizer"
	"github.com/thrushlang/thrushc/internal/options"
)

// emit writes u.IR to build-dir as a .ll file and, depending on
// opts.Emit, hands it off to the external `opt` (pass pipeline) and
// `clang`/`gcc` (object emission, linking) collaborators spec.md §1
// names as out of scope: "linker invocation (clang/gcc subprocesses)"
// and "on-disk artifact emission". This rewrite still orchestrates the
// subprocess calls — it just doesn't reimplement the tools themselves.
func emit(u *Unit, opts *options.Options) error {
	if opts.BuildDir == "" {
		return nil
	}
	if err := os.MkdirAll(opts.BuildDir, 0o755); err != nil {
		return fmt.Errorf("creating build dir %s: %w", opts.BuildDir, err)
	}

	base := strings.TrimSuffix(filepath.Base(u.Path), filepath.Ext(u.Path))
	llPath := filepath.Join(opts.BuildDir, base+".ll")
	if err := os.WriteFile(llPath, []byte(u.IR), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", llPath, err)
	}

	if pipeline := optimizer.SelectPipeline(opts); pipeline != "" {
		if err := runOptPasses(llPath, pipeline); err != nil {
			// Mirrors optimizer.rs: a failed pass run is a warning, not a
			// hard error — the unoptimized .ll survives and compilation
			// continues.
			fmt.Fprintf(os.Stderr, "warning: some optimization passes couldn't be performed: %v\n", err)
		}
	}

	switch opts.Emit {
	case options.EmitLLVMIR:
		return nil
	case options.EmitLLVMBitcode:
		return runLLVMTool("llvm-as", llPath, withExt(llPath, ".bc"))
	case options.EmitAssembly:
		return runLLVMTool("llc", llPath, withExt(llPath, ".s"))
	case options.EmitObject:
		objPath := withExt(llPath, ".o")
		if err := runLLVMTool("llc", llPath, objPath, "-filetype=obj"); err != nil {
			return err
		}
		u.ObjectOut = objPath
		return nil
	default:
		return nil
	}
}

func withExt(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}

// runOptPasses shells out to `opt -passes=<pipeline>` in place, the
// external tool spec.md treats the real LLVM optimizer as (this
// rewrite's internal/optimizer only implements the attribute-only
// passes llir/llvm can do natively; see that package's doc comment).
func runOptPasses(llPath, pipeline string) error {
	cmd := exec.Command("opt", "-S", "-passes="+pipeline, "-o", llPath, llPath)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s: %s", err, strings.TrimSpace(string(out)))
	}
	return nil
}

func runLLVMTool(tool, in, out string, extraArgs ...string) error {
	args := append([]string{in, "-o", out}, extraArgs...)
	cmd := exec.Command(tool, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s %s: %s", tool, err, strings.TrimSpace(string(output)))
	}
	return nil
}

// LinkObjects invokes the external clang/gcc linker collaborator
// (spec.md §1/§6) to produce the final executable from one or more
// object files. Only called by cmd/thrushc after every unit compiles
// cleanly.
func LinkObjects(objs []string, outPath string, opts *options.Options) error {
	linker := opts.ClangPath
	if linker == "" {
		linker = opts.GCCPath
	}
	if linker == "" {
		linker = "clang"
	}

	args := append([]string{}, objs...)
	args = append(args, "-o", outPath)
	args = append(args, opts.PassthroughArgs...)

	cmd := exec.Command(linker, args...)
	if opts.DebugClangCommands || opts.DebugGCCCommands {
		fmt.Fprintf(os.Stderr, "+ %s %s\n", linker, strings.Join(args, " "))
	}
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s: %s", err, strings.TrimSpace(string(out)))
	}
	return nil
}
