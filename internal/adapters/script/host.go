// Package script implements the build-file host on an embedded ECMAScript
// interpreter. Build files are plain scripts; the primitives registered
// here call back into the rule engine.
package script

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dop251/goja"
	"go.trai.ch/obuild/internal/core/domain"
	"go.trai.ch/obuild/internal/core/ports"
	"go.trai.ch/obuild/internal/engine/driver"
	"go.trai.ch/zerr"
)

// Options configures a Host.
type Options struct {
	// IgnoreEnv makes getenv always return its default.
	IgnoreEnv bool
	// NumCPUs and NumJobs seed the read-only script globals.
	NumCPUs int
	NumJobs int
	// Stdout receives echo output. Defaults to os.Stdout.
	Stdout io.Writer
}

// Host owns one interpreter runtime and the primitive set bound into it.
// Evaluation and rule bodies all run on the driver goroutine, so a single
// runtime needs no locking.
type Host struct {
	rt     *goja.Runtime
	engine *driver.Engine
	glob   ports.Globber
	logger ports.Logger
	opts   Options

	// ctx is the context of the evaluation or body call currently running.
	ctx context.Context
}

// New creates a Host bound to engine and installs the primitives.
func New(engine *driver.Engine, glob ports.Globber, logger ports.Logger, opts Options) *Host {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	h := &Host{
		rt:     goja.New(),
		engine: engine,
		glob:   glob,
		logger: logger,
		opts:   opts,
		ctx:    context.Background(),
	}
	h.install()
	return h
}

// EvalFile loads and evaluates the build file at path.
func (h *Host) EvalFile(ctx context.Context, path string) error {
	src, err := os.ReadFile(path) //nolint:gosec // path is provided by the user
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to load build file"), "path", path)
	}
	return h.eval(ctx, path, string(src))
}

// EvalString evaluates an inline chunk, the -e flag's argument.
func (h *Host) EvalString(ctx context.Context, src string) error {
	return h.eval(ctx, "<eval>", src)
}

func (h *Host) eval(ctx context.Context, name, src string) error {
	prg, err := goja.Compile(name, src, false)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to parse build file"), "file", name)
	}

	prev := h.ctx
	h.ctx = ctx
	defer func() { h.ctx = prev }()

	if _, err := h.rt.RunProgram(prg); err != nil {
		return h.scriptError(err)
	}
	return nil
}

func (h *Host) install() {
	global := h.rt.GlobalObject()
	_ = global.DefineDataProperty("numcpus", h.rt.ToValue(h.opts.NumCPUs), goja.FLAG_FALSE, goja.FLAG_FALSE, goja.FLAG_TRUE)
	_ = global.DefineDataProperty("numjobs", h.rt.ToValue(h.opts.NumJobs), goja.FLAG_FALSE, goja.FLAG_FALSE, goja.FLAG_TRUE)

	h.rt.Set("rule", h.jsRule)
	h.rt.Set("action", h.jsAction)
	h.rt.Set("depend", h.jsDepend)
	h.rt.Set("shell", h.jsShell)
	h.rt.Set("invoke", h.jsInvoke)
	h.rt.Set("glob", h.jsGlob)
	h.rt.Set("getenv", h.jsGetenv)
	h.rt.Set("extreplace", h.jsExtReplace)
	h.rt.Set("echo", h.jsEcho)
}

// jsRule registers one rule per target name, all sharing the deps list and
// the optional body function.
func (h *Host) jsRule(call goja.FunctionCall) goja.Value {
	targets := h.listArg(call.Argument(0))
	if len(targets) == 0 {
		panic(h.rt.NewTypeError("rule: no targets given"))
	}
	deps := h.listArg(call.Argument(1))
	body := h.bodyArg(call.Argument(2))
	for _, t := range targets {
		h.engine.AddRule(&domain.Rule{Target: t, Deps: deps, Body: body})
	}
	return goja.Undefined()
}

// jsAction registers phony actions: named rules whose bodies run without
// consulting the staleness oracle.
func (h *Host) jsAction(call goja.FunctionCall) goja.Value {
	targets := h.listArg(call.Argument(0))
	if len(targets) == 0 {
		panic(h.rt.NewTypeError("action: no names given"))
	}
	body := h.bodyArg(call.Argument(1))
	if body == nil {
		panic(h.rt.NewTypeError("action: body required"))
	}
	for _, t := range targets {
		h.engine.AddRule(&domain.Rule{Target: t, Body: body, Action: true})
	}
	return goja.Undefined()
}

// jsDepend registers body-less dependency edges.
func (h *Host) jsDepend(call goja.FunctionCall) goja.Value {
	targets := h.listArg(call.Argument(0))
	if len(targets) == 0 {
		panic(h.rt.NewTypeError("depend: no targets given"))
	}
	deps := h.listArg(call.Argument(1))
	for _, t := range targets {
		h.engine.AddRule(&domain.Rule{Target: t, Deps: deps})
	}
	return goja.Undefined()
}

// jsShell enqueues a command against the innermost wait scope.
func (h *Host) jsShell(call goja.FunctionCall) goja.Value {
	cmd := call.Argument(0).String()
	if err := h.engine.Shell(h.ctx, cmd); err != nil {
		panic(h.rt.ToValue(err))
	}
	return goja.Undefined()
}

// jsInvoke runs another target through a nested engine run.
func (h *Host) jsInvoke(call goja.FunctionCall) goja.Value {
	name := call.Argument(0).String()
	if err := h.engine.ExecMain(h.ctx, name); err != nil {
		panic(h.rt.ToValue(err))
	}
	return goja.Undefined()
}

// jsGlob expands a whitespace-separated pattern list.
func (h *Host) jsGlob(call goja.FunctionCall) goja.Value {
	patterns := h.listArg(call.Argument(0))
	return h.rt.ToValue(h.glob.Expand(patterns, false))
}

// jsGetenv looks up an environment variable with an optional default.
// Under -E the default is always returned.
func (h *Host) jsGetenv(call goja.FunctionCall) goja.Value {
	def := ""
	if arg := call.Argument(1); !goja.IsUndefined(arg) {
		def = arg.String()
	}
	if h.opts.IgnoreEnv {
		return h.rt.ToValue(def)
	}
	if v, ok := os.LookupEnv(call.Argument(0).String()); ok && v != "" {
		return h.rt.ToValue(v)
	}
	return h.rt.ToValue(def)
}

// jsExtReplace swaps the trailing extension on each element of a list.
func (h *Host) jsExtReplace(call goja.FunctionCall) goja.Value {
	list := strings.Join(h.listArg(call.Argument(0)), " ")
	old := call.Argument(1).String()
	ext := call.Argument(2).String()
	return h.rt.ToValue(domain.ExtReplaceList(list, old, ext))
}

// jsEcho writes its argument and a newline to stdout.
func (h *Host) jsEcho(call goja.FunctionCall) goja.Value {
	if _, err := fmt.Fprintln(h.opts.Stdout, call.Argument(0).String()); err != nil {
		h.logger.Error(err)
	}
	return goja.Undefined()
}

// listArg coerces a script value into a list of names. Strings split on
// whitespace, the cubescript-list way; arrays take their elements verbatim.
func (h *Host) listArg(v goja.Value) []string {
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return nil
	}
	switch x := v.Export().(type) {
	case string:
		return strings.Fields(x)
	case []interface{}:
		out := make([]string, 0, len(x))
		for _, e := range x {
			s, ok := e.(string)
			if !ok {
				panic(h.rt.NewTypeError("list elements must be strings"))
			}
			out = append(out, s)
		}
		return out
	default:
		return strings.Fields(v.String())
	}
}

// bodyArg wraps a script function into the opaque body handle the engine
// invokes. The alias globals are bound for the duration of the call and
// restored afterwards, so nested invoke runs see their own values.
func (h *Host) bodyArg(v goja.Value) domain.Body {
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return nil
	}
	fn, ok := goja.AssertFunction(v)
	if !ok {
		panic(h.rt.NewTypeError("body must be a function"))
	}
	return func(ctx context.Context, b domain.Bindings) error {
		prevCtx := h.ctx
		h.ctx = ctx
		saved := h.bindAliases(b)
		defer func() {
			h.restoreAliases(saved)
			h.ctx = prevCtx
		}()

		_, err := fn(goja.Undefined())
		return h.scriptError(err)
	}
}

type aliasState struct {
	target, source, sources goja.Value
}

func (h *Host) bindAliases(b domain.Bindings) aliasState {
	saved := aliasState{
		target:  h.rt.Get("target"),
		source:  h.rt.Get("source"),
		sources: h.rt.Get("sources"),
	}
	h.rt.Set("target", b.Target)
	if b.HasSources {
		h.rt.Set("source", b.Source)
		h.rt.Set("sources", b.Sources)
	} else {
		h.rt.Set("source", goja.Undefined())
		h.rt.Set("sources", goja.Undefined())
	}
	return saved
}

func (h *Host) restoreAliases(s aliasState) {
	h.rt.Set("target", orUndefined(s.target))
	h.rt.Set("source", orUndefined(s.source))
	h.rt.Set("sources", orUndefined(s.sources))
}

func orUndefined(v goja.Value) goja.Value {
	if v == nil {
		return goja.Undefined()
	}
	return v
}

// scriptError maps an interpreter error back into the engine's error
// domain. Engine errors thrown through the script (shell, invoke) come
// back unchanged; everything else is a script error.
func (h *Host) scriptError(err error) error {
	if err == nil {
		return nil
	}
	var ex *goja.Exception
	if errors.As(err, &ex) {
		if cause, isErr := ex.Value().Export().(error); isErr {
			return cause
		}
		return zerr.With(zerr.Wrap(err, "script error"), "thrown", ex.Value().String())
	}
	return zerr.Wrap(err, "script error")
}
