// Package cmd is the top-level "driver" package for kaso: it contains all the
// functionality for parsing command-line arguments, loading configuration,
// and running the incremental compile-and-execute session loop.
package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"kaso/ast"
	"kaso/depm"
	"kaso/generate"
	"kaso/jit"
	"kaso/llc"
	"kaso/report"
	"kaso/syntax"
	"strings"

	"github.com/kr/pretty"
)

// SessionOptions configures a session.
type SessionOptions struct {
	// The path used to refer to the input in diagnostics (eg. `<stdin>`).
	ReprPath string

	// Whether generated code and evaluation results are echoed.
	Verbose bool

	// Whether functions are optimized after they are lowered.
	Optimize bool

	// Whether every parsed top-level construct is dumped.
	DumpAST bool

	// The prompt written to PromptOut whenever a new statement is expected.
	// If PromptOut is nil, no prompt is written.
	Prompt    string
	PromptOut io.Writer

	// Echo receives the verbose echo and AST dumps.
	Echo io.Writer

	// Output receives the output of the output built-ins.
	Output io.Writer

	// Reporter receives all diagnostics.  If nil, the default reporter is used.
	Reporter *report.Reporter
}

// Session is a single interactive session: it reads top-level constructs one
// at a time, lowers each into the active compilation unit, and hands completed
// units to the execution engine.
type Session struct {
	opts SessionOptions

	// ctx holds the operator table and prototype registry.
	ctx *depm.Context

	// src records the input read so far for diagnostics.
	src *sourceRecorder

	parser *syntax.Parser
	gen    *generate.Generator
	engine *jit.Engine

	// unitCount is the number of units created so far.
	unitCount int
}

// NewSession creates a new session reading from in.
func NewSession(in io.Reader, opts SessionOptions) *Session {
	if opts.Reporter == nil {
		opts.Reporter = report.Default()
	}

	if opts.Echo == nil {
		opts.Echo = io.Discard
	}

	if opts.Output == nil {
		opts.Output = io.Discard
	}

	s := &Session{
		opts: opts,
		ctx:  depm.NewContext(),
		src:  &sourceRecorder{r: in},
	}

	s.parser = syntax.NewParser(syntax.NewLexer(bufio.NewReader(s.src)), s.ctx.Operators)
	s.engine = jit.NewEngine(opts.Output)
	s.gen = generate.NewGenerator(s.ctx, s.newUnit(), opts.Optimize)

	return s
}

// Context returns the session context.
func (s *Session) Context() *depm.Context {
	return s.ctx
}

// Engine returns the session's execution engine.
func (s *Session) Engine() *jit.Engine {
	return s.engine
}

// Run runs the session until its input is exhausted.  Errors in the input are
// reported and do not stop the session: the returned error is either an I/O
// error or an internal compiler error.
func (s *Session) Run() error {
	s.prompt()
	if err := s.parser.Next(); err != nil {
		return err
	}

	for {
		var err error

		switch s.parser.Tok().Kind {
		case syntax.TOK_EOF:
			s.dumpActiveUnit()
			return nil
		case syntax.TOK_SEMI:
			s.prompt()
			err = s.parser.Next()
		case syntax.TOK_DEF:
			err = s.HandleDefinition()
		case syntax.TOK_EXTERN:
			err = s.HandleExtern()
		default:
			err = s.HandleTopLevelExpression()
		}

		if err != nil {
			return err
		}
	}
}

// -----------------------------------------------------------------------------

// HandleDefinition parses, lowers, and loads a function definition.
func (s *Session) HandleDefinition() error {
	def, err := s.parser.ParseDefinition()
	if err != nil {
		return s.recoverSyntax(err)
	}

	s.dumpAST(def)

	f, err := s.gen.GenFuncDef(def)
	if err != nil {
		return s.recoverLowering(err)
	}

	s.echo("Read function definition: %s\n", f.LLString())

	_, err = s.commitUnit()
	return err
}

// HandleExtern parses and declares an external function.  The declaration is
// left in the active unit.
func (s *Session) HandleExtern() error {
	proto, err := s.parser.ParseExtern()
	if err != nil {
		return s.recoverSyntax(err)
	}

	s.dumpAST(proto)

	f, err := s.gen.GenPrototype(proto)
	if err != nil {
		return s.recoverLowering(err)
	}

	s.echo("Read extern: %s\n", f.LLString())

	s.ctx.Prototypes.Register(proto)
	return nil
}

// HandleTopLevelExpression parses, lowers, and evaluates a top-level
// expression.  The unit holding the expression is unloaded once it has been
// evaluated.
func (s *Session) HandleTopLevelExpression() error {
	expr, err := s.parser.ParseTopLevelExpr()
	if err != nil {
		return s.recoverSyntax(err)
	}

	s.dumpAST(expr.Body)

	f, err := s.gen.GenFuncDef(expr)
	if err != nil {
		return s.recoverLowering(err)
	}

	s.echo("Read top-level expression:\n%s\n", f.LLString())

	handle, err := s.commitUnit()
	if err != nil {
		return err
	}

	sym, ok := s.engine.FindSymbol(ast.AnonExprName)
	if !ok {
		return report.ICE("top-level expression `%s` not found after loading", ast.AnonExprName)
	} else if sym.Arity() != 0 {
		return report.ICE("top-level expression `%s` takes %d arguments", ast.AnonExprName, sym.Arity())
	}

	result, callErr := sym.Call()

	if err := s.engine.Unload(handle); err != nil {
		return report.ICE("failed to unload top-level expression: %s", err)
	}

	if callErr != nil {
		return s.recoverLowering(callErr)
	}

	s.echo("Evaluated to %f\n", result)
	return nil
}

// -----------------------------------------------------------------------------

// recoverSyntax reports a syntax error and skips the offending token.  Errors
// which are not compile errors are returned.
func (s *Session) recoverSyntax(err error) error {
	var cerr *report.CompileError
	if !errors.As(err, &cerr) {
		return err
	}

	s.opts.Reporter.ReportCompileError(s.opts.ReprPath, s.src, cerr)
	return s.parser.Next()
}

// recoverLowering reports an error in lowering or evaluating a construct.
// Internal errors and errors which are not compile errors are returned.
func (s *Session) recoverLowering(err error) error {
	var cerr *report.CompileError
	if !errors.As(err, &cerr) {
		return err
	}

	s.opts.Reporter.ReportCompileError(s.opts.ReprPath, s.src, cerr)
	return nil
}

// commitUnit loads the active unit into the engine and rotates to a new unit.
func (s *Session) commitUnit() (jit.Handle, error) {
	unit := s.gen.Unit()

	handle, err := s.engine.Load(unit)
	if err != nil {
		return 0, report.ICE("failed to load unit `%s`: %s", unit.Name(), err)
	}

	s.gen.SetUnit(s.newUnit())
	return handle, nil
}

// newUnit creates a new, uniquely named compilation unit.
func (s *Session) newUnit() *llc.Unit {
	s.unitCount++
	return llc.NewUnit(fmt.Sprintf("unit%d", s.unitCount))
}

// dumpActiveUnit echoes the active unit if it holds any functions followed by
// the names of the functions known to the session.
func (s *Session) dumpActiveUnit() {
	if unit := s.gen.Unit(); len(unit.Funcs()) > 0 {
		s.echo("%s", unit.String())
	}

	if s.ctx.Prototypes.Len() == 0 {
		return
	}

	var names []string
	for _, name := range s.ctx.Prototypes.Names() {
		if name != ast.AnonExprName {
			names = append(names, name)
		}
	}

	if len(names) > 0 {
		s.echo("; known functions: %s\n", strings.Join(names, ", "))
	}
}

// -----------------------------------------------------------------------------

// prompt writes the prompt if prompting is enabled.
func (s *Session) prompt() {
	if s.opts.PromptOut != nil {
		fmt.Fprint(s.opts.PromptOut, s.opts.Prompt)
	}
}

// echo writes a message to the echo sink in verbose mode.
func (s *Session) echo(format string, args ...interface{}) {
	if s.opts.Verbose {
		fmt.Fprintf(s.opts.Echo, format, args...)
	}
}

// dumpAST dumps a parsed node if AST dumping is enabled.
func (s *Session) dumpAST(node ast.ASTNode) {
	if s.opts.DumpAST {
		fmt.Fprintf(s.opts.Echo, "%# v\n", pretty.Formatter(node))
	}
}
