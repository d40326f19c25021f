package rewrite

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/fmtshift/fmtshift/ast"
	"github.com/fmtshift/fmtshift/reader"
)

// MarkLabel designates the sub-expression to treat as the format string
// inside a marked argument.
const MarkLabel = "fmt"

// ConvertFormatArgs rewrites every call with a fmt-marked argument: the
// marked argument and everything after it become a single macro
// invocation, arguments before it are kept. Failed call sites are left
// untouched and their errors joined into the returned error.
func ConvertFormatArgs(stmts []*ast.Stmt, macroName string, opts Options) ([]*ast.Stmt, error) {
	out := make([]*ast.Stmt, 0, len(stmts))
	var errs []error

	for _, stmt := range stmts {
		call, ok := stmt.X.(*ast.CallExpr)
		if !ok {
			out = append(out, stmt)
			continue
		}

		fmtIdx := -1
		var marked ast.Expr
		for i, arg := range call.Args {
			m, count := ast.FindMarked(arg, MarkLabel)
			if m == nil {
				continue
			}
			if count > 1 {
				log.Warn().Str("component", "rewrite").
					Str("call", call.Callee).
					Str("at", posStr(call.At)).
					Msg("multiple fmt marks inside one argument, using the first")
			}
			fmtIdx = i
			marked = m
			break
		}
		if fmtIdx < 0 {
			out = append(out, stmt)
			continue
		}

		// No newline variant here: format_args! has no print side effect
		// to fold a newline into.
		mac, err := BuildFormatMacro(macroName, "", marked, call.Args[fmtIdx:], opts)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: call to %s: %w", posStr(call.At), call.Callee, err))
			out = append(out, stmt)
			continue
		}

		newArgs := append([]ast.Expr{}, call.Args[:fmtIdx]...)
		newArgs = append(newArgs, mac)
		out = append(out, &ast.Stmt{X: &ast.CallExpr{Callee: call.Callee, Args: newArgs, At: call.At}})
		log.Info().Str("component", "rewrite").
			Str("call", call.Callee).
			Str("at", posStr(call.At)).
			Str("macro", mac.Name).
			Msg("rewrote format arguments")
	}

	return out, errors.Join(errs...)
}

// ConvertPrintfs rewrites recognized print-style calls into macro
// statements according to the rules table. Unrecognized statements pass
// through unchanged.
func ConvertPrintfs(stmts []*ast.Stmt, rules *Rules, opts Options) ([]*ast.Stmt, error) {
	out := make([]*ast.Stmt, 0, len(stmts))
	var errs []error

	for _, stmt := range stmts {
		call, ok := stmt.X.(*ast.CallExpr)
		if !ok {
			out = append(out, stmt)
			continue
		}
		rule, ok := rules.Calls[call.Callee]
		if !ok {
			out = append(out, stmt)
			continue
		}

		args := call.Args
		if rule.FirstArg != "" {
			id, ok := firstIdent(args)
			if !ok || id != rule.FirstArg {
				out = append(out, stmt)
				continue
			}
			args = args[1:]
		}
		if len(args) == 0 {
			out = append(out, stmt)
			continue
		}

		mac, err := BuildFormatMacro(rule.Macro, rule.LnMacro, nil, args, opts)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: call to %s: %w", posStr(call.At), call.Callee, err))
			out = append(out, stmt)
			continue
		}
		out = append(out, &ast.Stmt{X: mac})
		log.Info().Str("component", "rewrite").
			Str("call", call.Callee).
			Str("at", posStr(call.At)).
			Str("macro", mac.Name).
			Msg("rewrote print call")
	}

	return out, errors.Join(errs...)
}

func firstIdent(args []ast.Expr) (string, bool) {
	if len(args) == 0 {
		return "", false
	}
	id, ok := args[0].(*ast.Ident)
	if !ok {
		return "", false
	}
	return id.Name, true
}

func posStr(p reader.Pos) string {
	file := p.File
	if file == "" {
		file = "<input>"
	}
	return fmt.Sprintf("%s:%d:%d", file, p.Line+1, p.Col+1)
}
