package rewrite

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fmtshift/fmtshift/ast"
	"github.com/fmtshift/fmtshift/lex"
)

func parseSrc(t *testing.T, src string) []*ast.Stmt {
	t.Helper()
	stmts, err := ast.New(lex.New(strings.NewReader(src), "test.c")).Parse()
	require.NoError(t, err)
	return stmts
}

func renderAll(stmts []*ast.Stmt) []string {
	out := make([]string, 0, len(stmts))
	for _, s := range stmts {
		out = append(out, ast.SourceStmt(s))
	}
	return out
}

func TestConvertPrintfs(t *testing.T) {
	stmts := parseSrc(t, `
		printf("Number: %d\n", 123);
		printf("no newline %s", name);
		fprintf(stderr, "fail: %u\n", code);
		foo("untouched %d");
	`)
	out, err := ConvertPrintfs(stmts, DefaultRules(), Options{})
	require.NoError(t, err)
	require.Equal(t, []string{
		`println!("Number: {:}", 123 as i32);`,
		`print!("no newline {:}", unsafe { ::std::ffi::CStr::from_ptr(name as *const libc::c_char).to_str().unwrap() });`,
		`eprintln!("fail: {:}", code as u32);`,
		`foo("untouched %d");`,
	}, renderAll(out))
}

func TestConvertPrintfsFprintfGuard(t *testing.T) {
	// fprintf to something other than stderr is not a recognized call.
	stmts := parseSrc(t, `fprintf(logfile, "x %d\n", 1);`)
	out, err := ConvertPrintfs(stmts, DefaultRules(), Options{})
	require.NoError(t, err)
	require.Equal(t, `fprintf(logfile, "x %d\n", 1);`, ast.SourceStmt(out[0]))
}

func TestConvertPrintfsBadSiteLeftUntouched(t *testing.T) {
	stmts := parseSrc(t, `
		printf("fine %d\n", 1);
		printf("broken %q\n");
		printf("also fine\n");
	`)
	out, err := ConvertPrintfs(stmts, DefaultRules(), Options{})
	require.Error(t, err) // the broken site is reported...
	require.Equal(t, []string{
		`println!("fine {:}", 1 as i32);`,
		`printf("broken %q\n");`, // ...and left as it was
		`println!("also fine");`,
	}, renderAll(out))
}

func TestConvertPrintfsWideFormat(t *testing.T) {
	stmts := parseSrc(t, `printf(L"w=%u\n", w);`)
	out, err := ConvertPrintfs(stmts, DefaultRules(), Options{})
	require.NoError(t, err)
	require.Equal(t, `println!("w={:}", w as u32);`, ast.SourceStmt(out[0]))
}

func TestConvertPrintfsCustomRules(t *testing.T) {
	rules := &Rules{Calls: map[string]Rule{
		"log_msg": {Macro: "log"},
	}}
	stmts := parseSrc(t, `log_msg("v=%x\n", v);`)
	out, err := ConvertPrintfs(stmts, rules, Options{})
	require.NoError(t, err)
	// No ln macro configured, the newline survives.
	require.Equal(t, `log!("v={:x}\n", v as u32);`, ast.SourceStmt(out[0]))
}

func TestConvertFormatArgs(t *testing.T) {
	stmts := parseSrc(t, `
		snprintf(buf, n, fmt: "val %u", v);
		plain(1, 2);
	`)
	out, err := ConvertFormatArgs(stmts, "format_args", Options{})
	require.NoError(t, err)
	require.Equal(t, []string{
		`snprintf(buf, n, format_args!("val {:}", v as u32));`,
		`plain(1, 2);`,
	}, renderAll(out))
}

func TestConvertFormatArgsMarkedUnderCast(t *testing.T) {
	stmts := parseSrc(t, `write(fd, (char *)(fmt: "n=%d\n"), n);`)
	out, err := ConvertFormatArgs(stmts, "format_args", Options{})
	require.NoError(t, err)
	// No newline variant for format_args, the \n stays.
	require.Equal(t, `write(fd, format_args!("n={:}\n", n as i32));`, ast.SourceStmt(out[0]))
}

func TestConvertFormatArgsFirstMarkWins(t *testing.T) {
	stmts := parseSrc(t, `g(fmt: (fmt: "v=%d"), 7);`)
	out, err := ConvertFormatArgs(stmts, "format_args", Options{})
	require.NoError(t, err)
	require.Equal(t, `g(format_args!("v={:}", 7 as i32));`, ast.SourceStmt(out[0]))
}

func TestConvertFormatArgsBadSite(t *testing.T) {
	stmts := parseSrc(t, `f(fmt: "oops %w", 1);`)
	out, err := ConvertFormatArgs(stmts, "format_args", Options{})
	require.Error(t, err)
	require.Equal(t, `f(fmt: "oops %w", 1);`, ast.SourceStmt(out[0]))
}

func TestIndependentCallSites(t *testing.T) {
	// A failure in one statement must not disturb its neighbors.
	stmts := parseSrc(t, `
		printf("a %d\n", 1);
		printf("b %z\n", 2);
		printf("c %d\n", 3);
	`)
	out, err := ConvertPrintfs(stmts, DefaultRules(), Options{})
	require.Error(t, err)
	require.Len(t, out, 3)
	require.Equal(t, `println!("a {:}", 1 as i32);`, ast.SourceStmt(out[0]))
	require.Equal(t, `printf("b %z\n", 2);`, ast.SourceStmt(out[1]))
	require.Equal(t, `println!("c {:}", 3 as i32);`, ast.SourceStmt(out[2]))
}
