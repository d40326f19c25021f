package ast

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fmtshift/fmtshift/lex"
)

func parseSrc(t *testing.T, src string) []*Stmt {
	t.Helper()
	stmts, err := New(lex.New(strings.NewReader(src), "test.c")).Parse()
	require.NoError(t, err)
	return stmts
}

func TestParseCall(t *testing.T) {
	stmts := parseSrc(t, `printf("hi %d\n", x);`)
	require.Len(t, stmts, 1)

	call, ok := stmts[0].X.(*CallExpr)
	require.True(t, ok)
	require.Equal(t, "printf", call.Callee)
	require.Len(t, call.Args, 2)

	lit, ok := call.Args[0].(*StrLit)
	require.True(t, ok)
	require.Equal(t, "hi %d\n", lit.Value)

	id, ok := call.Args[1].(*Ident)
	require.True(t, ok)
	require.Equal(t, "x", id.Name)
}

func TestParseLiterals(t *testing.T) {
	stmts := parseSrc(t, `f(42, -7, 'c', L"wide", b"raw");`)
	call := stmts[0].X.(*CallExpr)
	require.Len(t, call.Args, 5)
	require.Equal(t, int32(42), call.Args[0].(*IntLit).Value)
	require.Equal(t, int32(-7), call.Args[1].(*IntLit).Value)
	require.Equal(t, 'c', call.Args[2].(*CharLit).Value)
	wide := call.Args[3].(*StrLit)
	require.Equal(t, lex.StrWide, wide.Flavor)
	// wide literal values hold the wchar_t memory layout
	require.Equal(t, "w\x00\x00\x00i\x00\x00\x00d\x00\x00\x00e\x00\x00\x00", wide.Value)
	require.Equal(t, lex.StrByte, call.Args[4].(*StrLit).Flavor)
}

func TestParseCastVsParen(t *testing.T) {
	stmts := parseSrc(t, `f((char *)"s", (x), (unsigned long)n);`)
	call := stmts[0].X.(*CallExpr)

	cast, ok := call.Args[0].(*CastExpr)
	require.True(t, ok)
	require.Equal(t, "char *", cast.Type)
	require.IsType(t, &StrLit{}, cast.X)

	paren, ok := call.Args[1].(*ParenExpr)
	require.True(t, ok)
	require.IsType(t, &Ident{}, paren.X)

	cast, ok = call.Args[2].(*CastExpr)
	require.True(t, ok)
	require.Equal(t, "unsigned long", cast.Type)
}

func TestParseMark(t *testing.T) {
	stmts := parseSrc(t, `log(fd, fmt: "v=%d", v);`)
	call := stmts[0].X.(*CallExpr)
	mark, ok := call.Args[1].(*MarkExpr)
	require.True(t, ok)
	require.Equal(t, "fmt", mark.Label)
	require.IsType(t, &StrLit{}, mark.X)
}

func TestParseNestedCall(t *testing.T) {
	stmts := parseSrc(t, `f(g(1), h());`)
	call := stmts[0].X.(*CallExpr)
	inner := call.Args[0].(*CallExpr)
	require.Equal(t, "g", inner.Callee)
	require.Len(t, inner.Args, 1)
	require.Empty(t, call.Args[1].(*CallExpr).Args)
}

func TestParseErrors(t *testing.T) {
	for _, tc := range []struct {
		name string
		src  string
	}{
		{"missing semicolon", `f(1)`},
		{"not a call", `x;`},
		{"unterminated args", `f(1,;`},
		{"int overflow", `f(3000000000);`},
		{"bad token", `f(1 + 2);`},
		{"lex error", `f("open;`},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(lex.New(strings.NewReader(tc.src), "test.c")).Parse()
			require.Error(t, err)
		})
	}
}

func TestUnwrap(t *testing.T) {
	stmts := parseSrc(t, `f((char *)((fmt: "deep")));`)
	call := stmts[0].X.(*CallExpr)
	lit, err := Unwrap(call.Args[0])
	require.NoError(t, err)
	require.Equal(t, "deep", lit.Value)

	_, err = Unwrap(&Ident{Name: "x"})
	require.Error(t, err)
}

func TestFindMarked(t *testing.T) {
	stmts := parseSrc(t, `f(fmt: (fmt: "v=%d"), 7);`)
	call := stmts[0].X.(*CallExpr)
	found, count := FindMarked(call.Args[0], "fmt")
	require.Equal(t, 2, count)
	outer, ok := found.(*MarkExpr)
	require.True(t, ok)
	require.IsType(t, &ParenExpr{}, outer.X) // first in walk order is the outer mark

	found, count = FindMarked(call.Args[1], "fmt")
	require.Nil(t, found)
	require.Zero(t, count)
}

func TestSourceRoundTrip(t *testing.T) {
	for _, src := range []string{
		`printf("hi %d\n", x);`,
		`f((char *)"s", (x), -7);`,
		`log(fd, fmt: "v=%d", v);`,
		`f(L"wide", b"raw", 'c');`,
	} {
		t.Run(src, func(t *testing.T) {
			stmts := parseSrc(t, src)
			require.Equal(t, src, SourceStmt(stmts[0]))
		})
	}
}

func TestRenderRustShapes(t *testing.T) {
	x := &Ident{Name: "msg"}
	cast := &RustCast{Ty: "char", X: &RustCast{Ty: "u8", X: &Ident{Name: "c"}}}
	require.Equal(t, "c as u8 as char", Source(cast))

	cstr := &UnsafeBlock{
		X: &MethodCall{
			X: &MethodCall{
				X: &PathCall{
					Path: "::std::ffi::CStr::from_ptr",
					Args: []Expr{&RustCast{Ty: "*const libc::c_char", X: x}},
				},
				Name: "to_str",
			},
			Name: "unwrap",
		},
	}
	require.Equal(t, "unsafe { ::std::ffi::CStr::from_ptr(msg as *const libc::c_char).to_str().unwrap() }", Source(cstr))

	mac := &MacroCall{Name: "println", FmtStr: "n={:}", Args: []Expr{&RustCast{Ty: "i32", X: &Ident{Name: "n"}}}}
	require.Equal(t, `println!("n={:}", n as i32)`, Source(mac))

	empty := &MacroCall{Name: "print", FmtStr: "done"}
	require.Equal(t, `print!("done")`, Source(empty))
}

func TestDump(t *testing.T) {
	stmts := parseSrc(t, `printf("hi", 1);`)
	b, err := Dump(stmts)
	require.NoError(t, err)
	s := string(b)
	require.Contains(t, s, `"_type"`)
	require.Contains(t, s, `"_callee": "printf"`)
	require.NotContains(t, s, `"at"`)
}
