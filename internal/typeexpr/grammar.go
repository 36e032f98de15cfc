package typeexpr

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// typeLexer tokenizes wire type expressions.
var typeLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Keyword", Pattern: `(?i)\bnullable\b`},
	{Name: "Ident", Pattern: `[A-Za-z][A-Za-z0-9_]*`},
	{Name: "LAngle", Pattern: `<`},
	{Name: "RAngle", Pattern: `>`},
	{Name: "Question", Pattern: `\?`},
	{Name: "Whitespace", Pattern: `\s+`},
})

// rawExpr is the parse tree: "nullable<T>", "T?" or "T".
type rawExpr struct {
	Pos      lexer.Position
	Wrapped  *rawName `parser:"(  Keyword \"<\" @@ \">\""`
	Bare     *rawName `parser:" | @@ )"`
	Optional bool     `parser:"@\"?\"?"`
}

type rawName struct {
	Pos  lexer.Position
	Name string `parser:"@Ident"`
}

var parser = participle.MustBuild[rawExpr](
	participle.Lexer(typeLexer),
	participle.Elide("Whitespace"),
)
