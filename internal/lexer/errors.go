package lexer

import "github.com/tinyjs-go/tinyjs/internal/token"

// Error is a lexical error: an unterminated string, an invalid escape,
// or an unrecognized byte. It always carries a source position, per
// spec §7's "lexical/parse errors ... carry file, line, column, and a
// message".
type Error struct {
	Pos     token.Position
	Message string
}

func (e *Error) Error() string {
	return e.Pos.String() + ": " + e.Message
}
