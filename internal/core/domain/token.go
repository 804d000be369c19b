package domain

import (
	"strings"

	"go.trai.ch/zerr"
)

// TokenKind discriminates command template tokens.
type TokenKind int

const (
	// TokenLiteral is literal argument text.
	TokenLiteral TokenKind = iota
	// TokenInput references an input file role of the build set.
	TokenInput
	// TokenOutput references an output file role of the build set.
	TokenOutput
)

// Token is one element of a command template. Commands are token lists
// resolved against a build set at execution time; no string substitution
// happens on rendered arguments.
//
// A bare reference token expands to one argument per file of the role. A
// reference carrying Prefix or Suffix renders as a single argument glued
// around the role's first file, which is how flag-joined forms like
// -o<file> are expressed.
type Token struct {
	Kind   TokenKind
	Text   string // literal text (TokenLiteral only)
	Role   string // referenced role (TokenInput/TokenOutput)
	Prefix string
	Suffix string
}

// Lit returns a literal token.
func Lit(text string) Token {
	return Token{Kind: TokenLiteral, Text: text}
}

// Input returns a token referencing an input role.
func Input(role string) Token {
	return Token{Kind: TokenInput, Role: role}
}

// Output returns a token referencing an output role.
func Output(role string) Token {
	return Token{Kind: TokenOutput, Role: role}
}

// Embedded returns a copy of a reference token glued between prefix and
// suffix. The rendered form uses the first file of the role.
func (t Token) Embedded(prefix, suffix string) Token {
	t.Prefix = prefix
	t.Suffix = suffix
	return t
}

// render expands the token against a build set.
func (t Token) render(bs *BuildSet) ([]string, error) {
	if t.Kind == TokenLiteral {
		return []string{t.Text}, nil
	}

	var files []string
	var ok bool
	switch t.Kind {
	case TokenInput:
		files, ok = bs.inputs[t.Role]
	case TokenOutput:
		files, ok = bs.outputs[t.Role]
	}
	if !ok {
		return nil, zerr.With(zerr.With(ErrUnknownRole, "role", t.Role), "build_set", bs.Label())
	}

	if t.Prefix == "" && t.Suffix == "" {
		out := make([]string, len(files))
		copy(out, files)
		return out, nil
	}
	if len(files) == 0 {
		return nil, zerr.With(zerr.With(ErrEmptyRole, "role", t.Role), "build_set", bs.Label())
	}
	return []string{t.Prefix + files[0] + t.Suffix}, nil
}

// RenderCommand expands one command template against a build set.
func RenderCommand(tokens []Token, bs *BuildSet) ([]string, error) {
	argv := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		args, err := tok.render(bs)
		if err != nil {
			return nil, err
		}
		argv = append(argv, args...)
	}
	return argv, nil
}

// RenderCommands expands all command templates of an operator against a
// build set, in template order.
func RenderCommands(commands [][]Token, bs *BuildSet) ([][]string, error) {
	out := make([][]string, 0, len(commands))
	for _, tokens := range commands {
		argv, err := RenderCommand(tokens, bs)
		if err != nil {
			return nil, err
		}
		out = append(out, argv)
	}
	return out, nil
}

// renderFlat joins every rendered command into one token stream, used by
// the build set fingerprint.
func renderFlat(commands [][]Token, bs *BuildSet) ([]string, error) {
	var flat []string
	for _, tokens := range commands {
		argv, err := RenderCommand(tokens, bs)
		if err != nil {
			return nil, err
		}
		flat = append(flat, argv...)
	}
	return flat, nil
}

// expandDescription substitutes ${role} references in a description with
// the role's first file, inputs taking priority over outputs. Unknown
// roles are left verbatim; this is display text, not a command.
func expandDescription(desc string, bs *BuildSet) string {
	var b strings.Builder
	for {
		start := strings.Index(desc, "${")
		if start < 0 {
			b.WriteString(desc)
			return b.String()
		}
		end := strings.Index(desc[start:], "}")
		if end < 0 {
			b.WriteString(desc)
			return b.String()
		}
		end += start
		role := desc[start+2 : end]

		b.WriteString(desc[:start])
		if files, ok := bs.inputs[role]; ok && len(files) > 0 {
			b.WriteString(files[0])
		} else if files, ok := bs.outputs[role]; ok && len(files) > 0 {
			b.WriteString(files[0])
		} else {
			b.WriteString(desc[start : end+1])
		}
		desc = desc[end+1:]
	}
}
