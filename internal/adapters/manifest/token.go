package manifest

import (
	"strings"

	"go.trai.ch/zerr"

	"go.trai.ch/mason/internal/core/domain"
)

// Command template grammar, per token:
//
//	$<role          whole token, expands to every file of the input role
//	$@role          whole token, expands to every file of the output role
//	text${<role}text  single argument, first file of the input role
//	text${@role}text  single argument, first file of the output role
//	$$              a literal dollar sign
//
// Any other dollar sign passes through verbatim, so shell fragments like
// "echo $HOME" survive untouched.

func parseCommands(commands [][]string) ([][]domain.Token, error) {
	out := make([][]domain.Token, 0, len(commands))
	for _, command := range commands {
		tokens := make([]domain.Token, 0, len(command))
		for _, text := range command {
			tok, err := parseToken(text)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, tok)
		}
		out = append(out, tokens)
	}
	return out, nil
}

func parseToken(text string) (domain.Token, error) {
	if role, ok := strings.CutPrefix(text, "$<"); ok {
		if !isRoleName(role) {
			return domain.Token{}, zerr.With(zerr.New("malformed input role reference"), "token", text)
		}
		return domain.Input(role), nil
	}
	if role, ok := strings.CutPrefix(text, "$@"); ok {
		if !isRoleName(role) {
			return domain.Token{}, zerr.With(zerr.New("malformed output role reference"), "token", text)
		}
		return domain.Output(role), nil
	}

	var b strings.Builder
	var ref *domain.Token
	var prefix string

	i := 0
	for i < len(text) {
		if text[i] != '$' {
			b.WriteByte(text[i])
			i++
			continue
		}

		if strings.HasPrefix(text[i:], "$$") {
			b.WriteByte('$')
			i += 2
			continue
		}

		if strings.HasPrefix(text[i:], "${<") || strings.HasPrefix(text[i:], "${@") {
			end := strings.IndexByte(text[i:], '}')
			if end < 0 {
				return domain.Token{}, zerr.With(zerr.New("unterminated role reference"), "token", text)
			}
			role := text[i+3 : i+end]
			if !isRoleName(role) {
				return domain.Token{}, zerr.With(zerr.New("malformed role reference"), "token", text)
			}
			if ref != nil {
				return domain.Token{}, zerr.With(zerr.New("multiple role references in one token"), "token", text)
			}

			var tok domain.Token
			if text[i+2] == '<' {
				tok = domain.Input(role)
			} else {
				tok = domain.Output(role)
			}
			ref = &tok
			prefix = b.String()
			b.Reset()
			i += end + 1
			continue
		}

		b.WriteByte('$')
		i++
	}

	if ref == nil {
		return domain.Lit(b.String()), nil
	}
	suffix := b.String()
	if prefix == "" && suffix == "" {
		return *ref, nil
	}
	return ref.Embedded(prefix, suffix), nil
}

func isRoleName(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '_' || r == '-' || r == '.':
		default:
			return false
		}
	}
	return true
}
