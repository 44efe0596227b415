package helpmd

import (
	"strconv"
	"strings"
	"unicode"

	"go.jacobcolvin.com/platyps/help"
)

const commonParametersToken = "CommonParameters"

// SyntaxLine is the result of [ParseSyntaxLine].
type SyntaxLine struct {
	CommandName      string
	Parameters       []help.SyntaxParameter
	Unrecognized     []string
	HasCmdletBinding bool
}

// ParseSyntaxLine tokenizes one invocation line written in PowerShell
// parameter-syntax notation. The first token is the command name; the rest
// are classified as:
//
//	[[-Name] <Type>]   optional, positional
//	[-Name] <Type>     mandatory, positional
//	[-Name <Type>]     optional, named
//	-Name <Type>       mandatory, named
//	[-Name]            optional switch
//	-Name              mandatory switch
//
// Positions are assigned from 0 to positional parameters only, left to
// right. Exactly one layer of angle brackets is removed from type names, so
// "<Nullable<Int32>>" yields "Nullable<Int32>". A CommonParameters token
// sets HasCmdletBinding and is otherwise ignored. Tokens matching none of
// the patterns are returned in Unrecognized.
func ParseSyntaxLine(line string) SyntaxLine {
	tokens := tokenizeSyntax(line)

	var out SyntaxLine

	if len(tokens) == 0 {
		return out
	}

	out.CommandName = tokens[0]
	position := 0

	for i := 1; i < len(tokens); i++ {
		tok := tokens[i]

		if strings.Contains(tok, commonParametersToken) && !strings.Contains(tok, "-") {
			out.HasCmdletBinding = true

			continue
		}

		next := ""
		if i+1 < len(tokens) {
			next = tokens[i+1]
		}

		p, consumed, ok := classifySyntaxToken(tok, next)
		if !ok {
			out.Unrecognized = append(out.Unrecognized, tok)

			continue
		}

		if consumed {
			i++
		}

		if p.IsPositional {
			p.Position = strconv.Itoa(position)
			position++
		}

		out.Parameters = append(out.Parameters, p)
	}

	return out
}

// classifySyntaxToken classifies tok, looking at next for a type token. It
// reports whether next was consumed.
func classifySyntaxToken(tok, next string) (help.SyntaxParameter, bool, bool) {
	p := help.SyntaxParameter{Position: help.PositionNamed}
	hasType := strings.HasPrefix(next, "<")

	switch {
	case strings.HasPrefix(tok, "[[-") && strings.HasSuffix(tok, "]") && hasType:
		// [[-Name] <Type>]
		p.Name = strings.TrimSuffix(strings.TrimPrefix(tok, "[[-"), "]")
		p.Type = stripTypeBrackets(next, true)
		p.IsPositional = true

		return p, true, p.Name != ""

	case strings.HasPrefix(tok, "[-") && strings.HasSuffix(tok, "]"):
		p.Name = strings.TrimSuffix(strings.TrimPrefix(tok, "[-"), "]")
		if hasType {
			// [-Name] <Type>
			p.Type = stripTypeBrackets(next, false)
			p.IsPositional = true
			p.IsMandatory = true

			return p, true, p.Name != ""
		}

		// [-Name]
		p.Type = help.SwitchParameterType
		p.IsSwitchParameter = true

		return p, false, p.Name != ""

	case strings.HasPrefix(tok, "[-") && hasType:
		// [-Name <Type>]
		p.Name = strings.TrimPrefix(tok, "[-")
		p.Type = stripTypeBrackets(next, true)

		return p, true, p.Name != ""

	case strings.HasPrefix(tok, "-"):
		p.Name = strings.TrimPrefix(tok, "-")
		p.IsMandatory = true

		if hasType {
			// -Name <Type>
			p.Type = stripTypeBrackets(next, false)

			return p, true, p.Name != ""
		}

		// -Name
		p.Type = help.SwitchParameterType
		p.IsSwitchParameter = true

		return p, false, p.Name != ""
	}

	return p, false, false
}

// stripTypeBrackets removes the closing "]" of an optional group when
// optional is set, then one layer of angle brackets.
func stripTypeBrackets(tok string, optional bool) string {
	if optional && strings.HasSuffix(tok, "]") && !strings.HasSuffix(tok, ">") {
		tok = strings.TrimSuffix(tok, "]")
	}

	if strings.HasPrefix(tok, "<") && strings.HasSuffix(tok, ">") {
		tok = tok[1 : len(tok)-1]
	}

	return strings.TrimSpace(tok)
}

// tokenizeSyntax splits on whitespace outside angle brackets, so type names
// containing spaces stay in one token.
func tokenizeSyntax(line string) []string {
	var (
		tokens []string
		sb     strings.Builder
		depth  int
	)

	flush := func() {
		if sb.Len() > 0 {
			tokens = append(tokens, sb.String())
			sb.Reset()
		}
	}

	for _, r := range line {
		switch {
		case r == '<':
			depth++
		case r == '>' && depth > 0:
			depth--
		case unicode.IsSpace(r) && depth == 0:
			flush()

			continue
		}

		sb.WriteRune(r)
	}

	flush()

	return tokens
}

// joinSyntaxLines joins a syntax code block that wraps over several lines.
func joinSyntaxLines(code string) string {
	return strings.Join(strings.Fields(code), " ")
}
