package eparser

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/samber/lo"

	"github.com/vingarcia/vizpipe"
)

type ParsingCtx struct {
	currentLine   int
	lastLineStart int
}

func (p *ParsingCtx) HandleNewLine(newLineRuneIdx int) {
	p.currentLine++
	p.lastLineStart = newLineRuneIdx + 1
}

func (p ParsingCtx) FormatLineCol(i int) string {
	return strconv.Itoa(p.currentLine) + ":" + strconv.Itoa(i-p.lastLineStart)
}

// Parse decodes an aggregation expression such as `sum(Crimes)`
// or `mean("Arrival Delay")` into an AggregationSpec.
//
// The operation name is case insensitive, the column is either a
// bare identifier or a quoted string and a trailing ';' is allowed.
func Parse(strExpr string) (vizpipe.AggregationSpec, error) {
	if strings.TrimSpace(strExpr) == "" {
		return vizpipe.AggregationSpec{}, vizpipe.SyntaxErr("cannot build an aggregation from an empty string", nil)
	}

	expr := []rune(strExpr)
	var parsingCtx ParsingCtx

	i := consumeSpaces(expr, 0, &parsingCtx)
	if !isVarChar(expr[i]) {
		return vizpipe.AggregationSpec{}, vizpipe.SyntaxErr("expected an aggregation name", map[string]any{
			"pos": parsingCtx.FormatLineCol(i),
		})
	}

	opPos := parsingCtx.FormatLineCol(i)
	i, opName := parseVar(expr, i)
	op := vizpipe.Operation(strings.ToLower(opName))
	if !lo.Contains(vizpipe.Operations, op) {
		return vizpipe.AggregationSpec{}, vizpipe.SyntaxErr("unknown aggregation", map[string]any{
			"aggregation": opName,
			"pos":         opPos,
			"supported":   vizpipe.Operations,
		})
	}

	i = consumeSpaces(expr, i, &parsingCtx)
	i, err := expectRune(expr, i, '(', parsingCtx)
	if err != nil {
		return vizpipe.AggregationSpec{}, err
	}

	i = consumeSpaces(expr, i, &parsingCtx)
	var column string
	switch {
	case i < len(expr) && (expr[i] == '\'' || expr[i] == '"'):
		i, column, err = parseString(expr, i, &parsingCtx)
		if err != nil {
			return vizpipe.AggregationSpec{}, err
		}
	case i < len(expr) && isVarChar(expr[i]):
		i, column = parseVar(expr, i)
	default:
		return vizpipe.AggregationSpec{}, vizpipe.SyntaxErr("expected a column name", map[string]any{
			"pos": parsingCtx.FormatLineCol(i),
		})
	}

	i = consumeSpaces(expr, i, &parsingCtx)
	i, err = expectRune(expr, i, ')', parsingCtx)
	if err != nil {
		return vizpipe.AggregationSpec{}, err
	}

	i = consumeSpaces(expr, i, &parsingCtx)
	if i < len(expr) && expr[i] == ';' {
		i = consumeSpaces(expr, i+1, &parsingCtx)
	}

	if i < len(expr) {
		return vizpipe.AggregationSpec{}, vizpipe.SyntaxErr("unexpected characters after the aggregation", map[string]any{
			"pos":   parsingCtx.FormatLineCol(i),
			"extra": string(expr[i:]),
		})
	}

	return vizpipe.AggregationSpec{
		ValueColumn: column,
		Operation:   op,
	}, nil
}

func expectRune(expr []rune, i int, r rune, parsingCtx ParsingCtx) (newIndex int, _ error) {
	if i >= len(expr) {
		return 0, vizpipe.SyntaxErr("unexpected end of expression", map[string]any{
			"expected": string(r),
			"pos":      parsingCtx.FormatLineCol(i),
		})
	}

	if expr[i] != r {
		return 0, vizpipe.SyntaxErr("unexpected character", map[string]any{
			"expected": string(r),
			"got":      string(expr[i]),
			"pos":      parsingCtx.FormatLineCol(i),
		})
	}

	return i + 1, nil
}

// parseString parses a quoted literal starting at index,
// the quote character itself included.
func parseString(expr []rune, index int, parsingCtx *ParsingCtx) (newIndex int, str string, _ error) {
	quote := expr[index]
	formattedPos := parsingCtx.FormatLineCol(index)

	i := index + 1
	runes := []rune{}
	for i < len(expr) && expr[i] != quote && expr[i] != '\n' {
		if expr[i] == '\\' && i+1 < len(expr) {
			switch expr[i+1] {
			case 'n':
				i += 2
				runes = append(runes, '\n')

			case 't':
				i += 2
				runes = append(runes, '\t')

			default:
				// Escaped quotes and backslashes are kept verbatim:
				i++
				runes = append(runes, expr[i])
				i++
			}
		} else {
			runes = append(runes, expr[i])
			i++
		}
	}

	if i >= len(expr) || expr[i] != quote {
		return 0, "", vizpipe.SyntaxErr("string literal not terminated", map[string]any{
			"startedAt": formattedPos,
		})
	}

	if len(runes) == 0 {
		return 0, "", vizpipe.SyntaxErr("column name cannot be empty", map[string]any{
			"pos": formattedPos,
		})
	}

	return i + 1, string(runes), nil
}

// consumeSpaces returns the index of the first non space
// rune at or after index, or len(expr) if there is none.
func consumeSpaces(expr []rune, index int, parsingCtx *ParsingCtx) (newIndex int) {
	for i := index; i < len(expr); i++ {
		if expr[i] == '\n' {
			parsingCtx.HandleNewLine(i)
		}
		if !unicode.IsSpace(expr[i]) {
			return i
		}
	}

	return len(expr)
}

// isVarChar checks if a character is the first character of a variable:
func isVarChar(c rune) bool {
	return unicode.IsLetter(c) || c == '_'
}

func parseVar(expr []rune, index int) (newIndex int, varName string) {
	// parseVar assumes the first character is already a valid starting
	// character for a varname, so we skip it:
	for i := index + 1; i < len(expr); i++ {
		if !isVarChar(expr[i]) && !unicode.IsNumber(expr[i]) {
			return i, string(expr[index:i])
		}
	}

	return len(expr), string(expr[index:])
}
