package dice

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	// ErrInvalidFormula is returned when the sanitized formula is not a valid
	// arithmetic expression
	ErrInvalidFormula = errors.New("invalid formula")

	// ErrDivisionByZero is returned when a formula divides by zero
	ErrDivisionByZero = errors.New("division by zero")
)

const (
	maxFormulaDice  = 1000
	maxFormulaDepth = 64
)

var (
	formulaDiceRegex = regexp.MustCompile(`(?i)(\d+)d(\d+)`)

	// Everything outside digits and + - * / ( ) is dropped before evaluation.
	formulaStripRegex = regexp.MustCompile(`[^0-9+\-*/()]`)

	// Numbers separated only by dropped characters, as in "2 3".
	formulaGluedRegex = regexp.MustCompile(`\d[^0-9+\-*/()]+\d`)
)

// FormulaResult is the outcome of a free-text formula such as "1d10+5+1d4"
type FormulaResult struct {
	Formula    string        `json:"formula"`    // text as received
	Expression string        `json:"expression"` // arithmetic actually evaluated, dice substituted
	Rolls      []*RollResult `json:"rolls"`      // one per dice term, in order of appearance
	Total      int           `json:"total"`
}

// Breakdown renders the rolled dice as "1d10(7) + 1d4(2)"
func (f *FormulaResult) Breakdown() string {
	labels := make([]string, len(f.Rolls))
	for i, r := range f.Rolls {
		labels[i] = r.Label()
	}
	return strings.Join(labels, " + ")
}

// EvaluateFormula rolls every NdM term in formula, substitutes the totals
// and evaluates the remaining integer arithmetic. Division floors.
func EvaluateFormula(formula string, roller Roller) (*FormulaResult, error) {
	result := &FormulaResult{Formula: formula}

	var sb strings.Builder
	last := 0
	for _, m := range formulaDiceRegex.FindAllStringSubmatchIndex(formula, -1) {
		count, countErr := strconv.Atoi(formula[m[2]:m[3]])
		sides, sidesErr := strconv.Atoi(formula[m[4]:m[5]])
		if countErr != nil || sidesErr != nil || count > maxFormulaDice {
			return nil, fmt.Errorf("%w: dice term %q", ErrInvalidDice, formula[m[0]:m[1]])
		}

		rolled, err := roller.Roll(count, sides, 0)
		if err != nil {
			return nil, fmt.Errorf("failed to roll %q: %w", formula[m[0]:m[1]], err)
		}
		result.Rolls = append(result.Rolls, rolled)

		sb.WriteString(formula[last:m[0]])
		sb.WriteString(strconv.Itoa(rolled.Total))
		last = m[1]
	}
	sb.WriteString(formula[last:])

	if glued := formulaGluedRegex.FindString(sb.String()); glued != "" {
		return nil, fmt.Errorf("%w: missing operator in %q", ErrInvalidFormula, glued)
	}
	result.Expression = formulaStripRegex.ReplaceAllString(sb.String(), "")

	total, err := evalArithmetic(result.Expression)
	if err != nil {
		return nil, err
	}
	result.Total = total

	return result, nil
}

// evalArithmetic evaluates an expression made only of digits and + - * / ( )
func evalArithmetic(expr string) (int, error) {
	if expr == "" {
		return 0, fmt.Errorf("%w: empty expression", ErrInvalidFormula)
	}

	p := &arithParser{src: expr}
	value, err := p.parseExpr(0)
	if err != nil {
		return 0, err
	}
	if p.pos != len(p.src) {
		return 0, fmt.Errorf("%w: unexpected %q at %d", ErrInvalidFormula, p.src[p.pos], p.pos)
	}
	return value, nil
}

type arithParser struct {
	src string
	pos int
}

func (p *arithParser) peek() byte {
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

// expr := term (('+' | '-') term)*
func (p *arithParser) parseExpr(depth int) (int, error) {
	if depth > maxFormulaDepth {
		return 0, fmt.Errorf("%w: nesting too deep", ErrInvalidFormula)
	}

	left, err := p.parseTerm(depth)
	if err != nil {
		return 0, err
	}
	for {
		op := p.peek()
		if op != '+' && op != '-' {
			return left, nil
		}
		p.pos++
		right, err := p.parseTerm(depth)
		if err != nil {
			return 0, err
		}
		if op == '-' {
			if right == math.MinInt {
				return 0, errOutOfRange
			}
			right = -right
		}
		if left, err = checkedAdd(left, right); err != nil {
			return 0, err
		}
	}
}

// term := unary (('*' | '/') unary)*
func (p *arithParser) parseTerm(depth int) (int, error) {
	left, err := p.parseUnary(depth)
	if err != nil {
		return 0, err
	}
	for {
		op := p.peek()
		if op != '*' && op != '/' {
			return left, nil
		}
		p.pos++
		right, err := p.parseUnary(depth)
		if err != nil {
			return 0, err
		}
		if op == '*' {
			if left, err = checkedMul(left, right); err != nil {
				return 0, err
			}
			continue
		}
		if right == 0 {
			return 0, ErrDivisionByZero
		}
		if left == math.MinInt && right == -1 {
			return 0, errOutOfRange
		}
		left = floorDiv(left, right)
	}
}

// unary := ('+' | '-') unary | primary
func (p *arithParser) parseUnary(depth int) (int, error) {
	if depth > maxFormulaDepth {
		return 0, fmt.Errorf("%w: nesting too deep", ErrInvalidFormula)
	}
	switch p.peek() {
	case '-':
		p.pos++
		v, err := p.parseUnary(depth + 1)
		if err != nil {
			return 0, err
		}
		if v == math.MinInt {
			return 0, errOutOfRange
		}
		return -v, nil
	case '+':
		p.pos++
		return p.parseUnary(depth + 1)
	}
	return p.parsePrimary(depth)
}

// primary := number | '(' expr ')'
func (p *arithParser) parsePrimary(depth int) (int, error) {
	if p.peek() == '(' {
		p.pos++
		v, err := p.parseExpr(depth + 1)
		if err != nil {
			return 0, err
		}
		if p.peek() != ')' {
			return 0, fmt.Errorf("%w: missing ')'", ErrInvalidFormula)
		}
		p.pos++
		return v, nil
	}

	start := p.pos
	for p.pos < len(p.src) && p.src[p.pos] >= '0' && p.src[p.pos] <= '9' {
		p.pos++
	}
	if start == p.pos {
		if p.pos >= len(p.src) {
			return 0, fmt.Errorf("%w: unexpected end of expression", ErrInvalidFormula)
		}
		return 0, fmt.Errorf("%w: unexpected %q at %d", ErrInvalidFormula, p.src[p.pos], p.pos)
	}

	v, err := strconv.Atoi(p.src[start:p.pos])
	if err != nil {
		return 0, fmt.Errorf("%w: number %q out of range", ErrInvalidFormula, p.src[start:p.pos])
	}
	return v, nil
}

var errOutOfRange = fmt.Errorf("%w: result out of range", ErrInvalidFormula)

func checkedAdd(a, b int) (int, error) {
	if (b > 0 && a > math.MaxInt-b) || (b < 0 && a < math.MinInt-b) {
		return 0, errOutOfRange
	}
	return a + b, nil
}

func checkedMul(a, b int) (int, error) {
	if a == 0 || b == 0 {
		return 0, nil
	}
	r := a * b
	if r/b != a || (a == -1 && b == math.MinInt) || (b == -1 && a == math.MinInt) {
		return 0, errOutOfRange
	}
	return r, nil
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
