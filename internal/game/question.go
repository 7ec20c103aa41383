package game

import (
	"math"
	"math/rand"
	"time"

	"mathblast/internal/domain"
)

type levelSpec struct {
	min, max int
	ops      []string
}

var levels = map[domain.Level]levelSpec{
	domain.LevelEasy:   {min: 1, max: 10, ops: []string{"+"}},
	domain.LevelMedium: {min: 1, max: 20, ops: []string{"+", "-"}},
	domain.LevelHard:   {min: 1, max: 50, ops: []string{"+", "-", "*", "/"}},
}

// Generator produces arithmetic questions for a difficulty level.
type Generator struct {
	rnd *rand.Rand
}

func NewGenerator() *Generator {
	return NewGeneratorWithSource(rand.NewSource(time.Now().UnixNano()))
}

// NewGeneratorWithSource allows deterministic sequences in tests.
func NewGeneratorWithSource(src rand.Source) *Generator {
	return &Generator{rnd: rand.New(src)}
}

// Generate picks an operator uniformly from the level's set and draws
// operands so the answer is always a non-negative integer:
// subtraction draws the second operand from [min, a], and multiplication
// and division bound operands by floor(sqrt(max)) to keep products small.
func (g *Generator) Generate(level domain.Level) (domain.Question, error) {
	spec, ok := levels[level]
	if !ok {
		return domain.Question{}, domain.ErrUnknownLevel
	}

	op := spec.ops[g.rnd.Intn(len(spec.ops))]
	q := domain.Question{Op: op}
	switch op {
	case "+":
		q.A = g.intn(spec.min, spec.max)
		q.B = g.intn(spec.min, spec.max)
		q.Answer = q.A + q.B
	case "-":
		q.A = g.intn(spec.min, spec.max)
		q.B = g.intn(spec.min, q.A)
		q.Answer = q.A - q.B
	case "*":
		root := int(math.Sqrt(float64(spec.max)))
		q.A = g.intn(spec.min, root)
		q.B = g.intn(spec.min, root)
		q.Answer = q.A * q.B
	case "/":
		// Draw divisor and quotient, then derive the dividend so the
		// division is always exact.
		root := int(math.Sqrt(float64(spec.max)))
		q.B = g.intn(spec.min, root)
		q.Answer = g.intn(spec.min, root)
		q.A = q.B * q.Answer
	}
	return q, nil
}

// intn draws uniformly from [min, max] inclusive.
func (g *Generator) intn(min, max int) int {
	if max <= min {
		return min
	}
	return g.rnd.Intn(max-min+1) + min
}

// Operators returns the operator set allowed at a level.
func Operators(level domain.Level) []string {
	return levels[level].ops
}
