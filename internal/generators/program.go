package generators

// FixedProgramGenerator replays an explicit, caller-supplied list of
// active-column patterns in order, cycling once it reaches the end. Unlike
// RandomSequenceGenerator and RepeatingSequenceGenerator, it never invents
// patterns of its own: it is the generator for tests that need exact
// control over every step's input, mirroring spec.md §8's scenario
// constructions (e.g. "compute([0], true) then compute([1], true)").
type FixedProgramGenerator struct {
	config  GeneratorConfig
	program [][]int
}

// NewFixedProgramGenerator returns a generator that replays program in
// order. program must contain at least one step (or Configure must supply
// one through CustomParams["program"]); otherwise Configure returns
// ErrEmptyProgram and Validate returns a ValidationError with its message.
func NewFixedProgramGenerator(program [][]int) ColumnSequenceGenerator {
	return &FixedProgramGenerator{program: program}
}

// Configure validates config and the wrapped program. NumColumns bounds
// the range every column index in program must fall within. If no program
// was supplied at construction, a CustomParams["program"] ([][]int) entry
// is adopted instead, so a FixedProgramGenerator can also be obtained
// through the registry (Create("fixed")) and configured like any other
// generator.
func (g *FixedProgramGenerator) Configure(config GeneratorConfig) error {
	if err := config.ValidateNumColumns(); err != nil {
		return err
	}
	if len(g.program) == 0 {
		if raw, ok := config.GetParam("program"); ok {
			program, ok := raw.([][]int)
			if !ok {
				return &ConfigurationError{Parameter: "program", Value: raw, Reason: "must be [][]int"}
			}
			g.program = program
		}
	}
	if len(g.program) == 0 {
		return ErrEmptyProgram
	}
	for stepIdx, pattern := range g.program {
		for _, col := range pattern {
			if col < 0 || col >= config.NumColumns {
				return &ConfigurationError{
					Parameter: "program",
					Value:     col,
					Reason:    "column index out of range for configured NumColumns",
				}
			}
			_ = stepIdx
		}
	}
	g.config = config
	return nil
}

// Validate reports whether the generator has a usable, non-empty program.
func (g *FixedProgramGenerator) Validate() error {
	if len(g.program) == 0 {
		return &ValidationError{Component: "program", Reason: ErrEmptyProgram.Error()}
	}
	return g.config.ValidateNumColumns()
}

// Generate returns program[step % len(program)]. Negative steps are
// rejected since the program has no notion of a step before the start.
func (g *FixedProgramGenerator) Generate(step int) ([]int, error) {
	if len(g.program) == 0 {
		return nil, &GenerationError{GeneratorType: "fixed", Step: step, Reason: ErrEmptyProgram.Error()}
	}
	if step < 0 {
		return nil, &GenerationError{GeneratorType: "fixed", Step: step, Reason: "step must be non-negative"}
	}
	pattern := g.program[step%len(g.program)]
	return append([]int(nil), pattern...), nil
}

// Metadata describes this generator's characteristics.
func (g *FixedProgramGenerator) Metadata() GeneratorMetadata {
	return GeneratorMetadata{
		Type:          "fixed",
		NumColumns:    g.config.NumColumns,
		Sparsity:      g.config.TargetSparsity,
		Deterministic: true,
		Capabilities:  map[string]interface{}{"program_length": len(g.program)},
	}
}

// Clone returns a new generator sharing the same immutable program and
// configuration.
func (g *FixedProgramGenerator) Clone() ColumnSequenceGenerator {
	return &FixedProgramGenerator{config: g.config, program: g.program}
}

// Reset is a no-op: FixedProgramGenerator is stateless beyond the step
// argument it is given, so there is nothing to rewind.
func (g *FixedProgramGenerator) Reset() {}
