package generators

// RegisterBuiltins registers the three built-in generator types (random,
// repeating, fixed) into r. Called once for the global registry and
// available for tests/demos that want an isolated registry instead.
func RegisterBuiltins(r *Registry) {
	_ = r.Register("random", NewRandomSequenceGenerator)
	_ = r.Register("repeating", NewRepeatingSequenceGenerator)
	_ = r.Register("fixed", func() ColumnSequenceGenerator { return NewFixedProgramGenerator(nil) })
}
