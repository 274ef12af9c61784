package mcml

var (
	Debug = false // set to true for verbose debug output
	// Compile time check that the generator used by workers satisfies Rand.
	_ Rand = (*mtRand)(nil)
)
