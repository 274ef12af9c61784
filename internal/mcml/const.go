package mcml

const (
	// cosZero is the threshold above which a direction cosine is treated as
	// exactly normal (|cos| == 1).
	cosZero = 1.0 - 1.0e-12
	// cos90D is the threshold below which an incidence cosine grazes the
	// interface (angle ~90 degrees).
	cos90D = 1.0e-6

	DefaultWeightThreshold = 1e-4
	DefaultChance          = 0.1
	DefaultPhotons         = 100_000
	DefaultGamma           = 0.75
	DefaultGIFDelay        = 10 // 100ths of a second per frame
	TaskPhotons            = 5000
	ProgressSteps          = 100 // ~1% progress lines
)
