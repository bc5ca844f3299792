package optimize

// Request captures one optimization order. Construct with NewRequest,
// adjust fields before first use, then treat as immutable; the pipeline
// never mutates it.
type Request struct {
	QualityLevel      int  // 0..100
	ColorBudget       int  // palette ceiling, 16..256
	Lossy             bool // request lossy compression
	LossyValue        *int // explicit lossy override; nil derives from quality
	OptimizationLevel int  // gifsicle -O level, 1..3
	Careful           bool
	StripMetadata     bool
	LoopCountOverride *int // nil keeps the source loop count
}

// NewRequest builds a request for the given quality level with repository
// defaults: 256-color ceiling, -O2, metadata stripped, lossless. Quality
// outside [0,100] is clamped.
func NewRequest(quality int) Request {
	return Request{
		QualityLevel:      clampInt(quality, 0, 100),
		ColorBudget:       256,
		OptimizationLevel: 2,
		StripMetadata:     true,
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
