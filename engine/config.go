package engine

import "fmt"

// Mode selects which scorer the Matcher Facade runs.
type Mode string

const (
	ModeIndividual     Mode = "individual"
	ModeHolisticFull   Mode = "holistic_full"
	ModeHolisticSimple Mode = "holistic_simple"
)

// MatchConfig is the single immutable configuration record that flows into
// Match. It is never read from process-global state.
type MatchConfig struct {
	Mode Mode `yaml:"mode"`

	// Threshold is the Extractor strength knob, 0-100.
	Threshold int `yaml:"threshold"`

	// PatternSize is the Pattern's side length S.
	PatternSize int `yaml:"patternSize"`

	// MinScale, MaxScale, ScaleSteps define the scale ladder for full
	// holistic search. The search ignores them (scale forced to {1.0}) in
	// simplified mode, but Validate rejects ScaleSteps < 1 in every mode.
	MinScale   float64 `yaml:"minScale"`
	MaxScale   float64 `yaml:"maxScale"`
	ScaleSteps int     `yaml:"scaleSteps"`

	// AngleStep is the rotation sampling increment in degrees over
	// [0, 360). Ignored (forced to {0}) in simplified mode.
	AngleStep float64 `yaml:"angleStep"`

	// TRange and TStep define the translation lattice: tx, ty sampled over
	// [-TRange, +TRange] with spacing TStep.
	TRange int `yaml:"tRange"`
	TStep  int `yaml:"tStep"`

	// MinScore is an IoU floor in [0, 1], checked by Validate. Match does not
	// read it: results below it are reported like any other, and no
	// "no confident match" flag is set on them.
	MinScore float64 `yaml:"minScore"`

	// Simplify forces the scale ladder to {1.0} and the rotation set to
	// {0 degrees}, searching only translations. This is the default mode.
	Simplify bool `yaml:"simplify"`

	// Workers caps the number of goroutines used to evaluate the
	// (scale, rotation) grid in parallel. Zero means GOMAXPROCS.
	Workers int `yaml:"workers"`
}

// DefaultMatchConfig returns the default configuration: simplified
// (translation-only) holistic search.
func DefaultMatchConfig() MatchConfig {
	return MatchConfig{
		Mode:        ModeHolisticSimple,
		Threshold:   50,
		PatternSize: 512,
		MinScale:    0.5,
		MaxScale:    2.0,
		ScaleSteps:  10,
		AngleStep:   10,
		TRange:      50,
		TStep:       10,
		MinScore:    0.15,
		Simplify:    true,
	}
}

// Validate checks the configuration for out-of-range values, returning an
// error wrapping ErrConfigOutOfRange. Validation happens before any work is
// done.
func (c MatchConfig) Validate() error {
	switch {
	case c.PatternSize < 32:
		return fmt.Errorf("%w: pattern_size %d < 32", ErrConfigOutOfRange, c.PatternSize)
	case c.Threshold < 0 || c.Threshold > 100:
		return fmt.Errorf("%w: threshold %d not in [0,100]", ErrConfigOutOfRange, c.Threshold)
	case c.ScaleSteps < 1:
		return fmt.Errorf("%w: scale_steps %d < 1", ErrConfigOutOfRange, c.ScaleSteps)
	case !c.Simplify && c.MaxScale < c.MinScale:
		return fmt.Errorf("%w: max_scale %v < min_scale %v", ErrConfigOutOfRange, c.MaxScale, c.MinScale)
	case !c.Simplify && c.AngleStep <= 0:
		return fmt.Errorf("%w: angle_step %v <= 0", ErrConfigOutOfRange, c.AngleStep)
	case c.TStep <= 0:
		return fmt.Errorf("%w: tstep %d <= 0", ErrConfigOutOfRange, c.TStep)
	case c.TRange < 0:
		return fmt.Errorf("%w: trange %d < 0", ErrConfigOutOfRange, c.TRange)
	case c.MinScore < 0 || c.MinScore > 1:
		return fmt.Errorf("%w: min_score %v not in [0,1]", ErrConfigOutOfRange, c.MinScore)
	}
	return nil
}

// ThresholdToCanny derives the (low, high) hysteresis thresholds from the
// 0-100 strength knob. Higher threshold means tighter thresholds (fewer,
// stronger edges). Kept as its own function so the mapping can be
// re-tuned independently of the rest of the Extractor.
func ThresholdToCanny(threshold int) (low, high float64) {
	low = clampF(30+(float64(threshold)-50)*1.4, 10, 255)
	high = clampF(2*low, 20, 255)
	return low, high
}

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
