package dice

import "go.uber.org/zap"

// Roller wraps a Source and logger so every engine roll leaves an audit trail.
// All rolls are logged at debug level with the purpose, raw value and outcome.
//
// Roller itself satisfies Source.
type Roller struct {
	src    Source
	logger *zap.Logger
}

// NewLoggedRoller creates a Roller that rolls with src and logs each roll to logger.
//
// Precondition: src must be non-nil. A nil logger is replaced with zap.NewNop().
func NewLoggedRoller(src Source, logger *zap.Logger) *Roller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Roller{src: src, logger: logger}
}

// Intn delegates to the wrapped Source without logging.
func (r *Roller) Intn(n int) int { return r.src.Intn(n) }

// Percent rolls [0, 100) for purpose and reports whether the roll is below chance.
//
// Postcondition: the roll, chance and result are logged at debug level.
func (r *Roller) Percent(purpose string, chance float64) bool {
	if chance <= 0 {
		return false
	}
	roll := r.src.Intn(100)
	hit := float64(roll) < chance
	r.logger.Debug("percent roll",
		zap.String("purpose", purpose),
		zap.Int("roll", roll),
		zap.Float64("chance", chance),
		zap.Bool("hit", hit),
	)
	return hit
}

// CoinFlip returns 0 or 1 and logs the result at debug level.
func (r *Roller) CoinFlip(purpose string) int {
	v := r.src.Intn(2)
	r.logger.Debug("coin flip",
		zap.String("purpose", purpose),
		zap.Int("result", v),
	)
	return v
}
