package dice

import "go.uber.org/zap"

// loggedRoller wraps a Roller and logs every roll at debug level
type loggedRoller struct {
	next   Roller
	logger *zap.Logger
}

// NewLoggedRoller returns a Roller that delegates to next and logs each
// result with its dice, bonus and total.
func NewLoggedRoller(next Roller, logger *zap.Logger) Roller {
	if logger == nil {
		return next
	}
	return &loggedRoller{next: next, logger: logger}
}

func (l *loggedRoller) Roll(count, sides, bonus int) (*RollResult, error) {
	result, err := l.next.Roll(count, sides, bonus)
	if err != nil {
		l.logger.Warn("dice roll failed",
			zap.Int("count", count),
			zap.Int("sides", sides),
			zap.Error(err),
		)
		return nil, err
	}
	l.logger.Debug("dice roll",
		zap.String("term", result.Term().String()),
		zap.Ints("rolls", result.Rolls),
		zap.Int("bonus", result.Bonus),
		zap.Int("total", result.Total),
	)
	return result, nil
}
