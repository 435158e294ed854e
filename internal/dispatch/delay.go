package dispatch

import (
	"math/rand/v2"
	"time"

	"github.com/payroll-tools/payslip-mailer/internal/common"
)

// Throttle is the production DelayPolicy: a fixed retry delay, a randomized
// per-record delay to avoid bursty sending, and a long cooling-off pause
// between batches to respect provider rate limits.
type Throttle struct {
	retryDelay     time.Duration
	recordDelayMin time.Duration
	recordDelayMax time.Duration
	batchPause     time.Duration
}

func NewThrottle(cfg common.DispatchConfig) *Throttle {
	return &Throttle{
		retryDelay:     cfg.RetryDelay,
		recordDelayMin: cfg.RecordDelayMin,
		recordDelayMax: cfg.RecordDelayMax,
		batchPause:     cfg.BatchPause,
	}
}

func (t *Throttle) RetryWait() { time.Sleep(t.retryDelay) }

func (t *Throttle) RecordWait() {
	span := t.recordDelayMax - t.recordDelayMin
	if span < 0 {
		span = 0
	}
	// Inclusive of both bounds.
	time.Sleep(t.recordDelayMin + time.Duration(rand.Int64N(int64(span)+1)))
}

func (t *Throttle) BatchWait() { time.Sleep(t.batchPause) }
