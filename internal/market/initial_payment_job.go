package market

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/goodnatureofminers/hashyield-backend/internal/clock"
	"github.com/goodnatureofminers/hashyield-backend/internal/model"
	"go.uber.org/zap"
)

const defaultJobInterval = time.Minute

// InitialPaymentJob generates the dynamic-profile initial payment as admin
// once the engine enters observation.
type InitialPaymentJob struct {
	engine   Engine
	inputs   RatioSource
	admin    common.Address
	logger   *zap.Logger
	sleep    func(context.Context, time.Duration) error
	interval time.Duration
}

func NewInitialPaymentJob(engine Engine, inputs RatioSource, admin common.Address, interval time.Duration, logger *zap.Logger) (*InitialPaymentJob, error) {
	if engine == nil {
		return nil, errors.New("initial payment job engine is required")
	}
	if inputs == nil {
		return nil, errors.New("initial payment job inputs are required")
	}
	if interval <= 0 {
		interval = defaultJobInterval
	}
	return &InitialPaymentJob{
		engine:   engine,
		inputs:   inputs,
		admin:    admin,
		logger:   logger.Named("initial_payment"),
		sleep:    clock.SleepWithContext,
		interval: interval,
	}, nil
}

// Run polls until the payment exists or the engine has passed the window.
func (j *InitialPaymentJob) Run(ctx context.Context) error {
	for {
		done, err := j.run()
		if err != nil {
			j.logger.Warn("initial payment attempt failed", zap.Error(err))
		}
		if done {
			return nil
		}
		if err := j.sleep(ctx, j.interval); err != nil {
			return err
		}
	}
}

func (j *InitialPaymentJob) run() (bool, error) {
	if p, ok := j.engine.InitialPayment(); ok {
		j.logger.Debug("initial payment already generated", zap.Uint64("ratio", p.Ratio))
		return true, nil
	}

	stage := j.engine.Stage()
	switch stage {
	case model.StageInactive, model.StageActiveCollection:
		return false, nil
	case model.StageActiveObservation, model.StageActive:
	default:
		j.logger.Info("initial payment window closed", zap.Stringer("stage", stage))
		return true, nil
	}

	in, err := j.inputs.RatioInputs()
	if err != nil {
		return false, fmt.Errorf("ratio inputs: %w", err)
	}
	p, err := j.engine.GenerateInitialPayment(j.admin, in)
	if errors.Is(err, model.ErrAlreadyDone) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("generate initial payment: %w", err)
	}
	j.logger.Info("initial payment generated",
		zap.Uint64("ratio", p.Ratio),
		zap.Bool("clamped", p.Clamped),
		zap.Uint64("hg", in.HG),
	)
	return true, nil
}
