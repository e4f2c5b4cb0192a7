package app

import (
	"context"
	"errors"
	"os/signal"
	"time"

	"go.uber.org/zap"
)

// Service 可独立启停的进程组件（HTTP 接口、通知队列消费者）
type Service interface {
	Name() string
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

// Runner 服务运行器
type Runner struct {
	services []Service
}

// NewRunner 创建服务运行器，nil 服务在启动时报错
func NewRunner(services ...Service) *Runner {
	return &Runner{services: services}
}

// RunWithOptions 运行服务，收到退出信号后优雅停止
func RunWithOptions(runner *Runner, opts Options) error {
	if runner == nil {
		return errors.New("runner is nil")
	}
	opts = normalizeOptions(opts)
	ctx := context.Background()
	if len(opts.Signals) > 0 {
		var cancel context.CancelFunc
		ctx, cancel = signal.NotifyContext(ctx, opts.Signals...)
		defer cancel()
	}
	return runner.Run(ctx, opts.ShutdownTimeout, opts.Logger)
}

// Run 并发启动全部服务；任一服务退出或 ctx 结束后按启动逆序停止全部服务。
// ctx 取消视为正常退出。
func (r *Runner) Run(ctx context.Context, stopTimeout time.Duration, log *zap.SugaredLogger) error {
	if r == nil || len(r.services) == 0 {
		return errors.New("no services to run")
	}
	for _, svc := range r.services {
		if svc == nil {
			return errors.New("service is nil")
		}
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	type exit struct {
		name string
		err  error
	}
	exitCh := make(chan exit, len(r.services))
	for _, svc := range r.services {
		go func(svc Service) {
			logInfo(log, "service_start", "service", svc.Name())
			exitCh <- exit{name: svc.Name(), err: svc.Start(ctx)}
		}(svc)
	}

	var runErr error
	select {
	case <-ctx.Done():
		runErr = ctx.Err()
	case first := <-exitCh:
		runErr = first.err
		if runErr != nil {
			logError(log, "service_failed", "service", first.name, "error", runErr)
		} else {
			logInfo(log, "service_exit", "service", first.name)
		}
	}
	cancel()

	if stopTimeout <= 0 {
		stopTimeout = 10 * time.Second
	}
	stopCtx, stopCancel := context.WithTimeout(context.Background(), stopTimeout)
	defer stopCancel()
	for i := len(r.services) - 1; i >= 0; i-- {
		svc := r.services[i]
		startedAt := time.Now()
		if err := svc.Stop(stopCtx); err != nil {
			logError(log, "service_stop_failed", "service", svc.Name(), "error", err)
			continue
		}
		logInfo(log, "service_stopped", "service", svc.Name(), "elapsed", time.Since(startedAt).String())
	}

	if errors.Is(runErr, context.Canceled) {
		return nil
	}
	return runErr
}

func logInfo(log *zap.SugaredLogger, msg string, kv ...interface{}) {
	if log != nil {
		log.Infow(msg, kv...)
	}
}

func logError(log *zap.SugaredLogger, msg string, kv ...interface{}) {
	if log != nil {
		log.Errorw(msg, kv...)
	}
}
