package app

import (
	"errors"

	"github.com/vendorlink/internal/config"
	"github.com/vendorlink/internal/provider"
	"github.com/vendorlink/internal/router"
	"github.com/vendorlink/internal/worker"
)

// BuildRunner 按模式组装需要启动的服务
func BuildRunner(cfg *config.Config, mode string) (*Runner, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	wantAPI := mode == ModeAll || mode == ModeAPI
	wantWorker := mode == ModeAll || mode == ModeWorker
	if !wantAPI && !wantWorker {
		return nil, errors.New("unknown run mode " + mode)
	}

	container := provider.NewContainer(cfg)
	var services []Service
	if wantAPI {
		services = append(services, NewHTTPService(listenAddr(cfg), router.SetupRouter(cfg, container)))
	}
	if wantWorker {
		workerService, err := worker.NewService(&cfg.Queue, cfg.Snapshot, worker.NewConsumer(container))
		if err != nil {
			return nil, err
		}
		services = append(services, workerService)
	}
	return NewRunner(services...), nil
}

func listenAddr(cfg *config.Config) string {
	return cfg.Server.Host + ":" + cfg.Server.Port
}

// Run 应用启动入口
func Run(opts Options) error {
	opts = normalizeOptions(opts)
	if opts.Config == nil {
		return errors.New("config is nil")
	}

	runner, err := BuildRunner(opts.Config, opts.Mode)
	if err != nil {
		return err
	}
	opts.Logger.Infow("app_start", "addr", listenAddr(opts.Config), "mode", opts.Mode)
	return RunWithOptions(runner, opts)
}
