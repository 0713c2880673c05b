package main

import (
	"context"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"github.com/fleshka4/amm-pool/internal/config"
	"github.com/fleshka4/amm-pool/internal/infra/erc20"
	"github.com/fleshka4/amm-pool/internal/infra/influx"
	"github.com/fleshka4/amm-pool/internal/infra/ledger"
	"github.com/fleshka4/amm-pool/internal/infra/metrics"
	"github.com/fleshka4/amm-pool/internal/logging"
	"github.com/fleshka4/amm-pool/internal/pool"
	"github.com/fleshka4/amm-pool/internal/service"
	transport "github.com/fleshka4/amm-pool/internal/transport/http"
)

func main() {
	var path string

	pflag.StringVarP(&path, "config", "c", "", "path to the YAML config file (default $CONFIG_PATH or cfg/config.yaml)")
	pflag.Parse()

	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path == "" {
		path = "cfg/config.yaml"
	}

	boot := zerolog.New(os.Stderr).With().Timestamp().Logger()

	cfg, err := config.Load(path)
	if err != nil {
		boot.Fatal().Err(err).Str("path", path).Msg("config.Load")
	}

	log, err := logging.New(cfg.LogLevel, os.Stderr)
	if err != nil {
		boot.Fatal().Err(err).Msg("logging.New")
	}

	assets := ledger.New()
	for _, b := range cfg.Genesis {
		if err := assets.Mint(b.Asset, b.Account, b.Amount.Int); err != nil {
			log.Fatal().Err(err).Str("account", b.Account.Hex()).Msg("ledger.Mint")
		}
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metricsRecorder, err := metrics.New(registry)
	if err != nil {
		log.Fatal().Err(err).Msg("metrics.New")
	}

	recorders := pool.Recorders{logging.NewRecorder(log), metricsRecorder}
	if cfg.Influx.URL != "" {
		outbound, closeInflux := influx.Dial(cfg.Influx.URL, cfg.Influx.Token, cfg.Influx.Org, cfg.Influx.Bucket)
		defer closeInflux()
		recorders = append(recorders, influx.NewRecorder(outbound, cfg.AssetX, cfg.AssetY))
	}

	p, err := pool.New(cfg.AssetX, cfg.AssetY, cfg.PoolAccount, assets.Custodian(cfg.PoolAccount),
		pool.WithRecorder(recorders))
	if err != nil {
		log.Fatal().Err(err).Msg("pool.New")
	}

	var custody service.BalanceReader = assets
	if cfg.RPCURL != "" {
		client, err := erc20.NewClient(cfg.RPCURL, cfg.CallTimeout)
		if err != nil {
			log.Fatal().Err(err).Msg("erc20.NewClient")
		}
		custody = client
	}

	svc := service.NewPoolService(p, assets, custody)
	if report, err := svc.Audit(context.Background()); err != nil {
		log.Warn().Err(err).Msg("initial custody audit failed")
	} else if !report.Healthy {
		log.Warn().Msg("custody holds less than the recorded reserves")
	}

	srv := transport.NewServer(svc, cfg, log, registry)
	if err := srv.ListenAndServe(cfg.ListenAddr); err != nil {
		log.Error().Err(err).Msg("srv.ListenAndServe")
		return
	}
}
