package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/btcsuite/btcd/rpcclient"
	"github.com/ethereum/go-ethereum/common"
	"github.com/goodnatureofminers/hashyield-backend/internal/bank"
	"github.com/goodnatureofminers/hashyield-backend/internal/journal"
	"github.com/goodnatureofminers/hashyield-backend/internal/market"
	"github.com/goodnatureofminers/hashyield-backend/internal/metrics"
	"github.com/goodnatureofminers/hashyield-backend/internal/model"
	"github.com/goodnatureofminers/hashyield-backend/internal/oracle"
	rpcclient2 "github.com/goodnatureofminers/hashyield-backend/internal/pkg/btcd/rpcclient"
	"github.com/goodnatureofminers/hashyield-backend/internal/registry"
	"github.com/goodnatureofminers/hashyield-backend/internal/repository/clickhouse"
	"github.com/goodnatureofminers/hashyield-backend/internal/settlement"
	"github.com/goodnatureofminers/hashyield-backend/internal/tracker"
	"github.com/goodnatureofminers/hashyield-backend/internal/transport"
	"github.com/goodnatureofminers/hashyield-backend/pkg/batcher"
	grpcMiddleware "github.com/grpc-ecosystem/go-grpc-middleware"
	grpcZap "github.com/grpc-ecosystem/go-grpc-middleware/logging/zap"
	grpcRecovery "github.com/grpc-ecosystem/go-grpc-middleware/recovery"
	grpcCtxTags "github.com/grpc-ecosystem/go-grpc-middleware/tags"
	grpcPrometheus "github.com/grpc-ecosystem/go-grpc-prometheus"
	gwruntime "github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"github.com/holiman/uint256"
	"github.com/jessevdk/go-flags"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

type config struct {
	Addr          string `long:"addr" env:"SETTLEMENTD_ADDR" description:"gRPC addr" default:":8000"`
	RestAddr      string `long:"rest-addr" env:"SETTLEMENTD_REST_ADDR" description:"rest addr" default:":8001"`
	ClickhouseDSN string `long:"clickhouse-dsn" env:"SETTLEMENTD_CLICKHOUSE_DSN" description:"ClickHouse DSN" required:"true"`

	Name                  string        `long:"name" env:"SETTLEMENTD_NAME" description:"settlement contract name" default:"hashyield"`
	Admin                 string        `long:"admin" env:"SETTLEMENTD_ADMIN" description:"admin address" required:"true"`
	Issuer                string        `long:"issuer" env:"SETTLEMENTD_ISSUER" description:"issuer address" required:"true"`
	Keeper                string        `long:"keeper" env:"SETTLEMENTD_KEEPER" description:"address used for API triggered deliveries, defaults to admin"`
	Start                 string        `long:"start" env:"SETTLEMENTD_START" description:"collection start, RFC3339" required:"true"`
	CollectionPeriod      time.Duration `long:"collection-period" env:"SETTLEMENTD_COLLECTION_PERIOD" description:"collection period" default:"720h"`
	ObservationPeriod     time.Duration `long:"observation-period" env:"SETTLEMENTD_OBSERVATION_PERIOD" description:"observation period" default:"168h"`
	Term                  time.Duration `long:"term" env:"SETTLEMENTD_TERM" description:"term measured from start" default:"9360h"`
	Supply                uint64        `long:"supply" env:"SETTLEMENTD_SUPPLY" description:"hashrate units for sale" default:"10000"`
	BasePrice             string        `long:"base-price" env:"SETTLEMENTD_BASE_PRICE" description:"payment asset per hashrate unit" required:"true"`
	TaxBps                uint64        `long:"tax-bps" env:"SETTLEMENTD_TAX_BPS" description:"tax premium in bps"`
	OptionBps             uint64        `long:"option-bps" env:"SETTLEMENTD_OPTION_BPS" description:"option premium in bps"`
	InitialPaymentRatio   uint64        `long:"initial-payment-ratio" env:"SETTLEMENTD_INITIAL_PAYMENT_RATIO" description:"fixed initial payment ratio in bps, 0 selects the dynamic ratio"`
	MintDuringObservation bool          `long:"mint-during-observation" env:"SETTLEMENTD_MINT_DURING_OBSERVATION" description:"keep minting open during observation"`
	BurnOnClaim           bool          `long:"burn-on-claim" env:"SETTLEMENTD_BURN_ON_CLAIM" description:"burn instruments on claim"`
	PaymentAsset          string        `long:"payment-asset" env:"SETTLEMENTD_PAYMENT_ASSET" description:"payment asset" default:"USDT"`
	RewardAsset           string        `long:"reward-asset" env:"SETTLEMENTD_REWARD_ASSET" description:"reward asset" default:"WBTC"`

	WhitelistRoot  string `long:"whitelist-root" env:"SETTLEMENTD_WHITELIST_ROOT" description:"free mint merkle root"`
	WhitelistLimit uint64 `long:"whitelist-limit" env:"SETTLEMENTD_WHITELIST_LIMIT" description:"free mints per account" default:"1"`
	FreeMintSupply uint64 `long:"free-mint-supply" env:"SETTLEMENTD_FREE_MINT_SUPPLY" description:"free mint supply"`

	OracleName   string        `long:"oracle-name" env:"SETTLEMENTD_ORACLE_NAME" description:"earnings oracle name" default:"earnings"`
	Tracker      string        `long:"tracker" env:"SETTLEMENTD_TRACKER" description:"tracker address" required:"true"`
	Pools        []string      `long:"pool" env:"SETTLEMENTD_POOLS" env-delim:"," description:"pool API as name=url, repeatable" required:"true"`
	PoolTimeout  time.Duration `long:"pool-timeout" env:"SETTLEMENTD_POOL_TIMEOUT" description:"pool API timeout" default:"10s"`
	PoolRPS      int           `long:"pool-rps" env:"SETTLEMENTD_POOL_RPS" description:"pool API requests per second" default:"5"`
	SubmitOffset time.Duration `long:"submit-offset" env:"SETTLEMENTD_SUBMIT_OFFSET" description:"offset into the day before tracking" default:"23h"`
	FirstDay     uint64        `long:"first-day" env:"SETTLEMENTD_FIRST_DAY" description:"first day index the backfill covers, defaults to the newest stored round"`
	BackfillSize int           `long:"backfill-size" env:"SETTLEMENTD_BACKFILL_SIZE" description:"days complemented per batch" default:"30"`
	WorkerCount  int           `long:"worker-count" env:"SETTLEMENTD_WORKER_COUNT" description:"concurrent pool requests" default:"8"`

	BTCPrice          string  `long:"btc-price" env:"SETTLEMENTD_BTC_PRICE" description:"BTC price with 8 decimals" default:"6000000000000"`
	GH                uint64  `long:"gh" env:"SETTLEMENTD_GH" description:"gh input in bps" default:"4000"`
	RB                uint64  `long:"rb" env:"SETTLEMENTD_RB" description:"rb input in bps" default:"50"`
	PC                uint64  `long:"pc" env:"SETTLEMENTD_PC" description:"pc input in bps" default:"500"`
	DifficultyDivisor float64 `long:"difficulty-divisor" env:"SETTLEMENTD_DIFFICULTY_DIVISOR" description:"divisor turning difficulty into the hg index" default:"1000000"`
	Network           string  `long:"network" env:"SETTLEMENTD_NETWORK" description:"network name" default:"mainnet"`
	RPCURL            string  `long:"rpc-url" env:"SETTLEMENTD_RPC_URL" description:"Bitcoin RPC URL" default:"http://127.0.0.1:8332"`
	RPCUser           string  `long:"rpc-user" env:"SETTLEMENTD_RPC_USER" description:"Bitcoin RPC username"`
	RPCPassword       string  `long:"rpc-password" env:"SETTLEMENTD_RPC_PASSWORD" description:"Bitcoin RPC password"`

	JournalSize     int           `long:"journal-size" env:"SETTLEMENTD_JOURNAL_SIZE" description:"events per journal flush" default:"500"`
	JournalInterval time.Duration `long:"journal-interval" env:"SETTLEMENTD_JOURNAL_INTERVAL" description:"journal flush interval" default:"5s"`
	JournalCapacity int           `long:"journal-capacity" env:"SETTLEMENTD_JOURNAL_CAPACITY" description:"journal queue capacity" default:"10000"`
}

func main() {
	cfg := config{}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic("can't initialize zap logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync()
	}()
	grpcZap.ReplaceGrpcLoggerV2(logger)

	if _, err := flags.ParseArgs(&cfg, os.Args); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			return
		}
		logger.Fatal("failed to parse flags", zap.Error(err))
	}

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("settlementd failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg config, logger *zap.Logger) error {
	admin, err := parseAddress("admin", cfg.Admin)
	if err != nil {
		return err
	}
	issuer, err := parseAddress("issuer", cfg.Issuer)
	if err != nil {
		return err
	}
	trackerID, err := parseAddress("tracker", cfg.Tracker)
	if err != nil {
		return err
	}
	keeper := admin
	if cfg.Keeper != "" {
		if keeper, err = parseAddress("keeper", cfg.Keeper); err != nil {
			return err
		}
	}
	settlementCfg, err := settlementConfig(cfg, admin, issuer)
	if err != nil {
		return err
	}

	repo, err := clickhouse.NewRepository(cfg.ClickhouseDSN, metrics.NewClickhouseRepository())
	if err != nil {
		return fmt.Errorf("init repository: %w", err)
	}
	defer func() {
		if err := repo.Close(); err != nil {
			logger.Warn("close repository", zap.Error(err))
		}
	}()

	jrnl, err := journal.New(repo, metrics.NewJournal(), logger, batcher.Config{
		Size:     cfg.JournalSize,
		Interval: cfg.JournalInterval,
		RPS:      10,
		Capacity: cfg.JournalCapacity,
	})
	if err != nil {
		return fmt.Errorf("init journal: %w", err)
	}
	jrnl.Start(ctx)
	defer jrnl.Stop()

	if err := requireFreshState(ctx, repo, settlementCfg.Name, registryName(settlementCfg.Name)); err != nil {
		return err
	}

	earnings, err := oracle.New(
		oracle.Config{Name: cfg.OracleName, Admin: admin, Trackers: []common.Address{trackerID}},
		metrics.NewOracle(cfg.OracleName),
		logger,
		oracle.WithEventSink(jrnl),
	)
	if err != nil {
		return fmt.Errorf("init oracle: %w", err)
	}
	rounds, err := repo.Rounds(ctx, cfg.OracleName)
	if err != nil {
		return fmt.Errorf("load rounds: %w", err)
	}
	if err := earnings.Restore(rounds); err != nil {
		return fmt.Errorf("restore rounds: %w", err)
	}

	price, err := market.NewStaticPrice(cfg.BTCPrice)
	if err != nil {
		return fmt.Errorf("btc price: %w", err)
	}
	engine, err := settlement.New(
		settlementCfg,
		bank.NewLedger(),
		earnings,
		metrics.NewSettlement(settlementCfg.Name),
		logger,
		settlement.WithPriceFeed(price),
		settlement.WithEventSink(jrnl),
	)
	if err != nil {
		return fmt.Errorf("init settlement: %w", err)
	}

	instruments, err := registry.New(
		registry.Config{
			Name:           registryName(settlementCfg.Name),
			Admin:          admin,
			WhitelistRoot:  common.HexToHash(cfg.WhitelistRoot),
			WhitelistLimit: cfg.WhitelistLimit,
			FreeMintSupply: cfg.FreeMintSupply,
		},
		engine,
		metrics.NewSettlement(registryName(settlementCfg.Name)),
		logger,
		registry.WithEventSink(jrnl),
	)
	if err != nil {
		return fmt.Errorf("init registry: %w", err)
	}
	if err := engine.SetInstrumentRegistry(admin, instruments.Address(), instruments); err != nil {
		return fmt.Errorf("bind registry: %w", err)
	}

	firstDay := cfg.FirstDay
	if firstDay == 0 {
		// Resume after the newest persisted round; a fresh oracle only tracks.
		if firstDay, err = repo.MaxRoundDay(ctx, cfg.OracleName); err != nil {
			return fmt.Errorf("max round day: %w", err)
		}
		if firstDay == 0 {
			firstDay = model.DayIndex(time.Now())
		}
	}

	pools, err := newPools(cfg.Pools, cfg.PoolTimeout, cfg.PoolRPS)
	if err != nil {
		return err
	}
	track, err := tracker.NewTrackService(earnings, pools, trackerID, metrics.NewTracker(cfg.OracleName, "track"), tracker.TrackConfig{
		SubmitOffset: cfg.SubmitOffset,
		WorkerCount:  cfg.WorkerCount,
	}, logger)
	if err != nil {
		return fmt.Errorf("init track service: %w", err)
	}
	backfill, err := tracker.NewBackfillService(earnings, pools, admin, metrics.NewTracker(cfg.OracleName, "backfill"), tracker.BackfillConfig{
		FirstDay:    firstDay,
		Limit:       cfg.BackfillSize,
		WorkerCount: cfg.WorkerCount,
	}, logger)
	if err != nil {
		return fmt.Errorf("init backfill service: %w", err)
	}

	services := map[string]func(context.Context) error{
		"track":    track.Run,
		"backfill": backfill.Run,
	}

	if !settlementCfg.FixedRatio() {
		node, err := newRPCClient(cfg.RPCURL, cfg.RPCUser, cfg.RPCPassword)
		if err != nil {
			return fmt.Errorf("init btc rpc client: %w", err)
		}
		defer func() {
			node.Shutdown()
			node.WaitForShutdown()
		}()
		rpc := rpcclient2.NewObservedClient(node, metrics.NewRPCClient(cfg.Network))
		if height, err := rpc.GetBlockCount(); err != nil {
			logger.Warn("btc node not reachable yet", zap.Error(err))
		} else {
			logger.Info("btc node connected", zap.Int64("height", height))
		}

		inputs, err := market.NewInputs(market.InputsConfig{
			GH:                cfg.GH,
			RB:                cfg.RB,
			PC:                cfg.PC,
			DifficultyDivisor: cfg.DifficultyDivisor,
		}, rpc)
		if err != nil {
			return fmt.Errorf("init market inputs: %w", err)
		}
		job, err := market.NewInitialPaymentJob(engine, inputs, admin, time.Minute, logger)
		if err != nil {
			return fmt.Errorf("init initial payment job: %w", err)
		}
		services["initial_payment"] = job.Run
	}

	ctx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	defer func() {
		cancel()
		wg.Wait()
	}()
	for name, svc := range services {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := svc(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("service stopped", zap.String("service", name), zap.Error(err))
			}
		}()
	}

	handler, err := transport.NewSettlementHandler(engine, earnings, keeper, logger)
	if err != nil {
		return fmt.Errorf("init handler: %w", err)
	}
	return serve(ctx, cfg, handler, logger)
}

func serve(ctx context.Context, cfg config, handler *transport.SettlementHandler, logger *zap.Logger) error {
	chain := []grpc.UnaryServerInterceptor{
		grpcRecovery.UnaryServerInterceptor(),
		grpcCtxTags.UnaryServerInterceptor(),
		grpcPrometheus.UnaryServerInterceptor,
		grpcZap.UnaryServerInterceptor(logger),
	}
	grpcServer := grpc.NewServer(
		grpc.UnaryInterceptor(grpcMiddleware.ChainUnaryServer(chain...)),
	)
	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	grpcPrometheus.EnableHandlingTimeHistogram()
	grpcPrometheus.Register(grpcServer)

	socket, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", cfg.Addr, err)
	}
	go func() {
		if serveErr := grpcServer.Serve(socket); serveErr != nil {
			logger.Error("gRPC server stopped", zap.Error(serveErr))
		}
	}()
	go func() {
		<-ctx.Done()
		logger.Info("Shutting down gRPC server")
		healthServer.Shutdown()
		grpcServer.GracefulStop()
	}()

	gw := gwruntime.NewServeMux()
	if err := handler.Register(gw); err != nil {
		return fmt.Errorf("register handlers: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/", gw)
	mux.Handle("/metrics", promhttp.Handler())

	s := &http.Server{
		Addr:              cfg.RestAddr,
		Handler:           cors.Default().Handler(mux),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    http.DefaultMaxHeaderBytes,
	}
	go func() {
		<-ctx.Done()
		logger.Info("Shutting down the http server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.Shutdown(shutdownCtx); err != nil {
			logger.Error("Failed to shutdown http server", zap.Error(err))
		}
	}()

	logger.Info("Starting HTTP server", zap.String("addr", cfg.RestAddr))
	if err := s.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen and serve: %w", err)
	}
	return nil
}

type eventCounter interface {
	CountEvents(ctx context.Context, source string) (uint64, error)
}

// requireFreshState refuses to start over journaled engine or registry
// events. Engine state lives in memory and is not replayed, so a restart
// would settle from an empty ledger.
func requireFreshState(ctx context.Context, events eventCounter, sources ...string) error {
	for _, source := range sources {
		stored, err := events.CountEvents(ctx, source)
		if err != nil {
			return fmt.Errorf("count %s events: %w", source, err)
		}
		if stored > 0 {
			return fmt.Errorf("%s has %d journaled events and settlement state is not replayed; start under a new name: %w",
				source, stored, model.ErrAlreadyDone)
		}
	}
	return nil
}

func registryName(engine string) string {
	return engine + "-instruments"
}

func settlementConfig(cfg config, admin, issuer common.Address) (settlement.Config, error) {
	start, err := time.Parse(time.RFC3339, cfg.Start)
	if err != nil {
		return settlement.Config{}, fmt.Errorf("start %q: %w", cfg.Start, err)
	}
	basePrice, err := uint256.FromDecimal(cfg.BasePrice)
	if err != nil {
		return settlement.Config{}, fmt.Errorf("base price %q: %w", cfg.BasePrice, err)
	}

	sc := settlement.Config{
		Name:                cfg.Name,
		Start:               start.UTC(),
		CollectionPeriod:    cfg.CollectionPeriod,
		ObservationPeriod:   cfg.ObservationPeriod,
		Term:                cfg.Term,
		Supply:              cfg.Supply,
		BasePrice:           basePrice,
		TaxBps:              cfg.TaxBps,
		OptionBps:           cfg.OptionBps,
		InitialPaymentRatio: cfg.InitialPaymentRatio,
		Profile: settlement.Profile{
			MintDuringObservation: cfg.MintDuringObservation,
			BurnOnClaim:           cfg.BurnOnClaim,
		},
		PaymentAsset: model.Asset(cfg.PaymentAsset),
		RewardAsset:  model.Asset(cfg.RewardAsset),
		Admin:        admin,
		Issuer:       issuer,
	}
	if err := sc.Validate(); err != nil {
		return settlement.Config{}, fmt.Errorf("settlement config: %w", err)
	}
	return sc, nil
}

func parseAddress(name, v string) (common.Address, error) {
	if !common.IsHexAddress(v) {
		return common.Address{}, fmt.Errorf("%s %q is not a hex address", name, v)
	}
	a := common.HexToAddress(v)
	if a == (common.Address{}) {
		return common.Address{}, fmt.Errorf("%s must not be the zero address", name)
	}
	return a, nil
}

func newRPCClient(rawURL, user, password string) (*rpcclient.Client, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse rpc url: %w", err)
	}
	if parsed.Scheme != "http" {
		return nil, fmt.Errorf("rpc url scheme %q not supported, use http", parsed.Scheme)
	}
	if parsed.Host == "" {
		return nil, errors.New("rpc url missing host")
	}

	return rpcclient.New(&rpcclient.ConnConfig{
		Host:         parsed.Host,
		User:         user,
		Pass:         password,
		HTTPPostMode: true,
		DisableTLS:   true,
	}, nil)
}
