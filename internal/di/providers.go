package di

import (
	"context"
	"fmt"
	"time"

	"CollegeROI/internal/domain/repository"
	domsvc "CollegeROI/internal/domain/service"
	"CollegeROI/internal/handler/api"
	internalrepo "CollegeROI/internal/repository"
	icache "CollegeROI/internal/service/cache"
	"CollegeROI/internal/service/ratelimit"
	"CollegeROI/internal/services/estimator"
	"CollegeROI/internal/services/narrative"
	"CollegeROI/internal/usecase"
	"CollegeROI/pkg/cache"
	pkgch "CollegeROI/pkg/clickhouse"
	"CollegeROI/pkg/config"
	xhttp "CollegeROI/pkg/http"
	pkgkafka "CollegeROI/pkg/kafka"
	"CollegeROI/pkg/logger"
	"CollegeROI/pkg/metrics"
	"CollegeROI/pkg/server"

	"github.com/prometheus/client_golang/prometheus"
)

func noop() {}

// ProvideKafkaProducer creates a Kafka producer when the recorder or the log
// collector needs one. Otherwise it returns nil.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, func(), error) {
	if cfg.Recorder.Backend != "kafka" && !cfg.Log.Collector.Enabled {
		return nil, noop, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatching(cfg.Kafka.Producer.BatchSize, cfg.Kafka.Producer.BatchBytes, cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, func() { _ = producer.Close() }, nil
}

// ProvideLogger creates the application logger. With the collector enabled,
// aggregated error logs are published through the Kafka producer.
func ProvideLogger(cfg *config.Config, producer *pkgkafka.Producer) (*logger.Logger, func(), error) {
	l, err := logger.New(&logger.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Output:  cfg.Log.Output,
		Service: "collegeroi",
	})
	if err != nil {
		return nil, nil, fmt.Errorf("logger: %w", err)
	}
	if cfg.Log.Collector.Enabled && producer != nil {
		l.AddCollector(&logger.CollectionConfig{
			TimeInterval:   cfg.Log.Collector.Interval,
			CountThreshold: cfg.Log.Collector.CountThreshold,
			Topic:          cfg.Log.Collector.Topic,
			Publisher:      producer,
		})
	}
	return l, l.RemoveCollector, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics(cfg *config.Config) repository.Metrics {
	if !cfg.Metrics.Enabled {
		return metrics.Nop{}
	}
	return metrics.New(prometheus.DefaultRegisterer)
}

// ProvideCache creates the estimate cache, or nil when caching is off.
func ProvideCache(cfg *config.Config) (cache.Service, func(), error) {
	var svc cache.Service
	switch cfg.Cache.Type {
	case "", "none":
		return nil, noop, nil
	case "memory":
		svc = cache.NewMemoryCache(
			cache.WithMemoryMaxSize(cfg.Cache.MemoryMaxSize),
			cache.WithMemoryDefaultTTL(cfg.Cache.TTL),
			cache.WithMemoryCleanup(time.Minute),
		)
	case "redis", "layered":
		rc, err := cache.NewRedisCache(
			cache.WithRedisHost(cfg.Cache.Redis.Host),
			cache.WithRedisPort(cfg.Cache.Redis.Port),
			cache.WithRedisPassword(cfg.Cache.Redis.Password),
			cache.WithRedisDB(cfg.Cache.Redis.DB),
			cache.WithRedisPrefix(cfg.Cache.Redis.Prefix),
			cache.WithRedisPool(cfg.Cache.Redis.PoolSize, cfg.Cache.Redis.MinIdleConns, cfg.Cache.Redis.PoolTimeout),
		)
		if err != nil {
			return nil, nil, fmt.Errorf("redis cache: %w", err)
		}
		svc = rc
		if cfg.Cache.Type == "layered" {
			svc = cache.NewLayeredCache(rc,
				cache.WithLayeredMemorySize(cfg.Cache.MemoryMaxSize),
				cache.WithLayeredL1TTL(cfg.Cache.TTL),
			)
		}
	default:
		return nil, nil, fmt.Errorf("unknown cache type %q", cfg.Cache.Type)
	}
	return svc, func() { _ = svc.Close() }, nil
}

// ProvideResources loads the cost dataset and the estimator once. Load
// failures are kept in Resources so the process still answers /health.
func ProvideResources(cfg *config.Config, l *logger.Logger, c cache.Service, m repository.Metrics) *usecase.Resources {
	costs, err := internalrepo.LoadCostTable(cfg.Costs.Path, internalrepo.CostTableOptions{
		NameColumn:  cfg.Costs.NameColumn,
		PriceColumn: cfg.Costs.PriceColumn,
	}, l)
	if err != nil {
		l.Error("cost dataset not loaded", logger.String("path", cfg.Costs.Path), logger.Error(err))
		return usecase.NewResources(nil, nil, err)
	}
	l.Info("cost dataset loaded", logger.Int("institutions", costs.Len()))

	est, err := buildEstimator(cfg)
	if err != nil {
		l.Error("income model not loaded", logger.String("backend", cfg.Estimator.Backend), logger.Error(err))
		return usecase.NewResources(nil, costs, err)
	}
	if c != nil {
		est = estimator.NewCachedEstimator(est, c, cfg.Cache.TTL, m, l)
	}
	l.Info("income model ready", logger.String("backend", cfg.Estimator.Backend))
	return usecase.NewResources(est, costs, nil)
}

func buildEstimator(cfg *config.Config) (domsvc.IncomeEstimator, error) {
	switch cfg.Estimator.Backend {
	case "artifact":
		return estimator.LoadArtifactEstimator(cfg.Estimator.ModelPath)
	case "http", "":
		if cfg.Estimator.ServiceURL == "" {
			return nil, fmt.Errorf("estimator service_url is empty")
		}
		return estimator.NewHTTPEstimator(cfg.Estimator.ServiceURL, cfg.Estimator.Timeout), nil
	default:
		return nil, fmt.Errorf("unknown estimator backend %q", cfg.Estimator.Backend)
	}
}

// ProvideNarrative builds the analysis service for the configured provider.
func ProvideNarrative(cfg *config.Config, l *logger.Logger, m repository.Metrics) (*narrative.Service, error) {
	n := cfg.Narrative
	var primary domsvc.Narrator = narrative.TemplateNarrator{}

	if n.Enabled {
		switch n.Provider {
		case narrative.ProviderGemini:
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			g, err := narrative.NewGeminiNarrator(ctx, n.APIKey, n.Model, n.MaxTokens)
			if err != nil {
				return nil, fmt.Errorf("gemini narrator: %w", err)
			}
			primary = g
		case narrative.ProviderOpenAI:
			o, err := narrative.NewOpenAINarrator(n.APIKey, n.APIURL, n.Model, n.MaxTokens, n.Timeout)
			if err != nil {
				return nil, fmt.Errorf("openai narrator: %w", err)
			}
			primary = o
		}
	}

	opts := []narrative.Option{
		narrative.WithTimeout(n.Timeout),
		narrative.WithCache(icache.NewTTLCache[string](), n.CacheTTL),
		narrative.WithMetrics(m),
		narrative.WithLogger(l),
	}
	if n.FallbackOnError && primary.Name() != narrative.ProviderTemplate {
		opts = append(opts, narrative.WithFallback(narrative.TemplateNarrator{}))
	}
	l.Info("narrative provider", logger.String("provider", primary.Name()))
	return narrative.NewService(primary, opts...), nil
}

// ProvideClickHouseClient connects to ClickHouse when it is the recorder backend.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, func(), error) {
	if cfg.Recorder.Backend != "clickhouse" {
		return nil, noop, nil
	}
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := client.InitSchema(ctx, []string{
		"CREATE DATABASE IF NOT EXISTS " + cfg.ClickHouse.Database,
	}); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("clickhouse schema: %w", err)
	}
	return client, func() { _ = client.Close() }, nil
}

// ProvideRecorder picks the prediction log backend. A backend that cannot be
// initialized is replaced by the no-op recorder; recording is best-effort.
func ProvideRecorder(cfg *config.Config, l *logger.Logger, ch *pkgch.Client, producer *pkgkafka.Producer) (repository.PredictionRecorder, func(), error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var (
		rec repository.PredictionRecorder
		err error
	)
	switch cfg.Recorder.Backend {
	case "", "none":
		return internalrepo.NoopRecorder{}, noop, nil
	case "clickhouse":
		rec = internalrepo.NewClickHouseRecorder(ch, cfg.ClickHouse.Database+"."+cfg.ClickHouse.Table)
	case "kafka":
		rec = internalrepo.NewKafkaRecorder(producer, cfg.Kafka.Topic)
	case "sqlite":
		var sr *internalrepo.SQLiteRecorder
		if sr, err = internalrepo.NewSQLiteRecorder(cfg.SQLite.Path); err == nil {
			rec = sr
		}
	case "postgres":
		var pr *internalrepo.PostgresRecorder
		if pr, err = internalrepo.NewPostgresRecorder(ctx, cfg.Postgres.URL, cfg.Postgres.MaxConns); err == nil {
			rec = pr
		}
	default:
		return nil, nil, fmt.Errorf("unknown recorder backend %q", cfg.Recorder.Backend)
	}
	if err == nil {
		err = rec.Init(ctx)
	}
	if err != nil {
		l.Warn("prediction recorder disabled",
			logger.String("backend", cfg.Recorder.Backend),
			logger.Error(err),
		)
		if rec != nil {
			_ = rec.Close()
		}
		return internalrepo.NoopRecorder{}, noop, nil
	}

	l.Info("prediction recorder ready", logger.String("backend", rec.Name()))
	return rec, func() {
		if err := rec.Close(); err != nil {
			l.Warn("recorder close error", logger.Error(err))
		}
	}, nil
}

// ProvideSettings maps config onto calculator settings.
func ProvideSettings(cfg *config.Config) usecase.Settings {
	return usecase.Settings{
		AnnualRate:       cfg.ROI.AnnualRate,
		LoanYears:        cfg.ROI.LoanYears,
		HorizonYears:     cfg.ROI.HorizonYears,
		ModelRMSE:        cfg.ROI.ModelRMSE,
		ModelRSquared:    cfg.ROI.ModelRSquared,
		EstimatorTimeout: cfg.Estimator.Timeout,
		RecorderTimeout:  cfg.Recorder.Timeout,
	}
}

// ProvideROICalculator creates the ROI use case.
func ProvideROICalculator(
	res *usecase.Resources,
	settings usecase.Settings,
	narr *narrative.Service,
	rec repository.PredictionRecorder,
	m repository.Metrics,
	l *logger.Logger,
) *usecase.ROICalculator {
	return usecase.NewROICalculator(res, settings, narr, rec, m, l)
}

// ProvideROIHandler creates the Echo handler.
func ProvideROIHandler(l *logger.Logger, calc *usecase.ROICalculator) *api.ROIEchoHandler {
	return api.NewROIEchoHandler(l, calc)
}

// ProvideRateLimiter returns nil when rate limiting is disabled.
func ProvideRateLimiter(cfg *config.Config) *ratelimit.Limiter {
	if !cfg.RateLimit.Enabled {
		return nil
	}
	return ratelimit.New()
}

// ProvideHTTPServer builds the Echo server with the configured middleware.
func ProvideHTTPServer(cfg *config.Config, l *logger.Logger, h *api.ROIEchoHandler, limiter *ratelimit.Limiter) *xhttp.Server {
	opts := []xhttp.ServerOption{
		xhttp.WithHost(cfg.Server.Host),
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithCORS(cfg.Server.CORS),
		xhttp.WithLogger(l),
	}
	if cfg.Metrics.Enabled {
		opts = append(opts, xhttp.WithMetrics(cfg.Metrics.Path, cfg.Metrics.SlowThreshold))
	}
	if limiter != nil {
		opts = append(opts, xhttp.WithMiddleware(
			ratelimit.Middleware(limiter, cfg.RateLimit.Capacity, cfg.RateLimit.RefillPerSec, l),
		))
	}
	return xhttp.NewServer(h, opts...)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *logger.Logger,
	srv *xhttp.Server,
	calc *usecase.ROICalculator,
	narr *narrative.Service,
	limiter *ratelimit.Limiter,
) *server.App {
	app := server.New(cfg, l, srv, calc)
	app.AddJanitor(func() {
		if n := narr.Sweep(); n > 0 {
			l.Debug("narrative cache swept", logger.Int("expired", n))
		}
	})
	if limiter != nil {
		app.AddJanitor(func() { limiter.Prune(10 * time.Minute) })
	}
	return app
}
