package narrative

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"CollegeROI/internal/domain/models"
	domrepo "CollegeROI/internal/domain/repository"
	domsvc "CollegeROI/internal/domain/service"
	icache "CollegeROI/internal/service/cache"
	"CollegeROI/pkg/cache"
	"CollegeROI/pkg/logger"
)

// Service produces an Analysis from a narrator, with a response cache and an
// optional template fallback.
type Service struct {
	primary  domsvc.Narrator
	fallback domsvc.Narrator
	timeout  time.Duration
	cache    *icache.TTLCache[string]
	cacheTTL time.Duration
	metrics  domrepo.Metrics
	l        *logger.Logger
}

type Option func(*Service)

// WithFallback answers with the template text when the primary narrator fails.
func WithFallback(n domsvc.Narrator) Option {
	return func(s *Service) { s.fallback = n }
}

func WithTimeout(d time.Duration) Option {
	return func(s *Service) { s.timeout = d }
}

// WithCache keeps successful provider answers for ttl. A zero ttl disables caching.
func WithCache(c *icache.TTLCache[string], ttl time.Duration) Option {
	return func(s *Service) {
		s.cache = c
		s.cacheTTL = ttl
	}
}

func WithMetrics(m domrepo.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithLogger(l *logger.Logger) Option {
	return func(s *Service) { s.l = l }
}

func NewService(primary domsvc.Narrator, opts ...Option) *Service {
	s := &Service{primary: primary, l: logger.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Provider() string {
	return s.primary.Name()
}

// Analyze returns provider text unmodified. Errors are *models.ROIError of KindNarrative.
func (s *Service) Analyze(ctx context.Context, in domsvc.NarrativeInput) (models.Analysis, error) {
	key := analysisKey(s.primary.Name(), in)
	if s.cache != nil && s.cacheTTL > 0 {
		if text, ok := s.cache.Get(key); ok {
			s.observe(true)
			return models.Analysis{Text: text, Provider: s.primary.Name(), FromCache: true}, nil
		}
		s.observe(false)
	}

	callCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	text, err := s.primary.Narrate(callCtx, in)
	if err == nil {
		if s.cache != nil && s.cacheTTL > 0 {
			s.cache.Set(key, text, s.cacheTTL)
		}
		return models.Analysis{Text: text, Provider: s.primary.Name()}, nil
	}

	if s.fallback == nil {
		return models.Analysis{}, models.NewROIError(models.KindNarrative, "narrate", err)
	}
	s.l.Warn("narrative provider failed, using fallback",
		logger.String("provider", s.primary.Name()),
		logger.Error(err),
	)
	text, ferr := s.fallback.Narrate(ctx, in)
	if ferr != nil {
		return models.Analysis{}, models.NewROIError(models.KindNarrative, "narrate",
			fmt.Errorf("%w; fallback: %v", err, ferr))
	}
	return models.Analysis{Text: text, Provider: s.fallback.Name(), Fallback: true}, nil
}

func (s *Service) observe(hit bool) {
	if s.metrics != nil {
		s.metrics.RecordCacheLookup("narrative", hit)
	}
}

func analysisKey(provider string, in domsvc.NarrativeInput) string {
	b, _ := json.Marshal(in)
	return cache.GenerateKeyWithParams("analysis", provider, cache.HashKey(string(b)))
}

// Sweep drops expired cached answers.
func (s *Service) Sweep() int {
	if s.cache == nil {
		return 0
	}
	return s.cache.Sweep()
}
