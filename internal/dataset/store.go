package dataset

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/errgroup"

	"moonlight/internal/config"
	"moonlight/internal/infrastructure"
	"moonlight/pkg/contracts/domain"
)

// ErrDataFileNotFound is returned when no candidate path holds a country's file
var ErrDataFileNotFound = errors.New("data file not found")

// Store loads country frames from disk and memoizes them
type Store struct {
	registry *Registry
	paths    *config.Paths
	loader   *Loader
	cache    *expirable.LRU[string, *domain.Frame]
	metrics  *infrastructure.BusinessMetrics
	logger   *slog.Logger
	parallel int
}

// StoreOptions configures a Store
type StoreOptions struct {
	CacheSize int
	CacheTTL  time.Duration
	Metrics   *infrastructure.BusinessMetrics
	Logger    *slog.Logger
	// Parallel bounds concurrent file reads in LoadAll; 0 means one per country
	Parallel int
}

// NewStore creates a store resolving files through paths
func NewStore(registry *Registry, paths *config.Paths, opts StoreOptions) *Store {
	if registry == nil {
		registry = DefaultRegistry()
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = config.DefaultCacheSize
	}
	logger := infrastructure.WithComponent(opts.Logger, "dataset")

	return &Store{
		registry: registry,
		paths:    paths,
		loader:   NewLoader(logger),
		cache:    expirable.NewLRU[string, *domain.Frame](opts.CacheSize, nil, opts.CacheTTL),
		metrics:  opts.Metrics,
		logger:   logger,
		parallel: opts.Parallel,
	}
}

// Registry returns the country registry backing the store
func (s *Store) Registry() *Registry {
	return s.registry
}

// Loader returns the file parser used by the store
func (s *Store) Loader() *Loader {
	return s.loader
}

// fileState identifies one version of a country's file on disk
type fileState struct {
	path    string
	modTime time.Time
	size    int64
}

func (fs fileState) key() string {
	return fmt.Sprintf("%s@%d:%d", fs.path, fs.modTime.UnixNano(), fs.size)
}

// locate returns the first candidate path that exists as a regular file
func (s *Store) locate(c domain.Country) (fileState, bool) {
	for _, candidate := range s.paths.DataFileCandidates(c.CleanFile) {
		info, err := os.Stat(candidate)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		return fileState{path: candidate, modTime: info.ModTime(), size: info.Size()}, true
	}
	return fileState{}, false
}

// LoadCountry returns the frame for one country. Names outside the registry
// yield an empty frame and no error. A missing file yields an empty frame
// and ErrDataFileNotFound; a malformed one an empty frame and the parse error.
func (s *Store) LoadCountry(ctx context.Context, name string) (*domain.Frame, error) {
	c, ok := s.registry.Lookup(name)
	if !ok {
		s.logger.WarnContext(ctx, "country not in registry", slog.String("country", name))
		return domain.NewFrame(), nil
	}

	state, found := s.locate(c)
	if !found {
		s.logger.ErrorContext(ctx, "data file not found",
			slog.String("country", c.Name),
			slog.Any("candidates", s.paths.DataFileCandidates(c.CleanFile)),
		)
		return domain.NewFrame(), fmt.Errorf("%s: %w", c.CleanFile, ErrDataFileNotFound)
	}

	key := "country|" + c.Name + "|" + state.key()
	if frame, hit := s.cache.Get(key); hit {
		s.metrics.RecordCacheLookup(ctx, true)
		return frame, nil
	}
	s.metrics.RecordCacheLookup(ctx, false)

	start := time.Now()
	frame, err := s.loader.ReadFile(ctx, state.path, c.Name)
	s.metrics.RecordDatasetLoad(ctx, c.Name, frame.Len(), time.Since(start), err)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to load data file",
			slog.String("country", c.Name),
			slog.String("path", state.path),
			slog.String("error", err.Error()),
		)
		return domain.NewFrame(), fmt.Errorf("load %s: %w", c.Name, err)
	}

	s.logger.InfoContext(ctx, "dataset loaded",
		slog.String("country", c.Name),
		slog.String("path", state.path),
		slog.Int("rows", frame.Len()),
		slog.Duration("duration", time.Since(start)),
	)
	s.cache.Add(key, frame)
	return frame, nil
}

// LoadAll loads the named countries (the whole registry when none are given)
// concurrently and concatenates the non-empty frames in registry order.
// Per-country failures are logged and skipped; only cancellation is returned.
func (s *Store) LoadAll(ctx context.Context, names ...string) (*domain.Frame, error) {
	selected := s.selection(names)
	if len(selected) == 0 {
		return domain.NewFrame(), nil
	}

	var keyParts []string
	for _, c := range selected {
		if state, ok := s.locate(c); ok {
			keyParts = append(keyParts, c.Name+"|"+state.key())
		} else {
			keyParts = append(keyParts, c.Name+"|missing")
		}
	}
	key := "all|" + strings.Join(keyParts, ";")
	if frame, hit := s.cache.Get(key); hit {
		s.metrics.RecordCacheLookup(ctx, true)
		return frame, nil
	}
	s.metrics.RecordCacheLookup(ctx, false)

	frames := make([]*domain.Frame, len(selected))
	g, gctx := errgroup.WithContext(ctx)
	if s.parallel > 0 {
		g.SetLimit(s.parallel)
	}
	for i, c := range selected {
		g.Go(func() error {
			frame, err := s.LoadCountry(gctx, c.Name)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				s.logger.WarnContext(gctx, "skipping country",
					slog.String("country", c.Name),
					slog.String("error", err.Error()),
				)
				return nil
			}
			frames[i] = frame
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return domain.NewFrame(), err
	}

	loaded := make([]*domain.Frame, 0, len(frames))
	for _, f := range frames {
		if !f.Empty() {
			loaded = append(loaded, f)
		}
	}
	if len(loaded) == 0 {
		s.logger.WarnContext(ctx, "no country data could be loaded")
		return domain.NewFrame(), nil
	}

	combined := domain.Concat(loaded...)
	s.cache.Add(key, combined)
	return combined, nil
}

func (s *Store) selection(names []string) []domain.Country {
	if len(names) == 0 {
		return s.registry.Countries()
	}

	picked := make([]bool, len(s.registry.countries))
	for _, n := range names {
		if c, ok := s.registry.Lookup(n); ok {
			picked[s.registry.Position(c.Name)] = true
		}
	}
	var out []domain.Country
	for i, c := range s.registry.countries {
		if picked[i] {
			out = append(out, c)
		}
	}
	return out
}

// Status reports which countries currently have a readable cleaned file
func (s *Store) Status() []domain.CountryStatus {
	out := make([]domain.CountryStatus, 0, len(s.registry.countries))
	for _, c := range s.registry.Countries() {
		st := domain.CountryStatus{Country: c}
		if state, ok := s.locate(c); ok && readable(state.path) {
			st.Available = true
			st.Path = state.path
		}
		out = append(out, st)
	}
	return out
}

// readable reports whether path opens and yields at least one byte
func readable(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()
	var b [1]byte
	n, _ := f.Read(b[:])
	return n == 1
}

// Invalidate drops every cached frame and returns how many were evicted
func (s *Store) Invalidate() int {
	n := s.cache.Len()
	s.cache.Purge()
	s.logger.Info("dataset cache invalidated", slog.Int("entries", n))
	return n
}
