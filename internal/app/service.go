// Package service composes the catalogue, filter, receipt derivation, theme
// controller and QR pipeline into the dependencies required by the HTTP layer.
package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/okian/nestudio/internal/adapters/enhance"
	"github.com/okian/nestudio/internal/adapters/imagecache"
	jobqueue "github.com/okian/nestudio/internal/adapters/mq/queue"
	workerpool "github.com/okian/nestudio/internal/adapters/mq/worker"
	"github.com/okian/nestudio/internal/adapters/preference"
	"github.com/okian/nestudio/internal/adapters/qrservice"
	repository "github.com/okian/nestudio/internal/adapters/repository"
	"github.com/okian/nestudio/internal/adapters/svg"
	"github.com/okian/nestudio/internal/domain/dedupe"
	"github.com/okian/nestudio/internal/domain/filter"
	"github.com/okian/nestudio/internal/domain/label"
	"github.com/okian/nestudio/internal/domain/model"
	"github.com/okian/nestudio/internal/domain/motion"
	"github.com/okian/nestudio/internal/domain/receipt"
	"github.com/okian/nestudio/internal/domain/theme"
	"github.com/okian/nestudio/pkg/logger"
	"github.com/okian/nestudio/pkg/metrics"
)

// QR sizes used by the page.
const (
	QRSizeHero = 108
	QRSizeCard = 96
	QRSizeStub = 80

	maxQRSize = 1000
)

// Source tells where a QR image came from.
type Source = model.ImageSource

// QR image sources.
const (
	SourcePlaceholder = model.SourcePlaceholder
	SourceCache       = model.SourceCache
	SourceRemote      = model.SourceRemote
	SourceFallback    = model.SourceFallback
)

// Service implements the API and site dependencies.
type Service struct {
	mu sync.RWMutex

	// Core components
	store    repository.Store
	themes   *theme.Controller
	qr       *qrservice.Client
	images   *imagecache.Cache
	deduper  dedupe.Deduper
	queue    *jobqueue.InMemoryQueue
	pool     *workerpool.Pool
	enhancer *enhance.Loader

	themeStore theme.Store
	spring     motion.Spring
	field      motion.Field

	// Configuration
	workerCount int
	queueSize   int
	dedupeSize  int
	cacheSize   int
	readWPM     int
	qrModules   int

	// State
	started bool

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore replaces the demo catalogue.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithThemeStore sets where theme preferences are kept.
func WithThemeStore(store theme.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.themeStore = store
		}
	}
}

// WithQRClient enables real QR images. Without it every QR falls back to the
// local pattern.
func WithQRClient(c *qrservice.Client) Option {
	return func(s *Service) {
		s.qr = c
	}
}

// WithEnhancer sets the enhancement script loader.
func WithEnhancer(l *enhance.Loader) Option {
	return func(s *Service) {
		if l != nil {
			s.enhancer = l
		}
	}
}

// WithWorkerCount sets the number of QR warm-up workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the warm-up queue capacity.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize bounds the warm-up dedupe set.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithCacheSize bounds the QR image cache.
func WithCacheSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.cacheSize = size
		}
	}
}

// WithReadWPM sets the words-per-minute used for read-time estimates.
func WithReadWPM(wpm int) Option {
	return func(s *Service) {
		if wpm > 0 {
			s.readWPM = wpm
		}
	}
}

// WithQRModules sets the pseudo-QR grid size.
func WithQRModules(n int) Option {
	return func(s *Service) {
		s.qrModules = label.ClampModules(n)
	}
}

// WithSpring sets the scroll spring.
func WithSpring(sp motion.Spring) Option {
	return func(s *Service) {
		if sp.Mass > 0 && sp.Stiffness > 0 {
			s.spring = sp
		}
	}
}

// WithFieldCell sets the magnetic field cell size in pixels.
func WithFieldCell(cell int) Option {
	return func(s *Service) {
		if cell > 0 {
			s.field = motion.Field{Cell: cell}
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a Service. Components that own goroutines are built in Start.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount: 2,
		queueSize:   64,
		dedupeSize:  1024,
		cacheSize:   256,
		readWPM:     receipt.DefaultWPM,
		qrModules:   label.DefaultModules,
		spring:      motion.DefaultSpring(),
		field:       motion.Field{Cell: motion.DefaultCell},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	if s.themeStore == nil {
		s.themeStore = preference.NewMemoryStore(0)
	}
	if s.enhancer == nil {
		s.enhancer = enhance.NewLoader(nil, nil)
	}
	s.themes = theme.NewController(s.themeStore)
	s.images = imagecache.New(s.cacheSize)
	return s
}

// Start builds the catalogue and QR pipeline, then queues warm-up jobs for
// every project link and the contact address.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	s.logger.Info(ctx, "starting site service...")

	if s.store == nil {
		store, err := repository.NewStaticStore()
		if err != nil {
			return fmt.Errorf("build catalogue: %w", err)
		}
		s.store = store
		s.logger.Info(ctx, "using demo catalogue", logger.Int("projects", store.Count(ctx)))
	}

	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	s.queue = jobqueue.NewInMemoryQueue(jobqueue.WithCapacity(s.queueSize))
	if s.qr != nil {
		s.pool = workerpool.NewPool(s.workerCount, s.queue, s.qr, s.images,
			workerpool.WithReleaser(s.deduper))
		s.pool.Start(ctx)
	}

	go s.enhancer.Load(context.WithoutCancel(ctx))

	s.started = true
	queued := s.warmLocked(ctx)
	s.logger.Info(ctx, "site service started",
		logger.Bool("qrEnabled", s.qr != nil),
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("warmJobs", queued),
	)
	return nil
}

// Stop shuts down the warm-up pool and closes the queue.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	ctx := context.Background()
	s.logger.Info(ctx, "stopping site service...")

	if s.pool != nil {
		if err := s.pool.Shutdown(ctx); err != nil {
			s.logger.Warn(ctx, "worker pool shutdown", logger.Error(err))
		}
		s.pool = nil
	} else if s.queue != nil {
		_ = s.queue.Close()
	}

	s.started = false
	s.logger.Info(ctx, "site service stopped")
}

func (s *Service) warmLocked(ctx context.Context) int {
	if s.qr == nil {
		return 0
	}
	records, err := s.store.List(ctx)
	if err != nil {
		s.logger.Warn(ctx, "warm-up skipped", logger.Error(err))
		return 0
	}
	jobs := make([]model.QRJob, 0, len(records)+1)
	for _, r := range records {
		if r.Link != "" {
			jobs = append(jobs, model.QRJob{Data: r.Link, Size: QRSizeStub})
		}
	}
	if profile, err := s.store.Profile(ctx); err == nil && profile.Mailto() != "" {
		jobs = append(jobs, model.QRJob{Data: profile.Mailto(), Size: QRSizeHero})
	}
	n := 0
	for _, j := range jobs {
		if s.enqueue(ctx, j) {
			n++
		}
	}
	return n
}

// Warm queues a background fetch for data at size. Duplicate and dropped
// jobs return false.
func (s *Service) Warm(ctx context.Context, data string, size int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started || s.qr == nil || strings.TrimSpace(data) == "" {
		return false
	}
	return s.enqueue(ctx, model.QRJob{Data: data, Size: clampQRSize(size)})
}

func (s *Service) enqueue(ctx context.Context, j model.QRJob) bool {
	key := j.Key()
	if _, ok := s.images.Get(key); ok {
		return false
	}
	if s.deduper.SeenAndRecord(ctx, key) {
		return false
	}
	if !s.queue.Enqueue(ctx, j) {
		s.deduper.Unrecord(ctx, key)
		s.logger.Debug(ctx, "warm-up job dropped", logger.String("key", key))
		return false
	}
	return true
}

func (s *Service) catalogue() (repository.Store, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, ErrNotStarted
	}
	return s.store, nil
}

// Projects returns the cards matching fs in catalogue order.
func (s *Service) Projects(ctx context.Context, fs model.FilterState) ([]model.ProjectCard, error) {
	store, err := s.catalogue()
	if err != nil {
		return nil, err
	}
	records, err := store.List(ctx)
	if err != nil {
		return nil, err
	}
	matched := filter.ApplyState(records, fs)
	if !fs.IsEmpty() {
		metrics.RecordFilter(len(matched))
	}
	cards := make([]model.ProjectCard, len(matched))
	for i := range matched {
		cards[i] = s.card(&matched[i])
	}
	return cards, nil
}

// Project returns one card or an error wrapping repository.ErrNotFound.
func (s *Service) Project(ctx context.Context, id string) (model.ProjectCard, error) {
	store, err := s.catalogue()
	if err != nil {
		return model.ProjectCard{}, err
	}
	rec, err := store.Get(ctx, id)
	if err != nil {
		return model.ProjectCard{}, err
	}
	return s.card(&rec), nil
}

func (s *Service) card(p *model.ProjectRecord) model.ProjectCard {
	return model.ProjectCard{
		Project:     *p,
		Artifacts:   receipt.DeriveArtifacts(p),
		ReadMinutes: receipt.ReadMinutes(p, s.readWPM),
		Barcode:     p.ID + "-" + p.DisplayYear(),
		Stub:        "STUB-" + p.ID,
	}
}

// Tags returns every tag in first-seen order.
func (s *Service) Tags(ctx context.Context) ([]string, error) {
	store, err := s.catalogue()
	if err != nil {
		return nil, err
	}
	records, err := store.List(ctx)
	if err != nil {
		return nil, err
	}
	return filter.AllTags(records), nil
}

// About returns the profile with skills and experience derived from the catalogue.
func (s *Service) About(ctx context.Context) (model.About, error) {
	store, err := s.catalogue()
	if err != nil {
		return model.About{}, err
	}
	records, err := store.List(ctx)
	if err != nil {
		return model.About{}, err
	}
	profile, err := store.Profile(ctx)
	if err != nil {
		return model.About{}, err
	}
	return model.About{
		Profile:     profile,
		Skills:      receipt.Skills(records),
		Experiences: receipt.Experiences(records),
	}, nil
}

// QRImage returns an image for data. It never fails: empty data yields a
// placeholder and any fetch problem yields the local pattern.
func (s *Service) QRImage(ctx context.Context, data string, size int) (model.Image, Source) {
	size = clampQRSize(size)
	src, img := s.qrImage(ctx, data, size)
	metrics.RecordQRRequest(string(src))
	return img, src
}

func (s *Service) qrImage(ctx context.Context, data string, size int) (Source, model.Image) {
	if strings.TrimSpace(data) == "" {
		return SourcePlaceholder, model.Image{ContentType: svg.ContentType, Body: svg.Placeholder(size, "NO IMAGE")}
	}
	job := model.QRJob{Data: data, Size: size}
	if img, ok := s.images.Get(job.Key()); ok {
		return SourceCache, img
	}
	fallback := model.Image{ContentType: svg.ContentType, Body: s.Pattern(data, s.qrModules, size)}
	if s.qr == nil {
		return SourceFallback, fallback
	}
	img, err := s.qr.Fetch(ctx, data, size)
	if err != nil {
		s.logger.Warn(ctx, "qr fetch failed, using local pattern",
			logger.String("key", job.Key()), logger.Error(err))
		return SourceFallback, fallback
	}
	s.images.Add(job.Key(), img)
	return SourceRemote, img
}

func clampQRSize(size int) int {
	switch {
	case size <= 0:
		return QRSizeHero
	case size > maxQRSize:
		return maxQRSize
	}
	return size
}

// Barcode renders the pseudo-barcode for value.
func (s *Service) Barcode(value string, height, density int) []byte {
	if value == "" {
		value = label.DefaultBarcodeValue
	}
	metrics.RecordLabelRender("barcode")
	return svg.Barcode(value, label.Barcode(value), height, density)
}

// Pattern renders the pseudo-QR for seed; modules <= 0 uses the configured size.
func (s *Service) Pattern(seed string, modules, size int) []byte {
	if modules <= 0 {
		modules = s.qrModules
	}
	metrics.RecordLabelRender("pattern")
	return svg.Pattern(label.QRPattern(seed, modules), size)
}

// FieldSnapshot renders the filing field for a viewport with the pointer at p.
func (s *Service) FieldSnapshot(width, height int, p motion.Point) []byte {
	pointer := motion.NewValue(p)
	filings := s.field.Filings(width, height, pointer.Reader())
	cols, _ := s.field.Grid(width, height)
	metrics.RecordLabelRender("field")
	return svg.Field(filings, width, height, cols, "")
}

// Themes returns the theme controller.
func (s *Service) Themes() *theme.Controller { return s.themes }

// Enhancement returns the optional script capability.
func (s *Service) Enhancement() *enhance.Capability { return s.enhancer.Capability() }

// Spring returns the scroll spring.
func (s *Service) Spring() motion.Spring { return s.spring }

// Field returns the magnetic field layout.
func (s *Service) Field() motion.Field { return s.field }

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":      s.started,
		"qrEnabled":    s.qr != nil,
		"workerCount":  s.workerCount,
		"queueSize":    s.queueSize,
		"dedupeSize":   s.dedupeSize,
		"qrCacheSize":  s.images.Len(),
		"readWpm":      s.readWPM,
		"qrModules":    s.qrModules,
		"enhancement":  string(s.enhancer.Capability().State()),
		"springSettle": s.spring.Settle().String(),
	}

	if s.started {
		queueLen := s.queue.Len(ctx)
		stats["queueLength"] = queueLen
		stats["dedupeEntries"] = s.deduper.Size()
		stats["projects"] = s.store.Count(ctx)
		metrics.UpdateQueueSize(queueLen)
	}
	if ms, ok := s.themeStore.(*preference.MemoryStore); ok {
		stats["themePreferences"] = ms.Len()
	}
	return stats
}
