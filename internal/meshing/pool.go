package meshing

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"

	"voxelcore/internal/config"
	"voxelcore/internal/logging"
	"voxelcore/internal/metrics"
	"voxelcore/internal/world"
)

// SchedulerOptions configures a Scheduler.
type SchedulerOptions struct {
	// Workers is the number of lanes; 0 uses logical cores - 1.
	Workers int
	// PoolSize is split evenly between the lanes.
	PoolSize int
	// Threaded starts one goroutine per lane. Without it GenerateInline
	// does the work on the caller.
	Threaded         bool
	StopPollAttempts int
	StopPollInterval time.Duration

	Metrics *metrics.Scheduler

	// OnLaneFailure reports a recovered panic. The lane has stopped.
	OnLaneFailure           func(lane int, err error)
	OnChunkAfterFirstRender func(c *world.Chunk)
	OnChunkRender           func(c *world.Chunk)
}

// OptionsFromConfig splits a meshing configuration into mesher and
// scheduler options.
func OptionsFromConfig(c config.MeshingConfig) (Options, SchedulerOptions) {
	mopts := Options{
		SmoothLighting: c.SmoothLighting,
		Colliders:      c.Colliders,
		NavMesh:        c.NavMesh,
		Tinting:        c.Tinting,
		PointMode:      c.PointMode,
	}
	sopts := SchedulerOptions{
		Workers:          c.Workers,
		PoolSize:         c.PoolSize,
		Threaded:         c.Threaded,
		StopPollAttempts: c.StopPollAttempts,
		StopPollInterval: c.StopPollInterval.Duration,
	}
	return mopts, sopts
}

// DefaultWorkers returns logical cores - 1, at least 1.
func DefaultWorkers() int {
	n, err := cpu.Counts(true)
	if err != nil {
		logging.Warn("count cpus: %v", err)
		return 1
	}
	return max(n-1, 1)
}

// lane is one worker with its own ring of job slots. The cursors hold the
// slot last claimed, last generated and last uploaded; mu guards the
// cursors only.
type lane struct {
	id     int
	slots  []MeshJob
	jobs   chan int
	mesher *Mesher

	mu     sync.Mutex
	last   int
	gen    int
	upload int

	alive atomic.Bool
	// failed is set when inline generation panicked on this lane.
	failed atomic.Bool
}

func (l *lane) next(i int) int { return (i + 1) % len(l.slots) }

// Scheduler distributes chunk meshing over lanes. Each chunk always goes to
// the same lane so its jobs are generated and uploaded in order.
type Scheduler struct {
	opts    SchedulerOptions
	metrics *metrics.Scheduler
	lanes   []*lane

	running  atomic.Bool
	quit     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewScheduler creates the lanes and, when threaded, starts their workers.
func NewScheduler(store *world.ChunkStore, defs Definitions, mopts Options, opts SchedulerOptions) *Scheduler {
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers()
	}
	if opts.PoolSize <= 0 {
		opts.PoolSize = 128
	}
	if opts.StopPollAttempts <= 0 {
		opts.StopPollAttempts = 100
	}
	if opts.StopPollInterval <= 0 {
		opts.StopPollInterval = 10 * time.Millisecond
	}
	if opts.OnLaneFailure == nil {
		opts.OnLaneFailure = func(lane int, err error) {
			logging.Error("meshing lane %d stopped: %v", lane, err)
		}
	}
	m := opts.Metrics
	if m == nil {
		m = metrics.NewScheduler(nil)
	}

	perLane := max(opts.PoolSize/opts.Workers, 2)
	s := &Scheduler{
		opts:    opts,
		metrics: m,
		lanes:   make([]*lane, opts.Workers),
		quit:    make(chan struct{}),
	}
	for i := range s.lanes {
		s.lanes[i] = &lane{
			id:     i,
			slots:  make([]MeshJob, perLane),
			jobs:   make(chan int, perLane),
			mesher: NewMesher(store, defs, mopts),
			last:   perLane - 1,
			gen:    perLane - 1,
			upload: perLane - 1,
		}
	}
	s.running.Store(true)

	if opts.Threaded {
		for _, l := range s.lanes {
			l.alive.Store(true)
			s.wg.Add(1)
			go s.worker(l)
		}
	}
	logging.Debug("mesh scheduler: %d lanes, %d slots each, threaded=%v", len(s.lanes), perLane, opts.Threaded)
	return s
}

// Lanes returns the number of lanes.
func (s *Scheduler) Lanes() int { return len(s.lanes) }

// SlotsPerLane returns the ring size of each lane.
func (s *Scheduler) SlotsPerLane() int { return len(s.lanes[0].slots) }

// CreateChunkMeshJob claims a slot for c on its lane. It returns false
// without blocking when the lane's ring is full or the scheduler stopped.
func (s *Scheduler) CreateChunkMeshJob(c *world.Chunk) bool {
	if !s.running.Load() {
		return false
	}
	l := s.lanes[c.PoolIndex%len(s.lanes)]

	l.mu.Lock()
	cand := l.next(l.last)
	if cand == l.gen || cand == l.upload {
		l.mu.Unlock()
		s.metrics.Rejected.Inc()
		return false
	}
	job := &l.slots[cand]
	job.Chunk = c
	job.setState(JobClaimed)
	l.last = cand
	l.mu.Unlock()

	// the channel holds one entry per slot, so this never blocks
	select {
	case l.jobs <- cand:
	default:
		panic(fmt.Sprintf("meshing lane %d: job channel full", l.id))
	}

	if !c.IsEmpty() {
		c.AdvanceRenderState(world.RenderingRequested)
	}
	s.metrics.Enqueued.Inc()
	return true
}

// worker is the goroutine of one lane. A panic while generating stops
// this lane only.
func (s *Scheduler) worker(l *lane) {
	defer s.wg.Done()
	defer l.alive.Store(false)
	defer func() {
		if r := recover(); r != nil {
			s.metrics.LaneFailures.Inc()
			s.opts.OnLaneFailure(l.id, fmt.Errorf("panic: %v", r))
		}
	}()

	for {
		select {
		case <-s.quit:
			return
		case idx := <-l.jobs:
			s.generate(l, idx)
		}
	}
}

// generate builds one slot and commits the generation cursor.
func (s *Scheduler) generate(l *lane, idx int) {
	job := &l.slots[idx]
	job.setState(JobGenerating)
	start := time.Now()
	l.mesher.Generate(job)
	s.metrics.ObserveGeneration(time.Since(start))
	job.setState(JobReady)

	l.mu.Lock()
	if s.running.Load() {
		l.gen = idx
		s.metrics.Ready.Inc()
	}
	l.mu.Unlock()
}

// GenerateInline runs queued jobs on the calling goroutine until none are
// left or ctx is done. It is the single-threaded fallback and must not be
// used while lane workers run. A panic stops inline generation for that
// lane and is reported like a worker failure.
func (s *Scheduler) GenerateInline(ctx context.Context) int {
	n := 0
	for s.running.Load() {
		progress := false
		for _, l := range s.lanes {
			if ctx.Err() != nil {
				return n
			}
			if l.failed.Load() {
				continue
			}
			select {
			case idx := <-l.jobs:
				if s.generateRecovered(l, idx) {
					n++
					progress = true
				}
			default:
			}
		}
		if !progress {
			break
		}
	}
	return n
}

func (s *Scheduler) generateRecovered(l *lane, idx int) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			l.failed.Store(true)
			s.metrics.LaneFailures.Inc()
			s.opts.OnLaneFailure(l.id, fmt.Errorf("panic: %v", r))
			ok = false
		}
	}()
	s.generate(l, idx)
	return true
}

// UploadReady hands generated jobs to p, visiting the lanes round robin,
// until no job is ready or ctx is done. The context deadline is the upload
// budget of a frame. Nothing is uploaded after Stop.
func (s *Scheduler) UploadReady(ctx context.Context, p Presenter) int {
	n := 0
	for s.running.Load() {
		progress := false
		for _, l := range s.lanes {
			if ctx.Err() != nil {
				return n
			}
			l.mu.Lock()
			if l.upload == l.gen {
				l.mu.Unlock()
				continue
			}
			idx := l.next(l.upload)
			l.mu.Unlock()

			s.upload(&l.slots[idx], p)

			l.mu.Lock()
			l.upload = idx
			l.mu.Unlock()
			n++
			progress = true
		}
		if !progress {
			break
		}
	}
	return n
}

// Pending returns the number of claimed jobs not yet uploaded.
func (s *Scheduler) Pending() int {
	n := 0
	for _, l := range s.lanes {
		l.mu.Lock()
		n += (l.last - l.upload + len(l.slots)) % len(l.slots)
		l.mu.Unlock()
	}
	return n
}

// Running reports whether Stop has not been called.
func (s *Scheduler) Running() bool { return s.running.Load() }

// AliveLanes returns the number of worker goroutines still running.
func (s *Scheduler) AliveLanes() int {
	n := 0
	for _, l := range s.lanes {
		if l.alive.Load() {
			n++
		}
	}
	return n
}

// Stop signals every lane and waits for them to exit, polling up to
// StopPollAttempts times. It returns whether all lanes exited.
func (s *Scheduler) Stop() bool {
	s.stopOnce.Do(func() {
		s.running.Store(false)
		close(s.quit)
	})
	for i := 0; i < s.opts.StopPollAttempts; i++ {
		if s.AliveLanes() == 0 {
			return true
		}
		time.Sleep(s.opts.StopPollInterval)
	}
	alive := s.AliveLanes()
	if alive > 0 {
		logging.Warn("mesh scheduler: %d lanes still running after stop", alive)
	}
	return alive == 0
}
