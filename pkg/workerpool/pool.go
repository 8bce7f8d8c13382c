// Package workerpool runs background jobs on a fixed set of workers. Jobs that
// share a key always land on the same worker, so they run in dispatch order.
package workerpool

import (
	"context"
	"hash/fnv"
	"sync"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

// Job is one unit of background work. Handler receives the worker's context,
// which outlives the request that dispatched the job.
type Job struct {
	Key     string
	Handler func(ctx context.Context) error
}

// Stats is a point-in-time view of the pool.
type Stats struct {
	NumWorkers      int   `json:"num_workers"`
	QueueSize       int   `json:"queue_size"`
	ActiveWorkers   int   `json:"active_workers"`
	Queued          int   `json:"queued"`
	TotalDispatched int64 `json:"total_dispatched"`
	TotalProcessed  int64 `json:"total_processed"`
	TotalDropped    int64 `json:"total_dropped"`
	TotalErrors     int64 `json:"total_errors"`
}

type Pool struct {
	name       string
	numWorkers int
	queueSize  int
	workers    []*worker
	wg         sync.WaitGroup
	stopOnce   sync.Once
	stopped    int32

	totalDispatched int64
	totalProcessed  int64
	totalDropped    int64
	totalErrors     int64
}

type worker struct {
	id           int
	jobQueue     chan Job
	ctx          context.Context
	cancel       context.CancelFunc
	isProcessing int32
	pool         *Pool
}

// New creates a pool; call Start before dispatching.
func New(name string, numWorkers, queueSize int) *Pool {
	if numWorkers <= 0 {
		numWorkers = 4
	}
	if queueSize <= 0 {
		queueSize = 100
	}
	return &Pool{
		name:       name,
		numWorkers: numWorkers,
		queueSize:  queueSize,
		workers:    make([]*worker, numWorkers),
	}
}

func (p *Pool) Start(ctx context.Context) {
	for i := 0; i < p.numWorkers; i++ {
		workerCtx, cancel := context.WithCancel(ctx)
		w := &worker{
			id:       i,
			jobQueue: make(chan Job, p.queueSize),
			ctx:      workerCtx,
			cancel:   cancel,
			pool:     p,
		}
		p.workers[i] = w

		p.wg.Add(1)
		go w.run(&p.wg)
	}

	logrus.Infof("[WORKER_POOL] %s started with %d workers, queue size: %d", p.name, p.numWorkers, p.queueSize)
}

// TryDispatch queues job without blocking and reports whether it was accepted.
// A full queue or a stopped pool drops the job.
func (p *Pool) TryDispatch(job Job) bool {
	if atomic.LoadInt32(&p.stopped) == 1 {
		atomic.AddInt64(&p.totalDropped, 1)
		return false
	}

	shard := p.shardFor(job.Key)
	atomic.AddInt64(&p.totalDispatched, 1)

	sent := func() (ok bool) {
		// Stop may close the queue between the stopped check and the send.
		defer func() {
			if r := recover(); r != nil {
				ok = false
			}
		}()
		select {
		case p.workers[shard].jobQueue <- job:
			return true
		default:
			return false
		}
	}()
	if sent {
		return true
	}

	atomic.AddInt64(&p.totalDropped, 1)
	logrus.Warnf("[WORKER_POOL] %s worker %d queue full (or stopped), dropping job %s", p.name, shard, job.Key)
	return false
}

// Stop closes the queues and waits for queued jobs to finish.
func (p *Pool) Stop() {
	p.stopOnce.Do(func() {
		atomic.StoreInt32(&p.stopped, 1)
		logrus.Infof("[WORKER_POOL] %s stopping workers...", p.name)

		for _, w := range p.workers {
			if w != nil {
				close(w.jobQueue)
			}
		}
		p.wg.Wait()
		for _, w := range p.workers {
			if w != nil {
				w.cancel()
			}
		}

		logrus.Infof("[WORKER_POOL] %s all workers stopped", p.name)
	})
}

func (p *Pool) shardFor(key string) int {
	h := fnv.New32a()
	h.Write([]byte(key))
	return int(h.Sum32() % uint32(p.numWorkers))
}

func (p *Pool) Stats() Stats {
	stats := Stats{
		NumWorkers:      p.numWorkers,
		QueueSize:       p.queueSize,
		TotalDispatched: atomic.LoadInt64(&p.totalDispatched),
		TotalProcessed:  atomic.LoadInt64(&p.totalProcessed),
		TotalDropped:    atomic.LoadInt64(&p.totalDropped),
		TotalErrors:     atomic.LoadInt64(&p.totalErrors),
	}
	for _, w := range p.workers {
		if w == nil {
			continue
		}
		if atomic.LoadInt32(&w.isProcessing) == 1 {
			stats.ActiveWorkers++
		}
		stats.Queued += len(w.jobQueue)
	}
	return stats
}

// RegisterMetrics exposes the pool counters as movi_worker_pool_* series labelled with the pool name.
func (p *Pool) RegisterMetrics(reg prometheus.Registerer) {
	labels := prometheus.Labels{"pool": p.name}
	reg.MustRegister(
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "movi_worker_pool_queued", Help: "Jobs waiting in the pool queues.", ConstLabels: labels,
		}, func() float64 { return float64(p.Stats().Queued) }),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Name: "movi_worker_pool_processed_total", Help: "Jobs run by the pool.", ConstLabels: labels,
		}, func() float64 { return float64(atomic.LoadInt64(&p.totalProcessed)) }),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Name: "movi_worker_pool_dropped_total", Help: "Jobs rejected because a queue was full or the pool stopped.", ConstLabels: labels,
		}, func() float64 { return float64(atomic.LoadInt64(&p.totalDropped)) }),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Name: "movi_worker_pool_errors_total", Help: "Jobs that returned an error or panicked.", ConstLabels: labels,
		}, func() float64 { return float64(atomic.LoadInt64(&p.totalErrors)) }),
	)
}

func (w *worker) run(wg *sync.WaitGroup) {
	defer wg.Done()

	for job := range w.jobQueue {
		w.process(job)
	}
	logrus.Debugf("[WORKER_POOL] %s worker %d shutting down", w.pool.name, w.id)
}

func (w *worker) process(job Job) {
	atomic.StoreInt32(&w.isProcessing, 1)
	defer func() {
		if r := recover(); r != nil {
			atomic.AddInt64(&w.pool.totalErrors, 1)
			logrus.Errorf("[WORKER_POOL] %s worker %d panic for %s: %v", w.pool.name, w.id, job.Key, r)
		}
		atomic.StoreInt32(&w.isProcessing, 0)
		atomic.AddInt64(&w.pool.totalProcessed, 1)
	}()

	if err := job.Handler(w.ctx); err != nil {
		atomic.AddInt64(&w.pool.totalErrors, 1)
		logrus.WithError(err).Errorf("[WORKER_POOL] %s worker %d job failed for %s", w.pool.name, w.id, job.Key)
	}
}
