package measurement

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/Tap30/quantcast-go/adapters"
)

// Dispatcher batches queued events and delivers them to the collector.
//
// A flush is triggered by the ticker (started on the first enqueue), by the
// queue reaching MaxBatchSize, or explicitly. Network errors and 5xx answers
// are retried with backoff; 4xx answers drop the batch. A batch that still
// fails after MaxRetries is put back at the front of the queue and the queue
// is persisted.
type Dispatcher struct {
	config  DispatcherConfig
	queue   *Queue
	http    HTTPAdapter
	storage StorageAdapter
	logger  LoggerAdapter

	flushMu sync.Mutex

	timerMu      sync.Mutex
	timerStarted bool
	stopped      bool
	ticker       *time.Ticker
	stopCh       chan struct{}
	wg           sync.WaitGroup
}

func NewDispatcher(config DispatcherConfig, http HTTPAdapter, storage StorageAdapter) *Dispatcher {
	if config.Backoff == nil {
		config.Backoff = exponentialBackoff
	}
	return &Dispatcher{
		config:  config,
		queue:   NewQueue(),
		http:    http,
		storage: storage,
		logger:  adapters.NewNoOpLoggerAdapter(),
		stopCh:  make(chan struct{}),
	}
}

// SetLoggerAdapter sets a custom logger adapter
func (d *Dispatcher) SetLoggerAdapter(logger LoggerAdapter) {
	d.logger = logger
}

// Start restores events persisted by a previous run. The flush timer is not
// started until the first new event arrives.
func (d *Dispatcher) Start() error {
	events, err := d.storage.Load()
	if err != nil {
		return err
	}
	if len(events) > 0 {
		d.logger.Debug("Restored %d persisted events", len(events))
	}
	d.queue.LoadFromSlice(events)
	return nil
}

// Enqueue queues event for delivery. Events enqueued after Stop stay in the
// queue and are only persisted by a later Stop call.
func (d *Dispatcher) Enqueue(event Event) {
	n := d.queue.Enqueue(event)

	d.timerMu.Lock()
	defer d.timerMu.Unlock()
	if d.stopped {
		return
	}
	d.startTimerLocked()

	if n >= d.config.MaxBatchSize {
		d.wg.Add(1)
		go func() {
			defer d.wg.Done()
			d.Flush()
		}()
	}
}

func (d *Dispatcher) startTimerLocked() {
	if d.timerStarted {
		return
	}
	d.ticker = time.NewTicker(d.config.FlushInterval)
	d.timerStarted = true

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		for {
			select {
			case <-d.ticker.C:
				d.Flush()
			case <-d.stopCh:
				return
			}
		}
	}()
}

// Flush sends everything currently queued.
func (d *Dispatcher) Flush() {
	d.FlushContext(context.Background())
}

// FlushContext sends everything currently queued. Cancelling ctx aborts
// in-flight requests and pending retries; the affected batches are kept.
func (d *Dispatcher) FlushContext(ctx context.Context) {
	d.flushMu.Lock()
	defer d.flushMu.Unlock()

	pending := d.queue.Drain()
	if len(pending) == 0 {
		return
	}
	d.logger.Debug("Flushing %d events", len(pending))

	for start := 0; start < len(pending); start += d.config.MaxBatchSize {
		end := min(start+d.config.MaxBatchSize, len(pending))
		batch := pending[start:end]

		if err := d.send(ctx, batch); err != nil {
			d.logger.Error("Failed to send batch of %d events: %v", len(batch), err)
			continue
		}
		d.logger.Debug("Sent batch of %d events", len(batch))
	}
}

func (d *Dispatcher) send(ctx context.Context, batch []Event) error {
	for attempt := 0; ; attempt++ {
		d.logger.Debug("Sending batch, attempt %d/%d", attempt+1, d.config.MaxRetries+1)

		resp, err := d.http.Send(ctx, d.config.Endpoint, batch, d.config.Headers)
		switch {
		case err != nil:
			d.logger.Warn("Network error: %v", err)
		case resp.Status >= 200 && resp.Status < 300:
			d.clearStorage()
			return nil
		case resp.Status >= 400 && resp.Status < 500:
			d.logger.Warn("Collector rejected batch with status %d, dropping %d events", resp.Status, len(batch))
			d.clearStorage()
			return nil
		default:
			d.logger.Warn("Collector answered with status %d", resp.Status)
			err = &HTTPError{Status: resp.Status}
		}

		if attempt >= d.config.MaxRetries {
			d.logger.Error("Giving up after %d attempts, keeping %d events", attempt+1, len(batch))
			d.queue.Requeue(batch)
			d.persist()
			return err
		}

		wait := d.config.Backoff(attempt)
		d.logger.Debug("Retrying in %v", wait)
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			d.queue.Requeue(batch)
			d.persist()
			return ctx.Err()
		}
	}
}

func (d *Dispatcher) clearStorage() {
	if err := d.storage.Clear(); err != nil {
		d.logger.Warn("Failed to clear storage: %v", err)
	}
}

func (d *Dispatcher) persist() {
	events := d.queue.ToSlice()
	if len(events) == 0 {
		return
	}
	if err := d.storage.Save(events); err != nil {
		d.logger.Error("Failed to persist %d events: %v", len(events), err)
	}
}

// Stop halts the timer, flushes once more and persists whatever is left.
func (d *Dispatcher) Stop() error {
	d.halt()
	d.Flush()
	return d.saveRemaining()
}

// StopWithoutFlush halts the timer and persists the queue without sending it.
func (d *Dispatcher) StopWithoutFlush() error {
	d.halt()
	return d.saveRemaining()
}

func (d *Dispatcher) halt() {
	d.timerMu.Lock()
	if d.stopped {
		d.timerMu.Unlock()
		return
	}
	d.stopped = true
	if d.ticker != nil {
		d.ticker.Stop()
	}
	close(d.stopCh)
	d.timerMu.Unlock()

	d.wg.Wait()
}

func (d *Dispatcher) saveRemaining() error {
	events := d.queue.ToSlice()
	if len(events) == 0 {
		return nil
	}
	return d.storage.Save(events)
}

func exponentialBackoff(attempt int) time.Duration {
	backoff := time.Duration(1<<attempt) * time.Second
	jitter := time.Duration(rand.Intn(1000)) * time.Millisecond
	return backoff + jitter
}
