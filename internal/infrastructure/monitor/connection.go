package monitor

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// PingFunc probes a dependency; *pgxpool.Pool.Ping and *sql.DB.PingContext both fit.
type PingFunc func(ctx context.Context) error

type Monitor struct {
	storage string
	ping    PingFunc

	status   Status
	mu       sync.RWMutex
	interval time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once
	logger   *zap.Logger
}

func New(storage string, ping PingFunc, interval time.Duration, logger *zap.Logger) *Monitor {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Monitor{
		storage:  storage,
		ping:     ping,
		interval: interval,
		stopCh:   make(chan struct{}),
		logger:   logger,
	}
}

// Start probes once synchronously, then keeps probing in the background.
func (m *Monitor) Start() {
	m.refresh()
	go m.loop()
}

func (m *Monitor) Stop() {
	m.stopOnce.Do(func() { close(m.stopCh) })
}

func (m *Monitor) IsOnline() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status.Storage
}

func (m *Monitor) GetStatus() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

func (m *Monitor) loop() {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.refresh()
		case <-m.stopCh:
			return
		}
	}
}

func (m *Monitor) refresh() {
	online := m.checkStorage()

	m.mu.Lock()
	if m.status.Storage && !online {
		m.logger.Warn("storage went offline", zap.String("storage", m.storage))
	}
	m.status = Status{
		Storage:   online,
		Driver:    m.storage,
		LastCheck: time.Now(),
	}
	m.mu.Unlock()
}

func (m *Monitor) checkStorage() bool {
	if m.ping == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := m.ping(ctx); err != nil {
		m.logger.Debug("storage ping failed", zap.String("storage", m.storage), zap.Error(err))
		return false
	}
	return true
}
