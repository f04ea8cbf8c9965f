package workerpool

import (
	"sync"
	"time"
)

// Metrics aggregates the pool-level counters spec.md §4.7 names
// (task_duration, tasks_completed{status}, queue_wait, utilization,
// active_threads, queue_size), updated by Pool.Run under Metrics' own
// mutex, including from the goroutine that runs each task's handler.
type Metrics struct {
	mu sync.Mutex

	taskDurations  map[TaskType]time.Duration
	taskCount      map[TaskType]int64
	tasksCompleted map[[2]string]int64 // {taskType, status}
	queueWaitTotal time.Duration
	queueWaitCount int64
	activeThreads  int64
	queueSize      int64
}

func NewMetrics() *Metrics {
	return &Metrics{
		taskDurations:  make(map[TaskType]time.Duration),
		taskCount:      make(map[TaskType]int64),
		tasksCompleted: make(map[[2]string]int64),
	}
}

func (m *Metrics) observeTaskDuration(t TaskType, d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.taskDurations[t] += d
	m.taskCount[t]++
}

func (m *Metrics) incrTasksCompleted(t TaskType, status string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tasksCompleted[[2]string{string(t), status}]++
}

func (m *Metrics) observeQueueWait(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queueWaitTotal += d
	m.queueWaitCount++
}

func (m *Metrics) incrActiveThreads(delta int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.activeThreads += delta
}

func (m *Metrics) incrQueueSize(delta int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queueSize += delta
}

// Snapshot is a point-in-time read of every metric, for an exposition layer
// or a test assertion.
type Snapshot struct {
	AverageTaskDuration map[TaskType]time.Duration
	TasksCompleted      map[[2]string]int64
	AverageQueueWait     time.Duration
	ActiveThreads        int64
	QueueSize            int64
	Utilization          float64 // activeThreads / (activeThreads + idle capacity), sampled
}

// Snapshot reads the current metric values. capacity is the pool's
// configured maxWorkers, used to compute Utilization.
func (m *Metrics) Snapshot(capacity int) Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	avgDur := make(map[TaskType]time.Duration, len(m.taskDurations))
	for t, total := range m.taskDurations {
		if n := m.taskCount[t]; n > 0 {
			avgDur[t] = total / time.Duration(n)
		}
	}

	completed := make(map[[2]string]int64, len(m.tasksCompleted))
	for k, v := range m.tasksCompleted {
		completed[k] = v
	}

	var avgWait time.Duration
	if m.queueWaitCount > 0 {
		avgWait = m.queueWaitTotal / time.Duration(m.queueWaitCount)
	}

	var util float64
	if capacity > 0 {
		util = float64(m.activeThreads) / float64(capacity)
	}

	return Snapshot{
		AverageTaskDuration: avgDur,
		TasksCompleted:      completed,
		AverageQueueWait:    avgWait,
		ActiveThreads:       m.activeThreads,
		QueueSize:           m.queueSize,
		Utilization:         util,
	}
}

// Metrics exposes the pool's metrics snapshot for an exposition layer.
func (p *Pool) Metrics() Snapshot {
	return p.metrics.Snapshot(cap(p.sem))
}
