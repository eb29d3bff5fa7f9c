package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/lysyi3m/potus-tracker/app/cfg"
	"github.com/lysyi3m/potus-tracker/app/database"
	"github.com/lysyi3m/potus-tracker/app/fedreg"
	"github.com/lysyi3m/potus-tracker/app/source"
)

var _ TaskSchedulerInterface = (*Scheduler)(nil)

const (
	taskQueueSize = 300
	taskTimeout   = 5 * time.Minute
)

type Scheduler struct {
	sourceRepo     database.SourceRepository
	orderRepo      database.OrderRepository
	eventRepo      database.EventRepository
	configCache    *source.ConfigCache
	httpClient     *http.Client
	orderParser    *source.OrderParser
	filterer       *source.Filterer
	scheduleParser *source.ScheduleParser
	renderer       *fedreg.Renderer
	textExtractor  *source.TextExtractor
	userAgent      string
	interval       time.Duration
	workerCount    int
	ctx            context.Context
	cancel         context.CancelFunc
	wg             sync.WaitGroup
	taskQueue      chan TaskInterface
}

func NewScheduler(appCfg *cfg.Cfg, configCache *source.ConfigCache, sourceRepo database.SourceRepository,
	orderRepo database.OrderRepository, eventRepo database.EventRepository, httpClient *http.Client) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		sourceRepo:     sourceRepo,
		orderRepo:      orderRepo,
		eventRepo:      eventRepo,
		configCache:    configCache,
		httpClient:     httpClient,
		orderParser:    source.NewOrderParser(),
		filterer:       source.NewFilterer(),
		scheduleParser: source.NewScheduleParser(),
		renderer:       fedreg.NewRenderer(),
		textExtractor:  source.NewTextExtractor(),
		userAgent:      appCfg.UserAgent,
		interval:       time.Duration(max(appCfg.SchedulerInterval, 1)) * time.Second,
		workerCount:    max(appCfg.WorkerCount, 1),
		ctx:            ctx,
		cancel:         cancel,
		taskQueue:      make(chan TaskInterface, taskQueueSize),
	}
}

func (s *Scheduler) Start() {
	for i := 0; i < s.workerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.enqueueStartupTasks()

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.enqueueTasks()
			}
		}
	}()
}

func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
}

func (s *Scheduler) EnqueueTask(task TaskInterface) error {
	select {
	case <-s.ctx.Done():
		return s.ctx.Err()
	default:
	}

	select {
	case s.taskQueue <- task:
		queueDepth.Set(float64(len(s.taskQueue)))
		return nil
	default:
		taskRuns.WithLabelValues(string(task.GetType()), outcomeDropped).Inc()
		return fmt.Errorf("task queue is full")
	}
}

// EnqueueSource queues a config sync followed by a fetch, and a render pass
// for order sources that render content. Disabled sources are only synced.
func (s *Scheduler) EnqueueSource(sourceConfig *source.Config) error {
	syncTask := NewSyncSourceConfigTask(sourceConfig.Name, sourceConfig, s.sourceRepo)
	if err := s.EnqueueTask(syncTask); err != nil {
		return fmt.Errorf("failed to enqueue SyncSourceConfigTask: %w", err)
	}

	if !sourceConfig.Settings.Enabled {
		slog.Debug("Source disabled, skipping fetch", "source", sourceConfig.Name)
		return nil
	}

	if err := s.EnqueueTask(s.newFetchTask(sourceConfig)); err != nil {
		return fmt.Errorf("failed to enqueue fetch task: %w", err)
	}

	if sourceConfig.Settings.RenderContent {
		if err := s.EnqueueTask(s.newRenderTask(sourceConfig)); err != nil {
			return fmt.Errorf("failed to enqueue RenderOrdersTask: %w", err)
		}
	}

	return nil
}

func (s *Scheduler) newFetchTask(sourceConfig *source.Config) TaskInterface {
	if sourceConfig.Kind == source.KindSchedule {
		return NewFetchScheduleTask(sourceConfig.Name, sourceConfig, s.httpClient, s.scheduleParser, s.sourceRepo, s.eventRepo, s.userAgent)
	}
	return NewFetchOrdersTask(sourceConfig.Name, sourceConfig, s.httpClient, s.orderParser, s.filterer, s.sourceRepo, s.orderRepo, s.userAgent)
}

func (s *Scheduler) newRenderTask(sourceConfig *source.Config) TaskInterface {
	return NewRenderOrdersTask(sourceConfig.Name, sourceConfig, s.httpClient, s.renderer, s.textExtractor, s.orderRepo, s.userAgent)
}

func (s *Scheduler) enqueueStartupTasks() {
	sourceConfigs := s.configCache.GetConfigs()
	if len(sourceConfigs) == 0 {
		slog.Debug("No source configurations found")
		return
	}

	slog.Debug("Processing source configurations", "count", len(sourceConfigs))

	for _, sourceConfig := range sourceConfigs {
		if err := s.EnqueueSource(sourceConfig); err != nil {
			slog.Warn("Failed to enqueue source tasks", "source", sourceConfig.Name, "error", err)
		}
	}
}

func (s *Scheduler) enqueueTasks() {
	sourceConfigs := s.configCache.GetEnabledConfigs()
	if len(sourceConfigs) == 0 {
		slog.Debug("No enabled source configurations found")
		return
	}

	slog.Debug("Processing enabled source configurations for task scheduling", "count", len(sourceConfigs))

	for _, sourceConfig := range sourceConfigs {
		src, err := s.sourceRepo.GetSource(sourceConfig.Name)
		if err != nil {
			slog.Warn("Failed to get source from database, skipping", "source", sourceConfig.Name, "error", err)
			continue
		}
		if src == nil {
			slog.Warn("Source not found in database, skipping", "source", sourceConfig.Name)
			continue
		}

		now := time.Now().UTC()
		if src.NextFetchAt != nil && src.NextFetchAt.After(now) {
			slog.Debug("Source not due for refresh yet", "source", sourceConfig.Name, "next_fetch_at", src.NextFetchAt)
		} else if err := s.EnqueueTask(s.newFetchTask(sourceConfig)); err != nil {
			slog.Warn("Failed to enqueue fetch task", "source", sourceConfig.Name, "error", err)
		}

		if sourceConfig.Settings.RenderContent {
			if err := s.EnqueueTask(s.newRenderTask(sourceConfig)); err != nil {
				slog.Warn("Failed to enqueue RenderOrdersTask", "source", sourceConfig.Name, "error", err)
			}
		}
	}
}

func (s *Scheduler) worker(id int) {
	defer s.wg.Done()

	for {
		select {
		case task, ok := <-s.taskQueue:
			if !ok {
				return
			}
			queueDepth.Set(float64(len(s.taskQueue)))
			s.executeTask(id, task)

		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Scheduler) executeTask(workerID int, task TaskInterface) {
	task.Start()

	taskCtx, cancel := context.WithTimeout(s.ctx, taskTimeout)
	defer cancel()

	err := task.Execute(taskCtx)
	taskDuration.WithLabelValues(string(task.GetType())).Observe(task.GetDuration().Seconds())

	if err == nil {
		taskRuns.WithLabelValues(string(task.GetType()), outcomeSuccess).Inc()
		return
	}

	slog.Error("Worker task execution failed", "worker_id", workerID, "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", err)

	if !task.CanRetry() {
		taskRuns.WithLabelValues(string(task.GetType()), outcomeFailure).Inc()
		slog.Error("Task failed after maximum retries", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "last_error", err)
		return
	}

	taskRuns.WithLabelValues(string(task.GetType()), outcomeRetry).Inc()
	task.IncrementRetryCount()
	delay := retryDelay(task.GetRetryCount())

	slog.Warn("Task retry scheduled", "type", string(task.GetType()), "source", task.GetSourceName(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "delay", delay.String())

	go func() {
		timer := time.NewTimer(delay)
		defer timer.Stop()

		select {
		case <-s.ctx.Done():
			slog.Debug("Scheduler stopped, skipping task retry", "type", string(task.GetType()), "id", task.GetID())
		case <-timer.C:
			if retryErr := s.EnqueueTask(task); retryErr != nil {
				slog.Error("Failed to re-enqueue task for retry", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", retryErr)
			}
		}
	}()
}
