package main

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

type PoolWorker struct {
	ctx         context.Context
	queue       *Queue
	config      *Config
	sqlite      *Sqlite
	hub         *Hub
	logger      *logrus.Entry
	workChannel chan Job
	waitGroup   *sync.WaitGroup
	workers     []*Worker
}

func NewPoolWorker(ctx context.Context, queue *Queue, config *Config, sqlite *Sqlite, hub *Hub,
	logger *logrus.Entry) *PoolWorker {
	return &PoolWorker{
		ctx:         ctx,
		queue:       queue,
		config:      config,
		sqlite:      sqlite,
		hub:         hub,
		logger:      logger,
		workChannel: make(chan Job, config.Workers),
		waitGroup:   &sync.WaitGroup{},
	}
}

// Workers are created here so GetWorkerInfos works before the dispatcher runs
func (p *PoolWorker) CreateWorkers() error {
	for i := 0; i < p.config.Workers; i++ {
		logger, err := CreateLogger(fmt.Sprintf("worker_%d", i))
		if err != nil {
			return err
		}

		p.workers = append(p.workers, NewWorker(i, logger, p, p.hub))
	}

	return nil
}

// RunDispatcher blocks until the context is canceled and every worker has
// finished its current job.
func (p *PoolWorker) RunDispatcher() {
	for _, worker := range p.workers {
		p.waitGroup.Add(1)
		go worker.start()
	}

	for {
		select {
		case <-p.ctx.Done():
			p.logger.Info("Stopping dispatcher, waiting for workers")
			close(p.workChannel)
			p.waitGroup.Wait()
			return
		default:
			job, ok := p.queue.Dequeue()
			if !ok {
				time.Sleep(100 * time.Millisecond)
				continue
			}

			select {
			case p.workChannel <- job:
			case <-p.ctx.Done():
				// not started, it is picked up again from sqlite on the next start
			}
		}
	}
}

func (p *PoolWorker) GetWorkerInfos() []WorkerInfo {
	infos := make([]WorkerInfo, 0, len(p.workers))
	for _, worker := range p.workers {
		infos = append(infos, worker.GetInfo())
	}
	return infos
}
