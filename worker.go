package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"sync"

	"github.com/Zelak312/slowmoflow/sourcefield"
	"github.com/sirupsen/logrus"
)

type Worker struct {
	id         int
	logger     *logrus.Entry
	poolWorker *PoolWorker
	hub        *Hub
	sync.RWMutex

	workerInfo WorkerInfo
}

type WorkerInfo struct {
	ID     int    `json:"id"`
	Active bool   `json:"active"`
	Step   string `json:"step"`
	Job    *Job   `json:"job"`
}

func NewWorker(id int, logger *logrus.Entry, poolWorker *PoolWorker, hub *Hub) *Worker {
	return &Worker{
		id:         id,
		logger:     logger,
		poolWorker: poolWorker,
		hub:        hub,
		workerInfo: WorkerInfo{ID: id},
	}
}

// start runs until the work channel is closed
func (w *Worker) start() {
	defer w.poolWorker.waitGroup.Done()

	for job := range w.poolWorker.workChannel {
		w.Lock()
		w.workerInfo.Active = true
		w.workerInfo.Job = &job
		w.Unlock()

		err := w.doWork(&job)
		if err != nil {
			w.logger.Warn(err)
		}

		w.Lock()
		w.workerInfo.Active = false
		w.workerInfo.Job = nil
		w.workerInfo.Step = ""
		w.Unlock()
		w.sendUpdate()
	}
}

func (w *Worker) doWork(job *Job) error {
	output, result, err := w.processJob(job)
	if errors.Is(w.poolWorker.ctx.Err(), context.Canceled) {
		// Job stays pending in sqlite and gets picked up on the next start
		w.logger.Debug("Ctx was canceled")
		return nil
	}

	if err != nil {
		w.handleProcessError(job, output, err)
		// Error was handled already
		return nil
	}

	err = w.poolWorker.sqlite.MarkJobAsDone(job, result)
	if errors.Is(err, errJobNotFound) {
		w.logger.WithFields(StructFields(job)).Warn("Job was deleted while processing, dropping result")
		return nil
	}
	if err != nil {
		w.logger.Error("Failed to mark job as done: ", err)
		return err
	}

	if *w.poolWorker.config.DeleteFlowFileWhenFinished && !job.NeedsFlowBuild() {
		w.logger.WithField("file", job.FlowPath).Debug("Deleting flow file")
		if err := os.Remove(job.FlowPath); err != nil {
			w.logger.WithFields(StructFields(job)).Error("Failed to delete flow file: ", err)
		}
	}

	w.logger.WithFields(StructFields(result)).Info("Finished processing job")
	return nil
}

func (w *Worker) handleProcessError(job *Job, output string, processErr error) {
	w.logger.WithFields(StructFields(job)).Error("Error processing job: ", processErr)
	if output != "" {
		w.logger.Debug("Process output: ", output)
	}

	retries, err := w.poolWorker.sqlite.GetJobRetries(job)
	if err != nil {
		w.logger.WithFields(StructFields(job)).Error("Failed to get retries: ", err)
		return
	}

	if retries >= w.poolWorker.config.RetryLimit {
		_ = w.failJob(job, output, processErr)
		return
	}

	retries++
	err = w.poolWorker.sqlite.UpdateJobRetries(job, retries)
	if err != nil {
		w.logger.WithFields(StructFields(job)).Error("Failed to update job retries: ", err)
		return
	}

	w.poolWorker.queue.Enqueue(*job)
	w.logger.WithFields(StructFields(job)).Info("Requeue job (back of the queue and retrying)")
}

func (w *Worker) failJob(job *Job, output string, failError error) error {
	w.logger.WithFields(StructFields(job)).Info("Job failed, removing it from queue")
	err := w.poolWorker.sqlite.FailJob(job, output, failError.Error())
	if err != nil {
		w.logger.WithFields(StructFields(job)).Error("Failed to fail the job: ", err)
		return err
	}

	return nil
}

// processJob returns the flow builder output (if it ran) for failure reports.
func (w *Worker) processJob(job *Job) (string, JobResult, error) {
	w.logger.WithFields(StructFields(job)).Info("Processing job")
	config := w.poolWorker.config

	processFolderWorker := path.Join(config.ProcessFolder, fmt.Sprintf("worker_%d", w.id))
	if err := os.RemoveAll(processFolderWorker); err != nil {
		return "", JobResult{}, err
	}
	defer os.RemoveAll(processFolderWorker)

	flowPath := job.FlowPath
	if job.NeedsFlowBuild() {
		w.updateStep("building_flow")
		if err := os.MkdirAll(processFolderWorker, os.ModePerm); err != nil {
			return "", JobResult{}, err
		}

		flowPath = path.Join(processFolderWorker, "forward.sVflow")
		output, err := BuildFlow(w.poolWorker.ctx, w.logger, config.FlowBuilderBinary,
			job.LeftFrame, job.RightFrame, flowPath, config.FlowBuilderExtraArguments)
		if err != nil {
			return output, JobResult{}, fmt.Errorf("building flow: %w", err)
		}
	}

	same, err := IsSamePath(flowPath, job.OutputPath)
	if err != nil {
		return "", JobResult{}, err
	}
	if same {
		return "", JobResult{}, fmt.Errorf("output path %s is the flow file", job.OutputPath)
	}

	w.updateStep("inverting")
	flow, err := sourcefield.ReadFlowFile(flowPath)
	if err != nil {
		return "", JobResult{}, err
	}

	field := sourcefield.NewFromFlow(flow, *job.Position)
	direct, _ := field.Count()
	w.logger.Debugf("%d of %d cells set from flow", direct, flow.Width()*flow.Height())

	w.updateStep("inpainting")
	stats := field.Inpaint()
	w.logger.WithFields(StructFields(stats)).Debug("Inpainted source field")
	if stats.Unreachable > 0 {
		w.logger.Warnf("%d cells have no source", stats.Unreachable)
	}

	w.updateStep("rendering")
	encode, err := EncoderFor(config.Visualization.Format)
	if err != nil {
		return "", JobResult{}, err
	}

	if err := EnsureDir(path.Dir(job.OutputPath)); err != nil {
		return "", JobResult{}, err
	}

	img := RenderSourceField(field, config.Visualization.Scale)
	if err := WriteImage(job.OutputPath, img, encode); err != nil {
		return "", JobResult{}, err
	}

	return "", JobResult{
		JobID:       job.ID,
		Width:       field.Width(),
		Height:      field.Height(),
		Direct:      direct,
		Filled:      stats.Filled,
		Unreachable: stats.Unreachable,
		Passes:      stats.Passes,
	}, nil
}

func (w *Worker) updateStep(step string) {
	w.Lock()
	w.workerInfo.Step = step
	w.Unlock()
	w.sendUpdate()
}

func (w *Worker) sendUpdate() {
	if w.hub == nil {
		return
	}

	packet := WsWorkerProgress{
		WsBaseMessage: WsBaseMessage{
			Type: "worker_progress",
		},
		WorkerInfo: w.GetInfo(),
	}

	w.hub.BroadcastMessage(packet)
}

func (w *Worker) GetInfo() WorkerInfo {
	w.RLock()
	defer w.RUnlock()

	info := w.workerInfo
	if info.Job != nil {
		job := *info.Job
		info.Job = &job
	}
	return info
}
