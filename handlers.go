package main

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type App struct {
	config     *Config
	sqlite     *Sqlite
	queue      *Queue
	poolWorker *PoolWorker
}

func (a *App) RegisterRoutes(r gin.IRouter) {
	r.GET("/ping", a.ping)
	r.GET("/jobs", a.listJobQueue)
	r.POST("/jobs", a.addJobToQueue)
	r.GET("/jobs/failed", a.listFailedJobs)
	r.GET("/jobs/:id", a.getJob)
	r.DELETE("/jobs/:id", a.deleteJob)
	r.GET("/workers", a.listWorkers)
}

func (a *App) ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "ping",
	})
}

func (a *App) listJobQueue(c *gin.Context) {
	c.JSON(http.StatusOK, a.queue.GetJobs())
}

func (a *App) addJobToQueue(c *gin.Context) {
	var job Job
	if err := c.ShouldBindJSON(&job); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := job.Validate(*a.config.DefaultPosition); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if job.NeedsFlowBuild() && a.config.FlowBuilderBinary == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": errNoFlowBuilder.Error()})
		return
	}

	job.ID = 0
	job.Done = false
	if _, err := a.sqlite.InsertJob(&job); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	a.queue.Enqueue(job)
	c.JSON(http.StatusCreated, job)
}

func (a *App) getJob(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	job, found, err := a.sqlite.GetJob(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
		return
	}

	response := gin.H{"job": job}
	if _, index := a.queue.FindByID(id); index != -1 {
		response["queueIndex"] = index
	}

	result, found, err := a.sqlite.GetJobResult(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if found {
		response["result"] = result
	}

	c.JSON(http.StatusOK, response)
}

func (a *App) deleteJob(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	a.queue.RemoveByID(id)
	if err := a.sqlite.DeleteJobByID(id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}

func (a *App) listFailedJobs(c *gin.Context) {
	jobs, err := a.sqlite.GetFailedJobs()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, jobs)
}

func (a *App) listWorkers(c *gin.Context) {
	c.JSON(http.StatusOK, a.poolWorker.GetWorkerInfos())
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return 0, false
	}

	return id, true
}
