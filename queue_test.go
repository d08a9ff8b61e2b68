package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQueueOrder(t *testing.T) {
	q := NewQueue([]Job{{ID: 1}}, nil)
	q.Enqueue(Job{ID: 2})
	q.Enqueue(Job{ID: 3})

	assert.Equal(t, 3, q.Len())

	for _, want := range []int64{1, 2, 3} {
		job, ok := q.Dequeue()
		assert.True(t, ok)
		assert.Equal(t, want, job.ID)
	}

	_, ok := q.Dequeue()
	assert.False(t, ok)
}

func TestQueueRemoveByID(t *testing.T) {
	q := NewQueue([]Job{{ID: 1}, {ID: 2}, {ID: 3}}, nil)

	job, ok := q.RemoveByID(2)
	assert.True(t, ok)
	assert.Equal(t, int64(2), job.ID)

	_, index := q.FindByID(2)
	assert.Equal(t, -1, index)
	_, index = q.FindByID(3)
	assert.Equal(t, 1, index)

	_, ok = q.RemoveByID(42)
	assert.False(t, ok)
}

func TestQueueGetJobsIsACopy(t *testing.T) {
	q := NewQueue([]Job{{ID: 1}}, nil)

	jobs := q.GetJobs()
	jobs[0].ID = 99

	_, index := q.FindByID(1)
	assert.Equal(t, 0, index)
}

func TestQueueBroadcastsUpdates(t *testing.T) {
	hub := NewHub(testLogger())
	q := NewQueue(nil, hub)

	q.Enqueue(Job{ID: 7})

	msg := <-hub.broadcast
	update, ok := msg.(WsQueueUpdate)
	assert.True(t, ok)
	assert.Equal(t, "queue_update", update.Type)
	assert.Equal(t, []Job{{ID: 7}}, update.Jobs)
}
