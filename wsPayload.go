package main

type WsBaseMessage struct {
	Type string `json:"type"`
}

type WsQueueUpdate struct {
	WsBaseMessage
	Jobs []Job `json:"jobs"`
}

type WsWorkerProgress struct {
	WsBaseMessage
	WorkerInfo WorkerInfo `json:"workerInfo"`
}
