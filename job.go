package main

import "fmt"

// Job asks for the source field of one target frame. Either FlowPath points
// at an existing flow file, or LeftFrame and RightFrame are handed to the
// flow builder first.
type Job struct {
	ID         int64    `json:"id"`
	FlowPath   string   `json:"flowPath"`
	LeftFrame  string   `json:"leftFrame"`
	RightFrame string   `json:"rightFrame"`
	Position   *float32 `json:"position"`
	OutputPath string   `json:"outputPath" binding:"required"`
	Done       bool     `json:"done"`
}

type JobResult struct {
	JobID       int64 `json:"jobId"`
	Width       int   `json:"width"`
	Height      int   `json:"height"`
	Direct      int   `json:"direct"`
	Filled      int   `json:"filled"`
	Unreachable int   `json:"unreachable"`
	Passes      int   `json:"passes"`
}

type FailedJob struct {
	ID            int64  `json:"id"`
	ProcessOutput string `json:"processOutput"`
	Error         string `json:"error"`
	Job           Job    `json:"job"`
}

func (j *Job) NeedsFlowBuild() bool {
	return j.FlowPath == ""
}

// Validate fills the position with defaultPosition when missing
func (j *Job) Validate(defaultPosition float32) error {
	if j.OutputPath == "" {
		return fmt.Errorf("missing output path")
	}

	if j.NeedsFlowBuild() && (j.LeftFrame == "" || j.RightFrame == "") {
		return fmt.Errorf("job needs either a flow path or both frames")
	}

	for _, input := range []string{j.FlowPath, j.LeftFrame, j.RightFrame} {
		if input == "" {
			continue
		}

		same, err := IsSamePath(input, j.OutputPath)
		if err != nil {
			return err
		}

		if same {
			return fmt.Errorf("output path %s would overwrite an input", j.OutputPath)
		}
	}

	if j.Position == nil {
		pos := defaultPosition
		j.Position = &pos
	}

	if !ValidPosition(*j.Position) {
		return fmt.Errorf("position %g is not between 0 and 1", *j.Position)
	}

	return nil
}
