package main

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"
)

var errNoFlowBuilder = errors.New("job needs a flow builder but none is configured")

// BuildFlow runs the external flow estimator on two frames. It is invoked as
// `<binary> <left> <right> <output> [extra...]` and must write a flow file.
func BuildFlow(ctx context.Context, logger *logrus.Entry, binaryPath string, leftFrame string,
	rightFrame string, outputPath string, extraArguments string) (string, error) {
	if binaryPath == "" {
		return "", errNoFlowBuilder
	}

	args := []string{leftFrame, rightFrame, outputPath}
	args = append(args, strings.Fields(extraArguments)...)

	cmd := NewCommandContext(ctx, logger, binaryPath, args...)
	return cmd.CombinedOutput()
}
