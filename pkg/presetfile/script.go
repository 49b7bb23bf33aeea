package presetfile

import (
	"context"
	"errors"
	"fmt"

	"github.com/entrhq/togglekit/pkg/toggle"
)

// Run executes steps in order against engine and returns one report per
// step that ran. A configuration or backend error stops the run; element
// failures are collected and the run continues.
func Run(ctx context.Context, engine *toggle.Engine, steps []toggle.Options) ([]toggle.Report, error) {
	reports := make([]toggle.Report, 0, len(steps))
	var failed []error

	for i, step := range steps {
		report, err := engine.Toggle(ctx, step)
		if err != nil {
			var elemErr *toggle.ElementError
			if !errors.As(err, &elemErr) {
				return reports, fmt.Errorf("step %d: %w", i+1, err)
			}
			failed = append(failed, fmt.Errorf("step %d: %w", i+1, err))
		}
		reports = append(reports, report)
	}
	return reports, errors.Join(failed...)
}
