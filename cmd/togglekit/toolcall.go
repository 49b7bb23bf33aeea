package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/entrhq/togglekit/pkg/logging"
	"github.com/entrhq/togglekit/pkg/toggle"
	"github.com/entrhq/togglekit/pkg/tools"
	"github.com/entrhq/togglekit/pkg/tools/browser"
)

// maxToolCallBytes bounds a -tool-call file.
const maxToolCallBytes = 10 << 20

// runToolCalls dispatches every <tool> call in path, in order, to the
// browser tools. All calls share one session manager.
func runToolCalls(ctx context.Context, path string, store *toggle.PresetStore, engineOpts []toggle.Option, logger *logging.Logger, stdout io.Writer) (int, error) {
	text, err := readToolCalls(path)
	if err != nil {
		return exitError, err
	}
	calls, err := tools.ParseToolCalls(text)
	if err != nil {
		return exitError, fmt.Errorf("%s: %w", path, err)
	}

	manager := browser.NewSessionManager()
	defer func() {
		if err := manager.Shutdown(); err != nil {
			logger.Warnf("browser shutdown: %v", err)
		}
	}()
	registry := browser.NewRegistry(manager, store, engineOpts...)

	for i, call := range calls {
		logger.Infof("dispatching %s", call.ToolName)
		res, err := registry.Execute(ctx, call)
		if err != nil {
			return exitError, fmt.Errorf("call %d: %w", i+1, err)
		}
		fmt.Fprintln(stdout, renderToolResult(res))
	}
	return exitOK, nil
}

func readToolCalls(path string) (string, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return "", fmt.Errorf("failed to read tool calls: %w", err)
		}
		defer f.Close()
		r = f
	}

	data, err := io.ReadAll(io.LimitReader(r, maxToolCallBytes+1))
	if err != nil {
		return "", fmt.Errorf("failed to read tool calls: %w", err)
	}
	if len(data) > maxToolCallBytes {
		return "", fmt.Errorf("tool calls in %s exceed %d bytes", path, maxToolCallBytes)
	}
	return string(data), nil
}
