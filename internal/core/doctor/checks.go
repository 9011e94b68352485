package doctor

import (
	"context"
	"errors"
	"fmt"

	"github.com/colonyops/callbell/internal/core/settings"
	"github.com/colonyops/callbell/pkg/executil"
)

// SettingsFetcher reads the user's settings from the backend.
type SettingsFetcher interface {
	FetchSettings(ctx context.Context) (settings.Settings, error)
}

// BackendCheck verifies the backend answers an authenticated request.
func BackendCheck(baseURL string, f SettingsFetcher) Check {
	return Func{Title: "Backend", Fn: func(ctx context.Context) []CheckItem {
		_, err := f.FetchSettings(ctx)
		item := Item(baseURL, err, StatusFail)
		if err == nil {
			item.Detail = "reachable"
		}
		return []CheckItem{item}
	}}
}

// ToolsCheck verifies that external commands are on PATH. Missing required
// tools fail, missing optional ones warn.
func ToolsCheck(exec executil.Executor, required, optional []string) Check {
	return Func{Title: "Tools", Fn: func(context.Context) []CheckItem {
		var items []CheckItem
		for _, name := range required {
			items = append(items, lookItem(exec, name, StatusFail))
		}
		for _, name := range optional {
			items = append(items, lookItem(exec, name, StatusWarn))
		}
		if len(items) == 0 {
			items = append(items, CheckItem{Label: "No tools", Status: StatusPass})
		}
		return items
	}}
}

func lookItem(exec executil.Executor, name string, failStatus Status) CheckItem {
	path, err := exec.LookPath(name)
	item := Item(name, err, failStatus)
	if err == nil {
		item.Detail = path
	}
	return item
}

// ErrCheck wraps a single error-returning probe.
func ErrCheck(title, label string, failStatus Status, fn func(ctx context.Context) error) Check {
	return Func{Title: title, Fn: func(ctx context.Context) []CheckItem {
		return []CheckItem{Item(label, safeRun(ctx, fn), failStatus)}
	}}
}

func safeRun(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("check panicked: %v", r)
		}
	}()
	if fn == nil {
		return errors.New("no probe configured")
	}
	return fn(ctx)
}
