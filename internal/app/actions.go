package app

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"go.uber.org/zap"

	"github.com/kk-code-lab/rpeek/internal/logging"
	"github.com/kk-code-lab/rpeek/internal/model"
	statepkg "github.com/kk-code-lab/rpeek/internal/state"
)

var commandBuilder = exec.Command

var errNoOpener = errors.New("no command available to open links")

// OpenExternal hands the file's link to the platform opener. The opener is
// not waited on; it usually forks a browser and exits.
func (app *Application) OpenExternal(ref model.FileRef) error {
	if !app.openerAvail || len(app.openerCmd) == 0 {
		return errNoOpener
	}
	args := append(append([]string{}, app.openerCmd[1:]...), ref.URL)
	cmd := commandBuilder(app.openerCmd[0], args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("%s: %w", app.openerCmd[0], err)
	}
	logging.Debug("opened externally", zap.String("name", ref.Name), zap.String("command", app.openerCmd[0]))
	go func() {
		if err := cmd.Wait(); err != nil {
			logging.Warn("opener exited with error", zap.String("command", app.openerCmd[0]), zap.Error(err))
		}
	}()
	return nil
}

// CopyText pipes text into the clipboard command.
func (app *Application) CopyText(text string) error {
	if !app.clipboardAvail || len(app.clipboardCmd) == 0 {
		return errors.New("no clipboard command available")
	}
	cmd := commandBuilder(app.clipboardCmd[0], app.clipboardCmd[1:]...)
	cmd.Stdin = strings.NewReader(text)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%s: %w: %s", app.clipboardCmd[0], err, msg)
		}
		return fmt.Errorf("%s: %w", app.clipboardCmd[0], err)
	}
	return nil
}

// RefreshRecent loads the recent files in the background and reports back
// through RecentFilesLoadedAction.
func (app *Application) RefreshRecent() {
	if app.recent == nil {
		return
	}
	go func() {
		files, err := app.recent.Recent(app.ctx, app.recentLimit)
		if err != nil {
			logging.Warn("loading recent files failed", zap.Error(err))
		}
		app.dispatch(statepkg.RecentFilesLoadedAction{Files: files, Err: err})
	}()
}
