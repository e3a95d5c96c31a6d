package app

import (
	"os/exec"
	"runtime"
	"strings"
)

func detectClipboard() ([]string, bool) {
	return detectClipboardInternal(runtime.GOOS, exec.LookPath)
}

func detectClipboardInternal(goos string, lookPath func(string) (string, error)) ([]string, bool) {
	if strings.EqualFold(goos, "windows") {
		if cmd, ok := firstAvailable(lookPath, "clip.exe", "clip"); ok {
			return cmd, true
		}
		for _, ps := range []string{"powershell", "powershell.exe", "pwsh"} {
			if path, err := lookPath(ps); err == nil && path != "" {
				return []string{path, "-NoLogo", "-NoProfile", "-Command", "Set-Clipboard"}, true
			}
		}
	}

	if cmd, ok := firstAvailable(lookPath, "pbcopy", "wl-copy"); ok {
		return cmd, true
	}
	// xclip and xsel read stdin but default to the primary selection.
	if path, err := lookPath("xclip"); err == nil && path != "" {
		return []string{path, "-selection", "clipboard"}, true
	}
	if path, err := lookPath("xsel"); err == nil && path != "" {
		return []string{path, "--clipboard", "--input"}, true
	}
	return nil, false
}

func detectOpener() ([]string, bool) {
	return detectOpenerInternal(runtime.GOOS, exec.LookPath)
}

// detectOpenerInternal finds the command that opens a URL in the user's
// default application. The URL is appended as the last argument.
func detectOpenerInternal(goos string, lookPath func(string) (string, error)) ([]string, bool) {
	switch strings.ToLower(goos) {
	case "windows":
		if path, err := lookPath("rundll32"); err == nil && path != "" {
			return []string{path, "url.dll,FileProtocolHandler"}, true
		}
		return nil, false
	case "darwin":
		return firstAvailable(lookPath, "open")
	}

	if cmd, ok := firstAvailable(lookPath, "xdg-open"); ok {
		return cmd, true
	}
	if path, err := lookPath("gio"); err == nil && path != "" {
		return []string{path, "open"}, true
	}
	return firstAvailable(lookPath, "wslview")
}

func firstAvailable(lookPath func(string) (string, error), candidates ...string) ([]string, bool) {
	for _, candidate := range candidates {
		if path, err := lookPath(candidate); err == nil && path != "" {
			return []string{path}, true
		}
	}
	return nil, false
}
