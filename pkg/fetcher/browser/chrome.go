package browser

import (
	"os/exec"
	"runtime"

	"github.com/jmylchreest/prodcrawl/internal/logger"
)

// platformChromeCandidates returns binary names/paths worth probing for
// the current GOOS, ordered from most to least likely to exist, so
// FindChromePath stops at the first PATH hit without walking entries
// that only apply to a different OS.
func platformChromeCandidates() []string {
	switch runtime.GOOS {
	case "darwin":
		return []string{
			"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
			"/Applications/Chromium.app/Contents/MacOS/Chromium",
			"google-chrome", "chromium",
		}
	case "windows":
		return []string{
			`C:\Program Files\Google\Chrome\Application\chrome.exe`,
			`C:\Program Files (x86)\Google\Chrome\Application\chrome.exe`,
			"chrome.exe",
		}
	default: // linux and anything else chromedp also treats as POSIX
		return []string{
			"google-chrome-stable", "google-chrome",
			"chromium", "chromium-browser", "chrome",
			"/usr/bin/google-chrome-stable", "/usr/bin/google-chrome",
			"/usr/bin/chromium", "/usr/bin/chromium-browser",
			"/snap/bin/chromium",
		}
	}
}

// FindChromePath searches PATH and common install locations for a
// Chrome/Chromium binary matching the host OS. Returns "" if none is
// found, in which case chromedp falls back to its own discovery (and
// browser.Fetch proceeds without ExecPath set).
func FindChromePath() string {
	for _, name := range platformChromeCandidates() {
		path, err := exec.LookPath(name)
		if err != nil {
			continue
		}
		logger.Debug("found Chrome binary", "name", name, "path", path)
		return path
	}
	logger.Warn("no Chrome binary found for this OS - browser fallback fetch may not work", "goos", runtime.GOOS)
	return ""
}
