package browser

import (
	"context"
	"strings"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// evasion is one self-contained patch applied to the page before any of
// its own scripts run. Each entry targets a single tell a headless
// Chrome instance otherwise gives off; keeping them as separate entries
// (rather than one script blob) lets stealthScript() guard each one with
// its own try/catch.
var evasions = []string{
	// navigator.webdriver is the single most-checked headless signal.
	`Object.defineProperty(navigator, 'webdriver', { get: () => undefined, configurable: true });
	 delete Object.getPrototypeOf(navigator).webdriver;`,

	// A real browser never has an empty plugins array.
	`(function() {
		const mockPlugins = [
			{ name: 'Chrome PDF Plugin', description: 'Portable Document Format', filename: 'internal-pdf-viewer', length: 1 },
			{ name: 'Chrome PDF Viewer', description: '', filename: 'mhjfbmdgcfjbbpaeojofohoefgiehjai', length: 1 },
			{ name: 'Native Client', description: '', filename: 'internal-nacl-plugin', length: 2 }
		];
		const pluginArray = Object.create(PluginArray.prototype);
		mockPlugins.forEach((p, i) => {
			const plugin = Object.create(Plugin.prototype);
			Object.defineProperties(plugin, {
				name: { value: p.name, enumerable: true },
				description: { value: p.description, enumerable: true },
				filename: { value: p.filename, enumerable: true },
				length: { value: p.length, enumerable: true }
			});
			pluginArray[i] = plugin;
			pluginArray[p.name] = plugin;
		});
		Object.defineProperty(pluginArray, 'length', { value: mockPlugins.length });
		Object.defineProperty(navigator, 'plugins', { get: () => pluginArray, configurable: true });
	})();`,

	// en-US matches the --lang flag stealthExecAllocatorOptions passes;
	// keep the rendered page consistent with it.
	`Object.defineProperty(navigator, 'languages', { get: () => Object.freeze(['en-US', 'en']), configurable: true });
	 if (!window.chrome) {
		Object.defineProperty(window, 'chrome', { value: {}, writable: true, enumerable: true, configurable: false });
	 }`,

	// WebGL vendor/renderer strings leak a software rasterizer in headless mode.
	`(function() {
		const spoofed = { 37445: 'Intel Inc.', 37446: 'Intel Iris OpenGL Engine' };
		const proxyHandler = {
			apply: function(target, ctx, args) {
				return spoofed[args[0]] ?? Reflect.apply(target, ctx, args);
			}
		};
		for (const ctor of [window.WebGLRenderingContext, window.WebGL2RenderingContext]) {
			try {
				ctor.prototype.getParameter = new Proxy(ctor.prototype.getParameter, proxyHandler);
			} catch (e) {}
		}
	})();`,

	// hardwareConcurrency=0 / deviceMemory=0 are both headless tells.
	`if (navigator.hardwareConcurrency === 0) {
		Object.defineProperty(navigator, 'hardwareConcurrency', { get: () => 4, configurable: true });
	 }
	 if (navigator.deviceMemory === undefined || navigator.deviceMemory === 0) {
		Object.defineProperty(navigator, 'deviceMemory', { get: () => 8, configurable: true });
	 }`,
}

// stealthScript wraps each evasion in its own try/catch, all inside one
// IIFE, so one throwing
// (e.g. a browser that lacks WebGL2RenderingContext entirely) can't take
// the rest down with it.
func stealthScript() string {
	var b strings.Builder
	b.WriteString("(function() {\n'use strict';\n")
	for _, e := range evasions {
		b.WriteString("try {\n")
		b.WriteString(e)
		b.WriteString("\n} catch (e) {}\n")
	}
	b.WriteString("})();")
	return b.String()
}

// stealthExecAllocatorOptions returns the Chrome flags chromedp.NewExecAllocator
// needs on top of its defaults to look like an interactive session rather
// than an automation harness.
func stealthExecAllocatorOptions() []chromedp.ExecAllocatorOption {
	return []chromedp.ExecAllocatorOption{
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("disable-features", "IsolateOrigins,site-per-process"),
		chromedp.Flag("excludeSwitches", "enable-automation"),
		chromedp.Flag("useAutomationExtension", false),
		chromedp.Flag("disable-infobars", true),
		chromedp.Flag("disable-default-apps", true),
		chromedp.WindowSize(1920, 1080),
		chromedp.Flag("lang", "en-US,en"),
	}
}

// injectStealthScript returns a chromedp action that installs
// stealthScript() before any page script executes, so the page's own
// detection code (if any) never observes the unpatched navigator.
func injectStealthScript() chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		_, err := page.AddScriptToEvaluateOnNewDocument(stealthScript()).Do(ctx)
		return err
	})
}
