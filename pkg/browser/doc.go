// Package browser runs planned actions against a browser page.
//
// The package has three parts:
//
//   - Page and Session: the capabilities the executor needs from a browser
//     engine. PlaywrightLauncher provides them with a real Chromium through
//     playwright-go; browsertest provides an HTML-backed fake for tests.
//   - Executor: runs one types.Action and turns every failure into a
//     failed ExecutionLogEntry, so a plan always runs to its end.
//   - Strategy: the ordered extraction fallbacks used by extract actions,
//     from the caller's selector down to whole-page visible text.
//
// Navigation can be restricted with a HostPolicy built from glob patterns:
//
//	policy, err := browser.NewHostPolicy([]string{"*.google.com"}, nil)
//	exec := browser.NewExecutor(browser.WithHostPolicy(policy))
//	entry := exec.Execute(ctx, session.Page(), action)
package browser
