// Package notify delivers stash lifecycle events (created, applied, popped,
// dropped, failed) to interested parties.
//
// Implementations:
//   - LogNotifier: writes events to a slog logger
//   - WebhookNotifier: posts events as JSON to an HTTP endpoint
//   - MultiNotifier: fans out to several notifiers
//   - NopNotifier: discards events
//
// Example usage:
//
//	notifier := notify.NewMultiNotifier(
//	    notify.NewLogNotifier(logger),
//	    notify.NewWebhookNotifier(url, nil),
//	)
//	store := stash.NewStore(gitCtx, stash.WithNotifier(notifier))
package notify
