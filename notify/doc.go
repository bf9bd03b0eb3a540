// Package notify delivers workflow events to external channels.
//
// The engine emits an Event at each significant step: workflow start,
// phase advances, recorded test runs, commits, finalization, and
// aborts. Notifier implementations exist for structured logs, generic
// HTTP webhooks, and Slack; MultiNotifier fans out to several at once.
// Notification failures are logged and never fail the workflow.
package notify
