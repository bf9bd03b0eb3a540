// Package store persists workflow state per project directory.
//
// State lives outside the project tree, keyed by a bijective base64url
// encoding of the absolute project path. Every write goes through a
// temp file and atomic rename with a bounded chain of rotating backups;
// writers to the same path are serialized within the process. An
// append-only JSONL activity log records workflow events for audit.
//
// Cross-process concurrent writers are not arbitrated beyond the atomic
// rename guarantee: the last writer wins.
package store
