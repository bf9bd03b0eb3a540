// Package task defines the task/subtask model shared with the
// surrounding task-management system and the dependency-graph
// validation that keeps it consistent.
//
// Two families of checks live here:
//   - cycle detection (DetectCycles, ValidateAcyclic): depth-first
//     traversal with a recursion stack; a detected cycle is reported
//     with its full path
//   - cross-tag move analysis (FindCrossTagDependencies,
//     CanMoveWithDependencies, ValidateCrossTagMove): one-hop
//     dependency conflict detection when a task is relocated between
//     tags, with advisory remediation strategies
//
// The package owns no storage; tasks are read through the Repository
// interface implemented by external collaborators.
package task
