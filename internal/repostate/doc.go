// Package repostate implements the repository-state helpers used by the
// expo-cli build workflow.
//
// It exposes Service for checking repository existence, guiding interactive
// initialization, verifying a clean working tree, producing source snapshot
// archives, and running the interactive review-and-commit flow, plus
// CommandBuilder for wiring the repo Cobra command group.
package repostate
