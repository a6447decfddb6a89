// Package phoneagent is the orchestration core of the xiaozhi phone agent.
//
// A task arrives as a spec.TaskPayload carrying the user's request, an
// optional screenshot, session identity, and per-device model configuration.
// The engine plans which skills apply, produces one primary device action
// through the execution model, dispatches the selected skills in order, and
// asks a completion checker whether another cycle is needed.
//
// Planning prefers a manager model and falls back to keyword matching; its
// outcome is cached per session so repeating the same task skips planning.
// Skills are either built in (anti-scam, translator, photo composition,
// doudizhu) or user-defined prompt bundles interpreted at dispatch time.
// Each skill receives an independently resolved model configuration and
// degrades to a deterministic answer when no model is usable.
package phoneagent
