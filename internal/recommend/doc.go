// Tubemix - Video Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tubemix

// Package recommend implements a rule-based video recommendation engine.
//
// # Architecture
//
// A recommendation request carries a Source (watch history, search
// history, subscriptions and an immutable preference snapshot). The engine
// turns it into search and feed requests against a VideoSource, merges the
// candidates and ranks them with an additive, explainable scorer:
//
//   - Keyword Extractor: hashtags, bracket phrases and cleaned tokens
//   - Duration Classifier: ISO-8601 style durations to short/medium/long
//   - Scorer: NG exclusion, duration policy, channel/genre/context bonuses
//   - Profile Builder: recency-weighted keyword map from recent activity
//   - Query Planner: mode-aware query selection with injected randomness
//   - Orchestrator: bounded, all-settled fan-out over the VideoSource
//   - Mixer: ratio-driven interleaving of two ranked pools
//
// # Pipelines
//
//   - strict: plan, fetch, dedupe, score, filter, sort and cap
//   - mixed: a discovery track and a comfort track fetched concurrently,
//     ranked separately and interleaved at the configured mix ratio
//   - fallback: the shuffled recommended feed
//
// Pipelines never fail. A failed fetch contributes nothing and the
// request degrades to fewer videos; Engine.Recommend switches to the
// fallback pipeline when a run yields nothing.
//
// # Usage
//
//	engine, err := recommend.NewEngine(recommend.DefaultConfig(), client, logger)
//	if err != nil {
//	    return err
//	}
//	res := engine.Recommend(ctx, recommend.Request{
//	    Source:   src,
//	    Pipeline: recommend.PipelineMixed,
//	    Limit:    30,
//	})
//
// # Determinism
//
// All sampling and shuffling draws from a seeded generator. Each call
// derives its own generator from the engine's, so a fixed seed and a
// fixed call sequence reproduce the same output.
package recommend
