// Package pkg provides the core libraries for Stackmotion transition
// datasets.
//
// # Overview
//
// Stackmotion samples pairs of block-world arrangements (a pre state and a
// goal state), plans a lift, translate and lower motion between them, and
// renders every intermediate frame as an image plus a JSON annotation.
//
// # Architecture
//
// The data flow for one transition:
//
//	[physics.Model] (sample pre state, apply random actions)
//	         ↓
//	[checkpoint] (persist pre/goal pair atomically)
//	         ↓
//	[trajectory] (active objects, via points, per-frame states)
//	         ↓
//	[render] (annotation + image per frame)
//
// [pipeline] drives this loop over a range of transition indices and makes
// it resumable: existing checkpoints are reused and existing frames are not
// rendered again.
//
// # Main Packages
//
// [scene] - Object and State types and their JSON form.
//
// [trajectory] - Pure motion planning. No I/O.
//
// [checkpoint] - On-disk layout and the durable pre/goal store.
//
// [claim] - Advisory per-transition claims for concurrent workers (file or
// Redis).
//
// [blocks] - A grid block-world [physics.Model].
//
// [render] - Camera projection, annotations and atomic artifact writes, with
// [render/raster] (in-process PNG) and [render/command] (external program)
// backends.
//
// [observability] - Hook interfaces the pipeline reports progress through.
//
// [errors] - Coded errors shared by every package.
//
// # Testing
//
//	go test ./pkg/...
//
// [scene]: https://pkg.go.dev/github.com/matzehuels/stackmotion/pkg/scene
// [trajectory]: https://pkg.go.dev/github.com/matzehuels/stackmotion/pkg/trajectory
// [checkpoint]: https://pkg.go.dev/github.com/matzehuels/stackmotion/pkg/checkpoint
// [claim]: https://pkg.go.dev/github.com/matzehuels/stackmotion/pkg/claim
// [blocks]: https://pkg.go.dev/github.com/matzehuels/stackmotion/pkg/blocks
// [physics.Model]: https://pkg.go.dev/github.com/matzehuels/stackmotion/pkg/physics#Model
// [render]: https://pkg.go.dev/github.com/matzehuels/stackmotion/pkg/render
// [render/raster]: https://pkg.go.dev/github.com/matzehuels/stackmotion/pkg/render/raster
// [render/command]: https://pkg.go.dev/github.com/matzehuels/stackmotion/pkg/render/command
// [observability]: https://pkg.go.dev/github.com/matzehuels/stackmotion/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/stackmotion/pkg/errors
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/stackmotion/pkg/pipeline
package pkg
