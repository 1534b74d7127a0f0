// Package checkpoint owns the on-disk layout of a generation run and the
// durable pre/goal checkpoint that makes a run resumable.
//
// # Layout
//
// All paths derive from a [Layout] value that callers thread explicitly:
//
//	<root>/scene_tr/000042/CLEVR_pre_---.json         pre state
//	<root>/scene_tr/000042/CLEVR_suc_---.json         goal state
//	<root>/scene_tr/000042/CLEVR_commit_---.json      commit marker
//	<root>/scene_tr/000042/CLEVR_annotation_007.json  frame 7 annotation
//	<root>/image_tr/000042/CLEVR_image_007.png        frame 7 image
//
// Transition indices are zero-padded to six digits and frame indices to three.
//
// # Atomicity
//
// [Store.Save] stages both states and a commit marker holding their digest as
// synced temporary files, renames the states into place and the marker last.
// A checkpoint exists only once its marker does, so a crash or a failed
// rename mid-save leaves the transition absent and it is synthesized again.
// A marker whose states are missing or no longer match its digest is
// reported by [Store.Resolve] as a CORRUPT_CHECKPOINT error.
package checkpoint
