// Package render turns scene states into images and annotation files.
//
// # Overview
//
// The orchestrator hands each frame to a [Renderer] as a [Request]. A
// renderer must write the annotation first and the image last, so that the
// presence of the image file means the frame is complete. [WriteImage]
// and [WriteAnnotation] help with that ordering.
//
// Two renderers ship with the module:
//
//   - [raster]: draws an oblique projection in-process with fogleman/gg
//   - [command]: runs an external program (for example Blender) per frame
//
// # Annotations
//
// Each frame gets a JSON annotation listing the objects with their pixel
// bounding boxes under the renderer's [Camera]:
//
//	{
//	  "image_filename": "CLEVR_image_004.png",
//	  "objects": [
//	    {"id": 0, "shape": "cube", ..., "bbox": [112, 80, 190, 158]}
//	  ]
//	}
//
// [raster]: github.com/matzehuels/stackmotion/pkg/render/raster
// [command]: github.com/matzehuels/stackmotion/pkg/render/command
package render
