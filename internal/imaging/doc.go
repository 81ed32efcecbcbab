// Package imaging computes color statistics over decoded images.
//
// The functions here are the per-pixel stages of the stats pipeline:
//
//   - Shrink bounds the image size before per-pixel work.
//   - FilterValid flattens the image and drops pixels with alpha < 128.
//   - Average computes arithmetic, harmonic or geometric channel means.
//   - Dominant picks the most populated HSV bucket and returns one of its
//     original pixels.
//   - Analyze combines Average and Dominant into a ColorResult.
//
// # Color Representation
//
// Colors are reported as normalized RGB triples in [0,1] plus a lowercase
// "#rrggbb" hex string. Channel values are read as straight (non-premultiplied)
// 8-bit samples.
//
// # Thread Safety
//
// All functions are stateless and safe for concurrent use. Input images are
// never modified.
package imaging
