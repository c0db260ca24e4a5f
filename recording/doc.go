// Package recording reads and writes depth recordings: sequences of
// timestamped frames from one sensor.
//
// Two formats are supported. Raw recordings, as written by the capture tools,
// store every sample uncompressed. Compressed recordings start with a header
// naming the frame size, the invalid depth marker, the traversal and the outer
// compression method, and then hold one record per frame:
//
//	float64  timestamp, seconds
//	uint32   payload length in bytes
//	uint64   SipHash-2-4 of the payload, keyed by the stream ID
//	[]byte   payload: one frame compressed by package depthframe
//
// All integers are little-endian. Everything after the header may be wrapped in
// a gzip or zstd stream.
package recording
