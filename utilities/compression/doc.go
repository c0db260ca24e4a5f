// Package compression wraps general-purpose byte stream compressors.
//
// Compressed depth recordings can put one of these around their frame records
// as a second stage. They also serve as baselines: `depthpack stats` reports
// how large each raw frame gets under every method here, next to the size the
// depth codec achieves.
//
// Raw depth frames are little-endian 16-bit samples, so byte-oriented
// compressors don't see much structure in them. In experiments on Kinect
// recordings, gzip and zstd shrink a raw 640x480 frame by roughly half, while
// the depth codec does several times better.
//
// RLE8 is the run-length encoding used by the Microsoft BMP file format. If a
// byte B occurs N times where N >= 2, B is written twice, followed by a third
// (unsigned) byte indicating how many additional times B occurred. For example:
//
//	WXXXXXXXXXXXXXXXYZZ
//	W XX 13 Y ZZ 0
//
// This scheme lets us represent runs of up to 257 bytes with three bytes. For
// runs longer than 257 bytes, they are treated as separate runs. For example,
// a run of 300 "X" is represented as `XX 255 XX 41`. Using a byte as its own
// escape sequence means that occurrences of the same byte exactly twice are
// stored as three bytes. It does poorly on depth samples, whose two bytes
// alternate, but well on the all-zero masks some sensors emit.
package compression
