// Package ffprobe provides a typed wrapper around ffprobe JSON output.
//
// The media preprocessor uses it to confirm a container carries a real video
// stream before asking ffmpeg for the first frame.
package ffprobe
