// Package media normalizes images and video frames into bounded JPEG files
// for upload to a vision model.
//
// Images are decoded with EXIF orientation applied, flattened onto white when
// they carry transparency, downscaled with Lanczos resampling so neither side
// exceeds the configured bound, and written as JPEG into a fresh temporary
// file. Videos are first probed with ffprobe, then ffmpeg extracts the first
// frame, which follows the image path. Callers own the returned file.
package media
