// Package tags probes input audio files for the metadata chapter planning
// needs: title, duration, codec, and sample rate.
//
// MP3 text frames are read natively via ID3v2 and WAV headers via the RIFF
// decoder; ffprobe handles every other container and remains the source of
// truth for durations outside WAV.
package tags
