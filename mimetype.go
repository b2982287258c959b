package webrtc

// MIME types for the codecs the default MediaEngine registers (spec.md §2
// mentions OPUS and VP8 explicitly in its scenarios; the rest round out a
// realistic default set the way mediaengine.go does).
const (
	MimeTypeOpus = "audio/opus"
	MimeTypeG722 = "audio/G722"
	MimeTypePCMU = "audio/PCMU"
	MimeTypePCMA = "audio/PCMA"
	MimeTypeVP8  = "video/VP8"
	MimeTypeVP9  = "video/VP9"
	MimeTypeH264 = "video/H264"
)
