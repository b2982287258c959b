package webrtc

// OfferOptions controls the offer creation process (spec.md §6).
type OfferOptions struct {
	// ICERestart forces new ICE credentials to be gathered for every
	// transport, even if a current local description already exists.
	ICERestart bool
}

// AnswerOptions controls the answer creation process (spec.md §6).
type AnswerOptions struct{}
