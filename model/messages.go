package model

// RecognitionDoneMsg carries the result of a turn's OCR call.
type RecognitionDoneMsg struct {
	Turn TurnID
	Text string
	Err  error
}

// AnalysisDoneMsg carries the result of a turn's analysis request.
type AnalysisDoneMsg struct {
	Turn        TurnID
	Description string
	Err         error
}

// RevealTickMsg asks for Message to show Prefix. Each tick carries its own
// prefix, so ticks can be applied in any order.
type RevealTickMsg struct {
	Message MessageID
	Prefix  string
	Final   bool
}
