package model

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"healthchat/config"
)

// Model is the conversation controller. It owns the session history and runs
// each submitted turn through recognition, analysis and reveal.
//
// Model is not safe for concurrent use: every method is meant to be called
// from the Bubble Tea update loop. The commands it returns only capture
// values and report back through messages handled by Update.
type Model struct {
	session    *Session
	recognizer Recognizer
	analyzer   Analyzer
	opts       Options
	reveal     *RevealScheduler

	turns     map[TurnID]*Turn
	byMessage map[MessageID]TurnID
	queue     []TurnID
	lastTurn  TurnID
	inFlight  int

	pendingImage *Image
}

// NewModel wires a controller to its session and collaborators. recognizer
// may be nil, in which case image turns fail with KindUnavailable.
func NewModel(session *Session, recognizer Recognizer, analyzer Analyzer, opts Options) *Model {
	if session == nil {
		session = NewSession()
	}
	return &Model{
		session:    session,
		recognizer: recognizer,
		analyzer:   analyzer,
		opts:       opts,
		reveal:     NewRevealScheduler(opts.RevealDelay),
		turns:      make(map[TurnID]*Turn),
		byMessage:  make(map[MessageID]TurnID),
	}
}

func (m *Model) SessionID() string {
	return m.session.ID
}

func (m *Model) Options() Options {
	return m.opts
}

// Snapshot returns a copy of the history for rendering.
func (m *Model) Snapshot() []Message {
	return m.session.History.Snapshot()
}

// Busy reports whether any turn is running or waiting to run.
func (m *Model) Busy() bool {
	return m.inFlight > 0 || len(m.queue) > 0
}

// Turn returns a copy of the turn with the given id. Turns are forgotten
// when the conversation is cleared.
func (m *Model) Turn(id TurnID) (Turn, bool) {
	t, ok := m.turns[id]
	if !ok {
		return Turn{}, false
	}
	return *t, true
}

func (m *Model) AttachImage(img *Image) {
	m.pendingImage = img
}

func (m *Model) DetachImage() {
	m.pendingImage = nil
}

// PendingImage is the image the user has picked for the next turn, if any.
func (m *Model) PendingImage() *Image {
	return m.pendingImage
}

// SubmitTurn records the user's message and an assistant placeholder, then
// returns the command that does the slow work. It fails only when there is
// nothing to send.
func (m *Model) SubmitTurn(text string, image *Image) (TurnID, tea.Cmd, error) {
	if text == "" && image == nil {
		return 0, nil, ErrEmptyTurn
	}

	history := m.session.History
	m.lastTurn++
	turn := &Turn{
		ID:    m.lastTurn,
		State: TurnIdle,
		Text:  text,
		Image: image,
	}
	turn.UserMessage = history.Append(Message{
		Author: AuthorUser,
		Text:   text,
		Image:  image,
		Status: StatusComplete,
	})
	turn.AssistantMessage = history.Append(Message{
		Author: AuthorAssistant,
		Text:   PendingIndicator,
		Status: StatusPending,
	})
	m.turns[turn.ID] = turn
	m.byMessage[turn.AssistantMessage] = turn.ID
	// the draft belongs to this turn now; the next send starts without it
	if image != nil && m.pendingImage == image {
		m.pendingImage = nil
	}
	m.transition(turn, TurnCapturingInput)

	if m.opts.Policy == PolicySerialize && m.Busy() {
		m.queue = append(m.queue, turn.ID)
		if config.DebugLog != nil {
			config.DebugLog.Printf("[Model] turn %d queued behind %d running, %d waiting", turn.ID, m.inFlight, len(m.queue)-1)
		}
		return turn.ID, nil, nil
	}
	return turn.ID, m.start(turn), nil
}

// Update applies the result of a command started by the controller. Results
// for unknown, cleared or already finished turns are dropped.
func (m *Model) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case RecognitionDoneMsg:
		return m.handleRecognition(msg)
	case AnalysisDoneMsg:
		return m.handleAnalysis(msg)
	case RevealTickMsg:
		return m.handleRevealTick(msg)
	}
	return nil
}

// Clear empties the conversation. Running turns are abandoned and their late
// results become no-ops.
func (m *Model) Clear() {
	for _, turn := range m.turns {
		if turn.finalized {
			continue
		}
		turn.finalized = true
		turn.Err = ErrConversationCleared
		turn.State = TurnFailed
		if m.pendingImage != nil && m.pendingImage == turn.Image {
			m.pendingImage = nil
		}
	}
	m.turns = make(map[TurnID]*Turn)
	m.byMessage = make(map[MessageID]TurnID)
	m.queue = nil
	m.inFlight = 0
	m.reveal.Reset()
	m.session.History.Clear()

	if config.DebugLog != nil {
		config.DebugLog.Printf("[Model] conversation cleared (session %s)", m.session.ID)
	}
}

func (m *Model) start(turn *Turn) tea.Cmd {
	turn.started = true
	m.inFlight++

	if turn.Image != nil {
		m.transition(turn, TurnRecognizing)
		return recognizeCmd(turn.ID, turn.Image, m.recognizer, m.opts.RecognitionTimeout)
	}

	turn.Derived = turn.Text
	m.transition(turn, TurnRequesting)
	return analyzeCmd(turn.ID, turn.Derived, m.session.ID, m.analyzer, m.opts.AnalysisTimeout)
}

func (m *Model) handleRecognition(msg RecognitionDoneMsg) tea.Cmd {
	turn := m.activeTurn(msg.Turn, TurnRecognizing)
	if turn == nil {
		return nil
	}

	if msg.Err != nil {
		return m.fail(turn, RecognitionErrorNotice, asRecognitionError(msg.Err, m.recognizerName()))
	}

	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return m.fail(turn, RecognitionErrorNotice, &RecognitionError{Kind: KindEmpty, Engine: m.recognizerName()})
	}

	if config.DebugLog != nil {
		config.DebugLog.Printf("[Model] turn %d: recognized %d characters", turn.ID, len(text))
	}
	turn.Derived = text
	m.transition(turn, TurnRequesting)
	return analyzeCmd(turn.ID, text, m.session.ID, m.analyzer, m.opts.AnalysisTimeout)
}

func (m *Model) handleAnalysis(msg AnalysisDoneMsg) tea.Cmd {
	turn := m.activeTurn(msg.Turn, TurnRequesting)
	if turn == nil {
		return nil
	}

	if msg.Err != nil {
		return m.fail(turn, AnalysisErrorNotice, asAnalysisError(msg.Err))
	}

	description := msg.Description
	if description == "" {
		description = NoDescriptionNotice
	}

	history := m.session.History
	if err := history.UpdateText(turn.AssistantMessage, ""); err != nil {
		return m.abandon(turn, err)
	}
	if err := history.SetStatus(turn.AssistantMessage, StatusStreaming); err != nil {
		return m.abandon(turn, err)
	}
	m.transition(turn, TurnRevealing)
	return m.reveal.Schedule(turn.AssistantMessage, description)
}

func (m *Model) handleRevealTick(msg RevealTickMsg) tea.Cmd {
	completed, err := m.reveal.Apply(m.session.History, msg)
	if err != nil && config.DebugLog != nil {
		config.DebugLog.Printf("[Model] reveal tick for message %d: %v", msg.Message, err)
	}
	if !completed {
		return nil
	}

	id, ok := m.byMessage[msg.Message]
	if !ok {
		return nil
	}
	turn := m.activeTurn(id, TurnRevealing)
	if turn == nil {
		return nil
	}
	m.transition(turn, TurnDone)
	return m.finalize(turn)
}

// fail shows notice in the turn's assistant message and finishes the turn.
func (m *Model) fail(turn *Turn, notice string, err error) tea.Cmd {
	if config.DebugLog != nil {
		config.DebugLog.Printf("[Model] turn %d failed while %s: %v", turn.ID, turn.State, err)
	}
	history := m.session.History
	if err := history.UpdateText(turn.AssistantMessage, notice); err != nil && config.DebugLog != nil {
		config.DebugLog.Printf("[Model] turn %d: %v", turn.ID, err)
	}
	if err := history.SetStatus(turn.AssistantMessage, StatusFailed); err != nil && config.DebugLog != nil {
		config.DebugLog.Printf("[Model] turn %d: %v", turn.ID, err)
	}
	turn.Err = err
	m.transition(turn, TurnFailed)
	return m.finalize(turn)
}

// abandon finishes a turn whose assistant message can no longer be written.
func (m *Model) abandon(turn *Turn, err error) tea.Cmd {
	if config.DebugLog != nil {
		config.DebugLog.Printf("[Model] turn %d abandoned: %v", turn.ID, err)
	}
	turn.Err = err
	m.transition(turn, TurnFailed)
	return m.finalize(turn)
}

// finalize releases what a finished turn held. It runs once per turn.
func (m *Model) finalize(turn *Turn) tea.Cmd {
	if turn.finalized {
		return nil
	}
	turn.finalized = true

	if turn.started && m.inFlight > 0 {
		m.inFlight--
	}
	if m.pendingImage != nil && m.pendingImage == turn.Image {
		m.pendingImage = nil
	}
	m.reveal.Forget(turn.AssistantMessage)

	if config.DebugLog != nil {
		config.DebugLog.Printf("[Model] turn %d finished as %s (%d in flight)", turn.ID, turn.State, m.inFlight)
	}

	if m.opts.Policy != PolicySerialize || m.inFlight > 0 {
		return nil
	}
	for len(m.queue) > 0 {
		next, ok := m.turns[m.queue[0]]
		m.queue = m.queue[1:]
		if ok && !next.finalized {
			return m.start(next)
		}
	}
	return nil
}

// activeTurn returns the turn only if it exists, is unfinished and is in the
// state the incoming result belongs to.
func (m *Model) activeTurn(id TurnID, state TurnState) *Turn {
	turn, ok := m.turns[id]
	if !ok || turn.finalized || turn.State != state {
		if config.DebugLog != nil {
			config.DebugLog.Printf("[Model] dropping stale result for turn %d", id)
		}
		return nil
	}
	return turn
}

func (m *Model) transition(turn *Turn, next TurnState) {
	if err := turn.advance(next); err != nil && config.DebugLog != nil {
		config.DebugLog.Printf("[Model] %v", err)
	}
}

func (m *Model) recognizerName() string {
	if m.recognizer == nil {
		return "none"
	}
	return m.recognizer.Name()
}
