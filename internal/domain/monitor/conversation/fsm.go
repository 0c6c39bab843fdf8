// Package conversation implements the monitor setup wizard as a pure state machine
package conversation

import (
	"strconv"
	"strings"
	"time"

	"github.com/Conte777/reaction-monitor/internal/domain/monitor/dto"
	"github.com/Conte777/reaction-monitor/internal/domain/monitor/entities"
)

// Stage is the wizard step a principal is in
type Stage int

const (
	StageIdle Stage = iota
	StageAwaitingEmojiSelection
	StageAwaitingThreshold
	StageAwaitingCustomThreshold
	StageAwaitingConfirmation
)

func (s Stage) String() string {
	switch s {
	case StageIdle:
		return "idle"
	case StageAwaitingEmojiSelection:
		return "awaiting_emoji_selection"
	case StageAwaitingThreshold:
		return "awaiting_threshold"
	case StageAwaitingCustomThreshold:
		return "awaiting_custom_threshold"
	case StageAwaitingConfirmation:
		return "awaiting_confirmation"
	default:
		return "unknown"
	}
}

// State is the conversation value of one principal. Draft is nil when idle.
type State struct {
	Stage Stage
	Draft *entities.Monitor
}

// Rules are the deployment settings the wizard validates against
type Rules struct {
	SourceChannelID int64
	Emojis          []string
	Now             func() time.Time
}

func (r Rules) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

func (r Rules) allowsEmoji(emoji string) bool {
	for _, e := range r.Emojis {
		if e == emoji {
			return true
		}
	}
	return false
}

// Event is a user action fed into Transition
type Event interface{ isEvent() }

// Forward is a forwarded message. FromChannel is false when the origin is not a channel post.
type Forward struct {
	Principal        dto.Principal
	FromChannel      bool
	OriginChatID     int64
	OriginMessageID  int
	AlreadyMonitored bool
}

// ToggleEmoji flips one emoji in the selection
type ToggleEmoji struct{ Emoji string }

// DoneSelecting finishes emoji selection
type DoneSelecting struct{}

// PickThreshold chooses a preset threshold
type PickThreshold struct{ Value int }

// PickCustomThreshold asks for a typed threshold
type PickCustomThreshold struct{}

// TextInput is any non-command, non-forward message
type TextInput struct{ Text string }

// Confirm activates the draft
type Confirm struct{}

// Cancel discards the draft
type Cancel struct{}

func (Forward) isEvent()             {}
func (ToggleEmoji) isEvent()         {}
func (DoneSelecting) isEvent()       {}
func (PickThreshold) isEvent()       {}
func (PickCustomThreshold) isEvent() {}
func (TextInput) isEvent()           {}
func (Confirm) isEvent()             {}
func (Cancel) isEvent()              {}

// Effect is a side effect requested by Transition
type Effect interface{ isEffect() }

// Reply sends a new message to the principal
type Reply struct {
	Text     string
	Keyboard dto.Keyboard
}

// EditPrompt rewrites the wizard message the button was pressed on
type EditPrompt struct {
	Text     string
	Keyboard dto.Keyboard
}

// Notice answers a button press with a short toast
type Notice struct{ Text string }

// Activate promotes the draft to an active monitor
type Activate struct{ Monitor *entities.Monitor }

func (Reply) isEffect()      {}
func (EditPrompt) isEffect() {}
func (Notice) isEffect()     {}
func (Activate) isEffect()   {}

// Transition computes the next state and the effects of ev. It never mutates st.
func Transition(rules Rules, st State, ev Event) (State, []Effect) {
	switch e := ev.(type) {
	case Forward:
		return onForward(rules, st, e)
	case Cancel:
		if st.Stage == StageIdle {
			return st, []Effect{Notice{Text: MsgNothingToCancel}}
		}
		return State{Stage: StageIdle}, []Effect{EditPrompt{Text: MsgCancelled}}
	case TextInput:
		return onText(st, e)
	}

	if st.Stage == StageIdle {
		return st, []Effect{Notice{Text: MsgForwardFirst}}
	}

	switch e := ev.(type) {
	case ToggleEmoji:
		return onToggle(rules, st, e)
	case DoneSelecting:
		return onDone(st)
	case PickThreshold:
		return onPickThreshold(st, e)
	case PickCustomThreshold:
		if st.Stage != StageAwaitingThreshold {
			return st, []Effect{Notice{Text: MsgStepFinished}}
		}
		return State{Stage: StageAwaitingCustomThreshold, Draft: st.Draft}, []Effect{
			EditPrompt{Text: MsgEnterThreshold},
		}
	case Confirm:
		return onConfirm(st)
	}

	return st, nil
}

func onForward(rules Rules, st State, e Forward) (State, []Effect) {
	if !e.FromChannel {
		return st, []Effect{Reply{Text: MsgNotChannelPost}}
	}
	if e.OriginChatID != rules.SourceChannelID {
		return st, []Effect{Reply{Text: MsgWrongChannel}}
	}

	key := entities.Key{ChatID: e.OriginChatID, MessageID: e.OriginMessageID}
	if e.AlreadyMonitored {
		return st, []Effect{Reply{Text: AlreadyMonitoredText(key)}}
	}

	draft := entities.NewDraft(e.Principal.UserID, e.Principal.BotID, key, rules.now())
	return State{Stage: StageAwaitingEmojiSelection, Draft: draft}, []Effect{
		Reply{Text: PostAcceptedText(key), Keyboard: dto.Keyboard{Kind: dto.KeyboardEmojiPicker}},
	}
}

func onToggle(rules Rules, st State, e ToggleEmoji) (State, []Effect) {
	if st.Stage != StageAwaitingEmojiSelection {
		return st, []Effect{Notice{Text: MsgStepFinished}}
	}
	if !rules.allowsEmoji(e.Emoji) {
		return st, []Effect{Notice{Text: MsgUnknownEmoji}}
	}

	draft := st.Draft.Clone()
	draft.ToggleReaction(e.Emoji)

	return State{Stage: st.Stage, Draft: draft}, []Effect{
		EditPrompt{
			Text:     SelectionText(draft.Reactions),
			Keyboard: dto.Keyboard{Kind: dto.KeyboardEmojiPicker, Selected: draft.Reactions},
		},
	}
}

func onDone(st State) (State, []Effect) {
	if st.Stage != StageAwaitingEmojiSelection {
		return st, []Effect{Notice{Text: MsgStepFinished}}
	}
	if len(st.Draft.Reactions) == 0 {
		return st, []Effect{Notice{Text: MsgNothingSelected}}
	}

	return State{Stage: StageAwaitingThreshold, Draft: st.Draft}, []Effect{
		EditPrompt{Text: ThresholdPromptText(st.Draft.Reactions), Keyboard: dto.Keyboard{Kind: dto.KeyboardThreshold}},
	}
}

func onPickThreshold(st State, e PickThreshold) (State, []Effect) {
	if st.Stage != StageAwaitingThreshold {
		return st, []Effect{Notice{Text: MsgStepFinished}}
	}
	if e.Value <= 0 {
		return st, []Effect{Notice{Text: MsgInvalidThreshold}}
	}

	draft := withThreshold(st.Draft, e.Value)
	return State{Stage: StageAwaitingConfirmation, Draft: draft}, []Effect{
		EditPrompt{Text: ConfirmText(draft), Keyboard: dto.Keyboard{Kind: dto.KeyboardConfirm}},
	}
}

func onText(st State, e TextInput) (State, []Effect) {
	if st.Stage != StageAwaitingCustomThreshold {
		return st, []Effect{Reply{Text: MsgForwardFirst}}
	}

	value, ok := ParseThreshold(e.Text)
	if !ok {
		return st, []Effect{Reply{Text: MsgInvalidThreshold}}
	}

	draft := withThreshold(st.Draft, value)
	return State{Stage: StageAwaitingConfirmation, Draft: draft}, []Effect{
		Reply{Text: ConfirmText(draft), Keyboard: dto.Keyboard{Kind: dto.KeyboardConfirm}},
	}
}

func onConfirm(st State) (State, []Effect) {
	if st.Stage != StageAwaitingConfirmation {
		return st, []Effect{Notice{Text: MsgStepFinished}}
	}
	if !st.Draft.Ready() {
		return st, []Effect{Notice{Text: MsgIncomplete}}
	}

	m := st.Draft.Clone()
	m.Status = entities.StatusActive
	return State{Stage: StageIdle}, []Effect{Activate{Monitor: m}}
}

func withThreshold(draft *entities.Monitor, value int) *entities.Monitor {
	d := draft.Clone()
	d.Threshold = value
	return d
}

// ParseThreshold accepts a positive decimal integer
func ParseThreshold(text string) (int, bool) {
	v, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}
