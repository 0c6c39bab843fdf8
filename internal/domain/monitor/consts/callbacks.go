package consts

// Callback data used by the setup keyboards
const (
	CallbackEmojiToggle   = "emoji_toggle:"
	CallbackEmojiDone     = "emoji_done"
	CallbackEmojiCancel   = "emoji_cancel"
	CallbackThreshold     = "thr:"
	CallbackThresholdAsk  = "thr:custom"
	CallbackThresholdStop = "thr:cancel"
	CallbackConfirm       = "confirm_monitor"
	CallbackCancel        = "cancel_monitor"
)

// HistoryLimit caps the number of journal entries shown by /history
const HistoryLimit = 10
