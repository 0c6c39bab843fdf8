package consts

// Event types published to the monitor events topic
const (
	EventMonitorActivated = "monitor.activated"
	EventMonitorCancelled = "monitor.cancelled"
	EventMonitorFired     = "monitor.fired"
)
