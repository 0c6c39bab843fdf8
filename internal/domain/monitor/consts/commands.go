// Package consts contains constants for the monitor domain
package consts

// Command represents a bot command
type Command struct {
	Name        string
	Description string
}

// Bot commands
var (
	CommandStart    = Command{Name: "start", Description: "Start the bot"}
	CommandHelp     = Command{Name: "help", Description: "Show help message"}
	CommandMonitors = Command{Name: "monitors", Description: "List your active monitors"}
	CommandCancel   = Command{Name: "cancel", Description: "Cancel a monitor or the current setup"}
	CommandHistory  = Command{Name: "history", Description: "Show recently fired monitors"}
)

// AllCommands contains all available bot commands for menu registration
var AllCommands = []Command{
	CommandStart,
	CommandHelp,
	CommandMonitors,
	CommandCancel,
	CommandHistory,
}

// Slash returns the command as typed by users
func (c Command) Slash() string {
	return "/" + c.Name
}
