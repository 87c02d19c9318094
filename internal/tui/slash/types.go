package slash

// Command 表示内置斜杠命令的标识符。
type Command string

// 内置命令集合。
const (
	CommandPause     Command = "pause"
	CommandResume    Command = "resume"
	CommandToggle    Command = "toggle"
	CommandSpeed     Command = "speed"
	CommandLineDelay Command = "line-delay"
	CommandClear     Command = "clear"
	CommandCopy      Command = "copy"
	CommandStatus    Command = "status"
	CommandQuit      Command = "quit"
)

// Item 代表弹窗中的一行条目。
type Item struct {
	Command     Command
	Description string
	// TakesArgs 为 true 时 Tab 补全后保留空格等待参数。
	TakesArgs bool
}

// Token 返回无前导斜杠的匹配键。
func (i Item) Token() string {
	return string(i.Command)
}

// DisplayName 返回带前缀斜杠的展示名称。
func (i Item) DisplayName() string {
	if i.Command == "" {
		return ""
	}
	return "/" + string(i.Command)
}

func builtinItems() []Item {
	return []Item{
		{Command: CommandPause, Description: "暂停打字"},
		{Command: CommandResume, Description: "继续打字"},
		{Command: CommandToggle, Description: "切换暂停/继续"},
		{Command: CommandSpeed, Description: "设置每个字符的延迟 (ms)", TakesArgs: true},
		{Command: CommandLineDelay, Description: "设置换行后的额外延迟 (ms)", TakesArgs: true},
		{Command: CommandClear, Description: "清空所有行"},
		{Command: CommandCopy, Description: "复制已显示的文本"},
		{Command: CommandStatus, Description: "查看当前状态"},
		{Command: CommandQuit, Description: "退出"},
	}
}
