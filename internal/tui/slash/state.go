package slash

import (
	"sort"
	"strings"
	"unicode"

	"github.com/sahilm/fuzzy"
)

const unknownCommand = "unknown command, type / to list commands"

// Options 控制 Slash 弹窗展示。
type Options struct {
	MaxLines int
}

// Input 表示当前文本与光标状态。
type Input struct {
	Value        string
	CursorColumn int
}

// ActionKind 描述按键触发后的处理类型。
type ActionKind int

const (
	ActionNone ActionKind = iota
	ActionClose
	ActionInsert
	ActionSubmitCommand
	ActionError
)

// Action 汇总 Slash 处理结果。
type Action struct {
	Kind         ActionKind
	Command      Command
	NewValue     string
	CursorColumn int
	Args         string
	Message      string
}

// State 维护 slash 弹窗的匹配与选择状态。
type State struct {
	items    []Item
	matches  []match
	selected int
	open     bool
	token    tokenInfo
	maxLines int
}

type match struct {
	item       Item
	highlights []int
	score      int
}

type tokenInfo struct {
	found  bool
	active bool
	value  string
	end    int
	args   string
}

// NewState 构造 slash 状态机。
func NewState(opts Options) *State {
	maxLines := opts.MaxLines
	if maxLines <= 0 {
		maxLines = 8
	}
	return &State{
		items:    builtinItems(),
		maxLines: maxLines,
	}
}

// Open 返回弹窗是否展示。
func (s *State) Open() bool {
	return s != nil && s.open
}

// Selected 返回当前高亮的命令。
func (s *State) Selected() (Command, bool) {
	if !s.Open() || len(s.matches) == 0 {
		return "", false
	}
	return s.matches[s.selected].item.Command, true
}

// SyncInput 根据最新文本同步过滤列表与选中项。
func (s *State) SyncInput(in Input) {
	if s == nil {
		return
	}
	s.token = locateToken([]rune(in.Value), in.CursorColumn)
	s.open = s.token.found && s.token.active
	if !s.open {
		s.matches = nil
		return
	}
	s.matches = filterMatches(s.items, s.token.value)
	if s.selected >= len(s.matches) {
		s.selected = 0
	}
}

// ResolveSubmit 按 Enter 行为解析输入，不依赖弹窗是否打开。
func (s *State) ResolveSubmit(value string) Action {
	token := locateToken([]rune(value), runeLen(value))
	if !token.found || token.value == "" {
		return Action{Kind: ActionNone}
	}
	for _, item := range s.items {
		if strings.EqualFold(item.Token(), token.value) {
			return Action{Kind: ActionSubmitCommand, Command: item.Command, Args: strings.TrimSpace(token.args)}
		}
	}
	// 唯一的模糊匹配也接受，例如 /pa -> /pause
	if matches := filterMatches(s.items, token.value); len(matches) == 1 {
		return Action{Kind: ActionSubmitCommand, Command: matches[0].item.Command, Args: strings.TrimSpace(token.args)}
	}
	return Action{Kind: ActionError, Message: unknownCommand}
}

// HandleKey 处理键盘事件，返回对应动作。
func (s *State) HandleKey(key string) (Action, bool) {
	if s == nil || !s.open {
		return Action{}, false
	}
	switch key {
	case "up":
		if len(s.matches) == 0 {
			return Action{Kind: ActionClose}, true
		}
		s.selected--
		if s.selected < 0 {
			s.selected = len(s.matches) - 1
		}
		return Action{Kind: ActionNone}, true
	case "down":
		if len(s.matches) == 0 {
			return Action{Kind: ActionClose}, true
		}
		s.selected++
		if s.selected >= len(s.matches) {
			s.selected = 0
		}
		return Action{Kind: ActionNone}, true
	case "esc":
		s.open = false
		return Action{Kind: ActionClose}, true
	case "tab", "enter":
		if len(s.matches) == 0 {
			return Action{Kind: ActionError, Message: unknownCommand}, true
		}
		item := s.matches[s.selected].item
		if key == "tab" || (item.TakesArgs && strings.TrimSpace(s.token.args) == "") {
			value := item.DisplayName()
			if item.TakesArgs {
				value += " "
			}
			return Action{Kind: ActionInsert, Command: item.Command, NewValue: value, CursorColumn: runeLen(value)}, true
		}
		s.open = false
		return Action{Kind: ActionSubmitCommand, Command: item.Command, Args: strings.TrimSpace(s.token.args)}, true
	default:
		return Action{}, false
	}
}

func filterMatches(items []Item, query string) []match {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		matches := make([]match, 0, len(items))
		for _, item := range items {
			matches = append(matches, match{item: item})
		}
		return matches
	}

	keys := make([]string, len(items))
	for i, item := range items {
		keys[i] = strings.ToLower(item.Token())
	}
	results := fuzzy.Find(strings.ToLower(trimmed), keys)
	matches := make([]match, 0, len(results))
	for _, res := range results {
		matches = append(matches, match{
			item:       items[res.Index],
			highlights: res.MatchedIndexes,
			score:      res.Score,
		})
	}
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].score == matches[j].score {
			return matches[i].item.Token() < matches[j].item.Token()
		}
		return matches[i].score > matches[j].score
	})
	return matches
}

// locateToken 只识别首行开头的 /command；光标越过命令后弹窗关闭。
func locateToken(runes []rune, cursor int) tokenInfo {
	if len(runes) == 0 || runes[0] != '/' {
		return tokenInfo{}
	}
	token := tokenInfo{found: true, end: len(runes)}
	for i := 1; i < len(runes); i++ {
		if unicode.IsSpace(runes[i]) {
			token.end = i
			break
		}
		if runes[i] == '/' {
			return tokenInfo{}
		}
	}
	token.value = string(runes[1:token.end])
	token.args = strings.TrimLeftFunc(string(runes[token.end:]), unicode.IsSpace)
	token.active = cursor <= token.end
	return token
}

func runeLen(text string) int {
	return len([]rune(text))
}
