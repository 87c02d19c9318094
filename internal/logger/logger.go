package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// LogEntry 暴露底层类型，调用方无需直接导入 logrus。
type LogEntry = logrus.Entry

const (
	// ComponentField 标识输出日志的组件（cli、typewriter、tui、exec）。
	ComponentField = "component"
	// EngineField 标识引擎实例，格式化时提升为 [engine=xxxxxxxx] 前缀。
	EngineField = "engine_id"
)

// DefaultLogPath 是相对于 $HOME 的默认日志文件。
const DefaultLogPath = ".typewriter/logs/typewriter.log"

// shortIDLen 截断 uuid，前缀只保留前 8 位。
const shortIDLen = 8

var rootLogger = logrus.StandardLogger()

// Configure 设置全局格式并打开 caller 输出。
func Configure() {
	rootLogger.SetReportCaller(true)
	rootLogger.SetFormatter(PlainFormatter{})
}

// SetLevel 解析并设置全局日志级别，空字符串保持不变。
func SetLevel(level string) error {
	level = strings.TrimSpace(level)
	if level == "" {
		return nil
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("log level %q: %w", level, err)
	}
	rootLogger.SetLevel(lvl)
	return nil
}

// Level 返回当前全局级别。
func Level() logrus.Level {
	return rootLogger.GetLevel()
}

// ResolvePath 展开日志路径：空值落到 $HOME/DefaultLogPath，"~/" 前缀按 $HOME 展开。
func ResolvePath(logPath string) string {
	logPath = strings.TrimSpace(logPath)
	home, _ := os.UserHomeDir()
	switch {
	case logPath == "" && home != "":
		return filepath.Join(home, DefaultLogPath)
	case logPath == "":
		return filepath.Base(DefaultLogPath)
	case strings.HasPrefix(logPath, "~/") && home != "":
		return filepath.Join(home, logPath[2:])
	}
	return logPath
}

// SetupFile 把全局输出重定向到日志文件，TUI 占用终端时必须这样做。
// 返回文件 closer 与实际路径。
func SetupFile(logPath string) (io.Closer, string, error) {
	resolved := ResolvePath(logPath)
	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return nil, "", err
	}
	f, err := os.OpenFile(resolved, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, "", err
	}
	rootLogger.SetOutput(f)
	return f, resolved, nil
}

// Named 为组件创建入口。
func Named(component string) *LogEntry {
	entry := logrus.NewEntry(rootLogger)
	if component != "" {
		entry = entry.WithField(ComponentField, component)
	}
	return entry
}

// ForEngine 在组件入口上附加引擎 id。
func ForEngine(component, engineID string) *LogEntry {
	return Named(component).WithField(EngineField, engineID)
}

// Discard 返回丢弃全部输出的入口，测试中使用。
func Discard() *LogEntry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

// PlainFormatter 输出：caller [timestamp] [LEVEL] [component] [engine=id] message fields。
type PlainFormatter struct{}

func (PlainFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	if entry == nil {
		return nil, nil
	}
	var b strings.Builder
	if caller := formatCaller(entry); caller != "" {
		b.WriteString(caller)
		b.WriteByte(' ')
	}
	fmt.Fprintf(&b, "[%s] [%s]", entry.Time.UTC().Format(time.RFC3339Nano), strings.ToUpper(entry.Level.String()))
	if component, ok := entry.Data[ComponentField].(string); ok && component != "" {
		fmt.Fprintf(&b, " [%s]", component)
	}
	if id, ok := entry.Data[EngineField].(string); ok && id != "" {
		fmt.Fprintf(&b, " [engine=%s]", shortID(id))
	}
	b.WriteByte(' ')
	b.WriteString(entry.Message)
	if fields := formatFields(entry.Data); fields != "" {
		b.WriteByte(' ')
		b.WriteString(fields)
	}
	b.WriteByte('\n')
	return []byte(b.String()), nil
}

func shortID(id string) string {
	if len(id) > shortIDLen {
		return id[:shortIDLen]
	}
	return id
}

func formatCaller(entry *logrus.Entry) string {
	if entry.HasCaller() {
		return fmt.Sprintf("%s:%d", shortenFilePath(entry.Caller.File), entry.Caller.Line)
	}
	if caller, ok := entry.Data["caller"].(string); ok {
		return caller
	}
	return ""
}

func formatFields(fields logrus.Fields) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		switch k {
		case ComponentField, EngineField, "caller":
			continue
		}
		keys = append(keys, k)
	}
	if len(keys) == 0 {
		return ""
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%v", k, fields[k])
	}
	return strings.Join(parts, " ")
}

func shortenFilePath(file string) string {
	file = filepath.ToSlash(file)
	for _, marker := range []string{"/internal/", "/cmd/"} {
		if idx := strings.Index(file, marker); idx != -1 {
			return file[idx+1:]
		}
	}
	return filepath.Base(file)
}
