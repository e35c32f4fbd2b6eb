package log

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
)

// Scope is a named logging control surface. Libraries register one
// scope per area of the code, and output levels, stack trace levels and
// caller logging are then adjustable per scope at runtime.
type Scope struct {
	name        string
	nameToEmit  string
	description string
	callerSkip  int

	outputLevel     atomic.Value
	stackTraceLevel atomic.Value
	logCallers      atomic.Value

	labelKeys []string
	labels    map[string]any
}

var (
	scopes = make(map[string]*Scope)
	lock   sync.RWMutex
)

func RegisterScope(name string, description string, callerSkip int) *Scope {
	if strings.ContainsAny(name, ":,.") {
		panic(fmt.Sprintf("scope name %s is invalid, it cannot contain colons, commas, or periods", name))
	}

	lock.Lock()
	defer lock.Unlock()

	s, ok := scopes[name]
	if !ok {
		s = &Scope{
			name:        name,
			description: description,
			callerSkip:  callerSkip,
		}
		s.SetOutputLevel(InfoLevel)
		s.SetStackTraceLevel(NoneLevel)
		s.SetLogCallers(false)

		if name != DefaultScopeName {
			s.nameToEmit = name
		}

		scopes[name] = s
	}

	s.labels = make(map[string]any)

	return s
}

func FindScope(scope string) *Scope {
	lock.RLock()
	defer lock.RUnlock()

	s := scopes[scope]
	return s
}

func Scopes() map[string]*Scope {
	lock.RLock()
	defer lock.RUnlock()

	s := make(map[string]*Scope, len(scopes))
	for k, v := range scopes {
		s[k] = v
	}

	return s
}

func (s *Scope) Fatal(args ...any) {
	if s.GetOutputLevel() >= FatalLevel {
		s.emit(FatalLevel, fmt.Sprint(args...))
	}
}

func (s *Scope) Fatalf(args ...any) {
	if s.GetOutputLevel() >= FatalLevel {
		s.emit(FatalLevel, formatArgs(args))
	}
}

func (s *Scope) FatalEnabled() bool {
	return s.GetOutputLevel() >= FatalLevel
}

func (s *Scope) Error(args ...any) {
	if s.GetOutputLevel() >= ErrorLevel {
		s.emit(ErrorLevel, fmt.Sprint(args...))
	}
}

func (s *Scope) Errorf(args ...any) {
	if s.GetOutputLevel() >= ErrorLevel {
		s.emit(ErrorLevel, formatArgs(args))
	}
}

func (s *Scope) ErrorEnabled() bool {
	return s.GetOutputLevel() >= ErrorLevel
}

func (s *Scope) Warn(args ...any) {
	if s.GetOutputLevel() >= WarnLevel {
		s.emit(WarnLevel, fmt.Sprint(args...))
	}
}

func (s *Scope) Warnf(args ...any) {
	if s.GetOutputLevel() >= WarnLevel {
		s.emit(WarnLevel, formatArgs(args))
	}
}

func (s *Scope) WarnEnabled() bool {
	return s.GetOutputLevel() >= WarnLevel
}

func (s *Scope) Info(args ...any) {
	if s.GetOutputLevel() >= InfoLevel {
		s.emit(InfoLevel, fmt.Sprint(args...))
	}
}

func (s *Scope) Infof(args ...any) {
	if s.GetOutputLevel() >= InfoLevel {
		s.emit(InfoLevel, formatArgs(args))
	}
}

func (s *Scope) InfoEnabled() bool {
	return s.GetOutputLevel() >= InfoLevel
}

func (s *Scope) Debug(args ...any) {
	if s.GetOutputLevel() >= DebugLevel {
		s.emit(DebugLevel, fmt.Sprint(args...))
	}
}

func (s *Scope) Debugf(args ...any) {
	if s.GetOutputLevel() >= DebugLevel {
		s.emit(DebugLevel, formatArgs(args))
	}
}

func (s *Scope) DebugEnabled() bool {
	return s.GetOutputLevel() >= DebugLevel
}

func (s *Scope) Name() string {
	return s.name
}

func (s *Scope) Description() string {
	return s.description
}

func (s *Scope) SetOutputLevel(l Level) {
	s.outputLevel.Store(l)
}

func (s *Scope) GetOutputLevel() Level {
	return s.outputLevel.Load().(Level)
}

func (s *Scope) SetStackTraceLevel(l Level) {
	s.stackTraceLevel.Store(l)
}

func (s *Scope) GetStackTraceLevel() Level {
	return s.stackTraceLevel.Load().(Level)
}

func (s *Scope) SetLogCallers(logCallers bool) {
	s.logCallers.Store(logCallers)
}

func (s *Scope) GetLogCallers() bool {
	return s.logCallers.Load().(bool)
}

func (s *Scope) copy() *Scope {
	out := *s
	out.labels = copyStringInterfaceMap(s.labels)
	return &out
}

// WithLabels returns a copy of the scope that attaches the given
// key/value pairs to every message it emits.
func (s *Scope) WithLabels(kvlist ...any) *Scope {
	out := s.copy()
	if len(kvlist)%2 != 0 {
		out.labels["WithLabels error"] = fmt.Sprintf("even number of parameters required, got %d", len(kvlist))
		return out
	}

	for i := 0; i < len(kvlist); i += 2 {
		keyi := kvlist[i]
		key, ok := keyi.(string)
		if !ok {
			out.labels["WithLabels error"] = fmt.Sprintf("label name %v must be a string, got %T ", keyi, keyi)
			return out
		}
		out.labels[key] = kvlist[i+1]
		out.labelKeys = append(out.labelKeys, key)
	}
	return out
}

// formatArgs treats the first argument as the format string for the rest.
func formatArgs(args []any) string {
	msg := fmt.Sprint(args[0])
	if len(args) > 1 {
		msg = fmt.Sprintf(msg, args[1:]...)
	}
	return msg
}

func copyStringInterfaceMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
