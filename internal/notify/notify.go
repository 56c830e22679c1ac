// Package notify carries short, non-fatal status messages from the list and
// form controllers to whatever surface shows them to the operator.
package notify

// Level classifies a notice.
type Level int

const (
	Success Level = iota
	Warning
	Error
)

func (l Level) String() string {
	switch l {
	case Success:
		return "success"
	case Warning:
		return "warning"
	case Error:
		return "error"
	}
	return "unknown"
}

// Notifier receives notices. Implementations must not block.
type Notifier interface {
	Notify(level Level, msg string)
}

// Func adapts a function to Notifier.
type Func func(level Level, msg string)

func (f Func) Notify(level Level, msg string) { f(level, msg) }

// Discard drops every notice.
var Discard Notifier = Func(func(Level, string) {})

// Notice is a recorded notification.
type Notice struct {
	Level Level
	Msg   string
}

// Recorder keeps every notice it receives, in order.
type Recorder struct {
	Notices []Notice
}

func (r *Recorder) Notify(level Level, msg string) {
	r.Notices = append(r.Notices, Notice{Level: level, Msg: msg})
}

// Last returns the most recent notice, if any.
func (r *Recorder) Last() (Notice, bool) {
	if len(r.Notices) == 0 {
		return Notice{}, false
	}
	return r.Notices[len(r.Notices)-1], true
}
