package notifysvc

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/somalms/soma/core"
)

// consoleNotifier prints user-facing notifications to the terminal; it is the
// CLI's toast surface.
type consoleNotifier struct {
	out        io.Writer
	subjPrefix string
}

var _ core.Notifier = (*consoleNotifier)(nil)

func NewConsoleNotifier(conf *core.Config) core.Notifier {
	return &consoleNotifier{
		out:        os.Stdout,
		subjPrefix: "[" + conf.AppName + "] ",
	}
}

func (n consoleNotifier) Success(msg string) { n.print("OK", msg) }
func (n consoleNotifier) Info(msg string)    { n.print("INFO", msg) }
func (n consoleNotifier) Error(msg string)   { n.print("ERROR", msg) }

func (n consoleNotifier) print(level, msg string) {
	fmt.Fprintf(n.out, "%s%s: %s\n", n.subjPrefix, level, msg)
}

// Notification is one recorded message; tests assert on these.
type Notification struct {
	Level   string
	Message string
}

// Recorder keeps notifications in memory instead of printing them.
type Recorder struct {
	mu   sync.Mutex
	Sent []Notification
}

var _ core.Notifier = (*Recorder)(nil)

func NewRecorder() *Recorder { return &Recorder{} }

func (r *Recorder) Success(msg string) { r.record("success", msg) }
func (r *Recorder) Info(msg string)    { r.record("info", msg) }
func (r *Recorder) Error(msg string)   { r.record("error", msg) }

func (r *Recorder) record(level, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Sent = append(r.Sent, Notification{Level: level, Message: msg})
}

// Last returns the most recent notification, or a zero value when none.
func (r *Recorder) Last() Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.Sent) == 0 {
		return Notification{}
	}
	return r.Sent[len(r.Sent)-1]
}

// Reset clears recorded notifications between test cases.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Sent = nil
}
