package tui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/colonyops/ballotview/internal/core/notify"
	"github.com/colonyops/ballotview/internal/core/styles"
)

const (
	defaultToastTTL   = 5 * time.Second
	defaultMaxToasts  = 3
	toastTickInterval = 100 * time.Millisecond
)

type toast struct {
	notification notify.Notification
	remaining    time.Duration
}

type toastTickMsg time.Time

func scheduleToastTick() tea.Cmd {
	return tea.Tick(toastTickInterval, func(t time.Time) tea.Msg {
		return toastTickMsg(t)
	})
}

// ToastController manages the lifecycle of active notices: push, eviction,
// TTL countdown and dismissal.
type ToastController struct {
	toasts  []toast
	ticking bool
}

func NewToastController() *ToastController {
	return &ToastController{}
}

// Push adds a notification. Once more than defaultMaxToasts are shown the
// oldest is evicted.
func (c *ToastController) Push(n notify.Notification) {
	c.toasts = append(c.toasts, toast{notification: n, remaining: defaultToastTTL})
	if len(c.toasts) > defaultMaxToasts {
		c.toasts = c.toasts[len(c.toasts)-defaultMaxToasts:]
	}
}

// Tick decrements the remaining TTL on all toasts by d and drops the
// expired ones.
func (c *ToastController) Tick(d time.Duration) {
	alive := c.toasts[:0]
	for _, t := range c.toasts {
		t.remaining -= d
		if t.remaining > 0 {
			alive = append(alive, t)
		}
	}
	c.toasts = alive
}

// Dismiss removes the newest toast.
func (c *ToastController) Dismiss() {
	if len(c.toasts) > 0 {
		c.toasts = c.toasts[:len(c.toasts)-1]
	}
}

// Len returns the number of visible toasts.
func (c *ToastController) Len() int {
	return len(c.toasts)
}

// View renders one line per toast, oldest first, cut to width.
func (c *ToastController) View(width int) string {
	if len(c.toasts) == 0 {
		return ""
	}

	lines := make([]string, 0, len(c.toasts))
	for _, t := range c.toasts {
		lines = append(lines, renderToast(t, width))
	}
	return strings.Join(lines, "\n")
}

func renderToast(t toast, width int) string {
	var style lipgloss.Style
	var label string

	switch t.notification.Level {
	case notify.LevelError:
		style, label = styles.ErrorStyle, "error"
	case notify.LevelWarning:
		style, label = styles.WarnStyle, "warn"
	default:
		style, label = styles.InfoStyle, "info"
	}

	content := label + ": " + t.notification.Message
	if width > 0 {
		content = ansi.Truncate(content, width, "…")
	}
	return style.Render(content)
}
