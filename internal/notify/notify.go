package notify

import (
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// Urgency levels for notifications. The zero value is normal.
type Urgency int

const (
	UrgencyNormal Urgency = iota
	UrgencyLow
	UrgencyCritical
)

// Notification represents a desktop notification
type Notification struct {
	Title   string
	Body    string
	Urgency Urgency
	Timeout time.Duration
	Icon    string // Optional icon name
}

// Runner executes the notification command. Tests replace it.
type Runner func(name string, args ...string) error

func execRunner(name string, args ...string) error {
	return exec.Command(name, args...).Run()
}

// Notifier handles sending desktop notifications
type Notifier struct {
	enabled bool
	run     Runner
}

// NewNotifier creates a notifier. Notifications are off unless enabled.
func NewNotifier(enabled bool) *Notifier {
	return &Notifier{
		enabled: enabled,
		run:     execRunner,
	}
}

// WithRunner replaces the command runner.
func (n *Notifier) WithRunner(run Runner) *Notifier {
	n.run = run
	return n
}

// SetEnabled enables or disables notifications
func (n *Notifier) SetEnabled(enabled bool) {
	n.enabled = enabled
}

// IsEnabled returns whether notifications are enabled
func (n *Notifier) IsEnabled() bool {
	return n.enabled
}

// Args builds the notify-send argument list for a notification.
func Args(notification Notification) []string {
	args := []string{}

	// Add urgency
	switch notification.Urgency {
	case UrgencyLow:
		args = append(args, "-u", "low")
	case UrgencyCritical:
		args = append(args, "-u", "critical")
	default:
		args = append(args, "-u", "normal")
	}

	// Add timeout (in milliseconds)
	if notification.Timeout > 0 {
		args = append(args, "-t", strconv.Itoa(int(notification.Timeout.Milliseconds())))
	}

	if notification.Icon != "" {
		args = append(args, "-i", notification.Icon)
	}

	args = append(args, "-a", "ticklist")

	args = append(args, notification.Title)
	if notification.Body != "" {
		args = append(args, notification.Body)
	}
	return args
}

// Send sends a desktop notification using notify-send
func (n *Notifier) Send(notification Notification) error {
	if !n.enabled {
		return nil
	}
	if err := n.run("notify-send", Args(notification)...); err != nil {
		return fmt.Errorf("failed to send notification: %w", err)
	}
	return nil
}

// DueToday builds the start-up reminder for open tasks due today. It
// reports false when there is nothing to say.
func DueToday(titles []string) (Notification, bool) {
	if len(titles) == 0 {
		return Notification{}, false
	}

	title := "1 task due today"
	if len(titles) > 1 {
		title = fmt.Sprintf("%d tasks due today", len(titles))
	}

	shown := titles
	if len(shown) > 3 {
		shown = shown[:3]
	}
	body := strings.Join(shown, "\n")
	if more := len(titles) - len(shown); more > 0 {
		body += fmt.Sprintf("\n…and %d more", more)
	}

	return Notification{
		Title:   title,
		Body:    body,
		Urgency: UrgencyNormal,
		Timeout: 10 * time.Second,
		Icon:    "appointment-soon-symbolic",
	}, true
}

// SendDueToday sends the due-today reminder if there is anything due.
func (n *Notifier) SendDueToday(titles []string) error {
	notification, ok := DueToday(titles)
	if !ok {
		return nil
	}
	return n.Send(notification)
}
