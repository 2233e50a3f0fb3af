/*
Package view provides the terminal view layer of the chat client.

This file defines the bubbletea Model, which renders the roster sidebar, the message feed
and an input line. It never mutates session state itself: Enter hands the input to the
session, and the session's change signal arrives as a RefreshMsg that re-reads snapshots.
*/
package view

import (
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"chatsync/internal/app/conn"
	"chatsync/internal/app/session"
	"chatsync/internal/app/user"
	"chatsync/internal/pkg/errs"
)

// Source is the session state the view reads and the submit operation it triggers.
type Source interface {
	Username() string
	Roster() []user.Profile
	FeedView() []session.FeedEntry
	Submit(input string) error
}

// ConnStatus reports the connection lifecycle. *conn.Conn satisfies it.
type ConnStatus interface {
	State() conn.State
}

// RefreshMsg tells the model that session state changed.
type RefreshMsg struct{}

// ConnClosedMsg tells the model that the connection is gone. Err is the cause,
// nil after a local close.
type ConnClosedMsg struct {
	Err error
}

// Model is the bubbletea model of the chat screen.
type Model struct {
	source Source
	conn   ConnStatus
	input  textinput.Model

	roster []user.Profile
	feed   []session.FeedEntry
	status string

	width  int
	height int
}

// NewModel creates the model and loads the current snapshots from source.
func NewModel(source Source, status ConnStatus) Model {
	input := textinput.New()
	input.Placeholder = "Message"
	input.Prompt = "> "
	input.CharLimit = 0
	input.Focus()

	model := Model{
		source: source,
		conn:   status,
		input:  input,
	}
	model.refresh()
	return model
}

// Init implements tea.Model.
func (model Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (model Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case tea.WindowSizeMsg:
		model.width = message.Width
		model.height = message.Height
		model.input.Width = max(message.Width-sidebarWidth-len(model.input.Prompt)-2, 1)
		return model, nil

	case RefreshMsg:
		model.refresh()
		return model, nil

	case ConnClosedMsg:
		if message.Err != nil {
			model.status = "connection lost: " + describe(message.Err)
		} else {
			model.status = "connection closed"
		}
		return model, nil

	case tea.KeyMsg:
		switch message.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return model, tea.Quit
		case tea.KeyEnter:
			model.submit()
			return model, nil
		}
	}

	var command tea.Cmd
	model.input, command = model.input.Update(message)
	return model, command
}

// submit hands the input line to the session. The line is cleared whether or not
// the send succeeded.
func (model *Model) submit() {
	err := model.source.Submit(model.input.Value())
	model.input.Reset()

	if err != nil {
		model.status = "not sent: " + describe(err)
		return
	}
	model.status = ""
}

func (model *Model) refresh() {
	model.roster = model.source.Roster()
	model.feed = model.source.FeedView()
}

func describe(err error) string {
	if customErr := errs.FromError(err); customErr != nil {
		return customErr.Message
	}
	return err.Error()
}

// Notifier forwards the session change signal into a running program. Signals
// that arrive before SetProgram are dropped; the model loads a full snapshot
// when it is created, so nothing is lost.
type Notifier struct {
	program atomic.Pointer[tea.Program]
}

// SetProgram sets the program that receives RefreshMsg.
func (notifier *Notifier) SetProgram(program *tea.Program) {
	notifier.program.Store(program)
}

// Notify sends a RefreshMsg. It blocks until the program accepts the message
// or has exited.
func (notifier *Notifier) Notify() {
	if program := notifier.program.Load(); program != nil {
		program.Send(RefreshMsg{})
	}
}

// isImage reports whether a message body is an image link, which the feed
// shows as a labelled link instead of plain text.
func isImage(body string) bool {
	return strings.HasSuffix(strings.ToLower(strings.TrimSpace(body)), ".gif")
}
