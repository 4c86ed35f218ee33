package tui

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ChatReply mirrors the chat endpoint's response body.
type ChatReply struct {
	Answer      string   `json:"answer"`
	Lang        string   `json:"lang"`
	Suggestions []string `json:"suggestions"`
}

type replyMsg struct {
	question string
	reply    ChatReply
	err      error
}

type turn struct {
	question string
	reply    ChatReply
}

// Model is the Bubble Tea model for the chat client.
type Model struct {
	serverURL string
	client    *http.Client
	input     textinput.Model
	viewport  viewport.Model
	turns     []turn
	status    string
	ready     bool
	waiting   bool
}

// New creates a chat client model talking to the given server base URL.
func New(serverURL string) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask about the conference and press Enter"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	return Model{
		serverURL: strings.TrimRight(serverURL, "/"),
		client:    &http.Client{Timeout: 90 * time.Second},
		input:     ti,
		viewport:  vp,
		status:    "Connected. Type a question.",
	}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key, window and reply events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		// account for frames around transcript and input boxes
		_, th := transcriptBoxStyle.GetFrameSize()
		_, ih := inputBoxStyle.GetFrameSize()
		reserved := 1 + 1 + ih + 1 // header + status + spacer
		vh := msg.Height - reserved
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, vh-th)
		m.viewport.SetContent(m.renderTranscript())
		return m, nil
	case tea.KeyMsg:
		// Global quits
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			q := strings.TrimSpace(m.input.Value())
			if q != "" && !m.waiting {
				m.input.Reset()
				m.waiting = true
				m.status = "Thinking..."
				return m, m.ask(q)
			}
		case "up":
			m.viewport.LineUp(1)
			return m, nil
		case "down":
			m.viewport.LineDown(1)
			return m, nil
		}
	case replyMsg:
		m.waiting = false
		if msg.err != nil {
			m.status = "Error: " + msg.err.Error()
			return m, nil
		}
		m.turns = append(m.turns, turn{question: msg.question, reply: msg.reply})
		m.status = fmt.Sprintf("Answered in %s", msg.reply.Lang)
		m.viewport.SetContent(m.renderTranscript())
		m.viewport.GotoBottom()
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the TUI layout and the chat transcript.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("Conference Chat")
	transcript := transcriptBoxStyle.Render(m.viewport.View())
	input := inputBoxStyle.Render(m.input.View())
	status := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render(m.status)
	return header + "\n" + transcript + "\n" + input + "\n" + status
}

func (m Model) ask(question string) tea.Cmd {
	url := m.serverURL + "/chat"
	client := m.client
	return func() tea.Msg {
		body, err := json.Marshal(map[string]string{"message": question})
		if err != nil {
			return replyMsg{question: question, err: err}
		}
		resp, err := client.Post(url, "application/json", bytes.NewReader(body))
		if err != nil {
			return replyMsg{question: question, err: err}
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return replyMsg{question: question, err: fmt.Errorf("HTTP %d from %s", resp.StatusCode, url)}
		}
		var reply ChatReply
		if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
			return replyMsg{question: question, err: err}
		}
		return replyMsg{question: question, reply: reply}
	}
}

func (m Model) renderTranscript() string {
	if len(m.turns) == 0 {
		return "No messages yet."
	}
	var b strings.Builder
	for i, t := range m.turns {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(questionStyle.Render("You: " + t.question))
		b.WriteString("\n")
		b.WriteString(t.reply.Answer)
		if len(t.reply.Suggestions) > 0 {
			b.WriteString("\n")
			b.WriteString(suggestionStyle.Render("Try asking:"))
			for _, s := range t.reply.Suggestions {
				b.WriteString("\n")
				b.WriteString(suggestionStyle.Render("  - " + s))
			}
		}
	}
	return b.String()
}

var (
	transcriptBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	inputBoxStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	questionStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	suggestionStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
