package tui

import (
	"context"
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/gacha/pkg/client"
	"github.com/naveenspark/gacha/pkg/domain"
)

// loginResultMsg carries the result of InitUser.
type loginResultMsg struct {
	res *domain.InitResult
	err error
}

type loginModel struct {
	svc        Service
	input      string
	connecting bool
	notice     string // blocking failure notice, dismissed with enter or esc
}

func newLoginModel(svc Service, userID string) loginModel {
	return loginModel{svc: svc, input: userID}
}

func (m loginModel) submit() tea.Cmd {
	svc := m.svc
	userID := strings.TrimSpace(m.input)
	return func() tea.Msg {
		res, err := svc.InitUser(context.Background(), userID)
		return loginResultMsg{res: res, err: err}
	}
}

func (m loginModel) Update(msg tea.KeyMsg) (loginModel, tea.Cmd) {
	if m.notice != "" {
		switch msg.String() {
		case "enter", "esc":
			m.notice = ""
		}
		return m, nil
	}
	if m.connecting {
		return m, nil
	}
	switch msg.String() {
	case "enter":
		if strings.TrimSpace(m.input) == "" {
			return m, nil
		}
		m.connecting = true
		return m, m.submit()
	case "esc":
		m.input = ""
	default:
		m.input = editRune(m.input, msg.String())
	}
	return m, nil
}

// failed records a login failure as a blocking notice.
func (m loginModel) failed(err error) loginModel {
	m.connecting = false
	m.notice = "Login failed: " + loginMessage(err)
	return m
}

func loginMessage(err error) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return err.Error()
}

func (m loginModel) View(width, frame int) string {
	var b strings.Builder
	b.WriteString("\n\n")
	b.WriteString(centerLine(goldStyle.Render("ENTER THE SUMMONING HALL"), width) + "\n\n")
	b.WriteString(centerLine(renderInput(m.input, "user id", !m.connecting && m.notice == "", frame), width) + "\n\n")

	btn := buttonStyle.Render("START")
	if m.connecting {
		btn = disabledButtonStyle.Render("CONNECTING...")
	}
	b.WriteString(centerLine(btn, width) + "\n")

	if m.notice != "" {
		modal := modalStyle.Render(errorStyle.Render(m.notice) + "\n\n" + helpEntry("enter", "ok"))
		b.WriteString("\n")
		for _, line := range strings.Split(modal, "\n") {
			b.WriteString(centerLine(line, width) + "\n")
		}
	}
	return b.String()
}
