package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/catalog-viewer/internal/domain/auth"
)

var (
	loginNextField = key.NewBinding(key.WithKeys("tab", "shift+tab", "up", "down"))
	loginSubmit    = key.NewBinding(key.WithKeys("enter"))
)

type loginView struct {
	mount
	keys      KeyMap
	validator *auth.Validator

	email    textinput.Model
	password textinput.Model
	focus    int
	errs     auth.FieldErrors
	width    int
}

func newLoginView(mt mount, keys KeyMap, v *auth.Validator) *loginView {
	email := textinput.New()
	email.Placeholder = "emily.johnson@example.com"
	email.Prompt = ""
	email.CharLimit = 254
	email.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.Prompt = ""
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	return &loginView{
		mount:     mt,
		keys:      keys,
		validator: v,
		email:     email,
		password:  password,
	}
}

func (v *loginView) Init() tea.Cmd { return textinput.Blink }

// Capturing is always true: both fields are text inputs.
func (v *loginView) Capturing() bool { return true }

func (v *loginView) SetSize(width, _ int) { v.width = width }

func (v *loginView) Close() { v.cancel() }

func (v *loginView) Update(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, loginNextField):
			return v.setFocus(1 - v.focus)
		case key.Matches(msg, loginSubmit):
			return v.submit()
		}
	}

	var cmd tea.Cmd
	if v.focus == 0 {
		v.email, cmd = v.email.Update(msg)
	} else {
		v.password, cmd = v.password.Update(msg)
	}
	return cmd
}

func (v *loginView) setFocus(i int) tea.Cmd {
	v.focus = i
	if i == 0 {
		v.password.Blur()
		return v.email.Focus()
	}
	v.email.Blur()
	return v.password.Focus()
}

func (v *loginView) submit() tea.Cmd {
	creds := auth.Credentials{
		Email:    strings.TrimSpace(v.email.Value()),
		Password: v.password.Value(),
	}
	err := v.validator.Validate(creds)

	var fields auth.FieldErrors
	switch {
	case err == nil:
		v.errs = nil
		email := creds.Email
		return func() tea.Msg { return loggedInMsg{email: email} }
	case errors.As(err, &fields):
		v.errs = fields
		zctx.From(v.ctx).Debug("Login rejected",
			zap.String("email", creds.Email),
			zap.Strings("fields", fieldNames(fields)),
		)
		if _, bad := fields[auth.FieldEmail]; bad {
			return v.setFocus(0)
		}
		return v.setFocus(1)
	default:
		zctx.From(v.ctx).Error("Validate credentials", zap.Error(err))
		v.errs = auth.FieldErrors{auth.FieldEmail: err.Error()}
		return nil
	}
}

func fieldNames(errs auth.FieldErrors) []string {
	out := make([]string, 0, len(errs))
	for _, f := range []string{auth.FieldEmail, auth.FieldPassword} {
		if _, ok := errs[f]; ok {
			out = append(out, f)
		}
	}
	return out
}

func (v *loginView) View() string {
	field := func(label string, in textinput.Model, focused bool, errMsg string) string {
		style := PanelStyle
		if focused {
			style = PanelFocusedStyle
		}
		out := LabelStyle.Render(label) + "\n" + style.Width(40).Render(in.View())
		if errMsg != "" {
			out += "\n" + ErrorStyle.Render(errMsg)
		}
		return out
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		TitleStyle.Render("Sign in"),
		"",
		field("Email", v.email, v.focus == 0, v.errs[auth.FieldEmail]),
		"",
		field("Password", v.password, v.focus == 1, v.errs[auth.FieldPassword]),
		helpLine(
			key.NewBinding(key.WithHelp("tab", "next field")),
			key.NewBinding(key.WithHelp("enter", "sign in")),
			v.keys.Quit,
		),
	)
}
