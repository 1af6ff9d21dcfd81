// Copyright 2025 Playful Tones
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package prompt implements the interactive mode picker shown when the
// user has not decided on the command line whether to build installer
// images. It follows The Elm Architecture: the Model holds the cursor,
// Update reacts to key messages, and View renders the two choices.
package prompt

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Choice is the outcome of the picker.
type Choice int

const (
	// ChoiceCancelled means the user backed out without deciding.
	ChoiceCancelled Choice = iota
	// ChoiceNotarize runs sign and notarize only.
	ChoiceNotarize
	// ChoiceNotarizeWithImage additionally builds a disk image per bundle.
	ChoiceNotarizeWithImage
)

type option struct {
	title string
	desc  string
}

var options = []option{
	{
		title: "Sign & notarize",
		desc:  "Codesign each bundle and submit it to Apple's notary service",
	},
	{
		title: "Sign, notarize & build installer image",
		desc:  "Additionally package each bundle into a stapled .dmg",
	},
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#5B8DEF")).
			MarginBottom(1)
	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B"))
	descStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))
	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#AAAAAA")).
			MarginTop(1)
)

// Model is the picker's bubbletea model.
type Model struct {
	cursor int
	choice Choice
	done   bool
}

// New returns a picker with the first option selected.
func New() Model {
	return Model{}
}

// Choice returns the user's selection once the program has finished.
func (m Model) Choice() Choice {
	return m.choice
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "ctrl+c", "q", "esc":
		m.choice = ChoiceCancelled
		m.done = true
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(options)-1 {
			m.cursor++
		}
	case "enter":
		if m.cursor == 0 {
			m.choice = ChoiceNotarize
		} else {
			m.choice = ChoiceNotarizeWithImage
		}
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if m.done {
		return ""
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render("What would you like to do?"))
	b.WriteString("\n")
	for i, opt := range options {
		marker := "  "
		title := opt.title
		if i == m.cursor {
			marker = "> "
			title = selectedStyle.Render(title)
		}
		fmt.Fprintf(&b, "%s%s\n", marker, title)
		fmt.Fprintf(&b, "  %s\n", descStyle.Render(opt.desc))
	}
	b.WriteString(hintStyle.Render("Enter → confirm    ↑/↓ → move    Esc → cancel"))
	b.WriteString("\n")
	return b.String()
}

// Run shows the picker on the terminal and blocks until the user decides.
func Run() (Choice, error) {
	final, err := tea.NewProgram(New()).Run()
	if err != nil {
		return ChoiceCancelled, fmt.Errorf("running mode picker: %w", err)
	}
	m, ok := final.(Model)
	if !ok {
		return ChoiceCancelled, fmt.Errorf("unexpected picker model %T", final)
	}
	return m.Choice(), nil
}
