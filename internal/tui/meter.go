// SPDX-License-Identifier: MIT
package tui

import (
	"fmt"
	"math"
	"strings"

	"vocaltract/internal/analysis"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	barWidth     = 40
	historyWidth = 60
	maxLogArea   = 3 // log-area span drawn full width
)

var sparks = []rune(" ▁▂▃▄▅▆▇█")

type recordMsg analysis.Features

type recordsClosedMsg struct{}

// MeterModel renders the latest feature record of a live analysis.
type MeterModel struct {
	records <-chan analysis.Features
	latest  analysis.Features
	history []float64 // intensity, oldest first
	frames  int
	paused  bool
	width   int
}

// NewMeterModel creates a meter fed by records.
func NewMeterModel(records <-chan analysis.Features) MeterModel {
	return MeterModel{records: records, width: historyWidth}
}

func (m MeterModel) Init() tea.Cmd {
	return waitForRecord(m.records)
}

func waitForRecord(records <-chan analysis.Features) tea.Cmd {
	return func() tea.Msg {
		f, ok := <-records
		if !ok {
			return recordsClosedMsg{}
		}
		return recordMsg(f)
	}
}

func (m MeterModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = min(max(msg.Width-labelStyle.GetWidth()-2, 10), historyWidth)

	case recordMsg:
		if !m.paused {
			m.latest = analysis.Features(msg)
			m.frames++
			m.history = append(m.history, m.latest.Intensity)
			if len(m.history) > historyWidth {
				m.history = m.history[len(m.history)-historyWidth:]
			}
		}
		return m, waitForRecord(m.records)

	case recordsClosedMsg:
		return m, tea.Quit

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, keys.Pause):
			m.paused = !m.paused
		}
	}
	return m, nil
}

func (m MeterModel) View() string {
	f := m.latest
	var sb strings.Builder

	title := "Vocal Tract"
	if m.paused {
		title += " (paused)"
	}
	sb.WriteString(titleStyle.Render(title))
	sb.WriteString("\n\n")

	pitch := "—"
	if f.FundamentalFrequency != nil {
		pitch = fmt.Sprintf("%.1f Hz", *f.FundamentalFrequency)
	}
	voice := f.VoiceQuality.String()
	row(&sb, "Voice", voiceStyles[voice].Render(voice))
	row(&sb, "Pitch", pitch)
	row(&sb, "Intensity", fmt.Sprintf("%s %.3f", bar(f.Intensity, 1, barWidth), f.Intensity))
	row(&sb, "History", sparkline(m.history, m.width))
	row(&sb, "ZCR", fmt.Sprintf("%.3f", f.ZeroCrossingRate))
	row(&sb, "Centroid", fmt.Sprintf("%.0f Hz (spread %.0f Hz)", f.SpectralCentroid, f.SpectralSpread))
	row(&sb, "Rolloff", fmt.Sprintf("%.0f Hz", f.SpectralRolloff))
	row(&sb, "Flux", fmt.Sprintf("%.4f", f.SpectralFlux))
	row(&sb, "Formants", formatFormants(f.Formants))

	sb.WriteString("\n")
	sb.WriteString(infoStyle.Render("Tract (glottis → lips)"))
	sb.WriteString("\n")
	for i, la := range f.LogAreas {
		// Log areas are centered on the glottis reference at 0.
		label := labelStyle.Render(fmt.Sprintf("  %2d", i))
		sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, label, bar(la+maxLogArea, 2*maxLogArea, barWidth)))
		sb.WriteString("\n")
	}

	fmt.Fprintf(&sb, "\n%s", infoStyle.Render(fmt.Sprintf("%d frames • p: Pause • q: Quit", m.frames)))
	return sb.String()
}

func row(sb *strings.Builder, label, value string) {
	sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(label), value))
	sb.WriteString("\n")
}

// bar draws v out of full as a horizontal bar of width cells.
func bar(v, full float64, width int) string {
	n := 0
	if full > 0 && !math.IsNaN(v) {
		n = int(math.Round(v / full * float64(width)))
	}
	n = min(max(n, 0), width)
	return barStyle.Render(strings.Repeat("█", n)) + strings.Repeat("·", width-n)
}

// sparkline draws the last width values of history scaled to its maximum.
func sparkline(history []float64, width int) string {
	if len(history) > width {
		history = history[len(history)-width:]
	}
	peak := 0.0
	for _, v := range history {
		peak = max(peak, v)
	}

	out := make([]rune, len(history))
	for i, v := range history {
		level := 0
		if peak > 0 {
			level = int(math.Round(v / peak * float64(len(sparks)-1)))
		}
		out[i] = sparks[min(max(level, 0), len(sparks)-1)]
	}
	return string(out)
}

func formatFormants(formants []float64) string {
	if len(formants) == 0 {
		return "—"
	}
	parts := make([]string, len(formants))
	for i, f := range formants {
		parts[i] = fmt.Sprintf("F%d %.0f", i+1, f)
	}
	return strings.Join(parts, "  ")
}

// RunMeter shows the meter until the user quits or records is closed.
func RunMeter(records <-chan analysis.Features) error {
	_, err := tea.NewProgram(NewMeterModel(records), tea.WithAltScreen()).Run()
	return err
}
