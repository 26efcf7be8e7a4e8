package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/pageview/pkg/layout"
	"github.com/matzehuels/pageview/pkg/preview"
	"github.com/matzehuels/pageview/pkg/tree"
	"github.com/matzehuels/pageview/pkg/view"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// Page states shown in the page table.
const (
	pageContent     = "content"
	pagePlaceholder = "placeholder"
	pageCanvas      = "canvas"
	pageHidden      = "hidden"
)

// =============================================================================
// PreviewModel - Interactive terminal previewer
// =============================================================================

// frameMsg carries the result of a render pass.
type frameMsg struct {
	frame preview.Frame
	pages []pageRow
	err   error
}

// pageRow is one line of the page table.
type pageRow struct {
	Index  int
	TID    string
	Width  string
	Height string
	State  string
}

// PreviewModel is the bubbletea model driving a preview.Document.
type PreviewModel struct {
	ctx    context.Context
	doc    *preview.Document
	step   float64
	frame  preview.Frame
	pages  []pageRow
	err    error
	height int
	offset int
}

// NewPreviewModel creates a previewer. step is the scroll distance in
// pixels per key press.
func NewPreviewModel(ctx context.Context, doc *preview.Document, step float64) PreviewModel {
	return PreviewModel{ctx: ctx, doc: doc, step: step, height: 12}
}

func (m PreviewModel) Init() tea.Cmd {
	return m.render()
}

// render runs a render pass off the update loop.
func (m PreviewModel) render() tea.Cmd {
	return func() tea.Msg {
		f, err := m.doc.Render(m.ctx)
		if err != nil {
			return frameMsg{err: err}
		}
		m.doc.WaitCanvas()
		return frameMsg{frame: f, pages: pageRows(m.doc.Tree().FirstElement())}
	}
}

func (m PreviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case frameMsg:
		m.err = msg.err
		if msg.err == nil {
			m.frame, m.pages = msg.frame, msg.pages
			if m.offset > len(m.pages)-1 {
				m.offset = 0
			}
		}
		return m, nil
	case tea.WindowSizeMsg:
		m.height = max(msg.Height-14, 3)
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg.String())
	}
	return m, nil
}

func (m PreviewModel) handleKey(key string) (tea.Model, tea.Cmd) {
	snap := m.doc.Snapshot()
	switch key {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "down", "j":
		m.doc.ScrollBy(m.step)
	case "up", "k":
		m.doc.ScrollBy(-m.step)
	case "pgdown", " ":
		m.doc.ScrollBy(snap.DOM.Height)
	case "pgup":
		m.doc.ScrollBy(-snap.DOM.Height)
	case "+", "=":
		m.err = m.doc.Zoom(min(snap.ScaleRatio*1.25, 10))
	case "-":
		m.err = m.doc.Zoom(max(snap.ScaleRatio/1.25, 0.1))
	case "0":
		m.err = m.doc.Zoom(1)
	case "n", "right", "l":
		m.doc.NextPage()
	case "p", "left", "h":
		m.doc.PrevPage()
	case "m":
		next := view.ModeSlide
		if snap.Mode == view.ModeSlide {
			next = view.ModeDocument
		}
		m.err = m.doc.SetMode(next)
	case "tab":
		if len(m.pages) > 0 {
			m.offset = (m.offset + m.height) % len(m.pages)
		}
		return m, nil
	default:
		return m, nil
	}
	return m, m.render()
}

func (m PreviewModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Pageview"))
	b.WriteString(listDimStyle.Render("  " + short(m.doc.ID())))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("j/k scroll  n/p page  +/- zoom  m mode  tab more  q quit"))
	b.WriteString("\n\n")

	snap := m.doc.Snapshot()
	b.WriteString(kv("Mode", StyleHighlight.Render(snap.Mode.String())))
	if snap.Mode == view.ModeSlide {
		b.WriteString(kv("Slide", StyleNumber.Render(fmt.Sprintf("%d/%d", snap.PageIndex+1, max(m.frame.PageCount, 1)))))
	} else {
		b.WriteString(kv("Scroll", StyleNumber.Render(fmt.Sprintf("%.0fpx", -snap.DOM.BoundingRect.Top))))
	}
	b.WriteString(kv("Zoom", StyleNumber.Render(fmt.Sprintf("%.2fx", snap.ScaleRatio))))
	b.WriteString(kv("Scale", StyleNumber.Render(fmt.Sprintf("%.3f px/unit", snap.AppliedScale))))
	b.WriteString(kv("Window", listNormalStyle.Render(formatWindow(m.frame.Window))))
	b.WriteString(kv("Size", listNormalStyle.Render(fmt.Sprintf("%dx%d px", m.frame.PixelWidth, m.frame.PixelHeight))))
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(styleIconError.Render(iconError) + " " + m.err.Error() + "\n\n")
	}
	if m.frame.Placeholder {
		b.WriteString(StyleWarning.Render("No page found") + "\n")
		return b.String()
	}

	b.WriteString(m.pageTable())
	return b.String()
}

func (m PreviewModel) pageTable() string {
	end := min(m.offset+m.height, len(m.pages))
	rows := [][]string{}
	for _, p := range m.pages[m.offset:end] {
		rows = append(rows, []string{strconv.Itoa(p.Index + 1), p.TID, p.Width + "x" + p.Height, p.State})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	visible := m.pages[m.offset:end]

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("#", "Identity", "Size", "State").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if row < 0 || row >= len(visible) {
				return lipgloss.NewStyle()
			}
			switch visible[row].State {
			case pageContent:
				return listSelectedStyle
			case pageCanvas:
				return StyleSuccess
			default:
				return listDimStyle
			}
		})

	return t.Render() + "\n" + listDimStyle.Render(fmt.Sprintf("  [%d-%d/%d]", m.offset+1, end, len(m.pages)))
}

func kv(key, value string) string {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(8)
	return keyStyle.Render(key) + " " + value + "\n"
}

// =============================================================================
// Helpers
// =============================================================================

// pageRows summarizes the page elements of a document root.
func pageRows(root *tree.Node) []pageRow {
	var rows []pageRow
	for i, p := range tree.Pages(root) {
		rows = append(rows, pageRow{
			Index:  i,
			TID:    p.AttrOr(tree.AttrTID, "-"),
			Width:  p.AttrOr(tree.AttrPageWidth, "?"),
			Height: p.AttrOr(tree.AttrPageHeight, "?"),
			State:  pageState(p),
		})
	}
	return rows
}

func pageState(p *tree.Node) string {
	if _, hidden := p.Attr("display"); hidden {
		return pageHidden
	}
	id, _ := p.Attr(tree.AttrTID)
	if _, ok := tree.ParseCanvasReuseID(id); ok {
		return pageCanvas
	}
	if layout.IsPlaceholder(p) {
		return pagePlaceholder
	}
	return pageContent
}
