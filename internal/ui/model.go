package ui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"phenosift/internal/pipeline"
	"phenosift/internal/types"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type state int

const (
	stateFilePicker state = iota
	stateScanning
	statePreview
	stateProcessing
	stateComplete
	stateError
)

type Model struct {
	state        state
	cfg          types.Config
	filepicker   filepicker.Model
	selectedFile string
	report       *types.ScanReport
	include      map[string]bool
	cursor       int
	result       *types.RunResult
	err          error
	width        int
	height       int
	progress     progress.Model
	progressChan chan float64
	resultChan   chan runResultMsg
}

type scanDoneMsg struct {
	report *types.ScanReport
	err    error
}

type runResultMsg struct {
	result *types.RunResult
	err    error
}

type runCompleteMsg struct {
	result *types.RunResult
	err    error
}

type progressMsg float64

type waitForProgressMsg struct{}

func InitialModel(cfg types.Config) Model {
	fp := filepicker.New()
	fp.AllowedTypes = []string{".xlsx"}
	fp.CurrentDirectory, _ = os.Getwd()

	// Set filepicker colors to match theme
	fp.Styles.Cursor = lipgloss.NewStyle().Foreground(lipgloss.Color("#2DD4BF"))
	fp.Styles.Symlink = lipgloss.NewStyle().Foreground(lipgloss.Color("#5EEAD4"))
	fp.Styles.Directory = lipgloss.NewStyle().Foreground(lipgloss.Color("#5EEAD4"))
	fp.Styles.File = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF"))
	fp.Styles.Permission = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	fp.Styles.Selected = lipgloss.NewStyle().Foreground(lipgloss.Color("#2DD4BF")).Bold(true)
	fp.Styles.FileSize = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))

	prog := progress.New(progress.WithGradient("#2DD4BF", "#5EEAD4"))

	return Model{
		state:      stateFilePicker,
		cfg:        cfg,
		filepicker: fp,
		include:    make(map[string]bool),
		progress:   prog,
	}
}

func (m Model) Init() tea.Cmd {
	return m.filepicker.Init()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		// Leave room for title, subtitle, help text, and padding
		height := msg.Height - 14
		if height < 5 {
			height = 5
		}
		m.filepicker.SetHeight(height)

		return m, nil

	case tea.KeyMsg:
		switch m.state {
		case stateFilePicker:
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			}

		case statePreview:
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "up", "k":
				if m.cursor > 0 {
					m.cursor--
				}
			case "down", "j":
				if m.cursor < len(m.report.Sheets)-1 {
					m.cursor++
				}
			case " ":
				sheet := m.report.Sheets[m.cursor]
				if !sheet.Skipped {
					m.include[sheet.Name] = !m.include[sheet.Name]
				}
			case "a":
				for _, sheet := range m.report.Sheets {
					if !sheet.Skipped {
						m.include[sheet.Name] = true
					}
				}
			case "enter":
				if m.includedCount() > 0 {
					m.state = stateProcessing
					return m.runPipeline()
				}
			}

		case stateComplete, stateError:
			switch msg.String() {
			case "ctrl+c", "q", "enter", "esc":
				return m, tea.Quit
			}
		}

	case scanDoneMsg:
		if msg.err != nil {
			m.err = msg.err
			m.state = stateError
			return m, nil
		}
		m.report = msg.report

		// Include every processable sheet by default
		for _, sheet := range m.report.Sheets {
			if !sheet.Skipped {
				m.include[sheet.Name] = true
			}
		}

		m.state = statePreview
		return m, nil

	case runCompleteMsg:
		if msg.err != nil {
			m.err = msg.err
			m.state = stateError
			return m, nil
		}
		m.result = msg.result
		m.state = stateComplete
		return m, nil

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		return m, cmd

	case progressMsg:
		if m.state == stateProcessing {
			cmd := m.progress.SetPercent(float64(msg))
			return m, tea.Batch(cmd, waitForProgress(m.progressChan, m.resultChan))
		}
		return m, nil

	case waitForProgressMsg:
		return m, waitForProgress(m.progressChan, m.resultChan)
	}

	// Handle filepicker updates
	if m.state == stateFilePicker {
		var cmd tea.Cmd
		m.filepicker, cmd = m.filepicker.Update(msg)

		if didSelect, path := m.filepicker.DidSelectFile(msg); didSelect {
			m.selectedFile = path
			m.state = stateScanning
			return m, m.scanFile(path)
		}

		return m, cmd
	}

	return m, nil
}

func (m Model) includedCount() int {
	n := 0
	for _, ok := range m.include {
		if ok {
			n++
		}
	}
	return n
}

func (m Model) scanFile(path string) tea.Cmd {
	return func() tea.Msg {
		report, err := pipeline.Scan(path, m.cfg)
		return scanDoneMsg{report: report, err: err}
	}
}

func (m Model) runPipeline() (Model, tea.Cmd) {
	m.progressChan = make(chan float64, 100)
	m.resultChan = make(chan runResultMsg, 1)

	outputFile := OutputPath(m.selectedFile)

	// Capture for the goroutine
	progressChan := m.progressChan
	resultChan := m.resultChan
	selectedFile := m.selectedFile
	cfg := m.cfg
	report := m.report
	include := make(map[string]bool, len(m.include))
	for name, ok := range m.include {
		include[name] = ok
	}

	cmd := tea.Batch(
		func() tea.Msg {
			go func() {
				result, err := pipeline.Run(selectedFile, outputFile, cfg, report, include, progressChan)
				resultChan <- runResultMsg{result: result, err: err}
				close(progressChan)
				close(resultChan)
			}()

			return waitForProgressMsg{}
		},
		waitForProgress(m.progressChan, m.resultChan),
		m.progress.Init(), // Start progress bar animation
	)

	return m, cmd
}

// OutputPath derives the output workbook path next to the input file.
func OutputPath(inputFile string) string {
	ext := filepath.Ext(inputFile)
	return strings.TrimSuffix(inputFile, ext) + "_phenosift.xlsx"
}

func waitForProgress(progressChan chan float64, resultChan chan runResultMsg) tea.Cmd {
	return func() tea.Msg {
		if progressChan == nil {
			return nil
		}

		p, ok := <-progressChan
		if !ok {
			// Progress channel closed, check result
			res, ok := <-resultChan
			if ok {
				return runCompleteMsg(res)
			}
			return nil
		}

		return progressMsg(p)
	}
}

func (m Model) View() string {
	switch m.state {
	case stateFilePicker:
		return m.viewFilePicker()
	case stateScanning:
		return m.viewScanning()
	case statePreview:
		return m.viewPreview()
	case stateProcessing:
		return m.viewProcessing()
	case stateComplete:
		return m.viewComplete()
	case stateError:
		return m.viewError()
	}
	return ""
}

func (m Model) viewFilePicker() string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("🔬 phenosift - Phenotype Workbook Splitter"))
	s.WriteString("\n")
	s.WriteString(SubtitleStyle.Render("Select an XLSX workbook to filter"))
	s.WriteString("\n\n")
	s.WriteString(m.filepicker.View())
	s.WriteString("\n\n")
	s.WriteString(HelpStyle.Render("Press q to quit"))

	return s.String()
}

func (m Model) viewScanning() string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("🔬 Scanning..."))
	s.WriteString("\n\n")
	s.WriteString(SubtitleStyle.Render(fmt.Sprintf("File: %s", filepath.Base(m.selectedFile))))
	s.WriteString("\n")
	s.WriteString("Reading sheets and collecting phenotype labels...")

	return BoxStyle.Render(s.String())
}

func (m Model) viewPreview() string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("🔬 Select Sheets to Process"))
	s.WriteString("\n")
	s.WriteString(SubtitleStyle.Render(fmt.Sprintf("File: %s", filepath.Base(m.selectedFile))))
	s.WriteString("\n\n")

	if len(m.report.Labels) > 0 {
		s.WriteString(SuccessStyle.Render(fmt.Sprintf("✓ Found %d matching phenotype label(s)", len(m.report.Labels))))
	} else {
		s.WriteString(ErrorStyle.Render("No matching phenotype labels found"))
	}
	s.WriteString("\n")
	if m.report.Fallback {
		s.WriteString(SubtitleStyle.Render("No exact label matches, using marker substring fallback"))
		s.WriteString("\n")
	}
	s.WriteString("\n")

	for i, sheet := range m.report.Sheets {
		cursor := " "
		if m.cursor == i {
			cursor = ">"
		}

		checked := " "
		if m.include[sheet.Name] {
			checked = "✓"
		}

		detail := fmt.Sprintf("%d rows", sheet.Rows)
		if sheet.Skipped {
			detail = "no phenotype column"
		} else if sheet.Columns.DistanceHeader != "" {
			detail += fmt.Sprintf(" • distance: %s", sheet.Columns.DistanceHeader)
		} else {
			detail += " • no distance column"
		}

		line := fmt.Sprintf("%s [%s] %s (%s)", cursor, checked, sheet.Name, detail)

		switch {
		case m.cursor == i:
			line = SelectedStyle.Render(line)
		case sheet.Skipped:
			line = HelpStyle.Render(line)
		case m.include[sheet.Name]:
			line = CheckedStyle.Render(line)
		default:
			line = UnselectedStyle.Render(line)
		}

		s.WriteString(line)
		s.WriteString("\n")
	}

	s.WriteString("\n")
	s.WriteString(HelpStyle.Render("↑/↓: navigate • space: toggle • a: select all • enter: run • q: quit"))

	return BoxStyle.Render(s.String())
}

func (m Model) viewProcessing() string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("🔬 Processing..."))
	s.WriteString("\n\n")
	s.WriteString("Splitting rows into distance and subtype sheets...")
	s.WriteString("\n\n")
	s.WriteString(m.progress.View())

	return BoxStyle.Render(s.String())
}

func (m Model) viewComplete() string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("✓ Filtering Complete!"))
	s.WriteString("\n\n")

	// Truncate paths if they're too long
	maxPathLen := m.width - 20
	if maxPathLen < 30 {
		maxPathLen = 30
	}

	inputPath := m.result.InputFile
	if len(inputPath) > maxPathLen {
		inputPath = "..." + inputPath[len(inputPath)-maxPathLen+3:]
	}

	outputPath := m.result.OutputFile
	if len(outputPath) > maxPathLen {
		outputPath = "..." + outputPath[len(outputPath)-maxPathLen+3:]
	}

	s.WriteString(fmt.Sprintf("Input:  %s\n", inputPath))
	s.WriteString(SuccessStyle.Render(fmt.Sprintf("Output: %s\n", outputPath)))
	s.WriteString("\n")
	s.WriteString(fmt.Sprintf("Sheets written: %d\n", m.result.SheetsWritten))
	s.WriteString(fmt.Sprintf("Rows written: %d (within: %d, outside: %d, subtype: %d)\n",
		m.result.RowsWritten, m.result.WithinRows, m.result.OutsideRows, m.result.SubtypeRows))
	if len(m.result.SkippedSheets) > 0 {
		s.WriteString(fmt.Sprintf("Skipped sheets: %s\n", strings.Join(m.result.SkippedSheets, ", ")))
	}
	s.WriteString("\n")
	s.WriteString(HelpStyle.Render("Press any key to exit"))

	return BoxStyle.Render(s.String())
}

func (m Model) viewError() string {
	var s strings.Builder

	s.WriteString(ErrorStyle.Render("✗ Error"))
	s.WriteString("\n\n")
	s.WriteString(m.err.Error())
	s.WriteString("\n\n")
	s.WriteString(HelpStyle.Render("Press any key to exit"))

	return BoxStyle.Render(s.String())
}
