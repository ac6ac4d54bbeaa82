package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/kanta/internal/config"
	"github.com/llehouerou/kanta/internal/errmsg"
	"github.com/llehouerou/kanta/internal/mpris"
	"github.com/llehouerou/kanta/internal/notify"
	"github.com/llehouerou/kanta/internal/playback"
	"github.com/llehouerou/kanta/internal/player"
	"github.com/llehouerou/kanta/internal/state"
	"github.com/llehouerou/kanta/internal/stderr"
)

const defaultNotifyTimeoutMS = 5000

var (
	playerBarStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240"))

	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	selectedStyle = lipgloss.NewStyle().Reverse(true)
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	lyricsStyle   = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
)

type tickMsg time.Time

type promptKind int

const (
	promptNone promptKind = iota
	promptAddTrack
	promptLoadPlaylist
	promptExportPlaylist
)

// errLog carries swallowed playback errors out of the controller's
// error handler into the view.
type errLog struct {
	text string
}

type model struct {
	cfg      *config.Config
	ctrl     *playback.Controller
	out      *player.Output
	bridge   *mpris.Bridge
	stateMgr *state.Manager
	notifier notify.Notifier
	errs     *errLog

	selected int // queue panel selection
	prompt   promptKind
	input    textinput.Model

	lastNotifyPath string
	lastNotifyID   uint32

	width  int
	height int
}

func initialModel() (model, error) {
	cfg, err := config.Load()
	if err != nil {
		return model{}, err
	}

	stateMgr, err := state.Open()
	if err != nil {
		return model{}, err
	}

	bridge, err := mpris.New()
	if err != nil {
		stateMgr.Close()
		return model{}, err
	}

	notifier, err := notify.New()
	if err != nil {
		notifier = nil
	}

	out := player.NewOutput()
	ctrl := playback.New(out, nil, bridge)

	errs := &errLog{}
	ctrl.OnError(func(err error) {
		errs.text = errmsg.Format(errmsg.OpPlaybackStart, err)
	})

	m := model{
		cfg:      cfg,
		ctrl:     ctrl,
		out:      out,
		bridge:   bridge,
		stateMgr: stateMgr,
		notifier: notifier,
		errs:     errs,
	}
	m.restoreState()

	ti := textinput.New()
	ti.CharLimit = 1024
	ti.Width = 60
	m.input = ti

	return m, nil
}

// restoreState brings back the saved volume and queue. Tracks whose
// files were deleted between runs are skipped. The restored queue does
// not start playing: the saved cursor's track is primed paused so
// position and metadata show without sound.
func (m *model) restoreState() {
	if volume, err := m.stateMgr.GetVolume(); err == nil {
		m.out.SetVolume(volume)
	}

	saved, err := m.stateMgr.GetQueue()
	if err != nil {
		return
	}

	tracks, cursor := playback.PruneMissing(saved.Tracks, saved.CurrentIndex)
	if len(tracks) == 0 {
		return
	}

	m.ctrl.RestoreQueue(tracks)
	if cursor >= 0 {
		m.out.Pause()
		m.ctrl.JumpTo(cursor)
		m.selected = cursor
	}
}

func (m *model) saveState() {
	if err := m.stateMgr.SaveVolume(m.ctrl.Volume()); err != nil {
		m.errs.text = errmsg.Format(errmsg.OpStateSave, err)
	}
	if err := m.stateMgr.SaveQueue(state.QueueState{
		CurrentIndex: m.ctrl.Cursor(),
		Tracks:       m.ctrl.Tracks(),
	}); err != nil {
		m.errs.text = errmsg.Format(errmsg.OpStateSave, err)
	}
}

func (m model) Init() tea.Cmd {
	return m.tickCmd()
}

func (m model) tickCmd() tea.Cmd {
	return tea.Tick(m.cfg.TickInterval(), func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		m.ctrl.Tick()
		m.maybeNotify()
		select {
		case line := <-stderr.Messages:
			m.errs.text = line
		default:
		}
		return m, m.tickCmd()

	case tea.KeyMsg:
		if m.prompt != promptNone {
			return m.updatePrompt(msg)
		}
		return m.updateKeys(msg)
	}

	return m, nil
}

func (m model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.saveState()
		_ = m.bridge.Close()
		m.out.Close()
		m.stateMgr.Close()
		return m, tea.Quit

	case " ":
		m.ctrl.Toggle()

	case "n":
		m.ctrl.Next()
		m.selected = clampSelection(m.ctrl.Cursor(), m.ctrl.Len())

	case "p":
		m.ctrl.Previous()
		m.selected = clampSelection(m.ctrl.Cursor(), m.ctrl.Len())

	case "j", "down":
		m.selected = clampSelection(m.selected+1, m.ctrl.Len())

	case "k", "up":
		m.selected = clampSelection(m.selected-1, m.ctrl.Len())

	case "enter":
		m.ctrl.JumpTo(m.selected)

	case "c":
		m.ctrl.Clear()
		m.selected = 0

	case "+", "=":
		m.ctrl.SetVolume(m.ctrl.Volume() + 0.05)

	case "-":
		m.ctrl.SetVolume(m.ctrl.Volume() - 0.05)

	case "right":
		m.ctrl.SeekBy(5 * time.Second)

	case "left":
		m.ctrl.SeekBy(-5 * time.Second)

	case "a":
		return m.openPrompt(promptAddTrack, "Path to audio file...")

	case "o":
		return m.openPrompt(promptLoadPlaylist, "Path to playlist file...")

	case "e":
		return m.openPrompt(promptExportPlaylist, "Export playlist to...")
	}

	return m, nil
}

func (m model) openPrompt(kind promptKind, placeholder string) (tea.Model, tea.Cmd) {
	m.prompt = kind
	m.input.Placeholder = placeholder
	m.input.SetValue("")
	m.errs.text = ""
	return m, m.input.Focus()
}

func (m model) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.prompt = promptNone
		m.input.Blur()
		return m, nil

	case "enter":
		value := strings.TrimSpace(m.input.Value())
		kind := m.prompt
		m.prompt = promptNone
		m.input.Blur()
		if value != "" {
			m.runPromptAction(kind, value)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *model) runPromptAction(kind promptKind, value string) {
	switch kind {
	case promptAddTrack:
		track, err := playback.LoadTrack(value)
		if err != nil {
			m.errs.text = errmsg.FormatWith(errmsg.OpTrackAdd, value, err)
			return
		}
		m.ctrl.AddTrack(track)

	case promptLoadPlaylist:
		if err := m.ctrl.LoadPlaylistFile(value); err != nil {
			m.errs.text = errmsg.FormatWith(errmsg.OpPlaylistLoad, value, err)
			return
		}
		m.selected = 0

	case promptExportPlaylist:
		if err := m.ctrl.ExportPlaylistFile(value); err != nil {
			m.errs.text = errmsg.FormatWith(errmsg.OpPlaylistExport, value, err)
		}
	}
}

// maybeNotify sends a desktop notification when the current track
// changed since the last notification.
func (m *model) maybeNotify() {
	track := m.ctrl.CurrentTrack()
	path := ""
	if track != nil {
		path = track.Path
	}
	if path == m.lastNotifyPath {
		return
	}
	m.lastNotifyPath = path

	if track == nil || m.notifier == nil || !m.cfg.NotificationsEnabled() {
		return
	}

	timeout := m.cfg.Notifications.Timeout
	if timeout == 0 {
		timeout = defaultNotifyTimeoutMS
	}

	n := notify.NowPlaying(track.DisplayTitle(), track.Artist, track.Album, timeout, m.lastNotifyID)
	if m.cfg.ShowAlbumArt() {
		n.Icon = notify.FindAlbumArtPath(track.Path)
	}

	if id, err := m.notifier.Notify(n); err == nil && id != 0 {
		m.lastNotifyID = id
	}
}

func clampSelection(index, length int) int {
	if length == 0 {
		return 0
	}
	if index < 0 {
		return 0
	}
	if index >= length {
		return length - 1
	}
	return index
}

func (m model) View() string {
	var b strings.Builder

	b.WriteString(m.queueView())

	if m.prompt != promptNone {
		b.WriteString("\n" + m.input.View())
	} else if m.errs.text != "" {
		b.WriteString("\n" + errorStyle.Render(m.errs.text))
	}

	if m.ctrl.Status() != playback.StatusIdle {
		b.WriteString("\n" + m.playerBar())
	}

	return b.String()
}

// queueView renders the track list with the playback cursor and the
// selection marker, plus the lyrics pane when the current track has
// lyrics.
func (m model) queueView() string {
	tracks := m.ctrl.Tracks()
	if len(tracks) == 0 {
		return dimStyle.Render("Queue empty. Press 'a' to add a track, 'o' to load a playlist.")
	}

	cursor := m.ctrl.Cursor()
	var lines []string
	for i, t := range tracks {
		marker := "  "
		if i == cursor {
			marker = cursorStyle.Render("▶ ")
		}
		line := marker + t.DisplayTitle()
		if t.Duration > 0 {
			line += dimStyle.Render("  " + formatDuration(t.Duration))
		}
		if i == m.selected {
			line = selectedStyle.Render(line)
		}
		lines = append(lines, line)
	}
	list := strings.Join(lines, "\n")

	current := m.ctrl.CurrentTrack()
	if current == nil || current.Lyrics == "" || m.width < 60 {
		return list
	}

	lyricsWidth := m.width / 3
	lyrics := lyricsStyle.Width(lyricsWidth).Render(current.Lyrics)
	return lipgloss.JoinHorizontal(lipgloss.Top, list, "  ", lyrics)
}

func (m model) playerBar() string {
	track := m.ctrl.CurrentTrack()
	if track == nil {
		return ""
	}

	status := "▶"
	if m.ctrl.Status() == playback.StatusPaused {
		status = "⏸"
	}

	right := fmt.Sprintf("%s / %s  vol %d%% ",
		formatDuration(m.ctrl.Position()),
		formatDuration(track.Duration),
		int(m.ctrl.Volume()*100+0.5),
	)
	rightLen := lipgloss.Width(right)

	innerWidth := m.width - 2
	if innerWidth < 0 {
		innerWidth = 0
	}

	left := " " + status + "  " + track.DisplayTitle()
	if track.Artist != "" {
		left += dimStyle.Render("  " + track.Artist)
		if track.Album != "" {
			left += dimStyle.Render(" - " + track.Album)
		}
	}
	leftLen := lipgloss.Width(left)

	padding := innerWidth - leftLen - rightLen
	if padding < 0 {
		padding = 0
	}

	content := left + strings.Repeat(" ", padding) + right
	return playerBarStyle.Width(innerWidth).Render(content)
}

func formatDuration(d time.Duration) string {
	m := int(d.Minutes())
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%d:%02d", m, s)
}

func main() {
	// Capture before any audio library writes to fd 2.
	_ = stderr.Start()
	defer stderr.Stop()

	m, err := initialModel()
	if err != nil {
		stderr.WriteOriginal(fmt.Sprintf("Error initializing: %v\n", err))
		os.Exit(1)
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		stderr.WriteOriginal(fmt.Sprintf("Error running program: %v\n", err))
		os.Exit(1)
	}
}
