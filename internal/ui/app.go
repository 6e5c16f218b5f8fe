package ui

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"hubchat/internal/blob"
	"hubchat/internal/card"
	"hubchat/internal/commands"
	"hubchat/internal/config"
	"hubchat/internal/export"
	"hubchat/internal/hub"
	"hubchat/internal/session"
	"hubchat/internal/store"
)

// ViewMode represents the current view state
type ViewMode int

const (
	ViewNormal ViewMode = iota
	ViewPicker
	ViewHelp
)

// detailWidth is the width of the model detail side panel.
const detailWidth = 40

// Model is the top-level Bubble Tea model.
type Model struct {
	width, height int
	ready         bool

	cfg        *config.Config
	state      *session.State
	dispatcher *session.Dispatcher
	hubClient  *hub.Client
	sessions   *store.Store // nil when the side-channel is unavailable
	blobs      *blob.Store

	task      session.Task
	selected  map[session.Task]string // active model per task
	imagePath string                  // pre-selected image, consumed by submit
	startedAt time.Time

	transcript *TranscriptView
	input      textinput.Model
	spin       spinner.Model
	picker     *PickerState
	detail     DetailState
	showDetail bool
	mode       ViewMode

	pending     bool // a dispatch is in flight, submit is disabled
	updates     <-chan session.Update
	streamingID int
	status      string
	statusErr   bool
}

// Messages folded back into the event loop by commands.

type verifyResultMsg struct {
	ok  bool
	err error
}

type listingsMsg struct {
	listings []hub.Listing
	err      error
}

type detailMsg struct {
	modelID string
	detail  hub.Detail
	err     error
}

type cardMsg struct {
	modelID string
	card    card.Card
}

type dispatchMsg struct {
	update session.Update
	ok     bool // false when the dispatch channel closed
}

// New assembles the app. The persisted session, if any, is restored
// before the program starts.
func New(cfg *config.Config, state *session.State, dispatcher *session.Dispatcher,
	hubClient *hub.Client, sessions *store.Store, blobs *blob.Store) Model {

	input := textinput.New()
	input.Placeholder = "Type a message, or /help"
	input.Focus()
	input.CharLimit = 0

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = lipgloss.NewStyle().Foreground(Orange)

	m := Model{
		cfg:        cfg,
		state:      state,
		dispatcher: dispatcher,
		hubClient:  hubClient,
		sessions:   sessions,
		blobs:      blobs,
		task:       session.TaskTextGeneration,
		selected:   make(map[session.Task]string),
		startedAt:  time.Now(),
		input:      input,
		spin:       spin,
		picker:     NewPickerState(),
	}

	if sessions != nil {
		if sess, err := sessions.Load(); err == nil {
			state.Restore(sess.Token, sess.Verified)
			hubClient.SetToken(sess.Token)
			dispatcher.SetToken(sess.Token)
		} else if !errors.Is(err, store.ErrNoSession) {
			log.Printf("restore session: %v", err)
		}
	}

	return m
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink, m.spin.Tick}
	// A restored verified token refreshes the catalog right away.
	if m.state.Credential.Verified {
		cmds = append(cmds, m.fetchListingsCmd())
	}
	return tea.Batch(cmds...)
}

// Commands

func (m Model) verifyCmd() tea.Cmd {
	c := m.hubClient
	return func() tea.Msg {
		_, err := c.Whoami(context.Background())
		return verifyResultMsg{ok: err == nil, err: err}
	}
}

func (m Model) fetchListingsCmd() tea.Cmd {
	c := m.hubClient
	return func() tea.Msg {
		listings, err := c.ListModels(context.Background())
		return listingsMsg{listings: listings, err: err}
	}
}

func (m Model) fetchDetailCmd(modelID string) tea.Cmd {
	c := m.hubClient
	return func() tea.Msg {
		detail, err := c.ModelDetail(context.Background(), modelID)
		return detailMsg{modelID: modelID, detail: detail, err: err}
	}
}

func (m Model) fetchCardCmd(modelID string) tea.Cmd {
	c := m.hubClient
	return func() tea.Msg {
		md, err := c.ModelCard(context.Background(), modelID)
		if err != nil {
			// Best effort: no card section, no user-visible error.
			log.Printf("model card %s: %v", modelID, err)
			return nil
		}
		return cardMsg{modelID: modelID, card: card.Extract(md)}
	}
}

// listenCmd waits for the next update from an in-flight dispatch.
func listenCmd(ch <-chan session.Update) tea.Cmd {
	return func() tea.Msg {
		u, ok := <-ch
		return dispatchMsg{update: u, ok: ok}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case verifyResultMsg:
		return m.handleVerifyResult(msg)

	case listingsMsg:
		if msg.err != nil {
			m.setError("Couldn't load the model catalog.")
			log.Printf("list models: %v", msg.err)
			return m, nil
		}
		m.state.Catalog.Replace(msg.listings)
		m.setStatus("Model catalog loaded.")
		return m, nil

	case detailMsg:
		if msg.modelID != m.activeModel() {
			return m, nil // stale fetch for a superseded selection
		}
		if msg.err != nil {
			m.detail.Loading = false
			log.Printf("model detail: %v", msg.err)
			return m, nil
		}
		m.detail.SetDetail(msg.detail)
		return m, nil

	case cardMsg:
		if msg.modelID != m.activeModel() {
			return m, nil
		}
		m.detail.SetCard(msg.card)
		return m, nil

	case dispatchMsg:
		return m.handleDispatch(msg)
	}

	return m, nil
}

func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.picker.SetMaxHeight(msg.Height)

	transcriptWidth := msg.Width
	if m.showDetail {
		transcriptWidth -= detailWidth
	}
	transcriptHeight := msg.Height - 4 // header, status, input

	if m.transcript == nil {
		m.transcript = NewTranscriptView(transcriptWidth, transcriptHeight)
	} else {
		m.transcript.SetSize(transcriptWidth, transcriptHeight)
	}
	m.input.Width = msg.Width - 4
	m.refresh()
	m.ready = true
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case ViewHelp:
		switch msg.String() {
		case "esc", "f1", "?", "q":
			m.mode = ViewNormal
		}
		return m, nil

	case ViewPicker:
		switch msg.String() {
		case "esc":
			m.mode = ViewNormal
		case "up", "k":
			m.picker.Up()
		case "down", "j":
			m.picker.Down()
		case "enter":
			if ref := m.picker.Selected(); ref != nil {
				m.mode = ViewNormal
				return m.selectModel(ref.ID)
			}
			m.mode = ViewNormal
		}
		return m, nil
	}

	switch msg.String() {
	case "ctrl+c", "ctrl+q":
		return m, tea.Quit

	case "f1":
		m.mode = ViewHelp
		return m, nil

	case "ctrl+t":
		return m.cycleTask()

	case "ctrl+p":
		return m.openPicker(), nil

	case "ctrl+d":
		return m.toggleDetail()

	case "enter":
		return m.handleSubmit()
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	if m.transcript != nil {
		m.transcript.Viewport, cmd = m.transcript.Viewport.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func (m Model) handleSubmit() (tea.Model, tea.Cmd) {
	text := m.input.Value()
	if text == "" {
		// A selected image classifies on a bare Enter; no prompt text
		// is needed for that task.
		if m.task == session.TaskImageClassification && m.imagePath != "" && !m.pending {
			return m.dispatch("")
		}
		return m, nil
	}

	if cmd := commands.Parse(text); cmd != nil {
		m.input.SetValue("")
		return m.handleCommand(cmd)
	}

	if m.pending {
		m.setStatus("Still working on the previous request.")
		return m, nil
	}

	m.input.SetValue("")
	return m.dispatch(text)
}

// dispatch starts a submission and begins draining its updates.
func (m Model) dispatch(text string) (tea.Model, tea.Cmd) {
	ctx := context.Background()
	tr := m.state.Transcript
	cred := m.state.Credential
	model := m.activeModel()

	var ch <-chan session.Update
	if m.task == session.TaskImageClassification {
		path := m.imagePath
		m.imagePath = ""
		ch = m.dispatcher.SubmitImage(ctx, tr, cred, model, path)
	} else {
		ch = m.dispatcher.Submit(ctx, tr, cred, m.task, model, text)
	}

	m.pending = true
	m.updates = ch
	m.streamingID = tr.Len() // the placeholder is the latest entry
	m.setStatus("")
	m.refresh()
	return m, listenCmd(ch)
}

func (m Model) handleDispatch(msg dispatchMsg) (tea.Model, tea.Cmd) {
	if !msg.ok {
		// Channel closed: the dispatch is over.
		m.pending = false
		m.updates = nil
		m.streamingID = 0
		m.refresh()
		return m, nil
	}
	if !msg.update.Done {
		superseded := m.state.Transcript.Apply(msg.update.Entry)
		m.blobs.Release(superseded)
		m.refresh()
	}
	return m, listenCmd(m.updates)
}

func (m Model) handleCommand(cmd commands.Command) (tea.Model, tea.Cmd) {
	switch c := cmd.(type) {
	case commands.Help:
		m.mode = ViewHelp

	case commands.SetTask:
		task := session.Task(c.Tag)
		if !task.Supported() {
			m.setError(fmt.Sprintf("Unknown task %q.", c.Tag))
			return m, nil
		}
		m.task = task
		m.setStatus(fmt.Sprintf("Task: %s", task))
		return m.afterModelChange()

	case commands.PickModel:
		if c.ID == "" {
			return m.openPicker(), nil
		}
		return m.selectModel(c.ID)

	case commands.SetKey:
		m.state.SetToken(c.Token)
		m.hubClient.SetToken(c.Token)
		m.dispatcher.SetToken(c.Token)
		m.setStatus("Token set. /verify to check it.")

	case commands.Verify:
		if m.state.Credential.Token == "" {
			m.setError("No token set. Use /key <token> first.")
			return m, nil
		}
		m.state.BeginVerify()
		m.setStatus("Verifying…")
		return m, m.verifyCmd()

	case commands.Refresh:
		if !m.state.Credential.Verified {
			m.setError("Verify a token before refreshing the catalog.")
			return m, nil
		}
		m.setStatus("Refreshing catalog…")
		return m, m.fetchListingsCmd()

	case commands.AttachImage:
		m.imagePath = c.Path
		m.task = session.TaskImageClassification
		m.setStatus(fmt.Sprintf("Image selected: %s. Press Enter to classify.", c.Path))

	case commands.ShowCard:
		return m.toggleDetail()

	case commands.Export:
		return m.exportTranscript()

	case commands.Quit:
		return m, tea.Quit

	case commands.ParseError:
		m.setError(c.Message)
	}
	return m, nil
}

func (m Model) handleVerifyResult(msg verifyResultMsg) (tea.Model, tea.Cmd) {
	m.state.FinishVerify(msg.ok)
	if !msg.ok {
		// A failed check also clears the persisted credential.
		if m.sessions != nil {
			if err := m.sessions.Clear(); err != nil {
				log.Printf("clear session: %v", err)
			}
		}
		m.setError("Token rejected.")
		log.Printf("verify: %v", msg.err)
		return m, nil
	}
	if m.sessions != nil {
		if err := m.sessions.Save(m.state.Credential.Token, true); err != nil {
			log.Printf("save session: %v", err)
		}
	}
	m.setStatus("Token verified.")
	return m, m.fetchListingsCmd()
}

func (m Model) cycleTask() (tea.Model, tea.Cmd) {
	for i, t := range session.Tasks {
		if t == m.task {
			m.task = session.Tasks[(i+1)%len(session.Tasks)]
			break
		}
	}
	m.setStatus(fmt.Sprintf("Task: %s", m.task))
	return m.afterModelChange()
}

func (m Model) openPicker() Model {
	m.picker.Load(m.state.Catalog.Models(m.task))
	m.mode = ViewPicker
	return m
}

func (m *Model) activeModel() string {
	return m.selected[m.task]
}

func (m Model) selectModel(id string) (tea.Model, tea.Cmd) {
	m.selected[m.task] = id
	m.setStatus(fmt.Sprintf("Model: %s", id))
	return m.afterModelChange()
}

// afterModelChange refreshes the detail panel for the now-active model.
// The previous model's detail is discarded wholesale.
func (m Model) afterModelChange() (tea.Model, tea.Cmd) {
	id := m.activeModel()
	if id == "" {
		m.detail = DetailState{}
		return m, nil
	}
	m.detail.Reset(id)
	return m, tea.Batch(m.fetchDetailCmd(id), m.fetchCardCmd(id))
}

func (m Model) toggleDetail() (tea.Model, tea.Cmd) {
	m.showDetail = !m.showDetail
	if m.transcript != nil {
		w := m.width
		if m.showDetail {
			w -= detailWidth
		}
		m.transcript.SetSize(w, m.height-4)
		m.refresh()
	}
	if m.showDetail {
		return m.afterModelChange()
	}
	return m, nil
}

func (m Model) exportTranscript() (tea.Model, tea.Cmd) {
	entries := m.state.Transcript.Entries()
	if len(entries) == 0 {
		m.setStatus("Nothing to export yet.")
		return m, nil
	}
	path, err := export.WriteTranscript(&export.TranscriptExport{
		Title:     fmt.Sprintf("Chat %s", m.startedAt.Format("2006-01-02 15:04")),
		Task:      string(m.task),
		Model:     m.activeModel(),
		CreatedAt: m.startedAt,
		Entries:   entries,
	}, m.cfg.Export.Dir)
	if err != nil {
		m.setError("Export failed.")
		log.Printf("export: %v", err)
		return m, nil
	}
	m.setStatus(fmt.Sprintf("Exported to %s", path))
	return m, nil
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.statusErr = false
}

func (m *Model) setError(s string) {
	m.status = s
	m.statusErr = true
}

func (m *Model) refresh() {
	if m.transcript != nil {
		m.transcript.Refresh(m.state.Transcript.Entries(), m.streamingID)
	}
}

func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	switch m.mode {
	case ViewHelp:
		return m.renderHelp()
	case ViewPicker:
		return m.picker.Render(m.task, m.width, m.height)
	}

	main := m.transcript.Viewport.View()
	if m.showDetail {
		panel := lipgloss.NewStyle().
			Width(detailWidth-2).
			Height(m.height-4).
			Border(lipgloss.RoundedBorder(), false, false, false, true).
			BorderForeground(Dim).
			Padding(0, 1).
			Render(m.detail.Render(detailWidth - 4))
		main = lipgloss.JoinHorizontal(lipgloss.Top, main, panel)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		main,
		m.renderStatus(),
		m.input.View(),
	)
}

func (m Model) renderHeader() string {
	cred := m.state.Credential
	var tokenPart string
	switch {
	case cred.Checking:
		tokenPart = StatusWarn.Render("token: checking…")
	case cred.Verified:
		tokenPart = StatusOK.Render("token: verified")
	case cred.Token != "":
		tokenPart = StatusCrit.Render("token: unverified")
	default:
		tokenPart = DimStyle.Render("token: none")
	}

	model := m.activeModel()
	if model == "" {
		model = "no model"
	}

	return lipgloss.JoinHorizontal(lipgloss.Center,
		TitleStyle.Render(" hubchat "),
		DimStyle.Render(" | "),
		SystemStyle.Render(string(m.task)),
		DimStyle.Render(" | "),
		AssistantStyle.Render(model),
		DimStyle.Render(" | "),
		tokenPart,
	)
}

func (m Model) renderStatus() string {
	if m.pending {
		return m.spin.View() + DimStyle.Render(" working…")
	}
	if m.status != "" {
		if m.statusErr {
			return ErrorStyle.Render(m.status)
		}
		return DimStyle.Render(m.status)
	}
	if m.task == session.TaskImageClassification && m.imagePath != "" {
		return DimStyle.Render("Image ready: " + m.imagePath)
	}
	return ""
}
