package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/PlatDrake2875/diarization/client"
	"github.com/PlatDrake2875/diarization/playback"
	"github.com/PlatDrake2875/diarization/stage"
	"github.com/PlatDrake2875/diarization/transcript"
	"github.com/PlatDrake2875/diarization/types"
)

// stepSeconds is the discrete seek distance for the arrow keys.
const stepSeconds = 5

// inputMode says what the keyboard currently edits.
type inputMode int

const (
	modeNormal inputMode = iota
	modeSource
	modeSpeaker
	modeText
)

// Model represents the client application state. All mutation happens in
// Update; the controller, store and player are shared across copies of
// the value on purpose.
type Model struct {
	pipeline *client.Client
	ctrl     *stage.Controller
	store    *transcript.Store
	player   *playback.Player
	sync     *playback.Synchronizer

	// segments mirrors the store's collection for rendering.
	segments []types.Segment
	selected int

	source string
	mode   inputMode
	input  string

	status    string
	width     int
	lastTick  time.Time
	tickArmed bool
}

// NewModel creates the client model against a pipeline service URL.
func NewModel(pipelineURL string) Model {
	store := transcript.NewStore()
	player := playback.NewPlayer()
	return Model{
		pipeline: client.New(pipelineURL),
		ctrl:     stage.New(store),
		store:    store,
		player:   player,
		sync:     playback.NewSynchronizer(player),
		width:    100,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// rebindPlayback tears down the position subscription for the old media
// source and binds a fresh player. Called whenever the source changes.
func (m Model) rebindPlayback() Model {
	m.sync.Close()
	m.player = playback.NewPlayer()
	m.sync = playback.NewSynchronizer(m.player)
	return m
}

// armTick schedules the next tick unless one is already pending.
func (m Model) armTick() (Model, tea.Cmd) {
	if m.tickArmed {
		return m, nil
	}
	m.tickArmed = true
	m.lastTick = time.Now()
	return m, tickCmd()
}

func (m Model) selectedSegment() (types.Segment, bool) {
	if m.selected < 0 || m.selected >= len(m.segments) {
		return types.Segment{}, false
	}
	return m.segments[m.selected], true
}

func (m Model) sourceTitle() string {
	if m.ctrl.Media != nil && m.ctrl.Media.Title != "" {
		return m.ctrl.Media.Title
	}
	return m.source
}
