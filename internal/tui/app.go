package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/naveenspark/gacha/internal/draw"
	"github.com/naveenspark/gacha/internal/export"
	"github.com/naveenspark/gacha/internal/present"
	"github.com/naveenspark/gacha/internal/screen"
	"github.com/naveenspark/gacha/internal/session"
	"github.com/naveenspark/gacha/pkg/domain"
)

// DefaultErrorTTL is how long a transient error stays on screen.
const DefaultErrorTTL = 3 * time.Second

// Service is the remote the TUI talks to. *client.Client satisfies it.
type Service interface {
	InitUser(ctx context.Context, userID string) (*domain.InitResult, error)
	draw.Remote
}

// Options tunes the App.
type Options struct {
	UserID      string // prefills the login input
	RevealDelay time.Duration
	ErrorTTL    time.Duration
	Exporter    *export.Exporter // nil disables sharing
	Logger      zerolog.Logger
}

// bootMsg ends the loading screen.
type bootMsg struct{}

// drawResponseMsg carries the result of a draw request back to the UI loop.
type drawResponseMsg struct {
	cycle *draw.Cycle
	res   *domain.DrawResult
	err   error
}

// revealMsg fires once the reveal delay has elapsed.
type revealMsg struct {
	cycle *draw.Cycle
	res   *domain.DrawResult
}

// errorDismissMsg clears the error with the given sequence number, if still shown.
type errorDismissMsg struct {
	seq int
}

// App is the root Bubbletea model.
type App struct {
	svc      Service
	screens  *screen.Machine
	store    *session.Store
	orch     *draw.Orchestrator
	board    *board
	exporter *export.Exporter
	errorTTL time.Duration
	log      zerolog.Logger

	login    loginModel
	results  resultsModel
	helpOpen bool
	width    int
	height   int
	frame    int // shimmer animation frame
}

// NewApp wires the session core to a new TUI.
func NewApp(svc Service, opts Options) App {
	if opts.ErrorTTL == 0 {
		opts.ErrorTTL = DefaultErrorTTL
	}
	b := newBoard()
	sink := present.Multi(b, logSink(opts.Logger))
	store := session.NewStore()
	return App{
		svc:     svc,
		screens: screen.New(sink),
		store:   store,
		orch: draw.New(store, svc, sink, draw.Options{
			RevealDelay: opts.RevealDelay,
			Logger:      opts.Logger,
		}),
		board:    b,
		exporter: opts.Exporter,
		errorTTL: opts.ErrorTTL,
		log:      opts.Logger,
		login:    newLoginModel(svc, opts.UserID),
	}
}

func logSink(log zerolog.Logger) present.Sink {
	return present.SinkFunc(func(e present.Event) {
		log.Debug().Str("event", fmt.Sprintf("%T", e)).Interface("data", e).Msg("ui event")
	})
}

func (a App) Init() tea.Cmd {
	return tea.Batch(shimmerTickCmd(), func() tea.Msg { return bootMsg{} })
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	seq := a.board.errSeq
	model, cmd := a.update(msg)
	next := model.(App)
	return next, tea.Batch(cmd, next.dismissAfter(seq))
}

// dismissAfter schedules removal of an error shown since seq.
func (a App) dismissAfter(seq int) tea.Cmd {
	if a.board.errSeq == seq || a.board.errMsg == "" {
		return nil
	}
	cur := a.board.errSeq
	return tea.Tick(a.errorTTL, func(time.Time) tea.Msg {
		return errorDismissMsg{seq: cur}
	})
}

func (a App) update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case shimmerTickMsg:
		a.frame++
		return a, shimmerTickCmd()

	case bootMsg:
		if err := a.screens.SwitchTo(screen.Login); err != nil {
			a.log.Warn().Err(err).Msg("boot")
		}
		return a, nil

	case loginResultMsg:
		return a.finishLogin(msg)

	case drawResponseMsg:
		if err := a.orch.Resolve(msg.cycle, msg.res, msg.err); err != nil {
			return a, nil
		}
		cycle, res := msg.cycle, msg.res
		return a, tea.Tick(a.orch.RevealDelay(), func(time.Time) tea.Msg {
			return revealMsg{cycle: cycle, res: res}
		})

	case revealMsg:
		if _, err := a.orch.Reveal(msg.cycle, msg.res); err != nil {
			return a, nil
		}
		if a.board.revealed {
			userID, _ := a.store.CurrentUserID()
			snap := present.BuildSnapshot(userID, a.board.tickets, a.board.batch, a.board.summary)
			a.results = openResults(snap, msg.cycle.ID, a.frame)
		}
		return a, nil

	case errorDismissMsg:
		if msg.seq == a.board.errSeq {
			a.board.Emit(present.ErrorCleared{})
		}
		return a, nil

	case exportDoneMsg:
		a.results = a.results.done(msg)
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)
	}
	return a, nil
}

func (a App) finishLogin(msg loginResultMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		a.log.Warn().Err(msg.err).Msg("login failed")
		a.login = a.login.failed(msg.err)
		return a, nil
	}
	res := msg.res
	if err := a.store.Initialize(res.UserID, res.Tickets, res.CharacterPool); err != nil {
		a.log.Warn().Err(err).Msg("login rejected")
		a.login = a.login.failed(err)
		return a, nil
	}
	a.login.connecting = false
	a.board.Emit(present.TicketsUpdated{Tickets: res.Tickets})
	if err := a.screens.SwitchTo(screen.Lobby); err != nil {
		a.log.Warn().Err(err).Msg("enter lobby")
	}
	a.log.Info().Str("user_id", res.UserID).Str("session_id", a.store.SessionID().String()).Msg("session started")
	return a, nil
}

func (a App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return a, tea.Quit
	}

	if a.helpOpen {
		switch msg.String() {
		case "h", "esc":
			a.helpOpen = false
		case "q":
			return a, tea.Quit
		}
		return a, nil
	}

	switch a.screens.Current() {
	case screen.Loading:
		if msg.String() == "q" {
			return a, tea.Quit
		}

	case screen.Login:
		var cmd tea.Cmd
		a.login, cmd = a.login.Update(msg)
		return a, cmd

	case screen.Lobby:
		if a.results.open {
			return a.handleResultsKey(msg)
		}
		switch msg.String() {
		case "1":
			return a.startDraw(domain.DrawSingle)
		case "0", "t":
			return a.startDraw(domain.DrawTen)
		case "x":
			return a.logout()
		case "h":
			a.helpOpen = true
		case "q":
			return a, tea.Quit
		}
	}
	return a, nil
}

// logout drops the session and walks the screens back to LOGIN through a
// full reset. Ignored while a draw is in flight.
func (a App) logout() (tea.Model, tea.Cmd) {
	if a.orch.Animating() {
		return a, nil
	}
	userID, _ := a.store.CurrentUserID()
	sessionID := a.store.SessionID()

	a.store.Clear()
	a.screens.Reset()
	a.board.reset()
	a.results = resultsModel{}
	a.login = newLoginModel(a.svc, userID)
	if err := a.screens.SwitchTo(screen.Login); err != nil {
		a.log.Warn().Err(err).Msg("logout")
	}
	a.log.Info().Str("user_id", userID).Str("session_id", sessionID.String()).Msg("session ended")
	return a, nil
}

func (a App) handleResultsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		a.results = resultsModel{}
		a.board.clearResults()
	case "s":
		if a.exporter == nil || a.results.exporting {
			return a, nil
		}
		a.results.exporting = true
		a.results.notice = ""
		return a, a.results.export(a.exporter)
	case "q":
		return a, tea.Quit
	}
	return a, nil
}

// startDraw runs the local guards and sends the request off the UI loop.
// While a cycle is in flight the orchestrator drops the request.
func (a App) startDraw(t domain.DrawType) (tea.Model, tea.Cmd) {
	c, err := a.orch.Begin(t, t.Cost())
	if err != nil {
		return a, nil
	}
	orch := a.orch
	return a, func() tea.Msg {
		res, err := orch.Request(context.Background(), c)
		return drawResponseMsg{cycle: c, res: res, err: err}
	}
}

func (a App) View() string {
	header := centerLine(renderLogo(a.frame), a.width) + "\n"

	var body, help string
	switch a.screens.Current() {
	case screen.Loading:
		body = "\n " + dimStyle.Render("loading...")
		help = " " + helpEntry("q", "quit")
	case screen.Login:
		body = a.login.View(a.width, a.frame)
		if a.login.notice != "" {
			help = " " + helpEntry("enter", "dismiss")
		} else {
			help = " " + helpEntry("enter", "start") + "  " + helpEntry("ctrl+c", "quit")
		}
	case screen.Lobby:
		switch {
		case a.results.open:
			body = a.results.View(a.width, a.frame)
			help = " " + helpEntry("enter", "close") + "  " + helpEntry("s", "share") + "  " + helpEntry("q", "quit")
		case a.board.summoning():
			body = summoningView(a.board.drawType, a.width, a.frame)
			help = " " + dimStyle.Render("summoning...")
		default:
			userID, _ := a.store.CurrentUserID()
			body = lobbyView(userID, a.board.tickets, a.store.Pool(), a.board.errMsg, a.width, a.height-3)
			help = " " + helpEntry("1", "summon x1") + "  " + helpEntry("0", "summon x10") + "  " + helpEntry("x", "log out") + "  " + helpEntry("h", "help") + "  " + helpEntry("q", "quit")
		}
	}

	if a.helpOpen {
		body = helpView()
		help = " " + helpEntry("esc", "close")
	}

	// Chrome budget: header(1) + gap(1) + help(1)
	body = strings.TrimRight(truncateToHeight(body, a.height-3), "\n")
	return fmt.Sprintf("%s\n%s\n%s", header, body, help)
}
