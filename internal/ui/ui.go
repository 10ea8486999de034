package ui

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/syncup-music/syncup/internal/models"
	"github.com/syncup-music/syncup/internal/services"
	"github.com/syncup-music/syncup/internal/session"
	"github.com/syncup-music/syncup/internal/tasks"
)

// searchDebounce is how long typing must pause before a search fires.
const searchDebounce = 300 * time.Millisecond

const radioQueueSize = 20

// ViewState represents the current view in the TUI.
type ViewState int

const (
	LoginView ViewState = iota
	HomeView
	SearchView
	FavoritesView
	RadioView
	SocialView
	AdminView
)

// viewRoute maps a view to the route the session guard evaluates.
func viewRoute(view ViewState) session.Route {
	switch view {
	case LoginView:
		return session.RouteLogin
	case HomeView:
		return session.RouteHome
	case SearchView:
		return session.RouteSearch
	case FavoritesView:
		return session.RouteFavorites
	case RadioView:
		return session.RouteRadio
	case SocialView:
		return session.RouteSocial
	case AdminView:
		return session.RouteAdminUsers
	default:
		return session.RouteUnknown
	}
}

// routeView maps a resolved route back to the view that renders it.
func routeView(route session.Route) ViewState {
	switch route {
	case session.RouteLogin:
		return LoginView
	case session.RouteSearch:
		return SearchView
	case session.RouteFavorites:
		return FavoritesView
	case session.RouteRadio:
		return RadioView
	case session.RouteSocial:
		return SocialView
	case session.RouteAdminUsers:
		return AdminView
	default:
		return HomeView
	}
}

// Model represents the TUI application state.
type Model struct {
	ctx     context.Context
	store   *session.Store
	auth    services.Authenticator
	catalog services.Catalog
	library services.Library
	social  services.Social
	admin   services.Admin
	engine  *tasks.LibraryEngine

	view   ViewState
	width  int
	height int

	username      textinput.Model
	password      textinput.Model
	loginFocus    int
	loginFeedback string

	songList  list.Model
	favorites map[string]bool

	searchInput textinput.Model
	searchSeq   int
	suggestions []string
	results     []models.Song

	radio      *tasks.RadioResult
	radioIndex int

	following []string
	suggested []string
	users     []models.Profile
	metrics   *tasks.MetricsReport

	err  error
	help help.Model
	keys keyMap
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, store *session.Store, auth services.Authenticator, catalog services.Catalog, library services.Library, social services.Social, admin services.Admin, engine *tasks.LibraryEngine) *Model {
	username := textinput.New()
	username.Placeholder = "username"
	username.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword

	searchInput := textinput.New()
	searchInput.Placeholder = "search songs"

	m := &Model{
		ctx:         ctx,
		store:       store,
		auth:        auth,
		catalog:     catalog,
		library:     library,
		social:      social,
		admin:       admin,
		engine:      engine,
		username:    username,
		password:    password,
		searchInput: searchInput,
		favorites:   map[string]bool{},
		help:        help.New(),
		keys:        newKeyMap(),
	}

	m.view = routeView(store.Resolve(session.RouteHome))
	return m
}

// Init loads the initial view's data.
func (m *Model) Init() tea.Cmd {
	if m.view == HomeView {
		return m.fetchCatalog()
	}
	return textinput.Blink
}

// navigate re-evaluates the session guard for the requested view and returns
// the command that loads the resolved view's data. Guard state is recomputed
// on every transition, so an expired token drops the user back to login.
func (m *Model) navigate(view ViewState) tea.Cmd {
	resolved := routeView(m.store.Resolve(viewRoute(view)))
	m.view = resolved
	m.err = nil

	switch resolved {
	case LoginView:
		m.username.Focus()
		m.password.Blur()
		m.loginFocus = 0
		return textinput.Blink
	case HomeView:
		return m.fetchCatalog()
	case SearchView:
		m.searchInput.Focus()
		return textinput.Blink
	case FavoritesView:
		return m.fetchFavorites()
	case SocialView:
		return m.fetchSocial()
	case AdminView:
		return tea.Batch(m.fetchUsers(), m.fetchMetrics())
	}
	return nil
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.songList.Width() == 0 {
			m.songList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case LoginView:
			return m.handleLoginKeys(msg)
		case HomeView, FavoritesView:
			return m.handleSongListKeys(msg)
		case SearchView:
			return m.handleSearchKeys(msg)
		case RadioView:
			return m.handleRadioKeys(msg)
		case SocialView, AdminView:
			return m.handleStaticKeys(msg)
		}

	case loginCompleteMsg:
		if msg.err != nil {
			m.loginFeedback = msg.err.Error()
			return m, nil
		}
		if err := m.store.Login(msg.token); err != nil {
			m.loginFeedback = err.Error()
			return m, nil
		}
		m.password.SetValue("")
		m.loginFeedback = ""
		return m, m.navigate(HomeView)

	case songsFetchedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.setSongList(msg.songs)
		return m, nil

	case favoritesFetchedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.favorites = map[string]bool{}
		for _, song := range msg.songs {
			m.favorites[song.ID] = true
		}
		if m.view == FavoritesView {
			m.setSongList(msg.songs)
		} else {
			m.refreshFavoriteMarks()
		}
		return m, nil

	case searchDebounceMsg:
		// A newer keystroke has superseded this timer.
		if msg.seq != m.searchSeq {
			return m, nil
		}
		query := strings.TrimSpace(m.searchInput.Value())
		if query == "" {
			m.suggestions = nil
			m.results = nil
			return m, nil
		}
		return m, m.runSearch(msg.seq, query)

	case searchResultsMsg:
		if msg.seq < m.searchSeq {
			return m, nil
		}
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.suggestions = msg.suggestions
		m.results = msg.songs
		return m, nil

	case radioBuiltMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.radio = msg.result
		m.radioIndex = 0
		m.view = routeView(m.store.Resolve(session.RouteRadio))
		return m, nil

	case socialFetchedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.following = msg.following
		m.suggested = msg.suggestions
		return m, nil

	case usersFetchedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.users = msg.users
		return m, nil

	case metricsFetchedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.metrics = msg.report
		return m, nil
	}

	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case LoginView:
		return m.renderLogin()
	case HomeView:
		return m.renderSongList("SyncUp Catalog")
	case SearchView:
		return m.renderSearch()
	case FavoritesView:
		return m.renderSongList("Favorites")
	case RadioView:
		return m.renderRadio()
	case SocialView:
		return m.renderSocial()
	case AdminView:
		return m.renderAdmin()
	default:
		return ""
	}
}

func (m *Model) handleLoginKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "tab", "shift+tab":
		m.loginFocus = (m.loginFocus + 1) % 2
		if m.loginFocus == 0 {
			m.username.Focus()
			m.password.Blur()
		} else {
			m.password.Focus()
			m.username.Blur()
		}
		return m, textinput.Blink
	case "enter":
		if m.loginFocus == 0 {
			m.loginFocus = 1
			m.password.Focus()
			m.username.Blur()
			return m, textinput.Blink
		}
		return m, m.submitLogin()
	}

	var cmd tea.Cmd
	if m.loginFocus == 0 {
		m.username, cmd = m.username.Update(msg)
	} else {
		m.password, cmd = m.password.Update(msg)
	}
	return m, cmd
}

func (m *Model) handleSongListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "/":
		return m, m.navigate(SearchView)
	case "h":
		return m, m.navigate(HomeView)
	case "v":
		return m, m.navigate(FavoritesView)
	case "s":
		return m, m.navigate(SocialView)
	case "a":
		return m, m.navigate(AdminView)
	case "f":
		if song, ok := m.selectedSong(); ok {
			return m, m.toggleFavorite(song.ID, !m.favorites[song.ID])
		}
	case "r":
		if song, ok := m.selectedSong(); ok {
			return m, m.buildRadio(song.ID)
		}
	}

	var cmd tea.Cmd
	m.songList, cmd = m.songList.Update(msg)
	return m, cmd
}

func (m *Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.searchInput.Blur()
		return m, m.navigate(HomeView)
	}

	before := m.searchInput.Value()
	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)

	if m.searchInput.Value() == before {
		return m, cmd
	}

	// Each keystroke restarts the debounce window; the sequence number lets
	// the timer and any in-flight response detect they are stale.
	m.searchSeq++
	seq := m.searchSeq
	debounce := tea.Tick(searchDebounce, func(time.Time) tea.Msg {
		return searchDebounceMsg{seq: seq}
	})
	return m, tea.Batch(cmd, debounce)
}

func (m *Model) handleRadioKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc", "h":
		m.radio = nil
		return m, m.navigate(HomeView)
	case "n", "right":
		if m.radio != nil && len(m.radio.Queue) > 0 {
			m.radioIndex = (m.radioIndex + 1) % len(m.radio.Queue)
		}
	case "p", "left":
		if m.radio != nil && len(m.radio.Queue) > 0 {
			m.radioIndex = (m.radioIndex - 1 + len(m.radio.Queue)) % len(m.radio.Queue)
		}
	}
	return m, nil
}

func (m *Model) handleStaticKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc", "h":
		return m, m.navigate(HomeView)
	}
	return m, nil
}

func (m *Model) selectedSong() (models.Song, bool) {
	selected := m.songList.SelectedItem()
	if selected == nil {
		return models.Song{}, false
	}
	item, ok := selected.(songItem)
	return item.song, ok
}

func (m *Model) setSongList(songs []models.Song) {
	m.songList = list.New(songItems(songs, m.favorites), list.NewDefaultDelegate(), 0, 0)
	m.songList.Title = "Songs"
	m.songList.SetSize(m.width-4, m.height-8)
}

func (m *Model) refreshFavoriteMarks() {
	items := m.songList.Items()
	for i, raw := range items {
		if item, ok := raw.(songItem); ok {
			item.favorite = m.favorites[item.song.ID]
			items[i] = item
		}
	}
	m.songList.SetItems(items)
}

func (m *Model) submitLogin() tea.Cmd {
	username := strings.TrimSpace(m.username.Value())
	password := m.password.Value()

	return func() tea.Msg {
		token, err := m.auth.Login(m.ctx, username, password)
		return loginCompleteMsg{token: token, err: err}
	}
}

func (m *Model) fetchCatalog() tea.Cmd {
	return func() tea.Msg {
		songs, err := m.catalog.Songs(m.ctx)
		return songsFetchedMsg{songs: songs, err: err}
	}
}

func (m *Model) fetchFavorites() tea.Cmd {
	username := m.store.Identity().Username
	return func() tea.Msg {
		songs, err := m.library.Favorites(m.ctx, username)
		return favoritesFetchedMsg{songs: songs, applied: true, err: err}
	}
}

func (m *Model) toggleFavorite(songID string, add bool) tea.Cmd {
	username := m.store.Identity().Username
	return func() tea.Msg {
		result, err := m.engine.ToggleFavorite(m.ctx, username, songID, add, nil)
		if err != nil {
			return favoritesFetchedMsg{err: err}
		}
		return favoritesFetchedMsg{songs: result.Favorites, applied: result.Applied}
	}
}

func (m *Model) runSearch(seq int, query string) tea.Cmd {
	return func() tea.Msg {
		suggestions, _ := m.catalog.Autocomplete(m.ctx, query)
		songs, err := m.catalog.SearchAll(m.ctx, query)
		return searchResultsMsg{
			seq:         seq,
			songs:       songs,
			suggestions: suggestions,
			err:         err,
		}
	}
}

func (m *Model) buildRadio(seedID string) tea.Cmd {
	return func() tea.Msg {
		result, err := m.engine.BuildRadio(m.ctx, seedID, radioQueueSize, nil)
		return radioBuiltMsg{result: result, err: err}
	}
}

func (m *Model) fetchSocial() tea.Cmd {
	username := m.store.Identity().Username
	return func() tea.Msg {
		following, err := m.social.Following(m.ctx, username)
		if err != nil {
			return socialFetchedMsg{err: err}
		}
		suggestions, _ := m.social.SuggestUsers(m.ctx, username, 5)
		return socialFetchedMsg{following: following, suggestions: suggestions}
	}
}

func (m *Model) fetchUsers() tea.Cmd {
	return func() tea.Msg {
		users, err := m.admin.ListUsers(m.ctx)
		return usersFetchedMsg{users: users, err: err}
	}
}

func (m *Model) fetchMetrics() tea.Cmd {
	return func() tea.Msg {
		report, err := m.engine.CollectMetrics(m.ctx, 5, nil)
		return metricsFetchedMsg{report: report, err: err}
	}
}

func (m *Model) renderLogin() string {
	title := styles.title.Render("SyncUp Login")

	var feedback string
	if m.loginFeedback != "" {
		feedback = "\n" + styles.err.Render(m.loginFeedback)
	}

	helpView := styles.help.Render("tab to switch field, enter to submit, ctrl+c to quit")
	return fmt.Sprintf("%s\n%s\n%s%s\n\n%s", title, m.username.View(), m.password.View(), feedback, helpView)
}

func (m *Model) renderSongList(title string) string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress h for home, q to quit", m.err))
	}

	header := styles.title.Render(title)
	helpKeys := []key.Binding{m.keys.enter, m.keys.favorite, m.keys.radio, m.keys.search, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n%s\n\n%s", header, m.songList.View(), helpView)
}

func (m *Model) renderSearch() string {
	title := styles.title.Render("Search")

	var b strings.Builder
	b.WriteString(title)
	b.WriteString("\n")
	b.WriteString(m.searchInput.View())
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString("\n" + styles.err.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	if len(m.suggestions) > 0 {
		b.WriteString("\n" + styles.help.Render("Suggestions: "+strings.Join(m.suggestions, ", ")))
	}

	if len(m.results) > 0 {
		b.WriteString("\n")
		for i, song := range m.results {
			marker := " "
			if m.favorites[song.ID] {
				marker = "♥"
			}
			b.WriteString(fmt.Sprintf("\n%s %d. %s - %s", marker, i+1, song.Artist, song.Title))
		}
	}

	b.WriteString("\n\n" + styles.help.Render("esc to go back, ctrl+c to quit"))
	return b.String()
}

func (m *Model) renderRadio() string {
	if m.radio == nil || len(m.radio.Queue) == 0 {
		return styles.warn.Render("No radio queue\n\nPress esc to go back")
	}

	current := m.radio.Queue[m.radioIndex]
	title := styles.title.Render(fmt.Sprintf("Radio: %s - %s", m.radio.Seed.Artist, m.radio.Seed.Title))
	now := styles.ok.Render(fmt.Sprintf("▶ %s - %s", current.Artist, current.Title))
	position := fmt.Sprintf("Track %d of %d", m.radioIndex+1, len(m.radio.Queue))

	var upNext string
	next := m.radio.Queue[(m.radioIndex+1)%len(m.radio.Queue)]
	upNext = styles.help.Render(fmt.Sprintf("Up next: %s - %s", next.Artist, next.Title))

	helpKeys := []key.Binding{m.keys.next, m.keys.prev, m.keys.back, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n%s\n%s\n%s\n\n%s", title, now, position, upNext, helpView)
}

func (m *Model) renderSocial() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress h for home, q to quit", m.err))
	}

	title := styles.title.Render("Following")

	var b strings.Builder
	b.WriteString(title)
	if len(m.following) == 0 {
		b.WriteString("\nNot following anyone yet")
	}
	for _, username := range m.following {
		b.WriteString("\n  • " + username)
	}

	if len(m.suggested) > 0 {
		b.WriteString("\n\n" + styles.warn.Render("Suggested users"))
		for _, username := range m.suggested {
			b.WriteString("\n  • " + username)
		}
	}

	b.WriteString("\n\n" + styles.help.Render("esc to go back, q to quit"))
	return b.String()
}

func (m *Model) renderAdmin() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress h for home, q to quit", m.err))
	}

	title := styles.title.Render("Administration")

	var b strings.Builder
	b.WriteString(title)
	b.WriteString(fmt.Sprintf("\nUsers: %d", len(m.users)))
	for _, user := range m.users {
		b.WriteString(fmt.Sprintf("\n  • %s (%s)", user.Username, user.Role))
	}

	if m.metrics != nil {
		b.WriteString("\n\n" + styles.warn.Render("Top genres"))
		for _, line := range rankedLines(m.metrics.Metrics.TopGenres) {
			b.WriteString("\n  " + line)
		}

		if len(m.metrics.Errors) > 0 {
			b.WriteString("\n\n" + styles.err.Render(fmt.Sprintf("%d metrics endpoints failed", len(m.metrics.Errors))))
		}
	}

	b.WriteString("\n\n" + styles.help.Render("esc to go back, q to quit"))
	return b.String()
}

// rankedLines orders a count map by descending count for display.
func rankedLines(counts map[string]int64) []string {
	type entry struct {
		name  string
		count int64
	}
	entries := make([]entry, 0, len(counts))
	for name, count := range counts {
		entries = append(entries, entry{name, count})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].name < entries[j].name
	})

	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, fmt.Sprintf("%s: %d", e.name, e.count))
	}
	return lines
}
