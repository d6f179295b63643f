package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/gymform/internal/analytics"
	"github.com/alexanderramin/gymform/internal/cli/formatter"
	"github.com/alexanderramin/gymform/internal/domain"
	"github.com/alexanderramin/gymform/internal/payment"
	"github.com/alexanderramin/gymform/internal/service"
	"github.com/alexanderramin/gymform/internal/survey"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
)

const loadTickInterval = 250 * time.Millisecond

// ── messages ─────────────────────────────────────────────────────────────────

// loadTickMsg drives the loading screen.
type loadTickMsg struct{ gen int }

type submissionDoneMsg struct{ outcome service.SubmissionOutcome }

type checkoutDoneMsg struct {
	checkout *payment.Checkout
	err      error
}

type planDoneMsg struct {
	plan domain.PlanType
	err  error
}

// resultsStage is where the user is within the results screen.
type resultsStage int

const (
	stageChoosePlan resultsStage = iota
	stageCheckout
	stageToken
)

// noticeBar receives validation notices from the navigator.
type noticeBar struct{ current *survey.Notice }

func (b *noticeBar) Notify(n survey.Notice) { b.current = &n }
func (b *noticeBar) Dismiss()               { b.current = nil }

// tuiModel is the root bubbletea model of the survey. It owns the app flow
// and swaps the screen it renders on every state change.
type tuiModel struct {
	ctx     context.Context
	app     *App
	flow    *survey.Flow
	session *survey.Session
	nav     *survey.Navigator
	forms   *survey.Dispatcher[stepForm]
	notices *noticeBar
	clock   *tuiClock
	current stepForm
	// queued collects commands produced by navigator callbacks.
	queued []tea.Cmd

	width    int
	spinner  spinner.Model
	bar      progress.Model
	loadGen  int
	started  time.Time
	percent  int
	planDone *planDoneMsg

	warnings  []string
	summary   string
	stage     resultsStage
	plan      string
	planForm  *huh.Form
	checkout  *payment.Checkout
	token     string
	tokenForm *huh.Form
	lastErr   error
	delivered domain.PlanType
}

// newTUIModel restores the saved answers and opens the survey at startStep.
// A startStep of 0 resumes at the first step.
func newTUIModel(ctx context.Context, app *App, startStep int) *tuiModel {
	m := &tuiModel{
		ctx:     ctx,
		app:     app,
		notices: &noticeBar{},
		spinner: spinner.New(spinner.WithSpinner(formatter.SpinnerStyle()), spinner.WithStyle(formatter.StyleHeader)),
		bar:     progress.New(progress.WithGradient(string(formatter.ColorYellow), string(formatter.ColorGreen)), progress.WithWidth(40)),
	}
	m.flow = survey.NewFlow(survey.WithLoadingDuration(app.Config.LoadingDuration), survey.OnTransition(func(from, to survey.AppState) {
		app.logger().Debug("app state changed", "from", from, "to", to)
	}))
	m.session = survey.NewSession(app.FormStore.Load(ctx), app.FormStore)
	m.forms = newStepDispatcher(app.Catalog, m.session.Snapshot, app.logger())
	m.clock = newTUIClock(app.now)
	m.nav = m.newNavigator(startStep)
	return m
}

func (m *tuiModel) newNavigator(startStep int) *survey.Navigator {
	return survey.NewNavigator(m.app.Catalog, m.app.validator(), m.session,
		survey.WithInitialStep(startStep),
		survey.WithNotifier(m.notices),
		survey.WithClock(m.clock),
		survey.WithStepChange(func(int, survey.Direction) {
			m.enqueue(m.loadStepForm(), m.trackStep())
		}),
		survey.WithCompletion(func() {
			m.enqueue(m.complete())
		}),
	)
}

func (m *tuiModel) enqueue(cmds ...tea.Cmd) {
	m.queued = append(m.queued, cmds...)
}

// flush returns everything queued by navigator callbacks plus any timers
// they scheduled.
func (m *tuiModel) flush() tea.Cmd {
	cmds := append(m.queued, m.clock.takeCmds()...)
	m.queued = nil
	return tea.Batch(cmds...)
}

func (m *tuiModel) Init() tea.Cmd {
	return tea.Batch(m.loadStepForm(), m.trackStep())
}

func (m *tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.bar.Width = min(max(msg.Width-10, 10), 60)
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.nav.Close()
			return m, tea.Quit
		}
	case clockFireMsg:
		m.clock.fire(msg.id)
		return m, m.flush()
	case loadTickMsg:
		if msg.gen != m.loadGen || m.flow.State() != survey.StateLoading {
			return m, nil
		}
		return m, m.onLoadTick()
	case submissionDoneMsg:
		m.warnings = msg.outcome.Warnings()
		return m, nil
	case checkoutDoneMsg:
		return m, m.onCheckout(msg)
	case planDoneMsg:
		m.planDone = &msg
		return m, m.resolvePlan()
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if m.flow.State() != survey.StateLoading {
			return m, nil
		}
		return m, cmd
	}

	switch m.flow.State() {
	case survey.StateForm:
		return m, m.updateForm(msg)
	case survey.StateResults:
		return m, m.updateResults(msg)
	case survey.StateSuccess:
		return m, m.updateSuccess(msg)
	}
	return m, nil
}

// ── form ─────────────────────────────────────────────────────────────────────

func (m *tuiModel) loadStepForm() tea.Cmd {
	sf, ok := m.forms.Dispatch(m.nav.Step())
	if !ok {
		return nil
	}
	if m.width > 0 {
		sf.form = sf.form.WithWidth(m.width)
	}
	m.current = sf
	return sf.form.Init()
}

func (m *tuiModel) updateForm(msg tea.Msg) tea.Cmd {
	if key, ok := msg.(tea.KeyMsg); ok && key.Type == tea.KeyEsc {
		m.nav.HandleBack()
		return m.flush()
	}
	if m.current.form == nil || m.current.form.State == huh.StateCompleted {
		return nil
	}

	form, cmd := m.current.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.current.form = f
	}
	if m.current.form.State != huh.StateCompleted {
		return cmd
	}

	// Commands left over from a completed form would leak into the next one.
	m.session.Update(m.ctx, m.current.apply)
	// Only an answer that already validates moves on by itself. Anything
	// else goes through an explicit Next so the notice shows.
	auto := m.nav.Current().AutoAdvance && m.nav.Check() == nil
	if delay := m.app.Config.AutoAdvanceDelay; auto && delay > 0 {
		m.nav.ScheduleAutoAdvance(delay, m.afterNext)
		return m.flush()
	}
	m.afterNext(m.nav.HandleNext(auto))
	return m.flush()
}

// afterNext reacts to a Next the navigator did not turn into a step change
// or completion.
func (m *tuiModel) afterNext(res survey.Result) {
	if res.Outcome == survey.OutcomeBlocked {
		// A completed huh form cannot be edited again.
		m.enqueue(m.loadStepForm())
	}
}

func (m *tuiModel) complete() tea.Cmd {
	if err := m.flow.Complete(); err != nil {
		m.app.logger().Warn("completing survey", "error", err)
		return nil
	}
	m.warnings = nil
	fd := m.session.Snapshot()
	submit := func() tea.Msg {
		return submissionDoneMsg{outcome: m.app.Submissions.Submit(m.ctx, fd)}
	}
	return tea.Batch(submit, m.trackCmd(analytics.Event{Name: analytics.EventLead}), m.startLoading())
}

// ── loading ──────────────────────────────────────────────────────────────────

func (m *tuiModel) startLoading() tea.Cmd {
	m.loadGen++
	m.started = m.app.now()
	m.percent = 0
	return tea.Batch(m.loadTick(), m.spinner.Tick)
}

func (m *tuiModel) loadTick() tea.Cmd {
	gen := m.loadGen
	return tea.Tick(loadTickInterval, func(time.Time) tea.Msg { return loadTickMsg{gen: gen} })
}

func (m *tuiModel) onLoadTick() tea.Cmd {
	elapsed := m.app.now().Sub(m.started)
	if m.flow.Purpose() == survey.LoadingPlan {
		if cmd := m.resolvePlan(); cmd != nil || m.flow.State() != survey.StateLoading {
			return cmd
		}
		return m.loadTick()
	}

	m.percent = m.flow.Progress(elapsed)
	if m.percent < 100 {
		return m.loadTick()
	}
	if err := m.flow.FinishLoading(); err != nil {
		m.app.logger().Warn("finishing analysis", "error", err)
		return nil
	}
	return m.enterResults()
}

// resolvePlan leaves plan loading once the request has returned and the
// minimum plan screen time has passed.
func (m *tuiModel) resolvePlan() tea.Cmd {
	if m.planDone == nil || m.flow.State() != survey.StateLoading || m.flow.Purpose() != survey.LoadingPlan {
		return nil
	}
	if m.app.now().Sub(m.started) < m.app.Config.PlanDuration {
		return nil
	}
	done := *m.planDone
	m.planDone = nil

	if done.err != nil {
		if err := m.flow.PlanFailed(done.err); err != nil {
			return nil
		}
		m.lastErr = done.err
		return m.startTokenStage()
	}
	if err := m.flow.PlanDelivered(); err != nil {
		return nil
	}
	m.delivered = done.plan
	return m.trackCmd(analytics.Event{Name: analytics.EventPurchase, Plan: string(done.plan)})
}

// ── results ──────────────────────────────────────────────────────────────────

func (m *tuiModel) enterResults() tea.Cmd {
	md := formatter.SummaryMarkdown(m.session.Snapshot(), m.app.Catalog)
	out, err := formatter.RenderMarkdown(md, m.width, "dark")
	if err != nil {
		m.app.logger().Warn("rendering summary", "error", err)
		out = md
	}
	m.summary = out
	m.lastErr = nil
	return m.startPlanStage()
}

func (m *tuiModel) startPlanStage() tea.Cmd {
	m.stage = stageChoosePlan
	if m.plan == "" {
		m.plan = string(domain.PlanCombined)
	}
	opts := make([]huh.Option[string], len(domain.PlanTypes))
	for i, p := range domain.PlanTypes {
		opts[i] = huh.NewOption(p.Label(), string(p))
	}
	m.planForm = themedForm(huh.NewGroup(
		huh.NewSelect[string]().Title("Choose your plan").Options(opts...).Value(&m.plan),
	))
	return m.planForm.Init()
}

func (m *tuiModel) startTokenStage() tea.Cmd {
	m.stage = stageToken
	m.token = ""
	m.tokenForm = themedForm(huh.NewGroup(
		huh.NewInput().
			Title("Paste the token from the success page").
			Description("The whole success URL works too. Leave empty to pick another plan.").
			Value(&m.token),
	))
	return m.tokenForm.Init()
}

func (m *tuiModel) updateResults(msg tea.Msg) tea.Cmd {
	switch m.stage {
	case stageChoosePlan:
		cmd, done := forwardToForm(&m.planForm, msg)
		if !done {
			return cmd
		}
		m.stage = stageCheckout
		m.lastErr = nil
		plan := domain.PlanType(m.plan)
		email := m.session.Snapshot().PersonalInfo.Email
		begin := func() tea.Msg {
			co, err := m.app.Checkout.Begin(m.ctx, plan, email)
			return checkoutDoneMsg{checkout: co, err: err}
		}
		return tea.Batch(begin, m.trackCmd(analytics.Event{Name: analytics.EventInitiateCheckout, Plan: m.plan}))

	case stageToken:
		cmd, done := forwardToForm(&m.tokenForm, msg)
		if !done {
			return cmd
		}
		token := extractToken(m.token)
		if token == "" {
			return m.startPlanStage()
		}
		return m.requestPlan(token)
	}
	return nil
}

func (m *tuiModel) onCheckout(msg checkoutDoneMsg) tea.Cmd {
	if m.flow.State() != survey.StateResults || m.stage != stageCheckout {
		return nil
	}
	if msg.err != nil {
		m.lastErr = msg.err
		return m.startPlanStage()
	}
	m.checkout = msg.checkout
	return m.startTokenStage()
}

func (m *tuiModel) requestPlan(token string) tea.Cmd {
	if err := m.flow.RequestPlan(); err != nil {
		return nil
	}
	m.lastErr = nil
	m.planDone = nil
	fd := m.session.Snapshot()
	claim := func() tea.Msg {
		plan, err := m.app.Plans.Claim(m.ctx, token, fd)
		return planDoneMsg{plan: plan, err: err}
	}
	return tea.Batch(claim, m.startLoading())
}

// ── success ──────────────────────────────────────────────────────────────────

func (m *tuiModel) updateSuccess(msg tea.Msg) tea.Cmd {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	switch key.String() {
	case "q", "enter":
		m.nav.Close()
		return tea.Quit
	case "r":
		return m.reset()
	}
	return nil
}

// reset clears every answer and starts a fresh survey.
func (m *tuiModel) reset() tea.Cmd {
	if err := m.app.FormStore.Reset(m.ctx); err != nil {
		m.app.logger().Warn("resetting answers", "error", err)
	}
	m.session.Replace(m.ctx, domain.NewFormData())
	m.nav.Close()
	m.nav = m.newNavigator(1)
	m.notices.Dismiss()
	m.flow.Reset()
	m.loadGen++
	m.warnings, m.summary, m.checkout, m.lastErr = nil, "", nil, nil
	m.plan, m.delivered = "", ""
	return tea.Batch(m.loadStepForm(), m.trackStep())
}

// ── helpers ──────────────────────────────────────────────────────────────────

// forwardToForm forwards msg to *form and reports whether it completed.
func forwardToForm(form **huh.Form, msg tea.Msg) (tea.Cmd, bool) {
	if *form == nil || (*form).State == huh.StateCompleted {
		return nil, false
	}
	updated, cmd := (*form).Update(msg)
	if f, ok := updated.(*huh.Form); ok {
		*form = f
	}
	return cmd, (*form).State == huh.StateCompleted
}

func (m *tuiModel) trackStep() tea.Cmd {
	s := m.nav.Current()
	return m.trackCmd(analytics.Event{Name: analytics.EventStepViewed, Step: s.ID, StepName: s.Name})
}

func (m *tuiModel) trackCmd(e analytics.Event) tea.Cmd {
	return func() tea.Msg {
		track(m.ctx, m.app, e)
		return nil
	}
}

// ── views ────────────────────────────────────────────────────────────────────

func (m *tuiModel) View() string {
	switch m.flow.State() {
	case survey.StateLoading:
		return m.loadingView()
	case survey.StateResults:
		return m.resultsView()
	case survey.StateSuccess:
		return m.successView()
	default:
		return m.formView()
	}
}

func (m *tuiModel) formView() string {
	var b strings.Builder
	step := m.nav.Current()
	cat, _ := m.app.Catalog.StepCategory(step.ID)
	fmt.Fprintf(&b, "%s  %s\n", formatter.StyleHeader.Render(categoryTitle(cat)),
		formatter.RenderProgress(step.ID, m.nav.Total(), 24))
	b.WriteString("\n")
	if m.current.form != nil {
		b.WriteString(m.current.form.View())
		b.WriteString("\n")
	}
	if n := m.notices.current; n != nil {
		b.WriteString("\n" + formatter.Error(n.Message) + "\n")
	}
	if m.nav.AutoAdvancePending() {
		b.WriteString("\n" + formatter.Dim("Saved, moving on..."))
	}
	b.WriteString("\n" + formatter.Dim("enter continue · esc back · ctrl+c quit"))
	return b.String()
}

func (m *tuiModel) loadingView() string {
	if m.flow.Purpose() == survey.LoadingPlan {
		return fmt.Sprintf("\n %s Building your %s...\n", m.spinner.View(), domain.PlanType(m.plan).Label())
	}
	var b strings.Builder
	b.WriteString("\n " + formatter.StyleHeader.Render("Analysing your answers") + "\n\n")
	fmt.Fprintf(&b, " %s %3d%%\n", m.bar.ViewAs(float64(m.percent)/100), m.percent)
	return b.String()
}

func (m *tuiModel) resultsView() string {
	var b strings.Builder
	b.WriteString(m.summary)
	for _, w := range m.warnings {
		b.WriteString(formatter.Warning(w) + "\n")
	}
	if m.lastErr != nil {
		b.WriteString(formatter.Error(m.lastErr.Error()) + "\n")
	}
	b.WriteString("\n")

	switch m.stage {
	case stageChoosePlan:
		b.WriteString(m.planForm.View())
	case stageCheckout:
		fmt.Fprintf(&b, "%s Creating checkout session...", m.spinner.View())
	case stageToken:
		if m.checkout != nil {
			fmt.Fprintf(&b, "Open this page to pay for your %s:\n\n  %s\n\n", domain.PlanType(m.plan).Label(), m.checkout.URL)
		}
		b.WriteString(m.tokenForm.View())
	}
	return b.String()
}

func (m *tuiModel) successView() string {
	to := m.session.Snapshot().PersonalInfo.Email
	if to == "" {
		to = "you"
	}
	msg := fmt.Sprintf("%s Your %s is on its way to %s.",
		formatter.StyleGreen.Render("✔"), m.delivered.Label(), to)
	return "\n" + formatter.RenderBox("Thank you", msg) + "\n\n " + formatter.Dim("r start over · q quit") + "\n"
}

func categoryTitle(c survey.Category) string {
	s := strings.ReplaceAll(string(c), "_", " ")
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
