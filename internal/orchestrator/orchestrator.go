// Package orchestrator runs manual, command and automatic translations of
// chat messages.
package orchestrator

import (
	"context"
	"errors"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/valpere/chattran/internal/apperr"
	"github.com/valpere/chattran/internal/chat"
	"github.com/valpere/chattran/internal/events"
	"github.com/valpere/chattran/internal/postprocess"
	"github.com/valpere/chattran/internal/prompt"
	"github.com/valpere/chattran/internal/settings"
	"github.com/valpere/chattran/internal/store"
	"github.com/valpere/chattran/internal/translator"
)

// Host owns the transcript the orchestrator works on.
type Host interface {
	Len() int
	Message(index int) (chat.Message, error)
	Update(index int, fn func(*chat.Message) error) error
	Save(ctx context.Context) error
	Render(ctx context.Context, index int) error
}

// ConfigSource hands out configuration snapshots.
type ConfigSource interface {
	Snapshot() settings.Config
}

// Notifier reports failures of user-requested operations to the user.
type Notifier interface {
	Notify(ctx context.Context, err error)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, err error)

func (f NotifierFunc) Notify(ctx context.Context, err error) { f(ctx, err) }

// HistoryRecorder stores completed translations.
type HistoryRecorder interface {
	RecordTranslation(ctx context.Context, e store.HistoryEntry) error
}

// Subscriber registers event handlers.
type Subscriber interface {
	Subscribe(name events.Name, h events.Handler)
}

type Options struct {
	Notifier Notifier
	History  HistoryRecorder
	Logger   *zap.SugaredLogger
}

type Orchestrator struct {
	config   ConfigSource
	client   translator.Client
	host     Host
	notifier Notifier
	history  HistoryRecorder
	logger   *zap.SugaredLogger

	mu       sync.Mutex
	inFlight map[string]struct{}
}

// errStale is returned when a message changed while its translation was in
// flight; the translation is discarded.
var errStale = apperr.New(apperr.KindConflict, "message changed during translation")

func New(config ConfigSource, client translator.Client, host Host, opts Options) *Orchestrator {
	o := &Orchestrator{
		config:   config,
		client:   client,
		host:     host,
		notifier: opts.Notifier,
		history:  opts.History,
		logger:   opts.Logger,
		inFlight: make(map[string]struct{}),
	}
	if o.notifier == nil {
		o.notifier = NotifierFunc(func(context.Context, error) {})
	}
	if o.logger == nil {
		o.logger = zap.NewNop().Sugar()
	}
	return o
}

// Translate translates text with the current configuration. It returns ""
// with a nil error when the backend produced nothing usable. Failures are
// reported to the notifier and returned.
func (o *Orchestrator) Translate(ctx context.Context, text string) (string, error) {
	cfg := o.config.Snapshot()
	out, err := o.translate(ctx, cfg, text)
	if err != nil {
		return "", o.fail(ctx, err)
	}
	if out != "" {
		o.record(ctx, cfg, nil, text, out)
	}
	return out, nil
}

// translate checks preconditions, builds the prompt, calls the backend and
// cleans the result.
func (o *Orchestrator) translate(ctx context.Context, cfg settings.Config, text string) (string, error) {
	if cfg.ConnectionProfile == "" {
		return "", apperr.ErrNoBackend
	}
	lang := settings.ResolveLanguage(cfg.TargetLanguage)
	if lang == "" {
		return "", apperr.ErrNoLanguage
	}
	p, ok := cfg.Preset()
	if !ok {
		return "", apperr.ErrNoPreset
	}

	res, err := o.client.Send(ctx, cfg.ConnectionProfile, prompt.Build(p, lang, text), cfg.Tokens())
	if err != nil {
		return "", apperr.Wrap(err, apperr.KindBackendFailure, "translation failed")
	}

	return postprocess.ExtractCodeBlock(translator.ResultText(res), cfg.FilterCodeBlock), nil
}

// Toggle flips the message at index between original and translated text.
// Reverting never calls the backend. Blank messages are left alone.
func (o *Orchestrator) Toggle(ctx context.Context, index int) (chat.Message, error) {
	m, err := o.host.Message(index)
	if err != nil {
		return chat.Message{}, o.fail(ctx, err)
	}

	if !m.IsTranslated() && m.IsBlank() {
		return m, nil
	}

	if !o.acquire(m.ID) {
		return m, o.fail(ctx, apperr.ErrInFlight)
	}
	defer o.release(m.ID)

	// An automatic translation may have landed before the slot was taken.
	id := m.ID
	if m, err = o.host.Message(index); err != nil {
		return chat.Message{}, o.fail(ctx, err)
	}
	if m.ID != id {
		return m, o.fail(ctx, errStale)
	}

	if m.IsTranslated() {
		reverted, err := o.revert(ctx, index, m.ID)
		if err != nil {
			return m, o.fail(ctx, err)
		}
		return reverted, nil
	}

	cfg := o.config.Snapshot()
	source := m.SourceText()
	out, err := o.translate(ctx, cfg, source)
	if err != nil {
		return m, o.fail(ctx, err)
	}
	if out == "" {
		return m, nil
	}

	applied, err := o.apply(ctx, cfg, index, m.ID, source, out)
	if err != nil {
		return m, o.fail(ctx, err)
	}
	return applied, nil
}

func (o *Orchestrator) revert(ctx context.Context, index int, id string) (chat.Message, error) {
	var reverted chat.Message
	err := o.host.Update(index, func(m *chat.Message) error {
		if m.ID != id {
			return errStale
		}
		m.Revert()
		reverted = m.Clone()
		return nil
	})
	if err != nil {
		return chat.Message{}, err
	}
	if err := o.host.Render(ctx, index); err != nil {
		return reverted, err
	}
	if err := o.host.Save(ctx); err != nil {
		return reverted, err
	}
	return reverted, nil
}

// apply stores translation on the message at index if it is still the
// message with the given ID and source text, then renders and saves it.
func (o *Orchestrator) apply(ctx context.Context, cfg settings.Config, index int, id, source, translation string) (chat.Message, error) {
	var applied chat.Message
	err := o.host.Update(index, func(m *chat.Message) error {
		if m.ID != id || m.SourceText() != source {
			return errStale
		}
		m.ApplyTranslation(translation)
		applied = m.Clone()
		return nil
	})
	if err != nil {
		return chat.Message{}, err
	}

	if err := o.host.Render(ctx, index); err != nil {
		return applied, err
	}
	if err := o.host.Save(ctx); err != nil {
		return applied, err
	}

	o.record(ctx, cfg, &applied, source, translation)
	return applied, nil
}

// AutoTranslate translates the message at index if the auto mode covers
// direction and the message still needs it. It reports whether a translation
// was applied. Failures are logged, never surfaced.
func (o *Orchestrator) AutoTranslate(ctx context.Context, index int, direction chat.Direction) bool {
	cfg := o.config.Snapshot()
	if !cfg.AutoMode.ShouldTrigger(direction) {
		return false
	}

	m, err := o.host.Message(index)
	if err != nil {
		o.logger.Warnw("Automatic translation skipped", "index", index, "error", err)
		return false
	}
	if m.Direction != direction || m.IsTranslated() || m.IsBlank() || cfg.ConnectionProfile == "" {
		return false
	}

	if !o.acquire(m.ID) {
		o.logger.Debugw("Automatic translation already running", "messageID", m.ID, "index", index)
		return false
	}
	defer o.release(m.ID)

	source := m.SourceText()
	out, err := o.translate(ctx, cfg, source)
	if err != nil {
		o.logger.Warnw("Automatic translation failed",
			"messageID", m.ID,
			"index", index,
			"error", err,
		)
		return false
	}
	if out == "" {
		return false
	}

	if _, err := o.apply(ctx, cfg, index, m.ID, source, out); err != nil {
		if errors.Is(err, errStale) {
			o.logger.Debugw("Automatic translation discarded", "messageID", m.ID, "index", index)
		} else {
			o.logger.Warnw("Automatic translation failed",
				"messageID", m.ID,
				"index", index,
				"error", err,
			)
		}
		return false
	}

	o.logger.Infow("Message translated automatically",
		"messageID", m.ID,
		"index", index,
		"direction", direction,
	)
	return true
}

// HandleEvent dispatches a lifecycle event to the automatic path. It never
// returns an error.
func (o *Orchestrator) HandleEvent(ctx context.Context, ev events.Event) error {
	switch ev.Name {
	case events.InboundRendered, events.MessageRegenerated:
		o.AutoTranslate(ctx, ev.Index, chat.Inbound)
	case events.OutboundRendered:
		o.AutoTranslate(ctx, ev.Index, chat.Outbound)
	}
	return nil
}

// Subscribe wires the automatic path to bus.
func (o *Orchestrator) Subscribe(bus Subscriber) {
	bus.Subscribe(events.InboundRendered, o.HandleEvent)
	bus.Subscribe(events.OutboundRendered, o.HandleEvent)
	bus.Subscribe(events.MessageRegenerated, o.HandleEvent)
}

// CommandArgs are the arguments of the translate command.
type CommandArgs struct {
	// Language overrides the target language for this call only.
	Language string
	// Text is translated when set; otherwise the latest message is.
	Text string
}

// RunCommand translates args.Text, or the latest message when no text is
// given. In the latter case the translation is also applied to the message.
// The language override never touches the shared configuration.
func (o *Orchestrator) RunCommand(ctx context.Context, args CommandArgs) (string, error) {
	cfg := o.config.Snapshot()
	if lang := strings.TrimSpace(args.Language); lang != "" {
		cfg = cfg.WithLanguage(lang)
	}

	if text := strings.TrimSpace(args.Text); text != "" {
		out, err := o.translate(ctx, cfg, text)
		if err != nil {
			return "", o.fail(ctx, err)
		}
		if out != "" {
			o.record(ctx, cfg, nil, text, out)
		}
		return out, nil
	}

	n := o.host.Len()
	if n == 0 {
		return "", nil
	}
	index := n - 1
	m, err := o.host.Message(index)
	if err != nil {
		return "", o.fail(ctx, err)
	}

	source := m.SourceText()
	if strings.TrimSpace(source) == "" {
		return "", nil
	}

	if !o.acquire(m.ID) {
		return "", o.fail(ctx, apperr.ErrInFlight)
	}
	defer o.release(m.ID)

	out, err := o.translate(ctx, cfg, source)
	if err != nil {
		return "", o.fail(ctx, err)
	}
	if out == "" {
		return "", nil
	}

	if _, err := o.apply(ctx, cfg, index, m.ID, source, out); err != nil {
		return out, o.fail(ctx, err)
	}
	return out, nil
}

func (o *Orchestrator) acquire(id string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, busy := o.inFlight[id]; busy {
		return false
	}
	o.inFlight[id] = struct{}{}
	return true
}

func (o *Orchestrator) release(id string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.inFlight, id)
}

// fail reports err to the user and returns it.
func (o *Orchestrator) fail(ctx context.Context, err error) error {
	o.notifier.Notify(ctx, err)
	return err
}

func (o *Orchestrator) record(ctx context.Context, cfg settings.Config, m *chat.Message, source, translation string) {
	if o.history == nil {
		return
	}

	e := store.HistoryEntry{
		SourceText:     source,
		TargetLang:     settings.ResolveLanguage(cfg.TargetLanguage),
		TranslatedText: translation,
		Profile:        cfg.ConnectionProfile,
	}
	if p, ok := cfg.Preset(); ok {
		e.Preset = p.Name
	}
	if m != nil {
		e.MessageID = m.ID
		e.Direction = m.Direction
	}

	if err := o.history.RecordTranslation(ctx, e); err != nil {
		o.logger.Warnw("Failed to record translation", "error", err)
	}
}
