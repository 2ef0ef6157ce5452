package app

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/Rorical/RoriDocs/internal/catalog"
	"github.com/Rorical/RoriDocs/internal/config"
	"github.com/Rorical/RoriDocs/internal/core"
	"github.com/Rorical/RoriDocs/internal/dispatcher"
	"github.com/Rorical/RoriDocs/internal/eventbus"
	"github.com/Rorical/RoriDocs/internal/models"
	"github.com/Rorical/RoriDocs/internal/tree"
	"github.com/Rorical/RoriDocs/internal/update"
	"github.com/Rorical/RoriDocs/internal/watch"
)

// Application manages the complete browsing session lifecycle
type Application struct {
	config     *config.Config
	eventBus   *eventbus.EventBus
	dispatcher *dispatcher.EventDispatcher
	watcher    *watch.Watcher
	controller *core.Controller
	model      *AppModel
	logger     *zap.Logger
}

type options struct {
	loader core.Loader
	logger *zap.Logger
	watch  bool
}

type Option func(*options)

// WithLoader replaces the file loader used for documents
func WithLoader(loader core.Loader) Option {
	return func(o *options) { o.loader = loader }
}

func WithLogger(logger *zap.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithWatch turns filesystem watching on or off. It is on by default.
func WithWatch(enabled bool) Option {
	return func(o *options) { o.watch = enabled }
}

// NewApplication builds a session over docsRoot, the already cached docs
// folder of ds. A docsRoot that cannot be listed is an error.
func NewApplication(cfg *config.Config, ds catalog.Dataset, docsRoot string, opts ...Option) (*Application, error) {
	o := options{
		loader: core.FileLoader{},
		logger: zap.NewNop(),
		watch:  true,
	}
	for _, opt := range opts {
		opt(&o)
	}

	docs := tree.New(docsRoot)
	if err := docs.Err(); err != nil {
		return nil, fmt.Errorf("open %s: %w", docsRoot, err)
	}

	eb := eventbus.NewEventBus()
	eb.SetErrorCallback(func(e eventbus.EventBusError) {
		o.logger.Debug("event bus", zap.String("operation", e.Operation), zap.Error(e.Err))
	})
	disp := dispatcher.NewEventDispatcher(eb)

	var w *watch.Watcher
	if o.watch {
		var err error
		w, err = watch.New(eb, watch.WithLogger(o.logger.Named("watch")))
		if err != nil {
			// browsing still works, only live refresh is lost
			o.logger.Warn("filesystem watcher unavailable", zap.Error(err))
			w = nil
		}
	}

	model := &AppModel{
		appModel: models.AppModel{
			DatasetKey: ds.Key,
			Focus:      models.FocusTree,
			ShowTOC:    cfg.ShowTOC,
		},
		keys:       update.DefaultKeyMap,
		tree:       docs,
		viewport:   viewport.New(0, 0),
		help:       help.New(),
		dispatcher: disp,
		watcher:    w,
		config:     cfg,
		logger:     o.logger,
	}
	controller := core.NewController(o.loader, model, o.logger.Named("navigation"))
	model.controller = controller
	model.syncWatcher()
	model.refreshContent()

	return &Application{
		config:     cfg,
		eventBus:   eb,
		dispatcher: disp,
		watcher:    w,
		controller: controller,
		model:      model,
		logger:     o.logger,
	}, nil
}

// Model exposes the bubbletea model
func (app *Application) Model() *AppModel {
	return app.model
}

func (app *Application) Start() error {
	app.logger.Info("session started",
		zap.String("dataset", app.model.appModel.DatasetKey),
		zap.String("root", app.model.tree.Root()),
	)

	p := tea.NewProgram(app.model, tea.WithAltScreen())
	_, err := p.Run()

	return err
}

func (app *Application) Stop() {
	app.savePreferences()
	app.controller.Stop()
	app.dispatcher.Stop()
	if app.watcher != nil {
		if err := app.watcher.Close(); err != nil {
			app.logger.Debug("close watcher", zap.Error(err))
		}
	}
	app.eventBus.Close()
}

// savePreferences keeps the outline toggle for the next session. Configs
// that were not loaded from a file are left alone.
func (app *Application) savePreferences() {
	showTOC := app.model.appModel.ShowTOC
	if app.config.Path() == "" || app.config.ShowTOC == showTOC {
		return
	}
	app.config.ShowTOC = showTOC
	if err := app.config.Save(); err != nil {
		app.logger.Warn("save preferences", zap.String("path", app.config.Path()), zap.Error(err))
	}
}
