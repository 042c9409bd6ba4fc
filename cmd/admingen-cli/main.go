package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/goliatone/go-admingen/internal/demo"
	"github.com/goliatone/go-admingen/pkg/admin"
	"github.com/goliatone/go-admingen/pkg/config"
	"github.com/goliatone/go-admingen/pkg/display"
	"github.com/goliatone/go-admingen/pkg/entity"
	"github.com/goliatone/go-admingen/pkg/form"
	"github.com/goliatone/go-admingen/pkg/modelconfig"
	"github.com/goliatone/go-admingen/pkg/openapi"
	"github.com/goliatone/go-admingen/pkg/prompt"
	"github.com/goliatone/go-admingen/pkg/repository"
	"github.com/goliatone/go-admingen/pkg/request"
	"github.com/goliatone/go-admingen/pkg/storage"
	"github.com/goliatone/go-admingen/pkg/validation"
)

type app struct {
	cfg      config.Config
	repo     *repository.Gorm
	registry *modelconfig.Registry
	actions  *admin.Service
	store    storage.Storage
	driver   prompt.Driver
	logger   *log.Logger
	schema   string
}

func main() {
	configPath := flag.String("config", "", "admin config file (JSON or YAML)")
	envFile := flag.String("env", ".env", "dotenv file applied before the config")
	section := flag.String("section", "posts", "section alias")
	action := flag.String("action", "list", "list, browse, create, edit, delete, destroy or restore")
	key := flag.String("id", "", "row key for edit, delete, destroy and restore")
	seed := flag.Bool("seed", false, "insert demo rows before running")
	schema := flag.String("schema", "", "OpenAPI document whose component schema drives the post form")
	verbose := flag.Bool("verbose", false, "log SQL queries")
	flag.Parse()

	ctx := context.Background()
	logger := log.New(os.Stderr, "admingen ", log.LstdFlags)

	if err := config.LoadEnv(*envFile); err != nil {
		log.Fatalf("Failed to load env: %v", err)
	}
	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		cfg = loaded
	} else {
		cfg.ApplyEnv()
	}

	a, err := setup(ctx, cfg, logger, *verbose)
	if err != nil {
		log.Fatalf("Failed to start: %v", err)
	}
	a.schema = *schema

	if *seed {
		if err := demo.Seed(ctx, a.repo); err != nil {
			log.Fatalf("Failed to seed: %v", err)
		}
	}

	if err := a.run(ctx, *section, *action, *key); err != nil {
		if errors.Is(err, prompt.ErrAborted) {
			os.Exit(130)
		}
		log.Fatalf("%s %s: %v", *section, *action, err)
	}
}

func setup(ctx context.Context, cfg config.Config, logger *log.Logger, verbose bool) (*app, error) {
	opts := cfg.Database.OpenOptions()
	if verbose {
		opts.Logger = logger
	}
	db, err := repository.Open(cfg.Database.Driver, cfg.Database.DSN, opts)
	if err != nil {
		return nil, err
	}
	repo := repository.NewGorm(db, repository.WithLogger(logger))
	if err := repo.Migrate(ctx, demo.Models()...); err != nil {
		return nil, err
	}

	var registry *modelconfig.Registry
	if len(cfg.Sections) > 0 {
		registry, err = config.BuildRegistry(cfg, demo.Classes())
	} else {
		registry, err = demo.Registry()
	}
	if err != nil {
		return nil, err
	}

	actions, err := admin.NewService(registry, repo, admin.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:      cfg,
		repo:     repo,
		registry: registry,
		actions:  actions,
		store:    storage.NewLocal(cfg.UploadRoot(), cfg.Uploads.BaseURL),
		driver:   prompt.NewSurvey(),
		logger:   logger,
	}, nil
}

func (a *app) run(ctx context.Context, alias, action, key string) error {
	section, err := a.registry.Section(alias)
	if err != nil {
		return err
	}

	switch action {
	case "list":
		_, err := a.list(ctx, section)
		return err
	case "browse":
		return a.browse(ctx, section)
	case "create":
		return a.edit(ctx, section, nil)
	case "edit":
		row, err := a.find(ctx, section, key)
		if err != nil {
			return err
		}
		return a.edit(ctx, section, row)
	case "delete", "destroy", "restore":
		if key == "" {
			return errors.New("-id is required")
		}
		return a.perform(ctx, section, display.Action(action), key)
	default:
		return fmt.Errorf("unknown action %q", action)
	}
}

func (a *app) find(ctx context.Context, section *modelconfig.Section, key string) (entity.Entity, error) {
	if key == "" {
		return nil, errors.New("-id is required")
	}
	rows, err := a.repo.List(ctx, section.Class(), repository.ListOptions{WithTrashed: true, Preload: demo.Preload(section.Alias())})
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		if fmt.Sprint(row.PrimaryKey()) == key {
			return row, nil
		}
	}
	return nil, fmt.Errorf("%s %s: %w", section.Alias(), key, repository.ErrNotFound)
}

// list prints the section table and returns the rendered rows.
func (a *app) list(ctx context.Context, section *modelconfig.Section) ([]display.Row, error) {
	columns, err := demo.Columns(section.Alias(), section, display.WithLocalizer(a.cfg.Localizer()))
	if err != nil {
		return nil, err
	}
	rows, err := a.repo.List(ctx, section.Class(), repository.ListOptions{WithTrashed: true, Preload: demo.Preload(section.Alias())})
	if err != nil {
		return nil, err
	}
	table := display.NewTable(columns...)
	rendered, err := table.Render(rows)
	if err != nil {
		return nil, err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	var header []string
	for _, h := range table.Headers() {
		label := h.Label
		if label == "" {
			label = h.Name
		}
		header = append(header, strings.ToUpper(label))
	}
	fmt.Fprintln(w, strings.Join(header, "\t"))
	for _, row := range rendered {
		var cells []string
		for _, cell := range row.Cells {
			cells = append(cells, cellText(cell))
		}
		fmt.Fprintln(w, strings.Join(cells, "\t"))
	}
	if err := w.Flush(); err != nil {
		return nil, err
	}
	return rendered, nil
}

func cellText(cell display.Cell) string {
	if len(cell.Buttons) == 0 {
		if cell.Value == nil {
			return ""
		}
		return fmt.Sprint(cell.Value)
	}
	names := make([]string, 0, len(cell.Buttons))
	for _, button := range cell.Buttons {
		names = append(names, fmt.Sprintf("[%s %s]", button.Method, button.URL))
	}
	return strings.Join(names, " ")
}

// browse lists the rows, lets the user pick one and follow one of its
// control buttons.
func (a *app) browse(ctx context.Context, section *modelconfig.Section) error {
	for {
		rendered, err := a.list(ctx, section)
		if err != nil {
			return err
		}

		options := []string{"(quit)", "(create)"}
		for _, row := range rendered {
			state := ""
			if row.Trashed {
				state = " (trashed)"
			}
			options = append(options, fmt.Sprintf("%v%s", row.Key, state))
		}
		idx, err := a.driver.Select(ctx, prompt.SelectConfig{Message: section.Title(), Options: options})
		if err != nil {
			return err
		}
		switch {
		case idx <= 0:
			return nil
		case idx == 1:
			if err := a.edit(ctx, section, nil); err != nil {
				return err
			}
			continue
		}

		row := rendered[idx-2]
		buttons := controlButtons(row)
		name, err := prompt.Action(ctx, a.driver, fmt.Sprintf("%s %v", section.Title(), row.Key), buttons)
		if err != nil {
			return err
		}
		switch name {
		case "":
			continue
		case string(display.ActionEdit):
			found, err := a.find(ctx, section, fmt.Sprint(row.Key))
			if err != nil {
				return err
			}
			err = a.edit(ctx, section, found)
			if err != nil {
				return err
			}
		default:
			if err := a.perform(ctx, section, display.Action(name), fmt.Sprint(row.Key)); err != nil {
				_ = a.driver.Info(ctx, err.Error())
			}
		}
	}
}

func controlButtons(row display.Row) []display.ButtonView {
	for _, cell := range row.Cells {
		if cell.Column == "control" {
			return cell.Buttons
		}
	}
	return nil
}

func (a *app) perform(ctx context.Context, section *modelconfig.Section, action display.Action, key string) error {
	row, err := a.find(ctx, section, key)
	if err != nil {
		return err
	}
	if _, err := a.actions.Perform(ctx, action, section.Class(), row.PrimaryKey()); err != nil {
		return err
	}
	return a.driver.Info(ctx, fmt.Sprintf("%s %s %s", section.Title(), key, pastTense(action)))
}

func pastTense(action display.Action) string {
	if strings.HasSuffix(string(action), "e") {
		return string(action) + "d"
	}
	return string(action) + "ed"
}

func (a *app) elements(ctx context.Context, section *modelconfig.Section) ([]form.Element, error) {
	if a.schema == "" || section.Class() != entity.ClassFor[demo.Post]() {
		return demo.Elements(section.Alias(), a.repo, a.store)
	}
	doc, err := openapi.LoadFile(ctx, a.schema)
	if err != nil {
		return nil, err
	}
	builder := openapi.NewBuilder(
		openapi.WithRepository(a.repo),
		openapi.WithStorage(a.store, "covers"),
		openapi.WithClasses(demo.Classes()),
	)
	return builder.ComponentElements(doc, "Post")
}

// edit collects input for row, or a new row when nil, until it validates
// and saves.
func (a *app) edit(ctx context.Context, section *modelconfig.Section, row entity.Entity) error {
	elements, err := a.elements(ctx, section)
	if err != nil {
		return err
	}
	f := form.New(elements,
		form.WithRepository(a.repo),
		form.WithRegistry(a.registry),
		form.WithLogger(a.logger),
		form.WithDefaults(form.Defaults{Localizer: a.cfg.Localizer()}),
	)
	if row != nil {
		f.SetModel(row)
	} else if err := f.SetModelClass(section.Class()); err != nil {
		return err
	}
	if err := f.Initialize(ctx); err != nil {
		return err
	}

	for {
		in, err := prompt.Collect(ctx, a.driver, f.View().Elements)
		if err != nil {
			return err
		}
		if err := f.ValidateForm(ctx, nil, in); err != nil {
			var failed *validation.Error
			if !errors.As(err, &failed) {
				return err
			}
			report(ctx, a.driver, failed)
			continue
		}
		if err := a.save(ctx, f, in); err != nil {
			return err
		}
		return a.driver.Info(ctx, fmt.Sprintf("%s %v saved", section.Title(), f.Model().PrimaryKey()))
	}
}

func (a *app) save(ctx context.Context, f *form.Form, in request.Input) error {
	if err := f.SaveForm(ctx, nil, in); err != nil {
		if errors.Is(err, form.ErrVetoed) {
			return fmt.Errorf("save cancelled: %w", err)
		}
		return err
	}
	return nil
}

func report(ctx context.Context, driver prompt.Driver, failed *validation.Error) {
	for _, msg := range failed.Form {
		_ = driver.Info(ctx, msg)
	}
	fields := failed.FieldNames()
	sort.Strings(fields)
	for _, field := range fields {
		for _, msg := range failed.Fields[field] {
			_ = driver.Info(ctx, fmt.Sprintf("%s: %s", field, msg))
		}
	}
}
