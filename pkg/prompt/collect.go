package prompt

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-admingen/pkg/display"
	"github.com/goliatone/go-admingen/pkg/form"
	"github.com/goliatone/go-admingen/pkg/request"
)

// maxFileMemory bounds the in-memory part of files read for upload prompts.
const maxFileMemory = 32 << 20

// Collect asks one question per editable element view and returns the
// answers as request input. Readonly views are skipped.
func Collect(ctx context.Context, driver Driver, views []form.ElementView) (*request.Form, error) {
	if driver == nil {
		return nil, errors.New("prompt: driver is required")
	}
	in := request.FromMap(nil)
	for _, view := range views {
		if view.Readonly {
			continue
		}
		if err := ask(ctx, driver, view, in); err != nil {
			return nil, fmt.Errorf("prompt: %s: %w", view.Name, err)
		}
	}
	return in, nil
}

func ask(ctx context.Context, driver Driver, view form.ElementView, in *request.Form) error {
	current := ""
	if view.Value != nil {
		current = fmt.Sprint(view.Value)
	}
	message := view.Label
	if view.Required {
		message += " *"
	}

	switch {
	case view.Type == "checkbox":
		checked, err := driver.Confirm(ctx, ConfirmConfig{Message: message, Default: current == "true", Help: view.Help})
		if err != nil {
			return err
		}
		if checked {
			in.Set(view.Name, "on")
		}
	case len(view.Choices) > 0:
		value, err := choose(ctx, driver, view, message)
		if err != nil {
			return err
		}
		in.Set(view.Name, value)
	case view.Type == "textarea":
		text, err := driver.TextArea(ctx, TextAreaConfig{Message: message, Default: current, Help: view.Help})
		if err != nil {
			return err
		}
		in.Set(view.Name, text)
	case view.Type == "upload":
		path, err := driver.Input(ctx, InputConfig{Message: message + " (file path, empty keeps current)", Help: view.Help})
		if err != nil {
			return err
		}
		if strings.TrimSpace(path) == "" {
			return nil
		}
		header, err := FileHeader(view.Name, strings.TrimSpace(path))
		if err != nil {
			return err
		}
		in.AttachFile(view.Name, header)
	default:
		cfg := InputConfig{Message: message, Default: current, Help: view.Help}
		if view.Required {
			cfg.Validator = requireText
		}
		text, err := driver.Input(ctx, cfg)
		if err != nil {
			return err
		}
		in.Set(view.Name, text)
	}
	return nil
}

func choose(ctx context.Context, driver Driver, view form.ElementView, message string) (string, error) {
	options := make([]string, 0, len(view.Choices)+1)
	values := make([]string, 0, len(view.Choices)+1)
	if !view.Required {
		options = append(options, "(none)")
		values = append(values, "")
	}
	selected := 0
	for _, choice := range view.Choices {
		if choice.Selected {
			selected = len(options)
		}
		options = append(options, choice.Label)
		values = append(values, choice.Value)
	}

	idx, err := driver.Select(ctx, SelectConfig{Message: message, Options: options, DefaultIndex: selected, Help: view.Help})
	if err != nil {
		return "", err
	}
	if idx < 0 || idx >= len(values) {
		return "", fmt.Errorf("choice %d out of range", idx)
	}
	return values[idx], nil
}

func requireText(answer string) error {
	if strings.TrimSpace(answer) == "" {
		return errors.New("a value is required")
	}
	return nil
}

// FileHeader reads the local file at path into a multipart file header
// submitted under field.
func FileHeader(field, path string) (*multipart.FileHeader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile(field, filepath.Base(path))
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	parsed, err := multipart.NewReader(&body, writer.Boundary()).ReadForm(maxFileMemory)
	if err != nil {
		return nil, err
	}
	headers := parsed.File[field]
	if len(headers) == 0 {
		return nil, fmt.Errorf("no file read from %s", path)
	}
	return headers[0], nil
}

// Action asks which of buttons to follow. It returns the chosen button name,
// or "" when the user picks none.
func Action(ctx context.Context, driver Driver, message string, buttons []display.ButtonView) (string, error) {
	options := []string{"(back)"}
	for _, button := range buttons {
		options = append(options, button.Label)
	}
	idx, err := driver.Select(ctx, SelectConfig{Message: message, Options: options})
	if err != nil {
		return "", err
	}
	if idx <= 0 || idx > len(buttons) {
		return "", nil
	}
	return buttons[idx-1].Name, nil
}
