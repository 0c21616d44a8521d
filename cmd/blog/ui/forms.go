package ui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/huh"
)

const minPasswordLength = 6

// Credentials collects email and password. Fields already set are not asked
// for again.
func Credentials(email, password *string, register bool) error {
	var fields []huh.Field

	if strings.TrimSpace(*email) == "" {
		fields = append(fields, huh.NewInput().
			Title("Email").
			Placeholder("you@example.com").
			Value(email).
			Validate(func(s string) error {
				if !strings.Contains(s, "@") {
					return errors.New("invalid email")
				}
				return nil
			}))
	}

	if *password == "" {
		input := huh.NewInput().
			Title("Password").
			EchoMode(huh.EchoModePassword).
			Value(password)
		if register {
			input = input.Validate(func(s string) error {
				if len(s) < minPasswordLength {
					return errors.New("password must be at least 6 characters")
				}
				return nil
			})
		}
		fields = append(fields, input)
	}

	if len(fields) == 0 {
		return nil
	}
	return huh.NewForm(huh.NewGroup(fields...)).WithTheme(huh.ThemeCatppuccin()).Run()
}

// PostDraft collects a new post. tags is a comma separated list.
func PostDraft(title, content, tags *string) error {
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Value(title).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("title is required")
					}
					return nil
				}),

			huh.NewText().
				Title("Content").
				Description("HTML is allowed").
				Value(content).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("content is required")
					}
					return nil
				}),

			huh.NewInput().
				Title("Tags").
				Description("Comma separated, optional").
				Value(tags),
		),
	).WithTheme(huh.ThemeCatppuccin())

	return form.Run()
}

// Confirm asks a yes/no question.
func Confirm(title string) (bool, error) {
	var ok bool
	err := huh.NewConfirm().
		Title(title).
		Affirmative("Yes").
		Negative("No").
		Value(&ok).
		Run()
	return ok, err
}

// SplitTags parses a comma separated tag list, dropping empty entries.
func SplitTags(s string) []string {
	tags := []string{}
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
