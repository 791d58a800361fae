package main

import (
	"errors"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
)

// errAborted signals the user aborted a prompt (e.g., Ctrl+C).
var errAborted = errors.New("view-cli: aborted")

// templatePicker asks the user to choose one template name.
type templatePicker interface {
	PickTemplate(names []string) (string, error)
}

type surveyPicker struct{}

func (surveyPicker) PickTemplate(names []string) (string, error) {
	if len(names) == 0 {
		return "", errors.New("view-cli: no templates to choose from")
	}
	var out string
	prompt := &survey.Select{
		Message: "Template to render:",
		Options: names,
	}
	if err := survey.AskOne(prompt, &out, survey.WithValidator(survey.Required)); err != nil {
		return "", translateSurveyErr(err)
	}
	return out, nil
}

func translateSurveyErr(err error) error {
	if errors.Is(err, terminal.InterruptErr) {
		return errAborted
	}
	return err
}
