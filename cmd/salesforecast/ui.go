package main

import (
	"io"
	"time"

	"github.com/briandowns/spinner"
)

const spinnerRefreshRate = 200 * time.Millisecond

// progress is the terminal feedback shown while a model is fit
type progress interface {
	Start()
	Stop()
	UpdateSuffix(suffix string)
}

type termSpinner struct {
	s *spinner.Spinner
}

func (ts *termSpinner) Start() {
	ts.s.Start()
}

func (ts *termSpinner) Stop() {
	ts.s.Stop()
}

func (ts *termSpinner) UpdateSuffix(suffix string) {
	ts.s.Suffix = suffix
}

type noProgress struct{}

func (noProgress) Start()              {}
func (noProgress) Stop()               {}
func (noProgress) UpdateSuffix(string) {}

var newProgress = func(w io.Writer, quiet bool) progress {
	if quiet {
		return noProgress{}
	}
	s := spinner.New(spinner.CharSets[11], spinnerRefreshRate, spinner.WithWriter(w))
	return &termSpinner{s}
}
