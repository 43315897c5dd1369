package ui

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestConfirm(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    bool
		wantErr error
	}{
		{name: "yes", input: "y\n", want: true},
		{name: "full yes uppercase", input: "YES\n", want: true},
		{name: "yes without newline", input: "y", want: true},
		{name: "no", input: "n\n", want: false},
		{name: "empty answer defaults to no", input: "\n", want: false},
		{name: "anything else is no", input: "sure\n", want: false},
		{name: "eof", input: "", wantErr: ErrCancelled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			term := NewTerminal(strings.NewReader(tt.input), &out)

			got, err := term.Confirm("Overwrite?")
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Confirm() error = %v, want %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Confirm() = %v, want %v", got, tt.want)
			}
			if !strings.Contains(out.String(), "Overwrite? (y/N)") {
				t.Errorf("prompt not written, output: %q", out.String())
			}
		})
	}
}

func TestTerminal_NonInteractiveOutput(t *testing.T) {
	var out bytes.Buffer
	term := NewTerminal(strings.NewReader(""), &out)

	term.Intro("jpeg_to_pdf")
	s := term.Spinner()
	s.Start("Converting")
	s.Message("Embedding image")
	s.Stop("Converted")
	term.Success("Created out.pdf")
	term.Cancel("nothing")
	term.Outro("Done")

	got := out.String()
	if strings.Contains(got, clearLine) {
		t.Errorf("non-terminal output contains control sequences: %q", got)
	}
	for _, want := range []string{
		"┌  jpeg_to_pdf\n",
		"│  Converting\n",
		"│  Embedding image\n",
		"◇  Converted\n",
		"✔  Created out.pdf\n",
		"■  nothing\n",
		"└  Done\n",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}
