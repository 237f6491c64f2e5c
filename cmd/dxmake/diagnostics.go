package main

import (
	"io"
	"log"

	"dxmake/internal/diag"

	"github.com/hashicorp/hcl/v2"
	"github.com/mitchellh/colorstring"
)

// stopWriter reports diagnostics as "make:  summary:  'detail'" followed by
// "Stop." unless the run only queried the targets.
type stopWriter struct {
	log   *log.Logger
	out   io.Writer
	color *colorstring.Colorize
	// source writes the diagnostic with a makefile snippet when set
	source hcl.DiagnosticWriter
	query  bool
}

func newStopWriter(out io.Writer, color bool) *stopWriter {
	return &stopWriter{
		log: log.New(out, "make:  ", 0),
		out: out,
		color: &colorstring.Colorize{
			Colors:  colorstring.DefaultColors,
			Disable: !color,
			Reset:   true,
		},
	}
}

func (writer *stopWriter) WriteDiagnostic(diagnostic *hcl.Diagnostic) error {
	if suggestion, ok := diag.Suggested(diagnostic); ok {
		writer.log.Println(diag.DidYouMean + " '" + suggestion + "'?")
		return nil
	}

	if writer.source != nil {
		return writer.source.WriteDiagnostic(diagnostic)
	}

	// only the summary is coloured, details are user text
	message := writer.color.Color("[red]" + diagnostic.Summary)
	if diagnostic.Detail != "" {
		message += ":  '" + diagnostic.Detail + "'"
	}
	writer.log.Println(message)

	return nil
}

func (writer *stopWriter) WriteDiagnostics(diags hcl.Diagnostics) error {
	for _, diagnostic := range diags {
		if err := writer.WriteDiagnostic(diagnostic); err != nil {
			return err
		}
	}

	if !writer.query {
		_, err := io.WriteString(writer.out, writer.color.Color("[red]Stop.")+"\n")
		return err
	}

	return nil
}
