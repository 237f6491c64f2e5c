package lines

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCloneIsIndependent(t *testing.T) {
	// arrange
	original := FromStrings("cc -c foo.c", "link foo.obj")

	// act
	copied := original.Clone()
	copied.AppendText("strip foo.exe")

	// assert
	if original.Len() != 2 {
		t.Errorf("expected original to keep 2 lines but got %d", original.Len())
	}

	if diff := cmp.Diff([]string{"cc -c foo.c", "link foo.obj", "strip foo.exe"}, copied.Texts()); diff != "" {
		t.Errorf("unexpected copy (-want +got):\n%s", diff)
	}
}

func TestSubjectOnlyForFileLines(t *testing.T) {
	line := Line{Text: "all: foo"}
	if line.Subject() != nil {
		t.Error("expected no subject for a line without filename")
	}

	line.Range = At("Makefile", 3, line.Text)
	subject := line.Subject()
	if subject == nil || subject.Start.Line != 3 || subject.End.Column != 9 {
		t.Errorf("unexpected subject %#v", subject)
	}
}
