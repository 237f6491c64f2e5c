package diag

import (
	"testing"

	"github.com/hashicorp/hcl/v2"
)

func TestSuggest(t *testing.T) {
	// arrange
	diags := Error(CantMake, "al", nil)

	// act
	diags = Suggest(diags, "all")

	// assert
	if len(diags) != 2 || !diags.HasErrors() {
		t.Fatalf("expected the error followed by a suggestion but got %v", diags)
	}

	if diags[1].Severity != hcl.DiagWarning {
		t.Errorf("expected the suggestion to be a warning but got %v", diags[1].Severity)
	}

	if suggestion, ok := Suggested(diags[1]); !ok || suggestion != "all" {
		t.Errorf("expected suggestion 'all' but got %q", suggestion)
	}

	if _, ok := Suggested(diags[0]); ok {
		t.Errorf("expected the error itself to carry no suggestion")
	}
}

func TestSuggestNothing(t *testing.T) {
	diags := Suggest(Error(CantMake, "zzz", nil), "")
	if len(diags) != 1 {
		t.Errorf("expected no suggestion to be added but got %v", diags)
	}
}
