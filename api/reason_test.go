package api_test

import (
	"testing"

	"github.com/momentics/procsig/api"
)

func TestReasonSubspaces(t *testing.T) {
	if api.ReasonInvalid.IsValid() || api.ReasonInvalid.IsCustom() {
		t.Error("ReasonInvalid must lie outside the reason space")
	}
	if api.CustomReasonFirst.CustomSlot() != 0 {
		t.Errorf("CustomReasonFirst slot = %d, want 0", api.CustomReasonFirst.CustomSlot())
	}
	if api.CustomReasonLast.CustomSlot() != api.MaxCustomReasons-1 {
		t.Errorf("CustomReasonLast slot = %d", api.CustomReasonLast.CustomSlot())
	}
	builtin := api.Reason(0)
	if builtin.IsCustom() {
		t.Error("builtin reason reported custom")
	}
	if !builtin.IsValid() {
		t.Error("builtin reason reported invalid")
	}
	if builtin.CustomSlot() != -1 {
		t.Error("builtin reason has a custom slot")
	}
}

func TestReasonString(t *testing.T) {
	cases := map[api.Reason]string{
		api.ReasonInvalid:         "invalid",
		api.Reason(3):             "builtin(3)",
		api.CustomReasonFirst + 5: "custom(5)",
		api.Reason(999):           "out-of-range(999)",
	}
	for r, want := range cases {
		if got := r.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", int(r), got, want)
		}
	}
}
