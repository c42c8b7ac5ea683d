package domain

import "testing"

func TestStatus_CanTransitionTo(t *testing.T) {
	allowed := map[Status][]Status{
		StatusDraft:     {StatusPending, StatusCancelled},
		StatusPending:   {StatusPaid, StatusOverdue, StatusCancelled},
		StatusOverdue:   {StatusPaid, StatusCancelled},
		StatusPaid:      nil,
		StatusCancelled: nil,
	}

	for _, from := range Statuses() {
		for _, to := range Statuses() {
			want := false
			for _, a := range allowed[from] {
				if a == to {
					want = true
				}
			}
			if got := from.CanTransitionTo(to); got != want {
				t.Errorf("CanTransitionTo(%s -> %s) = %v, want %v", from, to, got, want)
			}
		}
	}
}

func TestStatus_NoSelfTransitions(t *testing.T) {
	for _, s := range Statuses() {
		if s.CanTransitionTo(s) {
			t.Errorf("self-transition allowed for %s", s)
		}
	}
}

func TestStatus_Terminal(t *testing.T) {
	terminal := map[Status]bool{
		StatusDraft:     false,
		StatusPending:   false,
		StatusOverdue:   false,
		StatusPaid:      true,
		StatusCancelled: true,
	}
	for s, want := range terminal {
		if got := s.Terminal(); got != want {
			t.Errorf("Terminal(%s) = %v, want %v", s, got, want)
		}
	}
}

func TestStatus_Valid(t *testing.T) {
	for _, s := range Statuses() {
		if !s.Valid() {
			t.Errorf("Valid(%s) = false", s)
		}
	}
	for _, s := range []Status{"", "draft", "SHIPPED", "UNKNOWN"} {
		if s.Valid() {
			t.Errorf("Valid(%q) = true", s)
		}
	}
}

func TestStatus_Label(t *testing.T) {
	cases := map[Status]string{
		StatusPending:   "Pending",
		StatusOverdue:   "Overdue",
		StatusPaid:      "Paid",
		StatusCancelled: "Cancelled",
		"":              "",
	}
	for s, want := range cases {
		if got := s.Label(); got != want {
			t.Errorf("Label(%s) = %q, want %q", s, got, want)
		}
	}
}

func TestStatus_UnknownStatusHasNoTransitions(t *testing.T) {
	if got := Status("BOGUS").Next(); got != nil {
		t.Errorf("Next(BOGUS) = %v, want nil", got)
	}
	if Status("BOGUS").Terminal() {
		t.Error("unknown status must not be terminal")
	}
}
