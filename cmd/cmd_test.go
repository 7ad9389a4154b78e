package cmd

import (
	"flag"
	"testing"
	"time"

	"github.com/etnz/inflation"
	"github.com/etnz/inflation/date"
)

func TestCommands(t *testing.T) {
	seen := make(map[string]bool)
	for _, c := range Commands() {
		if seen[c.Name()] {
			t.Errorf("command %q is registered twice", c.Name())
		}
		seen[c.Name()] = true
		if c.Synopsis() == "" || c.Usage() == "" {
			t.Errorf("command %q has no synopsis or usage", c.Name())
		}
	}
	for _, name := range []string{"serve", "project", "cpis", "cpi", "correct", "etl", "enrich", "schedule", "topic"} {
		if !seen[name] {
			t.Errorf("command %q is not registered", name)
		}
	}
}

func TestProjectCmd_params(t *testing.T) {
	testCases := []struct {
		name    string
		args    []string
		want    func(p inflation.Params) bool
		wantErr bool
	}{
		{"defaults", []string{"-recurring", "1000"}, func(p inflation.Params) bool {
			return p.Frequency == date.Monthly && p.Years == 26 && p.Tax == 17.2 && p.Custody == inflation.FirstYearCustody
		}, false},
		{"initial only", []string{"-initial", "5000"}, func(p inflation.Params) bool {
			return p.InitialAmount == 5000 && p.RecurringAmount == 0
		}, false},
		{"nothing invested", nil, nil, true},
		{"weekly cumulative", []string{"-frequency", "weekly", "-recurring", "50", "-custody-accrual", "cumulative"}, func(p inflation.Params) bool {
			return p.Frequency == date.Weekly && p.RecurringAmount == 50 && p.Custody == inflation.CumulativeCustody
		}, false},
		{"unknown frequency", []string{"-recurring", "1000", "-frequency", "daily"}, nil, true},
		{"unknown accrual", []string{"-recurring", "1000", "-custody-accrual", "never"}, nil, true},
		{"invalid fee", []string{"-recurring", "1000", "-tax", "120"}, nil, true},
		{"no years", []string{"-recurring", "1000", "-years", "0"}, nil, true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := &projectCmd{}
			fs := flag.NewFlagSet("project", flag.ContinueOnError)
			c.SetFlags(fs)
			if err := fs.Parse(tc.args); err != nil {
				t.Fatal(err)
			}
			p, err := c.params()
			if (err != nil) != tc.wantErr {
				t.Fatalf("params() error = %v, want error %v", err, tc.wantErr)
			}
			if tc.want != nil && !tc.want(p) {
				t.Errorf("params() = %+v", p)
			}
		})
	}
}

func TestCorrectCmd_args(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	testCases := []struct {
		args    []string
		wantErr bool
	}{
		{[]string{"1", "2000", "2020", "100"}, false},
		{[]string{"1", "2000", "2024", "0.5"}, false},
		{[]string{"1", "2000", "2020"}, true},
		{[]string{"0", "2000", "2020", "100"}, true},
		{[]string{"x", "2000", "2020", "100"}, true},
		{[]string{"1", "1900", "2020", "100"}, true},
		{[]string{"1", "2000", "2025", "100"}, true},
		{[]string{"1", "2000", "2020", "-1"}, true},
		{[]string{"1", "2000", "2020", "abc"}, true},
	}
	c := &correctCmd{}
	for _, tc := range testCases {
		id, from, to, amount, err := c.args(tc.args, now)
		if (err != nil) != tc.wantErr {
			t.Errorf("args(%v) error = %v, want error %v", tc.args, err, tc.wantErr)
			continue
		}
		if !tc.wantErr && (id != 1 || from != 2000 || amount <= 0 || to < 2020) {
			t.Errorf("args(%v) = %d, %d, %d, %v", tc.args, id, from, to, amount)
		}
	}
}

func TestCompletion(t *testing.T) {
	root := Completion()
	for _, c := range Commands() {
		if root.Sub[c.Name()] == nil {
			t.Errorf("Completion() misses %q", c.Name())
		}
	}
	if _, ok := root.Sub["project"].Flags["custody-accrual"]; !ok {
		t.Error("Completion() misses the project -custody-accrual flag")
	}
	if root.Sub["topic"].Args == nil {
		t.Error("Completion() does not predict topics")
	}
}
