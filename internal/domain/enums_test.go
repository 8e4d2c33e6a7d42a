package domain

import "testing"

func TestJobType_IsValid(t *testing.T) {
	t.Parallel()

	for _, j := range AllJobTypes() {
		if !j.IsValid() {
			t.Errorf("JobType(%q).IsValid() = false, want true", j)
		}
	}
	for _, j := range []JobType{"", "delta", "DESC-ADD"} {
		if j.IsValid() {
			t.Errorf("JobType(%q).IsValid() = true, want false", j)
		}
	}
}

func TestJobType_Inputs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		job      JobType
		current  bool
		previous bool
		database bool
	}{
		{JobOverview, true, false, false},
		{JobDescAdditions, true, false, true},
		{JobDescInactivate, true, false, true},
		{JobFullDelta, true, false, true},
		{JobEszettCheck, false, false, true},
		{JobNotPublished, true, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.job.String(), func(t *testing.T) {
			t.Parallel()
			if got := tt.job.NeedsCurrentFile(); got != tt.current {
				t.Errorf("NeedsCurrentFile() = %v, want %v", got, tt.current)
			}
			if got := tt.job.NeedsPreviousFile(); got != tt.previous {
				t.Errorf("NeedsPreviousFile() = %v, want %v", got, tt.previous)
			}
			if got := tt.job.NeedsDatabase(); got != tt.database {
				t.Errorf("NeedsDatabase() = %v, want %v", got, tt.database)
			}
		})
	}
}

func TestCategory_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		cat  Category
		want bool
	}{
		{CategoryAddition, true},
		{CategoryChange, true},
		{CategoryInactivation, true},
		{CategoryReactivation, true},
		{CategoryNotPublished, true},
		{Category("UNCHANGED"), false},
		{Category(""), false},
	}
	for _, tt := range tests {
		t.Run(string(tt.cat), func(t *testing.T) {
			t.Parallel()
			if got := tt.cat.IsValid(); got != tt.want {
				t.Errorf("Category(%q).IsValid() = %v, want %v", tt.cat, got, tt.want)
			}
		})
	}
}

func TestRelease_IsValid(t *testing.T) {
	t.Parallel()

	if !ReleaseCurrent.IsValid() || !ReleasePrevious.IsValid() {
		t.Error("current and previous must be valid releases")
	}
	if Release("next").IsValid() {
		t.Error("unexpected valid release")
	}
}
